package format

import (
	"os"
	"regexp"
	"strings"
)

const (
	IssueDoubleBase     = "Double base path detected"
	IssueMultipleSlash  = "Multiple consecutive slashes detected"
	IssueNoLeadingSlash = "Missing leading slash"
	IssueSlashOnly      = "Slash-only path"
)

var (
	multiSlash = regexp.MustCompile(`/{2,}`)
	slashOnly  = regexp.MustCompile(`^/{2,}$`)
	schemeRe   = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.-]*:`)
)

// Paths holds the tenant base path (e.g. "/it") and the public site origin.
type Paths struct {
	BasePath string
	SiteURL  string
}

// NewPaths cleans the base path to "/seg" form; "" and "/" mean no base path.
func NewPaths(basePath, siteURL string) Paths {
	b := strings.Trim(strings.TrimSpace(basePath), "/")
	if b != "" {
		b = "/" + b
	}
	return Paths{BasePath: b, SiteURL: strings.TrimRight(strings.TrimSpace(siteURL), "/")}
}

// Default is read from the environment once at start-up.
var Default = NewPaths(
	envOr("NEXT_PUBLIC_BASE_PATH", "/it"),
	envOr("NEXT_PUBLIC_SITE_URL", "https://www.example.com"),
)

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func AddBasePath(u string) string          { return Default.AddBasePath(u) }
func RemoveBasePath(u string) string       { return Default.RemoveBasePath(u) }
func NormalizeInternalURL(u string) string { return Default.NormalizeInternalURL(u) }
func DetectURLIssues(u string) []string    { return Default.DetectURLIssues(u) }
func SanitizeURL(u string) string          { return SanitizeURLPath(u) }

// IsExternal is true for anything carrying a scheme (http, https, mailto, ...).
func IsExternal(u string) bool { return schemeRe.MatchString(strings.TrimSpace(u)) }

// skip reports URLs that are never prefixed or stripped.
func (p Paths) skip(u string) bool {
	return p.BasePath == "" || u == "" || u == "/" || IsExternal(u) ||
		strings.HasPrefix(u, "#") || strings.HasPrefix(u, "?")
}

// AddBasePath prefixes internal paths with the base path exactly once.
func (p Paths) AddBasePath(u string) string {
	if p.skip(u) || hasSegmentPrefix(u, p.BasePath) {
		return u
	}
	if !strings.HasPrefix(u, "/") {
		u = "/" + u
	}
	return p.BasePath + u
}

// RemoveBasePath strips one leading base path segment.
func (p Paths) RemoveBasePath(u string) string {
	if p.skip(u) || !hasSegmentPrefix(u, p.BasePath) {
		return u
	}
	rest := u[len(p.BasePath):]
	if !strings.HasPrefix(rest, "/") {
		rest = "/" + rest
	}
	return rest
}

// NormalizeInternalURL drops one occurrence of a doubled leading base path
// ("/it/it/blog" -> "/it/blog") and leaves a single leading slash.
// It makes one pass; "/it/it/it/x" becomes "/it/it/x".
func (p Paths) NormalizeInternalURL(u string) string {
	if u == "" || IsExternal(u) || strings.HasPrefix(u, "#") || strings.HasPrefix(u, "?") {
		return u
	}
	path := "/" + strings.TrimLeft(u, "/")
	if p.BasePath != "" && hasSegmentPrefix(path, p.BasePath+p.BasePath) {
		path = path[len(p.BasePath):]
	}
	return path
}

// DetectURLIssues lists problems with u without fixing them.
func (p Paths) DetectURLIssues(u string) []string {
	var issues []string
	external := IsExternal(u)
	path := u
	if external {
		if _, rest, ok := strings.Cut(u, "://"); ok {
			path = rest
		}
	}
	path = pathPart(path)

	if p.BasePath != "" && !external {
		if containsSegmentRun(path, p.BasePath+p.BasePath) {
			issues = append(issues, IssueDoubleBase)
		}
	}
	if multiSlash.MatchString(path) {
		issues = append(issues, IssueMultipleSlash)
	}
	if !external && u != "" && !strings.HasPrefix(u, "/") &&
		!strings.HasPrefix(u, "#") && !strings.HasPrefix(u, "?") {
		issues = append(issues, IssueNoLeadingSlash)
	}
	if slashOnly.MatchString(u) {
		issues = append(issues, IssueSlashOnly)
	}
	return issues
}

// containsSegmentRun reports whether run occurs in s followed by "/" or the end.
func containsSegmentRun(s, run string) bool {
	for i := 0; i+len(run) <= len(s); {
		j := strings.Index(s[i:], run)
		if j < 0 {
			return false
		}
		end := i + j + len(run)
		if end == len(s) || s[end] == '/' {
			return true
		}
		i += j + 1
	}
	return false
}

// SanitizeURLPath collapses repeated slashes in the path component and maps
// empty or slash-only input to "/". Query and fragment are left alone.
func SanitizeURLPath(u string) string {
	s := strings.TrimSpace(u)
	if s == "" || s == "/" || slashOnly.MatchString(s) {
		return "/"
	}
	prefix := ""
	if IsExternal(s) {
		if scheme, rest, ok := strings.Cut(s, "://"); ok {
			prefix, s = scheme+"://", rest
		} else {
			return s
		}
	}
	path := pathPart(s)
	return prefix + multiSlash.ReplaceAllString(path, "/") + s[len(path):]
}

// Absolute builds the canonical absolute URL for an internal path.
func (p Paths) Absolute(u string) string {
	if IsExternal(u) {
		return u
	}
	path := p.AddBasePath(p.NormalizeInternalURL(SanitizeURLPath(u)))
	if path == "/" && p.BasePath != "" {
		path = p.BasePath
	}
	return p.SiteURL + path
}

// pathPart trims query and fragment.
func pathPart(s string) string {
	if i := strings.IndexAny(s, "?#"); i >= 0 {
		return s[:i]
	}
	return s
}

// hasSegmentPrefix matches prefix only on a path segment boundary,
// so "/it" does not match "/italia".
func hasSegmentPrefix(u, prefix string) bool {
	if !strings.HasPrefix(u, prefix) {
		return false
	}
	if len(u) == len(prefix) {
		return true
	}
	switch u[len(prefix)] {
	case '/', '?', '#':
		return true
	}
	return false
}

// URLReport is what the portal would do with one link.
type URLReport struct {
	Input      string   `json:"input"`
	Sanitized  string   `json:"sanitized"`
	Normalized string   `json:"normalized"`
	Absolute   string   `json:"absolute"`
	Issues     []string `json:"issues"`
}

func (r URLReport) OK() bool { return len(r.Issues) == 0 }

func (p Paths) Check(u string) URLReport {
	sanitized := SanitizeURLPath(u)
	r := URLReport{
		Input:      u,
		Sanitized:  sanitized,
		Normalized: p.NormalizeInternalURL(sanitized),
		Absolute:   p.Absolute(u),
		Issues:     p.DetectURLIssues(u),
	}
	if r.Issues == nil {
		r.Issues = []string{}
	}
	return r
}
