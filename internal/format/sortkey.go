package format

import (
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
)

const (
	DefaultGameSort   = "Most Popular"
	DefaultCasinoSort = "Top Rated"
)

// SortTable maps the labels editors and visitors see to API sort expressions.
// Tables are built once and never mutated, so they are safe for concurrent use.
type SortTable struct {
	name      string
	forward   map[string]string // label -> expression
	reverse   map[string]string // expression -> label
	aliases   map[string]string // CMS variant -> label
	aliasKeys []string          // sorted, for a deterministic case-insensitive scan
}

func NewSortTable(name string, forward, aliases map[string]string) *SortTable {
	t := &SortTable{
		name:    name,
		forward: make(map[string]string, len(forward)),
		reverse: make(map[string]string, len(forward)),
		aliases: make(map[string]string, len(aliases)),
	}
	for label, expr := range forward {
		t.forward[label] = expr
		t.reverse[expr] = label
	}
	for variant, label := range aliases {
		if _, ok := forward[label]; !ok {
			panic("format: alias " + variant + " points at unknown sort label " + label)
		}
		t.aliases[variant] = label
		t.aliasKeys = append(t.aliasKeys, variant)
	}
	sort.Strings(t.aliasKeys)
	return t
}

var GameSorts = NewSortTable("game", map[string]string{
	"Most Popular": "views:desc",
	"Newest":       "createdAt:desc",
	"Top Rated":    "ratingAvg:desc",
	"A-Z":          "title:asc",
	"Z-A":          "title:desc",
}, map[string]string{
	"Popular":       "Most Popular",
	"most_popular":  "Most Popular",
	"Più popolari":  "Most Popular",
	"Popolari":      "Most Popular",
	"New":           "Newest",
	"Latest":        "Newest",
	"Recent":        "Newest",
	"Nuove":         "Newest",
	"Più recenti":   "Newest",
	"Rating":        "Top Rated",
	"Best Rated":    "Top Rated",
	"Highest Rated": "Top Rated",
	"Più votate":    "Top Rated",
	"Alphabetical":  "A-Z",
	"Alfabetico":    "A-Z",
	"az":            "A-Z",
	"za":            "Z-A",
})

var CasinoSorts = NewSortTable("casino", map[string]string{
	"Top Rated":     "ratingAvg:desc",
	"Most Reviewed": "ratingCount:desc",
	"Newest":        "createdAt:desc",
	"Most Popular":  "views:desc",
	"A-Z":           "title:asc",
}, map[string]string{
	"Best":          "Top Rated",
	"Best Casinos":  "Top Rated",
	"Migliori":      "Top Rated",
	"Rating":        "Top Rated",
	"Reviews":       "Most Reviewed",
	"Più recensiti": "Most Reviewed",
	"New":           "Newest",
	"Nuovi":         "Newest",
	"Popular":       "Most Popular",
	"Più popolari":  "Most Popular",
	"Alphabetical":  "A-Z",
	"Alfabetico":    "A-Z",
})

// Normalize resolves input to a canonical label. Lookup order: canonical
// label, alias, API expression, case-insensitive alias. Anything else is
// logged and replaced by def.
func (t *SortTable) Normalize(input, def string) string {
	if label, ok := t.lookup(input); ok {
		return label
	}
	log.Warn().
		Str("table", t.name).
		Str("input", input).
		Str("fallback", def).
		Msg("unknown sort key")
	return def
}

func (t *SortTable) lookup(input string) (string, bool) {
	if _, ok := t.forward[input]; ok {
		return input, true
	}
	key := strings.TrimSpace(input)
	if key == "" {
		return "", false
	}
	if _, ok := t.forward[key]; ok {
		return key, true
	}
	if label, ok := t.aliases[key]; ok {
		return label, true
	}
	if label, ok := t.reverse[key]; ok {
		return label, true
	}
	for _, variant := range t.aliasKeys {
		if strings.EqualFold(variant, key) {
			return t.aliases[variant], true
		}
	}
	return "", false
}

// Known reports whether input resolves without falling back.
func (t *SortTable) Known(input string) bool {
	_, ok := t.lookup(input)
	return ok
}

// Resolve normalizes input and returns the label with its API expression.
func (t *SortTable) Resolve(input, def string) (label, expr string) {
	label = t.Normalize(input, def)
	return label, t.forward[label]
}

// Expr returns the API expression for a canonical label.
func (t *SortTable) Expr(label string) (string, bool) {
	e, ok := t.forward[label]
	return e, ok
}

// Labels lists the canonical labels in a stable order.
func (t *SortTable) Labels() []string {
	out := make([]string, 0, len(t.forward))
	for l := range t.forward {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}

// NormalizeGameSort is the game listing shortcut; def defaults to "Most Popular".
func NormalizeGameSort(input string, def ...string) string {
	d := DefaultGameSort
	if len(def) > 0 && def[0] != "" {
		d = def[0]
	}
	return GameSorts.Normalize(input, d)
}

func NormalizeCasinoSort(input string, def ...string) string {
	d := DefaultCasinoSort
	if len(def) > 0 && def[0] != "" {
		d = def[0]
	}
	return CasinoSorts.Normalize(input, d)
}

// ParseSortExpr splits "field:dir". Direction defaults to ascending.
func ParseSortExpr(expr string) (field string, desc bool, ok bool) {
	field, dir, _ := strings.Cut(strings.TrimSpace(expr), ":")
	field = strings.TrimSpace(field)
	if field == "" {
		return "", false, false
	}
	switch strings.ToLower(strings.TrimSpace(dir)) {
	case "", "asc":
		return field, false, true
	case "desc":
		return field, true, true
	}
	return "", false, false
}
