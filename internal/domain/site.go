package domain

type NavigationItem struct {
	Title    string           `json:"title"`
	URL      string           `json:"url"`
	Children []NavigationItem `json:"children,omitempty"`
}

type BreadcrumbItem struct {
	Title string `json:"title"`
	URL   string `json:"url,omitempty"`
}

// Translations is the flat i18n dictionary the CMS publishes per locale.
type Translations map[string]string

// Get returns the label for key, or fallback when the key is missing or blank.
func (t Translations) Get(key, fallback string) string {
	if v, ok := t[key]; ok && v != "" {
		return v
	}
	return fallback
}
