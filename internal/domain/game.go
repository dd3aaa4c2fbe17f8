package domain

type GameData struct {
	ID          int64        `json:"id"`
	Title       string       `json:"title"`
	Slug        string       `json:"slug"`
	Provider    *ProviderRef `json:"provider,omitempty"`
	RatingAvg   float64      `json:"ratingAvg"`
	RatingCount int          `json:"ratingCount"`
	Images      []Image      `json:"images,omitempty"`
	Views       int64        `json:"views"`
	CreatedAt   string       `json:"createdAt"`
	RawJSON     []byte       `json:"-"`
}

type ProviderRef struct {
	Title string `json:"title"`
	Slug  string `json:"slug"`
}
