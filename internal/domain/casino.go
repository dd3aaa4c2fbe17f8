package domain

// CasinoData is the CMS casino record as snapshotted by the ingestor.
// Every sub-section is optional; the CMS omits blocks an editor never filled.
type CasinoData struct {
	ID          int64             `json:"id"`
	Title       string            `json:"title"`
	Slug        string            `json:"slug"`
	RatingAvg   float64           `json:"ratingAvg"`
	RatingCount int               `json:"ratingCount"`
	Bonus       *BonusSection     `json:"bonusSection,omitempty"`
	NoDeposit   *NoDepositSection `json:"noDepositSection,omitempty"`
	FreeSpins   *FreeSpinsSection `json:"freeSpinsSection,omitempty"`
	CasinoBonus *CasinoBonus      `json:"casinoBonus,omitempty"`
	Terms       string            `json:"termsAndConditions,omitempty"`
	Logo        *Image            `json:"logo,omitempty"`
	Images      []Image           `json:"images,omitempty"`
	Exclusive   bool              `json:"badges"`
	Views       int64             `json:"views"`
	CreatedAt   string            `json:"createdAt"`
	UpdatedAt   string            `json:"updatedAt,omitempty"`
	RawJSON     []byte            `json:"-"` // full CMS payload
}

// BonusSection is the welcome bonus block.
type BonusSection struct {
	BonusAmount *float64 `json:"bonusAmount,omitempty"`
	CashBack    string   `json:"cashBack,omitempty"`
	FreeSpin    string   `json:"freeSpin,omitempty"`
	Terms       string   `json:"termsConditions,omitempty"`
}

type NoDepositSection struct {
	BonusAmount *float64 `json:"bonusAmount,omitempty"`
	Terms       string   `json:"termsConditions,omitempty"`
}

type FreeSpinsSection struct {
	BonusAmount *float64 `json:"bonusAmount,omitempty"`
	Terms       string   `json:"termsConditions,omitempty"`
}

// CasinoBonus carries the editor-written fallback label.
type CasinoBonus struct {
	BonusLabel string `json:"bonusLabel,omitempty"`
	BonusURL   string `json:"bonusUrl,omitempty"`
	BonusCode  string `json:"bonusCode,omitempty"`
}

type Image struct {
	URL    string `json:"url"`
	Alt    string `json:"alternativeText,omitempty"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}
