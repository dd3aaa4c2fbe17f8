package app

import (
	"github.com/kenshomedia-ltd/gds-optimised-sub001/internal/domain"
	"github.com/kenshomedia-ltd/gds-optimised-sub001/internal/format"
)

// Site sections, relative to the base path.
const (
	casinosPath   = "/casino"
	gamesPath     = "/slot-machine"
	providersPath = "/software"
)

type CasinoCard struct {
	Title        string                `json:"title"`
	Slug         string                `json:"slug"`
	URL          string                `json:"url"`
	Logo         *domain.Image         `json:"logo,omitempty"`
	RatingAvg    float64               `json:"ratingAvg"`
	RatingCount  int                   `json:"ratingCount"`
	WelcomeBonus string                `json:"welcomeBonus"`
	NoDeposit    format.NoDepositBonus `json:"noDeposit"`
	Terms        string                `json:"terms,omitempty"`
	BonusURL     string                `json:"bonusUrl,omitempty"`
	BonusCode    string                `json:"bonusCode,omitempty"`
	Badge        format.Badge          `json:"badge,omitempty"`
}

type ProviderLink struct {
	Title string `json:"title"`
	URL   string `json:"url,omitempty"`
}

type GameCard struct {
	Title       string        `json:"title"`
	Slug        string        `json:"slug"`
	URL         string        `json:"url"`
	Image       *domain.Image `json:"image,omitempty"`
	Provider    *ProviderLink `json:"provider,omitempty"`
	RatingAvg   float64       `json:"ratingAvg"`
	RatingCount int           `json:"ratingCount"`
	Badge       format.Badge  `json:"badge,omitempty"`
}

type SEO struct {
	Title     string `json:"title"`
	Canonical string `json:"canonical"`
}

type CasinoList struct {
	Sort     string       `json:"sort"`
	Language string       `json:"language"`
	Items    []CasinoCard `json:"items"`
}

type GameList struct {
	Sort     string     `json:"sort"`
	Provider string     `json:"provider,omitempty"`
	Language string     `json:"language"`
	Items    []GameCard `json:"items"`
}

type CasinoPage struct {
	Casino      CasinoCard              `json:"casino"`
	Images      []domain.Image          `json:"images,omitempty"`
	Breadcrumbs []domain.BreadcrumbItem `json:"breadcrumbs"`
	Navigation  []domain.NavigationItem `json:"navigation,omitempty"`
	Related     []CasinoCard            `json:"related,omitempty"`
	SEO         SEO                     `json:"seo"`
	Language    string                  `json:"language"`
}

type GamePage struct {
	Game             GameCard                `json:"game"`
	Images           []domain.Image          `json:"images,omitempty"`
	Breadcrumbs      []domain.BreadcrumbItem `json:"breadcrumbs"`
	Navigation       []domain.NavigationItem `json:"navigation,omitempty"`
	MoreFromProvider []GameCard              `json:"moreFromProvider,omitempty"`
	SEO              SEO                     `json:"seo"`
	Language         string                  `json:"language"`
}
