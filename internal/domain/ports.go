package domain

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("not found")

type ContentRepository interface {
	// Write paths
	UpsertCasino(ctx context.Context, c CasinoData) error
	UpsertGame(ctx context.Context, g GameData) error
	UpsertTranslations(ctx context.Context, locale string, t Translations) error
	UpsertNavigation(ctx context.Context, locale string, items []NavigationItem) error
	LogMiss(ctx context.Context, kind, key string, status int, reason string) error

	// Read paths
	GetCasino(ctx context.Context, slug string) (CasinoData, error)
	ListCasinos(ctx context.Context, q ListQuery) ([]CasinoData, error)
	GetGame(ctx context.Context, slug string) (GameData, error)
	ListGames(ctx context.Context, q ListQuery) ([]GameData, error)
	GetTranslations(ctx context.Context, locale string) (Translations, error)
	GetNavigation(ctx context.Context, locale string) ([]NavigationItem, error)
}

type CMSClient interface {
	ListCasinos(ctx context.Context, page, size int) (CollectionPage, error)
	ListGames(ctx context.Context, page, size int) (CollectionPage, error)
	GetTranslations(ctx context.Context, locale string) (map[string]any, error)
	GetNavigation(ctx context.Context, locale string) (map[string]any, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// CollectionPage is one page of a CMS collection listing.
type CollectionPage struct {
	Items     []map[string]any
	Page      int
	PageCount int
}

// ListQuery drives snapshot listings. Sort is an API sort expression such as
// "views:desc"; the repository only honors whitelisted fields.
type ListQuery struct {
	Sort     string
	Provider string
	Exclude  string // slug to leave out, used for "more from this provider"
	Limit    int
	Offset   int
}
