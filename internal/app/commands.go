package app

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/kenshomedia-ltd/gds-optimised-sub001/internal/domain"
)

type SyncService struct {
	cms      domain.CMSClient
	repo     domain.ContentRepository
	cache    domain.Cache
	pageSize int
	now      func() time.Time
}

func NewSyncService(c domain.CMSClient, r domain.ContentRepository, cache domain.Cache, pageSize int) *SyncService {
	if pageSize <= 0 {
		pageSize = 100
	}
	return &SyncService{cms: c, repo: r, cache: cache, pageSize: pageSize, now: time.Now}
}

// SyncStats summarizes one collection run.
type SyncStats struct {
	Pages   int
	Written int
	Skipped int
}

// SyncCasinos walks every page of the casino collection and upserts each
// record. Records without a slug are logged as misses and skipped.
func (s *SyncService) SyncCasinos(ctx context.Context) (SyncStats, error) {
	return s.syncCollection(ctx, "casinos", s.cms.ListCasinos, func(ctx context.Context, p map[string]any) (string, error) {
		c := mapCasino(p)
		if c.Slug == "" {
			return "", errMissingSlug
		}
		if err := s.repo.UpsertCasino(ctx, c); err != nil {
			return c.Slug, fmt.Errorf("upsert casino %s: %w", c.Slug, err)
		}
		return c.Slug, nil
	})
}

func (s *SyncService) SyncGames(ctx context.Context) (SyncStats, error) {
	return s.syncCollection(ctx, "games", s.cms.ListGames, func(ctx context.Context, p map[string]any) (string, error) {
		g := mapGame(p)
		if g.Slug == "" {
			return "", errMissingSlug
		}
		if err := s.repo.UpsertGame(ctx, g); err != nil {
			return g.Slug, fmt.Errorf("upsert game %s: %w", g.Slug, err)
		}
		return g.Slug, nil
	})
}

// SyncLocale refreshes the translation dictionary and navigation for one
// locale. A locale the CMS does not publish is recorded, not fatal.
func (s *SyncService) SyncLocale(ctx context.Context, locale string) error {
	// every page embeds both documents
	defer s.bump(ctx)

	tr, err := s.cms.GetTranslations(ctx, locale)
	switch {
	case err == nil:
		if err := s.repo.UpsertTranslations(ctx, locale, mapTranslations(tr)); err != nil {
			return fmt.Errorf("upsert translations %s: %w", locale, err)
		}
	case s.recordMiss(ctx, "translations", locale, err):
	default:
		return err
	}

	nav, err := s.cms.GetNavigation(ctx, locale)
	switch {
	case err == nil:
		if err := s.repo.UpsertNavigation(ctx, locale, mapNavigation(nav)); err != nil {
			return fmt.Errorf("upsert navigation %s: %w", locale, err)
		}
	case s.recordMiss(ctx, "navigation", locale, err):
	default:
		return err
	}
	return nil
}

var errMissingSlug = errors.New("record has no slug")

type listFunc func(ctx context.Context, page, size int) (domain.CollectionPage, error)
type writeFunc func(ctx context.Context, payload map[string]any) (string, error)

func (s *SyncService) syncCollection(ctx context.Context, kind string, list listFunc, write writeFunc) (SyncStats, error) {
	// a failed run may still have written records
	defer s.bump(ctx)

	var st SyncStats
	for page := 1; ; page++ {
		pg, err := list(ctx, page, s.pageSize)
		if err != nil {
			if s.recordMiss(ctx, kind, fmt.Sprintf("page:%d", page), err) {
				break
			}
			return st, fmt.Errorf("list %s page %d: %w", kind, page, err)
		}
		st.Pages++

		for _, item := range pg.Items {
			slug, err := write(ctx, item)
			if errors.Is(err, errMissingSlug) {
				st.Skipped++
				_ = s.repo.LogMiss(ctx, kind, fmt.Sprintf("id:%d", firstInt64Flexible(item, "id")), 422, "missing slug")
				continue
			}
			if err != nil {
				return st, err
			}
			st.Written++
			log.Debug().Str("kind", kind).Str("slug", slug).Msg("synced")
		}

		if len(pg.Items) == 0 || page >= pg.PageCount {
			break
		}
	}
	return st, nil
}

// recordMiss logs 404/401/403 responses and reports whether err was one.
func (s *SyncService) recordMiss(ctx context.Context, kind, key string, err error) bool {
	low := strings.ToLower(err.Error())
	switch {
	case errors.Is(err, domain.ErrNotFound) || strings.Contains(low, "not found"):
		_ = s.repo.LogMiss(ctx, kind, key, 404, "not found")
	case strings.Contains(low, "403") || strings.Contains(low, "forbidden") ||
		strings.Contains(low, "401") || strings.Contains(low, "unauthorized"):
		_ = s.repo.LogMiss(ctx, kind, key, 403, "unauthorized")
	default:
		return false
	}
	log.Warn().Str("kind", kind).Str("key", key).Err(err).Msg("cms miss")
	return true
}

// bump replaces the cache generation so readers stop seeing views built
// before this sync. Tokens are unique per bump.
func (s *SyncService) bump(ctx context.Context) {
	if s.cache == nil {
		return
	}
	gen := strconv.FormatInt(s.now().UnixNano(), 36) + strconv.FormatUint(uint64(bumps.Add(1)), 36)
	if err := s.cache.Set(ctx, generationKey, gen, 0); err != nil {
		log.Warn().Err(err).Msg("cache generation not bumped")
	}
}

var bumps atomic.Uint32
