package app_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/kenshomedia-ltd/gds-optimised-sub001/internal/app"
	"github.com/kenshomedia-ltd/gds-optimised-sub001/internal/domain"
	"github.com/kenshomedia-ltd/gds-optimised-sub001/internal/format"
)

// ---- fakes ----

type fakeRepo struct {
	mu       sync.Mutex
	casinos  map[string]domain.CasinoData
	games    map[string]domain.GameData
	tr       map[string]domain.Translations
	nav      map[string][]domain.NavigationItem
	listErr  error
	queries  []domain.ListQuery
	misses   []string
	upserted []string
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		casinos: map[string]domain.CasinoData{},
		games:   map[string]domain.GameData{},
		tr:      map[string]domain.Translations{},
		nav:     map[string][]domain.NavigationItem{},
	}
}

func (f *fakeRepo) UpsertCasino(ctx context.Context, c domain.CasinoData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.casinos[c.Slug] = c
	f.upserted = append(f.upserted, "casino:"+c.Slug)
	return nil
}
func (f *fakeRepo) UpsertGame(ctx context.Context, g domain.GameData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.games[g.Slug] = g
	f.upserted = append(f.upserted, "game:"+g.Slug)
	return nil
}
func (f *fakeRepo) UpsertTranslations(ctx context.Context, locale string, t domain.Translations) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tr[locale] = t
	return nil
}
func (f *fakeRepo) UpsertNavigation(ctx context.Context, locale string, items []domain.NavigationItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nav[locale] = items
	return nil
}
func (f *fakeRepo) LogMiss(ctx context.Context, kind, key string, status int, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.misses = append(f.misses, kind+":"+key)
	return nil
}
func (f *fakeRepo) GetCasino(ctx context.Context, slug string) (domain.CasinoData, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.casinos[slug]
	if !ok {
		return domain.CasinoData{}, domain.ErrNotFound
	}
	return c, nil
}
func (f *fakeRepo) ListCasinos(ctx context.Context, q domain.ListQuery) ([]domain.CasinoData, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, q)
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []domain.CasinoData
	for slug, c := range f.casinos {
		if slug != q.Exclude {
			out = append(out, c)
		}
	}
	return out, nil
}
func (f *fakeRepo) GetGame(ctx context.Context, slug string) (domain.GameData, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	g, ok := f.games[slug]
	if !ok {
		return domain.GameData{}, domain.ErrNotFound
	}
	return g, nil
}
func (f *fakeRepo) ListGames(ctx context.Context, q domain.ListQuery) ([]domain.GameData, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, q)
	var out []domain.GameData
	for slug, g := range f.games {
		if slug == q.Exclude {
			continue
		}
		if q.Provider != "" && (g.Provider == nil || g.Provider.Slug != q.Provider) {
			continue
		}
		out = append(out, g)
	}
	return out, nil
}
func (f *fakeRepo) GetTranslations(ctx context.Context, locale string) (domain.Translations, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tr[locale]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return t, nil
}
func (f *fakeRepo) GetNavigation(ctx context.Context, locale string) ([]domain.NavigationItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n, ok := f.nav[locale]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return n, nil
}

// fakeCache round-trips through JSON like the redis adapter does.
type fakeCache struct {
	mu    sync.Mutex
	store map[string][]byte
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.store[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}
func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.store == nil {
		c.store = map[string][]byte{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.store[key] = b
	return nil
}
func (c *fakeCache) Del(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.store, key)
	return nil
}

// ---- helpers ----

var fixedNow = time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)

func newQS(repo *fakeRepo, cache *fakeCache) *app.QueryService {
	return app.NewQueryService(repo, cache, 10*time.Minute, app.QueryOptions{
		Paths:   format.NewPaths("/it", "https://www.example.com"),
		NewDays: 14,
		Now:     func() time.Time { return fixedNow },
	})
}

func pf(f float64) *float64 { return &f }

// ---- tests ----

func TestGetCasinoPage_ComposesAndCaches(t *testing.T) {
	defer goleak.VerifyNone(t)

	repo := newFakeRepo()
	repo.casinos["starvegas"] = domain.CasinoData{
		Title:     "StarVegas",
		Slug:      "starvegas",
		Bonus:     &domain.BonusSection{BonusAmount: pf(1000), FreeSpin: "100 Free Spins"},
		FreeSpins: &domain.FreeSpinsSection{BonusAmount: pf(50), Terms: "35x"},
		CreatedAt: "2025-03-10T00:00:00Z",
	}
	repo.casinos["sisal"] = domain.CasinoData{Title: "Sisal", Slug: "sisal", Exclusive: true, CreatedAt: "2025-03-14T00:00:00Z"}
	repo.tr["it"] = domain.Translations{"freeSpins": "Giri Gratis", "casinos": "Casinò Online"}
	repo.nav["it"] = []domain.NavigationItem{{Title: "Blog", URL: "/it/it/blog"}, {Title: "Ext", URL: "https://x.com"}}
	cache := &fakeCache{}
	q := newQS(repo, cache)

	page, err := q.GetCasinoPage(context.Background(), "starvegas", "it")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if page.Casino.WelcomeBonus != "€1000 + 100 Free Spins" {
		t.Fatalf("welcome bonus: %q", page.Casino.WelcomeBonus)
	}
	if page.Casino.NoDeposit.Bonus != "50 Giri Gratis" || page.Casino.NoDeposit.Terms != "35x" {
		t.Fatalf("no deposit: %+v", page.Casino.NoDeposit)
	}
	if page.Casino.Badge != format.BadgeNew {
		t.Fatalf("badge: %q", page.Casino.Badge)
	}
	if page.Casino.URL != "/it/casino/starvegas" {
		t.Fatalf("url: %q", page.Casino.URL)
	}
	if page.SEO.Canonical != "https://www.example.com/it/casino/starvegas" {
		t.Fatalf("canonical: %q", page.SEO.Canonical)
	}
	if len(page.Breadcrumbs) != 3 || page.Breadcrumbs[0].URL != "/it" || page.Breadcrumbs[1].Title != "Casinò Online" {
		t.Fatalf("breadcrumbs: %+v", page.Breadcrumbs)
	}
	if len(page.Navigation) != 2 || page.Navigation[0].URL != "/it/blog" || page.Navigation[1].URL != "https://x.com" {
		t.Fatalf("navigation: %+v", page.Navigation)
	}
	if len(page.Related) != 1 || page.Related[0].Slug != "sisal" || page.Related[0].Badge != format.BadgeExclusive {
		t.Fatalf("related: %+v", page.Related)
	}

	// second read must come from cache
	repo.mu.Lock()
	repo.casinos["starvegas"] = domain.CasinoData{Title: "CHANGED", Slug: "starvegas"}
	repo.mu.Unlock()
	again, err := q.GetCasinoPage(context.Background(), "starvegas", "it")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if again.Casino.Title != "StarVegas" {
		t.Fatalf("expected cached title, got %s", again.Casino.Title)
	}
}

func TestGetCasinoPage_NotFound(t *testing.T) {
	defer goleak.VerifyNone(t)

	q := newQS(newFakeRepo(), &fakeCache{})
	_, err := q.GetCasinoPage(context.Background(), "missing", "it")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListCasinos_NormalizesSortAndFallsBackOnBonus(t *testing.T) {
	repo := newFakeRepo()
	repo.casinos["plain"] = domain.CasinoData{Title: "Plain", Slug: "plain", CreatedAt: "2020-01-01"}
	repo.tr["it"] = domain.Translations{"bonusFallback": "Scopri l'offerta"}
	q := newQS(repo, &fakeCache{})

	out, err := q.ListCasinos(context.Background(), app.CasinoListQuery{Sort: "Nuovi", Lang: "it"})
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if out.Sort != "Newest" {
		t.Fatalf("sort label: %q", out.Sort)
	}
	if got := repo.queries[0]; got.Sort != "createdAt:desc" || got.Limit != app.DefaultListLimit {
		t.Fatalf("repo query: %+v", got)
	}
	if len(out.Items) != 1 || out.Items[0].WelcomeBonus != "Scopri l'offerta" || out.Items[0].NoDeposit.Bonus != "-" {
		t.Fatalf("items: %+v", out.Items)
	}
	if out.Items[0].Badge != format.BadgeNone {
		t.Fatalf("old casino should carry no badge, got %q", out.Items[0].Badge)
	}
}

func TestListCasinos_RepoErrorSurfaces(t *testing.T) {
	repo := newFakeRepo()
	repo.listErr = errors.New("db down")
	q := newQS(repo, &fakeCache{})

	if _, err := q.ListCasinos(context.Background(), app.CasinoListQuery{Lang: "it"}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestListGames_UnknownSortUsesDefault(t *testing.T) {
	repo := newFakeRepo()
	repo.games["book-of-ra"] = domain.GameData{Title: "Book of Ra", Slug: "book-of-ra", Provider: &domain.ProviderRef{Title: "Novomatic", Slug: "novomatic"}}
	q := newQS(repo, &fakeCache{})

	out, err := q.ListGames(context.Background(), app.GameListQuery{Sort: "whatever", Limit: 500, Lang: "it"})
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if out.Sort != format.DefaultGameSort {
		t.Fatalf("sort: %q", out.Sort)
	}
	if got := repo.queries[0]; got.Sort != "views:desc" || got.Limit != app.MaxListLimit {
		t.Fatalf("repo query: %+v", got)
	}
	if out.Items[0].Provider == nil || out.Items[0].Provider.URL != "/it/software/novomatic" {
		t.Fatalf("provider link: %+v", out.Items[0].Provider)
	}
}

func TestGetGamePage_MoreFromProvider(t *testing.T) {
	defer goleak.VerifyNone(t)

	repo := newFakeRepo()
	nov := &domain.ProviderRef{Title: "Novomatic", Slug: "novomatic"}
	repo.games["book-of-ra"] = domain.GameData{Title: "Book of Ra", Slug: "book-of-ra", Provider: nov}
	repo.games["lucky-lady"] = domain.GameData{Title: "Lucky Lady", Slug: "lucky-lady", Provider: nov}
	repo.games["starburst"] = domain.GameData{Title: "Starburst", Slug: "starburst", Provider: &domain.ProviderRef{Slug: "netent"}}
	q := newQS(repo, &fakeCache{})

	page, err := q.GetGamePage(context.Background(), "book-of-ra", "it")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(page.MoreFromProvider) != 1 || page.MoreFromProvider[0].Slug != "lucky-lady" {
		t.Fatalf("more from provider: %+v", page.MoreFromProvider)
	}
	if n := len(page.Breadcrumbs); n != 4 || page.Breadcrumbs[2].URL != "/it/software/novomatic" || page.Breadcrumbs[3].Title != "Book of Ra" {
		t.Fatalf("breadcrumbs: %+v", page.Breadcrumbs)
	}
	if page.SEO.Canonical != "https://www.example.com/it/slot-machine/book-of-ra" {
		t.Fatalf("canonical: %q", page.SEO.Canonical)
	}
}

func TestTranslations_MissingIsEmpty(t *testing.T) {
	q := newQS(newFakeRepo(), &fakeCache{})
	tr, err := q.Translations(context.Background(), "de")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(tr) != 0 || tr.Get("home", "Home") != "Home" {
		t.Fatalf("unexpected dictionary: %+v", tr)
	}
}
