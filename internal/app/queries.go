package app

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kenshomedia-ltd/gds-optimised-sub001/internal/domain"
	"github.com/kenshomedia-ltd/gds-optimised-sub001/internal/format"
)

type QueryOptions struct {
	Paths    format.Paths
	Currency string
	NewDays  int
	Now      func() time.Time
}

type QueryService struct {
	repo     domain.ContentRepository
	cache    domain.Cache
	cacheTTL time.Duration
	paths    format.Paths
	bonus    format.BonusFormatter
	newDays  int
	now      func() time.Time
}

func NewQueryService(r domain.ContentRepository, c domain.Cache, ttl time.Duration, opts QueryOptions) *QueryService {
	s := &QueryService{
		repo:     r,
		cache:    c,
		cacheTTL: ttl,
		paths:    opts.Paths,
		bonus:    format.DefaultBonus,
		newDays:  opts.NewDays,
		now:      opts.Now,
	}
	if opts.Currency != "" {
		s.bonus = format.BonusFormatter{Currency: opts.Currency}
	}
	if s.newDays <= 0 {
		s.newDays = format.DefaultNewDays
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

type CasinoListQuery struct {
	Sort  string
	Limit int
	Lang  string
}

type GameListQuery struct {
	Sort     string
	Provider string
	Limit    int
	Lang     string
}

// generation returns the token the last sync published; "0" until the
// first sync or while the cache is unreachable.
func (s *QueryService) generation(ctx context.Context) string {
	var gen string
	if ok, _ := s.cache.Get(ctx, generationKey, &gen); ok && gen != "" {
		return gen
	}
	return "0"
}

// Translations never fails on a missing dictionary; callers fall back to
// their built-in labels.
func (s *QueryService) Translations(ctx context.Context, lang string) (domain.Translations, error) {
	return s.translations(ctx, s.generation(ctx), lang)
}

func (s *QueryService) translations(ctx context.Context, gen, lang string) (domain.Translations, error) {
	key := versioned(gen, translationsKey(lang))
	var tr domain.Translations
	if ok, _ := s.cache.Get(ctx, key, &tr); ok {
		return tr, nil
	}
	tr, err := s.repo.GetTranslations(ctx, lang)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.Translations{}, nil
	}
	if err != nil {
		return nil, err
	}
	s.put(ctx, key, tr)
	return tr, nil
}

// Navigation returns the menu tree with every internal link carrying the
// base path exactly once.
func (s *QueryService) Navigation(ctx context.Context, lang string) ([]domain.NavigationItem, error) {
	return s.navigation(ctx, s.generation(ctx), lang)
}

func (s *QueryService) navigation(ctx context.Context, gen, lang string) ([]domain.NavigationItem, error) {
	key := versioned(gen, navigationKey(lang))
	var items []domain.NavigationItem
	if ok, _ := s.cache.Get(ctx, key, &items); ok {
		return items, nil
	}
	items, err := s.repo.GetNavigation(ctx, lang)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	items = s.linkNav(items)
	s.put(ctx, key, items)
	return items, nil
}

func (s *QueryService) ListCasinos(ctx context.Context, q CasinoListQuery) (CasinoList, error) {
	label := format.DefaultCasinoSort
	if q.Sort != "" {
		label = format.CasinoSorts.Normalize(q.Sort, format.DefaultCasinoSort)
	}
	expr, _ := format.CasinoSorts.Expr(label)
	limit := clampLimit(q.Limit)

	gen := s.generation(ctx)
	key := versioned(gen, casinosKey(label, limit, q.Lang))
	var out CasinoList
	if ok, _ := s.cache.Get(ctx, key, &out); ok {
		return out, nil
	}

	var (
		casinos []domain.CasinoData
		tr      domain.Translations
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		casinos, err = s.repo.ListCasinos(gctx, domain.ListQuery{Sort: expr, Limit: limit})
		return err
	})
	g.Go(func() error {
		var err error
		tr, err = s.translations(gctx, gen, q.Lang)
		return err
	})
	if err := g.Wait(); err != nil {
		return CasinoList{}, err
	}

	out = CasinoList{Sort: label, Language: q.Lang, Items: make([]CasinoCard, 0, len(casinos))}
	for _, c := range casinos {
		out.Items = append(out.Items, s.casinoCard(c, tr))
	}
	s.put(ctx, key, out)
	return out, nil
}

// GetCasinoPage loads the casino and everything around it in parallel.
func (s *QueryService) GetCasinoPage(ctx context.Context, slug, lang string) (CasinoPage, error) {
	gen := s.generation(ctx)
	key := versioned(gen, casinoKey(slug, lang))
	var page CasinoPage
	if ok, _ := s.cache.Get(ctx, key, &page); ok {
		return page, nil
	}

	var (
		casino  domain.CasinoData
		tr      domain.Translations
		nav     []domain.NavigationItem
		related []domain.CasinoData
	)
	relatedExpr, _ := format.CasinoSorts.Expr(format.DefaultCasinoSort)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		casino, err = s.repo.GetCasino(gctx, slug)
		return err
	})
	g.Go(func() error {
		var err error
		tr, err = s.translations(gctx, gen, lang)
		return err
	})
	g.Go(func() error {
		var err error
		nav, err = s.navigation(gctx, gen, lang)
		return err
	})
	g.Go(func() error {
		var err error
		related, err = s.repo.ListCasinos(gctx, domain.ListQuery{Sort: relatedExpr, Exclude: slug, Limit: relatedLimit})
		return err
	})
	if err := g.Wait(); err != nil {
		return CasinoPage{}, err
	}

	card := s.casinoCard(casino, tr)
	page = CasinoPage{
		Casino: card,
		Images: casino.Images,
		Breadcrumbs: []domain.BreadcrumbItem{
			{Title: tr.Get("home", "Home"), URL: s.link("/")},
			{Title: tr.Get("casinos", "Casinò"), URL: s.link(casinosPath)},
			{Title: casino.Title},
		},
		Navigation: nav,
		SEO:        SEO{Title: casino.Title, Canonical: s.paths.Absolute(casinosPath + "/" + casino.Slug)},
		Language:   lang,
	}
	for _, r := range related {
		page.Related = append(page.Related, s.casinoCard(r, tr))
	}
	s.put(ctx, key, page)
	return page, nil
}

func (s *QueryService) ListGames(ctx context.Context, q GameListQuery) (GameList, error) {
	label := format.DefaultGameSort
	if q.Sort != "" {
		label = format.NormalizeGameSort(q.Sort)
	}
	expr, _ := format.GameSorts.Expr(label)
	limit := clampLimit(q.Limit)

	key := versioned(s.generation(ctx), gamesKey(label, q.Provider, limit, q.Lang))
	var out GameList
	if ok, _ := s.cache.Get(ctx, key, &out); ok {
		return out, nil
	}
	games, err := s.repo.ListGames(ctx, domain.ListQuery{Sort: expr, Provider: q.Provider, Limit: limit})
	if err != nil {
		return GameList{}, err
	}
	out = GameList{Sort: label, Provider: q.Provider, Language: q.Lang, Items: make([]GameCard, 0, len(games))}
	for _, g := range games {
		out.Items = append(out.Items, s.gameCard(g))
	}
	s.put(ctx, key, out)
	return out, nil
}

// GetGamePage needs the game's provider before it can load sibling games,
// so that read runs after the first parallel stage.
func (s *QueryService) GetGamePage(ctx context.Context, slug, lang string) (GamePage, error) {
	gen := s.generation(ctx)
	key := versioned(gen, gameKey(slug, lang))
	var page GamePage
	if ok, _ := s.cache.Get(ctx, key, &page); ok {
		return page, nil
	}

	var (
		game domain.GameData
		tr   domain.Translations
		nav  []domain.NavigationItem
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		game, err = s.repo.GetGame(gctx, slug)
		return err
	})
	g.Go(func() error {
		var err error
		tr, err = s.translations(gctx, gen, lang)
		return err
	})
	g.Go(func() error {
		var err error
		nav, err = s.navigation(gctx, gen, lang)
		return err
	})
	if err := g.Wait(); err != nil {
		return GamePage{}, err
	}

	page = GamePage{
		Game:   s.gameCard(game),
		Images: game.Images,
		Breadcrumbs: []domain.BreadcrumbItem{
			{Title: tr.Get("home", "Home"), URL: s.link("/")},
			{Title: tr.Get("games", "Slot Machine"), URL: s.link(gamesPath)},
		},
		Navigation: nav,
		SEO:        SEO{Title: game.Title, Canonical: s.paths.Absolute(gamesPath + "/" + game.Slug)},
		Language:   lang,
	}
	if p := game.Provider; p != nil && p.Slug != "" {
		page.Breadcrumbs = append(page.Breadcrumbs, domain.BreadcrumbItem{Title: p.Title, URL: s.link(providersPath + "/" + p.Slug)})
		expr, _ := format.GameSorts.Expr(format.DefaultGameSort)
		more, err := s.repo.ListGames(ctx, domain.ListQuery{Sort: expr, Provider: p.Slug, Exclude: game.Slug, Limit: relatedLimit})
		if err != nil {
			return GamePage{}, err
		}
		for _, m := range more {
			page.MoreFromProvider = append(page.MoreFromProvider, s.gameCard(m))
		}
	}
	page.Breadcrumbs = append(page.Breadcrumbs, domain.BreadcrumbItem{Title: game.Title})

	s.put(ctx, key, page)
	return page, nil
}

func (s *QueryService) casinoCard(c domain.CasinoData, tr domain.Translations) CasinoCard {
	card := CasinoCard{
		Title:        c.Title,
		Slug:         c.Slug,
		URL:          s.link(casinosPath + "/" + c.Slug),
		Logo:         c.Logo,
		RatingAvg:    c.RatingAvg,
		RatingCount:  c.RatingCount,
		WelcomeBonus: s.bonus.Welcome(c, tr.Get("bonusFallback", "")),
		NoDeposit:    s.bonus.NoDeposit(c, tr),
		Terms:        c.Terms,
		Badge:        format.BadgeFor(c.Exclusive, c.CreatedAt, s.newDays, s.now()),
	}
	if cb := c.CasinoBonus; cb != nil {
		card.BonusURL = cb.BonusURL
		card.BonusCode = cb.BonusCode
	}
	return card
}

func (s *QueryService) gameCard(g domain.GameData) GameCard {
	card := GameCard{
		Title:       g.Title,
		Slug:        g.Slug,
		URL:         s.link(gamesPath + "/" + g.Slug),
		RatingAvg:   g.RatingAvg,
		RatingCount: g.RatingCount,
		Badge:       format.BadgeFor(false, g.CreatedAt, s.newDays, s.now()),
	}
	if len(g.Images) > 0 {
		img := g.Images[0]
		card.Image = &img
	}
	if p := g.Provider; p != nil {
		card.Provider = &ProviderLink{Title: p.Title}
		if p.Slug != "" {
			card.Provider.URL = s.link(providersPath + "/" + p.Slug)
		}
	}
	return card
}

// link turns a CMS or section path into the public internal URL.
func (s *QueryService) link(u string) string {
	if format.IsExternal(u) {
		return u
	}
	out := s.paths.AddBasePath(s.paths.NormalizeInternalURL(format.SanitizeURLPath(u)))
	if out == "/" && s.paths.BasePath != "" {
		return s.paths.BasePath
	}
	return out
}

func (s *QueryService) linkNav(items []domain.NavigationItem) []domain.NavigationItem {
	out := make([]domain.NavigationItem, len(items))
	for i, it := range items {
		out[i] = domain.NavigationItem{Title: it.Title, URL: it.URL, Children: s.linkNav(it.Children)}
		if it.URL != "" {
			out[i].URL = s.link(it.URL)
		}
	}
	return out
}

// put caches v unless it is unreasonably large.
func (s *QueryService) put(ctx context.Context, key string, v any) {
	if b, err := json.Marshal(v); err == nil && len(b) < 1_000_000 {
		_ = s.cache.Set(ctx, key, v, int(s.cacheTTL.Seconds()))
	}
}
