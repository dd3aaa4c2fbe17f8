package httpserver

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/kenshomedia-ltd/gds-optimised-sub001/internal/adapters/observability"
	"github.com/kenshomedia-ltd/gds-optimised-sub001/internal/app"
	"github.com/kenshomedia-ltd/gds-optimised-sub001/internal/domain"
	"github.com/kenshomedia-ltd/gds-optimised-sub001/internal/format"
)

// Queries is the read side the handlers need; *app.QueryService satisfies it.
type Queries interface {
	ListCasinos(ctx context.Context, q app.CasinoListQuery) (app.CasinoList, error)
	GetCasinoPage(ctx context.Context, slug, lang string) (app.CasinoPage, error)
	ListGames(ctx context.Context, q app.GameListQuery) (app.GameList, error)
	GetGamePage(ctx context.Context, slug, lang string) (app.GamePage, error)
	Translations(ctx context.Context, lang string) (domain.Translations, error)
}

type Handlers struct {
	Q             Queries
	Paths         format.Paths
	DefaultLocale string
	Locales       []string // accepted lang values; empty means {"it", "en"}
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Route("/v1", func(r chi.Router) {
		r.Get("/casinos", h.listCasinos)
		r.Get("/casinos/{slug}", h.getCasino)
		r.Get("/games", h.listGames)
		r.Get("/games/{slug}", h.getGame)
		r.Get("/translations/{locale}", h.getTranslations)
		r.Get("/urls/check", h.checkURL)
	})
}

func (h *Handlers) locales() []string {
	if len(h.Locales) > 0 {
		return h.Locales
	}
	return []string{"it", "en"}
}

// lang picks a supported ?lang=, then the Accept-Language prefix, then the
// default. Unsupported values fall through.
func (h *Handlers) lang(r *http.Request) string {
	if q := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("lang"))); q != "" && slices.Contains(h.locales(), q) {
		return q
	}
	al := strings.ToLower(r.Header.Get("Accept-Language"))
	for _, l := range h.locales() {
		if strings.HasPrefix(al, l) {
			return l
		}
	}
	if h.DefaultLocale != "" {
		return h.DefaultLocale
	}
	return "it"
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeErr maps domain errors onto problems; anything unexpected is a 500.
func writeErr(w http.ResponseWriter, r *http.Request, err error, what string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", what+" not found")
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeProblem(w, http.StatusServiceUnavailable, "Unavailable", "request cancelled")
	default:
		log.Error().Err(err).Str("path", r.URL.Path).Msg("query failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	return `W/"` + hex.EncodeToString(sum[:]) + `"`, body
}

func writeJSON(w http.ResponseWriter, r *http.Request, v any, lang string) {
	etag, body := calcETagAndBody(v)
	if body == nil {
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "encode failed")
		return
	}
	w.Header().Set("ETag", etag)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	if lang != "" {
		w.Header().Set("Content-Language", lang)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("failed to write body")
	}
}

// limitParam returns 0 (service default) when absent.
func limitParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	ls := r.URL.Query().Get("limit")
	if ls == "" {
		return 0, true
	}
	l, err := strconv.Atoi(ls)
	if err != nil || l <= 0 || l > app.MaxListLimit {
		writeProblem(w, http.StatusBadRequest, "Invalid limit",
			"limit must be an integer between 1 and "+strconv.Itoa(app.MaxListLimit))
		return 0, false
	}
	return l, true
}

func (h *Handlers) listCasinos(w http.ResponseWriter, r *http.Request) {
	limit, ok := limitParam(w, r)
	if !ok {
		return
	}
	sort := r.URL.Query().Get("sort")
	if sort != "" && !format.CasinoSorts.Known(sort) {
		observability.ObserveSortFallback("casinos")
	}
	lang := h.lang(r)
	out, err := h.Q.ListCasinos(r.Context(), app.CasinoListQuery{Sort: sort, Limit: limit, Lang: lang})
	if err != nil {
		writeErr(w, r, err, "casinos")
		return
	}
	writeJSON(w, r, out, lang)
}

func (h *Handlers) getCasino(w http.ResponseWriter, r *http.Request) {
	lang := h.lang(r)
	page, err := h.Q.GetCasinoPage(r.Context(), chi.URLParam(r, "slug"), lang)
	if err != nil {
		writeErr(w, r, err, "casino")
		return
	}
	writeJSON(w, r, page, lang)
}

func (h *Handlers) listGames(w http.ResponseWriter, r *http.Request) {
	limit, ok := limitParam(w, r)
	if !ok {
		return
	}
	sort := r.URL.Query().Get("sort")
	if sort != "" && !format.GameSorts.Known(sort) {
		observability.ObserveSortFallback("games")
	}
	lang := h.lang(r)
	out, err := h.Q.ListGames(r.Context(), app.GameListQuery{
		Sort:     sort,
		Provider: strings.TrimSpace(r.URL.Query().Get("provider")),
		Limit:    limit,
		Lang:     lang,
	})
	if err != nil {
		writeErr(w, r, err, "games")
		return
	}
	writeJSON(w, r, out, lang)
}

func (h *Handlers) getGame(w http.ResponseWriter, r *http.Request) {
	lang := h.lang(r)
	page, err := h.Q.GetGamePage(r.Context(), chi.URLParam(r, "slug"), lang)
	if err != nil {
		writeErr(w, r, err, "game")
		return
	}
	writeJSON(w, r, page, lang)
}

func (h *Handlers) getTranslations(w http.ResponseWriter, r *http.Request) {
	locale := strings.ToLower(chi.URLParam(r, "locale"))
	tr, err := h.Q.Translations(r.Context(), locale)
	if err != nil {
		writeErr(w, r, err, "translations")
		return
	}
	writeJSON(w, r, tr, locale)
}

func (h *Handlers) checkURL(w http.ResponseWriter, r *http.Request) {
	in := r.URL.Query().Get("url")
	if in == "" {
		writeProblem(w, http.StatusBadRequest, "Missing url", "the url query parameter is required")
		return
	}
	writeJSON(w, r, h.Paths.Check(in), "")
}
