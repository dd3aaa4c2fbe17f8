package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/kenshomedia-ltd/gds-optimised-sub001/internal/domain"
	"github.com/kenshomedia-ltd/gds-optimised-sub001/internal/format"
)

const (
	docTranslations = "translations"
	docNavigation   = "navigation"
)

func valID(id int64) any {
	if id == 0 {
		return nil
	}
	return id
}
func valJSON(b []byte) any {
	if len(b) == 0 || !json.Valid(b) {
		return nil
	}
	return string(b)
}

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) UpsertCasino(ctx context.Context, c domain.CasinoData) error {
	data, err := json.Marshal(c)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, upsertCasinoSQL,
		c.Slug,
		valID(c.ID),
		c.Title,
		c.RatingAvg,
		c.RatingCount,
		c.Views,
		c.Exclusive,
		c.CreatedAt,
		string(data),
		valJSON(c.RawJSON),
	)
	return err
}

func (r *Repo) UpsertGame(ctx context.Context, g domain.GameData) error {
	data, err := json.Marshal(g)
	if err != nil {
		return err
	}
	provider := ""
	if g.Provider != nil {
		provider = g.Provider.Slug
	}
	_, err = r.db.ExecContext(ctx, upsertGameSQL,
		g.Slug,
		valID(g.ID),
		g.Title,
		provider,
		g.RatingAvg,
		g.RatingCount,
		g.Views,
		g.CreatedAt,
		string(data),
		valJSON(g.RawJSON),
	)
	return err
}

func (r *Repo) UpsertTranslations(ctx context.Context, locale string, t domain.Translations) error {
	return r.upsertDocument(ctx, docTranslations, locale, t)
}

func (r *Repo) UpsertNavigation(ctx context.Context, locale string, items []domain.NavigationItem) error {
	if items == nil {
		items = []domain.NavigationItem{}
	}
	return r.upsertDocument(ctx, docNavigation, locale, items)
}

func (r *Repo) upsertDocument(ctx context.Context, kind, locale string, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, upsertDocumentSQL, kind, locale, string(body))
	return err
}

func (r *Repo) LogMiss(ctx context.Context, kind, key string, status int, reason string) error {
	_, err := r.db.ExecContext(ctx, insertMissSQL, kind, key, status, reason)
	return err
}

func (r *Repo) GetCasino(ctx context.Context, slug string) (domain.CasinoData, error) {
	var c domain.CasinoData
	raw, err := r.getOne(ctx, getCasinoSQL, slug, &c)
	c.RawJSON = raw
	return c, err
}

func (r *Repo) GetGame(ctx context.Context, slug string) (domain.GameData, error) {
	var g domain.GameData
	raw, err := r.getOne(ctx, getGameSQL, slug, &g)
	g.RawJSON = raw
	return g, err
}

func (r *Repo) getOne(ctx context.Context, query, slug string, dst any) ([]byte, error) {
	var data, raw []byte
	row := r.db.QueryRowContext(ctx, query, slug)
	if err := row.Scan(&data, &raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return nil, fmt.Errorf("decode %s: %w", slug, err)
	}
	return raw, nil
}

func (r *Repo) ListCasinos(ctx context.Context, q domain.ListQuery) ([]domain.CasinoData, error) {
	query, args := listSQL(listCasinosHead, q, false)
	var out []domain.CasinoData
	err := r.list(ctx, query, args, func(b []byte) error {
		var c domain.CasinoData
		if err := json.Unmarshal(b, &c); err != nil {
			return err
		}
		out = append(out, c)
		return nil
	})
	return out, err
}

func (r *Repo) ListGames(ctx context.Context, q domain.ListQuery) ([]domain.GameData, error) {
	query, args := listSQL(listGamesHead, q, true)
	var out []domain.GameData
	err := r.list(ctx, query, args, func(b []byte) error {
		var g domain.GameData
		if err := json.Unmarshal(b, &g); err != nil {
			return err
		}
		out = append(out, g)
		return nil
	})
	return out, err
}

func (r *Repo) list(ctx context.Context, query string, args []any, each func([]byte) error) error {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var b []byte
		if err := rows.Scan(&b); err != nil {
			return err
		}
		if err := each(b); err != nil {
			return err
		}
	}
	return rows.Err()
}

func (r *Repo) GetTranslations(ctx context.Context, locale string) (domain.Translations, error) {
	var t domain.Translations
	if err := r.getDocument(ctx, docTranslations, locale, &t); err != nil {
		return nil, err
	}
	return t, nil
}

func (r *Repo) GetNavigation(ctx context.Context, locale string) ([]domain.NavigationItem, error) {
	var items []domain.NavigationItem
	if err := r.getDocument(ctx, docNavigation, locale, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *Repo) getDocument(ctx context.Context, kind, locale string, dst any) error {
	var body []byte
	if err := r.db.QueryRowContext(ctx, getDocumentSQL, kind, locale).Scan(&body); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}
		return err
	}
	return json.Unmarshal(body, dst)
}

// sortColumns whitelists the API sort fields that may reach ORDER BY.
var sortColumns = map[string]string{
	"views":       "views",
	"createdAt":   "created_at",
	"ratingAvg":   "rating_avg",
	"ratingCount": "rating_count",
	"title":       "title",
}

// listSQL appends filters, ordering and paging to head. Unknown sort fields
// fall back to slug order; slug is always the final tiebreak.
func listSQL(head string, q domain.ListQuery, withProvider bool) (string, []any) {
	var (
		where []string
		args  []any
	)
	if q.Exclude != "" {
		where = append(where, "slug <> ?")
		args = append(args, q.Exclude)
	}
	if withProvider && q.Provider != "" {
		where = append(where, "provider_slug = ?")
		args = append(args, q.Provider)
	}

	var b strings.Builder
	b.WriteString(head)
	if len(where) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(where, " AND "))
	}
	b.WriteString(" ORDER BY ")
	if field, desc, ok := format.ParseSortExpr(q.Sort); ok {
		if col, ok := sortColumns[field]; ok {
			b.WriteString(col)
			if desc {
				b.WriteString(" DESC")
			} else {
				b.WriteString(" ASC")
			}
			b.WriteString(", ")
		}
	}
	b.WriteString("slug ASC LIMIT ? OFFSET ?")

	limit := q.Limit
	if limit <= 0 {
		limit = 24
	}
	offset := q.Offset
	if offset < 0 {
		offset = 0
	}
	args = append(args, limit, offset)
	return b.String(), args
}
