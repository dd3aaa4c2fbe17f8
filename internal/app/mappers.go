package app

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/kenshomedia-ltd/gds-optimised-sub001/internal/domain"
)

/********** alias registries (single source of truth) **********/

var casinoAliases = map[string][]string{
	"title":       {"title", "name"},
	"slug":        {"slug", "urlSlug"},
	"ratingAvg":   {"ratingAvg", "rating.average", "averageRating", "rating"},
	"ratingCount": {"ratingCount", "rating.count", "reviewsCount"},
	"createdAt":   {"createdAt", "publishedAt", "created_at"},
	"updatedAt":   {"updatedAt", "updated_at"},
	"terms":       {"termsAndConditions.copy", "termsAndConditions", "terms"},
	"views":       {"views", "viewCount", "pageViews"},
	"exclusive":   {"badges", "exclusive", "isExclusive"},
	"bonusLabel":  {"casinoBonus.bonusLabel", "bonusLabel"},
	"bonusUrl":    {"casinoBonus.bonusUrl", "bonusUrl", "affiliateLink"},
	"bonusCode":   {"casinoBonus.bonusCode", "bonusCode"},
}

var gameAliases = map[string][]string{
	"title":         {"title", "name"},
	"slug":          {"slug", "urlSlug"},
	"ratingAvg":     {"ratingAvg", "rating.average", "averageRating", "rating"},
	"ratingCount":   {"ratingCount", "rating.count"},
	"createdAt":     {"createdAt", "publishedAt", "created_at"},
	"views":         {"views", "viewCount", "pageViews"},
	"providerTitle": {"provider.title", "provider.name", "providerName"},
	"providerSlug":  {"provider.slug", "providerSlug"},
}

var navAliases = map[string][]string{
	"items":    {"items", "mainNavigation", "navigation", "links"},
	"title":    {"title", "label", "name"},
	"url":      {"url", "link", "href", "path"},
	"children": {"children", "subMenu", "subItems", "items"},
}

/********** tiny helpers **********/

// unwrap flattens the CMS envelope shapes: {"data": x} relations and
// {"id": n, "attributes": {...}} entries. Flat payloads pass through.
func unwrap(v any) any {
	for i := 0; i < 4; i++ {
		m, ok := v.(map[string]any)
		if !ok {
			return v
		}
		if attrs, ok := m["attributes"].(map[string]any); ok {
			merged := make(map[string]any, len(attrs)+1)
			for k, x := range attrs {
				merged[k] = x
			}
			if id, ok := m["id"]; ok {
				merged["id"] = id
			}
			v = merged
			continue
		}
		if d, ok := m["data"]; ok && len(m) <= 2 {
			if _, hasMeta := m["meta"]; len(m) == 1 || hasMeta {
				v = d
				continue
			}
		}
		return v
	}
	return v
}

// lookupAny: safe nested lookup with dot paths, unwrapping envelopes on the way.
func lookupAny(m map[string]any, path string) any {
	cur := unwrap(m)
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		v, ok := obj[part]
		if !ok || v == nil {
			return nil
		}
		cur = unwrap(v)
	}
	return cur
}

// lookupStr returns string at path or "".
func lookupStr(m map[string]any, path string) string {
	if v := lookupAny(m, path); v != nil {
		if s, ok := v.(string); ok {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

// firstAlias: first non-empty string for a named alias set.
func firstAlias(m map[string]any, aliases map[string][]string, key string) string {
	for _, p := range aliases[key] {
		if s := lookupStr(m, p); s != "" {
			return s
		}
	}
	return ""
}

// getFloatFlexible: number from several paths (float64/int/string like "8,5").
func getFloatFlexible(m map[string]any, paths ...string) *float64 {
	for _, k := range paths {
		switch v := lookupAny(m, k).(type) {
		case float64:
			f := v
			return &f
		case int:
			f := float64(v)
			return &f
		case json.Number:
			if f, err := v.Float64(); err == nil {
				return &f
			}
		case string:
			s := strings.TrimSpace(strings.ReplaceAll(v, ",", "."))
			if s == "" {
				continue
			}
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				return &f
			}
		}
	}
	return nil
}

func floatOr0(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

// firstInt64Flexible: int64 from several paths (float64/int/string).
func firstInt64Flexible(m map[string]any, paths ...string) int64 {
	if f := getFloatFlexible(m, paths...); f != nil {
		return int64(*f)
	}
	return 0
}

// getBoolFlexible accepts true/false, "true"/"exclusive" strings, or a list
// of badge names containing "exclusive".
func getBoolFlexible(m map[string]any, paths ...string) bool {
	for _, k := range paths {
		switch v := lookupAny(m, k).(type) {
		case bool:
			return v
		case string:
			s := strings.ToLower(strings.TrimSpace(v))
			if s == "true" || s == "exclusive" || s == "1" {
				return true
			}
		case []any:
			for _, it := range v {
				if s, ok := unwrap(it).(string); ok && strings.EqualFold(s, "exclusive") {
					return true
				}
				if bm, ok := unwrap(it).(map[string]any); ok {
					if strings.EqualFold(lookupStr(bm, "title"), "exclusive") ||
						strings.EqualFold(lookupStr(bm, "label"), "exclusive") {
						return true
					}
				}
			}
		}
	}
	return false
}

// firstImages accepts a single media object or a list of them.
func firstImages(m map[string]any, paths ...string) []domain.Image {
	for _, k := range paths {
		var raw []any
		switch v := lookupAny(m, k).(type) {
		case []any:
			raw = v
		case map[string]any:
			raw = []any{v}
		case string:
			if v != "" {
				return []domain.Image{{URL: v}}
			}
		}
		out := make([]domain.Image, 0, len(raw))
		for _, it := range raw {
			obj, ok := unwrap(it).(map[string]any)
			if !ok {
				continue
			}
			u := lookupStr(obj, "url")
			if u == "" {
				continue
			}
			out = append(out, domain.Image{
				URL:    u,
				Alt:    lookupStr(obj, "alternativeText"),
				Width:  int(firstInt64Flexible(obj, "width")),
				Height: int(firstInt64Flexible(obj, "height")),
			})
		}
		if len(out) > 0 {
			return out
		}
	}
	return nil
}

func rawJSON(context string, v any) []byte {
	raw, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("context", context).Msg("failed to marshal payload to JSON")
		return nil
	}
	return raw
}

/********** casino mapper **********/

func mapCasino(p map[string]any) domain.CasinoData {
	c := domain.CasinoData{
		ID:          firstInt64Flexible(p, "id"),
		Title:       firstAlias(p, casinoAliases, "title"),
		Slug:        firstAlias(p, casinoAliases, "slug"),
		RatingAvg:   floatOr0(getFloatFlexible(p, casinoAliases["ratingAvg"]...)),
		RatingCount: int(firstInt64Flexible(p, casinoAliases["ratingCount"]...)),
		Terms:       firstAlias(p, casinoAliases, "terms"),
		Exclusive:   getBoolFlexible(p, casinoAliases["exclusive"]...),
		Views:       firstInt64Flexible(p, casinoAliases["views"]...),
		CreatedAt:   firstAlias(p, casinoAliases, "createdAt"),
		UpdatedAt:   firstAlias(p, casinoAliases, "updatedAt"),
		RawJSON:     rawJSON("mapCasino", p),
	}

	if b := (domain.BonusSection{
		BonusAmount: getFloatFlexible(p, "bonusSection.bonusAmount"),
		CashBack:    lookupStr(p, "bonusSection.cashBack"),
		FreeSpin:    lookupStr(p, "bonusSection.freeSpin"),
		Terms:       lookupStr(p, "bonusSection.termsConditions"),
	}); b != (domain.BonusSection{}) {
		c.Bonus = &b
	}
	if nd := (domain.NoDepositSection{
		BonusAmount: getFloatFlexible(p, "noDepositSection.bonusAmount"),
		Terms:       lookupStr(p, "noDepositSection.termsConditions"),
	}); nd != (domain.NoDepositSection{}) {
		c.NoDeposit = &nd
	}
	if fs := (domain.FreeSpinsSection{
		BonusAmount: getFloatFlexible(p, "freeSpinsSection.bonusAmount"),
		Terms:       lookupStr(p, "freeSpinsSection.termsConditions"),
	}); fs != (domain.FreeSpinsSection{}) {
		c.FreeSpins = &fs
	}
	if cb := (domain.CasinoBonus{
		BonusLabel: firstAlias(p, casinoAliases, "bonusLabel"),
		BonusURL:   firstAlias(p, casinoAliases, "bonusUrl"),
		BonusCode:  firstAlias(p, casinoAliases, "bonusCode"),
	}); cb != (domain.CasinoBonus{}) {
		c.CasinoBonus = &cb
	}

	if logo := firstImages(p, "logo", "images"); len(logo) > 0 {
		c.Logo = &logo[0]
	}
	c.Images = firstImages(p, "images", "gallery", "screenshots")
	return c
}

/********** game mapper **********/

func mapGame(p map[string]any) domain.GameData {
	g := domain.GameData{
		ID:          firstInt64Flexible(p, "id"),
		Title:       firstAlias(p, gameAliases, "title"),
		Slug:        firstAlias(p, gameAliases, "slug"),
		RatingAvg:   floatOr0(getFloatFlexible(p, gameAliases["ratingAvg"]...)),
		RatingCount: int(firstInt64Flexible(p, gameAliases["ratingCount"]...)),
		Images:      firstImages(p, "images", "thumbnail", "image"),
		Views:       firstInt64Flexible(p, gameAliases["views"]...),
		CreatedAt:   firstAlias(p, gameAliases, "createdAt"),
		RawJSON:     rawJSON("mapGame", p),
	}
	pt := firstAlias(p, gameAliases, "providerTitle")
	ps := firstAlias(p, gameAliases, "providerSlug")
	if pt != "" || ps != "" {
		g.Provider = &domain.ProviderRef{Title: pt, Slug: ps}
	}
	return g
}

/********** site document mappers **********/

// mapTranslations keeps string leaves; nested groups become dotted keys.
func mapTranslations(payload map[string]any) domain.Translations {
	root, _ := unwrap(payload).(map[string]any)
	if inner, ok := lookupAny(root, "translation").(map[string]any); ok {
		root = inner
	}
	out := domain.Translations{}
	var walk func(prefix string, m map[string]any)
	walk = func(prefix string, m map[string]any) {
		for k, v := range m {
			switch k {
			case "id", "createdAt", "updatedAt", "publishedAt", "locale", "localizations":
				if prefix == "" {
					continue
				}
			}
			key := k
			if prefix != "" {
				key = prefix + "." + k
			}
			switch t := unwrap(v).(type) {
			case string:
				out[key] = t
			case map[string]any:
				walk(key, t)
			}
		}
	}
	if root != nil {
		walk("", root)
	}
	return out
}

func mapNavigation(payload map[string]any) []domain.NavigationItem {
	for _, p := range navAliases["items"] {
		if raw, ok := lookupAny(payload, p).([]any); ok {
			if items := mapNavItems(raw, 0); len(items) > 0 {
				return items
			}
		}
	}
	return nil
}

func mapNavItems(raw []any, depth int) []domain.NavigationItem {
	if depth > 4 {
		return nil
	}
	out := make([]domain.NavigationItem, 0, len(raw))
	for _, it := range raw {
		m, ok := unwrap(it).(map[string]any)
		if !ok {
			continue
		}
		item := domain.NavigationItem{
			Title: firstAlias(m, navAliases, "title"),
			URL:   firstAlias(m, navAliases, "url"),
		}
		for _, p := range navAliases["children"] {
			if kids, ok := lookupAny(m, p).([]any); ok && len(kids) > 0 {
				item.Children = mapNavItems(kids, depth+1)
				break
			}
		}
		if item.Title == "" && item.URL == "" {
			continue
		}
		out = append(out, item)
	}
	return out
}
