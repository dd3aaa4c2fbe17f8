package app

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, s string) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(s), &m))
	return m
}

func TestMapCasino_AttributesEnvelope(t *testing.T) {
	p := decode(t, `{
		"id": 7,
		"attributes": {
			"title": "StarVegas",
			"slug": "starvegas",
			"ratingAvg": "8,5",
			"ratingCount": 120,
			"createdAt": "2025-03-10T09:00:00.000Z",
			"bonusSection": {"bonusAmount": 1000, "freeSpin": "100 Free Spins", "cashBack": ""},
			"noDepositSection": {"bonusAmount": "10", "termsConditions": "50x"},
			"casinoBonus": {"bonusUrl": "https://go.example/sv", "bonusCode": "SV10"},
			"termsAndConditions": {"copy": "18+ only"},
			"badges": {"data": [{"id": 1, "attributes": {"title": "Exclusive"}}]},
			"logo": {"data": {"id": 3, "attributes": {"url": "/uploads/sv.png", "width": 200, "height": 80}}}
		}
	}`)

	c := mapCasino(p)

	assert.Equal(t, int64(7), c.ID)
	assert.Equal(t, "StarVegas", c.Title)
	assert.Equal(t, "starvegas", c.Slug)
	assert.InDelta(t, 8.5, c.RatingAvg, 0.0001)
	assert.Equal(t, 120, c.RatingCount)
	assert.Equal(t, "18+ only", c.Terms)
	assert.True(t, c.Exclusive)

	require.NotNil(t, c.Bonus)
	require.NotNil(t, c.Bonus.BonusAmount)
	assert.Equal(t, 1000.0, *c.Bonus.BonusAmount)
	assert.Equal(t, "100 Free Spins", c.Bonus.FreeSpin)

	require.NotNil(t, c.NoDeposit)
	assert.Equal(t, 10.0, *c.NoDeposit.BonusAmount)
	assert.Equal(t, "50x", c.NoDeposit.Terms)
	assert.Nil(t, c.FreeSpins)

	require.NotNil(t, c.CasinoBonus)
	assert.Equal(t, "SV10", c.CasinoBonus.BonusCode)

	require.NotNil(t, c.Logo)
	assert.Equal(t, "/uploads/sv.png", c.Logo.URL)
	assert.Equal(t, 200, c.Logo.Width)
	assert.NotEmpty(t, c.RawJSON)
}

func TestMapCasino_FlatPayload(t *testing.T) {
	p := decode(t, `{
		"id": 9, "name": "Sisal", "slug": "sisal",
		"rating": {"average": 7.2, "count": 40},
		"freeSpinsSection": {"bonusAmount": 25},
		"views": "1500"
	}`)

	c := mapCasino(p)

	assert.Equal(t, "Sisal", c.Title)
	assert.InDelta(t, 7.2, c.RatingAvg, 0.0001)
	assert.Equal(t, 40, c.RatingCount)
	assert.Equal(t, int64(1500), c.Views)
	assert.False(t, c.Exclusive)
	assert.Nil(t, c.Bonus)
	require.NotNil(t, c.FreeSpins)
	assert.Equal(t, 25.0, *c.FreeSpins.BonusAmount)
}

func TestMapGame_Provider(t *testing.T) {
	p := decode(t, `{
		"id": 3,
		"attributes": {
			"title": "Book of Ra", "slug": "book-of-ra", "views": 99,
			"provider": {"data": {"id": 2, "attributes": {"title": "Novomatic", "slug": "novomatic"}}},
			"images": {"data": [{"attributes": {"url": "/a.jpg", "alternativeText": "reels"}}]}
		}
	}`)

	g := mapGame(p)

	assert.Equal(t, "book-of-ra", g.Slug)
	assert.Equal(t, int64(99), g.Views)
	require.NotNil(t, g.Provider)
	assert.Equal(t, "Novomatic", g.Provider.Title)
	assert.Equal(t, "novomatic", g.Provider.Slug)
	require.Len(t, g.Images, 1)
	assert.Equal(t, "reels", g.Images[0].Alt)
}

func TestMapGame_NoProvider(t *testing.T) {
	g := mapGame(decode(t, `{"title": "Orphan", "slug": "orphan"}`))
	assert.Nil(t, g.Provider)
}

func TestMapTranslations_FlattensGroups(t *testing.T) {
	p := decode(t, `{
		"data": {
			"id": 1,
			"attributes": {
				"locale": "it",
				"home": "Home",
				"freeSpins": "Giri Gratis",
				"footer": {"copyright": "Tutti i diritti riservati", "year": 2025}
			}
		},
		"meta": {}
	}`)

	tr := mapTranslations(p)

	assert.Equal(t, "Giri Gratis", tr["freeSpins"])
	assert.Equal(t, "Tutti i diritti riservati", tr["footer.copyright"])
	assert.NotContains(t, tr, "locale")
	assert.NotContains(t, tr, "id")
	assert.NotContains(t, tr, "footer.year")
}

func TestMapNavigation_Tree(t *testing.T) {
	p := decode(t, `{
		"data": {
			"attributes": {
				"mainNavigation": [
					{"title": "Casinò", "url": "/casino", "subMenu": [{"label": "Nuovi", "link": "/casino/nuovi"}]},
					{"title": "", "url": ""},
					{"title": "Blog", "url": "/blog"}
				]
			}
		}
	}`)

	nav := mapNavigation(p)

	require.Len(t, nav, 2)
	assert.Equal(t, "Casinò", nav[0].Title)
	require.Len(t, nav[0].Children, 1)
	assert.Equal(t, "/casino/nuovi", nav[0].Children[0].URL)
	assert.Equal(t, "Blog", nav[1].Title)
}

func TestMapNavigation_Empty(t *testing.T) {
	assert.Nil(t, mapNavigation(decode(t, `{"data": null}`)))
}
