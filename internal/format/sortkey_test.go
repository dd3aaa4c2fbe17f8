package format_test

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kenshomedia-ltd/gds-optimised-sub001/internal/format"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = prev })
	return &buf
}

func TestNormalizeGameSort(t *testing.T) {
	cases := map[string]string{
		"Most Popular":   "Most Popular", // canonical
		"Popular":        "Most Popular", // alias
		"Più popolari":   "Most Popular", // other-language alias
		"createdAt:desc": "Newest",       // reverse table
		"popular":        "Most Popular", // case-insensitive alias
		"LATEST":         "Newest",
		"  Top Rated ":   "Top Rated",
		"title:desc":     "Z-A",
	}
	for in, want := range cases {
		assert.Equal(t, want, format.NormalizeGameSort(in), in)
	}
}

func TestNormalizeGameSort_UnknownLogsAndFallsBack(t *testing.T) {
	buf := captureLog(t)

	assert.Equal(t, "Newest", format.NormalizeGameSort("unknown-value", "Newest"))
	assert.Contains(t, buf.String(), "unknown sort key")
	assert.Contains(t, buf.String(), "unknown-value")

	assert.Equal(t, format.DefaultGameSort, format.NormalizeGameSort("nope"))
}

func TestNormalize_KnownInputDoesNotLog(t *testing.T) {
	buf := captureLog(t)
	format.NormalizeCasinoSort("Migliori")
	assert.Empty(t, buf.String())
}

func TestSortTable_Resolve(t *testing.T) {
	label, expr := format.CasinoSorts.Resolve("Nuovi", format.DefaultCasinoSort)
	assert.Equal(t, "Newest", label)
	assert.Equal(t, "createdAt:desc", expr)

	label, expr = format.GameSorts.Resolve("???", "A-Z")
	assert.Equal(t, "A-Z", label)
	assert.Equal(t, "title:asc", expr)
}

func TestSortTable_LabelsStable(t *testing.T) {
	assert.Equal(t, []string{"A-Z", "Most Popular", "Newest", "Top Rated", "Z-A"}, format.GameSorts.Labels())
}

func TestNewSortTable_PanicsOnDanglingAlias(t *testing.T) {
	require.Panics(t, func() {
		format.NewSortTable("bad", map[string]string{"A": "a:asc"}, map[string]string{"b": "B"})
	})
}

func TestParseSortExpr(t *testing.T) {
	f, desc, ok := format.ParseSortExpr("views:desc")
	assert.True(t, ok)
	assert.Equal(t, "views", f)
	assert.True(t, desc)

	f, desc, ok = format.ParseSortExpr("title")
	assert.True(t, ok)
	assert.Equal(t, "title", f)
	assert.False(t, desc)

	_, _, ok = format.ParseSortExpr("title:sideways")
	assert.False(t, ok)
	_, _, ok = format.ParseSortExpr(":desc")
	assert.False(t, ok)
}

func TestSortTable_Known(t *testing.T) {
	assert.True(t, format.GameSorts.Known("recent"))
	assert.True(t, format.CasinoSorts.Known("ratingCount:desc"))
	assert.False(t, format.GameSorts.Known("ratingCount:desc"))
	assert.False(t, format.GameSorts.Known(""))
}
