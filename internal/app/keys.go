package app

import (
	"fmt"
	"strings"
)

const (
	DefaultListLimit = 24
	MaxListLimit     = 100
	relatedLimit     = 6
)

// generationKey holds the token every view key is prefixed with. The
// ingestor replaces it after each sync, which orphans all cached views at
// once; orphans age out through their TTL.
const generationKey = "gen"

func versioned(gen, key string) string { return "v" + gen + ":" + key }

func casinoKey(slug, lang string) string { return fmt.Sprintf("casino:%s:%s", slug, lang) }
func gameKey(slug, lang string) string   { return fmt.Sprintf("game:%s:%s", slug, lang) }
func casinosKey(label string, limit int, lang string) string {
	return fmt.Sprintf("casinos:%s:%d:%s", keyPart(label), limit, lang)
}
func gamesKey(label, provider string, limit int, lang string) string {
	return fmt.Sprintf("games:%s:%s:%d:%s", keyPart(label), provider, limit, lang)
}
func translationsKey(lang string) string { return "i18n:" + lang }
func navigationKey(lang string) string   { return "nav:" + lang }

func keyPart(s string) string { return strings.ReplaceAll(strings.ToLower(s), " ", "_") }

func clampLimit(n int) int {
	switch {
	case n <= 0:
		return DefaultListLimit
	case n > MaxListLimit:
		return MaxListLimit
	}
	return n
}
