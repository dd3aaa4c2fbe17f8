// Package format derives the display strings the portal shows for CMS
// records: bonus text, "new"/"exclusive" badges, sort labels and
// base-path aware internal URLs. Nothing here returns an error; missing
// input degrades to a documented fallback.
package format

import (
	"strconv"
	"strings"

	"github.com/kenshomedia-ltd/gds-optimised-sub001/internal/domain"
)

const (
	bonusSeparator = " + "
	termsSeparator = ". "
	noValue        = "-"

	// FreeSpinsKey is the translation key for the free-spins suffix.
	FreeSpinsKey = "freeSpins"
)

type BonusFormatter struct {
	Currency string // prefix for monetary amounts, e.g. "€"
}

var DefaultBonus = BonusFormatter{Currency: "€"}

// NoDepositBonus is the no-deposit offer text plus the terms that apply to it.
type NoDepositBonus struct {
	Bonus string `json:"bonus"`
	Terms string `json:"terms,omitempty"`
}

func FormatWelcomeBonus(c domain.CasinoData, fallback string) string {
	return DefaultBonus.Welcome(c, fallback)
}

func FormatNoDepositBonus(c domain.CasinoData, tr domain.Translations) NoDepositBonus {
	return DefaultBonus.NoDeposit(c, tr)
}

// Welcome joins amount, cashback and free-spin text with " + ".
// With none of them present it falls back to the casino's bonus label,
// then to fallback, then to "-".
func (f BonusFormatter) Welcome(c domain.CasinoData, fallback string) string {
	var parts []string
	if b := c.Bonus; b != nil {
		parts = appendNonEmpty(parts, f.money(b.BonusAmount), b.CashBack, b.FreeSpin)
	}
	if len(parts) > 0 {
		return strings.Join(parts, bonusSeparator)
	}
	if c.CasinoBonus != nil {
		if l := strings.TrimSpace(c.CasinoBonus.BonusLabel); l != "" {
			return l
		}
	}
	if fb := strings.TrimSpace(fallback); fb != "" {
		return fb
	}
	return noValue
}

// NoDeposit combines the no-deposit cash amount with the free-spins count.
// Terms come from both sections independently.
func (f BonusFormatter) NoDeposit(c domain.CasinoData, tr domain.Translations) NoDepositBonus {
	var parts, terms []string
	if nd := c.NoDeposit; nd != nil {
		parts = appendNonEmpty(parts, f.money(nd.BonusAmount))
		terms = appendNonEmpty(terms, nd.Terms)
	}
	if fs := c.FreeSpins; fs != nil {
		if n := number(fs.BonusAmount); n != "" {
			parts = append(parts, n+" "+tr.Get(FreeSpinsKey, "Free Spins"))
		}
		terms = appendNonEmpty(terms, fs.Terms)
	}

	out := NoDepositBonus{Bonus: noValue, Terms: strings.Join(terms, termsSeparator)}
	if len(parts) > 0 {
		out.Bonus = strings.Join(parts, bonusSeparator)
	}
	return out
}

func (f BonusFormatter) money(v *float64) string {
	n := number(v)
	if n == "" {
		return ""
	}
	return f.Currency + n
}

// number renders a positive amount without a trailing ".0".
func number(v *float64) string {
	if v == nil || *v <= 0 {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// appendNonEmpty keeps values verbatim; blank ones are dropped.
func appendNonEmpty(dst []string, vals ...string) []string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			dst = append(dst, v)
		}
	}
	return dst
}
