package format_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kenshomedia-ltd/gds-optimised-sub001/internal/domain"
	"github.com/kenshomedia-ltd/gds-optimised-sub001/internal/format"
)

func pf(f float64) *float64 { return &f }

func TestFormatWelcomeBonus(t *testing.T) {
	cases := []struct {
		name     string
		casino   domain.CasinoData
		fallback string
		want     string
	}{
		{"no bonus fields uses fallback", domain.CasinoData{}, "Vedi offerta", "Vedi offerta"},
		{"no bonus fields no fallback", domain.CasinoData{}, "", "-"},
		{"blank fallback", domain.CasinoData{}, "   ", "-"},
		{"empty section", domain.CasinoData{Bonus: &domain.BonusSection{}}, "", "-"},
		{"cashback only", domain.CasinoData{Bonus: &domain.BonusSection{CashBack: "10% Cashback"}}, "x", "10% Cashback"},
		{"cashback kept verbatim", domain.CasinoData{Bonus: &domain.BonusSection{CashBack: " 10% "}}, "x", " 10% "},
		{"blank cashback dropped", domain.CasinoData{Bonus: &domain.BonusSection{CashBack: "  "}}, "", "-"},
		{
			"all parts",
			domain.CasinoData{Bonus: &domain.BonusSection{BonusAmount: pf(500), CashBack: "10% Cashback", FreeSpin: "50 Free Spins"}},
			"",
			"€500 + 10% Cashback + 50 Free Spins",
		},
		{
			"fractional amount",
			domain.CasinoData{Bonus: &domain.BonusSection{BonusAmount: pf(12.5)}},
			"",
			"€12.5",
		},
		{
			"zero amount omitted",
			domain.CasinoData{Bonus: &domain.BonusSection{BonusAmount: pf(0), FreeSpin: "20 giri"}},
			"",
			"20 giri",
		},
		{
			"label beats fallback",
			domain.CasinoData{CasinoBonus: &domain.CasinoBonus{BonusLabel: "100% fino a €1000"}},
			"fallback",
			"100% fino a €1000",
		},
		{
			"parts beat label",
			domain.CasinoData{
				Bonus:       &domain.BonusSection{CashBack: "5%"},
				CasinoBonus: &domain.CasinoBonus{BonusLabel: "label"},
			},
			"",
			"5%",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, format.FormatWelcomeBonus(tc.casino, tc.fallback))
		})
	}
}

func TestBonusFormatter_Currency(t *testing.T) {
	f := format.BonusFormatter{Currency: "$"}
	got := f.Welcome(domain.CasinoData{Bonus: &domain.BonusSection{BonusAmount: pf(200)}}, "")
	assert.Equal(t, "$200", got)
}

func TestFormatNoDepositBonus(t *testing.T) {
	tr := domain.Translations{format.FreeSpinsKey: "Giri Gratis"}

	t.Run("nothing present", func(t *testing.T) {
		got := format.FormatNoDepositBonus(domain.CasinoData{}, tr)
		assert.Equal(t, format.NoDepositBonus{Bonus: "-"}, got)
	})

	t.Run("cash and spins with both terms", func(t *testing.T) {
		c := domain.CasinoData{
			NoDeposit: &domain.NoDepositSection{BonusAmount: pf(10), Terms: "Wagering 35x"},
			FreeSpins: &domain.FreeSpinsSection{BonusAmount: pf(50), Terms: "Only on Book of Ra"},
		}
		got := format.FormatNoDepositBonus(c, tr)
		assert.Equal(t, "€10 + 50 Giri Gratis", got.Bonus)
		assert.Equal(t, "Wagering 35x. Only on Book of Ra", got.Terms)
	})

	t.Run("spins only with default suffix", func(t *testing.T) {
		c := domain.CasinoData{FreeSpins: &domain.FreeSpinsSection{BonusAmount: pf(25)}}
		got := format.FormatNoDepositBonus(c, nil)
		assert.Equal(t, "25 Free Spins", got.Bonus)
		assert.Empty(t, got.Terms)
	})

	t.Run("terms without amounts", func(t *testing.T) {
		c := domain.CasinoData{FreeSpins: &domain.FreeSpinsSection{Terms: "T&C apply"}}
		got := format.FormatNoDepositBonus(c, tr)
		assert.Equal(t, "-", got.Bonus)
		assert.Equal(t, "T&C apply", got.Terms)
	})
}
