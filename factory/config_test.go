package factory_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulsegym/sales-engine/engine"
	"github.com/pulsegym/sales-engine/factory"
)

func TestParseConfig_EmptyKeepsDefaults(t *testing.T) {
	cfg, err := factory.ParseConfig([]byte(`{}`))
	require.NoError(t, err)

	def := engine.DefaultConfig()
	assert.Equal(t, def.Blacklist, cfg.Blacklist)
	assert.True(t, def.Tables.ProductRate.Equal(cfg.Tables.ProductRate))
	assert.Len(t, cfg.BonusBrackets, len(def.BonusBrackets))
}

func TestParseConfig_Overrides(t *testing.T) {
	raw := []byte(`{
		"blacklist": ["Estorno"],
		"allow_list": ["Plano"],
		"normalize_bonus": true,
		"tables": {
			"neither": {"no_discount": [1,2,3,4,5,6], "discount": [1,1,1,1,1,1]},
			"product_rate": 0.02
		},
		"bonus_brackets": [{"threshold_pct": 90, "bonus": 1000}]
	}`)

	cfg, err := factory.ParseConfig(raw)
	require.NoError(t, err)

	assert.Equal(t, []string{"Estorno"}, cfg.Blacklist)
	assert.Equal(t, []string{"Plano"}, cfg.AllowList)
	assert.True(t, cfg.NormalizeBonus)
	assert.True(t, decimal.NewFromFloat(0.02).Equal(cfg.Tables.ProductRate))
	assert.True(t, decimal.NewFromInt(1).Equal(cfg.Tables.Neither.NoDiscount[0]))

	// Untouched sections keep defaults.
	def := engine.DefaultConfig()
	assert.True(t, def.Tables.Unit.NoDiscount[5].Equal(cfg.Tables.Unit.NoDiscount[5]))

	require.Len(t, cfg.BonusBrackets, 1)
	assert.True(t, decimal.NewFromInt(90).Equal(cfg.BonusBrackets[0].ThresholdPct))
}

func TestParseConfig_Invalid(t *testing.T) {
	cases := []string{
		`not json`,
		`{"tables": {"neither": {"no_discount": [1,2,3], "discount": [1,1,1,1,1,1]}}}`,
		`{"tables": {"product_rate": 1.5}}`,
		`{"bonus_brackets": [{"threshold_pct": -1, "bonus": 10}]}`,
		`{"bonus_brackets": [{"threshold_pct": 50, "bonus": -10}]}`,
	}

	for _, raw := range cases {
		_, err := factory.ParseConfig([]byte(raw))
		require.Error(t, err, "raw=%s", raw)
		assert.True(t, errors.Is(err, engine.ErrInvalidConfig), "raw=%s err=%v", raw, err)
	}
}

func TestConfigJSON_RoundTrip(t *testing.T) {
	original := engine.DefaultConfig()
	original.AllowList = []string{"Plano"}

	cj := factory.ToJSON(original)
	parsed, err := factory.FromJSON(cj)
	require.NoError(t, err)

	assert.Equal(t, original.Blacklist, parsed.Blacklist)
	assert.Equal(t, original.AllowList, parsed.AllowList)
	assert.True(t, original.Tables.Individual.Discount[1].Equal(parsed.Tables.Individual.Discount[1]))
	assert.Len(t, parsed.BonusBrackets, len(original.BonusBrackets))
}
