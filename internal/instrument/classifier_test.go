package instrument

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"signalbot/models"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		symbol   string
		expected models.InstrumentCategory
	}{
		{"plain forex pair", "EURUSD", models.CategoryForex},
		{"forex with separator", "GBP/JPY", models.CategoryForex},
		{"lowercase forex", "audnzd", models.CategoryForex},
		{"gold", "XAUUSD", models.CategoryCommodities},
		{"silver keyword", "SILVER", models.CategoryCommodities},
		{"oil", "USOIL", models.CategoryCommodities},
		{"dax", "GER30", models.CategoryIndices},
		{"nasdaq", "NAS100", models.CategoryIndices},
		{"sp500", "SPX500", models.CategoryIndices},
		{"dollar index before forex", "DXY", models.CategoryIndices},
		{"bitcoin", "BTCUSD", models.CategoryCrypto},
		{"eth perp suffix kept by caller", "ETHUSDT", models.CategoryCrypto},
		{"unknown falls back to forex", "FOOBAR", models.CategoryForex},
		{"empty falls back to forex", "", models.CategoryForex},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Classify(tt.symbol))
		})
	}
}

func TestClassifyPriorityOrder(t *testing.T) {
	// US30 contains no commodity/crypto token but is 4 chars + digits; must
	// resolve as an index, not fall through to forex.
	assert.Equal(t, models.CategoryIndices, Classify("US30"))

	// XAUUSD contains "USD" but commodities are checked before the 6-letter
	// forex rule.
	assert.Equal(t, models.CategoryCommodities, Classify("XAUUSD"))
}

func TestIsJPYQuoted(t *testing.T) {
	assert.True(t, IsJPYQuoted("USDJPY"))
	assert.True(t, IsJPYQuoted("eur/jpy"))
	assert.False(t, IsJPYQuoted("EURUSD"))
	assert.False(t, IsJPYQuoted("JPYUSD"))
}
