package instrument

import (
	"strings"

	"github.com/samber/lo"

	"signalbot/models"
)

// Keyword tables, checked in priority order. Some substrings overlap across
// categories ("USD" appears in forex pairs and index tickers), so once a
// category matches the later ones must not be consulted.
var (
	indexTickers = []string{
		"GER30", "GER40", "DAX", "NAS100", "NDX", "SPX500", "SPX", "US30",
		"US500", "UK100", "FTSE", "JPN225", "NIKKEI", "AUS200", "FRA40",
		"ESP35", "HK50", "DXY",
	}

	commodityTokens = []string{
		"XAU", "GOLD", "XAG", "SILVER", "OIL", "BRENT", "WTI", "UKOIL",
		"USOIL", "XPT", "PLATINUM", "XPD", "NGAS", "NATGAS",
	}

	cryptoTokens = []string{
		"BTC", "ETH", "XRP", "ADA", "SOL", "DOT", "DOGE", "LTC", "BNB",
		"AVAX", "LINK", "MATIC", "ATOM", "UNI", "SHIB",
	}
)

// Classify maps a free-text symbol to its instrument category. It never fails
// closed: anything unrecognized falls back to FOREX.
func Classify(symbol string) models.InstrumentCategory {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	if s == "" {
		return models.CategoryForex
	}

	contains := func(token string) bool { return strings.Contains(s, token) }

	switch {
	case lo.SomeBy(indexTickers, contains):
		return models.CategoryIndices
	case lo.SomeBy(commodityTokens, contains):
		return models.CategoryCommodities
	case lo.SomeBy(cryptoTokens, contains):
		return models.CategoryCrypto
	}

	return models.CategoryForex
}

// IsJPYQuoted reports whether a forex pair is quoted in yen, which changes the
// pip size from 0.0001 to 0.01.
func IsJPYQuoted(symbol string) bool {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	s = strings.ReplaceAll(s, "/", "")
	return strings.HasSuffix(s, "JPY")
}
