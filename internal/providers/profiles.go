// -----------------------------------------------------------------------
// Simulated market data - deterministic, side-effect-free lookups
// -----------------------------------------------------------------------

package providers

import (
	"hash/fnv"
)

// profile is the synthetic fundamentals shape behind a ticker. Well-known
// tickers get curated profiles; everything else derives a stable profile
// from a hash of the symbol, so repeated runs for the same ticker always
// see the same data.
type profile struct {
	CompanyName      string
	Revenue          float64
	NetIncome        float64
	ProfitMargin     float64
	RevenueGrowthYoY float64
	ReturnOnEquity   float64
	NewsTone         float64 // [-1,1] bias of generated headlines
	RiskLevel        int     // 0 benign .. 3 troubled
}

// curated profiles for a handful of familiar symbols
var curatedProfiles = map[string]profile{
	"NVDA": {
		CompanyName:      "NVIDIA Corporation",
		Revenue:          60_900_000_000,
		NetIncome:        29_800_000_000,
		ProfitMargin:     0.49,
		RevenueGrowthYoY: 1.26,
		ReturnOnEquity:   0.69,
		NewsTone:         0.7,
		RiskLevel:        1,
	},
	"AAPL": {
		CompanyName:      "Apple Inc.",
		Revenue:          383_300_000_000,
		NetIncome:        97_000_000_000,
		ProfitMargin:     0.25,
		RevenueGrowthYoY: -0.03,
		ReturnOnEquity:   1.56,
		NewsTone:         0.2,
		RiskLevel:        1,
	},
	"MSFT": {
		CompanyName:      "Microsoft Corporation",
		Revenue:          211_900_000_000,
		NetIncome:        72_400_000_000,
		ProfitMargin:     0.34,
		RevenueGrowthYoY: 0.07,
		ReturnOnEquity:   0.39,
		NewsTone:         0.4,
		RiskLevel:        0,
	},
	"TSLA": {
		CompanyName:      "Tesla, Inc.",
		Revenue:          96_800_000_000,
		NetIncome:        15_000_000_000,
		ProfitMargin:     0.155,
		RevenueGrowthYoY: 0.19,
		ReturnOnEquity:   0.28,
		NewsTone:         -0.1,
		RiskLevel:        2,
	},
}

// tickerSeed returns a stable 64-bit seed for a ticker
func tickerSeed(ticker string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(ticker))
	return h.Sum64()
}

// profileFor resolves a ticker to its profile, hash-deriving one for
// symbols without curated data.
func profileFor(ticker string) profile {
	if p, ok := curatedProfiles[ticker]; ok {
		return p
	}

	seed := tickerSeed(ticker)

	// Spread derived values over plausible ranges
	revenue := float64(1+seed%200) * 500_000_000
	margin := float64(int64(seed%36)-6) / 100.0     // [-0.06, 0.29]
	growth := float64(int64(seed>>8%61)-15) / 100.0 // [-0.15, 0.45]
	roe := float64(seed>>16%35) / 100.0             // [0, 0.34]
	tone := float64(int64(seed>>24%17)-8) / 10.0    // [-0.8, 0.8]

	return profile{
		CompanyName:      ticker + " Corporation",
		Revenue:          revenue,
		NetIncome:        revenue * margin,
		ProfitMargin:     margin,
		RevenueGrowthYoY: growth,
		ReturnOnEquity:   roe,
		NewsTone:         tone,
		RiskLevel:        int(seed >> 32 % 4),
	}
}
