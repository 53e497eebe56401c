// -----------------------------------------------------------------------
// Market data - provider payloads keyed by ticker
// -----------------------------------------------------------------------

package models

import (
	"strings"
	"time"
)

// FinancialSnapshot is the fundamentals payload returned by the financial
// data provider. Ratios (margin, growth, ROE) are fractional, not percent.
type FinancialSnapshot struct {
	Ticker           string  `json:"ticker"`
	CompanyName      string  `json:"company_name"`
	Revenue          float64 `json:"revenue"`
	NetIncome        float64 `json:"net_income"`
	ProfitMargin     float64 `json:"profit_margin"`
	RevenueGrowthYoY float64 `json:"revenue_growth_yoy"`
	ReturnOnEquity   float64 `json:"return_on_equity"`
	Source           string  `json:"source"`
}

// NewsItem is a single article returned by the news provider
type NewsItem struct {
	Headline    string    `json:"headline"`
	PublishedAt time.Time `json:"published_at"`

	// SentimentHint is an optional provider-supplied tag:
	// "positive", "negative" or "neutral". Unrecognized values count
	// as neutral.
	SentimentHint string `json:"sentiment_hint,omitempty"`

	URL    string `json:"url,omitempty"`
	Source string `json:"source,omitempty"`
}

// RiskSeverity classifies a risk item
type RiskSeverity string

const (
	RiskSeverityCritical RiskSeverity = "critical"
	RiskSeverityHigh     RiskSeverity = "high"
	RiskSeverityMedium   RiskSeverity = "medium"
	RiskSeverityLow      RiskSeverity = "low"
)

// ParseRiskSeverity normalizes a severity string. Unknown values return
// false so callers can apply the unknown-severity deduction.
func ParseRiskSeverity(s string) (RiskSeverity, bool) {
	switch RiskSeverity(strings.ToLower(strings.TrimSpace(s))) {
	case RiskSeverityCritical:
		return RiskSeverityCritical, true
	case RiskSeverityHigh:
		return RiskSeverityHigh, true
	case RiskSeverityMedium:
		return RiskSeverityMedium, true
	case RiskSeverityLow:
		return RiskSeverityLow, true
	}
	return "", false
}

// RiskItem is a single identified risk returned by the risk provider
type RiskItem struct {
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Severity    RiskSeverity `json:"severity"`
	Category    string       `json:"category,omitempty"`
}
