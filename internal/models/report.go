// -----------------------------------------------------------------------
// Report - final analysis output owned by a succeeded job
// -----------------------------------------------------------------------

package models

import (
	"time"
)

// Signal is the final recommendation category
type Signal string

const (
	SignalBullish Signal = "Bullish"
	SignalNeutral Signal = "Neutral"
	SignalBearish Signal = "Bearish"
)

// String returns the string representation of the Signal
func (s Signal) String() string {
	return string(s)
}

// ScoreBreakdown holds the three component scores, their weights and the
// derived composite. Immutable once computed. All component scores are in
// [0,100]; the sentiment component is the raw [-1,1] sentiment mapped onto
// that range.
type ScoreBreakdown struct {
	FinancialScore float64 `json:"financial_score"`
	SentimentScore float64 `json:"sentiment_score"`
	MarketScore    float64 `json:"market_score"`

	FinancialWeight float64 `json:"financial_weight"`
	SentimentWeight float64 `json:"sentiment_weight"`
	MarketWeight    float64 `json:"market_weight"`

	Composite float64 `json:"composite"`
}

// InsightType classifies an insight's direction
type InsightType string

const (
	InsightPositive InsightType = "positive"
	InsightNegative InsightType = "negative"
	InsightNeutral  InsightType = "neutral"
)

// Insight is a single notable observation attached to the report
type Insight struct {
	Type   InsightType `json:"type"`
	Detail string      `json:"detail"`

	// Impact is an optional estimated effect on the outlook, in [-1,1]
	Impact *float64 `json:"impact,omitempty"`
}

// SourceRef identifies a data source consulted during gathering
type SourceRef struct {
	Type  string `json:"type"` // "financials", "news", "risks" or "other"
	Ref   string `json:"ref"`
	Notes string `json:"notes,omitempty"`
}

// Report is produced once per successful job and sealed by the
// reflection step.
type Report struct {
	CompanyName string         `json:"company_name"`
	Thesis      string         `json:"thesis"`
	Signal      Signal         `json:"signal"`
	Insights    []Insight      `json:"insights"`
	Sources     []SourceRef    `json:"sources"`
	Confidence  float64        `json:"confidence"`
	Limitations []string       `json:"limitations,omitempty"`
	Breakdown   ScoreBreakdown `json:"breakdown"`
	GeneratedAt time.Time      `json:"generated_at"`
}
