package analysis

import (
	"github.com/AmrElsherif83/aira-investment-agent/internal/models"
)

// Financial scoring starts from a neutral base and applies tiered,
// individually capped adjustments for growth, margin and return on equity.
// Negative growth or margin draws a flat penalty.
const (
	financialBaseScore    = 50.0
	financialNeutralScore = 50.0

	negativeGrowthPenalty = 10.0
	negativeMarginPenalty = 10.0
)

// growthBonus returns the tiered contribution of YoY revenue growth
// (fractional, e.g. 0.30 = 30%).
func growthBonus(growth float64) float64 {
	switch {
	case growth >= 0.30:
		return 20.0
	case growth >= 0.15:
		return 14.0
	case growth >= 0.05:
		return 8.0
	case growth >= 0:
		return 3.0
	default:
		return -negativeGrowthPenalty
	}
}

// marginBonus returns the tiered contribution of profit margin
func marginBonus(margin float64) float64 {
	switch {
	case margin >= 0.25:
		return 15.0
	case margin >= 0.15:
		return 10.0
	case margin >= 0.05:
		return 5.0
	case margin >= 0:
		return 0.0
	default:
		return -negativeMarginPenalty
	}
}

// roeBonus returns the tiered contribution of return on equity
func roeBonus(roe float64) float64 {
	switch {
	case roe >= 0.25:
		return 15.0
	case roe >= 0.15:
		return 10.0
	case roe >= 0.08:
		return 5.0
	default:
		return 0.0
	}
}

// ScoreFinancials computes the financial component score in [0,100].
// Returns the neutral score when no snapshot is available.
func ScoreFinancials(snap *models.FinancialSnapshot) float64 {
	if snap == nil {
		return financialNeutralScore
	}

	score := financialBaseScore
	score += growthBonus(snap.RevenueGrowthYoY)
	score += marginBonus(snap.ProfitMargin)
	score += roeBonus(snap.ReturnOnEquity)

	return clamp(score, 0, 100)
}
