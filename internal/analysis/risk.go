package analysis

import (
	"github.com/AmrElsherif83/aira-investment-agent/internal/models"
)

// Risk scoring deducts from a clean base per identified risk item,
// sized by severity.
const (
	riskBaseScore = 100.0

	// riskNeutralScore is used when no risk items were identified: the
	// absence of findings is not the same as a clean bill of health.
	riskNeutralScore = 75.0

	deductionCritical = 20.0
	deductionHigh     = 12.0
	deductionMedium   = 6.0
	deductionLow      = 2.0
	deductionUnknown  = 4.0
)

// severityDeduction returns the score deduction for one risk item.
// The severity is normalized first; unrecognized values take the
// unknown-severity deduction.
func severityDeduction(severity models.RiskSeverity) float64 {
	sev, ok := models.ParseRiskSeverity(string(severity))
	if !ok {
		return deductionUnknown
	}

	switch sev {
	case models.RiskSeverityCritical:
		return deductionCritical
	case models.RiskSeverityHigh:
		return deductionHigh
	case models.RiskSeverityMedium:
		return deductionMedium
	case models.RiskSeverityLow:
		return deductionLow
	default:
		return deductionUnknown
	}
}

// ScoreRisks computes the market/risk component score in [0,100].
// Returns the neutral score when no risk items were identified.
func ScoreRisks(risks []models.RiskItem) float64 {
	if len(risks) == 0 {
		return riskNeutralScore
	}

	score := riskBaseScore
	for _, item := range risks {
		score -= severityDeduction(item.Severity)
	}

	return clamp(score, 0, 100)
}

// CountSevereRisks returns the number of critical or high severity items
func CountSevereRisks(risks []models.RiskItem) int {
	count := 0
	for _, item := range risks {
		if item.Severity == models.RiskSeverityCritical || item.Severity == models.RiskSeverityHigh {
			count++
		}
	}
	return count
}
