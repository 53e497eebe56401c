package analysis

import (
	"fmt"

	"github.com/AmrElsherif83/aira-investment-agent/internal/models"
)

// Insight thresholds
const (
	exceptionalFinancialScore = 80.0
	weakFinancialScore        = 35.0
	strongSentiment           = 0.5
	negativeSentiment         = -0.3
	severeRiskConcentration   = 2
	stretchedComposite        = 85.0
)

func impactOf(v float64) *float64 {
	return &v
}

// GenerateInsights derives notable observations from the scored data.
// sentiment is the raw [-1,1] aggregate, not the normalized component.
func GenerateInsights(breakdown models.ScoreBreakdown, sentiment float64, snap *models.FinancialSnapshot, risks []models.RiskItem) []models.Insight {
	insights := []models.Insight{}

	if breakdown.FinancialScore >= exceptionalFinancialScore {
		detail := "Exceptional financial profile"
		if snap != nil {
			detail = fmt.Sprintf("Exceptional financial profile: %.0f%% revenue growth at %.0f%% margins", snap.RevenueGrowthYoY*100, snap.ProfitMargin*100)
		}
		insights = append(insights, models.Insight{
			Type:   models.InsightPositive,
			Detail: detail,
			Impact: impactOf(0.6),
		})
	} else if breakdown.FinancialScore <= weakFinancialScore {
		insights = append(insights, models.Insight{
			Type:   models.InsightNegative,
			Detail: fmt.Sprintf("Weak fundamentals: financial score %.0f of 100", breakdown.FinancialScore),
			Impact: impactOf(-0.5),
		})
	}

	if sentiment >= strongSentiment {
		insights = append(insights, models.Insight{
			Type:   models.InsightPositive,
			Detail: fmt.Sprintf("Strongly positive news sentiment (%.2f)", sentiment),
			Impact: impactOf(0.4),
		})
	} else if sentiment <= negativeSentiment {
		insights = append(insights, models.Insight{
			Type:   models.InsightNegative,
			Detail: fmt.Sprintf("Negative news sentiment (%.2f)", sentiment),
			Impact: impactOf(-0.4),
		})
	}

	if severe := CountSevereRisks(risks); severe >= severeRiskConcentration {
		insights = append(insights, models.Insight{
			Type:   models.InsightNegative,
			Detail: fmt.Sprintf("Concentration of %d high-severity risks identified", severe),
			Impact: impactOf(-0.5),
		})
	}

	if breakdown.Composite >= stretchedComposite {
		insights = append(insights, models.Insight{
			Type:   models.InsightNeutral,
			Detail: "Composite score is very high; verify valuation has not already priced in the strength",
		})
	}

	return insights
}

// GenerateThesis produces the human-readable investment thesis
func GenerateThesis(companyName, ticker string, breakdown models.ScoreBreakdown, signal models.Signal) string {
	var stance string
	switch signal {
	case models.SignalBullish:
		stance = "favorable"
	case models.SignalBearish:
		stance = "unfavorable"
	default:
		stance = "balanced"
	}

	return fmt.Sprintf(
		"%s (%s) presents a %s picture with a composite score of %.1f. "+
			"Financial strength scores %.1f, news sentiment %.1f and market risk %.1f on a 0-100 scale. "+
			"The weight of evidence supports a %s stance.",
		companyName, ticker, stance, breakdown.Composite,
		breakdown.FinancialScore, breakdown.SentimentScore, breakdown.MarketScore,
		signal,
	)
}
