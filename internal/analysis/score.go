package analysis

import (
	"github.com/AmrElsherif83/aira-investment-agent/internal/models"
)

// Signal thresholds on the composite score, and the confidence floor below
// which any signal is forced to neutral.
const (
	bullishThreshold    = 65.0
	bearishThreshold    = 45.0
	minSignalConfidence = 0.40
)

// Confidence model constants
const (
	baseConfidence = 0.70

	// Disagreement across the three component scores reduces confidence
	highDivergenceStddev   = 30.0
	highDivergenceDiscount = 0.85
	midDivergenceStddev    = 20.0
	midDivergenceDiscount  = 0.92

	// A decisive composite, either direction, earns a small boost
	decisiveHighComposite = 75.0
	decisiveLowComposite  = 30.0
	decisiveBoost         = 1.05
)

// Weights holds the composite score weights. They are injected rather than
// buried in the scoring functions so weight changes are explicit and
// testable in isolation.
type Weights struct {
	Financial float64
	Sentiment float64
	Market    float64
}

// DefaultWeights returns the standard 0.40/0.30/0.30 split
func DefaultWeights() Weights {
	return Weights{Financial: 0.40, Sentiment: 0.30, Market: 0.30}
}

// BuildBreakdown assembles the score breakdown from the three component
// inputs. sentiment is the raw [-1,1] aggregate; it is normalized onto
// [0,100] before weighting. The composite is a pure function of its
// weighted inputs.
func BuildBreakdown(w Weights, financialScore, sentiment, marketScore float64) models.ScoreBreakdown {
	sentimentScore := NormalizeSentiment(sentiment)
	composite := w.Financial*financialScore + w.Sentiment*sentimentScore + w.Market*marketScore

	return models.ScoreBreakdown{
		FinancialScore:  round(financialScore, 2),
		SentimentScore:  round(sentimentScore, 2),
		MarketScore:     round(marketScore, 2),
		FinancialWeight: w.Financial,
		SentimentWeight: w.Sentiment,
		MarketWeight:    w.Market,
		Composite:       round(composite, 2),
	}
}

// ComputeConfidence derives the confidence in the preliminary signal from
// data completeness and the agreement between component scores, in [0,1].
func ComputeConfidence(dataCompleteness float64, breakdown models.ScoreBreakdown) float64 {
	confidence := baseConfidence * dataCompleteness

	spread := stddev([]float64{
		breakdown.FinancialScore,
		breakdown.SentimentScore,
		breakdown.MarketScore,
	})
	if spread > highDivergenceStddev {
		confidence *= highDivergenceDiscount
	} else if spread > midDivergenceStddev {
		confidence *= midDivergenceDiscount
	}

	if breakdown.Composite > decisiveHighComposite || breakdown.Composite < decisiveLowComposite {
		confidence *= decisiveBoost
	}

	return clamp(confidence, 0, 1)
}

// GenerateSignal derives the recommendation from the composite score.
// Confidence below the floor forces a neutral signal regardless of the
// composite.
func GenerateSignal(composite, confidence float64) models.Signal {
	if confidence < minSignalConfidence {
		return models.SignalNeutral
	}
	switch {
	case composite >= bullishThreshold:
		return models.SignalBullish
	case composite < bearishThreshold:
		return models.SignalBearish
	default:
		return models.SignalNeutral
	}
}
