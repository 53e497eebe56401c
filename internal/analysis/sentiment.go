package analysis

import (
	"strings"
	"time"

	"github.com/AmrElsherif83/aira-investment-agent/internal/models"
)

// Recency weights applied to per-article sentiment. Fresher coverage
// dominates the aggregate.
const (
	weightUnder3Days  = 1.0
	weightUnder7Days  = 0.8
	weightUnder14Days = 0.6
	weightUnder30Days = 0.4
	weightOlder       = 0.2
)

// articleSentiment maps a provider sentiment hint to the scalar used in
// aggregation: +1 positive, -1 negative, 0 neutral or unrecognized.
func articleSentiment(hint string) float64 {
	switch strings.ToLower(strings.TrimSpace(hint)) {
	case "positive":
		return 1.0
	case "negative":
		return -1.0
	default:
		return 0.0
	}
}

// recencyWeight returns the weight for an article published at the given
// time, relative to now.
func recencyWeight(publishedAt, now time.Time) float64 {
	age := now.Sub(publishedAt)
	switch {
	case age < 3*24*time.Hour:
		return weightUnder3Days
	case age < 7*24*time.Hour:
		return weightUnder7Days
	case age < 14*24*time.Hour:
		return weightUnder14Days
	case age < 30*24*time.Hour:
		return weightUnder30Days
	default:
		return weightOlder
	}
}

// AnalyzeSentiment computes the recency-weighted average sentiment across
// the given articles, in [-1,1]. Returns 0.0 when there are no articles.
func AnalyzeSentiment(news []models.NewsItem, now time.Time) float64 {
	if len(news) == 0 {
		return 0.0
	}

	weightedSum := 0.0
	totalWeight := 0.0
	for _, item := range news {
		w := recencyWeight(item.PublishedAt, now)
		weightedSum += articleSentiment(item.SentimentHint) * w
		totalWeight += w
	}

	if totalWeight == 0 {
		return 0.0
	}
	return weightedSum / totalWeight
}

// NormalizeSentiment maps a raw sentiment in [-1,1] onto the [0,100] scale
// used by the composite score.
func NormalizeSentiment(sentiment float64) float64 {
	return clamp((sentiment+1.0)/2.0*100.0, 0, 100)
}
