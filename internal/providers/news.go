package providers

import (
	"context"
	"fmt"
	"time"

	"github.com/AmrElsherif83/aira-investment-agent/internal/models"
)

// headline templates by tone
var (
	positiveHeadlines = []string{
		"%s beats expectations on strong quarterly results",
		"Analysts raise price targets for %s",
		"%s announces expanded buyback program",
		"%s lands major new enterprise customers",
	}
	negativeHeadlines = []string{
		"%s faces margin pressure amid rising costs",
		"Analysts trim estimates for %s",
		"%s guidance disappoints investors",
		"Regulatory scrutiny weighs on %s",
	}
	neutralHeadlines = []string{
		"%s schedules annual shareholder meeting",
		"%s appoints new board member",
		"What to watch when %s reports earnings",
		"%s trading volume in line with sector",
	}
)

// NewsProvider serves simulated news keyed by ticker
type NewsProvider struct {
	now func() time.Time
}

// NewNewsProvider creates a simulated news provider
func NewNewsProvider() *NewsProvider {
	return &NewsProvider{now: time.Now}
}

// Fetch returns recent articles for the ticker. Article count, tone mix
// and ages derive deterministically from the ticker.
func (p *NewsProvider) Fetch(ctx context.Context, ticker string) ([]models.NewsItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prof := profileFor(ticker)
	seed := tickerSeed(ticker)
	now := p.now()
	count := 4 + int(seed%4) // 4..7 articles

	items := make([]models.NewsItem, 0, count)
	for i := 0; i < count; i++ {
		// Skew the tone of each article by the profile's news tone
		roll := float64(int64((seed>>(i*7))%100)-50)/50.0 + prof.NewsTone

		var hint string
		var pool []string
		switch {
		case roll > 0.25:
			hint, pool = "positive", positiveHeadlines
		case roll < -0.25:
			hint, pool = "negative", negativeHeadlines
		default:
			hint, pool = "neutral", neutralHeadlines
		}

		ageDays := int((seed >> (i * 5)) % 28) // 0..27 days old
		items = append(items, models.NewsItem{
			Headline:      fmt.Sprintf(pool[i%len(pool)], ticker),
			PublishedAt:   now.Add(-time.Duration(ageDays) * 24 * time.Hour),
			SentimentHint: hint,
			URL:           fmt.Sprintf("https://news.sim/%s/%d", ticker, i),
			Source:        p.Source(ticker),
		})
	}

	return items, nil
}

// Source returns the provider's source identifier for a ticker
func (p *NewsProvider) Source(ticker string) string {
	return fmt.Sprintf("sim:news:%s", ticker)
}
