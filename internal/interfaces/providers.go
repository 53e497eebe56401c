package interfaces

import (
	"context"

	"github.com/AmrElsherif83/aira-investment-agent/internal/models"
)

// FinancialDataProvider returns fundamentals for a ticker.
// Implementations are swappable, side-effect-free lookups.
type FinancialDataProvider interface {
	// Fetch returns the fundamentals snapshot for the ticker
	Fetch(ctx context.Context, ticker string) (*models.FinancialSnapshot, error)

	// Source returns the provider's source identifier for a ticker
	Source(ticker string) string
}

// NewsProvider returns recent news articles for a ticker
type NewsProvider interface {
	Fetch(ctx context.Context, ticker string) ([]models.NewsItem, error)
	Source(ticker string) string
}

// RiskProvider returns identified risk items for a ticker
type RiskProvider interface {
	Fetch(ctx context.Context, ticker string) ([]models.RiskItem, error)
	Source(ticker string) string
}
