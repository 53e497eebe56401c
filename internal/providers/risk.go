package providers

import (
	"context"
	"fmt"

	"github.com/AmrElsherif83/aira-investment-agent/internal/models"
)

// riskCatalog holds the synthetic risk items handed out by risk level.
// Level 0 tickers report nothing; higher levels accumulate entries.
var riskCatalog = []models.RiskItem{
	{
		Title:       "Sector valuation stretch",
		Description: "Peer multiples are elevated relative to historical ranges",
		Severity:    models.RiskSeverityLow,
		Category:    "market",
	},
	{
		Title:       "Customer concentration",
		Description: "A small number of customers account for a large revenue share",
		Severity:    models.RiskSeverityMedium,
		Category:    "business",
	},
	{
		Title:       "Supply chain dependency",
		Description: "Key components sourced from a limited supplier base",
		Severity:    models.RiskSeverityHigh,
		Category:    "operational",
	},
	{
		Title:       "Pending regulatory action",
		Description: "Open proceedings could materially affect operations",
		Severity:    models.RiskSeverityCritical,
		Category:    "regulatory",
	},
}

// RiskProvider serves simulated risk items keyed by ticker
type RiskProvider struct{}

// NewRiskProvider creates a simulated risk provider
func NewRiskProvider() *RiskProvider {
	return &RiskProvider{}
}

// Fetch returns identified risks for the ticker, sized by the profile's
// risk level.
func (p *RiskProvider) Fetch(ctx context.Context, ticker string) ([]models.RiskItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prof := profileFor(ticker)
	if prof.RiskLevel <= 0 {
		return []models.RiskItem{}, nil
	}

	n := prof.RiskLevel
	if n > len(riskCatalog) {
		n = len(riskCatalog)
	}
	items := make([]models.RiskItem, n)
	copy(items, riskCatalog[:n])
	return items, nil
}

// Source returns the provider's source identifier for a ticker
func (p *RiskProvider) Source(ticker string) string {
	return fmt.Sprintf("sim:risks:%s", ticker)
}
