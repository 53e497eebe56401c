package providers

import (
	"context"
	"fmt"

	"github.com/AmrElsherif83/aira-investment-agent/internal/models"
)

// FinancialProvider serves simulated fundamentals keyed by ticker
type FinancialProvider struct{}

// NewFinancialProvider creates a simulated financial data provider
func NewFinancialProvider() *FinancialProvider {
	return &FinancialProvider{}
}

// Fetch returns the fundamentals snapshot for the ticker
func (p *FinancialProvider) Fetch(ctx context.Context, ticker string) (*models.FinancialSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prof := profileFor(ticker)

	return &models.FinancialSnapshot{
		Ticker:           ticker,
		CompanyName:      prof.CompanyName,
		Revenue:          prof.Revenue,
		NetIncome:        prof.NetIncome,
		ProfitMargin:     prof.ProfitMargin,
		RevenueGrowthYoY: prof.RevenueGrowthYoY,
		ReturnOnEquity:   prof.ReturnOnEquity,
		Source:           fmt.Sprintf("sim:financials:%s", ticker),
	}, nil
}

// Source returns the provider's source identifier for a ticker
func (p *FinancialProvider) Source(ticker string) string {
	return fmt.Sprintf("sim:financials:%s", ticker)
}
