package analysis

import (
	"testing"

	"github.com/AmrElsherif83/aira-investment-agent/internal/models"
)

func TestScoreFinancials(t *testing.T) {
	tests := []struct {
		name string
		snap *models.FinancialSnapshot
		want float64
	}{
		{
			name: "no data is neutral",
			snap: nil,
			want: 50.0,
		},
		{
			name: "top tier everything hits the cap",
			snap: &models.FinancialSnapshot{
				RevenueGrowthYoY: 0.45,
				ProfitMargin:     0.30,
				ReturnOnEquity:   0.32,
			},
			// 50 + 20 + 15 + 15
			want: 100.0,
		},
		{
			name: "negative growth and margin penalized",
			snap: &models.FinancialSnapshot{
				RevenueGrowthYoY: -0.10,
				ProfitMargin:     -0.05,
				ReturnOnEquity:   0.02,
			},
			// 50 - 10 - 10 + 0
			want: 30.0,
		},
		{
			name: "mid tier",
			snap: &models.FinancialSnapshot{
				RevenueGrowthYoY: 0.18,
				ProfitMargin:     0.12,
				ReturnOnEquity:   0.10,
			},
			// 50 + 14 + 5 + 5
			want: 74.0,
		},
		{
			name: "flat but positive",
			snap: &models.FinancialSnapshot{
				RevenueGrowthYoY: 0.01,
				ProfitMargin:     0.02,
				ReturnOnEquity:   0.03,
			},
			// 50 + 3 + 0 + 0
			want: 53.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ScoreFinancials(tt.snap); got != tt.want {
				t.Errorf("ScoreFinancials() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestScoreFinancialsClamped(t *testing.T) {
	// A pathological snapshot can never push the score outside [0,100]
	snap := &models.FinancialSnapshot{
		RevenueGrowthYoY: -5.0,
		ProfitMargin:     -5.0,
		ReturnOnEquity:   -5.0,
	}
	if got := ScoreFinancials(snap); got < 0 || got > 100 {
		t.Errorf("ScoreFinancials() = %v, outside [0,100]", got)
	}
}
