package analyzer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/AmrElsherif83/aira-investment-agent/internal/analysis"
	"github.com/AmrElsherif83/aira-investment-agent/internal/models"
	"github.com/AmrElsherif83/aira-investment-agent/internal/providers"
)

// ----------------------------------------------------------------------
// Provider stubs
// ----------------------------------------------------------------------

type stubFinancials struct {
	snap *models.FinancialSnapshot
	err  error
}

func (s *stubFinancials) Fetch(ctx context.Context, ticker string) (*models.FinancialSnapshot, error) {
	return s.snap, s.err
}

func (s *stubFinancials) Source(ticker string) string { return "sim:financials:" + ticker }

type stubNews struct {
	items []models.NewsItem
	err   error
	panic bool
}

func (s *stubNews) Fetch(ctx context.Context, ticker string) ([]models.NewsItem, error) {
	if s.panic {
		panic("news provider exploded")
	}
	return s.items, s.err
}

func (s *stubNews) Source(ticker string) string { return "sim:news:" + ticker }

type stubRisks struct {
	items []models.RiskItem
	err   error
}

func (s *stubRisks) Fetch(ctx context.Context, ticker string) ([]models.RiskItem, error) {
	return s.items, s.err
}

func (s *stubRisks) Source(ticker string) string { return "sim:risks:" + ticker }

func collectSink(steps *[]models.StepResult) StepSink {
	return func(step models.StepResult) error {
		*steps = append(*steps, step)
		return nil
	}
}

func newSimOrchestrator() *Orchestrator {
	return NewOrchestrator(
		providers.NewFinancialProvider(),
		providers.NewNewsProvider(),
		providers.NewRiskProvider(),
		analysis.DefaultWeights(),
		arbor.NewLogger(),
	)
}

// ----------------------------------------------------------------------
// Pipeline tests
// ----------------------------------------------------------------------

func TestRunHappyPath(t *testing.T) {
	orch := newSimOrchestrator()

	var steps []models.StepResult
	report, err := orch.Run(context.Background(), "NVDA", collectSink(&steps))
	require.NoError(t, err)
	require.NotNil(t, report)

	require.Len(t, steps, 4)
	wantNames := models.AllStepNames()
	for i, step := range steps {
		assert.Equal(t, wantNames[i], step.Name)
		assert.Equal(t, models.StepStatusSucceeded, step.Status)
		assert.NotNil(t, step.FinishedAt)
		assert.NotEmpty(t, step.Summary)
	}

	gather := steps[1].Artifacts.Gather
	require.NotNil(t, gather)
	assert.InDelta(t, 1.0, gather.DataCompleteness, 0.0001)
	assert.Empty(t, gather.Warnings)
	assert.Len(t, gather.SourcesReached, 3)

	// Outstanding fundamentals with only a minor risk item: the composite
	// clears the bullish threshold regardless of the sentiment draw.
	assert.Equal(t, models.SignalBullish, report.Signal)
	assert.Equal(t, "NVIDIA Corporation", report.CompanyName)
	assert.NotEmpty(t, report.Thesis)
	assert.Len(t, report.Sources, 3)
	assert.False(t, report.GeneratedAt.IsZero())
}

func TestRunProviderFailureDegradesNotFails(t *testing.T) {
	now := time.Now()
	orch := NewOrchestrator(
		&stubFinancials{err: errors.New("upstream timeout")},
		&stubNews{items: []models.NewsItem{
			{Headline: "Beats expectations", PublishedAt: now.Add(-24 * time.Hour), SentimentHint: "positive"},
			{Headline: "Raises guidance", PublishedAt: now.Add(-48 * time.Hour), SentimentHint: "positive"},
		}},
		&stubRisks{items: []models.RiskItem{}},
		analysis.DefaultWeights(),
		arbor.NewLogger(),
	)

	var steps []models.StepResult
	report, err := orch.Run(context.Background(), "ACME", collectSink(&steps))
	require.NoError(t, err)
	require.NotNil(t, report)

	require.Len(t, steps, 4)
	for _, step := range steps {
		assert.Equal(t, models.StepStatusSucceeded, step.Status)
	}

	gather := steps[1].Artifacts.Gather
	require.NotNil(t, gather)
	require.Len(t, gather.Warnings, 1)
	assert.Contains(t, gather.Warnings[0], "financial data unavailable")
	assert.InDelta(t, 0.6, gather.DataCompleteness, 0.0001)
	assert.Len(t, gather.SourcesReached, 2)

	// No fundamentals + positive news + no risks: preliminary confidence
	// 0.70*0.6 lands under the signal floor, and reflection discounts it
	// further for completeness, the warning and the fundamentals/sentiment
	// conflict. The signal stays neutral throughout, so reflection has
	// nothing to override.
	assert.Equal(t, models.SignalNeutral, report.Signal)
	assert.Len(t, report.Limitations, 3)

	reflect := steps[3].Artifacts.Reflect
	require.NotNil(t, reflect)
	assert.False(t, reflect.SignalOverridden)
	assert.Less(t, reflect.Confidence, 0.45)

	assert.Equal(t, "ACME Corporation", report.CompanyName)
}

func TestRunStepPanicAbortsPipeline(t *testing.T) {
	orch := NewOrchestrator(
		providers.NewFinancialProvider(),
		&stubNews{panic: true},
		providers.NewRiskProvider(),
		analysis.DefaultWeights(),
		arbor.NewLogger(),
	)

	var steps []models.StepResult
	report, err := orch.Run(context.Background(), "NVDA", collectSink(&steps))
	require.Error(t, err)
	assert.Nil(t, report)
	assert.True(t, errors.Is(err, ErrMissingStepOutput))

	require.Len(t, steps, 2)
	assert.Equal(t, models.StepPlanning, steps[0].Name)
	assert.Equal(t, models.StepStatusSucceeded, steps[0].Status)

	failed := steps[1]
	assert.Equal(t, models.StepGathering, failed.Name)
	assert.Equal(t, models.StepStatusFailed, failed.Status)
	require.NotNil(t, failed.Artifacts.Failure)
	assert.Contains(t, failed.Artifacts.Failure.Error, "news provider exploded")
}

func TestRunCancelledContext(t *testing.T) {
	orch := newSimOrchestrator()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var steps []models.StepResult
	report, err := orch.Run(ctx, "NVDA", collectSink(&steps))
	require.Error(t, err)
	assert.Nil(t, report)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.True(t, errors.Is(err, ErrMissingStepOutput))

	require.Len(t, steps, 1)
	assert.Equal(t, models.StepPlanning, steps[0].Name)
	assert.Equal(t, models.StepStatusFailed, steps[0].Status)
}

func TestRunSinkFailureDoesNotAbort(t *testing.T) {
	orch := newSimOrchestrator()

	report, err := orch.Run(context.Background(), "MSFT", func(models.StepResult) error {
		return errors.New("store unavailable")
	})
	require.NoError(t, err)
	assert.NotNil(t, report)
}

func TestBuildSourceRefs(t *testing.T) {
	refs := buildSourceRefs([]string{
		"sim:financials:NVDA",
		"sim:news:NVDA",
		"sim:risks:NVDA",
		"sim:chart:NVDA",
	})

	require.Len(t, refs, 4)
	assert.Equal(t, "financials", refs[0].Type)
	assert.Equal(t, "news", refs[1].Type)
	assert.Equal(t, "risks", refs[2].Type)
	assert.Equal(t, "other", refs[3].Type)
	assert.Equal(t, "sim:financials:NVDA", refs[0].Ref)
}

func TestCompanyNameFallback(t *testing.T) {
	assert.Equal(t, "ZZ Corporation", companyNameFor("ZZ", &models.GatherArtifact{}))
	assert.Equal(t, "Real Co", companyNameFor("ZZ", &models.GatherArtifact{
		Financials: &models.FinancialSnapshot{CompanyName: "Real Co"},
	}))
}
