// -----------------------------------------------------------------------
// Analysis Orchestrator - sequential four-step pipeline for one ticker
// -----------------------------------------------------------------------

package analyzer

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/AmrElsherif83/aira-investment-agent/internal/analysis"
	"github.com/AmrElsherif83/aira-investment-agent/internal/interfaces"
	"github.com/AmrElsherif83/aira-investment-agent/internal/models"
)

// ErrMissingStepOutput is returned when a step fails and later steps are
// left without the typed output they depend on. Any step failure aborts
// the remaining pipeline with this condition.
var ErrMissingStepOutput = errors.New("missing expected step output")

// Data completeness contributions per provider
const (
	financialCompleteness = 0.4
	newsCompleteness      = 0.3
	riskCompleteness      = 0.3
)

// Reflection adjustment knobs
const (
	warningDiscount      = 0.9
	conflictDiscount     = 0.85
	conflictScoreGap     = 30.0
	neutralOverrideFloor = 0.45
)

// StepSink receives each sealed step result as it is produced, before the
// next step begins. A sink failure does not fail the step it carries.
type StepSink func(step models.StepResult) error

// Orchestrator runs the four analysis steps in order: Planning, Data
// Gathering, Scoring and Synthesis, Reflection and Finalization. Provider
// failures during gathering degrade the result; any other step error seals
// a failed step and aborts the pipeline.
type Orchestrator struct {
	financials interfaces.FinancialDataProvider
	news       interfaces.NewsProvider
	risks      interfaces.RiskProvider
	weights    analysis.Weights
	logger     arbor.ILogger
	now        func() time.Time
}

// NewOrchestrator creates an orchestrator over the three data providers
func NewOrchestrator(financials interfaces.FinancialDataProvider, news interfaces.NewsProvider, risks interfaces.RiskProvider, weights analysis.Weights, logger arbor.ILogger) *Orchestrator {
	return &Orchestrator{
		financials: financials,
		news:       news,
		risks:      risks,
		weights:    weights,
		logger:     logger,
		now:        time.Now,
	}
}

// Run executes the pipeline for the ticker and returns the sealed report.
// Every step result, failed ones included, is pushed through the sink
// before Run returns.
func (o *Orchestrator) Run(ctx context.Context, ticker string, sink StepSink) (*models.Report, error) {
	plan, err := o.runPlanning(ctx, ticker, sink)
	if err != nil {
		return nil, abortErr(models.StepPlanning, err)
	}

	gather, err := o.runGathering(ctx, ticker, plan, sink)
	if err != nil {
		return nil, abortErr(models.StepGathering, err)
	}

	score, err := o.runScoring(ctx, ticker, gather, sink)
	if err != nil {
		return nil, abortErr(models.StepScoring, err)
	}

	report, err := o.runReflection(ctx, ticker, gather, score, sink)
	if err != nil {
		return nil, abortErr(models.StepReflection, err)
	}

	return report, nil
}

// abortErr wraps a step failure into the pipeline-abort condition
func abortErr(name models.StepName, cause error) error {
	return fmt.Errorf("%w from %q: %w", ErrMissingStepOutput, name, cause)
}

// execStep runs one step body with timing, panic containment and sealing.
// The body returns the step's artifacts and a human-readable summary; on
// error or panic the step is sealed failed with a failure artifact and the
// error propagates to abort the pipeline.
func (o *Orchestrator) execStep(ctx context.Context, name models.StepName, sink StepSink, body func() (models.StepArtifacts, string, error)) error {
	step := models.StepResult{
		Name:      name,
		Status:    models.StepStatusRunning,
		StartedAt: o.now(),
	}

	artifacts, summary, err := o.guarded(ctx, name, body)

	finished := o.now()
	step.FinishedAt = &finished

	if err != nil {
		step.Status = models.StepStatusFailed
		step.Summary = err.Error()
		step.Artifacts = models.StepArtifacts{Failure: &models.FailureArtifact{Error: err.Error()}}
	} else {
		step.Status = models.StepStatusSucceeded
		step.Summary = summary
		step.Artifacts = artifacts
	}

	if sinkErr := sink(step); sinkErr != nil {
		o.logger.Warn().
			Str("step", name.String()).
			Err(sinkErr).
			Msg("Failed to record step result")
	}

	return err
}

// guarded runs the step body, converting a cancelled context or a panic
// into an ordinary error.
func (o *Orchestrator) guarded(ctx context.Context, name models.StepName, body func() (models.StepArtifacts, string, error)) (artifacts models.StepArtifacts, summary string, err error) {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return models.StepArtifacts{}, "", fmt.Errorf("analysis cancelled: %w", ctxErr)
	}

	defer func() {
		if r := recover(); r != nil {
			o.logger.Error().
				Str("step", name.String()).
				Msg(fmt.Sprintf("Step panicked: %v", r))
			artifacts = models.StepArtifacts{}
			summary = ""
			err = fmt.Errorf("step panicked: %v", r)
		}
	}()

	return body()
}

// ----------------------------------------------------------------------
// Step 1 - Planning
// ----------------------------------------------------------------------

func (o *Orchestrator) runPlanning(ctx context.Context, ticker string, sink StepSink) (*models.PlanArtifact, error) {
	var plan *models.PlanArtifact

	err := o.execStep(ctx, models.StepPlanning, sink, func() (models.StepArtifacts, string, error) {
		plan = &models.PlanArtifact{
			Tools:      []string{"financial_data", "news_feed", "risk_register"},
			KeyMetrics: []string{"revenue_growth_yoy", "profit_margin", "return_on_equity", "news_sentiment"},
			FocusAreas: []string{"fundamentals", "sentiment", "risk_exposure"},
		}
		summary := fmt.Sprintf("Prepared analysis plan for %s covering fundamentals, news sentiment and risk exposure", ticker)
		return models.StepArtifacts{Plan: plan}, summary, nil
	})
	if err != nil {
		return nil, err
	}
	return plan, nil
}

// ----------------------------------------------------------------------
// Step 2 - Data Gathering
// ----------------------------------------------------------------------

// runGathering queries the three providers. A provider error is recorded
// as a warning and reduces data completeness; it never fails the step. A
// cancelled context is the exception and aborts.
func (o *Orchestrator) runGathering(ctx context.Context, ticker string, _ *models.PlanArtifact, sink StepSink) (*models.GatherArtifact, error) {
	var gather *models.GatherArtifact

	err := o.execStep(ctx, models.StepGathering, sink, func() (models.StepArtifacts, string, error) {
		gather = &models.GatherArtifact{
			News:           []models.NewsItem{},
			Risks:          []models.RiskItem{},
			SourcesReached: []string{},
		}

		snap, err := o.financials.Fetch(ctx, ticker)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return models.StepArtifacts{}, "", fmt.Errorf("analysis cancelled: %w", ctxErr)
			}
			gather.Warnings = append(gather.Warnings, fmt.Sprintf("financial data unavailable: %v", err))
		} else {
			gather.Financials = snap
			gather.DataCompleteness += financialCompleteness
			gather.SourcesReached = append(gather.SourcesReached, o.financials.Source(ticker))
		}

		news, err := o.news.Fetch(ctx, ticker)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return models.StepArtifacts{}, "", fmt.Errorf("analysis cancelled: %w", ctxErr)
			}
			gather.Warnings = append(gather.Warnings, fmt.Sprintf("news unavailable: %v", err))
		} else {
			gather.News = news
			gather.DataCompleteness += newsCompleteness
			gather.SourcesReached = append(gather.SourcesReached, o.news.Source(ticker))
		}

		risks, err := o.risks.Fetch(ctx, ticker)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return models.StepArtifacts{}, "", fmt.Errorf("analysis cancelled: %w", ctxErr)
			}
			gather.Warnings = append(gather.Warnings, fmt.Sprintf("risk data unavailable: %v", err))
		} else {
			gather.Risks = risks
			gather.DataCompleteness += riskCompleteness
			gather.SourcesReached = append(gather.SourcesReached, o.risks.Source(ticker))
		}

		summary := fmt.Sprintf("Gathered %d news items and %d risk items from %d of 3 sources; data completeness %.2f",
			len(gather.News), len(gather.Risks), len(gather.SourcesReached), gather.DataCompleteness)
		return models.StepArtifacts{Gather: gather}, summary, nil
	})
	if err != nil {
		return nil, err
	}
	return gather, nil
}

// ----------------------------------------------------------------------
// Step 3 - Scoring and Synthesis
// ----------------------------------------------------------------------

func (o *Orchestrator) runScoring(ctx context.Context, ticker string, gather *models.GatherArtifact, sink StepSink) (*models.ScoreArtifact, error) {
	var score *models.ScoreArtifact

	err := o.execStep(ctx, models.StepScoring, sink, func() (models.StepArtifacts, string, error) {
		financialScore := analysis.ScoreFinancials(gather.Financials)
		sentiment := analysis.AnalyzeSentiment(gather.News, o.now())
		riskScore := analysis.ScoreRisks(gather.Risks)

		breakdown := analysis.BuildBreakdown(o.weights, financialScore, sentiment, riskScore)
		confidence := analysis.ComputeConfidence(gather.DataCompleteness, breakdown)
		signal := analysis.GenerateSignal(breakdown.Composite, confidence)
		insights := analysis.GenerateInsights(breakdown, sentiment, gather.Financials, gather.Risks)
		thesis := analysis.GenerateThesis(companyNameFor(ticker, gather), ticker, breakdown, signal)

		score = &models.ScoreArtifact{
			Breakdown:  breakdown,
			Confidence: confidence,
			Signal:     signal,
			Thesis:     thesis,
			Insights:   insights,
		}
		summary := fmt.Sprintf("Composite score %.1f with preliminary signal %s at confidence %.2f",
			breakdown.Composite, signal, confidence)
		return models.StepArtifacts{Score: score}, summary, nil
	})
	if err != nil {
		return nil, err
	}
	return score, nil
}

// ----------------------------------------------------------------------
// Step 4 - Reflection and Finalization
// ----------------------------------------------------------------------

// runReflection applies the ordered confidence adjustments and seals the
// final report. Each adjustment discounts confidence and records a
// limitation; low post-adjustment confidence downgrades the signal to
// neutral.
func (o *Orchestrator) runReflection(ctx context.Context, ticker string, gather *models.GatherArtifact, score *models.ScoreArtifact, sink StepSink) (*models.Report, error) {
	var report *models.Report

	err := o.execStep(ctx, models.StepReflection, sink, func() (models.StepArtifacts, string, error) {
		confidence := score.Confidence
		signal := score.Signal
		overridden := false
		limitations := []string{}
		insights := append([]models.Insight{}, score.Insights...)

		if gather.DataCompleteness < 1.0 {
			confidence *= gather.DataCompleteness
			limitations = append(limitations, fmt.Sprintf("Analysis based on incomplete data (%.0f%% of expected sources)", gather.DataCompleteness*100))
			impact := -0.3
			insights = append(insights, models.Insight{
				Type:   models.InsightNegative,
				Detail: "Data gaps reduce the reliability of the composite score",
				Impact: &impact,
			})
		}

		if len(gather.Warnings) > 0 {
			confidence *= warningDiscount
			limitations = append(limitations, fmt.Sprintf("%d data source warning(s) encountered during gathering", len(gather.Warnings)))
		}

		if math.Abs(score.Breakdown.FinancialScore-score.Breakdown.SentimentScore) > conflictScoreGap {
			confidence *= conflictDiscount
			limitations = append(limitations, "Financial fundamentals and news sentiment point in different directions")
			impact := -0.2
			insights = append(insights, models.Insight{
				Type:   models.InsightNegative,
				Detail: "Conflicting signals between fundamentals and news sentiment",
				Impact: &impact,
			})
		}

		if confidence < neutralOverrideFloor && signal != models.SignalNeutral {
			signal = models.SignalNeutral
			overridden = true
			limitations = append(limitations, fmt.Sprintf("Confidence %.2f is too low to support a directional signal", confidence))
			insights = append(insights, models.Insight{
				Type:   models.InsightNeutral,
				Detail: "Signal downgraded to Neutral on low post-reflection confidence",
			})
		}

		report = &models.Report{
			CompanyName: companyNameFor(ticker, gather),
			Thesis:      score.Thesis,
			Signal:      signal,
			Insights:    insights,
			Sources:     buildSourceRefs(gather.SourcesReached),
			Confidence:  confidence,
			Limitations: limitations,
			Breakdown:   score.Breakdown,
			GeneratedAt: o.now(),
		}

		reflect := &models.ReflectArtifact{
			Signal:           signal,
			Confidence:       confidence,
			Limitations:      limitations,
			SignalOverridden: overridden,
		}
		summary := fmt.Sprintf("Finalized %s signal at confidence %.2f with %d limitation(s)",
			signal, confidence, len(limitations))
		return models.StepArtifacts{Reflect: reflect}, summary, nil
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

// companyNameFor resolves the display name, falling back to a generic one
// when financial data never arrived.
func companyNameFor(ticker string, gather *models.GatherArtifact) string {
	if gather.Financials != nil && gather.Financials.CompanyName != "" {
		return gather.Financials.CompanyName
	}
	return ticker + " Corporation"
}

// buildSourceRefs classifies reached source identifiers into report
// source references.
func buildSourceRefs(sources []string) []models.SourceRef {
	refs := make([]models.SourceRef, 0, len(sources))
	for _, src := range sources {
		refType := "other"
		switch {
		case strings.Contains(src, "financials"):
			refType = "financials"
		case strings.Contains(src, "news"):
			refType = "news"
		case strings.Contains(src, "risks"):
			refType = "risks"
		}
		refs = append(refs, models.SourceRef{Type: refType, Ref: src})
	}
	return refs
}
