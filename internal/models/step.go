// -----------------------------------------------------------------------
// Step Result - sealed per-step output attached to an analysis job
// -----------------------------------------------------------------------

package models

import (
	"time"
)

// StepName identifies one of the four pipeline steps
type StepName string

const (
	StepPlanning   StepName = "Planning"
	StepGathering  StepName = "Data Gathering"
	StepScoring    StepName = "Scoring and Synthesis"
	StepReflection StepName = "Reflection and Finalization"
)

// String returns the string representation of the StepName
func (s StepName) String() string {
	return string(s)
}

// AllStepNames returns the four pipeline steps in execution order
func AllStepNames() []StepName {
	return []StepName{StepPlanning, StepGathering, StepScoring, StepReflection}
}

// StepStatus represents the execution state of a single pipeline step
type StepStatus string

const (
	StepStatusRunning   StepStatus = "running"
	StepStatusSucceeded StepStatus = "succeeded"
	StepStatusFailed    StepStatus = "failed"
)

// StepResult is the sealed record of one pipeline step. The orchestrator
// creates it, fills it in, and never mutates it after it has been appended
// to a job.
type StepResult struct {
	Name       StepName      `json:"name"`
	Status     StepStatus    `json:"status"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt *time.Time    `json:"finished_at,omitempty"`
	Summary    string        `json:"summary"`
	Artifacts  StepArtifacts `json:"artifacts"`
}

// StepArtifacts is a tagged union of the typed per-step outputs. Exactly one
// field is set for a sealed step, which gives producer and consumer a
// compile-time contract instead of an open string map.
type StepArtifacts struct {
	Plan    *PlanArtifact    `json:"plan,omitempty"`
	Gather  *GatherArtifact  `json:"gather,omitempty"`
	Score   *ScoreArtifact   `json:"score,omitempty"`
	Reflect *ReflectArtifact `json:"reflect,omitempty"`
	Failure *FailureArtifact `json:"failure,omitempty"`
}

// PlanArtifact is the static, purely descriptive analysis plan
type PlanArtifact struct {
	Tools      []string `json:"tools"`
	KeyMetrics []string `json:"key_metrics"`
	FocusAreas []string `json:"focus_areas"`
}

// GatherArtifact holds the data collected from the three providers along
// with per-provider warnings and the additive completeness score.
type GatherArtifact struct {
	Financials *FinancialSnapshot `json:"financials,omitempty"`
	News       []NewsItem         `json:"news"`
	Risks      []RiskItem         `json:"risks"`

	// Warnings records individual provider failures; they reduce
	// confidence downstream but never fail the step.
	Warnings []string `json:"warnings,omitempty"`

	// DataCompleteness is 0.4*financials + 0.3*news + 0.3*risks, in [0,1]
	DataCompleteness float64 `json:"data_completeness"`

	// SourcesReached lists the source identifiers actually retrieved
	SourcesReached []string `json:"sources_reached"`
}

// ScoreArtifact holds the preliminary scoring output
type ScoreArtifact struct {
	Breakdown  ScoreBreakdown `json:"breakdown"`
	Confidence float64        `json:"confidence"`
	Signal     Signal         `json:"signal"`
	Thesis     string         `json:"thesis"`
	Insights   []Insight      `json:"insights"`
}

// ReflectArtifact records the adjustments applied during reflection
type ReflectArtifact struct {
	Signal           Signal   `json:"signal"`
	Confidence       float64  `json:"confidence"`
	Limitations      []string `json:"limitations,omitempty"`
	SignalOverridden bool     `json:"signal_overridden"`
}

// FailureArtifact is the only artifact of a failed step
type FailureArtifact struct {
	Error string `json:"error"`
}
