// Package insights defines the serialized CI Lens report shape (spec
// §3, §6) and the assembler that produces it. It has no knowledge of
// any specific CI provider.
package insights

import "time"

// Report is the single top-level JSON document CI Lens emits.
type Report struct {
	Provider          string         `json:"provider"`
	Project           string         `json:"project"`
	CollectedAt       time.Time      `json:"collected_at"`
	TotalPipelines    int            `json:"total_pipelines"`
	TotalPipelineTypes int           `json:"total_pipeline_types"`
	PipelineTypes     []PipelineType `json:"pipeline_types"`
}

// PipelineType is one cluster of structurally identical pipelines.
type PipelineType struct {
	Label       string      `json:"label"`
	Stages      []string    `json:"stages"`
	RefPatterns []string    `json:"ref_patterns"`
	Sources     []string    `json:"sources"`
	Metrics     TypeMetrics `json:"metrics"`
}

// CountWithLinks pairs an occurrence count with evidence URLs.
type CountWithLinks struct {
	Count int      `json:"count"`
	Links []string `json:"links"`
}

// TypeMetrics aggregates reliability and timing signals for one cluster.
type TypeMetrics struct {
	Percentage               float64        `json:"percentage"`
	TotalPipelines           int            `json:"total_pipelines"`
	SuccessfulPipelines      CountWithLinks `json:"successful_pipelines"`
	FailedPipelines          CountWithLinks `json:"failed_pipelines"`
	SuccessRate              float64        `json:"success_rate"`
	AvgDurationSeconds       float64        `json:"avg_duration_seconds"`
	AvgTimeToFeedbackSeconds float64        `json:"avg_time_to_feedback_seconds"`
	Jobs                     []JobMetrics   `json:"jobs"`
}

// PredecessorJob is one link in a job's averaged critical-predecessor chain.
type PredecessorJob struct {
	Name               string  `json:"name"`
	AvgDurationSeconds float64 `json:"avg_duration_seconds"`
}

// JobMetrics aggregates one job's timing and reliability signals across
// a cluster.
type JobMetrics struct {
	Name                     string           `json:"name"`
	AvgDurationSeconds       float64          `json:"avg_duration_seconds"`
	AvgTimeToFeedbackSeconds float64          `json:"avg_time_to_feedback_seconds"`
	Predecessors             []PredecessorJob `json:"predecessors"`
	TotalExecutions          int              `json:"total_executions"`
	FlakinessRate            float64          `json:"flakiness_rate"`
	FlakyRetries             CountWithLinks   `json:"flaky_retries"`
	FailureRate              float64          `json:"failure_rate"`
	FailedExecutions         CountWithLinks   `json:"failed_executions"`
}
