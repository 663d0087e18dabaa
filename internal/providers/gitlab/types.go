package gitlab

// Pipeline is the normalized, provider-agnostic-in-shape representation
// of one completed GitLab pipeline (spec §3).
type Pipeline struct {
	ID       string
	Ref      string
	Source   string
	Status   string // provider-native, e.g. "SUCCESS" or "FAILED"; compared case-insensitively
	Duration float64
	Stages   []string
	Jobs     []Job
}

// Job is one execution record within a pipeline. A job name may appear
// more than once within a pipeline when it was retried; exactly one
// occurrence has Retried == false.
type Job struct {
	ID       string
	Name     string
	Stage    string
	Duration float64
	Status   string // uppercase, provider-native: SUCCESS, FAILED, CANCELED, SKIPPED, ...
	Retried  bool
	// Needs is nil when the provider omitted the field (implicit,
	// stage-order dependency resolution applies), and non-nil
	// (possibly empty) when the provider returned an explicit list.
	Needs []string
}

const statusSuccess = "SUCCESS"
