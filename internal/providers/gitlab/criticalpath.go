package gitlab

// jobTiming is the result of the finish-time analysis for one job
// within one pipeline (spec §4.4).
type jobTiming struct {
	// Finish is the earliest wall-clock offset, from pipeline start, at
	// which this job's result is known: its own duration plus the
	// latest finish time among its predecessors.
	Finish float64
	// CriticalPredecessor is the name of the predecessor whose finish
	// time determined this job's start, or "" if the job has no
	// predecessors (it started at pipeline time zero).
	CriticalPredecessor string
}

// analyzeJobTimes computes, for every job in the pipeline, the
// memoized finish time used both as that job's time-to-feedback and as
// an input to the pipeline's overall critical path (spec §4.4).
//
// Jobs with no dependencies at all (isAllParallel) take the fast path:
// finish(j) == duration(j) for every job, skipping the recursion.
func analyzeJobTimes(stages []string, jobs []Job) map[string]jobTiming {
	graph := buildJobGraph(stages, jobs)
	result := make(map[string]jobTiming, len(graph.nodes))

	if graph.isAllParallel() {
		for _, name := range graph.order {
			result[name] = jobTiming{Finish: graph.nodes[name].job.Duration}
		}
		return result
	}

	memo := make(map[string]jobTiming, len(graph.nodes))
	var resolve func(name string, visiting map[string]bool) jobTiming
	resolve = func(name string, visiting map[string]bool) jobTiming {
		if t, ok := memo[name]; ok {
			return t
		}
		node, ok := graph.nodes[name]
		if !ok {
			return jobTiming{}
		}
		if visiting[name] {
			// A cycle slipped past checkAcyclic; break it by treating
			// the back-edge as having no contribution rather than
			// recursing forever.
			return jobTiming{Finish: node.job.Duration}
		}
		visiting[name] = true
		defer delete(visiting, name)

		var best float64
		var via string
		for _, dep := range node.dependsOn {
			depTiming := resolve(dep, visiting)
			if depTiming.Finish > best {
				best = depTiming.Finish
				via = dep
			}
		}

		t := jobTiming{Finish: best + node.job.Duration, CriticalPredecessor: via}
		memo[name] = t
		return t
	}

	for _, name := range graph.order {
		result[name] = resolve(name, make(map[string]bool))
	}
	return result
}

// criticalPathDuration is the pipeline's overall critical-path length:
// the maximum finish time across all of its jobs. It is 0 for a
// pipeline with no jobs.
func criticalPathDuration(timings map[string]jobTiming) float64 {
	var max float64
	for _, t := range timings {
		if t.Finish > max {
			max = t.Finish
		}
	}
	return max
}
