package gitlab

import (
	"sort"
	"strings"

	"github.com/cilens-dev/cilens/internal/insights"
)

const statusFailed = "FAILED"

// pipelineJobMetrics is one pipeline's per-job finish-time analysis,
// carried alongside the chain of critical predecessors used to build
// insights.PredecessorJob lists (spec §4.4).
type pipelineJobMetrics struct {
	name           string
	duration       float64
	timeToFeedback float64
	predecessors   []string // names, nearest first
}

// analyzePipeline runs the critical-path analysis for one pipeline and
// returns every job's timing plus its reconstructed predecessor chain.
func analyzePipeline(p Pipeline) []pipelineJobMetrics {
	if len(p.Jobs) == 0 {
		return nil
	}

	graph := buildJobGraph(p.Stages, p.Jobs)
	timings := analyzeJobTimes(p.Stages, p.Jobs)

	out := make([]pipelineJobMetrics, 0, len(graph.order))
	for _, name := range graph.order {
		node := graph.nodes[name]
		timing := timings[name]

		var chain []string
		cur := timing.CriticalPredecessor
		for cur != "" {
			chain = append(chain, cur)
			cur = timings[cur].CriticalPredecessor
		}

		out = append(out, pipelineJobMetrics{
			name:           name,
			duration:       node.job.Duration,
			timeToFeedback: timing.Finish,
			predecessors:   chain,
		})
	}
	return out
}

// pipelineTimeToFeedback is the earliest moment, from pipeline start,
// that any job's outcome is known — the fastest possible developer
// signal rather than the full pipeline's wall-clock length.
func pipelineTimeToFeedback(metrics []pipelineJobMetrics) float64 {
	if len(metrics) == 0 {
		return 0
	}
	min := metrics[0].timeToFeedback
	for _, m := range metrics[1:] {
		if m.timeToFeedback < min {
			min = m.timeToFeedback
		}
	}
	return min
}

// reliabilityRecord tracks one job name's cross-pipeline execution
// history for the flakiness/failure pass (spec §4.5).
type reliabilityRecord struct {
	totalExecutions  int
	flakyRetries     int
	flakyLinks       []string
	failedExecutions int
	failedLinks      []string
}

// buildReliability folds every pipeline's job executions (including
// retries) into a per-job-name reliability record. A job is "flaky" in
// a pipeline when it was retried and its final, non-retried attempt
// succeeded; it is a "failed execution" when its final attempt did not
// succeed.
func buildReliability(pipelines []Pipeline, urls urlBuilder) map[string]*reliabilityRecord {
	records := make(map[string]*reliabilityRecord)

	get := func(name string) *reliabilityRecord {
		r, ok := records[name]
		if !ok {
			r = &reliabilityRecord{}
			records[name] = r
		}
		return r
	}

	for _, p := range pipelines {
		byName := make(map[string][]Job)
		for _, j := range p.Jobs {
			byName[j.Name] = append(byName[j.Name], j)
		}

		for name, attempts := range byName {
			r := get(name)
			r.totalExecutions += len(attempts)

			var final *Job
			wasRetried := false
			for i := range attempts {
				if attempts[i].Retried {
					wasRetried = true
				} else {
					final = &attempts[i]
				}
			}
			if final == nil {
				r.failedExecutions++
				continue
			}

			link := urls.jobURL(final.ID)
			switch {
			case wasRetried && strings.EqualFold(final.Status, statusSuccess):
				retries := 0
				for _, a := range attempts {
					if a.Retried {
						retries++
					}
				}
				r.flakyRetries += retries
				r.flakyLinks = append(r.flakyLinks, link)
			case !strings.EqualFold(final.Status, statusSuccess):
				r.failedExecutions++
				r.failedLinks = append(r.failedLinks, link)
			}
		}
	}

	return records
}

// aggregateTypeMetrics computes the full TypeMetrics for one cluster
// of pipelines belonging to the same pipeline type (spec §4.5).
func aggregateTypeMetrics(pipelines []Pipeline, totalPipelines int, urls urlBuilder) insights.TypeMetrics {
	count := len(pipelines)
	percentage := percentOf(count, totalPipelines)

	var successful []Pipeline
	successLinks := []string{}
	failedLinks := []string{}
	for _, p := range pipelines {
		if strings.EqualFold(p.Status, "success") {
			successful = append(successful, p)
			successLinks = append(successLinks, urls.pipelineURL(p.ID))
		} else if strings.EqualFold(p.Status, statusFailed) {
			failedLinks = append(failedLinks, urls.pipelineURL(p.ID))
		}
	}

	var totalDuration, totalTimeToFeedback float64
	perPipelineJobs := make([][]pipelineJobMetrics, 0, len(successful))
	for _, p := range successful {
		metrics := analyzePipeline(p)
		perPipelineJobs = append(perPipelineJobs, metrics)
		totalDuration += p.Duration
		totalTimeToFeedback += pipelineTimeToFeedback(metrics)
	}

	avgDuration := meanOf(totalDuration, len(successful))
	avgTimeToFeedback := meanOf(totalTimeToFeedback, len(successful))

	reliability := buildReliability(pipelines, urls)
	jobs := buildJobMetricsList(perPipelineJobs, reliability)

	return insights.TypeMetrics{
		Percentage:               percentage,
		TotalPipelines:           count,
		SuccessfulPipelines:      insights.CountWithLinks{Count: len(successful), Links: successLinks},
		FailedPipelines:          insights.CountWithLinks{Count: count - len(successful), Links: failedLinks},
		SuccessRate:              percentOf(len(successful), count),
		AvgDurationSeconds:       avgDuration,
		AvgTimeToFeedbackSeconds: avgTimeToFeedback,
		Jobs:                     jobs,
	}
}

// buildJobMetricsList folds every successful pipeline's per-job timing
// into one insights.JobMetrics per distinct job name, joined with the
// cross-pipeline reliability pass (spec §4.5).
func buildJobMetricsList(perPipelineJobs [][]pipelineJobMetrics, reliability map[string]*reliabilityRecord) []insights.JobMetrics {
	type accum struct {
		durations        []float64
		timesToFeedback  []float64
		predecessorNames map[string]bool
	}
	data := make(map[string]*accum)
	var order []string

	for _, pipelineMetrics := range perPipelineJobs {
		for _, m := range pipelineMetrics {
			a, ok := data[m.name]
			if !ok {
				a = &accum{predecessorNames: make(map[string]bool)}
				data[m.name] = a
				order = append(order, m.name)
			}
			a.durations = append(a.durations, m.duration)
			a.timesToFeedback = append(a.timesToFeedback, m.timeToFeedback)
			for _, pred := range m.predecessors {
				a.predecessorNames[pred] = true
			}
		}
	}

	avgDurations := make(map[string]float64, len(data))
	for name, a := range data {
		avgDurations[name] = meanOf(sum(a.durations), len(a.durations))
	}

	sort.Strings(order)
	jobs := make([]insights.JobMetrics, 0, len(order))
	for _, name := range order {
		a := data[name]

		predecessors := make([]insights.PredecessorJob, 0, len(a.predecessorNames))
		for predName := range a.predecessorNames {
			if avg, ok := avgDurations[predName]; ok {
				predecessors = append(predecessors, insights.PredecessorJob{Name: predName, AvgDurationSeconds: avg})
			}
		}
		sort.Slice(predecessors, func(i, j int) bool {
			if predecessors[i].AvgDurationSeconds != predecessors[j].AvgDurationSeconds {
				return predecessors[i].AvgDurationSeconds > predecessors[j].AvgDurationSeconds
			}
			return predecessors[i].Name < predecessors[j].Name
		})

		r := reliability[name]
		total := 0
		var flakyRate, failureRate float64
		flaky := insights.CountWithLinks{Links: []string{}}
		failed := insights.CountWithLinks{Links: []string{}}
		if r != nil {
			total = r.totalExecutions
			flaky = insights.CountWithLinks{Count: r.flakyRetries, Links: nonNil(r.flakyLinks)}
			failed = insights.CountWithLinks{Count: r.failedExecutions, Links: nonNil(r.failedLinks)}
			flakyRate = percentOf(r.flakyRetries, total)
			failureRate = percentOf(r.failedExecutions, total)
		}

		jobs = append(jobs, insights.JobMetrics{
			Name:                     name,
			AvgDurationSeconds:       avgDurations[name],
			AvgTimeToFeedbackSeconds: meanOf(sum(a.timesToFeedback), len(a.timesToFeedback)),
			Predecessors:             predecessors,
			TotalExecutions:          total,
			FlakinessRate:            flakyRate,
			FlakyRetries:             flaky,
			FailureRate:              failureRate,
			FailedExecutions:         failed,
		})
	}

	sort.Slice(jobs, func(i, j int) bool {
		return jobs[i].AvgTimeToFeedbackSeconds > jobs[j].AvgTimeToFeedbackSeconds
	})

	return jobs
}

func percentOf(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100.0
}

func meanOf(total float64, n int) float64 {
	if n == 0 {
		return 0
	}
	return total / float64(n)
}

func sum(values []float64) float64 {
	var total float64
	for _, v := range values {
		total += v
	}
	return total
}

func nonNil(links []string) []string {
	if links == nil {
		return []string{}
	}
	return links
}
