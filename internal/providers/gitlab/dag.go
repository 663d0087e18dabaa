package gitlab

import (
	"fmt"
	"sort"

	"github.com/cilens-dev/cilens/pkg/cierrors"
)

// jobNode is one vertex of a pipeline's job dependency graph. dependsOn
// holds the jobs that must finish before this one can start, resolved
// per spec §4.4's three modes by buildJobGraph.
type jobNode struct {
	name       string
	job        *Job
	dependsOn  []string
	dependents []string
}

// jobGraph is the dependency graph for a single pipeline's jobs,
// indexed by job name.
type jobGraph struct {
	nodes map[string]*jobNode
	order []string // stable iteration order, insertion order of jobs
}

// buildJobGraph resolves each job's predecessors according to the
// dependency-resolution rules in spec §4.4:
//
//   - Needs is a populated list: depend exactly on those named jobs.
//   - Needs is a non-nil empty list: the job has no predecessors.
//   - Needs is nil (the provider omitted it): fall back to stage-order
//     — the job depends on every job in every stage that runs before
//     its own stage.
func buildJobGraph(stages []string, jobs []Job) *jobGraph {
	g := &jobGraph{nodes: make(map[string]*jobNode, len(jobs))}

	stageIndex := make(map[string]int, len(stages))
	for i, s := range stages {
		stageIndex[s] = i
	}

	jobsByStage := make(map[string][]string)
	for _, j := range jobs {
		jobsByStage[j.Stage] = append(jobsByStage[j.Stage], j.Name)
	}

	for i := range jobs {
		j := &jobs[i]
		if existing, exists := g.nodes[j.Name]; exists {
			// Retried jobs can repeat a name within a pipeline; the
			// graph itself reasons about the final (non-retried)
			// attempt's duration and dependencies, while aggregate.go
			// separately folds every attempt into the reliability pass.
			if existing.job.Retried && !j.Retried {
				existing.job = j
			}
			continue
		}
		g.nodes[j.Name] = &jobNode{name: j.Name, job: j}
		g.order = append(g.order, j.Name)
	}

	for _, name := range g.order {
		node := g.nodes[name]
		switch {
		case node.job.Needs != nil && len(node.job.Needs) > 0:
			node.dependsOn = append(node.dependsOn, node.job.Needs...)
		case node.job.Needs != nil:
			// explicit empty needs: no predecessors.
		default:
			idx, ok := stageIndex[node.job.Stage]
			if !ok {
				break
			}
			for p := 0; p < idx; p++ {
				node.dependsOn = append(node.dependsOn, jobsByStage[stages[p]]...)
			}
		}
	}

	for _, name := range g.order {
		node := g.nodes[name]
		for _, dep := range node.dependsOn {
			if depNode, ok := g.nodes[dep]; ok {
				depNode.dependents = append(depNode.dependents, name)
			}
		}
	}

	return g
}

// isAllParallel reports whether no job in the graph depends on any
// other, the fast path noted in spec §4.4 where finish(j) == duration(j)
// for every job.
func (g *jobGraph) isAllParallel() bool {
	for _, name := range g.order {
		if len(g.nodes[name].dependsOn) > 0 {
			return false
		}
	}
	return true
}

// checkAcyclic runs Kahn's algorithm over the dependency edges as an
// optional safety net (spec §9) — a well-formed CI pipeline graph is
// always acyclic, but a provider could in principle report a
// self-referential needs list.
func (g *jobGraph) checkAcyclic() error {
	indegree := make(map[string]int, len(g.nodes))
	for name := range g.nodes {
		indegree[name] = 0
	}
	for _, name := range g.order {
		for _, dep := range g.nodes[name].dependents {
			indegree[dep]++
		}
	}

	var queue []string
	for name, degree := range indegree {
		if degree == 0 {
			queue = append(queue, name)
		}
	}
	sort.Strings(queue)

	processed := 0
	for len(queue) > 0 {
		current := queue
		sort.Strings(current)
		var next []string
		for _, name := range current {
			processed++
			for _, dependent := range g.nodes[name].dependents {
				indegree[dependent]--
				if indegree[dependent] == 0 {
					next = append(next, dependent)
				}
			}
		}
		queue = next
	}

	if processed != len(g.nodes) {
		return cierrors.NewConfigError(fmt.Sprintf("cycle detected in job dependency graph (%d of %d jobs resolved)", processed, len(g.nodes)), nil)
	}
	return nil
}
