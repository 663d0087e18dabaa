package gitlab

import (
	"sort"
	"strings"
)

// cluster is one group of pipelines sharing an exact job-name
// signature (spec §4.3). Unlike similarity-based clustering, two
// clusters never merge just because their job sets overlap heavily —
// the signature match is exact, so the partition of pipelines into
// clusters is total and disjoint.
type cluster struct {
	signature []string // sorted, deduplicated job names
	pipelines []Pipeline
}

// clusterPipelines partitions pipelines by exact job-name signature.
// Every pipeline belongs to exactly one cluster (spec §9's partition
// property).
func clusterPipelines(pipelines []Pipeline) []cluster {
	index := make(map[string]int)
	var clusters []cluster

	for _, p := range pipelines {
		names := jobNameSignature(p.Jobs)
		key := strings.Join(names, "\x1f")

		if i, ok := index[key]; ok {
			clusters[i].pipelines = append(clusters[i].pipelines, p)
			continue
		}

		index[key] = len(clusters)
		clusters = append(clusters, cluster{signature: names, pipelines: []Pipeline{p}})
	}

	return clusters
}

func jobNameSignature(jobs []Job) []string {
	seen := make(map[string]bool, len(jobs))
	names := make([]string, 0, len(jobs))
	for _, j := range jobs {
		if seen[j.Name] {
			continue
		}
		seen[j.Name] = true
		names = append(names, j.Name)
	}
	sort.Strings(names)
	return names
}

// labelCluster assigns a human-readable label by scanning job names
// for keywords (spec §4.3): anything touching "prod" is labeled
// production; else anything touching staging/dev is development; else
// anything touching test/qa is test; otherwise the label is the
// literal "Unknown Pipeline".
func labelCluster(jobNames []string) string {
	for _, name := range jobNames {
		if strings.Contains(strings.ToLower(name), "prod") {
			return "Production Pipeline"
		}
	}
	for _, name := range jobNames {
		lower := strings.ToLower(name)
		if strings.Contains(lower, "staging") || strings.Contains(lower, "dev") {
			return "Development Pipeline"
		}
	}
	for _, name := range jobNames {
		lower := strings.ToLower(name)
		if strings.Contains(lower, "test") || strings.Contains(lower, "qa") {
			return "Test Pipeline"
		}
	}

	return "Unknown Pipeline"
}

// extractCharacteristics returns the union of stage names, ref names,
// and source names observed across the cluster's pipelines (spec
// §4.3). No frequency threshold is applied — every distinct value
// seen anywhere in the cluster is included.
func extractCharacteristics(pipelines []Pipeline) (stages, refPatterns, sources []string) {
	stages = extractUnion(pipelines, func(p Pipeline) []string {
		return p.Stages
	})
	refPatterns = extractUnion(pipelines, func(p Pipeline) []string {
		return []string{p.Ref}
	})
	sources = extractUnion(pipelines, func(p Pipeline) []string {
		return []string{p.Source}
	})
	return stages, refPatterns, sources
}

func extractUnion(pipelines []Pipeline, extract func(Pipeline) []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, p := range pipelines {
		for _, v := range extract(p) {
			if seen[v] {
				continue
			}
			seen[v] = true
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}
