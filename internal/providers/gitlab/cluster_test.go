package gitlab

import "testing"

func TestClusterPipelinesPartitionsByExactSignature(t *testing.T) {
	t.Parallel()

	pipelines := []Pipeline{
		{ID: "1", Jobs: []Job{{Name: "build"}, {Name: "test"}}},
		{ID: "2", Jobs: []Job{{Name: "test"}, {Name: "build"}}}, // same signature, different order
		{ID: "3", Jobs: []Job{{Name: "build"}, {Name: "test"}, {Name: "deploy"}}},
	}

	clusters := clusterPipelines(pipelines)
	if len(clusters) != 2 {
		t.Fatalf("expected 2 clusters, got %d", len(clusters))
	}

	total := 0
	for _, c := range clusters {
		total += len(c.pipelines)
	}
	if total != len(pipelines) {
		t.Errorf("cluster partition lost pipelines: total %d, want %d", total, len(pipelines))
	}
}

func TestLabelClusterKeywordPriority(t *testing.T) {
	t.Parallel()

	cases := []struct {
		jobs []string
		want string
	}{
		{[]string{"deploy-prod"}, "Production Pipeline"},
		{[]string{"run-tests", "deploy-staging"}, "Development Pipeline"},
		{[]string{"run-qa-suite"}, "Test Pipeline"},
		{[]string{"lint", "compile"}, "Unknown Pipeline"},
	}

	for _, tc := range cases {
		if got := labelCluster(tc.jobs); got != tc.want {
			t.Errorf("labelCluster(%v) = %q, want %q", tc.jobs, got, tc.want)
		}
	}
}

func TestExtractCharacteristicsReturnsUnionWithoutThreshold(t *testing.T) {
	t.Parallel()

	pipelines := make([]Pipeline, 20)
	for i := range pipelines {
		pipelines[i] = Pipeline{Ref: "main", Source: "push", Stages: []string{"build", "test"}}
	}
	// a single outlier pipeline still contributes its values to the union
	pipelines = append(pipelines, Pipeline{Ref: "feature/x", Source: "merge_request_event", Stages: []string{"deploy"}})

	stages, refs, sources := extractCharacteristics(pipelines)

	if len(refs) != 2 || refs[0] != "feature/x" || refs[1] != "main" {
		t.Errorf("refs = %v, want [feature/x main]", refs)
	}
	if len(sources) != 2 || sources[0] != "merge_request_event" || sources[1] != "push" {
		t.Errorf("sources = %v, want [merge_request_event push]", sources)
	}
	if len(stages) != 3 {
		t.Errorf("stages = %v, want 3 distinct stage names", stages)
	}
}
