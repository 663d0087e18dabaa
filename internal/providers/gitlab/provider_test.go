package gitlab

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cilens-dev/cilens/internal/providers"
	"github.com/cilens-dev/cilens/internal/token"
)

func TestCollectInsightsEndToEnd(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Query     string         `json:"query"`
			Variables map[string]any `json:"variables"`
		}
		json.NewDecoder(r.Body).Decode(&req)

		switch {
		case contains(req.Query, "FetchPipelines"):
			// Only the SUCCESS stream has a pipeline; the FAILED stream is empty.
			nodes := []map[string]any{}
			if req.Variables["status"] == "SUCCESS" {
				nodes = append(nodes, map[string]any{"id": "gid://gitlab/Ci::Pipeline/1", "ref": "main", "source": "push", "status": "SUCCESS", "duration": 15.0, "stages": map[string]any{"nodes": []map[string]any{{"name": "build"}, {"name": "test"}}}})
			}
			json.NewEncoder(w).Encode(map[string]any{
				"data": map[string]any{
					"project": map[string]any{
						"pipelines": map[string]any{
							"pageInfo": map[string]any{"hasNextPage": false, "endCursor": ""},
							"nodes":    nodes,
						},
					},
				},
			})
		case contains(req.Query, "FetchPipelineJobs"):
			json.NewEncoder(w).Encode(map[string]any{
				"data": map[string]any{
					"project": map[string]any{
						"pipeline": map[string]any{
							"jobs": map[string]any{
								"pageInfo": map[string]any{"hasNextPage": false, "endCursor": ""},
								"nodes": []map[string]any{
									{"id": "gid://gitlab/Ci::Job/1", "name": "compile", "duration": 10.0, "status": "SUCCESS", "retried": false, "stage": map[string]any{"name": "build"}},
									{"id": "gid://gitlab/Ci::Job/2", "name": "unit", "duration": 5.0, "status": "SUCCESS", "retried": false, "stage": map[string]any{"name": "test"}},
								},
							},
						},
					},
				},
			})
		}
	}))
	defer server.Close()

	provider, err := NewProvider(server.URL, token.New("t"))
	if err != nil {
		t.Fatalf("NewProvider: %v", err)
	}

	report, err := provider.CollectInsights(context.Background(), providers.Options{
		Project: "group/project",
		Limit:   10,
	})
	if err != nil {
		t.Fatalf("CollectInsights: %v", err)
	}

	if report.TotalPipelines != 1 {
		t.Fatalf("TotalPipelines = %d, want 1", report.TotalPipelines)
	}
	if len(report.PipelineTypes) != 1 {
		t.Fatalf("expected 1 pipeline type, got %d", len(report.PipelineTypes))
	}
	pt := report.PipelineTypes[0]
	if len(pt.Metrics.Jobs) != 2 {
		t.Errorf("expected 2 jobs in aggregated metrics, got %d", len(pt.Metrics.Jobs))
	}
}

func TestValidateJobGraphsRejectsCycle(t *testing.T) {
	t.Parallel()

	pipelines := []Pipeline{
		{
			ID:     "1",
			Stages: []string{"a"},
			Jobs: []Job{
				{Name: "x", Stage: "a", Needs: []string{"y"}},
				{Name: "y", Stage: "a", Needs: []string{"x"}},
			},
		},
	}

	if err := validateJobGraphs(pipelines); err == nil {
		t.Fatal("expected an error for a cyclic job graph")
	}
}

func contains(haystack, needle string) bool {
	return len(haystack) >= len(needle) && indexOf(haystack, needle) >= 0
}

func indexOf(haystack, needle string) int {
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if haystack[i:i+len(needle)] == needle {
			return i
		}
	}
	return -1
}
