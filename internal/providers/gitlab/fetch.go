package gitlab

import (
	"context"
	"fmt"
)

const fetchPipelinesQuery = `
query FetchPipelines($projectPath: ID!, $first: Int!, $after: String, $ref: String, $status: PipelineStatusEnum) {
  project(fullPath: $projectPath) {
    pipelines(first: $first, after: $after, ref: $ref, status: $status) {
      pageInfo { hasNextPage endCursor }
      nodes {
        id
        ref
        source
        status
        duration
        stages { nodes { name } }
      }
    }
  }
}`

const fetchPipelineJobsQuery = `
query FetchPipelineJobs($projectPath: ID!, $pipelineId: CiPipelineID!, $first: Int!, $after: String) {
  project(fullPath: $projectPath) {
    pipeline(id: $pipelineId) {
      jobs(first: $first, after: $after) {
        pageInfo { hasNextPage endCursor }
        nodes {
          id
          name
          stage { name }
          duration
          status
          retried
          needs { nodes { name } }
        }
      }
    }
  }
}`

type pageInfoDTO struct {
	HasNextPage bool   `json:"hasNextPage"`
	EndCursor   string `json:"endCursor"`
}

type stageNodeDTO struct {
	Name string `json:"name"`
}

type pipelineNodeDTO struct {
	ID       string         `json:"id"`
	Ref      string         `json:"ref"`
	Source   string         `json:"source"`
	Status   string         `json:"status"`
	Duration float64        `json:"duration"`
	Stages   struct {
		Nodes []stageNodeDTO `json:"nodes"`
	} `json:"stages"`
}

type fetchPipelinesData struct {
	Project struct {
		Pipelines struct {
			PageInfo pageInfoDTO       `json:"pageInfo"`
			Nodes    []pipelineNodeDTO `json:"nodes"`
		} `json:"pipelines"`
	} `json:"project"`
}

type needsNodeDTO struct {
	Name string `json:"name"`
}

type jobNodeDTO struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Duration float64 `json:"duration"`
	Status   string `json:"status"`
	Retried  bool   `json:"retried"`
	Stage    struct {
		Name string `json:"name"`
	} `json:"stage"`
	Needs *struct {
		Nodes []needsNodeDTO `json:"nodes"`
	} `json:"needs"`
}

type fetchPipelineJobsData struct {
	Project struct {
		Pipeline struct {
			Jobs struct {
				PageInfo pageInfoDTO  `json:"pageInfo"`
				Nodes    []jobNodeDTO `json:"nodes"`
			} `json:"jobs"`
		} `json:"pipeline"`
	} `json:"project"`
}

// fetchPipelinesByStatus pages through every pipeline matching status
// (GitLab's PipelineStatusEnum, e.g. "SUCCESS" or "FAILED") up to max
// results, newest first (spec §4.1).
func (c *Client) fetchPipelinesByStatus(ctx context.Context, projectPath, ref, status string, max int) ([]Pipeline, error) {
	var out []Pipeline
	cursor := ""

	for len(out) < max {
		first := pageSize
		if remaining := max - len(out); remaining < first {
			first = remaining
		}

		variables := map[string]any{
			"projectPath": projectPath,
			"first":       first,
			"status":      status,
		}
		if cursor != "" {
			variables["after"] = cursor
		}
		if ref != "" {
			variables["ref"] = ref
		}

		var data fetchPipelinesData
		if err := c.query(ctx, fetchPipelinesQuery, variables, &data); err != nil {
			return nil, err
		}

		for _, node := range data.Project.Pipelines.Nodes {
			stages := make([]string, 0, len(node.Stages.Nodes))
			for _, s := range node.Stages.Nodes {
				stages = append(stages, s.Name)
			}
			out = append(out, Pipeline{
				ID:       node.ID,
				Ref:      node.Ref,
				Source:   node.Source,
				Status:   node.Status,
				Duration: node.Duration,
				Stages:   stages,
			})
		}

		if !data.Project.Pipelines.PageInfo.HasNextPage || len(data.Project.Pipelines.Nodes) == 0 {
			break
		}
		cursor = data.Project.Pipelines.PageInfo.EndCursor
	}

	return out, nil
}

// FetchPipelineJobs pages through every job belonging to pipelineGID,
// preserving the provider's raw job-status strings and the three-way
// needs nil/empty/populated distinction (spec §4.4).
func (c *Client) FetchPipelineJobs(ctx context.Context, projectPath, pipelineGID string) ([]Job, error) {
	var out []Job
	cursor := ""

	for {
		variables := map[string]any{
			"projectPath": projectPath,
			"pipelineId":  pipelineGID,
			"first":       pageSize,
		}
		if cursor != "" {
			variables["after"] = cursor
		}

		var data fetchPipelineJobsData
		if err := c.query(ctx, fetchPipelineJobsQuery, variables, &data); err != nil {
			return nil, fmt.Errorf("fetching jobs for pipeline %s: %w", pipelineGID, err)
		}

		for _, node := range data.Project.Pipeline.Jobs.Nodes {
			var needs []string
			if node.Needs != nil {
				needs = make([]string, 0, len(node.Needs.Nodes))
				for _, n := range node.Needs.Nodes {
					needs = append(needs, n.Name)
				}
			}
			out = append(out, Job{
				ID:       node.ID,
				Name:     node.Name,
				Stage:    node.Stage.Name,
				Duration: node.Duration,
				Status:   node.Status,
				Retried:  node.Retried,
				Needs:    needs,
			})
		}

		if !data.Project.Pipeline.Jobs.PageInfo.HasNextPage || len(data.Project.Pipeline.Jobs.Nodes) == 0 {
			break
		}
		cursor = data.Project.Pipeline.Jobs.PageInfo.EndCursor
	}

	return out, nil
}

// FetchPipelines returns up to limit pipelines for projectPath (and
// optional ref), drawn in parallel from GitLab's SUCCESS and FAILED
// status filters so that a long run of one outcome cannot starve the
// other out of a fixed-size page window (spec §4.1, §5). Successes are
// ordered first, then failures, then truncated to limit. The first
// stream to fail cancels the other.
func (c *Client) FetchPipelines(ctx context.Context, projectPath, ref string, limit int) ([]Pipeline, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	half := limit / 2
	if half == 0 {
		half = limit
	}

	type result struct {
		pipelines []Pipeline
		err       error
	}
	successCh := make(chan result, 1)
	failedCh := make(chan result, 1)

	go func() {
		p, err := c.fetchPipelinesByStatus(ctx, projectPath, ref, "SUCCESS", half)
		successCh <- result{p, err}
	}()
	go func() {
		p, err := c.fetchPipelinesByStatus(ctx, projectPath, ref, "FAILED", limit-half)
		failedCh <- result{p, err}
	}()

	var successes, failures result
	for i := 0; i < 2; i++ {
		var r result
		select {
		case successes = <-successCh:
			r = successes
		case failures = <-failedCh:
			r = failures
		}
		if r.err != nil {
			return nil, r.err
		}
	}

	out := append(successes.pipelines, failures.pipelines...)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
