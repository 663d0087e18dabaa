package gitlab

import (
	"context"
	"sync"
)

// ingestConcurrency bounds how many pipelines have their jobs fetched
// at once (spec §5).
const ingestConcurrency = 10

// ingest fetches job lists for every pipeline summary, fanning out
// across a worker pool bounded to ingestConcurrency in flight at once.
// The first fetch error cancels the shared context so outstanding and
// not-yet-started fetches stop promptly, matching the fail-fast error
// taxonomy (spec §7): CI Lens has no retry semantics, so one job fetch
// failure aborts the whole run.
func (c *Client) ingest(ctx context.Context, projectPath string, summaries []Pipeline, onProgress func()) ([]Pipeline, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	out := make([]Pipeline, len(summaries))
	pool := make(chan struct{}, ingestConcurrency)

	var wg sync.WaitGroup
	var once sync.Once
	var firstErr error

	for i, summary := range summaries {
		wg.Add(1)
		go func(i int, summary Pipeline) {
			defer wg.Done()

			select {
			case pool <- struct{}{}:
				defer func() { <-pool }()
			case <-ctx.Done():
				return
			}

			if ctx.Err() != nil {
				return
			}

			jobs, err := c.FetchPipelineJobs(ctx, projectPath, summary.ID)
			if err != nil {
				once.Do(func() {
					firstErr = err
					cancel()
				})
				return
			}

			summary.Jobs = jobs
			out[i] = summary
			if onProgress != nil {
				onProgress()
			}
		}(i, summary)
	}

	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return out, nil
}
