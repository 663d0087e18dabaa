package gitlab

import (
	"context"
	"sort"
	"time"

	"github.com/cilens-dev/cilens/internal/insights"
	"github.com/cilens-dev/cilens/internal/progress"
	"github.com/cilens-dev/cilens/internal/providers"
	"github.com/cilens-dev/cilens/internal/token"
)

// Provider implements providers.Provider against one GitLab instance
// (spec §1, §4.1).
type Provider struct {
	client   *Client
	baseURL  string
	reporter progress.Reporter
}

// NewProvider builds a GitLab Provider authenticated with tok against
// the GitLab instance at baseURL.
func NewProvider(baseURL string, tok token.Token) (*Provider, error) {
	client, err := NewClient(baseURL, tok)
	if err != nil {
		return nil, err
	}
	return &Provider{client: client, baseURL: baseURL}, nil
}

// WithProgress attaches a progress.Reporter that is notified once per
// pipeline as its jobs finish ingesting (spec §2.5). It returns p for
// chaining.
func (p *Provider) WithProgress(reporter progress.Reporter) *Provider {
	p.reporter = reporter
	return p
}

// CollectInsights fetches recent pipeline history for opts.Project,
// clusters it into pipeline types, and aggregates reliability metrics
// for each (spec §4.1-§4.5, §4.7).
func (p *Provider) CollectInsights(ctx context.Context, opts providers.Options) (insights.Report, error) {
	summaries, err := p.client.FetchPipelines(ctx, opts.Project, opts.Branch, opts.Limit)
	if err != nil {
		return insights.Report{}, err
	}

	var onProgress func()
	if p.reporter != nil {
		onProgress = p.reporter.Step
	}

	pipelines, err := p.client.ingest(ctx, opts.Project, summaries, onProgress)
	if p.reporter != nil {
		p.reporter.Done()
	}
	if err != nil {
		return insights.Report{}, err
	}

	if err := validateJobGraphs(pipelines); err != nil {
		return insights.Report{}, err
	}

	urls := newURLBuilder(p.baseURL, opts.Project)
	types := buildPipelineTypes(pipelines, opts.MinTypePercentage, urls)

	return insights.Assemble("GitLab", opts.Project, time.Now(), len(pipelines), types), nil
}

// validateJobGraphs rejects any pipeline whose job dependency graph
// contains a cycle before critical-path analysis runs on it (spec
// §9) — a provider bug or corrupted `needs` field would otherwise
// send the recursive finish-time computation down an infinite chain.
func validateJobGraphs(pipelines []Pipeline) error {
	for _, p := range pipelines {
		if len(p.Jobs) == 0 {
			continue
		}
		graph := buildJobGraph(p.Stages, p.Jobs)
		if err := graph.checkAcyclic(); err != nil {
			return err
		}
	}
	return nil
}

// buildPipelineTypes clusters pipelines by exact job signature, labels
// and analyzes each cluster, and drops clusters below minPercentage of
// the total (spec §4.3).
func buildPipelineTypes(pipelines []Pipeline, minPercentage int, urls urlBuilder) []insights.PipelineType {
	clusters := clusterPipelines(pipelines)
	total := len(pipelines)

	types := make([]insights.PipelineType, 0, len(clusters))
	for _, c := range clusters {
		percentage := percentOf(len(c.pipelines), total)
		if percentage < float64(minPercentage) {
			continue
		}

		stages, refPatterns, sources := extractCharacteristics(c.pipelines)
		metrics := aggregateTypeMetrics(c.pipelines, total, urls)
		metrics.Percentage = percentage

		types = append(types, insights.PipelineType{
			Label:       labelCluster(c.signature),
			Stages:      stages,
			RefPatterns: refPatterns,
			Sources:     sources,
			Metrics:     metrics,
		})
	}

	sort.Slice(types, func(i, j int) bool {
		return types[i].Metrics.TotalPipelines > types[j].Metrics.TotalPipelines
	})

	return types
}
