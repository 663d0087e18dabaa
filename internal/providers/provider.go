// Package providers defines the interface a concrete CI backend
// implements so that additional providers could be added later (spec
// §1 — only one concrete provider, GitLab, is required).
package providers

import (
	"context"

	"github.com/cilens-dev/cilens/internal/insights"
)

// Options carries the inputs common to every provider's collection run.
type Options struct {
	Project           string
	Limit             int
	Branch            string
	MinTypePercentage int
}

// Provider collects a structured insights report from one CI backend.
type Provider interface {
	CollectInsights(ctx context.Context, opts Options) (insights.Report, error)
}
