package insights

import "time"

// Assemble builds the top-level Report from a provider's clustered,
// analyzed pipeline types (spec §4.7).
func Assemble(provider, project string, collectedAt time.Time, totalPipelines int, types []PipelineType) Report {
	return Report{
		Provider:           provider,
		Project:            project,
		CollectedAt:        collectedAt.UTC(),
		TotalPipelines:     totalPipelines,
		TotalPipelineTypes: len(types),
		PipelineTypes:      types,
	}
}
