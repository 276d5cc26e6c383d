package catalog

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

const openRouterModelURLBase = "https://openrouter.ai/models/"

// providerForID extracts the provider segment of a model identifier, eg
// "openai/gpt-4o" -> "openai". Identifiers without a slash have no provider
// namespace and map to "unknown".
func providerForID(id string) string {
	idx := strings.Index(id, "/")
	if idx < 0 {
		return "unknown"
	}
	return id[:idx]
}

// formatTokenCount renders a token count for display: millions with two
// decimals ("1.00M"), thousands truncated to whole K ("128K"), small values
// as-is. Zero or negative counts return the empty string (field omitted).
func formatTokenCount(n int64) string {
	switch {
	case n <= 0:
		return ""
	case n >= 1_000_000:
		return fmt.Sprintf("%.2fM", float64(n)/1_000_000)
	case n >= 1_000:
		return fmt.Sprintf("%dK", n/1_000)
	default:
		return strconv.FormatInt(n, 10)
	}
}

// scalePrice converts a per-token price to a per-million-token price,
// rounded to three decimal places.
func scalePrice(perToken float64) float64 {
	return math.Round(perToken*1_000_000*1000) / 1000
}

// TransformModel normalizes one raw upstream record.
func TransformModel(raw UpstreamModel) Model {
	m := Model{
		ID:            raw.ID,
		Name:          raw.Name,
		Provider:      providerForID(raw.ID),
		Description:   raw.Description,
		ContextLength: raw.ContextLength,
		OpenRouterURL: openRouterModelURLBase + raw.ID,
		// empty arrays, not null, for the JS consumer
		InputModalities:  []string{},
		OutputModalities: []string{},
	}
	m.ContextLengthFormatted = formatTokenCount(raw.ContextLength)
	if raw.TopProvider != nil {
		m.MaxOutput = raw.TopProvider.MaxCompletionTokens
		m.MaxOutputFormatted = formatTokenCount(raw.TopProvider.MaxCompletionTokens)
	}
	if raw.Pricing != nil {
		m.InputPrice = scalePrice(float64(raw.Pricing.Prompt))
		m.OutputPrice = scalePrice(float64(raw.Pricing.Completion))
	}
	if raw.Architecture != nil {
		m.Modality = raw.Architecture.Modality
		if raw.Architecture.InputModalities != nil {
			m.InputModalities = raw.Architecture.InputModalities
		}
		if raw.Architecture.OutputModalities != nil {
			m.OutputModalities = raw.Architecture.OutputModalities
		}
	}
	if raw.Created > 0 {
		ts := time.Unix(raw.Created, 0).UTC().Format(time.RFC3339)
		m.CreatedAt = &ts
	}
	return m
}

// BuildSnapshot normalizes a full upstream result set into the snapshot
// envelope served to clients.
func BuildSnapshot(raw []UpstreamModel, now time.Time) Snapshot {
	models := make([]Model, len(raw))
	for i, r := range raw {
		models[i] = TransformModel(r)
	}
	return Snapshot{
		UpdatedAt:  now.UTC().Format(time.RFC3339),
		TotalCount: len(models),
		Models:     models,
	}
}
