package catalog

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestProviderForID(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("openai", providerForID("openai/gpt-4o"))
	assert.Equal("anthropic", providerForID("anthropic/claude-sonnet-4"))
	assert.Equal("unknown", providerForID("standalone-id"))
	assert.Equal("unknown", providerForID(""))
}

func TestFormatTokenCount(t *testing.T) {
	testCases := []struct {
		count    int64
		expected string
	}{
		{1_000_000, "1.00M"},
		{1_500_000, "1.50M"},
		{2_097_152, "2.10M"},
		{128_000, "128K"},
		{1_000, "1K"},
		{1_999, "1K"},
		{500, "500"},
		{1, "1"},
		{0, ""},
		{-1, ""},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.expected, formatTokenCount(tc.count), "count=%d", tc.count)
	}
}

func TestScalePrice(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(2.5, scalePrice(0.0000025))
	assert.Equal(0.0, scalePrice(0))
	assert.Equal(15.0, scalePrice(0.000015))
	// rounds to three decimals
	assert.Equal(0.123, scalePrice(0.0000001234))
}

func TestTransformModel(t *testing.T) {
	assert := assert.New(t)

	raw := UpstreamModel{
		ID:            "openai/gpt-4o",
		Name:          "GPT-4o",
		Description:   "flagship",
		ContextLength: 128_000,
		Created:       1715558400,
		Pricing: &UpstreamPricing{
			Prompt:     PriceValue(0.0000025),
			Completion: PriceValue(0.00001),
		},
		Architecture: &UpstreamArchitecture{
			Modality:         "text+image->text",
			InputModalities:  []string{"text", "image"},
			OutputModalities: []string{"text"},
		},
		TopProvider: &UpstreamTopProvider{MaxCompletionTokens: 16_384},
	}

	m := TransformModel(raw)
	assert.Equal("openai/gpt-4o", m.ID)
	assert.Equal("openai", m.Provider)
	assert.Equal("128K", m.ContextLengthFormatted)
	assert.Equal(int64(16_384), m.MaxOutput)
	assert.Equal("16K", m.MaxOutputFormatted)
	assert.Equal(2.5, m.InputPrice)
	assert.Equal(10.0, m.OutputPrice)
	assert.Equal("text+image->text", m.Modality)
	assert.Equal("https://openrouter.ai/models/openai/gpt-4o", m.OpenRouterURL)
	if assert.NotNil(m.CreatedAt) {
		assert.Equal("2024-05-13T00:00:00Z", *m.CreatedAt)
	}
}

func TestTransformModelSparse(t *testing.T) {
	assert := assert.New(t)

	// record with every optional field absent
	m := TransformModel(UpstreamModel{ID: "standalone-id"})
	assert.Equal("unknown", m.Provider)
	assert.Equal(int64(0), m.ContextLength)
	assert.Empty(m.ContextLengthFormatted)
	assert.Empty(m.MaxOutputFormatted)
	assert.Equal(0.0, m.InputPrice)
	assert.Equal(0.0, m.OutputPrice)
	assert.Nil(m.CreatedAt)

	// modality lists serialize as empty arrays, never null
	body, err := json.Marshal(m)
	assert.NoError(err)
	assert.Contains(string(body), `"inputModalities":[]`)
	assert.Contains(string(body), `"outputModalities":[]`)
}

func TestBuildSnapshot(t *testing.T) {
	assert := assert.New(t)

	now := time.Date(2025, 3, 1, 12, 30, 0, 0, time.UTC)
	snap := BuildSnapshot([]UpstreamModel{
		{ID: "openai/gpt-4o"},
		{ID: "anthropic/claude-sonnet-4"},
	}, now)

	assert.Equal("2025-03-01T12:30:00Z", snap.UpdatedAt)
	assert.Equal(2, snap.TotalCount)
	assert.Len(snap.Models, 2)
}
