package catalog

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// UpstreamModel is the raw record shape returned by the upstream models API.
// Only the fields we consume are declared; unknown fields are ignored.
type UpstreamModel struct {
	ID            string                `json:"id"`
	Name          string                `json:"name"`
	Description   string                `json:"description"`
	ContextLength int64                 `json:"context_length"`
	Created       int64                 `json:"created"`
	Pricing       *UpstreamPricing      `json:"pricing"`
	Architecture  *UpstreamArchitecture `json:"architecture"`
	TopProvider   *UpstreamTopProvider  `json:"top_provider"`
}

type UpstreamPricing struct {
	Prompt     PriceValue `json:"prompt"`
	Completion PriceValue `json:"completion"`
}

type UpstreamArchitecture struct {
	Modality         string   `json:"modality"`
	InputModalities  []string `json:"input_modalities"`
	OutputModalities []string `json:"output_modalities"`
}

type UpstreamTopProvider struct {
	MaxCompletionTokens int64 `json:"max_completion_tokens"`
}

// PriceValue is a per-token price. The upstream API encodes prices as JSON
// strings (eg "0.0000025"), but numbers have been observed as well; both
// decode. Anything else fails, which callers treat as a malformed response.
type PriceValue float64

func (p *PriceValue) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*p = 0
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		if s == "" {
			*p = 0
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("invalid price value %q: %w", s, err)
		}
		*p = PriceValue(f)
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*p = PriceValue(f)
	return nil
}

// Model is the normalized record served to the dashboard.
type Model struct {
	ID                     string   `json:"id"`
	Name                   string   `json:"name"`
	Provider               string   `json:"provider"`
	Description            string   `json:"description"`
	ContextLength          int64    `json:"contextLength"`
	ContextLengthFormatted string   `json:"contextLengthFormatted,omitempty"`
	MaxOutput              int64    `json:"maxOutput"`
	MaxOutputFormatted     string   `json:"maxOutputFormatted,omitempty"`
	InputPrice             float64  `json:"inputPrice"`
	OutputPrice            float64  `json:"outputPrice"`
	Modality               string   `json:"modality"`
	InputModalities        []string `json:"inputModalities"`
	OutputModalities       []string `json:"outputModalities"`
	OpenRouterURL          string   `json:"openRouterUrl"`
	CreatedAt              *string  `json:"createdAt"`
}

// Snapshot is the full normalized data set from one successful upstream fetch.
type Snapshot struct {
	UpdatedAt  string  `json:"updatedAt"`
	TotalCount int     `json:"totalCount"`
	Models     []Model `json:"models"`
}
