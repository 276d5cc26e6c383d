package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDefaultModels(t *testing.T) {
	assert := assert.New(t)

	assert.Equal([]string{"openai/gpt-4o", "anthropic/claude-sonnet-4"},
		ParseDefaultModels("openai/gpt-4o, anthropic/claude-sonnet-4"))
	assert.Equal([]string{"a"}, ParseDefaultModels(",a,,"))
	assert.Nil(ParseDefaultModels(""))
	assert.Nil(ParseDefaultModels(" , "))
}

func TestDefaultsStoreReplace(t *testing.T) {
	assert := assert.New(t)

	s := NewDefaultsStore([]string{"openai/gpt-4o"})
	assert.Equal([]string{"openai/gpt-4o"}, s.List())

	assert.NoError(s.Replace([]string{"anthropic/claude-sonnet-4", "google/gemini-pro"}))
	assert.Equal([]string{"anthropic/claude-sonnet-4", "google/gemini-pro"}, s.List())

	// invalid replacement leaves the list untouched
	assert.Error(s.Replace([]string{"ok", "  "}))
	assert.Equal([]string{"anthropic/claude-sonnet-4", "google/gemini-pro"}, s.List())

	// clearing the list is allowed
	assert.NoError(s.Replace(nil))
	assert.Empty(s.List())
}

func TestDefaultsStoreListIsCopy(t *testing.T) {
	s := NewDefaultsStore([]string{"a", "b"})
	got := s.List()
	got[0] = "mutated"
	assert.Equal(t, []string{"a", "b"}, s.List())
}
