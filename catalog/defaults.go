package catalog

import (
	"fmt"
	"strings"
	"sync"
)

// DefaultsStore holds the editable list of model identifiers the dashboard
// preselects for comparison. The list lives in process memory only; it is
// seeded once at startup (typically from an environment variable) and
// replaced wholesale by the admin API.
type DefaultsStore struct {
	mu  sync.RWMutex
	ids []string
}

func NewDefaultsStore(initial []string) *DefaultsStore {
	s := &DefaultsStore{}
	s.ids = append(s.ids, initial...)
	return s
}

// ParseDefaultModels splits a comma-separated identifier list, trimming
// whitespace and dropping empty segments.
func ParseDefaultModels(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if id := strings.TrimSpace(part); id != "" {
			out = append(out, id)
		}
	}
	return out
}

// List returns a copy of the current default model identifiers.
func (s *DefaultsStore) List() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.ids))
	copy(out, s.ids)
	return out
}

// Replace swaps in a new identifier list. Identifiers must be non-empty
// after trimming.
func (s *DefaultsStore) Replace(ids []string) error {
	cleaned := make([]string, 0, len(ids))
	for _, id := range ids {
		trimmed := strings.TrimSpace(id)
		if trimmed == "" {
			return fmt.Errorf("empty model identifier in defaults list")
		}
		cleaned = append(cleaned, trimmed)
	}
	s.mu.Lock()
	s.ids = cleaned
	s.mu.Unlock()
	return nil
}
