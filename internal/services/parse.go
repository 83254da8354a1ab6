package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/kessoku-hq/bocchi-life/pkg/chat"
	"github.com/kessoku-hq/bocchi-life/pkg/textfilter"
)

// ErrMalformedNarration marks an LLM reply that failed strict parsing.
// Callers substitute chat.Fallback() instead of surfacing it to the user.
var ErrMalformedNarration = errors.New("malformed narration reply")

// stripCodeFences removes a single wrapping markdown code fence, with or
// without a language tag. Models routinely wrap JSON this way.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// ParseNarration decodes a raw LLM reply into a NarrationResult. The
// reply is untrusted: the narration key is required, stat-change keys
// are whitelisted, and dropped keys are returned for logging.
func ParseNarration(raw string) (*chat.NarrationResult, []string, error) {
	cleaned := stripCodeFences(raw)
	if cleaned == "" {
		return nil, nil, fmt.Errorf("%w: empty reply", ErrMalformedNarration)
	}

	var result chat.NarrationResult
	if err := json.Unmarshal([]byte(cleaned), &result); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrMalformedNarration, err)
	}

	if strings.TrimSpace(result.Narration) == "" {
		return nil, nil, fmt.Errorf("%w: missing narration key", ErrMalformedNarration)
	}
	// nil means the key was absent; an empty object is fine.
	if result.StatChanges == nil {
		return nil, nil, fmt.Errorf("%w: missing stat_changes key", ErrMalformedNarration)
	}
	result.Narration = textfilter.CleanNarration(result.Narration)

	clean, dropped := result.StatChanges.Sanitize()
	result.StatChanges = clean

	return &result, dropped, nil
}
