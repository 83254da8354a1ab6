// Package chat defines the message types exchanged with the LLM and the
// JSON shape its narration replies must conform to.
package chat

import "github.com/kessoku-hq/bocchi-life/pkg/player"

const (
	ChatRoleUser   = "user"
	ChatRoleAgent  = "model" // NPC / narrator turn
	ChatRoleSystem = "system"
)

// ChatMessage is a single message in the conversation sent to the LLM.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ActionChoice is one of the dynamic follow-up actions the LLM may offer
// after a narration; rendered as a Discord button.
type ActionChoice struct {
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
	EnergyCost  int    `json:"energy_cost,omitempty"`
}

// NarrationResult is the JSON-shaped reply expected from the LLM.
// The boundary is untrusted: stat-change keys are whitelisted before
// they reach the player store, and any malformed reply is replaced by
// Fallback().
type NarrationResult struct {
	Narration     string           `json:"narration"`
	StatChanges   player.StatDelta `json:"stat_changes,omitempty"`
	Mood          string           `json:"mood,omitempty"`
	NewCharacters []string         `json:"new_characters,omitempty"`
	Choices       []ActionChoice   `json:"choices,omitempty"`
}

// FallbackNarration is shown when the LLM reply cannot be used.
const FallbackNarration = "Pikiranmu buyar sejenak dan momen itu berlalu begitu saja. " +
	"Shimokitazawa tetap ramai seperti biasa."

// Fallback returns the deterministic result used when the LLM reply is
// malformed or missing: fixed narration plus a minimal safe delta.
func Fallback() *NarrationResult {
	return &NarrationResult{
		Narration:   FallbackNarration,
		StatChanges: player.StatDelta{"energy": -1},
	}
}
