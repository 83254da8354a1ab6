package services

import (
	"context"
	"sync"

	"github.com/kessoku-hq/bocchi-life/pkg/chat"
	"github.com/kessoku-hq/bocchi-life/pkg/player"
)

// MockLLM is an in-memory LLMService for tests and the offline console.
type MockLLM struct {
	InitModelFunc func(ctx context.Context, modelName string) error
	NarrateFunc   func(ctx context.Context, messages []chat.ChatMessage) (*chat.NarrationResult, error)

	// Track calls for assertions.
	InitModelCalls []string
	NarrateCalls   [][]chat.ChatMessage

	mu sync.Mutex
}

var _ LLMService = (*MockLLM)(nil)

func NewMockLLM() *MockLLM {
	return &MockLLM{
		InitModelCalls: make([]string, 0),
		NarrateCalls:   make([][]chat.ChatMessage, 0),
	}
}

func (m *MockLLM) InitModel(ctx context.Context, modelName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.InitModelCalls = append(m.InitModelCalls, modelName)
	if m.InitModelFunc != nil {
		return m.InitModelFunc(ctx, modelName)
	}
	return nil
}

func (m *MockLLM) Narrate(ctx context.Context, messages []chat.ChatMessage) (*chat.NarrationResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.NarrateCalls = append(m.NarrateCalls, messages)
	if m.NarrateFunc != nil {
		return m.NarrateFunc(ctx, messages)
	}

	// Default: a small plausible narration with a minimal energy cost.
	return &chat.NarrationResult{
		Narration:   "Kamu menghabiskan waktu di Shimokitazawa, tidak banyak yang terjadi.",
		StatChanges: player.StatDelta{"energy": -1},
	}, nil
}

func (m *MockLLM) Close() error {
	return nil
}
