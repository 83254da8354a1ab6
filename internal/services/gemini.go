package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/kessoku-hq/bocchi-life/pkg/chat"
)

const DefaultGeminiModel = "gemini-2.5-flash"

// GeminiService implements LLMService against the Gemini generative
// language API.
type GeminiService struct {
	client    *genai.Client
	model     *genai.GenerativeModel
	modelName string
	logger    *slog.Logger
}

var _ LLMService = (*GeminiService)(nil)

// NewGeminiService creates the API client. The model itself is bound in
// InitModel so startup failures surface in one place.
func NewGeminiService(ctx context.Context, apiKey string, modelName string, logger *slog.Logger) (*GeminiService, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	if modelName == "" {
		modelName = DefaultGeminiModel
	}
	return &GeminiService{
		client:    client,
		modelName: modelName,
		logger:    logger,
	}, nil
}

func (g *GeminiService) InitModel(ctx context.Context, modelName string) error {
	if modelName == "" {
		modelName = g.modelName
	}
	g.model = g.client.GenerativeModel(modelName)
	g.modelName = modelName
	return nil
}

// splitChatMessages combines all system messages into one instruction
// block and returns the remaining conversation messages.
func splitChatMessages(messages []chat.ChatMessage) (string, []chat.ChatMessage) {
	var systemParts []string
	var conversation []chat.ChatMessage
	for _, msg := range messages {
		if msg.Role == chat.ChatRoleSystem {
			systemParts = append(systemParts, msg.Content)
		} else {
			conversation = append(conversation, msg)
		}
	}
	return strings.Join(systemParts, "\n\n"), conversation
}

// Narrate sends the prompt and parses the JSON-shaped reply. Dropped
// stat-change keys are logged, never applied.
func (g *GeminiService) Narrate(ctx context.Context, messages []chat.ChatMessage) (*chat.NarrationResult, error) {
	if g.model == nil {
		if err := g.InitModel(ctx, g.modelName); err != nil {
			return nil, err
		}
	}

	systemPrompt, conversation := splitChatMessages(messages)
	if systemPrompt != "" {
		g.model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(systemPrompt)},
		}
	}

	if len(conversation) == 0 {
		return nil, fmt.Errorf("no user message to send")
	}

	session := g.model.StartChat()
	for _, msg := range conversation[:len(conversation)-1] {
		session.History = append(session.History, &genai.Content{
			Role:  msg.Role,
			Parts: []genai.Part{genai.Text(msg.Content)},
		})
	}

	last := conversation[len(conversation)-1]
	resp, err := session.SendMessage(ctx, genai.Text(last.Content))
	if err != nil {
		return nil, fmt.Errorf("gemini request failed: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("%w: no candidates returned", ErrMalformedNarration)
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}

	result, dropped, err := ParseNarration(sb.String())
	if err != nil {
		return nil, err
	}
	if len(dropped) > 0 && g.logger != nil {
		g.logger.Warn("dropped non-whitelisted stat keys from LLM reply",
			"keys", dropped, "model", g.modelName)
	}
	return result, nil
}

func (g *GeminiService) Close() error {
	return g.client.Close()
}
