package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/talentscout/screener/internal/ai"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

const defaultModel = "gemini-2.5-flash"

// greetingKickoff is sent as the user content when the history holds nothing
// but the system turn: the genai API rejects a request without contents, and
// the opening greeting call is exactly that shape.
const greetingKickoff = "Begin the conversation."

// Completer adapts the Google GenAI client to the oracle contract. The chat
// history is replayed in full on every call; the system turn becomes the
// model's system instruction.
type Completer struct {
	client *genai.Client
	model  string
	logger *zap.Logger
}

func New(ctx context.Context, apiKey, model string, logger *zap.Logger) (*Completer, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &Completer{client: client, model: model, logger: logger}, nil
}

func (c *Completer) Model() string {
	if c == nil {
		return ""
	}
	return c.model
}

func (c *Completer) Complete(ctx context.Context, messages []ai.Message) (string, error) {
	if c == nil || c.client == nil {
		return "", errors.New("gemini completer is not initialized")
	}

	contents, config := splitHistory(messages)
	if len(contents) == 0 {
		return "", errors.New("message history must contain at least one non-system turn")
	}

	c.logger.Debug("gemini completion request", zap.Int("history_length", len(messages)))

	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, config)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	return collectText(resp)
}

// splitHistory maps chat roles onto genai contents. The system turn is carried
// as a system instruction rather than a content entry. A system-only history,
// which is what the opening greeting call sends, gets a kick-off user content
// so the request still carries at least one content entry.
func splitHistory(messages []ai.Message) ([]*genai.Content, *genai.GenerateContentConfig) {
	config := &genai.GenerateContentConfig{}
	contents := make([]*genai.Content, 0, len(messages))

	for _, msg := range messages {
		switch msg.Role {
		case ai.RoleSystem:
			config.SystemInstruction = genai.NewContentFromText(msg.Content, genai.RoleUser)
		case ai.RoleAssistant:
			contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleUser))
		}
	}

	if len(contents) == 0 && config.SystemInstruction != nil {
		contents = append(contents, genai.NewContentFromText(greetingKickoff, genai.RoleUser))
	}

	return contents, config
}

func collectText(resp *genai.GenerateContentResponse) (string, error) {
	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
	}

	output := strings.TrimSpace(builder.String())
	if output == "" {
		return "", errors.New("gemini api returned empty response")
	}

	return output, nil
}
