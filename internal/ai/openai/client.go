package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/talentscout/screener/internal/ai"
	"github.com/talentscout/screener/internal/logger"

	"go.uber.org/zap"
)

const (
	defaultBaseURL = "https://api.groq.com/openai/v1"
	defaultModel   = "llama3-8b-8192"

	defaultMaxLogLength = 200
)

// Client is a minimal client for OpenAI-compatible chat completion APIs
// (Groq by default). It sends the whole message history on every call and
// never retries on its own.
type Client struct {
	apiKey    string
	baseURL   string
	model     string
	logger    *zap.Logger
	maxLogLen int

	// HTTPClient can be swapped in tests. The default carries a transport
	// timeout so a stalled oracle cannot block a turn forever.
	HTTPClient *http.Client
}

func New(apiKey, baseURL, model string, logger *zap.Logger) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("oracle api key is required")
	}

	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	if model == "" {
		model = defaultModel
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		apiKey:    apiKey,
		baseURL:   baseURL,
		model:     model,
		logger:    logger,
		maxLogLen: defaultMaxLogLength,
		HTTPClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}, nil
}

func (c *Client) Model() string {
	return c.model
}

type chatCompletionsRequest struct {
	Model    string       `json:"model"`
	Messages []ai.Message `json:"messages"`
}

type chatChoice struct {
	Index   int `json:"index"`
	Message struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"message"`
	FinishReason string `json:"finish_reason"`
}

type chatCompletionsResponse struct {
	ID      string       `json:"id"`
	Model   string       `json:"model"`
	Choices []chatChoice `json:"choices"`
}

// Complete sends the message history to the chat completions endpoint and
// returns the first choice's content.
func (c *Client) Complete(ctx context.Context, messages []ai.Message) (string, error) {
	if len(messages) == 0 {
		return "", errors.New("message history must not be empty")
	}

	body, err := json.Marshal(chatCompletionsRequest{
		Model:    c.model,
		Messages: messages,
	})
	if err != nil {
		return "", fmt.Errorf("marshal completion request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/chat/completions", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	last := messages[len(messages)-1]
	c.logger.Debug("oracle completion request",
		zap.Int("history_length", len(messages)),
		zap.Int("last_message_length", utf8.RuneCountInString(last.Content)),
		zap.String("last_message_preview", logger.TruncateForLog(last.Content, c.maxLogLen)),
	)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("oracle request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errBody map[string]any
		_ = json.NewDecoder(resp.Body).Decode(&errBody)
		return "", fmt.Errorf("oracle returned status %d: %v", resp.StatusCode, errBody)
	}

	var out chatCompletionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode completion response: %w", err)
	}

	if len(out.Choices) == 0 {
		return "", errors.New("oracle returned no choices")
	}

	reply := out.Choices[0].Message.Content
	c.logger.Debug("oracle completion response",
		zap.Int("response_length", utf8.RuneCountInString(reply)),
		zap.String("response_preview", logger.TruncateForLog(reply, c.maxLogLen)),
	)

	return reply, nil
}
