package questions

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"
)

const (
	// MaxQuestions bounds every generated question set.
	MaxQuestions = 5
	// perTechLimit caps fallback-bank questions taken per matched technology.
	perTechLimit = 3

	endpointTimeout = 5 * time.Second

	// GenericFallback is returned when neither the endpoint nor the bank
	// produce anything for the declared stack.
	GenericFallback = "Please describe your experience with the specified tech stack."
)

// Source resolves a declared tech stack into a bounded list of screening
// questions, preferring the remote generation endpoint and falling back to
// the static bank.
type Source struct {
	endpoint string
	apiKey   string
	bank     Bank
	logger   *zap.Logger

	// HTTPClient can be swapped in tests. The default enforces the 5 second
	// endpoint timeout.
	HTTPClient *http.Client
}

// NewSource builds a Source. Endpoint and apiKey may be empty, in which case
// only the fallback bank is consulted. A nil bank falls back to DefaultBank.
func NewSource(endpoint, apiKey string, bank Bank, logger *zap.Logger) *Source {
	if bank == nil {
		bank = DefaultBank
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &Source{
		endpoint: strings.TrimSpace(endpoint),
		apiKey:   strings.TrimSpace(apiKey),
		bank:     bank,
		logger:   logger,
		HTTPClient: &http.Client{
			Timeout: endpointTimeout,
		},
	}
}

// ParseStack splits a free-text declaration on commas into lowercase trimmed
// tokens, dropping empties.
func ParseStack(stack string) []string {
	parts := strings.Split(stack, ",")
	techs := make([]string, 0, len(parts))
	for _, part := range parts {
		tech := strings.ToLower(strings.TrimSpace(part))
		if tech == "" {
			continue
		}
		techs = append(techs, tech)
	}
	return techs
}

// Generate returns between 1 and MaxQuestions questions for the declared
// stack. Remote endpoint failures are soft: they are logged and downgrade to
// the fallback bank, never surfaced to the caller.
func (s *Source) Generate(ctx context.Context, stack string) []string {
	techs := ParseStack(stack)

	if s.endpoint != "" && s.apiKey != "" {
		generated, err := s.fetchRemote(ctx, techs)
		if err != nil {
			s.logger.Warn("question endpoint failed, using fallback bank", zap.Error(err))
		} else if len(generated) > 0 {
			return truncate(generated)
		} else {
			s.logger.Warn("question endpoint returned no questions, using fallback bank")
		}
	}

	var result []string
	for _, tech := range techs {
		bankQuestions, ok := s.bank[tech]
		if !ok {
			continue
		}
		limit := perTechLimit
		if len(bankQuestions) < limit {
			limit = len(bankQuestions)
		}
		result = append(result, bankQuestions[:limit]...)
	}

	if len(result) == 0 {
		result = append(result, GenericFallback)
	}

	return truncate(result)
}

type generateRequest struct {
	TechStack    []string `json:"tech_stack"`
	NumQuestions int      `json:"num_questions"`
}

type generateResponse struct {
	Questions []string `mapstructure:"questions"`
}

func (s *Source) fetchRemote(ctx context.Context, techs []string) ([]string, error) {
	body, err := json.Marshal(generateRequest{
		TechStack:    techs,
		NumQuestions: MaxQuestions,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal generation request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bad status: %s", resp.Status)
	}

	var raw map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode generation response: %w", err)
	}

	var parsed generateResponse
	if err := mapstructure.Decode(raw, &parsed); err != nil {
		return nil, fmt.Errorf("parse generation response: %w", err)
	}

	return parsed.Questions, nil
}

func truncate(questions []string) []string {
	if len(questions) > MaxQuestions {
		return questions[:MaxQuestions]
	}
	return questions
}
