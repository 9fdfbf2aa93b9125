package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/talentscout/screener/internal/ai"

	"go.uber.org/zap"
)

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()

	client, err := New("test-key", baseURL, "llama3-8b-8192", zap.NewNop())
	if err != nil {
		t.Fatalf("creating client: %v", err)
	}
	return client
}

func TestCompleteSendsFullHistory(t *testing.T) {
	t.Parallel()

	var got chatCompletionsRequest
	var auth string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": "Hello, I am TalentScout Bot."}},
			},
		})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	history := []ai.Message{
		{Role: ai.RoleSystem, Content: "You are a hiring assistant."},
		{Role: ai.RoleUser, Content: "Hi"},
	}

	reply, err := client.Complete(context.Background(), history)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if reply != "Hello, I am TalentScout Bot." {
		t.Fatalf("unexpected reply: %q", reply)
	}
	if auth != "Bearer test-key" {
		t.Fatalf("unexpected authorization header: %q", auth)
	}
	if got.Model != "llama3-8b-8192" {
		t.Fatalf("unexpected model: %q", got.Model)
	}
	if len(got.Messages) != 2 || got.Messages[0].Role != ai.RoleSystem {
		t.Fatalf("expected full history starting with system turn, got %+v", got.Messages)
	}
}

func TestCompleteErrorOnBadStatus(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	_, err := client.Complete(context.Background(), []ai.Message{{Role: ai.RoleUser, Content: "Hi"}})
	if err == nil {
		t.Fatal("expected an error for a non-200 status")
	}
}

func TestCompleteErrorOnEmptyChoices(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	_, err := client.Complete(context.Background(), []ai.Message{{Role: ai.RoleUser, Content: "Hi"}})
	if err == nil {
		t.Fatal("expected an error when no choices returned")
	}
}

func TestNewRequiresAPIKey(t *testing.T) {
	t.Parallel()

	if _, err := New("", "", "", zap.NewNop()); err == nil {
		t.Fatal("expected an error for a missing api key")
	}
}

func TestCompleteRejectsEmptyHistory(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, "http://127.0.0.1:0")
	if _, err := client.Complete(context.Background(), nil); err == nil {
		t.Fatal("expected an error for an empty history")
	}
}
