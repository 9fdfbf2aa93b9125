package interview

import (
	"github.com/talentscout/screener/internal/ai"
	"github.com/talentscout/screener/internal/store"
)

const (
	RoleSystem    = ai.RoleSystem
	RoleUser      = ai.RoleUser
	RoleAssistant = ai.RoleAssistant
)

// Turn is one message in the transcript. Turns are immutable once appended
// and their order is significant.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// messages converts a transcript into the oracle wire shape.
func messages(turns []Turn) []ai.Message {
	out := make([]ai.Message, len(turns))
	for i, turn := range turns {
		out[i] = ai.Message{Role: turn.Role, Content: turn.Content}
	}
	return out
}

// artifact converts a transcript into the persistable shape.
func artifact(turns []Turn) []store.ArtifactTurn {
	out := make([]store.ArtifactTurn, len(turns))
	for i, turn := range turns {
		out[i] = store.ArtifactTurn{Role: turn.Role, Content: turn.Content}
	}
	return out
}
