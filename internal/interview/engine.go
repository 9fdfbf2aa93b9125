package interview

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/talentscout/screener/internal/ai"
	"github.com/talentscout/screener/internal/store"

	"go.uber.org/zap"
)

//go:embed prompt.md
var systemPrompt string

// EndMarker is the literal token the oracle appends to its reply when the
// screening should close.
const EndMarker = "[END]"

// DefaultTerminationPhrases close the session when a user turn matches one of
// them case-insensitively.
var DefaultTerminationPhrases = []string{"bye", "exit", "end", "that's all", "thank you"}

var (
	// ErrSessionEnded is returned for any user turn submitted after the
	// session reached its terminal state.
	ErrSessionEnded = errors.New("session has ended")
	// ErrOracleUnavailable wraps transport or API failures of the completion
	// call. The engine never retries on its own.
	ErrOracleUnavailable = errors.New("oracle unavailable")
)

// State is the interview phase. Transitions are monotonic; StateEnded is
// terminal.
type State int

const (
	StateInit State = iota
	StateCollectingInfo
	StateAwaitingStack
	StateAskingQuestions
	StateClosing
	StateEnded
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateCollectingInfo:
		return "collecting_info"
	case StateAwaitingStack:
		return "awaiting_stack"
	case StateAskingQuestions:
		return "asking_questions"
	case StateClosing:
		return "closing"
	case StateEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// QuestionSource resolves a declared tech stack into screening questions.
type QuestionSource interface {
	Generate(ctx context.Context, stack string) []string
}

// Recorder persists the screening outcome at termination.
type Recorder interface {
	SaveRecord(info store.CandidateInfo, responses []string, timestamp time.Time) string
	PersistTranscript(turns []store.ArtifactTurn, seed string) (string, error)
}

// Deps aggregates the engine's collaborators.
type Deps struct {
	Completer ai.Completer
	Questions QuestionSource
	Recorder  Recorder
	Logger    *zap.Logger
}

// Engine drives a single screening session: it owns the transcript, forwards
// the full history to the oracle on every turn, and walks the interview state
// machine. It is not safe for concurrent use; a session is strictly
// sequential.
type Engine struct {
	deps    Deps
	phrases []string

	state      State
	transcript []Turn
	candidate  candidateCollector
	stack      string
	questions  []string
	responses  []string

	artifactPath string
}

// New builds an engine for one session. A nil phrase list selects
// DefaultTerminationPhrases.
func New(deps Deps, phrases []string) *Engine {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	if len(phrases) == 0 {
		phrases = DefaultTerminationPhrases
	}

	normalized := make([]string, 0, len(phrases))
	for _, phrase := range phrases {
		phrase = strings.ToLower(strings.TrimSpace(phrase))
		if phrase != "" {
			normalized = append(normalized, phrase)
		}
	}

	return &Engine{
		deps:    deps,
		phrases: normalized,
		state:   StateInit,
	}
}

// Start creates the transcript with the system turn, requests the opening
// greeting from the oracle and returns the resulting transcript. A failed
// greeting is fatal for the session: the caller must not retry through this
// engine instance.
func (e *Engine) Start(ctx context.Context) ([]Turn, error) {
	if e.state != StateInit {
		return nil, fmt.Errorf("session already started (state %s)", e.state)
	}

	opening := []Turn{{Role: RoleSystem, Content: systemPrompt}}

	greeting, err := e.deps.Completer.Complete(ctx, messages(opening))
	if err != nil {
		return nil, fmt.Errorf("%w: generating greeting: %v", ErrOracleUnavailable, err)
	}

	e.transcript = append(opening, Turn{Role: RoleAssistant, Content: greeting})
	e.setState(StateCollectingInfo)

	return e.Transcript(), nil
}

// Submit appends a user turn, obtains the oracle's reply and advances the
// state machine. On oracle failure nothing is appended: the transcript stays
// valid and the user may retry the turn. After the session has ended every
// call fails with ErrSessionEnded and the transcript is left untouched.
func (e *Engine) Submit(ctx context.Context, text string) (Turn, error) {
	if e.state == StateEnded {
		return Turn{}, ErrSessionEnded
	}
	if e.state == StateInit {
		return Turn{}, errors.New("session not started")
	}

	userTurn := Turn{Role: RoleUser, Content: text}
	history := append(e.Transcript(), userTurn)

	reply, err := e.deps.Completer.Complete(ctx, messages(history))
	if err != nil {
		return Turn{}, fmt.Errorf("%w: %v", ErrOracleUnavailable, err)
	}

	assistantTurn := Turn{Role: RoleAssistant, Content: reply}
	e.transcript = append(e.transcript, userTurn, assistantTurn)

	e.advance(ctx, text, reply)

	return assistantTurn, nil
}

// Ended reports whether the session reached its terminal state.
func (e *Engine) Ended() bool {
	return e.state == StateEnded
}

func (e *Engine) State() State {
	return e.state
}

// Transcript returns a copy of the session transcript.
func (e *Engine) Transcript() []Turn {
	return append([]Turn(nil), e.transcript...)
}

// Questions returns the generated question set, empty before the stack
// declaration.
func (e *Engine) Questions() []string {
	return append([]string(nil), e.questions...)
}

// TechStack returns the accepted stack declaration, empty until the
// question set has been generated.
func (e *Engine) TechStack() string {
	return e.stack
}

// Candidate returns the info collected so far.
func (e *Engine) Candidate() store.CandidateInfo {
	return e.candidate.info
}

// ArtifactPath returns the persisted artifact location, empty until the
// session has ended.
func (e *Engine) ArtifactPath() string {
	return e.artifactPath
}

func (e *Engine) advance(ctx context.Context, userText, reply string) {
	if e.state != StateClosing && e.isTermination(userText) {
		e.setState(StateClosing)
	} else {
		switch e.state {
		case StateCollectingInfo:
			e.candidate.Absorb(userText)
			if e.candidate.Complete() {
				e.setState(StateAwaitingStack)
			}
		case StateAwaitingStack:
			generated := e.deps.Questions.Generate(ctx, userText)
			if len(generated) > 0 {
				e.stack = userText
				e.questions = generated
				e.setState(StateAskingQuestions)
				e.deps.Logger.Info("question set generated",
					zap.Int("count", len(generated)),
					zap.String("tech_stack", e.stack),
				)
			}
		case StateAskingQuestions:
			e.responses = append(e.responses, userText)
			if len(e.responses) >= len(e.questions) {
				e.setState(StateClosing)
			}
		}
	}

	if e.state == StateClosing && strings.Contains(reply, EndMarker) {
		e.finish(userText)
	}
}

// finish makes the session terminal and persists the outcome. The artifact
// seed is the triggering user message, so the artifact name depends on what
// the candidate said last.
func (e *Engine) finish(seed string) {
	e.setState(StateEnded)

	if e.deps.Recorder == nil {
		return
	}

	id := e.deps.Recorder.SaveRecord(e.candidate.info, e.responses, time.Now())
	e.deps.Logger.Info("candidate record saved", zap.String("candidate_id", id))

	path, err := e.deps.Recorder.PersistTranscript(artifact(e.transcript), seed)
	if err != nil {
		e.deps.Logger.Error("persisting transcript artifact", zap.Error(err))
		return
	}

	e.artifactPath = path
	e.deps.Logger.Info("anonymized transcript persisted", zap.String("path", path))
}

func (e *Engine) isTermination(text string) bool {
	normalized := strings.ToLower(strings.TrimSpace(text))
	normalized = strings.TrimRight(normalized, ".!?, ")
	for _, phrase := range e.phrases {
		if normalized == phrase {
			return true
		}
	}
	return false
}

func (e *Engine) setState(next State) {
	if e.state == next {
		return
	}
	e.deps.Logger.Debug("state transition",
		zap.String("from", e.state.String()),
		zap.String("to", next.String()),
	)
	e.state = next
}
