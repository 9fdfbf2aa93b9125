package store

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/talentscout/screener/internal/validate"
)

const (
	// DefaultDir is where anonymized session artifacts are written.
	DefaultDir = "candidates"

	sensitivePhrase   = "personal info"
	redactedSentinel  = "[ANONYMIZED]"
	artifactIDLength  = 10
	artifactExtension = ".json"
)

// CandidateInfo holds the details gathered during the screening.
type CandidateInfo struct {
	FullName        string `json:"full_name"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	YearsExperience string `json:"years_experience"`
	DesiredPosition string `json:"desired_position"`
	Location        string `json:"location,omitempty"`
}

// Record is a single candidate's screening result, keyed in the store by a
// hash of the candidate email.
type Record struct {
	Info      CandidateInfo `json:"info"`
	Responses []string      `json:"responses"`
	Timestamp string        `json:"timestamp"`
}

// ArtifactTurn is one transcript entry in the persisted artifact.
type ArtifactTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Store keeps screening records in a process-wide map and writes anonymized
// transcript artifacts to disk. All map access goes through a single mutex:
// last write wins for a given candidate.
type Store struct {
	mu      sync.Mutex
	records map[string]Record
	dir     string
}

func New(dir string) *Store {
	if strings.TrimSpace(dir) == "" {
		dir = DefaultDir
	}

	return &Store{
		records: make(map[string]Record),
		dir:     dir,
	}
}

// SaveRecord upserts the candidate's record keyed by a hash of the email.
// Later saves with the same email overwrite.
func (s *Store) SaveRecord(info CandidateInfo, responses []string, timestamp time.Time) string {
	id := candidateID(info.Email)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[id] = Record{
		Info:      info,
		Responses: append([]string(nil), responses...),
		Timestamp: timestamp.Format(time.RFC3339),
	}

	return id
}

// Get returns the stored record for the given candidate id.
func (s *Store) Get(id string) (Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[id]
	return record, ok
}

// Len returns the number of stored records.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.records)
}

// PersistTranscript writes the anonymized transcript as a JSON artifact and
// returns the file path. The artifact name derives from a hash of the seed
// value, so distinct seeds produce distinct files. Literal occurrences of
// "personal info" in user turns are replaced with the [ANONYMIZED] sentinel;
// system and assistant turns are written unmodified.
func (s *Store) PersistTranscript(turns []ArtifactTurn, seed string) (string, error) {
	anonymized := Anonymize(turns)

	data, err := json.Marshal(anonymized)
	if err != nil {
		return "", fmt.Errorf("marshal transcript artifact: %w", err)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create artifact directory %q: %w", s.dir, err)
	}

	id := validate.HashSensitive(seed)[:artifactIDLength]
	path := filepath.Join(s.dir, "candidate_"+id+artifactExtension)

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write transcript artifact: %w", err)
	}

	return path, nil
}

// Anonymize returns a copy of the transcript with the sensitive phrase
// redacted from user turns only. This is a narrow literal replacement, not a
// general PII filter.
func Anonymize(turns []ArtifactTurn) []ArtifactTurn {
	out := make([]ArtifactTurn, len(turns))
	for i, turn := range turns {
		content := turn.Content
		if turn.Role == "user" {
			content = strings.ReplaceAll(content, sensitivePhrase, redactedSentinel)
		}
		out[i] = ArtifactTurn{Role: turn.Role, Content: content}
	}
	return out
}

func candidateID(email string) string {
	sum := md5.Sum([]byte(email))
	return hex.EncodeToString(sum[:])
}
