package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

func testInfo(email string) CandidateInfo {
	return CandidateInfo{
		FullName:        "Jane Doe",
		Email:           email,
		Phone:           "+15551234567",
		YearsExperience: "5",
		DesiredPosition: "software engineer",
	}
}

func TestSaveRecordUpsertsByEmail(t *testing.T) {
	t.Parallel()

	s := New(t.TempDir())

	first := s.SaveRecord(testInfo("jane@example.com"), []string{"answer one"}, time.Now())
	second := s.SaveRecord(testInfo("jane@example.com"), []string{"answer two"}, time.Now())

	if first != second {
		t.Fatalf("expected the same candidate id for the same email, got %q and %q", first, second)
	}
	if s.Len() != 1 {
		t.Fatalf("expected 1 record after upsert, got %d", s.Len())
	}

	record, ok := s.Get(first)
	if !ok {
		t.Fatal("expected the record to be retrievable")
	}
	if len(record.Responses) != 1 || record.Responses[0] != "answer two" {
		t.Fatalf("expected last write to win, got %v", record.Responses)
	}
	if record.Timestamp == "" {
		t.Fatal("expected a timestamp on the record")
	}
}

func TestSaveRecordConcurrent(t *testing.T) {
	t.Parallel()

	s := New(t.TempDir())

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.SaveRecord(testInfo("jane@example.com"), []string{"answer"}, time.Now())
		}()
	}
	wg.Wait()

	if s.Len() != 1 {
		t.Fatalf("expected 1 record, got %d", s.Len())
	}
}

func TestPersistTranscriptRedactsUserTurnsOnly(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	s := New(dir)

	turns := []ArtifactTurn{
		{Role: "system", Content: "Keep personal info confidential."},
		{Role: "user", Content: "Here is my personal info: jane@example.com"},
		{Role: "assistant", Content: "Thanks for sharing your personal info."},
	}

	path, err := s.PersistTranscript(turns, "thank you")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading artifact: %v", err)
	}

	var persisted []ArtifactTurn
	if err := json.Unmarshal(data, &persisted); err != nil {
		t.Fatalf("unmarshal artifact: %v", err)
	}

	if len(persisted) != len(turns) {
		t.Fatalf("expected %d turns, got %d", len(turns), len(persisted))
	}
	if !strings.Contains(persisted[1].Content, "[ANONYMIZED]") {
		t.Fatalf("expected user turn redacted, got %q", persisted[1].Content)
	}
	if strings.Contains(persisted[1].Content, "personal info") {
		t.Fatalf("sensitive phrase survived in user turn: %q", persisted[1].Content)
	}
	if persisted[0].Content != turns[0].Content || persisted[2].Content != turns[2].Content {
		t.Fatal("system and assistant turns must be written unmodified")
	}
}

// The artifact name is seeded by the triggering user message, so different
// closing messages from the same candidate produce different files.
func TestPersistTranscriptSeedDependent(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	s := New(dir)

	turns := []ArtifactTurn{{Role: "user", Content: "bye"}}

	first, err := s.PersistTranscript(turns, "bye")
	if err != nil {
		t.Fatalf("persist: %v", err)
	}
	second, err := s.PersistTranscript(turns, "thank you")
	if err != nil {
		t.Fatalf("persist: %v", err)
	}

	if first == second {
		t.Fatalf("expected seed-dependent file names, both were %q", first)
	}

	base := filepath.Base(first)
	if !strings.HasPrefix(base, "candidate_") || !strings.HasSuffix(base, ".json") {
		t.Fatalf("unexpected artifact name: %q", base)
	}
	// candidate_ + 10 hex chars + .json
	if len(base) != len("candidate_")+10+len(".json") {
		t.Fatalf("expected a 10-char id in %q", base)
	}
}

func TestNewDefaultsDirectory(t *testing.T) {
	t.Parallel()

	s := New("  ")
	if s.dir != DefaultDir {
		t.Fatalf("expected default directory %q, got %q", DefaultDir, s.dir)
	}
}
