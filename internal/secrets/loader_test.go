package secrets

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFromFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "token")
	if err := os.WriteFile(path, []byte("  gsk_secret\n"), 0o600); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	got, err := Load(Source{Name: "oracle api key", File: path})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got != "gsk_secret" {
		t.Fatalf("unexpected secret: %q", got)
	}
}

func TestLoadFileTakesPrecedence(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "token")
	if err := os.WriteFile(path, []byte("from-file"), 0o600); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	got, err := Load(Source{File: path, Value: "inline"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got != "from-file" {
		t.Fatalf("expected file to win, got %q", got)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("SCREENER_TEST_SECRET", "from-env")

	got, err := Load(Source{Name: "oracle api key", Env: "SCREENER_TEST_SECRET"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got != "from-env" {
		t.Fatalf("unexpected secret: %q", got)
	}
}

func TestLoadMissingEverywhere(t *testing.T) {
	t.Setenv("SCREENER_TEST_MISSING", "")

	_, err := Load(Source{Name: "oracle api key", Env: "SCREENER_TEST_MISSING"})
	if err == nil {
		t.Fatal("expected an error for an unresolvable secret")
	}
}

func TestLoadEmptyFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "token")
	if err := os.WriteFile(path, []byte("   \n"), 0o600); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	if _, err := Load(Source{File: path, Value: "inline"}); err == nil {
		t.Fatal("expected an error for an empty secret file")
	}
}
