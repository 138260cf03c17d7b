package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
	t.Setenv("MEETING_TIMEZONE", "")
	t.Setenv("AI_CONCURRENCY", "")

	cfg := Load()

	if cfg.MeetingTimezone != "Africa/Nairobi" {
		t.Fatalf("timezone = %q", cfg.MeetingTimezone)
	}
	if cfg.AIConcurrency != 4 {
		t.Fatalf("ai concurrency = %d", cfg.AIConcurrency)
	}
	if cfg.JWTAccessExpiry != 15*time.Minute {
		t.Fatalf("access expiry = %v", cfg.JWTAccessExpiry)
	}
	if cfg.EmailFrom != "MentorConnect <no-reply@mentorconnect.com>" {
		t.Fatalf("email from = %q", cfg.EmailFrom)
	}
}

func TestLoadReadsEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(path, []byte("RAG_URL=http://rag.local\nAI_TIMEOUT=5s\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("ENV_FILE", path)
	t.Setenv("RAG_URL", "")
	t.Setenv("AI_TIMEOUT", "")
	os.Unsetenv("RAG_URL")
	os.Unsetenv("AI_TIMEOUT")

	cfg := Load()

	if cfg.RAGURL != "http://rag.local" {
		t.Fatalf("rag url = %q", cfg.RAGURL)
	}
	if cfg.AITimeout != 5*time.Second {
		t.Fatalf("ai timeout = %v", cfg.AITimeout)
	}
}

func TestParseDurationFallback(t *testing.T) {
	if got := parseDuration("nope", time.Minute); got != time.Minute {
		t.Fatalf("got %v", got)
	}
}
