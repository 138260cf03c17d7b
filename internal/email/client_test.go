package email

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/config"
)

func TestSend(t *testing.T) {
	var got sendRequest
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(&config.Config{EmailAPIURL: srv.URL, EmailAPIKey: "re_key", EmailFrom: "MentorConnect <no-reply@mentorconnect.com>"})
	defer c.Close()

	err := c.Send(context.Background(), Message{To: []string{"a@example.com"}, Subject: "New Meeting Scheduled: Career", HTML: "<p>hi</p>"})
	if err != nil {
		t.Fatal(err)
	}
	if auth != "Bearer re_key" || got.From != "MentorConnect <no-reply@mentorconnect.com>" || got.Subject != "New Meeting Scheduled: Career" {
		t.Fatalf("auth=%q body=%+v", auth, got)
	}
}

func TestSendWithoutKeyIsNoop(t *testing.T) {
	c := NewClient(&config.Config{EmailAPIURL: "http://127.0.0.1:1"})
	if c.Enabled() {
		t.Fatal("expected disabled client")
	}
	if err := c.Send(context.Background(), Message{Subject: "x"}); err != nil {
		t.Fatalf("got %v", err)
	}
}
