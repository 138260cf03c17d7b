package meeting

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/config"
)

func TestSchedule(t *testing.T) {
	var got Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(Meeting{
			Topic: got.Topic, StartTime: got.StartTime, Duration: got.Duration,
			JoinURL: "https://meet.example/j/1", StartURL: "https://meet.example/s/1", Password: "pw",
		})
	}))
	defer srv.Close()

	c := NewClient(&config.Config{MeetingAPIURL: srv.URL})
	defer c.Close()

	m, err := c.Schedule(context.Background(), Request{
		Topic: "Career", Agenda: "Talk about careers", StartTime: "2025-01-02T10:30:00+03:00", Duration: 45, Timezone: "Africa/Nairobi",
	})
	if err != nil {
		t.Fatal(err)
	}
	if m.JoinURL == "" || m.Password != "pw" {
		t.Fatalf("meeting = %+v", m)
	}
	if got.Timezone != "Africa/Nairobi" || got.Duration != 45 {
		t.Fatalf("request = %+v", got)
	}
}

func TestScheduleErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(&config.Config{MeetingAPIURL: srv.URL})
	defer c.Close()
	if _, err := c.Schedule(context.Background(), Request{Topic: "x"}); err == nil {
		t.Fatal("expected error on 500")
	}

	unset := NewClient(&config.Config{})
	if _, err := unset.Schedule(context.Background(), Request{}); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("got %v", err)
	}
}
