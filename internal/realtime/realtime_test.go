package realtime

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/models"
	"github.com/google/uuid"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func recv(t *testing.T, ch <-chan models.ChatMessage, timeout time.Duration) models.ChatMessage {
	t.Helper()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(timeout):
		t.Fatal("timed out waiting for chat message")
	}
	return models.ChatMessage{}
}

func TestHubDeliversToParticipantsOnly(t *testing.T) {
	hub := NewHub()
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	subA, subB, subC := hub.Subscribe(a), hub.Subscribe(b), hub.Subscribe(c)
	defer hub.Unsubscribe(subA)
	defer hub.Unsubscribe(subB)
	defer hub.Unsubscribe(subC)

	msg := models.ChatMessage{ID: uuid.New(), SenderID: a, ReceiverID: b, Message: "hi"}
	if err := hub.Publish(context.Background(), msg); err != nil {
		t.Fatal(err)
	}

	if got := recv(t, subA.Outbound, time.Second); got.ID != msg.ID {
		t.Fatalf("sender got %v", got.ID)
	}
	if got := recv(t, subB.Outbound, time.Second); got.ID != msg.ID {
		t.Fatalf("receiver got %v", got.ID)
	}
	select {
	case <-subC.Outbound:
		t.Fatal("bystander received a message")
	default:
	}
}

func TestHubUnsubscribeClosesOutbound(t *testing.T) {
	hub := NewHub()
	sub := hub.Subscribe(uuid.New())
	hub.Unsubscribe(sub)
	hub.Unsubscribe(sub)

	if _, ok := <-sub.Outbound; ok {
		t.Fatal("outbound should be closed")
	}
	if hub.Len() != 0 {
		t.Fatalf("hub still holds %d clients", hub.Len())
	}
}

func TestHubDropsForSlowSubscriber(t *testing.T) {
	hub := NewHub()
	a := uuid.New()
	sub := hub.Subscribe(a)
	defer hub.Unsubscribe(sub)

	for i := 0; i < outboundBuffer+5; i++ {
		hub.Broadcast(models.ChatMessage{SenderID: a})
	}
	if len(sub.Outbound) != outboundBuffer {
		t.Fatalf("buffered %d messages", len(sub.Outbound))
	}
}

func TestRedisBusRoundTrip(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	bus, err := NewRedisBus(ctx, addr, "", "chat-test-"+uuid.NewString())
	if err != nil {
		t.Fatal(err)
	}
	defer bus.Close()

	hub := NewHub()
	a, b := uuid.New(), uuid.New()
	sub := hub.Subscribe(b)
	defer hub.Unsubscribe(sub)

	done, err := bus.StartForwarder(ctx, hub.Broadcast)
	if err != nil {
		t.Fatal(err)
	}

	msg := models.ChatMessage{ID: uuid.New(), SenderID: a, ReceiverID: b, Message: "over redis"}
	if err := bus.Publish(ctx, msg); err != nil {
		t.Fatal(err)
	}
	if got := recv(t, sub.Outbound, 5*time.Second); got.Message != "over redis" {
		t.Fatalf("got %+v", got)
	}

	cancel()
	<-done
}
