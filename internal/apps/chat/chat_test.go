package chat

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/realtime"
	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/testutil"
	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/testutil/apptest"
	wsclient "github.com/fasthttp/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const testSecret = "chat-secret"

type pair struct {
	mentor, mentee uuid.UUID
}

func matched(t *testing.T, db *gorm.DB) pair {
	t.Helper()
	p := pair{mentor: testutil.User(t, db, models.RoleMentor), mentee: testutil.User(t, db, models.RoleMentee)}
	testutil.PersonalInfo(t, db, p.mentor, "Ann", "Mentor")
	testutil.PersonalInfo(t, db, p.mentee, "Mia", "Mentee")
	m := models.Match{ID: uuid.New(), MenteeID: p.mentee, MentorID: p.mentor, Score: 80, IsApproved: true}
	if err := db.Create(&m).Error; err != nil {
		t.Fatal(err)
	}
	return p
}

func newService(db *gorm.DB, hub *realtime.Hub) *Service {
	return NewService(db, services.NewModerationService(db), hub, 2)
}

func TestHistoryReadableFromEitherSide(t *testing.T) {
	db := testutil.DB(t)
	svc := newService(db, realtime.NewHub())
	ctx := context.Background()
	p := matched(t, db)

	if _, err := svc.Send(ctx, p.mentee, SendRequest{ReceiverID: p.mentor, Message: "Hello, can we meet?"}); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Send(ctx, p.mentor, SendRequest{ReceiverID: p.mentee, Message: "Sure, Tuesday works."}); err != nil {
		t.Fatal(err)
	}

	for _, side := range [][2]uuid.UUID{{p.mentee, p.mentor}, {p.mentor, p.mentee}} {
		msgs, err := svc.History(ctx, side[0], side[1], 0)
		if err != nil {
			t.Fatal(err)
		}
		if len(msgs) != 2 || msgs[0].Message != "Hello, can we meet?" || msgs[1].SenderID != p.mentor {
			t.Fatalf("history = %+v", msgs)
		}
	}
}

func TestHistoryReadsLegacyRoomKeys(t *testing.T) {
	db := testutil.DB(t)
	svc := newService(db, realtime.NewHub())
	p := matched(t, db)

	legacy := models.ChatMessage{
		ID: uuid.New(), RoomKey: p.mentee.String() + p.mentor.String(),
		SenderID: p.mentee, ReceiverID: p.mentor, Message: "old message",
	}
	canonical := models.RoomKey(p.mentor, p.mentee)
	if legacy.RoomKey == canonical {
		legacy.RoomKey = p.mentor.String() + p.mentee.String()
		legacy.SenderID, legacy.ReceiverID = p.mentor, p.mentee
	}
	if err := db.Create(&legacy).Error; err != nil {
		t.Fatal(err)
	}

	msgs, err := svc.History(context.Background(), p.mentee, p.mentor, 10)
	if err != nil || len(msgs) != 1 || msgs[0].Message != "old message" {
		t.Fatalf("history = %+v, %v", msgs, err)
	}
}

func TestSendRules(t *testing.T) {
	db := testutil.DB(t)
	svc := newService(db, realtime.NewHub())
	ctx := context.Background()
	p := matched(t, db)
	stranger := testutil.User(t, db, models.RoleMentor)

	var rejected *RejectedError
	if _, err := svc.Send(ctx, p.mentee, SendRequest{ReceiverID: p.mentor, Message: "this is a scam"}); !errors.As(err, &rejected) {
		t.Fatalf("banned word: %v", err)
	}
	if _, err := svc.Send(ctx, p.mentee, SendRequest{ReceiverID: p.mentor, Message: "   "}); err == nil {
		t.Fatal("empty message accepted")
	}
	if _, err := svc.Send(ctx, p.mentee, SendRequest{ReceiverID: stranger, Message: "hi"}); !errors.Is(err, ErrNotContact) {
		t.Fatalf("stranger: %v", err)
	}

	if err := services.NewModerationService(db).BlockUser(ctx, p.mentor, p.mentee); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Send(ctx, p.mentee, SendRequest{ReceiverID: p.mentor, Message: "hi"}); !errors.Is(err, ErrBlocked) {
		t.Fatalf("blocked: %v", err)
	}
	if _, err := svc.Send(ctx, p.mentor, SendRequest{ReceiverID: p.mentee, Message: "hi"}); err != nil {
		t.Fatalf("blocker can still write: %v", err)
	}
}

func TestSendPublishesToHub(t *testing.T) {
	db := testutil.DB(t)
	hub := realtime.NewHub()
	svc := newService(db, hub)
	p := matched(t, db)

	sub := hub.Subscribe(p.mentor)
	defer hub.Unsubscribe(sub)

	sent, err := svc.Send(context.Background(), p.mentee, SendRequest{ReceiverID: p.mentor, Message: "ping"})
	if err != nil {
		t.Fatal(err)
	}
	select {
	case got := <-sub.Outbound:
		if got.ID != sent.ID {
			t.Fatalf("got %+v", got)
		}
	case <-time.After(time.Second):
		t.Fatal("message not delivered to subscriber")
	}
}

func TestContactsOverHTTP(t *testing.T) {
	db := testutil.DB(t)
	hub := realtime.NewHub()
	plugin := New(services.NewModerationService(db), hub, nil)
	app := apptest.New(t, db, func(r fiber.Router) { plugin.RegisterRoutes(r, db, &config.Config{}) })
	p := matched(t, db)

	var contacts []Contact
	if code := apptest.Do(t, app, http.MethodGet, "/api/p/chat/contacts", p.mentee, nil, &contacts); code != fiber.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if len(contacts) != 1 || contacts[0].ID != p.mentor || contacts[0].Role != models.RoleMentor || contacts[0].FirstName != "Ann" {
		t.Fatalf("contacts = %+v", contacts)
	}

	var e apptest.ErrorBody
	code := apptest.Do(t, app, http.MethodPost, "/api/p/chat/messages", p.mentee,
		SendRequest{ReceiverID: p.mentor, Message: "what the fuck"}, &e)
	if code != fiber.StatusBadRequest || e.Message == "" {
		t.Fatalf("filtered message: %d %+v", code, e)
	}
}

func token(t *testing.T, userID uuid.UUID) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": userID.String(),
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	s, err := tok.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestStreamDeliversMessages(t *testing.T) {
	db := testutil.DB(t)
	cfg := &config.Config{JWTSecret: testSecret}
	hub := realtime.NewHub()
	plugin := New(services.NewModerationService(db), hub, nil)
	p := matched(t, db)

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	plugin.RegisterStream(app.Group("/api/ws"), db, cfg)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	go func() { _ = app.Listener(ln) }()
	defer func() { _ = app.Shutdown() }()

	url := "ws://" + ln.Addr().String() + "/api/ws/chat?token=" + token(t, p.mentor)
	conn, _, err := wsclient.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for hub.Len() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}

	sent, err := plugin.serviceFor(db, cfg).Send(context.Background(), p.mentee,
		SendRequest{ReceiverID: p.mentor, Message: "Are you free tomorrow?"})
	if err != nil {
		t.Fatal(err)
	}

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got models.ChatMessage
	if err := conn.ReadJSON(&got); err != nil {
		t.Fatalf("read: %v", err)
	}
	if got.ID != sent.ID || got.Message != "Are you free tomorrow?" {
		t.Fatalf("got %+v", got)
	}

	if err := conn.WriteJSON(SendRequest{ReceiverID: uuid.New(), Message: "hi"}); err != nil {
		t.Fatal(err)
	}
	var ev streamEvent
	if err := conn.ReadJSON(&ev); err != nil {
		t.Fatalf("read event: %v", err)
	}
	if ev.Type != "error" || ev.Message != "You can only message your matches." {
		t.Fatalf("event = %+v", ev)
	}
}

func TestStreamRejectsMissingToken(t *testing.T) {
	db := testutil.DB(t)
	plugin := New(services.NewModerationService(db), realtime.NewHub(), nil)
	app := fiber.New()
	plugin.RegisterStream(app.Group("/api/ws"), db, &config.Config{JWTSecret: testSecret})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/ws/chat", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}
