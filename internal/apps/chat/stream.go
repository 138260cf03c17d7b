package chat

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/realtime"
	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/session"
	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/validate"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

const (
	streamUserKey = "chat_user"
	writeWait     = 10 * time.Second
	sendTimeout   = 15 * time.Second
)

// streamEvent is what the stream writes back for messages sent over the socket.
type streamEvent struct {
	Type    string `json:"type"`
	Message string `json:"message,omitempty"`
}

// Stream serves the chat websocket. The caller must already be authenticated
// by the JWT query middleware.
type Stream struct {
	hub     *realtime.Hub
	service *Service
}

func NewStream(hub *realtime.Hub, service *Service) *Stream {
	return &Stream{hub: hub, service: service}
}

// Upgrade rejects non-websocket requests and records the caller for Handler.
func (st *Stream) Upgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	userID, err := session.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: true, Message: "Unauthorized"})
	}
	c.Locals(streamUserKey, userID)
	return c.Next()
}

// Handler delivers every message sent to or by the caller while the socket
// is open. Clients may also send {receiver_id, message} frames. All writes
// happen on the handler goroutine.
func (st *Stream) Handler() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		userID, ok := conn.Locals(streamUserKey).(uuid.UUID)
		if !ok {
			_ = conn.Close()
			return
		}
		log := slog.With("component", "chat", "user_id", userID.String())

		client := st.hub.Subscribe(userID)
		log.Info("chat stream opened")

		events := make(chan streamEvent, 8)
		writerDone := make(chan struct{})
		readerDone := make(chan struct{})
		go func() {
			defer close(readerDone)
			defer st.hub.Unsubscribe(client)
			st.readLoop(conn, userID, events, writerDone, log)
		}()

	loop:
		for {
			var out interface{}
			select {
			case msg, ok := <-client.Outbound:
				if !ok {
					break loop
				}
				out = msg
			case ev := <-events:
				out = ev
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(out); err != nil {
				log.Debug("chat stream write failed", "error", err)
				break loop
			}
		}
		close(writerDone)
		st.hub.Unsubscribe(client)
		_ = conn.Close()
		<-readerDone
		log.Info("chat stream closed")
	})
}

func (st *Stream) readLoop(conn *websocket.Conn, userID uuid.UUID, events chan<- streamEvent, writerDone <-chan struct{}, log *slog.Logger) {
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Debug("chat stream read failed", "error", err)
			}
			return
		}

		var ev streamEvent
		var req SendRequest
		if err := json.Unmarshal(raw, &req); err != nil {
			ev = streamEvent{Type: "error", Message: "Invalid message format"}
		} else {
			ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
			_, err = st.service.Send(ctx, userID, req)
			cancel()
			if err == nil {
				continue
			}
			ev = streamEvent{Type: "error", Message: sendErrorMessage(err)}
		}

		select {
		case events <- ev:
		case <-writerDone:
			return
		}
	}
}

func sendErrorMessage(err error) string {
	var rejected *RejectedError
	switch {
	case errors.As(err, &rejected):
		return rejected.Message
	case validate.Is(err):
		return err.Error()
	case errors.Is(err, ErrNotContact):
		return "You can only message your matches."
	case errors.Is(err, ErrBlocked):
		return "You cannot message this user."
	}
	return "Failed to send message"
}
