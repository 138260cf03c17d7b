package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/profile"
	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/realtime"
	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/validate"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrNotContact = errors.New("receiver is not a contact")
	ErrBlocked    = errors.New("sender is blocked by receiver")
)

const (
	maxMessageLen   = 4000
	defaultPageSize = 100
	maxPageSize     = 500
)

// RejectedError is returned when the content filter refuses a message.
type RejectedError struct {
	Reason  string
	Message string
}

func (e *RejectedError) Error() string { return "message rejected: " + e.Reason }

// Moderator is the subset of the moderation service chat depends on.
type Moderator interface {
	FilterContent(text string) (bool, string)
	GetRejectionMessage(reason string) string
	IsBlocked(ctx context.Context, recipient, sender uuid.UUID) (bool, error)
}

type SendRequest struct {
	ReceiverID uuid.UUID `json:"receiver_id"`
	Message    string    `json:"message"`
	Attachment string    `json:"attachment"`
}

// Contact is a user the caller can chat with.
type Contact struct {
	profile.Card
	MatchID    uuid.UUID `json:"match_id"`
	IsApproved bool      `json:"is_approved"`
}

type Service struct {
	db          *gorm.DB
	mod         Moderator
	bus         realtime.Bus
	concurrency int
}

func NewService(db *gorm.DB, mod Moderator, bus realtime.Bus, concurrency int) *Service {
	return &Service{db: db, mod: mod, bus: bus, concurrency: concurrency}
}

// Send stores a message and publishes it to live subscribers. Publishing is
// best effort; the stored message is returned either way.
func (s *Service) Send(ctx context.Context, senderID uuid.UUID, req SendRequest) (*models.ChatMessage, error) {
	text := strings.TrimSpace(req.Message)
	if text == "" && req.Attachment == "" {
		return nil, validate.Errorf("Message cannot be empty.")
	}
	if len(text) > maxMessageLen {
		return nil, validate.Errorf("Message must be at most %d characters.", maxMessageLen)
	}
	if req.ReceiverID == uuid.Nil || req.ReceiverID == senderID {
		return nil, validate.Errorf("Choose someone to message.")
	}
	if text != "" {
		if ok, reason := s.mod.FilterContent(text); !ok {
			return nil, &RejectedError{Reason: reason, Message: s.mod.GetRejectionMessage(reason)}
		}
	}

	connected, err := s.connected(ctx, senderID, req.ReceiverID)
	if err != nil {
		return nil, err
	}
	if !connected {
		return nil, ErrNotContact
	}
	blocked, err := s.mod.IsBlocked(ctx, req.ReceiverID, senderID)
	if err != nil {
		return nil, err
	}
	if blocked {
		return nil, ErrBlocked
	}

	msg := models.ChatMessage{
		ID:         uuid.New(),
		RoomKey:    models.RoomKey(senderID, req.ReceiverID),
		SenderID:   senderID,
		ReceiverID: req.ReceiverID,
		Message:    text,
		Attachment: req.Attachment,
	}
	if err := s.db.WithContext(ctx).Create(&msg).Error; err != nil {
		return nil, fmt.Errorf("save message: %w", err)
	}
	if err := s.bus.Publish(ctx, msg); err != nil {
		slog.Warn("chat publish failed", "component", "chat", "message_id", msg.ID.String(), "error", err)
	}
	return &msg, nil
}

// History returns the conversation between a and b in send order. It reads
// every room key the conversation may have been stored under.
func (s *Service) History(ctx context.Context, a, b uuid.UUID, limit int) ([]models.ChatMessage, error) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	var latest []models.ChatMessage
	err := s.db.WithContext(ctx).
		Where("room_key IN ?", models.RoomKeys(a, b)).
		Order("created_at DESC").
		Limit(limit).
		Find(&latest).Error
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(latest)-1; i < j; i, j = i+1, j-1 {
		latest[i], latest[j] = latest[j], latest[i]
	}
	return latest, nil
}

// Contacts lists the users connected to userID through a match.
func (s *Service) Contacts(ctx context.Context, userID uuid.UUID) ([]Contact, error) {
	var matches []models.Match
	err := s.db.WithContext(ctx).
		Where("mentee_id = ? OR mentor_id = ?", userID, userID).
		Order("created_at").
		Find(&matches).Error
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, len(matches))
	roles := make([]models.Role, len(matches))
	for i, m := range matches {
		ids[i], roles[i] = m.MentorID, models.RoleMentor
		if m.MentorID == userID {
			ids[i], roles[i] = m.MenteeID, models.RoleMentee
		}
	}
	cards, err := profile.Cards(ctx, s.db, ids, s.concurrency)
	if err != nil {
		return nil, err
	}

	out := make([]Contact, len(matches))
	for i, m := range matches {
		cards[i].Role = roles[i]
		out[i] = Contact{Card: cards[i], MatchID: m.ID, IsApproved: m.IsApproved}
	}
	return out, nil
}

func (s *Service) connected(ctx context.Context, a, b uuid.UUID) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Match{}).
		Where("(mentee_id = ? AND mentor_id = ?) OR (mentee_id = ? AND mentor_id = ?)", a, b, b, a).
		Count(&n).Error
	return n > 0, err
}
