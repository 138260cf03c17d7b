package sessions

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/email"
	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/meeting"
	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/session"
	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/validate"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var ErrDuplicateSession = errors.New("session already booked for this slot")

type Scheduler interface {
	Schedule(ctx context.Context, req meeting.Request) (*meeting.Meeting, error)
}

type Mailer interface {
	Send(ctx context.Context, msg email.Message) error
}

// BatchResult is the outcome of a scheduling request. Attempts holds one
// entry per mentee that was tried; mentees after the first failure are
// listed in Skipped.
type BatchResult struct {
	BatchID   uuid.UUID                `json:"batch_id"`
	Scheduled int                      `json:"scheduled"`
	Failed    bool                     `json:"failed"`
	Attempts  []models.ScheduleAttempt `json:"attempts"`
	Sessions  []models.MentorSession   `json:"sessions"`
	Skipped   []uuid.UUID              `json:"skipped"`
}

type Service struct {
	db       *gorm.DB
	meetings Scheduler
	mail     Mailer
	timezone string
}

func NewService(db *gorm.DB, meetings Scheduler, mail Mailer, timezone string) *Service {
	return &Service{db: db, meetings: meetings, mail: mail, timezone: timezone}
}

// Schedule books the meeting for each mentee in order. A failure stops the
// batch; sessions already booked are kept.
func (s *Service) Schedule(ctx context.Context, mentorID uuid.UUID, req ScheduleRequest) (*BatchResult, error) {
	sl, err := parseSlot(req, s.timezone)
	if err != nil {
		return nil, err
	}
	emails, err := s.approvedMentees(ctx, mentorID, req.MenteeIDs)
	if err != nil {
		return nil, err
	}

	res := &BatchResult{
		BatchID:  uuid.New(),
		Attempts: []models.ScheduleAttempt{},
		Sessions: []models.MentorSession{},
		Skipped:  []uuid.UUID{},
	}
	for i, menteeID := range req.MenteeIDs {
		attempt, sess := s.scheduleOne(ctx, res.BatchID, mentorID, menteeID, emails[menteeID], req, sl)
		if err := s.db.WithContext(ctx).Create(&attempt).Error; err != nil {
			slog.Error("failed to record schedule attempt", "component", "sessions",
				"batch_id", res.BatchID.String(), "mentee_id", menteeID.String(), "error", err)
		}
		res.Attempts = append(res.Attempts, attempt)
		if sess == nil {
			res.Failed = true
			res.Skipped = append(res.Skipped, req.MenteeIDs[i+1:]...)
			break
		}
		res.Sessions = append(res.Sessions, *sess)
		res.Scheduled++
	}
	return res, nil
}

func (s *Service) scheduleOne(ctx context.Context, batchID, mentorID, menteeID uuid.UUID, to string, req ScheduleRequest, sl *slot) (models.ScheduleAttempt, *models.MentorSession) {
	attempt := models.ScheduleAttempt{
		ID:       uuid.New(),
		BatchID:  batchID,
		MentorID: mentorID,
		MenteeID: menteeID,
		Meeting:  models.StepFailed,
		Persist:  models.StepSkipped,
		Email:    models.StepSkipped,
	}
	log := slog.With("component", "sessions", "batch_id", batchID.String(), "mentee_id", menteeID.String())

	m, err := s.meetings.Schedule(ctx, meeting.Request{
		Topic:     req.Topic,
		Agenda:    req.Agenda,
		StartTime: sl.Start.UTC().Format(time.RFC3339),
		Duration:  sl.Duration,
		Timezone:  sl.Timezone,
	})
	if err != nil {
		log.Error("meeting creation failed", "error", err)
		attempt.Error = err.Error()
		return attempt, nil
	}
	attempt.Meeting = models.StepOK
	if raw, err := json.Marshal(m); err == nil {
		attempt.MeetingPayload = datatypes.JSON(raw)
	}

	sess := models.MentorSession{
		ID:        uuid.New(),
		MentorID:  mentorID,
		MenteeID:  menteeID,
		StartTime: sl.Start.UTC(),
		Topic:     req.Topic,
		Agenda:    req.Agenda,
		Duration:  sl.Duration,
		JoinURL:   m.JoinURL,
		StartURL:  m.StartURL,
		Password:  m.Password,
	}
	if err := s.db.WithContext(ctx).Create(&sess).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			err = ErrDuplicateSession
		}
		log.Error("failed to save session", "error", err)
		attempt.Persist = models.StepFailed
		attempt.Error = err.Error()
		return attempt, nil
	}
	attempt.Persist = models.StepOK
	attempt.SessionID = &sess.ID

	attempt.Email = models.StepOK
	if err := s.notify(ctx, to, &sess, sl.Start); err != nil {
		log.Warn("meeting email failed", "error", err)
		attempt.Email = models.StepFailed
	}
	return attempt, &sess
}

// approvedMentees returns the email of every mentee, failing when one of
// them has no approved match with the mentor.
func (s *Service) approvedMentees(ctx context.Context, mentorID uuid.UUID, menteeIDs []uuid.UUID) (map[uuid.UUID]string, error) {
	var rows []struct {
		ID    uuid.UUID
		Email string
	}
	err := s.db.WithContext(ctx).Model(&models.User{}).
		Select("users.id, users.email").
		Joins("JOIN matches ON matches.mentee_id = users.id").
		Where("matches.mentor_id = ? AND matches.is_approved = ? AND users.id IN ?", mentorID, true, menteeIDs).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	emails := make(map[uuid.UUID]string, len(rows))
	for _, r := range rows {
		emails[r.ID] = r.Email
	}
	for _, id := range menteeIDs {
		if _, ok := emails[id]; !ok {
			return nil, validate.Errorf("Mentee %s is not one of your approved mentees.", id)
		}
	}
	return emails, nil
}

var meetingMail = template.Must(template.New("meeting").Parse(`<h2>New Meeting Scheduled</h2>
<p><strong>Topic:</strong> {{.Topic}}</p>
<p><strong>Agenda:</strong> {{.Agenda}}</p>
<p><strong>Start Time:</strong> {{.Start}}</p>
<p><strong>Duration:</strong> {{.Duration}} minutes</p>
<p><strong>Join URL:</strong> <a href="{{.JoinURL}}" target="_blank">Click here to join</a></p>
<p><strong>Meeting Password:</strong> {{.Password}}</p>
`))

func (s *Service) notify(ctx context.Context, to string, sess *models.MentorSession, start time.Time) error {
	var body bytes.Buffer
	err := meetingMail.Execute(&body, map[string]interface{}{
		"Topic":    sess.Topic,
		"Agenda":   sess.Agenda,
		"Start":    start.Format("Jan 2, 2006, 3:04 PM MST"),
		"Duration": sess.Duration,
		"JoinURL":  sess.JoinURL,
		"Password": sess.Password,
	})
	if err != nil {
		return err
	}
	return s.mail.Send(ctx, email.Message{
		To:      []string{to},
		Subject: fmt.Sprintf("New Meeting Scheduled: %s", sess.Topic),
		HTML:    body.String(),
	})
}

// List returns the caller's sessions, newest first.
func (s *Service) List(ctx context.Context, sess session.Context) ([]models.MentorSession, error) {
	q := s.db.WithContext(ctx).Order("start_time DESC")
	switch sess.Role {
	case models.RoleMentor:
		q = q.Where("mentor_id = ?", sess.UserID)
	case models.RoleMentee:
		q = q.Where("mentee_id = ?", sess.UserID)
	case models.RoleOrg, models.RoleAdmin, models.RoleGuest:
		return []models.MentorSession{}, nil
	default:
		return nil, models.ErrUnknownRole
	}
	var out []models.MentorSession
	err := q.Find(&out).Error
	return out, err
}

// Attempts lists the recorded outcomes of one of the mentor's batches.
func (s *Service) Attempts(ctx context.Context, mentorID, batchID uuid.UUID) ([]models.ScheduleAttempt, error) {
	var out []models.ScheduleAttempt
	err := s.db.WithContext(ctx).
		Where("batch_id = ? AND mentor_id = ?", batchID, mentorID).
		Order("created_at").
		Find(&out).Error
	return out, err
}
