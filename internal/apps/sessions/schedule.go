package sessions

import (
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/validate"
	"github.com/google/uuid"
)

const (
	DefaultTimezone = "Africa/Nairobi"
	dateLayout      = "2006-01-02"
)

// ScheduleRequest books one meeting per mentee. Time fields are the
// zero-padded strings the scheduling form submits.
type ScheduleRequest struct {
	MenteeIDs      []uuid.UUID `json:"mentee_ids"`
	Topic          string      `json:"topic"`
	Agenda         string      `json:"agenda"`
	Date           string      `json:"date"`
	Hour           string      `json:"hour"`
	Minute         string      `json:"minute"`
	DurationHour   string      `json:"duration_hour"`
	DurationMinute string      `json:"duration_minute"`
}

// slot is a validated request.
type slot struct {
	Start    time.Time
	Duration int
	Timezone string
}

func parseSlot(req ScheduleRequest, timezone string) (*slot, error) {
	if len(req.MenteeIDs) == 0 {
		return nil, validate.Errorf("Select at least one mentee.")
	}
	seen := make(map[uuid.UUID]bool, len(req.MenteeIDs))
	for _, id := range req.MenteeIDs {
		if seen[id] {
			return nil, validate.Errorf("Mentee %s is selected more than once.", id)
		}
		seen[id] = true
	}
	if err := validate.First(
		validate.MinLen(req.Topic, 3, "Topic"),
		validate.MinLen(req.Agenda, 10, "Agenda"),
	); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Date) == "" {
		return nil, validate.Errorf("Date is required.")
	}

	hour, err := strconv.Atoi(req.Hour)
	if err != nil || hour < 0 || hour > 23 {
		return nil, validate.Errorf("Hour must be between 00 and 23.")
	}
	if err := validate.OneOf(req.Minute, "Minute", "00", "15", "30", "45"); err != nil {
		return nil, err
	}
	minute, _ := strconv.Atoi(req.Minute)

	durHour, err := strconv.Atoi(req.DurationHour)
	if err != nil || durHour < 0 || durHour > 5 {
		return nil, validate.Errorf("Duration hours must be between 0 and 5.")
	}
	durMinute, err := strconv.Atoi(req.DurationMinute)
	if err != nil || durMinute < 0 || durMinute > 59 {
		return nil, validate.Errorf("Duration minutes must be between 0 and 59.")
	}
	duration := durHour*60 + durMinute
	if duration <= 0 {
		return nil, validate.Errorf("Duration must be greater than zero.")
	}

	if timezone == "" {
		timezone = DefaultTimezone
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, err
	}
	day, err := time.ParseInLocation(dateLayout, req.Date, loc)
	if err != nil {
		return nil, validate.Errorf("Date must be a date (YYYY-MM-DD).")
	}
	start := time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, loc)
	return &slot{Start: start, Duration: duration, Timezone: timezone}, nil
}
