package logging

import (
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/models"
	"gorm.io/gorm"
)

// Retention is how long system logs are kept.
const Retention = 30 * 24 * time.Hour

// Job is one retention rule run by the daily cleanup.
type Job struct {
	Name  string
	Purge func(now time.Time) (int64, error)
}

// SystemLogJob purges system logs past Retention.
func SystemLogJob(db *gorm.DB) Job {
	return Job{
		Name: "system_logs",
		Purge: func(now time.Time) (int64, error) {
			return PurgeOlderThan(db, now.Add(-Retention))
		},
	}
}

// StartCleanup runs jobs once a day until done is closed.
func StartCleanup(done <-chan struct{}, jobs ...Job) {
	go func() {
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case now := <-ticker.C:
				RunJobs(now, jobs)
			case <-done:
				return
			}
		}
	}()
}

// RunJobs runs every job once. A failing job is logged and does not stop
// the rest.
func RunJobs(now time.Time, jobs []Job) {
	for _, job := range jobs {
		deleted, err := job.Purge(now)
		if err != nil {
			slog.Error("cleanup failed", "component", "logging", "job", job.Name, "error", err)
			continue
		}
		if deleted > 0 {
			slog.Info("cleanup completed", "component", "logging", "job", job.Name, "deleted", deleted)
		}
	}
}

func PurgeOlderThan(db *gorm.DB, cutoff time.Time) (int64, error) {
	result := db.Where("timestamp < ?", cutoff).Delete(&models.SystemLog{})
	return result.RowsAffected, result.Error
}
