// Package testutil opens throwaway databases for store-backed tests.
package testutil

import (
	"fmt"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/database"
	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB returns a migrated, seeded in-memory database private to t.
func DB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	all := append(database.SharedModels(),
		&models.PersonalInformation{},
		&models.Award{},
		&models.AcademicQualification{},
		&models.EmploymentHistory{},
		&models.SkillsAndInterests{},
		&models.Bio{},
		&models.OrganisationInformation{},
		&models.OnboardingStatus{},
		&models.Match{},
		&models.Opportunity{},
		&models.Application{},
		&models.Resource{},
		&models.MentorSession{},
		&models.ScheduleAttempt{},
		&models.ChatMessage{},
	)
	if err := db.AutoMigrate(all...); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := database.SeedRoles(db); err != nil {
		t.Fatalf("seed roles: %v", err)
	}
	if err := database.SeedAwards(db); err != nil {
		t.Fatalf("seed awards: %v", err)
	}
	return db
}

// User inserts an account and, when role is not empty, its role row.
func User(t *testing.T, db *gorm.DB, role models.Role) uuid.UUID {
	t.Helper()

	id := uuid.New()
	if err := db.Create(&models.User{ID: id, Email: id.String() + "@example.com", Password: "x"}).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	if role == "" {
		return id
	}

	var rec models.RoleRecord
	if err := db.Where("name = ?", role).First(&rec).Error; err != nil {
		t.Fatalf("role %s: %v", role, err)
	}
	if err := db.Create(&models.UserRole{UserID: id, RoleID: rec.ID}).Error; err != nil {
		t.Fatalf("assign role: %v", err)
	}
	return id
}

// PersonalInfo inserts a minimal personal information row.
func PersonalInfo(t *testing.T, db *gorm.DB, userID uuid.UUID, first, last string) {
	t.Helper()
	row := models.PersonalInformation{UserID: userID, FirstName: first, LastName: last, Gender: "Other"}
	if err := db.Create(&row).Error; err != nil {
		t.Fatalf("personal info: %v", err)
	}
}

// Academic inserts one academic qualification using the first seeded award.
func Academic(t *testing.T, db *gorm.DB, userID uuid.UUID, course string) {
	t.Helper()
	var award models.Award
	if err := db.Order("id").First(&award).Error; err != nil {
		t.Fatalf("award: %v", err)
	}
	row := models.AcademicQualification{
		ID: uuid.New(), UserID: userID, Institution: "University", Course: course,
		Specializations: "General", AwardID: award.ID, GraduationYear: 2020,
	}
	if err := db.Create(&row).Error; err != nil {
		t.Fatalf("academic: %v", err)
	}
}

// Employment inserts one employment history row.
func Employment(t *testing.T, db *gorm.DB, userID uuid.UUID, designation string) {
	t.Helper()
	row := models.EmploymentHistory{
		ID: uuid.New(), UserID: userID, Designation: designation,
		Duties: "Writing and reviewing code", StartDate: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	if err := db.Create(&row).Error; err != nil {
		t.Fatalf("employment: %v", err)
	}
}

// Skills inserts the skills and interests row.
func Skills(t *testing.T, db *gorm.DB, userID uuid.UUID, skills, interests []string) {
	t.Helper()
	row := models.SkillsAndInterests{UserID: userID, Skills: models.JoinList(skills), Interests: models.JoinList(interests)}
	if err := db.Create(&row).Error; err != nil {
		t.Fatalf("skills: %v", err)
	}
}

// Bio inserts the bio row.
func Bio(t *testing.T, db *gorm.DB, userID uuid.UUID, text string) {
	t.Helper()
	if err := db.Create(&models.Bio{UserID: userID, Bio: text}).Error; err != nil {
		t.Fatalf("bio: %v", err)
	}
}
