package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrReportNotFound     = errors.New("report not found")
	ErrAlreadyBlocked     = errors.New("user already blocked")
	ErrSelfBlock          = errors.New("cannot block yourself")
	ErrInvalidContentType = errors.New("invalid content_type: must be user, message, resource, or opportunity")
	ErrReasonRequired     = errors.New("reason is required")
	ErrInvalidReportState = errors.New("invalid status: must be reviewed, actioned, or dismissed")
)

// BannedWords are rejected in chat messages.
var BannedWords = []string{
	"fuck", "fucking", "fucker", "shit", "shitty", "bullshit",
	"asshole", "bastard", "bitch", "cunt",
	"nigger", "nigga", "chink", "spic", "kike", "faggot", "fag",
	"retard", "retarded", "tranny",
	"porn", "porno", "nudes",
	"scam", "scammer", "phishing", "malware",
}

// ModerationService screens chat content and manages reports and blocks.
type ModerationService struct {
	db                  *gorm.DB
	bannedWordRegexps   []*regexp.Regexp
	repeatedCharPattern *regexp.Regexp
}

func NewModerationService(db *gorm.DB) *ModerationService {
	ms := &ModerationService{db: db}
	ms.bannedWordRegexps = make([]*regexp.Regexp, 0, len(BannedWords))
	for _, word := range BannedWords {
		ms.bannedWordRegexps = append(ms.bannedWordRegexps, regexp.MustCompile(`(?i)\b`+regexp.QuoteMeta(word)+`\b`))
	}
	ms.repeatedCharPattern = regexp.MustCompile(repeatedCharExpr(10))
	return ms
}

// repeatedCharExpr matches any letter or !?. repeated n or more times.
func repeatedCharExpr(n int) string {
	parts := make([]string, 0, 29)
	for c := 'a'; c <= 'z'; c++ {
		parts = append(parts, fmt.Sprintf("%c{%d,}", c, n))
	}
	for _, c := range []string{`!`, `\?`, `\.`} {
		parts = append(parts, fmt.Sprintf("%s{%d,}", c, n))
	}
	return "(?i)(" + strings.Join(parts, "|") + ")"
}

// FilterContent reports whether text may be posted and, if not, a reason code.
func (ms *ModerationService) FilterContent(text string) (bool, string) {
	for _, re := range ms.bannedWordRegexps {
		if re.MatchString(text) {
			return false, "inappropriate_language"
		}
	}
	if ms.repeatedCharPattern.MatchString(text) {
		return false, "spam_detected"
	}
	return true, ""
}

func (ms *ModerationService) GetRejectionMessage(reason string) string {
	switch reason {
	case "inappropriate_language":
		return "Your message contains inappropriate language."
	case "spam_detected":
		return "Your message appears to be spam."
	default:
		return "Your message does not meet our community guidelines."
	}
}

func (ms *ModerationService) CreateReport(ctx context.Context, reporterID uuid.UUID, req *dto.CreateReportRequest) (*models.Report, error) {
	if !models.ReportTargets[req.ContentType] {
		return nil, ErrInvalidContentType
	}
	if strings.TrimSpace(req.Reason) == "" {
		return nil, ErrReasonRequired
	}

	report := models.Report{
		ID:          uuid.New(),
		ReporterID:  reporterID,
		ContentType: req.ContentType,
		ContentID:   req.ContentID,
		Reason:      strings.TrimSpace(req.Reason),
		Status:      models.ReportPending,
	}

	if err := ms.db.WithContext(ctx).Create(&report).Error; err != nil {
		return nil, fmt.Errorf("failed to create report: %w", err)
	}
	return &report, nil
}

func (ms *ModerationService) ListReports(ctx context.Context, status string, limit, offset int) ([]models.Report, int64, error) {
	var reports []models.Report
	var total int64

	query := ms.db.WithContext(ctx).Model(&models.Report{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&reports).Error; err != nil {
		return nil, 0, err
	}
	return reports, total, nil
}

func (ms *ModerationService) ActionReport(ctx context.Context, reportID uuid.UUID, req *dto.ActionReportRequest) error {
	if !models.ReportStatus(req.Status).Resolved() {
		return ErrInvalidReportState
	}

	result := ms.db.WithContext(ctx).Model(&models.Report{}).
		Where("id = ?", reportID).
		Updates(map[string]interface{}{
			"status":     req.Status,
			"admin_note": req.AdminNote,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrReportNotFound
	}
	return nil
}

func (ms *ModerationService) BlockUser(ctx context.Context, blockerID, blockedID uuid.UUID) error {
	if blockerID == blockedID {
		return ErrSelfBlock
	}

	db := ms.db.WithContext(ctx)
	var existing models.Block
	if err := db.Where("blocker_id = ? AND blocked_id = ?", blockerID, blockedID).First(&existing).Error; err == nil {
		return ErrAlreadyBlocked
	}

	block := models.Block{
		ID:        uuid.New(),
		BlockerID: blockerID,
		BlockedID: blockedID,
	}
	if err := db.Create(&block).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrAlreadyBlocked
		}
		return err
	}
	return nil
}

func (ms *ModerationService) UnblockUser(ctx context.Context, blockerID, blockedID uuid.UUID) error {
	return ms.db.WithContext(ctx).
		Where("blocker_id = ? AND blocked_id = ?", blockerID, blockedID).
		Delete(&models.Block{}).Error
}

// IsBlocked reports whether recipient has blocked sender.
func (ms *ModerationService) IsBlocked(ctx context.Context, recipient, sender uuid.UUID) (bool, error) {
	var n int64
	err := ms.db.WithContext(ctx).Model(&models.Block{}).
		Where("blocker_id = ? AND blocked_id = ?", recipient, sender).
		Count(&n).Error
	return n > 0, err
}

// ListBlocks returns the users blockerID has blocked, newest first.
func (ms *ModerationService) ListBlocks(ctx context.Context, blockerID uuid.UUID) ([]models.Block, error) {
	var blocks []models.Block
	err := ms.db.WithContext(ctx).
		Where("blocker_id = ?", blockerID).
		Order("created_at DESC").
		Find(&blocks).Error
	return blocks, err
}
