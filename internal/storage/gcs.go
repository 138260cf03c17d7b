// Package storage uploads user files to Google Cloud Storage.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"path"
	"regexp"
	"strings"
	"time"

	gcs "cloud.google.com/go/storage"
	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/config"
	"github.com/google/uuid"
	"google.golang.org/api/option"
)

var ErrUnknownBucket = errors.New("unknown upload bucket")

// Logical upload buckets. They map to prefixes inside one GCS bucket.
const (
	BucketProfiles      = "profiles"
	BucketCertificates  = "certificates"
	BucketLetters       = "letters"
	BucketLogos         = "logos"
	BucketResources     = "resources"
	BucketApplications  = "applications"
	BucketMedia         = "media"
	BucketOpportunities = "opportunities"
)

var knownBuckets = map[string]bool{
	BucketProfiles: true, BucketCertificates: true, BucketLetters: true, BucketLogos: true,
	BucketResources: true, BucketApplications: true, BucketMedia: true, BucketOpportunities: true,
}

func ValidBucket(name string) bool { return knownBuckets[name] }

// Store is what upload handlers need from object storage.
type Store interface {
	Upload(ctx context.Context, bucket, objectPath string, r io.Reader) (string, error)
	PublicURL(bucket, objectPath string) string
}

type GCS struct {
	client        *gcs.Client
	bucket        string
	emulatorHost  string
	publicBaseURL string
}

// NewGCS opens a storage client. When an emulator host is configured the
// client runs without credentials.
func NewGCS(ctx context.Context, cfg *config.Config) (*GCS, error) {
	if cfg.GCSBucket == "" {
		return nil, fmt.Errorf("missing GCS_BUCKET")
	}

	var opts []option.ClientOption
	switch {
	case cfg.GCSEmulatorHost != "":
		opts = append(opts, option.WithoutAuthentication())
	case cfg.GCSCredentials != "":
		opts = append(opts, option.WithCredentialsFile(cfg.GCSCredentials), option.WithScopes(gcs.ScopeReadWrite))
	default:
		opts = append(opts, option.WithScopes(gcs.ScopeReadWrite))
	}

	client, err := gcs.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	slog.Info("object storage initialized", "bucket", cfg.GCSBucket, "emulator_host", cfg.GCSEmulatorHost)
	return &GCS{
		client:        client,
		bucket:        cfg.GCSBucket,
		emulatorHost:  strings.TrimRight(cfg.GCSEmulatorHost, "/"),
		publicBaseURL: strings.TrimRight(cfg.StoragePublicURL, "/"),
	}, nil
}

// Upload writes r under bucket/objectPath and returns objectPath.
func (s *GCS) Upload(ctx context.Context, bucket, objectPath string, r io.Reader) (string, error) {
	if !ValidBucket(bucket) {
		return "", ErrUnknownBucket
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	w := s.client.Bucket(s.bucket).Object(objectKey(bucket, objectPath)).NewWriter(ctx)
	if ct := contentTypeForKey(objectPath); ct != "" {
		w.ContentType = ct
	}
	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("failed to write data to GCS: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to close GCS writer: %w", err)
	}
	return objectPath, nil
}

func (s *GCS) PublicURL(bucket, objectPath string) string {
	key := objectKey(bucket, objectPath)
	switch {
	case s.publicBaseURL != "":
		return fmt.Sprintf("%s/%s/%s", s.publicBaseURL, s.bucket, key)
	case s.emulatorHost != "":
		return fmt.Sprintf("%s/storage/v1/b/%s/o/%s?alt=media", s.emulatorHost, url.PathEscape(s.bucket), url.PathEscape(key))
	default:
		return fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.bucket, key)
	}
}

func (s *GCS) Close() error {
	return s.client.Close()
}

func objectKey(bucket, objectPath string) string {
	return bucket + "/" + strings.TrimLeft(objectPath, "/")
}

var unsafeChars = regexp.MustCompile("[\\[\\]{}<>\"'\\\\:*?%~#$&+=!@^`|]+")

// SanitizeFilename replaces runs of characters that break object URLs with "_".
func SanitizeFilename(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.TrimSpace(unsafeChars.ReplaceAllString(name, "_"))
	name = strings.ReplaceAll(name, " ", "_")
	if name == "" || name == "." || name == "/" {
		return "file"
	}
	return name
}

// UserPath is the object path for a file a user uploads to their own folder.
func UserPath(userID uuid.UUID, filename string) string {
	return userID.String() + "/" + SanitizeFilename(filename)
}

// UniquePath names the object by a fresh UUID, keeping the extension.
func UniquePath(filename string) string {
	return uuid.NewString() + strings.ToLower(path.Ext(SanitizeFilename(filename)))
}

func contentTypeForKey(key string) string {
	s := strings.ToLower(strings.TrimSpace(key))
	switch {
	case strings.HasSuffix(s, ".png"):
		return "image/png"
	case strings.HasSuffix(s, ".jpg"), strings.HasSuffix(s, ".jpeg"):
		return "image/jpeg"
	case strings.HasSuffix(s, ".webp"):
		return "image/webp"
	case strings.HasSuffix(s, ".gif"):
		return "image/gif"
	case strings.HasSuffix(s, ".svg"):
		return "image/svg+xml"
	case strings.HasSuffix(s, ".mp4"):
		return "video/mp4"
	case strings.HasSuffix(s, ".pdf"):
		return "application/pdf"
	case strings.HasSuffix(s, ".doc"):
		return "application/msword"
	case strings.HasSuffix(s, ".docx"):
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	default:
		return ""
	}
}
