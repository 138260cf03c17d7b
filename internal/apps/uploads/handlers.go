package uploads

import (
	"errors"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/session"
	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/storage"
	"github.com/gofiber/fiber/v2"
)

// MaxFileSize caps a single upload.
const MaxFileSize = 10 << 20

// Response is returned for a stored file.
type Response struct {
	Bucket string `json:"bucket"`
	Path   string `json:"path"`
	URL    string `json:"url"`
}

type Handler struct {
	store storage.Store
}

func NewHandler(store storage.Store) *Handler {
	return &Handler{store: store}
}

// ObjectPath names the stored object. Media and opportunity files get a
// fresh UUID name; everything else lives in the uploader's folder.
func ObjectPath(s session.Context, bucket, filename string) string {
	switch bucket {
	case storage.BucketMedia, storage.BucketOpportunities:
		return storage.UniquePath(filename)
	default:
		return storage.UserPath(s.UserID, filename)
	}
}

// Upload handles POST /uploads/:bucket with a multipart "file" field.
func (h *Handler) Upload(c *fiber.Ctx) error {
	s, err := session.From(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: true, Message: "Unauthorized"})
	}
	if h.store == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
			Error: true, Message: "File storage is not configured",
		})
	}

	bucket := c.Params("bucket")
	if !storage.ValidBucket(bucket) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: true, Message: "Unknown upload bucket"})
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: true, Message: "File is required"})
	}
	if fh.Size > MaxFileSize {
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(dto.ErrorResponse{
			Error: true, Message: "File size must be less than 10MB",
		})
	}

	f, err := fh.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: true, Message: "Could not read file"})
	}
	defer f.Close()

	objectPath, err := h.store.Upload(c.UserContext(), bucket, ObjectPath(s, bucket, fh.Filename), f)
	if err != nil {
		if errors.Is(err, storage.ErrUnknownBucket) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: true, Message: "Unknown upload bucket"})
		}
		slog.Error("upload failed", "component", "uploads", "trace_id", c.GetRespHeader(fiber.HeaderXRequestID), "bucket", bucket, "user_id", s.UserID, "error", err)
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Error: true, Message: "Upload failed"})
	}

	return c.Status(fiber.StatusCreated).JSON(Response{
		Bucket: bucket,
		Path:   objectPath,
		URL:    h.store.PublicURL(bucket, objectPath),
	})
}
