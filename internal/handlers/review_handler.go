package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"alfredoptarigan/resume-reviewer/internal/models"
	"alfredoptarigan/resume-reviewer/internal/services"
)

const resumeField = "resume"

type ReviewHandler struct {
	uploadReader  services.UploadReader
	pool          services.Pool
	reviewTimeout time.Duration
}

func NewReviewHandler(
	uploadReader services.UploadReader,
	pool services.Pool,
	reviewTimeout time.Duration,
) *ReviewHandler {
	return &ReviewHandler{
		uploadReader:  uploadReader,
		pool:          pool,
		reviewTimeout: reviewTimeout,
	}
}

// HandleReview handles POST {review route} with one multipart field "resume".
func (h *ReviewHandler) HandleReview(c *fiber.Ctx) error {
	// A missing field and a body that is not multipart at all are both
	// reported as "no file".
	file, err := c.FormFile(resumeField)
	if err != nil {
		return respondError(c, services.ErrNoFile)
	}

	upload, err := h.uploadReader.Read(file)
	if err != nil {
		log.Warn().Err(err).Str("filename", file.Filename).Msg("⚠️ Upload rejected")
		return respondError(c, err)
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), h.reviewTimeout)
	defer cancel()

	feedback, err := h.pool.Submit(ctx, services.ReviewJob{Upload: upload})
	if err != nil {
		log.Error().Err(err).Str("review_id", upload.ID.String()).Msg("❌ Review failed")
		return respondError(c, err)
	}

	return c.JSON(models.ReviewResponse{Feedback: feedback})
}
