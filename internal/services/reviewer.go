package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"alfredoptarigan/resume-reviewer/internal/models"
)

type ReviewerService interface {
	Review(ctx context.Context, upload *models.Upload) (string, error)
}

type reviewerService struct {
	pdfParser       PDFParserService
	provider        ProviderService
	promptBuilder   *PromptBuilder
	providerTimeout time.Duration
}

func NewReviewerService(
	pdfParser PDFParserService,
	provider ProviderService,
	providerTimeout time.Duration,
) ReviewerService {
	return &reviewerService{
		pdfParser:       pdfParser,
		provider:        provider,
		promptBuilder:   NewPromptBuilder(),
		providerTimeout: providerTimeout,
	}
}

// Review extracts the resume text, asks the provider for feedback and returns
// it. Nothing about the upload outlives the call.
func (r *reviewerService) Review(ctx context.Context, upload *models.Upload) (string, error) {
	if upload == nil || len(upload.Data) == 0 {
		return "", ErrNoFile
	}

	logger := log.With().Str("review_id", upload.ID.String()).Logger()

	logger.Debug().Int64("size", upload.Size).Msg("📄 Extracting resume text...")
	resumeText, err := r.pdfParser.ExtractText(upload.Data)
	if err != nil {
		return "", err
	}

	prompt := r.promptBuilder.BuildReviewPrompt(resumeText)
	logger.Debug().Int("prompt_length", len(prompt)).Msg("🤖 Requesting feedback from provider...")

	providerCtx, cancel := context.WithTimeout(ctx, r.providerTimeout)
	defer cancel()

	feedback, err := r.provider.Complete(providerCtx, prompt)
	if err != nil {
		if errors.Is(err, ErrProviderTimeout) || errors.Is(err, ErrProvider) {
			return "", err
		}
		return "", classifyProviderError(providerCtx, err)
	}

	logger.Info().Int("feedback_length", len(feedback)).Msg("✅ Feedback received")
	return feedback, nil
}

// ReviewJob is one unit of work submitted to the Pool.
type ReviewJob struct {
	Upload *models.Upload
}

type ReviewResult struct {
	Feedback string
	Err      error
}

func (j ReviewJob) String() string {
	if j.Upload == nil {
		return "review(<nil>)"
	}
	return fmt.Sprintf("review(%s)", j.Upload.ID)
}
