package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"alfredoptarigan/resume-reviewer/internal/config"
)

// ProviderService sends a single prompt to a chat-completion provider and
// returns the text of the first choice ("" when the provider sent no content).
type ProviderService interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// ProviderError carries the upstream HTTP status when there is one.
type ProviderError struct {
	StatusCode int
	Message    string
}

func (e *ProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("provider returned status %d: %s", e.StatusCode, e.Message)
	}
	return e.Message
}

func (e *ProviderError) Unwrap() error {
	return ErrProvider
}

// Transient reports whether retrying the same request may succeed.
func (e *ProviderError) Transient() bool {
	return e.StatusCode == 0 ||
		e.StatusCode == http.StatusTooManyRequests ||
		e.StatusCode >= http.StatusInternalServerError
}

func NewProviderService(cfg config.ProviderConfig) (ProviderService, error) {
	switch cfg.Name {
	case "openrouter":
		return NewOpenRouterService(cfg.BaseURL, cfg.APIKey, cfg.Model), nil
	case "gemini":
		return NewGeminiService(cfg.APIKey, cfg.Model)
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Name)
	}
}

type retryingProvider struct {
	next         ProviderService
	maxAttempts  int
	initialDelay time.Duration
}

// WithRetry retries transient provider failures up to maxAttempts in total,
// doubling the delay after every failed attempt.
func WithRetry(next ProviderService, maxAttempts int, initialDelay time.Duration) ProviderService {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &retryingProvider{
		next:         next,
		maxAttempts:  maxAttempts,
		initialDelay: initialDelay,
	}
}

func (r *retryingProvider) Complete(ctx context.Context, prompt string) (string, error) {
	var lastErr error
	delay := r.initialDelay

	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		result, err := r.next.Complete(ctx, prompt)
		if err == nil {
			return result, nil
		}

		lastErr = err

		if ctx.Err() != nil || !isTransient(err) {
			break
		}

		if attempt < r.maxAttempts {
			log.Warn().Err(err).Int("attempt", attempt).Dur("delay", delay).Msg("⚠️ Provider attempt failed. Retrying...")

			select {
			case <-ctx.Done():
				return "", classifyProviderError(ctx, lastErr)
			case <-time.After(delay):
			}
			delay *= 2
		}
	}

	return "", classifyProviderError(ctx, lastErr)
}

func isTransient(err error) bool {
	var providerErr *ProviderError
	if errors.As(err, &providerErr) {
		return providerErr.Transient()
	}
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

// classifyProviderError folds deadline expiry into ErrProviderTimeout and
// everything else into ErrProvider so callers can switch on errors.Is.
func classifyProviderError(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrProviderTimeout, err)
	}
	if errors.Is(err, ErrProvider) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrProvider, err)
}
