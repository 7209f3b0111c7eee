// Package asr wraps an external speech-to-text provider behind a
// resilient adapter: payload-limit validation, a timeout racing the
// call, caller cancellation, response validation and a stable mapping
// of provider failures onto the shared error taxonomy.
package asr

import (
	"context"
	"fmt"

	"github.com/lemartins07/english-assessment-service/internal/models"
)

// RawClient is the narrow capability the adapter wraps: a single
// short-audio transcription call. Implementations must observe ctx
// cancellation. Vendor SDKs (Google Speech, mocks) sit behind this seam.
type RawClient interface {
	TranscribeShortAudio(ctx context.Context, input models.TranscribeInput) (*models.TranscribeOutput, error)
}

// ProviderError is an explicit provider failure carrying an HTTP-like
// status code. Raw clients return it for vendor-reported errors so the
// adapter can map status classes onto error kinds.
type ProviderError struct {
	StatusCode int
	Message    string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider error %d: %s", e.StatusCode, e.Message)
}

// NewProviderError creates a provider error with the given status code.
func NewProviderError(statusCode int, message string) *ProviderError {
	return &ProviderError{StatusCode: statusCode, Message: message}
}
