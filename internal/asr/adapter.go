package asr

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"time"

	apperrors "github.com/lemartins07/english-assessment-service/internal/errors"
	"github.com/lemartins07/english-assessment-service/internal/models"
)

// Config holds the adapter limits. Zero limits disable the
// corresponding check; a zero default timeout falls back to 30s.
type Config struct {
	MaxDurationMs  int64
	MaxSizeBytes   int64
	DefaultTimeout time.Duration
}

const fallbackTimeout = 30 * time.Second

// CallOptions are per-call overrides. A zero Timeout uses the adapter
// default. Caller cancellation travels through the context.
type CallOptions struct {
	Timeout time.Duration
}

// Adapter wraps a RawClient with validation, timeout, cancellation and
// error mapping. It never retries; retry policy belongs to the caller.
type Adapter struct {
	client RawClient
	config Config
	logger *slog.Logger
}

// NewAdapter creates a provider adapter around the given raw client.
func NewAdapter(client RawClient, config Config, logger *slog.Logger) *Adapter {
	if config.DefaultTimeout <= 0 {
		config.DefaultTimeout = fallbackTimeout
	}
	return &Adapter{
		client: client,
		config: config,
		logger: logger,
	}
}

// TranscribeShortAudio validates the input, races the client call
// against the timeout and the caller's cancellation, and maps every
// failure onto the error taxonomy. Whichever suspension trigger fires
// first determines the reported kind (TIMEOUT vs CANCELLED); the
// abandoned call is cancelled and its eventual resolution discarded.
func (a *Adapter) TranscribeShortAudio(ctx context.Context, input models.TranscribeInput, opts CallOptions) (*models.TranscribeOutput, error) {
	if err := a.validateInput(input); err != nil {
		return nil, err
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = a.config.DefaultTimeout
	}

	callCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	type callResult struct {
		output *models.TranscribeOutput
		err    error
	}
	// Buffered so the abandoned call's resolution never blocks or leaks
	// back to the caller.
	results := make(chan callResult, 1)

	go func() {
		output, err := a.client.TranscribeShortAudio(callCtx, input)
		results <- callResult{output: output, err: err}
	}()

	select {
	case r := <-results:
		if r.err != nil {
			return nil, a.mapClientError(ctx, r.err)
		}
		return a.validateOutput(r.output)

	case <-ctx.Done():
		cancel()
		a.logger.Warn("transcription cancelled by caller", "uri", input.Audio.URI)
		return nil, apperrors.New(apperrors.KindCancelled, "transcription cancelled")

	case <-timer.C:
		cancel()
		a.logger.Warn("transcription timed out",
			"uri", input.Audio.URI,
			"timeout", timeout.String())
		return nil, apperrors.Newf(apperrors.KindTimeout, "transcription exceeded %s", timeout)
	}
}

func (a *Adapter) validateInput(input models.TranscribeInput) error {
	if input.Audio.URI == "" {
		return apperrors.New(apperrors.KindBadRequest, "audio uri is required")
	}
	if a.config.MaxDurationMs > 0 && input.Audio.DurationMs != nil && *input.Audio.DurationMs > a.config.MaxDurationMs {
		return apperrors.Newf(apperrors.KindBadRequest,
			"audio duration %dms exceeds limit %dms", *input.Audio.DurationMs, a.config.MaxDurationMs)
	}
	if a.config.MaxSizeBytes > 0 && input.Audio.SizeBytes != nil && *input.Audio.SizeBytes > a.config.MaxSizeBytes {
		return apperrors.Newf(apperrors.KindBadRequest,
			"audio size %dB exceeds limit %dB", *input.Audio.SizeBytes, a.config.MaxSizeBytes)
	}
	return nil
}

// validateOutput rejects provider responses whose measured duration is
// missing or non-finite even though the call itself succeeded.
func (a *Adapter) validateOutput(output *models.TranscribeOutput) (*models.TranscribeOutput, error) {
	if output == nil {
		return nil, apperrors.New(apperrors.KindInvalidResponse, "provider returned no output")
	}
	if math.IsNaN(output.DurationMs) || math.IsInf(output.DurationMs, 0) {
		return nil, apperrors.New(apperrors.KindInvalidResponse, "provider returned non-finite duration")
	}
	if output.DurationMs <= 0 {
		return nil, apperrors.New(apperrors.KindInvalidResponse, "provider returned no duration")
	}
	return output, nil
}

// mapClientError classifies failures surfaced by the raw client itself:
// explicit provider errors by status class, context errors by which
// token fired, everything else as an upstream failure.
func (a *Adapter) mapClientError(ctx context.Context, err error) error {
	var providerErr *ProviderError
	if errors.As(err, &providerErr) {
		switch {
		case providerErr.StatusCode == 429:
			return apperrors.Wrap(apperrors.KindTooManyRequests, "provider rate limited", err)
		case providerErr.StatusCode >= 400 && providerErr.StatusCode < 500:
			return apperrors.Wrap(apperrors.KindBadRequest, "provider rejected request", err)
		default:
			return apperrors.Wrap(apperrors.KindUpstreamError, "provider failed", err)
		}
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		if ctx.Err() != nil {
			return apperrors.Wrap(apperrors.KindCancelled, "transcription cancelled", err)
		}
		return apperrors.Wrap(apperrors.KindTimeout, "transcription timed out", err)
	}

	a.logger.Error("unexpected transcription client error", "error", err)
	return apperrors.Wrap(apperrors.KindUpstreamError, "unexpected provider failure", err)
}
