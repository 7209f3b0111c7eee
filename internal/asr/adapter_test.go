package asr

import (
	"context"
	"log/slog"
	"math"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/lemartins07/english-assessment-service/internal/errors"
	"github.com/lemartins07/english-assessment-service/internal/models"
)

// stubClient is a controllable RawClient for adapter tests.
type stubClient struct {
	output *models.TranscribeOutput
	err    error
	delay  time.Duration
	hang   bool
	calls  atomic.Int64
}

func (c *stubClient) TranscribeShortAudio(ctx context.Context, input models.TranscribeInput) (*models.TranscribeOutput, error) {
	c.calls.Add(1)
	if c.hang {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if c.delay > 0 {
		select {
		case <-time.After(c.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if c.err != nil {
		return nil, c.err
	}
	return c.output, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testInput() models.TranscribeInput {
	return models.TranscribeInput{
		Audio: models.ShortAudioFileRef{URI: "s3://answers/abc.ogg"},
	}
}

func int64Ptr(v int64) *int64 { return &v }

func TestTranscribe_Success(t *testing.T) {
	client := &stubClient{
		output: &models.TranscribeOutput{Transcript: "my name is Ana", DurationMs: 2300},
		delay:  5 * time.Millisecond,
	}
	adapter := NewAdapter(client, Config{}, testLogger())

	out, err := adapter.TranscribeShortAudio(context.Background(), testInput(), CallOptions{Timeout: time.Second})
	require.NoError(t, err)
	assert.Equal(t, "my name is Ana", out.Transcript)
	assert.Equal(t, float64(2300), out.DurationMs)
}

func TestTranscribe_Timeout(t *testing.T) {
	client := &stubClient{hang: true}
	adapter := NewAdapter(client, Config{}, testLogger())

	start := time.Now()
	_, err := adapter.TranscribeShortAudio(context.Background(), testInput(), CallOptions{Timeout: 10 * time.Millisecond})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindTimeout, apperrors.KindOf(err))
	assert.Less(t, time.Since(start), time.Second, "timeout must bound the wait")
}

func TestTranscribe_CancelledNotTimeout(t *testing.T) {
	client := &stubClient{hang: true}
	adapter := NewAdapter(client, Config{}, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, err := adapter.TranscribeShortAudio(ctx, testInput(), CallOptions{Timeout: 5 * time.Second})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindCancelled, apperrors.KindOf(err))
}

func TestTranscribe_DurationLimitRejectsBeforeCall(t *testing.T) {
	client := &stubClient{output: &models.TranscribeOutput{Transcript: "x", DurationMs: 100}}
	adapter := NewAdapter(client, Config{MaxDurationMs: 3000}, testLogger())

	input := testInput()
	input.Audio.DurationMs = int64Ptr(3500)

	_, err := adapter.TranscribeShortAudio(context.Background(), input, CallOptions{})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindBadRequest, apperrors.KindOf(err))
	assert.Equal(t, int64(0), client.calls.Load(), "client must not be invoked")
}

func TestTranscribe_SizeLimitRejectsBeforeCall(t *testing.T) {
	client := &stubClient{output: &models.TranscribeOutput{Transcript: "x", DurationMs: 100}}
	adapter := NewAdapter(client, Config{MaxSizeBytes: 1 << 20}, testLogger())

	input := testInput()
	input.Audio.SizeBytes = int64Ptr(2 << 20)

	_, err := adapter.TranscribeShortAudio(context.Background(), input, CallOptions{})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindBadRequest, apperrors.KindOf(err))
	assert.Equal(t, int64(0), client.calls.Load(), "client must not be invoked")
}

func TestTranscribe_ProviderErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   apperrors.Kind
	}{
		{"rate limited", 429, apperrors.KindTooManyRequests},
		{"bad request", 400, apperrors.KindBadRequest},
		{"unprocessable", 422, apperrors.KindBadRequest},
		{"server error", 500, apperrors.KindUpstreamError},
		{"unavailable", 503, apperrors.KindUpstreamError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &stubClient{err: NewProviderError(tt.status, "boom")}
			adapter := NewAdapter(client, Config{}, testLogger())

			_, err := adapter.TranscribeShortAudio(context.Background(), testInput(), CallOptions{Timeout: time.Second})
			require.Error(t, err)
			assert.Equal(t, tt.want, apperrors.KindOf(err))
		})
	}
}

func TestTranscribe_InvalidResponse(t *testing.T) {
	tests := []struct {
		name   string
		output *models.TranscribeOutput
	}{
		{"nan duration", &models.TranscribeOutput{Transcript: "x", DurationMs: math.NaN()}},
		{"inf duration", &models.TranscribeOutput{Transcript: "x", DurationMs: math.Inf(1)}},
		{"missing duration", &models.TranscribeOutput{Transcript: "x"}},
		{"nil output", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &stubClient{output: tt.output}
			adapter := NewAdapter(client, Config{}, testLogger())

			_, err := adapter.TranscribeShortAudio(context.Background(), testInput(), CallOptions{Timeout: time.Second})
			require.Error(t, err)
			assert.Equal(t, apperrors.KindInvalidResponse, apperrors.KindOf(err))
		})
	}
}

func TestTranscribe_UnexpectedErrorIsUpstream(t *testing.T) {
	client := &stubClient{err: assert.AnError}
	adapter := NewAdapter(client, Config{}, testLogger())

	_, err := adapter.TranscribeShortAudio(context.Background(), testInput(), CallOptions{Timeout: time.Second})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindUpstreamError, apperrors.KindOf(err))
}
