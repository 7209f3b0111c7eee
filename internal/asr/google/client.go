// Package google provides a Google Cloud Speech-to-Text implementation
// of the raw transcription client.
package google

import (
	"context"
	"errors"
	"strings"

	speech "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/lemartins07/english-assessment-service/internal/asr"
	"github.com/lemartins07/english-assessment-service/internal/models"
)

const defaultLanguageCode = "en-US"

// Client implements asr.RawClient using the Google Cloud Speech
// Recognize API for short audio.
// Requires GOOGLE_APPLICATION_CREDENTIALS to be set.
type Client struct {
	client *speech.Client
}

// New creates a new Google speech client.
func New(ctx context.Context) (*Client, error) {
	c, err := speech.NewClient(ctx)
	if err != nil {
		return nil, err
	}
	return &Client{client: c}, nil
}

// TranscribeShortAudio runs synchronous recognition over the referenced
// audio object and flattens the result into the adapter's output shape.
func (c *Client) TranscribeShortAudio(ctx context.Context, input models.TranscribeInput) (*models.TranscribeOutput, error) {
	language := input.LocaleHint
	if language == "" {
		language = defaultLanguageCode
	}

	req := &speechpb.RecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			LanguageCode:               language,
			EnableWordTimeOffsets:      true,
			EnableAutomaticPunctuation: true,
		},
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Uri{Uri: input.Audio.URI},
		},
	}

	resp, err := c.client.Recognize(ctx, req)
	if err != nil {
		return nil, mapGRPCError(err)
	}

	output := &models.TranscribeOutput{}
	var parts []string
	for _, result := range resp.Results {
		if len(result.Alternatives) == 0 {
			continue
		}
		alt := result.Alternatives[0]
		parts = append(parts, alt.Transcript)

		if output.DetectedLanguage == "" {
			output.DetectedLanguage = result.LanguageCode
		}
		if end := result.ResultEndTime; end != nil {
			output.DurationMs = float64(end.AsDuration().Milliseconds())
		}
		for _, w := range alt.Words {
			output.Words = append(output.Words, models.WordTiming{
				Word:    w.Word,
				StartMs: float64(w.StartTime.AsDuration().Milliseconds()),
				EndMs:   float64(w.EndTime.AsDuration().Milliseconds()),
			})
		}
	}
	output.Transcript = strings.Join(parts, " ")

	return output, nil
}

// Close releases the underlying gRPC connection.
func (c *Client) Close() error {
	return c.client.Close()
}

// mapGRPCError converts gRPC status codes into the HTTP-like provider
// errors the adapter maps onto the error taxonomy. Context errors pass
// through untouched so the adapter can attribute them to the right
// cancellation token.
func mapGRPCError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	st, ok := status.FromError(err)
	if !ok {
		return err
	}

	switch st.Code() {
	case codes.Canceled:
		return context.Canceled
	case codes.DeadlineExceeded:
		return context.DeadlineExceeded
	case codes.ResourceExhausted:
		return asr.NewProviderError(429, st.Message())
	case codes.InvalidArgument, codes.OutOfRange, codes.FailedPrecondition:
		return asr.NewProviderError(400, st.Message())
	case codes.NotFound:
		return asr.NewProviderError(404, st.Message())
	case codes.Unauthenticated:
		return asr.NewProviderError(401, st.Message())
	case codes.PermissionDenied:
		return asr.NewProviderError(403, st.Message())
	case codes.Unavailable:
		return asr.NewProviderError(503, st.Message())
	default:
		return asr.NewProviderError(500, st.Message())
	}
}
