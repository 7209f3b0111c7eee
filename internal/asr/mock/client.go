// Package mock provides a speech client usable without cloud
// credentials. It cycles through canned transcripts so local runs and
// demos exercise the full submit path.
package mock

import (
	"context"
	"sync"

	"github.com/lemartins07/english-assessment-service/internal/models"
)

var sampleTranscripts = []string{
	"I usually wake up at seven and have breakfast before work.",
	"In the evening I like to cook dinner and watch a series with my family.",
	"On weekends I go running in the park near my house.",
}

// Client implements asr.RawClient with canned responses.
type Client struct {
	mu   sync.Mutex
	next int
}

func New() *Client {
	return &Client{}
}

func (c *Client) TranscribeShortAudio(ctx context.Context, input models.TranscribeInput) (*models.TranscribeOutput, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	transcript := sampleTranscripts[c.next%len(sampleTranscripts)]
	c.next++
	c.mu.Unlock()

	return &models.TranscribeOutput{
		Transcript:       transcript,
		DurationMs:       12_500,
		DetectedLanguage: "en-US",
	}, nil
}
