package models

// ShortAudioFileRef points at a recorded answer. Size, duration and
// content type are optional caller-supplied hints; when known they are
// validated against the adapter limits before the provider is called.
type ShortAudioFileRef struct {
	URI         string `json:"uri" validate:"required"`
	SizeBytes   *int64 `json:"size_bytes,omitempty"`
	DurationMs  *int64 `json:"duration_ms,omitempty"`
	ContentType string `json:"content_type,omitempty"`
}

// TranscribeInput is the request shape of the speech provider adapter.
type TranscribeInput struct {
	Audio      ShortAudioFileRef `json:"audio"`
	LocaleHint string            `json:"locale_hint,omitempty"`
	Prompt     string            `json:"prompt,omitempty"`
}

// WordTiming is a per-word timestamp in the transcript.
type WordTiming struct {
	Word    string  `json:"word"`
	StartMs float64 `json:"start_ms"`
	EndMs   float64 `json:"end_ms"`
}

// TranscribeOutput is the provider's transcription result. DurationMs is
// the measured speech duration; the adapter rejects outputs whose
// duration is missing or non-finite.
type TranscribeOutput struct {
	Transcript       string       `json:"transcript"`
	DurationMs       float64      `json:"duration_ms"`
	DetectedLanguage string       `json:"detected_language,omitempty"`
	Words            []WordTiming `json:"words,omitempty"`
}
