package models

// OptionAnswer is the submitted payload for MultipleChoice and Listening
// questions.
type OptionAnswer struct {
	SelectedOptionIDs []string `json:"selected_option_ids" validate:"required,min=1"`
}

// SpeechAnswer is the submitted payload for Speaking questions: a
// reference to the recorded audio plus an optional locale hint for the
// transcription provider.
type SpeechAnswer struct {
	Audio      ShortAudioFileRef `json:"audio" validate:"required"`
	LocaleHint string            `json:"locale_hint,omitempty"`
}

// Answer is the variant-tagged submission payload for one question. The
// tag must match the target question's variant; exactly one payload is
// set.
type Answer struct {
	Type   QuestionType  `json:"type" validate:"required,question_type"`
	Option *OptionAnswer `json:"option,omitempty"`
	Speech *SpeechAnswer `json:"speech,omitempty"`
}
