package models

// QuestionType tags the closed set of question variants.
type QuestionType string

const (
	MultipleChoice QuestionType = "multiple_choice"
	Listening      QuestionType = "listening"
	Speaking       QuestionType = "speaking"
)

// Question is a closed tagged union over the three variants. Exactly one
// variant payload is set, matching Type: Options for MultipleChoice and
// Listening, Speaking for Speaking.
type Question struct {
	ID     string           `json:"id" validate:"required"`
	Title  string           `json:"title" validate:"required"`
	Skill  SkillTag         `json:"skill" validate:"required,skill_tag"`
	Level  ProficiencyLevel `json:"level" validate:"required,proficiency_level"`
	Weight int              `json:"weight" validate:"min=0,max=100"`
	Type   QuestionType     `json:"type" validate:"required,question_type"`

	Options  *OptionsPayload  `json:"options,omitempty"`
	Speaking *SpeakingPayload `json:"speaking,omitempty"`
}

// Option is one selectable choice of an option-based question.
type Option struct {
	ID   string `json:"id" validate:"required"`
	Text string `json:"text" validate:"required"`
}

// OptionsPayload holds the variant data for MultipleChoice and Listening
// questions. Listening questions additionally reference the audio clip
// the learner hears before answering.
type OptionsPayload struct {
	Choices          []Option `json:"choices" validate:"required,min=2,dive"`
	CorrectOptionIDs []string `json:"correct_option_ids" validate:"required,min=1"`
	AudioURI         string   `json:"audio_uri,omitempty"`
}

// SpeakingPayload holds the variant data for Speaking questions.
type SpeakingPayload struct {
	Prompt             string   `json:"prompt" validate:"required"`
	ExpectedDurationMs int64    `json:"expected_duration_ms" validate:"min=0"`
	CriterionIDs       []string `json:"criterion_ids" validate:"required,min=1"`
}
