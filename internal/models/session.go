package models

import "time"

// CriterionScore records the rubric evaluation of one criterion for a
// spoken answer.
type CriterionScore struct {
	CriterionID string    `json:"criterion_id"`
	Score       float64   `json:"score"`
	Band        BandLabel `json:"band"`
}

// Response is the recorded, scored submission for one question. Option
// fields are set for MultipleChoice/Listening, transcript and rubric
// fields for Speaking.
type Response struct {
	QuestionID  string    `json:"question_id"`
	SubmittedAt time.Time `json:"submitted_at"`

	SelectedOptionIDs []string         `json:"selected_option_ids,omitempty"`
	Transcript        string           `json:"transcript,omitempty"`
	CriterionScores   []CriterionScore `json:"criterion_scores,omitempty"`

	Score float64 `json:"score"`
}

// Result is the aggregate outcome of a finalized session. Immutable once
// produced.
type Result struct {
	AggregateScore float64              `json:"aggregate_score"`
	SkillScores    map[SkillTag]float64 `json:"skill_scores"`
	Level          ProficiencyLevel     `json:"level"`
	FinalizedAt    time.Time            `json:"finalized_at"`
}

// Session is one learner's run through a blueprint. Responses are
// append-only per question id; Result is nil until the session is
// finalized and no mutation is accepted afterwards.
//
// The session itself carries no locking: racing submissions for
// different questions on the same session are serialized by the
// repository's optimistic version check, which is a caller contract of
// SessionRepository, not something the session enforces.
type Session struct {
	ID           string              `json:"id"`
	UserID       string              `json:"user_id"`
	BlueprintID  string              `json:"blueprint_id"`
	CreatedAt    time.Time           `json:"created_at"`
	CurrentIndex int                 `json:"current_index"`
	Responses    map[string]Response `json:"responses"`
	Result       *Result             `json:"result,omitempty"`

	// Version is bumped by the repository on every successful save and
	// used for optimistic conflict detection.
	Version int `json:"version"`
}

// Finalized reports whether the session has been sealed.
func (s *Session) Finalized() bool {
	return s.Result != nil
}

// Answered reports whether the question already has a recorded response.
func (s *Session) Answered(questionID string) bool {
	_, ok := s.Responses[questionID]
	return ok
}
