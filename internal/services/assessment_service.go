package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/lemartins07/english-assessment-service/internal/asr"
	apperrors "github.com/lemartins07/english-assessment-service/internal/errors"
	"github.com/lemartins07/english-assessment-service/internal/events"
	"github.com/lemartins07/english-assessment-service/internal/models"
	"github.com/lemartins07/english-assessment-service/internal/repositories"
	"github.com/lemartins07/english-assessment-service/internal/validator"
)

// SpeechTranscriber is the adapter capability the submit use case
// depends on. *asr.Adapter satisfies it; tests inject stubs.
type SpeechTranscriber interface {
	TranscribeShortAudio(ctx context.Context, input models.TranscribeInput, opts asr.CallOptions) (*models.TranscribeOutput, error)
}

// ===== REQUEST / RESPONSE SHAPES =====

type StartAssessmentRequest struct {
	UserID      string    `json:"user_id" validate:"required"`
	BlueprintID string    `json:"blueprint_id" validate:"required"`
	RequestedAt time.Time `json:"requested_at"`
}

type StartAssessmentResponse struct {
	SessionID string          `json:"session_id"`
	Session   *models.Session `json:"session"`
	// Questions is the blueprint's ordered question sequence, exposed so
	// the caller can drive the learner through it.
	Questions []models.Question `json:"questions"`
}

type SubmitResponseRequest struct {
	SessionID  string        `json:"session_id" validate:"required"`
	QuestionID string        `json:"question_id" validate:"required"`
	Answer     models.Answer `json:"answer" validate:"required"`
}

type SubmitResponseResponse struct {
	Accepted       bool    `json:"accepted"`
	Score          float64 `json:"score"`
	NextQuestionID *string `json:"next_question_id,omitempty"`
}

// AssessmentService drives a learner's session through a blueprint.
//
// Caller contract: the service assumes one in-flight submission per
// session. Racing submissions for different questions are not
// serialized here; the repository's optimistic version check rejects
// the loser with a CONFLICT.
type AssessmentService interface {
	Start(ctx context.Context, req *StartAssessmentRequest) (*StartAssessmentResponse, error)
	SubmitResponse(ctx context.Context, req *SubmitResponseRequest) (*SubmitResponseResponse, error)
	Finalize(ctx context.Context, sessionID string) (*models.Result, error)
	GetSession(ctx context.Context, sessionID string) (*models.Session, error)
}

type assessmentService struct {
	sessions    repositories.SessionRepository
	blueprints  repositories.BlueprintProvider
	transcriber SpeechTranscriber
	evaluator   RubricEvaluator
	publisher   events.EventPublisher
	logger      *slog.Logger
	validator   *validator.Validator
}

// NewAssessmentService wires the session use cases with their collaborators.
func NewAssessmentService(
	sessions repositories.SessionRepository,
	blueprints repositories.BlueprintProvider,
	transcriber SpeechTranscriber,
	evaluator RubricEvaluator,
	publisher events.EventPublisher,
	logger *slog.Logger,
	v *validator.Validator,
) AssessmentService {
	return &assessmentService{
		sessions:    sessions,
		blueprints:  blueprints,
		transcriber: transcriber,
		evaluator:   evaluator,
		publisher:   publisher,
		logger:      logger,
		validator:   v,
	}
}

// ===== START =====

func (s *assessmentService) Start(ctx context.Context, req *StartAssessmentRequest) (*StartAssessmentResponse, error) {
	s.logger.Info("Starting assessment session",
		"user_id", req.UserID,
		"blueprint_id", req.BlueprintID)

	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	blueprint, err := s.blueprints.GetByID(ctx, req.BlueprintID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrBlueprintNotFound
		}
		return nil, fmt.Errorf("failed to load blueprint: %w", err)
	}

	requestedAt := req.RequestedAt
	if requestedAt.IsZero() {
		requestedAt = time.Now().UTC()
	}

	session := &models.Session{
		ID:          uuid.NewString(),
		UserID:      req.UserID,
		BlueprintID: blueprint.ID,
		CreatedAt:   requestedAt,
		Responses:   make(map[string]models.Response),
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	s.emitRetention(events.EventSessionStarted, events.SessionStartedEvent{
		SessionID:   session.ID,
		UserID:      session.UserID,
		BlueprintID: session.BlueprintID,
		StartedAt:   session.CreatedAt,
	})

	s.logger.Info("Assessment session started",
		"session_id", session.ID,
		"blueprint_id", blueprint.ID,
		"questions", len(blueprint.Questions))

	return &StartAssessmentResponse{
		SessionID: session.ID,
		Session:   session,
		Questions: blueprint.Questions,
	}, nil
}

// ===== SUBMIT =====

func (s *assessmentService) SubmitResponse(ctx context.Context, req *SubmitResponseRequest) (*SubmitResponseResponse, error) {
	s.logger.Info("Submitting response",
		"session_id", req.SessionID,
		"question_id", req.QuestionID,
		"answer_type", req.Answer.Type)

	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	session, err := s.sessions.GetByID(ctx, req.SessionID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	if session.Finalized() {
		return nil, ErrSessionAlreadyFinalized
	}
	if session.Answered(req.QuestionID) {
		return nil, ErrQuestionAlreadyAnswered
	}

	blueprint, err := s.blueprints.GetByID(ctx, session.BlueprintID)
	if err != nil {
		return nil, fmt.Errorf("failed to load blueprint: %w", err)
	}

	question, ok := blueprint.QuestionByID(req.QuestionID)
	if !ok {
		return nil, ErrQuestionNotFound
	}

	response, err := s.scoreAnswer(ctx, blueprint, question, req.Answer)
	if err != nil {
		return nil, err
	}

	session.Responses[question.ID] = *response
	session.CurrentIndex = len(session.Responses)

	if err := s.sessions.Update(ctx, session); err != nil {
		if repositories.IsConflictError(err) {
			return nil, ErrSubmissionConflict
		}
		if repositories.IsNotFoundError(err) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	s.logger.Info("Response recorded",
		"session_id", session.ID,
		"question_id", question.ID,
		"score", response.Score)

	return &SubmitResponseResponse{
		Accepted:       true,
		Score:          response.Score,
		NextQuestionID: nextUnansweredQuestion(blueprint, session),
	}, nil
}

// scoreAnswer dispatches on the question variant. The switch is
// exhaustive over the closed variant set.
func (s *assessmentService) scoreAnswer(ctx context.Context, blueprint *models.Blueprint, question models.Question, answer models.Answer) (*models.Response, error) {
	if answer.Type != question.Type {
		return nil, ErrAnswerVariantMismatch
	}

	response := &models.Response{
		QuestionID:  question.ID,
		SubmittedAt: time.Now().UTC(),
	}

	switch question.Type {
	case models.MultipleChoice, models.Listening:
		if answer.Option == nil {
			return nil, ErrAnswerVariantMismatch
		}
		response.SelectedOptionIDs = answer.Option.SelectedOptionIDs
		response.Score = scoreOptionAnswer(answer.Option.SelectedOptionIDs, question.Options.CorrectOptionIDs)

	case models.Speaking:
		if answer.Speech == nil {
			return nil, ErrAnswerVariantMismatch
		}
		transcript, criterionScores, score, err := s.scoreSpokenAnswer(ctx, blueprint, question, answer.Speech)
		if err != nil {
			return nil, err
		}
		response.Transcript = transcript
		response.CriterionScores = criterionScores
		response.Score = score

	default:
		return nil, ErrAnswerVariantMismatch
	}

	return response, nil
}

// scoreSpokenAnswer runs the provider adapter then the rubric evaluator.
// Any adapter or evaluator failure surfaces as DEPENDENCY_FAILURE with
// the original kind preserved underneath for diagnostics.
func (s *assessmentService) scoreSpokenAnswer(ctx context.Context, blueprint *models.Blueprint, question models.Question, answer *models.SpeechAnswer) (string, []models.CriterionScore, float64, error) {
	output, err := s.transcriber.TranscribeShortAudio(ctx, models.TranscribeInput{
		Audio:      answer.Audio,
		LocaleHint: answer.LocaleHint,
		Prompt:     question.Speaking.Prompt,
	}, asr.CallOptions{})
	if err != nil {
		s.logger.Error("Transcription failed",
			"question_id", question.ID,
			"kind", apperrors.KindOf(err),
			"error", err)
		return "", nil, 0, apperrors.Wrap(apperrors.KindDependencyFailure, "speech transcription failed", err)
	}

	criterionScores, score, err := s.evaluator.Evaluate(ctx, output.Transcript, blueprint.CriteriaFor(question))
	if err != nil {
		s.logger.Error("Rubric evaluation failed",
			"question_id", question.ID,
			"kind", apperrors.KindOf(err),
			"error", err)
		return "", nil, 0, apperrors.Wrap(apperrors.KindDependencyFailure, "rubric evaluation failed", err)
	}

	return output.Transcript, criterionScores, score, nil
}

// ===== FINALIZE =====

func (s *assessmentService) Finalize(ctx context.Context, sessionID string) (*models.Result, error) {
	s.logger.Info("Finalizing assessment session", "session_id", sessionID)

	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	if session.Finalized() {
		return nil, ErrSessionAlreadyFinalized
	}

	blueprint, err := s.blueprints.GetByID(ctx, session.BlueprintID)
	if err != nil {
		return nil, fmt.Errorf("failed to load blueprint: %w", err)
	}

	for _, question := range blueprint.Questions {
		if !session.Answered(question.ID) {
			return nil, ErrSessionIncomplete
		}
	}

	result := computeResult(blueprint, session, time.Now().UTC())
	session.Result = result

	if err := s.sessions.Update(ctx, session); err != nil {
		if repositories.IsConflictError(err) {
			return nil, ErrSubmissionConflict
		}
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	s.emitRetention(events.EventSessionFinalized, events.SessionFinalizedEvent{
		SessionID:      session.ID,
		UserID:         session.UserID,
		BlueprintID:    session.BlueprintID,
		AggregateScore: result.AggregateScore,
		Level:          result.Level,
		SkillScores:    result.SkillScores,
		FinalizedAt:    result.FinalizedAt,
	})

	s.logger.Info("Assessment session finalized",
		"session_id", session.ID,
		"aggregate_score", result.AggregateScore,
		"level", result.Level)

	return result, nil
}

// ===== GET =====

func (s *assessmentService) GetSession(ctx context.Context, sessionID string) (*models.Session, error) {
	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return session, nil
}

// emitRetention publishes a lifecycle event fire-and-forget: emitter
// failures are logged and never fail the use case.
func (s *assessmentService) emitRetention(eventType events.EventType, data interface{}) {
	event := events.NewRetentionEvent(eventType, data)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.publisher.PublishRetentionEvent(ctx, event); err != nil {
			s.logger.Error("Failed to publish retention event",
				"event_type", eventType,
				"error", err)
		}
	}()
}
