package services

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lemartins07/english-assessment-service/internal/asr"
	apperrors "github.com/lemartins07/english-assessment-service/internal/errors"
	"github.com/lemartins07/english-assessment-service/internal/events"
	"github.com/lemartins07/english-assessment-service/internal/models"
	"github.com/lemartins07/english-assessment-service/internal/repositories"
	"github.com/lemartins07/english-assessment-service/internal/validator"
)

// ===== TEST DOUBLES =====

type stubTranscriber struct {
	output *models.TranscribeOutput
	err    error
	calls  int
}

func (t *stubTranscriber) TranscribeShortAudio(ctx context.Context, input models.TranscribeInput, opts asr.CallOptions) (*models.TranscribeOutput, error) {
	t.calls++
	if t.err != nil {
		return nil, t.err
	}
	return t.output, nil
}

type stubEvaluator struct {
	scores        []models.CriterionScore
	questionScore float64
	err           error
}

func (e *stubEvaluator) Evaluate(ctx context.Context, transcript string, criteria []models.Criterion) ([]models.CriterionScore, float64, error) {
	if e.err != nil {
		return nil, 0, e.err
	}
	return e.scores, e.questionScore, nil
}

// ===== FIXTURE =====

func placementBlueprint() *models.Blueprint {
	return &models.Blueprint{
		ID:          "bp-placement",
		Title:       "English Placement",
		TargetLevel: models.LevelB1,
		Questions: []models.Question{
			{
				ID: "q-grammar", Title: "Present perfect", Skill: models.SkillGrammar,
				Level: models.LevelB1, Weight: 100, Type: models.MultipleChoice,
				Options: &models.OptionsPayload{
					Choices: []models.Option{
						{ID: "a", Text: "has gone"},
						{ID: "b", Text: "have gone"},
						{ID: "c", Text: "goed"},
					},
					CorrectOptionIDs: []string{"a"},
				},
			},
			{
				ID: "q-listening", Title: "Airport announcement", Skill: models.SkillListening,
				Level: models.LevelB1, Weight: 100, Type: models.Listening,
				Options: &models.OptionsPayload{
					Choices: []models.Option{
						{ID: "x", Text: "Gate 4"},
						{ID: "y", Text: "Gate 14"},
					},
					CorrectOptionIDs: []string{"y"},
					AudioURI:         "s3://clips/announcement.ogg",
				},
			},
			{
				ID: "q-speaking", Title: "Describe your weekend", Skill: models.SkillSpeaking,
				Level: models.LevelB1, Weight: 100, Type: models.Speaking,
				Speaking: &models.SpeakingPayload{
					Prompt:             "Describe what you did last weekend.",
					ExpectedDurationMs: 60000,
					CriterionIDs:       []string{"c-fluency"},
				},
			},
		},
		Criteria: []models.Criterion{
			{
				ID: "c-fluency", Title: "Fluency", Skill: models.SkillSpeaking, Weight: 100,
				Bands: []models.DescriptorBand{
					{Label: models.BandNeedsSupport, MinScore: 0, MaxScore: 39},
					{Label: models.BandEmerging, MinScore: 40, MaxScore: 64},
					{Label: models.BandProficient, MinScore: 65, MaxScore: 84},
					{Label: models.BandAdvanced, MinScore: 85, MaxScore: 100},
				},
			},
		},
	}
}

type fixture struct {
	service     AssessmentService
	sessions    *repositories.MemorySessionRepository
	publisher   *events.MockEventPublisher
	transcriber *stubTranscriber
	evaluator   *stubEvaluator
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	sessions := repositories.NewMemorySessionRepository()
	blueprints := repositories.NewStaticBlueprintProvider(placementBlueprint())
	publisher := events.NewMockEventPublisher(logger)
	transcriber := &stubTranscriber{
		output: &models.TranscribeOutput{Transcript: "last weekend I visited my grandmother", DurationMs: 42000},
	}
	evaluator := &stubEvaluator{
		scores:        []models.CriterionScore{{CriterionID: "c-fluency", Score: 80, Band: models.BandProficient}},
		questionScore: 80,
	}

	return &fixture{
		service: NewAssessmentService(
			sessions, blueprints, transcriber, evaluator, publisher, logger, validator.New()),
		sessions:    sessions,
		publisher:   publisher,
		transcriber: transcriber,
		evaluator:   evaluator,
	}
}

func (f *fixture) start(t *testing.T) *StartAssessmentResponse {
	t.Helper()
	resp, err := f.service.Start(context.Background(), &StartAssessmentRequest{
		UserID:      "user-1",
		BlueprintID: "bp-placement",
		RequestedAt: time.Now().UTC(),
	})
	require.NoError(t, err)
	return resp
}

func optionAnswer(ids ...string) models.Answer {
	return models.Answer{Type: models.MultipleChoice, Option: &models.OptionAnswer{SelectedOptionIDs: ids}}
}

func listeningAnswer(ids ...string) models.Answer {
	return models.Answer{Type: models.Listening, Option: &models.OptionAnswer{SelectedOptionIDs: ids}}
}

func speechAnswer() models.Answer {
	return models.Answer{Type: models.Speaking, Speech: &models.SpeechAnswer{
		Audio: models.ShortAudioFileRef{URI: "s3://answers/weekend.ogg"},
	}}
}

// ===== START =====

func TestStart_UnknownBlueprint(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Start(context.Background(), &StartAssessmentRequest{
		UserID:      "user-1",
		BlueprintID: "bp-missing",
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

func TestStart_CreatesSessionAndEmitsEvent(t *testing.T) {
	f := newFixture(t)

	resp := f.start(t)
	assert.NotEmpty(t, resp.SessionID)
	assert.Len(t, resp.Questions, 3)
	assert.Empty(t, resp.Session.Responses)

	require.Eventually(t, func() bool {
		return len(f.publisher.GetPublishedEvents()) == 1
	}, time.Second, 10*time.Millisecond)

	event := f.publisher.GetPublishedEvents()[0]
	assert.Equal(t, events.EventSessionStarted, event.Type)

	data, ok := event.Data.(events.SessionStartedEvent)
	require.True(t, ok)
	assert.Equal(t, resp.SessionID, data.SessionID)
	assert.Equal(t, "user-1", data.UserID)
}

func TestStart_ConcurrentStartsAreIndependent(t *testing.T) {
	f := newFixture(t)

	first := f.start(t)
	second := f.start(t)
	assert.NotEqual(t, first.SessionID, second.SessionID)
}

// ===== SUBMIT =====

func TestSubmit_SessionNotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.SubmitResponse(context.Background(), &SubmitResponseRequest{
		SessionID:  "nope",
		QuestionID: "q-grammar",
		Answer:     optionAnswer("a"),
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

func TestSubmit_CorrectAndIncorrectOptions(t *testing.T) {
	f := newFixture(t)
	started := f.start(t)

	resp, err := f.service.SubmitResponse(context.Background(), &SubmitResponseRequest{
		SessionID:  started.SessionID,
		QuestionID: "q-grammar",
		Answer:     optionAnswer("a"),
	})
	require.NoError(t, err)
	assert.True(t, resp.Accepted)
	assert.Equal(t, float64(100), resp.Score)
	require.NotNil(t, resp.NextQuestionID)
	assert.Equal(t, "q-listening", *resp.NextQuestionID)

	resp, err = f.service.SubmitResponse(context.Background(), &SubmitResponseRequest{
		SessionID:  started.SessionID,
		QuestionID: "q-listening",
		Answer:     listeningAnswer("x"),
	})
	require.NoError(t, err)
	assert.Equal(t, float64(0), resp.Score)
}

func TestSubmit_SameQuestionTwiceConflicts(t *testing.T) {
	f := newFixture(t)
	started := f.start(t)

	req := &SubmitResponseRequest{
		SessionID:  started.SessionID,
		QuestionID: "q-grammar",
		Answer:     optionAnswer("a"),
	}
	_, err := f.service.SubmitResponse(context.Background(), req)
	require.NoError(t, err)

	_, err = f.service.SubmitResponse(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))
}

func TestSubmit_VariantMismatch(t *testing.T) {
	f := newFixture(t)
	started := f.start(t)

	// An option answer against the speaking question.
	answer := optionAnswer("a")
	_, err := f.service.SubmitResponse(context.Background(), &SubmitResponseRequest{
		SessionID:  started.SessionID,
		QuestionID: "q-speaking",
		Answer:     answer,
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindBadRequest, apperrors.KindOf(err))
}

func TestSubmit_SpeakingScoresThroughProviders(t *testing.T) {
	f := newFixture(t)
	started := f.start(t)

	resp, err := f.service.SubmitResponse(context.Background(), &SubmitResponseRequest{
		SessionID:  started.SessionID,
		QuestionID: "q-speaking",
		Answer:     speechAnswer(),
	})
	require.NoError(t, err)
	assert.Equal(t, float64(80), resp.Score)
	assert.Equal(t, 1, f.transcriber.calls)

	session, err := f.service.GetSession(context.Background(), started.SessionID)
	require.NoError(t, err)
	recorded := session.Responses["q-speaking"]
	assert.Equal(t, "last weekend I visited my grandmother", recorded.Transcript)
	require.Len(t, recorded.CriterionScores, 1)
	assert.Equal(t, models.BandProficient, recorded.CriterionScores[0].Band)
}

func TestSubmit_AdapterFailureBecomesDependencyFailure(t *testing.T) {
	f := newFixture(t)
	started := f.start(t)

	f.transcriber.err = apperrors.New(apperrors.KindTimeout, "transcription exceeded 30s")

	_, err := f.service.SubmitResponse(context.Background(), &SubmitResponseRequest{
		SessionID:  started.SessionID,
		QuestionID: "q-speaking",
		Answer:     speechAnswer(),
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindDependencyFailure, apperrors.KindOf(err))
	// The original adapter kind stays available for diagnostics.
	assert.Equal(t, apperrors.KindTimeout, apperrors.CauseKind(err))

	// The failed submission records nothing; the question can be retried.
	session, err := f.service.GetSession(context.Background(), started.SessionID)
	require.NoError(t, err)
	assert.False(t, session.Answered("q-speaking"))
}

func TestSubmit_EvaluatorFailureBecomesDependencyFailure(t *testing.T) {
	f := newFixture(t)
	started := f.start(t)

	f.evaluator.err = apperrors.New(apperrors.KindInvalidResponse, "score outside [0,100]")

	_, err := f.service.SubmitResponse(context.Background(), &SubmitResponseRequest{
		SessionID:  started.SessionID,
		QuestionID: "q-speaking",
		Answer:     speechAnswer(),
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindDependencyFailure, apperrors.KindOf(err))
	assert.Equal(t, apperrors.KindInvalidResponse, apperrors.CauseKind(err))
}

// ===== FINALIZE =====

func TestFinalize_IncompleteSession(t *testing.T) {
	f := newFixture(t)
	started := f.start(t)

	_, err := f.service.SubmitResponse(context.Background(), &SubmitResponseRequest{
		SessionID:  started.SessionID,
		QuestionID: "q-grammar",
		Answer:     optionAnswer("a"),
	})
	require.NoError(t, err)

	_, err = f.service.Finalize(context.Background(), started.SessionID)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindIncomplete, apperrors.KindOf(err))
}

func TestFinalize_EndToEnd(t *testing.T) {
	f := newFixture(t)
	started := f.start(t)
	ctx := context.Background()

	submissions := []*SubmitResponseRequest{
		{SessionID: started.SessionID, QuestionID: "q-grammar", Answer: optionAnswer("a")},
		{SessionID: started.SessionID, QuestionID: "q-listening", Answer: listeningAnswer("x")},
		{SessionID: started.SessionID, QuestionID: "q-speaking", Answer: speechAnswer()},
	}
	for _, req := range submissions {
		_, err := f.service.SubmitResponse(ctx, req)
		require.NoError(t, err)
	}

	result, err := f.service.Finalize(ctx, started.SessionID)
	require.NoError(t, err)

	// Scores {100, 0, 80}, each skill weighted 100: aggregate is
	// round(180/3) = 60, which sits in the B2 band.
	assert.Equal(t, float64(60), result.AggregateScore)
	assert.Equal(t, models.LevelB2, result.Level)
	assert.Equal(t, float64(100), result.SkillScores[models.SkillGrammar])
	assert.Equal(t, float64(0), result.SkillScores[models.SkillListening])
	assert.Equal(t, float64(80), result.SkillScores[models.SkillSpeaking])
	assert.False(t, result.FinalizedAt.IsZero())

	require.Eventually(t, func() bool {
		return len(f.publisher.GetPublishedEvents()) == 2
	}, time.Second, 10*time.Millisecond)

	var finalized *events.RetentionEvent
	for _, event := range f.publisher.GetPublishedEvents() {
		if event.Type == events.EventSessionFinalized {
			e := event
			finalized = &e
		}
	}
	require.NotNil(t, finalized)
	data, ok := finalized.Data.(events.SessionFinalizedEvent)
	require.True(t, ok)
	assert.Equal(t, "user-1", data.UserID)
	assert.Equal(t, float64(60), data.AggregateScore)
}

func TestFinalize_TwiceConflicts(t *testing.T) {
	f := newFixture(t)
	started := f.start(t)
	ctx := context.Background()

	for _, req := range []*SubmitResponseRequest{
		{SessionID: started.SessionID, QuestionID: "q-grammar", Answer: optionAnswer("a")},
		{SessionID: started.SessionID, QuestionID: "q-listening", Answer: listeningAnswer("y")},
		{SessionID: started.SessionID, QuestionID: "q-speaking", Answer: speechAnswer()},
	} {
		_, err := f.service.SubmitResponse(ctx, req)
		require.NoError(t, err)
	}

	_, err := f.service.Finalize(ctx, started.SessionID)
	require.NoError(t, err)

	_, err = f.service.Finalize(ctx, started.SessionID)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))

	// A finalized session accepts no further submissions.
	_, err = f.service.SubmitResponse(ctx, &SubmitResponseRequest{
		SessionID:  started.SessionID,
		QuestionID: "q-grammar",
		Answer:     optionAnswer("a"),
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))
}

func TestFinalize_NotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Finalize(context.Background(), "nope")
	require.Error(t, err)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

// ===== HELPERS =====

func TestScoreOptionAnswer(t *testing.T) {
	tests := []struct {
		name     string
		selected []string
		correct  []string
		want     float64
	}{
		{"exact match", []string{"a"}, []string{"a"}, 100},
		{"multi match any order", []string{"b", "a"}, []string{"a", "b"}, 100},
		{"wrong option", []string{"c"}, []string{"a"}, 0},
		{"subset", []string{"a"}, []string{"a", "b"}, 0},
		{"superset", []string{"a", "b"}, []string{"a"}, 0},
		{"empty selection", nil, []string{"a"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, scoreOptionAnswer(tt.selected, tt.correct))
		})
	}
}
