package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	apperrors "github.com/lemartins07/english-assessment-service/internal/errors"
	"github.com/lemartins07/english-assessment-service/internal/llm"
	"github.com/lemartins07/english-assessment-service/internal/models"
)

// RubricEvaluator scores a transcript against rubric criteria through
// an LLM capability.
type RubricEvaluator interface {
	// Evaluate returns the per-criterion scores and the weighted question
	// score. Weights are re-normalized over the given criteria so they
	// sum to 100 for this question.
	Evaluate(ctx context.Context, transcript string, criteria []models.Criterion) ([]models.CriterionScore, float64, error)
}

type rubricEvaluator struct {
	client llm.ChatClient
	logger *slog.Logger
}

// NewRubricEvaluator creates an evaluator over the given LLM client.
func NewRubricEvaluator(client llm.ChatClient, logger *slog.Logger) RubricEvaluator {
	return &rubricEvaluator{
		client: client,
		logger: logger,
	}
}

// criterionVerdict is the JSON shape the LLM is instructed to return.
type criterionVerdict struct {
	Score     float64 `json:"score"`
	Rationale string  `json:"rationale"`
}

func (e *rubricEvaluator) Evaluate(ctx context.Context, transcript string, criteria []models.Criterion) ([]models.CriterionScore, float64, error) {
	if len(criteria) == 0 {
		return nil, 0, apperrors.New(apperrors.KindBadRequest, "no rubric criteria to evaluate")
	}

	scores := make([]models.CriterionScore, 0, len(criteria))
	totalWeight := 0
	weighted := 0.0

	for _, criterion := range criteria {
		score, band, err := e.evaluateCriterion(ctx, transcript, criterion)
		if err != nil {
			return nil, 0, err
		}

		scores = append(scores, models.CriterionScore{
			CriterionID: criterion.ID,
			Score:       score,
			Band:        band,
		})

		weight := criterion.Weight
		if weight <= 0 {
			weight = 1
		}
		totalWeight += weight
		weighted += float64(weight) * score
	}

	// Re-normalize: the criterion weights referenced by one question are
	// scaled so they sum to 100 for that question.
	questionScore := weighted / float64(totalWeight)

	return scores, questionScore, nil
}

func (e *rubricEvaluator) evaluateCriterion(ctx context.Context, transcript string, criterion models.Criterion) (float64, models.BandLabel, error) {
	raw, err := e.client.CreateCompletion(ctx, buildCriterionSystemPrompt(criterion), transcript)
	if err != nil {
		return 0, "", apperrors.Wrap(apperrors.KindUpstreamError,
			fmt.Sprintf("rubric evaluation failed for criterion %s", criterion.ID), err)
	}

	var verdict criterionVerdict
	if err := json.Unmarshal([]byte(raw), &verdict); err != nil {
		e.logger.Error("unparseable rubric verdict",
			"criterion_id", criterion.ID,
			"raw", raw,
			"error", err)
		return 0, "", apperrors.Wrap(apperrors.KindInvalidResponse, "unparseable rubric verdict", err)
	}

	if verdict.Score < 0 || verdict.Score > 100 {
		return 0, "", apperrors.Newf(apperrors.KindInvalidResponse,
			"criterion %s score %g outside [0,100]", criterion.ID, verdict.Score)
	}

	// Bands cover 0-100 contiguously, so a missing band is a contract
	// violation by the fixture or the provider.
	band, ok := criterion.BandFor(verdict.Score)
	if !ok {
		return 0, "", apperrors.Newf(apperrors.KindInvalidResponse,
			"criterion %s score %g matches no descriptor band", criterion.ID, verdict.Score)
	}

	e.logger.Debug("criterion evaluated",
		"criterion_id", criterion.ID,
		"score", verdict.Score,
		"band", band.Label)

	return verdict.Score, band.Label, nil
}

func buildCriterionSystemPrompt(c models.Criterion) string {
	var sb strings.Builder
	sb.WriteString("You are a language proficiency rater. Score the transcript of a learner's spoken answer ")
	sb.WriteString("against ONE criterion.\n\n")
	sb.WriteString("CRITERION: " + c.Title + " (skill: " + string(c.Skill) + ")\n\n")
	sb.WriteString("DESCRIPTOR BANDS:\n")
	for _, b := range c.Bands {
		sb.WriteString(fmt.Sprintf("- %s [%g-%g]: %s\n", b.Label, b.MinScore, b.MaxScore, b.Descriptor))
	}
	sb.WriteString("\nINSTRUCTIONS:\n")
	sb.WriteString("- Judge only this criterion; ignore everything the bands do not describe.\n")
	sb.WriteString("- Pick the band that matches best, then a score inside that band's range.\n")
	sb.WriteString("\nRespond ONLY with a JSON object:\n")
	sb.WriteString(`{"score": <number 0 to 100>, "rationale": "<one sentence>"}`)
	sb.WriteString("\n")
	return sb.String()
}
