package services

import (
	"math"
	"time"

	"github.com/lemartins07/english-assessment-service/internal/models"
)

// scoreOptionAnswer is all-or-nothing: 100 when the selected option set
// equals the correct set, 0 otherwise.
func scoreOptionAnswer(selected, correct []string) float64 {
	if len(selected) != len(correct) {
		return 0
	}
	correctSet := make(map[string]bool, len(correct))
	for _, id := range correct {
		correctSet[id] = true
	}
	for _, id := range selected {
		if !correctSet[id] {
			return 0
		}
	}
	return 100
}

// nextUnansweredQuestion returns the id of the first question in
// blueprint order without a recorded response, or nil when the session
// is ready to finalize.
func nextUnansweredQuestion(blueprint *models.Blueprint, session *models.Session) *string {
	for _, q := range blueprint.Questions {
		if !session.Answered(q.ID) {
			id := q.ID
			return &id
		}
	}
	return nil
}

// computeResult aggregates all recorded responses into the session
// result: a blueprint-weight-weighted aggregate, a per-skill breakdown
// and the derived CEFR level. Scores are rounded to the nearest integer.
func computeResult(blueprint *models.Blueprint, session *models.Session, finalizedAt time.Time) *models.Result {
	type bucket struct {
		weighted float64
		weight   float64
	}

	total := bucket{}
	bySkill := make(map[models.SkillTag]*bucket)

	for _, question := range blueprint.Questions {
		response, ok := session.Responses[question.ID]
		if !ok {
			continue
		}
		w := float64(question.Weight)
		total.weighted += w * response.Score
		total.weight += w

		sb, ok := bySkill[question.Skill]
		if !ok {
			sb = &bucket{}
			bySkill[question.Skill] = sb
		}
		sb.weighted += w * response.Score
		sb.weight += w
	}

	result := &models.Result{
		SkillScores: make(map[models.SkillTag]float64, len(bySkill)),
		FinalizedAt: finalizedAt,
	}

	if total.weight > 0 {
		result.AggregateScore = math.Round(total.weighted / total.weight)
	}
	for skill, sb := range bySkill {
		if sb.weight > 0 {
			result.SkillScores[skill] = math.Round(sb.weighted / sb.weight)
		}
	}
	result.Level = models.LevelForScore(result.AggregateScore)

	return result
}
