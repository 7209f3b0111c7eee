package validator

import (
	"fmt"

	"github.com/lemartins07/english-assessment-service/internal/models"
)

// BlueprintValidator checks the structural invariants a blueprint must
// satisfy before it can be published:
//   - question weights within a skill group sum to 100
//   - each question carries exactly the payload its variant requires
//   - speaking questions reference only criteria the blueprint defines
//   - criterion bands cover 0-100 contiguously without overlap
type BlueprintValidator struct{}

// NewBlueprintValidator creates a new blueprint validator
func NewBlueprintValidator() *BlueprintValidator {
	return &BlueprintValidator{}
}

// ValidateBlueprint validates a complete blueprint.
func (v *BlueprintValidator) ValidateBlueprint(b *models.Blueprint) error {
	if len(b.Questions) == 0 {
		return fmt.Errorf("blueprint %s has no questions", b.ID)
	}

	weightBySkill := make(map[models.SkillTag]int)
	for i := range b.Questions {
		q := b.Questions[i]
		if err := v.validateQuestionPayload(b, q); err != nil {
			return err
		}
		weightBySkill[q.Skill] += q.Weight
	}

	for skill, total := range weightBySkill {
		if total != 100 {
			return fmt.Errorf("blueprint %s: %s question weights sum to %d, want 100", b.ID, skill, total)
		}
	}

	for _, c := range b.Criteria {
		if err := v.validateCriterionBands(c); err != nil {
			return fmt.Errorf("blueprint %s: %w", b.ID, err)
		}
	}

	return nil
}

func (v *BlueprintValidator) validateQuestionPayload(b *models.Blueprint, q models.Question) error {
	switch q.Type {
	case models.MultipleChoice, models.Listening:
		if q.Options == nil || q.Speaking != nil {
			return fmt.Errorf("question %s: %s questions carry an options payload only", q.ID, q.Type)
		}
		choiceIDs := make(map[string]bool, len(q.Options.Choices))
		for _, o := range q.Options.Choices {
			choiceIDs[o.ID] = true
		}
		for _, id := range q.Options.CorrectOptionIDs {
			if !choiceIDs[id] {
				return fmt.Errorf("question %s: correct option %s is not a choice", q.ID, id)
			}
		}
	case models.Speaking:
		if q.Speaking == nil || q.Options != nil {
			return fmt.Errorf("question %s: speaking questions carry a speaking payload only", q.ID)
		}
		for _, id := range q.Speaking.CriterionIDs {
			if _, ok := b.CriterionByID(id); !ok {
				return fmt.Errorf("question %s: unknown criterion %s", q.ID, id)
			}
		}
	default:
		return fmt.Errorf("question %s: unsupported question type %s", q.ID, q.Type)
	}
	return nil
}

func (v *BlueprintValidator) validateCriterionBands(c models.Criterion) error {
	if len(c.Bands) == 0 {
		return fmt.Errorf("criterion %s has no descriptor bands", c.ID)
	}

	if c.Bands[0].MinScore != 0 {
		return fmt.Errorf("criterion %s: bands must start at 0, got %g", c.ID, c.Bands[0].MinScore)
	}
	if c.Bands[len(c.Bands)-1].MaxScore != 100 {
		return fmt.Errorf("criterion %s: bands must end at 100, got %g", c.ID, c.Bands[len(c.Bands)-1].MaxScore)
	}

	for i, band := range c.Bands {
		if band.MinScore > band.MaxScore {
			return fmt.Errorf("criterion %s: band %s has min %g above max %g", c.ID, band.Label, band.MinScore, band.MaxScore)
		}
		if i > 0 {
			prev := c.Bands[i-1]
			// Bands hold inclusive integer-granularity ranges; each band
			// starts one point above the previous band's max.
			if band.MinScore != prev.MaxScore+1 {
				return fmt.Errorf("criterion %s: gap or overlap between bands %s and %s", c.ID, prev.Label, band.Label)
			}
		}
	}

	return nil
}
