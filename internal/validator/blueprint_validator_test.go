package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lemartins07/english-assessment-service/internal/models"
)

func validBlueprint() *models.Blueprint {
	return &models.Blueprint{
		ID:          "bp-test",
		Title:       "Test Blueprint",
		TargetLevel: models.LevelB1,
		Questions: []models.Question{
			{
				ID: "q-grammar", Title: "Grammar", Skill: models.SkillGrammar,
				Level: models.LevelB1, Weight: 100, Type: models.MultipleChoice,
				Options: &models.OptionsPayload{
					Choices: []models.Option{
						{ID: "a", Text: "right"},
						{ID: "b", Text: "wrong"},
					},
					CorrectOptionIDs: []string{"a"},
				},
			},
			{
				ID: "q-speaking", Title: "Speaking", Skill: models.SkillSpeaking,
				Level: models.LevelB1, Weight: 100, Type: models.Speaking,
				Speaking: &models.SpeakingPayload{
					Prompt:       "Talk about your hobbies.",
					CriterionIDs: []string{"c-fluency"},
				},
			},
		},
		Criteria: []models.Criterion{
			{
				ID: "c-fluency", Title: "Fluency", Skill: models.SkillSpeaking, Weight: 100,
				Bands: []models.DescriptorBand{
					{Label: models.BandNeedsSupport, MinScore: 0, MaxScore: 49},
					{Label: models.BandProficient, MinScore: 50, MaxScore: 100},
				},
			},
		},
	}
}

func TestValidateBlueprint_Valid(t *testing.T) {
	v := NewBlueprintValidator()
	require.NoError(t, v.ValidateBlueprint(validBlueprint()))
}

func TestValidateBlueprint_NoQuestions(t *testing.T) {
	b := validBlueprint()
	b.Questions = nil

	err := NewBlueprintValidator().ValidateBlueprint(b)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no questions")
}

func TestValidateBlueprint_SkillWeightsMustSumTo100(t *testing.T) {
	b := validBlueprint()
	b.Questions[0].Weight = 80

	err := NewBlueprintValidator().ValidateBlueprint(b)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sum to 80")
}

func TestValidateBlueprint_VariantPayloadExclusivity(t *testing.T) {
	t.Run("option question with speaking payload", func(t *testing.T) {
		b := validBlueprint()
		b.Questions[0].Speaking = &models.SpeakingPayload{Prompt: "?", CriterionIDs: []string{"c-fluency"}}

		err := NewBlueprintValidator().ValidateBlueprint(b)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "options payload only")
	})

	t.Run("speaking question without payload", func(t *testing.T) {
		b := validBlueprint()
		b.Questions[1].Speaking = nil

		err := NewBlueprintValidator().ValidateBlueprint(b)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "speaking payload only")
	})
}

func TestValidateBlueprint_CorrectOptionMustBeAChoice(t *testing.T) {
	b := validBlueprint()
	b.Questions[0].Options.CorrectOptionIDs = []string{"nope"}

	err := NewBlueprintValidator().ValidateBlueprint(b)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a choice")
}

func TestValidateBlueprint_UnknownCriterionReference(t *testing.T) {
	b := validBlueprint()
	b.Questions[1].Speaking.CriterionIDs = []string{"c-missing"}

	err := NewBlueprintValidator().ValidateBlueprint(b)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown criterion")
}

func TestValidateBlueprint_BandCoverage(t *testing.T) {
	t.Run("must start at 0", func(t *testing.T) {
		b := validBlueprint()
		b.Criteria[0].Bands[0].MinScore = 5

		err := NewBlueprintValidator().ValidateBlueprint(b)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "start at 0")
	})

	t.Run("must end at 100", func(t *testing.T) {
		b := validBlueprint()
		b.Criteria[0].Bands[1].MaxScore = 95

		err := NewBlueprintValidator().ValidateBlueprint(b)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "end at 100")
	})

	t.Run("no gap between bands", func(t *testing.T) {
		b := validBlueprint()
		b.Criteria[0].Bands[1].MinScore = 55

		err := NewBlueprintValidator().ValidateBlueprint(b)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "gap or overlap")
	})

	t.Run("no overlap between bands", func(t *testing.T) {
		b := validBlueprint()
		b.Criteria[0].Bands[1].MinScore = 45

		err := NewBlueprintValidator().ValidateBlueprint(b)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "gap or overlap")
	})
}
