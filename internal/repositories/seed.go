package repositories

import "github.com/lemartins07/english-assessment-service/internal/models"

// SeedPlacementBlueprint returns the built-in English placement
// blueprint used when no external blueprint source is configured.
func SeedPlacementBlueprint() *models.Blueprint {
	return &models.Blueprint{
		ID:          "bp-english-placement-v1",
		Title:       "English Placement Assessment",
		TargetLevel: models.LevelB2,
		Questions: []models.Question{
			{
				ID:     "q-grammar-conditional",
				Title:  "Choose the correct conditional form",
				Skill:  models.SkillGrammar,
				Level:  models.LevelB1,
				Weight: 60,
				Type:   models.MultipleChoice,
				Options: &models.OptionsPayload{
					Choices: []models.Option{
						{ID: "a", Text: "If I had known, I would have called you."},
						{ID: "b", Text: "If I would know, I had called you."},
						{ID: "c", Text: "If I know, I would have called you."},
					},
					CorrectOptionIDs: []string{"a"},
				},
			},
			{
				ID:     "q-grammar-articles",
				Title:  "Pick the sentence with correct article usage",
				Skill:  models.SkillGrammar,
				Level:  models.LevelA2,
				Weight: 40,
				Type:   models.MultipleChoice,
				Options: &models.OptionsPayload{
					Choices: []models.Option{
						{ID: "a", Text: "She is engineer at a big company."},
						{ID: "b", Text: "She is an engineer at a big company."},
						{ID: "c", Text: "She is the engineer at big company."},
					},
					CorrectOptionIDs: []string{"b"},
				},
			},
			{
				ID:     "q-listening-announcement",
				Title:  "Listen to the announcement and answer",
				Skill:  models.SkillListening,
				Level:  models.LevelB1,
				Weight: 100,
				Type:   models.Listening,
				Options: &models.OptionsPayload{
					Choices: []models.Option{
						{ID: "x", Text: "The train leaves from platform 2."},
						{ID: "y", Text: "The train is delayed by 20 minutes."},
						{ID: "z", Text: "The train has been cancelled."},
					},
					CorrectOptionIDs: []string{"y"},
					AudioURI:         "gs://english-assessment-assets/listening/announcement-01.wav",
				},
			},
			{
				ID:     "q-speaking-daily-routine",
				Title:  "Describe your daily routine",
				Skill:  models.SkillSpeaking,
				Level:  models.LevelB1,
				Weight: 100,
				Type:   models.Speaking,
				Speaking: &models.SpeakingPayload{
					Prompt:             "Describe a typical day in your life, from morning to evening.",
					ExpectedDurationMs: 60_000,
					CriterionIDs:       []string{"c-fluency", "c-vocabulary"},
				},
			},
		},
		Criteria: []models.Criterion{
			{
				ID:     "c-fluency",
				Title:  "Fluency",
				Skill:  models.SkillSpeaking,
				Weight: 60,
				Bands: []models.DescriptorBand{
					{Label: models.BandNeedsSupport, Descriptor: "Frequent long pauses; speech is fragmented.", MinScore: 0, MaxScore: 39},
					{Label: models.BandEmerging, Descriptor: "Noticeable hesitation but the message comes through.", MinScore: 40, MaxScore: 64},
					{Label: models.BandProficient, Descriptor: "Mostly smooth delivery with occasional self-correction.", MinScore: 65, MaxScore: 84},
					{Label: models.BandAdvanced, Descriptor: "Effortless, natural delivery throughout.", MinScore: 85, MaxScore: 100},
				},
			},
			{
				ID:     "c-vocabulary",
				Title:  "Vocabulary range",
				Skill:  models.SkillSpeaking,
				Weight: 40,
				Bands: []models.DescriptorBand{
					{Label: models.BandNeedsSupport, Descriptor: "Very limited word choice; heavy repetition.", MinScore: 0, MaxScore: 39},
					{Label: models.BandEmerging, Descriptor: "Everyday vocabulary with occasional gaps.", MinScore: 40, MaxScore: 64},
					{Label: models.BandProficient, Descriptor: "Varied vocabulary used mostly accurately.", MinScore: 65, MaxScore: 84},
					{Label: models.BandAdvanced, Descriptor: "Wide, precise vocabulary including idiomatic usage.", MinScore: 85, MaxScore: 100},
				},
			},
		},
	}
}
