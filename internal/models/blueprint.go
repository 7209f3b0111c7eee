package models

// SkillTag identifies the skill a question or criterion measures.
type SkillTag string

const (
	SkillGrammar   SkillTag = "grammar"
	SkillListening SkillTag = "listening"
	SkillSpeaking  SkillTag = "speaking"
)

// ProficiencyLevel is a CEFR level.
type ProficiencyLevel string

const (
	LevelA1 ProficiencyLevel = "A1"
	LevelA2 ProficiencyLevel = "A2"
	LevelB1 ProficiencyLevel = "B1"
	LevelB2 ProficiencyLevel = "B2"
	LevelC1 ProficiencyLevel = "C1"
	LevelC2 ProficiencyLevel = "C2"
)

// LevelForScore maps an aggregate score (0-100) to a discrete CEFR level
// using fixed score bands.
func LevelForScore(score float64) ProficiencyLevel {
	switch {
	case score < 30:
		return LevelA1
	case score < 45:
		return LevelA2
	case score < 60:
		return LevelB1
	case score < 75:
		return LevelB2
	case score < 90:
		return LevelC1
	default:
		return LevelC2
	}
}

// BandLabel names a rubric descriptor band.
type BandLabel string

const (
	BandNeedsSupport BandLabel = "needsSupport"
	BandEmerging     BandLabel = "emerging"
	BandProficient   BandLabel = "proficient"
	BandAdvanced     BandLabel = "advanced"
)

// DescriptorBand is one scoring band of a criterion. Bands within a
// criterion are ordered, non-overlapping and cover 0-100 contiguously.
type DescriptorBand struct {
	Label      BandLabel `json:"label" validate:"required,oneof=needsSupport emerging proficient advanced"`
	Descriptor string    `json:"descriptor"`
	MinScore   float64   `json:"min_score" validate:"min=0,max=100"`
	MaxScore   float64   `json:"max_score" validate:"min=0,max=100"`
}

// Criterion is a weighted rubric dimension used to score spoken answers.
type Criterion struct {
	ID     string           `json:"id" validate:"required"`
	Title  string           `json:"title" validate:"required"`
	Skill  SkillTag         `json:"skill" validate:"required,skill_tag"`
	Weight int              `json:"weight" validate:"min=0,max=100"`
	Bands  []DescriptorBand `json:"bands" validate:"required,min=1,dive"`
}

// BandFor returns the descriptor band whose inclusive range contains
// score. The second return is false when no band matches, which for a
// well-formed criterion means the score is outside 0-100.
func (c Criterion) BandFor(score float64) (DescriptorBand, bool) {
	for _, b := range c.Bands {
		if score >= b.MinScore && score <= b.MaxScore {
			return b, true
		}
	}
	return DescriptorBand{}, false
}

// Blueprint is the immutable template of one assessment: an ordered
// question sequence plus the rubric criteria speaking questions refer to.
type Blueprint struct {
	ID          string           `json:"id" validate:"required"`
	Title       string           `json:"title" validate:"required"`
	TargetLevel ProficiencyLevel `json:"target_level" validate:"required,proficiency_level"`
	Questions   []Question       `json:"questions" validate:"required,min=1,dive"`
	Criteria    []Criterion      `json:"criteria" validate:"dive"`
}

// QuestionByID returns the question with the given id.
func (b *Blueprint) QuestionByID(id string) (Question, bool) {
	for _, q := range b.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}

// CriterionByID returns the criterion with the given id.
func (b *Blueprint) CriterionByID(id string) (Criterion, bool) {
	for _, c := range b.Criteria {
		if c.ID == id {
			return c, true
		}
	}
	return Criterion{}, false
}

// CriteriaFor resolves the ordered criterion list referenced by a
// speaking question. Unknown ids are skipped; the blueprint validator
// rejects them before a blueprint is published.
func (b *Blueprint) CriteriaFor(q Question) []Criterion {
	if q.Speaking == nil {
		return nil
	}
	criteria := make([]Criterion, 0, len(q.Speaking.CriterionIDs))
	for _, id := range q.Speaking.CriterionIDs {
		if c, ok := b.CriterionByID(id); ok {
			criteria = append(criteria, c)
		}
	}
	return criteria
}
