package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/lemartins07/english-assessment-service/internal/errors"
	"github.com/lemartins07/english-assessment-service/internal/models"
)

// Validator is the central validation entry point: struct-tag validation
// plus blueprint invariant checks.
type Validator struct {
	structValidator    *validator.Validate
	blueprintValidator *BlueprintValidator
}

// New creates a new centralized validator instance
func New() *Validator {
	structValidator := validator.New()
	registerCustomValidators(structValidator)

	return &Validator{
		structValidator:    structValidator,
		blueprintValidator: NewBlueprintValidator(),
	}
}

// ValidateStruct validates struct tags only
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.structValidator.Struct(s)
}

// Validate performs struct-tag validation and converts failures to the
// shared validation error type.
func (v *Validator) Validate(s interface{}) error {
	if err := v.structValidator.Struct(s); err != nil {
		if errs := apperrors.ToValidationErrors(err); len(errs) > 0 {
			return errs
		}
		return err
	}
	return nil
}

// Blueprint returns the blueprint invariant validator.
func (v *Validator) Blueprint() *BlueprintValidator {
	return v.blueprintValidator
}

func registerCustomValidators(validate *validator.Validate) {
	validate.RegisterValidation("question_type", validateQuestionType)
	validate.RegisterValidation("skill_tag", validateSkillTag)
	validate.RegisterValidation("proficiency_level", validateProficiencyLevel)

	// Report json field names in error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

func validateQuestionType(fl validator.FieldLevel) bool {
	switch models.QuestionType(fl.Field().String()) {
	case models.MultipleChoice, models.Listening, models.Speaking:
		return true
	}
	return false
}

func validateSkillTag(fl validator.FieldLevel) bool {
	switch models.SkillTag(fl.Field().String()) {
	case models.SkillGrammar, models.SkillListening, models.SkillSpeaking:
		return true
	}
	return false
}

func validateProficiencyLevel(fl validator.FieldLevel) bool {
	switch models.ProficiencyLevel(fl.Field().String()) {
	case models.LevelA1, models.LevelA2, models.LevelB1,
		models.LevelB2, models.LevelC1, models.LevelC2:
		return true
	}
	return false
}
