package validator

import (
	"reflect"
	"strings"

	apperrors "github.com/Thanhvan06/japanese-quiz-service/internal/errors"
	"github.com/Thanhvan06/japanese-quiz-service/internal/models"
	"github.com/go-playground/validator/v10"
)

// Validator combines struct-tag validation with the configuration rules
// that tags cannot express.
type Validator struct {
	structValidator *validator.Validate
}

// New creates the shared validator instance with all custom tags
// registered once.
func New() *Validator {
	structValidator := validator.New()
	registerCustomValidators(structValidator)
	return &Validator{structValidator: structValidator}
}

// ValidateStruct validates struct tags only.
func (v *Validator) ValidateStruct(s interface{}) error {
	if err := v.structValidator.Struct(s); err != nil {
		if errs := apperrors.ToValidationErrors(err); len(errs) > 0 {
			return errs
		}
		return err
	}
	return nil
}

// Validate performs complete validation. For TestConfiguration values it
// additionally checks the source-kind/params pairing.
func (v *Validator) Validate(s interface{}) error {
	if err := v.ValidateStruct(s); err != nil {
		return err
	}
	if cfg, ok := s.(*models.TestConfiguration); ok {
		if errs := validateConfiguration(cfg); len(errs) > 0 {
			return errs
		}
	}
	return nil
}

// validateConfiguration checks that the source params carry the field the
// chosen source kind needs. Grammar selections may be empty ("all").
func validateConfiguration(cfg *models.TestConfiguration) apperrors.ValidationErrors {
	var errs apperrors.ValidationErrors
	switch cfg.SourceKind {
	case models.SourceLevel:
		if cfg.SourceParams.LevelCode == "" {
			errs = append(errs, apperrors.ValidationError{
				Field: "source_params.level_code", Message: "is required for a level source",
			})
		}
	case models.SourceTopic:
		if cfg.SourceParams.TopicID == 0 {
			errs = append(errs, apperrors.ValidationError{
				Field: "source_params.topic_id", Message: "is required for a topic source",
			})
		}
	case models.SourceFlashcardSet:
		if cfg.SourceParams.FlashcardSetID == 0 {
			errs = append(errs, apperrors.ValidationError{
				Field: "source_params.flashcard_set_id", Message: "is required for a flashcard set source",
			})
		}
	}
	return errs
}

// Custom validation functions

func validateQuestionType(fl validator.FieldLevel) bool {
	validTypes := []models.QuestionType{
		models.ImageChoice,
		models.KanjiToReading,
		models.ReadingToKanji,
		models.WordToMeaning,
		models.GrammarChoice,
		models.SentenceArrangement,
	}

	value := fl.Field().String()
	for _, validType := range validTypes {
		if string(validType) == value {
			return true
		}
	}
	return false
}

func validateSourceKind(fl validator.FieldLevel) bool {
	validKinds := []models.SourceKind{
		models.SourceLevel,
		models.SourceTopic,
		models.SourceFlashcardSet,
		models.SourceGrammarSelection,
	}

	value := fl.Field().String()
	for _, validKind := range validKinds {
		if string(validKind) == value {
			return true
		}
	}
	return false
}

func validateTimeLimit(fl validator.FieldLevel) bool {
	return models.ValidTimeLimit(int(fl.Field().Int()))
}

// registerCustomValidators registers all custom validators.
func registerCustomValidators(validate *validator.Validate) {
	validate.RegisterValidation("question_type", validateQuestionType)
	validate.RegisterValidation("source_kind", validateSourceKind)
	validate.RegisterValidation("time_limit", validateTimeLimit)

	// Report field names from json tags for better error messages.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}
