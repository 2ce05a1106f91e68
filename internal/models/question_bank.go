package models

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// QuestionRecord is the stored shape of a question. Prompt and Options are
// JSON columns because the payloads are heterogeneous across variants.
type QuestionRecord struct {
	ID             uint           `json:"id" gorm:"primaryKey"`
	Type           QuestionType   `json:"type" gorm:"not null;size:32;index" validate:"required,question_type"`
	LevelCode      string         `json:"level_code" gorm:"size:8;index"`
	TopicID        *uint          `json:"topic_id" gorm:"index"`
	FlashcardSetID *uint          `json:"flashcard_set_id" gorm:"index"`
	GrammarID      *uint          `json:"grammar_id" gorm:"index"`
	Prompt         datatypes.JSON `json:"prompt" gorm:"type:jsonb;not null"`
	Options        datatypes.JSON `json:"options" gorm:"type:jsonb;not null"`
	Explanation    *string        `json:"explanation" gorm:"type:text"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (QuestionRecord) TableName() string {
	return "questions"
}

// promptPayload tolerates the field-name drift between backends.
type promptPayload struct {
	Text     string `json:"text"`
	Furigana string `json:"furigana"`
	SubText  string `json:"sub_text"`
	ImageURL string `json:"image_url"`
	Image    string `json:"image"`
}

type optionPayload struct {
	ID        uint   `json:"id"`
	Text      string `json:"text"`
	Role      string `json:"role"`
	IsCorrect *bool  `json:"is_correct"`
	SortOrder *int   `json:"sort_order"`
}

// ToQuestion normalizes the stored payload into the uniform Question the
// session engine operates on. Missing optional fields (furigana, image,
// explanation) are treated as absent rather than failing.
func (r *QuestionRecord) ToQuestion() (Question, error) {
	var prompt promptPayload
	if len(r.Prompt) > 0 {
		if err := json.Unmarshal(r.Prompt, &prompt); err != nil {
			return Question{}, fmt.Errorf("question %d: invalid prompt payload: %w", r.ID, err)
		}
	}

	var rawOptions []optionPayload
	if err := json.Unmarshal(r.Options, &rawOptions); err != nil {
		return Question{}, fmt.Errorf("question %d: invalid options payload: %w", r.ID, err)
	}

	q := Question{
		ID:   r.ID,
		Type: r.Type,
		Prompt: Prompt{
			Text:     prompt.Text,
			Furigana: firstNonEmpty(prompt.Furigana, prompt.SubText),
			ImageURL: firstNonEmpty(prompt.ImageURL, prompt.Image),
		},
	}
	if r.Explanation != nil {
		q.Explanation = *r.Explanation
	}

	q.Options = make([]Option, 0, len(rawOptions))
	for _, raw := range rawOptions {
		opt := Option{
			ID:   raw.ID,
			Text: raw.Text,
			Role: normalizeRole(raw, q.Variant()),
		}
		if raw.IsCorrect != nil {
			opt.IsCorrect = *raw.IsCorrect
		}
		if raw.SortOrder != nil {
			opt.SortOrder = *raw.SortOrder
		}
		q.Options = append(q.Options, opt)
	}
	return q, nil
}

// normalizeRole fills in the role when a backend omits it: choices for
// multiple-choice questions, and for arrangement questions an arrange
// word when a sort order is present, otherwise decoration.
func normalizeRole(raw optionPayload, variant Variant) OptionRole {
	switch raw.Role {
	case string(RoleArrangeWord):
		return RoleArrangeWord
	case string(RoleDecoration):
		return RoleDecoration
	case string(RoleChoice):
		return RoleChoice
	}
	if variant == VariantSentenceArrangement {
		if raw.SortOrder != nil {
			return RoleArrangeWord
		}
		return RoleDecoration
	}
	return RoleChoice
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
