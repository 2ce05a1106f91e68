package models

import (
	"regexp"
	"sort"
	"strings"
)

type QuestionType string

const (
	// Structurally multiple-choice variants. The sub-variants differ only
	// in how the prompt is rendered, not in how they are answered.
	ImageChoice    QuestionType = "image_choice"
	KanjiToReading QuestionType = "kanji_to_reading"
	ReadingToKanji QuestionType = "reading_to_kanji"
	WordToMeaning  QuestionType = "word_to_meaning"

	// Grammar variants.
	GrammarChoice       QuestionType = "grammar_choice"
	SentenceArrangement QuestionType = "sentence_arrangement"
)

// Variant collapses the question sub-variants into the two shapes the
// session engine and the scoring engine actually switch on.
type Variant string

const (
	VariantMultipleChoice      Variant = "multiple_choice"
	VariantSentenceArrangement Variant = "sentence_arrangement"
)

type OptionRole string

const (
	// RoleChoice is a selectable option of a multiple-choice question.
	RoleChoice OptionRole = "choice"
	// RoleArrangeWord is a token that participates in the correct sequence
	// of a sentence-arrangement question.
	RoleArrangeWord OptionRole = "arrange_word"
	// RoleDecoration is an inert token shown around the blank.
	RoleDecoration OptionRole = "decoration"
)

// Prompt is the displayed question payload. Furigana and ImageURL are
// optional and absent for most variants.
type Prompt struct {
	Text     string `json:"text"`
	Furigana string `json:"furigana,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
}

type Option struct {
	ID        uint       `json:"id"`
	Text      string     `json:"text"`
	Role      OptionRole `json:"role"`
	IsCorrect bool       `json:"is_correct"`
	// SortOrder defines the position of an arrange_word token inside the
	// correct sequence. Meaningless for other roles.
	SortOrder int `json:"sort_order"`
}

// Question is the uniform in-memory shape the session engine operates on,
// normalized from the heterogeneous backend payloads.
type Question struct {
	ID          uint         `json:"id"`
	Type        QuestionType `json:"type"`
	Prompt      Prompt       `json:"prompt"`
	Options     []Option     `json:"options"`
	Explanation string       `json:"explanation,omitempty"`
}

// Variant classifies the question for scoring and presentation.
func (q *Question) Variant() Variant {
	if q.Type == SentenceArrangement {
		return VariantSentenceArrangement
	}
	return VariantMultipleChoice
}

// CorrectOptionIndex returns the index of the correct option for a
// multiple-choice question, or -1 when none is flagged. Exactly one
// correct option is an upstream invariant the engine does not enforce.
func (q *Question) CorrectOptionIndex() int {
	for i, opt := range q.Options {
		if opt.IsCorrect {
			return i
		}
	}
	return -1
}

// ArrangeWords returns the arrange_word tokens in option order. Answers
// for sentence-arrangement questions index into this subset.
func (q *Question) ArrangeWords() []Option {
	words := make([]Option, 0, len(q.Options))
	for _, opt := range q.Options {
		if opt.Role == RoleArrangeWord {
			words = append(words, opt)
		}
	}
	return words
}

// CorrectSequence returns the texts of the arrange_word tokens ordered by
// SortOrder, i.e. the answer key of a sentence-arrangement question.
func (q *Question) CorrectSequence() []string {
	words := q.ArrangeWords()
	sort.SliceStable(words, func(i, j int) bool {
		return words[i].SortOrder < words[j].SortOrder
	})
	seq := make([]string, len(words))
	for i, opt := range words {
		seq[i] = opt.Text
	}
	return seq
}

// BlankPlaceholder is the canonical gap marker shown in arrangement prompts.
const BlankPlaceholder = "＿＿＿"

var blankMarker = regexp.MustCompile(`（[^）]*）|\([^)]*\)|\[[^\]]*\]|_{2,}|＿+`)

// DisplayPrompt canonicalizes the gap in a sentence-arrangement prompt:
// an existing blank marker (bracketed form or run of underscores) is
// replaced with BlankPlaceholder, otherwise the placeholder is prepended.
// Display only; scoring never looks at the prompt text.
func (q *Question) DisplayPrompt() string {
	text := q.Prompt.Text
	if q.Variant() != VariantSentenceArrangement {
		return text
	}
	if loc := blankMarker.FindStringIndex(text); loc != nil {
		return text[:loc[0]] + BlankPlaceholder + text[loc[1]:]
	}
	if strings.TrimSpace(text) == "" {
		return BlankPlaceholder
	}
	return BlankPlaceholder + " " + text
}
