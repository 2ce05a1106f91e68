package models

// Answer is the value a test-taker recorded for one question. The two
// implementations correspond to the two question variants.
type Answer interface {
	isAnswer()
}

// ChoiceAnswer is a single selected option index of a multiple-choice
// question.
type ChoiceAnswer struct {
	Option int `json:"option"`
}

func (ChoiceAnswer) isAnswer() {}

// ArrangementAnswer is the ordered list of arrange-word indices (positions
// within the question's arrange-word subset) the user placed. An empty
// sequence is never stored: it is equivalent to unanswered.
type ArrangementAnswer struct {
	Sequence []int `json:"sequence"`
}

func (ArrangementAnswer) isAnswer() {}

// Empty reports whether the arrangement carries no placed tokens.
func (a ArrangementAnswer) Empty() bool {
	return len(a.Sequence) == 0
}
