package session

import "errors"

var (
	// ErrEmptyQuestionSet means the chosen configuration matched zero
	// questions. Recoverable: the session returns to configuring.
	ErrEmptyQuestionSet = errors.New("no questions available for this configuration")

	// ErrFetchFailure wraps any question-source failure. Recoverable,
	// same fallback as an empty set.
	ErrFetchFailure = errors.New("could not load questions")

	// ErrNotActive is returned for answering/navigation calls outside the
	// Active state (submitted sessions no-op instead, see engine.go).
	ErrNotActive = errors.New("session is not active")

	// ErrNotSubmitted is returned when a result is requested before submit.
	ErrNotSubmitted = errors.New("session has not been submitted")

	// ErrLastQuestionUnanswered blocks advancing past the final question
	// while it is unanswered, preventing an accidental blank submission at
	// the terminal step only.
	ErrLastQuestionUnanswered = errors.New("answer the final question before submitting")

	// ErrInvalidQuestionIndex means an answer referenced a question index
	// outside the loaded set.
	ErrInvalidQuestionIndex = errors.New("question index out of range")

	// ErrInvalidAnswer means the answer value does not match the question
	// variant (e.g. a sequence for a multiple-choice question).
	ErrInvalidAnswer = errors.New("answer value does not match question type")

	// ErrNotConfigurable is returned when a configuration arrives outside
	// the configuring state.
	ErrNotConfigurable = errors.New("session already started")
)
