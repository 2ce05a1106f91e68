package models

import "time"

// ImportValidationError is a per-row problem collected while importing a
// question spreadsheet. Bad rows are skipped, good rows still import.
type ImportValidationError struct {
	Row     int    `json:"row"`
	Column  string `json:"column"`
	Message string `json:"message"`
	Value   string `json:"value,omitempty"`
}

// ImportSummary reports the outcome of one xlsx import.
type ImportSummary struct {
	TotalRows        int                     `json:"total_rows"`
	SuccessCount     int                     `json:"success_count"`
	ErrorCount       int                     `json:"error_count"`
	CreatedQuestions []uint                  `json:"created_questions"`
	Errors           []ImportValidationError `json:"errors,omitempty"`
	ProcessingTime   time.Duration           `json:"processing_time"`
}
