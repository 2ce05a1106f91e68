package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClampQuestionCount(t *testing.T) {
	tests := []struct {
		name      string
		requested int
		available int
		expect    int
	}{
		{"below minimum", 3, 100, 10},
		{"at minimum", 10, 100, 10},
		{"within range", 25, 100, 25},
		{"above available", 50, 30, 30},
		{"sparse bank wins over minimum", 20, 7, 7},
		{"zero requested", 0, 100, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := TestConfiguration{QuestionCount: tt.requested}
			assert.Equal(t, tt.expect, cfg.ClampQuestionCount(tt.available))
		})
	}
}

func TestValidTimeLimit(t *testing.T) {
	for _, limit := range TimeLimits {
		assert.True(t, ValidTimeLimit(limit), "limit=%d", limit)
	}
	assert.False(t, ValidTimeLimit(42))
	assert.False(t, ValidTimeLimit(-300))
	assert.False(t, ValidTimeLimit(3601))
}
