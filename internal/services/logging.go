package services

import (
	"context"
	"log/slog"
	"time"
)

// ServiceLogger provides structured logging for service layer operations
type ServiceLogger struct {
	logger *slog.Logger
}

func NewServiceLogger(logger *slog.Logger, component string) *ServiceLogger {
	return &ServiceLogger{
		logger: logger.With("service", "japanese-quiz-service", "component", component),
	}
}

// LogOperation records the outcome of one service call. Expected domain
// outcomes (validation failures, state rejections, misses) log at warn
// or info; everything else that errors is a real failure.
func (l *ServiceLogger) LogOperation(ctx context.Context, operation, sessionID string, duration time.Duration, err error) {
	level := slog.LevelInfo
	status := "success"

	if err != nil {
		switch {
		case IsValidation(err) || IsBusinessRule(err) || IsSessionInput(err):
			level = slog.LevelWarn
			status = "validation_error"
		case IsSessionState(err):
			level = slog.LevelWarn
			status = "state_rejected"
		case IsEmptyQuestionSet(err):
			level = slog.LevelInfo
			status = "empty_question_set"
		case IsNotFound(err):
			level = slog.LevelInfo
			status = "not_found"
		default:
			level = slog.LevelError
			status = "error"
		}
	}

	attrs := []slog.Attr{
		slog.String("operation", operation),
		slog.String("session_id", sessionID),
		slog.String("status", status),
		slog.Duration("duration", duration),
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	if requestID, ok := ctx.Value("request_id").(string); ok {
		attrs = append(attrs, slog.String("request_id", requestID))
	}

	l.logger.LogAttrs(ctx, level, operation+" "+status, attrs...)
}

// TimeOperation returns a stop function that logs the operation once the
// surrounding call finishes.
func (l *ServiceLogger) TimeOperation(ctx context.Context, operation, sessionID string) func(err error) {
	start := time.Now()
	return func(err error) {
		l.LogOperation(ctx, operation, sessionID, time.Since(start), err)
	}
}
