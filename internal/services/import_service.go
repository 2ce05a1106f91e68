package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/Thanhvan06/japanese-quiz-service/internal/models"
	"github.com/Thanhvan06/japanese-quiz-service/internal/repositories"
	"github.com/Thanhvan06/japanese-quiz-service/internal/validator"
	"github.com/xuri/excelize/v2"
	"gorm.io/datatypes"
)

// ImportService loads question material from spreadsheets into the
// question bank. Bad rows are reported and skipped; good rows import.
type ImportService interface {
	ImportQuestionsFromFile(ctx context.Context, file multipart.File, filename string) (*models.ImportSummary, error)
	ImportQuestionsFromCSV(ctx context.Context, reader io.Reader) (*models.ImportSummary, error)
	ImportQuestionsFromExcel(ctx context.Context, reader io.Reader) (*models.ImportSummary, error)
}

type importService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
}

func NewImportService(repo repositories.Repository, logger *slog.Logger, v *validator.Validator) ImportService {
	return &importService{
		repo:      repo,
		logger:    logger,
		validator: v,
	}
}

func (s *importService) ImportQuestionsFromFile(ctx context.Context, file multipart.File, filename string) (*models.ImportSummary, error) {
	s.logger.Info("Starting question import", "filename", filename)

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return s.ImportQuestionsFromCSV(ctx, file)
	case ".xlsx", ".xls":
		return s.ImportQuestionsFromExcel(ctx, file)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFileFormat, filepath.Ext(filename))
	}
}

func (s *importService) ImportQuestionsFromCSV(ctx context.Context, reader io.Reader) (*models.ImportSummary, error) {
	csvReader := csv.NewReader(reader)
	csvReader.TrimLeadingSpace = true

	rows, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	return s.importRows(ctx, rows)
}

func (s *importService) ImportQuestionsFromExcel(ctx context.Context, reader io.Reader) (*models.ImportSummary, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, NewValidationError("file", "Excel file has no sheets", nil)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read Excel rows: %w", err)
	}
	return s.importRows(ctx, rows)
}

// importRows processes the shared tabular form of both formats. The
// first row is the header; column order is free.
func (s *importService) importRows(ctx context.Context, rows [][]string) (*models.ImportSummary, error) {
	start := time.Now()

	if len(rows) < 2 {
		return nil, NewValidationError("file", "file must have a header row and at least one data row", len(rows))
	}

	headerMap := make(map[string]int)
	for i, header := range rows[0] {
		headerMap[strings.ToLower(strings.TrimSpace(header))] = i
	}
	for _, col := range []string{"type", "prompt"} {
		if _, ok := headerMap[col]; !ok {
			return nil, NewValidationError("headers", fmt.Sprintf("missing required column: %s", col), col)
		}
	}

	summary := &models.ImportSummary{TotalRows: len(rows) - 1}
	var records []*models.QuestionRecord

	for rowIndex, row := range rows[1:] {
		record, rowErrors := s.parseRow(row, headerMap, rowIndex+2)
		if len(rowErrors) > 0 {
			summary.Errors = append(summary.Errors, rowErrors...)
			summary.ErrorCount++
			continue
		}
		records = append(records, record)
	}

	if len(records) > 0 {
		if err := s.repo.Question().CreateBatch(ctx, records); err != nil {
			return nil, fmt.Errorf("failed to save questions: %w", err)
		}
	}
	for _, record := range records {
		summary.CreatedQuestions = append(summary.CreatedQuestions, record.ID)
	}
	summary.SuccessCount = len(records)
	summary.ProcessingTime = time.Since(start)

	s.logger.Info("Question import completed",
		"total_rows", summary.TotalRows,
		"success_count", summary.SuccessCount,
		"error_count", summary.ErrorCount)

	return summary, nil
}

// Spreadsheet columns:
//
//	type, level_code, topic_id, flashcard_set_id, grammar_id,
//	prompt, furigana, image_url, explanation,
//	option_a..option_d, correct            (choice variants)
//	words, decorations                     (sentence arrangement,
//	                                        "|"-separated, words in order)
func (s *importService) parseRow(row []string, headerMap map[string]int, rowNum int) (*models.QuestionRecord, []models.ImportValidationError) {
	var errs []models.ImportValidationError

	cell := func(name string) string {
		idx, ok := headerMap[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	qType := models.QuestionType(cell("type"))
	promptText := cell("prompt")

	record := &models.QuestionRecord{
		Type:      qType,
		LevelCode: cell("level_code"),
	}
	if id, ok := parseUintCell(cell("topic_id")); ok {
		record.TopicID = &id
	}
	if id, ok := parseUintCell(cell("flashcard_set_id")); ok {
		record.FlashcardSetID = &id
	}
	if id, ok := parseUintCell(cell("grammar_id")); ok {
		record.GrammarID = &id
	}
	if explanation := cell("explanation"); explanation != "" {
		record.Explanation = &explanation
	}

	if promptText == "" {
		errs = append(errs, models.ImportValidationError{
			Row: rowNum, Column: "prompt", Message: "prompt is required",
		})
	}

	prompt, err := json.Marshal(map[string]string{
		"text":      promptText,
		"furigana":  cell("furigana"),
		"image_url": cell("image_url"),
	})
	if err != nil {
		errs = append(errs, models.ImportValidationError{
			Row: rowNum, Column: "prompt", Message: err.Error(),
		})
	}
	record.Prompt = datatypes.JSON(prompt)

	var options []map[string]interface{}
	if qType == models.SentenceArrangement {
		options, errs = appendArrangementOptions(cell, rowNum, errs)
	} else {
		options, errs = appendChoiceOptions(cell, rowNum, errs)
	}
	optionsPayload, err := json.Marshal(options)
	if err != nil {
		errs = append(errs, models.ImportValidationError{
			Row: rowNum, Column: "options", Message: err.Error(),
		})
	}
	record.Options = datatypes.JSON(optionsPayload)

	if err := s.validator.ValidateStruct(record); err != nil {
		errs = append(errs, models.ImportValidationError{
			Row: rowNum, Column: "type", Message: err.Error(), Value: string(qType),
		})
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return record, nil
}

func appendChoiceOptions(cell func(string) string, rowNum int, errs []models.ImportValidationError) ([]map[string]interface{}, []models.ImportValidationError) {
	labels := []string{"option_a", "option_b", "option_c", "option_d"}

	correctIndex := -1
	switch correct := strings.ToLower(cell("correct")); correct {
	case "a", "1":
		correctIndex = 0
	case "b", "2":
		correctIndex = 1
	case "c", "3":
		correctIndex = 2
	case "d", "4":
		correctIndex = 3
	case "":
		errs = append(errs, models.ImportValidationError{
			Row: rowNum, Column: "correct", Message: "correct answer is required",
		})
	default:
		errs = append(errs, models.ImportValidationError{
			Row: rowNum, Column: "correct", Message: "must be a-d or 1-4", Value: correct,
		})
	}

	var options []map[string]interface{}
	for i, label := range labels {
		text := cell(label)
		if text == "" {
			continue
		}
		options = append(options, map[string]interface{}{
			"text":       text,
			"role":       string(models.RoleChoice),
			"is_correct": i == correctIndex,
		})
	}
	if len(options) < 2 {
		errs = append(errs, models.ImportValidationError{
			Row: rowNum, Column: "option_a", Message: "at least two options are required",
		})
	} else if correctIndex >= len(options) {
		errs = append(errs, models.ImportValidationError{
			Row: rowNum, Column: "correct", Message: "correct answer refers to a missing option",
		})
	}
	return options, errs
}

func appendArrangementOptions(cell func(string) string, rowNum int, errs []models.ImportValidationError) ([]map[string]interface{}, []models.ImportValidationError) {
	words := splitPipe(cell("words"))
	if len(words) < 2 {
		errs = append(errs, models.ImportValidationError{
			Row: rowNum, Column: "words", Message: "at least two words are required, separated by |",
		})
	}

	var options []map[string]interface{}
	for i, word := range words {
		options = append(options, map[string]interface{}{
			"text":       word,
			"role":       string(models.RoleArrangeWord),
			"sort_order": i,
		})
	}
	for _, word := range splitPipe(cell("decorations")) {
		options = append(options, map[string]interface{}{
			"text": word,
			"role": string(models.RoleDecoration),
		})
	}
	return options, errs
}

func splitPipe(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, "|")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func parseUintCell(value string) (uint, bool) {
	if value == "" {
		return 0, false
	}
	parsed, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, false
	}
	return uint(parsed), true
}
