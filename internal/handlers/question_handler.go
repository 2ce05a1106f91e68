package handlers

import (
	"net/http"

	"github.com/Thanhvan06/japanese-quiz-service/internal/models"
	"github.com/Thanhvan06/japanese-quiz-service/internal/services"
	"github.com/Thanhvan06/japanese-quiz-service/internal/utils"
	"github.com/Thanhvan06/japanese-quiz-service/internal/validator"
	"github.com/gin-gonic/gin"
)

type QuestionHandler struct {
	BaseHandler
	sessionService services.SessionService
	importService  services.ImportService
	validator      *validator.Validator
}

func NewQuestionHandler(
	sessionService services.SessionService,
	importService services.ImportService,
	v *validator.Validator,
	logger utils.Logger,
) *QuestionHandler {
	return &QuestionHandler{
		BaseHandler:    NewBaseHandler(logger),
		sessionService: sessionService,
		importService:  importService,
		validator:      v,
	}
}

type questionCountQuery struct {
	QuestionType   models.QuestionType `form:"question_type"`
	SourceKind     models.SourceKind   `form:"source_kind"`
	LevelCode      string              `form:"level_code"`
	TopicID        uint                `form:"topic_id"`
	FlashcardSetID uint                `form:"flashcard_set_id"`
	GrammarIDs     []uint              `form:"grammar_ids"`
}

// GetQuestionCount reports how many questions match a configuration, so
// the configuration screen can show the available pool before starting
// @Summary Count available questions
// @Tags questions
// @Produce json
// @Param question_type query string true "Question type"
// @Param source_kind query string true "Question source"
// @Param level_code query string false "Level code for level sources"
// @Param topic_id query int false "Topic ID for topic sources"
// @Param flashcard_set_id query int false "Set ID for flashcard sources"
// @Param grammar_ids query []int false "Grammar IDs for grammar sources"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Router /questions/count [get]
func (h *QuestionHandler) GetQuestionCount(c *gin.Context) {
	var query questionCountQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid query parameters",
			Details: err.Error(),
		})
		return
	}

	cfg := models.TestConfiguration{
		SourceKind:   query.SourceKind,
		QuestionType: query.QuestionType,
		SourceParams: models.SourceParams{
			LevelCode:      query.LevelCode,
			TopicID:        query.TopicID,
			FlashcardSetID: query.FlashcardSetID,
			GrammarIDs:     query.GrammarIDs,
		},
		QuestionCount: models.MinQuestionCount,
	}
	if err := h.validator.Validate(&cfg); err != nil {
		h.handleServiceError(c, err)
		return
	}

	total, err := h.sessionService.AvailableQuestionCount(c.Request.Context(), cfg)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{
		Data: gin.H{"count": total},
	})
}

// ImportQuestions loads question material from an uploaded spreadsheet
// @Summary Import questions
// @Tags questions
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CSV or Excel file"
// @Success 200 {object} SuccessResponse{data=models.ImportSummary}
// @Failure 400 {object} ErrorResponse
// @Router /questions/import [post]
func (h *QuestionHandler) ImportQuestions(c *gin.Context) {
	h.LogRequest(c, "Importing questions")

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Missing file upload",
			Details: err.Error(),
		})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Failed to open uploaded file", err)
		return
	}
	defer file.Close()

	summary, err := h.importService.ImportQuestionsFromFile(c.Request.Context(), file, fileHeader.Filename)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Import completed",
		Data:    summary,
	})
}
