package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/Thanhvan06/japanese-quiz-service/internal/models"
	"github.com/Thanhvan06/japanese-quiz-service/internal/repositories"
	"github.com/Thanhvan06/japanese-quiz-service/internal/services"
	"github.com/Thanhvan06/japanese-quiz-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type SessionHandler struct {
	BaseHandler
	sessionService services.SessionService
}

func NewSessionHandler(sessionService services.SessionService, logger utils.Logger) *SessionHandler {
	return &SessionHandler{
		BaseHandler:    NewBaseHandler(logger),
		sessionService: sessionService,
	}
}

// StartSession creates a session from a test configuration and loads its
// question set
// @Summary Start test session
// @Tags sessions
// @Accept json
// @Produce json
// @Param config body models.TestConfiguration true "Test configuration"
// @Success 201 {object} SuccessResponse{data=session.Snapshot}
// @Failure 400 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /sessions [post]
func (h *SessionHandler) StartSession(c *gin.Context) {
	h.LogRequest(c, "Starting test session")

	var cfg models.TestConfiguration
	if err := c.ShouldBindJSON(&cfg); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	snap, err := h.sessionService.StartSession(c.Request.Context(), utils.UserIDFromContext(c), cfg)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, SuccessResponse{
		Message: "Session started",
		Data:    snap,
	})
}

// GetSession returns the current presentation state of a session
// @Summary Get session state
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} SuccessResponse{data=session.Snapshot}
// @Failure 404 {object} ErrorResponse
// @Router /sessions/{id} [get]
func (h *SessionHandler) GetSession(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	snap, err := h.sessionService.GetSession(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Data: snap})
}

// SubmitAnswer records or updates an answer on an active session
// @Summary Submit answer
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param answer body services.AnswerRequest true "Answer payload"
// @Success 200 {object} SuccessResponse{data=session.Snapshot}
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /sessions/{id}/answer [post]
func (h *SessionHandler) SubmitAnswer(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	var req services.AnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	snap, err := h.sessionService.SubmitAnswer(c.Request.Context(), id, req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Data: snap})
}

// NextQuestion advances the session; on the last answered question this
// submits the whole test
// @Summary Next question
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} SuccessResponse{data=session.Snapshot}
// @Failure 409 {object} ErrorResponse
// @Router /sessions/{id}/next [post]
func (h *SessionHandler) NextQuestion(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	snap, err := h.sessionService.NextQuestion(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Data: snap})
}

// PreviousQuestion steps the session back one question
// @Summary Previous question
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} SuccessResponse{data=session.Snapshot}
// @Failure 409 {object} ErrorResponse
// @Router /sessions/{id}/previous [post]
func (h *SessionHandler) PreviousQuestion(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	snap, err := h.sessionService.PreviousQuestion(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Data: snap})
}

// SubmitSession submits the session manually
// @Summary Submit session
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} SuccessResponse{data=models.ResultSummary}
// @Failure 409 {object} ErrorResponse
// @Router /sessions/{id}/submit [post]
func (h *SessionHandler) SubmitSession(c *gin.Context) {
	h.LogRequest(c, "Submitting session")

	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	summary, err := h.sessionService.SubmitSession(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Session submitted",
		Data:    summary,
	})
}

// GetResult returns the result of a submitted session, falling back to
// the persisted record for sessions no longer in memory
// @Summary Get session result
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} SuccessResponse{data=models.ResultSummary}
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /sessions/{id}/result [get]
func (h *SessionHandler) GetResult(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	summary, err := h.sessionService.GetResult(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Data: summary})
}

// RestartSession discards the current run and reloads. An optional body
// replaces the configuration; without one the previous configuration is
// reused.
// @Summary Restart session
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param config body models.TestConfiguration false "Replacement configuration"
// @Success 200 {object} SuccessResponse{data=session.Snapshot}
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /sessions/{id}/restart [post]
func (h *SessionHandler) RestartSession(c *gin.Context) {
	h.LogRequest(c, "Restarting session")

	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	var cfg *models.TestConfiguration
	var body models.TestConfiguration
	switch err := c.ShouldBindJSON(&body); {
	case err == nil:
		cfg = &body
	case errors.Is(err, io.EOF):
		// No body: reuse the previous configuration.
	default:
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	snap, err := h.sessionService.RestartSession(c.Request.Context(), id, cfg)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Session restarted",
		Data:    snap,
	})
}

// ListResults returns persisted test results
// @Summary List test results
// @Tags results
// @Produce json
// @Param user_id query string false "Filter by user"
// @Param date_from query string false "RFC3339 lower bound"
// @Param date_to query string false "RFC3339 upper bound"
// @Param limit query int false "Page size (default 20)"
// @Param offset query int false "Page offset"
// @Param sort_order query string false "asc or desc (default desc)"
// @Success 200 {object} SuccessResponse
// @Router /results [get]
func (h *SessionHandler) ListResults(c *gin.Context) {
	filters := repositories.ResultFilters{
		Limit:     20,
		SortOrder: c.DefaultQuery("sort_order", "desc"),
	}
	if userID := c.Query("user_id"); userID != "" {
		filters.UserID = &userID
	}
	if raw := c.Query("limit"); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil && limit > 0 {
			filters.Limit = limit
		}
	}
	if raw := c.Query("offset"); raw != "" {
		if offset, err := strconv.Atoi(raw); err == nil && offset >= 0 {
			filters.Offset = offset
		}
	}
	if raw := c.Query("date_from"); raw != "" {
		from, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid date_from", Details: err.Error()})
			return
		}
		filters.DateFrom = &from
	}
	if raw := c.Query("date_to"); raw != "" {
		to, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid date_to", Details: err.Error()})
			return
		}
		filters.DateTo = &to
	}

	results, total, err := h.sessionService.ListResults(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{
		Data: gin.H{
			"results": results,
			"total":   total,
			"limit":   filters.Limit,
			"offset":  filters.Offset,
		},
	})
}
