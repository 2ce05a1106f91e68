package handlers

import (
	"github.com/Thanhvan06/japanese-quiz-service/internal/services"
	"github.com/Thanhvan06/japanese-quiz-service/internal/utils"
	"github.com/Thanhvan06/japanese-quiz-service/internal/validator"
	"github.com/gin-gonic/gin"
)

type HandlerManager struct {
	sessionHandler  *SessionHandler
	questionHandler *QuestionHandler
}

func NewHandlerManager(
	sessionService services.SessionService,
	importService services.ImportService,
	v *validator.Validator,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		sessionHandler:  NewSessionHandler(sessionService, logger),
		questionHandler: NewQuestionHandler(sessionService, importService, v, logger),
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine, auth gin.HandlerFunc) {
	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "japanese-quiz-service",
		})
	})

	// API v1 routes
	v1 := router.Group("/api/v1")
	v1.Use(auth)
	{
		// Session routes
		sessions := v1.Group("/sessions")
		{
			sessions.POST("", hm.sessionHandler.StartSession)
			sessions.GET("/:id", hm.sessionHandler.GetSession)
			sessions.POST("/:id/answer", hm.sessionHandler.SubmitAnswer)
			sessions.POST("/:id/next", hm.sessionHandler.NextQuestion)
			sessions.POST("/:id/previous", hm.sessionHandler.PreviousQuestion)
			sessions.POST("/:id/submit", hm.sessionHandler.SubmitSession)
			sessions.GET("/:id/result", hm.sessionHandler.GetResult)
			sessions.POST("/:id/restart", hm.sessionHandler.RestartSession)
		}

		// Question routes
		questions := v1.Group("/questions")
		{
			questions.GET("/count", hm.questionHandler.GetQuestionCount)
			questions.POST("/import", hm.questionHandler.ImportQuestions)
		}

		// Result routes
		v1.GET("/results", hm.sessionHandler.ListResults)
	}
}
