package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/lemartins07/english-assessment-service/internal/services"
	"github.com/lemartins07/english-assessment-service/internal/utils"
)

type HandlerManager struct {
	assessmentHandler *AssessmentHandler
}

func NewHandlerManager(
	assessmentService services.AssessmentService,
	exportService services.ExportService,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		assessmentHandler: NewAssessmentHandler(assessmentService, exportService, logger),
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		sessions := v1.Group("/sessions")
		{
			sessions.POST("", hm.assessmentHandler.StartSession)
			sessions.GET("/:id", hm.assessmentHandler.GetSession)
			sessions.POST("/:id/responses", hm.assessmentHandler.SubmitResponse)
			sessions.POST("/:id/finalize", hm.assessmentHandler.FinalizeSession)
			sessions.GET("/:id/export", hm.assessmentHandler.ExportSessionResult)
		}
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "english-assessment-service",
		})
	})
}
