package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lemartins07/english-assessment-service/internal/services"
	"github.com/lemartins07/english-assessment-service/internal/utils"
)

type AssessmentHandler struct {
	BaseHandler
	assessmentService services.AssessmentService
	exportService     services.ExportService
}

func NewAssessmentHandler(
	assessmentService services.AssessmentService,
	exportService services.ExportService,
	logger utils.Logger,
) *AssessmentHandler {
	return &AssessmentHandler{
		BaseHandler:       NewBaseHandler(logger),
		assessmentService: assessmentService,
		exportService:     exportService,
	}
}

// StartSession opens a new assessment session
// @Summary Start assessment session
// @Description Opens a session for a learner against a blueprint
// @Tags sessions
// @Accept json
// @Produce json
// @Param session body services.StartAssessmentRequest true "Session data"
// @Success 201 {object} services.StartAssessmentResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /sessions [post]
func (h *AssessmentHandler) StartSession(c *gin.Context) {
	var req services.StartAssessmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Starting session", "blueprint_id", req.BlueprintID)

	resp, err := h.assessmentService.Start(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// SubmitResponse records an answer for one question of a session
// @Summary Submit response
// @Description Scores and records the answer to one question
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param response body services.SubmitResponseRequest true "Answer data"
// @Success 200 {object} services.SubmitResponseResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /sessions/{id}/responses [post]
func (h *AssessmentHandler) SubmitResponse(c *gin.Context) {
	sessionID := ParseStringIDParam(c, "id")
	if sessionID == "" {
		return
	}

	var req services.SubmitResponseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}
	req.SessionID = sessionID

	h.LogRequest(c, "Submitting response",
		"session_id", sessionID,
		"question_id", req.QuestionID)

	resp, err := h.assessmentService.SubmitResponse(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// FinalizeSession closes a session and computes its result
// @Summary Finalize session
// @Description Computes the aggregate result once every question is answered
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} models.Result
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /sessions/{id}/finalize [post]
func (h *AssessmentHandler) FinalizeSession(c *gin.Context) {
	sessionID := ParseStringIDParam(c, "id")
	if sessionID == "" {
		return
	}

	h.LogRequest(c, "Finalizing session", "session_id", sessionID)

	result, err := h.assessmentService.Finalize(c.Request.Context(), sessionID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetSession retrieves a session by ID
// @Summary Get session
// @Description Retrieves a session with its recorded responses
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} models.Session
// @Failure 404 {object} ErrorResponse
// @Router /sessions/{id} [get]
func (h *AssessmentHandler) GetSession(c *gin.Context) {
	sessionID := ParseStringIDParam(c, "id")
	if sessionID == "" {
		return
	}

	session, err := h.assessmentService.GetSession(c.Request.Context(), sessionID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

// ExportSessionResult streams a finalized session's result as xlsx
// @Summary Export session result
// @Description Exports the finalized result as an Excel workbook
// @Tags sessions
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param id path string true "Session ID"
// @Success 200 {file} binary
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /sessions/{id}/export [get]
func (h *AssessmentHandler) ExportSessionResult(c *gin.Context) {
	sessionID := ParseStringIDParam(c, "id")
	if sessionID == "" {
		return
	}

	h.LogRequest(c, "Exporting session result", "session_id", sessionID)

	data, err := h.exportService.ExportSessionResult(c.Request.Context(), sessionID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("assessment-result-%s.xlsx", sessionID)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
