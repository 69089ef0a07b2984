package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/devgrill/devgrill/internal/models"
	"github.com/devgrill/devgrill/internal/services"
	"github.com/devgrill/devgrill/internal/utils"
)

type InterviewHandler struct {
	svc services.InterviewService
}

func NewInterviewHandler(svc services.InterviewService) *InterviewHandler {
	return &InterviewHandler{svc: svc}
}

type CreateFromRepositoryRequest struct {
	RepositoryURL string `json:"repository_url" binding:"required"`
	QuestionCount int    `json:"question_count"`
	Difficulty    string `json:"difficulty"`
	Language      string `json:"language"`
}

type CreateManualRequest struct {
	Title         string `json:"title"`
	Topic         string `json:"topic" binding:"required"`
	QuestionCount int    `json:"question_count"`
	Difficulty    string `json:"difficulty"`
	Language      string `json:"language"`
}

type CreateInterviewResponse struct {
	Interview *models.Interview `json:"interview"`
	Questions []models.Question `json:"questions"`

	// GroundingSummary is a short prefix of the grounding text, so the
	// caller can show what the questions were grounded on.
	GroundingSummary string `json:"grounding_summary,omitempty"`
	GroundingKind    string `json:"grounding_kind,omitempty"`
}

func (h *InterviewHandler) CreateFromRepository(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req CreateFromRepositoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "InterviewHandler.CreateFromRepository", "invalid request body", err))
		return
	}

	iv, questions, gc, err := h.svc.CreateFromRepository(c.Request.Context(), userID, req.RepositoryURL, req.QuestionCount, req.Difficulty, req.Language)
	if err != nil {
		writeError(c, err)
		return
	}

	resp := CreateInterviewResponse{Interview: iv, Questions: questions}
	if gc != nil {
		resp.GroundingKind = gc.Kind
		resp.GroundingSummary = utils.TruncateText(gc.Text, 400)
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *InterviewHandler) CreateManual(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req CreateManualRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "InterviewHandler.CreateManual", "invalid request body", err))
		return
	}

	iv, questions, err := h.svc.CreateManual(c.Request.Context(), userID, req.Title, req.Topic, req.QuestionCount, req.Difficulty, req.Language)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, CreateInterviewResponse{Interview: iv, Questions: questions})
}

func (h *InterviewHandler) Get(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	iv, questions, err := h.svc.Get(c.Request.Context(), userID, c.Param("interview_id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, CreateInterviewResponse{Interview: iv, Questions: questions})
}

func (h *InterviewHandler) Complete(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	iv, err := h.svc.Complete(c.Request.Context(), userID, c.Param("interview_id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, iv)
}
