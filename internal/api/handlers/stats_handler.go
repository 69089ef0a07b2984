package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/devgrill/devgrill/internal/services"
)

type StatsHandler struct {
	svc services.StatsService
}

func NewStatsHandler(svc services.StatsService) *StatsHandler {
	return &StatsHandler{svc: svc}
}

func (h *StatsHandler) Interview(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	out, err := h.svc.InterviewStatistics(c.Request.Context(), userID, c.Param("interview_id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, out)
}

func (h *StatsHandler) Account(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	out, err := h.svc.AccountStatistics(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, out)
}
