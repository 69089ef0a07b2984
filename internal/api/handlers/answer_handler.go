package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/devgrill/devgrill/internal/services"
	"github.com/devgrill/devgrill/internal/storage"
	"github.com/devgrill/devgrill/internal/utils"
	"github.com/devgrill/devgrill/internal/workers"
)

type AnswerHandler struct {
	svc      services.InterviewService
	uploader storage.Uploader
	redis    *redis.Client
}

func NewAnswerHandler(svc services.InterviewService, uploader storage.Uploader, rdb *redis.Client) *AnswerHandler {
	return &AnswerHandler{svc: svc, uploader: uploader, redis: rdb}
}

type SubmitAnswerRequest struct {
	InterviewID     string `json:"interview_id" binding:"required"`
	QuestionID      string `json:"question_id" binding:"required"`
	Text            string `json:"text"`
	DurationSeconds int64  `json:"duration_seconds"`
}

func (h *AnswerHandler) Submit(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req SubmitAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "AnswerHandler.Submit", "invalid request body", err))
		return
	}

	answer, err := h.svc.SubmitAnswer(c.Request.Context(), services.SubmitAnswerInput{
		UserID:          userID,
		InterviewID:     req.InterviewID,
		QuestionID:      req.QuestionID,
		Text:            req.Text,
		DurationSeconds: req.DurationSeconds,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, answer)
}

// SubmitAudio accepts a spoken answer as multipart upload. The audio is
// stored, then transcription and evaluation happen asynchronously in the
// worker pool; the result is pushed on the interview's event channel.
func (h *AnswerHandler) SubmitAudio(c *gin.Context) {
	const op = "AnswerHandler.SubmitAudio"

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	if h.uploader == nil {
		writeError(c, utils.E(utils.CodeUnavailable, op, "audio answers are not enabled", nil))
		return
	}

	interviewID := c.PostForm("interview_id")
	questionID := c.PostForm("question_id")
	if interviewID == "" || questionID == "" {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "interview_id and question_id are required", nil))
		return
	}
	duration, _ := strconv.ParseInt(c.PostForm("duration_seconds"), 10, 64)

	file, header, err := c.Request.FormFile("audio")
	if err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "audio file is required", err))
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "audio/wav"
	}

	objectName := fmt.Sprintf("answers/%s/%s-%s", interviewID, questionID, uuid.NewString())
	audioURL, err := h.uploader.Upload(c.Request.Context(), objectName, contentType, file)
	if err != nil {
		writeError(c, utils.E(utils.CodeInternal, op, "failed to store audio", err))
		return
	}

	err = h.redis.XAdd(c.Request.Context(), &redis.XAddArgs{
		Stream: workers.AnswerStream,
		Values: map[string]any{
			"user_id":          userID,
			"interview_id":     interviewID,
			"question_id":      questionID,
			"audio_url":        audioURL,
			"language":         c.PostForm("language"),
			"duration_seconds": strconv.FormatInt(duration, 10),
			"ts_unix":          strconv.FormatInt(time.Now().UTC().Unix(), 10),
		},
	}).Err()
	if err != nil {
		writeError(c, utils.E(utils.CodeInternal, op, "failed to enqueue answer", err))
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"status":    "processing",
		"audio_ref": audioURL,
	})
}
