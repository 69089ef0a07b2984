package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/devgrill/devgrill/internal/api/handlers"
	"github.com/devgrill/devgrill/internal/api/middleware"
)

type Deps struct {
	Interview *handlers.InterviewHandler
	Answer    *handlers.AnswerHandler
	Stats     *handlers.StatsHandler
	WS        *handlers.WSHandler
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	// Health-ish
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// Protected routes (JWT)
	auth := r.Group("/")
	auth.Use(middleware.JWTAuth())

	auth.POST("/interviews/from-repository", d.Interview.CreateFromRepository)
	auth.POST("/interviews", d.Interview.CreateManual)
	auth.GET("/interviews/:interview_id", d.Interview.Get)
	auth.POST("/interviews/:interview_id/complete", d.Interview.Complete)
	auth.GET("/interviews/:interview_id/statistics", d.Stats.Interview)

	auth.POST("/answers", d.Answer.Submit)
	auth.POST("/answers/audio", d.Answer.SubmitAudio)

	auth.GET("/stats/me", d.Stats.Account)

	// WebSocket
	auth.GET("/ws/interviews/:interview_id", d.WS.InterviewEvents)
}
