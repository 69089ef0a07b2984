package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/devgrill/devgrill/config"
	"github.com/devgrill/devgrill/internal/api/handlers"
	"github.com/devgrill/devgrill/internal/api/middleware"
	"github.com/devgrill/devgrill/internal/api/routes"
	"github.com/devgrill/devgrill/internal/cache"
	"github.com/devgrill/devgrill/internal/logger"
	"github.com/devgrill/devgrill/internal/providers/githost"
	"github.com/devgrill/devgrill/internal/providers/llm"
	"github.com/devgrill/devgrill/internal/providers/stt"
	mongorepo "github.com/devgrill/devgrill/internal/repositories/mongo"
	pgrepo "github.com/devgrill/devgrill/internal/repositories/postgres"
	"github.com/devgrill/devgrill/internal/services"
	"github.com/devgrill/devgrill/internal/storage"
	"github.com/devgrill/devgrill/internal/workers"
)

func main() {
	_ = godotenv.Load()

	lg := logger.New()
	ctx := context.Background()

	// Init PostgreSQL
	if err := config.InitPostgres(); err != nil {
		log.Fatalf("PostgreSQL init error: %v", err)
	}
	lg.Info("PostgreSQL connected")

	// Init MongoDB
	if err := config.InitMongo(); err != nil {
		log.Fatalf("MongoDB init error: %v", err)
	}
	if err := config.EnsureMongoIndexes(); err != nil {
		log.Fatalf("MongoDB index error: %v", err)
	}
	lg.Info("MongoDB connected")

	// Init Redis
	if err := config.InitRedis(); err != nil {
		log.Fatalf("Redis init error: %v", err)
	}
	lg.Info("Redis connected")

	// Repositories
	interviewRepo := pgrepo.NewInterviewRepo(config.PostgresDB)
	questionRepo := pgrepo.NewQuestionRepo(config.PostgresDB)
	answerRepo := pgrepo.NewAnswerRepo(config.PostgresDB)
	groundingRepo := mongorepo.NewGroundingRepo(config.MongoDatabase())

	jsonCache := cache.NewRedisCache(config.RedisClient, "devgrill:")

	// Content host
	host, err := githost.NewGitHub(githost.GitHubConfig{Token: os.Getenv("GITHUB_TOKEN")}, lg)
	if err != nil {
		log.Fatalf("GitHub client init error: %v", err)
	}

	// Generative provider. The capability flag is decided here, once, and
	// passed into the services.
	var provider llm.Provider
	aiEnabled := false
	if project := os.Getenv("VERTEX_PROJECT_ID"); project != "" {
		p, perr := llm.NewVertexGemini(ctx, project, os.Getenv("VERTEX_LOCATION"), os.Getenv("VERTEX_MODEL"))
		if perr != nil {
			log.Fatalf("Vertex init error: %v", perr)
		}
		defer p.Close()
		provider = p
		aiEnabled = true
	} else {
		lg.Warn("VERTEX_PROJECT_ID not set; question generation degraded, evaluation neutral")
	}

	// Services
	groundingSvc := services.NewGroundingService(host, lg)
	questionSvc := services.NewQuestionService(provider, aiEnabled, lg)
	evalSvc := services.NewEvaluationService(provider, aiEnabled, lg)
	interviewSvc := services.NewInterviewService(services.InterviewServiceDeps{
		Interviews:   interviewRepo,
		Questions:    questionRepo,
		Answers:      answerRepo,
		Grounding:    groundingRepo,
		GroundingSvc: groundingSvc,
		QuestionSvc:  questionSvc,
		EvalSvc:      evalSvc,
		Redis:        config.RedisClient,
		Cache:        jsonCache,
		Logger:       lg,
	})
	statsSvc := services.NewStatsService(interviewRepo, questionRepo, answerRepo, jsonCache, lg)

	// Audio answer pipeline (optional: needs a bucket and speech credentials)
	var uploader storage.Uploader
	if bucket := os.Getenv("GCS_BUCKET"); bucket != "" {
		up, uerr := storage.NewGCSUploader(ctx, bucket)
		if uerr != nil {
			log.Fatalf("GCS init error: %v", uerr)
		}
		defer up.Close()
		uploader = up

		speech, serr := stt.NewGoogleSpeech(ctx)
		if serr != nil {
			log.Fatalf("Speech init error: %v", serr)
		}
		defer speech.Close()

		pool := &workers.AnswerWorkerPool{
			Redis:      config.RedisClient,
			Interviews: interviewSvc,
			STT:        speech,
			Logger:     lg,
		}
		if err := pool.Start(ctx); err != nil {
			log.Fatalf("worker pool error: %v", err)
		}
	} else {
		lg.Warn("GCS_BUCKET not set; audio answers disabled")
	}

	// HTTP
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(lg))

	routes.RegisterRoutes(r, routes.Deps{
		Interview: handlers.NewInterviewHandler(interviewSvc),
		Answer:    handlers.NewAnswerHandler(interviewSvc, uploader, config.RedisClient),
		Stats:     handlers.NewStatsHandler(statsSvc),
		WS:        handlers.NewWSHandler(interviewSvc, config.RedisClient),
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
