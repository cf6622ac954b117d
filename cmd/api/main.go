package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bountyhub/internal/app"
	"bountyhub/internal/config"
	"bountyhub/internal/database"
	apphttp "bountyhub/internal/http"
	"bountyhub/internal/http/handlers"
	"bountyhub/internal/http/metrics"
	httpmw "bountyhub/internal/http/middleware"
	"bountyhub/internal/http/response"
	"bountyhub/internal/observability"
	"bountyhub/internal/repository/postgres"
	"bountyhub/internal/security"
)

func main() {
	cfg := config.Load()
	logger := observability.NewLogger()
	slog.SetDefault(logger)

	db, err := database.OpenPostgres(context.Background(), database.PostgresConfig{
		DSN:             cfg.PostgresDSN,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxIdle:     cfg.DBConnMaxIdle,
		ConnMaxLifetime: cfg.DBConnMaxLife,
	})
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	questionRepo := postgres.NewQuestionRepository(db)
	volunteerRepo := postgres.NewVolunteerRepository(db)
	answerRepo := postgres.NewAnswerRepository(db)

	questionService := app.NewQuestionService(questionRepo, answerRepo, volunteerRepo)
	workflowService := app.NewWorkflowService(questionRepo, volunteerRepo, answerRepo)

	jwtProvider := security.NewJWTProvider(cfg.TokenSecret)

	var limiter httpmw.Limiter
	redisClient := database.NewRedis(cfg.RedisAddr)
	if redisClient != nil {
		defer redisClient.Close()
		limiter = httpmw.NewRedisLimiter(redisClient)
		logger.Info("rate limiting backed by redis", slog.String("addr", cfg.RedisAddr))
	} else {
		limiter = httpmw.NewMemoryLimiter()
	}

	collector := metrics.NewCollector()
	response.SetErrorCollector(collector)

	router := apphttp.NewRouter(apphttp.RouterDependencies{
		QuestionHandler: handlers.NewQuestionHandler(questionService),
		WorkflowHandler: handlers.NewWorkflowHandler(workflowService, limiter),
		MetricsHandler:  handlers.NewMetricsHandler(collector),
		AuthMiddleware:  httpmw.NewAuthMiddleware(jwtProvider),
		Limiter:         limiter,
		Metrics:         collector,
		RequestTimeout:  cfg.RequestTimeout,
	})
	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("API started on :" + cfg.HTTPPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Fatal(err)
	}
}
