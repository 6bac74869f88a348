package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/tutorly/tutor-api/api/swagger"
	"github.com/tutorly/tutor-api/internal/handler"
	appmiddleware "github.com/tutorly/tutor-api/internal/middleware"
	"github.com/tutorly/tutor-api/internal/repository"
	"github.com/tutorly/tutor-api/internal/service"
	"github.com/tutorly/tutor-api/pkg/cache"
	"github.com/tutorly/tutor-api/pkg/config"
	"github.com/tutorly/tutor-api/pkg/database"
	"github.com/tutorly/tutor-api/pkg/export"
	"github.com/tutorly/tutor-api/pkg/jobs"
	"github.com/tutorly/tutor-api/pkg/logger"
	corsmiddleware "github.com/tutorly/tutor-api/pkg/middleware/cors"
	reqidmiddleware "github.com/tutorly/tutor-api/pkg/middleware/requestid"
	"github.com/tutorly/tutor-api/pkg/storage"
)

// @title Tutor Panel API
// @version 1.0.0
// @description Backend for the private tutoring business panel
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	store, err := storage.NewBucketStorage(cfg.Storage.BaseDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to init storage", "error", err)
	}

	metricsSvc := service.NewMetricsService()

	var cacheSvc *service.CacheService
	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, report caching disabled", zap.Error(err))
		cacheSvc = service.NewCacheService(nil, metricsSvc, cfg.Reports.CacheTTL, logr, false)
	} else {
		defer redisClient.Close()
		cacheSvc = service.NewCacheService(repository.NewCacheRepository(redisClient), metricsSvc, cfg.Reports.CacheTTL, logr, true)
	}

	validate := validator.New()

	userRepo := repository.NewUserRepository(db)
	teacherRepo := repository.NewTeacherRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	lessonRepo := repository.NewLessonRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	subjectRepo := repository.NewSubjectRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)

	cueQueue := jobs.NewQueue("reminder-cues", func(ctx context.Context, task jobs.Task) error {
		logr.Info("reminder cue", zap.Any("teacher_id", task.Payload))
		return nil
	}, jobs.QueueConfig{Workers: cfg.Notifications.QueueWorkers, Logger: logr})

	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		TokenSecret: cfg.JWT.Secret,
		TokenExpiry: cfg.JWT.Expiration,
		Issuer:      "tutor-api",
	})
	teacherSvc := service.NewTeacherService(teacherRepo, userRepo, studentRepo, lessonRepo, paymentRepo, store, validate, logr)
	studentSvc := service.NewStudentService(studentRepo, lessonRepo, cacheSvc, validate, logr)
	lessonSvc := service.NewLessonService(lessonRepo, studentRepo, cacheSvc, validate, logr)
	paymentSvc := service.NewPaymentService(paymentRepo, studentRepo, cacheSvc, validate, logr)
	scheduleSvc := service.NewScheduleService(scheduleRepo, studentRepo, validate, logr)
	reportSvc := service.NewReportService(studentRepo, lessonRepo, paymentRepo, cacheSvc, logr, cfg.Dashboard.CacheTTL, cfg.Reports.CacheTTL)
	notificationSvc := service.NewNotificationService(notificationRepo, cueQueue, metricsSvc, logr, cfg.Notifications.PollInterval)
	subjectSvc := service.NewSubjectService(subjectRepo, store, validate, logr)
	settingsSvc := service.NewSettingsService(settingsRepo, logr)
	exportSvc := service.NewExportService(teacherSvc, studentSvc, paymentSvc, scheduleSvc, reportSvc, settingsSvc, lessonRepo, export.NewPDFExporter(), export.NewCSVExporter(), metricsSvc, validate, logr)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(appmiddleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	handler.RegisterRoutes(r, cfg.APIPrefix, authSvc, handler.Handlers{
		Auth:         handler.NewAuthHandler(authSvc),
		Teacher:      handler.NewTeacherHandler(teacherSvc),
		Student:      handler.NewStudentHandler(studentSvc, teacherSvc),
		Lesson:       handler.NewLessonHandler(lessonSvc, teacherSvc),
		Payment:      handler.NewPaymentHandler(paymentSvc, teacherSvc),
		Schedule:     handler.NewScheduleHandler(scheduleSvc, teacherSvc),
		Report:       handler.NewReportHandler(reportSvc, teacherSvc),
		Notification: handler.NewNotificationHandler(notificationSvc, teacherSvc),
		Subject:      handler.NewSubjectHandler(subjectSvc),
		Settings:     handler.NewSettingsHandler(settingsSvc),
		Export:       handler.NewExportHandler(exportSvc),
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cueQueue.Start(ctx)
	defer cueQueue.Stop()
	notificationSvc.StartPoller(ctx)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: r,
	}

	go func() {
		<-ctx.Done()
		logr.Info("shutting down")
		if err := srv.Shutdown(context.Background()); err != nil {
			logr.Warn("server shutdown failed", zap.Error(err))
		}
	}()

	logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
