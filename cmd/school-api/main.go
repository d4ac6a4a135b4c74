package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/edudesk/school-api/internal/handler"
	"github.com/edudesk/school-api/internal/middleware"
	"github.com/edudesk/school-api/internal/repository"
	"github.com/edudesk/school-api/internal/service"
	"github.com/edudesk/school-api/pkg/cache"
	"github.com/edudesk/school-api/pkg/config"
	"github.com/edudesk/school-api/pkg/database"
	"github.com/edudesk/school-api/pkg/logger"
	corsmiddleware "github.com/edudesk/school-api/pkg/middleware/cors"
	reqidmiddleware "github.com/edudesk/school-api/pkg/middleware/requestid"
)

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

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		redisClient = nil
	}

	accountRepo := repository.NewAccountRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	teacherRepo := repository.NewTeacherRepository(db)
	classRepo := repository.NewClassRepository(db)
	classSectionRepo := repository.NewClassSectionRepository(db)
	subjectRepo := repository.NewSubjectRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	examRepo := repository.NewExamRepository(db)
	feeRepo := repository.NewFeeRepository(db)
	dashboardRepo := repository.NewDashboardRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	defer cacheRepo.Close()

	validate := validator.New()

	metricsSvc := service.NewMetricsService()
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Reports.CacheTTL, logr, redisClient != nil)

	authSvc := service.NewAuthService(accountRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             cfg.JWT.Issuer,
	})
	studentSvc := service.NewStudentService(studentRepo, validate, logr)
	teacherSvc := service.NewTeacherService(teacherRepo, validate, logr)
	classSvc := service.NewClassService(classRepo, validate, logr)
	classSectionSvc := service.NewClassSectionService(classSectionRepo, validate, logr)
	subjectSvc := service.NewSubjectService(subjectRepo, validate, logr)
	attendanceSvc := service.NewAttendanceService(attendanceRepo, cacheSvc, validate, logr)
	examSvc := service.NewExamService(examRepo, cacheSvc, validate, logr)
	feeSvc := service.NewFeeService(feeRepo, accountRepo, cacheSvc, validate, logr)
	dashboardSvc := service.NewDashboardService(dashboardRepo, logr)
	reportSvc := service.NewReportService(studentRepo, attendanceRepo, feeRepo, examRepo, cacheSvc, cfg.Reports.CacheTTL, logr)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	handlers := handler.Handlers{
		Auth:          handler.NewAuthHandler(authSvc),
		Students:      handler.NewStudentHandler(studentSvc, reportSvc),
		Teachers:      handler.NewTeacherHandler(teacherSvc),
		Classes:       handler.NewClassHandler(classSvc),
		ClassSections: handler.NewClassSectionHandler(classSectionSvc),
		Subjects:      handler.NewSubjectHandler(subjectSvc),
		Attendance:    handler.NewAttendanceHandler(attendanceSvc),
		Exams:         handler.NewExamHandler(examSvc),
		Fees:          handler.NewFeeHandler(feeSvc),
		Dashboard:     handler.NewDashboardHandler(dashboardSvc),
		Metrics:       metricsSvc,
		Ready: func(c *gin.Context) {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := db.PingContext(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
			c.JSON(http.StatusOK, gin.H{"status": "ready"})
		},
	}

	handler.RegisterRoutes(r, cfg.APIPrefix, authSvc, handlers)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
