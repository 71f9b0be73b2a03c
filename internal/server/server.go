// Package server contains HTTP handlers for the application's API endpoints.
package server

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	_ "github.com/Shukurulla/stream-service/docs" // swagger docs
	"github.com/Shukurulla/stream-service/internal/cache"
	"github.com/Shukurulla/stream-service/internal/config"
	"github.com/Shukurulla/stream-service/internal/database"
	"github.com/Shukurulla/stream-service/internal/middleware"
	"github.com/Shukurulla/stream-service/internal/models"
	"github.com/Shukurulla/stream-service/internal/repository"
	"github.com/Shukurulla/stream-service/internal/service"
	"github.com/Shukurulla/stream-service/internal/video"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	shutdownCtx    context.Context
	shutdownFn     context.CancelFunc

	teacherRepo      repository.TeacherRepository
	studentRepo      repository.StudentRepository
	groupRepo        repository.GroupRepository
	streamRepo       repository.StreamRepository
	themeRepo        repository.ThemeRepository
	themeFeedback    repository.ThemeFeedbackRepository
	notificationRepo repository.NotificationRepository
	fileRepo         repository.FileRepository
	percentRepo      repository.PercentRepository
	scoreRepo        repository.ScoreRepository
	plannedRepo      repository.PlannedLessonRepository
	webhookRepo      repository.WebhookRepository

	provider video.Provider

	streamService       *service.StreamService
	feedbackService     *service.FeedbackService
	notificationService *service.NotificationService
	progressService     *service.ProgressService
	sweeper             *service.PlannedSweeper
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	redisClient := cache.GetClient()

	provider := video.NewClient(cfg.VideoAPIBaseURL, cfg.VideoAPIKey)
	return NewServerWithDeps(cfg, db, redisClient, provider)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis/provider.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, provider video.Provider) (*Server, error) {
	server := &Server{
		config:           cfg,
		db:               db,
		redis:            redisClient,
		promMiddleware:   middleware.InitMetrics("stream-service-api"),
		teacherRepo:      repository.NewTeacherRepository(db),
		studentRepo:      repository.NewStudentRepository(db),
		groupRepo:        repository.NewGroupRepository(db),
		streamRepo:       repository.NewStreamRepository(db),
		themeRepo:        repository.NewThemeRepository(db),
		themeFeedback:    repository.NewThemeFeedbackRepository(db),
		notificationRepo: repository.NewNotificationRepository(db),
		fileRepo:         repository.NewFileRepository(db),
		percentRepo:      repository.NewPercentRepository(db),
		scoreRepo:        repository.NewScoreRepository(db),
		plannedRepo:      repository.NewPlannedLessonRepository(db),
		webhookRepo:      repository.NewWebhookRepository(db),
		provider:         provider,
	}

	server.streamService = service.NewStreamService(
		server.streamRepo, server.teacherRepo, server.groupRepo, server.webhookRepo, provider)
	server.feedbackService = service.NewFeedbackService(
		server.streamRepo, server.teacherRepo, server.studentRepo, server.themeRepo,
		server.themeFeedback, server.notificationRepo)
	server.notificationService = service.NewNotificationService(
		server.notificationRepo, server.streamRepo, server.teacherRepo, server.studentRepo)
	server.progressService = service.NewProgressService(
		server.scoreRepo, server.percentRepo, server.studentRepo)
	server.sweeper = service.NewPlannedSweeper(server.plannedRepo)

	return server, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Server spans; sets the traceID local before the context middleware
	// copies it for the logger
	if s.config.TracingEnabled {
		app.Use(middleware.TracingMiddleware())
	}

	// Context Middleware to propagate Request ID and User ID
	app.Use(middleware.ContextMiddleware())

	// Prometheus Metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New())

	// Structured Logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// CORS middleware should run before middlewares that can short-circuit
	// so browser clients still receive CORS headers on error responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		// Never rate-limit preflight requests; they are handled by CORS.
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"message": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application. Paths are mounted at
// the app root; mobile clients depend on the exact shapes.
func (s *Server) SetupRoutes(app *fiber.App) {
	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// Static uploads
	app.Static("/uploads", s.config.UploadDir)

	auth := s.AuthRequired()

	// Auth
	app.Post("/create-teacher", middleware.RateLimit(
		s.redis, 3, 10*time.Minute, "create_teacher"), s.CreateTeacher)
	app.Post("/login-teacher", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "login_teacher"), s.LoginTeacher)
	app.Post("/student/register", middleware.RateLimit(
		s.redis, 3, 10*time.Minute, "student_register"), s.RegisterStudent)
	app.Post("/student/login", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "student_login"), s.LoginStudent)

	// Streams
	app.Post("/create-stream", auth, s.CreateStream)
	app.Get("/streams/live", s.GetLiveStreams)
	app.Get("/streams/soon", s.GetUpcomingStreams)
	app.Get("/streams/previous", s.GetPreviousStreams)
	app.Put("/streams/:id/start", auth, s.StartStream)
	app.Put("/streams/:id/ended", auth, s.EndStream)
	app.Put("/streams/:id/read", auth, s.MarkStreamFeedbacksRead)
	app.Post("/streams/:id/viewers", s.AddStreamViewer)
	app.Get("/streams/:id/video", s.GetSavedVideo)
	app.Get("/streams/:id", s.GetStream)

	// Stream feedback (singular prefix preserved from the original API)
	app.Post("/stream/:id/feedback", s.SubmitStreamFeedback)
	app.Get("/stream/:id/feedbacks", s.GetStreamFeedbacks)

	// Provider webhook + token
	app.Post("/webhook", s.HandleWebhook)
	app.Get("/get-token", s.GetProviderToken)

	// Notifications
	app.Post("/notifications", s.CreateNotification)
	app.Get("/notifications/notification/:id", s.GetNotification)
	app.Get("/notifications/:studentId/unread-count", s.GetUnreadCount)
	app.Put("/notifications/:studentId/read", auth, s.MarkNotificationsRead)
	app.Get("/notifications/:studentId", s.GetStudentNotifications)

	// Groups
	app.Post("/create-group", auth, s.CreateGroup)
	app.Get("/get-groups", s.GetGroups)
	app.Get("/get-group/:id", s.GetGroup)
	app.Put("/group/:id/edit", auth, s.UpdateGroup)
	app.Delete("/group/:id/delete", auth, s.DeleteGroup)

	// Themes
	app.Get("/theme/all", s.GetThemes)
	app.Get("/theme/my-theme", auth, s.GetMyThemes)
	app.Post("/theme/create", auth, s.CreateTheme)
	app.Put("/theme/edit/:id", auth, s.UpdateTheme)
	app.Delete("/theme/delete/:id", auth, s.DeleteTheme)

	// Theme feedback + merged teacher feed
	app.Get("/feedbacks/:id", s.GetTeacherFeedbacks)
	app.Get("/theme-feedback/all", s.GetThemeFeedbacks)
	app.Get("/theme-feedback/by-theme/:id", s.GetThemeFeedbacksByTheme)
	app.Post("/theme-feedback/create", auth, s.CreateThemeFeedback)
	app.Put("/theme-feedback/edit/:id", auth, s.UpdateThemeFeedback)
	app.Delete("/theme-feedback/delete/:id", auth, s.DeleteThemeFeedback)

	// Files
	app.Get("/files/all", s.GetFiles)
	app.Get("/files/:id", s.GetFile)
	app.Post("/files/create", auth, s.CreateFile)

	// Percents
	app.Post("/add-percent", auth, s.CreatePercent)
	app.Get("/all-percents", s.GetAllPercents)
	app.Get("/percent/student/:studentId", s.GetStudentPercents)
	app.Get("/percent/:science", s.GetPercentsByScience)
	app.Put("/percent/:id/edit", auth, s.UpdatePercent)
	app.Delete("/percent/:id/delete", auth, s.DeletePercent)

	// Scores and progress
	app.Post("/scores", s.SubmitScore)
	app.Get("/scores", s.GetScores)
	app.Get("/lessons/:lesson", s.GetLessonScores)
	app.Get("/student-progress/:studentId", s.GetStudentProgress)

	// Planned lessons
	app.Get("/planned/all", s.GetPlannedLessons)
	app.Post("/planned/create", s.CreatePlannedLesson)
	app.Delete("/planned/delete/:id", s.DeletePlannedLesson)
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		// Redis is optional; the service degrades to cacheless operation.
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"version": "1.0.0",
		"status":  overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// AuthRequired returns the authentication middleware
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		tokenString := ""
		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && parts[0] == "Bearer" {
				tokenString = parts[1]
			}
		}
		if tokenString == "" {
			tokenString = c.Query("token")
		}

		if tokenString == "" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Authorization required"))
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
			}
			return []byte(s.config.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid or expired token"))
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid token claims"))
		}

		// Validate issuer and audience
		if issuer, issuerOk := claims["iss"].(string); !issuerOk || issuer != "stream-service-api" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid token issuer"))
		}
		if audience, audienceOk := claims["aud"].(string); !audienceOk || audience != "stream-service-client" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid token audience"))
		}

		sub, ok := claims["sub"].(string)
		if !ok {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid subject claim"))
		}
		userID, err := strconv.ParseUint(sub, 10, 32)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid user ID in token"))
		}

		role, _ := claims["role"].(string)

		// Check JTI for revocation
		if jti, exists := claims["jti"].(string); exists && jti != "" {
			if s.redis != nil {
				isBlacklisted, err := s.redis.Exists(c.Context(), "blacklist:"+jti).Result()
				if err == nil && isBlacklisted > 0 {
					return models.RespondWithError(c, fiber.StatusUnauthorized,
						models.NewUnauthorizedError("Token has been revoked"))
				}
			}
		}

		// Store identity in locals and sync to UserContext for logging
		c.Locals("userID", uint(userID))
		c.Locals("userRole", role)
		ctx := context.WithValue(c.UserContext(), middleware.UserIDKey, uint(userID))
		ctx = context.WithValue(ctx, middleware.UserRoleKey, role)
		c.SetUserContext(ctx)

		return c.Next()
	}
}

// Start starts the server
func (s *Server) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	s.shutdownCtx = ctx
	s.shutdownFn = cancel

	app := fiber.New(fiber.Config{
		AppName: "Stream Service API",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})
	s.app = app

	s.SetupMiddleware(app)
	s.SetupRoutes(app)

	// Background sweeper for expired planned lessons
	go s.sweeper.Run(s.shutdownCtx)

	log.Printf("Server starting on port %s...", s.config.Port)
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	// Stop the sweeper and any other server-scoped goroutines
	if s.shutdownFn != nil {
		s.shutdownFn()
	}

	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			log.Printf("error shutting down HTTP server: %v", err)
		}
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Printf("error closing sql DB: %v", cerr)
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			log.Printf("error closing redis: %v", rerr)
		}
	}

	log.Println("Server shutdown complete")
	return nil
}
