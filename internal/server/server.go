// Package server contains the HTTP handlers for the portfolio API.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "folio/docs" // swagger docs
	"folio/internal/config"
	"folio/internal/database"
	"folio/internal/middleware"
	"folio/internal/models"
	"folio/internal/notifications"
	"folio/internal/repository"
	"folio/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// bodyLimit leaves headroom above the upload ceiling so oversized files reach
// the upload validation and get its error message.
const bodyLimit = 2 * service.MaxUploadSizeBytes

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	notifier       notifications.Notifier
	loginThrottle  *middleware.LoginThrottle

	accountRepo repository.AccountRepository

	authService        *service.AuthService
	uploadService      *service.UploadService
	projectService     *service.ProjectService
	testimonialService *service.TestimonialService
	blogService        *service.BlogService
	timelineService    *service.TimelineService
	contactService     *service.ContactService
	subscribeService   *service.SubscribeService
}

// Option customizes a Server built by NewServerWithDeps.
type Option func(*Server)

// WithNotifier replaces the notifier derived from the EMAIL_* settings.
func WithNotifier(n notifications.Notifier) Option {
	return func(s *Server) {
		s.notifier = n
	}
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}
	return NewServerWithDeps(cfg, db, nil)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// redisClient may be nil, in which case public write limits fail open.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, opts ...Option) (*Server, error) {
	if cfg == nil || db == nil {
		return nil, fmt.Errorf("server requires config and database")
	}

	s := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics("folio-api"),
		loginThrottle:  middleware.NewLoginThrottle(cfg.LoginRatePerMinute),
		accountRepo:    repository.NewAccountRepository(db),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.notifier == nil {
		s.notifier = notifications.New(cfg)
	}

	s.authService = service.NewAuthService(s.accountRepo, cfg)
	s.uploadService = service.NewUploadService(cfg)
	s.projectService = service.NewProjectService(repository.NewProjectRepository(db), s.uploadService)
	s.testimonialService = service.NewTestimonialService(repository.NewTestimonialRepository(db), s.uploadService)
	s.blogService = service.NewBlogService(repository.NewBlogRepository(db), s.uploadService, s.notifier, cfg.NotificationRecipient())
	s.timelineService = service.NewTimelineService(repository.NewTimelineRepository(db))

	images := repository.NewImageRepository(db)
	s.projectService.UseImageIndex(images)
	s.testimonialService.UseImageIndex(images)
	s.blogService.UseImageIndex(images)

	s.contactService = service.NewContactService(repository.NewContactRepository(db), s.notifier, cfg.NotificationRecipient())
	s.subscribeService = service.NewSubscribeService(repository.NewSubscriberRepository(db), s.notifier)

	return s, nil
}

// NewApp builds the fiber app with middleware and routes installed.
func (s *Server) NewApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "Folio API",
		BodyLimit:    bodyLimit,
		ErrorHandler: middleware.ErrorHandler(!s.config.IsProduction()),
	})
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	return app
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())

	if s.config.TracingEnabled {
		app.Use(middleware.TracingMiddleware())
	}
	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Uploaded images are embedded by the web client from another origin.
	app.Use(helmet.New(helmet.Config{
		CrossOriginResourcePolicy: "cross-origin",
	}))

	app.Use(middleware.StructuredLogger())

	// CORS runs before the limiter so rejected requests still carry CORS headers.
	// Credentials cannot be combined with a wildcard origin.
	origins := strings.Join(s.config.Origins(), ",")
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowCredentials: origins != "" && origins != "*",
		MaxAge:           86400,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        300,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions || s.config.Env == "test"
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return models.NewRateLimitedError()
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	// Files disappear when their item is deleted, so the file handler must
	// not keep serving them from its in-memory cache.
	app.Static(service.PublicUploadPrefix, s.uploadService.Root(), fiber.Static{
		MaxAge:        3600,
		CacheDuration: -1,
	})

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	api := app.Group("/api")

	api.Get("/health/live", s.LivenessCheck)
	api.Get("/health/ready", s.ReadinessCheck)
	api.Get("/swagger/*", swagger.HandlerDefault)

	protect := middleware.Protect(s.authService, s.accountRepo)
	publicWrite := func(name string) fiber.Handler {
		return middleware.RateLimit(s.redis, s.config.PublicWriteLimit,
			time.Duration(s.config.PublicWriteWindowSeconds)*time.Second, name)
	}

	auth := api.Group("/auth")
	auth.Post("/login", s.loginThrottle.Handler(), s.Login)
	auth.Get("/me", protect, s.Me)

	registerContent(api, protect, "/projects", &contentHandler[models.Project, *models.Project]{
		svc:        s.projectService,
		bind:       bindProject,
		fileFields: []string{"projectImage", "image"},
	})
	registerContent(api, protect, "/testimonials", &contentHandler[models.Testimonial, *models.Testimonial]{
		svc:        s.testimonialService,
		bind:       bindTestimonial,
		fileFields: []string{"testimonialImage", "image"},
	})
	registerContent(api, protect, "/timeline", &contentHandler[models.TimelineItem, *models.TimelineItem]{
		svc:  s.timelineService,
		bind: bindTimelineItem,
	})

	// Specific /:id/:resource blog routes are registered before the generic /:id routes.
	blogs := api.Group("/blogs")
	blogs.Get("/:id/related", s.RelatedBlogs)
	blogs.Put("/:id/like", publicWrite("blog_like"), s.LikeBlog)
	blogs.Post("/:id/comments", publicWrite("blog_comment"), s.AddBlogComment)
	registerContent(api, protect, "/blogs", &contentHandler[models.Blog, *models.Blog]{
		svc:        s.blogService,
		bind:       bindBlog,
		fileFields: []string{"blogImage", "image"},
	})

	contact := api.Group("/contact")
	contact.Post("/", publicWrite("contact"), s.SubmitContact)
	contact.Get("/", protect, s.ListContacts)
	contact.Delete("/:id", protect, s.DeleteContact)

	api.Post("/subscribe", publicWrite("subscribe"), s.Subscribe)
	api.Post("/upload", protect, s.Upload)
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck reports database and Redis health. Redis is optional, so
// only an unreachable configured instance makes the service unready.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "disabled"
	if s.redis != nil {
		redisStatus = "healthy"
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus != "healthy" || redisStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// Start builds the app and listens on the configured port.
func (s *Server) Start() error {
	s.app = s.NewApp()
	middleware.Logger.Info("Server starting", slog.String("port", s.config.Port))
	return s.app.Listen(":" + s.config.Port)
}

// Shutdown gracefully stops the HTTP server and closes the database and Redis.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			middleware.Logger.Error("error shutting down HTTP server", slog.String("error", err.Error()))
		}
	}

	if err := database.Close(s.db); err != nil {
		middleware.Logger.Error("error closing database", slog.String("error", err.Error()))
	}

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			middleware.Logger.Error("error closing redis", slog.String("error", err.Error()))
		}
	}

	middleware.Logger.Info("Server shutdown complete")
	return nil
}
