// Package router provides HTTP routing, middleware configuration, and server setup for the web application
package router

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/compress"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/helmet"
	"github.com/gofiber/fiber/v3/middleware/limiter"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/requestid"
	"github.com/optiplan/optiplan/app/dto"
	"github.com/optiplan/optiplan/app/handlers"
	"github.com/optiplan/optiplan/app/middleware"
	_ "github.com/optiplan/optiplan/docs"
	"github.com/optiplan/optiplan/utils"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

// Router interface for HTTP routing
type Router interface {
	SetupRoutes()
	Start(address string) error
	GetApp() *fiber.App
}

// FiberRouter implements Router using Fiber v3
type FiberRouter struct {
	app                  *fiber.App
	authHandler          handlers.AuthHandlerInterface
	planHandler          handlers.PlanHandlerInterface
	workflowHandler      handlers.WorkflowHandlerInterface
	workflowAdminHandler handlers.WorkflowAdminHandlerInterface
	notificationHandler  handlers.NotificationHandlerInterface
	reportAdminHandler   handlers.ReportAdminHandlerInterface
	authMiddleware       *middleware.AuthMiddleware
	practiceScope        *middleware.PracticeScopeMiddleware
}

// NewFiberRouter creates a new Fiber router
func NewFiberRouter(
	authHandler handlers.AuthHandlerInterface,
	planHandler handlers.PlanHandlerInterface,
	workflowHandler handlers.WorkflowHandlerInterface,
	workflowAdminHandler handlers.WorkflowAdminHandlerInterface,
	notificationHandler handlers.NotificationHandlerInterface,
	reportAdminHandler handlers.ReportAdminHandlerInterface,
	authMiddleware *middleware.AuthMiddleware,
	practiceScope *middleware.PracticeScopeMiddleware,
) Router {
	app := fiber.New(fiber.Config{
		AppName:      "OptiPlan API",
		ServerHeader: "OptiPlan",
		ErrorHandler: errorHandler,
		BodyLimit:    4 * 1024 * 1024, // 4MB
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
	})

	return &FiberRouter{
		app:                  app,
		authHandler:          authHandler,
		planHandler:          planHandler,
		workflowHandler:      workflowHandler,
		workflowAdminHandler: workflowAdminHandler,
		notificationHandler:  notificationHandler,
		reportAdminHandler:   reportAdminHandler,
		authMiddleware:       authMiddleware,
		practiceScope:        practiceScope,
	}
}

// SetupRoutes configures all application routes
func (r *FiberRouter) SetupRoutes() {
	log.Println("Setting up routes...")

	r.setupMiddleware()

	// Prometheus scrape endpoint, outside the API group
	metricsHandler := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
	r.app.Get("/metrics", func(c fiber.Ctx) error {
		metricsHandler(c.RequestCtx())
		return nil
	})

	api := r.app.Group("/api/v1")

	// Health check route (no rate limiting)
	api.Get("/health", r.healthCheck)

	if os.Getenv("APP_ENV") == "development" || os.Getenv("APP_ENV") == "local" {
		api.Get("/swagger.json", r.serveSwaggerJSON)
		log.Println("API documentation enabled for development")
	}

	// General rate limiting for all API routes
	api.Use(limiter.New(limiter.Config{
		Max:        2000,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: rateLimitReached,
		Next: func(c fiber.Ctx) bool {
			return c.Path() == "/api/v1/health"
		},
	}))

	// Auth routes with stricter rate limiting
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:        20,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: rateLimitReached,
	}))

	auth.Post("/login", r.authHandler.Login)
	auth.Post("/admin/login", r.authHandler.AdminLogin)

	// Practice-scoped routes: authenticated user assigned to the practice
	practice := api.Group("/practices/:practiceUUID",
		r.authMiddleware.Authenticate(),
		r.practiceScope.RequirePractice(),
	)
	practice.Get("/campaigns", r.planHandler.ListCampaigns)
	practice.Get("/plan", r.planHandler.ListSelections)
	practice.Post("/plan/selections", r.planHandler.AddSelection)
	practice.Post("/plan/quick-populate", r.planHandler.QuickPopulate)
	practice.Get("/plan/selections/:uuid", r.planHandler.GetSelection)
	practice.Get("/plan/selections/:uuid/cost", r.planHandler.SelectionCost)
	practice.Delete("/plan/selections/:uuid", r.planHandler.RemoveSelection)
	practice.Post("/plan/selections/:uuid/acknowledge", r.workflowHandler.AcknowledgeRequest)
	practice.Post("/plan/selections/:uuid/assets", r.workflowHandler.SubmitAssets)

	// Notification routes: any authenticated practice user
	notifications := api.Group("/notifications", r.authMiddleware.Authenticate())
	notifications.Get("/", r.notificationHandler.ListNotifications)
	notifications.Get("/unread-count", r.notificationHandler.UnreadCount)
	notifications.Post("/:uuid/read", r.notificationHandler.MarkNotificationRead)

	// Admin routes
	admin := api.Group("/admin", r.authMiddleware.AdminAuthenticate())
	admin.Get("/selections", r.reportAdminHandler.ListSelections)
	admin.Get("/export", r.reportAdminHandler.ExportPlan)
	admin.Post("/selections/request-assets", r.workflowAdminHandler.RequestAssetsBulk)
	admin.Post("/selections/:uuid/request-assets", r.workflowAdminHandler.RequestAssets)
	admin.Post("/selections/:uuid/confirm", r.workflowAdminHandler.ConfirmAssets)
	admin.Post("/selections/:uuid/request-revision", r.workflowAdminHandler.RequestRevision)
	admin.Get("/selections/:uuid/log", r.workflowAdminHandler.ListCommunicationLog)

	// Not found handler
	r.app.Use(r.notFoundHandler)

	log.Println("Routes configured successfully")
}

// setupMiddleware configures global middleware
func (r *FiberRouter) setupMiddleware() {
	// Request ID middleware - must be first
	r.app.Use(requestid.New(requestid.Config{
		Header: "X-Request-ID",
		Generator: func() string {
			return generateRequestID()
		},
	}))

	// Security headers middleware
	r.app.Use(helmet.New(helmet.Config{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		HSTSMaxAge:            31536000, // 1 year
		ContentSecurityPolicy: "default-src 'self'; img-src 'self' data: https:; frame-ancestors 'none';",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
	}))

	// CORS middleware
	r.app.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"https://optiplan.example.com",
			"https://admin.optiplan.example.com",
		},
		AllowMethods: []string{
			"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS",
		},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Accept",
			"Authorization",
			"X-Requested-With",
			"X-Request-ID",
			"Cache-Control",
		},
		ExposeHeaders: []string{
			"X-Request-ID",
			"Content-Disposition",
		},
		AllowCredentials: true,
		MaxAge:           utils.CORSMaxAge,
	}))

	// Compression middleware
	r.app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	// Prometheus HTTP metrics
	r.app.Use(middleware.Metrics())

	// Structured access logging
	r.app.Use(logger.New(logger.Config{
		Format:     `{"time":"${time}","pid":"${pid}","request_id":"${locals:requestid}","level":"info","method":"${method}","path":"${path}","protocol":"${protocol}","ip":"${ip}","user_agent":"${ua}","status":${status},"latency":"${latency}","bytes_in":${bytesReceived},"bytes_out":${bytesSent}}` + "\n",
		TimeFormat: time.RFC3339,
		TimeZone:   "UTC",
		Next: func(c fiber.Ctx) bool {
			return c.Path() == "/api/v1/health" || c.Path() == "/metrics"
		},
	}))

	// Recovery middleware with custom error handling
	r.app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c fiber.Ctx, e any) {
			log.Printf(`{"time":"%s","level":"error","request_id":"%s","event":"panic","error":"%v","path":"%s","method":"%s","ip":"%s"}`,
				utils.UTCNow().Format(time.RFC3339),
				c.Locals("requestid"),
				e,
				c.Path(),
				c.Method(),
				c.IP(),
			)
		},
	}))
}

// Start starts the HTTP server
func (r *FiberRouter) Start(address string) error {
	log.Printf("Starting server on %s", address)
	return r.app.Listen(address)
}

// GetApp returns the Fiber app instance
func (r *FiberRouter) GetApp() *fiber.App {
	return r.app
}

// Health check endpoint
func (r *FiberRouter) healthCheck(c fiber.Ctx) error {
	return c.JSON(dto.APIResponse{
		Success: true,
		Message: "Service is healthy",
		Data: fiber.Map{
			"status":    "ok",
			"timestamp": utils.UTCNow().Unix(),
			"version":   "1.0.0",
			"service":   "optiplan-api",
		},
	})
}

// Serve Swagger JSON specification
func (r *FiberRouter) serveSwaggerJSON(c fiber.Ctx) error {
	swaggerData, err := os.ReadFile("docs/swagger.json")
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.APIResponse{
			Success: false,
			Message: "Failed to load Swagger documentation",
			Error: dto.ErrorDetail{
				Code: "SWAGGER_LOAD_ERROR",
			},
		})
	}

	c.Set("Content-Type", "application/json")
	return c.Send(swaggerData)
}

// Not found handler
func (r *FiberRouter) notFoundHandler(c fiber.Ctx) error {
	requestID := c.Locals("requestid")

	return c.Status(fiber.StatusNotFound).JSON(dto.APIResponse{
		Success: false,
		Message: "The requested resource was not found",
		Error: dto.ErrorDetail{
			Code: "NOT_FOUND",
			Details: fiber.Map{
				"path":       c.Path(),
				"method":     c.Method(),
				"request_id": requestID,
			},
		},
	})
}

func rateLimitReached(c fiber.Ctx) error {
	return c.Status(fiber.StatusTooManyRequests).JSON(dto.APIResponse{
		Success: false,
		Message: "Too many requests. Please try again later.",
		Error: dto.ErrorDetail{
			Code: "RATE_LIMIT_EXCEEDED",
		},
	})
}

// Global error handler
func errorHandler(c fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	log.Printf("Error %d: %v", code, err)

	requestID := c.Locals("requestid")

	return c.Status(code).JSON(dto.APIResponse{
		Success: false,
		Message: "An internal server error occurred",
		Error: dto.ErrorDetail{
			Code: "INTERNAL_ERROR",
			Details: fiber.Map{
				"timestamp":  utils.UTCNow().Unix(),
				"request_id": requestID,
			},
		},
	})
}

// generateRequestID creates a unique request ID
func generateRequestID() string {
	bytes := make([]byte, 8)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}
