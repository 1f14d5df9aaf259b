package router

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	authhandler "github.com/oakfield/care-api/internal/handler/auth"
	dailyloghandler "github.com/oakfield/care-api/internal/handler/dailylog"
	dashboardhandler "github.com/oakfield/care-api/internal/handler/dashboard"
	healthhandler "github.com/oakfield/care-api/internal/handler/health"
	medicationhandler "github.com/oakfield/care-api/internal/handler/medication"
	memoryhandler "github.com/oakfield/care-api/internal/handler/memory"
	patienthandler "github.com/oakfield/care-api/internal/handler/patient"
	taskhandler "github.com/oakfield/care-api/internal/handler/task"
	"github.com/oakfield/care-api/internal/middleware"
)

type Handlers struct {
	Health     *healthhandler.Handler
	Auth       *authhandler.Handler
	Patient    *patienthandler.Handler
	Medication *medicationhandler.Handler
	Task       *taskhandler.Handler
	DailyLog   *dailyloghandler.Handler
	Memory     *memoryhandler.Handler
	Dashboard  *dashboardhandler.Handler
}

type Config struct {
	RateLimit     rate.Limit
	RateBurst     int
	CORSConfig    middleware.CORSConfig
	MetricsPrefix string
}

type Router struct {
	engine   *gin.Engine
	auth     *middleware.AuthMiddleware
	handlers Handlers
	metrics  *routerMetrics
}

type routerMetrics struct {
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	errorTotal      *prometheus.CounterVec
}

func New(auth *middleware.AuthMiddleware, handlers Handlers, config Config) *Router {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	r := &Router{
		engine:   engine,
		auth:     auth,
		handlers: handlers,
		metrics:  initRouterMetrics(config.MetricsPrefix),
	}

	engine.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.ErrorHandler(),
		r.metricsMiddleware(),
		middleware.CORS(config.CORSConfig),
	)

	rateLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		Rate:  config.RateLimit,
		Burst: config.RateBurst,
	})
	engine.Use(rateLimiter.RateLimit())

	return r
}

func (r *Router) Setup() {
	api := r.engine.Group("/api/v1")

	api.Use(func(c *gin.Context) {
		c.Header("X-API-Version", "1.0")
		c.Next()
	})

	r.handlers.Health.RegisterRoutes(api)
	api.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Public routes
	r.handlers.Auth.RegisterPublicRoutes(api)

	// Protected routes
	protected := api.Group("")
	protected.Use(r.auth.Authenticate())

	// Memory item routes check patient access per item.
	r.handlers.Memory.RegisterItemRoutes(protected)
	r.handlers.Patient.RegisterProtectedRoutes(protected)

	// Carer-only surface: the registry, scheduling, logging and the
	// dashboard.
	carer := protected.Group("")
	carer.Use(r.auth.RequireCarer())
	{
		r.handlers.Auth.RegisterProtectedRoutes(carer)
		r.handlers.Patient.RegisterCarerRoutes(carer)
		r.handlers.Medication.RegisterRoutes(carer)
		r.handlers.Task.RegisterRoutes(carer)
		r.handlers.DailyLog.RegisterCarerRoutes(carer)
		r.handlers.Dashboard.RegisterRoutes(carer)
	}

	// Shared surface: carers pass through, family members only reach
	// patients they are linked to.
	shared := protected.Group("")
	shared.Use(r.auth.RequirePatientAccess("id"))
	{
		r.handlers.Patient.RegisterSharedRoutes(shared)
		r.handlers.DailyLog.RegisterSharedRoutes(shared)
		r.handlers.Memory.RegisterSharedRoutes(shared)
	}
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}

func initRouterMetrics(prefix string) *routerMetrics {
	return &routerMetrics{
		requestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: prefix + "_request_duration_seconds",
				Help: "Duration of HTTP requests in seconds",
			},
			[]string{"method", "path", "status"},
		),
		requestTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		errorTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_errors_total",
				Help: "Total number of HTTP errors",
			},
			[]string{"method", "path", "type"},
		),
	}
}

func (r *Router) metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()

		c.Next()

		status := fmt.Sprintf("%d", c.Writer.Status())
		duration := time.Since(start).Seconds()

		r.metrics.requestDuration.WithLabelValues(c.Request.Method, path, status).Observe(duration)
		r.metrics.requestTotal.WithLabelValues(c.Request.Method, path, status).Inc()

		if c.Writer.Status() >= 400 {
			r.metrics.errorTotal.WithLabelValues(c.Request.Method, path, "http").Inc()
		}
	}
}
