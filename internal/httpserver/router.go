package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"critique/internal/handler"
)

// ReadinessCheck is run by /readyz; any error marks the service not ready.
type ReadinessCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

type Router struct {
	Engine *gin.Engine
}

type Options struct {
	JWTSecret   string
	FrontendURL string
	Checks      []ReadinessCheck
}

func NewRouter(
	authHandler *handler.AuthHandler,
	emailHandler *handler.EmailHandler,
	uploadHandler *handler.UploadHandler,
	websiteHandler *handler.WebsiteHandler,
	reviewHandler *handler.ReviewHandler,
	opts Options,
) *Router {
	r := gin.New()
	r.Use(gin.Recovery(), TraceMiddleware(), MetricsMiddleware(), CORSMiddleware(opts.FrontendURL))

	// Health endpoints (放在最前面)
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.HEAD("/healthz", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	r.GET("/readyz", Readyz(opts.Checks))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/verify-email", emailHandler.VerifyEmail)

	v1 := r.Group("/api/v1")
	authMW := AuthMiddleware(opts.JWTSecret)

	// Public
	v1.POST("/auth/signup", authHandler.Signup)
	v1.POST("/auth/signin", authHandler.Signin)
	v1.GET("/leaderboard/", websiteHandler.Leaderboard)

	// Protected
	protected := v1.Group("/")
	protected.Use(authMW)
	{
		protected.GET("/auth/", authHandler.Me)
		protected.POST("/auth/logout", authHandler.Logout)
		protected.POST("/website/icon/upload-url", uploadHandler.WebsiteIconURL)
		protected.POST("/review/video/upload-url", uploadHandler.ReviewVideoURL)

		protected.POST("/website/add", websiteHandler.Add)
		protected.GET("/website/", websiteHandler.List)
		protected.GET("/website/:id", websiteHandler.Get)

		protected.POST("/review/create/:id", reviewHandler.Create)
		protected.GET("/review/:id", reviewHandler.List)
		protected.POST("/upvote/:id", reviewHandler.Upvote)
	}

	return &Router{Engine: r}
}

// Readyz reports 500 with the first failing dependency.
func Readyz(checks []ReadinessCheck) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 1*time.Second)
		defer cancel()

		for _, chk := range checks {
			if err := chk.Check(ctx); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{
					"status": chk.Name + "_not_ready",
					"error":  err.Error(),
				})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	}
}

// HealthEngine serves only the health and metrics endpoints; used by the worker.
func HealthEngine(checks []ReadinessCheck) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/readyz", Readyz(checks))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	return r
}
