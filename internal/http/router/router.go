package router

import (
	"github.com/gin-gonic/gin"

	"github.com/seekho-platform/activation-backend/internal/config"
	"github.com/seekho-platform/activation-backend/internal/http/handlers"
	"github.com/seekho-platform/activation-backend/internal/http/middleware"
)

// SetupRouter собирает маршруты сервиса активации.
func SetupRouter(
	cfg *config.Config,
	otpHandler *handlers.OTPHandler,
	healthHandler *handlers.HealthHandler,
) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/health", healthHandler.Health)

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware(cfg.RateLimitLimit, cfg.RateLimitPeriod))
	{
		authGroup.POST("/generate-otp", otpHandler.GenerateOTP)
		authGroup.POST("/verify-otp", otpHandler.VerifyOTP)
	}

	return r
}
