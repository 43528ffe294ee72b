package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/SscSPs/exchange_kiosk_app/cmd/docs"
	portssvc "github.com/SscSPs/exchange_kiosk_app/internal/core/ports/services"
	"github.com/SscSPs/exchange_kiosk_app/internal/middleware"
	"github.com/SscSPs/exchange_kiosk_app/internal/platform/config"
	"github.com/SscSPs/exchange_kiosk_app/internal/utils"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	posthog *utils.PosthogClientWrapper,
) error {
	registerDecimalValidation()

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	loginLimiter, err := middleware.NewMemoryLimiter(cfg.LoginRateLimit)
	if err != nil {
		return fmt.Errorf("login rate limiter: %w", err)
	}
	registerAuthRoutes(r, loginLimiter, services)

	setupAPIV1Routes(r, cfg, services, posthog)

	setupSwaggerRoutes(r, cfg)
	return nil
}

// setupAPIV1Routes configures the authenticated /api/v1 group and delegates to the entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	service *portssvc.ServiceContainer,
	posthog *utils.PosthogClientWrapper,
) {
	v1 := r.Group("/api/v1",
		middleware.AuthMiddleware(cfg.JWTSecret),
		middleware.RefreshIdentity(service.User),
		middleware.PosthogMiddleware(posthog))

	registerOperationRoutes(v1, service.Ledger, posthog)
	registerShiftRoutes(v1, service.Shift, posthog)
	registerCurrencyRoutes(v1, service.Currency)
	registerUserRoutes(v1, service.User)
	registerHistoryRoutes(v1, service.History)
	registerAnalyticsRoutes(v1, service.Analytics)
}

func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
