package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/clinicore/medical-automation-api/internal/config"
	"github.com/clinicore/medical-automation-api/internal/core/ports/in"
)

type StatusController struct {
	useCase in.StatsUseCase
	cfg     *config.Config
}

func NewStatusController(useCase in.StatsUseCase, cfg *config.Config) *StatusController {
	return &StatusController{
		useCase: useCase,
		cfg:     cfg,
	}
}

func (c *StatusController) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api/v1")
	{
		api.GET("/health", c.health)
		api.GET("/stats", c.stats)
	}
}

func (c *StatusController) health(ctx *gin.Context) {
	stats := c.useCase.GetCacheStats(ctx.Request.Context())

	// Недоступный кэш не роняет health: сервис работает в pass-through
	if err := c.useCase.CheckReadiness(ctx.Request.Context()); err != nil {
		ctx.JSON(http.StatusServiceUnavailable, gin.H{
			"status":       "degraded",
			"version":      c.cfg.App.Version,
			"cacheHealthy": stats.Healthy,
			"error":        err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"status":       "ok",
		"version":      c.cfg.App.Version,
		"cacheHealthy": stats.Healthy,
	})
}

func (c *StatusController) stats(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, c.useCase.GetCacheStats(ctx.Request.Context()))
}
