package v1

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers all API v1 routes. Data routes sit behind the
// API-key middleware when keys are configured; the health check never does.
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	data := api.Group("")
	if len(h.cfg.APIKeys) > 0 {
		data.Use(APIKeyAuthMiddleware(h.cfg, h.logger))
	}

	ocorrencias := data.Group("/ocorrencias")
	{
		ocorrencias.GET("", h.listOcorrencias)
		ocorrencias.GET("/:objectid", h.getOcorrencia)
		ocorrencias.GET("/:objectid/historico", h.getHistorico)
	}
	data.GET("/stats", h.getStats)

	api.GET("/system/health", h.healthCheck)
}
