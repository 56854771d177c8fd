package v1

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"github.com/zeneves1970/ocorrencias/internal/config"
	"github.com/zeneves1970/ocorrencias/internal/service"
)

type Handler struct {
	ocorrencias service.OcorrenciaService
	logger      *logrus.Logger
	validate    *validator.Validate
	cfg         *config.Config
}

func NewHandler(ocorrencias service.OcorrenciaService, logger *logrus.Logger, cfg *config.Config) *Handler {
	return &Handler{
		ocorrencias: ocorrencias,
		logger:      logger,
		validate:    validator.New(),
		cfg:         cfg,
	}
}

// @Summary List current occurrences
// @Description Current occurrences ordered by severity, then most recently updated. Requires API key.
// @Tags Ocorrencias
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param concelho query string false "Filter by concelho"
// @Success 200 {array} OcorrenciaResponse
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /ocorrencias [get]
func (h *Handler) listOcorrencias(c *gin.Context) {
	log := h.logger.WithField("method", "listOcorrencias")

	var query ListOcorrenciasQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		log.WithError(err).Warn("Failed to bind query")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters"})
		return
	}

	if err := h.validate.Struct(query); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	incidents, err := h.ocorrencias.ListCurrent(c.Request.Context())
	if err != nil {
		log.WithError(err).Error("Failed to list occurrences from service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	if query.Concelho != "" {
		filtered := incidents[:0]
		for _, inc := range incidents {
			if strings.EqualFold(inc.Concelho, query.Concelho) {
				filtered = append(filtered, inc)
			}
		}
		incidents = filtered
	}

	c.JSON(http.StatusOK, ModelsToOcorrenciaResponses(incidents))
}

// @Summary Get one occurrence
// @Description One current occurrence by OBJECTID, with its notification state. Requires API key.
// @Tags Ocorrencias
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param objectid path int true "Upstream OBJECTID"
// @Success 200 {object} OcorrenciaDetailResponse
// @Failure 400 {object} map[string]string "Invalid OBJECTID"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Occurrence not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /ocorrencias/{objectid} [get]
func (h *Handler) getOcorrencia(c *gin.Context) {
	objectID, err := strconv.ParseInt(c.Param("objectid"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid objectid"})
		return
	}
	log := h.logger.WithField("method", "getOcorrencia").WithField("objectid", objectID)

	inc, notified, err := h.ocorrencias.Get(c.Request.Context(), objectID)
	if err != nil {
		log.WithError(err).Error("Failed to get occurrence from service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	if inc == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "occurrence not found"})
		return
	}

	c.JSON(http.StatusOK, OcorrenciaDetailResponse{
		OcorrenciaResponse: *ModelToOcorrenciaResponse(inc),
		Notificada:         notified,
	})
}

// @Summary Get occurrence history
// @Description Every recorded snapshot for an OBJECTID, oldest first. Requires API key.
// @Tags Ocorrencias
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param objectid path int true "Upstream OBJECTID"
// @Success 200 {array} HistoricoResponse
// @Failure 400 {object} map[string]string "Invalid OBJECTID"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /ocorrencias/{objectid}/historico [get]
func (h *Handler) getHistorico(c *gin.Context) {
	objectID, err := strconv.ParseInt(c.Param("objectid"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid objectid"})
		return
	}
	log := h.logger.WithField("method", "getHistorico").WithField("objectid", objectID)

	entries, err := h.ocorrencias.History(c.Request.Context(), objectID)
	if err != nil {
		log.WithError(err).Error("Failed to get history from service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, ModelsToHistoricoResponses(entries))
}

// @Summary Get store statistics
// @Description Current occurrence counts per estado. Requires API key.
// @Tags Admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} StatsResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /stats [get]
func (h *Handler) getStats(c *gin.Context) {
	log := h.logger.WithField("method", "getStats")

	counts, err := h.ocorrencias.Stats(c.Request.Context())
	if err != nil {
		log.WithError(err).Error("Failed to get stats from service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	resp := StatsResponse{PorEstado: make(map[string]int, len(counts))}
	for estado, count := range counts {
		resp.PorEstado[string(estado)] = count
		resp.Total += count
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Get application health status
// @Description Get health status of the application
// @Tags System
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string "Status OK"
// @Router /system/health [get]
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
