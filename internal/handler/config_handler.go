package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-timetable-api/internal/service"
	appErrors "github.com/noah-isme/sma-timetable-api/pkg/errors"
	"github.com/noah-isme/sma-timetable-api/pkg/response"
)

// ConfigHandler manages schedule configuration endpoints.
type ConfigHandler struct {
	service *service.ConfigService
}

// NewConfigHandler constructs handler.
func NewConfigHandler(svc *service.ConfigService) *ConfigHandler {
	return &ConfigHandler{service: svc}
}

// Resolve godoc
// @Summary Resolve the effective schedule configuration for a term
// @Tags ScheduleConfig
// @Produce json
// @Param termId query string true "Term ID"
// @Success 200 {object} response.Envelope
// @Router /schedule-config [get]
func (h *ConfigHandler) Resolve(c *gin.Context) {
	termID := c.Query("termId")
	if termID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "termId is required"))
		return
	}
	resolved, err := h.service.Resolve(c.Request.Context(), schoolFromContext(c), termID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resolved, nil)
}

// Upsert godoc
// @Summary Store working days and lunch position
// @Tags ScheduleConfig
// @Accept json
// @Produce json
// @Param payload body service.UpsertScheduleConfigRequest true "Config payload"
// @Success 200 {object} response.Envelope
// @Router /schedule-config [put]
func (h *ConfigHandler) Upsert(c *gin.Context) {
	var req service.UpsertScheduleConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	cfg, err := h.service.Upsert(c.Request.Context(), schoolFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, cfg, nil)
}
