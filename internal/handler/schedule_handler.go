package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-timetable-api/internal/service"
	appErrors "github.com/noah-isme/sma-timetable-api/pkg/errors"
	"github.com/noah-isme/sma-timetable-api/pkg/response"
)

// ScheduleHandler serves read-only grid data for timetable consumers.
type ScheduleHandler struct {
	schedules *service.ScheduleService
}

// NewScheduleHandler constructs handler.
func NewScheduleHandler(schedules *service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{schedules: schedules}
}

// ListSlots godoc
// @Summary List a term's slots
// @Tags Timetable
// @Produce json
// @Param termId query string true "Term ID"
// @Param teacherId query string false "Narrow to one teacher"
// @Param classId query string false "Narrow to one class"
// @Success 200 {object} response.Envelope
// @Router /timetable/slots [get]
func (h *ScheduleHandler) ListSlots(c *gin.Context) {
	termID := c.Query("termId")
	if termID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "termId is required"))
		return
	}
	slots, err := h.schedules.ListSlots(c.Request.Context(), schoolFromContext(c), termID, c.Query("teacherId"), c.Query("classId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slots, nil)
}

// Periods godoc
// @Summary List the period axis of a term's academic year
// @Tags Timetable
// @Produce json
// @Param termId query string true "Term ID"
// @Success 200 {object} response.Envelope
// @Router /periods [get]
func (h *ScheduleHandler) Periods(c *gin.Context) {
	termID := c.Query("termId")
	if termID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "termId is required"))
		return
	}
	periods, err := h.schedules.Periods(c.Request.Context(), schoolFromContext(c), termID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, periods, nil)
}
