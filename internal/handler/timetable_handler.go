package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-timetable-api/internal/dto"
	"github.com/noah-isme/sma-timetable-api/internal/models"
	"github.com/noah-isme/sma-timetable-api/internal/service"
	appErrors "github.com/noah-isme/sma-timetable-api/pkg/errors"
	"github.com/noah-isme/sma-timetable-api/pkg/response"
)

// TimetableHandler exposes conflict detection, placement validation, slot
// mutation and free-slot suggestion endpoints.
type TimetableHandler struct {
	conflicts   *service.ConflictService
	placements  *service.PlacementService
	suggestions *service.SuggestionService
}

// NewTimetableHandler constructs handler.
func NewTimetableHandler(conflicts *service.ConflictService, placements *service.PlacementService, suggestions *service.SuggestionService) *TimetableHandler {
	return &TimetableHandler{conflicts: conflicts, placements: placements, suggestions: suggestions}
}

// Conflicts godoc
// @Summary List double-bookings for a term
// @Tags Timetable
// @Produce json
// @Param termId query string true "Term ID"
// @Param weekVariant query string false "Limit to one week variant"
// @Success 200 {object} response.Envelope
// @Router /timetable/conflicts [get]
func (h *TimetableHandler) Conflicts(c *gin.Context) {
	termID := c.Query("termId")
	if termID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "termId is required"))
		return
	}
	conflicts, err := h.conflicts.DetectByTerm(c.Request.Context(), schoolFromContext(c), termID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if variant := c.Query("weekVariant"); variant != "" {
		want := models.NormalizeWeekVariant(models.WeekVariant(variant))
		filtered := make([]models.SlotConflict, 0, len(conflicts))
		for _, conflict := range conflicts {
			if models.NormalizeWeekVariant(conflict.SlotA.WeekVariant) == want {
				filtered = append(filtered, conflict)
			}
		}
		conflicts = filtered
	}
	response.JSON(c, http.StatusOK, conflicts, nil)
}

// Validate godoc
// @Summary Validate a placement candidate
// @Tags Timetable
// @Accept json
// @Produce json
// @Param payload body dto.PlacementCandidate true "Candidate placement"
// @Success 200 {object} response.Envelope
// @Router /timetable/validate [post]
func (h *TimetableHandler) Validate(c *gin.Context) {
	var req dto.PlacementCandidate
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.placements.Validate(c.Request.Context(), schoolFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// UpsertSlot godoc
// @Summary Create or update one slot
// @Tags Timetable
// @Accept json
// @Produce json
// @Param payload body dto.PlacementCandidate true "Candidate placement"
// @Success 201 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /timetable/slots [post]
func (h *TimetableHandler) UpsertSlot(c *gin.Context) {
	var req dto.PlacementCandidate
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	slot, result, err := h.placements.UpsertSlot(c.Request.Context(), schoolFromContext(c), actorFromContext(c), req)
	if err != nil {
		typed := appErrors.FromError(err)
		if typed.Code == appErrors.ErrPlacementRejected.Code {
			// Rejections ship the full violation list so the editor can
			// explain which rule failed.
			c.JSON(typed.Status, response.Envelope{Error: typed, Data: result})
			return
		}
		response.Error(c, err)
		return
	}
	response.Created(c, slot)
}

// DeleteSlot godoc
// @Summary Delete one slot by identity key
// @Tags Timetable
// @Accept json
// @Produce json
// @Param payload body dto.DeleteSlotRequest true "Slot identity"
// @Success 204
// @Router /timetable/slots [delete]
func (h *TimetableHandler) DeleteSlot(c *gin.Context) {
	var req dto.DeleteSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if err := h.placements.DeleteSlot(c.Request.Context(), schoolFromContext(c), actorFromContext(c), req); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Suggestions godoc
// @Summary List free (day, period) cells for a teacher or class
// @Tags Timetable
// @Produce json
// @Param termId query string true "Term ID"
// @Param teacherId query string false "Teacher ID"
// @Param classId query string false "Class ID"
// @Param preferredDays query string false "Comma-separated day numbers"
// @Param preferredPeriods query string false "Comma-separated period IDs"
// @Success 200 {object} response.Envelope
// @Router /timetable/suggestions [get]
func (h *TimetableHandler) Suggestions(c *gin.Context) {
	req := dto.SuggestFreeSlotsRequest{
		TermID:    c.Query("termId"),
		TeacherID: c.Query("teacherId"),
		ClassID:   c.Query("classId"),
	}
	if days := c.Query("preferredDays"); days != "" {
		for _, part := range strings.Split(days, ",") {
			if day, err := strconv.Atoi(strings.TrimSpace(part)); err == nil {
				req.PreferredDays = append(req.PreferredDays, day)
			}
		}
	}
	if periods := c.Query("preferredPeriods"); periods != "" {
		for _, part := range strings.Split(periods, ",") {
			if part = strings.TrimSpace(part); part != "" {
				req.PreferredPeriods = append(req.PreferredPeriods, part)
			}
		}
	}

	suggestions, err := h.suggestions.SuggestFreeSlots(c.Request.Context(), schoolFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, suggestions, nil)
}
