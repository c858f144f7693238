package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-timetable-api/internal/service"
	appErrors "github.com/noah-isme/sma-timetable-api/pkg/errors"
	"github.com/noah-isme/sma-timetable-api/pkg/response"
)

// ConstraintHandler manages teacher and room constraint endpoints.
type ConstraintHandler struct {
	service *service.ConstraintService
}

// NewConstraintHandler constructs handler.
func NewConstraintHandler(svc *service.ConstraintService) *ConstraintHandler {
	return &ConstraintHandler{service: svc}
}

// GetTeacherConstraint godoc
// @Summary Get the effective constraint row for a teacher
// @Tags Constraints
// @Produce json
// @Param id path string true "Teacher ID"
// @Param termId query string false "Term ID"
// @Success 200 {object} response.Envelope
// @Router /teachers/{id}/constraints [get]
func (h *ConstraintHandler) GetTeacherConstraint(c *gin.Context) {
	constraint, err := h.service.GetTeacherConstraint(c.Request.Context(), schoolFromContext(c), c.Param("id"), c.Query("termId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, constraint, nil)
}

// UpsertTeacherConstraint godoc
// @Summary Store constraint rules for a teacher
// @Tags Constraints
// @Accept json
// @Produce json
// @Param id path string true "Teacher ID"
// @Param payload body service.UpsertTeacherConstraintRequest true "Constraint payload"
// @Success 200 {object} response.Envelope
// @Router /teachers/{id}/constraints [put]
func (h *ConstraintHandler) UpsertTeacherConstraint(c *gin.Context) {
	var req service.UpsertTeacherConstraintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	constraint, err := h.service.UpsertTeacherConstraint(c.Request.Context(), schoolFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, constraint, nil)
}

// GetRoomConstraint godoc
// @Summary Get the effective constraint row for a room
// @Tags Constraints
// @Produce json
// @Param id path string true "Room ID"
// @Param termId query string false "Term ID"
// @Success 200 {object} response.Envelope
// @Router /rooms/{id}/constraints [get]
func (h *ConstraintHandler) GetRoomConstraint(c *gin.Context) {
	constraint, err := h.service.GetRoomConstraint(c.Request.Context(), schoolFromContext(c), c.Param("id"), c.Query("termId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, constraint, nil)
}

// UpsertRoomConstraint godoc
// @Summary Store constraint rules for a room
// @Tags Constraints
// @Accept json
// @Produce json
// @Param id path string true "Room ID"
// @Param payload body service.UpsertRoomConstraintRequest true "Constraint payload"
// @Success 200 {object} response.Envelope
// @Router /rooms/{id}/constraints [put]
func (h *ConstraintHandler) UpsertRoomConstraint(c *gin.Context) {
	var req service.UpsertRoomConstraintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	constraint, err := h.service.UpsertRoomConstraint(c.Request.Context(), schoolFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, constraint, nil)
}
