package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campuskit/timetable-api/internal/service"
	"github.com/campuskit/timetable-api/pkg/response"
)

// FacultyHandler wires the faculty roster and schedule endpoints.
type FacultyHandler struct {
	views   *service.TimetableService
	exports *service.ExportService
}

// NewFacultyHandler creates a new handler.
func NewFacultyHandler(views *service.TimetableService, exports *service.ExportService) *FacultyHandler {
	return &FacultyHandler{views: views, exports: exports}
}

// Roster godoc
// @Summary Faculty roster
// @Description Faculty with their assigned session counts
// @Tags Faculty
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /faculty [get]
func (h *FacultyHandler) Roster(c *gin.Context) {
	res, err := h.views.FacultyRoster(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res, nil)
}

// Timetable godoc
// @Summary Faculty timetable
// @Description Weekly schedule of one faculty member
// @Tags Faculty
// @Produce json
// @Param id path string true "Faculty id"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /faculty/{id}/timetable [get]
func (h *FacultyHandler) Timetable(c *gin.Context) {
	res, err := h.views.FacultyView(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res, nil)
}

// ValidateContinuous godoc
// @Summary Validate continuous load
// @Description Detect continuous teaching blocks in a faculty member's schedule
// @Tags Faculty
// @Produce json
// @Param id path string true "Faculty id"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /faculty/{id}/validate-continuous [get]
func (h *FacultyHandler) ValidateContinuous(c *gin.Context) {
	res, err := h.views.ValidateContinuous(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res, nil)
}

// ValidateContinuousAll godoc
// @Summary Validate continuous load for all faculty
// @Description Detect continuous teaching blocks across the whole roster
// @Tags Faculty
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /faculty/validate-continuous [get]
func (h *FacultyHandler) ValidateContinuousAll(c *gin.Context) {
	res, err := h.views.ValidateContinuousAll(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res, nil)
}

// ExportSchedule godoc
// @Summary Export faculty schedule
// @Description Download one faculty member's schedule as CSV or PDF
// @Tags Faculty
// @Produce text/csv,application/pdf
// @Param id path string true "Faculty id"
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} file
// @Failure 404 {object} response.Envelope
// @Router /faculty/{id}/export [get]
func (h *FacultyHandler) ExportSchedule(c *gin.Context) {
	format := service.ExportFormat(c.DefaultQuery("format", string(service.FormatCSV)))
	res, err := h.exports.ExportFaculty(c.Request.Context(), c.Param("id"), format)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+res.Filename+`"`)
	c.Data(http.StatusOK, res.ContentType, res.Content)
}
