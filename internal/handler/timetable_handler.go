package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campuskit/timetable-api/internal/dto"
	"github.com/campuskit/timetable-api/internal/service"
	appErrors "github.com/campuskit/timetable-api/pkg/errors"
	"github.com/campuskit/timetable-api/pkg/response"
)

// TimetableHandler wires generation and timetable view endpoints.
type TimetableHandler struct {
	generation *service.GenerationService
	views      *service.TimetableService
	exports    *service.ExportService
}

// NewTimetableHandler creates a new handler.
func NewTimetableHandler(generation *service.GenerationService, views *service.TimetableService, exports *service.ExportService) *TimetableHandler {
	return &TimetableHandler{generation: generation, views: views, exports: exports}
}

// Generate godoc
// @Summary Generate timetable
// @Description Run a generation pass and replace the stored timetable
// @Tags Timetables
// @Accept json
// @Produce json
// @Param payload body dto.GenerateTimetableRequest false "Generation options"
// @Success 200 {object} response.Envelope
// @Failure 412 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /timetables/generate [post]
func (h *TimetableHandler) Generate(c *gin.Context) {
	var req dto.GenerateTimetableRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid generation payload"))
			return
		}
	}

	res, err := h.generation.Generate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res, nil)
}

// Index godoc
// @Summary List timetables
// @Description List sections that have generated timetables
// @Tags Timetables
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /timetables [get]
func (h *TimetableHandler) Index(c *gin.Context) {
	res, err := h.views.Index(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res, nil)
}

// Section godoc
// @Summary Section timetable
// @Description Weekly timetable of one section
// @Tags Timetables
// @Produce json
// @Param id path string true "Section id"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /timetables/sections/{id} [get]
func (h *TimetableHandler) Section(c *gin.Context) {
	res, err := h.views.SectionView(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res, nil)
}

// Navigation godoc
// @Summary Section navigation
// @Description Previous and next sections relative to the given one
// @Tags Timetables
// @Produce json
// @Param id path string true "Section id"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /timetables/sections/{id}/navigation [get]
func (h *TimetableHandler) Navigation(c *gin.Context) {
	res, err := h.views.Navigation(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res, nil)
}

// Master godoc
// @Summary Master timetable
// @Description Weekly timetables of every section
// @Tags Timetables
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /timetables/master [get]
func (h *TimetableHandler) Master(c *gin.Context) {
	res, err := h.views.MasterView(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res, nil)
}

// ExportSection godoc
// @Summary Export section timetable
// @Description Download one section's timetable as CSV or PDF
// @Tags Timetables
// @Produce text/csv,application/pdf
// @Param id path string true "Section id"
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} file
// @Failure 404 {object} response.Envelope
// @Router /timetables/sections/{id}/export [get]
func (h *TimetableHandler) ExportSection(c *gin.Context) {
	format := service.ExportFormat(c.DefaultQuery("format", string(service.FormatCSV)))
	res, err := h.exports.ExportSection(c.Request.Context(), c.Param("id"), format)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+res.Filename+`"`)
	c.Data(http.StatusOK, res.ContentType, res.Content)
}
