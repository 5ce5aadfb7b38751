package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campuskit/timetable-api/internal/dto"
	"github.com/campuskit/timetable-api/internal/service"
	appErrors "github.com/campuskit/timetable-api/pkg/errors"
	"github.com/campuskit/timetable-api/pkg/response"
)

// SetupHandler wires the setup wizard endpoints.
type SetupHandler struct {
	service    *service.SetupService
	generation *service.GenerationService
}

// NewSetupHandler creates a new handler.
func NewSetupHandler(svc *service.SetupService, generation *service.GenerationService) *SetupHandler {
	return &SetupHandler{service: svc, generation: generation}
}

// Status godoc
// @Summary Setup status
// @Description Report wizard progress and resource counts
// @Tags Setup
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /setup/status [get]
func (h *SetupHandler) Status(c *gin.Context) {
	status, err := h.service.Status(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, status, nil)
}

// ConfigureInstitute godoc
// @Summary Configure institute
// @Description Store institution parameters, rooms and faculty, and rebuild the slot grid
// @Tags Setup
// @Accept json
// @Produce json
// @Param payload body dto.InstituteSetupRequest true "Institute payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /setup/institute [post]
func (h *SetupHandler) ConfigureInstitute(c *gin.Context) {
	var req dto.InstituteSetupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid institute payload"))
		return
	}

	settings, err := h.service.ConfigureInstitute(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, settings)
}

// ConfigureAcademics godoc
// @Summary Configure academics
// @Description Create semesters, subjects, sections and faculty allocations, then generate the timetable
// @Tags Setup
// @Accept json
// @Produce json
// @Param payload body dto.AcademicsSetupRequest true "Academics payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 412 {object} response.Envelope
// @Router /setup/academics [post]
func (h *SetupHandler) ConfigureAcademics(c *gin.Context) {
	var req dto.AcademicsSetupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid academics payload"))
		return
	}

	if err := h.service.ConfigureAcademics(c.Request.Context(), req); err != nil {
		response.Error(c, err)
		return
	}

	// Completing the wizard produces a first timetable right away.
	result, err := h.generation.Generate(c.Request.Context(), dto.GenerateTimetableRequest{})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
