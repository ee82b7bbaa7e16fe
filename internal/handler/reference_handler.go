package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/atis-edu/assessment-api/internal/service"
	"github.com/atis-edu/assessment-api/internal/utils"
)

// ReferenceHandler serves the reference collections the assessment dialog
// renders its dropdowns from.
type ReferenceHandler struct {
	service service.ReferenceService
	logger  zerolog.Logger
}

// NewReferenceHandler constructs the handler.
func NewReferenceHandler(service service.ReferenceService, logger zerolog.Logger) *ReferenceHandler {
	return &ReferenceHandler{
		service: service,
		logger:  logger.With().Str("component", "reference_handler").Logger(),
	}
}

// Register wires routes for reference data.
func (h *ReferenceHandler) Register(router fiber.Router) {
	router.Get("/academic-years", h.academicYears)
	router.Get("/institutions", h.institutions)
	router.Get("/defaults", h.defaults)
}

func (h *ReferenceHandler) academicYears(c *fiber.Ctx) error {
	years, err := h.service.AcademicYears(c.Context())
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list academic years")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list academic years")
	}
	return utils.SendSuccess(c, "academic years retrieved", years)
}

func (h *ReferenceHandler) institutions(c *fiber.Ctx) error {
	institutions, err := h.service.Institutions(c.Context())
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list institutions")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list institutions")
	}
	return utils.SendSuccess(c, "institutions retrieved", institutions)
}

func (h *ReferenceHandler) defaults(c *fiber.Ctx) error {
	defaults, err := h.service.Defaults(c.Context())
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to resolve reference defaults")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to resolve reference defaults")
	}
	return utils.SendSuccess(c, "reference defaults resolved", defaults)
}
