package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/atis-edu/assessment-api/internal/draft"
	"github.com/atis-edu/assessment-api/internal/dto"
	"github.com/atis-edu/assessment-api/internal/service"
	"github.com/atis-edu/assessment-api/internal/utils"
)

// DraftHandler exposes the draft session endpoints backing the assessment dialog.
type DraftHandler struct {
	sessions service.DraftSessionService
	logger   zerolog.Logger
}

// NewDraftHandler constructs the handler.
func NewDraftHandler(sessions service.DraftSessionService, logger zerolog.Logger) *DraftHandler {
	return &DraftHandler{
		sessions: sessions,
		logger:   logger.With().Str("component", "draft_handler").Logger(),
	}
}

// Register wires the session routes.
func (h *DraftHandler) Register(router fiber.Router) {
	router.Post("/sessions", h.open)
	router.Get("/sessions/:id", h.get)
	router.Delete("/sessions/:id", h.close)
	router.Put("/sessions/:id/type", h.selectType)
	router.Patch("/sessions/:id/fields", h.applyFields)
	router.Post("/sessions/:id/criteria", h.addCriterion)
	router.Patch("/sessions/:id/criteria/:criterionID", h.updateCriterion)
	router.Delete("/sessions/:id/criteria/:criterionID", h.removeCriterion)
	router.Post("/sessions/:id/lists/:list/items", h.addListItem)
	router.Patch("/sessions/:id/lists/:list/items/:index", h.updateListItem)
	router.Delete("/sessions/:id/lists/:list/items/:index", h.removeListItem)
	router.Post("/sessions/:id/submit", h.submit)
}

func (h *DraftHandler) open(c *fiber.Ctx) error {
	state, err := h.sessions.Open(c.Context(), userIDFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "draft session opened", state)
}

func (h *DraftHandler) get(c *fiber.Ctx) error {
	state, err := h.sessions.Get(c.Context(), c.Params("id"))
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "draft session retrieved", state)
}

func (h *DraftHandler) close(c *fiber.Ctx) error {
	if err := h.sessions.Close(c.Context(), c.Params("id")); err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "draft session closed", nil)
}

func (h *DraftHandler) selectType(c *fiber.Ctx) error {
	var payload dto.SelectTypeRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}
	state, err := h.sessions.SelectType(c.Context(), c.Params("id"), payload)
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "draft type selected", state)
}

func (h *DraftHandler) applyFields(c *fiber.Ctx) error {
	var payload dto.DraftFieldsRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}
	state, err := h.sessions.ApplyFields(c.Context(), c.Params("id"), payload)
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "draft fields updated", state)
}

func (h *DraftHandler) addCriterion(c *fiber.Ctx) error {
	var payload dto.CriterionRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}
	created, err := h.sessions.AddCriterion(c.Context(), c.Params("id"), payload)
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "criterion added", created)
}

func (h *DraftHandler) updateCriterion(c *fiber.Ctx) error {
	criterionID, err := parseInt64Param(c, "criterionID")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid criterion id")
	}
	var payload dto.CriterionRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}
	state, err := h.sessions.UpdateCriterion(c.Context(), c.Params("id"), criterionID, payload)
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "criterion updated", state)
}

func (h *DraftHandler) removeCriterion(c *fiber.Ctx) error {
	criterionID, err := parseInt64Param(c, "criterionID")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid criterion id")
	}
	state, err := h.sessions.RemoveCriterion(c.Context(), c.Params("id"), criterionID)
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "criterion removed", state)
}

func (h *DraftHandler) addListItem(c *fiber.Ctx) error {
	list, ok := listNameParam(c)
	if !ok {
		return utils.SendError(c, fiber.StatusNotFound, "unknown list")
	}
	var payload dto.ListItemRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}
	created, err := h.sessions.AddListItem(c.Context(), c.Params("id"), list, payload)
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "list item added", created)
}

func (h *DraftHandler) updateListItem(c *fiber.Ctx) error {
	list, ok := listNameParam(c)
	if !ok {
		return utils.SendError(c, fiber.StatusNotFound, "unknown list")
	}
	index, err := parseIntParam(c, "index")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid list index")
	}
	var payload dto.ListItemRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}
	state, err := h.sessions.UpdateListItem(c.Context(), c.Params("id"), list, index, payload)
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "list item updated", state)
}

func (h *DraftHandler) removeListItem(c *fiber.Ctx) error {
	list, ok := listNameParam(c)
	if !ok {
		return utils.SendError(c, fiber.StatusNotFound, "unknown list")
	}
	index, err := parseIntParam(c, "index")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid list index")
	}
	state, err := h.sessions.RemoveListItem(c.Context(), c.Params("id"), list, index)
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "list item removed", state)
}

func (h *DraftHandler) submit(c *fiber.Ctx) error {
	created, err := h.sessions.Submit(c.Context(), c.Params("id"))
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "assessment created", created)
}

func (h *DraftHandler) handleError(c *fiber.Ctx, err error) error {
	if fields, ok := service.AsFieldErrors(err); ok {
		return utils.SendFieldErrors(c, "validation failed", fields)
	}
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "draft session not found")
	case errors.Is(err, service.ErrSubmissionInFlight):
		return utils.SendError(c, fiber.StatusConflict, "submission already in progress")
	case errors.Is(err, draft.ErrWrongDraftType):
		return utils.SendError(c, fiber.StatusConflict, "operation not supported by the active draft type")
	case errors.Is(err, draft.ErrUnknownList):
		return utils.SendError(c, fiber.StatusNotFound, "unknown list")
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
