package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/learnvault/learnvault-api/internal/dto"
	"github.com/learnvault/learnvault-api/internal/service"
	"github.com/learnvault/learnvault-api/internal/utils"
)

// ActivityHandler exposes the audit trail read endpoints.
type ActivityHandler struct {
	service service.ActivityService
	logger  zerolog.Logger
}

// NewActivityHandler constructs the handler.
func NewActivityHandler(service service.ActivityService, logger zerolog.Logger) *ActivityHandler {
	return &ActivityHandler{
		service: service,
		logger:  logger.With().Str("component", "activity_handler").Logger(),
	}
}

// Register attaches activity routes to the router group.
func (h *ActivityHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Get("/user/:userId", h.listByActor)
	router.Get("/resource/:resourceId", h.listByResource)
}

func (h *ActivityHandler) list(c *fiber.Ctx) error {
	page, err := parseQueryInt(c, "page", 1)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page")
	}

	pageSize, err := parseQueryInt(c, "page_size", 10)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page size")
	}

	startDate, err := parseQueryTime(c, "start_date")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid start date")
	}

	endDate, err := parseQueryTime(c, "end_date")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid end date")
	}

	req := dto.ActivityListRequest{
		ActorID:    c.Query("user_id"),
		ResourceID: c.Query("resource_id"),
		ActionType: c.Query("action_type"),
		StartDate:  startDate,
		EndDate:    endDate,
		Page:       page,
		PageSize:   pageSize,
	}

	response, err := h.service.List(c.Context(), req)
	if err != nil {
		if isValidationError(err) {
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		}
		h.logger.Error().Err(err).Msg("failed to list activities")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list activities")
	}

	return utils.SendSuccess(c, "activities", response)
}

func (h *ActivityHandler) listByActor(c *fiber.Ctx) error {
	page, err := parseQueryInt(c, "page", 1)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page")
	}

	pageSize, err := parseQueryInt(c, "page_size", 10)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page size")
	}

	response, err := h.service.ListByActor(c.Context(), c.Params("userId"), page, pageSize)
	if err != nil {
		if isValidationError(err) {
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		}
		h.logger.Error().Err(err).Msg("failed to list activities by actor")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list activities")
	}

	return utils.SendSuccess(c, "activities", response)
}

func (h *ActivityHandler) listByResource(c *fiber.Ctx) error {
	page, err := parseQueryInt(c, "page", 1)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page")
	}

	pageSize, err := parseQueryInt(c, "page_size", 10)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page size")
	}

	response, err := h.service.ListByResource(c.Context(), c.Params("resourceId"), page, pageSize)
	if err != nil {
		if isValidationError(err) {
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		}
		h.logger.Error().Err(err).Msg("failed to list activities by resource")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list activities")
	}

	return utils.SendSuccess(c, "activities", response)
}
