package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/learnvault/learnvault-api/internal/dto"
	"github.com/learnvault/learnvault-api/internal/service"
	"github.com/learnvault/learnvault-api/internal/utils"
)

// ResourceHandler exposes learning resource endpoints.
type ResourceHandler struct {
	service service.ResourceService
	logger  zerolog.Logger
}

// NewResourceHandler constructs the handler.
func NewResourceHandler(service service.ResourceService, logger zerolog.Logger) *ResourceHandler {
	return &ResourceHandler{
		service: service,
		logger:  logger.With().Str("component", "resource_handler").Logger(),
	}
}

// Register attaches resource routes to the router group. The manager
// middleware guards the mutating routes; reads are open to any
// authenticated role.
func (h *ResourceHandler) Register(router fiber.Router, manager fiber.Handler) {
	router.Get("", h.list)
	router.Get("/:id", h.get)
	router.Post("", manager, h.create)
	router.Put("/:id", manager, h.update)
	router.Delete("/:id", manager, h.archive)
}

func (h *ResourceHandler) list(c *fiber.Ctx) error {
	page, err := parseQueryInt(c, "page", 1)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page")
	}

	pageSize, err := parseQueryInt(c, "page_size", 20)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page size")
	}

	req := dto.ResourceListRequest{
		Search:   c.Query("search"),
		Type:     c.Query("type"),
		Status:   c.Query("status"),
		Tags:     splitAndTrim(c.Query("tags")),
		Page:     page,
		PageSize: pageSize,
	}

	response, err := h.service.List(c.Context(), req)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list resources")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list resources")
	}

	return utils.SendSuccess(c, "resources", response)
}

func (h *ResourceHandler) get(c *fiber.Ctx) error {
	actor := requestActorFromContext(c)

	response, err := h.service.Get(c.Context(), actor, c.Params("id"))
	if err != nil {
		if errors.Is(err, service.ErrResourceNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "resource not found")
		}
		h.logger.Error().Err(err).Msg("failed to fetch resource")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to fetch resource")
	}

	return utils.SendSuccess(c, "resource", response)
}

func (h *ResourceHandler) create(c *fiber.Ctx) error {
	var payload dto.ResourceCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	actor := requestActorFromContext(c)

	response, err := h.service.Create(c.Context(), actor, payload)
	if err != nil {
		if isValidationError(err) {
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		}
		h.logger.Error().Err(err).Msg("failed to create resource")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to create resource")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "resource created", response)
}

func (h *ResourceHandler) update(c *fiber.Ctx) error {
	var payload dto.ResourceUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	actor := requestActorFromContext(c)

	response, err := h.service.Update(c.Context(), actor, c.Params("id"), payload)
	if err != nil {
		if isValidationError(err) {
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		}
		if errors.Is(err, service.ErrResourceNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "resource not found")
		}
		h.logger.Error().Err(err).Msg("failed to update resource")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to update resource")
	}

	return utils.SendSuccess(c, "resource updated", response)
}

func (h *ResourceHandler) archive(c *fiber.Ctx) error {
	actor := requestActorFromContext(c)

	response, alreadyArchived, err := h.service.Archive(c.Context(), actor, c.Params("id"))
	if err != nil {
		if errors.Is(err, service.ErrResourceNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "resource not found")
		}
		h.logger.Error().Err(err).Msg("failed to archive resource")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to archive resource")
	}

	if alreadyArchived {
		return utils.SendSuccess(c, "resource already archived", response)
	}

	return utils.SendSuccess(c, "resource archived", response)
}
