package server

import (
	"errors"

	"github.com/Shukurulla/stream-service/internal/cache"
	"github.com/Shukurulla/stream-service/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// CreateGroup handles POST /create-group
// @Summary Create a group
// @Tags groups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{name=string,kurs=string} true "Group"
// @Success 201 {object} models.Group
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /create-group [post]
func (s *Server) CreateGroup(c *fiber.Ctx) error {
	var req struct {
		Name string `json:"name"`
		Kurs string `json:"kurs"`
	}
	if err := c.BodyParser(&req); err != nil {
		return respondServiceError(c, errInvalidBody())
	}
	if req.Name == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Name is required"))
	}

	if _, err := s.groupRepo.GetGroupByName(c.Context(), req.Name); err == nil {
		return models.RespondWithError(c, fiber.StatusConflict,
			models.NewConflictError("Group already exists"))
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	group := &models.Group{Name: req.Name, Kurs: req.Kurs}
	if err := s.groupRepo.CreateGroup(c.Context(), group); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	cache.InvalidateGroups(c.Context())
	return c.Status(fiber.StatusCreated).JSON(group)
}

// GetGroups handles GET /get-groups
// @Summary List groups
// @Tags groups
// @Produce json
// @Success 200 {array} models.Group
// @Router /get-groups [get]
func (s *Server) GetGroups(c *fiber.Ctx) error {
	var groups []*models.Group
	err := cache.CacheAside(c.Context(), cache.GroupsKey, &groups, cache.GroupsTTL, func() error {
		var fetchErr error
		groups, fetchErr = s.groupRepo.GetAllGroups(c.Context())
		return fetchErr
	})
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return c.JSON(groups)
}

// GetGroup handles GET /get-group/:id
// @Summary Get one group
// @Tags groups
// @Produce json
// @Param id path int true "Group ID"
// @Success 200 {object} models.Group
// @Failure 404 {object} models.ErrorResponse
// @Router /get-group/{id} [get]
func (s *Server) GetGroup(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	group, err := s.groupRepo.GetGroupByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.RespondWithError(c, fiber.StatusNotFound,
				models.NewNotFoundError("Group", id))
		}
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return c.JSON(group)
}

// UpdateGroup handles PUT /group/:id/edit
// @Summary Edit a group
// @Tags groups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Group ID"
// @Param request body object{name=string,kurs=string} true "Group"
// @Success 200 {object} models.Group
// @Failure 404 {object} models.ErrorResponse
// @Router /group/{id}/edit [put]
func (s *Server) UpdateGroup(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Name string `json:"name"`
		Kurs string `json:"kurs"`
	}
	if err := c.BodyParser(&req); err != nil {
		return respondServiceError(c, errInvalidBody())
	}

	group, err := s.groupRepo.GetGroupByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.RespondWithError(c, fiber.StatusNotFound,
				models.NewNotFoundError("Group", id))
		}
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	if req.Name != "" {
		group.Name = req.Name
	}
	if req.Kurs != "" {
		group.Kurs = req.Kurs
	}
	if err := s.groupRepo.UpdateGroup(c.Context(), group); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	cache.InvalidateGroups(c.Context())
	return c.JSON(group)
}

// DeleteGroup handles DELETE /group/:id/delete
// @Summary Delete a group
// @Tags groups
// @Produce json
// @Security BearerAuth
// @Param id path int true "Group ID"
// @Success 200 {object} object{message=string}
// @Failure 404 {object} models.ErrorResponse
// @Router /group/{id}/delete [delete]
func (s *Server) DeleteGroup(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if _, err := s.groupRepo.GetGroupByID(c.Context(), id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.RespondWithError(c, fiber.StatusNotFound,
				models.NewNotFoundError("Group", id))
		}
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	if err := s.groupRepo.DeleteGroup(c.Context(), id); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	cache.InvalidateGroups(c.Context())
	return c.JSON(fiber.Map{"message": "Group deleted"})
}
