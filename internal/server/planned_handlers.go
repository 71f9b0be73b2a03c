package server

import (
	"time"

	"github.com/Shukurulla/stream-service/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetPlannedLessons handles GET /planned/all
// @Summary List upcoming planned lessons
// @Tags planned
// @Produce json
// @Success 200 {array} models.PlannedLesson
// @Router /planned/all [get]
func (s *Server) GetPlannedLessons(c *fiber.Ctx) error {
	lessons, err := s.plannedRepo.GetAllPlannedLessons(c.Context())
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return c.JSON(lessons)
}

// CreatePlannedLesson handles POST /planned/create
// @Summary Schedule a planned lesson
// @Tags planned
// @Accept json
// @Produce json
// @Param request body object{theme=string,group=string,dateTime=string} true "Planned lesson"
// @Success 201 {object} models.PlannedLesson
// @Failure 400 {object} models.ErrorResponse
// @Router /planned/create [post]
func (s *Server) CreatePlannedLesson(c *fiber.Ctx) error {
	var req struct {
		Theme    string    `json:"theme"`
		Group    string    `json:"group"`
		DateTime time.Time `json:"dateTime"`
	}
	if err := c.BodyParser(&req); err != nil {
		return respondServiceError(c, errInvalidBody())
	}
	if req.Theme == "" || req.Group == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Theme and group are required"))
	}
	if req.DateTime.IsZero() {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Date and time are required"))
	}

	lesson := &models.PlannedLesson{
		Theme:    req.Theme,
		Group:    req.Group,
		DateTime: req.DateTime,
	}
	if err := s.plannedRepo.CreatePlannedLesson(c.Context(), lesson); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return c.Status(fiber.StatusCreated).JSON(lesson)
}

// DeletePlannedLesson handles DELETE /planned/delete/:id
// @Summary Delete a planned lesson
// @Tags planned
// @Produce json
// @Param id path int true "Planned lesson ID"
// @Success 200 {object} object{message=string}
// @Router /planned/delete/{id} [delete]
func (s *Server) DeletePlannedLesson(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.plannedRepo.DeletePlannedLesson(c.Context(), id); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return c.JSON(fiber.Map{"message": "Planned lesson deleted"})
}
