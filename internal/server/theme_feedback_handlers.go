package server

import (
	"github.com/Shukurulla/stream-service/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetThemeFeedbacks handles GET /theme-feedback/all
// @Summary List all theme feedbacks
// @Tags theme-feedback
// @Produce json
// @Success 200 {array} models.ThemeFeedback
// @Router /theme-feedback/all [get]
func (s *Server) GetThemeFeedbacks(c *fiber.Ctx) error {
	feedbacks, err := s.feedbackService.ListThemeFeedbacks(c.Context())
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(feedbacks)
}

// GetThemeFeedbacksByTheme handles GET /theme-feedback/by-theme/:id
// @Summary List feedbacks for a theme
// @Tags theme-feedback
// @Produce json
// @Param id path int true "Theme ID"
// @Success 200 {array} models.ThemeFeedback
// @Failure 404 {object} models.ErrorResponse
// @Router /theme-feedback/by-theme/{id} [get]
func (s *Server) GetThemeFeedbacksByTheme(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	feedbacks, err := s.feedbackService.ListThemeFeedbacksByTheme(c.Context(), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(feedbacks)
}

// CreateThemeFeedback handles POST /theme-feedback/create
// @Summary Submit feedback on a theme
// @Tags theme-feedback
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.ThemeFeedbackInput true "Feedback"
// @Success 201 {object} models.ThemeFeedback
// @Failure 400 {object} models.ErrorResponse
// @Router /theme-feedback/create [post]
func (s *Server) CreateThemeFeedback(c *fiber.Ctx) error {
	var in service.ThemeFeedbackInput
	if err := c.BodyParser(&in); err != nil {
		return respondServiceError(c, errInvalidBody())
	}
	if in.StudentID == 0 {
		if uid, ok := c.Locals("userID").(uint); ok {
			in.StudentID = uid
		}
	}

	feedback, err := s.feedbackService.CreateThemeFeedback(c.Context(), in)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(feedback)
}

// UpdateThemeFeedback handles PUT /theme-feedback/edit/:id
// @Summary Edit a theme feedback
// @Tags theme-feedback
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Feedback ID"
// @Param request body service.ThemeFeedbackInput true "Feedback"
// @Success 200 {object} models.ThemeFeedback
// @Failure 404 {object} models.ErrorResponse
// @Router /theme-feedback/edit/{id} [put]
func (s *Server) UpdateThemeFeedback(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var in service.ThemeFeedbackInput
	if err := c.BodyParser(&in); err != nil {
		return respondServiceError(c, errInvalidBody())
	}

	feedback, err := s.feedbackService.UpdateThemeFeedback(c.Context(), id, in)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(feedback)
}

// DeleteThemeFeedback handles DELETE /theme-feedback/delete/:id
// @Summary Delete a theme feedback
// @Tags theme-feedback
// @Produce json
// @Security BearerAuth
// @Param id path int true "Feedback ID"
// @Success 200 {object} object{message=string}
// @Failure 404 {object} models.ErrorResponse
// @Router /theme-feedback/delete/{id} [delete]
func (s *Server) DeleteThemeFeedback(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.feedbackService.DeleteThemeFeedback(c.Context(), id); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Feedback deleted"})
}
