package server

import (
	"github.com/Shukurulla/stream-service/internal/service"

	"github.com/gofiber/fiber/v2"
)

// SubmitStreamFeedback handles POST /stream/:id/feedback
// @Summary Rate a stream
// @Description Append a 1-5 rating; a second rating by the same rater conflicts
// @Tags feedback
// @Accept json
// @Produce json
// @Param id path int true "Stream ID"
// @Param request body service.StreamFeedbackInput true "Rating"
// @Success 201 {object} models.Stream
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /stream/{id}/feedback [post]
func (s *Server) SubmitStreamFeedback(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req service.StreamFeedbackInput
	if err := c.BodyParser(&req); err != nil {
		return respondServiceError(c, errInvalidBody())
	}

	stream, err := s.feedbackService.SubmitStreamFeedback(c.Context(), id, req)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(stream)
}

// GetStreamFeedbacks handles GET /stream/:id/feedbacks
// @Summary List a stream's ratings
// @Description Ratings plus their average; an unrated stream yields an empty list with averageRating 0
// @Tags feedback
// @Produce json
// @Param id path int true "Stream ID"
// @Success 200 {object} service.StreamFeedbackList
// @Failure 404 {object} models.ErrorResponse
// @Router /stream/{id}/feedbacks [get]
func (s *Server) GetStreamFeedbacks(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	list, err := s.feedbackService.ListStreamFeedbacks(c.Context(), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(list)
}

// MarkStreamFeedbacksRead handles PUT /streams/:id/read
// @Summary Mark a stream's ratings as read
// @Tags feedback
// @Produce json
// @Security BearerAuth
// @Param id path int true "Stream ID"
// @Success 200 {object} object{message=string}
// @Failure 404 {object} models.ErrorResponse
// @Router /streams/{id}/read [put]
func (s *Server) MarkStreamFeedbacksRead(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.feedbackService.MarkStreamFeedbacksRead(c.Context(), id); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Feedbacks marked as read"})
}

// GetTeacherFeedbacks handles GET /feedbacks/:id
// @Summary Merged feedback feed for a teacher
// @Description Stream ratings and theme feedbacks interleaved, oldest first
// @Tags feedback
// @Produce json
// @Param id path int true "Teacher ID"
// @Param group query string false "Only feedback from this group"
// @Success 200 {array} models.TeacherFeedbackItem
// @Failure 404 {object} models.ErrorResponse
// @Router /feedbacks/{id} [get]
func (s *Server) GetTeacherFeedbacks(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	items, err := s.feedbackService.ListFeedbackForTeacher(c.Context(), id, c.Query("group"))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(items)
}
