package server

import (
	"github.com/Shukurulla/stream-service/internal/models"
	"github.com/Shukurulla/stream-service/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreatePercent handles POST /add-percent
// @Summary Record a coarse progress percentage for a student
// @Tags progress
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.PercentInput true "Percent"
// @Success 201 {object} models.Percent
// @Failure 400 {object} models.ErrorResponse
// @Router /add-percent [post]
func (s *Server) CreatePercent(c *fiber.Ctx) error {
	var in service.PercentInput
	if err := c.BodyParser(&in); err != nil {
		return respondServiceError(c, errInvalidBody())
	}

	percent, err := s.progressService.CreatePercent(c.Context(), in)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(percent)
}

// GetAllPercents handles GET /all-percents
// @Summary List every recorded percentage
// @Tags progress
// @Produce json
// @Success 200 {array} models.Percent
// @Router /all-percents [get]
func (s *Server) GetAllPercents(c *fiber.Ctx) error {
	percents, err := s.percentRepo.GetAllPercents(c.Context())
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return c.JSON(percents)
}

// GetPercentsByScience handles GET /percent/:science
// @Summary List percentages for a subject
// @Tags progress
// @Produce json
// @Param science path string true "Subject name"
// @Success 200 {array} models.Percent
// @Router /percent/{science} [get]
func (s *Server) GetPercentsByScience(c *fiber.Ctx) error {
	science := c.Params("science")
	percents, err := s.percentRepo.GetPercentsByScience(c.Context(), science)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return c.JSON(percents)
}

// GetStudentPercents handles GET /percent/student/:studentId
// @Summary List a student's percentages across subjects
// @Tags progress
// @Produce json
// @Param studentId path int true "Student ID"
// @Success 200 {array} models.Percent
// @Router /percent/student/{studentId} [get]
func (s *Server) GetStudentPercents(c *fiber.Ctx) error {
	studentID, err := s.parseID(c, "studentId")
	if err != nil {
		return nil
	}

	percents, err := s.percentRepo.GetPercentsByStudent(c.Context(), studentID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return c.JSON(percents)
}

// UpdatePercent handles PUT /percent/:id/edit
// @Summary Update a recorded percentage
// @Tags progress
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Percent ID"
// @Param request body service.PercentInput true "Percent"
// @Success 200 {object} models.Percent
// @Failure 404 {object} models.ErrorResponse
// @Router /percent/{id}/edit [put]
func (s *Server) UpdatePercent(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var in service.PercentInput
	if err := c.BodyParser(&in); err != nil {
		return respondServiceError(c, errInvalidBody())
	}

	percent, err := s.progressService.UpdatePercent(c.Context(), id, in)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(percent)
}

// DeletePercent handles DELETE /percent/:id/delete
// @Summary Delete a recorded percentage
// @Tags progress
// @Produce json
// @Security BearerAuth
// @Param id path int true "Percent ID"
// @Success 200 {object} object{message=string}
// @Failure 404 {object} models.ErrorResponse
// @Router /percent/{id}/delete [delete]
func (s *Server) DeletePercent(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.progressService.DeletePercent(c.Context(), id); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Percent deleted"})
}

// SubmitScore handles POST /scores
// @Summary Submit a topic score for a student
// @Description Upserts by (student, lesson, topic). Returns 201 when a new
// @Description score row is created and 200 when an existing one is
// @Description overwritten.
// @Tags scores
// @Accept json
// @Produce json
// @Param request body service.SubmitScoreInput true "Score"
// @Success 200 {object} models.Score
// @Success 201 {object} models.Score
// @Failure 400 {object} models.ErrorResponse
// @Router /scores [post]
func (s *Server) SubmitScore(c *fiber.Ctx) error {
	var in service.SubmitScoreInput
	if err := c.BodyParser(&in); err != nil {
		return respondServiceError(c, errInvalidBody())
	}

	result, err := s.progressService.SubmitScore(c.Context(), in)
	if err != nil {
		return respondServiceError(c, err)
	}
	if result.Updated {
		return c.JSON(result.Score)
	}
	return c.Status(fiber.StatusCreated).JSON(result.Score)
}

// GetScores handles GET /scores
// @Summary Leaderboard of students by topics completed
// @Tags scores
// @Produce json
// @Success 200 {array} models.LeaderboardEntry
// @Router /scores [get]
func (s *Server) GetScores(c *fiber.Ctx) error {
	entries, err := s.progressService.Leaderboard(c.Context())
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(entries)
}

// GetLessonScores handles GET /lessons/:lesson
// @Summary Per-lesson ranking of students by topics completed
// @Tags scores
// @Produce json
// @Param lesson path string true "Lesson name (Listening, Writing, Speaking, Reading)"
// @Success 200 {array} models.LeaderboardEntry
// @Failure 400 {object} models.ErrorResponse
// @Router /lessons/{lesson} [get]
func (s *Server) GetLessonScores(c *fiber.Ctx) error {
	entries, err := s.progressService.LessonScores(c.Context(), c.Params("lesson"))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(entries)
}

// GetStudentProgress handles GET /student-progress/:studentId
// @Summary Per-lesson completion breakdown for one student
// @Tags scores
// @Produce json
// @Param studentId path int true "Student ID"
// @Success 200 {object} models.StudentProgress
// @Failure 404 {object} models.ErrorResponse
// @Router /student-progress/{studentId} [get]
func (s *Server) GetStudentProgress(c *fiber.Ctx) error {
	studentID, err := s.parseID(c, "studentId")
	if err != nil {
		return nil
	}

	progress, err := s.progressService.StudentProgress(c.Context(), studentID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(progress)
}
