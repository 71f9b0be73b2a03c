package server

import (
	"errors"

	"github.com/Shukurulla/stream-service/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// GetThemes handles GET /theme/all
// @Summary List all themes
// @Tags themes
// @Produce json
// @Success 200 {array} models.Theme
// @Router /theme/all [get]
func (s *Server) GetThemes(c *fiber.Ctx) error {
	themes, err := s.themeRepo.GetAllThemes(c.Context())
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return c.JSON(themes)
}

// GetMyThemes handles GET /theme/my-theme
// @Summary List the authenticated teacher's themes
// @Tags themes
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Theme
// @Router /theme/my-theme [get]
func (s *Server) GetMyThemes(c *fiber.Ctx) error {
	teacherID, ok := c.Locals("userID").(uint)
	if !ok {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Authorization required"))
	}

	themes, err := s.themeRepo.GetThemesByTeacher(c.Context(), teacherID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return c.JSON(themes)
}

// CreateTheme handles POST /theme/create
// @Summary Create a theme
// @Tags themes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{title=string,group=string,teacherId=int} true "Theme"
// @Success 201 {object} models.Theme
// @Failure 400 {object} models.ErrorResponse
// @Router /theme/create [post]
func (s *Server) CreateTheme(c *fiber.Ctx) error {
	var req struct {
		Title     string `json:"title"`
		Group     string `json:"group"`
		TeacherID uint   `json:"teacherId"`
	}
	if err := c.BodyParser(&req); err != nil {
		return respondServiceError(c, errInvalidBody())
	}
	if req.Title == "" || req.Group == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Title and group are required"))
	}
	if req.TeacherID == 0 {
		if uid, ok := c.Locals("userID").(uint); ok {
			req.TeacherID = uid
		}
	}

	teacher, err := s.teacherRepo.GetTeacherByID(c.Context(), req.TeacherID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Teacher does not exist"))
		}
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	if _, err := s.groupRepo.GetGroupByName(c.Context(), req.Group); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Group does not exist"))
		}
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	theme := &models.Theme{
		Title:   req.Title,
		Group:   req.Group,
		Teacher: teacher.Snapshot(),
	}
	if err := s.themeRepo.CreateTheme(c.Context(), theme); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return c.Status(fiber.StatusCreated).JSON(theme)
}

// UpdateTheme handles PUT /theme/edit/:id
// @Summary Edit a theme
// @Tags themes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Theme ID"
// @Param request body object{title=string,group=string} true "Theme"
// @Success 200 {object} models.Theme
// @Failure 404 {object} models.ErrorResponse
// @Router /theme/edit/{id} [put]
func (s *Server) UpdateTheme(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Title string `json:"title"`
		Group string `json:"group"`
	}
	if err := c.BodyParser(&req); err != nil {
		return respondServiceError(c, errInvalidBody())
	}

	theme, err := s.themeRepo.GetThemeByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.RespondWithError(c, fiber.StatusNotFound,
				models.NewNotFoundError("Theme", id))
		}
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	if req.Title != "" {
		theme.Title = req.Title
	}
	if req.Group != "" {
		theme.Group = req.Group
	}
	if err := s.themeRepo.UpdateTheme(c.Context(), theme); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return c.JSON(theme)
}

// DeleteTheme handles DELETE /theme/delete/:id
// @Summary Delete a theme
// @Tags themes
// @Produce json
// @Security BearerAuth
// @Param id path int true "Theme ID"
// @Success 200 {object} object{message=string}
// @Failure 404 {object} models.ErrorResponse
// @Router /theme/delete/{id} [delete]
func (s *Server) DeleteTheme(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if _, err := s.themeRepo.GetThemeByID(c.Context(), id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.RespondWithError(c, fiber.StatusNotFound,
				models.NewNotFoundError("Theme", id))
		}
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	if err := s.themeRepo.DeleteTheme(c.Context(), id); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return c.JSON(fiber.Map{"message": "Theme deleted"})
}
