package server

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Shukurulla/stream-service/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateFile handles POST /files/create
// @Summary Share a file with a group
// @Description Accepts multipart form data with a binary upload plus title,
// @Description description, teacherId and groupId fields. The binary is stored
// @Description under the configured upload directory and served at /uploads.
// @Tags files
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "File to upload"
// @Param title formData string true "Title"
// @Param description formData string false "Description"
// @Param teacherId formData int true "Teacher ID"
// @Param groupId formData int true "Group ID"
// @Success 201 {object} models.File
// @Failure 400 {object} models.ErrorResponse
// @Router /files/create [post]
func (s *Server) CreateFile(c *fiber.Ctx) error {
	title := strings.TrimSpace(c.FormValue("title"))
	if title == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Title is required"))
	}

	tid, err := strconv.Atoi(c.FormValue("teacherId"))
	if err != nil || tid <= 0 {
		if uid, ok := c.Locals("userID").(uint); ok {
			tid = int(uid)
		} else {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Invalid teacher ID"))
		}
	}
	gid, err := strconv.Atoi(c.FormValue("groupId"))
	if err != nil || gid <= 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid group ID"))
	}

	teacher, err := s.teacherRepo.GetTeacherByID(c.Context(), uint(tid))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Teacher does not exist"))
		}
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	group, err := s.groupRepo.GetGroupByID(c.Context(), uint(gid))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Group does not exist"))
		}
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	upload, err := c.FormFile("file")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("File is required"))
	}

	if err := os.MkdirAll(s.config.UploadDir, 0o755); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	// Randomize the stored name so uploads cannot collide or traverse paths.
	ext := filepath.Ext(upload.Filename)
	stored := uuid.New().String() + ext
	if err := c.SaveFile(upload, filepath.Join(s.config.UploadDir, stored)); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	file := &models.File{
		Title:       title,
		Description: c.FormValue("description"),
		FileURL:     s.config.PublicBaseURL + "/uploads/" + stored,
		From:        teacher.Snapshot(),
		Group:       models.GroupSnapshot{ID: group.ID, Name: group.Name},
	}
	if err := s.fileRepo.CreateFile(c.Context(), file); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return c.Status(fiber.StatusCreated).JSON(file)
}

// GetFiles handles GET /files/all
// @Summary List shared files
// @Tags files
// @Produce json
// @Param groupId query int false "Filter by group ID"
// @Success 200 {array} models.File
// @Router /files/all [get]
func (s *Server) GetFiles(c *fiber.Ctx) error {
	if groupID := c.QueryInt("groupId"); groupID > 0 {
		files, err := s.fileRepo.GetFilesByGroup(c.Context(), uint(groupID))
		if err != nil {
			return models.RespondWithError(c, fiber.StatusInternalServerError, err)
		}
		return c.JSON(files)
	}

	files, err := s.fileRepo.GetAllFiles(c.Context())
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return c.JSON(files)
}

// GetFile handles GET /files/:id
// @Summary Get a shared file's metadata
// @Tags files
// @Produce json
// @Param id path int true "File ID"
// @Success 200 {object} models.File
// @Failure 404 {object} models.ErrorResponse
// @Router /files/{id} [get]
func (s *Server) GetFile(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	file, err := s.fileRepo.GetFileByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.RespondWithError(c, fiber.StatusNotFound,
				models.NewNotFoundError("File", id))
		}
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return c.JSON(file)
}
