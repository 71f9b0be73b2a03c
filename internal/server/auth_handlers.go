package server

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/Shukurulla/stream-service/internal/models"
	"github.com/Shukurulla/stream-service/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// CreateTeacher handles POST /create-teacher
// @Summary Register a teacher
// @Description Create a new teacher account and return a JWT token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body object{name=string,password=string,science=string,profileImage=string} true "Teacher registration"
// @Success 201 {object} object{token=string,teacher=models.Teacher}
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /create-teacher [post]
func (s *Server) CreateTeacher(c *fiber.Ctx) error {
	var req struct {
		Name         string `json:"name"`
		Password     string `json:"password"`
		Science      string `json:"science"`
		ProfileImage string `json:"profileImage"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if req.Name == "" || req.Password == "" || req.Science == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Name, password, and science are required"))
	}
	if err := validation.ValidateName(req.Name); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}
	if err := validation.ValidatePassword(req.Password); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}

	// Check if teacher already exists
	if _, err := s.teacherRepo.GetTeacherByName(c.Context(), req.Name); err == nil {
		return models.RespondWithError(c, fiber.StatusConflict,
			models.NewConflictError("Teacher already exists"))
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	// OriginalPassword keeps the plaintext copy the legacy admin tooling
	// reads; see the model comment.
	teacher := &models.Teacher{
		Name:             req.Name,
		Password:         string(hashedPassword),
		OriginalPassword: req.Password,
		Science:          req.Science,
		ProfileImage:     req.ProfileImage,
	}
	if createErr := s.teacherRepo.CreateTeacher(c.Context(), teacher); createErr != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, createErr)
	}

	token, err := s.generateToken(teacher.ID, teacher.Name, "teacher")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"token":   token,
		"teacher": teacher,
	})
}

// LoginTeacher handles POST /login-teacher
// @Summary Teacher login
// @Description Authenticate a teacher and return a JWT token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body object{name=string,password=string} true "Login credentials"
// @Success 200 {object} object{token=string,teacher=models.Teacher}
// @Failure 401 {object} models.ErrorResponse
// @Router /login-teacher [post]
func (s *Server) LoginTeacher(c *fiber.Ctx) error {
	var req struct {
		Name     string `json:"name"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	teacher, err := s.teacherRepo.GetTeacherByName(c.Context(), req.Name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid credentials"))
		}
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	if cmpErr := bcrypt.CompareHashAndPassword([]byte(teacher.Password), []byte(req.Password)); cmpErr != nil {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Invalid credentials"))
	}

	token, err := s.generateToken(teacher.ID, teacher.Name, "teacher")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.JSON(fiber.Map{
		"token":   token,
		"teacher": teacher,
	})
}

// RegisterStudent handles POST /student/register
// @Summary Register a student
// @Description Create a new student account and return a JWT token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body object{name=string,password=string,phone=string,group=string,kurs=string,profileImage=string} true "Student registration"
// @Success 201 {object} object{token=string,student=models.Student}
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /student/register [post]
func (s *Server) RegisterStudent(c *fiber.Ctx) error {
	var req struct {
		Name         string `json:"name"`
		Password     string `json:"password"`
		Phone        string `json:"phone"`
		Group        string `json:"group"`
		Kurs         string `json:"kurs"`
		ProfileImage string `json:"profileImage"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if req.Name == "" || req.Password == "" || req.Phone == "" || req.Group == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Name, password, phone, and group are required"))
	}
	if err := validation.ValidatePhone(req.Phone); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}
	if err := validation.ValidatePassword(req.Password); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}

	// The group must exist before a student can join it
	if _, err := s.groupRepo.GetGroupByName(c.Context(), req.Group); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Group does not exist"))
		}
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	if _, err := s.studentRepo.GetStudentByPhone(c.Context(), req.Phone); err == nil {
		return models.RespondWithError(c, fiber.StatusConflict,
			models.NewConflictError("Student with this phone already exists"))
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	student := &models.Student{
		Name:             req.Name,
		Password:         string(hashedPassword),
		OriginalPassword: req.Password,
		Phone:            req.Phone,
		Group:            req.Group,
		Kurs:             req.Kurs,
		ProfileImage:     req.ProfileImage,
	}
	if createErr := s.studentRepo.CreateStudent(c.Context(), student); createErr != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, createErr)
	}

	token, err := s.generateToken(student.ID, student.Name, "student")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"token":   token,
		"student": student,
	})
}

// LoginStudent handles POST /student/login
// @Summary Student login
// @Description Authenticate a student by phone and return a JWT token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body object{phone=string,password=string} true "Login credentials"
// @Success 200 {object} object{token=string,student=models.Student}
// @Failure 401 {object} models.ErrorResponse
// @Router /student/login [post]
func (s *Server) LoginStudent(c *fiber.Ctx) error {
	var req struct {
		Phone    string `json:"phone"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	student, err := s.studentRepo.GetStudentByPhone(c.Context(), req.Phone)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid credentials"))
		}
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	if cmpErr := bcrypt.CompareHashAndPassword([]byte(student.Password), []byte(req.Password)); cmpErr != nil {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Invalid credentials"))
	}

	token, err := s.generateToken(student.ID, student.Name, "student")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.JSON(fiber.Map{
		"token":   token,
		"student": student,
	})
}

// generateToken creates a JWT token for the given subject id, name and role
func (s *Server) generateToken(userID uint, name, role string) (string, error) {
	if s.config.JWTSecret == "" {
		return "", fmt.Errorf("JWT secret not configured")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  strconv.FormatUint(uint64(userID), 10), // Subject (user ID as string)
		"name": name,                                   // Display name (cached in token)
		"role": role,                                   // teacher or student
		"iss":  "stream-service-api",                   // Issuer
		"aud":  "stream-service-client",                // Audience
		"exp":  now.Add(time.Hour * 24 * 30).Unix(),    // Expiration (30 days)
		"iat":  now.Unix(),                             // Issued at
		"nbf":  now.Unix(),                             // Not before
		"jti":  s.generateJTI(),                        // JWT ID (unique identifier)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.JWTSecret))
}

// generateJTI creates a unique JWT ID to prevent replay attacks
func (s *Server) generateJTI() string {
	return fmt.Sprintf("%d-%s", time.Now().Unix(), uuid.New().String()[:8])
}
