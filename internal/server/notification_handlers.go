package server

import (
	"github.com/Shukurulla/stream-service/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateNotification handles POST /notifications
// @Summary Create a notification
// @Description Denormalize a feedback event into a student-addressed notification
// @Tags notifications
// @Accept json
// @Produce json
// @Param request body service.CreateNotificationInput true "Notification"
// @Success 201 {object} models.Notification
// @Failure 400 {object} models.ErrorResponse
// @Router /notifications [post]
func (s *Server) CreateNotification(c *fiber.Ctx) error {
	var req service.CreateNotificationInput
	if err := c.BodyParser(&req); err != nil {
		return respondServiceError(c, errInvalidBody())
	}

	notification, err := s.notificationService.CreateNotification(c.Context(), req)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(notification)
}

// GetNotification handles GET /notifications/notification/:id
// @Summary Get one notification
// @Tags notifications
// @Produce json
// @Param id path int true "Notification ID"
// @Success 200 {object} models.Notification
// @Failure 404 {object} models.ErrorResponse
// @Router /notifications/notification/{id} [get]
func (s *Server) GetNotification(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	notification, err := s.notificationService.GetNotification(c.Context(), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(notification)
}

// GetStudentNotifications handles GET /notifications/:studentId
// @Summary List a student's notifications
// @Description Notifications plus the student's overall average rating across notifications and theme feedbacks
// @Tags notifications
// @Produce json
// @Param studentId path int true "Student ID"
// @Success 200 {object} object{notifications=[]models.Notification,averageRating=number}
// @Router /notifications/{studentId} [get]
func (s *Server) GetStudentNotifications(c *fiber.Ctx) error {
	studentID, err := s.parseID(c, "studentId")
	if err != nil {
		return nil
	}

	notifications, err := s.notificationService.ListForStudent(c.Context(), studentID)
	if err != nil {
		return respondServiceError(c, err)
	}
	avg, err := s.feedbackService.AverageRating(c.Context(), studentID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"notifications": notifications,
		"averageRating": avg,
	})
}

// MarkNotificationsRead handles PUT /notifications/:studentId/read
// @Summary Mark all of a student's notifications as read
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param studentId path int true "Student ID"
// @Success 200 {object} object{message=string}
// @Router /notifications/{studentId}/read [put]
func (s *Server) MarkNotificationsRead(c *fiber.Ctx) error {
	studentID, err := s.parseID(c, "studentId")
	if err != nil {
		return nil
	}

	if err := s.notificationService.MarkAllRead(c.Context(), studentID); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Notifications marked as read"})
}

// GetUnreadCount handles GET /notifications/:studentId/unread-count
// @Summary Count a student's unread notifications
// @Tags notifications
// @Produce json
// @Param studentId path int true "Student ID"
// @Success 200 {object} object{count=int}
// @Router /notifications/{studentId}/unread-count [get]
func (s *Server) GetUnreadCount(c *fiber.Ctx) error {
	studentID, err := s.parseID(c, "studentId")
	if err != nil {
		return nil
	}

	count, err := s.notificationService.UnreadCount(c.Context(), studentID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"count": count})
}
