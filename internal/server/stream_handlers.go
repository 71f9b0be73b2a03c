package server

import (
	"github.com/Shukurulla/stream-service/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateStream handles POST /create-stream
// @Summary Create a stream
// @Description Register a recorded live stream with the video provider and persist it
// @Tags streams
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.CreateStreamInput true "Stream details"
// @Success 201 {object} models.Stream
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /create-stream [post]
func (s *Server) CreateStream(c *fiber.Ctx) error {
	var req service.CreateStreamInput
	if err := c.BodyParser(&req); err != nil {
		return respondServiceError(c, errInvalidBody())
	}
	if req.TeacherID == 0 {
		if uid, ok := c.Locals("userID").(uint); ok {
			req.TeacherID = uid
		}
	}

	stream, err := s.streamService.CreateStream(c.Context(), req)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(stream)
}

// GetStream handles GET /streams/:id
// @Summary Get one stream
// @Tags streams
// @Produce json
// @Param id path int true "Stream ID"
// @Success 200 {object} models.Stream
// @Failure 404 {object} models.ErrorResponse
// @Router /streams/{id} [get]
func (s *Server) GetStream(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	stream, err := s.streamService.GetStream(c.Context(), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(stream)
}

// GetLiveStreams handles GET /streams/live
// @Summary List live streams
// @Tags streams
// @Produce json
// @Success 200 {array} models.Stream
// @Router /streams/live [get]
func (s *Server) GetLiveStreams(c *fiber.Ctx) error {
	streams, err := s.streamService.LiveStreams(c.Context())
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(streams)
}

// GetUpcomingStreams handles GET /streams/soon
// @Summary List upcoming streams
// @Tags streams
// @Produce json
// @Success 200 {array} models.Stream
// @Router /streams/soon [get]
func (s *Server) GetUpcomingStreams(c *fiber.Ctx) error {
	streams, err := s.streamService.UpcomingStreams(c.Context())
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(streams)
}

// GetPreviousStreams handles GET /streams/previous
// @Summary List ended streams grouped by date
// @Tags streams
// @Produce json
// @Success 200 {array} models.StreamDay
// @Router /streams/previous [get]
func (s *Server) GetPreviousStreams(c *fiber.Ctx) error {
	days, err := s.streamService.PreviousStreams(c.Context())
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(days)
}

// StartStream handles PUT /streams/:id/start
// @Summary Mark a stream as broadcasting
// @Tags streams
// @Produce json
// @Security BearerAuth
// @Param id path int true "Stream ID"
// @Success 200 {object} models.Stream
// @Failure 404 {object} models.ErrorResponse
// @Router /streams/{id}/start [put]
func (s *Server) StartStream(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	stream, err := s.streamService.StartStream(c.Context(), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(stream)
}

// EndStream handles PUT /streams/:id/ended
// @Summary Mark a stream as finished
// @Tags streams
// @Produce json
// @Security BearerAuth
// @Param id path int true "Stream ID"
// @Success 200 {object} models.Stream
// @Failure 404 {object} models.ErrorResponse
// @Router /streams/{id}/ended [put]
func (s *Server) EndStream(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	stream, err := s.streamService.EndStream(c.Context(), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(stream)
}

// AddStreamViewer handles POST /streams/:id/viewers
// @Summary Join a stream as viewer
// @Description Record a student joining a stream; repeat joins conflict
// @Tags streams
// @Accept json
// @Produce json
// @Param id path int true "Stream ID"
// @Param request body service.ViewerInput true "Viewer identity"
// @Success 200 {object} models.Stream
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /streams/{id}/viewers [post]
func (s *Server) AddStreamViewer(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req service.ViewerInput
	if err := c.BodyParser(&req); err != nil {
		return respondServiceError(c, errInvalidBody())
	}

	stream, err := s.streamService.AddViewer(c.Context(), id, req)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(stream)
}

// GetSavedVideo handles GET /streams/:id/video
// @Summary Get the recorded video of an ended stream
// @Tags streams
// @Produce json
// @Param id path int true "Stream ID"
// @Success 200 {object} video.SavedVideo
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /streams/{id}/video [get]
func (s *Server) GetSavedVideo(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	saved, err := s.streamService.SavedVideo(c.Context(), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(saved)
}
