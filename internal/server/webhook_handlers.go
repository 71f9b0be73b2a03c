package server

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
)

// HandleWebhook handles POST /webhook
// @Summary Provider webhook receiver
// @Description Archive the raw event, then apply broadcast started/ended transitions; unknown events and live ids are archived and acknowledged
// @Tags webhook
// @Accept json
// @Produce json
// @Param request body object{type=string,liveStreamId=string} true "Provider event"
// @Success 200 {object} object{message=string}
// @Failure 400 {object} models.ErrorResponse
// @Router /webhook [post]
func (s *Server) HandleWebhook(c *fiber.Ctx) error {
	var req struct {
		Type         string `json:"type"`
		LiveStreamID string `json:"liveStreamId"`
	}
	body := c.Body()
	if err := json.Unmarshal(body, &req); err != nil || req.Type == "" {
		return respondServiceError(c, errInvalidBody())
	}

	// Copy the body; Fiber reuses its buffers after the handler returns.
	payload := make([]byte, len(body))
	copy(payload, body)

	if err := s.streamService.HandleWebhook(c.Context(), req.Type, req.LiveStreamID, payload); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Webhook processed"})
}
