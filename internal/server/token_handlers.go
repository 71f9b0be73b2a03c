package server

import (
	"github.com/Shukurulla/stream-service/internal/cache"

	"github.com/gofiber/fiber/v2"
)

// GetProviderToken handles GET /get-token
// @Summary Get a provider access token
// @Description Return the cached video provider token, refreshing it if expired
// @Tags webhook
// @Produce json
// @Success 200 {object} object{token=string}
// @Failure 500 {object} models.ErrorResponse
// @Router /get-token [get]
func (s *Server) GetProviderToken(c *fiber.Ctx) error {
	// Cached short of the provider's one hour expiry so a stale token is
	// never served.
	var token string
	err := cache.CacheAside(c.Context(), cache.ProviderTokenKey, &token, cache.ProviderTokenTTL, func() error {
		var err error
		token, err = s.provider.Token(c.Context())
		return err
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"token": token})
}
