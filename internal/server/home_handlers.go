package server

import "github.com/gofiber/fiber/v2"

// GetHome handles GET /api/home
// @Summary Home page blocks
// @Description The four most commented articles and the four latest comments.
// @Tags home
// @Produce json
// @Success 200 {object} models.HomeFeed
// @Router /home [get]
func (s *Server) GetHome(c *fiber.Ctx) error {
	feed, err := s.homeService.Feed(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(feed)
}
