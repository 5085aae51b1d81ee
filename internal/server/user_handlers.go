package server

import (
	"typoteka/internal/middleware"
	"typoteka/internal/models"
	"typoteka/internal/service"

	"github.com/gofiber/fiber/v2"
)

// AuthResponse is returned by a successful login.
type AuthResponse struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

// CreateUser handles POST /api/user
// @Summary Register
// @Description The first registered user becomes the owner.
// @Tags user
// @Accept json
// @Produce json
// @Param request body object{name=string,email=string,password=string,passwordRepeated=string,avatar=string} true "Registration"
// @Success 201 {object} models.User
// @Failure 400 {object} models.ErrorResponse
// @Router /user [post]
func (s *Server) CreateUser(c *fiber.Ctx) error {
	var req struct {
		Name             string  `json:"name"`
		Email            string  `json:"email"`
		Password         string  `json:"password"`
		PasswordRepeated string  `json:"passwordRepeated"`
		Avatar           *string `json:"avatar"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	user, err := s.userService.Create(c.UserContext(), service.CreateUserInput{
		Name:             req.Name,
		Email:            req.Email,
		Password:         req.Password,
		PasswordRepeated: req.PasswordRepeated,
		Avatar:           req.Avatar,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

// Login handles POST /api/user/auth
// @Summary Log in
// @Tags user
// @Accept json
// @Produce json
// @Param request body object{email=string,password=string} true "Credentials"
// @Success 200 {object} AuthResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /user/auth [post]
func (s *Server) Login(c *fiber.Ctx) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	user, err := s.userService.Authenticate(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return fail(c, err)
	}

	token, err := middleware.GenerateToken(s.config.JWTSecret, user.ID, user.Name)
	if err != nil {
		return err
	}
	return c.JSON(AuthResponse{User: user, Token: token})
}
