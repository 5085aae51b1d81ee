package site

import (
	"errors"

	"typoteka/internal/apiclient"
	"typoteka/internal/validation"

	"github.com/gofiber/fiber/v2"
)

func (s *Site) RegisterForm(c *fiber.Ctx) error {
	return s.render(c, "sign-up", nil)
}

// Register creates an account and sends the reader to the login page.
func (s *Site) Register(c *fiber.Ctx) error {
	payload := apiclient.UserPayload{
		Name:             c.FormValue("name"),
		Email:            c.FormValue("email"),
		Password:         c.FormValue("password"),
		PasswordRepeated: c.FormValue("repeat-password"),
	}

	avatar, err := s.saveUpload(c, "avatar")
	if errors.Is(err, errUnsupportedImage) {
		return s.renderForm(c, "sign-up", fiber.Map{"Form": payload}, []string{validation.MsgAvatar})
	}
	if err != nil {
		return err
	}
	payload.Avatar = avatar

	if _, err := s.api.CreateUser(c.UserContext(), payload); err != nil {
		messages, ok := validationMessages(err)
		if !ok {
			return err
		}
		return s.renderForm(c, "sign-up", fiber.Map{"Form": payload}, messages)
	}
	return c.Redirect("/login")
}

func (s *Site) LoginForm(c *fiber.Ctx) error {
	return s.render(c, "login", fiber.Map{"Email": ""})
}

// Login stores the authenticated user and its API token in the session.
func (s *Site) Login(c *fiber.Ctx) error {
	email := c.FormValue("email")
	result, err := s.api.Auth(c.UserContext(), email, c.FormValue("password"))
	if err != nil {
		messages, ok := validationMessages(err)
		if !ok {
			return err
		}
		return s.renderForm(c, "login", fiber.Map{"Email": email}, messages)
	}

	if err := s.login(c, result.User, result.Token); err != nil {
		return err
	}
	return c.Redirect("/")
}

func (s *Site) Logout(c *fiber.Ctx) error {
	if err := s.logout(c); err != nil {
		return err
	}
	return c.Redirect("/")
}

// renderForm re-renders a rejected form with its messages.
func (s *Site) renderForm(c *fiber.Ctx, page string, data fiber.Map, messages []string) error {
	data["ValidationMessages"] = messages
	c.Status(fiber.StatusBadRequest)
	return s.render(c, page, data)
}
