package site

import (
	"fmt"

	"typoteka/internal/models"

	"github.com/gofiber/fiber/v2"
)

const (
	sessUserID  = "user_id"
	sessName    = "name"
	sessEmail   = "email"
	sessAvatar  = "avatar"
	sessIsOwner = "is_owner"
	sessToken   = "token"

	localsUser = "site_user"
)

// SessionUser is the logged in reader kept in the session.
type SessionUser struct {
	ID      uint
	Name    string
	Email   string
	Avatar  string
	IsOwner bool
	Token   string
}

// loadUser reads the session user into locals so handlers and templates can use it.
func (s *Site) loadUser(c *fiber.Ctx) error {
	sess, err := s.sessions.Get(c)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	if id, ok := sess.Get(sessUserID).(uint); ok && id > 0 {
		user := &SessionUser{ID: id}
		user.Name, _ = sess.Get(sessName).(string)
		user.Email, _ = sess.Get(sessEmail).(string)
		user.Avatar, _ = sess.Get(sessAvatar).(string)
		user.IsOwner, _ = sess.Get(sessIsOwner).(bool)
		user.Token, _ = sess.Get(sessToken).(string)
		c.Locals(localsUser, user)
	}
	return c.Next()
}

func currentUser(c *fiber.Ctx) *SessionUser {
	user, _ := c.Locals(localsUser).(*SessionUser)
	return user
}

func (s *Site) login(c *fiber.Ctx, user *models.User, token string) error {
	sess, err := s.sessions.Get(c)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	if err := sess.Regenerate(); err != nil {
		return fmt.Errorf("regenerate session: %w", err)
	}
	sess.Set(sessUserID, user.ID)
	sess.Set(sessName, user.Name)
	sess.Set(sessEmail, user.Email)
	if user.Avatar != nil {
		sess.Set(sessAvatar, *user.Avatar)
	}
	sess.Set(sessIsOwner, user.IsOwner)
	sess.Set(sessToken, token)
	return sess.Save()
}

func (s *Site) logout(c *fiber.Ctx) error {
	sess, err := s.sessions.Get(c)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	return sess.Destroy()
}

// requireUser sends anonymous readers to the login page.
func requireUser(c *fiber.Ctx) error {
	if currentUser(c) == nil {
		return c.Redirect("/login")
	}
	return c.Next()
}

// requireOwner limits the admin pages to the blog owner.
func (s *Site) requireOwner(c *fiber.Ctx) error {
	user := currentUser(c)
	if user == nil {
		return c.Redirect("/login")
	}
	if !user.IsOwner {
		return s.renderStatus(c, fiber.StatusForbidden)
	}
	return c.Next()
}
