package fiber

import (
	"github.com/gofiber/fiber/v3"

	"github.com/dmonteiro/curio"
)

// requireAuth validates the bearer token and stores the session data in
// the request context for downstream handlers.
func (a *Adapter) requireAuth(c fiber.Ctx) error {
	token := extractToken(c)
	if token == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": curio.ErrNotSignedIn.Error(),
		})
	}

	data, err := a.auth.GetSession(c.Context(), token)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	c.Locals("user", data.User)
	c.Locals("session", data.Session)

	return c.Next()
}

// requireToolManager gates the directory-wide tool administration routes.
func (a *Adapter) requireToolManager(c fiber.Ctx) error {
	user := userFromContext(c)
	if user == nil || !user.Role.ManagesAllTools() {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": curio.ErrAdminOnly.Error(),
		})
	}
	return c.Next()
}

// requireUserManager gates the account administration routes.
func (a *Adapter) requireUserManager(c fiber.Ctx) error {
	user := userFromContext(c)
	if user == nil || !user.Role.ManagesUsers() {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": curio.ErrAdminOnly.Error(),
		})
	}
	return c.Next()
}

func userFromContext(c fiber.Ctx) *curio.User {
	user, _ := c.Locals("user").(*curio.User)
	return user
}

func sessionFromContext(c fiber.Ctx) *curio.SessionData {
	user, _ := c.Locals("user").(*curio.User)
	session, _ := c.Locals("session").(*curio.Session)
	if user == nil || session == nil {
		return nil
	}
	return &curio.SessionData{User: user, Session: session}
}
