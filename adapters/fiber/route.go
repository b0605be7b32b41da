// Package fiber exposes curio's auth and tool operations as a JSON API on
// a Fiber application.
package fiber

import (
	"github.com/gofiber/fiber/v3"

	"github.com/dmonteiro/curio"
)

type Adapter struct {
	app *fiber.App

	auth  curio.AuthProvider
	tools curio.ToolStorage
	users curio.UserStorage
}

var _ curio.HTTPAdapter = (*Adapter)(nil)

func New(app *fiber.App) *Adapter {
	return &Adapter{app: app}
}

func (a *Adapter) RegisterRoutes(auth curio.AuthProvider, tools curio.ToolStorage, users curio.UserStorage, basePath string) error {
	a.auth = auth
	a.tools = tools
	a.users = users

	api := a.app.Group(basePath)

	// Public routes
	api.Post("/auth/sign-up", a.signUp)
	api.Post("/auth/sign-in", a.signIn)
	api.Get("/tools", a.listTools)

	// Protected routes
	api.Post("/auth/sign-out", a.requireAuth, a.signOut)
	api.Get("/auth/session", a.requireAuth, a.session)
	api.Post("/auth/refresh", a.requireAuth, a.refresh)

	api.Post("/tools", a.requireAuth, a.addTool)
	api.Put("/tools/:id", a.requireAuth, a.updateTool)
	api.Delete("/tools/:id", a.requireAuth, a.deleteTool)

	// Administrative routes
	api.Get("/admin/tools", a.requireAuth, a.requireToolManager, a.listAllTools)
	api.Put("/admin/tools/:id/flag", a.requireAuth, a.requireToolManager, a.setAdminFlag)
	api.Get("/admin/users", a.requireAuth, a.requireUserManager, a.listUsers)

	return nil
}
