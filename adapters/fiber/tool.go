package fiber

import (
	"net/http"

	"github.com/gofiber/fiber/v3"

	"github.com/dmonteiro/curio"
)

type toolEntry struct {
	Tool  curio.Tool   `json:"tool"`
	Spans []curio.Span `json:"spans,omitempty"`
}

type toolListResponse struct {
	Term  string      `json:"term,omitempty"`
	Tools []toolEntry `json:"tools"`
}

// listTools returns the directory as the requester may see it. The route
// is public; a valid bearer token widens the result with the requester's
// own entries. The optional q parameter narrows by literal substring.
func (a *Adapter) listTools(c fiber.Ctx) error {
	viewerID := ""
	if token := extractToken(c); token != "" {
		if data, err := a.auth.GetSession(c.Context(), token); err == nil {
			viewerID = data.User.ID
		}
		// An invalid token degrades to the signed-out view.
	}

	all, err := a.tools.ListAllTools(c.Context())
	if err != nil {
		return handleError(c, err)
	}

	tools := make([]curio.Tool, 0, len(all))
	for _, t := range all {
		tools = append(tools, *t)
	}

	filter := curio.NewFilter()
	filter.SetToolSet(tools)
	filter.SetSearchTerm(c.Query("q"))
	set := filter.ComputeVisibility(viewerID)

	resp := toolListResponse{Term: set.Term, Tools: []toolEntry{}}
	for _, id := range set.Order {
		item := set.Items[id]
		if !item.Visible {
			continue
		}
		resp.Tools = append(resp.Tools, toolEntry{Tool: item.Tool, Spans: item.Spans})
	}

	return c.Status(http.StatusOK).JSON(resp)
}

func (a *Adapter) addTool(c fiber.Ctx) error {
	user := userFromContext(c)

	var input curio.ToolInput
	if err := c.Bind().Body(&input); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}
	if err := curio.ValidateToolInput(input); err != nil {
		return handleError(c, err)
	}

	tool := &curio.Tool{
		Name:        input.Name,
		URL:         input.URL,
		Description: input.Description,
		Category:    input.Category,
		IsFree:      input.IsFree,
		IsChinese:   input.IsChinese,
		OwnerUserID: user.ID,
	}
	if err := a.tools.AddTool(c.Context(), tool); err != nil {
		return handleError(c, err)
	}

	return c.Status(http.StatusCreated).JSON(tool)
}

func (a *Adapter) updateTool(c fiber.Ctx) error {
	user := userFromContext(c)

	existing, err := a.tools.GetTool(c.Context(), c.Params("id"))
	if err != nil {
		return handleError(c, err)
	}
	if !existing.EditableBy(user) {
		return handleError(c, curio.ErrNotOwner)
	}

	var input curio.ToolInput
	if err := c.Bind().Body(&input); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}
	if err := curio.ValidateToolInput(input); err != nil {
		return handleError(c, err)
	}

	updated := *existing
	updated.Name = input.Name
	updated.URL = input.URL
	updated.Description = input.Description
	updated.Category = input.Category
	updated.IsFree = input.IsFree
	updated.IsChinese = input.IsChinese

	if err := a.tools.UpdateTool(c.Context(), &updated); err != nil {
		return handleError(c, err)
	}

	return c.Status(http.StatusOK).JSON(&updated)
}

func (a *Adapter) deleteTool(c fiber.Ctx) error {
	user := userFromContext(c)

	existing, err := a.tools.GetTool(c.Context(), c.Params("id"))
	if err != nil {
		return handleError(c, err)
	}
	if !existing.EditableBy(user) {
		return handleError(c, curio.ErrNotOwner)
	}

	if err := a.tools.DeleteTool(c.Context(), existing.ID); err != nil {
		return handleError(c, err)
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{
		"message": "tool deleted",
	})
}

func (a *Adapter) listAllTools(c fiber.Ctx) error {
	all, err := a.tools.ListAllTools(c.Context())
	if err != nil {
		return handleError(c, err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"tools": all})
}

func (a *Adapter) setAdminFlag(c fiber.Ctx) error {
	var body struct {
		IsAdminTool bool `json:"isAdminTool"`
	}
	if err := c.Bind().Body(&body); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	if err := a.tools.SetAdminFlag(c.Context(), c.Params("id"), body.IsAdminTool); err != nil {
		return handleError(c, err)
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{
		"message": "flag updated",
	})
}

func (a *Adapter) listUsers(c fiber.Ctx) error {
	users, err := a.users.ListUsers(c.Context())
	if err != nil {
		return handleError(c, err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"users": users})
}
