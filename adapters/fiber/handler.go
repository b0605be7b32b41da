package fiber

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v3"

	"github.com/dmonteiro/curio"
)

func (a *Adapter) signUp(c fiber.Ctx) error {
	var input curio.SignUpInput
	if err := c.Bind().Body(&input); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	result, err := a.auth.SignUp(c.Context(), input, c.IP(), c.Get(fiber.HeaderUserAgent))
	if err != nil {
		return handleError(c, err)
	}

	return c.Status(http.StatusCreated).JSON(result)
}

func (a *Adapter) signIn(c fiber.Ctx) error {
	var input curio.SignInInput
	if err := c.Bind().Body(&input); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	result, err := a.auth.SignIn(c.Context(), input, c.IP(), c.Get(fiber.HeaderUserAgent))
	if err != nil {
		return handleError(c, err)
	}

	return c.Status(http.StatusOK).JSON(result)
}

func (a *Adapter) signOut(c fiber.Ctx) error {
	token := extractToken(c)
	if err := a.auth.SignOut(c.Context(), token); err != nil {
		return handleError(c, err)
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{
		"message": "signed out successfully",
	})
}

func (a *Adapter) session(c fiber.Ctx) error {
	data := sessionFromContext(c)
	return c.Status(http.StatusOK).JSON(data)
}

func (a *Adapter) refresh(c fiber.Ctx) error {
	token := extractToken(c)
	data, err := a.auth.Refresh(c.Context(), token)
	if err != nil {
		return handleError(c, err)
	}

	return c.Status(http.StatusOK).JSON(data)
}

// extractToken extracts the authentication token from the request.
// Checks Authorization header (Bearer token) first, then falls back to cookie.
func extractToken(c fiber.Ctx) string {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
		return authHeader[7:]
	}

	return c.Cookies("auth_token")
}

// handleError maps curio errors to appropriate HTTP responses
func handleError(c fiber.Ctx, err error) error {
	return c.Status(mapErrorToStatus(err)).JSON(fiber.Map{
		"error": err.Error(),
	})
}

// mapErrorToStatus maps curio error types to HTTP status codes
func mapErrorToStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}

	var fieldErr *curio.FieldError
	if errors.As(err, &fieldErr) {
		return http.StatusBadRequest
	}

	switch {
	case errors.Is(err, curio.ErrInvalidCredentials),
		errors.Is(err, curio.ErrInvalidToken),
		errors.Is(err, curio.ErrSessionNotFound),
		errors.Is(err, curio.ErrSessionExpired),
		errors.Is(err, curio.ErrNotSignedIn):
		return http.StatusUnauthorized

	case errors.Is(err, curio.ErrEmailNotVerified),
		errors.Is(err, curio.ErrNotOwner),
		errors.Is(err, curio.ErrAdminOnly):
		return http.StatusForbidden

	case errors.Is(err, curio.ErrUserNotFound),
		errors.Is(err, curio.ErrToolNotFound):
		return http.StatusNotFound

	case errors.Is(err, curio.ErrUserExists):
		return http.StatusConflict

	default:
		return http.StatusInternalServerError
	}
}
