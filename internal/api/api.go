// Package api exposes the HTTP surface: echo handlers, routes, request
// validation and the response envelope. Handlers resolve the authenticated
// actor once and pass it explicitly into the policy and store calls.
package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"taskhub/internal/store"
)

// Server carries the collaborators every handler needs.
type Server struct {
	store     *store.Store
	secret    []byte
	uploadDir string
}

// New builds a Server around an opened store.
func New(st *store.Store, secret []byte, uploadDir string) *Server {
	return &Server{store: st, secret: secret, uploadDir: uploadDir}
}

// fail sends the failure envelope with the given status.
func fail(c echo.Context, code int, message string) error {
	return c.JSON(code, echo.Map{"success": false, "message": message})
}

// serverError logs the underlying error and sends a redacted 500. The
// message describes the operation, never the internal failure.
func serverError(c echo.Context, err error, message string) error {
	c.Logger().Error(message, ": ", err)
	return fail(c, http.StatusInternalServerError, message)
}
