package api

import (
	"errors"
	"net/http"

	"github.com/golang-jwt/jwt"
	"github.com/labstack/echo/v4"

	"taskhub/internal/auth"
	"taskhub/internal/store"
)

// loadActor runs after the JWT middleware. It turns the verified token
// into an auth.Actor and re-resolves the user against the store, so tokens
// of deleted users stop working and role changes take effect immediately.
func (s *Server) loadActor(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, ok := c.Get("user").(*jwt.Token)
		if !ok {
			return fail(c, http.StatusUnauthorized, "Invalid token")
		}
		claimed, err := auth.ActorFromToken(token)
		if err != nil {
			return fail(c, http.StatusUnauthorized, "Invalid token")
		}
		user, err := s.store.GetUser(claimed.ID)
		if errors.Is(err, store.ErrNotFound) {
			return fail(c, http.StatusUnauthorized, "Invalid token")
		}
		if err != nil {
			return serverError(c, err, "Internal server error during authentication")
		}
		c.Set("actor", auth.Actor{ID: user.ID, Role: user.Role})
		return next(c)
	}
}

// actorFrom returns the actor loadActor stored on the context.
func actorFrom(c echo.Context) auth.Actor {
	actor, _ := c.Get("actor").(auth.Actor)
	return actor
}

// requireAdmin gates admin-only routes.
func (s *Server) requireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !actorFrom(c).IsAdmin() {
			return fail(c, http.StatusForbidden, "Access denied. Admin privileges required.")
		}
		return next(c)
	}
}
