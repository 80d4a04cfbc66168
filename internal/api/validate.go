package api

import (
	"net/http"
	"net/mail"
	"strings"

	"github.com/labstack/echo/v4"
)

// FieldError points a validation failure at the offending request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// validationFailed sends the 400 envelope carrying per-field errors.
func validationFailed(c echo.Context, errs []FieldError) error {
	return c.JSON(http.StatusBadRequest, echo.Map{
		"success": false,
		"message": "Validation Error",
		"errors":  errs,
	})
}

func validateRegister(req *RegisterRequest) []FieldError {
	var errs []FieldError
	username := strings.TrimSpace(req.Username)
	if len(username) < 3 || len(username) > 50 {
		errs = append(errs, FieldError{"username", "Username must be between 3 and 50 characters"})
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		errs = append(errs, FieldError{"email", "Please enter a valid email address"})
	}
	if len(req.Password) < 6 {
		errs = append(errs, FieldError{"password", "Password must be at least 6 characters long"})
	}
	return errs
}

func validateLogin(req *LoginRequest) []FieldError {
	var errs []FieldError
	if strings.TrimSpace(req.Username) == "" {
		errs = append(errs, FieldError{"username", "Username is required"})
	}
	if req.Password == "" {
		errs = append(errs, FieldError{"password", "Password is required"})
	}
	return errs
}

func validateTaskFields(heading, description string) []FieldError {
	var errs []FieldError
	h := strings.TrimSpace(heading)
	if len(h) < 1 || len(h) > 200 {
		errs = append(errs, FieldError{"heading", "Heading must be between 1 and 200 characters"})
	}
	if len(strings.TrimSpace(description)) > 1000 {
		errs = append(errs, FieldError{"description", "Description must be less than 1000 characters"})
	}
	return errs
}
