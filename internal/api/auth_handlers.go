package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"taskhub/internal/auth"
	"taskhub/internal/model"
	"taskhub/internal/store"
)

// Register creates a new account and returns a session token.
func (s *Server) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, err.Error())
	}
	if errs := validateRegister(&req); len(errs) > 0 {
		return validationFailed(c, errs)
	}

	role := model.RoleUser
	if req.Role != "" {
		role = model.Role(req.Role)
		if !role.IsValid() {
			return fail(c, http.StatusBadRequest, "Invalid role")
		}
	}

	user, err := s.createUser(req.Username, req.Email, req.Password, role)
	if errors.Is(err, store.ErrConflict) {
		return fail(c, http.StatusConflict, "Username or email already exists")
	}
	if err != nil {
		return serverError(c, err, "Internal server error during registration")
	}

	token, err := auth.IssueToken(s.secret, user)
	if err != nil {
		return serverError(c, err, "Internal server error during registration")
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"message": "User registered successfully",
		"token":   token,
		"user":    newUserView(user),
	})
}

// createUser runs the shared register path: uniqueness pre-check for a
// friendly conflict, hash, insert with the unique-index backstop. A
// username or email collision returns store.ErrConflict; callers map
// errors to responses.
func (s *Server) createUser(username, email, password string, role model.Role) (*model.User, error) {
	name := strings.TrimSpace(username)

	taken, err := s.store.CredentialsTaken(name, email, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, store.ErrConflict
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		ID:           uuid.NewString(),
		Username:     name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    time.Now(),
	}
	if err := s.store.CreateUser(user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies credentials and returns a session token. Unknown username
// and wrong password are indistinguishable to the client.
func (s *Server) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, err.Error())
	}
	if errs := validateLogin(&req); len(errs) > 0 {
		return validationFailed(c, errs)
	}

	user, err := s.store.GetUserByUsername(strings.TrimSpace(req.Username))
	if errors.Is(err, store.ErrNotFound) {
		return fail(c, http.StatusUnauthorized, "Invalid credentials")
	}
	if err != nil {
		return serverError(c, err, "Internal server error during login")
	}
	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		return fail(c, http.StatusUnauthorized, "Invalid credentials")
	}

	token, err := auth.IssueToken(s.secret, user)
	if err != nil {
		return serverError(c, err, "Internal server error during login")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Login successful",
		"token":   token,
		"user":    newUserView(user),
	})
}

// SeedUsers populates a development set of accounts when none exist yet.
func (s *Server) SeedUsers(c echo.Context) error {
	count, err := s.store.CountUsers()
	if err != nil {
		return serverError(c, err, "Internal server error while seeding users")
	}
	if count > 0 {
		return c.JSON(http.StatusOK, echo.Map{
			"success": true,
			"message": "Users already seeded",
		})
	}

	hash, err := auth.HashPassword("password123")
	if err != nil {
		return serverError(c, err, "Internal server error while seeding users")
	}

	seeds := []struct {
		username string
		role     model.Role
	}{
		{"admin", model.RoleAdmin},
		{"user1", model.RoleUser},
		{"user2", model.RoleUser},
		{"user3", model.RoleUser},
	}
	for _, seed := range seeds {
		user := &model.User{
			ID:           uuid.NewString(),
			Username:     seed.username,
			Email:        seed.username + "@example.com",
			PasswordHash: hash,
			Role:         seed.role,
			CreatedAt:    time.Now(),
		}
		if err := s.store.CreateUser(user); err != nil {
			return serverError(c, err, "Internal server error while seeding users")
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Users seeded successfully",
		"count":   len(seeds),
	})
}

// ListUsers returns all users, newest first. Admin only.
func (s *Server) ListUsers(c echo.Context) error {
	users, err := s.store.ListUsers()
	if err != nil {
		return serverError(c, err, "Internal server error while fetching users")
	}

	views := make([]UserView, 0, len(users))
	for i := range users {
		views = append(views, newUserView(&users[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    views,
		"count":   len(views),
	})
}

// GetUserByID returns one user. Admin only.
func (s *Server) GetUserByID(c echo.Context) error {
	user, err := s.store.GetUser(c.Param("userId"))
	if errors.Is(err, store.ErrNotFound) {
		return fail(c, http.StatusNotFound, "User not found")
	}
	if err != nil {
		return serverError(c, err, "Internal server error while fetching user")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": newUserView(user)})
}

// RemoveUser deletes a user. Admin only. Tasks referencing the user keep
// their (now dangling) ids.
func (s *Server) RemoveUser(c echo.Context) error {
	err := s.store.DeleteUser(c.Param("userId"))
	if errors.Is(err, store.ErrNotFound) {
		return fail(c, http.StatusNotFound, "User not found")
	}
	if err != nil {
		return serverError(c, err, "Internal server error while deleting user")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "User deleted successfully"})
}

// AdminRegister creates an account on behalf of an admin, optionally
// seeding a first task assigned to the new user.
func (s *Server) AdminRegister(c echo.Context) error {
	var req AdminRegisterRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, err.Error())
	}
	basic := RegisterRequest{Username: req.Username, Email: req.Email, Password: req.Password}
	if errs := validateRegister(&basic); len(errs) > 0 {
		return validationFailed(c, errs)
	}

	role := model.RoleUser
	if req.Role != "" {
		role = model.Role(req.Role)
		if !role.IsValid() {
			return fail(c, http.StatusBadRequest, "Invalid role")
		}
	}

	user, err := s.createUser(req.Username, req.Email, req.Password, role)
	if errors.Is(err, store.ErrConflict) {
		return fail(c, http.StatusConflict, "Username or email already exists")
	}
	if err != nil {
		return serverError(c, err, "Internal server error during admin registration")
	}

	if req.TaskData != nil {
		status := model.StatusToDo
		if req.TaskData.Status != "" {
			status = model.Status(req.TaskData.Status)
			if !status.IsValid() {
				return fail(c, http.StatusBadRequest, "Invalid status. Must be TO_DO, IN_PROGRESS, or DONE")
			}
		}
		projectID := req.TaskData.ProjectID
		if projectID == "" {
			projectID = req.ProjectID
		}
		task := &model.Task{
			ID:          uuid.NewString(),
			Heading:     strings.TrimSpace(req.TaskData.Heading),
			Description: strings.TrimSpace(req.TaskData.Description),
			Status:      status,
			CreatedBy:   actorFrom(c).ID,
			AssignedTo:  &user.ID,
			CreatedDate: time.Now(),
		}
		if projectID != "" {
			task.ProjectID = &projectID
		}
		if err := s.store.CreateTask(task); err != nil {
			return serverError(c, err, "Internal server error during admin registration")
		}
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"message": "User registered successfully by admin",
		"user":    newUserView(user),
	})
}

// GetProfile returns the calling user.
func (s *Server) GetProfile(c echo.Context) error {
	user, err := s.store.GetUser(actorFrom(c).ID)
	if errors.Is(err, store.ErrNotFound) {
		return fail(c, http.StatusNotFound, "User not found")
	}
	if err != nil {
		return serverError(c, err, "Internal server error while fetching profile")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": newUserView(user)})
}

// UpdateProfile changes the calling user's username and/or email, with the
// uniqueness check excluding the caller themselves.
func (s *Server) UpdateProfile(c echo.Context) error {
	var req ProfileUpdateRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, err.Error())
	}
	actor := actorFrom(c)

	username := strings.TrimSpace(req.Username)
	email := strings.TrimSpace(req.Email)
	if username != "" || email != "" {
		taken, err := s.store.CredentialsTaken(username, email, actor.ID)
		if err != nil {
			return serverError(c, err, "Internal server error while updating profile")
		}
		if taken {
			return fail(c, http.StatusConflict, "Username or email already exists")
		}
	}

	if err := s.store.UpdateUserProfile(actor.ID, username, email); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return fail(c, http.StatusConflict, "Username or email already exists")
		}
		if errors.Is(err, store.ErrNotFound) {
			return fail(c, http.StatusNotFound, "User not found")
		}
		return serverError(c, err, "Internal server error while updating profile")
	}

	user, err := s.store.GetUser(actor.ID)
	if err != nil {
		return serverError(c, err, "Internal server error while updating profile")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Profile updated successfully",
		"data":    newUserView(user),
	})
}
