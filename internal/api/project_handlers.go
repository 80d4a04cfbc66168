package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"taskhub/internal/model"
	"taskhub/internal/store"
)

// CreateProject creates a project with a unique trimmed title. The
// pre-check gives a friendly message; the unique index on title is the
// real guard, so a concurrent duplicate still comes back as 409.
func (s *Server) CreateProject(c echo.Context) error {
	var req ProjectRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, err.Error())
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return fail(c, http.StatusBadRequest, "Project title is required")
	}

	taken, err := s.store.TitleTaken(title, "")
	if err != nil {
		return serverError(c, err, "Internal server error while creating project")
	}
	if taken {
		return fail(c, http.StatusConflict, "Project with this title already exists")
	}

	now := time.Now()
	project := &model.Project{
		ID:          uuid.NewString(),
		Title:       title,
		Description: strings.TrimSpace(req.Description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.CreateProject(project); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return fail(c, http.StatusConflict, "Project with this title already exists")
		}
		return serverError(c, err, "Internal server error while creating project")
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"message": "Project created successfully",
		"data":    project,
	})
}

// ListProjects returns all projects, newest first.
func (s *Server) ListProjects(c echo.Context) error {
	projects, err := s.store.ListProjects()
	if err != nil {
		return serverError(c, err, "Internal server error while fetching projects")
	}
	if projects == nil {
		projects = []model.Project{}
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    projects,
		"count":   len(projects),
	})
}

// GetProject returns a single project.
func (s *Server) GetProject(c echo.Context) error {
	project, err := s.store.GetProject(c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		return fail(c, http.StatusNotFound, "Project not found")
	}
	if err != nil {
		return serverError(c, err, "Internal server error while fetching project")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": project})
}

// UpdateProject replaces the title and description, keeping the trimmed
// title unique across other projects.
func (s *Server) UpdateProject(c echo.Context) error {
	var req ProjectRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, err.Error())
	}

	project, err := s.store.GetProject(c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		return fail(c, http.StatusNotFound, "Project not found")
	}
	if err != nil {
		return serverError(c, err, "Internal server error while updating project")
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return fail(c, http.StatusBadRequest, "Project title is required")
	}

	taken, err := s.store.TitleTaken(title, project.ID)
	if err != nil {
		return serverError(c, err, "Internal server error while updating project")
	}
	if taken {
		return fail(c, http.StatusConflict, "Project with this title already exists")
	}

	project.Title = title
	project.Description = strings.TrimSpace(req.Description)
	project.UpdatedAt = time.Now()
	if err := s.store.UpdateProject(project); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return fail(c, http.StatusConflict, "Project with this title already exists")
		}
		return serverError(c, err, "Internal server error while updating project")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Project updated successfully",
		"data":    project,
	})
}

// DeleteProject removes a project. Admin only. Tasks referencing it keep
// their projectId; readers resolve the dangling id to null.
func (s *Server) DeleteProject(c echo.Context) error {
	err := s.store.DeleteProject(c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		return fail(c, http.StatusNotFound, "Project not found")
	}
	if err != nil {
		return serverError(c, err, "Internal server error while deleting project")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Project deleted successfully"})
}
