package api

import (
	"errors"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"taskhub/internal/model"
	"taskhub/internal/store"
)

// refCache memoizes user/project lookups while building task views, and
// resolves dangling references to nil instead of failing.
type refCache struct {
	store    *store.Store
	users    map[string]*UserRef
	projects map[string]*ProjectRef
}

func (s *Server) newRefCache() *refCache {
	return &refCache{
		store:    s.store,
		users:    make(map[string]*UserRef),
		projects: make(map[string]*ProjectRef),
	}
}

func (rc *refCache) user(id string) (*UserRef, error) {
	if ref, ok := rc.users[id]; ok {
		return ref, nil
	}
	user, err := rc.store.GetUser(id)
	if errors.Is(err, store.ErrNotFound) {
		rc.users[id] = nil
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	ref := &UserRef{ID: user.ID, Username: user.Username, Email: user.Email}
	rc.users[id] = ref
	return ref, nil
}

func (rc *refCache) project(id string) (*ProjectRef, error) {
	if ref, ok := rc.projects[id]; ok {
		return ref, nil
	}
	project, err := rc.store.GetProject(id)
	if errors.Is(err, store.ErrNotFound) {
		rc.projects[id] = nil
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	ref := &ProjectRef{ID: project.ID, Title: project.Title, Description: project.Description}
	rc.projects[id] = ref
	return ref, nil
}

func (rc *refCache) taskView(task *model.Task) (TaskView, error) {
	view := TaskView{
		ID:          task.ID,
		Heading:     task.Heading,
		Description: task.Description,
		Status:      string(task.Status),
		Project:     task.Project,
		File:        task.FilePath,
		CreatedDate: task.CreatedDate.UTC().Format(time.RFC3339),
	}
	var err error
	if view.CreatedBy, err = rc.user(task.CreatedBy); err != nil {
		return view, err
	}
	if task.AssignedTo != nil {
		if view.AssignedTo, err = rc.user(*task.AssignedTo); err != nil {
			return view, err
		}
	}
	if task.ProjectID != nil {
		if view.ProjectID, err = rc.project(*task.ProjectID); err != nil {
			return view, err
		}
	}
	if task.InProgressDate != nil {
		stamp := task.InProgressDate.UTC().Format(time.RFC3339)
		view.InProgressDate = &stamp
	}
	if task.CompletionDate != nil {
		stamp := task.CompletionDate.UTC().Format(time.RFC3339)
		view.CompletionDate = &stamp
	}
	return view, nil
}

// ListTasks returns tasks visible to the actor, composed from the optional
// status, legacy project label, projectId and search query parameters.
func (s *Server) ListTasks(c echo.Context) error {
	filter := store.TaskFilter{
		Scope:     actorFrom(c).Scope(),
		Project:   c.QueryParam("project"),
		ProjectID: c.QueryParam("projectId"),
		Search:    c.QueryParam("search"),
	}
	if raw := c.QueryParam("status"); raw != "" {
		status := model.Status(raw)
		filter.Status = &status
	}

	tasks, err := s.store.ListTasks(filter)
	if errors.Is(err, model.ErrInvalidStatus) {
		return fail(c, http.StatusBadRequest, "Invalid status. Must be TO_DO, IN_PROGRESS, or DONE")
	}
	if err != nil {
		return serverError(c, err, "Internal server error while fetching tasks")
	}

	cache := s.newRefCache()
	views := make([]TaskView, 0, len(tasks))
	for i := range tasks {
		view, err := cache.taskView(&tasks[i])
		if err != nil {
			return serverError(c, err, "Internal server error while fetching tasks")
		}
		views = append(views, view)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    views,
		"count":   len(views),
	})
}

// TaskStats aggregates per-status counts over the actor's visible tasks.
func (s *Server) TaskStats(c echo.Context) error {
	scope := actorFrom(c).Scope()

	total, err := s.store.CountTasks(scope, nil)
	if err != nil {
		return serverError(c, err, "Internal server error while fetching task statistics")
	}
	counts := make(map[model.Status]int, 3)
	for _, status := range []model.Status{model.StatusToDo, model.StatusInProgress, model.StatusDone} {
		st := status
		count, err := s.store.CountTasks(scope, &st)
		if err != nil {
			return serverError(c, err, "Internal server error while fetching task statistics")
		}
		counts[status] = count
	}

	rate := 0
	if total > 0 {
		rate = int(math.Round(float64(counts[model.StatusDone]) / float64(total) * 100))
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data": echo.Map{
			"total":          total,
			"todo":           counts[model.StatusToDo],
			"inProgress":     counts[model.StatusInProgress],
			"done":           counts[model.StatusDone],
			"completionRate": rate,
		},
	})
}

// TaskUsers lists the distinct creators and assignees of the actor's
// visible tasks.
func (s *Server) TaskUsers(c echo.Context) error {
	users, err := s.store.ListTaskParticipants(actorFrom(c).Scope())
	if err != nil {
		return serverError(c, err, "Internal server error while fetching task users")
	}

	refs := make([]UserRef, 0, len(users))
	for _, user := range users {
		refs = append(refs, UserRef{ID: user.ID, Username: user.Username, Email: user.Email})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    refs,
		"count":   len(refs),
	})
}

// GetTask returns a single task, gated by the view policy.
func (s *Server) GetTask(c echo.Context) error {
	task, err := s.store.GetTask(c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		return fail(c, http.StatusNotFound, "Task not found")
	}
	if err != nil {
		return serverError(c, err, "Internal server error while fetching task")
	}
	if !actorFrom(c).CanView(task) {
		return fail(c, http.StatusForbidden, "Access denied")
	}
	return s.respondTask(c, task, http.StatusOK, "")
}

// CreateTask creates a task owned by the actor. An assignee supplied by a
// non-admin is silently discarded, not rejected.
func (s *Server) CreateTask(c echo.Context) error {
	var req CreateTaskRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, err.Error())
	}
	if errs := validateTaskFields(req.Heading, req.Description); len(errs) > 0 {
		return validationFailed(c, errs)
	}

	filePath, err := s.saveUpload(c)
	if err != nil {
		return serverError(c, err, "Internal server error while creating task")
	}

	actor := actorFrom(c)
	task := &model.Task{
		ID:          uuid.NewString(),
		Heading:     strings.TrimSpace(req.Heading),
		Description: strings.TrimSpace(req.Description),
		Status:      model.StatusToDo,
		CreatedBy:   actor.ID,
		FilePath:    filePath,
		CreatedDate: time.Now(),
	}
	if req.ProjectID != "" {
		task.ProjectID = &req.ProjectID
	}
	if req.AssignedTo != "" && actor.IsAdmin() {
		task.AssignedTo = &req.AssignedTo
	}

	if err := s.store.CreateTask(task); err != nil {
		return serverError(c, err, "Internal server error while creating task")
	}
	return s.respondTask(c, task, http.StatusCreated, "Task created successfully")
}

// UpdateTaskStatus transitions a task's status, applying the set-once
// timestamp rules, and optionally preserves a projectId from the request.
func (s *Server) UpdateTaskStatus(c echo.Context) error {
	var req StatusUpdateRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, err.Error())
	}

	task, err := s.store.GetTask(c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		return fail(c, http.StatusNotFound, "Task not found")
	}
	if err != nil {
		return serverError(c, err, "Internal server error while updating task status")
	}
	if !actorFrom(c).CanMutate(task) {
		return fail(c, http.StatusForbidden, "Access denied")
	}

	if err := task.SetStatus(model.Status(req.Status), time.Now()); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid status. Must be TO_DO, IN_PROGRESS, or DONE")
	}
	if req.ProjectID != nil {
		if *req.ProjectID == "" {
			task.ProjectID = nil
		} else {
			task.ProjectID = req.ProjectID
		}
	}

	if err := s.store.UpdateTask(task); err != nil {
		return serverError(c, err, "Internal server error while updating task status")
	}
	return s.respondTask(c, task, http.StatusOK, "Task status updated successfully")
}

// UpdateTask is the admin full update; nil request fields are left alone.
func (s *Server) UpdateTask(c echo.Context) error {
	var req UpdateTaskRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, err.Error())
	}

	task, err := s.store.GetTask(c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		return fail(c, http.StatusNotFound, "Task not found")
	}
	if err != nil {
		return serverError(c, err, "Internal server error while updating task")
	}

	if req.Status != nil && !model.Status(*req.Status).IsValid() {
		return fail(c, http.StatusBadRequest, "Invalid status. Must be TO_DO, IN_PROGRESS, or DONE")
	}

	if req.Heading != nil {
		task.Heading = strings.TrimSpace(*req.Heading)
	}
	if req.Description != nil {
		task.Description = strings.TrimSpace(*req.Description)
	}
	if req.AssignedTo != nil {
		if *req.AssignedTo == "" {
			task.AssignedTo = nil
		} else {
			task.AssignedTo = req.AssignedTo
		}
	}
	if req.ProjectID != nil {
		if *req.ProjectID == "" {
			task.ProjectID = nil
		} else {
			task.ProjectID = req.ProjectID
		}
	}
	if req.Status != nil {
		if err := task.SetStatus(model.Status(*req.Status), time.Now()); err != nil {
			return fail(c, http.StatusBadRequest, "Invalid status. Must be TO_DO, IN_PROGRESS, or DONE")
		}
	}

	filePath, err := s.saveUpload(c)
	if err != nil {
		return serverError(c, err, "Internal server error while updating task")
	}
	if filePath != nil {
		task.FilePath = filePath
	}

	if err := s.store.UpdateTask(task); err != nil {
		return serverError(c, err, "Internal server error while updating task")
	}
	return s.respondTask(c, task, http.StatusOK, "Task updated successfully")
}

// UpdateTaskAssignee reassigns (or unassigns) a task. Admin only.
func (s *Server) UpdateTaskAssignee(c echo.Context) error {
	var req AssigneeUpdateRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, err.Error())
	}

	task, err := s.store.GetTask(c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		return fail(c, http.StatusNotFound, "Task not found")
	}
	if err != nil {
		return serverError(c, err, "Internal server error while updating task assignee")
	}

	if req.AssigneeID == "" {
		task.AssignedTo = nil
	} else {
		task.AssignedTo = &req.AssigneeID
	}

	if err := s.store.UpdateTask(task); err != nil {
		return serverError(c, err, "Internal server error while updating task assignee")
	}
	return s.respondTask(c, task, http.StatusOK, "Task assignee updated successfully")
}

// DeleteTask removes a task. Admin only.
func (s *Server) DeleteTask(c echo.Context) error {
	err := s.store.DeleteTask(c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		return fail(c, http.StatusNotFound, "Task not found")
	}
	if err != nil {
		return serverError(c, err, "Internal server error while deleting task")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Task deleted successfully"})
}

// GetUserTasks lists tasks assigned to one user. Admin only.
func (s *Server) GetUserTasks(c echo.Context) error {
	userID := c.Param("userId")
	if _, err := s.store.GetUser(userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fail(c, http.StatusNotFound, "User not found")
		}
		return serverError(c, err, "Internal server error while fetching user tasks")
	}

	tasks, err := s.store.ListTasksAssignedTo(userID)
	if err != nil {
		return serverError(c, err, "Internal server error while fetching user tasks")
	}

	cache := s.newRefCache()
	views := make([]TaskView, 0, len(tasks))
	for i := range tasks {
		view, err := cache.taskView(&tasks[i])
		if err != nil {
			return serverError(c, err, "Internal server error while fetching user tasks")
		}
		views = append(views, view)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    views,
		"count":   len(views),
	})
}

// respondTask sends a single task with its references resolved.
func (s *Server) respondTask(c echo.Context, task *model.Task, code int, message string) error {
	view, err := s.newRefCache().taskView(task)
	if err != nil {
		return serverError(c, err, "Internal server error while fetching task")
	}
	body := echo.Map{"success": true, "data": view}
	if message != "" {
		body["message"] = message
	}
	return c.JSON(code, body)
}
