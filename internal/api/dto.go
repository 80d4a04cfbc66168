package api

import (
	"time"

	"taskhub/internal/model"
)

// RegisterRequest creates a new account. Role defaults to "user".
type RegisterRequest struct {
	Username string `json:"username" form:"username"`
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
	Role     string `json:"role" form:"role"`
}

// LoginRequest authenticates by username and password.
type LoginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// ProfileUpdateRequest updates the caller's own username and/or email.
type ProfileUpdateRequest struct {
	Username string `json:"username" form:"username"`
	Email    string `json:"email" form:"email"`
}

// TaskSeed optionally creates a task for a user registered by an admin.
type TaskSeed struct {
	Heading     string `json:"heading"`
	Description string `json:"description"`
	Status      string `json:"status"`
	ProjectID   string `json:"projectId"`
}

// AdminRegisterRequest is RegisterRequest plus optional task seeding.
type AdminRegisterRequest struct {
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Password  string    `json:"password"`
	Role      string    `json:"role"`
	ProjectID string    `json:"projectId"`
	TaskData  *TaskSeed `json:"taskData"`
}

// CreateTaskRequest creates a task. AssignedTo is honored only for admin
// actors; for everyone else it is silently discarded.
type CreateTaskRequest struct {
	Heading     string `json:"heading" form:"heading"`
	Description string `json:"description" form:"description"`
	AssignedTo  string `json:"assignedTo" form:"assignedTo"`
	ProjectID   string `json:"projectId" form:"projectId"`
}

// StatusUpdateRequest moves a task to a new status. ProjectID, when
// present, is preserved onto the task (an empty value clears it).
type StatusUpdateRequest struct {
	Status    string  `json:"status" form:"status"`
	ProjectID *string `json:"projectId" form:"projectId"`
}

// UpdateTaskRequest is the admin full update; nil fields are not touched.
type UpdateTaskRequest struct {
	Heading     *string `json:"heading" form:"heading"`
	Description *string `json:"description" form:"description"`
	AssignedTo  *string `json:"assignedTo" form:"assignedTo"`
	Status      *string `json:"status" form:"status"`
	ProjectID   *string `json:"projectId" form:"projectId"`
}

// AssigneeUpdateRequest reassigns a task; an empty id unassigns it.
type AssigneeUpdateRequest struct {
	AssigneeID string `json:"assigneeId" form:"assigneeId"`
}

// ProjectRequest creates or updates a project.
type ProjectRequest struct {
	Title       string `json:"title" form:"title"`
	Description string `json:"description" form:"description"`
}

// UserView is the client-safe user shape (no credential hash).
type UserView struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	CreatedAt string `json:"createdAt"`
}

func newUserView(u *model.User) UserView {
	return UserView{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// UserRef embeds the resolved creator/assignee on a task view. A dangling
// reference resolves to a nil ref, not an error.
type UserRef struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// ProjectRef embeds the resolved project on a task view.
type ProjectRef struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// TaskView is a task with its references resolved for the client.
type TaskView struct {
	ID             string      `json:"id"`
	Heading        string      `json:"heading"`
	Description    string      `json:"description"`
	Status         string      `json:"status"`
	Project        string      `json:"project,omitempty"`
	ProjectID      *ProjectRef `json:"projectId"`
	CreatedBy      *UserRef    `json:"createdBy"`
	AssignedTo     *UserRef    `json:"assignedTo"`
	File           *string     `json:"file"`
	CreatedDate    string      `json:"createdDate"`
	InProgressDate *string     `json:"inProgressDate"`
	CompletionDate *string     `json:"completionDate"`
}
