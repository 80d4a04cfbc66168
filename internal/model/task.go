package model

import (
	"errors"
	"fmt"
	"time"
)

type Status string

const (
	StatusToDo       Status = "TO_DO"
	StatusInProgress Status = "IN_PROGRESS"
	StatusDone       Status = "DONE"
)

// ErrInvalidStatus is returned when a status value is not one of the enum.
var ErrInvalidStatus = errors.New("invalid status")

// IsValid reports whether s is one of the known statuses.
func (s Status) IsValid() bool {
	switch s {
	case StatusToDo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// Task is the central entity. CreatedBy is required; AssignedTo, ProjectID
// and FilePath are nullable. Project holds a legacy free-text label kept
// only for filtering old data.
type Task struct {
	ID             string     `json:"id"`
	Heading        string     `json:"heading"`
	Description    string     `json:"description"`
	Status         Status     `json:"status"`
	Project        string     `json:"project,omitempty"`
	ProjectID      *string    `json:"projectId"`
	CreatedBy      string     `json:"createdBy"`
	AssignedTo     *string    `json:"assignedTo"`
	FilePath       *string    `json:"file"`
	CreatedDate    time.Time  `json:"createdDate"`
	InProgressDate *time.Time `json:"inProgressDate"`
	CompletionDate *time.Time `json:"completionDate"`
}

// SetStatus moves the task to status and applies timestamp side effects.
// InProgressDate and CompletionDate are set-once: the first transition to
// IN_PROGRESS or DONE stamps them, and later transitions (including a move
// back to TO_DO) never clear or overwrite them. Any status may move to any
// other; only the enum itself is validated.
func (t *Task) SetStatus(status Status, now time.Time) error {
	if !status.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	if status == t.Status {
		return nil
	}
	t.Status = status
	switch status {
	case StatusInProgress:
		if t.InProgressDate == nil {
			t.InProgressDate = &now
		}
	case StatusDone:
		if t.CompletionDate == nil {
			t.CompletionDate = &now
		}
	}
	return nil
}
