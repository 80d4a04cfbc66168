package model

import "time"

// Project groups tasks under a unique title. Deleting a project does not
// cascade to tasks; dangling projectId references on tasks are tolerated.
type Project struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
