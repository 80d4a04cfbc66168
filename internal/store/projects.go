package store

import (
	"database/sql"
	"fmt"

	"taskhub/internal/model"
)

// CreateProject inserts a new project. A title collision, including the
// losing side of a concurrent create race, returns ErrConflict.
func (s *Store) CreateProject(project *model.Project) error {
	_, err := s.Exec(`
		INSERT INTO projects (id, title, description, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		project.ID, project.Title, project.Description, project.CreatedAt, project.UpdatedAt,
	)
	if isDuplicate(err) {
		return ErrConflict
	}
	if err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}
	return nil
}

// GetProject retrieves a project by id.
func (s *Store) GetProject(id string) (*model.Project, error) {
	project := &model.Project{}
	err := s.QueryRow(`
		SELECT id, title, description, created_at, updated_at
		FROM projects WHERE id = ?`, id,
	).Scan(&project.ID, &project.Title, &project.Description, &project.CreatedAt, &project.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return project, nil
}

// ListProjects returns all projects, newest first.
func (s *Store) ListProjects() ([]model.Project, error) {
	rows, err := s.Query(`
		SELECT id, title, description, created_at, updated_at
		FROM projects ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query projects: %w", err)
	}
	defer rows.Close()

	var projects []model.Project
	for rows.Next() {
		var project model.Project
		if err := rows.Scan(&project.ID, &project.Title, &project.Description, &project.CreatedAt, &project.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, project)
	}
	return projects, rows.Err()
}

// TitleTaken reports whether a project other than excludeID (may be empty)
// already uses the exact trimmed title. Comparison is case-sensitive.
func (s *Store) TitleTaken(title, excludeID string) (bool, error) {
	var count int
	err := s.QueryRow(`
		SELECT COUNT(*) FROM projects WHERE title = ? AND id != ?`,
		title, excludeID,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check title: %w", err)
	}
	return count > 0, nil
}

// UpdateProject replaces title and description. A title collision returns
// ErrConflict.
func (s *Store) UpdateProject(project *model.Project) error {
	result, err := s.Exec(`
		UPDATE projects SET title = ?, description = ?, updated_at = ?
		WHERE id = ?`,
		project.Title, project.Description, project.UpdatedAt, project.ID,
	)
	if isDuplicate(err) {
		return ErrConflict
	}
	if err != nil {
		return fmt.Errorf("failed to update project: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteProject removes a project. Tasks referencing it are left
// untouched; their projectId goes dangling and readers resolve it to nil.
func (s *Store) DeleteProject(id string) error {
	result, err := s.Exec(`DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}
