package store

import (
	"database/sql"
	"fmt"

	"taskhub/internal/auth"
	"taskhub/internal/model"
)

// TaskFilter selects tasks for listing. Scope is always applied; the other
// fields are optional exact-match constraints, except Search which matches
// heading or description as a case-insensitive substring.
type TaskFilter struct {
	Scope     auth.Scope
	Status    *model.Status
	Project   string // legacy free-text label
	ProjectID string
	Search    string
}

const taskColumns = `id, heading, description, status, project, project_id,
	created_by, assigned_to, file_path, created_date, in_progress_date, completion_date`

// scopeClause appends the role base predicate to the query. Non-admin
// scopes see only tasks they created or are assigned to.
func scopeClause(scope auth.Scope, query string, args []any) (string, []any) {
	if scope.Unrestricted() {
		return query, args
	}
	query += ` AND (created_by = ? OR assigned_to = ?)`
	return query, append(args, scope.ActorID, scope.ActorID)
}

// ListTasks returns tasks matching the filter, newest first.
//
// When both a restricted scope and a search term are present, the two OR
// groups are kept as separate parenthesized conjuncts. Flattening them into
// one OR group would leak tasks outside the actor's scope whenever the
// search happens to match.
func (s *Store) ListTasks(filter TaskFilter) ([]model.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE 1=1`
	args := []any{}

	query, args = scopeClause(filter.Scope, query, args)

	if filter.Status != nil {
		if !filter.Status.IsValid() {
			return nil, fmt.Errorf("%w: %q", model.ErrInvalidStatus, *filter.Status)
		}
		query += ` AND status = ?`
		args = append(args, *filter.Status)
	}
	if filter.Project != "" {
		query += ` AND project = ?`
		args = append(args, filter.Project)
	}
	if filter.ProjectID != "" {
		query += ` AND project_id = ?`
		args = append(args, filter.ProjectID)
	}
	if filter.Search != "" {
		query += ` AND (heading LIKE '%' || ? || '%' COLLATE NOCASE
			OR description LIKE '%' || ? || '%' COLLATE NOCASE)`
		args = append(args, filter.Search, filter.Search)
	}

	query += ` ORDER BY created_date DESC`
	return s.queryTasks(query, args...)
}

// CountTasks counts tasks in scope, optionally constrained to one status.
func (s *Store) CountTasks(scope auth.Scope, status *model.Status) (int, error) {
	query := `SELECT COUNT(*) FROM tasks WHERE 1=1`
	args := []any{}

	query, args = scopeClause(scope, query, args)
	if status != nil {
		query += ` AND status = ?`
		args = append(args, *status)
	}

	var count int
	if err := s.QueryRow(query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count tasks: %w", err)
	}
	return count, nil
}

// ListTaskParticipants returns the distinct users appearing as creator or
// assignee on tasks visible in scope. Dangling ids (deleted users) are
// skipped.
func (s *Store) ListTaskParticipants(scope auth.Scope) ([]model.User, error) {
	query := `
		SELECT DISTINCT u.id, u.username, u.email, u.password_hash, u.role, u.created_at
		FROM users u
		JOIN tasks t ON u.id = t.created_by OR u.id = t.assigned_to
		WHERE 1=1`
	args := []any{}
	if !scope.Unrestricted() {
		query += ` AND (t.created_by = ? OR t.assigned_to = ?)`
		args = append(args, scope.ActorID, scope.ActorID)
	}
	query += ` ORDER BY u.username`

	rows, err := s.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query participants: %w", err)
	}
	defer rows.Close()
	return scanUsers(rows)
}

// ListTasksAssignedTo returns the tasks assigned to one user, newest
// first. Used by the admin per-user view, so no scope applies.
func (s *Store) ListTasksAssignedTo(userID string) ([]model.Task, error) {
	return s.queryTasks(`SELECT `+taskColumns+` FROM tasks
		WHERE assigned_to = ? ORDER BY created_date DESC`, userID)
}

// CreateTask inserts a new task.
func (s *Store) CreateTask(task *model.Task) error {
	if !task.Status.IsValid() {
		return fmt.Errorf("%w: %q", model.ErrInvalidStatus, task.Status)
	}
	_, err := s.Exec(`
		INSERT INTO tasks (id, heading, description, status, project, project_id,
			created_by, assigned_to, file_path, created_date, in_progress_date, completion_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		task.ID, task.Heading, task.Description, task.Status, task.Project, task.ProjectID,
		task.CreatedBy, task.AssignedTo, task.FilePath, task.CreatedDate,
		task.InProgressDate, task.CompletionDate,
	)
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

// GetTask retrieves a task by id.
func (s *Store) GetTask(id string) (*model.Task, error) {
	tasks, err := s.queryTasks(`SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	if len(tasks) == 0 {
		return nil, ErrNotFound
	}
	return &tasks[0], nil
}

// UpdateTask persists all mutable task fields. The whole row is written so
// a status change and its timestamp side effects land atomically.
func (s *Store) UpdateTask(task *model.Task) error {
	if !task.Status.IsValid() {
		return fmt.Errorf("%w: %q", model.ErrInvalidStatus, task.Status)
	}
	result, err := s.Exec(`
		UPDATE tasks SET heading = ?, description = ?, status = ?, project = ?,
			project_id = ?, assigned_to = ?, file_path = ?,
			in_progress_date = ?, completion_date = ?
		WHERE id = ?`,
		task.Heading, task.Description, task.Status, task.Project,
		task.ProjectID, task.AssignedTo, task.FilePath,
		task.InProgressDate, task.CompletionDate, task.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteTask removes a task.
func (s *Store) DeleteTask(id string) error {
	result, err := s.Exec(`DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// queryTasks is a helper to scan task rows.
func (s *Store) queryTasks(query string, args ...any) ([]model.Task, error) {
	rows, err := s.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer rows.Close()

	var tasks []model.Task
	for rows.Next() {
		var task model.Task
		var projectID, assignedTo, filePath sql.NullString
		var inProgress, completion sql.NullTime
		if err := rows.Scan(
			&task.ID, &task.Heading, &task.Description, &task.Status, &task.Project,
			&projectID, &task.CreatedBy, &assignedTo, &filePath,
			&task.CreatedDate, &inProgress, &completion,
		); err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		if projectID.Valid {
			task.ProjectID = &projectID.String
		}
		if assignedTo.Valid {
			task.AssignedTo = &assignedTo.String
		}
		if filePath.Valid {
			task.FilePath = &filePath.String
		}
		if inProgress.Valid {
			t := inProgress.Time
			task.InProgressDate = &t
		}
		if completion.Valid {
			t := completion.Time
			task.CompletionDate = &t
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}
