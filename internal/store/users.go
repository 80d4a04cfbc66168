package store

import (
	"database/sql"
	"fmt"

	"taskhub/internal/model"
)

// CreateUser inserts a new user. A username or email collision returns
// ErrConflict.
func (s *Store) CreateUser(user *model.User) error {
	_, err := s.Exec(`
		INSERT INTO users (id, username, email, password_hash, role, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		user.ID, user.Username, user.Email, user.PasswordHash, user.Role, user.CreatedAt,
	)
	if isDuplicate(err) {
		return ErrConflict
	}
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetUser retrieves a user by id.
func (s *Store) GetUser(id string) (*model.User, error) {
	return s.scanUser(s.QueryRow(`
		SELECT id, username, email, password_hash, role, created_at
		FROM users WHERE id = ?`, id))
}

// GetUserByUsername retrieves a user by username for login.
func (s *Store) GetUserByUsername(username string) (*model.User, error) {
	return s.scanUser(s.QueryRow(`
		SELECT id, username, email, password_hash, role, created_at
		FROM users WHERE username = ?`, username))
}

func (s *Store) scanUser(row *sql.Row) (*model.User, error) {
	user := &model.User{}
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.Role, &user.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// ListUsers returns all users, newest first.
func (s *Store) ListUsers() ([]model.User, error) {
	rows, err := s.Query(`
		SELECT id, username, email, password_hash, role, created_at
		FROM users ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()
	return scanUsers(rows)
}

func scanUsers(rows *sql.Rows) ([]model.User, error) {
	var users []model.User
	for rows.Next() {
		var user model.User
		if err := rows.Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.Role, &user.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// CountUsers returns the total number of users.
func (s *Store) CountUsers() (int, error) {
	var count int
	if err := s.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}

// CredentialsTaken reports whether another user (excluding excludeID, which
// may be empty) already holds the username or email. Empty values are not
// matched, so partial profile updates only check the fields they touch.
func (s *Store) CredentialsTaken(username, email, excludeID string) (bool, error) {
	var count int
	err := s.QueryRow(`
		SELECT COUNT(*) FROM users
		WHERE ((username = ? AND ? != '') OR (email = ? AND ? != ''))
		  AND id != ?`,
		username, username, email, email, excludeID,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check credentials: %w", err)
	}
	return count > 0, nil
}

// UpdateUserProfile updates username and/or email. Empty fields are left
// unchanged. A uniqueness collision returns ErrConflict.
func (s *Store) UpdateUserProfile(id, username, email string) error {
	result, err := s.Exec(`
		UPDATE users SET
			username = CASE WHEN ? != '' THEN ? ELSE username END,
			email    = CASE WHEN ? != '' THEN ? ELSE email END
		WHERE id = ?`,
		username, username, email, email, id,
	)
	if isDuplicate(err) {
		return ErrConflict
	}
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteUser removes a user. Tasks referencing the user keep their ids
// and the references go dangling; readers resolve them to nil.
func (s *Store) DeleteUser(id string) error {
	result, err := s.Exec(`DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}
