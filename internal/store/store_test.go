package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"taskhub/internal/model"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	if err := s.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}

	t.Cleanup(func() { _ = s.Close() })
	return s
}

func makeUser(t *testing.T, s *Store, username string, role model.Role) *model.User {
	t.Helper()
	user := &model.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		Role:         role,
		CreatedAt:    time.Now(),
	}
	if err := s.CreateUser(user); err != nil {
		t.Fatalf("failed to create user %s: %v", username, err)
	}
	return user
}

func makeTask(t *testing.T, s *Store, heading, createdBy string, assignedTo *string) *model.Task {
	t.Helper()
	task := &model.Task{
		ID:          uuid.NewString(),
		Heading:     heading,
		Status:      model.StatusToDo,
		CreatedBy:   createdBy,
		AssignedTo:  assignedTo,
		CreatedDate: time.Now(),
	}
	if err := s.CreateTask(task); err != nil {
		t.Fatalf("failed to create task %s: %v", heading, err)
	}
	return task
}

func strptr(s string) *string { return &s }
