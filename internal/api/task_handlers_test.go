package api

import (
	"net/http"
	"testing"
)

func TestCreateTask_RequiresHeading(t *testing.T) {
	e := newTestServer(t)
	token := registerUser(t, e, "alice", "user")

	rec := doJSON(t, e, http.MethodPost, "/api/tasks", token, map[string]any{
		"heading": "   ",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestCreateTask_NonAdminAssigneeDiscarded(t *testing.T) {
	e := newTestServer(t)
	token := registerUser(t, e, "alice", "user")

	rec := doJSON(t, e, http.MethodPost, "/api/tasks", token, map[string]any{
		"heading":    "Sneaky assignment",
		"assignedTo": "some-user-id",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 (discard, not reject)", rec.Code)
	}
	task := dataMap(t, decode(t, rec))
	if task["assignedTo"] != nil {
		t.Errorf("assignedTo = %v, want null", task["assignedTo"])
	}
}

func TestTaskVisibility(t *testing.T) {
	// Scenario: u1 creates a task, admin reassigns it to u2. u1 stays
	// creator so keeps access; u2 gains access; unrelated u3 gets 403.
	e := newTestServer(t)
	adminToken := registerUser(t, e, "root", "admin")
	u1 := registerUser(t, e, "usr1", "user")
	u2 := registerUser(t, e, "usr2", "user")
	u3 := registerUser(t, e, "usr3", "user")

	rec := doJSON(t, e, http.MethodPost, "/api/tasks", u1, map[string]any{"heading": "Fix bug"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: status = %d", rec.Code)
	}
	taskID := dataMap(t, decode(t, rec))["id"].(string)

	// Resolve u2's id from the admin user list.
	rec = doJSON(t, e, http.MethodGet, "/api/auth/users", adminToken, nil)
	var u2ID string
	for _, item := range decode(t, rec)["data"].([]any) {
		user := item.(map[string]any)
		if user["username"] == "usr2" {
			u2ID = user["id"].(string)
		}
	}

	rec = doJSON(t, e, http.MethodPatch, "/api/tasks/"+taskID+"/assignee", adminToken,
		map[string]any{"assigneeId": u2ID})
	if rec.Code != http.StatusOK {
		t.Fatalf("reassign: status = %d, body %s", rec.Code, rec.Body.String())
	}

	tests := []struct {
		name  string
		token string
		want  int
	}{
		{"creator keeps access", u1, http.StatusOK},
		{"assignee gains access", u2, http.StatusOK},
		{"unrelated user forbidden", u3, http.StatusForbidden},
		{"admin unrestricted", adminToken, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, e, http.MethodGet, "/api/tasks/"+taskID, tt.token, nil)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}

	// Mutation follows the same policy: u3 may not move the status.
	rec = doJSON(t, e, http.MethodPatch, "/api/tasks/"+taskID+"/status", u3,
		map[string]any{"status": "DONE"})
	if rec.Code != http.StatusForbidden {
		t.Errorf("u3 status update: status = %d, want 403", rec.Code)
	}
}

func TestStatusLifecycle(t *testing.T) {
	// TO_DO -> DONE stamps completionDate; bouncing back and forth never
	// changes the original stamp.
	e := newTestServer(t)
	token := registerUser(t, e, "alice", "user")

	rec := doJSON(t, e, http.MethodPost, "/api/tasks", token, map[string]any{"heading": "Ship it"})
	taskID := dataMap(t, decode(t, rec))["id"].(string)

	rec = doJSON(t, e, http.MethodPatch, "/api/tasks/"+taskID+"/status", token,
		map[string]any{"status": "DONE"})
	if rec.Code != http.StatusOK {
		t.Fatalf("to DONE: status = %d", rec.Code)
	}
	stamp := dataMap(t, decode(t, rec))["completionDate"]
	if stamp == nil {
		t.Fatal("completionDate not set on first DONE")
	}

	rec = doJSON(t, e, http.MethodPatch, "/api/tasks/"+taskID+"/status", token,
		map[string]any{"status": "TO_DO"})
	if got := dataMap(t, decode(t, rec))["completionDate"]; got != stamp {
		t.Errorf("completionDate after TO_DO = %v, want %v", got, stamp)
	}

	rec = doJSON(t, e, http.MethodPatch, "/api/tasks/"+taskID+"/status", token,
		map[string]any{"status": "DONE"})
	if got := dataMap(t, decode(t, rec))["completionDate"]; got != stamp {
		t.Errorf("completionDate after second DONE = %v, want original %v", got, stamp)
	}

	rec = doJSON(t, e, http.MethodPatch, "/api/tasks/"+taskID+"/status", token,
		map[string]any{"status": "SHIPPED"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("invalid status: status = %d, want 400", rec.Code)
	}
}

func TestListTasks_SearchScoped(t *testing.T) {
	e := newTestServer(t)
	alice := registerUser(t, e, "alice", "user")
	bob := registerUser(t, e, "bob", "user")

	doJSON(t, e, http.MethodPost, "/api/tasks", alice, map[string]any{"heading": "Fix login"})
	doJSON(t, e, http.MethodPost, "/api/tasks", bob, map[string]any{"heading": "Fix logout"})

	rec := doJSON(t, e, http.MethodGet, "/api/tasks?search=fix", alice, nil)
	body := decode(t, rec)
	if count, _ := body["count"].(float64); count != 1 {
		t.Fatalf("count = %v, want 1 (search must stay inside scope)", body["count"])
	}
	task := body["data"].([]any)[0].(map[string]any)
	if task["heading"] != "Fix login" {
		t.Errorf("leaked task: %v", task["heading"])
	}
}

func TestTaskStats(t *testing.T) {
	e := newTestServer(t)
	alice := registerUser(t, e, "alice", "user")
	bob := registerUser(t, e, "bob", "user")

	rec := doJSON(t, e, http.MethodPost, "/api/tasks", alice, map[string]any{"heading": "one"})
	id := dataMap(t, decode(t, rec))["id"].(string)
	doJSON(t, e, http.MethodPost, "/api/tasks", alice, map[string]any{"heading": "two"})
	doJSON(t, e, http.MethodPost, "/api/tasks", bob, map[string]any{"heading": "not alice's"})

	doJSON(t, e, http.MethodPatch, "/api/tasks/"+id+"/status", alice, map[string]any{"status": "DONE"})

	rec = doJSON(t, e, http.MethodGet, "/api/tasks/stats", alice, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("stats: status = %d", rec.Code)
	}
	stats := dataMap(t, decode(t, rec))
	if stats["total"].(float64) != 2 || stats["done"].(float64) != 1 || stats["todo"].(float64) != 1 {
		t.Errorf("stats = %v", stats)
	}
	if stats["completionRate"].(float64) != 50 {
		t.Errorf("completionRate = %v, want 50", stats["completionRate"])
	}
}

func TestDeleteTask_AdminOnly(t *testing.T) {
	e := newTestServer(t)
	adminToken := registerUser(t, e, "root", "admin")
	alice := registerUser(t, e, "alice", "user")

	rec := doJSON(t, e, http.MethodPost, "/api/tasks", alice, map[string]any{"heading": "temp"})
	taskID := dataMap(t, decode(t, rec))["id"].(string)

	rec = doJSON(t, e, http.MethodDelete, "/api/tasks/"+taskID, alice, nil)
	if rec.Code != http.StatusForbidden {
		t.Errorf("non-admin delete: status = %d, want 403", rec.Code)
	}

	rec = doJSON(t, e, http.MethodDelete, "/api/tasks/"+taskID, adminToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("admin delete: status = %d", rec.Code)
	}

	rec = doJSON(t, e, http.MethodDelete, "/api/tasks/"+taskID, adminToken, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("double delete: status = %d, want 404", rec.Code)
	}
}

func TestTaskUsersEndpoint(t *testing.T) {
	e := newTestServer(t)
	alice := registerUser(t, e, "alice", "user")
	registerUser(t, e, "bob", "user")

	doJSON(t, e, http.MethodPost, "/api/tasks", alice, map[string]any{"heading": "solo"})

	rec := doJSON(t, e, http.MethodGet, "/api/tasks/users", alice, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("task users: status = %d", rec.Code)
	}
	body := decode(t, rec)
	if count, _ := body["count"].(float64); count != 1 {
		t.Errorf("count = %v, want 1 (bob has no shared task)", body["count"])
	}
}
