// Package auth provides the credential service (bcrypt hashing, JWT
// session tokens) and the authorization policy that gates every task and
// user operation.
package auth

import "taskhub/internal/model"

// Actor is the authenticated identity performing a request. It is passed
// explicitly into every operation that needs it; there is no ambient
// request-scoped identity.
type Actor struct {
	ID   string
	Role model.Role
}

// IsAdmin reports whether the actor has the admin role.
func (a Actor) IsAdmin() bool {
	return a.Role == model.RoleAdmin
}

// CanView reports whether the actor may read the task. Admins see
// everything; other actors must be the creator or the assignee.
func (a Actor) CanView(t *model.Task) bool {
	if a.IsAdmin() {
		return true
	}
	if t.CreatedBy == a.ID {
		return true
	}
	return t.AssignedTo != nil && *t.AssignedTo == a.ID
}

// CanMutate reports whether the actor may modify the task. The rule is the
// same as CanView: creator or assignee, admin unrestricted.
func (a Actor) CanMutate(t *model.Task) bool {
	return a.CanView(t)
}

// Scope is the visibility scope the query composer applies when listing or
// counting tasks. A zero ActorID means unrestricted (admin); otherwise
// queries are constrained to tasks the actor created or is assigned to.
type Scope struct {
	ActorID string
}

// Unrestricted reports whether the scope matches all tasks.
func (s Scope) Unrestricted() bool {
	return s.ActorID == ""
}

// Scope returns the task visibility scope for the actor.
func (a Actor) Scope() Scope {
	if a.IsAdmin() {
		return Scope{}
	}
	return Scope{ActorID: a.ID}
}
