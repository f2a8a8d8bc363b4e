// Package policy is the pure access decision layer. Decisions are functions
// of (role, relationship to the resource) only; anything not explicitly
// allowed here is denied at the call site.
package policy

import "github.com/SyntaxSorcerers2025/ticketly/internal/models"

// Scope is the visibility predicate applied at the query boundary for list
// and read operations. A nil CreatorID means unrestricted. Scoping at the
// query keeps disallowed rows out of the result entirely instead of leaking
// their existence via 403s.
type Scope struct {
	CreatorID *int64
}

// Unrestricted reports whether the scope filters nothing.
func (s Scope) Unrestricted() bool { return s.CreatorID == nil }

// ListScope returns the ticket visibility predicate for a caller.
// Coordinators see everything; students and teachers see only their own.
func ListScope(role models.Role, callerID int64) Scope {
	if role == models.RoleCoordinator {
		return Scope{}
	}
	id := callerID
	return Scope{CreatorID: &id}
}

// CanCreateTicket: only students and teachers file tickets. Coordinators
// resolve them, they do not create them.
func CanCreateTicket(role models.Role) bool {
	return role == models.RoleStudent || role == models.RoleTeacher
}

// CanMutateTicket gates status/priority/assignee writes on any ticket.
func CanMutateTicket(role models.Role) bool {
	return role == models.RoleCoordinator
}

// CanDeleteTicket: creators delete their own tickets; nobody else does,
// coordinators included (not their resource).
func CanDeleteTicket(role models.Role, callerID, creatorID int64) bool {
	if role == models.RoleCoordinator {
		return false
	}
	return callerID == creatorID
}

// CanReadTicket mirrors ListScope for a single row.
func CanReadTicket(role models.Role, callerID, creatorID int64) bool {
	return role == models.RoleCoordinator || callerID == creatorID
}

// CanAddUpdate: anyone with read access to the parent ticket may append.
func CanAddUpdate(role models.Role, callerID, creatorID int64) bool {
	return CanReadTicket(role, callerID, creatorID)
}

// CanViewUsers gates the user directory listings and aggregates.
func CanViewUsers(role models.Role) bool {
	return role == models.RoleCoordinator
}

// CanViewStats gates ticket/user aggregate endpoints.
func CanViewStats(role models.Role) bool {
	return role == models.RoleCoordinator
}
