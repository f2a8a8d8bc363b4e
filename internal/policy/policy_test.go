package policy

import (
	"testing"

	"github.com/SyntaxSorcerers2025/ticketly/internal/models"
)

func TestListScope(t *testing.T) {
	if s := ListScope(models.RoleCoordinator, 7); !s.Unrestricted() {
		t.Error("coordinator list scope must be unrestricted")
	}
	for _, role := range []models.Role{models.RoleStudent, models.RoleTeacher} {
		s := ListScope(role, 7)
		if s.Unrestricted() {
			t.Fatalf("%v list scope must be restricted", role)
		}
		if *s.CreatorID != 7 {
			t.Errorf("%v scope creator = %d, want 7", role, *s.CreatorID)
		}
	}
}

func TestCreateTicket(t *testing.T) {
	if !CanCreateTicket(models.RoleStudent) || !CanCreateTicket(models.RoleTeacher) {
		t.Error("students and teachers must be able to create tickets")
	}
	if CanCreateTicket(models.RoleCoordinator) {
		t.Error("coordinators must not create tickets")
	}
}

func TestMutateTicket(t *testing.T) {
	if !CanMutateTicket(models.RoleCoordinator) {
		t.Error("coordinators must be able to mutate tickets")
	}
	if CanMutateTicket(models.RoleStudent) || CanMutateTicket(models.RoleTeacher) {
		t.Error("non-coordinators must not mutate tickets")
	}
}

func TestDeleteTicket(t *testing.T) {
	cases := []struct {
		name    string
		role    models.Role
		caller  int64
		creator int64
		want    bool
	}{
		{"student deletes own", models.RoleStudent, 1, 1, true},
		{"teacher deletes own", models.RoleTeacher, 2, 2, true},
		{"student deletes other's", models.RoleStudent, 1, 2, false},
		{"coordinator deletes own-created (cannot have any)", models.RoleCoordinator, 3, 3, false},
		{"coordinator deletes other's", models.RoleCoordinator, 3, 1, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CanDeleteTicket(tc.role, tc.caller, tc.creator); got != tc.want {
				t.Errorf("CanDeleteTicket(%v, %d, %d) = %v, want %v", tc.role, tc.caller, tc.creator, got, tc.want)
			}
		})
	}
}

func TestReadAndUpdateAccess(t *testing.T) {
	if !CanReadTicket(models.RoleCoordinator, 9, 1) {
		t.Error("coordinator must read any ticket")
	}
	if !CanReadTicket(models.RoleStudent, 1, 1) || CanReadTicket(models.RoleStudent, 1, 2) {
		t.Error("student must read exactly their own tickets")
	}
	if CanAddUpdate(models.RoleTeacher, 4, 5) {
		t.Error("no update access without read access")
	}
	if !CanAddUpdate(models.RoleCoordinator, 9, 5) {
		t.Error("coordinator must be able to append to any ticket")
	}
}

func TestAggregateAccess(t *testing.T) {
	for _, role := range []models.Role{models.RoleStudent, models.RoleTeacher} {
		if CanViewUsers(role) || CanViewStats(role) {
			t.Errorf("%v must not see user or stat aggregates", role)
		}
	}
	if !CanViewUsers(models.RoleCoordinator) || !CanViewStats(models.RoleCoordinator) {
		t.Error("coordinator must see user and stat aggregates")
	}
}
