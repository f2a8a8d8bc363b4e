package models

import "time"

// Role is the sole authorization axiom. Values mirror the Users.role column.
type Role int

const (
	RoleStudent     Role = 1
	RoleTeacher     Role = 2
	RoleCoordinator Role = 3
)

func (r Role) Valid() bool {
	return r >= RoleStudent && r <= RoleCoordinator
}

func (r Role) String() string {
	switch r {
	case RoleStudent:
		return "student"
	case RoleTeacher:
		return "teacher"
	case RoleCoordinator:
		return "it_coordinator"
	default:
		return "unknown"
	}
}

type User struct {
	ID        int64     `json:"userId"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

type UserStats struct {
	Total          int `json:"total_users"`
	Students       int `json:"students"`
	Teachers       int `json:"teachers"`
	ITCoordinators int `json:"it_coordinators"`
}
