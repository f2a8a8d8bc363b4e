package models

import "testing"

func TestCanTransition(t *testing.T) {
	cases := []struct {
		name string
		cur  Status
		next Status
		want bool
	}{
		{"open to in_progress", StatusOpen, StatusInProgress, true},
		{"in_progress to resolved", StatusInProgress, StatusResolved, true},
		{"resolved to closed", StatusResolved, StatusClosed, true},
		{"open straight to closed", StatusOpen, StatusClosed, true},
		{"in_progress straight to closed", StatusInProgress, StatusClosed, true},
		{"open skips to resolved", StatusOpen, StatusResolved, false},
		{"in_progress back to open", StatusInProgress, StatusOpen, false},
		{"resolved back to in_progress", StatusResolved, StatusInProgress, false},
		{"closed back to open", StatusClosed, StatusOpen, false},
		{"closed back to resolved", StatusClosed, StatusResolved, false},
		{"same status is a no-op", StatusInProgress, StatusInProgress, true},
		{"closed to closed is a no-op", StatusClosed, StatusClosed, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CanTransition(tc.cur, tc.next); got != tc.want {
				t.Errorf("CanTransition(%v, %v) = %v, want %v", tc.cur, tc.next, got, tc.want)
			}
		})
	}
}

func TestEnumValidity(t *testing.T) {
	if Role(0).Valid() || Role(4).Valid() {
		t.Error("out-of-range roles must be invalid")
	}
	if Status(0).Valid() || Status(5).Valid() {
		t.Error("out-of-range statuses must be invalid")
	}
	if Priority(0).Valid() || Priority(5).Valid() {
		t.Error("out-of-range priorities must be invalid")
	}
	if Category(0).Valid() || Category(5).Valid() {
		t.Error("out-of-range categories must be invalid")
	}
}
