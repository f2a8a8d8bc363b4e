package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestStatusMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{New(Unauthenticated, "no token"), http.StatusUnauthorized},
		{New(Forbidden, "nope"), http.StatusForbidden},
		{New(NotFound, "gone"), http.StatusNotFound},
		{NewValidation(FieldError{Field: "title", Reason: "required"}), http.StatusBadRequest},
		{New(InvalidTransition, "closed is terminal"), http.StatusConflict},
		{New(Conflict, "lost the race"), http.StatusConflict},
		{New(DependencyUnavailable, "gateway down"), http.StatusBadGateway},
		{errors.New("plain"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := Status(tc.err); got != tc.want {
			t.Errorf("Status(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}

func TestKindMatching(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", New(Forbidden, "denied"))
	if !errors.Is(err, ErrForbidden) {
		t.Error("wrapped Forbidden must match ErrForbidden")
	}
	if errors.Is(err, ErrNotFound) {
		t.Error("Forbidden must not match ErrNotFound")
	}
}

func TestFieldErrors(t *testing.T) {
	err := NewValidation(
		FieldError{Field: "title", Reason: "required"},
		FieldError{Field: "priority", Reason: "out of range"},
	)
	fields := FieldErrors(fmt.Errorf("create: %w", err))
	if len(fields) != 2 {
		t.Fatalf("got %d field errors, want 2", len(fields))
	}
	if fields[0].Field != "title" || fields[1].Field != "priority" {
		t.Errorf("unexpected fields: %+v", fields)
	}
	if FieldErrors(errors.New("plain")) != nil {
		t.Error("plain errors carry no field descriptors")
	}
}
