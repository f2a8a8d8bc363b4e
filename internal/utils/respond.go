package utils

import (
	"encoding/json"
	"net/http"

	"github.com/SyntaxSorcerers2025/ticketly/internal/apperr"
)

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func Error(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, map[string]string{"message": msg})
}

// AppError writes a taxonomy error: message plus field descriptors for
// validation failures. Unknown errors become an opaque 500.
func AppError(w http.ResponseWriter, err error) {
	status := apperr.Status(err)
	if status == http.StatusInternalServerError {
		Error(w, status, "internal server error")
		return
	}
	body := map[string]any{"message": err.Error()}
	if fields := apperr.FieldErrors(err); len(fields) > 0 {
		body["errors"] = fields
	}
	JSON(w, status, body)
}
