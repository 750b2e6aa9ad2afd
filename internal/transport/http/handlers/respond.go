package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/dankop/agora/internal/domain"
)

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}

// writeDomainError maps the closed error taxonomy onto HTTP statuses.
// Internal failures are logged with their cause but reported opaquely.
func writeDomainError(w http.ResponseWriter, err error) {
	kind := domain.KindOf(err)

	message := "Something went wrong"
	var de *domain.Error
	if kind != domain.KindInternal && errors.As(err, &de) {
		message = de.Message
	}

	switch kind {
	case domain.KindInvalidRequest:
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", message)
	case domain.KindUnauthorized:
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", message)
	case domain.KindForbidden:
		writeError(w, http.StatusForbidden, "FORBIDDEN", message)
	case domain.KindNotFound:
		writeError(w, http.StatusNotFound, "NOT_FOUND", message)
	case domain.KindDuplicate:
		writeError(w, http.StatusConflict, "DUPLICATE", message)
	default:
		slog.Error("internal error", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL", message)
	}
}
