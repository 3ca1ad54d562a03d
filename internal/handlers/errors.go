package handlers

import (
	"errors"
	"net/http"

	"frenchdriver/internal/models"
)

// statusForError translates domain errors into HTTP status codes so the
// handlers stay uniform about it.
func statusForError(err error) int {
	switch {
	case errors.Is(err, models.ErrBookingNotFound),
		errors.Is(err, models.ErrDriverNotFound),
		errors.Is(err, models.ErrUserNotFound),
		errors.Is(err, models.ErrNoRecord):
		return http.StatusNotFound
	case errors.Is(err, models.ErrIllegalTransition),
		errors.Is(err, models.ErrDuplicateEmail),
		errors.Is(err, models.ErrDuplicatePhone):
		return http.StatusConflict
	case errors.Is(err, models.ErrInvalidCredentials):
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}

func writeDomainError(w http.ResponseWriter, err error) {
	http.Error(w, err.Error(), statusForError(err))
}
