package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sprint-team6/findex/internal/contracts"
	"github.com/sprint-team6/findex/pkg/decimals"
)

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}

// respondServiceError maps domain errors onto HTTP statuses
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, contracts.ErrIndexNotFound),
		errors.Is(err, contracts.ErrIndexValueNotFound):
		respondError(w, http.StatusNotFound, err.Error())

	case errors.Is(err, contracts.ErrInvalidCursor),
		errors.Is(err, contracts.ErrInvalidSortField),
		errors.Is(err, contracts.ErrInvalidPeriodType),
		errors.Is(err, contracts.ErrInvalidIndexInput),
		errors.Is(err, decimals.ErrZeroStartPrice):
		respondError(w, http.StatusBadRequest, err.Error())

	case errors.Is(err, contracts.ErrDuplicateIndex),
		errors.Is(err, contracts.ErrDuplicateIndexValue):
		respondError(w, http.StatusConflict, err.Error())

	default:
		respondError(w, http.StatusInternalServerError, "Internal server error")
	}
}
