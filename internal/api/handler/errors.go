package handler

import (
	"errors"
	"net/http"

	"github.com/edvin/hrbank/internal/api/response"
	"github.com/edvin/hrbank/internal/core"
	"github.com/rs/zerolog"
)

const internalErrorMessage = "internal server error"

// writeServiceError maps core errors of the read endpoints to HTTP statuses.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, core.ErrInvalidCursor):
		response.WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, core.ErrNotFound), errors.Is(err, core.ErrArtifactNotFound):
		response.WriteError(w, http.StatusNotFound, err.Error())
	default:
		writeInternalError(w, r, err)
	}
}

// writeBackupError maps a failed backup run. Only a concurrent run is a
// client-visible condition; lookups that fail inside the job are server faults.
func writeBackupError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, core.ErrConflict) {
		response.WriteError(w, http.StatusConflict, err.Error())
		return
	}
	writeInternalError(w, r, err)
}

// writeInternalError logs err and answers with a generic body so file paths
// and driver messages stay out of responses.
func writeInternalError(w http.ResponseWriter, r *http.Request, err error) {
	zerolog.Ctx(r.Context()).Error().Err(err).Msg("request failed")
	response.WriteError(w, http.StatusInternalServerError, internalErrorMessage)
}
