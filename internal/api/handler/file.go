package handler

import (
	"context"
	"net/http"
	"os"

	"github.com/edvin/hrbank/internal/api/request"
	"github.com/edvin/hrbank/internal/api/response"
	"github.com/edvin/hrbank/internal/model"
	"github.com/go-chi/chi/v5"
)

// ArtifactService is the part of core.ArtifactStore the handlers use.
type ArtifactService interface {
	GetByID(ctx context.Context, id int64) (*model.Artifact, error)
	Open(ctx context.Context, id int64) (*model.Artifact, *os.File, error)
}

type File struct {
	svc ArtifactService
}

func NewFile(svc ArtifactService) *File {
	return &File{svc: svc}
}

// Get godoc
//
//	@Summary	Get artifact metadata
//	@Tags		Files
//	@Param		id	path		int	true	"Artifact ID"
//	@Success	200	{object}	model.Artifact
//	@Failure	400	{object}	response.ErrorResponse
//	@Failure	404	{object}	response.ErrorResponse
//	@Router		/files/{id} [get]
func (h *File) Get(w http.ResponseWriter, r *http.Request) {
	id, err := request.RequireID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	a, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, a)
}

// Download godoc
//
//	@Summary		Download an artifact
//	@Description	Streams a snapshot CSV or error log. Supports Range requests.
//	@Tags			Files
//	@Produce		octet-stream
//	@Param			id	path		int		true	"Artifact ID"
//	@Success		200	{file}		file
//	@Failure		404	{object}	response.ErrorResponse	"unknown artifact or file missing on disk"
//	@Router			/files/{id}/download [get]
func (h *File) Download(w http.ResponseWriter, r *http.Request) {
	id, err := request.RequireID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	a, f, err := h.svc.Open(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	defer f.Close()

	modTime := a.CreatedAt
	if info, err := f.Stat(); err == nil {
		modTime = info.ModTime()
	}
	response.WriteAttachment(w, r, a.Name, contentType(a.Format), modTime, f)
}

func contentType(format string) string {
	switch format {
	case model.ArtifactFormatCSV:
		return "text/csv; charset=utf-8"
	case model.ArtifactFormatLog:
		return "text/plain; charset=utf-8"
	}
	return ""
}
