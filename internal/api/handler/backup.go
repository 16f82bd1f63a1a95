package handler

import (
	"context"
	"net"
	"net/http"

	"github.com/edvin/hrbank/internal/api/request"
	"github.com/edvin/hrbank/internal/api/response"
	"github.com/edvin/hrbank/internal/core"
	"github.com/edvin/hrbank/internal/model"
	"github.com/go-chi/chi/v5"
)

// BackupService is the part of core.BackupService the handlers use.
type BackupService interface {
	PerformBackup(ctx context.Context, worker string) (*model.BackupRun, error)
	ListRuns(ctx context.Context, q core.RunQuery) (*core.RunPage, error)
	Latest(ctx context.Context, status model.BackupStatus) (*model.BackupRun, error)
	GetByID(ctx context.Context, id int64) (*model.BackupRun, error)
}

type Backup struct {
	svc BackupService
}

func NewBackup(svc BackupService) *Backup {
	return &Backup{svc: svc}
}

// Create godoc
//
//	@Summary		Run a backup
//	@Description	Runs the backup job synchronously on behalf of the caller's IP address. Returns the finished run: COMPLETED with a CSV artifact, or SKIPPED when nothing changed since the last completed backup. A failed run is recorded as FAILED with an error log artifact and reported as 500.
//	@Tags			Backups
//	@Success		200	{object}	model.BackupRun
//	@Failure		409	{object}	response.ErrorResponse	"another backup is in progress"
//	@Failure		500	{object}	response.ErrorResponse
//	@Router			/backups [post]
func (h *Backup) Create(w http.ResponseWriter, r *http.Request) {
	run, err := h.svc.PerformBackup(r.Context(), workerIdentity(r))
	if err != nil {
		writeBackupError(w, r, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, run)
}

// List godoc
//
//	@Summary		List backup runs
//	@Description	Returns one page of backup history. Pages are chained with next_cursor (or next_id_after); ties in the sort column are ordered by ascending id.
//	@Tags			Backups
//	@Param			worker			query		string	false	"Worker substring, case-insensitive"
//	@Param			status			query		string	false	"IN_PROGRESS, COMPLETED, FAILED or SKIPPED"
//	@Param			startedAtFrom	query		string	false	"Lower bound of start time (RFC 3339)"
//	@Param			startedAtTo		query		string	false	"Upper bound of start time (RFC 3339)"
//	@Param			idAfter			query		int		false	"Id of the last run of the previous page"
//	@Param			cursor			query		string	false	"Opaque cursor from the previous page"
//	@Param			size			query		int		false	"Page size (default 10, max 200)"
//	@Param			sortField		query		string	false	"startedAt (default) or status"
//	@Param			sortDirection	query		string	false	"ASC or DESC (default)"
//	@Success		200				{object}	core.RunPage
//	@Failure		400				{object}	response.ErrorResponse
//	@Failure		500				{object}	response.ErrorResponse
//	@Router			/backups [get]
func (h *Backup) List(w http.ResponseWriter, r *http.Request) {
	req, err := request.ParseListBackups(r)
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	page, err := h.svc.ListRuns(r.Context(), req.Query())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if page.Items == nil {
		page.Items = []model.BackupRun{}
	}
	response.WriteJSON(w, http.StatusOK, page)
}

// Latest godoc
//
//	@Summary	Get the latest backup run
//	@Tags		Backups
//	@Param		status	query		string	false	"Run status (default COMPLETED)"
//	@Success	200		{object}	model.BackupRun
//	@Failure	400		{object}	response.ErrorResponse
//	@Failure	404		{object}	response.ErrorResponse
//	@Router		/backups/latest [get]
func (h *Backup) Latest(w http.ResponseWriter, r *http.Request) {
	status, err := request.ParseLatestStatus(r)
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	run, err := h.svc.Latest(r.Context(), status)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, run)
}

// Get godoc
//
//	@Summary	Get a backup run
//	@Tags		Backups
//	@Param		id	path		int	true	"Run ID"
//	@Success	200	{object}	model.BackupRun
//	@Failure	400	{object}	response.ErrorResponse
//	@Failure	404	{object}	response.ErrorResponse
//	@Router		/backups/{id} [get]
func (h *Backup) Get(w http.ResponseWriter, r *http.Request) {
	id, err := request.RequireID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	run, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, run)
}

// workerIdentity is the caller's IP address. chi's RealIP middleware has
// already replaced RemoteAddr when a proxy header is present.
func workerIdentity(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
