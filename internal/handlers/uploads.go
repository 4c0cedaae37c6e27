package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/ozerpan/ercom-sync/internal/httpx"
	"github.com/ozerpan/ercom-sync/internal/reconcile"
	"github.com/ozerpan/ercom-sync/internal/runlog"
	"github.com/ozerpan/ercom-sync/internal/store"
)

var supportedUploadExts = map[string]struct{}{
	".xls":  {},
	".xlsx": {},
}

const (
	categoryMLY = "mly"
	categoryOPT = "opt"
)

// runResult is the payload returned for every upload or sync pass. The
// log file path points at the per-run trace written by runlog.
type runResult struct {
	RunID   uuid.UUID `json:"run_id"`
	Status  string    `json:"status"`
	Message string    `json:"message"`
	LogFile string    `json:"log_file"`
}

func (s *Server) PostUploads(w http.ResponseWriter, r *http.Request) {
	fileName, path, cleanup, appErr := s.receiveUpload(r)
	if appErr != nil {
		httpx.WriteError(w, r, appErr.Status, appErr.Code, appErr.Message, nil)
		return
	}
	defer cleanup()

	code, category, err := parseUploadName(fileName)
	if err != nil {
		httpx.WriteError(w, r, http.StatusBadRequest, "invalid_filename", err.Error(), nil)
		return
	}

	switch {
	case strings.HasPrefix(category, categoryMLY):
		s.runPass(w, r, categoryMLY, fileName, func(ctx context.Context, log *slog.Logger) (string, error) {
			if err := s.Engine.ProcessMLY(ctx, path, log); err != nil {
				return "", err
			}
			return fmt.Sprintf("order file %s processed", fileName), nil
		})
	case strings.HasPrefix(category, categoryOPT):
		s.runPass(w, r, categoryOPT, fileName, func(ctx context.Context, log *slog.Logger) (string, error) {
			if err := s.Engine.ProcessOPT(ctx, path, code, log); err != nil {
				return "", err
			}
			return fmt.Sprintf("optimization file %s processed", fileName), nil
		})
	default:
		httpx.WriteError(w, r, http.StatusBadRequest, "unknown_category",
			fmt.Sprintf("no processor for file category %q", category), nil)
	}
}

func (s *Server) PostUploadsDST(w http.ResponseWriter, r *http.Request) {
	fileName, path, cleanup, appErr := s.receiveUpload(r)
	if appErr != nil {
		httpx.WriteError(w, r, appErr.Status, appErr.Code, appErr.Message, nil)
		return
	}
	defer cleanup()

	code, _, err := parseUploadName(fileName)
	if err != nil {
		httpx.WriteError(w, r, http.StatusBadRequest, "invalid_filename", err.Error(), nil)
		return
	}

	s.runPass(w, r, "dst", fileName, func(ctx context.Context, log *slog.Logger) (string, error) {
		if err := s.Engine.ProcessDST(ctx, path, code, log); err != nil {
			return "", err
		}
		return fmt.Sprintf("cutting list %s processed", fileName), nil
	})
}

// runPass wraps one pass with a sync_runs record and a per-run log file.
// Pass failures are still recorded and answered with the run envelope;
// only infrastructure failures fall back to the error envelope.
func (s *Server) runPass(w http.ResponseWriter, r *http.Request, kind, fileName string, pass func(context.Context, *slog.Logger) (string, error)) {
	run, err := runlog.New(filepath.Join(s.Config.LogDir, kind), kind)
	if err != nil {
		s.Logger.Error("open run log", "kind", kind, "error", err)
		httpx.WriteError(w, r, http.StatusInternalServerError, "internal_error", "Failed to open run log", nil)
		return
	}
	defer run.Close()

	runID, err := s.Store.CreateSyncRun(r.Context(), kind, fileName, run.Path)
	if err != nil {
		s.Logger.Error("create sync run", "kind", kind, "error", err)
		httpx.WriteError(w, r, http.StatusInternalServerError, "internal_error", "Failed to create run record", nil)
		return
	}

	run.Logger.Info("pass started", "file", fileName)
	message, passErr := pass(r.Context(), run.Logger)
	if passErr != nil {
		run.Logger.Error("pass failed", "error", passErr)
		if err := s.Store.CompleteSyncRun(r.Context(), runID, store.RunError, passErr.Error()); err != nil {
			s.Logger.Error("complete sync run", "run_id", runID, "error", err)
		}
		httpx.WriteJSON(w, passErrorStatus(passErr), runResult{
			RunID:   runID,
			Status:  store.RunError,
			Message: passErr.Error(),
			LogFile: run.Path,
		})
		return
	}

	run.Logger.Info("pass finished", "message", message)
	if err := s.Store.CompleteSyncRun(r.Context(), runID, store.RunSuccess, message); err != nil {
		s.Logger.Error("complete sync run", "run_id", runID, "error", err)
	}
	httpx.WriteJSON(w, http.StatusOK, runResult{
		RunID:   runID,
		Status:  store.RunSuccess,
		Message: message,
		LogFile: run.Path,
	})
}

// receiveUpload stores the multipart file part in a temp file so the
// pass can open it by path. The caller must invoke cleanup.
func (s *Server) receiveUpload(r *http.Request) (fileName, path string, cleanup func(), appErr *appError) {
	if !strings.HasPrefix(strings.ToLower(r.Header.Get("Content-Type")), "multipart/form-data") {
		return "", "", nil, &appError{
			Status:  http.StatusBadRequest,
			Code:    "invalid_content_type",
			Message: "Content-Type must be multipart/form-data",
		}
	}
	if err := r.ParseMultipartForm(s.Config.UploadMaxFileBytes); err != nil {
		return "", "", nil, &appError{
			Status:  http.StatusBadRequest,
			Code:    "invalid_multipart",
			Message: "Failed to parse multipart form",
		}
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return "", "", nil, &appError{
			Status:  http.StatusBadRequest,
			Code:    "missing_file",
			Message: "file is required",
		}
	}
	defer file.Close()

	tmp, err := os.CreateTemp("", "upload-*"+filepath.Ext(header.Filename))
	if err != nil {
		return "", "", nil, &appError{
			Status:  http.StatusInternalServerError,
			Code:    "internal_error",
			Message: "Failed to store uploaded file",
		}
	}
	if _, err := io.Copy(tmp, file); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", "", nil, &appError{
			Status:  http.StatusBadRequest,
			Code:    "invalid_file",
			Message: "Failed to read uploaded file",
		}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", "", nil, &appError{
			Status:  http.StatusInternalServerError,
			Code:    "internal_error",
			Message: "Failed to store uploaded file",
		}
	}

	return header.Filename, tmp.Name(), func() { os.Remove(tmp.Name()) }, nil
}

// parseUploadName splits an export file name of the form
// <code>_<category>.<ext> into its parts.
func parseUploadName(name string) (code, category string, err error) {
	ext := strings.ToLower(filepath.Ext(name))
	if _, ok := supportedUploadExts[ext]; !ok {
		return "", "", fmt.Errorf("unsupported file extension %q, expected .xls or .xlsx", ext)
	}
	base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	code, category, found := strings.Cut(base, "_")
	if !found || code == "" || category == "" {
		return "", "", fmt.Errorf("file name %q must follow <code>_<category>%s", name, ext)
	}
	return code, strings.ToLower(category), nil
}

// passErrorStatus maps the typed pass errors onto HTTP statuses:
// missing prerequisite documents are 404, malformed input is 400,
// anything else is an internal failure.
func passErrorStatus(err error) int {
	var (
		orderErr   *reconcile.OrderNotFoundError
		bomErr     *reconcile.BOMNotFoundError
		itemErr    *reconcile.ItemNotFoundError
		optErr     *reconcile.OptNotFoundError
		machineErr *reconcile.MachineNotFoundError
		fileErr    *reconcile.FileFormatError
		columnErr  *reconcile.MissingColumnError
		formatErr  *reconcile.FormatError
	)
	switch {
	case errors.As(err, &orderErr), errors.As(err, &bomErr), errors.As(err, &itemErr),
		errors.As(err, &optErr), errors.As(err, &machineErr):
		return http.StatusNotFound
	case errors.As(err, &fileErr), errors.As(err, &columnErr), errors.As(err, &formatErr):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

type appError struct {
	Status  int
	Code    string
	Message string
}
