package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/hyperjump/bunrui/internal/classify"
	"github.com/hyperjump/bunrui/internal/config"
	"github.com/hyperjump/bunrui/internal/models"
	"github.com/hyperjump/bunrui/internal/processor"
	"github.com/hyperjump/bunrui/internal/report"
	"github.com/hyperjump/bunrui/internal/storage"
)

const (
	// maxUploadBytes bounds a single uploaded document.
	maxUploadBytes = 50 << 20
	// multipartMemoryBytes is the in-memory threshold before multipart
	// parts spill to temp files.
	multipartMemoryBytes = 32 << 20
)

type processRequest struct {
	Path string `json:"path"`
}

// handleProcess runs the pipeline for one file, given either a server-side
// path as JSON or the document itself as a multipart upload. The outcome is
// the response whatever its status; HTTP errors are reserved for bad
// requests.
func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		s.handleProcessUpload(w, r)
		return
	}

	var req processRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Path == "" {
		s.respondError(w, http.StatusBadRequest, "path is required")
		return
	}
	s.logger.Debug("process request", zap.String("path", req.Path))

	outcome := s.processor.ProcessFile(r.Context(), req.Path)
	if s.storage != nil {
		if err := s.storage.SaveOutcome(r.Context(), "", outcome); err != nil {
			s.logger.Warn("failed to persist outcome", zap.Error(err))
		}
	}
	s.respondJSON(w, http.StatusOK, outcome)
}

// handleProcessUpload reads the document from the "file" form field and
// runs the pipeline on the uploaded bytes without writing them to disk.
func (s *Server) handleProcessUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(multipartMemoryBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.respondError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("upload exceeds %d bytes", tooLarge.Limit))
			return
		}
		s.respondError(w, http.StatusBadRequest, "invalid multipart body")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "failed to read upload")
		return
	}
	s.logger.Debug("upload request",
		zap.String("name", header.Filename), zap.Int("bytes", len(content)))

	outcome := s.processor.ProcessUpload(r.Context(), header.Filename, content)
	if s.storage != nil {
		if err := s.storage.SaveOutcome(r.Context(), "", outcome); err != nil {
			s.logger.Warn("failed to persist outcome", zap.Error(err))
		}
	}
	s.respondJSON(w, http.StatusOK, outcome)
}

type batchRequest struct {
	Paths     []string `json:"paths,omitempty"`
	Directory string   `json:"directory,omitempty"`
	Recursive bool     `json:"recursive,omitempty"`
}

func (s *Server) handleBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Paths) == 0 && req.Directory == "" {
		s.respondError(w, http.StatusBadRequest, "paths or directory is required")
		return
	}
	paths := req.Paths
	if req.Directory != "" {
		scanned, err := processor.ScanDirectory(req.Directory, req.Recursive)
		if err != nil {
			s.respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		paths = append(paths, scanned...)
	}
	s.logger.Debug("batch request", zap.Int("paths", len(paths)), zap.String("directory", req.Directory))

	summary := s.processor.ProcessBatch(r.Context(), paths)
	if s.storage != nil {
		if err := s.storage.SaveBatch(r.Context(), summary); err != nil {
			s.logger.Warn("failed to persist batch", zap.Error(err))
		}
	}
	s.respondJSON(w, http.StatusOK, summary)
}

func (s *Server) handleListOutcomes(w http.ResponseWriter, r *http.Request) {
	if s.storage == nil {
		s.respondError(w, http.StatusNotImplemented, "history not enabled")
		return
	}
	limit, err := queryInt(r, "limit", 50)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid limit")
		return
	}
	offset, err := queryInt(r, "offset", 0)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid offset")
		return
	}

	outcomes, err := s.storage.ListOutcomes(r.Context(), offset, limit)
	if err != nil {
		s.logger.Error("list outcomes failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if outcomes == nil {
		outcomes = []*models.Outcome{}
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"outcomes": outcomes,
		"limit":    limit,
		"offset":   offset,
	})
}

func (s *Server) handleGetOutcome(w http.ResponseWriter, r *http.Request) {
	if s.storage == nil {
		s.respondError(w, http.StatusNotImplemented, "history not enabled")
		return
	}
	id := chi.URLParam(r, "id")
	outcome, err := s.storage.GetOutcome(r.Context(), id)
	if err != nil {
		s.respondError(w, http.StatusNotFound, "outcome not found")
		return
	}
	s.respondJSON(w, http.StatusOK, outcome)
}

func (s *Server) handleListBatches(w http.ResponseWriter, r *http.Request) {
	if s.storage == nil {
		s.respondError(w, http.StatusNotImplemented, "history not enabled")
		return
	}
	limit, err := queryInt(r, "limit", 50)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid limit")
		return
	}
	offset, err := queryInt(r, "offset", 0)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid offset")
		return
	}

	batches, err := s.storage.ListBatches(r.Context(), offset, limit)
	if err != nil {
		s.logger.Error("list batches failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if batches == nil {
		batches = []*models.BatchSummary{}
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"batches": batches,
		"limit":   limit,
		"offset":  offset,
	})
}

func (s *Server) handleGetBatch(w http.ResponseWriter, r *http.Request) {
	if s.storage == nil {
		s.respondError(w, http.StatusNotImplemented, "history not enabled")
		return
	}
	id := chi.URLParam(r, "id")
	batch, err := s.storage.GetBatch(r.Context(), id)
	if err != nil {
		s.respondError(w, http.StatusNotFound, "batch not found")
		return
	}
	s.respondJSON(w, http.StatusOK, batch)
}

// handleExportBatch streams the batch as an Excel workbook.
func (s *Server) handleExportBatch(w http.ResponseWriter, r *http.Request) {
	if s.storage == nil {
		s.respondError(w, http.StatusNotImplemented, "history not enabled")
		return
	}
	id := chi.URLParam(r, "id")
	batch, err := s.storage.GetBatch(r.Context(), id)
	if err != nil {
		s.respondError(w, http.StatusNotFound, "batch not found")
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "batch-"+id+".xlsx"))
	if err := report.NewExcelWriter(s.logger).WriteTo(batch, w); err != nil {
		// Headers are already out; all we can do is log.
		s.logger.Error("batch export failed", zap.String("id", id), zap.Error(err))
	}
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"categories": models.CategoryStrings(),
		"keywords":   classify.DefaultKeywords(),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	resp := map[string]interface{}{
		"status":               "ok",
		"classifier":           s.processor.ClassifierName(),
		"supported_extensions": s.processor.SupportedExtensions(),
		"history_enabled":      s.storage != nil,
		"watch_enabled":        s.watch != nil,
	}

	if s.storage != nil {
		total, err := s.storage.CountOutcomes(ctx)
		if err != nil {
			s.logger.Error("status: count outcomes failed", zap.Error(err))
			s.respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		byStatus, err := s.storage.CountByStatus(ctx)
		if err != nil {
			s.logger.Error("status: count by status failed", zap.Error(err))
			s.respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		byCategory, err := s.storage.CountByCategory(ctx)
		if err != nil {
			s.logger.Error("status: count by category failed", zap.Error(err))
			s.respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		resp["outcomes"] = total
		resp["by_status"] = byStatus
		resp["by_category"] = byCategory
	}

	if s.fullConfig != nil {
		configInfo := map[string]interface{}{
			"batch_size":           s.fullConfig.Processing.BatchSize,
			"max_workers":          s.fullConfig.Processing.MaxWorkers,
			"confidence_threshold": s.fullConfig.Processing.ConfidenceThreshold,
			"database_path":        s.fullConfig.Storage.DatabasePath,
		}
		resp["config"] = configInfo

		diskBytes, err := storage.DatabaseDiskUsage(s.fullConfig.Storage.DatabasePath)
		if err == nil {
			resp["disk_usage_bytes"] = diskBytes
		}
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleWatchDirectoriesList(w http.ResponseWriter, r *http.Request) {
	if s.watch == nil {
		s.respondError(w, http.StatusNotImplemented, "watch not enabled")
		return
	}
	dirs := s.watch.Directories()
	s.respondJSON(w, http.StatusOK, map[string]interface{}{"directories": dirs})
}

type watchAddRequest struct {
	Path string `json:"path"`
	Sync *bool  `json:"sync,omitempty"`
}

func (s *Server) handleWatchDirectoriesAdd(w http.ResponseWriter, r *http.Request) {
	if s.watch == nil {
		s.respondError(w, http.StatusNotImplemented, "watch not enabled")
		return
	}
	var req watchAddRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Path == "" {
		s.respondError(w, http.StatusBadRequest, "path is required")
		return
	}
	abs, err := filepath.Abs(req.Path)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid path")
		return
	}
	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			s.respondError(w, http.StatusNotFound, "directory not found")
			return
		}
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !info.IsDir() {
		s.respondError(w, http.StatusBadRequest, "path is not a directory")
		return
	}
	syncExisting := true
	if req.Sync != nil {
		syncExisting = *req.Sync
	}
	s.logger.Debug("watch add directory request", zap.String("path", abs), zap.Bool("sync_existing", syncExisting))
	if err := s.watch.AddDirectory(abs, syncExisting); err != nil {
		s.logger.Error("watch add directory failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.persistWatchDirectories()
	s.respondJSON(w, http.StatusCreated, map[string]string{"path": abs, "status": "added"})
}

func (s *Server) handleWatchDirectoriesRemove(w http.ResponseWriter, r *http.Request) {
	if s.watch == nil {
		s.respondError(w, http.StatusNotImplemented, "watch not enabled")
		return
	}
	path := r.URL.Query().Get("path")
	if path == "" {
		var body struct {
			Path string `json:"path"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err == nil && body.Path != "" {
			path = body.Path
		}
	}
	if path == "" {
		s.respondError(w, http.StatusBadRequest, "path is required (query or body)")
		return
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid path")
		return
	}
	s.logger.Debug("watch remove directory request", zap.String("path", abs))
	if err := s.watch.RemoveDirectory(abs); err != nil {
		s.logger.Error("watch remove directory failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.persistWatchDirectories()
	s.respondJSON(w, http.StatusOK, map[string]string{"path": abs, "status": "removed"})
}

// persistWatchDirectories writes the current watch list back to the config
// file so add/remove survives a restart. Best effort.
func (s *Server) persistWatchDirectories() {
	if s.configPath == "" || s.fullConfig == nil {
		return
	}
	s.configMu.Lock()
	s.fullConfig.Watch.Directories = s.watch.Directories()
	err := config.Save(s.configPath, s.fullConfig)
	s.configMu.Unlock()
	if err != nil {
		s.logger.Warn("failed to persist watch config", zap.Error(err))
	}
}

func queryInt(r *http.Request, key string, def int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("negative value %d", n)
	}
	return n, nil
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
