package web

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// IngestRequest asks the server to ingest results files it can reach on
// its own filesystem.
type IngestRequest struct {
	Paths          []string `json:"paths"`
	RequiredFields []string `json:"required_fields,omitempty"`
}

// handleHealth reports liveness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleIngest ingests server-local results files.
func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	var req IngestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if len(req.Paths) == 0 {
		http.Error(w, "paths must not be empty", http.StatusBadRequest)
		return
	}

	result, err := s.service.Ingest(r.Context(), req.Paths, req.RequiredFields)
	if err != nil {
		s.respondError(w, r, err, statusForError(err))
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

// handleUpload ingests results files sent as a multipart upload. Files
// are spooled to a temp directory that is removed when the request ends.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	maxSize := s.cfg.Ingest.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		http.Error(w, "upload too large or invalid form", http.StatusBadRequest)
		return
	}

	uploads := r.MultipartForm.File["files"]
	if len(uploads) == 0 {
		http.Error(w, "no files provided", http.StatusBadRequest)
		return
	}

	tmpDir, err := os.MkdirTemp("", "turkread-upload-*")
	if err != nil {
		s.respondError(w, r, fmt.Errorf("create temp dir: %w", err), http.StatusInternalServerError)
		return
	}
	defer os.RemoveAll(tmpDir)

	paths := make([]string, 0, len(uploads))
	for i, fh := range uploads {
		// Base name only; uploaded names must not traverse paths.
		name := filepath.Base(fh.Filename)
		if name == "." || name == string(filepath.Separator) {
			name = fmt.Sprintf("upload-%d.results", i)
		}
		dst := filepath.Join(tmpDir, name)

		if err := spoolUpload(fh, dst); err != nil {
			s.respondError(w, r, fmt.Errorf("spool %s: %w", name, err), http.StatusInternalServerError)
			return
		}
		paths = append(paths, dst)
	}

	var required []string
	if raw := r.FormValue("required_fields"); raw != "" {
		for _, f := range strings.Split(raw, ",") {
			if f = strings.TrimSpace(f); f != "" {
				required = append(required, f)
			}
		}
	}

	result, err := s.service.Ingest(r.Context(), paths, required)
	if err != nil {
		s.respondError(w, r, err, statusForError(err))
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

// spoolUpload copies one uploaded file to dst.
func spoolUpload(fh *multipart.FileHeader, dst string) error {
	src, err := fh.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, src); err != nil {
		return err
	}
	return out.Close()
}

// handleColumns lists every distinct column name across ingested files.
func (s *Server) handleColumns(w http.ResponseWriter, r *http.Request) {
	columns, err := s.service.Columns(r.Context())
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"columns": columns})
}

// handleFiles lists ingested files with their canonical hittypeid.
func (s *Server) handleFiles(w http.ResponseWriter, r *http.Request) {
	files, err := s.service.Files(r.Context())
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"files": files})
}

// handleRecords returns a page of records in file-then-line order.
func (s *Server) handleRecords(w http.ResponseWriter, r *http.Request) {
	limit := parseIntParam(r, "limit", 100)
	offset := parseIntParam(r, "offset", 0)

	page, err := s.service.Records(r.Context(), limit, offset)
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// parseIntParam parses an integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil || i < 0 {
		return defaultVal
	}
	return i
}

// writeJSON writes v as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
