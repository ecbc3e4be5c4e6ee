package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/gardar/agendapdf/internal/importer"
	"github.com/gardar/agendapdf/pkg/agenda"
	"github.com/gardar/agendapdf/pkg/report"
)

// errEmptyDocument is returned for an upload without content
var errEmptyDocument = errors.New("empty document")

type errorResponse struct {
	Error string `json:"error"`
}

type linesResponse struct {
	Lines []agenda.Line `json:"lines"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// importAgenda handles POST /v1/agendas
func (s *Server) importAgenda(w http.ResponseWriter, r *http.Request) {
	source, err := importer.ParseSource(r.URL.Query().Get("source"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	format := strings.ToLower(r.URL.Query().Get("format"))
	if format != "" && format != "json" && format != "pdf" {
		writeError(w, http.StatusBadRequest, fmt.Errorf("unknown format %q (want json or pdf)", format))
		return
	}

	name, data, err := s.readDocument(w, r)
	if err != nil {
		writeError(w, statusOf(err), err)
		return
	}

	out, err := s.importer.Import(r.Context(), name, data, source)
	if err != nil {
		writeError(w, statusOf(err), err)
		return
	}

	if format == "pdf" {
		pdf, err := report.Bytes(out.Result, out.Summary, s.report)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(pdf)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// agendaLines handles POST /v1/agendas/lines
func (s *Server) agendaLines(w http.ResponseWriter, r *http.Request) {
	source, err := importer.ParseSource(r.URL.Query().Get("source"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	_, data, err := s.readDocument(w, r)
	if err != nil {
		writeError(w, statusOf(err), err)
		return
	}
	lines, err := s.importer.Lines(r.Context(), data, source)
	if err != nil {
		writeError(w, statusOf(err), err)
		return
	}
	if lines == nil {
		lines = []agenda.Line{}
	}
	writeJSON(w, http.StatusOK, linesResponse{Lines: lines})
}

// readDocument reads the upload from a multipart "file" field or from the raw body
func (s *Server) readDocument(w http.ResponseWriter, r *http.Request) (string, []byte, error) {
	if s.cfg.MaxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	}

	name := "upload"
	var body io.Reader = r.Body
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		file, header, err := r.FormFile("file")
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				return "", nil, err
			}
			return "", nil, fmt.Errorf("%w: missing multipart field \"file\"", errEmptyDocument)
		}
		defer func() { _ = file.Close() }()
		name = header.Filename
		body = file
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return "", nil, err
	}
	if len(data) == 0 {
		return "", nil, errEmptyDocument
	}
	return name, data, nil
}

func statusOf(err error) int {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, errEmptyDocument):
		return http.StatusBadRequest
	case errors.Is(err, agenda.ErrUnreadable):
		return http.StatusUnprocessableEntity
	case errors.Is(err, importer.ErrDocumentAIDisabled):
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}
