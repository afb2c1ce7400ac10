package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"document-qa/internal/chunker"
	"document-qa/internal/extractor"
	"document-qa/internal/index"
	"document-qa/internal/llm"
	"document-qa/internal/session"
)

var supportedExtensions = []string{".pdf", ".txt", ".doc", ".docx"}

// Handler exposes the session manager over HTTP.
type Handler struct {
	sessions      *session.Manager
	maxUploadSize int64
}

type errorResponse struct {
	Error string `json:"error"`
}

// Upload accepts a multipart file, enforces the size cap and extension
// allow-list, and hands the bytes to the session manager.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize+4096)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("File size exceeds the maximum limit of %dMB", h.maxUploadSize>>20))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No file provided")
		return
	}
	defer file.Close()

	if header.Filename == "" {
		writeError(w, http.StatusBadRequest, "No filename provided")
		return
	}
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !isSupported(ext) {
		writeError(w, http.StatusBadRequest, "Unsupported file type. Supported types: "+strings.Join(supportedExtensions, ", "))
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read file")
		return
	}
	if int64(len(data)) > h.maxUploadSize {
		writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("File size exceeds the maximum limit of %dMB. Current size: %.2fMB", h.maxUploadSize>>20, float64(len(data))/(1024*1024)))
		return
	}

	log.Info().Str("filename", header.Filename).Int("size", len(data)).Msg("Processing uploaded file")

	doc, err := h.sessions.Upload(r.Context(), header.Filename, data)
	if err != nil {
		status, msg := statusForError(err)
		writeError(w, status, msg)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":   doc.FileType + " file processed and stored successfully",
		"filename":  doc.Filename,
		"file_type": doc.FileType,
		"size_kb":   float64(len(data)) / 1024,
		"summary":   doc.Summary,
	})
}

// Ask answers a question about the active document. The question arrives as
// a form field, matching the upload form encoding.
func (h *Handler) Ask(w http.ResponseWriter, r *http.Request) {
	question := r.FormValue("question")

	answer, err := h.sessions.Ask(r.Context(), question)
	if err != nil {
		status, msg := statusForError(err)
		writeError(w, status, msg)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"answer":   answer,
		"question": question,
	})
}

func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	doc := h.sessions.Document()
	if doc == nil {
		writeError(w, http.StatusNotFound, "No document loaded. Please upload a document first.")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"summary":   doc.Summary,
		"filename":  doc.Filename,
		"file_type": doc.FileType,
	})
}

func (h *Handler) ChatHistory(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"messages": h.sessions.History(),
	})
}

func (h *Handler) SuggestedQuestions(w http.ResponseWriter, r *http.Request) {
	questions, err := h.sessions.SuggestedQuestions(r.Context())
	if err != nil {
		status, msg := statusForError(err)
		writeError(w, status, msg)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"suggested_questions": questions,
	})
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":           "healthy",
		"documents_loaded": h.sessions.Document() != nil,
	})
}

func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":               "running",
		"documents_loaded":     h.sessions.Document() != nil,
		"session_state":        h.sessions.State(),
		"max_file_size_mb":     h.maxUploadSize >> 20,
		"supported_file_types": supportedExtensions,
		"features": map[string]bool{
			"conversation_memory":    true,
			"document_summarization": true,
			"suggested_questions":    true,
		},
	})
}

// statusForError maps the error taxonomy to transport status codes.
func statusForError(err error) (int, string) {
	switch {
	case errors.Is(err, session.ErrNoDocument):
		return http.StatusNotFound, "No document loaded. Please upload a document first."
	case errors.Is(err, session.ErrEmptyQuestion):
		return http.StatusBadRequest, "Question cannot be empty"
	case errors.Is(err, session.ErrStaleSession):
		return http.StatusConflict, "The document was replaced while answering. Please ask again."
	case errors.Is(err, extractor.ErrUnsupportedFormat):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, extractor.ErrEmptyContent), errors.Is(err, extractor.ErrDecodeFailure):
		return http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, chunker.ErrInvalidConfig):
		return http.StatusInternalServerError, err.Error()
	case errors.Is(err, index.ErrEmbedding), errors.Is(err, llm.ErrGeneration):
		return http.StatusBadGateway, err.Error()
	default:
		return http.StatusInternalServerError, err.Error()
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Error encoding response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func isSupported(ext string) bool {
	for _, s := range supportedExtensions {
		if ext == s {
			return true
		}
	}
	return false
}
