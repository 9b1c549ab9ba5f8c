package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/CTAG07/Vellum/pkg/settings"
	"github.com/CTAG07/Vellum/pkg/templating"
)

// maxTemplateBytes is the largest template the chunked settings can hold.
const maxTemplateBytes = settings.NumChunks * settings.ChunkSize

// TemplateAPI holds the dependencies for the template API handlers.
type TemplateAPI struct {
	store  *settings.FileStore
	engine *templating.Engine
	logger *slog.Logger
}

// NewTemplateAPI creates a new instance of the TemplateAPI.
func NewTemplateAPI(store *settings.FileStore, engine *templating.Engine, logger *slog.Logger) *TemplateAPI {
	return &TemplateAPI{
		store:  store,
		engine: engine,
		logger: logger,
	}
}

// RegisterRoutes sets up the routing for all /api/template endpoints.
func (t *TemplateAPI) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/template", t.handleTemplate)
	mux.HandleFunc("/api/template/chunks", t.handleChunks)
	mux.HandleFunc("/api/template/check", t.handleCheck)
}

// handleTemplate reads, replaces or clears the stored template text.
func (t *TemplateAPI) handleTemplate(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		if !requireScope(w, r, scopeTemplateRead) {
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = io.WriteString(w, t.store.Template())

	case http.MethodPut:
		if !requireScope(w, r, scopeTemplateWrite) {
			return
		}
		body, err := readTemplateBody(r)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to read request body: %v", err))
			return
		}
		t.save(w, body)

	case http.MethodDelete:
		if !requireScope(w, r, scopeTemplateWrite) {
			return
		}
		t.save(w, "")

	default:
		methodNotAllowed(w, http.MethodGet, http.MethodPut, http.MethodDelete)
	}
}

func (t *TemplateAPI) save(w http.ResponseWriter, text string) {
	if err := t.store.SetTemplate(text); err != nil {
		if errors.Is(err, settings.ErrTemplateTooLarge) {
			respondWithError(w, http.StatusRequestEntityTooLarge, err.Error())
			return
		}
		t.logger.Error("Failed to save template", "error", err)
		respondWithError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to save template: %v", err))
		return
	}
	// Only the stored template lives in this engine's memo.
	t.engine.Forget()
	t.logger.Info("Template saved via API", "bytes", len(text))
	w.WriteHeader(http.StatusNoContent)
}

// handleChunks returns the template in its persisted chunk0..chunk10 form.
func (t *TemplateAPI) handleChunks(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	if !requireScope(w, r, scopeTemplateRead) {
		return
	}
	respondWithJSON(w, http.StatusOK, t.store.Get().Template)
}

// CheckResponse reports whether a template compiles.
type CheckResponse struct {
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

// handleCheck compiles the request body without saving or rendering it.
func (t *TemplateAPI) handleCheck(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	if !requireScope(w, r, scopeTemplateRead) {
		return
	}
	body, err := readTemplateBody(r)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to read request body: %v", err))
		return
	}
	if err = templating.Check(body); err != nil {
		respondWithJSON(w, http.StatusOK, CheckResponse{Error: err.Error()})
		return
	}
	respondWithJSON(w, http.StatusOK, CheckResponse{Valid: true})
}

// readTemplateBody reads at most one byte more than a template may hold so
// oversized input is still rejected by the chunk splitter.
func readTemplateBody(r *http.Request) (string, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxTemplateBytes+1))
	if err != nil {
		return "", err
	}
	return string(body), nil
}
