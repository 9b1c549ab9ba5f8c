package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/CTAG07/Vellum/pkg/settings"
)

// maxResourceBytes caps a single uploaded resource.
const maxResourceBytes = 4 << 20

// SettingsAPI serves the persisted resources and view settings.
type SettingsAPI struct {
	store  *settings.FileStore
	logger *slog.Logger
}

// ResourceInfo describes a resource without its payload.
type ResourceInfo struct {
	Name string `json:"name"`
	Size string `json:"size"`
}

func NewSettingsAPI(store *settings.FileStore, logger *slog.Logger) *SettingsAPI {
	return &SettingsAPI{
		store:  store,
		logger: logger,
	}
}

func (a *SettingsAPI) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/resources", a.handleResources)
	mux.HandleFunc("/api/resources/", a.handleResourceByName)
	mux.HandleFunc("/api/view", a.handleView)
}

// handleResources lists resources or uploads a new one. Uploads are
// multipart forms with a "file" part and an optional "name" field that
// defaults to the file name.
func (a *SettingsAPI) handleResources(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		if !requireScope(w, r, scopeTemplateRead) {
			return
		}
		images := a.store.Get().Resources.Images
		infos := make([]ResourceInfo, len(images))
		for i, img := range images {
			infos[i] = ResourceInfo{Name: img.Name, Size: img.Size}
		}
		respondWithJSON(w, http.StatusOK, infos)

	case http.MethodPost:
		if !requireScope(w, r, scopeResourcesWrite) {
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, maxResourceBytes+1<<16)
		if err := r.ParseMultipartForm(maxResourceBytes); err != nil {
			respondWithError(w, http.StatusBadRequest, fmt.Sprintf("Invalid multipart form: %v", err))
			return
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Form part 'file' is required")
			return
		}
		defer file.Close()
		data, err := io.ReadAll(io.LimitReader(file, maxResourceBytes+1))
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to read upload: %v", err))
			return
		}
		if len(data) > maxResourceBytes {
			respondWithError(w, http.StatusRequestEntityTooLarge, "Resource too large")
			return
		}
		name := r.FormValue("name")
		if name == "" {
			name = header.Filename
		}

		res := settings.NewResource(name, data)
		if err = a.store.Update(func(s *settings.Settings) error {
			s.PutResource(res)
			return nil
		}); err != nil {
			a.logger.Error("Failed to save resource", "name", res.Name, "error", err)
			respondWithError(w, http.StatusInternalServerError, "Failed to save resource")
			return
		}
		a.logger.Info("Resource uploaded", "name", res.Name, "size", res.Size)
		respondWithJSON(w, http.StatusCreated, res)

	default:
		methodNotAllowed(w, http.MethodGet, http.MethodPost)
	}
}

func (a *SettingsAPI) handleResourceByName(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/api/resources/"), "/")
	if name == "" {
		respondWithError(w, http.StatusNotFound, "Not Found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		if !requireScope(w, r, scopeTemplateRead) {
			return
		}
		s := a.store.Get()
		res, ok := s.Resource(name)
		if !ok {
			respondWithError(w, http.StatusNotFound, "Resource not found")
			return
		}
		respondWithJSON(w, http.StatusOK, res)

	case http.MethodDelete:
		if !requireScope(w, r, scopeResourcesWrite) {
			return
		}
		err := a.store.Update(func(s *settings.Settings) error {
			return s.RemoveResource(name)
		})
		if errors.Is(err, settings.ErrResourceNotFound) {
			respondWithError(w, http.StatusNotFound, "Resource not found")
			return
		}
		if err != nil {
			a.logger.Error("Failed to delete resource", "name", name, "error", err)
			respondWithError(w, http.StatusInternalServerError, "Failed to delete resource")
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		methodNotAllowed(w, http.MethodGet, http.MethodDelete)
	}
}

// handleView reads or replaces the view settings.
func (a *SettingsAPI) handleView(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		if !requireScope(w, r, scopeTemplateRead) {
			return
		}
		respondWithJSON(w, http.StatusOK, a.store.Get().View)

	case http.MethodPut:
		if !requireScope(w, r, scopeTemplateWrite) {
			return
		}
		var view settings.View
		if err := json.NewDecoder(r.Body).Decode(&view); err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid JSON request body")
			return
		}
		if err := a.store.Update(func(s *settings.Settings) error {
			s.View = view
			return nil
		}); err != nil {
			a.logger.Error("Failed to save view settings", "error", err)
			respondWithError(w, http.StatusInternalServerError, "Failed to save view settings")
			return
		}
		respondWithJSON(w, http.StatusOK, view)

	default:
		methodNotAllowed(w, http.MethodGet, http.MethodPut)
	}
}
