package main

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/CTAG07/Vellum/pkg/dataset"
	"github.com/CTAG07/Vellum/pkg/templating"
)

// RenderAPI renders templates that are not stored.
type RenderAPI struct {
	server *Server
	engine *templating.Engine
	logger *slog.Logger
}

// RenderRequest is the body of POST /api/render. A missing dataset falls
// back to the configured one, a zero viewport to the configured size.
type RenderRequest struct {
	Template string               `json:"template"`
	Dataset  *dataset.Dataset     `json:"dataset"`
	Viewport *templating.Viewport `json:"viewport"`
}

// RenderResponse carries the rendered markup. Error is set when Output is
// an error block.
type RenderResponse struct {
	Output string `json:"output"`
	Error  string `json:"error,omitempty"`
}

func NewRenderAPI(server *Server, engine *templating.Engine, logger *slog.Logger) *RenderAPI {
	return &RenderAPI{
		server: server,
		engine: engine,
		logger: logger,
	}
}

func (a *RenderAPI) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/render", a.handleRender)
}

func (a *RenderAPI) handleRender(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	if !requireScope(w, r, scopeRender) {
		return
	}

	var req RenderRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 4*maxTemplateBytes))
	if err := dec.Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid JSON request body")
		return
	}
	if strings.TrimSpace(req.Template) == "" {
		respondWithError(w, http.StatusBadRequest, "Field 'template' is required")
		return
	}

	config := a.server.cm.Get()
	rc := templating.RenderContext{
		Viewport: config.Server.Viewport,
		Colors:   a.server.palette,
	}
	if req.Viewport != nil && req.Viewport.Width > 0 && req.Viewport.Height > 0 {
		rc.Viewport = *req.Viewport
	}
	if req.Dataset != nil {
		if err := req.Dataset.Validate(); err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		rc.Table = dataset.Project(req.Dataset, dataset.UUIDIdentities())
	} else {
		table, err := loadTable(r.Context(), a.server.db, config.Server)
		if err != nil {
			a.logger.Error("Failed to load dataset", "error", err)
			respondWithError(w, http.StatusInternalServerError, "Failed to load dataset")
			return
		}
		rc.Table = table
	}

	tpl := a.engine.Compile(req.Template)
	// Ad hoc sources are rarely rendered twice; keep the memo empty.
	a.engine.Forget()

	out, err := a.server.record(r.Context(), "api", tpl, rc)
	resp := RenderResponse{Output: out}
	if err != nil {
		resp.Error = err.Error()
	}
	respondWithJSON(w, http.StatusOK, resp)
}
