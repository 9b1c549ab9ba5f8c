package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/CTAG07/Vellum/pkg/numfmt"
	"github.com/CTAG07/Vellum/pkg/settings"
	"github.com/CTAG07/Vellum/pkg/templating"
)

const tutorialBlock = `<div class="tutorial"><h4>Template is empty</h4>` +
	`<p>Save a template with PUT /api/template to see it rendered here.</p></div>`

type Server struct {
	cm          *ConfigManager
	db          *sql.DB
	logger      *slog.Logger
	engine      *templating.Engine
	store       *settings.FileStore
	palette     *Palette
	authAPI     *AuthAPI
	templateAPI *TemplateAPI
	renderAPI   *RenderAPI
	settingsAPI *SettingsAPI
	datasetAPI  *DatasetAPI
	statsAPI    *StatsAPI
	serverAPI   *ServerAPI
	mux         *http.ServeMux
}

func NewServer(cm *ConfigManager, logger *slog.Logger, db *sql.DB, actionChan chan string) (*Server, error) {
	config := cm.Get()

	// Ad hoc renders get their own engine; engine only ever memoizes the
	// stored template.
	engine, err := newEngine(cm, logger)
	if err != nil {
		return nil, err
	}
	scratch, err := newEngine(cm, logger)
	if err != nil {
		return nil, err
	}

	store, err := settings.Open(config.Server.SettingsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open settings: %w", err)
	}

	server := &Server{
		cm:      cm,
		db:      db,
		logger:  logger,
		engine:  engine,
		store:   store,
		palette: NewPalette(config.Server.Palette),
		mux:     http.NewServeMux(),
	}

	server.authAPI = NewAuthAPI(db, logger)
	server.statsAPI = NewStatsAPI(db, logger)
	server.templateAPI = NewTemplateAPI(store, engine, logger)
	server.renderAPI = NewRenderAPI(server, scratch, logger)
	server.settingsAPI = NewSettingsAPI(store, logger)
	server.datasetAPI = NewDatasetAPI(cm, db, logger)
	server.serverAPI = NewServerAPI(cm, actionChan, logger)

	apiMux := http.NewServeMux()
	server.authAPI.RegisterRoutes(apiMux)
	server.templateAPI.RegisterRoutes(apiMux)
	server.renderAPI.RegisterRoutes(apiMux)
	server.settingsAPI.RegisterRoutes(apiMux)
	server.datasetAPI.RegisterRoutes(apiMux)
	server.statsAPI.RegisterRoutes(apiMux)
	server.serverAPI.RegisterRoutes(apiMux)

	// The health check stays unauthenticated so container probes can use it.
	server.mux.HandleFunc("/api/health", server.serverAPI.handleHealthCheck)
	server.mux.Handle("/api/", server.authAPI.Authenticate(apiMux))
	server.mux.HandleFunc("/favicon.ico", handleFavicon)
	server.mux.HandleFunc("/", server.handlePreview)

	return server, nil
}

// ServeHTTP makes the Server usable as the http.Server handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handlePreview renders the stored template against the configured dataset.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	config := s.cm.Get()
	view := s.store.Get().View
	source := s.store.Template()

	var body string
	if strings.TrimSpace(source) == "" {
		if !view.HideDefaultTemplateMessage {
			body = tutorialBlock
		}
	} else {
		table, err := loadTable(r.Context(), s.db, config.Server)
		if err != nil {
			s.logger.Error("Failed to load dataset", "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		body, _ = s.record(r.Context(), "preview", s.engine.Compile(source), templating.RenderContext{
			Table:    table,
			Viewport: config.Server.Viewport,
			Colors:   s.palette,
		})
	}

	s.setPreviewHeaders(w, config.Server.Headers)
	_, _ = fmt.Fprintf(w, `<div class="vellum-view" style="width:%spx;height:%spx;overflow-y:scroll">%s</div>`,
		numfmt.String(config.Server.Viewport.Width), numfmt.String(config.Server.Viewport.Height), body)
}

func newEngine(cm *ConfigManager, logger *slog.Logger) (*templating.Engine, error) {
	engine, err := templating.NewEngine(logger, *cm.Get().Templates)
	if err != nil {
		return nil, fmt.Errorf("failed to create template engine: %w", err)
	}
	if err = cm.AddEngine(engine); err != nil {
		return nil, fmt.Errorf("failed to apply template config: %w", err)
	}
	return engine, nil
}

// record renders tpl and logs the pass in the render log.
func (s *Server) record(ctx context.Context, origin string, tpl *templating.Template, rc templating.RenderContext) (string, error) {
	start := time.Now()
	out, err := tpl.Execute(rc)
	rec := RenderRecord{
		Source:      origin,
		RenderedAt:  start,
		DurationUS:  time.Since(start).Microseconds(),
		OutputBytes: len(out),
		Failed:      err != nil,
	}
	if err != nil {
		rec.Error = err.Error()
	}
	if logErr := s.statsAPI.Record(ctx, rec); logErr != nil {
		s.logger.Warn("Failed to record render", "error", logErr)
	}
	s.logger.Debug("Rendered template", "origin", origin, "duration_us", rec.DurationUS, "bytes", rec.OutputBytes, "failed", rec.Failed)
	return out, err
}

func (s *Server) setPreviewHeaders(w http.ResponseWriter, headers map[string]string) {
	for k, v := range headers {
		w.Header().Set(k, v)
	}
	if w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
	}
}

// handleFavicon answers favicon requests with no content so browsers don't
// trigger a render for them.
func handleFavicon(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}
