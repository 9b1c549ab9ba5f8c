package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"
)

const statsSchema = `
CREATE TABLE IF NOT EXISTS render_log (
    id            INTEGER  PRIMARY KEY,
    source        TEXT     NOT NULL,
    rendered_at   DATETIME NOT NULL,
    duration_us   INTEGER  NOT NULL,
    output_bytes  INTEGER  NOT NULL,
    failed        INTEGER  NOT NULL DEFAULT 0,
    error         TEXT     NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_render_log_rendered_at ON render_log (rendered_at);
`

// RenderRecord is one logged render pass.
type RenderRecord struct {
	Source      string    `json:"source"`
	RenderedAt  time.Time `json:"rendered_at"`
	DurationUS  int64     `json:"duration_us"`
	OutputBytes int       `json:"output_bytes"`
	Failed      bool      `json:"failed"`
	Error       string    `json:"error,omitempty"`
}

// RenderStatsSummary provides a high-level overview of all logged renders.
type RenderStatsSummary struct {
	TotalRenders  int64   `json:"total_renders"`
	FailedRenders int64   `json:"failed_renders"`
	AvgDurationUS float64 `json:"avg_duration_us"`
	MaxDurationUS int64   `json:"max_duration_us"`
	TotalBytes    int64   `json:"total_bytes"`
}

// StatsAPI records render passes and serves their statistics.
type StatsAPI struct {
	db     *sql.DB
	logger *slog.Logger
}

func setupStatsSchema(db *sql.DB) error {
	_, err := db.Exec(statsSchema)
	return err
}

func NewStatsAPI(db *sql.DB, logger *slog.Logger) *StatsAPI {
	return &StatsAPI{
		db:     db,
		logger: logger,
	}
}

func (s *StatsAPI) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/stats/summary", s.handleSummary)
	mux.HandleFunc("/api/stats/recent", s.handleRecent)
}

// Record logs a render pass. Failures to log are returned but never affect
// the render itself.
func (s *StatsAPI) Record(ctx context.Context, rec RenderRecord) error {
	failed := 0
	if rec.Failed {
		failed = 1
	}
	_, err := s.db.ExecContext(ctx, `
        INSERT INTO render_log (source, rendered_at, duration_us, output_bytes, failed, error)
        VALUES (?, ?, ?, ?, ?, ?)
    `, rec.Source, rec.RenderedAt.UTC(), rec.DurationUS, rec.OutputBytes, failed, rec.Error)
	if err != nil {
		return fmt.Errorf("failed to insert render_log: %w", err)
	}
	return nil
}

// Summary aggregates the whole render log.
func (s *StatsAPI) Summary(ctx context.Context) (RenderStatsSummary, error) {
	var summary RenderStatsSummary
	err := s.db.QueryRowContext(ctx, `
        SELECT COUNT(*), COALESCE(SUM(failed), 0), COALESCE(AVG(duration_us), 0),
               COALESCE(MAX(duration_us), 0), COALESCE(SUM(output_bytes), 0)
        FROM render_log
    `).Scan(&summary.TotalRenders, &summary.FailedRenders, &summary.AvgDurationUS,
		&summary.MaxDurationUS, &summary.TotalBytes)
	if err != nil {
		return summary, fmt.Errorf("failed to summarize render_log: %w", err)
	}
	return summary, nil
}

func (s *StatsAPI) handleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	if !requireScope(w, r, scopeStatsRead) {
		return
	}
	summary, err := s.Summary(r.Context())
	if err != nil {
		s.logger.Error("Failed to summarize renders", "error", err)
		respondWithError(w, http.StatusInternalServerError, fmt.Sprintf("Database error: %v", err))
		return
	}
	respondWithJSON(w, http.StatusOK, summary)
}

// handleRecent lists the latest renders, newest first. ?limit= caps the
// count at 100.
func (s *StatsAPI) handleRecent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	if !requireScope(w, r, scopeStatsRead) {
		return
	}
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			respondWithError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = min(n, 100)
	}

	rows, err := s.db.QueryContext(r.Context(), `
        SELECT source, rendered_at, duration_us, output_bytes, failed, error
        FROM render_log ORDER BY id DESC LIMIT ?
    `, limit)
	if err != nil {
		s.logger.Error("Failed to query recent renders", "error", err)
		respondWithError(w, http.StatusInternalServerError, fmt.Sprintf("Database error: %v", err))
		return
	}
	defer func(rows *sql.Rows) {
		_ = rows.Close()
	}(rows)

	results := []RenderRecord{}
	for rows.Next() {
		var rec RenderRecord
		var failed int
		if err = rows.Scan(&rec.Source, &rec.RenderedAt, &rec.DurationUS, &rec.OutputBytes, &failed, &rec.Error); err != nil {
			s.logger.Error("Failed to scan render_log row", "error", err)
			continue
		}
		rec.Failed = failed != 0
		results = append(results, rec)
	}
	respondWithJSON(w, http.StatusOK, results)
}
