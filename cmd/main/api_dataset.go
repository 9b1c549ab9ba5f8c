package main

import (
	"database/sql"
	"log/slog"
	"net/http"
)

// DatasetAPI exposes the table the preview page renders against.
type DatasetAPI struct {
	cm     *ConfigManager
	db     *sql.DB
	logger *slog.Logger
}

func NewDatasetAPI(cm *ConfigManager, db *sql.DB, logger *slog.Logger) *DatasetAPI {
	return &DatasetAPI{
		cm:     cm,
		db:     db,
		logger: logger,
	}
}

func (a *DatasetAPI) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/dataset", a.handleDataset)
}

// handleDataset returns the projected table. Selection identities are
// regenerated on every request.
func (a *DatasetAPI) handleDataset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	if !requireScope(w, r, scopeDatasetRead) {
		return
	}
	table, err := loadTable(r.Context(), a.db, a.cm.Get().Server)
	if err != nil {
		a.logger.Error("Failed to load dataset", "error", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to load dataset")
		return
	}
	respondWithJSON(w, http.StatusOK, table)
}
