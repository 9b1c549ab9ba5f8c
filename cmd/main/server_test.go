package main

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/CTAG07/Vellum/pkg/dataset"
)

const testDataset = `
table:
  columns:
    - displayName: name
      index: 0
    - displayName: value
      index: 1
  rows:
    - [a, 1]
    - [b, 2]
`

// setupTestServer builds a Server over an in-memory database and a
// temporary data directory holding a two row dataset.
func setupTestServer(tb testing.TB) *Server {
	tb.Helper()
	dir := tb.TempDir()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	datasetPath := filepath.Join(dir, "dataset.yaml")
	if err := os.WriteFile(datasetPath, []byte(testDataset), 0o644); err != nil {
		tb.Fatalf("failed to write dataset: %v", err)
	}

	config := defaultConfig()
	config.Server.DataDir = dir
	config.Server.SettingsPath = filepath.Join(dir, "settings.json")
	config.Server.DatasetPath = datasetPath
	// Most tests compare the raw template output.
	config.Templates.Markdown = false
	cm := &ConfigManager{config: config, configPath: filepath.Join(dir, "config.json"), logger: logger}

	db, err := initDB(":memory:")
	if err != nil {
		tb.Fatalf("initDB failed: %v", err)
	}
	// Every pooled connection to :memory: would be a separate database.
	db.SetMaxOpenConns(1)
	tb.Cleanup(func() { _ = db.Close() })
	if err = setupAuthSchema(db); err != nil {
		tb.Fatalf("setupAuthSchema failed: %v", err)
	}
	if err = setupStatsSchema(db); err != nil {
		tb.Fatalf("setupStatsSchema failed: %v", err)
	}

	server, err := NewServer(cm, logger, db, make(chan string, 1))
	if err != nil {
		tb.Fatalf("NewServer failed: %v", err)
	}
	return server
}

func do(tb testing.TB, h http.Handler, method, target string, body io.Reader, header http.Header) *httptest.ResponseRecorder {
	tb.Helper()
	req := httptest.NewRequest(method, target, body)
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](tb testing.TB, rec *httptest.ResponseRecorder) T {
	tb.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		tb.Fatalf("failed to decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func TestServer_Preview(t *testing.T) {
	s := setupTestServer(t)

	rec := do(t, s, http.MethodGet, "/", nil, nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Template is empty") {
		t.Fatalf("empty template: got %d %q", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Cache-Control"); got != "no-store" {
		t.Errorf("configured headers not applied, Cache-Control = %q", got)
	}

	rec = do(t, s, http.MethodPut, "/api/view", strings.NewReader(`{"hideDefaultTemplateMessage":true}`), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("PUT /api/view: got %d", rec.Code)
	}
	rec = do(t, s, http.MethodGet, "/", nil, nil)
	if strings.Contains(rec.Body.String(), "Template is empty") {
		t.Error("the tutorial block should be hidden")
	}

	rec = do(t, s, http.MethodPut, "/api/template", strings.NewReader(`{{#each table.rows}}{{name}}{{value}}{{/each}}`), nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("PUT /api/template: got %d %q", rec.Code, rec.Body.String())
	}
	rec = do(t, s, http.MethodGet, "/", nil, nil)
	want := `<div class="vellum-view" style="width:800px;height:600px;overflow-y:scroll">a1b2</div>`
	if rec.Body.String() != want {
		t.Errorf("preview = %q, want %q", rec.Body.String(), want)
	}

	if rec = do(t, s, http.MethodGet, "/nope", nil, nil); rec.Code != http.StatusNotFound {
		t.Errorf("GET /nope: got %d, want 404", rec.Code)
	}
}

func TestServer_PreviewMarkdown(t *testing.T) {
	s := setupTestServer(t)
	config := s.cm.Get()
	config.Templates.Markdown = true
	if err := s.cm.Update(config); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	do(t, s, http.MethodPut, "/api/template", strings.NewReader("# {{format 1 \".2f\"}}"), nil)
	rec := do(t, s, http.MethodGet, "/", nil, nil)
	if !strings.Contains(rec.Body.String(), ">1.00</h1>") {
		t.Errorf("preview should render the template as Markdown, got %q", rec.Body.String())
	}

	resp := decode[RenderResponse](t, do(t, s, http.MethodPost, "/api/render", strings.NewReader(`{"template":"*{{sum 1 2}}*"}`), nil))
	if !strings.Contains(resp.Output, "<em>3</em>") {
		t.Errorf("render should convert Markdown too, got %+v", resp)
	}
	if !DefaultTemplateConfig().Markdown {
		t.Error("Markdown should be on by default for the server")
	}
}

func TestServer_Template(t *testing.T) {
	s := setupTestServer(t)

	src := "# {{format 1 \".2f\"}}"
	do(t, s, http.MethodPut, "/api/template", strings.NewReader(src), nil)
	rec := do(t, s, http.MethodGet, "/api/template", nil, nil)
	if rec.Body.String() != src {
		t.Errorf("GET /api/template = %q, want %q", rec.Body.String(), src)
	}

	chunks := decode[map[string]string](t, do(t, s, http.MethodGet, "/api/template/chunks", nil, nil))
	if chunks["chunk0"] != src || len(chunks) != 11 {
		t.Errorf("unexpected chunks %v", chunks)
	}

	big := strings.Repeat("x", maxTemplateBytes+1)
	if rec = do(t, s, http.MethodPut, "/api/template", strings.NewReader(big), nil); rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("oversized template: got %d, want 413", rec.Code)
	}

	if rec = do(t, s, http.MethodDelete, "/api/template", nil, nil); rec.Code != http.StatusNoContent {
		t.Errorf("DELETE /api/template: got %d", rec.Code)
	}
	if rec = do(t, s, http.MethodGet, "/api/template", nil, nil); rec.Body.Len() != 0 {
		t.Errorf("template should be cleared, got %q", rec.Body.String())
	}

	check := decode[CheckResponse](t, do(t, s, http.MethodPost, "/api/template/check", strings.NewReader("{{#if x}}"), nil))
	if check.Valid || check.Error == "" {
		t.Errorf("unterminated block should not check out: %+v", check)
	}
}

func TestServer_Render(t *testing.T) {
	s := setupTestServer(t)

	body := `{
		"template": "{{#each table.rows}}{{n}}{{/each}} {{viewport.width}}",
		"dataset": {"table": {"columns": [{"displayName": "n", "index": 0}], "rows": [[1], [2.5]]}},
		"viewport": {"width": 300, "height": 200}
	}`
	resp := decode[RenderResponse](t, do(t, s, http.MethodPost, "/api/render", strings.NewReader(body), nil))
	if resp.Output != "12.5 300" || resp.Error != "" {
		t.Errorf("render = %+v", resp)
	}

	// Without a dataset the configured one is used.
	resp = decode[RenderResponse](t, do(t, s, http.MethodPost, "/api/render", strings.NewReader(`{"template":"{{sums (map \"value\" table.rows)}}"}`), nil))
	if resp.Output != "3" {
		t.Errorf("render over the configured dataset = %+v", resp)
	}

	resp = decode[RenderResponse](t, do(t, s, http.MethodPost, "/api/render", strings.NewReader(`{"template":"{{sums 1}}"}`), nil))
	if resp.Error == "" || !strings.HasPrefix(resp.Output, "<h4>") {
		t.Errorf("a failing render should report its error: %+v", resp)
	}

	rec := do(t, s, http.MethodPost, "/api/render", strings.NewReader(`{"template":""}`), nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("empty template: got %d, want 400", rec.Code)
	}

	summary := decode[RenderStatsSummary](t, do(t, s, http.MethodGet, "/api/stats/summary", nil, nil))
	if summary.TotalRenders != 3 || summary.FailedRenders != 1 {
		t.Errorf("unexpected render stats %+v", summary)
	}
	recent := decode[[]RenderRecord](t, do(t, s, http.MethodGet, "/api/stats/recent?limit=1", nil, nil))
	if len(recent) != 1 || !recent[0].Failed || recent[0].Source != "api" {
		t.Errorf("unexpected recent renders %+v", recent)
	}
}

func TestServer_Resources(t *testing.T) {
	s := setupTestServer(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "logo.png")
	if err != nil {
		t.Fatalf("CreateFormFile failed: %v", err)
	}
	_, _ = fw.Write(append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 2048)...))
	_ = mw.Close()

	rec := do(t, s, http.MethodPost, "/api/resources", &buf, http.Header{"Content-Type": {mw.FormDataContentType()}})
	if rec.Code != http.StatusCreated {
		t.Fatalf("upload: got %d %q", rec.Code, rec.Body.String())
	}

	list := decode[[]ResourceInfo](t, do(t, s, http.MethodGet, "/api/resources", nil, nil))
	if len(list) != 1 || list[0].Name != "logo_png" || list[0].Size != "2kb" {
		t.Fatalf("unexpected resources %+v", list)
	}

	if rec = do(t, s, http.MethodGet, "/api/resources/logo_png", nil, nil); !strings.Contains(rec.Body.String(), "data:image/png;base64,") {
		t.Errorf("resource value should be a PNG data URL, got %q", rec.Body.String())
	}
	if rec = do(t, s, http.MethodDelete, "/api/resources/logo_png", nil, nil); rec.Code != http.StatusNoContent {
		t.Errorf("delete: got %d", rec.Code)
	}
	if rec = do(t, s, http.MethodDelete, "/api/resources/logo_png", nil, nil); rec.Code != http.StatusNotFound {
		t.Errorf("second delete: got %d, want 404", rec.Code)
	}
}

func TestServer_Dataset(t *testing.T) {
	s := setupTestServer(t)
	table := decode[dataset.Table](t, do(t, s, http.MethodGet, "/api/dataset", nil, nil))
	if len(table.Rows) != 2 || len(table.Columns) != 2 {
		t.Fatalf("unexpected table %+v", table)
	}
	if table.Rows[0]["name"] != "a" || table.Rows[0][dataset.SelectionKey] == nil {
		t.Errorf("unexpected first row %v", table.Rows[0])
	}
}

func TestServer_Auth(t *testing.T) {
	s := setupTestServer(t)

	if rec := do(t, s, http.MethodGet, "/api/health", nil, nil); rec.Code != http.StatusOK {
		t.Errorf("health: got %d", rec.Code)
	}

	created := decode[CreateKeyResponse](t, do(t, s, http.MethodPost, "/api/auth/keys", strings.NewReader(`{"description":"admin"}`), nil))
	if !strings.HasPrefix(created.RawKey, "vel_") || len(created.Scopes) != 1 || created.Scopes[0] != "*" {
		t.Fatalf("first key should be a master key: %+v", created)
	}

	if rec := do(t, s, http.MethodGet, "/api/template", nil, nil); rec.Code != http.StatusUnauthorized {
		t.Errorf("request without a key: got %d, want 401", rec.Code)
	}
	if rec := do(t, s, http.MethodGet, "/api/health", nil, nil); rec.Code != http.StatusOK {
		t.Errorf("health must stay open: got %d", rec.Code)
	}

	admin := http.Header{authHeader: {created.RawKey}}
	reader := decode[CreateKeyResponse](t, do(t, s, http.MethodPost, "/api/auth/keys",
		strings.NewReader(`{"description":"reader","scopes":["template:read"]}`), admin))
	if reader.RawKey == "" {
		t.Fatal("second key was not created")
	}

	readOnly := http.Header{authHeader: {reader.RawKey}}
	if rec := do(t, s, http.MethodGet, "/api/template", nil, readOnly); rec.Code != http.StatusOK {
		t.Errorf("read with template:read: got %d", rec.Code)
	}
	if rec := do(t, s, http.MethodPut, "/api/template", strings.NewReader("x"), readOnly); rec.Code != http.StatusForbidden {
		t.Errorf("write with template:read: got %d, want 403", rec.Code)
	}
	if rec := do(t, s, http.MethodPost, "/api/auth/keys", strings.NewReader(`{"scopes":["bogus"]}`), admin); rec.Code != http.StatusBadRequest {
		t.Errorf("unknown scope: got %d, want 400", rec.Code)
	}

	keys := decode[[]APIKeyInfo](t, do(t, s, http.MethodGet, "/api/auth/keys", nil, admin))
	if len(keys) != 2 {
		t.Errorf("expected 2 keys, got %+v", keys)
	}
}

func TestServer_Config(t *testing.T) {
	s := setupTestServer(t)

	config := decode[Config](t, do(t, s, http.MethodGet, "/api/server/config", nil, nil))
	config.Templates.MaxVariables = 1
	data, _ := json.Marshal(config)
	if rec := do(t, s, http.MethodPut, "/api/server/config", bytes.NewReader(data), nil); rec.Code != http.StatusOK {
		t.Fatalf("PUT config: got %d %q", rec.Code, rec.Body.String())
	}
	if got := s.engine.GetConfig().MaxVariables; got != 1 {
		t.Errorf("template config not pushed to the engine, MaxVariables = %d", got)
	}

	config.Templates.TimeZone = "Not/AZone"
	data, _ = json.Marshal(config)
	if rec := do(t, s, http.MethodPut, "/api/server/config", bytes.NewReader(data), nil); rec.Code != http.StatusBadRequest {
		t.Errorf("invalid time zone: got %d, want 400", rec.Code)
	}
}

func TestPalette(t *testing.T) {
	p := NewPalette([]string{"red", "#00ff00", "notacolor"})
	if got := p.Color("a"); got != "#ff0000" {
		t.Errorf("first color = %q", got)
	}
	if got := p.Color("b"); got != "#00ff00" {
		t.Errorf("second color = %q", got)
	}
	if got := p.Color("c"); got != "#ff0000" {
		t.Errorf("colors should wrap around, got %q", got)
	}
	if got := p.Color("a"); got != "#ff0000" {
		t.Errorf("a name should keep its color, got %q", got)
	}
	if got := NewPalette(nil).Color("x"); got != "#4682b4" {
		t.Errorf("empty palette should fall back to steelblue, got %q", got)
	}
}
