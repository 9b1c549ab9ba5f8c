package templating

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"github.com/CTAG07/Vellum/pkg/dataset"
	"github.com/mailgun/raymond/v2"
)

// Viewport is the size of the area the rendered output is shown in.
type Viewport struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// ColorResolver maps a series name to a display color.
type ColorResolver interface {
	Color(name string) string
}

// ColorFunc adapts a function to a ColorResolver.
type ColorFunc func(name string) string

func (f ColorFunc) Color(name string) string { return f(name) }

// RenderContext is the input of one render pass.
type RenderContext struct {
	Table    dataset.Table
	Viewport Viewport
	// Colors backs the useColor helper. It is not visible to templates.
	Colors ColorResolver
}

// renderData is what templates see as their root context.
type renderData struct {
	Table    dataset.Table `json:"table"`
	Viewport Viewport      `json:"viewport"`
}

// Engine compiles templates and renders them against its own EngineState.
// Render passes of one Engine are serialized; separate Engines share nothing
// and may render in parallel. All methods are concurrent-safe.
type Engine struct {
	logger    *slog.Logger
	config    TemplateConfig
	state     *EngineState
	templates map[string]*Template
	mu        sync.Mutex
}

// Template is a compiled template bound to the Engine that compiled it.
type Template struct {
	engine *Engine
	source string
	tpl    *raymond.Template
	err    error
}

// NewEngine creates an Engine. An unknown config.TimeZone is reported as an
// error.
func NewEngine(logger *slog.Logger, config TemplateConfig) (*Engine, error) {
	loc, err := loadLocation(config.TimeZone)
	if err != nil {
		return nil, err
	}
	e := &Engine{
		logger:    logger,
		config:    config,
		state:     NewEngineState(loc),
		templates: map[string]*Template{},
	}
	logger.Debug("Template engine initialized", "time_zone", loc.String())
	return e, nil
}

func loadLocation(name string) (*time.Location, error) {
	if name == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("invalid time zone %q: %w", name, err)
	}
	return loc, nil
}

// SetConfig applies a new configuration. Compiled templates are kept; the
// new limits apply from the next render pass.
func (e *Engine) SetConfig(config TemplateConfig) error {
	loc, err := loadLocation(config.TimeZone)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.config = config
	e.state = NewEngineState(loc)
	return nil
}

// GetConfig returns a copy of the current configuration.
func (e *Engine) GetConfig() TemplateConfig {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.config
}

// Compile parses source, or returns the template already compiled from the
// same source. Syntax errors are kept on the Template and reported when it
// is rendered.
func (e *Engine) Compile(source string) *Template {
	e.mu.Lock()
	defer e.mu.Unlock()
	if t, ok := e.templates[source]; ok {
		return t
	}
	t := &Template{engine: e, source: source}
	tpl, err := raymond.Parse(padArgs(source, variadicNames))
	if err != nil {
		t.err = fmt.Errorf("compile: %w", err)
		e.logger.Warn("Template failed to compile", "error", err)
	} else {
		tpl.RegisterHelpers(e.helpers())
		t.tpl = tpl
	}
	e.templates[source] = t
	return t
}

// Check reports whether source compiles. Nothing is memoized.
func Check(source string) error {
	if _, err := raymond.Parse(source); err != nil {
		return fmt.Errorf("compile: %w", err)
	}
	return nil
}

// Forget drops every memoized template.
func (e *Engine) Forget() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.templates = map[string]*Template{}
}

// Render compiles source (memoized) and renders it.
func (e *Engine) Render(source string, rc RenderContext) string {
	return e.Compile(source).Render(rc)
}

// Source returns the template text.
func (t *Template) Source() string { return t.source }

// Err returns the compile error, if any.
func (t *Template) Err() error { return t.err }

// Render runs one full render pass: the engine state is reset, the
// per-render helpers are bound to rc on a private copy of the template, and
// the template is executed with rc's table and viewport. Failures never
// escape; they are rendered as an error block instead.
func (t *Template) Render(rc RenderContext) string {
	out, _ := t.Execute(rc)
	return out
}

// Execute is Render that also returns the error an error block stands for.
func (t *Template) Execute(rc RenderContext) (string, error) {
	e := t.engine
	e.mu.Lock()
	defer e.mu.Unlock()

	e.state.Reset()
	if t.err != nil {
		return e.errorBlock(t.err), t.err
	}
	tpl := t.tpl.Clone()
	tpl.RegisterHelpers(e.renderHelpers(rc))

	out, err := execute(tpl, renderData{Table: rc.Table, Viewport: rc.Viewport})
	if err != nil {
		return e.errorBlock(err), err
	}
	if e.config.Markdown {
		out = RenderMarkdown(out)
	}
	if e.config.Sanitize {
		out = Sanitize(out)
	}
	return out, nil
}

// execute runs tpl, turning any panic that escapes the template engine into
// an error.
func execute(tpl *raymond.Template, data any) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			cause, ok := r.(error)
			if !ok {
				cause = fmt.Errorf("%v", r)
			}
			err = &HelperError{Err: cause, Stack: debug.Stack()}
		}
	}()
	return tpl.Exec(data)
}

func (e *Engine) errorBlock(err error) string {
	e.logger.Error("Template render failed", "error", err)
	var stack string
	if e.config.ErrorStack {
		var he *HelperError
		if errors.As(err, &he) {
			stack = string(he.Stack)
		} else {
			stack = err.Error()
		}
	}
	var sb strings.Builder
	sb.WriteString("<h4>")
	sb.WriteString(raymond.Escape(err.Error()))
	sb.WriteString("</h4><pre>")
	sb.WriteString(raymond.Escape(stack))
	sb.WriteString("</pre>")
	return sb.String()
}
