package templating

import (
	"time"

	"github.com/CTAG07/Vellum/pkg/axis"
	"github.com/CTAG07/Vellum/pkg/numfmt"
	"github.com/CTAG07/Vellum/pkg/scale"
	"github.com/CTAG07/Vellum/pkg/timefmt"
)

// EngineState holds everything helpers share during a session: the scale,
// axis and variable registries and the memoized formatters. It is owned by
// one Engine and is not safe for concurrent use on its own; the Engine
// serializes access.
type EngineState struct {
	scales map[string]scale.Scale
	axes   map[string]*axis.Axis
	vars   map[string]any

	numberFormats map[string]numfmt.Formatter
	utcFormats    map[string]*timefmt.Formatter
	localFormats  map[string]*timefmt.Formatter
	loc           *time.Location
}

// NewEngineState returns an empty state whose local time formats render in
// loc (time.Local if nil).
func NewEngineState(loc *time.Location) *EngineState {
	if loc == nil {
		loc = time.Local
	}
	s := &EngineState{loc: loc}
	s.Reset()
	return s
}

// Reset clears every registry and formatter cache.
func (s *EngineState) Reset() {
	s.scales = map[string]scale.Scale{}
	s.axes = map[string]*axis.Axis{}
	s.vars = map[string]any{}
	s.numberFormats = map[string]numfmt.Formatter{}
	s.utcFormats = map[string]*timefmt.Formatter{}
	s.localFormats = map[string]*timefmt.Formatter{}
}

// ResetScales clears only the scale registry.
func (s *EngineState) ResetScales() { s.scales = map[string]scale.Scale{} }

// ResetAxes clears only the axis registry.
func (s *EngineState) ResetAxes() { s.axes = map[string]*axis.Axis{} }

func (s *EngineState) Scale(id string) (scale.Scale, bool) {
	sc, ok := s.scales[id]
	return sc, ok
}

// AddScale registers sc under id. It reports false, leaving the existing
// scale in place, when id is already taken.
func (s *EngineState) AddScale(id string, sc scale.Scale) bool {
	if _, ok := s.scales[id]; ok {
		return false
	}
	s.scales[id] = sc
	return true
}

func (s *EngineState) Axis(id string) (*axis.Axis, bool) {
	a, ok := s.axes[id]
	return a, ok
}

// SetAxis registers a under id, replacing any axis already there.
func (s *EngineState) SetAxis(id string, a *axis.Axis) { s.axes[id] = a }

func (s *EngineState) Var(name string) (any, bool) {
	v, ok := s.vars[name]
	return v, ok
}

func (s *EngineState) SetVar(name string, v any) { s.vars[name] = v }

func (s *EngineState) NumScales() int { return len(s.scales) }
func (s *EngineState) NumAxes() int   { return len(s.axes) }
func (s *EngineState) NumVars() int   { return len(s.vars) }

// NumberFormat returns the memoized numeric formatter for pattern.
func (s *EngineState) NumberFormat(pattern string) (numfmt.Formatter, error) {
	if f, ok := s.numberFormats[pattern]; ok {
		return f, nil
	}
	f, err := numfmt.New(pattern)
	if err != nil {
		return nil, err
	}
	s.numberFormats[pattern] = f
	return f, nil
}

// TimeFormat returns the memoized time formatter for pattern, rendering in
// UTC or in the state's local zone.
func (s *EngineState) TimeFormat(pattern string, utc bool) *timefmt.Formatter {
	cache := s.localFormats
	if utc {
		cache = s.utcFormats
	}
	if f, ok := cache[pattern]; ok {
		return f
	}
	f := timefmt.New(pattern, utc, s.loc)
	cache[pattern] = f
	return f
}
