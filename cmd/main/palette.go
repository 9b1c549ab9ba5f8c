package main

import (
	"fmt"
	"image/color"
	"sync"

	"golang.org/x/image/colornames"
)

func defaultPalette() []string {
	return []string{
		"steelblue", "darkorange", "seagreen", "firebrick", "mediumpurple",
		"sienna", "orchid", "gray", "olivedrab", "darkturquoise",
	}
}

// Palette hands out colors to series names. A name keeps the color it was
// first given; colors are reused in order once every one has been handed out.
type Palette struct {
	mu       sync.Mutex
	colors   []string
	assigned map[string]string
}

// NewPalette builds a palette from CSS color keywords or hex strings.
// Unknown keywords are skipped.
func NewPalette(names []string) *Palette {
	p := &Palette{assigned: map[string]string{}}
	for _, name := range names {
		if c, ok := colornames.Map[name]; ok {
			p.colors = append(p.colors, hexColor(c))
		} else if len(name) == 7 && name[0] == '#' {
			p.colors = append(p.colors, name)
		}
	}
	if len(p.colors) == 0 {
		p.colors = []string{hexColor(colornames.Steelblue)}
	}
	return p
}

func hexColor(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Color implements templating.ColorResolver.
func (p *Palette) Color(name string) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if c, ok := p.assigned[name]; ok {
		return c
	}
	c := p.colors[len(p.assigned)%len(p.colors)]
	p.assigned[name] = c
	return c
}
