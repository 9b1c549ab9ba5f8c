package templating

import (
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	policyOnce sync.Once
	policy     *bluemonday.Policy
)

// Sanitize strips scripts, embedded content, event handlers and link
// targets from rendered markup while keeping layout HTML, inline SVG and
// the data-* attributes the host reacts to.
func Sanitize(markup string) string {
	return outputPolicy().Sanitize(markup)
}

func outputPolicy() *bluemonday.Policy {
	policyOnce.Do(func() {
		p := bluemonday.NewPolicy()
		p.AllowElements(
			"div", "span", "p", "br", "hr", "h1", "h2", "h3", "h4", "h5", "h6",
			"pre", "code", "b", "i", "em", "strong", "small", "sub", "sup",
			"ul", "ol", "li", "dl", "dt", "dd", "table", "thead", "tbody",
			"tfoot", "tr", "th", "td", "caption", "colgroup", "col", "label",
			"button", "section", "header", "footer", "article", "figure",
			"figcaption",
		)
		p.AllowElements(
			"svg", "g", "path", "circle", "rect", "line", "polyline", "polygon",
			"ellipse", "text", "tspan", "title", "desc", "defs", "clipPath",
			"linearGradient", "radialGradient", "stop", "pattern", "mask",
			"marker", "symbol",
		)
		p.AllowElementsContent("title")
		p.AllowDataAttributes()
		p.AllowAttrs("id", "class", "style", "title", "role", "colspan", "rowspan").Globally()
		p.AllowAttrs(
			"xmlns", "viewBox", "preserveAspectRatio", "width", "height",
			"transform", "fill", "fill-opacity", "opacity", "stroke",
			"stroke-width", "stroke-opacity", "stroke-dasharray",
			"stroke-linecap", "stroke-linejoin", "d", "cx", "cy", "r", "rx",
			"ry", "x", "y", "x1", "y1", "x2", "y2", "dx", "dy", "points",
			"text-anchor", "dominant-baseline", "font-size", "font-family",
			"font-weight", "offset", "stop-color", "stop-opacity",
			"gradientUnits", "gradientTransform", "clipPathUnits",
			"patternUnits", "markerWidth", "markerHeight", "refX", "refY",
			"orient",
		).Globally()
		policy = p
	})
	return policy
}
