package templating

import (
	"math"
	"strconv"

	"github.com/CTAG07/Vellum/pkg/convert"
	"github.com/mailgun/raymond/v2"
)

// renderHelpers returns the helpers bound to a single render pass. They are
// registered on a private copy of the compiled template.
func (e *Engine) renderHelpers(rc RenderContext) map[string]any {
	return map[string]any{
		"useColor": func(name any, _ *raymond.Options) any {
			if rc.Colors == nil {
				return nil
			}
			return rc.Colors.Color(convert.String(name))
		},
		"useSelection": func(index any, _ *raymond.Options) any {
			if !convert.IsNumber(index) {
				return nil
			}
			f := convert.Float(index)
			if f != math.Trunc(f) || f < 0 || int(f) >= len(rc.Table.Rows) {
				return nil
			}
			return `data-selection=true data-index="` + strconv.Itoa(int(f)) + `"`
		},
		"useSelectionClear": func(_ *raymond.Options) any {
			return `data-selection-clear="true"`
		},
	}
}
