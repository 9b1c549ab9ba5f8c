package templating

// TemplateConfig holds all configuration options for the templating engine.
type TemplateConfig struct {
	// MaxScales caps the number of scales one render pass may register.
	MaxScales int `json:"max_scales"`

	// MaxAxes caps the number of axes one render pass may register.
	MaxAxes int `json:"max_axes"`

	// MaxVariables caps the number of distinct variables set with var.
	MaxVariables int `json:"max_variables"`

	// MaxArrayItems sets the maximum length of sequences built by the
	// array, map and filter helpers. Longer inputs are truncated.
	MaxArrayItems int `json:"max_array_items"`

	// Markdown treats rendered output as Markdown and converts it to HTML
	// before it is sanitized.
	Markdown bool `json:"markdown"`

	// Sanitize runs rendered output through the HTML/SVG sanitizer.
	Sanitize bool `json:"sanitize"`

	// ErrorStack includes a stack trace in rendered error blocks.
	ErrorStack bool `json:"error_stack"`

	// TimeZone is the IANA zone timeFormat renders in. Empty means the
	// process's local zone.
	TimeZone string `json:"time_zone"`
}

// DefaultConfig returns a TemplateConfig with safe default values.
func DefaultConfig() TemplateConfig {
	return TemplateConfig{
		MaxScales:     256,
		MaxAxes:       256,
		MaxVariables:  4096,
		MaxArrayItems: 100_000,
		Markdown:      false,
		Sanitize:      false,
		ErrorStack:    true,
		TimeZone:      "",
	}
}
