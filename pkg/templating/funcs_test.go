package templating

import (
	"strings"
	"testing"

	"github.com/CTAG07/Vellum/pkg/axis"
	"github.com/CTAG07/Vellum/pkg/scale"
)

type renderCase struct {
	name string
	src  string
	want string
}

func runRenderCases(t *testing.T, e *Engine, rc RenderContext, cases []renderCase) {
	t.Helper()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := e.Render(tc.src, rc); got != tc.want {
				t.Errorf("Render(%s) = %q, want %q", tc.src, got, tc.want)
			}
		})
	}
}

// TestTemplateFunctions validates the behavior of each category of helpers.
func TestTemplateFunctions(t *testing.T) {
	e := setupTestEngine(t)
	rc := sampleContext()

	t.Run("FormatFuncs", func(t *testing.T) {
		runRenderCases(t, e, rc, []renderCase{
			{"fixed", `{{format 3.14159 ".2f"}}`, "3.14"},
			{"grouped twice", `{{format 1234567 ","}}|{{format 1234567 ","}}`, "1,234,567|1,234,567"},
			{"missing value", `{{format missing ".2f"}}`, "null"},
			{"not a number", `{{format "abc" ".2f"}}`, "Value is not number"},
			{"pattern not a string", `{{format 1 2}}`, "Wrong format"},
			{"utc string", `{{utcFormat "2024-03-05T14:07:09.000Z" "%Y-%m-%d %H:%M"}}`, "2024-03-05 14:07"},
			{"utc bad string", `[{{utcFormat "yesterday" "%Y"}}]`, "[]"},
			{"utc date", `{{#each table.rows}}{{utcFormat T "%d"}} {{/each}}`, "05 06 07 08 09 "},
			{"time not a date", `[{{timeFormat "2024-03-05T14:07:09.000Z" "%Y"}}]`, "[]"},
		})

		out := e.Render(`{{format 1 ".q"}}`, rc)
		if !strings.HasPrefix(out, "<h4>") {
			t.Errorf("invalid format specifier should render an error block, got %q", out)
		}

		config := DefaultConfig()
		config.TimeZone = "UTC"
		utc := setupTestEngineWith(t, config)
		if got := utc.Render(`{{#each table.rows}}{{timeFormat T "%H"}}{{/each}}`, rc); got != "1414141414" {
			t.Errorf("timeFormat in UTC: got %q", got)
		}
	})

	t.Run("ScaleFuncs", func(t *testing.T) {
		linear := `{{scaleLinear "x" (array 0 10) (array 0 100)}}`
		runRenderCases(t, e, rc, []renderCase{
			{"apply", linear + `{{useScale "x" 5}}`, "50"},
			{"redeclared", linear + `{{scaleLinear "x" (array 0 1) (array 0 1)}}|{{useScale "x" 5}}`, "Scale redeclared|50"},
			{"empty id", `{{useScale "" 1}}`, "Wrong scale ID"},
			{"unknown id", `{{useScale "nope" 1}}`, "Wrong scale ID"},
			{"non-string id", `{{useScale 3 1}}`, "Wrong scale ID"},
			{"getScale", linear + `{{getScale "x" "invert" 50}}`, "5"},
			{"getScale missing", `[{{getScale "nope" "invert" 50}}]`, "[]"},
			{"setupScale", linear + `{{setupScale "x" "range" (array 0 1000)}}{{useScale "x" 5}}`, "500"},
			{"setupScale missing", `[{{setupScale "nope" "range" (array 0 1)}}]`, "[]"},
			{"resetScales", linear + `{{resetScales}}{{useScale "x" 5}}`, "Wrong scale ID"},
			{"band", `{{scaleBand "b" (array "a" "b") (array 0 100)}}{{useScale "b" "b"}}`, "50"},
			{"ordinal", `{{scaleOrdinal "o" (array "a" "b") (array "red" "blue")}}{{useScale "o" "b"}}`, "blue"},
		})

		out := e.Render(`{{scaleNope "x"}}`, rc)
		if out != "" {
			t.Errorf("unknown helper names should resolve to nothing, got %q", out)
		}
	})

	t.Run("AxisFuncs", func(t *testing.T) {
		s, err := scale.New("linear", []any{0, 10}, []any{0, 100})
		if err != nil {
			t.Fatalf("scale.New failed: %v", err)
		}
		a, err := axis.New(axis.Bottom, s)
		if err != nil {
			t.Fatalf("axis.New failed: %v", err)
		}
		if _, err = a.Call("ticks", 2); err != nil {
			t.Fatalf("ticks failed: %v", err)
		}
		want, err := a.Render()
		if err != nil {
			t.Fatalf("Render failed: %v", err)
		}

		linear := `{{scaleLinear "x" (array 0 10) (array 0 100)}}`
		runRenderCases(t, e, rc, []renderCase{
			{"missing", `[{{{useAxis "none"}}}]`, "[]"},
			{"missing scale", `{{axisLeft "a" "nope"}}`, "Scale nope not found"},
			{"rendered", linear + `{{axisBottom "ax" "x"}}{{setupAxis "ax" "ticks" 2}}{{{useAxis "ax"}}}`, want},
			{"redeclared", linear + `{{axisTop "ax" "x"}}{{axisBottom "ax" "x"}}{{setupAxis "ax" "ticks" 2}}{{{useAxis "ax"}}}`, want},
			{"setup missing", `[{{setupAxis "none" "ticks" 2}}]`, "[]"},
			{"resetAxes", linear + `{{axisBottom "ax" "x"}}{{resetAxes}}[{{{useAxis "ax"}}}]`, "[]"},
		})

		out := e.Render(linear+`{{axisBottom "ax" "x"}}{{setupAxis "ax" "tickFormat" ".0%"}}{{setupAxis "ax" "ticks" 2}}{{{useAxis "ax"}}}`, rc)
		if !strings.Contains(out, ">1000%</text>") {
			t.Errorf("tickFormat should install a numeric formatter, got %q", out)
		}
	})

	t.Run("DataFuncs", func(t *testing.T) {
		runRenderCases(t, e, rc, []renderCase{
			{"array", `{{#each (array 1 "b" 3)}}{{this}};{{/each}}`, "1;b;3;"},
			{"map", `{{#each (map "B" table.rows)}}{{this}}{{/each}}`, "abcde"},
			{"map missing key", `{{#each (map "Z" table.rows)}}[{{this}}]{{/each}}`, "[][][][][]"},
			{"map missing key nested", `{{#each table.rows}}{{#each (map "Z" ../table.rows)}}[{{this}}]{{/each}}{{/each}}`, strings.Repeat("[]", 25)},
			{"map missing key falsy", `{{#each (map "Z" table.rows)}}{{#if this}}x{{else}}-{{/if}}{{/each}}`, "-----"},
			{"map missing key sums", `{{sums (map "Z" table.rows)}}`, "0"},
			{"map missing key max", `[{{max (map "Z" table.rows)}}]`, "[]"},
			{"array empty", `[{{#each (array)}}x{{/each}}]`, "[]"},
			{"min", `{{min (array 3 1 2)}}`, "1"},
			{"max", `{{max (map "A" table.rows)}}`, "5"},
			{"max strings", `{{max (array "b" "c" "a")}}`, "c"},
			{"mean", `{{mean (array 1 2 3 4)}}`, "2.5"},
			{"mean empty", `[{{mean (map "Z" table.rows)}}]`, "[]"},
			{"median", `{{median (array 3 1 2 10)}}`, "2.5"},
			{"median odd", `{{median (array 5 1 3)}}`, "3"},
			{"sums", `{{sums (array 1 2 3)}}`, "6"},
			{"filter default", `{{#each (filter (array 1 2 2 3) 2)}}{{this}}{{/each}}`, "22"},
			{"filter gt", `{{#each (filter (array 1 2 3 4) 2 ">")}}{{this}},{{/each}}`, "3,4,"},
			{"filter lte", `{{#each (filter (map "A" table.rows) 2 "<=")}}{{this}}{{/each}}`, "12"},
		})

		if out := e.Render(`{{filter}}`, rc); !strings.Contains(out, "expected an array") {
			t.Errorf("filter without arguments should report a missing array, got %q", out)
		}

		out := e.Render(`{{sums 5}}`, rc)
		if !strings.Contains(out, "expected an array") {
			t.Errorf("sums of a scalar should render an error block, got %q", out)
		}
	})

	t.Run("SimpleFuncs", func(t *testing.T) {
		runRenderCases(t, e, rc, []renderCase{
			{"sum", `{{sum 1 2}}`, "3"},
			{"sum concat", `{{sum "a" 1}}`, "a1"},
			{"sub", `{{sub 5 2}}`, "3"},
			{"multiply", `{{multiply 2 2.5}}`, "5"},
			{"divide", `{{divide 1 4}}`, "0.25"},
			{"var and val", `{{var "n" 5}}{{val "n"}}`, "5"},
			{"val missing", `[{{val "missing"}}]`, "[]"},
			{"math constant", `{{math "PI"}}`, "3.141592653589793"},
			{"math max", `{{math "max" 1 5 3}}`, "5"},
			{"math pow", `{{math "pow" 2 10}}`, "1024"},
			{"math round", `{{math "round" -2.5}}`, "-2"},
			{"math sign", `{{math "sign" -7}}`, "-1"},
		})

		for _, src := range []string{`{{math "nope" 1}}`, `{{math "PI" 1}}`} {
			if out := e.Render(src, rc); !strings.HasPrefix(out, "<h4>") {
				t.Errorf("Render(%s) should render an error block, got %q", src, out)
			}
		}
	})

	t.Run("LogicFuncs", func(t *testing.T) {
		runRenderCases(t, e, rc, []renderCase{
			{"eq", `{{eq 2 (divide 4 2)}}`, "true"},
			{"eq strict", `{{eq 1 "1"}}`, "false"},
			{"ne", `{{ne "a" "b"}}`, "true"},
			{"lt", `{{lt 1 2}}`, "true"},
			{"lt incomparable", `{{lt "a" 1}}`, "false"},
			{"gt", `{{gt 3 2}}`, "true"},
			{"lte", `{{lte 2 2}}`, "true"},
			{"gte strings", `{{gte "a" "b"}}`, "false"},
			{"and", `{{#if (and true 1 "x")}}yes{{else}}no{{/if}}`, "yes"},
			{"and falsy", `{{and true 0}}`, "false"},
			{"or", `{{or 0 "" false}}`, "false"},
			{"or truthy", `{{or 0 "x"}}`, "true"},
			{"and no args", `[{{and}}]`, "[true]"},
			{"or no args", `[{{or}}]`, "[false]"},
			{"or no args subexpression", `{{#if (or)}}yes{{else}}no{{/if}}`, "no"},
		})
	})

	t.Run("LinkFuncs", func(t *testing.T) {
		runRenderCases(t, e, rc, []renderCase{
			{"launchUrl", `{{{launchUrl "https://a.b/c?d=1 2"}}}`, `data-launch-url=true data-url="https%3A%2F%2Fa.b%2Fc%3Fd%3D1%202"`},
		})
		if got := encodeURIComponent("é!'()*-._~"); got != "%C3%A9!'()*-._~" {
			t.Errorf("encodeURIComponent = %q", got)
		}
	})

	t.Run("RenderFuncs", func(t *testing.T) {
		rc := sampleContext()
		rc.Colors = ColorFunc(func(name string) string { return "#" + name })
		runRenderCases(t, e, rc, []renderCase{
			{"useColor", `{{useColor "A"}}`, "#A"},
			{"useSelection", `{{{useSelection 1}}}`, `data-selection=true data-index="1"`},
			{"useSelection out of range", `[{{useSelection 5}}]`, "[]"},
			{"useSelection not a number", `[{{useSelection "1"}}]`, "[]"},
			{"useSelectionClear", `{{{useSelectionClear}}}`, `data-selection-clear="true"`},
		})
		if got := e.Render(`[{{useColor "A"}}]`, sampleContext()); got != "[]" {
			t.Errorf("useColor without a resolver: got %q", got)
		}
	})
}
