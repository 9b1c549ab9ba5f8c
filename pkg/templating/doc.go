/*
Package templating renders Handlebars templates against a projected data
table to produce HTML and SVG chart markup.

An Engine owns one set of shared state: the registries of scales, axes and
variables that helpers create while a template runs, plus memoized number
and date formatters. Every render pass starts from an empty state, so a
template is self-contained: it declares its scales and axes, then uses them.

	{{scaleLinear "x" (array 0 100) (array 0 viewport.width)}}
	{{axisBottom "xAxis" "x"}}
	<svg><g transform="translate(0, 20)">{{{useAxis "xAxis"}}}</g></svg>

Helpers that produce markup return plain strings, so their output must be
emitted with triple braces. Failures inside a helper never escape Render;
the pass is aborted and an error block is returned in place of the output.
*/
package templating
