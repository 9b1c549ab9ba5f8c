package templating

import (
	"sort"
	"strings"

	"github.com/mailgun/raymond/v2"
	"github.com/mailgun/raymond/v2/ast"
	"github.com/mailgun/raymond/v2/parser"
)

// noArgsHelper is spliced into bare calls of variadic helpers. raymond
// hands a variadic Go func an invalid argument when a template passes
// none, so every such call gets exactly one argument that params drops.
const noArgsHelper = "_noArgs"

type noArgs struct{}

func noArgsValue(_ *raymond.Options) any { return noArgs{} }

var variadicNames = variadicHelpers()

// variadicHelpers names the helpers taking any number of arguments.
func variadicHelpers() map[string]bool {
	names := map[string]bool{
		"array":      true,
		"filter":     true,
		"math":       true,
		"and":        true,
		"or":         true,
		"useScale":   true,
		"getScale":   true,
		"setupScale": true,
		"setupAxis":  true,
	}
	for name := range scaleHelpers {
		names[name] = true
	}
	return names
}

// padArgs rewrites source so that every call of a helper in variadic that
// has no positional argument receives (_noArgs) instead. Sources that do
// not parse are returned unchanged.
func padArgs(source string, variadic map[string]bool) string {
	prog, err := parser.Parse(source)
	if err != nil {
		return source
	}
	var at []int
	var walk func(n ast.Node)
	walk = func(n ast.Node) {
		switch n := n.(type) {
		case *ast.Program:
			if n == nil {
				return
			}
			for _, s := range n.Body {
				walk(s)
			}
		case *ast.MustacheStatement:
			walk(n.Expression)
		case *ast.BlockStatement:
			walk(n.Expression)
			walk(n.Program)
			walk(n.Inverse)
		case *ast.PartialStatement:
			for _, p := range n.Params {
				walk(p)
			}
			walk(n.Hash)
		case *ast.SubExpression:
			walk(n.Expression)
		case *ast.Hash:
			if n == nil {
				return
			}
			for _, p := range n.Pairs {
				walk(p.Val)
			}
		case *ast.Expression:
			if n == nil {
				return
			}
			name := n.HelperName()
			if len(n.Params) == 0 && variadic[name] {
				end := n.Path.Location().Pos + len(name)
				if end <= len(source) && source[end-len(name):end] == name {
					at = append(at, end)
				}
			}
			for _, p := range n.Params {
				walk(p)
			}
			walk(n.Hash)
		}
	}
	walk(prog)
	if len(at) == 0 {
		return source
	}

	sort.Ints(at)
	var sb strings.Builder
	last := 0
	for _, pos := range at {
		sb.WriteString(source[last:pos])
		sb.WriteString(" (" + noArgsHelper + ")")
		last = pos
	}
	sb.WriteString(source[last:])
	return sb.String()
}
