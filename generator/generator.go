// Package generator translates analyzed programs to JavaScript.
package generator

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/coreos/pkg/capnslog"
	"github.com/pontaoski/lemonc/ast"
	"github.com/pontaoski/lemonc/stdlib"
)

var log = capnslog.NewPackageLogger("github.com/pontaoski/lemonc", "generator")

const indentation = "  "

// Prelude is put ahead of every program that prints. Integers are BigInts,
// and __show writes them without the n suffix that console.log gives them,
// also inside arrays and maps.
const Prelude = `function __show(v, nested) {
  if (typeof v === "bigint") return v.toString();
  if (typeof v === "string") return nested ? JSON.stringify(v) : v;
  if (Array.isArray(v)) return "[" + v.map((x) => __show(x, true)).join(", ") + "]";
  if (v !== null && typeof v === "object") return "{" + Object.entries(v).map(([k, x]) => k + ": " + __show(x, true)).join(", ") + "}";
  return String(v);
}`

type frameKind int

const (
	loopFrame frameKind = iota
	switchFrame
)

type frame struct {
	kind   frameKind
	header int
	label  string
}

type generator struct {
	lines  []string
	depth  int
	names  map[int]int
	frames []*frame
	labels int
	prints bool
}

// Generate returns the JavaScript for p, one statement per line. Every
// variable and function is renamed to name_N, N counting entities in the
// order they are first met.
func Generate(p *ast.Program) string {
	g := &generator{names: map[int]int{}}
	g.block(p.Statements)
	log.Debugf("generated %d lines, %d names", len(g.lines), len(g.names))
	if g.prints {
		return Prelude + "\n" + strings.Join(g.lines, "\n")
	}
	return strings.Join(g.lines, "\n")
}

func (g *generator) emit(format string, args ...interface{}) int {
	g.lines = append(g.lines, strings.Repeat(indentation, g.depth)+fmt.Sprintf(format, args...))
	return len(g.lines) - 1
}

func (g *generator) indented(f func()) {
	g.depth++
	f()
	g.depth--
}

func (g *generator) block(statements []ast.Node) {
	for _, s := range statements {
		g.statement(s)
	}
}

func (g *generator) targetName(id int, name string) string {
	n, ok := g.names[id]
	if !ok {
		n = len(g.names) + 1
		g.names[id] = n
	}
	return name + "_" + strconv.Itoa(n)
}

// loop emits a loop whose header is written before its body, labelling the
// header afterwards if a switch inside it had to break out of it.
func (g *generator) loop(header string, body []ast.Node) {
	f := &frame{kind: loopFrame, header: g.emit("%s {", header)}
	g.frames = append(g.frames, f)
	g.indented(func() { g.block(body) })
	g.frames = g.frames[:len(g.frames)-1]
	g.emit("}")

	if f.label != "" {
		line := g.lines[f.header]
		trimmed := strings.TrimLeft(line, " ")
		g.lines[f.header] = line[:len(line)-len(trimmed)] + f.label + ": " + trimmed
	}
}

func (g *generator) breakStatement() {
	if len(g.frames) == 0 || g.frames[len(g.frames)-1].kind == loopFrame {
		g.emit("break;")
		return
	}
	for i := len(g.frames) - 1; i >= 0; i-- {
		f := g.frames[i]
		if f.kind != loopFrame {
			continue
		}
		if f.label == "" {
			g.labels++
			f.label = "loop_" + strconv.Itoa(g.labels)
		}
		g.emit("break %s;", f.label)
		return
	}
	g.emit("break;")
}

func (g *generator) statement(n ast.Node) {
	switch s := n.(type) {
	case *ast.VariableDeclaration:
		name := g.expression(s.Variable)
		if s.Init == nil {
			g.emit("let %s;", name)
			return
		}
		g.emit("let %s = %s;", name, g.expression(s.Init))
	case *ast.Assignment:
		g.emit("%s = %s;", g.expression(s.Target), g.expression(s.Source))
	case *ast.FunctionDeclaration:
		name := g.expression(s.Function)
		params := make([]string, 0, len(s.Params))
		for _, p := range s.Params {
			params = append(params, g.expression(p.Variable))
		}
		g.emit("function %s(%s) {", name, strings.Join(params, ", "))

		// loops around a declaration are not around its body
		saved := g.frames
		g.frames = nil
		g.indented(func() { g.block(s.Body) })
		g.frames = saved
		g.emit("}")
	case *ast.IfStatement:
		for i, c := range s.Cases {
			if i == 0 {
				g.emit("if (%s) {", g.expression(c.Condition))
			} else {
				g.emit("} else if (%s) {", g.expression(c.Condition))
			}
			g.indented(func() { g.block(c.Body) })
		}
		if len(s.ElseBlock) > 0 {
			g.emit("} else {")
			g.indented(func() { g.block(s.ElseBlock) })
		}
		g.emit("}")
	case *ast.WhileStatement:
		g.loop(fmt.Sprintf("while (%s)", g.expression(s.Condition)), s.Body)
	case *ast.ForStatement:
		header := fmt.Sprintf("for (let %s = %s; %s; %s)",
			g.expression(s.Variable), g.expression(s.Init), g.expression(s.Condition), g.expression(s.Step))
		g.loop(header, s.Body)
	case *ast.SwitchStatement:
		g.switchStatement(s)
	case *ast.ReturnStatement:
		g.emit("return %s;", g.expression(s.Expression))
	case *ast.ShortReturnStatement:
		g.emit("return;")
	case *ast.Break:
		g.breakStatement()
	case *ast.Continue:
		g.emit("continue;")
	default:
		g.emit("%s;", g.expression(n))
	}
}

func (g *generator) switchStatement(s *ast.SwitchStatement) {
	g.emit("switch(%s) {", g.expression(s.Expression))
	g.frames = append(g.frames, &frame{kind: switchFrame})
	g.indented(func() {
		for _, c := range s.Cases {
			g.emit("case %s:", g.expression(c.CaseExpression))
			g.indented(func() {
				g.block(c.Statements)
				g.emit("break;")
			})
		}
		if s.DefaultCase != nil {
			g.emit("default:")
			g.indented(func() { g.block(s.DefaultCase) })
		}
	})
	g.frames = g.frames[:len(g.frames)-1]
	g.emit("}")
}

var operators = map[string]string{
	"==": "===",
	"!=": "!==",
	"^":  "**",
}

func (g *generator) list(nodes []ast.Node, sep string) string {
	parts := make([]string, 0, len(nodes))
	for _, n := range nodes {
		parts = append(parts, g.expression(n))
	}
	return strings.Join(parts, sep)
}

func quote(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		panic(err)
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

func (g *generator) expression(n ast.Node) string {
	switch e := n.(type) {
	case *ast.Variable:
		if e.ID == stdlib.PiID {
			return "Math.PI"
		}
		return g.targetName(e.ID, e.Name)
	case *ast.Function:
		return g.targetName(e.ID, e.Name)
	case *ast.IntLiteral:
		return e.Value.String() + "n"
	case *ast.FloatLiteral:
		return strconv.FormatFloat(e.Value, 'g', -1, 64)
	case *ast.StringLiteral:
		return quote(e.Value)
	case *ast.Bool:
		return strconv.FormatBool(e.Value)
	case *ast.BinaryExpression:
		left, right := g.expression(e.Left), g.expression(e.Right)
		switch e.Op {
		case "+=", "-=":
			return fmt.Sprintf("%s %s %s", left, e.Op, right)
		case "^":
			// a unary operand on the left of ** is a syntax error
			if strings.HasPrefix(left, "-") || strings.HasPrefix(left, "!") {
				left = "(" + left + ")"
			}
		}
		op, ok := operators[e.Op]
		if !ok {
			op = e.Op
		}
		return fmt.Sprintf("(%s %s %s)", left, op, right)
	case *ast.UnaryExpression:
		operand := g.expression(e.Operand)
		if !e.Prefix {
			return operand + e.Op
		}
		return fmt.Sprintf("%s(%s)", e.Op, operand)
	case *ast.Call:
		if f, ok := e.Callee.(*ast.Function); ok {
			switch f.ID {
			case stdlib.PourID:
				g.prints = true
				return fmt.Sprintf("console.log(__show(%s))", g.list(e.Args, ", "))
			case stdlib.SpeciesID:
				return "typeof " + g.list(e.Args, ", ")
			}
		}
		return fmt.Sprintf("%s(%s)", g.expression(e.Callee), g.list(e.Args, ", "))
	case *ast.ArrayLiteral:
		return "[" + g.list(e.Elements, ",") + "]"
	case *ast.MapLiteral:
		pairs := make([]string, 0, len(e.Pairs))
		for _, kv := range e.Pairs {
			pairs = append(pairs, fmt.Sprintf("[%s]: %s", g.expression(kv.Key), g.expression(kv.Value)))
		}
		return "{" + strings.Join(pairs, ", ") + "}"
	case *ast.MemberExpression:
		return fmt.Sprintf("(%s[%s])", g.expression(e.Array), e.Index.Value.String())
	case *ast.PropertyExpression:
		return fmt.Sprintf("(%s[%s])", g.expression(e.Map), g.expression(e.Key))
	}
	panic(fmt.Sprintf("unhandled node %T", n))
}
