// Package optimizer simplifies analyzed programs. Every rewrite preserves
// behaviour; the result is a new tree, although immutable leaves (literals
// and entities) are shared with the input.
package optimizer

import (
	"fmt"
	"math"
	"math/big"

	"github.com/coreos/pkg/capnslog"
	"github.com/pontaoski/lemonc/ast"
)

var log = capnslog.NewPackageLogger("github.com/pontaoski/lemonc", "optimizer")

const DefaultMaxUnroll = 64

// maxFoldedExponent bounds the integer powers computed at compile time.
const maxFoldedExponent = 4096

type Options struct {
	// MaxUnroll is the largest iteration count a loop is unrolled for.
	// Zero means DefaultMaxUnroll.
	MaxUnroll int
}

type Optimizer struct {
	maxUnroll int
}

func New(opts Options) *Optimizer {
	o := &Optimizer{maxUnroll: opts.MaxUnroll}
	if o.maxUnroll <= 0 {
		o.maxUnroll = DefaultMaxUnroll
	}
	return o
}

var defaultOptimizer = New(Options{})

// Optimize rewrites a statement, which may turn into any number of
// statements.
func Optimize(n ast.Node) []ast.Node {
	return defaultOptimizer.Optimize(n)
}

func OptimizeExpression(e ast.Node) ast.Node {
	return defaultOptimizer.OptimizeExpression(e)
}

func OptimizeProgram(p *ast.Program) *ast.Program {
	return defaultOptimizer.OptimizeProgram(p)
}

func (o *Optimizer) OptimizeProgram(p *ast.Program) *ast.Program {
	return &ast.Program{
		Imports:    p.Imports,
		Statements: o.statements(p.Statements),
	}
}

func (o *Optimizer) Optimize(n ast.Node) []ast.Node {
	if p, ok := n.(*ast.Program); ok {
		return []ast.Node{o.OptimizeProgram(p)}
	}
	return o.statement(n)
}

func (o *Optimizer) OptimizeExpression(e ast.Node) ast.Node {
	return o.expression(e)
}

func (o *Optimizer) statements(list []ast.Node) []ast.Node {
	if list == nil {
		return nil
	}
	out := []ast.Node{}
	for _, s := range list {
		out = append(out, o.statement(s)...)
	}
	return out
}

func sameEntity(a, b ast.Node) bool {
	switch x := a.(type) {
	case *ast.Variable:
		y, ok := b.(*ast.Variable)
		return ok && x.ID == y.ID
	case *ast.Function:
		y, ok := b.(*ast.Function)
		return ok && x.ID == y.ID
	}
	return false
}

func (o *Optimizer) statement(n ast.Node) []ast.Node {
	switch s := n.(type) {
	case *ast.VariableDeclaration:
		d := *s
		if s.Init != nil {
			d.Init = o.expression(s.Init)
		}
		return []ast.Node{&d}
	case *ast.Assignment:
		source := o.expression(s.Source)
		target := o.expression(s.Target)
		if sameEntity(source, target) {
			log.Tracef("dropping self assignment")
			return nil
		}
		return []ast.Node{&ast.Assignment{Target: target, Source: source}}
	case *ast.FunctionDeclaration:
		f := *s
		f.Body = o.statements(s.Body)
		return []ast.Node{&f}
	case *ast.IfStatement:
		return o.ifStatement(s)
	case *ast.WhileStatement:
		cond := o.expression(s.Condition)
		if b, ok := cond.(*ast.Bool); ok && !b.Value {
			log.Tracef("dropping while loop that never runs")
			return nil
		}
		return []ast.Node{&ast.WhileStatement{Condition: cond, Body: o.statements(s.Body)}}
	case *ast.ForStatement:
		return o.forStatement(s)
	case *ast.SwitchStatement:
		out := &ast.SwitchStatement{
			Expression:  o.expression(s.Expression),
			DefaultCase: o.statements(s.DefaultCase),
		}
		for _, c := range s.Cases {
			out.Cases = append(out.Cases, &ast.SwitchCase{
				CaseExpression: o.expression(c.CaseExpression),
				Statements:     o.statements(c.Statements),
			})
		}
		return []ast.Node{out}
	case *ast.ReturnStatement:
		return []ast.Node{&ast.ReturnStatement{Expression: o.expression(s.Expression)}}
	case *ast.ShortReturnStatement, *ast.Break, *ast.Continue, *ast.ClassDeclaration:
		return []ast.Node{s}
	case *ast.BinaryExpression:
		if s.Op == "+=" || s.Op == "-=" {
			return o.desugar(s)
		}
	}
	return []ast.Node{o.expression(n)}
}

// desugar turns x += e into x = x + e, then optimizes that assignment so
// that x += 0 disappears like any other self assignment.
func (o *Optimizer) desugar(e *ast.BinaryExpression) []ast.Node {
	op := e.Op[:1]
	return o.statement(&ast.Assignment{
		Target: e.Left,
		Source: &ast.BinaryExpression{Left: e.Left, Op: op, Right: e.Right, Type: e.Type},
	})
}

func (o *Optimizer) ifStatement(s *ast.IfStatement) []ast.Node {
	var cases []*ast.IfCase
	for _, c := range s.Cases {
		cond := o.expression(c.Condition)
		body := o.statements(c.Body)

		if b, ok := cond.(*ast.Bool); ok {
			if !b.Value {
				continue
			}
			// nothing after a case that always runs can be reached
			if len(cases) == 0 {
				return body
			}
			return []ast.Node{&ast.IfStatement{Cases: cases, ElseBlock: body}}
		}
		cases = append(cases, &ast.IfCase{Condition: cond, Body: body})
	}

	elseBlock := o.statements(s.ElseBlock)
	if len(cases) == 0 {
		return elseBlock
	}
	return []ast.Node{&ast.IfStatement{Cases: cases, ElseBlock: elseBlock}}
}

func (o *Optimizer) forStatement(s *ast.ForStatement) []ast.Node {
	loop := &ast.ForStatement{
		Name:      s.Name,
		Init:      o.expression(s.Init),
		Condition: o.expression(s.Condition),
		Step:      o.expression(s.Step),
		Body:      o.statements(s.Body),
		Variable:  s.Variable,
	}
	if unrolled, ok := o.unroll(loop); ok {
		return unrolled
	}
	return []ast.Node{loop}
}

func (o *Optimizer) expressions(list []ast.Node) []ast.Node {
	if list == nil {
		return nil
	}
	out := make([]ast.Node, 0, len(list))
	for _, e := range list {
		out = append(out, o.expression(e))
	}
	return out
}

func (o *Optimizer) expression(n ast.Node) ast.Node {
	switch e := n.(type) {
	case *ast.BinaryExpression:
		return o.binaryExpression(e)
	case *ast.UnaryExpression:
		return unaryExpression(e.Op, o.expression(e.Operand), e.Prefix, e.Type)
	case *ast.Call:
		return &ast.Call{Callee: o.expression(e.Callee), Args: o.expressions(e.Args), Type: e.Type}
	case *ast.ArrayLiteral:
		return &ast.ArrayLiteral{Elements: o.expressions(e.Elements), Type: e.Type}
	case *ast.MapLiteral:
		out := &ast.MapLiteral{Pairs: []*ast.KeyValue{}, Type: e.Type}
		for _, kv := range e.Pairs {
			out.Pairs = append(out.Pairs, &ast.KeyValue{Key: o.expression(kv.Key), Value: o.expression(kv.Value)})
		}
		return out
	case *ast.MemberExpression:
		return &ast.MemberExpression{Array: o.expression(e.Array), Index: e.Index, Type: e.Type}
	case *ast.PropertyExpression:
		return &ast.PropertyExpression{Map: o.expression(e.Map), Key: o.expression(e.Key), Type: e.Type}
	case *ast.IntLiteral, *ast.FloatLiteral, *ast.StringLiteral, *ast.Bool,
		*ast.Variable, *ast.Function, *ast.Identifier:
		return n
	}
	panic(fmt.Sprintf("unhandled node %T", n))
}

func isBool(n ast.Node, v bool) bool {
	b, ok := n.(*ast.Bool)
	return ok && b.Value == v
}

func isNumber(n ast.Node) bool {
	switch n.(type) {
	case *ast.IntLiteral, *ast.FloatLiteral:
		return true
	}
	return false
}

func hasValue(n ast.Node, v int64) bool {
	switch x := n.(type) {
	case *ast.IntLiteral:
		return x.Value.IsInt64() && x.Value.Int64() == v
	case *ast.FloatLiteral:
		return x.Value == float64(v)
	}
	return false
}

// oneLike is a literal 1 of the same kind as n.
func oneLike(n ast.Node) ast.Node {
	if _, ok := n.(*ast.FloatLiteral); ok {
		return &ast.FloatLiteral{Value: 1}
	}
	return ast.NewInt(1)
}

func (o *Optimizer) binaryExpression(e *ast.BinaryExpression) ast.Node {
	left := o.expression(e.Left)
	right := o.expression(e.Right)
	out := &ast.BinaryExpression{Left: left, Op: e.Op, Right: right, Type: e.Type}

	switch e.Op {
	case "+=", "-=":
		out.Left = e.Left
		return out
	case "&&":
		switch {
		case isBool(left, true):
			return right
		case isBool(right, true):
			return left
		case isBool(left, false):
			return left
		}
		return out
	case "||":
		switch {
		case isBool(left, false):
			return right
		case isBool(right, false):
			return left
		case isBool(left, true):
			return left
		}
		return out
	}

	if isNumber(left) && isNumber(right) {
		if folded, ok := foldNumbers(left, e.Op, right); ok {
			log.Tracef("folded %s", e.Op)
			return folded
		}
		return out
	}
	if folded, ok := foldOther(left, e.Op, right); ok {
		return folded
	}

	switch {
	case isNumber(left):
		switch {
		case hasValue(left, 0) && e.Op == "+":
			return right
		case hasValue(left, 1) && e.Op == "*":
			return right
		case hasValue(left, 0) && e.Op == "-":
			return &ast.UnaryExpression{Op: "-", Operand: right, Prefix: true, Type: e.Type}
		case hasValue(left, 1) && e.Op == "^":
			return left
		case hasValue(left, 0) && (e.Op == "*" || e.Op == "/"):
			return left
		}
	case isNumber(right):
		switch {
		case hasValue(right, 0) && (e.Op == "+" || e.Op == "-"):
			return left
		case hasValue(right, 1) && (e.Op == "*" || e.Op == "/"):
			return left
		case hasValue(right, 0) && e.Op == "*":
			return right
		case hasValue(right, 0) && e.Op == "^":
			return oneLike(right)
		}
	}
	return out
}

// foldOther folds string concatenation and (in)equality of strings and
// booleans.
func foldOther(left ast.Node, op string, right ast.Node) (ast.Node, bool) {
	if l, ok := left.(*ast.StringLiteral); ok {
		if r, ok := right.(*ast.StringLiteral); ok {
			switch op {
			case "+":
				return &ast.StringLiteral{Value: l.Value + r.Value}, true
			case "==":
				return ast.NewBool(l.Value == r.Value), true
			case "!=":
				return ast.NewBool(l.Value != r.Value), true
			}
		}
	}
	if l, ok := left.(*ast.Bool); ok {
		if r, ok := right.(*ast.Bool); ok {
			switch op {
			case "==":
				return ast.NewBool(l.Value == r.Value), true
			case "!=":
				return ast.NewBool(l.Value != r.Value), true
			}
		}
	}
	return nil, false
}

func foldNumbers(left ast.Node, op string, right ast.Node) (ast.Node, bool) {
	l, lok := left.(*ast.IntLiteral)
	r, rok := right.(*ast.IntLiteral)
	if lok && rok {
		return foldInts(l.Value, op, r.Value)
	}
	return foldFloats(toFloat(left), op, toFloat(right))
}

func toFloat(n ast.Node) float64 {
	switch x := n.(type) {
	case *ast.IntLiteral:
		f, _ := new(big.Float).SetInt(x.Value).Float64()
		return f
	case *ast.FloatLiteral:
		return x.Value
	}
	panic(fmt.Sprintf("not a number: %T", n))
}

func compare(c int, op string) (ast.Node, bool) {
	switch op {
	case "<":
		return ast.NewBool(c < 0), true
	case "<=":
		return ast.NewBool(c <= 0), true
	case "==":
		return ast.NewBool(c == 0), true
	case "!=":
		return ast.NewBool(c != 0), true
	case ">=":
		return ast.NewBool(c >= 0), true
	case ">":
		return ast.NewBool(c > 0), true
	}
	return nil, false
}

// foldInts follows BigInt semantics: division and remainder truncate, and
// nothing is folded that would throw at run time.
func foldInts(l *big.Int, op string, r *big.Int) (ast.Node, bool) {
	result := new(big.Int)
	switch op {
	case "+":
		result.Add(l, r)
	case "-":
		result.Sub(l, r)
	case "*":
		result.Mul(l, r)
	case "/":
		if r.Sign() == 0 {
			return nil, false
		}
		result.Quo(l, r)
	case "%":
		if r.Sign() == 0 {
			return nil, false
		}
		result.Rem(l, r)
	case "^":
		if r.Sign() < 0 || (l.CmpAbs(big.NewInt(1)) > 0 && r.Cmp(big.NewInt(maxFoldedExponent)) > 0) {
			return nil, false
		}
		result.Exp(l, r, nil)
	default:
		return compare(l.Cmp(r), op)
	}
	return &ast.IntLiteral{Value: result}, true
}

func foldFloats(l float64, op string, r float64) (ast.Node, bool) {
	var result float64
	switch op {
	case "+":
		result = l + r
	case "-":
		result = l - r
	case "*":
		result = l * r
	case "/":
		result = l / r
	case "%":
		result = math.Mod(l, r)
	case "^":
		result = math.Pow(l, r)
	default:
		switch {
		case l < r:
			return compare(-1, op)
		case l > r:
			return compare(1, op)
		case l == r:
			return compare(0, op)
		}
		// NaN never compares
		return nil, false
	}
	if math.IsInf(result, 0) || math.IsNaN(result) {
		return nil, false
	}
	return &ast.FloatLiteral{Value: result}, true
}

func unaryExpression(op string, operand ast.Node, prefix bool, t ast.Type) ast.Node {
	switch op {
	case "-":
		switch v := operand.(type) {
		case *ast.IntLiteral:
			return &ast.IntLiteral{Value: new(big.Int).Neg(v.Value)}
		case *ast.FloatLiteral:
			return &ast.FloatLiteral{Value: -v.Value}
		}
	case "!":
		if b, ok := operand.(*ast.Bool); ok {
			return ast.NewBool(!b.Value)
		}
	}
	return &ast.UnaryExpression{Op: op, Operand: operand, Prefix: prefix, Type: t}
}
