package optimizer

import (
	"fmt"
	"math/big"

	"github.com/pontaoski/lemonc/ast"
)

func isLoopVariable(n ast.Node, v *ast.Variable) bool {
	x, ok := n.(*ast.Variable)
	return ok && v != nil && x.ID == v.ID
}

// iterations counts how often a for loop runs when its bounds and step are
// known. ok is false for any other loop.
func iterations(loop *ast.ForStatement) (start *big.Int, step int64, count *big.Int, ok bool) {
	init, ok := loop.Init.(*ast.IntLiteral)
	if !ok {
		return nil, 0, nil, false
	}
	cond, ok := loop.Condition.(*ast.BinaryExpression)
	if !ok || !isLoopVariable(cond.Left, loop.Variable) {
		return nil, 0, nil, false
	}
	bound, ok := cond.Right.(*ast.IntLiteral)
	if !ok {
		return nil, 0, nil, false
	}

	switch s := loop.Step.(type) {
	case *ast.UnaryExpression:
		if !isLoopVariable(s.Operand, loop.Variable) {
			return nil, 0, nil, false
		}
		switch s.Op {
		case "++":
			step = 1
		case "--":
			step = -1
		}
	case *ast.BinaryExpression:
		if !isLoopVariable(s.Left, loop.Variable) || !hasValue(s.Right, 1) {
			return nil, 0, nil, false
		}
		if _, isInt := s.Right.(*ast.IntLiteral); !isInt {
			return nil, 0, nil, false
		}
		switch s.Op {
		case "+=":
			step = 1
		case "-=":
			step = -1
		}
	}

	count = new(big.Int)
	switch {
	case step == 1 && cond.Op == "<":
		count.Sub(bound.Value, init.Value)
	case step == 1 && cond.Op == "<=":
		count.Sub(bound.Value, init.Value)
		count.Add(count, big.NewInt(1))
	case step == -1 && cond.Op == ">":
		count.Sub(init.Value, bound.Value)
	case step == -1 && cond.Op == ">=":
		count.Sub(init.Value, bound.Value)
		count.Add(count, big.NewInt(1))
	default:
		return nil, 0, nil, false
	}
	if count.Sign() < 0 {
		count.SetInt64(0)
	}
	return init.Value, step, count, true
}

// unrollable reports whether every statement of a loop body can be copied
// once per iteration with the loop variable replaced by a literal.
func unrollable(body []ast.Node, v *ast.Variable) bool {
	for _, s := range body {
		switch x := s.(type) {
		case *ast.WhileStatement, *ast.ForStatement, *ast.IfStatement, *ast.SwitchStatement,
			*ast.FunctionDeclaration, *ast.ClassDeclaration, *ast.Break, *ast.Continue:
			return false
		case *ast.VariableDeclaration:
			// each copy would declare the same binding again
			return false
		case *ast.Assignment:
			if isLoopVariable(x.Target, v) {
				return false
			}
		case *ast.UnaryExpression:
			if (x.Op == "++" || x.Op == "--") && isLoopVariable(x.Operand, v) {
				return false
			}
		case *ast.BinaryExpression:
			if (x.Op == "+=" || x.Op == "-=") && isLoopVariable(x.Left, v) {
				return false
			}
		}
	}
	return true
}

func (o *Optimizer) unroll(loop *ast.ForStatement) ([]ast.Node, bool) {
	start, step, count, ok := iterations(loop)
	if !ok || count.Cmp(big.NewInt(int64(o.maxUnroll))) > 0 || !unrollable(loop.Body, loop.Variable) {
		return nil, false
	}

	n := int(count.Int64())
	log.Debugf("unrolling loop over %s: %d iterations", loop.Name, n)
	out := []ast.Node{}
	i := new(big.Int).Set(start)
	for k := 0; k < n; k++ {
		value := &ast.IntLiteral{Value: new(big.Int).Set(i)}
		for _, s := range loop.Body {
			out = append(out, o.statement(substitute(s, loop.Variable, value))...)
		}
		i.Add(i, big.NewInt(step))
	}
	return out, true
}

func substituteAll(list []ast.Node, v *ast.Variable, value *ast.IntLiteral) []ast.Node {
	if list == nil {
		return nil
	}
	out := make([]ast.Node, 0, len(list))
	for _, n := range list {
		out = append(out, substitute(n, v, value))
	}
	return out
}

// substitute copies n with every use of v replaced by value.
func substitute(n ast.Node, v *ast.Variable, value *ast.IntLiteral) ast.Node {
	if n == nil {
		return nil
	}
	switch x := n.(type) {
	case *ast.Variable:
		if x.ID == v.ID {
			return value
		}
		return x
	case *ast.Assignment:
		return &ast.Assignment{Target: substitute(x.Target, v, value), Source: substitute(x.Source, v, value)}
	case *ast.ReturnStatement:
		return &ast.ReturnStatement{Expression: substitute(x.Expression, v, value)}
	case *ast.BinaryExpression:
		return &ast.BinaryExpression{
			Left:  substitute(x.Left, v, value),
			Op:    x.Op,
			Right: substitute(x.Right, v, value),
			Type:  x.Type,
		}
	case *ast.UnaryExpression:
		return &ast.UnaryExpression{Op: x.Op, Operand: substitute(x.Operand, v, value), Prefix: x.Prefix, Type: x.Type}
	case *ast.Call:
		return &ast.Call{Callee: substitute(x.Callee, v, value), Args: substituteAll(x.Args, v, value), Type: x.Type}
	case *ast.ArrayLiteral:
		return &ast.ArrayLiteral{Elements: substituteAll(x.Elements, v, value), Type: x.Type}
	case *ast.MapLiteral:
		out := &ast.MapLiteral{Pairs: []*ast.KeyValue{}, Type: x.Type}
		for _, kv := range x.Pairs {
			out.Pairs = append(out.Pairs, &ast.KeyValue{
				Key:   substitute(kv.Key, v, value),
				Value: substitute(kv.Value, v, value),
			})
		}
		return out
	case *ast.MemberExpression:
		return &ast.MemberExpression{Array: substitute(x.Array, v, value), Index: x.Index, Type: x.Type}
	case *ast.PropertyExpression:
		return &ast.PropertyExpression{Map: substitute(x.Map, v, value), Key: substitute(x.Key, v, value), Type: x.Type}
	case *ast.IntLiteral, *ast.FloatLiteral, *ast.StringLiteral, *ast.Bool,
		*ast.Function, *ast.Identifier, *ast.ShortReturnStatement:
		return x
	}
	panic(fmt.Sprintf("cannot substitute into %T", n))
}
