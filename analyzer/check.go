package analyzer

import (
	"math/big"
	"strconv"

	"github.com/pontaoski/lemonc/ast"
	"github.com/pontaoski/lemonc/errors"
)

func must(condition bool, format string, args ...interface{}) {
	if !condition {
		panic(errors.Semanticf(format, args...))
	}
}

func typeName(t ast.Type) string {
	if t == nil {
		return "nothing"
	}
	return t.String()
}

func isNumeric(n ast.Node) {
	t := ast.TypeOf(n)
	must(t == ast.Int || t == ast.Float, "Expected a number, found %s", typeName(t))
}

func isNumericOrString(n ast.Node) {
	t := ast.TypeOf(n)
	must(t == ast.Int || t == ast.Float || t == ast.String,
		"Expected a number or string, found %s", typeName(t))
}

func isBoolean(n ast.Node) {
	t := ast.TypeOf(n)
	must(t == ast.Boolean, "Expected a boolean, found %s", typeName(t))
}

func isInteger(n ast.Node) {
	t := ast.TypeOf(n)
	must(t == ast.Int, "Expected an integer, found %s", typeName(t))
}

func hasSameTypeAs(a, b ast.Node) {
	must(ast.Equivalent(ast.TypeOf(a), ast.TypeOf(b)), "Operands do not have the same type")
}

func isAssignableTo(n ast.Node, t ast.Type) {
	from := ast.TypeOf(n)
	must(ast.Assignable(from, t), "Cannot assign a %s to a %s", typeName(from), typeName(t))
}

func isNotAConstant(n ast.Node) {
	switch v := n.(type) {
	case *ast.Variable:
		must(!v.IsConst, "Cannot assign to constant %s", v.Name)
	case *ast.Function:
		must(false, "Cannot assign to constant %s", v.Name)
	}
}

func allHaveSameType(nodes []ast.Node, message string) {
	for _, n := range nodes[1:] {
		must(ast.Equivalent(ast.TypeOf(n), ast.TypeOf(nodes[0])), message)
	}
}

// fingerprint identifies keys that are certainly equal at run time. Keys it
// cannot reason about get "" and are never reported.
func fingerprint(n ast.Node) string {
	switch v := n.(type) {
	case *ast.IntLiteral:
		return "i" + v.Value.String()
	case *ast.FloatLiteral:
		return "f" + strconv.FormatFloat(v.Value, 'g', -1, 64)
	case *ast.StringLiteral:
		return "s" + strconv.Quote(v.Value)
	case *ast.Bool:
		return "b" + strconv.FormatBool(v.Value)
	case *ast.Variable:
		return "v" + strconv.Itoa(v.ID)
	}
	return ""
}

func areAllDistinct(keys []ast.Node) {
	seen := map[string]bool{}
	for _, k := range keys {
		f := fingerprint(k)
		if f == "" {
			continue
		}
		must(!seen[f], "Keys must be distinct")
		seen[f] = true
	}
}

func copyInt(v *big.Int) *ast.IntLiteral {
	return &ast.IntLiteral{Value: new(big.Int).Set(v)}
}
