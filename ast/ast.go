// Package ast holds the syntax tree of lemonScript programs. The same node
// types are used before and after analysis; analysis replaces identifiers
// with the entities they resolve to and fills in the Type fields.
package ast

import "math/big"

//go:generate sh -c "cd ../tool && go run . ../ast/nodes.adt ../ast/nodes_gen.go ast"

type Node interface {
	is_Node()
}

type Program struct {
	Imports    []*Import
	Statements []Node
}

type Import struct {
	Name string
	From string
}

type ClassDeclaration struct {
	Name        string
	Extends     string
	Params      []*Parameter
	Constructor []Node
	Body        []Node
}

type VariableDeclaration struct {
	Type     Type
	Name     string
	Init     Node
	IsConst  bool
	IsStatic bool

	Variable *Variable
}

type Assignment struct {
	Target Node
	Source Node
}

type FunctionDeclaration struct {
	Name       string
	IsStatic   bool
	ReturnType Type
	Params     []*Parameter
	Body       []Node

	Function *Function
}

type Parameter struct {
	Type Type
	Name string

	Variable *Variable
}

type Call struct {
	Callee Node
	Args   []Node
	Type   Type
}

type IfStatement struct {
	Cases     []*IfCase
	ElseBlock []Node
}

type IfCase struct {
	Condition Node
	Body      []Node
}

type WhileStatement struct {
	Condition Node
	Body      []Node
}

// ForStatement is the counting loop. Step is either a postfix
// UnaryExpression ("++"/"--") or a compound BinaryExpression ("+="/"-=")
// on the loop variable.
type ForStatement struct {
	Name      string
	Init      Node
	Condition Node
	Step      Node
	Body      []Node

	Variable *Variable
}

// SwitchStatement runs the first case whose expression equals the
// scrutinee and nothing else.
type SwitchStatement struct {
	Expression  Node
	Cases       []*SwitchCase
	DefaultCase []Node
}

type SwitchCase struct {
	CaseExpression Node
	Statements     []Node
}

type ReturnStatement struct {
	Expression Node
}

type ShortReturnStatement struct{}

type Break struct{}

type Continue struct{}

// BinaryExpression also carries the compound assignments "+=" and "-=".
type BinaryExpression struct {
	Left  Node
	Op    string
	Right Node
	Type  Type
}

type UnaryExpression struct {
	Op      string
	Operand Node
	Prefix  bool
	Type    Type
}

type ArrayLiteral struct {
	Elements []Node
	Type     Type
}

type MapLiteral struct {
	Pairs []*KeyValue
	Type  Type
}

type KeyValue struct {
	Key   Node
	Value Node
}

// MemberExpression indexes an array with a literal index.
type MemberExpression struct {
	Array Node
	Index *IntLiteral
	Type  Type
}

// PropertyExpression looks a key up in a map: m.key(k).
type PropertyExpression struct {
	Map  Node
	Key  Node
	Type Type
}

type Identifier struct {
	Name string
}

type IntLiteral struct {
	Value *big.Int
}

type FloatLiteral struct {
	Value float64
}

type StringLiteral struct {
	Value string
}

type Bool struct {
	Name  string
	Value bool
	Type  Type
}

func NewInt(v int64) *IntLiteral {
	return &IntLiteral{Value: big.NewInt(v)}
}

func NewBool(v bool) *Bool {
	if v {
		return &Bool{Name: "sweet", Value: true, Type: Boolean}
	}
	return &Bool{Name: "sour", Value: false, Type: Boolean}
}

// TypeOf returns the static type of an expression, or nil for nodes that
// carry none (statements, undecorated identifiers).
func TypeOf(n Node) Type {
	switch v := n.(type) {
	case *IntLiteral:
		return Int
	case *FloatLiteral:
		return Float
	case *StringLiteral:
		return String
	case *Bool:
		return v.Type
	case *Variable:
		return v.Type
	case *Function:
		if v.Type == nil {
			return nil
		}
		return v.Type
	case *Call:
		return v.Type
	case *BinaryExpression:
		return v.Type
	case *UnaryExpression:
		return v.Type
	case *ArrayLiteral:
		return v.Type
	case *MapLiteral:
		return v.Type
	case *MemberExpression:
		return v.Type
	case *PropertyExpression:
		return v.Type
	}
	return nil
}
