package parser

import (
	"math/big"
	"strconv"

	"github.com/pontaoski/lemonc/ast"
	"github.com/pontaoski/lemonc/lexer"
	"github.com/pontaoski/lemonc/types"
	"github.com/ztrue/tracerr"
)

// Parser is a backtracking recursive descent parser. Every rule either
// consumes its input and reports success, or leaves the lexer where it found
// it and reports failure, so alternatives are tried in order like a PEG.
type Parser struct {
	l *lexer.Lexer

	// variables caches variable() by start offset. Calls and assignments
	// share a variable prefix, and without the cache nested m.key(...)
	// accessors are reparsed once per alternative at every level.
	variables map[int]memo
}

type memo struct {
	node ast.Node
	end  int
	ok   bool
}

func NewParser(l *lexer.Lexer) Parser {
	return Parser{l: l, variables: map[int]memo{}}
}

func Parse(source string) (*ast.Program, error) {
	return ParseFile(source, "")
}

func ParseFile(source, filename string) (prog *ast.Program, err error) {
	p := NewParser(lexer.NewLexer(source, filename))

	defer func() {
		if r := recover(); r != nil {
			rerr, ok := r.(error)
			if ok {
				prog = nil
				err = tracerr.Wrap(rerr)
			} else {
				panic(r)
			}
		}
	}()

	prog = p.program()
	return
}

func (p *Parser) program() *ast.Program {
	prog := &ast.Program{}
	for {
		imp, ok := p.importClause()
		if !ok {
			break
		}
		prog.Imports = append(prog.Imports, imp)
	}
	prog.Statements = p.statements()
	if !p.l.AtEOF() {
		panic(p.l.Error())
	}
	return prog
}

func (p *Parser) importClause() (*ast.Import, bool) {
	m := p.l.Mark()
	if p.l.Keyword(types.IMPORT) {
		name, ok := p.l.Identifier()
		if ok && p.l.Keyword(types.FROM) {
			from, ok := p.l.Identifier()
			if ok {
				return &ast.Import{Name: name.Text, From: from.Text}, true
			}
		}
	}
	p.l.Reset(m)
	return nil, false
}

func (p *Parser) statements() []ast.Node {
	var stmts []ast.Node
	for {
		s, ok := p.statement()
		if !ok {
			return stmts
		}
		stmts = append(stmts, s)
	}
}

type rule func() (ast.Node, bool)

// choice tries each rule in order from the same starting point.
func (p *Parser) choice(rules ...rule) (ast.Node, bool) {
	m := p.l.Mark()
	for _, r := range rules {
		if n, ok := r(); ok {
			return n, true
		}
		p.l.Reset(m)
	}
	return nil, false
}

func (p *Parser) statement() (ast.Node, bool) {
	return p.choice(
		p.variableDeclaration,
		p.assignment,
		p.switchStatement,
		p.call,
		p.functionDeclaration,
		p.ifStatement,
		p.whileStatement,
		p.forStatement,
		p.classDeclaration,
		p.print,
		p.typeOf,
		p.returnStatement,
		p.crement,
		p.continueStatement,
		p.breakStatement,
		p.expression,
	)
}

func (p *Parser) variableDeclaration() (ast.Node, bool) {
	d := &ast.VariableDeclaration{}
	d.IsConst = p.l.Keyword(types.CONST)
	d.IsStatic = p.l.Keyword(types.STATIC)

	typ, ok := p.typeSpelling()
	if !ok {
		return nil, false
	}
	name, ok := p.l.Identifier()
	if !ok {
		return nil, false
	}
	d.Type = typ
	d.Name = name.Text

	m := p.l.Mark()
	if p.l.Punct("=") {
		if init, ok := p.expression(); ok {
			d.Init = init
			return d, true
		}
	}
	p.l.Reset(m)
	return d, true
}

var primitiveTypes = []types.TokenKind{
	types.STRINGTYPE, types.INTTYPE, types.BOOLTYPE, types.FLOATTYPE,
}

// typeSpelling parses a primitive type keyword or a map type, followed by
// any number of "[]".
func (p *Parser) typeSpelling() (ast.Type, bool) {
	var typ ast.Type

	m := p.l.Mark()
	for _, k := range primitiveTypes {
		if p.l.Keyword(k) {
			typ = &ast.TypeName{Name: k.Spelling()}
			break
		}
	}
	if typ == nil {
		if !p.l.Punct("<") {
			return nil, false
		}
		key, ok := p.typeSpelling()
		if !ok || !p.l.Punct(",") {
			p.l.Reset(m)
			return nil, false
		}
		value, ok := p.typeSpelling()
		if !ok || !p.l.Punct(">") {
			p.l.Reset(m)
			return nil, false
		}
		typ = &ast.MapType{KeyType: key, ValueType: value}
	}

	for p.l.Punct("[]") {
		typ = &ast.ArrayType{MemberType: typ}
	}
	return typ, true
}

// bindingType also accepts a bare identifier, resolved (or rejected) by
// the analyzer.
func (p *Parser) bindingType() (ast.Type, bool) {
	if t, ok := p.typeSpelling(); ok {
		return t, true
	}
	if id, ok := p.l.Identifier(); ok {
		return &ast.TypeName{Name: id.Text}, true
	}
	return nil, false
}

func (p *Parser) assignment() (ast.Node, bool) {
	target, ok := p.variable()
	if !ok || !p.l.Punct("=") {
		return nil, false
	}
	source, ok := p.expression()
	if !ok {
		return nil, false
	}
	return &ast.Assignment{Target: target, Source: source}, true
}

func (p *Parser) switchStatement() (ast.Node, bool) {
	if !p.l.Keyword(types.SWITCH) || !p.l.Punct("(") {
		return nil, false
	}
	scrutinee, ok := p.variable()
	if !ok || !p.l.Punct(")") || !p.l.Keyword(types.BEGIN) {
		return nil, false
	}

	s := &ast.SwitchStatement{Expression: scrutinee}
	for {
		m := p.l.Mark()
		if !p.l.Keyword(types.CASE) {
			break
		}
		e, ok := p.expression()
		if !ok {
			p.l.Reset(m)
			break
		}
		s.Cases = append(s.Cases, &ast.SwitchCase{CaseExpression: e, Statements: p.statements()})
	}
	if len(s.Cases) == 0 {
		return nil, false
	}
	if p.l.Keyword(types.DEFAULT) {
		s.DefaultCase = p.statements()
		if s.DefaultCase == nil {
			s.DefaultCase = []ast.Node{}
		}
	}
	if !p.l.Keyword(types.END) {
		return nil, false
	}
	return s, true
}

func (p *Parser) call() (ast.Node, bool) {
	callee, ok := p.variable()
	if !ok || !p.l.Punct("(") {
		return nil, false
	}
	args, ok := p.arguments()
	if !ok || !p.l.Punct(")") {
		return nil, false
	}
	return &ast.Call{Callee: callee, Args: args}, true
}

// arguments parses a possibly empty comma separated list of expressions.
func (p *Parser) arguments() ([]ast.Node, bool) {
	args := []ast.Node{}
	e, ok := p.expression()
	if !ok {
		return args, true
	}
	args = append(args, e)
	for {
		m := p.l.Mark()
		if !p.l.Punct(",") {
			return args, true
		}
		e, ok := p.expression()
		if !ok {
			p.l.Reset(m)
			return args, true
		}
		args = append(args, e)
	}
}

func (p *Parser) parameters() []*ast.Parameter {
	params := []*ast.Parameter{}
	for {
		m := p.l.Mark()
		if len(params) > 0 && !p.l.Punct(",") {
			return params
		}
		typ, ok := p.bindingType()
		if !ok {
			p.l.Reset(m)
			return params
		}
		name, ok := p.l.Identifier()
		if !ok {
			p.l.Reset(m)
			return params
		}
		params = append(params, &ast.Parameter{Type: typ, Name: name.Text})
	}
}

func (p *Parser) functionDeclaration() (ast.Node, bool) {
	if !p.l.Keyword(types.FUNCTION) {
		return nil, false
	}
	f := &ast.FunctionDeclaration{}
	f.IsStatic = p.l.Keyword(types.STATIC)

	if p.l.Keyword(types.VOIDTYPE) {
		f.ReturnType = &ast.TypeName{Name: types.VOIDTYPE.Spelling()}
	} else if t, ok := p.bindingType(); ok {
		f.ReturnType = t
	} else {
		return nil, false
	}

	name, ok := p.l.Identifier()
	if !ok || !p.l.Punct("(") {
		return nil, false
	}
	f.Name = name.Text
	f.Params = p.parameters()
	if !p.l.Punct(")") {
		return nil, false
	}
	f.Body, ok = p.block(true)
	if !ok {
		return nil, false
	}
	return f, true
}

// block parses BEGIN JUICING ... END JUICING. Only function bodies may be
// empty.
func (p *Parser) block(allowEmpty bool) ([]ast.Node, bool) {
	if !p.l.Keyword(types.BEGIN) {
		return nil, false
	}
	body := p.statements()
	if len(body) == 0 && !allowEmpty {
		return nil, false
	}
	if !p.l.Keyword(types.END) {
		return nil, false
	}
	if body == nil {
		body = []ast.Node{}
	}
	return body, true
}

func (p *Parser) condition() (ast.Node, bool) {
	if !p.l.Punct("(") {
		return nil, false
	}
	e, ok := p.expression()
	if !ok || !p.l.Punct(")") {
		return nil, false
	}
	return e, true
}

func (p *Parser) ifStatement() (ast.Node, bool) {
	if !p.l.Keyword(types.IF) {
		return nil, false
	}
	cond, ok := p.condition()
	if !ok {
		return nil, false
	}
	body, ok := p.block(false)
	if !ok {
		return nil, false
	}
	s := &ast.IfStatement{Cases: []*ast.IfCase{{Condition: cond, Body: body}}}

	for {
		m := p.l.Mark()
		if !p.l.Keyword(types.ELSEIF) {
			break
		}
		cond, ok := p.condition()
		if !ok {
			p.l.Reset(m)
			break
		}
		body, ok := p.block(false)
		if !ok {
			p.l.Reset(m)
			break
		}
		s.Cases = append(s.Cases, &ast.IfCase{Condition: cond, Body: body})
	}

	m := p.l.Mark()
	if p.l.Keyword(types.ELSE) {
		if body, ok := p.block(false); ok {
			s.ElseBlock = body
		} else {
			p.l.Reset(m)
		}
	}
	return s, true
}

func (p *Parser) whileStatement() (ast.Node, bool) {
	if !p.l.Keyword(types.WHILE) {
		return nil, false
	}
	cond, ok := p.condition()
	if !ok {
		return nil, false
	}
	body, ok := p.block(false)
	if !ok {
		return nil, false
	}
	return &ast.WhileStatement{Condition: cond, Body: body}, true
}

func (p *Parser) forStatement() (ast.Node, bool) {
	if !p.l.Keyword(types.FOR) || !p.l.Punct("(") || !p.l.Keyword(types.INTTYPE) {
		return nil, false
	}
	name, ok := p.l.Identifier()
	if !ok || !p.l.Punct("=") {
		return nil, false
	}
	s := &ast.ForStatement{Name: name.Text}

	if s.Init, ok = p.expression(); !ok || !p.l.Punct(";") {
		return nil, false
	}
	if s.Condition, ok = p.expression(); !ok || !p.l.Punct(";") {
		return nil, false
	}
	if s.Step, ok = p.crement(); !ok || !p.l.Punct(")") {
		return nil, false
	}
	if s.Body, ok = p.block(false); !ok {
		return nil, false
	}
	return s, true
}

func (p *Parser) classDeclaration() (ast.Node, bool) {
	if !p.l.Keyword(types.CLASS) {
		return nil, false
	}
	name, ok := p.l.Identifier()
	if !ok {
		return nil, false
	}
	c := &ast.ClassDeclaration{Name: name.Text}

	m := p.l.Mark()
	if p.l.Keyword(types.EXTENDS) {
		if parent, ok := p.l.Identifier(); ok {
			c.Extends = parent.Text
		} else {
			p.l.Reset(m)
		}
	}

	if !p.l.Keyword(types.BEGIN) || !p.l.Keyword(types.CONSTRUCTOR) || !p.l.Punct("(") {
		return nil, false
	}
	c.Params = p.parameters()
	if !p.l.Punct(")") {
		return nil, false
	}
	if c.Constructor, ok = p.block(false); !ok {
		return nil, false
	}
	c.Body = p.statements()
	if !p.l.Keyword(types.END) {
		return nil, false
	}
	return c, true
}

// builtin parses pour(e) and species(e) into calls of the library function
// of the same name.
func (p *Parser) builtin(k types.TokenKind) (ast.Node, bool) {
	if !p.l.Keyword(k) {
		return nil, false
	}
	arg, ok := p.condition()
	if !ok {
		return nil, false
	}
	return &ast.Call{
		Callee: &ast.Identifier{Name: k.Spelling()},
		Args:   []ast.Node{arg},
	}, true
}

func (p *Parser) print() (ast.Node, bool) {
	return p.builtin(types.PRINT)
}

func (p *Parser) typeOf() (ast.Node, bool) {
	return p.builtin(types.TYPEOF)
}

func (p *Parser) returnStatement() (ast.Node, bool) {
	if !p.l.Keyword(types.RETURN) {
		return nil, false
	}
	m := p.l.Mark()
	if e, ok := p.expression(); ok {
		return &ast.ReturnStatement{Expression: e}, true
	}
	p.l.Reset(m)
	return &ast.ShortReturnStatement{}, true
}

func (p *Parser) crement() (ast.Node, bool) {
	name, ok := p.l.Identifier()
	if !ok {
		return nil, false
	}
	target := &ast.Identifier{Name: name.Text}

	m := p.l.Mark()
	for _, op := range []string{"+=", "-="} {
		if p.l.Punct(op) {
			if e, ok := p.additive(); ok {
				return &ast.BinaryExpression{Left: target, Op: op, Right: e}, true
			}
		}
		p.l.Reset(m)
	}
	for _, op := range []string{"++", "--"} {
		if p.l.Punct(op) {
			return &ast.UnaryExpression{Op: op, Operand: target, Prefix: false}, true
		}
	}
	return nil, false
}

func (p *Parser) continueStatement() (ast.Node, bool) {
	if !p.l.Keyword(types.CONTINUE) {
		return nil, false
	}
	return &ast.Continue{}, true
}

func (p *Parser) breakStatement() (ast.Node, bool) {
	if !p.l.Keyword(types.BREAK) {
		return nil, false
	}
	return &ast.Break{}, true
}

// binary parses a left associative chain of operand (op operand)*.
func (p *Parser) binary(operand rule, ops ...string) (ast.Node, bool) {
	left, ok := operand()
	if !ok {
		return nil, false
	}
outer:
	for {
		m := p.l.Mark()
		for _, op := range ops {
			if !p.l.Punct(op) {
				continue
			}
			right, ok := operand()
			if !ok {
				p.l.Reset(m)
				return left, true
			}
			left = &ast.BinaryExpression{Left: left, Op: op, Right: right}
			continue outer
		}
		return left, true
	}
}

func (p *Parser) expression() (ast.Node, bool) {
	return p.binary(p.relational, "&&", "||")
}

func (p *Parser) relational() (ast.Node, bool) {
	return p.binary(p.additive, "<=", "<", "==", "!=", ">=", ">")
}

func (p *Parser) additive() (ast.Node, bool) {
	return p.binary(p.multiplicative, "+", "-")
}

func (p *Parser) multiplicative() (ast.Node, bool) {
	return p.binary(p.power, "*", "/", "%")
}

func (p *Parser) power() (ast.Node, bool) {
	base, ok := p.unary()
	if !ok {
		return nil, false
	}
	m := p.l.Mark()
	if p.l.Punct("^") {
		if exp, ok := p.power(); ok {
			return &ast.BinaryExpression{Left: base, Op: "^", Right: exp}, true
		}
	}
	p.l.Reset(m)
	return base, true
}

func (p *Parser) unary() (ast.Node, bool) {
	m := p.l.Mark()
	for _, op := range []string{"-", "!"} {
		if p.l.Punct(op) {
			if operand, ok := p.unary(); ok {
				return &ast.UnaryExpression{Op: op, Operand: operand, Prefix: true}, true
			}
			p.l.Reset(m)
		}
	}
	return p.primary()
}

func (p *Parser) primary() (ast.Node, bool) {
	return p.choice(
		p.typeOf,
		p.callOrVariable,
		p.parenthesized,
		p.arrayLiteral,
		p.mapLiteral,
		p.number,
		p.stringLiteral,
		p.boolean,
	)
}

// callOrVariable parses a variable and turns it into a call when an
// argument list follows.
func (p *Parser) callOrVariable() (ast.Node, bool) {
	v, ok := p.variable()
	if !ok {
		return nil, false
	}
	m := p.l.Mark()
	if p.l.Punct("(") {
		if args, ok := p.arguments(); ok && p.l.Punct(")") {
			return &ast.Call{Callee: v, Args: args}, true
		}
	}
	p.l.Reset(m)
	return v, true
}

func (p *Parser) parenthesized() (ast.Node, bool) {
	return p.condition()
}

func (p *Parser) arrayLiteral() (ast.Node, bool) {
	if !p.l.Punct("[") {
		return nil, false
	}
	elems, _ := p.arguments()
	if !p.l.Punct("]") {
		return nil, false
	}
	return &ast.ArrayLiteral{Elements: elems}, true
}

func (p *Parser) keyValue() (*ast.KeyValue, bool) {
	m := p.l.Mark()
	key, ok := p.expression()
	if ok && p.l.Punct(":") {
		if value, ok := p.expression(); ok {
			return &ast.KeyValue{Key: key, Value: value}, true
		}
	}
	p.l.Reset(m)
	return nil, false
}

func (p *Parser) mapLiteral() (ast.Node, bool) {
	if !p.l.Punct("{") {
		return nil, false
	}
	lit := &ast.MapLiteral{Pairs: []*ast.KeyValue{}}
	for {
		m := p.l.Mark()
		if len(lit.Pairs) > 0 && !p.l.Punct(",") {
			break
		}
		kv, ok := p.keyValue()
		if !ok {
			p.l.Reset(m)
			break
		}
		lit.Pairs = append(lit.Pairs, kv)
	}
	if !p.l.Punct("}") {
		return nil, false
	}
	return lit, true
}

func (p *Parser) number() (ast.Node, bool) {
	tok, isFloat, ok := p.l.Number()
	if !ok {
		return nil, false
	}
	if isFloat {
		v, err := strconv.ParseFloat(tok.Text, 64)
		if err != nil {
			panic(err)
		}
		return &ast.FloatLiteral{Value: v}, true
	}
	v, _ := new(big.Int).SetString(tok.Text, 10)
	return &ast.IntLiteral{Value: v}, true
}

func (p *Parser) stringLiteral() (ast.Node, bool) {
	tok, ok := p.l.String()
	if !ok {
		return nil, false
	}
	return &ast.StringLiteral{Value: tok.Text}, true
}

func (p *Parser) boolean() (ast.Node, bool) {
	if p.l.Keyword(types.TRUE) {
		return ast.NewBool(true), true
	}
	if p.l.Keyword(types.FALSE) {
		return ast.NewBool(false), true
	}
	return nil, false
}

// variable parses an identifier followed by any number of a[0] and
// m.key(e) accessors.
func (p *Parser) variable() (ast.Node, bool) {
	start := p.l.Mark()
	if m, ok := p.variables[start]; ok {
		p.l.Reset(m.end)
		return m.node, m.ok
	}
	n, ok := p.accessors()
	if !ok {
		p.l.Reset(start)
	}
	p.variables[start] = memo{node: n, end: p.l.Mark(), ok: ok}
	return n, ok
}

func (p *Parser) accessors() (ast.Node, bool) {
	id, ok := p.l.Identifier()
	if !ok {
		return nil, false
	}
	var v ast.Node = &ast.Identifier{Name: id.Text}

	for {
		m := p.l.Mark()
		if p.l.Punct("[") {
			if idx, ok := p.l.Digits(); ok && p.l.Punct("]") {
				n, _ := new(big.Int).SetString(idx.Text, 10)
				v = &ast.MemberExpression{Array: v, Index: &ast.IntLiteral{Value: n}}
				continue
			}
		}
		p.l.Reset(m)

		if p.l.Punct(".") && p.l.Keyword(types.KEY) {
			if key, ok := p.condition(); ok {
				v = &ast.PropertyExpression{Map: v, Key: key}
				continue
			}
		}
		p.l.Reset(m)
		return v, true
	}
}
