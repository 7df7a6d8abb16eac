package analyzer

import (
	"fmt"

	"github.com/pontaoski/lemonc/ast"
	"github.com/pontaoski/lemonc/errors"
)

func (c *Context) program(p *ast.Program) *ast.Program {
	out := &ast.Program{}
	for _, imp := range p.Imports {
		log.Debugf("ignoring import of %s from %s", imp.Name, imp.From)
		out.Imports = append(out.Imports, &ast.Import{Name: imp.Name, From: imp.From})
	}
	out.Statements = c.analyzeAll(p.Statements)
	return out
}

func (c *Context) analyzeAll(nodes []ast.Node) []ast.Node {
	if nodes == nil {
		return nil
	}
	out := make([]ast.Node, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, c.analyze(n))
	}
	return out
}

func (c *Context) analyze(node ast.Node) ast.Node {
	switch n := node.(type) {
	case *ast.VariableDeclaration:
		return c.variableDeclaration(n)
	case *ast.Assignment:
		return c.assignment(n)
	case *ast.FunctionDeclaration:
		return c.functionDeclaration(n)
	case *ast.Call:
		return c.call(n)
	case *ast.IfStatement:
		return c.ifStatement(n)
	case *ast.WhileStatement:
		cond := c.analyze(n.Condition)
		isBoolean(cond)
		return &ast.WhileStatement{
			Condition: cond,
			Body:      c.newLoopChild().analyzeAll(n.Body),
		}
	case *ast.ForStatement:
		return c.forStatement(n)
	case *ast.SwitchStatement:
		return c.switchStatement(n)
	case *ast.ClassDeclaration:
		panic(errors.Semanticf("Classes are not supported"))
	case *ast.ReturnStatement:
		return c.returnStatement(n)
	case *ast.ShortReturnStatement:
		must(c.function != nil, "Return can only appear in a function")
		must(c.function.Type.ReturnType == ast.Void, "Something should be returned here")
		return &ast.ShortReturnStatement{}
	case *ast.Break:
		must(c.inLoop, "Break can only appear in a loop")
		return &ast.Break{}
	case *ast.Continue:
		must(c.inLoop, "Continue can only appear in a loop")
		return &ast.Continue{}
	case *ast.BinaryExpression:
		return c.binaryExpression(n)
	case *ast.UnaryExpression:
		return c.unaryExpression(n)
	case *ast.ArrayLiteral:
		return c.arrayLiteral(n)
	case *ast.MapLiteral:
		return c.mapLiteral(n)
	case *ast.MemberExpression:
		arr := c.analyze(n.Array)
		at, ok := ast.TypeOf(arr).(*ast.ArrayType)
		must(ok, "Array expected")
		index := copyInt(n.Index.Value)
		isInteger(index)
		return &ast.MemberExpression{Array: arr, Index: index, Type: at.MemberType}
	case *ast.PropertyExpression:
		m := c.analyze(n.Map)
		mt, ok := ast.TypeOf(m).(*ast.MapType)
		must(ok, "Dictionary expected")
		key := c.analyze(n.Key)
		kt := ast.TypeOf(key)
		must(ast.Equivalent(kt, mt.KeyType), "Expected a %s key, found %s", typeName(mt.KeyType), typeName(kt))
		return &ast.PropertyExpression{Map: m, Key: key, Type: mt.ValueType}
	case *ast.Identifier:
		return c.identifier(n)
	case *ast.IntLiteral:
		return copyInt(n.Value)
	case *ast.FloatLiteral:
		return &ast.FloatLiteral{Value: n.Value}
	case *ast.StringLiteral:
		return &ast.StringLiteral{Value: n.Value}
	case *ast.Bool:
		return &ast.Bool{Name: n.Name, Value: n.Value, Type: ast.Boolean}
	case *ast.Variable, *ast.Function:
		return n
	}
	panic(fmt.Sprintf("unhandled node %T", node))
}

// resolveType turns a spelled type into the type it denotes. Composite types
// are registered under their printed name the first time they are seen, and
// later spellings resolve to that registration.
func (c *Context) resolveType(t ast.Type) ast.Type {
	switch v := t.(type) {
	case *ast.TypeName:
		typ, ok := c.lookup(v.Name).(ast.Type)
		must(ok, "Type expected")
		return typ
	case *ast.ArrayType:
		return c.register(&ast.ArrayType{MemberType: c.resolveType(v.MemberType)})
	case *ast.MapType:
		return c.register(&ast.MapType{
			KeyType:   c.resolveType(v.KeyType),
			ValueType: c.resolveType(v.ValueType),
		})
	}
	return t
}

func (c *Context) register(t ast.Type) ast.Type {
	name := t.String()
	if !c.sees(name) {
		log.Tracef("registering type %s", name)
		c.add(name, t)
	}
	return c.lookup(name).(ast.Type)
}

func (c *Context) identifier(id *ast.Identifier) ast.Node {
	switch e := c.lookup(id.Name).(type) {
	case *ast.Variable:
		return e
	case *ast.Function:
		return e
	}
	panic(errors.Semanticf("Identifier %s not declared", id.Name))
}

func (c *Context) variableDeclaration(d *ast.VariableDeclaration) ast.Node {
	var init ast.Node
	if d.Init != nil {
		init = c.analyze(d.Init)
	}
	typ := c.resolveType(d.Type)
	v := c.newVariable(d.Name, d.IsConst, typ)
	if init != nil {
		hasSameTypeAs(v, init)
	}
	c.add(v.Name, v)

	return &ast.VariableDeclaration{
		Type:     typ,
		Name:     d.Name,
		Init:     init,
		IsConst:  d.IsConst,
		IsStatic: d.IsStatic,
		Variable: v,
	}
}

func (c *Context) assignment(s *ast.Assignment) ast.Node {
	source := c.analyze(s.Source)
	target := c.analyze(s.Target)
	isAssignableTo(source, ast.TypeOf(target))
	isNotAConstant(target)
	return &ast.Assignment{Target: target, Source: source}
}

func (c *Context) functionDeclaration(d *ast.FunctionDeclaration) ast.Node {
	ret := c.resolveType(d.ReturnType)
	f := &ast.Function{ID: c.nextID(), Name: d.Name}
	child := c.newFunctionChild(f)

	// visible to its own body for recursion, and taken before any parameter
	// can claim the name
	c.add(f.Name, f)

	params := make([]*ast.Parameter, 0, len(d.Params))
	paramTypes := make([]ast.Type, 0, len(d.Params))
	for _, p := range d.Params {
		typ := child.resolveType(p.Type)
		v := child.newVariable(p.Name, false, typ)
		child.add(v.Name, v)
		params = append(params, &ast.Parameter{Type: typ, Name: p.Name, Variable: v})
		paramTypes = append(paramTypes, typ)
	}
	f.Type = &ast.FunctionType{ParamTypes: paramTypes, ReturnType: ret}
	log.Debugf("function %s #%d: %s", f.Name, f.ID, f.Type)

	return &ast.FunctionDeclaration{
		Name:       d.Name,
		IsStatic:   d.IsStatic,
		ReturnType: ret,
		Params:     params,
		Body:       child.analyzeAll(d.Body),
		Function:   f,
	}
}

func (c *Context) call(call *ast.Call) ast.Node {
	callee := c.analyze(call.Callee)
	ft, ok := ast.TypeOf(callee).(*ast.FunctionType)
	must(ok, "Call of non-function")

	args := c.analyzeAll(call.Args)
	must(len(args) == len(ft.ParamTypes),
		"%d argument(s) required but %d passed", len(ft.ParamTypes), len(args))
	for i, arg := range args {
		isAssignableTo(arg, ft.ParamTypes[i])
	}
	return &ast.Call{Callee: callee, Args: args, Type: ft.ReturnType}
}

func (c *Context) ifStatement(s *ast.IfStatement) ast.Node {
	out := &ast.IfStatement{}
	for _, ic := range s.Cases {
		cond := c.analyze(ic.Condition)
		isBoolean(cond)
		out.Cases = append(out.Cases, &ast.IfCase{
			Condition: cond,
			Body:      c.newChild().analyzeAll(ic.Body),
		})
	}
	out.ElseBlock = c.newChild().analyzeAll(s.ElseBlock)
	return out
}

func (c *Context) forStatement(s *ast.ForStatement) ast.Node {
	init := c.analyze(s.Init)
	isInteger(init)

	loop := c.newLoopChild()
	v := loop.newVariable(s.Name, false, ast.Int)
	loop.add(v.Name, v)

	cond := loop.analyze(s.Condition)
	isBoolean(cond)

	return &ast.ForStatement{
		Name:      s.Name,
		Init:      init,
		Condition: cond,
		Step:      loop.analyze(s.Step),
		Body:      loop.analyzeAll(s.Body),
		Variable:  v,
	}
}

func (c *Context) switchStatement(s *ast.SwitchStatement) ast.Node {
	scrutinee := c.analyze(s.Expression)
	out := &ast.SwitchStatement{Expression: scrutinee}

	for _, sc := range s.Cases {
		out.Cases = append(out.Cases, &ast.SwitchCase{
			CaseExpression: c.analyze(sc.CaseExpression),
			Statements:     c.newChild().analyzeAll(sc.Statements),
		})
	}
	for _, sc := range out.Cases {
		must(ast.Equivalent(ast.TypeOf(sc.CaseExpression), ast.TypeOf(scrutinee)),
			"Not all cases have the same type as the expression passed in")
	}
	out.DefaultCase = c.newChild().analyzeAll(s.DefaultCase)
	return out
}

func (c *Context) returnStatement(s *ast.ReturnStatement) ast.Node {
	must(c.function != nil, "Return can only appear in a function")
	ret := c.function.Type.ReturnType
	must(ret != ast.Void, "Cannot return a value here")

	e := c.analyze(s.Expression)
	isAssignableTo(e, ret)
	return &ast.ReturnStatement{Expression: e}
}

func (c *Context) binaryExpression(e *ast.BinaryExpression) ast.Node {
	left := c.analyze(e.Left)
	right := c.analyze(e.Right)
	out := &ast.BinaryExpression{Left: left, Op: e.Op, Right: right}

	switch e.Op {
	case "&&", "||":
		isBoolean(left)
		isBoolean(right)
		out.Type = ast.Boolean
	case "+", "+=":
		isNumericOrString(left)
		hasSameTypeAs(left, right)
		out.Type = ast.TypeOf(left)
	case "-", "*", "/", "%", "^", "-=":
		isNumeric(left)
		hasSameTypeAs(left, right)
		out.Type = ast.TypeOf(left)
	case "<", "<=", ">", ">=":
		isNumericOrString(left)
		hasSameTypeAs(left, right)
		out.Type = ast.Boolean
	case "==", "!=":
		hasSameTypeAs(left, right)
		out.Type = ast.Boolean
	default:
		panic(fmt.Sprintf("unknown operator %s", e.Op))
	}

	if e.Op == "+=" || e.Op == "-=" {
		isNotAConstant(left)
	}
	return out
}

func (c *Context) unaryExpression(e *ast.UnaryExpression) ast.Node {
	operand := c.analyze(e.Operand)
	out := &ast.UnaryExpression{Op: e.Op, Operand: operand, Prefix: e.Prefix}

	switch e.Op {
	case "!":
		isBoolean(operand)
		out.Type = ast.Boolean
	case "++", "--":
		isNumeric(operand)
		isNotAConstant(operand)
		out.Type = ast.TypeOf(operand)
	default:
		isNumeric(operand)
		out.Type = ast.TypeOf(operand)
	}
	return out
}

func (c *Context) arrayLiteral(a *ast.ArrayLiteral) ast.Node {
	elems := c.analyzeAll(a.Elements)
	if len(elems) == 0 {
		return &ast.ArrayLiteral{Elements: []ast.Node{}, Type: ast.EmptyArray}
	}
	allHaveSameType(elems, "Not all elements have the same type")
	return &ast.ArrayLiteral{
		Elements: elems,
		Type:     &ast.ArrayType{MemberType: ast.TypeOf(elems[0])},
	}
}

func (c *Context) mapLiteral(m *ast.MapLiteral) ast.Node {
	if len(m.Pairs) == 0 {
		return &ast.MapLiteral{Pairs: []*ast.KeyValue{}, Type: ast.EmptyObject}
	}

	out := &ast.MapLiteral{}
	var keys, values []ast.Node
	for _, kv := range m.Pairs {
		pair := &ast.KeyValue{Key: c.analyze(kv.Key), Value: c.analyze(kv.Value)}
		out.Pairs = append(out.Pairs, pair)
		keys = append(keys, pair.Key)
		values = append(values, pair.Value)
	}
	allHaveSameType(keys, "Not all keys have the same type")
	allHaveSameType(values, "Not all values have the same type")
	areAllDistinct(keys)

	out.Type = &ast.MapType{KeyType: ast.TypeOf(keys[0]), ValueType: ast.TypeOf(values[0])}
	return out
}
