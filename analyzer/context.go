// Package analyzer resolves names and checks types, producing a decorated
// copy of the program: identifiers become the entities they name and every
// expression carries its type.
package analyzer

import (
	"github.com/coreos/pkg/capnslog"
	"github.com/pontaoski/lemonc/ast"
	"github.com/pontaoski/lemonc/errors"
	"github.com/pontaoski/lemonc/stdlib"
	"github.com/ztrue/tracerr"
)

var log = capnslog.NewPackageLogger("github.com/pontaoski/lemonc", "analyzer")

// Context is one lexical scope. Locals map names to *ast.Variable,
// *ast.Function or an ast.Type.
type Context struct {
	parent   *Context
	locals   map[string]interface{}
	inLoop   bool
	function *ast.Function

	ids *int
}

func newRootContext() *Context {
	ids := stdlib.FirstUserID
	c := &Context{
		locals: map[string]interface{}{},
		ids:    &ids,
	}
	for name, t := range stdlib.Types {
		c.add(name, t)
	}
	for name, f := range stdlib.Functions {
		c.add(name, f)
	}
	for name, v := range stdlib.Constants {
		c.add(name, v)
	}
	return c
}

func (c *Context) newChild() *Context {
	return &Context{
		parent:   c,
		locals:   map[string]interface{}{},
		inLoop:   c.inLoop,
		function: c.function,
		ids:      c.ids,
	}
}

func (c *Context) newLoopChild() *Context {
	child := c.newChild()
	child.inLoop = true
	return child
}

// newFunctionChild starts a function body. Loops around the declaration do
// not make break or continue legal inside it.
func (c *Context) newFunctionChild(f *ast.Function) *Context {
	child := c.newChild()
	child.inLoop = false
	child.function = f
	return child
}

func (c *Context) nextID() int {
	id := *c.ids
	*c.ids++
	return id
}

func (c *Context) sees(name string) bool {
	for s := c; s != nil; s = s.parent {
		if _, ok := s.locals[name]; ok {
			return true
		}
	}
	return false
}

// add refuses any name visible from this scope, so there is no shadowing.
func (c *Context) add(name string, entity interface{}) {
	if c.sees(name) {
		panic(errors.Semanticf("Identifier %s already declared", name))
	}
	c.locals[name] = entity
}

func (c *Context) lookup(name string) interface{} {
	for s := c; s != nil; s = s.parent {
		if e, ok := s.locals[name]; ok {
			return e
		}
	}
	panic(errors.Semanticf("Identifier %s not declared", name))
}

func (c *Context) newVariable(name string, isConst bool, t ast.Type) *ast.Variable {
	v := &ast.Variable{ID: c.nextID(), Name: name, IsConst: isConst, Type: t}
	log.Debugf("variable %s #%d: %s", name, v.ID, t)
	return v
}

// Analyze checks a parsed program. The input tree is left untouched.
func Analyze(p *ast.Program) (prog *ast.Program, err error) {
	defer func() {
		if r := recover(); r != nil {
			serr, ok := r.(errors.SemanticError)
			if ok {
				prog = nil
				err = tracerr.Wrap(serr)
			} else {
				panic(r)
			}
		}
	}()

	prog = newRootContext().program(p)
	return
}
