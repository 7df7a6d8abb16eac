// Package typeinfo describes the top-level functions of a compiled program
// and embeds that description in an LLVM module.
package typeinfo

import (
	"encoding/json"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/pontaoski/lemonc/ast"
	"github.com/pontaoski/lemonc/reader"
	"github.com/ztrue/tracerr"
)

type TypeInfo struct {
	Package   string            `json:"package,omitempty"`
	Functions map[string]string `json:"functions"`
}

type signature struct {
	name   string
	params []*ast.Parameter
	typ    *ast.FunctionType
}

func signatures(p *ast.Program) []signature {
	var out []signature
	for _, s := range p.Statements {
		f, ok := s.(*ast.FunctionDeclaration)
		if !ok || f.Function == nil || f.Function.Type == nil {
			continue
		}
		out = append(out, signature{f.Name, f.Params, f.Function.Type})
	}
	return out
}

// Collect lists the top-level functions of an analyzed program.
func Collect(pkg string, p *ast.Program) TypeInfo {
	t := TypeInfo{Package: pkg, Functions: map[string]string{}}
	for _, s := range signatures(p) {
		t.Functions[s.name] = s.typ.String()
	}
	return t
}

func register(t TypeInfo, m *ir.Module) {
	data, err := json.Marshal(t)
	if err != nil {
		panic(err)
	}

	g := m.NewGlobalDef(reader.TypeInfoSymbol, constant.NewCharArray(append(data, 0)))
	g.Immutable = true
}

// Module returns an LLVM module holding the type information of p and a
// declaration for each of its top-level functions.
func Module(pkg string, p *ast.Program) *ir.Module {
	m := ir.NewModule()
	m.SourceFilename = pkg
	register(Collect(pkg, p), m)

	for _, s := range signatures(p) {
		params := make([]*ir.Param, 0, len(s.params))
		for i, param := range s.params {
			params = append(params, ir.NewParam(param.Name, llvmType(s.typ.ParamTypes[i])))
		}
		m.NewFunc(s.name, llvmType(s.typ.ReturnType), params...)
	}
	return m
}

func Decode(data string) (t TypeInfo, err error) {
	err = json.Unmarshal([]byte(data), &t)
	return t, tracerr.Wrap(err)
}

// FromFile reads the type information back from an LLVM IR file written
// from Module.
func FromFile(f string) (TypeInfo, error) {
	data, err := reader.ReadTypeInfo(f)
	if err != nil {
		return TypeInfo{}, err
	}
	return Decode(data)
}
