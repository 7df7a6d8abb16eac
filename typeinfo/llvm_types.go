package typeinfo

import (
	"github.com/llir/llvm/ir/types"
	"github.com/pontaoski/lemonc/ast"
)

var (
	Int     = types.I64
	Float   = types.Double
	Boolean = types.I1
	String  = types.NewPointer(types.I8)
	Void    = types.Void

	// Opaque stands for arrays, dictionaries, functions and any.
	Opaque = types.NewPointer(types.I8)
)

func llvmType(t ast.Type) types.Type {
	switch t {
	case ast.Int:
		return Int
	case ast.Float:
		return Float
	case ast.Boolean:
		return Boolean
	case ast.String:
		return String
	case ast.Void, nil:
		return Void
	}
	return Opaque
}
