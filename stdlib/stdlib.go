// Package stdlib is the fixed table of names every lemonScript program starts
// with. Its entities are shared by all compilations and must not be changed.
package stdlib

import (
	"github.com/pontaoski/lemonc/ast"
	"github.com/pontaoski/lemonc/types"
)

// Library entities take the IDs below FirstUserID.
const (
	PourID = iota + 1
	SpeciesID
	PiID

	FirstUserID = 100
)

var Types = map[string]ast.Type{
	types.INTTYPE.Spelling():    ast.Int,
	types.FLOATTYPE.Spelling():  ast.Float,
	types.BOOLTYPE.Spelling():   ast.Boolean,
	types.STRINGTYPE.Spelling(): ast.String,
	types.VOIDTYPE.Spelling():   ast.Void,
}

var (
	Pour = &ast.Function{
		ID:   PourID,
		Name: types.PRINT.Spelling(),
		Type: &ast.FunctionType{ParamTypes: []ast.Type{ast.Any}, ReturnType: ast.Void},
	}
	Species = &ast.Function{
		ID:   SpeciesID,
		Name: types.TYPEOF.Spelling(),
		Type: &ast.FunctionType{ParamTypes: []ast.Type{ast.Any}, ReturnType: ast.String},
	}
)

var Functions = map[string]*ast.Function{
	Pour.Name:    Pour,
	Species.Name: Species,
}

var Pi = &ast.Variable{ID: PiID, Name: "π", IsConst: true, Type: ast.Float}

var Constants = map[string]*ast.Variable{
	Pi.Name: Pi,
}

// IsLibrary reports whether an entity ID belongs to the table above.
func IsLibrary(id int) bool {
	return id < FirstUserID
}
