package ast

// Variable and Function are created once per declaration by the analyzer and
// shared by every use site. Later stages read them and never copy or change
// them. ID is unique within one compilation and keys renaming.
type Variable struct {
	ID      int
	Name    string
	IsConst bool
	Type    Type
}

type Function struct {
	ID   int
	Name string
	Type *FunctionType
}
