package ast

import (
	"fmt"
	"strings"
)

type Type interface {
	is_Type()
	String() string
}

// PrimitiveType values are singletons; compare them by pointer.
type PrimitiveType struct {
	Name string
}

var (
	Int         = &PrimitiveType{"int"}
	Float       = &PrimitiveType{"float"}
	Boolean     = &PrimitiveType{"boolean"}
	String      = &PrimitiveType{"string"}
	Void        = &PrimitiveType{"void"}
	Any         = &PrimitiveType{"any"}
	EmptyArray  = &PrimitiveType{"[]"}
	EmptyObject = &PrimitiveType{"{}"}
)

type ArrayType struct {
	MemberType Type
}

type MapType struct {
	KeyType   Type
	ValueType Type
}

type FunctionType struct {
	ParamTypes []Type
	ReturnType Type
}

// TypeName is a type as spelled in source, before the analyzer resolves it.
type TypeName struct {
	Name string
}

func (t *PrimitiveType) String() string { return t.Name }
func (t *ArrayType) String() string     { return "[" + t.MemberType.String() + "]" }
func (t *MapType) String() string {
	return fmt.Sprintf("<%s,%s>", t.KeyType, t.ValueType)
}
func (t *TypeName) String() string { return t.Name }

func (t *FunctionType) String() string {
	var params []string
	for _, p := range t.ParamTypes {
		params = append(params, p.String())
	}
	ret := "void"
	if t.ReturnType != nil {
		ret = t.ReturnType.String()
	}
	return fmt.Sprintf("(%s)->%s", strings.Join(params, ","), ret)
}

func isArray(t Type) bool {
	_, ok := t.(*ArrayType)
	return ok || t == EmptyArray
}

func isMap(t Type) bool {
	_, ok := t.(*MapType)
	return ok || t == EmptyObject
}

// Equivalent is symmetric. The empty literal types stand in for any array
// or map type respectively.
func Equivalent(a, b Type) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a == b {
		return true
	}
	if a == EmptyArray || b == EmptyArray {
		return isArray(a) && isArray(b)
	}
	if a == EmptyObject || b == EmptyObject {
		return isMap(a) && isMap(b)
	}

	switch x := a.(type) {
	case *ArrayType:
		y, ok := b.(*ArrayType)
		return ok && Equivalent(x.MemberType, y.MemberType)
	case *MapType:
		y, ok := b.(*MapType)
		return ok && Equivalent(x.KeyType, y.KeyType) && Equivalent(x.ValueType, y.ValueType)
	case *FunctionType:
		y, ok := b.(*FunctionType)
		if !ok || len(x.ParamTypes) != len(y.ParamTypes) {
			return false
		}
		for i := range x.ParamTypes {
			if !Equivalent(x.ParamTypes[i], y.ParamTypes[i]) {
				return false
			}
		}
		return Equivalent(x.ReturnType, y.ReturnType)
	case *TypeName:
		y, ok := b.(*TypeName)
		return ok && x.Name == y.Name
	}
	return false
}

// Assignable reports whether a value of type from may be stored where to is
// expected. It is equivalence, widened by Any.
func Assignable(from, to Type) bool {
	if to == Any {
		return true
	}
	switch x := to.(type) {
	case *ArrayType:
		if y, ok := from.(*ArrayType); ok {
			return Assignable(y.MemberType, x.MemberType)
		}
	case *MapType:
		if y, ok := from.(*MapType); ok {
			return Assignable(y.KeyType, x.KeyType) && Assignable(y.ValueType, x.ValueType)
		}
	}
	return Equivalent(from, to)
}
