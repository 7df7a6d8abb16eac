package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var sampleTypes = []Type{
	Int, Float, Boolean, String, Void, Any, EmptyArray, EmptyObject,
	&ArrayType{Int},
	&ArrayType{&ArrayType{String}},
	&MapType{String, Boolean},
	&MapType{&ArrayType{Int}, &MapType{String, Boolean}},
	&FunctionType{[]Type{Int, Float}, Boolean},
}

func TestAssignabilityIsReflexive(t *testing.T) {
	for _, typ := range sampleTypes {
		assert.True(t, Equivalent(typ, typ), typ.String())
		assert.True(t, Assignable(typ, typ), typ.String())
	}
}

func TestEverythingIsAssignableToAny(t *testing.T) {
	for _, typ := range sampleTypes {
		assert.True(t, Assignable(typ, Any), typ.String())
	}
	assert.False(t, Assignable(Any, Int))
}

func TestEquivalence(t *testing.T) {
	tests := []struct {
		a, b Type
		want bool
	}{
		{Int, Float, false},
		{&ArrayType{Int}, &ArrayType{Int}, true},
		{&ArrayType{Int}, &ArrayType{Float}, false},
		{EmptyArray, &ArrayType{String}, true},
		{&ArrayType{&ArrayType{Int}}, EmptyArray, true},
		{EmptyArray, &MapType{Int, Int}, false},
		{EmptyObject, &MapType{Int, Int}, true},
		{EmptyObject, Int, false},
		{&ArrayType{EmptyArray}, &ArrayType{&ArrayType{Int}}, true},
		{&MapType{String, Int}, &MapType{String, Float}, false},
		{&FunctionType{[]Type{Int}, Void}, &FunctionType{[]Type{Int}, Void}, true},
		{&FunctionType{[]Type{Int}, Void}, &FunctionType{nil, Void}, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Equivalent(tt.a, tt.b), "%s ~ %s", tt.a, tt.b)
		assert.Equal(t, tt.want, Equivalent(tt.b, tt.a), "%s ~ %s", tt.b, tt.a)
	}
}

func TestNestedAny(t *testing.T) {
	assert.True(t, Assignable(&ArrayType{Int}, &ArrayType{Any}))
	assert.False(t, Assignable(&ArrayType{Any}, &ArrayType{Int}))
}

func TestTypeStrings(t *testing.T) {
	assert.Equal(t, "[int]", (&ArrayType{Int}).String())
	assert.Equal(t, "<string,[boolean]>", (&MapType{String, &ArrayType{Boolean}}).String())
	assert.Equal(t, "(boolean)->int", (&FunctionType{[]Type{Boolean}, Int}).String())
}

func TestTypeOf(t *testing.T) {
	assert.Equal(t, Int, TypeOf(NewInt(3)))
	assert.Equal(t, Float, TypeOf(&FloatLiteral{1.5}))
	assert.Equal(t, Boolean, TypeOf(NewBool(true)))
	assert.Equal(t, String, TypeOf(&StringLiteral{"x"}))
	assert.Nil(t, TypeOf(&Identifier{"x"}))
	assert.Nil(t, TypeOf(&Break{}))
}
