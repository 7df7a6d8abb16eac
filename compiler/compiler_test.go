package compiler

import (
	stderrors "errors"
	"testing"

	"github.com/pontaoski/lemonc/ast"
	"github.com/pontaoski/lemonc/errors"
	"github.com/pontaoski/lemonc/generator"
	"github.com/pontaoski/lemonc/optimizer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const small = "slice x = 10 * 2 x++ pour(species(x))"

func TestStages(t *testing.T) {
	parsed, err := Compile(small, "ast")
	require.NoError(t, err)
	require.IsType(t, &ast.Program{}, parsed)
	assert.IsType(t, &ast.Identifier{}, parsed.(*ast.Program).Statements[1].(*ast.UnaryExpression).Operand)

	for _, stage := range []string{"analyze", "analyzed", "ANALYZED"} {
		analyzed, err := Compile(small, stage)
		require.NoError(t, err)
		require.IsType(t, &ast.Program{}, analyzed)
		assert.IsType(t, &ast.Variable{}, analyzed.(*ast.Program).Statements[1].(*ast.UnaryExpression).Operand)
	}

	for _, stage := range []string{"optimize", "Optimized"} {
		optimized, err := Compile(small, stage)
		require.NoError(t, err)
		require.IsType(t, &ast.Program{}, optimized)
		decl := optimized.(*ast.Program).Statements[0].(*ast.VariableDeclaration)
		assert.Equal(t, "20", decl.Init.(*ast.IntLiteral).Value.String())
	}

	js, err := Compile(small, "generate")
	require.NoError(t, err)
	assert.Equal(t, generator.Prelude+"\nlet x_1 = (10n * 2n);\nx_1++;\nconsole.log(__show(typeof x_1));", js)

	js, err = Compile(small, "JS")
	require.NoError(t, err)
	assert.Equal(t, generator.Prelude+"\nlet x_1 = 20n;\nx_1++;\nconsole.log(__show(typeof x_1));", js)
}

func TestUnknownStage(t *testing.T) {
	out, err := Compile(small, "wasm")
	assert.NoError(t, err)
	assert.Equal(t, UnknownStage, out)
}

func TestLemon(t *testing.T) {
	out, err := Compile("", "lemon")
	assert.NoError(t, err)
	assert.Contains(t, quotes, out)
}

func TestSyntaxErrorsCarryTheFilename(t *testing.T) {
	_, err := New(Options{Filename: "main.lemon"}).Compile("slice x = ", "js")
	require.Error(t, err)

	var syntaxErr errors.SyntaxError
	require.True(t, stderrors.As(err, &syntaxErr))
	assert.Equal(t, "main.lemon", syntaxErr.Location.Filename)
	assert.Equal(t, 1, syntaxErr.Line())
}

func TestBooleanArithmeticIsRejected(t *testing.T) {
	_, err := Compile("pour(sour + 1)", "js")
	require.Error(t, err)

	var semErr errors.SemanticError
	require.True(t, stderrors.As(err, &semErr))
	assert.Equal(t, "Expected a number or string, found boolean", semErr.Message)
}

func TestMissingReturnValueIsRejected(t *testing.T) {
	_, err := Compile("When life gives you lemons try slice f() BEGIN JUICING you get lemonade and END JUICING", "analyzed")
	require.Error(t, err)

	var semErr errors.SemanticError
	require.True(t, stderrors.As(err, &semErr))
	assert.Equal(t, "Something should be returned here", semErr.Message)
}

func TestUnrollLimitIsConfigurable(t *testing.T) {
	const loop = "forEachLemon (slice i = 0; i < 3; i++) BEGIN JUICING pour(i) END JUICING"

	js, err := New(Options{Optimizer: optimizer.Options{MaxUnroll: 2}}).Compile(loop, "js")
	require.NoError(t, err)
	assert.Equal(t, generator.Prelude+"\nfor (let i_1 = 0n; (i_1 < 3n); i_1++) {\n  console.log(__show(i_1));\n}", js)

	js, err = New(Options{}).Compile(loop, "js")
	require.NoError(t, err)
	assert.Equal(t, generator.Prelude+"\nconsole.log(__show(0n));\nconsole.log(__show(1n));\nconsole.log(__show(2n));", js)
}
