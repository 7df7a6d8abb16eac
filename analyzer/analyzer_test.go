package analyzer

import (
	stderrors "errors"
	"testing"

	"github.com/pontaoski/lemonc/ast"
	"github.com/pontaoski/lemonc/errors"
	"github.com/pontaoski/lemonc/parser"
	"github.com/pontaoski/lemonc/stdlib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func analyze(t *testing.T, source string) (*ast.Program, error) {
	t.Helper()
	prog, err := parser.Parse(source)
	require.NoError(t, err)
	return Analyze(prog)
}

var lemonChecks = []struct {
	name   string
	source string
}{
	{"variable declarations", "dontUseMeForEyeDrops x = 1.0 dontUseMeForEyeDrops y = x"},
	{"modifiers", "lemonStain trunk slice x = 1 taste y = sour"},
	{"complex declaration", "<slice[], <pulp,taste>> x"},
	{"super complex declaration", "<<slice[], <taste, pulp>>, <pulp[][],taste>> x"},
	{"double array declaration", "slice[][] x"},
	{"array initialization", "slice[] x = [1,2,3]"},
	{"dictionary initialization", `<slice, pulp> x = {1: "hi",2: "bye"}`},
	{"complex dictionary initialization", `<slice[], <pulp,taste>> x = {[1,2]: {"hi": sour}, [3,4]: {"bye": sweet}}`},
	{"empty literals", "slice[] a = [] a = [1] <pulp, slice> m = {} m = {\"a\": 1}"},
	{"complex parameters", "When life gives you lemons try noLemon f(<slice[], <pulp,taste>> x) BEGIN JUICING slice y END JUICING"},
	{"increment and decrement", "slice x = 10 x-- x++ x+=2 x-=1"},
	{"short return", "When life gives you lemons try noLemon helloWorld() BEGIN JUICING you get lemonade and END JUICING"},
	{"long return", "When life gives you lemons try taste tralse() BEGIN JUICING you get lemonade and sweet END JUICING"},
	{"return in nested if", "When life gives you lemons try slice return10(slice a) BEGIN JUICING Squeeze the lemon if(a == 10) BEGIN JUICING you get lemonade and a END JUICING you get lemonade and 0 END JUICING"},
	{"break in nested if", "slice x = 20 Drink the lemonade while (x > 0) BEGIN JUICING Squeeze the lemon if(x == 10) BEGIN JUICING chop END JUICING x-- END JUICING"},
	{"else if", `slice x = 1 Squeeze the lemon if(x == 10) BEGIN JUICING pour("10") END JUICING Keep juicing if(x == 20) BEGIN JUICING pour("20") END JUICING Toss the lemon and do BEGIN JUICING pour("other") END JUICING`},
	{"for with args", `forEachLemon (slice i = 0; i < 5; i++) BEGIN JUICING pour("Number: " + species(i)) nextLemon END JUICING`},
	{"||", "pour(sweet||1<2||sour||3>4)"},
	{"&&", "pour(sweet&&1<2&&sour&&!(3>4))"},
	{"relations", `pour(10 < 20) pour("a" >= "b") pour([1] == [2])`},
	{"arithmetic", "slice x x = 4 slice y = 2 slice z = 1 pour(x + y - - z ^ y % x / y)"},
	{"subscript", "slice[] arr = [1,2,3] pour(arr[1])"},
	{"map access", `<pulp, slice> m = {"a": 1} slice v = m.key("a")`},
	{"recursion", "When life gives you lemons try slice fact(slice n) BEGIN JUICING Squeeze the lemon if (n <= 1) BEGIN JUICING you get lemonade and 1 END JUICING you get lemonade and n * fact(n - 1) END JUICING pour(fact(5))"},
	{"built-in constants", "pour(25.0 * π)"},
	{"typeof", "pulp s = species(1) species(s)"},
	{"sibling scopes", "forEachLemon (slice i = 0; i < 2; i++) BEGIN JUICING pour(i) END JUICING forEachLemon (slice i = 0; i < 2; i++) BEGIN JUICING pour(i) END JUICING"},
	{"switch", `slice n = 2 Pick (n) BEGIN JUICING lemonCase 1 slice a = 1 lemonCase 2 slice a = 2 citrusLimon slice a = 3 END JUICING`},
	{"imports are ignored", "receive lemons from tree pour(1)"},
}

func TestAnalyzesCorrectPrograms(t *testing.T) {
	for _, tt := range lemonChecks {
		t.Run(tt.name, func(t *testing.T) {
			prog, err := analyze(t, tt.source)
			require.NoError(t, err)
			assert.NotNil(t, prog)
		})
	}
}

var semanticErrors = []struct {
	name    string
	source  string
	message string
}{
	{"undeclared id", "pour(x)", "Identifier x not declared"},
	{"redeclared id", "slice x = 1 slice x = 1", "Identifier x already declared"},
	{"shadowing", "slice x = 1 Drink the lemonade while (sweet) BEGIN JUICING slice x = 1 END JUICING", "Identifier x already declared"},
	{"shadowing parameter", "slice x = 1 When life gives you lemons try noLemon f(slice x) BEGIN JUICING END JUICING", "Identifier x already declared"},
	{"parameter named like its function", "When life gives you lemons try slice f(slice f) BEGIN JUICING you get lemonade and f END JUICING", "Identifier f already declared"},
	{"shadowing loop variable", "slice i = 0 forEachLemon (slice i = 0; i < 2; i++) BEGIN JUICING pour(i) END JUICING", "Identifier i already declared"},
	{"shadowing library", "dontUseMeForEyeDrops π = 3.0", "Identifier π already declared"},
	{"bad initializer", `slice x = "a"`, "Operands do not have the same type"},
	{"assign to const", "lemonStain slice x = 1 x = 2", "Cannot assign to constant x"},
	{"assign to library constant", "π = 3.0", "Cannot assign to constant π"},
	{"assign bad type", "slice x = 1 x = sweet", "Cannot assign a boolean to a int"},
	{"assign bad array type", "slice x = 1 x = [sweet]", "Cannot assign a [boolean] to a int"},
	{"break outside loop", "chop", "Break can only appear in a loop"},
	{"continue outside loop", "nextLemon", "Continue can only appear in a loop"},
	{"break inside function", "Drink the lemonade while (sweet) BEGIN JUICING When life gives you lemons try noLemon f() BEGIN JUICING chop END JUICING END JUICING", "Break can only appear in a loop"},
	{"return outside function", "you get lemonade and", "Return can only appear in a function"},
	{"return value from void function", "When life gives you lemons try noLemon f() BEGIN JUICING you get lemonade and 1 END JUICING", "Cannot return a value here"},
	{"return nothing from non-void", "When life gives you lemons try slice f() BEGIN JUICING you get lemonade and END JUICING", "Something should be returned here"},
	{"return type mismatch", "When life gives you lemons try taste f() BEGIN JUICING you get lemonade and 1 END JUICING", "Cannot assign a int to a boolean"},
	{"non-boolean if test", "Squeeze the lemon if (1) BEGIN JUICING pour(1) END JUICING", "Expected a boolean, found int"},
	{"non-boolean elseif test", "Squeeze the lemon if (sweet) BEGIN JUICING pour(1) END JUICING Keep juicing if (\"x\") BEGIN JUICING pour(1) END JUICING", "Expected a boolean, found string"},
	{"non-boolean while test", "Drink the lemonade while (1) BEGIN JUICING pour(1) END JUICING", "Expected a boolean, found int"},
	{"bad types for ||", "pour(sour || 1)", "Expected a boolean, found int"},
	{"bad types for &&", "pour(sour && 1)", "Expected a boolean, found int"},
	{"bad types for ==", "pour(sour == 1)", "Operands do not have the same type"},
	{"bad types for !=", "pour(2 != 2.0)", "Operands do not have the same type"},
	{"bad types for +", "pour(sour + 1)", "Expected a number or string, found boolean"},
	{"bad types for -", "pour(sour - 1)", "Expected a number, found boolean"},
	{"bad types for *", "pour(sour * 1)", "Expected a number, found boolean"},
	{"bad types for ^", `pour("a" ^ 1)`, "Expected a number, found string"},
	{"bad types for <", "pour(sour < 1)", "Expected a number or string, found boolean"},
	{"mixed numbers", "pour(1 + 1.0)", "Operands do not have the same type"},
	{"bad types for negation", "pour(-sweet)", "Expected a number, found boolean"},
	{"bad types for not", `pour(!"hello")`, "Expected a boolean, found string"},
	{"non-numeric increment", "taste x = sour x++", "Expected a number, found boolean"},
	{"const increment", "lemonStain slice x = 1 x++", "Cannot assign to constant x"},
	{"const compound assignment", "lemonStain slice x = 1 x += 1", "Cannot assign to constant x"},
	{"diff type array elements", "pour([3, 3.0])", "Not all elements have the same type"},
	{"diff type keys", `pour({1: 2, "a": 3})`, "Not all keys have the same type"},
	{"diff type values", `pour({1: 2, 2: "a"})`, "Not all values have the same type"},
	{"duplicate keys", "pour({1: 2, 1: 3})", "Keys must be distinct"},
	{"index non-array", "slice x = 1 pour(x[0])", "Array expected"},
	{"key non-map", "slice x = 1 pour(x.key(0))", "Dictionary expected"},
	{"wrong key type", `<slice, pulp> m = {1: "a"} pour(m.key("x"))`, "Expected a int key, found string"},
	{"call of uncallable", "slice x = 1 pour(x())", "Call of non-function"},
	{"too many args", "When life gives you lemons try noLemon f(slice x) BEGIN JUICING END JUICING f(1, 2)", "1 argument(s) required but 2 passed"},
	{"too few args", "When life gives you lemons try noLemon f(slice x) BEGIN JUICING END JUICING f()", "1 argument(s) required but 0 passed"},
	{"parameter type mismatch", "When life gives you lemons try noLemon f(slice x) BEGIN JUICING END JUICING f(sweet)", "Cannot assign a boolean to a int"},
	{"non-type in param", "slice x = 1 When life gives you lemons try noLemon f(x y) BEGIN JUICING END JUICING", "Type expected"},
	{"non-type in return type", "slice x = 1 When life gives you lemons try x f() BEGIN JUICING END JUICING", "Type expected"},
	{"case type mismatch", `slice n = 1 Pick (n) BEGIN JUICING lemonCase "a" pour(1) END JUICING`, "Not all cases have the same type as the expression passed in"},
	{"non-integer loop start", "forEachLemon (slice i = 1.5; i < 2; i++) BEGIN JUICING pour(i) END JUICING", "Expected an integer, found float"},
	{"non-boolean loop condition", "forEachLemon (slice i = 0; i; i++) BEGIN JUICING pour(i) END JUICING", "Expected a boolean, found int"},
	{"classes", "Limon Lemon BEGIN JUICING plant() BEGIN JUICING pour(1) END JUICING END JUICING", "Classes are not supported"},
}

func TestRejectsSemanticErrors(t *testing.T) {
	for _, tt := range semanticErrors {
		t.Run(tt.name, func(t *testing.T) {
			prog, err := analyze(t, tt.source)
			require.Error(t, err)
			assert.Nil(t, prog)

			var semErr errors.SemanticError
			require.True(t, stderrors.As(err, &semErr))
			assert.Equal(t, tt.message, semErr.Message)
		})
	}
}

func TestResolvesIdentifiersToSharedEntities(t *testing.T) {
	prog, err := analyze(t, "slice x = 1 x = x + 1")
	require.NoError(t, err)

	decl := prog.Statements[0].(*ast.VariableDeclaration)
	assign := prog.Statements[1].(*ast.Assignment)
	sum := assign.Source.(*ast.BinaryExpression)

	assert.Same(t, decl.Variable, assign.Target)
	assert.Same(t, decl.Variable, sum.Left)
	assert.Equal(t, ast.Int, sum.Type)
	assert.Equal(t, stdlib.FirstUserID, decl.Variable.ID)
}

func TestLeavesInputUntouched(t *testing.T) {
	input, err := parser.Parse("slice x = 1 pour(x)")
	require.NoError(t, err)

	_, err = Analyze(input)
	require.NoError(t, err)

	assert.Nil(t, input.Statements[0].(*ast.VariableDeclaration).Variable)
	call := input.Statements[1].(*ast.Call)
	assert.Equal(t, &ast.Identifier{Name: "pour"}, call.Callee)
	assert.Equal(t, []ast.Node{&ast.Identifier{Name: "x"}}, call.Args)
}

func TestEntityIDsAreScopedToOneRun(t *testing.T) {
	input, err := parser.Parse("slice x = 1 slice y = 2")
	require.NoError(t, err)

	first, err := Analyze(input)
	require.NoError(t, err)
	second, err := Analyze(input)
	require.NoError(t, err)

	ids := func(p *ast.Program) []int {
		var out []int
		for _, s := range p.Statements {
			out = append(out, s.(*ast.VariableDeclaration).Variable.ID)
		}
		return out
	}
	assert.Equal(t, ids(first), ids(second))
	assert.NotEqual(t, ids(first)[0], ids(first)[1])
}

func TestLibraryCalls(t *testing.T) {
	prog, err := analyze(t, "pour(species(π))")
	require.NoError(t, err)

	pour := prog.Statements[0].(*ast.Call)
	assert.Same(t, stdlib.Pour, pour.Callee)
	assert.Equal(t, ast.Void, pour.Type)

	species := pour.Args[0].(*ast.Call)
	assert.Same(t, stdlib.Species, species.Callee)
	assert.Equal(t, ast.String, species.Type)
	assert.Same(t, stdlib.Pi, species.Args[0])
}

func TestCompositeTypesAreRegisteredOnce(t *testing.T) {
	prog, err := analyze(t, "slice[] a slice[] b")
	require.NoError(t, err)

	a := prog.Statements[0].(*ast.VariableDeclaration)
	b := prog.Statements[1].(*ast.VariableDeclaration)
	assert.Same(t, a.Variable.Type, b.Variable.Type)
}

func TestFunctionType(t *testing.T) {
	prog, err := analyze(t, "When life gives you lemons try taste f(slice a, pulp[] b) BEGIN JUICING you get lemonade and sweet END JUICING")
	require.NoError(t, err)

	f := prog.Statements[0].(*ast.FunctionDeclaration)
	assert.Equal(t, "(int,[string])->boolean", f.Function.Type.String())
	assert.Len(t, f.Params, 2)
	assert.Equal(t, "a", f.Params[0].Variable.Name)
}
