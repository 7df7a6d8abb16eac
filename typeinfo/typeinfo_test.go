package typeinfo

import (
	"io/ioutil"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pontaoski/lemonc/analyzer"
	"github.com/pontaoski/lemonc/ast"
	"github.com/pontaoski/lemonc/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const source = `
	When life gives you lemons try slice add(slice a, slice b) BEGIN JUICING
		When life gives you lemons try noLemon inner() BEGIN JUICING END JUICING
		you get lemonade and a + b
	END JUICING
	When life gives you lemons try noLemon greet(pulp[] names, <pulp, taste> seen) BEGIN JUICING
		pour(names)
	END JUICING
	pour(add(1, 2))
`

func program(t *testing.T) *ast.Program {
	t.Helper()
	parsed, err := parser.Parse(source)
	require.NoError(t, err)
	prog, err := analyzer.Analyze(parsed)
	require.NoError(t, err)
	return prog
}

func TestCollect(t *testing.T) {
	info := Collect("adder", program(t))
	assert.Equal(t, TypeInfo{
		Package: "adder",
		Functions: map[string]string{
			"add":   "(int,int)->int",
			"greet": "([string],<string,boolean>)->void",
		},
	}, info)
}

func TestModule(t *testing.T) {
	ll := Module("adder", program(t)).String()

	assert.Contains(t, ll, "@__lemon_types")
	assert.Contains(t, ll, "declare i64 @add(i64 %a, i64 %b)")
	assert.Contains(t, ll, "declare void @greet(i8* %names, i8* %seen)")
	assert.False(t, strings.Contains(ll, "@inner"))
}

func TestRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "adder.ll")
	require.NoError(t, ioutil.WriteFile(path, []byte(Module("adder", program(t)).String()), 0644))

	info, err := FromFile(path)
	require.NoError(t, err)
	assert.Equal(t, Collect("adder", program(t)), info)
}

func TestDecode(t *testing.T) {
	info, err := Decode(`{"package":"p","functions":{"f":"()->void"}}`)
	require.NoError(t, err)
	assert.Equal(t, TypeInfo{Package: "p", Functions: map[string]string{"f": "()->void"}}, info)

	_, err = Decode("{")
	assert.Error(t, err)
}
