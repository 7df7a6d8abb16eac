package main

import (
	"fmt"
	"io/ioutil"
	"os"

	"github.com/alecthomas/participle"

	. "github.com/dave/jennifer/jen"
)

// KindDecls is the grammar of an .adt file:
//
//	kind Node = Program | Call | ... ;
//
// Every variant names a pointer type that already exists in the target
// package; the generator only adds the marker method closing the sum type.
type KindDecls struct {
	Declarations []*Declaration `@@*`
}

type Declaration struct {
	Name     string   `"kind" @Ident "="`
	Variants []string `"|"? @Ident ("|" @Ident)* ";"`
}

func (k *KindDecls) check() error {
	for _, decl := range k.Declarations {
		seen := map[string]bool{}
		for _, v := range decl.Variants {
			if seen[v] {
				return fmt.Errorf("%s lists %s twice", decl.Name, v)
			}
			seen[v] = true
		}
	}
	return nil
}

func GenerateMarkers(pkgname string, k *KindDecls) string {
	f := NewFile(pkgname)
	f.HeaderComment("Code generated by adtgen. DO NOT EDIT.")

	for _, decl := range k.Declarations {
		for _, it := range decl.Variants {
			f.Func().Params(Id("v").Op("*").Id(it)).Id("is_" + decl.Name).Params().Block()
		}
	}

	return fmt.Sprintf("%#v", f)
}

func main() {
	parser := participle.MustBuild(&KindDecls{})

	if len(os.Args) != 4 {
		fmt.Fprintln(os.Stderr, "usage: adtgen <in.adt> <out.go> <package>")
		os.Exit(2)
	}

	in := os.Args[1]
	out := os.Args[2]
	pkgname := os.Args[3]

	inData, err := ioutil.ReadFile(in)
	if err != nil {
		panic(err)
	}

	decls := KindDecls{}
	err = parser.ParseBytes(inData, &decls)
	if err != nil {
		panic(err)
	}
	if err = decls.check(); err != nil {
		panic(err)
	}

	err = ioutil.WriteFile(out, []byte(GenerateMarkers(pkgname, &decls)), 0644)
	if err != nil {
		panic(err)
	}
}
