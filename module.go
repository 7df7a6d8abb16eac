package main

import (
	"io/ioutil"
	"path/filepath"

	"github.com/pontaoski/lemonc/analyzer"
	"github.com/pontaoski/lemonc/ast"
	"github.com/pontaoski/lemonc/generator"
	"github.com/pontaoski/lemonc/optimizer"
	"github.com/pontaoski/lemonc/parser"
	"github.com/pontaoski/lemonc/reader"
	"github.com/ztrue/tracerr"
	"gopkg.in/yaml.v2"
)

const moduleFile = "Lemon Module Information"

type lemonModule struct {
	Package   string `yaml:"Package"`
	Output    string `yaml:"Output,omitempty"`
	Optimize  bool   `yaml:"Optimize"`
	MaxUnroll int    `yaml:"MaxUnroll,omitempty"`
	LogLevel  string `yaml:"LogLevel,omitempty"`
}

func newModule(name string) lemonModule {
	return lemonModule{
		Package:   name,
		Output:    name + ".js",
		Optimize:  true,
		MaxUnroll: optimizer.DefaultMaxUnroll,
		LogLevel:  "INFO",
	}
}

func writeModule(dir string, m lemonModule) error {
	out, err := yaml.Marshal(m)
	if err != nil {
		return tracerr.Wrap(err)
	}
	return tracerr.Wrap(ioutil.WriteFile(filepath.Join(dir, moduleFile), out, 0644))
}

func readModule(dir string) (m lemonModule, err error) {
	data, err := ioutil.ReadFile(filepath.Join(dir, moduleFile))
	if err != nil {
		return lemonModule{}, tracerr.Wrap(err)
	}
	err = yaml.Unmarshal(data, &m)
	if err != nil {
		return lemonModule{}, tracerr.Wrap(err)
	}
	if m.Output == "" {
		m.Output = m.Package + ".js"
	}
	return m, nil
}

// parseDirectory parses every source of dir into one program, in file name
// order.
func parseDirectory(dir string) (*ast.Program, error) {
	sources, err := reader.ReadDirectory(dir)
	if err != nil {
		return nil, err
	}

	program := &ast.Program{}
	for _, s := range sources {
		p, err := parser.ParseFile(s.Text, s.Filename)
		if err != nil {
			return nil, err
		}
		program.Imports = append(program.Imports, p.Imports...)
		program.Statements = append(program.Statements, p.Statements...)
	}
	return program, nil
}

// buildDirectory analyzes the sources of dir as one program and returns it
// with its JavaScript.
func buildDirectory(dir string, m lemonModule) (*ast.Program, string, error) {
	parsed, err := parseDirectory(dir)
	if err != nil {
		return nil, "", err
	}
	program, err := analyzer.Analyze(parsed)
	if err != nil {
		return nil, "", err
	}
	if m.Optimize {
		program = optimizer.New(optimizer.Options{MaxUnroll: m.MaxUnroll}).OptimizeProgram(program)
	}
	return program, generator.Generate(program), nil
}
