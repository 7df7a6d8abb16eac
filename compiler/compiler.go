// Package compiler runs the lemonScript pipeline up to a requested stage.
//
//	ast        the parsed tree
//	analyzed   the decorated tree (also "analyze")
//	optimized  the optimized decorated tree (also "optimize")
//	generate   JavaScript for the unoptimized tree
//	js         JavaScript for the optimized tree
package compiler

import (
	"math/rand"
	"strings"

	"github.com/coreos/pkg/capnslog"
	"github.com/pontaoski/lemonc/analyzer"
	"github.com/pontaoski/lemonc/ast"
	"github.com/pontaoski/lemonc/generator"
	"github.com/pontaoski/lemonc/optimizer"
	"github.com/pontaoski/lemonc/parser"
)

var log = capnslog.NewPackageLogger("github.com/pontaoski/lemonc", "compiler")

// UnknownStage is what Compile returns for a stage it does not know.
const UnknownStage = "Unknown output type"

var quotes = []string{
	"unsqueeze the lemonade till you get lemons 🍋",
	"🍋 🍋🍋 🍋🍋🍋 🍋🍋🍋🍋 🍋🍋🍋🍋🍋 ...",
	"no lemons here :(",
	"chocoMilk coming out next ?",
	"lemonScript > python",
}

type Options struct {
	// Filename is reported in syntax errors.
	Filename  string
	Optimizer optimizer.Options
}

type Compiler struct {
	filename  string
	optimizer *optimizer.Optimizer
}

func New(opts Options) *Compiler {
	return &Compiler{
		filename:  opts.Filename,
		optimizer: optimizer.New(opts.Optimizer),
	}
}

// Compile runs source through the default compiler.
func Compile(source, stage string) (interface{}, error) {
	return New(Options{}).Compile(source, stage)
}

func (c *Compiler) Parse(source string) (*ast.Program, error) {
	return parser.ParseFile(source, c.filename)
}

func (c *Compiler) Analyze(source string) (*ast.Program, error) {
	prog, err := c.Parse(source)
	if err != nil {
		return nil, err
	}
	return analyzer.Analyze(prog)
}

func (c *Compiler) Optimize(source string) (*ast.Program, error) {
	prog, err := c.Analyze(source)
	if err != nil {
		return nil, err
	}
	return c.optimizer.OptimizeProgram(prog), nil
}

// Compile returns the program at the given stage. The stage name is case
// insensitive; an unknown one yields UnknownStage and no error.
func (c *Compiler) Compile(source, stage string) (interface{}, error) {
	stage = strings.ToLower(stage)
	log.Debugf("compiling %q to %s", c.filename, stage)

	switch stage {
	case "ast":
		return c.Parse(source)
	case "analyze", "analyzed":
		return c.Analyze(source)
	case "optimize", "optimized":
		return c.Optimize(source)
	case "generate":
		prog, err := c.Analyze(source)
		if err != nil {
			return nil, err
		}
		return generator.Generate(prog), nil
	case "js":
		prog, err := c.Optimize(source)
		if err != nil {
			return nil, err
		}
		return generator.Generate(prog), nil
	case "lemon":
		return quotes[rand.Intn(len(quotes))], nil
	}
	return UnknownStage, nil
}
