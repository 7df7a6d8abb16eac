package main

import (
	stderrors "errors"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/repr"
	"github.com/coreos/pkg/capnslog"
	"github.com/pontaoski/lemonc/compiler"
	"github.com/pontaoski/lemonc/errors"
	"github.com/pontaoski/lemonc/optimizer"
	"github.com/pontaoski/lemonc/reader"
	"github.com/pontaoski/lemonc/typeinfo"
	"github.com/urfave/cli/v2"
	"github.com/ztrue/tracerr"
)

var log = capnslog.NewPackageLogger("github.com/pontaoski/lemonc", "lemonc")

func setupLogging(level string) error {
	capnslog.SetFormatter(capnslog.NewPrettyFormatter(os.Stderr, false))
	lvl, err := capnslog.ParseLevel(strings.ToUpper(level))
	if err != nil {
		return err
	}
	capnslog.SetGlobalLogLevel(lvl)
	return nil
}

// report prints lemonScript diagnostics plainly and anything else with its
// stack trace.
func report(err error) {
	var syntaxErr errors.SyntaxError
	var semErr errors.SemanticError
	switch {
	case stderrors.As(err, &syntaxErr):
		fmt.Fprintln(os.Stderr, syntaxErr.Error())
	case stderrors.As(err, &semErr):
		fmt.Fprintln(os.Stderr, semErr.Error())
	default:
		tracerr.PrintSourceColor(err)
	}
}

func output(path, data string) error {
	if path == "" {
		fmt.Println(data)
		return nil
	}
	log.Infof("writing %s", path)
	return tracerr.Wrap(ioutil.WriteFile(path, []byte(data+"\n"), 0644))
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "lemonc",
		Usage: "lemonScript compiler",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-level",
				Value: "INFO",
			},
		},
		Before: func(c *cli.Context) error {
			return setupLogging(c.String("log-level"))
		},
		// errors are reported once by main
		ExitErrHandler: func(*cli.Context, error) {},
		Commands: []*cli.Command{
			{
				Name:  "init",
				Usage: "init a directory",
				Action: func(c *cli.Context) error {
					name := c.Args().First()
					if name == "" {
						return fmt.Errorf("no module name provided")
					}
					return writeModule(".", newModule(name))
				},
			},
			{
				Name:      "compile",
				Usage:     "compile a file",
				ArgsUsage: "<file>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "stage",
						Value: "js",
						Usage: "ast, analyzed, optimized, generate or js",
					},
					&cli.StringFlag{
						Name: "output",
					},
					&cli.IntFlag{
						Name:  "max-unroll",
						Value: optimizer.DefaultMaxUnroll,
					},
				},
				Action: func(c *cli.Context) error {
					file := c.Args().First()
					data, err := ioutil.ReadFile(file)
					if err != nil {
						return tracerr.Wrap(err)
					}

					comp := compiler.New(compiler.Options{
						Filename:  file,
						Optimizer: optimizer.Options{MaxUnroll: c.Int("max-unroll")},
					})
					result, err := comp.Compile(string(data), c.String("stage"))
					if err != nil {
						return err
					}

					if js, ok := result.(string); ok {
						return output(c.String("output"), js)
					}
					return output(c.String("output"), repr.String(result, repr.Indent("  ")))
				},
			},
			{
				Name:  "build",
				Usage: "build the module in the current directory",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name: "output",
					},
					&cli.BoolFlag{
						Name:  "dump",
						Value: false,
					},
				},
				Action: func(c *cli.Context) error {
					mod, err := readModule(".")
					if err != nil {
						return err
					}
					if mod.LogLevel != "" && !c.IsSet("log-level") {
						if err := setupLogging(mod.LogLevel); err != nil {
							return err
						}
					}

					out := c.String("output")
					if out == "" {
						out = mod.Output
					}

					program, js, err := buildDirectory(".", mod)
					if err != nil {
						return err
					}

					if c.Bool("dump") {
						repr.Println(program)
						return nil
					}
					return output(out, js)
				},
			},
			{
				Name:      "typeinfo",
				Usage:     "dump typeinfo from a source file or a compiled module",
				ArgsUsage: "<file>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "ll",
						Usage: "write an LLVM module carrying the typeinfo",
					},
				},
				Action: func(c *cli.Context) error {
					file := c.Args().Get(0)
					if strings.HasSuffix(file, ".ll") {
						info, err := typeinfo.FromFile(file)
						if err != nil {
							return err
						}
						repr.Println(info)
						return nil
					}

					data, err := ioutil.ReadFile(file)
					if err != nil {
						return tracerr.Wrap(err)
					}
					program, err := compiler.New(compiler.Options{Filename: file}).Analyze(string(data))
					if err != nil {
						return err
					}

					pkg := strings.TrimSuffix(filepath.Base(file), reader.SourceExtension)
					if ll := c.String("ll"); ll != "" {
						return output(ll, typeinfo.Module(pkg, program).String())
					}
					repr.Println(typeinfo.Collect(pkg, program))
					return nil
				},
			},
		},
	}
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		report(err)
		os.Exit(1)
	}
}
