// Package reader loads the files lemonc works on: lemonScript sources and
// the LLVM modules typeinfo writes.
package reader

import (
	"fmt"
	"io/ioutil"
	"path/filepath"
	"sort"
	"strings"

	"github.com/coreos/pkg/capnslog"
	"github.com/llir/llvm/asm"
	"github.com/llir/llvm/ir/constant"
	"github.com/ztrue/tracerr"
)

var log = capnslog.NewPackageLogger("github.com/pontaoski/lemonc", "reader")

const (
	SourceExtension = ".lemon"
	TypeInfoSymbol  = "__lemon_types"
)

type Source struct {
	Filename string
	Text     string
}

// ReadDirectory returns every lemonScript source directly inside dir,
// ordered by file name.
func ReadDirectory(dir string) ([]Source, error) {
	fis, err := ioutil.ReadDir(dir)
	if err != nil {
		return nil, tracerr.Wrap(err)
	}

	var sources []Source
	for _, fi := range fis {
		if fi.IsDir() || !strings.HasSuffix(fi.Name(), SourceExtension) {
			continue
		}
		data, err := ioutil.ReadFile(filepath.Join(dir, fi.Name()))
		if err != nil {
			return nil, tracerr.Wrap(err)
		}
		log.Debugf("read %s (%d bytes)", fi.Name(), len(data))
		sources = append(sources, Source{Filename: fi.Name(), Text: string(data)})
	}

	sort.Slice(sources, func(i, j int) bool { return sources[i].Filename < sources[j].Filename })
	return sources, nil
}

// ReadTypeInfo returns the type information embedded in an LLVM IR file.
func ReadTypeInfo(from string) (string, error) {
	m, err := asm.ParseFile(from)
	if err != nil {
		return "", tracerr.Wrap(err)
	}

	for _, g := range m.Globals {
		if g.Name() != TypeInfoSymbol {
			continue
		}
		data, ok := g.Init.(*constant.CharArray)
		if !ok {
			return "", tracerr.Errorf("%s in %s is not a string", TypeInfoSymbol, from)
		}
		return strings.TrimRight(string(data.X), "\x00"), nil
	}
	return "", tracerr.Wrap(fmt.Errorf("%s has no %s", from, TypeInfoSymbol))
}
