package source

import (
	"context"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"log/slog"
	"os"

	"golang.org/x/tools/go/packages"
)

// LoadMode is syntax-only: model packages are never type-checked.
const LoadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedSyntax

// ParseSource parses one Go file held in memory.
func ParseSource(filename string, src []byte) (*Namespace, error) {
	fset := token.NewFileSet()

	file, err := parser.ParseFile(fset, filename, src, parser.ParseComments|parser.SkipObjectResolution)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filename, err)
	}

	ns := NewNamespace(fset)
	ns.AddFile(file)

	return ns, nil
}

// ParseFile reads and parses the Go file at path.
func ParseFile(path string) (*Namespace, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	return ParseSource(path, src)
}

// LoadDir loads the package in dir. Package and list errors are logged as
// warnings and loading continues with whatever syntax was recovered.
func LoadDir(ctx context.Context, dir string, logger *slog.Logger) (*Namespace, error) {
	if logger == nil {
		logger = slog.Default()
	}

	fset := token.NewFileSet()
	cfg := &packages.Config{
		Context: ctx,
		Mode:    LoadMode,
		Dir:     dir,
		Fset:    fset,
		ParseFile: func(fset *token.FileSet, filename string, src []byte) (*ast.File, error) {
			return parser.ParseFile(fset, filename, src, parser.ParseComments|parser.SkipObjectResolution)
		},
	}

	pkgs, err := packages.Load(cfg, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to load package in %s: %w", dir, err)
	}

	ns := NewNamespace(fset)

	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			logger.Warn("package error, continuing", "package", pkg.PkgPath, "error", e.Msg)
		}

		for _, file := range pkg.Syntax {
			ns.AddFile(file)
		}
	}

	if len(ns.Symbols) == 0 && ns.Package == "" {
		return nil, fmt.Errorf("no Go files loaded from %s", dir)
	}

	return ns, nil
}
