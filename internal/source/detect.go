package source

import (
	"errors"
	"fmt"
	"go/ast"
	"reflect"
	"strconv"
)

// Framework keys returned by detection.
const (
	FrameworkGORM = "gorm"
	FrameworkEnt  = "ent"
)

// Import paths that identify a framework.
const (
	gormImport = "gorm.io/gorm"
	entImport  = "entgo.io/ent"
)

// ErrUnknownFramework is returned when no framework can be detected.
var ErrUnknownFramework = errors.New("unknown framework")

// Detect guesses the framework a Go file is written for. An ent import
// takes precedence over a GORM one.
func Detect(filename string, src []byte) (string, error) {
	ns, err := ParseSource(filename, src)
	if err != nil {
		return "", err
	}

	return DetectNamespace(ns)
}

// DetectNamespace guesses the framework from imports, falling back to
// `gorm:"..."` struct tags.
func DetectNamespace(ns *Namespace) (string, error) {
	switch {
	case ns.ImportsPrefix(entImport):
		return FrameworkEnt, nil
	case ns.ImportsPrefix(gormImport):
		return FrameworkGORM, nil
	case hasGORMTags(ns):
		return FrameworkGORM, nil
	}

	return "", fmt.Errorf("%w: package %s imports neither %s nor %s", ErrUnknownFramework, ns.Package, gormImport, entImport)
}

func hasGORMTags(ns *Namespace) bool {
	for _, sym := range ns.Symbols {
		st, ok := sym.Struct()
		if !ok || st.Fields == nil {
			continue
		}

		for _, f := range st.Fields.List {
			if _, ok := FieldTag(f).Lookup("gorm"); ok {
				return true
			}
		}
	}

	return false
}

// FieldTag returns the struct tag of an AST field.
func FieldTag(f *ast.Field) reflect.StructTag {
	if f.Tag == nil {
		return ""
	}

	tag, err := strconv.Unquote(f.Tag.Value)
	if err != nil {
		return ""
	}

	return reflect.StructTag(tag)
}
