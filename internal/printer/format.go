package printer

import (
	"bytes"
	"fmt"
	"go/format"
	"slices"
	"strconv"
	"strings"
	"text/template"
)

var moduleTemplate = template.Must(template.New("module").Parse(`package {{.Package}}
{{if .Imports}}
{{.Imports}}
{{end}}{{if .BaseData}}
{{.BaseData}}
{{end}}{{range .Models}}
{{.}}
{{end}}`))

// ModuleData is the input of Assemble.
type ModuleData struct {
	Package  string
	Imports  string
	BaseData string
	Models   []string
}

// Assemble renders a complete Go file and formats it.
func Assemble(data ModuleData) ([]byte, error) {
	var buf bytes.Buffer
	if err := moduleTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("executing module template: %w", err)
	}

	return Format(buf.Bytes())
}

// Format runs gofmt over src. On failure the unformatted source is returned
// together with the error so callers can dump it for debugging.
func Format(src []byte) ([]byte, error) {
	formatted, err := format.Source(src)
	if err != nil {
		return src, fmt.Errorf("formatting code: %w", err)
	}

	return formatted, nil
}

// ImportBlock renders a sorted, de-duplicated import declaration. Standard
// library paths are grouped before third-party ones.
func ImportBlock(paths []string) string {
	var std, ext []string

	for _, p := range paths {
		if p == "" {
			continue
		}

		if isStdlib(p) {
			std = append(std, p)
		} else {
			ext = append(ext, p)
		}
	}

	slices.Sort(std)
	slices.Sort(ext)
	std = slices.Compact(std)
	ext = slices.Compact(ext)

	if len(std)+len(ext) == 0 {
		return ""
	}

	var sb strings.Builder

	sb.WriteString("import (\n")

	for _, p := range std {
		sb.WriteString("\t" + strconv.Quote(p) + "\n")
	}

	if len(std) > 0 && len(ext) > 0 {
		sb.WriteString("\n")
	}

	for _, p := range ext {
		sb.WriteString("\t" + strconv.Quote(p) + "\n")
	}

	sb.WriteString(")")

	return sb.String()
}

// Indent prefixes every non-empty line of s with n tabs.
func Indent(s string, n int) string {
	prefix := strings.Repeat("\t", n)
	lines := strings.Split(s, "\n")

	for i, l := range lines {
		if l != "" {
			lines[i] = prefix + l
		}
	}

	return strings.Join(lines, "\n")
}

// JoinNonEmpty joins the non-empty parts with sep.
func JoinNonEmpty(sep string, parts ...string) string {
	kept := make([]string, 0, len(parts))

	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}

	return strings.Join(kept, sep)
}

// Comment renders doc as a // comment block; empty doc renders nothing.
func Comment(doc string) string {
	if strings.TrimSpace(doc) == "" {
		return ""
	}

	lines := strings.Split(strings.TrimSpace(doc), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight("// "+l, " ")
	}

	return strings.Join(lines, "\n")
}

// isStdlib uses the go command's rule: the first path element of a
// standard library package has no dot.
func isStdlib(p string) bool {
	first, _, _ := strings.Cut(p, "/")
	return !strings.Contains(first, ".")
}
