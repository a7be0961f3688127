package render

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"

	"github.com/qumulo/qumulo-import/internal/terraform"
)

// funcMap returns the sprig text functions plus the HCL helpers.
func funcMap() template.FuncMap {
	funcs := sprig.TxtFuncMap()
	funcs["hcl"] = Quote
	funcs["hcllist"] = List
	funcs["derefstr"] = derefString
	funcs["derefbool"] = derefBool
	return funcs
}

// Quote renders v as a quoted HCL string literal.
func Quote(v any) string {
	var s string
	switch t := v.(type) {
	case string:
		s = t
	case *string:
		s = derefString(t)
	case fmt.Stringer:
		s = t.String()
	default:
		s = fmt.Sprint(v)
	}
	return terraform.QuoteString(s)
}

// List renders items as a single-line HCL list of strings.
func List(items []string) string {
	quoted := make([]string, len(items))
	for i, item := range items {
		quoted[i] = Quote(item)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefBool(b *bool) bool {
	return b != nil && *b
}
