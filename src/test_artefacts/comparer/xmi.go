package comparer

import (
	"reflect"
	"strings"

	"github.com/google/go-cmp/cmp"
)

const xmiPackage = "xmimodel/src/domain/xmi"

// XmiEntities compares xmi values field by field, unexported fields included. Build
// diagnostics are ignored.
func XmiEntities() cmp.Option {
	return cmp.Options{
		cmp.Exporter(func(t reflect.Type) bool {
			return strings.HasPrefix(t.PkgPath(), xmiPackage)
		}),
		cmp.FilterPath(func(p cmp.Path) bool {
			sf, ok := p.Last().(cmp.StructField)
			return ok && sf.Name() == "diagnostics"
		}, cmp.Ignore()),
	}
}
