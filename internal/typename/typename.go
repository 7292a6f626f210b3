// Package typename derives message type names from Go payload types.
package typename

import (
	"reflect"
	"strings"

	"github.com/iancoleman/strcase"
)

// Of returns the type used for naming a payload of static type T. Pointers are
// named after their element type; interface types after the dynamic type of
// value when one is available.
func Of[T any](value T) reflect.Type {
	t := reflect.TypeOf((*T)(nil)).Elem()
	if t.Kind() == reflect.Interface {
		if dyn := reflect.TypeOf(value); dyn != nil {
			t = dyn
		}
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

// FullName returns "import/path.Name" for named types declared in a package,
// and "" for predeclared and unnamed types. Generic types are named without
// their type arguments.
func FullName(t reflect.Type) string {
	if t == nil || t.Name() == "" || t.PkgPath() == "" {
		return ""
	}
	return t.PkgPath() + "." + declaredName(t)
}

// ShortName returns the unqualified type name. Unnamed types fall back to
// their string form so the result is never empty.
func ShortName(t reflect.Type) string {
	if t == nil {
		return "interface {}"
	}
	if t.Name() != "" {
		return declaredName(t)
	}
	return t.String()
}

// declaredName drops the type argument list from instantiated generic types,
// so Envelope[pkg.Order] is named Envelope.
func declaredName(t reflect.Type) string {
	name := t.Name()
	if i := strings.IndexByte(name, '['); i > 0 {
		return name[:i]
	}
	return name
}

// SnakeCase converts a type name such as "OrderCreated" to "order_created"
func SnakeCase(name string) string {
	return strcase.ToSnake(name)
}
