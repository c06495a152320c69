package ws

import (
	"reflect"
	"strings"

	"github.com/iancoleman/strcase"
)

type Named interface {
	TypeName() string
}

// NameOf resolves the name of a value. Values implementing Named use their own
// name, everything else is named "<package>/<lowerCamelType>", e.g.
// "counter/incrementByAmount".
func NameOf(value any) string {
	if typed, ok := value.(Named); ok {
		return typed.TypeName()
	}

	split := strings.Split(reflect.TypeOf(value).String(), ".")
	segments := make([]string, len(split))
	for i, segment := range split {
		s := strings.TrimLeft(segment, "*[]")
		segments[i] = strcase.ToLowerCamel(s)
	}

	if len(segments) == 1 {
		return segments[0]
	}

	namespace := strcase.ToKebab(segments[0])
	name := strings.Join(segments[1:], "-")

	return namespace + "/" + name
}
