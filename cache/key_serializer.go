package cache

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// KeySeparator defines the delimiter used between cache key segments.
const KeySeparator = "::"

// KeySerializer builds a cache key from a namespace and key parts. Keys must
// be stable across processes, since they may address a shared backend.
type KeySerializer interface {
	SerializeKey(namespace string, parts ...any) string
}

type defaultKeySerializer struct{}

// NewDefaultKeySerializer returns the default serializer. Parts are rendered
// with fmt.Stringer when available (uuid.UUID, decimal.Decimal), as plain
// values for scalars, element by element for slices and as JSON otherwise.
func NewDefaultKeySerializer() KeySerializer {
	return defaultKeySerializer{}
}

func (s defaultKeySerializer) SerializeKey(namespace string, parts ...any) string {
	if len(parts) == 0 {
		return namespace
	}

	segments := make([]string, 0, len(parts)+1)
	segments = append(segments, namespace)
	for _, p := range parts {
		segments = append(segments, s.part(p))
	}
	return strings.Join(segments, KeySeparator)
}

func (s defaultKeySerializer) part(v any) string {
	switch t := v.(type) {
	case nil:
		return "nil"
	case string:
		return t
	case fmt.Stringer:
		return t.String()
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr:
		if rv.IsNil() {
			return "nil"
		}
		return s.part(rv.Elem().Interface())
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return "[]"
		}
		elems := make([]string, rv.Len())
		for i := range elems {
			elems[i] = s.part(rv.Index(i).Interface())
		}
		return "[" + strings.Join(elems, ",") + "]"
	case reflect.String:
		return rv.String()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10)
	}

	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%T", v)
	}
	return string(data)
}
