package validation

import (
	"reflect"
	"strings"
)

// entities produced by EscapeString. An ampersand that already starts one of
// them is left alone, which keeps escaping idempotent.
var entities = []string{"&amp;", "&lt;", "&gt;", "&quot;", "&#39;"}

// EscapeString replaces & < > " ' with HTML entities.
func EscapeString(s string) string {
	if !strings.ContainsAny(s, `&<>"'`) {
		return s
	}

	var b strings.Builder
	b.Grow(len(s) + 16)
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '&':
			if startsWithEntity(s[i:]) {
				b.WriteByte('&')
			} else {
				b.WriteString("&amp;")
			}
		case '<':
			b.WriteString("&lt;")
		case '>':
			b.WriteString("&gt;")
		case '"':
			b.WriteString("&quot;")
		case '\'':
			b.WriteString("&#39;")
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

func startsWithEntity(s string) bool {
	for _, e := range entities {
		if strings.HasPrefix(s, e) {
			return true
		}
	}
	return false
}

// Sanitize returns a copy of v with every string escaped, walking maps,
// slices and slices of maps. Numbers, booleans and nil come back unchanged.
func Sanitize(v any) any {
	switch t := v.(type) {
	case string:
		return EscapeString(t)
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = Sanitize(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = Sanitize(val)
		}
		return out
	case []map[string]any:
		out := make([]map[string]any, len(t))
		for i, m := range t {
			out[i] = Sanitize(m).(map[string]any)
		}
		return out
	case []string:
		out := make([]string, len(t))
		for i, s := range t {
			out[i] = EscapeString(s)
		}
		return out
	default:
		return v
	}
}

// SanitizeStruct escapes, in place, every settable string reachable from ptr:
// plain fields, string pointers, slices and nested structs.
func SanitizeStruct(ptr any) {
	sanitizeValue(reflect.ValueOf(ptr))
}

func sanitizeValue(v reflect.Value) {
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface:
		if !v.IsNil() {
			sanitizeValue(v.Elem())
		}
	case reflect.Struct:
		for i := 0; i < v.NumField(); i++ {
			if f := v.Field(i); f.CanSet() {
				sanitizeValue(f)
			}
		}
	case reflect.Slice, reflect.Array:
		for i := 0; i < v.Len(); i++ {
			sanitizeValue(v.Index(i))
		}
	case reflect.Map:
		if v.Type().Elem().Kind() != reflect.String {
			return
		}
		for _, k := range v.MapKeys() {
			v.SetMapIndex(k, reflect.ValueOf(EscapeString(v.MapIndex(k).String())).Convert(v.Type().Elem()))
		}
	case reflect.String:
		if v.CanSet() {
			v.SetString(EscapeString(v.String()))
		}
	}
}
