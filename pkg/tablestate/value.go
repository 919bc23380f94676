package tablestate

import (
	"fmt"
	"reflect"
	"strings"
)

// valueOf reads the named field from an item, preferring a configured
// accessor override and falling back to direct field access.
func (c *Config[T]) valueOf(item T, key string) any {
	if fn, ok := c.GetValue[key]; ok && fn != nil {
		return fn(item)
	}
	return lookupField(item, key)
}

// lookupField resolves a field by name on structs, struct pointers and
// string-keyed maps. Missing fields yield nil rather than an error, so a
// misconfigured key degrades to a no-op filter.
func lookupField(item any, key string) any {
	v := reflect.ValueOf(item)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			return nil
		}
		mv := v.MapIndex(reflect.ValueOf(key))
		if !mv.IsValid() {
			return nil
		}
		return mv.Interface()

	case reflect.Struct:
		fv := v.FieldByName(key)
		if !fv.IsValid() {
			// Exported Go fields are usually TitleCase while config
			// keys tend to be camelCase; retry case-insensitively.
			fv = v.FieldByNameFunc(func(name string) bool {
				return strings.EqualFold(name, key)
			})
		}
		if !fv.IsValid() || !fv.CanInterface() {
			return nil
		}
		return fv.Interface()

	default:
		return nil
	}
}

// stringify renders a field value for comparison and option extraction.
// Nil renders as the empty string.
func stringify(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}
