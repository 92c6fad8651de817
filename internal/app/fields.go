package app

import (
	"reflect"
	"strings"
	"sync"
)

type jsonField struct {
	name string
	typ  reflect.Type
}

var fieldCache sync.Map // reflect.Type -> []jsonField

// jsonFields lists the JSON object keys a struct type marshals to, in
// declaration order, with embedded structs flattened the way encoding/json
// flattens them.
func jsonFields(t reflect.Type) []jsonField {
	if v, ok := fieldCache.Load(t); ok {
		return v.([]jsonField)
	}
	out := appendFields(nil, t)
	fieldCache.Store(t, out)
	return out
}

func appendFields(out []jsonField, t reflect.Type) []jsonField {
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		tag := sf.Tag.Get("json")
		if tag == "-" {
			continue
		}
		name := strings.SplitN(tag, ",", 2)[0]
		if sf.Anonymous && name == "" && sf.Type.Kind() == reflect.Struct {
			out = appendFields(out, sf.Type)
			continue
		}
		if !sf.IsExported() {
			continue
		}
		if name == "" {
			name = sf.Name
		}
		out = append(out, jsonField{name: name, typ: sf.Type})
	}
	return out
}

func fieldNames(fs []jsonField) []string {
	names := make([]string, len(fs))
	for i, f := range fs {
		names[i] = f.name
	}
	return names
}
