package prompt

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Declared leaf types for stored variable values. Everything else is text.
var intKeys = map[string]bool{
	"composition.padding_percent":  true,
	"visual_style.line_weight_px":  true,
	"print_spec.px_size.width":     true,
	"print_spec.px_size.height":    true,
	"print_spec.dpi_target":        true,
	"print_spec.safe_margin_px":    true,
	"print_spec.stroke_outline_px": true,
	"output.n_variations":          true,
	"output.seed":                  true,
}

var floatKeys = map[string]bool{
	"color.gradient_map.clip_black": true,
	"color.gradient_map.clip_white": true,
}

var boolKeys = map[string]bool{
	"color.allow_gradients":                     true,
	"color.gradient_map.reverse":                true,
	"output.transparent":                        true,
	"print_spec.use_white_keyline_for_stickers": true,
	"constraints.no_photographic_textures":      true,
	"constraints.no_raster_noise":               true,
	"constraints.no_background_box":             true,
	"constraints.no_watermarks":                 true,
	"constraints.no_small_illegible_text":       true,
}

// multiValueKeys maps list-typed key paths to how many distinct items a
// single resolution draws.
var multiValueKeys = map[string]int{
	"subject":             3,
	"icons_symbols":       2,
	"composition.style":   2,
	"text.font_vibe":      2,
	"text.text_treatment": 3,
}

// MultiValueCardinality returns the draw count for a list-typed key path,
// or 0 for scalar keys.
func MultiValueCardinality(keyPath string) int {
	return multiValueKeys[keyPath]
}

// CoerceValue converts stored text into the leaf type declared for the key
// path. Unparseable values come back unchanged so a bad row degrades to a
// skipped write instead of an error.
func CoerceValue(keyPath, raw string) interface{} {
	switch {
	case intKeys[keyPath]:
		if i, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil {
			return i
		}
		return raw
	case floatKeys[keyPath]:
		if f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err == nil {
			return f
		}
		return raw
	case boolKeys[keyPath]:
		switch strings.ToLower(strings.TrimSpace(raw)) {
		case "true", "1", "yes", "y":
			return true
		case "false", "0", "no", "n":
			return false
		}
		return raw
	default:
		return raw
	}
}

// SetPath writes value into the document leaf addressed by the
// dot-delimited key path, matching struct fields by json tag. It is the
// only dynamic mutation point for documents; everything else works with
// the typed struct directly.
func SetPath(doc *Document, keyPath string, value interface{}) error {
	parts := strings.Split(keyPath, ".")
	v := reflect.ValueOf(doc).Elem()
	for i, part := range parts {
		if v.Kind() != reflect.Struct {
			return fmt.Errorf("path %q: %q is not a section", keyPath, strings.Join(parts[:i], "."))
		}
		field, ok := fieldByTag(v, part)
		if !ok {
			return fmt.Errorf("path %q: unknown field %q", keyPath, part)
		}
		if i == len(parts)-1 {
			return assign(field, value, keyPath)
		}
		v = field
	}
	return nil
}

func fieldByTag(v reflect.Value, tag string) (reflect.Value, bool) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		name := strings.Split(t.Field(i).Tag.Get("json"), ",")[0]
		if name == tag {
			return v.Field(i), true
		}
	}
	return reflect.Value{}, false
}

func assign(field reflect.Value, value interface{}, keyPath string) error {
	if value == nil {
		return fmt.Errorf("path %q: nil value", keyPath)
	}
	switch field.Kind() {
	case reflect.String:
		field.SetString(stringify(value))
		return nil
	case reflect.Int:
		switch n := value.(type) {
		case int:
			field.SetInt(int64(n))
		case int64:
			field.SetInt(n)
		case float64:
			field.SetInt(int64(n))
		default:
			return fmt.Errorf("path %q: cannot assign %T to int leaf", keyPath, value)
		}
		return nil
	case reflect.Float64:
		switch n := value.(type) {
		case float64:
			field.SetFloat(n)
		case int:
			field.SetFloat(float64(n))
		default:
			return fmt.Errorf("path %q: cannot assign %T to float leaf", keyPath, value)
		}
		return nil
	case reflect.Bool:
		b, ok := value.(bool)
		if !ok {
			return fmt.Errorf("path %q: cannot assign %T to bool leaf", keyPath, value)
		}
		field.SetBool(b)
		return nil
	case reflect.Slice:
		return assignStrings(field, value, keyPath)
	default:
		return fmt.Errorf("path %q: unsupported leaf kind %s", keyPath, field.Kind())
	}
}

func assignStrings(field reflect.Value, value interface{}, keyPath string) error {
	var vals []string
	switch vv := value.(type) {
	case []string:
		vals = vv
	case []interface{}:
		vals = make([]string, len(vv))
		for i, e := range vv {
			vals[i] = stringify(e)
		}
	case string:
		vals = []string{vv}
	default:
		return fmt.Errorf("path %q: cannot assign %T to list leaf", keyPath, value)
	}
	field.Set(reflect.ValueOf(vals))
	return nil
}

func stringify(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
