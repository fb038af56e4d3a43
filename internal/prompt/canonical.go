package prompt

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// Canonical returns the deterministic full serialization of the document:
// globally sorted keys, no extraneous whitespace. Stored alongside the
// prompt record and used for exact-reproduction checks.
func Canonical(doc *Document) (string, error) {
	return canonicalJSON(doc)
}

// SlimCanonical retains only the creatively significant fields, so two
// documents differing only in structural boilerplate (print dimensions,
// safe margins, constraint flags) serialize identically. This is the sole
// input to the text-similarity hashes.
func SlimCanonical(doc *Document) (string, error) {
	slim := map[string]interface{}{
		"design_title": doc.DesignTitle,
		"text": map[string]interface{}{
			"primary":        doc.Text.Primary,
			"secondary":      doc.Text.Secondary,
			"layout":         doc.Text.Layout,
			"font_vibe":      doc.Text.FontVibe,
			"text_treatment": doc.Text.TextTreatment,
		},
		"subject": doc.Subject,
		"composition": map[string]interface{}{
			"style":       doc.Composition.Style,
			"framing":     doc.Composition.Framing,
			"perspective": doc.Composition.Perspective,
			"balance":     doc.Composition.Balance,
		},
		"visual_style": map[string]interface{}{
			"genre_tags": doc.VisualStyle.GenreTags,
			"shading":    doc.VisualStyle.Shading,
			"finish":     doc.VisualStyle.Finish,
		},
		"color": map[string]interface{}{
			"allow_gradients": doc.Color.AllowGradients,
			"gradient_map": map[string]interface{}{
				"scheme":   doc.Color.GradientMap.Scheme,
				"apply_to": doc.Color.GradientMap.ApplyTo,
				"reverse":  doc.Color.GradientMap.Reverse,
			},
		},
		"icons_symbols":   doc.IconsSymbols,
		"negative_prompt": doc.NegativePrompt,
	}
	return canonicalJSON(slim)
}

// canonicalJSON round-trips v through encoding/json (UseNumber keeps
// numeric text intact) and re-encodes with sorted object keys and compact
// separators.
func canonicalJSON(v interface{}) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("canonical marshal: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var tree interface{}
	if err := dec.Decode(&tree); err != nil {
		return "", fmt.Errorf("canonical decode: %w", err)
	}
	var buf bytes.Buffer
	if err := encodeCanonical(&buf, tree); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func encodeCanonical(buf *bytes.Buffer, v interface{}) error {
	switch vv := v.(type) {
	case nil:
		buf.WriteString("null")
	case bool:
		if vv {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case json.Number:
		buf.WriteString(vv.String())
	case string:
		b, err := json.Marshal(vv)
		if err != nil {
			return err
		}
		buf.Write(b)
	case []interface{}:
		buf.WriteByte('[')
		for i, elem := range vv {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := encodeCanonical(buf, elem); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case map[string]interface{}:
		keys := make([]string, 0, len(vv))
		for k := range vv {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		buf.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			kb, err := json.Marshal(k)
			if err != nil {
				return err
			}
			buf.Write(kb)
			buf.WriteByte(':')
			if err := encodeCanonical(buf, vv[k]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		return fmt.Errorf("canonical encode: unsupported type %T", v)
	}
	return nil
}
