package loader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"soyc/internal/diag"
	"soyc/internal/source"
)

func (l *Loader) decodeTOML(f *source.File, doc *document) error {
	meta, err := toml.Decode(string(f.Content), doc)
	if err != nil {
		return fmt.Errorf("failed to parse TOML: %w", err)
	}
	if !meta.IsDefined("template") {
		diag.ReportWarning(l.Reporter, diag.SynBadDecl, f.FullSpan(), "no [[template]] declared").Emit()
	}
	for _, key := range meta.Undecoded() {
		// keys below free-form values are data, not schema
		if isDefaultKey(key) {
			continue
		}
		sp, ok := f.Locate(key[len(key)-1], 0)
		if !ok {
			sp = f.FullSpan()
		}
		diag.ReportWarning(l.Reporter, diag.SynBadDecl, sp,
			fmt.Sprintf("unknown key %q", key.String())).Emit()
	}
	return nil
}

func isDefaultKey(key toml.Key) bool {
	for _, part := range key {
		if part == "default" || part == "args" {
			return true
		}
	}
	return false
}

func decodeYAML(f *source.File, doc *document) error {
	dec := yaml.NewDecoder(bytes.NewReader(f.Content))
	dec.KnownFields(true)
	if err := dec.Decode(doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("failed to parse YAML: %w", err)
	}
	for i := range doc.Templates {
		normalizeYAML(&doc.Templates[i])
	}
	return markDeclaredDefaults(f.Content, doc)
}

// markDeclaredDefaults flags parameters carrying a default key. An explicit
// null decodes to nil and is otherwise indistinguishable from no default.
func markDeclaredDefaults(content []byte, doc *document) error {
	var root yaml.Node
	if err := yaml.Unmarshal(content, &root); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}
	if len(root.Content) == 0 {
		return nil
	}
	templates := mappingValue(root.Content[0], "template")
	if templates == nil || templates.Kind != yaml.SequenceNode {
		return nil
	}
	for i, tn := range templates.Content {
		if i >= len(doc.Templates) {
			break
		}
		params := mappingValue(tn, "param")
		if params == nil || params.Kind != yaml.SequenceNode {
			continue
		}
		decls := doc.Templates[i].Params
		for j, pn := range params.Content {
			if j >= len(decls) {
				break
			}
			if mappingValue(pn, "default") != nil {
				decls[j].defaultSet = true
			}
		}
	}
	return nil
}

func mappingValue(n *yaml.Node, key string) *yaml.Node {
	if n == nil || n.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			return n.Content[i+1]
		}
	}
	return nil
}

// normalizeYAML rewrites yaml.v3 map[string]interface{} results so that
// they match what the TOML decoder produces.
func normalizeYAML(t *templateDecl) {
	for i := range t.Params {
		t.Params[i].Default = normalizeValue(t.Params[i].Default)
	}
	for i := range t.Calls {
		for j := range t.Calls[i].Args {
			t.Calls[i].Args[j] = normalizeValue(t.Calls[i].Args[j])
		}
	}
}

func normalizeValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, val := range t {
			t[k] = normalizeValue(val)
		}
		return t
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[strings.TrimSpace(fmt.Sprint(k))] = normalizeValue(val)
		}
		return out
	case []any:
		for i := range t {
			t[i] = normalizeValue(t[i])
		}
		return t
	}
	return v
}
