// Package manifest encodes compile results for the external code generators
// that consume lowered plugin calls and synthesized parameter types.
package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"

	"soyc/internal/diag"
	"soyc/internal/driver"
	"soyc/internal/expr"
	"soyc/internal/param"
	"soyc/internal/types"
)

// SchemaVersion is bumped whenever the encoded layout changes.
const SchemaVersion uint16 = 2

type Format string

const (
	FormatMsgpack Format = "msgpack"
	FormatJSON    Format = "json"
)

var (
	ErrUnknownFormat = errors.New("unknown manifest format")
	ErrSchema        = errors.New("unsupported manifest schema")
)

func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatMsgpack, FormatJSON:
		return Format(s), nil
	case "":
		return FormatMsgpack, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Ext is the file extension used by WriteFile.
func (f Format) Ext() string {
	if f == FormatJSON {
		return ".json"
	}
	return ".mp"
}

type Manifest struct {
	Schema   uint16    `msgpack:"schema" json:"schema"`
	BuildID  string    `msgpack:"build_id" json:"build_id"`
	Locale   string    `msgpack:"locale,omitempty" json:"locale,omitempty"`
	Dir      int       `msgpack:"dir" json:"dir"`
	Backends []Backend `msgpack:"backends" json:"backends"`
}

type Backend struct {
	Name      string     `msgpack:"name" json:"name"`
	Errors    int        `msgpack:"errors" json:"errors"`
	Templates []Template `msgpack:"templates" json:"templates"`
	Calls     []Call     `msgpack:"calls" json:"calls"`
}

type Template struct {
	Name      string   `msgpack:"name" json:"name"`
	Params    []Param  `msgpack:"params" json:"params"`
	Functions []string `msgpack:"functions,omitempty" json:"functions,omitempty"`
}

// Param is one synthesized parameter. Type is the effective declared type
// after optional widening and OriginalType what the author wrote; Widened
// is set when the two differ.
type Param struct {
	Name         string `msgpack:"name" json:"name"`
	Type         string `msgpack:"type,omitempty" json:"type,omitempty"`
	OriginalType string `msgpack:"original_type,omitempty" json:"original_type,omitempty"`
	Resolved     string `msgpack:"resolved" json:"resolved"`
	Required     bool   `msgpack:"required" json:"required"`
	Optional     bool   `msgpack:"optional" json:"optional"`
	Widened      bool   `msgpack:"widened" json:"widened"`
	Injected     bool   `msgpack:"injected" json:"injected"`
	Default      string `msgpack:"default,omitempty" json:"default,omitempty"`
	Description  string `msgpack:"description,omitempty" json:"description,omitempty"`
}

type Call struct {
	Template string   `msgpack:"template" json:"template"`
	Function string   `msgpack:"function" json:"function"`
	Start    uint32   `msgpack:"start" json:"start"`
	End      uint32   `msgpack:"end" json:"end"`
	Params   []string `msgpack:"params,omitempty" json:"params,omitempty"`
	Code     string   `msgpack:"code" json:"code"`
	Native   string   `msgpack:"native" json:"native"`
}

// Build snapshots res under a fresh build id.
func Build(res *driver.Result, locale string) *Manifest {
	m := &Manifest{
		Schema:   SchemaVersion,
		BuildID:  uuid.NewString(),
		Locale:   locale,
		Dir:      res.Dir.Int(),
		Backends: make([]Backend, 0, len(res.Passes)),
	}
	for _, p := range res.Passes {
		b := Backend{Name: p.Backend.String(), Templates: make([]Template, 0, len(p.Templates))}
		for _, d := range p.Bag.Items() {
			if d.Severity >= diag.SevError {
				b.Errors++
			}
		}
		for _, t := range p.Templates {
			tm := Template{Name: t.Name, Params: make([]Param, 0, len(t.Params)), Functions: t.Functions()}
			for _, prm := range t.Params {
				tm.Params = append(tm.Params, paramRecord(p.Types, prm))
			}
			b.Templates = append(b.Templates, tm)
		}
		for _, c := range p.Calls {
			b.Calls = append(b.Calls, Call{
				Template: c.Template,
				Function: c.Function,
				Start:    c.Span.Start,
				End:      c.Span.End,
				Params:   c.Params,
				Code:     c.Code,
				Native:   c.Native,
			})
		}
		m.Backends = append(m.Backends, b)
	}
	return m
}

func paramRecord(in *types.Interner, p *param.Parameter) Param {
	r := Param{
		Name:        p.Name(),
		Required:    p.IsRequired(),
		Optional:    p.IsOptional(),
		Widened:     p.Widened(),
		Injected:    p.IsInjected(),
		Description: p.Description(),
		Resolved:    "?",
	}
	if t := p.Type(); t != nil {
		r.Type = t.String()
	}
	if t := p.OriginalType(); t != nil {
		r.OriginalType = t.String()
	}
	if id, ok := p.ResolvedType(); ok {
		r.Resolved = in.Format(id)
	}
	if d := p.Default(); d != nil {
		r.Default = expr.Format(d)
	}
	return r
}

func Encode(w io.Writer, m *Manifest, f Format) error {
	switch f {
	case FormatMsgpack:
		return msgpack.NewEncoder(w).Encode(m)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(m)
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
}

// Decode reads a manifest and rejects schemas it does not know.
func Decode(r io.Reader, f Format) (*Manifest, error) {
	var m Manifest
	var err error
	switch f {
	case FormatMsgpack:
		err = msgpack.NewDecoder(r).Decode(&m)
	case FormatJSON:
		err = json.NewDecoder(r).Decode(&m)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
	if err != nil {
		return nil, fmt.Errorf("manifest: %w", err)
	}
	if m.Schema != SchemaVersion {
		return nil, fmt.Errorf("%w: %d", ErrSchema, m.Schema)
	}
	return &m, nil
}

// WriteFile atomically writes m as dir/name plus the format extension and
// returns the final path.
func WriteFile(dir, name string, m *Manifest, f Format) (path string, err error) {
	if err = os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path = filepath.Join(dir, name+f.Ext())
	tmp, err := os.CreateTemp(dir, "tmp-*")
	if err != nil {
		return "", err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()
	if err = Encode(tmp, m, f); err != nil {
		_ = tmp.Close()
		return "", err
	}
	if err = tmp.Close(); err != nil {
		return "", err
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return "", err
	}
	return path, nil
}
