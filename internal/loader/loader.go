// Package loader reads template declaration files. A declaration file lists
// templates with their parameters and the plugin calls found in their
// bodies:
//
//	[[template]]
//	name = "ns.greeting"
//
//	[[template.param]]
//	name = "name"
//	type = "string"
//	optional = true
//
//	[[template.call]]
//	function = "strLen"
//	args = ["$name"]
//
// The same structure is accepted as YAML. Problems inside declarations are
// reported as diagnostics and the offending piece is dropped or left
// untyped; only I/O and document-level syntax errors abort loading a file.
package loader

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"fortio.org/safecast"

	"soyc/internal/diag"
	"soyc/internal/expr"
	"soyc/internal/param"
	"soyc/internal/source"
	"soyc/internal/template"
	"soyc/internal/typenode"
)

// ErrUnsupportedFormat is returned for files that are neither TOML nor YAML.
var ErrUnsupportedFormat = errors.New("unsupported declaration file format")

// Format is a declaration file syntax.
type Format uint8

const (
	FormatUnknown Format = iota
	FormatTOML
	FormatYAML
)

// FormatOf picks the syntax from the file extension.
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatUnknown
}

type document struct {
	Templates []templateDecl `toml:"template" yaml:"template"`
}

type templateDecl struct {
	Name   string      `toml:"name" yaml:"name"`
	Params []paramDecl `toml:"param" yaml:"param"`
	Calls  []callDecl  `toml:"call" yaml:"call"`
}

type paramDecl struct {
	Name        string `toml:"name" yaml:"name"`
	Type        string `toml:"type" yaml:"type"`
	Optional    bool   `toml:"optional" yaml:"optional"`
	Injected    bool   `toml:"injected" yaml:"injected"`
	Description string `toml:"description" yaml:"description"`
	Default     any    `toml:"default" yaml:"default"`

	// defaultSet records a default key whose value decoded to nil.
	defaultSet bool
}

type callDecl struct {
	Function string `toml:"function" yaml:"function"`
	Args     []any  `toml:"args" yaml:"args"`
}

// Loader turns declaration files into templates.
type Loader struct {
	Files    *source.FileSet
	Reporter diag.Reporter
}

func New(files *source.FileSet, r diag.Reporter) *Loader {
	if r == nil {
		r = diag.NopReporter{}
	}
	return &Loader{Files: files, Reporter: r}
}

// Load reads path into the file set and builds its templates.
func (l *Loader) Load(path string) ([]*template.Template, error) {
	if FormatOf(path) == FormatUnknown {
		return nil, fmt.Errorf("%s: %w", path, ErrUnsupportedFormat)
	}
	id, err := l.Files.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %q: %w", path, err)
	}
	return l.Parse(id)
}

// LoadAll loads every path, stopping at the first fatal error.
func (l *Loader) LoadAll(paths []string) ([]*template.Template, error) {
	var out []*template.Template
	for _, p := range paths {
		ts, err := l.Load(p)
		if err != nil {
			return nil, err
		}
		out = append(out, ts...)
	}
	return out, nil
}

// Parse builds templates from a file already in the set.
func (l *Loader) Parse(id source.FileID) ([]*template.Template, error) {
	f := l.Files.Get(id)
	if f == nil {
		return nil, fmt.Errorf("loader: unknown file id %d", id)
	}
	var (
		doc document
		err error
	)
	switch FormatOf(f.Path) {
	case FormatTOML:
		err = l.decodeTOML(f, &doc)
	case FormatYAML:
		err = decodeYAML(f, &doc)
	default:
		err = ErrUnsupportedFormat
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.Path, err)
	}
	b := builder{file: f, reporter: l.Reporter}
	out := make([]*template.Template, 0, len(doc.Templates))
	for i := range doc.Templates {
		if t := b.template(&doc.Templates[i]); t != nil {
			out = append(out, t)
		}
	}
	return out, nil
}

// builder walks the decoded document in order, keeping a cursor into the
// file so that every located name lands after the previous one.
type builder struct {
	file     *source.File
	reporter diag.Reporter
	cursor   uint32
}

// locate finds needle as a whole word at or after the cursor.
func (b *builder) locate(needle string) source.Span {
	from := b.cursor
	for {
		sp, ok := b.file.Locate(needle, from)
		if !ok {
			return source.Span{File: b.file.ID, Start: b.cursor, End: b.cursor}
		}
		if b.wordAt(sp) {
			b.cursor = sp.End
			return sp
		}
		from = sp.Start + 1
	}
}

func (b *builder) wordAt(sp source.Span) bool {
	c := b.file.Content
	if sp.Start > 0 && isWordByte(c[sp.Start-1]) {
		return false
	}
	if int(sp.End) < len(c) && isWordByte(c[sp.End]) {
		return false
	}
	return true
}

func isWordByte(c byte) bool {
	return c == '_' || c == '.' || c == '$' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

func (b *builder) template(d *templateDecl) *template.Template {
	name := strings.TrimSpace(d.Name)
	if name == "" {
		diag.ReportError(b.reporter, diag.SynBadDecl, b.locate("template"), "template without a name").Emit()
		return nil
	}
	t := &template.Template{Name: name, Span: b.locate(name)}
	seen := make(map[string]source.Span, len(d.Params))
	for i := range d.Params {
		p := b.param(&d.Params[i])
		if p == nil {
			continue
		}
		if prev, dup := seen[p.Name()]; dup {
			diag.ReportError(b.reporter, diag.SemaDuplicateParam, p.NameSpan(),
				fmt.Sprintf("parameter %q declared twice in %s", p.Name(), name)).
				WithNote(prev, "first declared here").
				Emit()
			continue
		}
		seen[p.Name()] = p.NameSpan()
		t.Params = append(t.Params, p)
	}
	for i := range d.Calls {
		if c := b.call(&d.Calls[i]); c != nil {
			t.Calls = append(t.Calls, c)
		}
	}
	return t
}

func (b *builder) param(d *paramDecl) *param.Parameter {
	name := strings.TrimSpace(d.Name)
	if name == "" {
		diag.ReportError(b.reporter, diag.SynBadDecl, b.locate("param"), "parameter without a name").Emit()
		return nil
	}
	nameSpan := b.locate(name)
	decl := param.Decl{
		Name:        name,
		NameSpan:    nameSpan,
		Span:        nameSpan,
		Injected:    d.Injected,
		Optional:    d.Optional,
		Description: d.Description,
	}
	if text := strings.TrimSpace(d.Type); text != "" {
		typeSpan := b.locate(text)
		decl.Span = nameSpan.Cover(typeSpan)
		n, err := typenode.Parse(b.file.ID, typeSpan.Start, text)
		if err != nil {
			sp := typeSpan
			var se *typenode.SyntaxError
			if errors.As(err, &se) {
				if off, cerr := safecast.Conv[uint32](se.Offset); cerr == nil {
					sp = typeSpan.Sub(off, off)
				}
			}
			diag.ReportError(b.reporter, diag.SynBadType, sp,
				fmt.Sprintf("parameter %q: %v", name, err)).Emit()
		} else {
			decl.Type = n
		}
	}
	if d.Default != nil || d.defaultSet {
		n, err := expr.FromValue(d.Default, nameSpan, false)
		if err != nil {
			diag.ReportError(b.reporter, diag.SynBadDefault, nameSpan,
				fmt.Sprintf("parameter %q: default: %v", name, err)).Emit()
		} else {
			decl.Default = n
		}
	}
	return param.New(decl)
}

func (b *builder) call(d *callDecl) *expr.Call {
	name := strings.TrimSpace(d.Function)
	if name == "" {
		diag.ReportError(b.reporter, diag.SynBadCallArgs, b.locate("call"), "call without a function name").Emit()
		return nil
	}
	loc := b.locate(name)
	c, err := callNode(name, d.Args, loc)
	if err != nil {
		diag.ReportError(b.reporter, diag.SynBadCallArgs, loc,
			fmt.Sprintf("call to %s: %v", name, err)).Emit()
		return nil
	}
	return c
}

// callNode converts decoded arguments. A table of the form
// {call = "f", args = [...]} is a nested call; other values are literals
// and "$name" strings are parameter references.
func callNode(name string, args []any, loc source.Span) (*expr.Call, error) {
	c := &expr.Call{Name: name, Args: make([]expr.Node, 0, len(args)), Loc: loc}
	for i, a := range args {
		n, err := argNode(a, loc)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		c.Args = append(c.Args, n)
	}
	return c, nil
}

func argNode(v any, loc source.Span) (expr.Node, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return expr.FromValue(v, loc, true)
	}
	fn, isCall := m["call"].(string)
	if !isCall {
		return expr.FromValue(v, loc, true)
	}
	var args []any
	for k, val := range m {
		switch k {
		case "call":
		case "args":
			list, ok := val.([]any)
			if !ok {
				return nil, fmt.Errorf("nested call %s: args must be a list", fn)
			}
			args = list
		default:
			return nil, fmt.Errorf("nested call %s: unexpected key %q", fn, k)
		}
	}
	return callNode(fn, args, loc)
}
