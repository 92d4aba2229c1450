// Package param builds the compiler's canonical template parameter from a
// parsed declaration.
//
// Optionality is folded into nullability once, at construction: an optional
// parameter declared with a non-null type T gets the effective type T|null,
// while the declared T is kept for diagnostics. Downstream passes only ever
// ask "is the type nullable".
//
// A Parameter is owned by exactly one compilation pass. Passes that run in
// parallel each work on their own Copy.
package param

import (
	"soyc/internal/expr"
	"soyc/internal/source"
	"soyc/internal/typenode"
	"soyc/internal/types"
)

// Decl is a parameter declaration as produced by the declaration parser.
type Decl struct {
	Name     string
	NameSpan source.Span
	Span     source.Span
	// Type is nil when the declared type failed to parse.
	Type        typenode.Node
	Injected    bool
	Optional    bool
	Description string
	Default     expr.Node
}

// Parameter is a declared ({@param}) or injected ({@inject}) template input.
type Parameter struct {
	name        string
	nameSpan    source.Span
	span        source.Span
	typ         typenode.Node
	original    typenode.Node
	injected    bool
	optional    bool
	required    bool
	description string
	def         expr.Node
	resolved    writeOnce[types.TypeID]
}

// New applies optional-to-nullable widening and derives requiredness.
// The declaration's type and default trees are adopted, not copied.
func New(d Decl) *Parameter {
	effective := d.Type
	if d.Optional && d.Type != nil && !typenode.IsNullable(d.Type) {
		effective = typenode.UnionWith(d.Type, typenode.Null(d.Type.Span()))
	}
	return &Parameter{
		name:        d.Name,
		nameSpan:    d.NameSpan,
		span:        d.Span,
		typ:         effective,
		original:    d.Type,
		injected:    d.Injected,
		optional:    d.Optional,
		required:    d.Default == nil && !d.Optional && !typenode.IsNullable(effective),
		description: d.Description,
		def:         d.Default,
	}
}

func (p *Parameter) Name() string { return p.name }

// NameSpan locates the parameter name.
func (p *Parameter) NameSpan() source.Span { return p.nameSpan }

// Span locates the whole declaration.
func (p *Parameter) Span() source.Span { return p.span }

// Type is the effective type after widening; nil when the type failed to parse.
func (p *Parameter) Type() typenode.Node { return p.typ }

// OriginalType is the type exactly as declared.
func (p *Parameter) OriginalType() typenode.Node { return p.original }

func (p *Parameter) IsInjected() bool { return p.injected }
func (p *Parameter) IsOptional() bool { return p.optional }
func (p *Parameter) IsRequired() bool { return p.required }

// Description is empty when the declaration had none.
func (p *Parameter) Description() string { return p.description }

// Default returns the owned default-value tree, nil when absent.
// Callers must treat it as read-only.
func (p *Parameter) Default() expr.Node { return p.def }

func (p *Parameter) HasDefault() bool { return p.def != nil }

// Widened reports whether the effective type was synthesized from an
// optional declaration.
func (p *Parameter) Widened() bool {
	return p.typ != nil && p.typ != p.original
}

// Copy returns an independent parameter for another compilation pass.
// Type trees and the default value are deep-copied; the resolved type is
// not carried over since it belongs to the pass that bound it.
func (p *Parameter) Copy() *Parameter {
	cp := &Parameter{
		name:        p.name,
		nameSpan:    p.nameSpan,
		span:        p.span,
		typ:         typenode.Copy(p.typ),
		injected:    p.injected,
		optional:    p.optional,
		required:    p.required,
		description: p.description,
		def:         expr.Copy(p.def),
	}
	if p.original == p.typ {
		cp.original = cp.typ
	} else {
		cp.original = typenode.Copy(p.original)
	}
	return cp
}

// BindType records the type-checked type. It succeeds once per instance; a
// second call fails with an error wrapping ErrAlreadyBound.
func (p *Parameter) BindType(t types.TypeID) error {
	if err := p.resolved.set(t); err != nil {
		return &BindError{Param: p.name, Span: p.nameSpan, Err: err}
	}
	return nil
}

// ResolvedType returns the bound type and whether BindType has run.
func (p *Parameter) ResolvedType() (types.TypeID, bool) {
	return p.resolved.get()
}

// MustResolvedType is for code generation, which runs strictly after
// type checking; an unbound parameter there is a compiler bug.
func (p *Parameter) MustResolvedType() types.TypeID {
	t, ok := p.resolved.get()
	if !ok {
		panic("param: type of $" + p.name + " read before binding")
	}
	return t
}
