package plugin

import (
	"fmt"
	"strings"

	"soyc/internal/diag"
	"soyc/internal/typenode"
	"soyc/internal/types"
)

// Function is the backend-neutral description of a plugin function.
// Its identity is its name.
type Function interface {
	Name() string
	// Signatures lists the accepted arities; at most one per arity.
	Signatures() []Signature
}

// Signature declares parameter and return types in template type syntax.
type Signature struct {
	Params []typenode.Node
	Return typenode.Node
}

// MustSignature parses a signature from type strings. It panics on malformed
// syntax and is meant for package-level function tables.
func MustSignature(ret string, params ...string) Signature {
	sig := Signature{Params: make([]typenode.Node, len(params))}
	for i, p := range params {
		sig.Params[i] = mustType(p)
	}
	sig.Return = mustType(ret)
	return sig
}

func mustType(text string) typenode.Node {
	n, err := typenode.Parse(0, 0, text)
	if err != nil {
		panic(fmt.Sprintf("plugin: bad signature type %q: %v", text, err))
	}
	return n
}

func (s Signature) String() string {
	parts := make([]string, len(s.Params))
	for i, p := range s.Params {
		parts[i] = typenode.Format(p)
	}
	return "(" + strings.Join(parts, ", ") + ") -> " + typenode.Format(s.Return)
}

// BoundSignature is a Signature resolved against one pass's interner.
type BoundSignature struct {
	Params []types.TypeID
	Return types.TypeID
}

// Bind resolves the signature types; problems are reported to r.Reporter.
func (s Signature) Bind(r *types.Resolver) BoundSignature {
	b := BoundSignature{Params: make([]types.TypeID, len(s.Params))}
	for i, p := range s.Params {
		b.Params[i] = r.Resolve(p)
	}
	b.Return = r.Resolve(s.Return)
	return b
}

// SignatureFor picks the signature accepting arity arguments.
func SignatureFor(fn Function, arity int) (Signature, bool) {
	for _, s := range fn.Signatures() {
		if len(s.Params) == arity {
			return s, true
		}
	}
	return Signature{}, false
}

// Arities lists the accepted argument counts, for error messages.
func Arities(fn Function) []int {
	sigs := fn.Signatures()
	out := make([]int, len(sigs))
	for i, s := range sigs {
		out[i] = len(s.Params)
	}
	return out
}

// Func is a ready-made Function. Direct implementations usually embed it
// and add the backend Apply methods.
type Func struct {
	name string
	sigs []Signature
}

func NewFunc(name string, sigs ...Signature) *Func {
	return &Func{name: name, sigs: sigs}
}

func (f *Func) Name() string { return f.name }

func (f *Func) Signatures() []Signature {
	out := make([]Signature, len(f.sigs))
	copy(out, f.sigs)
	return out
}

// validateFunction checks the declared signatures themselves: non-empty name,
// resolvable types and no two signatures with the same arity.
func validateFunction(fn Function) error {
	if fn == nil || fn.Name() == "" {
		return fmt.Errorf("plugin: function without a name")
	}
	sigs := fn.Signatures()
	if len(sigs) == 0 {
		return fmt.Errorf("plugin: function %s declares no signature", fn.Name())
	}
	bag := diag.NewBag(8)
	r := types.NewResolver(types.NewInterner(), diag.BagReporter{Bag: bag})
	seen := make(map[int]struct{}, len(sigs))
	for _, s := range sigs {
		if _, dup := seen[len(s.Params)]; dup {
			return fmt.Errorf("plugin: function %s declares arity %d twice", fn.Name(), len(s.Params))
		}
		seen[len(s.Params)] = struct{}{}
		if s.Return == nil {
			return fmt.Errorf("plugin: function %s: signature %s has no return type", fn.Name(), s)
		}
		s.Bind(r)
	}
	if bag.HasErrors() {
		return fmt.Errorf("plugin: function %s: %s", fn.Name(), bag.Items()[0].Message)
	}
	return nil
}
