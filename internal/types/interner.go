package types

import (
	"fmt"
	"slices"
	"strings"

	"fortio.org/safecast"
)

// Builtins stores TypeIDs for primitive types.
type Builtins struct {
	Unknown            TypeID
	Any                TypeID
	Null               TypeID
	Bool               TypeID
	Int                TypeID
	Float              TypeID
	String             TypeID
	HTML               TypeID
	Attributes         TypeID
	URI                TypeID
	TrustedResourceURI TypeID
	JS                 TypeID
	CSS                TypeID
	// Number is int|float.
	Number TypeID
}

// Interner provides stable TypeIDs by hashing structural descriptors.
// It is not safe for concurrent use; each compilation pass owns one.
type Interner struct {
	types    []Type
	index    map[Type]TypeID
	unions   [][]TypeID
	unionIdx map[string]TypeID
	builtins Builtins
}

// NewInterner constructs an interner seeded with built-in primitives.
func NewInterner() *Interner {
	in := &Interner{
		index:    make(map[Type]TypeID, 64),
		unionIdx: make(map[string]TypeID, 16),
	}
	in.types = append(in.types, Type{Kind: KindInvalid}) // 0 is NoTypeID
	in.unions = append(in.unions, nil)                   // slot 0 unused
	in.builtins.Unknown = in.Intern(Type{Kind: KindUnknown})
	in.builtins.Any = in.Intern(Type{Kind: KindAny})
	in.builtins.Null = in.Intern(Type{Kind: KindNull})
	in.builtins.Bool = in.Intern(Type{Kind: KindBool})
	in.builtins.Int = in.Intern(Type{Kind: KindInt})
	in.builtins.Float = in.Intern(Type{Kind: KindFloat})
	in.builtins.String = in.Intern(Type{Kind: KindString})
	in.builtins.HTML = in.Intern(Type{Kind: KindHTML})
	in.builtins.Attributes = in.Intern(Type{Kind: KindAttributes})
	in.builtins.URI = in.Intern(Type{Kind: KindURI})
	in.builtins.TrustedResourceURI = in.Intern(Type{Kind: KindTrustedResourceURI})
	in.builtins.JS = in.Intern(Type{Kind: KindJS})
	in.builtins.CSS = in.Intern(Type{Kind: KindCSS})
	in.builtins.Number = in.Union(in.builtins.Int, in.builtins.Float)
	return in
}

// Builtins returns TypeIDs for primitive types.
func (in *Interner) Builtins() Builtins {
	return in.builtins
}

// Intern ensures the provided descriptor has a stable TypeID.
// Unions must be built through Union.
func (in *Interner) Intern(t Type) TypeID {
	if t.Kind == KindInvalid || t.Kind == KindUnion {
		return NoTypeID
	}
	if id, ok := in.index[t]; ok {
		return id
	}
	return in.internRaw(t)
}

func (in *Interner) internRaw(t Type) TypeID {
	lenTypes, err := safecast.Conv[uint32](len(in.types))
	if err != nil {
		panic(fmt.Errorf("len(types) overflow: %w", err))
	}
	id := TypeID(lenTypes)
	in.types = append(in.types, t)
	in.index[t] = id
	return id
}

// List interns list<elem>.
func (in *Interner) List(elem TypeID) TypeID {
	return in.Intern(Type{Kind: KindList, Elem: elem})
}

// Map interns map<key, value>.
func (in *Interner) Map(key, value TypeID) TypeID {
	return in.Intern(Type{Kind: KindMap, Key: key, Elem: value})
}

// Union interns the union of members. Nested unions are flattened, members
// are deduplicated and ordered by id; any or ? absorb everything else and a
// single remaining member is returned as is.
func (in *Interner) Union(members ...TypeID) TypeID {
	flat := make([]TypeID, 0, len(members))
	for _, m := range members {
		tt, ok := in.Lookup(m)
		if !ok {
			continue
		}
		switch tt.Kind {
		case KindUnknown, KindAny:
			return m
		case KindUnion:
			flat = append(flat, in.unions[tt.Payload]...)
		default:
			flat = append(flat, m)
		}
	}
	slices.Sort(flat)
	flat = slices.Compact(flat)
	switch len(flat) {
	case 0:
		return NoTypeID
	case 1:
		return flat[0]
	}
	key := unionKey(flat)
	if id, ok := in.unionIdx[key]; ok {
		return id
	}
	slot, err := safecast.Conv[uint32](len(in.unions))
	if err != nil {
		panic(fmt.Errorf("union slot overflow: %w", err))
	}
	in.unions = append(in.unions, flat)
	id := in.internRaw(Type{Kind: KindUnion, Payload: slot})
	in.unionIdx[key] = id
	return id
}

func unionKey(ids []TypeID) string {
	var sb strings.Builder
	for _, id := range ids {
		fmt.Fprintf(&sb, "%d,", id)
	}
	return sb.String()
}

// Lookup returns the descriptor for a TypeID.
func (in *Interner) Lookup(id TypeID) (Type, bool) {
	if id == NoTypeID || int(id) >= len(in.types) {
		return Type{}, false
	}
	return in.types[id], true
}

// MustLookup panics when id is invalid.
func (in *Interner) MustLookup(id TypeID) Type {
	tt, ok := in.Lookup(id)
	if !ok {
		panic("types: invalid TypeID")
	}
	return tt
}

// Kind returns the kind of id, KindInvalid when unknown to the interner.
func (in *Interner) Kind(id TypeID) Kind {
	tt, _ := in.Lookup(id)
	return tt.Kind
}

// Members returns the union members of id, or id itself for non-unions.
func (in *Interner) Members(id TypeID) []TypeID {
	tt, ok := in.Lookup(id)
	if !ok {
		return nil
	}
	if tt.Kind != KindUnion {
		return []TypeID{id}
	}
	return slices.Clone(in.unions[tt.Payload])
}

// IsNullable reports whether null is a value of id.
func (in *Interner) IsNullable(id TypeID) bool {
	switch in.Kind(id) {
	case KindNull, KindAny, KindUnknown:
		return true
	case KindUnion:
		return slices.Contains(in.Members(id), in.builtins.Null)
	}
	return false
}

// NonNull strips null from a union; other types are returned unchanged.
func (in *Interner) NonNull(id TypeID) TypeID {
	if in.Kind(id) != KindUnion {
		return id
	}
	members := in.Members(id)
	members = slices.DeleteFunc(members, func(m TypeID) bool { return m == in.builtins.Null })
	return in.Union(members...)
}

// Format renders id in declaration syntax.
func (in *Interner) Format(id TypeID) string {
	tt, ok := in.Lookup(id)
	if !ok {
		return "<invalid>"
	}
	switch tt.Kind {
	case KindList:
		return "list<" + in.Format(tt.Elem) + ">"
	case KindMap:
		return "map<" + in.Format(tt.Key) + ", " + in.Format(tt.Elem) + ">"
	case KindUnion:
		parts := make([]string, 0, len(in.unions[tt.Payload]))
		nullable := false
		for _, m := range in.unions[tt.Payload] {
			if m == in.builtins.Null {
				nullable = true
				continue
			}
			parts = append(parts, in.Format(m))
		}
		// null goes last, the way authors write it
		if nullable {
			parts = append(parts, "null")
		}
		return strings.Join(parts, "|")
	default:
		return tt.Kind.String()
	}
}
