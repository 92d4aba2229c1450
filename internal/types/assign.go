package types

// Assignable reports whether every value of from is a value of to.
//
// any and ? accept everything; a ? source is accepted everywhere since it is
// checked at runtime. int widens to float. Unions distribute: a union source
// must fit entirely, a union target needs one fitting member. Lists and maps
// are covariant, as template data is read-only.
func (in *Interner) Assignable(to, from TypeID) bool {
	if to == from {
		return to != NoTypeID
	}
	tt, ok := in.Lookup(to)
	if !ok {
		return false
	}
	ft, ok := in.Lookup(from)
	if !ok {
		return false
	}
	switch {
	case tt.Kind == KindAny || tt.Kind == KindUnknown:
		return true
	case ft.Kind == KindUnknown:
		return true
	case ft.Kind == KindUnion:
		for _, m := range in.unions[ft.Payload] {
			if !in.Assignable(to, m) {
				return false
			}
		}
		return true
	case tt.Kind == KindUnion:
		for _, m := range in.unions[tt.Payload] {
			if in.Assignable(m, from) {
				return true
			}
		}
		return false
	}
	switch tt.Kind {
	case KindFloat:
		return ft.Kind == KindInt
	case KindList:
		return ft.Kind == KindList && in.Assignable(tt.Elem, ft.Elem)
	case KindMap:
		return ft.Kind == KindMap && in.Assignable(tt.Key, ft.Key) && in.Assignable(tt.Elem, ft.Elem)
	}
	return false
}
