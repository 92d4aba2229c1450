package trace

import "time"

// Kind is the type of a trace event.
type Kind uint8

const (
	KindSpanBegin Kind = iota + 1
	KindSpanEnd
	// KindPoint is an instant event.
	KindPoint
)

func (k Kind) String() string {
	switch k {
	case KindSpanBegin:
		return "begin"
	case KindSpanEnd:
		return "end"
	case KindPoint:
		return "point"
	default:
		return "unknown"
	}
}

// Scope is the granularity of an event; lower values are coarser.
type Scope uint8

const (
	// ScopeDriver covers a whole compile invocation.
	ScopeDriver Scope = iota + 1
	// ScopePass covers one backend pass.
	ScopePass
	// ScopeTemplate covers one template inside a pass.
	ScopeTemplate
	// ScopeCall covers lowering a single plugin call site.
	ScopeCall
)

func (s Scope) String() string {
	switch s {
	case ScopeDriver:
		return "driver"
	case ScopePass:
		return "pass"
	case ScopeTemplate:
		return "template"
	case ScopeCall:
		return "call"
	default:
		return "unknown"
	}
}

// Event is a single trace record.
type Event struct {
	Time     time.Time
	Seq      uint64
	Kind     Kind
	Scope    Scope
	SpanID   uint64
	ParentID uint64 // 0 for roots
	GID      uint64
	Name     string // "compile", "pass:pysrc", "template:ns.greeting"
	Detail   string
	Extra    map[string]string
}
