package plugin

import (
	"fmt"
	"strings"
)

// Backend identifies a code generator target.
type Backend uint8

const (
	BackendInvalid Backend = iota
	JSSrc
	PySrc
	SwiftSrc
)

// Backends lists every supported backend in a stable order.
var Backends = []Backend{JSSrc, PySrc, SwiftSrc}

func (b Backend) String() string {
	switch b {
	case JSSrc:
		return "jssrc"
	case PySrc:
		return "pysrc"
	case SwiftSrc:
		return "swiftsrc"
	default:
		return fmt.Sprintf("Backend(%d)", b)
	}
}

// ParseBackend accepts the canonical names and the short language names.
func ParseBackend(s string) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "jssrc", "js", "javascript":
		return JSSrc, nil
	case "pysrc", "py", "python":
		return PySrc, nil
	case "swiftsrc", "swift":
		return SwiftSrc, nil
	default:
		return BackendInvalid, fmt.Errorf("unknown backend %q (expected: jssrc|pysrc|swiftsrc)", s)
	}
}

// ParseBackends parses a list, dropping duplicates while keeping order.
func ParseBackends(names []string) ([]Backend, error) {
	out := make([]Backend, 0, len(names))
	seen := make(map[Backend]struct{}, len(names))
	for _, n := range names {
		b, err := ParseBackend(n)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[b]; dup {
			continue
		}
		seen[b] = struct{}{}
		out = append(out, b)
	}
	return out, nil
}
