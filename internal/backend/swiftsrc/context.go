package swiftsrc

import "soyc/internal/bidi"

// Context carries compile-time facts for Swift implementations.
type Context struct {
	Dir bidi.Dir
}

// BidiDirection is 1 for left-to-right and -1 for right-to-left locales,
// or SoyBidi.globalDirection when the locale is picked at render time.
func (c Context) BidiDirection() Value {
	if c.Dir.Known() {
		return (&ValueFactory{}).Int(int64(c.Dir.Int()))
	}
	return atom("SoyBidi.globalDirection", Int)
}
