package pysrc

import "soyc/internal/bidi"

// Context carries compile-time facts for Python implementations.
type Context struct {
	Dir bidi.Dir
}

// BidiDirection is 1 for left-to-right and -1 for right-to-left locales,
// or a runtime lookup when the locale is decided at render time.
func (c Context) BidiDirection() Value {
	if c.Dir.Known() {
		return (&ValueFactory{}).Int(int64(c.Dir.Int()))
	}
	return atom("bidi.get_bidi_dir()", Int)
}
