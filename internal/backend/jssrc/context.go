package jssrc

import "soyc/internal/bidi"

// Context is what a JavaScript plugin implementation may know about the
// compilation besides its arguments.
type Context struct {
	Dir bidi.Dir
}

// BidiDirection is 1 for left-to-right and -1 for right-to-left locales.
// When the locale is not fixed at compile time the direction is read from
// the runtime.
func (c Context) BidiDirection() Value {
	if c.Dir.Known() {
		f := ValueFactory{}
		return f.Int(int64(c.Dir.Int()))
	}
	return atom("soy.$$bidiGlobalDir()", Integer)
}
