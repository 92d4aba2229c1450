// Package bidi answers the one writing-direction question plugin functions
// may ask: which way does the active locale write.
package bidi

import (
	"fmt"

	"golang.org/x/text/language"
)

// Dir is the global writing direction of a locale.
type Dir int8

const (
	// Unknown means the locale is only known at render time.
	Unknown Dir = 0
	LTR     Dir = 1
	RTL     Dir = -1
)

func (d Dir) String() string {
	switch d {
	case LTR:
		return "ltr"
	case RTL:
		return "rtl"
	default:
		return "unknown"
	}
}

// Int returns 1 for LTR and -1 for RTL. Callers must handle Unknown first.
func (d Dir) Int() int {
	return int(d)
}

// Known reports whether the direction was fixed at compile time.
func (d Dir) Known() bool {
	return d != Unknown
}

var rtlScripts = map[string]struct{}{
	"Adlm": {}, "Arab": {}, "Hebr": {}, "Mand": {}, "Mend": {}, "Nkoo": {},
	"Rohg": {}, "Samr": {}, "Syrc": {}, "Thaa": {}, "Yezi": {},
}

// FromLocale derives the direction from a BCP 47 locale such as "ar",
// "he-IL", "az-Arab" or "en_US". An empty locale yields Unknown.
func FromLocale(locale string) (Dir, error) {
	if locale == "" {
		return Unknown, nil
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return Unknown, fmt.Errorf("bidi: invalid locale %q: %w", locale, err)
	}
	script, conf := tag.Script()
	if conf == language.No {
		return LTR, nil
	}
	if _, ok := rtlScripts[script.String()]; ok {
		return RTL, nil
	}
	return LTR, nil
}
