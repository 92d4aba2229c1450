package diagfmt

import (
	"path/filepath"
	"strings"

	"soyc/internal/source"
)

func formatPath(f *source.File, mode PathMode, base string) string {
	if f == nil {
		return "<unknown>"
	}
	p := filepath.FromSlash(f.Path)
	switch mode {
	case PathModeBasename:
		return filepath.Base(p)
	case PathModeAbsolute:
		if f.Flags&source.FileVirtual != 0 {
			return f.Path
		}
		if abs, err := filepath.Abs(p); err == nil {
			return filepath.ToSlash(abs)
		}
	case PathModeRelative, PathModeAuto:
		if base == "" {
			return f.Path
		}
		rel, err := filepath.Rel(base, p)
		if err != nil || (mode == PathModeAuto && strings.HasPrefix(rel, "..")) {
			return f.Path
		}
		return filepath.ToSlash(rel)
	}
	return f.Path
}
