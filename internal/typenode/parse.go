package typenode

import (
	"fmt"

	"fortio.org/safecast"

	"soyc/internal/source"
)

// SyntaxError describes malformed type syntax. Offset is relative to the
// start of the parsed text.
type SyntaxError struct {
	Offset int
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("type syntax: %s at offset %d", e.Msg, e.Offset)
}

// Parse reads type syntax such as "string|null", "list<int>" or
// "map<string, list<html>>|null". Spans are reported in file coordinates,
// text starting at byte base.
//
//	type    = primary { "|" primary }
//	primary = name [ "<" type { "," type } ">" ] | "(" type ")"
//	name    = "?" | letter { letter | digit | "_" | "." }
func Parse(file source.FileID, base uint32, text string) (Node, error) {
	if _, err := safecast.Conv[uint32](len(text)); err != nil {
		return nil, fmt.Errorf("type syntax too long: %w", err)
	}
	p := &parser{file: file, base: base, src: text}
	n, err := p.parseType()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos < len(p.src) {
		return nil, p.errorf("unexpected %q", p.src[p.pos])
	}
	return n, nil
}

type parser struct {
	file source.FileID
	base uint32
	src  string
	pos  int
}

func (p *parser) span(start, end int) source.Span {
	return source.Span{File: p.file, Start: p.base + uint32(start), End: p.base + uint32(end)} // #nosec G115 -- length checked in Parse
}

func (p *parser) errorf(format string, args ...any) error {
	return &SyntaxError{Offset: p.pos, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) skipSpace() {
	for p.pos < len(p.src) {
		switch p.src[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

func (p *parser) peek() byte {
	p.skipSpace()
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) parseType() (Node, error) {
	p.skipSpace()
	start := p.pos
	first, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	if p.peek() != '|' {
		return first, nil
	}
	candidates := []Node{first}
	for p.peek() == '|' {
		p.pos++
		next, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, next)
	}
	return &Union{candidates: candidates, span: p.span(start, p.pos)}, nil
}

func (p *parser) parsePrimary() (Node, error) {
	switch c := p.peek(); {
	case c == 0:
		return nil, p.errorf("expected type")
	case c == '(':
		p.pos++
		inner, err := p.parseType()
		if err != nil {
			return nil, err
		}
		if p.peek() != ')' {
			return nil, p.errorf("expected ')'")
		}
		p.pos++
		return inner, nil
	case c == '?':
		p.pos++
		return &Named{name: "?", span: p.span(p.pos-1, p.pos)}, nil
	case isIdentStart(c):
		return p.parseNamed()
	default:
		return nil, p.errorf("unexpected %q", c)
	}
}

func (p *parser) parseNamed() (Node, error) {
	start := p.pos
	for p.pos < len(p.src) && isIdentPart(p.src[p.pos]) {
		p.pos++
	}
	name := p.src[start:p.pos]
	if p.peek() != '<' {
		return &Named{name: name, span: p.span(start, start+len(name))}, nil
	}
	p.pos++
	var args []Node
	for {
		arg, err := p.parseType()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		switch p.peek() {
		case ',':
			p.pos++
			continue
		case '>':
			p.pos++
			return &Generic{name: name, args: args, span: p.span(start, p.pos)}, nil
		default:
			return nil, p.errorf("expected ',' or '>' in type arguments of %s", name)
		}
	}
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || c == '.' || (c >= '0' && c <= '9')
}
