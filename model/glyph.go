package model

import (
	"github.com/lixenwraith/signal-collider/parameter"
)

// GlyphNone is drawn and stored for empty cells
const GlyphNone = '.'

// operatorGlyphs maps operator tags to their key/display glyph
var operatorGlyphs = [tagCount]rune{
	TagIf:       '=',
	TagSynth:    '~',
	TagClock:    'c',
	TagDelay:    'd',
	TagRandom:   'r',
	TagGenerate: '!',
	TagScale:    '#',
	TagAdd:      '+',
	TagSub:      '-',
	TagMul:      '*',
	TagSampler:  '$',
}

// LiteralGlyph returns the base-36 digit for n: 0-9 then A-Z
func LiteralGlyph(n int) rune {
	if n < 10 {
		return rune('0' + n)
	}
	return rune('A' + n - 10)
}

// LiteralOf parses a base-36 digit, returns -1 for anything else
// Lowercase letters are operators, not digits
func LiteralOf(r rune) int {
	switch {
	case r >= '0' && r <= '9':
		return int(r - '0')
	case r >= 'A' && r <= 'Z':
		return int(r-'A') + 10
	}
	return -1
}

// Glyph returns the display rune of a value
func (v Value) Glyph() rune {
	switch {
	case v.Tag == TagNone:
		return GlyphNone
	case v.Tag == TagLiteral:
		if v.Literal < 0 || v.Literal > parameter.MaxLiteral {
			return '?'
		}
		return LiteralGlyph(int(v.Literal))
	case v.Tag < tagCount:
		return operatorGlyphs[v.Tag]
	}
	return '?'
}

// ParseGlyph maps a typed or stored rune to a value
func ParseGlyph(r rune) (Value, bool) {
	if r == GlyphNone {
		return None, true
	}
	if n := LiteralOf(r); n >= 0 {
		return Lit(n), true
	}
	for t, g := range operatorGlyphs {
		if g != 0 && g == r {
			return Op(Tag(t)), true
		}
	}
	return None, false
}
