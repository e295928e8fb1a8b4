package model

import (
	"github.com/lixenwraith/signal-collider/parameter"
)

// Tag is the kind of content a cell holds
type Tag uint8

const (
	TagNone Tag = iota
	TagLiteral
	TagIf
	TagSynth
	TagClock
	TagDelay
	TagRandom
	TagGenerate
	TagScale
	TagAdd
	TagSub
	TagMul
	TagSampler
	tagCount
)

var tagNames = [tagCount]string{
	TagNone:     "none",
	TagLiteral:  "literal",
	TagIf:       "if",
	TagSynth:    "synth",
	TagClock:    "clock",
	TagDelay:    "delay",
	TagRandom:   "random",
	TagGenerate: "generate",
	TagScale:    "scale",
	TagAdd:      "add",
	TagSub:      "sub",
	TagMul:      "mul",
	TagSampler:  "sampler",
}

func (t Tag) String() string {
	if t < tagCount {
		return tagNames[t]
	}
	return "unknown"
}

// Operator reports whether the tag is an evaluated operator
func (t Tag) Operator() bool {
	return t > TagLiteral && t < tagCount
}

// Audio reports whether the operator renders sound
func (t Tag) Audio() bool {
	return t == TagSynth || t == TagSampler
}

// Value is the content of one cell; Literal is meaningful only for TagLiteral
type Value struct {
	Tag     Tag
	Literal int8
}

// None is the empty cell
var None = Value{}

// Lit builds a literal value, callers validate the range
func Lit(n int) Value {
	return Value{Tag: TagLiteral, Literal: int8(n)}
}

// Op builds an operator value
func Op(t Tag) Value {
	return Value{Tag: t}
}

func (v Value) IsNone() bool {
	return v.Tag == TagNone
}

func (v Value) IsLiteral() bool {
	return v.Tag == TagLiteral
}

// Valid reports whether the value may be stored in a cell
func (v Value) Valid() bool {
	if v.Tag >= tagCount {
		return false
	}
	if v.Tag == TagLiteral {
		return v.Literal >= 0 && v.Literal <= parameter.MaxLiteral
	}
	return v.Literal == 0
}
