package console

import (
	"errors"
	"fmt"
	"strings"
)

// Kind identifies a console command
type Kind int

const (
	KindPalette Kind = iota
	KindSave
	KindLoad
	KindReverb
	KindPlay
	KindStop
	KindClear
	KindQuit
)

// Sentinel errors
var (
	ErrEmpty           = errors.New("empty command")
	ErrUnknownCommand  = errors.New("unknown command")
	ErrMissingArgument = errors.New("missing argument")
	ErrBadArgument     = errors.New("bad argument")
)

// Command is a parsed console line
type Command struct {
	Kind Kind
	Arg  string // Path for palette/save/load
	Flag bool   // On/off for reverb
}

type syntax struct {
	kind    Kind
	needArg bool
}

var commands = map[string]syntax{
	"palette": {KindPalette, true},
	"save":    {KindSave, true},
	"load":    {KindLoad, true},
	"reverb":  {KindReverb, true},
	"play":    {KindPlay, false},
	"stop":    {KindStop, false},
	"clear":   {KindClear, false},
	"quit":    {KindQuit, false},
	"q":       {KindQuit, false},
}

// Parse splits a console line into a command and its argument
// The argument is the rest of the line, so paths may contain spaces
func Parse(line string) (Command, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return Command{}, ErrEmpty
	}

	name, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	sp, ok := commands[name]
	if !ok {
		return Command{}, fmt.Errorf("%w: %s", ErrUnknownCommand, name)
	}
	if sp.needArg && arg == "" {
		return Command{}, fmt.Errorf("%w: %s", ErrMissingArgument, name)
	}

	cmd := Command{Kind: sp.kind}
	switch sp.kind {
	case KindReverb:
		switch arg {
		case "on":
			cmd.Flag = true
		case "off":
		default:
			return Command{}, fmt.Errorf("%w: reverb %s (want on|off)", ErrBadArgument, arg)
		}
	case KindPalette, KindSave, KindLoad:
		cmd.Arg = arg
	}
	return cmd, nil
}
