package session

import (
	"strings"

	"github.com/brensch/snekrush/game"
)

// Command is an abstract player input. Adapters translate keys, buttons and
// wire messages into commands; anything they cannot translate is dropped.
type Command uint8

const (
	CmdNone Command = iota
	CmdUp
	CmdDown
	CmdLeft
	CmdRight
	CmdPause
	CmdReset
)

var commandNames = map[string]Command{
	"up":    CmdUp,
	"down":  CmdDown,
	"left":  CmdLeft,
	"right": CmdRight,
	"pause": CmdPause,
	"reset": CmdReset,
}

func (c Command) String() string {
	for name, cmd := range commandNames {
		if cmd == c {
			return name
		}
	}
	return "none"
}

// ParseCommand maps a wire name ("up", "pause", ...) to a Command.
// Matching ignores case and surrounding space.
func ParseCommand(s string) (Command, bool) {
	c, ok := commandNames[strings.ToLower(strings.TrimSpace(s))]
	return c, ok
}

// Direction returns the move carried by a direction command, or game.None.
func (c Command) Direction() game.Direction {
	switch c {
	case CmdUp:
		return game.Up
	case CmdDown:
		return game.Down
	case CmdLeft:
		return game.Left
	case CmdRight:
		return game.Right
	default:
		return game.None
	}
}
