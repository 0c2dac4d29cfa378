package tui

import "github.com/brensch/snekrush/session"

var keyCommands = map[string]session.Command{
	"up":    session.CmdUp,
	"w":     session.CmdUp,
	"k":     session.CmdUp,
	"down":  session.CmdDown,
	"s":     session.CmdDown,
	"j":     session.CmdDown,
	"left":  session.CmdLeft,
	"a":     session.CmdLeft,
	"h":     session.CmdLeft,
	"right": session.CmdRight,
	"d":     session.CmdRight,
	"l":     session.CmdRight,
	"p":     session.CmdPause,
	" ":     session.CmdReset,
	"space": session.CmdReset,
	"r":     session.CmdReset,
}

// KeyCommand maps a bubbletea key name to a command. Unbound keys give
// CmdNone.
func KeyCommand(key string) session.Command {
	return keyCommands[key]
}
