// Package script reads and runs line-oriented tutor session scripts.
//
// Each non-blank line holds one command followed by its arguments:
//
//	mode expert
//	select e2
//	move e2 e4
//
// Lines whose first non-blank character is '#' are comments.
package script

import "strings"

// CommandType identifies a script command.
type CommandType int

const (
	NoCommand CommandType = iota
	ModeCommand
	RoleCommand
	SelectCommand
	MoveCommand
	UndoCommand
	ResetCommand
	ProposeCommand
	RequestCommand
	HintsCommand
	ShowCommand
	FENCommand
)

// commandNames maps command types to the words that invoke them.
var commandNames = [...]string{
	NoCommand:      "",
	ModeCommand:    "mode",
	RoleCommand:    "role",
	SelectCommand:  "select",
	MoveCommand:    "move",
	UndoCommand:    "undo",
	ResetCommand:   "reset",
	ProposeCommand: "propose",
	RequestCommand: "request",
	HintsCommand:   "hints",
	ShowCommand:    "show",
	FENCommand:     "fen",
}

// manyArgs marks a command that takes the rest of the line.
const manyArgs = -1

// commandArity holds the minimum and maximum argument counts per command.
var commandArity = [...][2]int{
	NoCommand:      {0, 0},
	ModeCommand:    {1, 1},
	RoleCommand:    {1, 1},
	SelectCommand:  {1, 1},
	MoveCommand:    {2, 2},
	UndoCommand:    {0, 0},
	ResetCommand:   {0, 0},
	ProposeCommand: {1, 1},
	RequestCommand: {0, 0},
	HintsCommand:   {0, 1},
	ShowCommand:    {0, 0},
	FENCommand:     {1, manyArgs},
}

// String returns the command word.
func (c CommandType) String() string {
	if c > NoCommand && int(c) < len(commandNames) {
		return commandNames[c]
	}
	return "UNKNOWN"
}

// Accepts reports whether n arguments are valid for the command.
func (c CommandType) Accepts(n int) bool {
	if c <= NoCommand || int(c) >= len(commandArity) {
		return false
	}
	arity := commandArity[c]
	return n >= arity[0] && (arity[1] == manyArgs || n <= arity[1])
}

// LookupCommand finds the command invoked by word, ignoring case.
func LookupCommand(word string) (CommandType, bool) {
	for i, name := range commandNames {
		if name != "" && strings.EqualFold(word, name) {
			return CommandType(i), true
		}
	}
	return NoCommand, false
}

// Command is one parsed script line.
type Command struct {
	Type CommandType
	Args []string

	// Line is the 1-based line number in the script
	Line int

	// Text is the line as written, without surrounding whitespace
	Text string
}

// Arg returns the i'th argument, or "" when absent.
func (c *Command) Arg(i int) string {
	if i < len(c.Args) {
		return c.Args[i]
	}
	return ""
}
