// Package errors provides sentinel errors and error types for the chess tutor.
// It defines common error conditions and structured error types that preserve
// context while allowing error inspection with errors.Is() and errors.As().
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common failure conditions.
// Use these with errors.Is() to check for specific error types.
var (
	// ErrInvalidFEN indicates a malformed or engine-invalid FEN string.
	ErrInvalidFEN = errors.New("invalid FEN string")

	// ErrIllegalMove indicates a move that violates chess rules.
	ErrIllegalMove = errors.New("illegal move")

	// ErrEmptySquare indicates a move or query from a square with no piece.
	ErrEmptySquare = errors.New("empty square")

	// ErrWrongTurn indicates a piece moved out of turn.
	ErrWrongTurn = errors.New("not this side's turn")

	// ErrInvalidSquare indicates coordinates that are not on the board.
	ErrInvalidSquare = errors.New("invalid square")

	// ErrNoHistory indicates an undo with nothing to undo.
	ErrNoHistory = errors.New("no move to undo")

	// ErrGameOver indicates the side to move has no legal moves.
	ErrGameOver = errors.New("game over")

	// ErrUnknownCommand indicates a script line naming no known command.
	ErrUnknownCommand = errors.New("unknown command")

	// ErrBadArgument indicates a script command with missing or extra arguments.
	ErrBadArgument = errors.New("bad argument count")

	// ErrInvalidConfig indicates invalid configuration values.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// MoveError wraps a move rejection with the squares involved.
type MoveError struct {
	Err  error  // The underlying error
	From string // Source square
	To   string // Destination square
	Text string // Move text as given, when the move came from text
}

// Error returns a formatted error message including all available context.
func (e *MoveError) Error() string {
	var parts []string

	if e.Text != "" {
		parts = append(parts, fmt.Sprintf("move %q", e.Text))
	}
	if e.From != "" || e.To != "" {
		parts = append(parts, fmt.Sprintf("%s-%s", orDash(e.From), orDash(e.To)))
	}

	context := strings.Join(parts, " ")
	if context == "" {
		context = "move"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", context, e.Err)
	}
	return context
}

// Unwrap returns the underlying error, enabling errors.Is() and errors.As()
// to work through the MoveError wrapper.
func (e *MoveError) Unwrap() error {
	return e.Err
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// ParseError represents a parsing error with location context.
// It's used for FEN fields and script lines.
type ParseError struct {
	Err      error  // The underlying error
	File     string // Source file name
	Line     int    // Line number (1-based)
	Column   int    // Column number (1-based)
	Field    string // FEN field name, when parsing FEN
	Expected string // What was expected (for syntax errors)
	Got      string // What was found instead
}

// Error returns a formatted error message with location and context.
func (e *ParseError) Error() string {
	var parts []string

	if e.File != "" {
		loc := e.File
		if e.Line > 0 {
			loc += fmt.Sprintf(":%d", e.Line)
			if e.Column > 0 {
				loc += fmt.Sprintf(":%d", e.Column)
			}
		}
		parts = append(parts, loc)
	} else if e.Line > 0 {
		parts = append(parts, fmt.Sprintf("line %d", e.Line))
	}

	if e.Field != "" {
		parts = append(parts, e.Field)
	}

	if e.Expected != "" && e.Got != "" {
		parts = append(parts, fmt.Sprintf("expected %s, got %s", e.Expected, e.Got))
	} else if e.Expected != "" {
		parts = append(parts, fmt.Sprintf("expected %s", e.Expected))
	} else if e.Got != "" {
		parts = append(parts, fmt.Sprintf("unexpected %s", e.Got))
	}

	if e.Err != nil {
		if len(parts) > 0 {
			return fmt.Sprintf("%s: %v", strings.Join(parts, ": "), e.Err)
		}
		return e.Err.Error()
	}

	if len(parts) > 0 {
		return strings.Join(parts, ": ")
	}
	return "parse error"
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// Wrap adds context to an error while preserving the underlying error
// for inspection with errors.Is() and errors.As().
func Wrap(err error, context string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", context, err)
}

// Wrapf adds formatted context to an error while preserving the underlying
// error for inspection with errors.Is() and errors.As().
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
