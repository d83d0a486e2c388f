// Package config provides configuration for chess-tutor sessions.
package config

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/lgbarn/chess-tutor-go/internal/chess"
	"github.com/lgbarn/chess-tutor-go/internal/errors"
)

// Mode is the tutoring difficulty. It selects the starting layout and
// whether moves are checked strictly.
type Mode int

const (
	Beginner     Mode = iota // Standard layout, strict moves, hints shown
	Intermediate             // Standard layout, strict moves
	Expert                   // Shuffled army, permissive moves
)

var modeNames = []string{"beginner", "intermediate", "expert"}

// String returns the lowercase mode name.
func (m Mode) String() string {
	if m >= 0 && int(m) < len(modeNames) {
		return modeNames[m]
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode converts a mode name, in any case, to a Mode.
func ParseMode(s string) (Mode, error) {
	for i, name := range modeNames {
		if strings.EqualFold(s, name) {
			return Mode(i), nil
		}
	}
	return Beginner, fmt.Errorf("unknown mode %q: %w", s, errors.ErrInvalidConfig)
}

// Role is the piece type a learner is practising, or RoleNone.
type Role int

const (
	RoleNone Role = iota
	RolePawn
	RoleKnight
	RoleBishop
	RoleRook
	RoleQueen
	RoleKing
)

var roleNames = []string{"none", "pawn", "knight", "bishop", "rook", "queen", "king"}

// String returns the lowercase role name.
func (r Role) String() string {
	if r >= 0 && int(r) < len(roleNames) {
		return roleNames[r]
	}
	return fmt.Sprintf("Role(%d)", int(r))
}

// Piece returns the piece type practised in the role, Empty for RoleNone.
func (r Role) Piece() chess.Piece {
	if r <= RoleNone || r > RoleKing {
		return chess.Empty
	}
	return chess.PieceTypes[r-RolePawn]
}

// ParseRole converts a role name, in any case, to a Role. An empty string
// means RoleNone.
func ParseRole(s string) (Role, error) {
	if s == "" {
		return RoleNone, nil
	}
	for i, name := range roleNames {
		if strings.EqualFold(s, name) {
			return Role(i), nil
		}
	}
	return RoleNone, fmt.Errorf("unknown role %q: %w", s, errors.ErrInvalidConfig)
}

// Config holds all program configuration.
type Config struct {
	// 0=errors only, 1=session summaries, 2=engine fallbacks
	Verbosity int

	// Tutor holds the settings each session starts from.
	Tutor *TutorConfig

	// Output holds presentation settings.
	Output *OutputConfig

	// Workers bounds how many scripts run at once; 0 means one per CPU.
	Workers int

	// StopOnFailure skips the scripts not yet started once a script has a
	// failed command.
	StopOnFailure bool

	// File handling
	OutputFilename string
	LogFilename    string

	// Output streams
	OutputFile io.Writer
	LogFile    io.Writer
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		Verbosity:  1,
		Tutor:      NewTutorConfig(),
		Output:     NewOutputConfig(),
		OutputFile: os.Stdout,
		LogFile:    os.Stderr,
	}
}

// SetOutput sets the output writer.
func (c *Config) SetOutput(w io.Writer) {
	c.OutputFile = w
}

// SetLog sets the log writer.
func (c *Config) SetLog(w io.Writer) {
	c.LogFile = w
}

// Validate checks the configuration as a whole.
func (c *Config) Validate() error {
	if c.Workers < 0 {
		return fmt.Errorf("workers (%d) must not be negative: %w", c.Workers, errors.ErrInvalidConfig)
	}
	if c.Verbosity < 0 {
		return fmt.Errorf("verbosity (%d) must not be negative: %w", c.Verbosity, errors.ErrInvalidConfig)
	}
	return c.Tutor.Validate()
}
