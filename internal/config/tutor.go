package config

import (
	"fmt"

	"github.com/lgbarn/chess-tutor-go/internal/engine"
	"github.com/lgbarn/chess-tutor-go/internal/errors"
)

// TutorConfig holds the settings a tutoring session starts from.
type TutorConfig struct {
	// Mode and Role pick the first layout; scripts may change them later.
	Mode Mode
	Role Role

	// Seed drives the layout shuffles. 0 seeds from the clock.
	Seed int64

	// AutoHints prints the hint squares after every select command.
	AutoHints bool

	// StartFEN, when set, replaces the first layout. Reset and mode or
	// role changes still build the usual layouts.
	StartFEN string
}

// NewTutorConfig creates a TutorConfig with default values: beginner mode,
// no role, time-based seed.
func NewTutorConfig() *TutorConfig {
	return &TutorConfig{
		Mode: Beginner,
		Role: RoleNone,
	}
}

// Validate checks that mode and role are known values and that StartFEN,
// if any, loads.
func (t *TutorConfig) Validate() error {
	if t.Mode < Beginner || t.Mode > Expert {
		return fmt.Errorf("mode %d out of range: %w", int(t.Mode), errors.ErrInvalidConfig)
	}
	if t.Role < RoleNone || t.Role > RoleKing {
		return fmt.Errorf("role %d out of range: %w", int(t.Role), errors.ErrInvalidConfig)
	}
	if t.StartFEN != "" {
		if err := engine.ValidateFEN(t.StartFEN); err != nil {
			return fmt.Errorf("start position: %v: %w", err, errors.ErrInvalidConfig)
		}
	}
	return nil
}
