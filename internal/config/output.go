package config

// OutputConfig holds settings related to output formatting.
type OutputConfig struct {
	// JSONFormat writes snapshots as JSON instead of board diagrams
	JSONFormat bool

	// StreamJSON writes each JSON record as it is produced instead of one
	// document per session
	StreamJSON bool

	// Coordinates labels board diagrams with files and ranks
	Coordinates bool

	// MarkHints draws hint squares of the selection on board diagrams
	MarkHints bool

	// ShowMovetext prints the numbered move list under board diagrams
	ShowMovetext bool
}

// NewOutputConfig creates an OutputConfig with default values.
func NewOutputConfig() *OutputConfig {
	return &OutputConfig{
		Coordinates:  true,
		MarkHints:    true,
		ShowMovetext: true,
	}
}
