// flags.go - Command-line flag definitions and configuration
package main

import (
	"flag"

	"github.com/lgbarn/chess-tutor-go/internal/config"
)

var (
	// Session options
	modeName  = flag.String("mode", "beginner", "Starting mode: beginner, intermediate, expert")
	roleName  = flag.String("role", "", "Starting learning role: pawn, knight, bishop, rook, queen, king")
	seed      = flag.Int64("seed", 0, "Seed for shuffled layouts (0 = time based)")
	autoHints = flag.Bool("hints", false, "Print hint squares after every select in all modes")
	startFEN  = flag.String("fen", "", "Open every script on this FEN instead of the mode's layout")

	// Output options
	outputFile   = flag.String("o", "", "Output file (default: stdout)")
	appendOutput = flag.Bool("a", false, "Append to output file instead of overwrite")
	jsonOutput   = flag.Bool("J", false, "Output in JSON format")
	streamJSON   = flag.Bool("stream", false, "With -J and a single script, write each record as soon as it is produced")
	noCoords     = flag.Bool("nocoords", false, "Don't label board diagrams with files and ranks")
	noMovetext   = flag.Bool("nomovetext", false, "Don't print the move list under board diagrams")

	// Logging
	logFile   = flag.String("log", "", "Write diagnostics to log file")
	verbosity = flag.Int("v", 1, "Log level: 0=errors, 1=session summaries, 2=engine fallbacks")
	quiet     = flag.Bool("s", false, "Silent mode (no summary line)")

	// Other options
	help    = flag.Bool("h", false, "Show help")
	version = flag.Bool("version", false, "Show version")

	// Performance options
	workers       = flag.Int("workers", 0, "Number of scripts run at once (0 = auto-detect based on CPU cores)")
	stopOnFailure = flag.Bool("stop", false, "Skip remaining scripts after a script with a failed command")
)

// applyFlags applies command-line flags to the configuration.
func applyFlags(cfg *config.Config) error {
	if err := applySessionFlags(cfg); err != nil {
		return err
	}
	applyOutputFlags(cfg)

	cfg.Verbosity = *verbosity
	if *quiet {
		cfg.Verbosity = 0
	}
	cfg.Workers = *workers
	cfg.StopOnFailure = *stopOnFailure
	cfg.OutputFilename = *outputFile
	cfg.LogFilename = *logFile
	return cfg.Validate()
}

// applySessionFlags configures the settings every script starts from.
func applySessionFlags(cfg *config.Config) error {
	mode, err := config.ParseMode(*modeName)
	if err != nil {
		return err
	}
	role, err := config.ParseRole(*roleName)
	if err != nil {
		return err
	}
	cfg.Tutor.Mode = mode
	cfg.Tutor.Role = role
	cfg.Tutor.Seed = *seed
	cfg.Tutor.AutoHints = *autoHints
	cfg.Tutor.StartFEN = *startFEN
	return nil
}

// applyOutputFlags configures output formatting.
func applyOutputFlags(cfg *config.Config) {
	cfg.Output.JSONFormat = *jsonOutput
	cfg.Output.StreamJSON = *streamJSON
	cfg.Output.Coordinates = !*noCoords
	cfg.Output.ShowMovetext = !*noMovetext
}
