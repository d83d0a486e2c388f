// chess-tutor runs scripted chess tutoring sessions: board clicks, moves,
// hints and proposals against a forgiving teaching board.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/rs/zerolog"

	"github.com/lgbarn/chess-tutor-go/internal/config"
)

const programVersion = "0.1.0"

func main() {
	flag.Usage = usage
	flag.Parse()

	if *help {
		usage()
		os.Exit(0)
	}

	if *version {
		fmt.Printf("chess-tutor version %s\n", programVersion)
		os.Exit(0)
	}

	cfg := config.NewConfig()
	if err := applyFlags(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	// Set up logging and output files
	setupLogFile(cfg)
	setupOutputFile(cfg)
	log := newLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	items, failed := loadScripts(flag.Args(), os.Stdin, cfg)
	results := runScripts(ctx, cfg, items, log)
	sum, err := writeResults(cfg.OutputFile, results, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
		os.Exit(1)
	}

	// Report statistics
	if cfg.Verbosity > 0 {
		reportStatistics(cfg.LogFile, len(items), sum)
	}
	if failed > 0 || sum.errors > 0 {
		os.Exit(1)
	}
}

// setupLogFile configures the log file based on command-line flags.
// The log writer is shared by concurrent sessions, so it is serialised.
func setupLogFile(cfg *config.Config) {
	if *logFile != "" {
		file, err := os.Create(*logFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating log file %s: %v\n", *logFile, err)
			os.Exit(1)
		}
		cfg.LogFile = file
	}
	cfg.LogFile = zerolog.SyncWriter(cfg.LogFile)
}

// setupOutputFile configures the output file based on command-line flags.
func setupOutputFile(cfg *config.Config) {
	if *outputFile == "" {
		return
	}

	var file *os.File
	var err error

	if *appendOutput {
		file, err = os.OpenFile(*outputFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644) //nolint:gosec // G302: 0644 is appropriate for user-created output files
	} else {
		file, err = os.Create(*outputFile)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output file %s: %v\n", *outputFile, err)
		os.Exit(1)
	}
	cfg.OutputFile = file
}

// newLogger builds the structured logger for sessions. Verbosity 0 keeps
// errors only, 1 adds session summaries and rejected moves, 2 adds engine
// fallbacks.
func newLogger(cfg *config.Config) zerolog.Logger {
	level := zerolog.ErrorLevel
	switch {
	case cfg.Verbosity >= 2:
		level = zerolog.DebugLevel
	case cfg.Verbosity == 1:
		level = zerolog.InfoLevel
	}
	return zerolog.New(cfg.LogFile).Level(level).With().Timestamp().Logger()
}

// reportStatistics prints the final counts to the log.
func reportStatistics(w io.Writer, scripts int, t totals) {
	fmt.Fprintf(w, "%d script(s), %d command(s), %d failed, %d move(s) (%d bypassed).\n",
		scripts, t.Commands, t.Failed, t.Moves, t.Bypassed)
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: chess-tutor [options] [script-files...]\n\n")
	fmt.Fprintf(os.Stderr, "Runs chess tutoring session scripts (stdin if no files are given).\n\n")
	fmt.Fprintf(os.Stderr, "Options:\n")
	flag.PrintDefaults()
	fmt.Fprintf(os.Stderr, "\nScript commands (one per line, # starts a comment):\n")
	fmt.Fprintf(os.Stderr, "  mode <beginner|intermediate|expert>\n")
	fmt.Fprintf(os.Stderr, "  role <pawn|knight|bishop|rook|queen|king|none>\n")
	fmt.Fprintf(os.Stderr, "  select <square>       click a square\n")
	fmt.Fprintf(os.Stderr, "  move <from> <to>      move a piece\n")
	fmt.Fprintf(os.Stderr, "  undo | reset\n")
	fmt.Fprintf(os.Stderr, "  propose <move>        play a proposed SAN or coordinate move\n")
	fmt.Fprintf(os.Stderr, "  request               print the move proposer request\n")
	fmt.Fprintf(os.Stderr, "  hints [square]        list reachable squares\n")
	fmt.Fprintf(os.Stderr, "  show                  print the board\n")
	fmt.Fprintf(os.Stderr, "  fen <FEN>             load a position\n")
}
