package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/rs/zerolog"

	"github.com/lgbarn/chess-tutor-go/internal/config"
	"github.com/lgbarn/chess-tutor-go/internal/output"
	"github.com/lgbarn/chess-tutor-go/internal/script"
	"github.com/lgbarn/chess-tutor-go/internal/tutor"
	"github.com/lgbarn/chess-tutor-go/internal/worker"
)

// totals sums the summaries of every script.
type totals struct {
	script.Summary
	errors int
}

// loadScripts reads every named script, or stdin when none are named.
// Files that cannot be read are reported and counted.
func loadScripts(args []string, stdin io.Reader, cfg *config.Config) ([]worker.WorkItem, int) {
	if len(args) == 0 {
		data, err := io.ReadAll(stdin)
		if err != nil {
			fmt.Fprintf(cfg.LogFile, "Error reading stdin: %v\n", err)
			return nil, 1
		}
		return []worker.WorkItem{{Name: "stdin", Data: data}}, 0
	}

	var items []worker.WorkItem
	failed := 0
	for _, filename := range args {
		data, err := os.ReadFile(filename) //nolint:gosec // G304: CLI tool opens user-specified files
		if err != nil {
			fmt.Fprintf(cfg.LogFile, "Error opening file %s: %v\n", filename, err)
			failed++
			continue
		}
		items = append(items, worker.WorkItem{Name: filename, Data: data, Index: len(items)})
	}
	return items, failed
}

// runScripts runs each script in its own session and returns the results
// in input order. A lone script writes straight to cfg.OutputFile, so its
// records appear while it runs; several scripts are buffered and left to
// writeResults.
func runScripts(ctx context.Context, cfg *config.Config, items []worker.WorkItem, log zerolog.Logger) []worker.ProcessResult {
	numWorkers := cfg.Workers
	if numWorkers == 0 {
		numWorkers = runtime.NumCPU()
	}
	if numWorkers > len(items) {
		numWorkers = len(items)
	}

	opts := []worker.PoolOption{
		worker.WithWorkers(numWorkers),
		worker.WithBufferSize(len(items) + 1),
		worker.WithContext(ctx),
	}
	if cfg.StopOnFailure {
		opts = append(opts, worker.WithStopWhen(hasFailures))
	}
	pool := worker.NewPool(processScript(cfg, log, len(items) == 1), opts...)
	log.Debug().Int("scripts", len(items)).Int("workers", pool.NumWorkers()).Msg("running scripts")
	return pool.Run(items)
}

// hasFailures reports a script that stopped with an error or had a failed
// command.
func hasFailures(r worker.ProcessResult) bool {
	if r.Error != nil {
		return true
	}
	summary, ok := r.Summary.(script.Summary)
	return ok && summary.Failed > 0
}

// processScript returns the pool function running one script. With direct
// set the session writes to cfg.OutputFile and the result carries no output.
func processScript(cfg *config.Config, log zerolog.Logger, direct bool) worker.ProcessFunc {
	return func(ctx context.Context, item worker.WorkItem) worker.ProcessResult {
		result := worker.ProcessResult{Name: item.Name, Index: item.Index}

		tutorCfg := *cfg.Tutor
		t := tutor.New(&tutorCfg, log.With().Str("script", item.Name).Logger())

		var buf bytes.Buffer
		var w io.Writer = &buf
		if direct {
			w = cfg.OutputFile
		}
		out := output.NewSessionWriter(w, cfg)
		session := script.NewSession(t, out, cfg, log.With().Str("script", item.Name).Str("session", t.Session()).Logger())
		reader := script.NewReader(bytes.NewReader(item.Data), item.Name, cfg)

		summary, err := session.Run(ctx, reader)
		result.Output = buf.Bytes()
		result.Summary = summary
		result.Error = err
		return result
	}
}

// writeResults writes each script's output in order and sums the counts.
// With more than one script, text output gets a header per script.
func writeResults(w io.Writer, results []worker.ProcessResult, cfg *config.Config) (totals, error) {
	var t totals
	for _, r := range results {
		if r.Error != nil {
			fmt.Fprintf(cfg.LogFile, "Error running %s: %v\n", r.Name, r.Error)
			t.errors++
		}
		if summary, ok := r.Summary.(script.Summary); ok {
			t.Commands += summary.Commands
			t.Failed += summary.Failed
			t.Moves += summary.Moves
			t.Bypassed += summary.Bypassed
		}
		if r.Skipped {
			if r.Error == nil {
				fmt.Fprintf(cfg.LogFile, "Skipped %s\n", r.Name)
			}
			continue
		}
		if len(results) > 1 && !cfg.Output.JSONFormat {
			if _, err := fmt.Fprintf(w, "== %s ==\n", r.Name); err != nil {
				return t, err
			}
		}
		if _, err := w.Write(r.Output); err != nil {
			return t, err
		}
	}
	return t, nil
}
