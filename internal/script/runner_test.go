package script

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/lgbarn/chess-tutor-go/internal/config"
	"github.com/lgbarn/chess-tutor-go/internal/errors"
	"github.com/lgbarn/chess-tutor-go/internal/output"
	"github.com/lgbarn/chess-tutor-go/internal/testutil"
	"github.com/lgbarn/chess-tutor-go/internal/tutor"
)

const foolsMateFEN = "rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3"

// runScript runs src in a fresh session and returns the text output, the
// log output and the summary.
func runScript(t *testing.T, mode config.Mode, src string) (string, string, Summary) {
	t.Helper()
	var out, logBuf bytes.Buffer
	cfg := config.NewConfig()
	cfg.LogFile = &logBuf
	cfg.Tutor.Mode = mode
	cfg.Tutor.Seed = 1

	tr := tutor.New(cfg.Tutor, zerolog.Nop())
	s := NewSession(tr, output.NewTextWriter(&out, cfg), cfg, zerolog.Nop())
	summary, err := s.Run(context.Background(), NewReader(strings.NewReader(src), "script", cfg))
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	return out.String(), logBuf.String(), summary
}

// lines splits output into lines, dropping the trailing empty one.
func lines(s string) []string {
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}

func TestSession_Run(t *testing.T) {
	src := `# opening
select e2
select e4
undo
move e2 e5
jump
move e2
`
	out, logOut, summary := runScript(t, config.Beginner, src)

	testutil.AssertEqual(t, lines(out), []string{
		"2: select e2 (selected) -> e3 e4",
		"3: select e4: e4 (moved)",
		"4: undo",
		"5: move: error: e2-e5: illegal move",
		"6: jump: error: script:6:1: unexpected jump: unknown command",
		"7: move: error: script:7: move: expected 2 arguments, got 1: bad argument count",
	})
	testutil.AssertEqual(t, summary, Summary{Commands: 6, Failed: 3, Moves: 1})
	testutil.AssertContains(t, logOut, "Unknown command jump on line 6.\n")
	testutil.AssertContains(t, logOut, "Wrong number of arguments to move on line 7.\n")
}

func TestSession_Show(t *testing.T) {
	out, _, summary := runScript(t, config.Beginner, "move e2 e4\nundo\nshow\n")

	testutil.AssertContains(t, out, "FEN: rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1\n")
	testutil.AssertContains(t, out, "8  r n b q k b n r\n")
	testutil.AssertEqual(t, summary.Commands, 3)
}

func TestSession_RoleMoves(t *testing.T) {
	src := `role knight
move b1 c3
move g8 e7
move g1 g3
`
	out, _, summary := runScript(t, config.Beginner, src)

	testutil.AssertEqual(t, lines(out), []string{
		"1: role (knight)",
		"2: move: Nc3",
		"3: move: Ne7",
		"4: move: g1g3 (bypassed)",
	})
	testutil.AssertEqual(t, summary, Summary{Commands: 4, Moves: 3, Bypassed: 1})
}

func TestSession_Commands(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"mode", "mode expert", "1: mode (expert)"},
		{"bad mode", "mode wizard", `1: mode: error: unknown mode "wizard": invalid configuration`},
		{"role none", "role none", "1: role (none)"},
		{"hints for a square", "hints g1", "1: hints g1 -> f3 h3"},
		{"hints for an empty square", "hints e4", "1: hints e4 -> none"},
		{"hints off the board", "hints z9", "1: hints z9: error: z9: invalid square"},
		{"select an empty square", "select e4", "1: select e4 (ignored)"},
		{"move out of turn", "move e7 e5", "1: move: error: e7-e5: not this side's turn"},
		{"undo without history", "undo", "1: undo: error: no move to undo"},
		{"reset", "reset", "1: reset"},
		{"propose", "propose Nf3", "1: propose: Nf3"},
		{"bad fen", "fen 8/8/8/8/8/8/8/8 w - - 0 1", "1: fen: error: "},
		{"fen", "fen " + foolsMateFEN, "1: fen"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, _ := runScript(t, config.Beginner, tt.src)
			testutil.AssertTrue(t, strings.HasPrefix(out, tt.want), "output %q does not start with %q", out, tt.want)
		})
	}
}

func TestSession_HintsAfterSelect(t *testing.T) {
	out, _, _ := runScript(t, config.Intermediate, "select g1\nhints\n")

	testutil.AssertEqual(t, lines(out), []string{
		"1: select g1 (selected)",
		"2: hints g1 -> f3 h3",
	})
}

func TestSession_AutoHints(t *testing.T) {
	var out bytes.Buffer
	cfg := config.NewConfig()
	cfg.Tutor.Mode = config.Intermediate
	cfg.Tutor.AutoHints = true

	tr := tutor.New(cfg.Tutor, zerolog.Nop())
	s := NewSession(tr, output.NewTextWriter(&out, cfg), cfg, zerolog.Nop())
	s.Run(context.Background(), NewReader(strings.NewReader("select g1\n"), "script", cfg))

	testutil.AssertEqual(t, out.String(), "1: select g1 (selected) -> f3 h3\n")
}

func TestSession_HintSweep(t *testing.T) {
	out, _, _ := runScript(t, config.Beginner, "role knight\nhints\n")

	testutil.AssertEqual(t, lines(out), []string{
		"1: role (knight)",
		"2: hints b1 -> d2 a3 c3",
		"2: hints g1 -> e2 f3 h3",
		"2: hints b8 -> a6 c6 d7",
		"2: hints g8 -> f6 h6 e7",
	})
}

func TestSession_Proposals(t *testing.T) {
	out, _, summary := runScript(t, config.Beginner, "propose Qxh7\nrequest\n")

	testutil.AssertContains(t, out, "1: propose: ")
	testutil.AssertContains(t, out, "(Qxh7 refused)")
	testutil.AssertContains(t, out, "2: request\n")
	testutil.AssertContains(t, out, "  valid moves: ")
	testutil.AssertEqual(t, summary.Moves, 1)
}

func TestSession_GameOver(t *testing.T) {
	out, _, summary := runScript(t, config.Beginner, "fen "+foolsMateFEN+"\npropose e3\nshow\n")

	testutil.AssertContains(t, out, "2: propose: error: game over\n")
	testutil.AssertContains(t, out, "Checkmate! Black wins!\n")
	testutil.AssertEqual(t, summary.Failed, 1)
}

func TestSession_JSON(t *testing.T) {
	var out bytes.Buffer
	cfg := config.NewConfig()
	cfg.Output.JSONFormat = true

	tr := tutor.New(cfg.Tutor, zerolog.Nop())
	s := NewSession(tr, output.NewSessionWriter(&out, cfg), cfg, zerolog.Nop())
	_, err := s.Run(context.Background(), NewReader(strings.NewReader("move e2 e4\nshow\n"), "script", cfg))
	testutil.AssertNoError(t, err)

	var doc output.JSONOutput
	if err := json.Unmarshal(out.Bytes(), &doc); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out.String())
	}
	testutil.AssertEqual(t, len(doc.Records), 2)
	testutil.AssertEqual(t, doc.Records[0].Event.Move, "e4")
	testutil.AssertEqual(t, doc.Records[0].Event.Line, 1)
	testutil.AssertEqual(t, doc.Records[1].Snapshot.Movetext, "1. e4")
	testutil.AssertEqual(t, doc.Records[1].Snapshot.Turn, "Black")
}

func TestSession_Cancelled(t *testing.T) {
	cfg := config.NewConfig()
	tr := tutor.New(cfg.Tutor, zerolog.Nop())
	s := NewSession(tr, output.NewTextWriter(&bytes.Buffer{}, cfg), cfg, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.Run(ctx, NewReader(strings.NewReader("reset\n"), "script", cfg))

	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run error = %v, want context.Canceled", err)
	}
}
