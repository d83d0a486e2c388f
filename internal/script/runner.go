package script

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"github.com/lgbarn/chess-tutor-go/internal/chess"
	"github.com/lgbarn/chess-tutor-go/internal/config"
	"github.com/lgbarn/chess-tutor-go/internal/errors"
	"github.com/lgbarn/chess-tutor-go/internal/output"
	"github.com/lgbarn/chess-tutor-go/internal/tutor"
)

// Summary counts what a script did.
type Summary struct {
	Commands int `json:"commands"`
	Failed   int `json:"failed"`
	Moves    int `json:"moves"`
	Bypassed int `json:"bypassed"`
}

// Session runs script commands against one tutor and reports each result.
type Session struct {
	tutor   *tutor.Tutor
	out     output.SessionWriter
	cfg     *config.Config
	log     zerolog.Logger
	summary Summary
}

// NewSession creates a session over t writing to out.
func NewSession(t *tutor.Tutor, out output.SessionWriter, cfg *config.Config, log zerolog.Logger) *Session {
	return &Session{
		tutor: t,
		out:   out,
		cfg:   cfg,
		log:   log,
	}
}

// Tutor returns the tutor driven by the session.
func (s *Session) Tutor() *tutor.Tutor {
	return s.tutor
}

// Summary returns the counts so far.
func (s *Session) Summary() Summary {
	return s.summary
}

// Run executes every command read from r and flushes the output.
// Failed commands are reported and counted; only output errors and
// cancellation stop the run.
func (s *Session) Run(ctx context.Context, r *Reader) (Summary, error) {
	for {
		if err := ctx.Err(); err != nil {
			return s.summary, err
		}

		cmd, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			var perr *errors.ParseError
			if !errors.As(err, &perr) {
				return s.summary, err
			}
			s.summary.Commands++
			s.summary.Failed++
			word := perr.Got
			if perr.Field != "" {
				word = perr.Field
			}
			if werr := s.out.WriteEvent(output.Event{Line: perr.Line, Command: word, Message: err.Error()}); werr != nil {
				return s.summary, werr
			}
			continue
		}

		if err := s.Execute(ctx, cmd); err != nil {
			return s.summary, err
		}
	}

	s.log.Info().
		Int("commands", s.summary.Commands).
		Int("failed", s.summary.Failed).
		Int("moves", s.summary.Moves).
		Int("bypassed", s.summary.Bypassed).
		Msg("script finished")
	return s.summary, s.out.Flush()
}

// Execute runs a single command and writes its result. The returned error
// is an output or cancellation failure; a rejected command is reported as
// a failed event instead.
func (s *Session) Execute(ctx context.Context, cmd *Command) error {
	s.summary.Commands++

	if cmd.Type == ShowCommand {
		return s.out.WriteSnapshot(s.tutor.Snapshot())
	}

	events, err := s.events(ctx, cmd)
	if err != nil {
		if ctx.Err() != nil {
			return err
		}
		s.summary.Failed++
		s.log.Debug().Int("line", cmd.Line).Str("command", cmd.Text).Err(err).Msg("command failed")
		events = []output.Event{{Command: cmd.Type.String(), Square: cmd.Arg(0), Message: err.Error()}}
		if cmd.Type != SelectCommand && cmd.Type != HintsCommand {
			events[0].Square = ""
		}
	}

	for _, e := range events {
		e.Line = cmd.Line
		if err := s.out.WriteEvent(e); err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) events(ctx context.Context, cmd *Command) ([]output.Event, error) {
	name := cmd.Type.String()
	t := s.tutor

	switch cmd.Type {
	case ModeCommand:
		mode, err := config.ParseMode(cmd.Arg(0))
		if err != nil {
			return nil, err
		}
		t.SetMode(mode)
		return []output.Event{{Command: name, OK: true, Message: mode.String()}}, nil

	case RoleCommand:
		role, err := config.ParseRole(cmd.Arg(0))
		if err != nil {
			return nil, err
		}
		t.SetRole(role)
		return []output.Event{{Command: name, OK: true, Message: role.String()}}, nil

	case SelectCommand:
		sq, err := parseSquare(cmd.Arg(0))
		if err != nil {
			return nil, err
		}
		return []output.Event{s.click(sq)}, nil

	case MoveCommand:
		from, err := parseSquare(cmd.Arg(0))
		if err != nil {
			return nil, err
		}
		to, err := parseSquare(cmd.Arg(1))
		if err != nil {
			return nil, err
		}
		outcome, err := t.MakeMove(from, to)
		if err != nil {
			return nil, err
		}
		return []output.Event{s.moved(name, outcome)}, nil

	case UndoCommand:
		if !t.Undo() {
			return nil, errors.ErrNoHistory
		}
		return []output.Event{{Command: name, OK: true}}, nil

	case ResetCommand:
		t.Reset()
		return []output.Event{{Command: name, OK: true}}, nil

	case ProposeCommand:
		prop, err := t.PlayProposal(cmd.Arg(0))
		if err != nil {
			return nil, err
		}
		s.summary.Moves++
		e := output.Event{Command: name, OK: true, Move: prop.Played}
		if prop.Substituted {
			e.Message = fmt.Sprintf("%s refused", prop.Proposed)
		}
		return []output.Event{e}, nil

	case RequestCommand:
		req := t.ProposerRequest()
		return []output.Event{{Command: name, OK: true, Request: &req}}, nil

	case HintsCommand:
		return s.hints(ctx, cmd)

	case FENCommand:
		if err := t.Load(strings.Join(cmd.Args, " ")); err != nil {
			return nil, err
		}
		return []output.Event{{Command: name, OK: true}}, nil
	}
	return nil, errors.ErrUnknownCommand
}

// click applies a board click and describes it.
func (s *Session) click(sq chess.Square) output.Event {
	c := s.tutor.Select(sq)
	e := output.Event{Command: SelectCommand.String(), Square: sq.String(), OK: true, Message: c.Action.String()}

	switch c.Action {
	case tutor.ClickSelected:
		if s.tutor.ShowHints() || s.cfg.Tutor.AutoHints {
			e.Squares = nonNil(s.tutor.Hints())
		}
	case tutor.ClickMoved:
		moved := s.moved(SelectCommand.String(), c.Outcome)
		e.Move = moved.Move
		if moved.Message != "" {
			e.Message += ", " + moved.Message
		}
	case tutor.ClickRejected, tutor.ClickIgnored:
		if c.Err != nil {
			s.summary.Failed++
			e.OK = false
			e.Message = c.Err.Error()
		}
	}
	return e
}

// moved counts an accepted move and describes it.
func (s *Session) moved(command string, outcome tutor.MoveOutcome) output.Event {
	s.summary.Moves++
	e := output.Event{Command: command, OK: true, Move: outcome.Move.String()}
	if outcome.Bypassed {
		s.summary.Bypassed++
		e.Message = "bypassed"
	}
	return e
}

// hints reports the selection's hints, a given square's hints, or with
// nothing selected the hints of every occupied square.
func (s *Session) hints(ctx context.Context, cmd *Command) ([]output.Event, error) {
	name := HintsCommand.String()

	if len(cmd.Args) > 0 {
		sq, err := parseSquare(cmd.Arg(0))
		if err != nil {
			return nil, err
		}
		hints := tutor.PseudoLegalMoves(s.tutor.Position(), sq, s.log)
		return []output.Event{{Command: name, Square: sq.String(), OK: true, Squares: nonNil(hints)}}, nil
	}

	if sq, ok := s.tutor.Selected(); ok {
		return []output.Event{{Command: name, Square: sq.String(), OK: true, Squares: nonNil(s.tutor.Hints())}}, nil
	}

	all, err := tutor.HintMap(ctx, s.tutor.Position(), s.log)
	if err != nil {
		return nil, err
	}
	var events []output.Event
	for _, sq := range chess.AllSquares() {
		if hints, ok := all[sq]; ok {
			events = append(events, output.Event{Command: name, Square: sq.String(), OK: true, Squares: nonNil(hints)})
		}
	}
	if len(events) == 0 {
		events = append(events, output.Event{Command: name, OK: true, Squares: []chess.Square{}})
	}
	return events, nil
}

func parseSquare(name string) (chess.Square, error) {
	sq, ok := chess.ParseSquare(name)
	if !ok {
		return chess.NoSquare, fmt.Errorf("%s: %w", name, errors.ErrInvalidSquare)
	}
	return sq, nil
}

func nonNil(squares []chess.Square) []chess.Square {
	if squares == nil {
		return []chess.Square{}
	}
	return squares
}
