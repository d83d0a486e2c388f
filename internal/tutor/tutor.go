// Package tutor is the teaching layer of the chess tutor. It wraps the
// strict rules engine with operations that survive positions the engine
// refuses, resolves movement hints for any piece regardless of turn, builds
// the practice layouts, and drives a session through the Tutor controller.
package tutor

import (
	"fmt"
	"math/rand"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/lgbarn/chess-tutor-go/internal/chess"
	"github.com/lgbarn/chess-tutor-go/internal/config"
	"github.com/lgbarn/chess-tutor-go/internal/engine"
	"github.com/lgbarn/chess-tutor-go/internal/errors"
)

// MoveOutcome describes an accepted move.
type MoveOutcome struct {
	Move     chess.Move
	Bypassed bool // applied by relocating the piece, outside the rules
}

// undoEntry remembers how to take back one accepted move. Strict moves are
// taken back through the engine history; bypassed moves left no history
// entry, so they restore the position they replaced.
type undoEntry struct {
	bypass bool
	before *engine.Position
}

// Tutor owns one tutoring session: the mode, the learning role, the current
// position and the selection. Positions are replaced on every change and
// never mutated in place. A Tutor is not safe for concurrent use.
type Tutor struct {
	mode    config.Mode
	role    config.Role
	pos     *engine.Position
	journal []undoEntry

	selected chess.Square
	hints    []chess.Square

	rng     *rand.Rand
	session string
	log     zerolog.Logger
}

// New starts a session in cfg's mode and role, on cfg.StartFEN when it is
// set.
func New(cfg *config.TutorConfig, log zerolog.Logger) *Tutor {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	session := uuid.NewString()
	t := &Tutor{
		mode:    cfg.Mode,
		role:    cfg.Role,
		rng:     rand.New(rand.NewSource(seed)),
		session: session,
		log:     log.With().Str("session", session).Logger(),
	}
	t.rebuild()
	if cfg.StartFEN != "" {
		if err := t.Load(cfg.StartFEN); err != nil {
			t.log.Warn().Err(err).Str("fen", cfg.StartFEN).Msg("start position rejected, using the layout")
		}
	}
	t.log.Debug().Stringer("mode", t.mode).Stringer("role", t.role).Int64("seed", seed).Msg("session started")
	return t
}

// Session returns the session id.
func (t *Tutor) Session() string { return t.session }

// Mode returns the current mode.
func (t *Tutor) Mode() config.Mode { return t.mode }

// Role returns the current learning role.
func (t *Tutor) Role() config.Role { return t.role }

// Permissive reports whether rejected moves are applied by bypass.
func (t *Tutor) Permissive() bool {
	return t.mode == config.Expert || t.role != config.RoleNone
}

// Position returns a copy of the current position.
func (t *Tutor) Position() *engine.Position {
	clone, _ := SafeClone(t.pos, t.log)
	return clone
}

// SetMode switches mode and starts over on the mode's own layout. Like the
// mode buttons of the sidebar, it clears the learning role.
func (t *Tutor) SetMode(mode config.Mode) {
	t.mode = mode
	t.role = config.RoleNone
	t.rebuild()
	t.log.Info().Stringer("mode", mode).Msg("mode changed")
}

// SetRole switches the learning role and rebuilds the layout. RoleNone
// returns to the mode's layout.
func (t *Tutor) SetRole(role config.Role) {
	t.role = role
	t.rebuild()
	t.log.Info().Stringer("role", role).Msg("role changed")
}

// Reset rebuilds the layout for the current mode and role.
func (t *Tutor) Reset() {
	t.rebuild()
	t.log.Info().Msg("reset")
}

func (t *Tutor) rebuild() {
	t.commit(Layout(t.mode, t.role, t.rng))
	t.journal = nil
}

// commit installs p as the current position and drops the selection.
func (t *Tutor) commit(p *engine.Position) {
	t.pos = p
	t.selected = chess.NoSquare
	t.hints = nil
}

// Load replaces the position with fen. The session is untouched when fen
// is rejected.
func (t *Tutor) Load(fen string) error {
	p, err := engine.NewPositionFromFEN(fen)
	if err != nil {
		return err
	}
	t.commit(p)
	t.journal = nil
	return nil
}

// MakeMove moves the piece on from to to. The piece must belong to the side
// to move in every mode. In permissive mode a move the rules reject is
// applied anyway by relocating the piece and passing the turn.
func (t *Tutor) MakeMove(from, to chess.Square) (MoveOutcome, error) {
	reject := func(err error) (MoveOutcome, error) {
		t.log.Info().Stringer("from", from).Stringer("to", to).Err(err).Msg("move rejected")
		return MoveOutcome{}, &errors.MoveError{Err: err, From: from.String(), To: to.String()}
	}

	if !from.Valid() || !to.Valid() {
		return reject(errors.ErrInvalidSquare)
	}
	piece, ok := t.pos.Get(from)
	if !ok {
		return reject(errors.ErrEmptySquare)
	}
	colour := chess.ExtractColour(piece)
	if colour != t.pos.Turn() {
		return reject(errors.ErrWrongTurn)
	}
	if from == to {
		return reject(errors.ErrIllegalMove)
	}

	clone, _ := SafeClone(t.pos, t.log)
	m, err := clone.Move(from, to, chess.Queen)
	if err == nil {
		t.journal = append(t.journal, undoEntry{before: t.pos})
		t.commit(clone)
		t.log.Debug().Str("move", m.String()).Msg("move played")
		return MoveOutcome{Move: m}, nil
	}
	if !t.Permissive() {
		return reject(errors.ErrIllegalMove)
	}

	captured, _ := clone.Get(to)
	clone.Remove(from)
	clone.Put(piece, to)
	change := SafeChangeTurn(clone, colour.Opposite(), t.log)
	if change == TurnFailed {
		return reject(errors.ErrIllegalMove)
	}

	m = chess.Move{
		Class:         chess.PieceMove,
		From:          from,
		To:            to,
		Colour:        colour,
		PieceToMove:   chess.ExtractPiece(piece),
		CapturedPiece: chess.Empty,
		PromotedPiece: chess.Empty,
	}
	if chess.ExtractPiece(piece) == chess.Pawn {
		m.Class = chess.PawnMove
	}
	if chess.IsColoured(captured) {
		m.CapturedPiece = chess.ExtractPiece(captured)
	}

	t.journal = append(t.journal, undoEntry{bypass: true, before: t.pos})
	t.commit(clone)
	t.log.Debug().Str("move", m.String()).Stringer("turn", change).Msg("move bypassed")
	return MoveOutcome{Move: m, Bypassed: true}, nil
}

// Undo takes back the last accepted move, bypassed or not. It returns false
// when there is nothing to take back.
func (t *Tutor) Undo() bool {
	if len(t.journal) == 0 {
		return false
	}
	last := t.journal[len(t.journal)-1]
	t.journal = t.journal[:len(t.journal)-1]

	if last.bypass {
		t.commit(last.before)
		t.log.Info().Msg("bypassed move taken back")
		return true
	}

	clone, _ := SafeClone(t.pos, t.log)
	if m, ok := clone.Undo(); ok {
		t.commit(clone)
		t.log.Info().Str("move", m.String()).Msg("move taken back")
		return true
	}
	t.log.Warn().Msg("engine history empty, restoring snapshot")
	t.commit(last.before)
	return true
}

// Selected returns the selected square, if any.
func (t *Tutor) Selected() (chess.Square, bool) {
	return t.selected, t.selected != chess.NoSquare
}

// Hints returns the destinations of the selected piece.
func (t *Tutor) Hints() []chess.Square {
	return append([]chess.Square(nil), t.hints...)
}

// ShowHints reports whether hint squares are drawn for the learner. Only
// beginner mode draws them.
func (t *Tutor) ShowHints() bool {
	return t.mode == config.Beginner
}

// ClickAction is what a square click did.
type ClickAction int

const (
	ClickIgnored    ClickAction = iota // empty square with nothing selected
	ClickSelected                      // piece selected, hints resolved
	ClickDeselected                    // selected square clicked again
	ClickMoved                         // move to a hint square accepted
	ClickRejected                      // move to a hint square refused; selection kept
	ClickCleared                       // click off the hints; selection dropped
)

var clickNames = []string{"ignored", "selected", "deselected", "moved", "rejected", "cleared"}

func (a ClickAction) String() string {
	if a >= 0 && int(a) < len(clickNames) {
		return clickNames[a]
	}
	return fmt.Sprintf("ClickAction(%d)", int(a))
}

// Click is the result of Select.
type Click struct {
	Action  ClickAction
	Square  chess.Square
	Outcome MoveOutcome // set for ClickMoved
	Err     error       // set for ClickRejected and off-board squares
}

// Select handles a click on sq, following the board's selection rules:
// clicking the selection again deselects it, clicking one of its hint
// squares tries the move, clicking another piece selects that piece, and
// clicking any other square drops the selection.
func (t *Tutor) Select(sq chess.Square) Click {
	if !sq.Valid() {
		return Click{Action: ClickIgnored, Square: sq, Err: fmt.Errorf("%s: %w", sq, errors.ErrInvalidSquare)}
	}

	if t.selected != chess.NoSquare {
		if sq == t.selected {
			t.selected, t.hints = chess.NoSquare, nil
			return Click{Action: ClickDeselected, Square: sq}
		}
		if slices.Contains(t.hints, sq) {
			outcome, err := t.MakeMove(t.selected, sq)
			if err != nil {
				return Click{Action: ClickRejected, Square: sq, Err: err}
			}
			return Click{Action: ClickMoved, Square: sq, Outcome: outcome}
		}
	}

	if _, ok := t.pos.Get(sq); ok {
		t.selected = sq
		t.hints = PseudoLegalMoves(t.pos, sq, t.log)
		return Click{Action: ClickSelected, Square: sq}
	}
	if t.selected != chess.NoSquare {
		t.selected, t.hints = chess.NoSquare, nil
		return Click{Action: ClickCleared, Square: sq}
	}
	return Click{Action: ClickIgnored, Square: sq}
}
