package engine

import (
	"fmt"
	"strings"

	"github.com/lgbarn/chess-tutor-go/internal/chess"
	"github.com/lgbarn/chess-tutor-go/internal/errors"
	"github.com/lgbarn/chess-tutor-go/internal/hashing"
)

// HistoryEntry records one applied move with the state it was played from.
type HistoryEntry struct {
	Move   chess.Move
	Before chess.BoardState
	Key    uint64 // Zobrist key of the position before the move
}

// Journal is a position's move history, oldest first.
type Journal []HistoryEntry

// MoveQuery scopes a move listing. The zero value lists every move.
type MoveQuery struct {
	Square chess.Square
}

// Position is a stateful rules engine: a board plus the stack of moves
// played on it. Loading a position is strict, but direct edits with Put
// and Remove may build boards that Load would reject.
type Position struct {
	board   *chess.Board
	history Journal
}

// NewPosition returns the standard starting position.
func NewPosition() *Position {
	return &Position{board: NewInitialBoard()}
}

// NewEmptyPosition returns a position with no pieces and White to move.
func NewEmptyPosition() *Position {
	return &Position{board: chess.NewBoard()}
}

// NewPositionFromFEN loads fen into a new position.
func NewPositionFromFEN(fen string) (*Position, error) {
	p := NewEmptyPosition()
	if err := p.Load(fen); err != nil {
		return nil, err
	}
	return p, nil
}

// Get returns the coloured piece on sq. The second result is false when
// the square is empty or not on the board.
func (p *Position) Get(sq chess.Square) (chess.Piece, bool) {
	if !sq.Valid() {
		return chess.Empty, false
	}
	piece := p.board.At(sq)
	return piece, chess.IsColoured(piece)
}

// Put places a coloured piece on sq, replacing any occupant. It refuses a
// second king of the same colour and anything off the board.
func (p *Position) Put(piece chess.Piece, sq chess.Square) bool {
	if !sq.Valid() || !chess.IsColoured(piece) {
		return false
	}
	if chess.ExtractPiece(piece) == chess.King {
		if kingSq, ok := p.board.FindKing(chess.ExtractColour(piece)); ok && kingSq != sq {
			return false
		}
	}
	p.board.SetAt(sq, piece)
	normaliseRights(p.board)
	return true
}

// Remove empties sq and returns what was there.
func (p *Position) Remove(sq chess.Square) (chess.Piece, bool) {
	piece, ok := p.Get(sq)
	if !ok {
		return chess.Empty, false
	}
	p.board.SetAt(sq, chess.Empty)
	normaliseRights(p.board)
	return piece, true
}

// Clear empties the board, resets the side to move and drops the history.
func (p *Position) Clear() {
	p.board.Clear()
	p.history = nil
}

// Load replaces the position with fen. On failure the position is left
// untouched and the error is a *errors.ParseError wrapping ErrInvalidFEN.
func (p *Position) Load(fen string) error {
	board, err := NewBoardFromFEN(fen)
	if err != nil {
		return err
	}
	p.board = board
	p.history = nil
	return nil
}

// FEN serialises the position.
func (p *Position) FEN() string {
	return BoardToFEN(p.board)
}

// Turn returns the side to move.
func (p *Position) Turn() chess.Colour {
	return p.board.ToMove
}

// Board returns a copy of the underlying board.
func (p *Position) Board() *chess.Board {
	return p.board.Copy()
}

// Key returns the Zobrist key of the current position.
func (p *Position) Key() uint64 {
	return hashing.GenerateZobristHash(p.board)
}

// Moves lists the legal moves of the side to move, with SAN text filled
// in. A query square holding no piece of the side to move yields nothing.
func (p *Position) Moves(q MoveQuery) ([]chess.Move, error) {
	var moves []chess.Move
	if q.Square == chess.NoSquare {
		moves = GenerateMoves(p.board, p.board.ToMove)
	} else {
		if !q.Square.Valid() {
			return nil, fmt.Errorf("%s: %w", q.Square, errors.ErrInvalidSquare)
		}
		piece := p.board.At(q.Square)
		if !chess.IsColoured(piece) || chess.ExtractColour(piece) != p.board.ToMove {
			return nil, nil
		}
		moves = MovesFrom(p.board, q.Square)
	}
	for i := range moves {
		moves[i].Text = SAN(p.board, moves[i])
	}
	return moves, nil
}

// Move plays from-to for the side to move. An Empty promotion means Queen
// when the move promotes.
func (p *Position) Move(from, to chess.Square, promotion chess.Piece) (chess.Move, error) {
	if promotion == chess.Empty {
		promotion = chess.Queen
	}
	piece := p.board.At(from)
	if from.Valid() && chess.IsColoured(piece) && chess.ExtractColour(piece) == p.board.ToMove {
		for _, m := range MovesFrom(p.board, from) {
			if m.To != to || (m.IsPromotion() && m.PromotedPiece != promotion) {
				continue
			}
			m.Text = SAN(p.board, m)
			p.play(m)
			return m, nil
		}
	}
	return chess.Move{}, &errors.MoveError{Err: errors.ErrIllegalMove, From: from.String(), To: to.String()}
}

// MoveSAN plays a move given as SAN or coordinate text.
func (p *Position) MoveSAN(text string) (chess.Move, error) {
	m, err := ParseMoveText(p.board, text)
	if err != nil {
		return chess.Move{}, err
	}
	p.play(m)
	return m, nil
}

// play records and applies a legal move.
func (p *Position) play(m chess.Move) {
	m.CheckStatus = checkStatus(p.board, m)
	p.history = append(p.history, HistoryEntry{
		Move:   m,
		Before: p.board.SaveState(),
		Key:    p.Key(),
	})
	ApplyMove(p.board, m)
}

// Undo takes back the last move. It returns false when there is none.
func (p *Position) Undo() (chess.Move, bool) {
	if len(p.history) == 0 {
		return chess.Move{}, false
	}
	last := p.history[len(p.history)-1]
	p.history = p.history[:len(p.history)-1]
	p.board.RestoreState(last.Before)
	return last.Move, true
}

// History returns the moves played, oldest first.
func (p *Position) History() []chess.Move {
	moves := make([]chess.Move, len(p.history))
	for i, e := range p.history {
		moves[i] = e.Move
	}
	return moves
}

// Journal returns a copy of the history stack.
func (p *Position) Journal() Journal {
	return append(Journal(nil), p.history...)
}

// RestoreJournal installs a history stack taken from another position.
func (p *Position) RestoreJournal(j Journal) {
	p.history = append(Journal(nil), j...)
}

// InCheck reports whether the side to move is in check.
func (p *Position) InCheck() bool {
	return IsInCheck(p.board, p.board.ToMove)
}

// IsCheckmate reports whether the side to move is checkmated.
func (p *Position) IsCheckmate() bool {
	return p.InCheck() && !HasLegalMoves(p.board, p.board.ToMove)
}

// IsStalemate reports whether the side to move has no moves but is not in check.
func (p *Position) IsStalemate() bool {
	return !p.InCheck() && !HasLegalMoves(p.board, p.board.ToMove)
}

// IsInsufficientMaterial reports whether neither side can mate.
func (p *Position) IsInsufficientMaterial() bool {
	return HasInsufficientMaterial(p.board)
}

// IsThreefoldRepetition reports whether the current position has occurred
// at least three times in the recorded history.
func (p *Position) IsThreefoldRepetition() bool {
	counter := hashing.NewRepetitionCounter()
	for _, e := range p.history {
		counter.Add(e.Key)
	}
	return counter.Add(p.Key()) >= 3
}

// IsFiftyMoveDraw reports whether 50 moves passed without a pawn move or capture.
func (p *Position) IsFiftyMoveDraw() bool {
	return p.board.HalfmoveClock >= 100
}

// IsDraw reports any drawn state.
func (p *Position) IsDraw() bool {
	return p.IsFiftyMoveDraw() || p.IsInsufficientMaterial() ||
		p.IsStalemate() || p.IsThreefoldRepetition()
}

// IsGameOver reports checkmate or a draw.
func (p *Position) IsGameOver() bool {
	return p.IsCheckmate() || p.IsDraw()
}

// DrawRules replays the history from its first recorded position.
func (p *Position) DrawRules() DrawRuleResult {
	start := p.board.Copy()
	if len(p.history) > 0 {
		start.RestoreState(p.history[0].Before)
	}
	return AnalyzeDrawRules(start, p.History())
}

// Movetext returns the numbered SAN movetext of the history, such as
// "1. e4 e5 2. Nf3". A history that starts with Black opens with "1...".
func (p *Position) Movetext() string {
	var sb strings.Builder
	for i, e := range p.history {
		if i > 0 {
			sb.WriteByte(' ')
		}
		switch {
		case e.Move.Colour == chess.White:
			fmt.Fprintf(&sb, "%d. ", e.Before.MoveNumber)
		case i == 0:
			fmt.Fprintf(&sb, "%d... ", e.Before.MoveNumber)
		}
		sb.WriteString(e.Move.String())
	}
	return sb.String()
}
