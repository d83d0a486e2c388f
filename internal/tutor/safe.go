package tutor

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/lgbarn/chess-tutor-go/internal/chess"
	"github.com/lgbarn/chess-tutor-go/internal/engine"
)

// CloneMethod reports which path SafeClone took.
type CloneMethod int

const (
	CloneFEN     CloneMethod = iota // FEN round trip
	CloneSquares                    // square-by-square copy plus turn fix
)

func (m CloneMethod) String() string {
	if m == CloneSquares {
		return "squares"
	}
	return "fen"
}

// TurnChange reports how SafeChangeTurn reached the target colour.
type TurnChange int

const (
	TurnUnchanged TurnChange = iota // already the target colour
	TurnRewritten                   // side-to-move field rewritten and reloaded
	TurnForced                      // synthetic transit move played
	TurnFailed                      // neither path changed the side to move
)

func (c TurnChange) String() string {
	switch c {
	case TurnRewritten:
		return "rewritten"
	case TurnForced:
		return "forced"
	case TurnFailed:
		return "failed"
	}
	return "unchanged"
}

// Transit squares of the synthetic pawn push used to force the turn.
var (
	whiteTransit = [2]chess.Square{chess.MustSquare("a2"), chess.MustSquare("a3")}
	blackTransit = [2]chess.Square{chess.MustSquare("a7"), chess.MustSquare("a6")}
)

// SafeClone copies p, even when p holds a position the engine would refuse
// to load. The copy has the same pieces, side to move and move history. On
// the squares path castling and en passant rights are not carried over.
func SafeClone(p *engine.Position, log zerolog.Logger) (*engine.Position, CloneMethod) {
	journal := p.Journal()

	clone, err := engine.NewPositionFromFEN(p.FEN())
	if err == nil {
		clone.RestoreJournal(journal)
		return clone, CloneFEN
	}
	log.Debug().Err(err).Msg("fen clone rejected, copying squares")

	clone = engine.NewEmptyPosition()
	board := p.Board()
	for _, sq := range board.Occupied() {
		clone.Put(board.At(sq), sq)
	}
	SafeChangeTurn(clone, p.Turn(), log)
	clone.RestoreJournal(journal)
	return clone, CloneSquares
}

// SafeChangeTurn makes target the side to move without touching the pieces.
// It first rewrites the FEN side-to-move and en passant fields; when the
// engine refuses the result it plays a pawn push on the a-file with every
// king lifted off the board, then puts everything back. The move history is
// the same afterwards on either path. TurnFailed means the pieces were put
// back but target is still not to move.
func SafeChangeTurn(p *engine.Position, target chess.Colour, log zerolog.Logger) TurnChange {
	if p.Turn() == target {
		return TurnUnchanged
	}
	journal := p.Journal()

	fields := strings.Fields(p.FEN())
	fields[1] = string(target.Letter())
	fields[3] = "-"
	err := p.Load(strings.Join(fields, " "))
	if err == nil {
		p.RestoreJournal(journal)
		return TurnRewritten
	}
	log.Debug().Err(err).Stringer("target", target).Msg("turn rewrite rejected, playing a transit move")

	err = forceTurn(p)
	p.RestoreJournal(journal)
	if err != nil {
		log.Warn().Err(err).Stringer("target", target).Msg("turn change failed")
		return TurnFailed
	}
	return TurnForced
}

type placement struct {
	sq    chess.Square
	piece chess.Piece
}

// forceTurn flips the side to move by playing a synthetic pawn push for the
// side to move and then restoring every square it touched. The squares are
// restored even when the push is rejected.
func forceTurn(p *engine.Position) error {
	mover := p.Turn()
	board := p.Board()

	var kings []placement
	for _, sq := range board.Occupied() {
		if piece := board.At(sq); chess.ExtractPiece(piece) == chess.King {
			kings = append(kings, placement{sq, piece})
			p.Remove(sq)
		}
	}

	transit := whiteTransit
	if mover == chess.Black {
		transit = blackTransit
	}
	start, end := transit[0], transit[1]
	origStart, hadStart := p.Get(start)
	origEnd, hadEnd := p.Get(end)

	p.Put(chess.MakeColouredPiece(mover, chess.Pawn), start)
	p.Remove(end)
	_, err := p.Move(start, end, chess.Empty)
	if err == nil {
		p.Remove(end)
	} else {
		err = fmt.Errorf("transit move %s%s for %s: %w", start, end, mover, err)
	}

	if hadStart {
		p.Put(origStart, start)
	} else {
		p.Remove(start)
	}
	if hadEnd {
		p.Put(origEnd, end)
	}
	for _, k := range kings {
		p.Put(k.piece, k.sq)
	}
	return err
}
