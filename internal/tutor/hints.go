package tutor

import (
	"context"
	"runtime"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/lgbarn/chess-tutor-go/internal/chess"
	"github.com/lgbarn/chess-tutor-go/internal/engine"
)

// PseudoLegalMoves returns where the piece on sq could move by its own
// movement rules, whatever the side to move and whatever checks stand
// elsewhere. Destinations are sorted from a1 to h8 and listed once. An
// empty square yields nothing. p is not modified.
func PseudoLegalMoves(p *engine.Position, sq chess.Square, log zerolog.Logger) []chess.Square {
	piece, ok := p.Get(sq)
	if !ok {
		return nil
	}

	clone, _ := SafeClone(p, log)
	SafeChangeTurn(clone, chess.ExtractColour(piece), log)

	// Every other king becomes a pawn so no check constraint applies.
	board := clone.Board()
	for _, other := range board.Occupied() {
		occupant := board.At(other)
		if other == sq || chess.ExtractPiece(occupant) != chess.King {
			continue
		}
		clone.Remove(other)
		clone.Put(chess.MakeColouredPiece(chess.ExtractColour(occupant), chess.Pawn), other)
	}

	moves, err := clone.Moves(engine.MoveQuery{Square: sq})
	if err != nil {
		log.Debug().Err(err).Stringer("square", sq).Msg("move generation failed")
		return nil
	}
	return destinations(moves)
}

// destinations returns the distinct target squares of moves in index order.
func destinations(moves []chess.Move) []chess.Square {
	seen := make(map[chess.Square]bool, len(moves))
	var squares []chess.Square
	for _, m := range moves {
		if !seen[m.To] {
			seen[m.To] = true
			squares = append(squares, m.To)
		}
	}
	chess.SortSquares(squares)
	return squares
}

// HintMap resolves the pseudo-legal destinations of every occupied square
// concurrently. p is only read. Squares whose piece has nowhere to go map
// to an empty slice.
func HintMap(ctx context.Context, p *engine.Position, log zerolog.Logger) (map[chess.Square][]chess.Square, error) {
	squares := p.Board().Occupied()
	hints := make(map[chess.Square][]chess.Square, len(squares))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for _, sq := range squares {
		sq := sq
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			targets := PseudoLegalMoves(p, sq, log)
			if targets == nil {
				targets = []chess.Square{}
			}
			mu.Lock()
			hints[sq] = targets
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return hints, nil
}
