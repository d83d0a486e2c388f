package testutil

import (
	"testing"

	"github.com/lgbarn/chess-tutor-go/internal/chess"
	"github.com/lgbarn/chess-tutor-go/internal/engine"
)

// MustLoad loads a FEN string into a new position.
// It calls t.Fatal if the FEN is rejected.
func MustLoad(t *testing.T, fen string) *engine.Position {
	t.Helper()
	p, err := engine.NewPositionFromFEN(fen)
	if err != nil {
		t.Fatalf("failed to load FEN %q: %v", fen, err)
	}
	return p
}

// MustPlay plays each move text on p in order.
// It calls t.Fatal on the first rejected move.
func MustPlay(t *testing.T, p *engine.Position, moves ...string) {
	t.Helper()
	for _, text := range moves {
		if _, err := p.MoveSAN(text); err != nil {
			t.Fatalf("failed to play %q in %s: %v", text, p.FEN(), err)
		}
	}
}

// Squares parses square names such as "e4". It panics on a bad name, so
// use it with literals only.
func Squares(names ...string) []chess.Square {
	squares := make([]chess.Square, 0, len(names))
	for _, name := range names {
		squares = append(squares, chess.MustSquare(name))
	}
	return squares
}

// Piece builds a coloured piece from its FEN letter: uppercase for White.
func Piece(letter byte) chess.Piece {
	colour := chess.White
	if letter >= 'a' && letter <= 'z' {
		colour = chess.Black
	}
	return chess.MakeColouredPiece(colour, chess.PieceFromLetter(letter))
}
