package hashing

import (
	"testing"

	"github.com/lgbarn/chess-tutor-go/internal/chess"
)

func initialBoard() *chess.Board {
	b := chess.NewBoard()
	b.SetupInitialPosition()
	return b
}

func TestGenerateZobristHash_Deterministic(t *testing.T) {
	a := GenerateZobristHash(initialBoard())
	b := GenerateZobristHash(initialBoard())
	if a != b {
		t.Errorf("same position hashed differently: %x vs %x", a, b)
	}
	if a == 0 {
		t.Error("initial position hashed to zero")
	}
}

func TestGenerateZobristHash_Sensitivity(t *testing.T) {
	base := GenerateZobristHash(initialBoard())

	tests := []struct {
		name   string
		mutate func(*chess.Board)
	}{
		{"side to move", func(b *chess.Board) { b.ToMove = chess.Black }},
		{"castling", func(b *chess.Board) { b.WKingCastle = 0 }},
		{"en passant", func(b *chess.Board) { b.EnPassant, b.EPCol, b.EPRank = true, 'e', '3' }},
		{"piece moved", func(b *chess.Board) {
			b.SetAt(chess.MustSquare("g1"), chess.Empty)
			b.SetAt(chess.MustSquare("f3"), chess.W(chess.Knight))
		}},
		{"colour swapped", func(b *chess.Board) { b.SetAt(chess.MustSquare("e2"), chess.B(chess.Pawn)) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := initialBoard()
			tt.mutate(b)
			if GenerateZobristHash(b) == base {
				t.Errorf("hash unchanged after %s", tt.name)
			}
		})
	}
}

func TestGenerateZobristHash_IgnoresClocks(t *testing.T) {
	b := initialBoard()
	base := GenerateZobristHash(b)
	b.HalfmoveClock = 12
	b.MoveNumber = 30
	if GenerateZobristHash(b) != base {
		t.Error("move counters should not affect the key")
	}
}

func TestRepetitionCounter(t *testing.T) {
	r := NewRepetitionCounter()
	if r.Add(1) != 1 || r.Add(2) != 1 || r.Add(1) != 2 || r.Add(1) != 3 {
		t.Fatal("Add() returned unexpected counts")
	}
	if r.Count(1) != 3 || r.Count(3) != 0 {
		t.Errorf("Count() = %d, %d; want 3, 0", r.Count(1), r.Count(3))
	}
	if r.MaxCount() != 3 || r.UniqueCount() != 2 {
		t.Errorf("MaxCount() = %d, UniqueCount() = %d", r.MaxCount(), r.UniqueCount())
	}
	r.Reset()
	if r.MaxCount() != 0 || r.UniqueCount() != 0 {
		t.Error("Reset() did not clear the counter")
	}
}
