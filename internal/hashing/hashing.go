// Package hashing provides Zobrist position keys and repetition counting.
package hashing

import (
	"github.com/lgbarn/chess-tutor-go/internal/chess"
)

// zobristSeed fixes the key table so hashes are stable across runs.
const zobristSeed = 0x9E3779B97F4A7C15

var (
	pieceKeys    [12][64]uint64
	sideKey      uint64
	castlingKeys [4]uint64
	epKeys       [8]uint64
)

func init() {
	state := uint64(zobristSeed)
	next := func() uint64 {
		// splitmix64
		state += 0x9E3779B97F4A7C15
		z := state
		z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
		z = (z ^ (z >> 27)) * 0x94D049BB133111EB
		return z ^ (z >> 31)
	}
	for p := range pieceKeys {
		for sq := range pieceKeys[p] {
			pieceKeys[p][sq] = next()
		}
	}
	sideKey = next()
	for i := range castlingKeys {
		castlingKeys[i] = next()
	}
	for i := range epKeys {
		epKeys[i] = next()
	}
}

// pieceIndex maps a coloured piece to 0..11.
func pieceIndex(colouredPiece chess.Piece) int {
	return int(chess.ExtractPiece(colouredPiece)-chess.Pawn)*2 + int(chess.ExtractColour(colouredPiece))
}

// GenerateZobristHash computes the Zobrist key of a board: piece placement,
// side to move, castling rights and the en passant file.
func GenerateZobristHash(board *chess.Board) uint64 {
	var hash uint64
	for _, sq := range board.Occupied() {
		hash ^= pieceKeys[pieceIndex(board.At(sq))][sq.Index()]
	}
	if board.ToMove == chess.Black {
		hash ^= sideKey
	}
	for i, col := range []chess.Col{board.WKingCastle, board.WQueenCastle, board.BKingCastle, board.BQueenCastle} {
		if col != 0 {
			hash ^= castlingKeys[i]
		}
	}
	if board.EnPassant && board.EPCol >= chess.FirstCol && board.EPCol <= chess.LastCol {
		hash ^= epKeys[board.EPCol-chess.FirstCol]
	}
	return hash
}

// RepetitionCounter tracks how often each position key has been seen.
type RepetitionCounter struct {
	counts map[uint64]int
	max    int
}

// NewRepetitionCounter creates an empty counter.
func NewRepetitionCounter() *RepetitionCounter {
	return &RepetitionCounter{counts: make(map[uint64]int)}
}

// Add records one occurrence of hash and returns its new count.
func (r *RepetitionCounter) Add(hash uint64) int {
	r.counts[hash]++
	n := r.counts[hash]
	if n > r.max {
		r.max = n
	}
	return n
}

// Count returns how many times hash has been recorded.
func (r *RepetitionCounter) Count(hash uint64) int {
	return r.counts[hash]
}

// MaxCount returns the highest count of any recorded key.
func (r *RepetitionCounter) MaxCount() int {
	return r.max
}

// UniqueCount returns the number of distinct keys recorded.
func (r *RepetitionCounter) UniqueCount() int {
	return len(r.counts)
}

// Reset clears the counter.
func (r *RepetitionCounter) Reset() {
	r.counts = make(map[uint64]int)
	r.max = 0
}
