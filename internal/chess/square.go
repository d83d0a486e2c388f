package chess

import "slices"

// Square identifies one of the 64 board squares by file and rank.
type Square struct {
	Col  Col
	Rank Rank
}

// NoSquare is the zero Square; it is not on the board.
var NoSquare Square

// NewSquare builds a square from file and rank characters.
func NewSquare(col Col, rank Rank) Square {
	return Square{Col: col, Rank: rank}
}

// ParseSquare parses algebraic coordinates such as "e4".
func ParseSquare(s string) (Square, bool) {
	if len(s) != 2 {
		return NoSquare, false
	}
	sq := Square{Col: Col(s[0] | 0x20), Rank: Rank(s[1])}
	if !sq.Valid() {
		return NoSquare, false
	}
	return sq, true
}

// MustSquare parses coordinates and panics on malformed input.
// It is meant for constant tables.
func MustSquare(s string) Square {
	sq, ok := ParseSquare(s)
	if !ok {
		panic("chess: bad square " + s)
	}
	return sq
}

// Valid reports whether the square lies on the board.
func (s Square) Valid() bool {
	return s.Col >= FirstCol && s.Col <= LastCol && s.Rank >= FirstRank && s.Rank <= LastRank
}

// String returns the algebraic name of the square, or "-" when off board.
func (s Square) String() string {
	if !s.Valid() {
		return "-"
	}
	return string([]byte{byte(s.Col), byte(s.Rank)})
}

// Index returns 0..63 with a1 = 0, b1 = 1, ..., h8 = 63.
func (s Square) Index() int {
	return int(s.Rank-FirstRank)*BoardSize + int(s.Col-FirstCol)
}

// Offset returns the square shifted by dc files and dr ranks. The result may
// be off the board; check Valid before use.
func (s Square) Offset(dc, dr int) Square {
	return Square{Col: Col(int(s.Col) + dc), Rank: Rank(int(s.Rank) + dr)}
}

// IsLight reports whether the square is a light square.
func (s Square) IsLight() bool {
	return (int(s.Col-FirstCol)+int(s.Rank-FirstRank))%2 == 1
}

// SquareAt is the inverse of Square.Index.
func SquareAt(i int) Square {
	return Square{Col: Col(FirstCol + i%BoardSize), Rank: Rank(FirstRank + i/BoardSize)}
}

// AllSquares returns the 64 squares in index order (a1, b1, ..., h8).
func AllSquares() []Square {
	squares := make([]Square, 0, BoardSize*BoardSize)
	for i := 0; i < BoardSize*BoardSize; i++ {
		squares = append(squares, SquareAt(i))
	}
	return squares
}

// SortSquares sorts squares in index order.
func SortSquares(squares []Square) {
	slices.SortFunc(squares, func(a, b Square) int {
		return a.Index() - b.Index()
	})
}

// MarshalText encodes the square as its algebraic name.
func (s Square) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
