package chess

// Board represents a chess board with all state needed for the game.
type Board struct {
	// The board squares with a hedge of 2 around for knight move calculation.
	// board[col][rank] where col and rank are 0-11 (with hedge).
	Squares [Hedge + BoardSize + Hedge][Hedge + BoardSize + Hedge]Piece

	// Who has the next move.
	ToMove Colour

	// The current move number.
	MoveNumber uint

	// Rook starting columns for the 4 castling options, 0 when the right
	// has been lost.
	WKingCastle  Col
	WQueenCastle Col
	BKingCastle  Col
	BQueenCastle Col

	// Is EnPassant capture possible? If so then EPRank and EPCol have
	// the square on which this can be made.
	EnPassant bool
	EPRank    Rank
	EPCol     Col

	// The half-move clock since the last pawn move or capture.
	HalfmoveClock uint
}

// NewBoard creates a new empty board.
func NewBoard() *Board {
	b := &Board{
		ToMove:     White,
		MoveNumber: 1,
	}
	// Initialize all squares to Off (hedge) or Empty
	for col := 0; col < Hedge+BoardSize+Hedge; col++ {
		for rank := 0; rank < Hedge+BoardSize+Hedge; rank++ {
			if col >= Hedge && col < Hedge+BoardSize &&
				rank >= Hedge && rank < Hedge+BoardSize {
				b.Squares[col][rank] = Empty
			} else {
				b.Squares[col][rank] = Off
			}
		}
	}
	return b
}

// SetupInitialPosition sets up the standard chess starting position.
func (b *Board) SetupInitialPosition() {
	b.Clear()

	backRank := []Piece{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}
	for col := 0; col < BoardSize; col++ {
		b.Squares[col+Hedge][Hedge] = W(backRank[col])
		b.Squares[col+Hedge][Hedge+1] = W(Pawn)
		b.Squares[col+Hedge][Hedge+6] = B(Pawn)
		b.Squares[col+Hedge][Hedge+7] = B(backRank[col])
	}

	b.WKingCastle = 'h'  // h1 rook
	b.WQueenCastle = 'a' // a1 rook
	b.BKingCastle = 'h'  // h8 rook
	b.BQueenCastle = 'a' // a8 rook
}

// Clear empties every square and resets the metadata to a fresh game with
// White to move and no castling rights.
func (b *Board) Clear() {
	for col := Hedge; col < Hedge+BoardSize; col++ {
		for rank := Hedge; rank < Hedge+BoardSize; rank++ {
			b.Squares[col][rank] = Empty
		}
	}
	b.ToMove = White
	b.MoveNumber = 1
	b.WKingCastle, b.WQueenCastle = 0, 0
	b.BKingCastle, b.BQueenCastle = 0, 0
	b.EnPassant = false
	b.EPCol, b.EPRank = 0, 0
	b.HalfmoveClock = 0
}

// Get returns the piece at the given coordinates (using char coords 'a'-'h', '1'-'8').
func (b *Board) Get(col Col, rank Rank) Piece {
	c := ColConvert(col)
	r := RankConvert(rank)
	if c == 0 || r == 0 {
		return Off
	}
	return b.Squares[c][r]
}

// Set places a piece at the given coordinates.
func (b *Board) Set(col Col, rank Rank, piece Piece) {
	c := ColConvert(col)
	r := RankConvert(rank)
	if c != 0 && r != 0 {
		b.Squares[c][r] = piece
	}
}

// At returns the piece on sq.
func (b *Board) At(sq Square) Piece {
	return b.Get(sq.Col, sq.Rank)
}

// SetAt places a piece on sq.
func (b *Board) SetAt(sq Square, piece Piece) {
	b.Set(sq.Col, sq.Rank, piece)
}

// Occupied returns every square holding a piece, in index order.
func (b *Board) Occupied() []Square {
	var squares []Square
	for rank := Rank(FirstRank); rank <= LastRank; rank++ {
		for col := Col(FirstCol); col <= LastCol; col++ {
			if IsColoured(b.Get(col, rank)) {
				squares = append(squares, Square{Col: col, Rank: rank})
			}
		}
	}
	return squares
}

// Count returns how many times the coloured piece appears on the board.
func (b *Board) Count(colouredPiece Piece) int {
	n := 0
	for _, sq := range b.Occupied() {
		if b.At(sq) == colouredPiece {
			n++
		}
	}
	return n
}

// FindKing returns the square of the colour's king. The second result is
// false when that king is not on the board.
func (b *Board) FindKing(colour Colour) (Square, bool) {
	king := MakeColouredPiece(colour, King)
	for _, sq := range b.Occupied() {
		if b.At(sq) == king {
			return sq, true
		}
	}
	return NoSquare, false
}

// Copy creates a deep copy of the board.
func (b *Board) Copy() *Board {
	newBoard := &Board{}
	*newBoard = *b
	return newBoard
}

// BoardState captures all mutable board state for save/restore operations.
// This is more efficient than Copy() when you need to temporarily modify
// the board and then restore it (e.g., undoing a move).
type BoardState struct {
	Squares       [Hedge + BoardSize + Hedge][Hedge + BoardSize + Hedge]Piece
	ToMove        Colour
	MoveNumber    uint
	WKingCastle   Col
	WQueenCastle  Col
	BKingCastle   Col
	BQueenCastle  Col
	EnPassant     bool
	EPRank        Rank
	EPCol         Col
	HalfmoveClock uint
}

// SaveState captures the current board state for later restoration.
func (b *Board) SaveState() BoardState {
	return BoardState{
		Squares:       b.Squares,
		ToMove:        b.ToMove,
		MoveNumber:    b.MoveNumber,
		WKingCastle:   b.WKingCastle,
		WQueenCastle:  b.WQueenCastle,
		BKingCastle:   b.BKingCastle,
		BQueenCastle:  b.BQueenCastle,
		EnPassant:     b.EnPassant,
		EPRank:        b.EPRank,
		EPCol:         b.EPCol,
		HalfmoveClock: b.HalfmoveClock,
	}
}

// RestoreState restores the board to a previously saved state.
func (b *Board) RestoreState(s BoardState) {
	b.Squares = s.Squares
	b.ToMove = s.ToMove
	b.MoveNumber = s.MoveNumber
	b.WKingCastle = s.WKingCastle
	b.WQueenCastle = s.WQueenCastle
	b.BKingCastle = s.BKingCastle
	b.BQueenCastle = s.BQueenCastle
	b.EnPassant = s.EnPassant
	b.EPRank = s.EPRank
	b.EPCol = s.EPCol
	b.HalfmoveClock = s.HalfmoveClock
}
