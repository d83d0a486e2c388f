package chess

// Move represents a single generated chess move.
type Move struct {
	// The move in Standard Algebraic Notation (e.g., "Nf3", "e4", "O-O").
	Text string

	// Class of move (pawn move, piece move, castle, etc.).
	Class MoveClass

	// Source and destination squares.
	From Square
	To   Square

	// The colour making the move.
	Colour Colour

	// The piece type being moved.
	PieceToMove Piece

	// The piece type captured (Empty if no capture).
	CapturedPiece Piece

	// The piece type promoted to (Empty if not a promotion).
	PromotedPiece Piece

	// Whether this move gives check or checkmate.
	CheckStatus CheckStatus
}

// IsCapture returns true if this move is a capture.
func (m Move) IsCapture() bool {
	return m.CapturedPiece != Empty || m.Class == EnPassantPawnMove
}

// IsPromotion returns true if this move is a pawn promotion.
func (m Move) IsPromotion() bool {
	return m.Class == PawnMoveWithPromotion
}

// IsCastle returns true if this move is a castling move.
func (m Move) IsCastle() bool {
	switch m.Class {
	case KingsideCastle, QueensideCastle:
		return true
	default:
		return false
	}
}

// UCI returns the coordinate form of the move, e.g. "e2e4" or "e7e8q".
func (m Move) UCI() string {
	s := m.From.String() + m.To.String()
	if m.IsPromotion() {
		s += string(rune(m.PromotedPiece.Letter() + 'a' - 'A'))
	}
	return s
}

// String returns the SAN text when known and the UCI form otherwise.
func (m Move) String() string {
	if m.Text != "" {
		return m.Text
	}
	return m.UCI()
}
