package engine

import "github.com/lgbarn/chess-tutor-go/internal/chess"

var (
	knightOffsets  = [][2]int{{-2, -1}, {-2, 1}, {-1, -2}, {-1, 2}, {1, -2}, {1, 2}, {2, -1}, {2, 1}}
	kingOffsets    = [][2]int{{-1, -1}, {-1, 0}, {-1, 1}, {0, -1}, {0, 1}, {1, -1}, {1, 0}, {1, 1}}
	diagonalDirs   = [][2]int{{-1, -1}, {-1, 1}, {1, -1}, {1, 1}}
	straightDirs   = [][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}
	allSlidingDirs = append(append([][2]int{}, diagonalDirs...), straightDirs...)
)

// IsInCheck returns true if the given colour's king is in check.
// A side without a king is never in check.
func IsInCheck(board *chess.Board, colour chess.Colour) bool {
	kingSq, ok := board.FindKing(colour)
	if !ok {
		return false
	}
	return isSquareAttacked(board, kingSq, colour.Opposite())
}

// isSquareAttacked returns true if the square is attacked by the given colour.
func isSquareAttacked(board *chess.Board, sq chess.Square, byColour chess.Colour) bool {
	// Pawns attack from one rank behind their direction of travel
	pawn := chess.MakeColouredPiece(byColour, chess.Pawn)
	pawnDir := -chess.ColourOffset(byColour)
	for _, dc := range []int{-1, 1} {
		from := sq.Offset(dc, pawnDir)
		if from.Valid() && board.At(from) == pawn {
			return true
		}
	}

	knight := chess.MakeColouredPiece(byColour, chess.Knight)
	for _, off := range knightOffsets {
		from := sq.Offset(off[0], off[1])
		if from.Valid() && board.At(from) == knight {
			return true
		}
	}

	king := chess.MakeColouredPiece(byColour, chess.King)
	for _, off := range kingOffsets {
		from := sq.Offset(off[0], off[1])
		if from.Valid() && board.At(from) == king {
			return true
		}
	}

	queen := chess.MakeColouredPiece(byColour, chess.Queen)
	if slidingAttack(board, sq, diagonalDirs, chess.MakeColouredPiece(byColour, chess.Bishop), queen) {
		return true
	}
	return slidingAttack(board, sq, straightDirs, chess.MakeColouredPiece(byColour, chess.Rook), queen)
}

// slidingAttack walks each direction from sq and reports whether the first
// piece met is one of the two attackers.
func slidingAttack(board *chess.Board, sq chess.Square, dirs [][2]int, attacker, queen chess.Piece) bool {
	for _, dir := range dirs {
		cur := sq.Offset(dir[0], dir[1])
		for cur.Valid() {
			piece := board.At(cur)
			if piece != chess.Empty {
				if piece == attacker || piece == queen {
					return true
				}
				break // Blocked
			}
			cur = cur.Offset(dir[0], dir[1])
		}
	}
	return false
}
