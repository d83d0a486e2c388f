package engine

import (
	"github.com/lgbarn/chess-tutor-go/internal/chess"
)

// ApplyMove applies a generated move to the board and updates the board
// state. The mover's colour comes from the move, not from board.ToMove, so
// moves can be tried for either side. Returns false if the source square
// does not hold the moving piece.
func ApplyMove(board *chess.Board, move chess.Move) bool {
	if board.At(move.From) != chess.MakeColouredPiece(move.Colour, move.PieceToMove) {
		return false
	}

	switch move.Class {
	case chess.KingsideCastle:
		applyCastle(board, move.Colour, true)

	case chess.QueensideCastle:
		applyCastle(board, move.Colour, false)

	case chess.PawnMove, chess.PawnMoveWithPromotion, chess.EnPassantPawnMove:
		applyPawnMove(board, move)

	default:
		applyPieceMove(board, move)
	}

	if move.Colour == chess.Black {
		board.MoveNumber++
	}
	board.ToMove = move.Colour.Opposite()
	return true
}

// applyCastle applies a castling move.
func applyCastle(board *chess.Board, colour chess.Colour, kingside bool) {
	rank := chess.HomeRank(colour)
	var kingToCol, rookFromCol, rookToCol chess.Col

	if kingside {
		kingToCol = 'g'
		rookToCol = 'f'
		rookFromCol = board.WKingCastle
		if colour == chess.Black {
			rookFromCol = board.BKingCastle
		}
	} else {
		kingToCol = 'c'
		rookToCol = 'd'
		rookFromCol = board.WQueenCastle
		if colour == chess.Black {
			rookFromCol = board.BQueenCastle
		}
	}

	// Move king
	king := board.Get('e', rank)
	board.Set('e', rank, chess.Empty)
	board.Set(kingToCol, rank, king)

	// Move rook
	rook := board.Get(rookFromCol, rank)
	board.Set(rookFromCol, rank, chess.Empty)
	board.Set(rookToCol, rank, rook)

	clearCastling(board, colour)
	board.EnPassant = false
	board.HalfmoveClock++
}

// applyPawnMove applies a pawn move.
func applyPawnMove(board *chess.Board, move chess.Move) {
	colour := move.Colour
	pawn := board.At(move.From)
	captured := board.At(move.To)

	// Handle en passant capture
	if move.Class == chess.EnPassantPawnMove {
		board.SetAt(move.To.Offset(0, -chess.ColourOffset(colour)), chess.Empty)
	}

	board.SetAt(move.From, chess.Empty)

	if move.Class == chess.PawnMoveWithPromotion {
		promotedPiece := move.PromotedPiece
		if promotedPiece == chess.Empty {
			promotedPiece = chess.Queen // Default to queen
		}
		board.SetAt(move.To, chess.MakeColouredPiece(colour, promotedPiece))
	} else {
		board.SetAt(move.To, pawn)
	}

	if chess.IsColoured(captured) && chess.ExtractPiece(captured) == chess.Rook {
		updateCastlingRightsForRook(board, chess.ExtractColour(captured), move.To)
	}

	// Set en passant square if double pawn push
	board.EnPassant = false
	if colour == chess.White && move.From.Rank == '2' && move.To.Rank == '4' {
		board.EnPassant = true
		board.EPCol = move.To.Col
		board.EPRank = '3'
	} else if colour == chess.Black && move.From.Rank == '7' && move.To.Rank == '5' {
		board.EnPassant = true
		board.EPCol = move.To.Col
		board.EPRank = '6'
	}

	board.HalfmoveClock = 0 // Pawn move resets clock
}

// applyPieceMove applies a piece (non-pawn) move.
func applyPieceMove(board *chess.Board, move chess.Move) {
	colour := move.Colour
	piece := board.At(move.From)
	capturedPiece := board.At(move.To)

	board.SetAt(move.From, chess.Empty)
	board.SetAt(move.To, piece)

	if move.PieceToMove == chess.King {
		clearCastling(board, colour)
	}

	// Update castling rights if rook moved or captured
	if move.PieceToMove == chess.Rook {
		updateCastlingRightsForRook(board, colour, move.From)
	}
	if capturedPiece != chess.Empty && chess.ExtractPiece(capturedPiece) == chess.Rook {
		updateCastlingRightsForRook(board, chess.ExtractColour(capturedPiece), move.To)
	}

	board.EnPassant = false

	if capturedPiece != chess.Empty {
		board.HalfmoveClock = 0
	} else {
		board.HalfmoveClock++
	}
}

// clearCastling removes both castling rights of colour.
func clearCastling(board *chess.Board, colour chess.Colour) {
	if colour == chess.White {
		board.WKingCastle = 0
		board.WQueenCastle = 0
	} else {
		board.BKingCastle = 0
		board.BQueenCastle = 0
	}
}

// updateCastlingRightsForRook removes castling rights when a rook moves or is captured.
func updateCastlingRightsForRook(board *chess.Board, colour chess.Colour, sq chess.Square) {
	if colour == chess.White && sq.Rank == '1' {
		if sq.Col == board.WKingCastle {
			board.WKingCastle = 0
		}
		if sq.Col == board.WQueenCastle {
			board.WQueenCastle = 0
		}
	} else if colour == chess.Black && sq.Rank == '8' {
		if sq.Col == board.BKingCastle {
			board.BKingCastle = 0
		}
		if sq.Col == board.BQueenCastle {
			board.BQueenCastle = 0
		}
	}
}

// normaliseRights drops castling rights whose king or rook has left its home
// square and an en passant target with no double-pushed pawn in front of it.
// Direct board edits (put/remove) call this to keep the metadata consistent.
func normaliseRights(board *chess.Board) {
	for _, colour := range []chess.Colour{chess.White, chess.Black} {
		rank := chess.HomeRank(colour)
		if board.Get('e', rank) != chess.MakeColouredPiece(colour, chess.King) {
			clearCastling(board, colour)
			continue
		}
		rook := chess.MakeColouredPiece(colour, chess.Rook)
		if colour == chess.White {
			if board.WKingCastle != 0 && board.Get(board.WKingCastle, rank) != rook {
				board.WKingCastle = 0
			}
			if board.WQueenCastle != 0 && board.Get(board.WQueenCastle, rank) != rook {
				board.WQueenCastle = 0
			}
		} else {
			if board.BKingCastle != 0 && board.Get(board.BKingCastle, rank) != rook {
				board.BKingCastle = 0
			}
			if board.BQueenCastle != 0 && board.Get(board.BQueenCastle, rank) != rook {
				board.BQueenCastle = 0
			}
		}
	}

	if board.EnPassant {
		// The pawn that just double-pushed belongs to the side not to move.
		pusher := board.ToMove.Opposite()
		pawnSq := chess.NewSquare(board.EPCol, board.EPRank).Offset(0, chess.ColourOffset(pusher))
		if !pawnSq.Valid() || board.At(pawnSq) != chess.MakeColouredPiece(pusher, chess.Pawn) {
			board.EnPassant = false
		}
	}
}
