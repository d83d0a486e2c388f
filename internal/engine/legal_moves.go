package engine

import "github.com/lgbarn/chess-tutor-go/internal/chess"

// promotionPieces lists promotion choices in generation order.
var promotionPieces = []chess.Piece{chess.Queen, chess.Rook, chess.Bishop, chess.Knight}

// GenerateMoves returns every legal move for colour, whatever side is
// recorded as to move on the board. SAN text is not filled in.
func GenerateMoves(board *chess.Board, colour chess.Colour) []chess.Move {
	var moves []chess.Move
	for _, sq := range board.Occupied() {
		if chess.ExtractColour(board.At(sq)) != colour {
			continue
		}
		moves = append(moves, MovesFrom(board, sq)...)
	}
	return moves
}

// HasLegalMoves returns true if the given colour has at least one legal move.
func HasLegalMoves(board *chess.Board, colour chess.Colour) bool {
	for _, sq := range board.Occupied() {
		if chess.ExtractColour(board.At(sq)) != colour {
			continue
		}
		if len(MovesFrom(board, sq)) > 0 {
			return true
		}
	}
	return false
}

// MovesFrom returns the legal moves of the piece on from, for the piece's
// own colour. Moves that leave that colour's king attacked are dropped; a
// colour with no king on the board has no such constraint.
func MovesFrom(board *chess.Board, from chess.Square) []chess.Move {
	piece := board.At(from)
	if !chess.IsColoured(piece) {
		return nil
	}
	colour := chess.ExtractColour(piece)

	var candidates []chess.Move
	switch pieceType := chess.ExtractPiece(piece); pieceType {
	case chess.Pawn:
		candidates = pawnMoves(board, from, colour)
	case chess.Knight:
		candidates = stepMoves(board, from, colour, pieceType, knightOffsets)
	case chess.King:
		candidates = stepMoves(board, from, colour, pieceType, kingOffsets)
		candidates = append(candidates, castlingMoves(board, from, colour)...)
	case chess.Bishop:
		candidates = slidingMoves(board, from, colour, pieceType, diagonalDirs)
	case chess.Rook:
		candidates = slidingMoves(board, from, colour, pieceType, straightDirs)
	case chess.Queen:
		candidates = slidingMoves(board, from, colour, pieceType, allSlidingDirs)
	}

	legal := candidates[:0]
	for _, m := range candidates {
		if tryMove(board, m) {
			legal = append(legal, m)
		}
	}
	return legal
}

// newMove fills the fields shared by every generated move.
func newMove(board *chess.Board, class chess.MoveClass, colour chess.Colour, pieceType chess.Piece, from, to chess.Square) chess.Move {
	captured := chess.Empty
	if target := board.At(to); chess.IsColoured(target) {
		captured = chess.ExtractPiece(target)
	}
	return chess.Move{
		Class:         class,
		From:          from,
		To:            to,
		Colour:        colour,
		PieceToMove:   pieceType,
		CapturedPiece: captured,
		PromotedPiece: chess.Empty,
	}
}

// pawnMoves generates pushes, double pushes, captures, en passant and
// promotions for a pawn.
func pawnMoves(board *chess.Board, from chess.Square, colour chess.Colour) []chess.Move {
	var moves []chess.Move
	dir := chess.ColourOffset(colour)
	lastRank := chess.HomeRank(colour.Opposite())

	add := func(to chess.Square, class chess.MoveClass) {
		if to.Rank == lastRank {
			for _, promo := range promotionPieces {
				m := newMove(board, chess.PawnMoveWithPromotion, colour, chess.Pawn, from, to)
				m.PromotedPiece = promo
				moves = append(moves, m)
			}
			return
		}
		moves = append(moves, newMove(board, class, colour, chess.Pawn, from, to))
	}

	// Forward move
	one := from.Offset(0, dir)
	if one.Valid() && board.At(one) == chess.Empty {
		add(one, chess.PawnMove)
		// Double push from starting rank
		startRank := chess.Rank('2')
		if colour == chess.Black {
			startRank = '7'
		}
		two := from.Offset(0, 2*dir)
		if from.Rank == startRank && board.At(two) == chess.Empty {
			add(two, chess.PawnMove)
		}
	}

	// Captures
	for _, dc := range []int{-1, 1} {
		to := from.Offset(dc, dir)
		if !to.Valid() {
			continue
		}
		target := board.At(to)
		if chess.IsColoured(target) && chess.ExtractColour(target) != colour {
			add(to, chess.PawnMove)
			continue
		}
		if board.EnPassant && board.ToMove == colour &&
			to.Col == board.EPCol && to.Rank == board.EPRank && target == chess.Empty {
			victim := to.Offset(0, -dir)
			if board.At(victim) == chess.MakeColouredPiece(colour.Opposite(), chess.Pawn) {
				m := newMove(board, chess.EnPassantPawnMove, colour, chess.Pawn, from, to)
				m.CapturedPiece = chess.Pawn
				moves = append(moves, m)
			}
		}
	}
	return moves
}

// stepMoves generates single-step moves for knights and kings.
func stepMoves(board *chess.Board, from chess.Square, colour chess.Colour, pieceType chess.Piece, offsets [][2]int) []chess.Move {
	var moves []chess.Move
	for _, off := range offsets {
		to := from.Offset(off[0], off[1])
		if !to.Valid() {
			continue
		}
		target := board.At(to)
		if target == chess.Empty || chess.ExtractColour(target) != colour {
			moves = append(moves, newMove(board, chess.PieceMove, colour, pieceType, from, to))
		}
	}
	return moves
}

// slidingMoves generates moves for bishops, rooks and queens.
func slidingMoves(board *chess.Board, from chess.Square, colour chess.Colour, pieceType chess.Piece, dirs [][2]int) []chess.Move {
	var moves []chess.Move
	for _, dir := range dirs {
		to := from.Offset(dir[0], dir[1])
		for to.Valid() {
			target := board.At(to)
			if target != chess.Empty {
				if chess.ExtractColour(target) != colour {
					moves = append(moves, newMove(board, chess.PieceMove, colour, pieceType, from, to))
				}
				break // Blocked
			}
			moves = append(moves, newMove(board, chess.PieceMove, colour, pieceType, from, to))
			to = to.Offset(dir[0], dir[1])
		}
	}
	return moves
}

// castlingMoves generates castling for a king on its home square. The king
// may not be in check nor pass through an attacked square.
func castlingMoves(board *chess.Board, from chess.Square, colour chess.Colour) []chess.Move {
	rank := chess.HomeRank(colour)
	if from != chess.NewSquare('e', rank) {
		return nil
	}
	kingSide, queenSide := board.WKingCastle, board.WQueenCastle
	if colour == chess.Black {
		kingSide, queenSide = board.BKingCastle, board.BQueenCastle
	}
	if kingSide == 0 && queenSide == 0 {
		return nil
	}
	enemy := colour.Opposite()
	if isSquareAttacked(board, from, enemy) {
		return nil
	}
	rook := chess.MakeColouredPiece(colour, chess.Rook)

	var moves []chess.Move
	if kingSide != 0 && board.Get(kingSide, rank) == rook &&
		board.Get('f', rank) == chess.Empty && board.Get('g', rank) == chess.Empty &&
		!isSquareAttacked(board, chess.NewSquare('f', rank), enemy) &&
		!isSquareAttacked(board, chess.NewSquare('g', rank), enemy) {
		moves = append(moves, newMove(board, chess.KingsideCastle, colour, chess.King, from, chess.NewSquare('g', rank)))
	}
	if queenSide != 0 && board.Get(queenSide, rank) == rook &&
		board.Get('b', rank) == chess.Empty && board.Get('c', rank) == chess.Empty && board.Get('d', rank) == chess.Empty &&
		!isSquareAttacked(board, chess.NewSquare('d', rank), enemy) &&
		!isSquareAttacked(board, chess.NewSquare('c', rank), enemy) {
		moves = append(moves, newMove(board, chess.QueensideCastle, colour, chess.King, from, chess.NewSquare('c', rank)))
	}
	return moves
}

// tryMove makes a move on a copied board and checks if it leaves the king in check.
func tryMove(board *chess.Board, move chess.Move) bool {
	testBoard := board.Copy()
	if !ApplyMove(testBoard, move) {
		return false
	}
	return !IsInCheck(testBoard, move.Colour)
}
