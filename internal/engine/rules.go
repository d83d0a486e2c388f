package engine

import (
	"github.com/lgbarn/chess-tutor-go/internal/chess"
	"github.com/lgbarn/chess-tutor-go/internal/hashing"
)

// DrawRuleResult contains the results of draw rule detection.
type DrawRuleResult struct {
	// Has50MoveRule is true if the final position has seen 50 moves
	// (100 half-moves) without a pawn move or capture.
	Has50MoveRule bool

	// Has75MoveRule is true if a position was reached where 75 moves
	// (150 half-moves) have been made without a pawn move or capture.
	Has75MoveRule bool

	// Has3FoldRepetition is true if the final position occurred 3 or more times.
	Has3FoldRepetition bool

	// Has5FoldRepetition is true if any position occurred 5 or more times.
	Has5FoldRepetition bool

	// HasInsufficientMaterial is true if the final position has insufficient
	// mating material for either side.
	HasInsufficientMaterial bool

	// HasMaterialOdds is true if the game started with unequal material.
	HasMaterialOdds bool
}

// AnalyzeDrawRules replays moves from start and reports the draw conditions
// met along the way. Replay stops at the first move that does not apply.
func AnalyzeDrawRules(start *chess.Board, moves []chess.Move) DrawRuleResult {
	result := DrawRuleResult{
		Has75MoveRule:   start.HalfmoveClock >= 150,
		HasMaterialOdds: !IsStandardMaterial(start),
	}

	board := start.Copy()
	positions := hashing.NewRepetitionCounter()
	positions.Add(hashing.GenerateZobristHash(board))

	for _, move := range moves {
		if !ApplyMove(board, move) {
			break
		}

		if board.HalfmoveClock >= 150 {
			result.Has75MoveRule = true
		}

		if positions.Add(hashing.GenerateZobristHash(board)) >= 5 {
			result.Has5FoldRepetition = true
		}
	}

	result.Has50MoveRule = board.HalfmoveClock >= 100
	result.Has3FoldRepetition = positions.Count(hashing.GenerateZobristHash(board)) >= 3
	result.HasInsufficientMaterial = HasInsufficientMaterial(board)

	return result
}

// HasInsufficientMaterial returns true if the position has insufficient
// mating material for either side.
// Insufficient material includes:
// - K vs K
// - K+B vs K
// - K+N vs K
// - K+B vs K+B (same color bishops)
func HasInsufficientMaterial(board *chess.Board) bool {
	var whitePieces, blackPieces []chess.Piece
	var whiteBishopOnLight, blackBishopOnLight bool

	for _, sq := range board.Occupied() {
		piece := board.At(sq)
		colour := chess.ExtractColour(piece)
		pieceType := chess.ExtractPiece(piece)

		// Kings don't count for material
		if pieceType == chess.King {
			continue
		}

		// Any pawn, rook, or queen means sufficient material
		if pieceType == chess.Pawn || pieceType == chess.Rook || pieceType == chess.Queen {
			return false
		}

		if colour == chess.White {
			whitePieces = append(whitePieces, pieceType)
			if pieceType == chess.Bishop {
				whiteBishopOnLight = sq.IsLight()
			}
		} else {
			blackPieces = append(blackPieces, pieceType)
			if pieceType == chess.Bishop {
				blackBishopOnLight = sq.IsLight()
			}
		}
	}

	// K vs K
	if len(whitePieces) == 0 && len(blackPieces) == 0 {
		return true
	}

	// K+B vs K or K+N vs K
	if len(whitePieces) == 0 && len(blackPieces) == 1 {
		return blackPieces[0] == chess.Bishop || blackPieces[0] == chess.Knight
	}
	if len(blackPieces) == 0 && len(whitePieces) == 1 {
		return whitePieces[0] == chess.Bishop || whitePieces[0] == chess.Knight
	}

	// K+B vs K+B (same color bishops)
	if len(whitePieces) == 1 && len(blackPieces) == 1 {
		if whitePieces[0] == chess.Bishop && blackPieces[0] == chess.Bishop {
			return whiteBishopOnLight == blackBishopOnLight
		}
	}

	return false
}

// standardMaterial is the piece count of one side in the starting position.
var standardMaterial = map[chess.Piece]int{
	chess.Pawn:   8,
	chess.Rook:   2,
	chess.Knight: 2,
	chess.Bishop: 2,
	chess.Queen:  1,
	chess.King:   1,
}

// IsStandardMaterial checks if the board has standard starting material.
// Layouts that scramble the army keep standard material; role boards do not.
func IsStandardMaterial(board *chess.Board) bool {
	for _, colour := range []chess.Colour{chess.White, chess.Black} {
		for piece, expected := range standardMaterial {
			if board.Count(chess.MakeColouredPiece(colour, piece)) != expected {
				return false
			}
		}
	}
	return true
}
