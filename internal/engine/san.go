package engine

import (
	"strings"

	"github.com/lgbarn/chess-tutor-go/internal/chess"
	"github.com/lgbarn/chess-tutor-go/internal/errors"
)

// SAN returns the standard algebraic notation of a legal move on board,
// including the check or mate suffix.
func SAN(board *chess.Board, move chess.Move) string {
	var sb strings.Builder

	switch {
	case move.Class == chess.KingsideCastle:
		sb.WriteString("O-O")
	case move.Class == chess.QueensideCastle:
		sb.WriteString("O-O-O")
	case move.PieceToMove == chess.Pawn:
		if move.IsCapture() {
			sb.WriteByte(byte(move.From.Col))
			sb.WriteByte('x')
		}
		sb.WriteString(move.To.String())
		if move.IsPromotion() {
			sb.WriteByte('=')
			sb.WriteByte(move.PromotedPiece.Letter())
		}
	default:
		sb.WriteByte(move.PieceToMove.Letter())
		sb.WriteString(disambiguation(board, move))
		if move.IsCapture() {
			sb.WriteByte('x')
		}
		sb.WriteString(move.To.String())
	}

	switch checkStatus(board, move) {
	case chess.Checkmate:
		sb.WriteByte('#')
	case chess.Check:
		sb.WriteByte('+')
	}
	return sb.String()
}

// disambiguation returns the file, rank or square needed to tell move apart
// from other legal moves of the same piece type to the same square.
func disambiguation(board *chess.Board, move chess.Move) string {
	var rivals []chess.Square
	piece := chess.MakeColouredPiece(move.Colour, move.PieceToMove)
	for _, sq := range board.Occupied() {
		if sq == move.From || board.At(sq) != piece {
			continue
		}
		for _, m := range MovesFrom(board, sq) {
			if m.To == move.To {
				rivals = append(rivals, sq)
				break
			}
		}
	}
	if len(rivals) == 0 {
		return ""
	}

	sameCol, sameRank := false, false
	for _, sq := range rivals {
		if sq.Col == move.From.Col {
			sameCol = true
		}
		if sq.Rank == move.From.Rank {
			sameRank = true
		}
	}
	switch {
	case !sameCol:
		return string(rune(move.From.Col))
	case !sameRank:
		return string(rune(move.From.Rank))
	default:
		return move.From.String()
	}
}

// checkStatus plays move on a copy and reports its effect on the opponent.
func checkStatus(board *chess.Board, move chess.Move) chess.CheckStatus {
	after := board.Copy()
	if !ApplyMove(after, move) {
		return chess.NoCheck
	}
	opponent := move.Colour.Opposite()
	if !IsInCheck(after, opponent) {
		return chess.NoCheck
	}
	if HasLegalMoves(after, opponent) {
		return chess.Check
	}
	return chess.Checkmate
}

// ParseMoveText resolves move text for the side to move. It accepts SAN
// (with or without check marks and the promotion '='), castling written
// with zeros, and coordinate notation such as "e2e4" or "e7e8q".
func ParseMoveText(board *chess.Board, text string) (chess.Move, error) {
	clean := strings.TrimRight(strings.TrimSpace(text), "+#!?")
	clean = strings.ReplaceAll(clean, "0", "O")
	legal := GenerateMoves(board, board.ToMove)

	if m, ok := matchCoordinates(legal, clean); ok {
		m.Text = SAN(board, m)
		return m, nil
	}

	want := strings.ReplaceAll(clean, "=", "")
	for _, m := range legal {
		san := SAN(board, m)
		if strings.ReplaceAll(strings.TrimRight(san, "+#"), "=", "") == want {
			m.Text = san
			return m, nil
		}
	}
	return chess.Move{}, &errors.MoveError{Err: errors.ErrIllegalMove, Text: text}
}

// matchCoordinates finds the legal move named by coordinate notation.
func matchCoordinates(legal []chess.Move, text string) (chess.Move, bool) {
	if len(text) != 4 && len(text) != 5 {
		return chess.Move{}, false
	}
	from, ok1 := chess.ParseSquare(text[0:2])
	to, ok2 := chess.ParseSquare(text[2:4])
	if !ok1 || !ok2 {
		return chess.Move{}, false
	}
	promo := chess.Queen
	if len(text) == 5 {
		promo = chess.PieceFromLetter(text[4])
	}
	for _, m := range legal {
		if m.From != from || m.To != to {
			continue
		}
		if m.IsPromotion() && m.PromotedPiece != promo {
			continue
		}
		return m, true
	}
	return chess.Move{}, false
}
