// Package engine provides chess move validation and board manipulation.
package engine

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lgbarn/chess-tutor-go/internal/chess"
	"github.com/lgbarn/chess-tutor-go/internal/errors"
)

// InitialFEN is the FEN string for the standard starting position.
const InitialFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// EmptyFEN is the FEN string for a board with no pieces and White to move.
// It is not loadable; it only describes a cleared board.
const EmptyFEN = "8/8/8/8/8/8/8/8 w - - 0 1"

// fenError builds the ParseError returned for a bad FEN field.
func fenError(field, expected, got string) error {
	return &errors.ParseError{
		Err:      errors.ErrInvalidFEN,
		Field:    field,
		Expected: expected,
		Got:      got,
	}
}

// NewBoardFromFEN creates a board from a FEN string. Every field is
// checked and the position must have exactly one king per side and no
// pawn on the first or last rank.
func NewBoardFromFEN(fen string) (*chess.Board, error) {
	parts := strings.Fields(fen)
	if len(parts) != 6 {
		return nil, fenError("field count", "6", strconv.Itoa(len(parts)))
	}

	board := chess.NewBoard()

	if err := parsePiecePositions(board, parts[0]); err != nil {
		return nil, err
	}
	if err := parseSideToMove(board, parts[1]); err != nil {
		return nil, err
	}
	if err := parseCastlingRights(board, parts[2]); err != nil {
		return nil, err
	}
	if err := parseEnPassant(board, parts[3]); err != nil {
		return nil, err
	}
	if err := parseClocks(board, parts[4], parts[5]); err != nil {
		return nil, err
	}
	if err := checkPlacement(board); err != nil {
		return nil, err
	}

	return board, nil
}

// ValidateFEN reports whether fen describes a loadable position.
func ValidateFEN(fen string) error {
	_, err := NewBoardFromFEN(fen)
	return err
}

// parsePiecePositions parses the piece placement field of a FEN string.
func parsePiecePositions(board *chess.Board, positions string) error {
	rows := strings.Split(positions, "/")
	if len(rows) != 8 {
		return fenError("piece placement", "8 rows", strconv.Itoa(len(rows)))
	}

	for i, row := range rows {
		rank := chess.Rank('8' - i)
		col := chess.Col('a')
		prevDigit := false

		for j := 0; j < len(row); j++ {
			c := row[j]
			switch {
			case c >= '1' && c <= '8':
				if prevDigit {
					return fenError("piece placement", "no consecutive digits", row)
				}
				prevDigit = true
				col += chess.Col(c - '0')
			default:
				prevDigit = false
				piece := chess.PieceFromLetter(c)
				if piece == chess.Empty {
					return fenError("piece placement", "piece letter or digit", string(c))
				}
				if col > 'h' {
					return fenError("piece placement", "8 squares in row", row)
				}
				colour := chess.White
				if c >= 'a' && c <= 'z' {
					colour = chess.Black
				}
				board.Set(col, rank, chess.MakeColouredPiece(colour, piece))
				col++
			}
		}
		if col != 'h'+1 {
			return fenError("piece placement", "8 squares in row", row)
		}
	}
	return nil
}

// parseSideToMove parses the side to move field.
func parseSideToMove(board *chess.Board, field string) error {
	switch field {
	case "w":
		board.ToMove = chess.White
	case "b":
		board.ToMove = chess.Black
	default:
		return fenError("side to move", "w or b", field)
	}
	return nil
}

// parseCastlingRights parses the castling availability field.
func parseCastlingRights(board *chess.Board, field string) error {
	board.WKingCastle = 0
	board.WQueenCastle = 0
	board.BKingCastle = 0
	board.BQueenCastle = 0

	if field == "-" {
		return nil
	}

	for _, c := range field {
		var right *chess.Col
		var rookCol chess.Col
		switch c {
		case 'K':
			right, rookCol = &board.WKingCastle, 'h'
		case 'Q':
			right, rookCol = &board.WQueenCastle, 'a'
		case 'k':
			right, rookCol = &board.BKingCastle, 'h'
		case 'q':
			right, rookCol = &board.BQueenCastle, 'a'
		default:
			return fenError("castling", "subset of KQkq or -", field)
		}
		if *right != 0 {
			return fenError("castling", "each right once", field)
		}
		*right = rookCol
	}
	return nil
}

// parseEnPassant parses the en passant target square field. The target must
// sit behind a pawn of the side that just moved.
func parseEnPassant(board *chess.Board, field string) error {
	board.EnPassant = false
	if field == "-" {
		return nil
	}
	sq, ok := chess.ParseSquare(field)
	if !ok {
		return fenError("en passant", "square or -", field)
	}
	wantRank := chess.Rank('6')
	if board.ToMove == chess.Black {
		wantRank = '3'
	}
	if sq.Rank != wantRank {
		return fenError("en passant", "rank "+string(rune(wantRank)), field)
	}
	board.EnPassant = true
	board.EPCol = sq.Col
	board.EPRank = sq.Rank
	return nil
}

// parseClocks parses the halfmove clock and fullmove number fields.
func parseClocks(board *chess.Board, halfmove, fullmove string) error {
	hm, err := strconv.ParseUint(halfmove, 10, 32)
	if err != nil {
		return fenError("halfmove clock", "non-negative integer", halfmove)
	}
	fm, err := strconv.ParseUint(fullmove, 10, 32)
	if err != nil || fm == 0 {
		return fenError("fullmove number", "positive integer", fullmove)
	}
	board.HalfmoveClock = uint(hm)
	board.MoveNumber = uint(fm)
	return nil
}

// checkPlacement enforces the piece-placement rules the engine relies on.
func checkPlacement(board *chess.Board) error {
	for _, colour := range []chess.Colour{chess.White, chess.Black} {
		if n := board.Count(chess.MakeColouredPiece(colour, chess.King)); n != 1 {
			return fenError("piece placement", "one "+colour.String()+" king", strconv.Itoa(n))
		}
	}
	for col := chess.Col('a'); col <= 'h'; col++ {
		for _, rank := range []chess.Rank{'1', '8'} {
			if p := board.Get(col, rank); chess.IsColoured(p) && chess.ExtractPiece(p) == chess.Pawn {
				return fenError("piece placement", "no pawn on rank 1 or 8", chess.NewSquare(col, rank).String())
			}
		}
	}
	return nil
}

// BoardToFEN converts a board to a FEN string.
func BoardToFEN(board *chess.Board) string {
	var sb strings.Builder

	writePiecePositions(&sb, board)
	sb.WriteByte(' ')
	sb.WriteByte(board.ToMove.Letter())
	sb.WriteByte(' ')
	writeCastlingRights(&sb, board)
	sb.WriteByte(' ')
	writeEnPassant(&sb, board)
	sb.WriteByte(' ')
	fmt.Fprintf(&sb, "%d %d", board.HalfmoveClock, board.MoveNumber)

	return sb.String()
}

// writePiecePositions writes the piece placement to the builder.
func writePiecePositions(sb *strings.Builder, board *chess.Board) {
	for rank := chess.Rank('8'); rank >= '1'; rank-- {
		emptyCount := 0
		for col := chess.Col('a'); col <= 'h'; col++ {
			piece := board.Get(col, rank)
			if piece == chess.Empty {
				emptyCount++
				continue
			}
			if emptyCount > 0 {
				sb.WriteByte(byte('0' + emptyCount))
				emptyCount = 0
			}
			sb.WriteByte(chess.ColouredPieceLetter(piece))
		}
		if emptyCount > 0 {
			sb.WriteByte(byte('0' + emptyCount))
		}
		if rank > '1' {
			sb.WriteByte('/')
		}
	}
}

// writeCastlingRights writes the castling availability to the builder.
func writeCastlingRights(sb *strings.Builder, board *chess.Board) {
	hasCastling := false
	if board.WKingCastle != 0 {
		sb.WriteByte('K')
		hasCastling = true
	}
	if board.WQueenCastle != 0 {
		sb.WriteByte('Q')
		hasCastling = true
	}
	if board.BKingCastle != 0 {
		sb.WriteByte('k')
		hasCastling = true
	}
	if board.BQueenCastle != 0 {
		sb.WriteByte('q')
		hasCastling = true
	}
	if !hasCastling {
		sb.WriteByte('-')
	}
}

// writeEnPassant writes the en passant target square to the builder.
func writeEnPassant(sb *strings.Builder, board *chess.Board) {
	if board.EnPassant {
		sb.WriteByte(byte(board.EPCol))
		sb.WriteByte(byte(board.EPRank))
	} else {
		sb.WriteByte('-')
	}
}

// NewInitialBoard creates a board with the standard starting position.
func NewInitialBoard() *chess.Board {
	board, _ := NewBoardFromFEN(InitialFEN)
	return board
}
