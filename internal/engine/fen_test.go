package engine

import (
	"testing"

	"github.com/lgbarn/chess-tutor-go/internal/chess"
	"github.com/lgbarn/chess-tutor-go/internal/errors"
)

func TestNewBoardFromFEN(t *testing.T) {
	tests := []struct {
		name    string
		fen     string
		checkFn func(*chess.Board) bool
	}{
		{
			name: "initial position",
			fen:  InitialFEN,
			checkFn: func(b *chess.Board) bool {
				return b.Get('e', '1') == chess.W(chess.King) &&
					b.Get('e', '8') == chess.B(chess.King) &&
					b.Get('e', '2') == chess.W(chess.Pawn) &&
					b.Get('e', '7') == chess.B(chess.Pawn) &&
					b.ToMove == chess.White &&
					b.WKingCastle == 'h' &&
					b.WQueenCastle == 'a'
			},
		},
		{
			name: "after 1.e4",
			fen:  "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1",
			checkFn: func(b *chess.Board) bool {
				return b.Get('e', '4') == chess.W(chess.Pawn) &&
					b.Get('e', '2') == chess.Empty &&
					b.ToMove == chess.Black &&
					b.EnPassant &&
					b.EPCol == 'e' &&
					b.EPRank == '3'
			},
		},
		{
			name: "sicilian defense",
			fen:  "rnbqkbnr/pp1ppppp/8/2p5/4P3/8/PPPP1PPP/RNBQKBNR w KQkq c6 0 2",
			checkFn: func(b *chess.Board) bool {
				return b.Get('c', '5') == chess.B(chess.Pawn) &&
					b.ToMove == chess.White &&
					b.MoveNumber == 2
			},
		},
		{
			name: "no castling rights",
			fen:  "r3k2r/pppppppp/8/8/8/8/PPPPPPPP/R3K2R w - - 0 1",
			checkFn: func(b *chess.Board) bool {
				return b.WKingCastle == 0 &&
					b.WQueenCastle == 0 &&
					b.BKingCastle == 0 &&
					b.BQueenCastle == 0
			},
		},
		{
			name: "clocks",
			fen:  "4k3/8/8/8/8/8/8/4K3 b - - 37 61",
			checkFn: func(b *chess.Board) bool {
				return b.HalfmoveClock == 37 && b.MoveNumber == 61
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			board, err := NewBoardFromFEN(tt.fen)
			if err != nil {
				t.Fatalf("NewBoardFromFEN() error = %v", err)
			}
			if !tt.checkFn(board) {
				t.Errorf("NewBoardFromFEN() board check failed")
			}
		})
	}
}

func TestNewBoardFromFEN_Rejects(t *testing.T) {
	tests := []struct {
		name      string
		fen       string
		wantField string
	}{
		{"empty string", "", "field count"},
		{"five fields", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0", "field count"},
		{"seven rows", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP w KQkq - 0 1", "piece placement"},
		{"bad digit", "rnbqkbnr/pppppppp/9/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1", "piece placement"},
		{"short row", "rnbqkbnr/ppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1", "piece placement"},
		{"long row", "rnbqkbnr/ppppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1", "piece placement"},
		{"consecutive digits", "rnbqkbnr/pppppppp/44/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1", "piece placement"},
		{"bad piece letter", "rnbqkbnr/ppppxppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1", "piece placement"},
		{"bad side to move", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR x KQkq - 0 1", "side to move"},
		{"bad castling letter", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkx - 0 1", "castling"},
		{"repeated castling letter", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KK - 0 1", "castling"},
		{"en passant wrong rank", "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e6 0 1", "en passant"},
		{"en passant not a square", "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq x3 0 1", "en passant"},
		{"negative halfmove clock", "4k3/8/8/8/8/8/8/4K3 w - - -1 1", "halfmove clock"},
		{"zero fullmove number", "4k3/8/8/8/8/8/8/4K3 w - - 0 0", "fullmove number"},
		{"missing white king", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQ1BNR w kq - 0 1", "piece placement"},
		{"two black kings", "k7/8/8/8/8/8/8/K6k w - - 0 1", "piece placement"},
		{"no kings at all", EmptyFEN, "piece placement"},
		{"pawn on last rank", "P3k3/8/8/8/8/8/8/4K3 w - - 0 1", "piece placement"},
		{"pawn on first rank", "4k3/8/8/8/8/8/8/p3K3 w - - 0 1", "piece placement"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFEN(tt.fen)
			if !errors.Is(err, errors.ErrInvalidFEN) {
				t.Fatalf("ValidateFEN(%q) = %v, want ErrInvalidFEN", tt.fen, err)
			}
			var pe *errors.ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("ValidateFEN(%q) error %T is not a *ParseError", tt.fen, err)
			}
			if pe.Field != tt.wantField {
				t.Errorf("ParseError.Field = %q, want %q", pe.Field, tt.wantField)
			}
		})
	}
}

func TestNewBoardFromFEN_ErrorMessage(t *testing.T) {
	err := ValidateFEN("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR x KQkq - 0 1")
	want := "side to move: expected w or b, got x: invalid FEN string"
	if err == nil || err.Error() != want {
		t.Errorf("error = %v, want %q", err, want)
	}
}

func TestBoardToFEN_RoundTrip(t *testing.T) {
	tests := []string{
		InitialFEN,
		"rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1",
		"r3k2r/pppppppp/8/8/8/8/PPPPPPPP/R3K2R w Kq - 0 1",
		"4k3/8/8/8/8/8/8/4K3 w - - 12 40",
	}

	for _, fen := range tests {
		t.Run(fen, func(t *testing.T) {
			board, err := NewBoardFromFEN(fen)
			if err != nil {
				t.Fatalf("NewBoardFromFEN() error = %v", err)
			}
			if got := BoardToFEN(board); got != fen {
				t.Errorf("BoardToFEN() = %q, want %q", got, fen)
			}
		})
	}
}

func TestBoardToFEN_EmptyBoard(t *testing.T) {
	if got := BoardToFEN(chess.NewBoard()); got != EmptyFEN {
		t.Errorf("BoardToFEN(empty) = %q, want %q", got, EmptyFEN)
	}
}

func TestApplyMove(t *testing.T) {
	sq := chess.MustSquare
	tests := []struct {
		name    string
		fen     string
		move    chess.Move
		wantFEN string
	}{
		{
			name: "1.e4",
			fen:  InitialFEN,
			move: chess.Move{
				Class: chess.PawnMove, From: sq("e2"), To: sq("e4"),
				Colour: chess.White, PieceToMove: chess.Pawn, CapturedPiece: chess.Empty,
			},
			wantFEN: "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1",
		},
		{
			name: "1.Nf3",
			fen:  InitialFEN,
			move: chess.Move{
				Class: chess.PieceMove, From: sq("g1"), To: sq("f3"),
				Colour: chess.White, PieceToMove: chess.Knight, CapturedPiece: chess.Empty,
			},
			wantFEN: "rnbqkbnr/pppppppp/8/8/8/5N2/PPPPPPPP/RNBQKB1R b KQkq - 1 1",
		},
		{
			name: "kingside castle",
			fen:  "r3k2r/pppppppp/8/8/8/8/PPPPPPPP/R3K2R w KQkq - 0 1",
			move: chess.Move{
				Class: chess.KingsideCastle, From: sq("e1"), To: sq("g1"),
				Colour: chess.White, PieceToMove: chess.King,
			},
			wantFEN: "r3k2r/pppppppp/8/8/8/8/PPPPPPPP/R4RK1 b kq - 1 1",
		},
		{
			name: "black queenside castle bumps move number",
			fen:  "r3k2r/pppppppp/8/8/8/8/PPPPPPPP/R3K2R b KQkq - 0 1",
			move: chess.Move{
				Class: chess.QueensideCastle, From: sq("e8"), To: sq("c8"),
				Colour: chess.Black, PieceToMove: chess.King,
			},
			wantFEN: "2kr3r/pppppppp/8/8/8/8/PPPPPPPP/R3K2R w KQ - 1 2",
		},
		{
			name: "en passant",
			fen:  "4k3/8/8/3pP3/8/8/8/4K3 w - d6 0 2",
			move: chess.Move{
				Class: chess.EnPassantPawnMove, From: sq("e5"), To: sq("d6"),
				Colour: chess.White, PieceToMove: chess.Pawn, CapturedPiece: chess.Pawn,
			},
			wantFEN: "4k3/8/3P4/8/8/8/8/4K3 b - - 0 2",
		},
		{
			name: "promotion defaults to queen",
			fen:  "4k3/P7/8/8/8/8/8/4K3 w - - 0 1",
			move: chess.Move{
				Class: chess.PawnMoveWithPromotion, From: sq("a7"), To: sq("a8"),
				Colour: chess.White, PieceToMove: chess.Pawn, PromotedPiece: chess.Empty,
			},
			wantFEN: "Q3k3/8/8/8/8/8/8/4K3 b - - 0 1",
		},
		{
			name: "capturing a rook drops its castling right",
			fen:  "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1",
			move: chess.Move{
				Class: chess.PieceMove, From: sq("h1"), To: sq("h8"),
				Colour: chess.White, PieceToMove: chess.Rook, CapturedPiece: chess.Rook,
			},
			wantFEN: "r3k2R/8/8/8/8/8/8/R3K3 b Qq - 0 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			board, err := NewBoardFromFEN(tt.fen)
			if err != nil {
				t.Fatalf("NewBoardFromFEN() error = %v", err)
			}
			if !ApplyMove(board, tt.move) {
				t.Fatalf("ApplyMove() returned false")
			}
			if got := BoardToFEN(board); got != tt.wantFEN {
				t.Errorf("BoardToFEN() = %q, want %q", got, tt.wantFEN)
			}
		})
	}
}

func TestApplyMove_WrongPiece(t *testing.T) {
	board := NewInitialBoard()
	move := chess.Move{
		Class: chess.PieceMove, From: chess.MustSquare("e2"), To: chess.MustSquare("e4"),
		Colour: chess.White, PieceToMove: chess.Knight,
	}
	if ApplyMove(board, move) {
		t.Errorf("ApplyMove(knight from a pawn square) = true, want false")
	}
	if got := BoardToFEN(board); got != InitialFEN {
		t.Errorf("board changed after rejected move: %s", got)
	}
}
