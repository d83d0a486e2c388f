package engine

import (
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/lgbarn/chess-tutor-go/internal/chess"
)

// destinations returns the sorted target squares of moves, one per square.
func destinations(moves []chess.Move) []string {
	seen := make(map[string]bool)
	var out []string
	for _, m := range moves {
		if s := m.To.String(); !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out
}

func mustBoard(t *testing.T, fen string) *chess.Board {
	t.Helper()
	board, err := NewBoardFromFEN(fen)
	if err != nil {
		t.Fatalf("NewBoardFromFEN(%q) error: %v", fen, err)
	}
	return board
}

func TestGenerateMoves_InitialPosition(t *testing.T) {
	board := NewInitialBoard()
	if got := len(GenerateMoves(board, chess.White)); got != 20 {
		t.Errorf("white moves = %d, want 20", got)
	}
	if got := len(GenerateMoves(board, chess.Black)); got != 20 {
		t.Errorf("black moves = %d, want 20", got)
	}
}

func TestMovesFrom(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		from string
		want []string
	}{
		{"knight from b1", InitialFEN, "b1", []string{"a3", "c3"}},
		{"pawn from e2", InitialFEN, "e2", []string{"e3", "e4"}},
		{"black knight while white to move", InitialFEN, "g8", []string{"f6", "h6"}},
		{"blocked rook", InitialFEN, "a1", nil},
		{"pinned rook stays on file", "3k4/4r3/8/8/8/8/4R3/4K3 w - - 0 1", "e2", []string{"e3", "e4", "e5", "e6", "e7"}},
		{"en passant", "4k3/8/8/3pP3/8/8/8/4K3 w - d6 0 2", "e5", []string{"d6", "e6"}},
		{"king avoids attacked squares", "4k3/8/8/8/8/8/8/3rK3 w - - 0 1", "e1", []string{"d1", "e2", "f2"}},
		{"castling both sides", "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", "e1", []string{"c1", "d1", "d2", "e2", "f1", "f2", "g1"}},
		{"no castling through attack", "r3k2r/8/8/8/8/8/5r2/R3K2R w KQkq - 0 1", "e1", []string{"c1", "d1", "f2"}},
		{"no castling without rights", "r3k2r/8/8/8/8/8/8/R3K2R w - - 0 1", "e1", []string{"d1", "d2", "e2", "f1", "f2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			board := mustBoard(t, tt.fen)
			got := destinations(MovesFrom(board, chess.MustSquare(tt.from)))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("MovesFrom(%s) mismatch (-want +got):\n%s", tt.from, diff)
			}
		})
	}
}

func TestMovesFrom_Promotion(t *testing.T) {
	board := mustBoard(t, "4k3/P7/8/8/8/8/8/4K3 w - - 0 1")
	moves := MovesFrom(board, chess.MustSquare("a7"))
	if len(moves) != 4 {
		t.Fatalf("promotion moves = %d, want 4", len(moves))
	}
	var got []chess.Piece
	for _, m := range moves {
		if m.Class != chess.PawnMoveWithPromotion {
			t.Errorf("move %s class = %v, want promotion", m.UCI(), m.Class)
		}
		got = append(got, m.PromotedPiece)
	}
	want := []chess.Piece{chess.Queen, chess.Rook, chess.Bishop, chess.Knight}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("promotion pieces mismatch (-want +got):\n%s", diff)
	}
}

func TestMovesFrom_KinglessBoard(t *testing.T) {
	board := chess.NewBoard()
	board.Set('b', '1', chess.W(chess.Knight))
	board.Set('g', '8', chess.B(chess.Knight))

	got := destinations(MovesFrom(board, chess.MustSquare("b1")))
	if diff := cmp.Diff([]string{"a3", "c3", "d2"}, got); diff != "" {
		t.Errorf("knight moves mismatch (-want +got):\n%s", diff)
	}
	if got := MovesFrom(board, chess.MustSquare("e4")); got != nil {
		t.Errorf("MovesFrom(empty square) = %v, want nil", got)
	}
}

func TestIsInCheck(t *testing.T) {
	tests := []struct {
		name   string
		fen    string
		colour chess.Colour
		want   bool
	}{
		{"initial position", InitialFEN, chess.White, false},
		{"rook on the back rank", "4k3/8/8/8/8/8/8/4K2r w - - 0 1", chess.White, true},
		{"pawn attack", "4k3/8/8/8/8/8/3p4/4K3 w - - 0 1", chess.White, true},
		{"pawn in front does not attack", "4k3/8/8/8/8/8/4p3/4K3 w - - 0 1", chess.White, false},
		{"knight attack", "4k3/8/8/8/8/3n4/8/4K3 w - - 0 1", chess.White, true},
		{"blocked bishop", "4k3/8/8/b7/8/8/3P4/4K3 w - - 0 1", chess.White, false},
		{"queen off the diagonal", "4k3/8/8/8/8/8/8/4K2Q b - - 0 1", chess.Black, false},
		{"black king on diagonal", "4k3/8/8/8/Q7/8/8/4K3 b - - 0 1", chess.Black, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			board := mustBoard(t, tt.fen)
			if got := IsInCheck(board, tt.colour); got != tt.want {
				t.Errorf("IsInCheck(%v) = %v, want %v", tt.colour, got, tt.want)
			}
		})
	}
}

func TestIsInCheck_NoKing(t *testing.T) {
	board := chess.NewBoard()
	board.Set('d', '4', chess.B(chess.Queen))
	if IsInCheck(board, chess.White) {
		t.Errorf("IsInCheck(no white king) = true, want false")
	}
}

func TestHasLegalMoves(t *testing.T) {
	stalemate := mustBoard(t, "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1")
	if HasLegalMoves(stalemate, chess.Black) {
		t.Errorf("HasLegalMoves(stalemated black) = true, want false")
	}
	if !HasLegalMoves(stalemate, chess.White) {
		t.Errorf("HasLegalMoves(white) = false, want true")
	}
}
