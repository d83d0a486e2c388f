// Package output renders tutor sessions as board diagrams or JSON.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/lgbarn/chess-tutor-go/internal/chess"
	"github.com/lgbarn/chess-tutor-go/internal/config"
	"github.com/lgbarn/chess-tutor-go/internal/tutor"
)

// Diagram cell markers.
const (
	hintMark     = '*'
	selectedMark = '>'
	emptyMark    = '.'
)

// OutputWriter handles formatted output with line length control.
type OutputWriter struct {
	w             io.Writer
	lineLength    int
	maxLineLength int
	needsSpace    bool
}

// NewOutputWriter creates a new output writer.
func NewOutputWriter(w io.Writer, maxLineLength int) *OutputWriter {
	if maxLineLength <= 0 {
		maxLineLength = 80
	}
	return &OutputWriter{
		w:             w,
		maxLineLength: maxLineLength,
	}
}

// Write writes a string, adding a space separator if needed.
func (o *OutputWriter) Write(s string) {
	if o.needsSpace && len(s) > 0 {
		if o.lineLength+1+len(s) > o.maxLineLength {
			fmt.Fprintln(o.w)
			o.lineLength = 0
			o.needsSpace = false
		} else {
			fmt.Fprint(o.w, " ")
			o.lineLength++
		}
	}

	fmt.Fprint(o.w, s)
	o.lineLength += len(s)
	o.needsSpace = true
}

// NewLine starts a new line.
func (o *OutputWriter) NewLine() {
	fmt.Fprintln(o.w)
	o.lineLength = 0
	o.needsSpace = false
}

// WriteMovetext writes numbered movetext wrapped at the writer's line length.
func (o *OutputWriter) WriteMovetext(movetext string) {
	for _, word := range strings.Fields(movetext) {
		o.Write(word)
	}
	if o.lineLength > 0 {
		o.NewLine()
	}
}

// OutputSnapshot writes a session snapshot as a board diagram followed by
// the session lines.
func OutputSnapshot(s tutor.Snapshot, cfg *config.Config, w io.Writer) {
	var marks map[chess.Square]byte
	if cfg.Output.MarkHints && s.ShowHints {
		marks = make(map[chess.Square]byte, len(s.Hints)+1)
		for _, sq := range s.Hints {
			marks[sq] = hintMark
		}
		if sq, ok := chess.ParseSquare(s.Selected); ok {
			marks[sq] = selectedMark
		}
	}
	writeBoard(w, s.Board, marks, cfg.Output.Coordinates)

	fmt.Fprintf(w, "Turn: %s\n", s.Turn)
	fmt.Fprintf(w, "Mode: %s\n", s.Mode)
	if s.Role != "" {
		fmt.Fprintf(w, "Role: %s\n", s.Role)
	}
	if s.Selected != "" {
		fmt.Fprintf(w, "Selected: %s\n", s.Selected)
	}
	fmt.Fprintf(w, "FEN: %s\n", s.FEN)
	if cfg.Output.ShowMovetext && s.Movetext != "" {
		NewOutputWriter(w, 80).WriteMovetext(s.Movetext)
	}
	if msg := s.Status.Message(); msg != "" {
		fmt.Fprintln(w, msg)
	} else if s.Status.Check {
		fmt.Fprintln(w, "Check!")
	}
}

// writeBoard draws the board from White's side, rank 8 first. Each square
// is a marker column followed by the FEN letter of its piece.
func writeBoard(w io.Writer, board *chess.Board, marks map[chess.Square]byte, coordinates bool) {
	for rank := chess.Rank(chess.LastRank); rank >= chess.FirstRank; rank-- {
		var sb strings.Builder
		if coordinates {
			sb.WriteByte(byte(rank))
			sb.WriteByte(' ')
		}
		for col := chess.Col(chess.FirstCol); col <= chess.LastCol; col++ {
			sq := chess.NewSquare(col, rank)
			mark, ok := marks[sq]
			if !ok {
				mark = ' '
			}
			sb.WriteByte(mark)
			sb.WriteByte(squareLetter(board.At(sq)))
		}
		fmt.Fprintln(w, sb.String())
	}
	if coordinates {
		fmt.Fprintln(w, "   a b c d e f g h")
	}
}

func squareLetter(p chess.Piece) byte {
	if !chess.IsColoured(p) {
		return emptyMark
	}
	return chess.ColouredPieceLetter(p)
}

// OutputEvent writes one command result as a single line.
func OutputEvent(e Event, w io.Writer) {
	var sb strings.Builder
	if e.Line > 0 {
		fmt.Fprintf(&sb, "%d: ", e.Line)
	}
	sb.WriteString(e.Command)
	if e.Square != "" {
		sb.WriteString(" " + e.Square)
	}
	if !e.OK {
		sb.WriteString(": error: " + e.Message)
		fmt.Fprintln(w, sb.String())
		return
	}
	if e.Move != "" {
		sb.WriteString(": " + e.Move)
	}
	if e.Message != "" {
		sb.WriteString(" (" + e.Message + ")")
	}
	if e.Squares != nil {
		sb.WriteString(" ->")
		if len(e.Squares) == 0 {
			sb.WriteString(" none")
		}
		for _, sq := range e.Squares {
			sb.WriteString(" " + sq.String())
		}
	}
	fmt.Fprintln(w, sb.String())
	if e.Request != nil {
		fmt.Fprintf(w, "  fen: %s\n", e.Request.FEN)
		fmt.Fprintf(w, "  movetext: %s\n", e.Request.Movetext)
		fmt.Fprintf(w, "  difficulty: %s\n", e.Request.Difficulty)
		fmt.Fprintf(w, "  valid moves: %s\n", strings.Join(e.Request.ValidMoves, ", "))
	}
}
