package tutor

import (
	"fmt"

	"github.com/lgbarn/chess-tutor-go/internal/chess"
	"github.com/lgbarn/chess-tutor-go/internal/config"
	"github.com/lgbarn/chess-tutor-go/internal/engine"
)

// GameStatus summarises how the game stands for the side to move.
// FivefoldRepetition and SeventyFiveMoves end the game without a claim.
// MaterialOdds marks a game that did not start from full armies.
type GameStatus struct {
	Check              bool   `json:"check"`
	Checkmate          bool   `json:"checkmate"`
	Stalemate          bool   `json:"stalemate"`
	Draw               bool   `json:"draw"`
	FivefoldRepetition bool   `json:"fivefold_repetition,omitempty"`
	SeventyFiveMoves   bool   `json:"seventy_five_moves,omitempty"`
	MaterialOdds       bool   `json:"material_odds,omitempty"`
	GameOver           bool   `json:"game_over"`
	Winner             string `json:"winner,omitempty"`
}

// StatusOf reads the game status of p. The automatic draw rules are checked
// over the whole recorded history, not only the current position.
func StatusOf(p *engine.Position) GameStatus {
	rules := p.DrawRules()
	s := GameStatus{
		Check:              p.InCheck(),
		Checkmate:          p.IsCheckmate(),
		Stalemate:          p.IsStalemate(),
		FivefoldRepetition: rules.Has5FoldRepetition,
		SeventyFiveMoves:   rules.Has75MoveRule,
		MaterialOdds:       rules.HasMaterialOdds,
	}
	s.Draw = p.IsDraw() || s.FivefoldRepetition || s.SeventyFiveMoves
	s.GameOver = s.Checkmate || s.Draw
	if s.Checkmate {
		s.Winner = p.Turn().Opposite().String()
	}
	return s
}

// Message returns the announcement for a finished game, or "" while play
// goes on.
func (s GameStatus) Message() string {
	switch {
	case s.Checkmate:
		return fmt.Sprintf("Checkmate! %s wins!", s.Winner)
	case s.Draw:
		return "It's a draw!"
	case s.GameOver:
		return "Game over."
	}
	return ""
}

// Snapshot is a read-only view of a session for rendering.
type Snapshot struct {
	Session    string         `json:"session"`
	FEN        string         `json:"fen"`
	Turn       string         `json:"turn"`
	Mode       string         `json:"mode"`
	Role       string         `json:"role,omitempty"`
	Selected   string         `json:"selected,omitempty"`
	Hints      []chess.Square `json:"hints,omitempty"`
	ShowHints  bool           `json:"show_hints"`
	Movetext   string         `json:"movetext,omitempty"`
	LegalMoves []string       `json:"legal_moves"`
	Key        string         `json:"key"`
	Status     GameStatus     `json:"status"`

	Board *chess.Board `json:"-"`
}

// Snapshot captures the current session state.
func (t *Tutor) Snapshot() Snapshot {
	s := Snapshot{
		Session:    t.session,
		FEN:        t.pos.FEN(),
		Turn:       t.pos.Turn().String(),
		Mode:       t.mode.String(),
		Hints:      t.Hints(),
		ShowHints:  t.ShowHints(),
		Movetext:   t.pos.Movetext(),
		LegalMoves: []string{},
		Key:        fmt.Sprintf("%016x", t.pos.Key()),
		Status:     StatusOf(t.pos),
		Board:      t.pos.Board(),
	}
	if t.role != config.RoleNone {
		s.Role = t.role.String()
	}
	if sq, ok := t.Selected(); ok {
		s.Selected = sq.String()
	}
	moves, err := t.pos.Moves(engine.MoveQuery{})
	if err != nil {
		t.log.Debug().Err(err).Msg("legal move listing failed")
	}
	for _, m := range moves {
		s.LegalMoves = append(s.LegalMoves, m.Text)
	}
	return s
}
