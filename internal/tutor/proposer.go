package tutor

import (
	"github.com/lgbarn/chess-tutor-go/internal/engine"
	"github.com/lgbarn/chess-tutor-go/internal/errors"
)

// ProposerRequest is what an external move proposer is given to choose a
// reply: the board, the game so far, the difficulty and the moves it may
// pick from.
type ProposerRequest struct {
	FEN        string   `json:"fen"`
	Movetext   string   `json:"movetext"`
	Difficulty string   `json:"difficulty"`
	Turn       string   `json:"turn"`
	ValidMoves []string `json:"valid_moves"`
}

// ProposerRequest builds the request for the side to move.
func (t *Tutor) ProposerRequest() ProposerRequest {
	req := ProposerRequest{
		FEN:        t.pos.FEN(),
		Movetext:   t.pos.Movetext(),
		Difficulty: t.mode.String(),
		Turn:       t.pos.Turn().String(),
		ValidMoves: []string{},
	}
	moves, _ := t.pos.Moves(engine.MoveQuery{})
	for _, m := range moves {
		req.ValidMoves = append(req.ValidMoves, m.Text)
	}
	return req
}

// Proposal is the result of playing a proposed move.
type Proposal struct {
	Proposed    string      `json:"proposed"`
	Played      string      `json:"played"`
	Substituted bool        `json:"substituted"`
	Outcome     MoveOutcome `json:"-"`
}

// PlayProposal plays a move chosen by an external proposer, given as SAN or
// coordinates. Proposals are checked strictly in every mode; an illegal one
// is replaced by a random legal move. It fails with ErrGameOver when the
// game has ended.
func (t *Tutor) PlayProposal(text string) (Proposal, error) {
	if StatusOf(t.pos).GameOver {
		return Proposal{Proposed: text}, errors.ErrGameOver
	}

	clone, _ := SafeClone(t.pos, t.log)
	prop := Proposal{Proposed: text}

	m, err := clone.MoveSAN(text)
	if err != nil {
		moves, _ := clone.Moves(engine.MoveQuery{})
		if len(moves) == 0 {
			return prop, errors.ErrGameOver
		}
		pick := moves[t.rng.Intn(len(moves))]
		m, err = clone.Move(pick.From, pick.To, pick.PromotedPiece)
		if err != nil {
			return prop, err
		}
		prop.Substituted = true
		t.log.Warn().Str("proposed", text).Str("played", m.String()).Msg("proposal rejected, playing a random move")
	}

	t.journal = append(t.journal, undoEntry{before: t.pos})
	t.commit(clone)
	prop.Played = m.String()
	prop.Outcome = MoveOutcome{Move: m}
	return prop, nil
}
