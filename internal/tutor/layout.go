package tutor

import (
	"math/rand"

	"github.com/lgbarn/chess-tutor-go/internal/chess"
	"github.com/lgbarn/chess-tutor-go/internal/config"
	"github.com/lgbarn/chess-tutor-go/internal/engine"
)

// roleHomes lists the starting squares of each piece type. White owns the
// squares on ranks 1 and 2, Black those on ranks 7 and 8.
var roleHomes = map[chess.Piece][]string{
	chess.Pawn:   {"a2", "b2", "c2", "d2", "e2", "f2", "g2", "h2", "a7", "b7", "c7", "d7", "e7", "f7", "g7", "h7"},
	chess.Knight: {"b1", "g1", "b8", "g8"},
	chess.Bishop: {"c1", "f1", "c8", "f8"},
	chess.Rook:   {"a1", "h1", "a8", "h8"},
	chess.Queen:  {"d1", "d8"},
	chess.King:   {"e1", "e8"},
}

// armyInventory is the standard 32-piece set, pawns first.
var armyInventory = buildArmyInventory()

func buildArmyInventory() []chess.Piece {
	var inv []chess.Piece
	for i := 0; i < 8; i++ {
		inv = append(inv, chess.W(chess.Pawn))
	}
	for i := 0; i < 8; i++ {
		inv = append(inv, chess.B(chess.Pawn))
	}
	for _, piece := range []chess.Piece{chess.Rook, chess.Knight, chess.Bishop} {
		inv = append(inv, chess.W(piece), chess.W(piece), chess.B(piece), chess.B(piece))
	}
	return append(inv, chess.W(chess.Queen), chess.B(chess.Queen), chess.W(chess.King), chess.B(chess.King))
}

// homeColour returns the colour that owns a home square.
func homeColour(sq chess.Square) chess.Colour {
	if sq.Rank <= '2' {
		return chess.White
	}
	return chess.Black
}

// StandardLayout returns the initial chess position.
func StandardLayout() *engine.Position {
	return engine.NewPosition()
}

// RoleLayout places only the role's pieces, each on its home square.
// RoleNone gives an empty board.
func RoleLayout(role config.Role) *engine.Position {
	p := engine.NewEmptyPosition()
	for _, name := range roleHomes[role.Piece()] {
		sq := chess.MustSquare(name)
		p.Put(chess.MakeColouredPiece(homeColour(sq), role.Piece()), sq)
	}
	return p
}

// ShuffledRoleLayout places the role's pieces on distinct squares drawn
// from a uniform permutation of the whole board.
func ShuffledRoleLayout(role config.Role, rng *rand.Rand) *engine.Position {
	p := engine.NewEmptyPosition()
	squares := shuffledSquares(chess.AllSquares(), rng)
	for i, name := range roleHomes[role.Piece()] {
		colour := homeColour(chess.MustSquare(name))
		p.Put(chess.MakeColouredPiece(colour, role.Piece()), squares[i])
	}
	return p
}

// ShuffledArmyLayout scatters the standard 32 pieces. Pawns take squares
// from a permutation of ranks 2 to 7; the other pieces take the first free
// squares of a second permutation of the whole board.
func ShuffledArmyLayout(rng *rand.Rand) *engine.Position {
	p := engine.NewEmptyPosition()

	var pawnRanks []chess.Square
	for _, sq := range chess.AllSquares() {
		if sq.Rank >= '2' && sq.Rank <= '7' {
			pawnRanks = append(pawnRanks, sq)
		}
	}
	pawnSquares := shuffledSquares(pawnRanks, rng)
	otherSquares := shuffledSquares(chess.AllSquares(), rng)

	taken := make(map[chess.Square]bool, len(armyInventory))
	next := 0
	for i, piece := range armyInventory {
		var sq chess.Square
		if chess.ExtractPiece(piece) == chess.Pawn {
			sq = pawnSquares[i]
		} else {
			for taken[otherSquares[next]] {
				next++
			}
			sq = otherSquares[next]
			next++
		}
		taken[sq] = true
		p.Put(piece, sq)
	}
	return p
}

// Layout builds the position for a mode and role. A role wins over the
// mode's own layout; expert mode shuffles.
func Layout(mode config.Mode, role config.Role, rng *rand.Rand) *engine.Position {
	switch {
	case role != config.RoleNone && mode == config.Expert:
		return ShuffledRoleLayout(role, rng)
	case role != config.RoleNone:
		return RoleLayout(role)
	case mode == config.Expert:
		return ShuffledArmyLayout(rng)
	default:
		return StandardLayout()
	}
}

// shuffledSquares returns a Fisher-Yates permutation of squares.
func shuffledSquares(squares []chess.Square, rng *rand.Rand) []chess.Square {
	out := append([]chess.Square(nil), squares...)
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}
