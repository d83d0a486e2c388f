package output

import (
	"encoding/json"
	"io"

	"github.com/lgbarn/chess-tutor-go/internal/chess"
	"github.com/lgbarn/chess-tutor-go/internal/tutor"
)

// Event is the result of one script command.
type Event struct {
	Line    int                    `json:"line,omitempty"`
	Command string                 `json:"command"`
	OK      bool                   `json:"ok"`
	Message string                 `json:"message,omitempty"`
	Square  string                 `json:"square,omitempty"`
	Move    string                 `json:"move,omitempty"`
	Squares []chess.Square         `json:"squares,omitempty"`
	Request *tutor.ProposerRequest `json:"request,omitempty"`
}

// JSONRecord holds either an event or a snapshot.
type JSONRecord struct {
	Event    *Event          `json:"event,omitempty"`
	Snapshot *tutor.Snapshot `json:"snapshot,omitempty"`
}

// JSONOutput holds the records of one session.
type JSONOutput struct {
	Records []JSONRecord `json:"records"`
}

// encodeJSON writes v indented, one document per call.
func encodeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
