package script

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/lgbarn/chess-tutor-go/internal/config"
	"github.com/lgbarn/chess-tutor-go/internal/errors"
)

// Reader reads commands from a script one line at a time.
type Reader struct {
	scanner *bufio.Scanner
	name    string
	lineNum int
	cfg     *config.Config
}

// NewReader creates a reader over r. The name is used in error locations.
// If cfg is nil, a default config is created.
func NewReader(r io.Reader, name string, cfg *config.Config) *Reader {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	return &Reader{
		scanner: bufio.NewScanner(r),
		name:    name,
		cfg:     cfg,
	}
}

// LineNumber returns the number of the last line read.
func (r *Reader) LineNumber() int {
	return r.lineNum
}

// Next returns the next command in the script, or io.EOF at the end.
// A malformed line is reported to the log and returned as a *ParseError;
// reading may continue after it.
func (r *Reader) Next() (*Command, error) {
	for r.scanner.Scan() {
		r.lineNum++
		cmd, err := ParseLine(r.scanner.Text(), r.lineNum)
		if err != nil {
			var perr *errors.ParseError
			if errors.As(err, &perr) {
				perr.File = r.name
				if errors.Is(err, errors.ErrUnknownCommand) {
					fmt.Fprintf(r.cfg.LogFile, "Unknown command %s on line %d.\n", perr.Got, r.lineNum)
				} else {
					fmt.Fprintf(r.cfg.LogFile, "Wrong number of arguments to %s on line %d.\n", perr.Field, r.lineNum)
				}
			}
			return nil, err
		}
		if cmd != nil {
			return cmd, nil
		}
	}
	if err := r.scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "reading %s", r.name)
	}
	return nil, io.EOF
}

// ParseLine parses a single script line. Blank lines and comments yield a
// nil command and no error.
func ParseLine(text string, line int) (*Command, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" || trimmed[0] == '#' {
		return nil, nil
	}

	fields := strings.Fields(trimmed)
	word := fields[0]
	ct, ok := LookupCommand(word)
	if !ok {
		return nil, &errors.ParseError{
			Err:    errors.ErrUnknownCommand,
			Line:   line,
			Column: strings.Index(text, word) + 1,
			Got:    word,
		}
	}

	args := fields[1:]
	if !ct.Accepts(len(args)) {
		return nil, &errors.ParseError{
			Err:      errors.ErrBadArgument,
			Line:     line,
			Field:    ct.String(),
			Expected: arityText(ct),
			Got:      fmt.Sprintf("%d", len(args)),
		}
	}

	return &Command{
		Type: ct,
		Args: args,
		Line: line,
		Text: trimmed,
	}, nil
}

func arityText(ct CommandType) string {
	arity := commandArity[ct]
	switch {
	case arity[1] == manyArgs:
		return "at least " + argumentCount(arity[0])
	case arity[0] == arity[1]:
		return argumentCount(arity[0])
	}
	return fmt.Sprintf("%d to %d arguments", arity[0], arity[1])
}

func argumentCount(n int) string {
	if n == 1 {
		return "1 argument"
	}
	return fmt.Sprintf("%d arguments", n)
}
