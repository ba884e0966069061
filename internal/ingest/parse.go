// Package ingest turns a trajectory text resource into an ordered sequence
// of samples. One sample per line, "x,y,z", kilometres, no header.
package ingest

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/OCAP2/globe/internal/geo"
	"github.com/OCAP2/globe/pkg/core"
)

// ErrMalformedLine is wrapped by every ParseError.
var ErrMalformedLine = errors.New("malformed trajectory line")

// Policy decides what happens to a line that does not parse.
type Policy int

const (
	// PolicyAbort stops ingestion at the first malformed line.
	PolicyAbort Policy = iota
	// PolicySkip drops malformed lines with a warning.
	PolicySkip
)

// ParsePolicy maps a config string to a Policy. Unknown values abort.
func ParsePolicy(s string) Policy {
	if strings.EqualFold(strings.TrimSpace(s), "skip") {
		return PolicySkip
	}
	return PolicyAbort
}

func (p Policy) String() string {
	if p == PolicySkip {
		return "skip"
	}
	return "abort"
}

// ParseError names the offending line of a trajectory resource.
type ParseError struct {
	Line   int // 1-based
	Text   string
	Reason error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d %q: %v", e.Line, e.Text, e.Reason)
}

// Unwrap exposes both ErrMalformedLine and the underlying cause.
func (e *ParseError) Unwrap() []error {
	return []error{ErrMalformedLine, e.Reason}
}

// Parse reads every non-blank line of r as a sample. Leading and trailing
// whitespace of the whole body is ignored. With PolicySkip, logger receives
// one warning per dropped line; logger may be nil.
func Parse(r io.Reader, policy Policy, logger *slog.Logger) ([]core.RawSample, error) {
	samples := []core.RawSample{}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		s, err := geo.ParseSample(text)
		if err != nil {
			// a failed read hands back its partial last line
			if rerr := scanner.Err(); rerr != nil {
				return nil, fmt.Errorf("reading trajectory: %w", rerr)
			}
			perr := &ParseError{Line: lineNo, Text: text, Reason: err}
			if policy == PolicySkip {
				if logger != nil {
					logger.Warn("Skipping malformed trajectory line", "line", lineNo, "error", err)
				}
				continue
			}
			return nil, perr
		}
		samples = append(samples, s)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading trajectory: %w", err)
	}

	return samples, nil
}

// Format writes samples in the same "x,y,z" layout Parse reads, using the
// shortest representation that round-trips exactly.
func Format(w io.Writer, samples []core.RawSample) error {
	bw := bufio.NewWriter(w)
	for _, s := range samples {
		line := strconv.FormatFloat(s.X, 'g', -1, 64) + "," +
			strconv.FormatFloat(s.Y, 'g', -1, 64) + "," +
			strconv.FormatFloat(s.Z, 'g', -1, 64) + "\n"
		if _, err := bw.WriteString(line); err != nil {
			return fmt.Errorf("writing trajectory: %w", err)
		}
	}
	return bw.Flush()
}
