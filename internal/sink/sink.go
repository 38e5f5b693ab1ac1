// internal/sink/sink.go
package sink

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/tamzrod/dgwtail/internal/tailer"
)

// Format selects how batches are rendered.
type Format string

const (
	// FormatRaw writes one line per batch: " %04x %04x" per record.
	FormatRaw Format = "raw"
	// FormatRecords writes one line per record, prefixed with its sequence.
	FormatRecords Format = "records"
)

// ParseFormat validates a format name, ignoring case. Empty means FormatRaw.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatRaw:
		return FormatRaw, nil
	case FormatRecords:
		return FormatRecords, nil
	default:
		return "", fmt.Errorf("sink: unknown format %q (raw|records)", s)
	}
}

// Writer renders batches to an io.Writer.
// Delivery-only: records are written verbatim, never decoded.
type Writer struct {
	mu     sync.Mutex
	bw     *bufio.Writer
	format Format
}

// New creates a Writer. Each batch is flushed before Emit returns.
func New(w io.Writer, format Format) (*Writer, error) {
	if w == nil {
		return nil, errors.New("sink: writer required")
	}
	f, err := ParseFormat(string(format))
	if err != nil {
		return nil, err
	}
	return &Writer{
		bw:     bufio.NewWriter(w),
		format: f,
	}, nil
}

// Emit writes one batch.
func (s *Writer) Emit(b tailer.Batch) error {
	if len(b.Records) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.format {
	case FormatRecords:
		for _, r := range b.Records {
			fmt.Fprintf(s.bw, "%5d", r.Sequence)
			writeRegisters(s.bw, r.Registers)
			s.bw.WriteByte('\n')
		}
	default:
		for _, r := range b.Records {
			writeRegisters(s.bw, r.Registers)
		}
		s.bw.WriteByte('\n')
	}

	return s.bw.Flush()
}

func writeRegisters(w *bufio.Writer, regs []uint16) {
	for _, v := range regs {
		fmt.Fprintf(w, " %04x", v)
	}
}
