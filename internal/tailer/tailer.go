// internal/tailer/tailer.go
package tailer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/tamzrod/dgwtail/internal/status"
)

// Register map of the gateway event log.
const (
	DefaultSequenceAddress uint16 = 322
	DefaultRecordsAddress  uint16 = 1024
	DefaultInterval               = 100 * time.Millisecond
)

var (
	// ErrShortRead is returned when the device answers with fewer registers
	// than requested.
	ErrShortRead = errors.New("tailer: short register read")
	// ErrNotIdle is returned by Start on a tailer that was already started or stopped.
	ErrNotIdle = errors.New("tailer: not idle")
	// ErrStopped is returned by WaitReady when the tailer ended before becoming ready.
	ErrStopped = errors.New("tailer: stopped")
)

// Client is the register store the tailer reads from.
// The tailer owns it exclusively while running.
type Client interface {
	ReadInputRegisters(addr, qty uint16) ([]uint16, error)
}

// Flusher is implemented by transports that can discard buffered state
// between requests.
type Flusher interface {
	Flush() error
}

// Sink receives delivered batches in order.
type Sink interface {
	Emit(b Batch) error
}

// Config is the immutable runtime config of one tailer.
type Config struct {
	Device          string // label for diagnostics only
	Interval        time.Duration
	SequenceAddress uint16
	RecordsAddress  uint16
	Geometry        Geometry
}

// DefaultConfig returns the gateway defaults.
func DefaultConfig() Config {
	return Config{
		Interval:        DefaultInterval,
		SequenceAddress: DefaultSequenceAddress,
		RecordsAddress:  DefaultRecordsAddress,
		Geometry:        DefaultGeometry(),
	}
}

// State is the tailer lifecycle state.
type State int32

const (
	StateIdle State = iota
	StateRunning
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// Tailer follows the device ring buffer and emits new records.
type Tailer struct {
	cfg    Config
	client Client
	sink   Sink
	logger *zap.Logger
	stats  *status.Tracker

	// lastSeq is owned by the poll loop.
	lastSeq uint16

	state atomic.Int32

	mu      sync.Mutex
	started bool
	cancel  context.CancelFunc

	ready    chan struct{}
	done     chan struct{}
	doneOnce sync.Once
}

// New creates a tailer with immutable config.
func New(cfg Config, client Client, sink Sink, logger *zap.Logger) (*Tailer, error) {
	if client == nil {
		return nil, errors.New("tailer: client required")
	}
	if sink == nil {
		return nil, errors.New("tailer: sink required")
	}
	if cfg.Interval <= 0 {
		return nil, errors.New("tailer: interval must be > 0")
	}
	if err := cfg.Geometry.Validate(); err != nil {
		return nil, fmt.Errorf("tailer: %w", err)
	}
	if int(cfg.RecordsAddress)+int(cfg.Geometry.RingRegisters()) > 0x10000 {
		return nil, fmt.Errorf("tailer: ring at %d does not fit the register space", cfg.RecordsAddress)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Tailer{
		cfg:    cfg,
		client: client,
		sink:   sink,
		logger: logger,
		stats:  status.NewTracker(),
		ready:  make(chan struct{}),
		done:   make(chan struct{}),
	}, nil
}

// PollOnce performs exactly one poll cycle.
//
// Delivery is at most once: when the record read fails the baseline still
// advances to the new sequence and the records are not retried.
func (t *Tailer) PollOnce() PollResult {
	res := PollResult{
		At:       time.Now(),
		Previous: t.lastSeq,
		Sequence: t.lastSeq,
	}

	seq, err := t.readSequence()
	if err != nil {
		res.SequenceErr = err
		return res
	}
	res.Sequence = seq

	if seq == t.lastSeq {
		return res
	}
	res.Changed = true
	res.Plan = t.cfg.Geometry.Plan(t.lastSeq, seq)
	t.lastSeq = seq

	regs, err := t.readPlan(res.Plan)
	if err != nil {
		res.Err = err
		return res
	}

	res.Records = t.split(seq, res.Plan.Records, regs)
	return res
}

// LastSequence returns the current baseline. Not safe while running.
func (t *Tailer) LastSequence() uint16 {
	return t.lastSeq
}

// Status returns a copy of the tailer counters.
func (t *Tailer) Status() status.Snapshot {
	return t.stats.Snapshot()
}

// ---- internal read helpers ----

func (t *Tailer) readSequence() (uint16, error) {
	regs, err := t.client.ReadInputRegisters(t.cfg.SequenceAddress, 1)
	if err != nil {
		return 0, fmt.Errorf("read sequence at %d: %w", t.cfg.SequenceAddress, err)
	}
	if len(regs) < 1 {
		return 0, fmt.Errorf("read sequence at %d: %w", t.cfg.SequenceAddress, ErrShortRead)
	}
	return regs[0], nil
}

// readPlan issues the plan's reads in order and concatenates the results.
// Any failure aborts the whole plan.
func (t *Tailer) readPlan(p Plan) ([]uint16, error) {
	out := make([]uint16, 0, p.Registers())
	for _, r := range p.Ranges {
		addr := t.cfg.RecordsAddress + r.Offset
		regs, err := t.client.ReadInputRegisters(addr, r.Count)
		if err != nil {
			return nil, fmt.Errorf("read records at %d (%d regs): %w", addr, r.Count, err)
		}
		if len(regs) < int(r.Count) {
			return nil, fmt.Errorf(
				"read records at %d: got %d of %d regs: %w",
				addr, len(regs), r.Count, ErrShortRead,
			)
		}
		out = append(out, regs[:r.Count]...)
	}
	return out, nil
}

// split cuts the register stream into records. The last record carries seq.
func (t *Tailer) split(seq uint16, n int, regs []uint16) []Record {
	width := int(t.cfg.Geometry.RecordWidth)
	records := make([]Record, 0, n)
	for i := 0; i < n; i++ {
		r := Record{
			Sequence:  seq - uint16(n-1-i),
			Registers: make([]uint16, width),
		}
		copy(r.Registers, regs[i*width:(i+1)*width])
		records = append(records, r)
	}
	return records
}
