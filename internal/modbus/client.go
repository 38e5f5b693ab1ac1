// internal/modbus/client.go
package modbus

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/goburrow/modbus"
	"github.com/goburrow/serial"
	"github.com/gofrs/flock"
)

// Transport modes.
const (
	ModeRTU = "rtu"
	ModeTCP = "tcp"
)

// Modbus request limits.
const (
	MaxReadRegisters  = 125
	MaxWriteRegisters = 123
	MaxReadBits       = 2000
)

var (
	// ErrBusy is returned when another process owns the endpoint.
	ErrBusy = errors.New("modbus: endpoint is in use by another process")
	// ErrShortResponse is returned when the device answers with less data than requested.
	ErrShortResponse = errors.New("modbus: short response")
)

// handler is the part of goburrow's client handlers the client drives.
type handler interface {
	modbus.ClientHandler
	Connect() error
	Close() error
}

// Config is the transport config.
type Config struct {
	Mode    string // rtu | tcp
	Address string // serial device path or host:port
	SlaveID uint8
	Timeout time.Duration

	// Serial line (rtu only).
	BaudRate int
	DataBits int
	Parity   string // N | E | O
	StopBits int

	// Logger receives raw frame traces when set.
	Logger *log.Logger

	// LockDir holds the per-endpoint lock file. Empty means os.TempDir().
	LockDir string
}

// Client is a single connection to one gateway.
// It serializes requests so the tailer and one-shot commands never
// interleave frames on the line.
type Client struct {
	mu      sync.Mutex
	handler handler
	client  modbus.Client
	lock    *flock.Flock

	// dirty is set after a failed request; Flush drops the connection so the
	// next request starts on a clean line.
	dirty bool
}

// New locks the endpoint and opens the connection.
func New(cfg Config) (*Client, error) {
	if cfg.Address == "" {
		return nil, errors.New("modbus: address required")
	}

	h, err := newHandler(cfg)
	if err != nil {
		return nil, err
	}

	lock := flock.New(LockPath(cfg.LockDir, cfg.Address))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("modbus: lock %s: %w", lock.Path(), err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrBusy, cfg.Address)
	}

	if err := h.Connect(); err != nil {
		_ = lock.Unlock()
		return nil, fmt.Errorf("modbus: connect %s: %w", cfg.Address, err)
	}

	return &Client{
		handler: h,
		client:  modbus.NewClient(h),
		lock:    lock,
	}, nil
}

func newHandler(cfg Config) (handler, error) {
	switch strings.ToLower(cfg.Mode) {
	case "", ModeRTU:
		h := modbus.NewRTUClientHandler(cfg.Address)
		h.Config = serial.Config{
			Address:  cfg.Address,
			BaudRate: cfg.BaudRate,
			DataBits: cfg.DataBits,
			StopBits: cfg.StopBits,
			Parity:   strings.ToUpper(cfg.Parity),
			Timeout:  cfg.Timeout,
		}
		h.SlaveId = cfg.SlaveID
		h.Logger = cfg.Logger
		return h, nil

	case ModeTCP:
		h := modbus.NewTCPClientHandler(cfg.Address)
		h.Timeout = cfg.Timeout
		h.SlaveId = cfg.SlaveID
		h.Logger = cfg.Logger
		return h, nil

	default:
		return nil, fmt.Errorf("modbus: unknown mode %q (rtu|tcp)", cfg.Mode)
	}
}

// LockPath returns the lock file used for an endpoint.
func LockPath(dir, address string) string {
	if dir == "" {
		dir = os.TempDir()
	}
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '.':
			return r
		default:
			return '_'
		}
	}, strings.TrimPrefix(address, "/"))
	return filepath.Join(dir, "dgwtail-"+name+".lock")
}

// Close closes the connection and releases the endpoint lock.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	err := c.handler.Close()
	if uerr := c.lock.Unlock(); uerr != nil && err == nil {
		err = uerr
	}
	return err
}

// Flush discards transport state left behind by a failed request.
// goburrow reconnects on the next request.
func (c *Client) Flush() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.dirty {
		return nil
	}
	c.dirty = false
	return c.handler.Close()
}

// ---- register store ----

// ReadInputRegisters reads qty input registers (FC 4).
func (c *Client) ReadInputRegisters(addr, qty uint16) ([]uint16, error) {
	return c.readRegisters(addr, qty, c.client.ReadInputRegisters)
}

// ReadHoldingRegisters reads qty holding registers (FC 3).
func (c *Client) ReadHoldingRegisters(addr, qty uint16) ([]uint16, error) {
	return c.readRegisters(addr, qty, c.client.ReadHoldingRegisters)
}

// ReadCoils reads qty coils (FC 1).
func (c *Client) ReadCoils(addr, qty uint16) ([]bool, error) {
	if qty == 0 {
		return nil, nil
	}
	if qty > MaxReadBits {
		return nil, fmt.Errorf("modbus: read of %d coils exceeds %d", qty, MaxReadBits)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	b, err := c.client.ReadCoils(addr, qty)
	if err != nil {
		c.dirty = true
		return nil, err
	}
	if len(b) < (int(qty)+7)/8 {
		c.dirty = true
		return nil, fmt.Errorf("%w: %d coil bytes", ErrShortResponse, len(b))
	}
	return unpackBits(b, int(qty)), nil
}

// WriteRegister writes one holding register (FC 6).
func (c *Client) WriteRegister(addr, value uint16) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, err := c.client.WriteSingleRegister(addr, value)
	if err != nil {
		c.dirty = true
	}
	return err
}

// WriteRegisters writes a block of holding registers (FC 16).
func (c *Client) WriteRegisters(addr uint16, regs []uint16) error {
	if len(regs) == 0 {
		return nil
	}
	if len(regs) > MaxWriteRegisters {
		return fmt.Errorf("modbus: write of %d registers exceeds %d", len(regs), MaxWriteRegisters)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	qty := uint16(len(regs))
	_, err := c.client.WriteMultipleRegisters(addr, qty, packRegisters(regs))
	if err != nil {
		c.dirty = true
	}
	return err
}

// WriteCoil writes one coil (FC 5).
func (c *Client) WriteCoil(addr uint16, on bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var v uint16
	if on {
		v = 0xff00
	}
	_, err := c.client.WriteSingleCoil(addr, v)
	if err != nil {
		c.dirty = true
	}
	return err
}

func (c *Client) readRegisters(addr, qty uint16, read func(addr, qty uint16) ([]byte, error)) ([]uint16, error) {
	if qty == 0 {
		return nil, nil
	}
	if qty > MaxReadRegisters {
		return nil, fmt.Errorf("modbus: read of %d registers exceeds %d", qty, MaxReadRegisters)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	b, err := read(addr, qty)
	if err != nil {
		c.dirty = true
		return nil, err
	}
	if len(b) < int(qty)*2 {
		c.dirty = true
		return nil, fmt.Errorf("%w: %d of %d registers", ErrShortResponse, len(b)/2, qty)
	}
	return unpackRegisters(b[:int(qty)*2]), nil
}

// ---- helpers (pure geometry) ----

func unpackBits(data []byte, count int) []bool {
	out := make([]bool, count)
	for i := 0; i < count; i++ {
		byteIdx := i / 8
		bitIdx := i % 8
		if byteIdx >= len(data) {
			continue
		}
		out[i] = data[byteIdx]&(1<<bitIdx) != 0
	}
	return out
}

func unpackRegisters(data []byte) []uint16 {
	n := len(data) / 2
	out := make([]uint16, n)
	for i := 0; i < n; i++ {
		out[i] = uint16(data[2*i])<<8 | uint16(data[2*i+1])
	}
	return out
}

func packRegisters(regs []uint16) []byte {
	out := make([]byte, len(regs)*2)
	for i, r := range regs {
		out[2*i] = byte(r >> 8)
		out[2*i+1] = byte(r)
	}
	return out
}
