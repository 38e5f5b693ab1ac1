// internal/device/device.go
package device

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"
)

var (
	// ErrParameter is returned for invalid arguments. Nothing was written.
	ErrParameter = errors.New("device: invalid parameter")
	// ErrRead wraps failed reads.
	ErrRead = errors.New("device: read failed")
	// ErrWrite wraps failed writes.
	ErrWrite = errors.New("device: write failed")
)

// DefaultSettle is the pause between identity reads; the gateway drops
// requests that follow each other too closely.
const DefaultSettle = 300 * time.Millisecond

// Registers is the register store used for configuration and commands.
type Registers interface {
	ReadInputRegisters(addr, qty uint16) ([]uint16, error)
	ReadHoldingRegisters(addr, qty uint16) ([]uint16, error)
	ReadCoils(addr, qty uint16) ([]bool, error)
	WriteRegister(addr, value uint16) error
	WriteRegisters(addr uint16, regs []uint16) error
	WriteCoil(addr uint16, on bool) error
	Flush() error
}

// Info is the gateway identity and settings.
type Info struct {
	Firmware        uint32
	ModuleName      uint32
	BusAddress      uint16
	Serial          SerialSetting
	WatchdogEnabled bool
	WatchdogTimeout time.Duration
}

// Device runs one-shot commands against a gateway.
// It must not be used while a tailer owns the same transport.
type Device struct {
	regs   Registers
	logger *zap.Logger

	// Settle is the delay between identity reads.
	Settle time.Duration
}

// New wraps a register store.
func New(regs Registers, logger *zap.Logger) *Device {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Device{
		regs:   regs,
		logger: logger,
		Settle: DefaultSettle,
	}
}

// ReadInfo reads identity and settings.
func (d *Device) ReadInfo(ctx context.Context) (Info, error) {
	var info Info

	fw, err := d.readInput(AddrFirmwareLow, 2, "firmware version")
	if err != nil {
		return info, err
	}
	info.Firmware = uint32(fw[1])<<16 | uint32(fw[0])
	if err := d.settle(ctx); err != nil {
		return info, err
	}

	name, err := d.readInput(AddrModuleNameLow, 2, "module name")
	if err != nil {
		return info, err
	}
	info.ModuleName = uint32(name[1])<<16 | uint32(name[0])
	if err := d.settle(ctx); err != nil {
		return info, err
	}

	addr, err := d.readHolding(AddrBusAddress, "module address")
	if err != nil {
		return info, err
	}
	info.BusAddress = addr
	if err := d.settle(ctx); err != nil {
		return info, err
	}

	conf, err := d.readHolding(AddrSerialConfig, "serial port configuration")
	if err != nil {
		return info, err
	}
	info.Serial = DecodeSerial(conf)
	d.flush()

	wd, err := d.regs.ReadCoils(AddrWatchdogEnabled, 1)
	if err != nil {
		return info, fmt.Errorf("%w: watchdog status: %w", ErrRead, err)
	}
	info.WatchdogEnabled = len(wd) > 0 && wd[0]
	d.flush()

	tenths, err := d.readHolding(AddrWatchdogTimeout, "watchdog timeout")
	if err != nil {
		return info, err
	}
	info.WatchdogTimeout = time.Duration(tenths) * 100 * time.Millisecond
	d.flush()

	return info, nil
}

// SetAddress changes the gateway's Modbus address.
func (d *Device) SetAddress(addr int) error {
	if addr < MinBusAddress || addr > MaxBusAddress {
		return fmt.Errorf("%w: modbus address %d out of range %d..%d",
			ErrParameter, addr, MinBusAddress, MaxBusAddress)
	}
	return d.write(AddrBusAddress, uint16(addr), "modbus address setting")
}

// SetSerial changes the gateway's serial line, "BAUD[,N|O|E]".
func (d *Device) SetSerial(s string) error {
	v, err := ParseSerial(s)
	if err != nil {
		return err
	}
	d.logger.Info("setting serial parameters", zap.String("serial", s), zap.Uint16("value", v))
	return d.write(AddrSerialConfig, v, "serial settings")
}

// SetWatchdogEnabled turns the watchdog on or off.
func (d *Device) SetWatchdogEnabled(on bool) error {
	if err := d.regs.WriteCoil(AddrWatchdogEnabled, on); err != nil {
		return fmt.Errorf("%w: enable/disable watchdog: %w", ErrWrite, err)
	}
	d.flush()
	return nil
}

// SetWatchdogTimeout sets the watchdog timeout, 0.1s to 25.5s.
func (d *Device) SetWatchdogTimeout(seconds float64) error {
	tenths := seconds * 10
	if math.IsNaN(tenths) || tenths < MinWatchdogTenths || tenths >= MaxWatchdogTenths+1 {
		return fmt.Errorf("%w: invalid watchdog timeout %.2fs", ErrParameter, seconds)
	}
	return d.write(AddrWatchdogTimeout, uint16(tenths), "watchdog timeout setting")
}

// ---- internal helpers ----

func (d *Device) readInput(addr, qty uint16, what string) ([]uint16, error) {
	regs, err := d.regs.ReadInputRegisters(addr, qty)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrRead, what, err)
	}
	if len(regs) < int(qty) {
		return nil, fmt.Errorf("%w: %s: short response", ErrRead, what)
	}
	return regs, nil
}

func (d *Device) readHolding(addr uint16, what string) (uint16, error) {
	regs, err := d.regs.ReadHoldingRegisters(addr, 1)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %w", ErrRead, what, err)
	}
	if len(regs) < 1 {
		return 0, fmt.Errorf("%w: %s: short response", ErrRead, what)
	}
	return regs[0], nil
}

func (d *Device) write(addr, value uint16, what string) error {
	if err := d.regs.WriteRegister(addr, value); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrWrite, what, err)
	}
	d.flush()
	return nil
}

// settle pauses between requests and resets the line.
func (d *Device) settle(ctx context.Context) error {
	if d.Settle > 0 {
		t := time.NewTimer(d.Settle)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}
	}
	d.flush()
	return nil
}

func (d *Device) flush() {
	if err := d.regs.Flush(); err != nil {
		d.logger.Debug("transport flush failed", zap.Error(err))
	}
}
