// internal/device/command.go
package device

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// DefaultReadyPoll is the pause between command-ready checks.
const DefaultReadyPoll = 10 * time.Millisecond

// Send pushes commands through the gateway's command queue and returns one
// reply per command. Commands go out in blocks of CommandBlock; each block
// waits for the ready register before its replies are read.
func (d *Device) Send(ctx context.Context, cmds []uint16) ([]uint16, error) {
	replies := make([]uint16, 0, len(cmds))

	for len(cmds) > 0 {
		n := len(cmds)
		if n > CommandBlock {
			n = CommandBlock
		}
		block := cmds[:n]

		if err := d.regs.WriteRegisters(AddrCommandQueue, block); err != nil {
			return replies, fmt.Errorf("%w: command queue: %w", ErrWrite, err)
		}

		if err := d.waitReady(ctx); err != nil {
			return replies, err
		}

		got, err := d.regs.ReadHoldingRegisters(AddrReplyQueue, uint16(n))
		if err != nil {
			return replies, fmt.Errorf("%w: replies: %w", ErrRead, err)
		}
		if len(got) < n {
			return replies, fmt.Errorf("%w: replies: got %d of %d", ErrRead, len(got), n)
		}

		d.logger.Debug("command block done", zap.Int("commands", n))
		replies = append(replies, got[:n]...)
		cmds = cmds[n:]
	}

	return replies, nil
}

func (d *Device) waitReady(ctx context.Context) error {
	for {
		ready, err := d.regs.ReadHoldingRegisters(AddrCommandReady, 1)
		if err != nil {
			return fmt.Errorf("%w: command done status: %w", ErrRead, err)
		}
		if len(ready) > 0 && ready[0] == CommandDone {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(DefaultReadyPoll):
		}
	}
}
