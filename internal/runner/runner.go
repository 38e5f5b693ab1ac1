// internal/runner/runner.go
package runner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tamzrod/dgwtail/internal/status"
	"github.com/tamzrod/dgwtail/internal/tailer"
)

// Transport is the connection the tailer reads through.
type Transport interface {
	tailer.Client
	Close() error
}

// Options wires one tail session.
type Options struct {
	// Dial opens the transport. ONE attempt per call.
	Dial   func() (Transport, error)
	Tailer tailer.Config
	Sink   tailer.Sink
	Logger *zap.Logger
}

// Run owns the session lifecycle:
//
//	connect -> start -> wait ready -> run until ctx is done -> stop -> disconnect
//
// Cleanup happens on every exit path. Startup failures are returned;
// cancellation of ctx is a clean shutdown and returns nil.
func Run(ctx context.Context, opts Options) error {
	if opts.Dial == nil {
		return errors.New("runner: dial required")
	}
	if opts.Sink == nil {
		return errors.New("runner: sink required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(
		zap.String("run", uuid.NewString()),
		zap.String("device", opts.Tailer.Device),
	)

	// --------------------
	// Connect
	// --------------------

	tr, err := opts.Dial()
	if err != nil {
		return fmt.Errorf("connect %s: %w", opts.Tailer.Device, err)
	}
	defer func() {
		if err := tr.Close(); err != nil {
			logger.Warn("disconnect failed", zap.Error(err))
		}
		logger.Debug("disconnected")
	}()
	logger.Debug("connected")

	// --------------------
	// Start
	// --------------------

	t, err := tailer.New(opts.Tailer, tr, opts.Sink, logger.Named("tailer"))
	if err != nil {
		return err
	}
	if err := t.Start(ctx); err != nil {
		return fmt.Errorf("start tailer: %w", err)
	}
	// Stop joins the poll loop; it must finish before the deferred Close.
	defer func() {
		t.Stop()
		logSummary(logger, t.Status())
	}()

	if err := t.WaitReady(ctx); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("wait for tailer: %w", err)
	}
	logger.Info("tailing",
		zap.Uint16("baseline", t.Status().Baseline),
		zap.Duration("interval", opts.Tailer.Interval),
	)

	// --------------------
	// Run until terminated
	// --------------------

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case <-t.Done():
		logger.Warn("tailer exited unexpectedly")
	}
	return nil
}

func logSummary(logger *zap.Logger, snap status.Snapshot) {
	fields := status.Encode(snap, time.Now())
	zf := make([]zap.Field, 0, len(fields))
	for _, f := range fields {
		zf = append(zf, zap.String(f.Name, f.Value))
	}
	logger.Info("tail summary", zf...)
}
