// internal/tailer/runner.go
package tailer

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/tamzrod/dgwtail/internal/status"
)

// Start launches the poll loop in its own goroutine.
// The loop takes the baseline, signals Ready, then polls on a fixed interval
// until ctx is cancelled or Stop is called.
func (t *Tailer) Start(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.started || t.State() != StateIdle {
		return ErrNotIdle
	}
	t.started = true

	runCtx, cancel := context.WithCancel(ctx)
	t.cancel = cancel

	go t.run(runCtx)
	return nil
}

// Stop requests shutdown and blocks until the poll loop has exited.
// No batch is emitted after Stop returns. Safe to call more than once.
func (t *Tailer) Stop() {
	t.mu.Lock()
	cancel := t.cancel
	t.started = true // no Start after Stop
	t.mu.Unlock()

	if cancel == nil {
		// never started: nothing to join
		t.finish()
	} else {
		cancel()
	}
	<-t.done
}

// Ready is closed once the baseline read was attempted and the loop is running.
func (t *Tailer) Ready() <-chan struct{} {
	return t.ready
}

// Done is closed when the poll loop has exited.
func (t *Tailer) Done() <-chan struct{} {
	return t.done
}

// WaitReady blocks until the tailer is running.
func (t *Tailer) WaitReady(ctx context.Context) error {
	select {
	case <-t.ready:
		return nil
	case <-t.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// State returns the current lifecycle state.
func (t *Tailer) State() State {
	return State(t.state.Load())
}

func (t *Tailer) finish() {
	t.doneOnce.Do(func() {
		t.state.Store(int32(StateStopped))
		t.stats.Stopped()
		close(t.done)
	})
}

func (t *Tailer) run(ctx context.Context) {
	defer t.finish()

	t.baseline()

	t.state.Store(int32(StateRunning))
	close(t.ready)
	t.logger.Debug("tailer running", zap.Duration("interval", t.cfg.Interval))

	ticker := time.NewTicker(t.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			t.logger.Debug("tailer exiting")
			return
		case <-ticker.C:
			t.step()
		}
	}
}

// baseline takes the starting sequence. A failed read is tolerated and
// the tailer starts from zero.
func (t *Tailer) baseline() {
	seq, err := t.readSequence()
	if err != nil {
		t.logger.Warn("baseline sequence read failed",
			zap.Uint16("code", status.ErrorCode(err)),
			zap.Error(err),
		)
		seq = 0
	} else {
		t.logger.Debug("baseline", zap.Uint16("sequence", seq))
	}
	t.lastSeq = seq
	t.stats.Baseline(time.Now(), seq, err)
	t.flush()
}

// step runs one poll cycle, delivers its records and resets the transport.
func (t *Tailer) step() {
	res := t.PollOnce()
	t.report(res)

	if len(res.Records) > 0 {
		err := t.sink.Emit(Batch{
			At:       res.At,
			Sequence: res.Sequence,
			Records:  res.Records,
		})
		if err != nil {
			t.logger.Warn("sink emit failed", zap.Error(err))
		}
	}

	t.flush()
}

func (t *Tailer) report(res PollResult) {
	obs := status.Observation{
		At:       res.At,
		Sequence: res.Sequence,
		Records:  len(res.Records),
		Overrun:  res.Plan.Overrun,
		Lost:     res.Plan.Lost,
	}

	switch {
	case res.SequenceErr != nil:
		obs.SequenceErr = res.SequenceErr
		t.logger.Warn("sequence read failed",
			zap.Uint16("code", status.ErrorCode(res.SequenceErr)),
			zap.Error(res.SequenceErr),
		)

	case !res.Changed:
		// same sequence on consecutive polls

	default:
		t.logger.Debug("sequence",
			zap.Uint16("previous", res.Previous),
			zap.Uint16("sequence", res.Sequence),
			zap.Int("records", res.Plan.Records),
		)
		if res.Plan.Overrun {
			t.logger.Warn("overrun",
				zap.Uint16("sequence", res.Sequence),
				zap.Int("lost", res.Plan.Lost),
				zap.Int("delivered", res.Plan.Records),
			)
		}
		if res.Err != nil {
			obs.RecordErr = res.Err
			obs.Lost += res.Plan.Records
			t.logger.Warn("record read failed",
				zap.Uint16("sequence", res.Sequence),
				zap.Int("dropped", res.Plan.Records),
				zap.Uint16("code", status.ErrorCode(res.Err)),
				zap.Error(res.Err),
			)
		}
	}

	t.stats.Observe(obs)
}

func (t *Tailer) flush() {
	f, ok := t.client.(Flusher)
	if !ok {
		return
	}
	if err := f.Flush(); err != nil {
		t.logger.Debug("transport flush failed", zap.Error(err))
	}
}
