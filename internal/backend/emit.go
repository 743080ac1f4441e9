package backend

import (
	"bytes"
	"fmt"
	"sync/atomic"
	"time"
)

// defaultEmitDeadline and defaultMaxOutputBytes are the backend's
// timeout-guarded emission defaults.
const (
	defaultEmitDeadline   = 30 * time.Second
	defaultMaxOutputBytes = 100 * 1024 * 1024
	pollInterval          = 100 * time.Millisecond
)

// EmitFunc is a backend codegen entry point: it writes object/assembly
// output to w and returns when emission is complete or it fails.
type EmitFunc func(w *countingBuffer) error

// countingBuffer wraps a bytes.Buffer with an atomically-read size so
// the polling goroutine in RunEmission never races with the writer.
type countingBuffer struct {
	buf  bytes.Buffer
	size int64
}

func (c *countingBuffer) Write(p []byte) (int, error) {
	n, err := c.buf.Write(p)
	atomic.AddInt64(&c.size, int64(n))
	return n, err
}

func (c *countingBuffer) Len() int64 { return atomic.LoadInt64(&c.size) }

// RunEmission runs emit on a background goroutine with a wall-clock
// deadline and an output-size cap polled every 100ms. On timeout or
// overflow the driver detaches the worker rather than waiting for it —
// a controlled leak on the failure path, the deliberate trade-off
// for escaping a hung or runaway backend.
func RunEmission(emit EmitFunc, deadline time.Duration, maxBytes int64) ([]byte, error) {
	if deadline <= 0 {
		deadline = defaultEmitDeadline
	}
	if maxBytes <= 0 {
		maxBytes = defaultMaxOutputBytes
	}

	out := &countingBuffer{}
	done := make(chan error, 1)
	go func() {
		done <- emit(out)
	}()

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	deadlineTimer := time.NewTimer(deadline)
	defer deadlineTimer.Stop()

	for {
		select {
		case err := <-done:
			if err != nil {
				return nil, err
			}
			return out.buf.Bytes(), nil
		case <-ticker.C:
			if out.Len() > maxBytes {
				return nil, fmt.Errorf("backend emission exceeded the %d-byte output cap; try a lower optimization level", maxBytes)
			}
		case <-deadlineTimer.C:
			return nil, fmt.Errorf("backend emission exceeded its %s deadline; try a lower optimization level", deadline)
		}
	}
}
