package check

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/checkmon/checkmon/internal/metrics"
	"github.com/checkmon/checkmon/internal/probe"
)

// AlertPolicy sets the cadence of alert mode: a healthy check is
// re-verified every CheckInterval; a failing one is rechecked every
// RecheckInterval, indefinitely.
type AlertPolicy struct {
	CheckInterval   time.Duration
	RecheckInterval time.Duration
}

// Definition binds one probe to its policies. Built once at startup
// from resolved configuration; immutable afterwards.
type Definition struct {
	ID          int
	Name        string
	Labels      map[string]string
	Annotations map[string]string
	Retry       Policy
	Alert       AlertPolicy
	Timeout     time.Duration
	Prober      probe.Prober
}

// Info is the human-readable context a consumer resolves an update id
// back to.
type Info struct {
	Name        string
	Labels      map[string]string
	Annotations map[string]string
}

// Registry maps check id to Info. Built before any task starts and
// read-only afterwards, so concurrent reads need no locking.
type Registry map[int]Info

func NewRegistry(defs []Definition) Registry {
	r := make(Registry, len(defs))
	for _, d := range defs {
		r[d.ID] = Info{Name: d.Name, Labels: d.Labels, Annotations: d.Annotations}
	}
	return r
}

type task struct {
	def Definition
	mux *Mux
}

func (t *task) emit(status Status, msg string, wait time.Duration) {
	metrics.UpdatesTotal.WithLabelValues(t.def.Name, status.String()).Inc()
	t.mux.Send(Update{ID: t.def.ID, Status: status, Message: msg, Wait: wait})
}

func (t *task) note(msg string) {
	t.emit(StatusRunning, msg, 0)
}

// attempt runs the probe once under the configured timeout. A probe
// that outlives its deadline is abandoned and treated as a failure.
func (t *task) attempt(ctx context.Context) error {
	pctx, cancel := context.WithTimeout(ctx, t.def.Timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- t.def.Prober.Probe(pctx, t.note) }()

	select {
	case err := <-done:
		return err
	case <-pctx.Done():
		return fmt.Errorf("check timed out after %s", t.def.Timeout)
	}
}

// runCycle performs one attempt-cycle: probe, then retry with backoff
// until success or exhaustion. Reports whether the cycle succeeded. On
// context cancellation it returns early without a terminal update.
func (t *task) runCycle(ctx context.Context) bool {
	retrier := NewRetrier(t.def.Retry)

	for {
		t.emit(StatusRunning, "", 0)

		err := t.attempt(ctx)
		if err == nil {
			t.emit(StatusSucceeded, "", 0)
			return true
		}
		if ctx.Err() != nil {
			return false
		}
		t.emit(StatusRetrying, err.Error(), 0)

		if _, ok := retrier.Retry(ctx); !ok {
			if ctx.Err() != nil {
				return false
			}
			t.emit(StatusFailed, "Maximum retries reached", 0)
			return false
		}
	}
}

// alertLoop reruns attempt-cycles forever. A failed cycle is retried
// after RecheckInterval; a successful one is re-verified after
// CheckInterval. Only context cancellation ends the loop.
func (t *task) alertLoop(ctx context.Context) {
	for {
		for {
			if t.runCycle(ctx) {
				break
			}
			if ctx.Err() != nil {
				return
			}
			t.emit(StatusWaiting, "recheck", t.def.Alert.RecheckInterval)
			if !sleep(ctx, t.def.Alert.RecheckInterval) {
				return
			}
		}
		if ctx.Err() != nil {
			return
		}
		t.emit(StatusWaiting, "next check", t.def.Alert.CheckInterval)
		if !sleep(ctx, t.def.Alert.CheckInterval) {
			return
		}
	}
}

// RunReport runs every definition to one terminal outcome and returns
// the number of failures. The mux closes once all tasks have finished.
func RunReport(ctx context.Context, defs []Definition, mux *Mux) int {
	var wg sync.WaitGroup
	var failures atomic.Int64

	for _, def := range defs {
		t := &task{def: def, mux: mux}
		wg.Add(1)
		go func() {
			defer wg.Done()
			if !t.runCycle(ctx) {
				failures.Add(1)
			}
		}()
	}

	wg.Wait()
	mux.Close()
	return int(failures.Load())
}

// RunAlert runs every definition's alert loop until ctx is cancelled,
// then closes the mux so the dispatcher can flush and stop.
func RunAlert(ctx context.Context, defs []Definition, mux *Mux) {
	var wg sync.WaitGroup

	for _, def := range defs {
		t := &task{def: def, mux: mux}
		wg.Add(1)
		go func() {
			defer wg.Done()
			t.alertLoop(ctx)
		}()
	}

	wg.Wait()
	mux.Close()
}
