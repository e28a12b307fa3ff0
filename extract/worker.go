package extract

import (
	"context"
	"sync"
)

// pauser blocks extraction between files while paused. A nil pauser never
// blocks.
type pauser struct {
	mu     sync.Mutex
	paused bool
	resume chan struct{}
}

func (p *pauser) pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.paused {
		p.paused = true
		p.resume = make(chan struct{})
	}
}

func (p *pauser) unpause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.paused {
		p.paused = false
		close(p.resume)
	}
}

func (p *pauser) isPaused() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.paused
}

func (p *pauser) wait(ctx context.Context) error {
	if p == nil {
		return nil
	}
	p.mu.Lock()
	if !p.paused {
		p.mu.Unlock()
		return nil
	}
	ch := p.resume
	p.mu.Unlock()
	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Worker runs ExtractAll on its own goroutine. Progress callbacks are
// invoked from that goroutine.
type Worker struct {
	pause  pauser
	cancel context.CancelFunc
	done   chan struct{}

	results Results
}

// Start begins extracting every package that is not yet extracted.
func (e *Extractor) Start(ctx context.Context, progress ProgressFunc) *Worker {
	ctx, cancel := context.WithCancel(ctx)
	w := &Worker{cancel: cancel, done: make(chan struct{})}
	go func() {
		defer close(w.done)
		defer cancel()
		w.results = e.extractAll(ctx, progress, &w.pause)
	}()
	return w
}

// Pause suspends extraction before the next file.
func (w *Worker) Pause() { w.pause.pause() }

// Resume continues a paused extraction.
func (w *Worker) Resume() { w.pause.unpause() }

// Paused reports whether the worker is paused.
func (w *Worker) Paused() bool { return w.pause.isPaused() }

// Cancel stops extraction before the next file. A paused worker is
// cancelled without being resumed.
func (w *Worker) Cancel() { w.cancel() }

// Done is closed when the worker finishes.
func (w *Worker) Done() <-chan struct{} { return w.done }

// Wait blocks until the worker finishes and returns its results.
func (w *Worker) Wait() Results {
	<-w.done
	return w.results
}

// Result returns the results once the worker has finished. It reports
// false while extraction is still running.
func (w *Worker) Result() (Results, bool) {
	select {
	case <-w.done:
		return w.results, true
	default:
		return nil, false
	}
}
