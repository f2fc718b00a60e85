package replatecamera

import (
	"context"
	"sync"
)

// PendingCapture is the single-flight handle for one capture request. It is
// resolved or rejected exactly once; later attempts are silent no-ops. That
// exactly-once property is what protects callers from duplicate completions
// racing in from different goroutines.
type PendingCapture struct {
	once     sync.Once
	done     chan struct{}
	artifact *Artifact
	err      error
}

func newPendingCapture() *PendingCapture {
	return &PendingCapture{done: make(chan struct{})}
}

// resolve completes the request with an artifact. No-op if already settled.
func (p *PendingCapture) resolve(a *Artifact) {
	p.once.Do(func() {
		p.artifact = a
		close(p.done)
	})
}

// reject completes the request with an error. No-op if already settled.
func (p *PendingCapture) reject(err error) {
	p.once.Do(func() {
		p.err = err
		close(p.done)
	})
}

// Wait blocks until the request settles or ctx is cancelled. Cancellation
// abandons the request; the capture itself runs to resolution regardless.
func (p *PendingCapture) Wait(ctx context.Context) (*Artifact, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-p.done:
		return p.artifact, p.err
	}
}

// Done returns a channel closed when the request settles.
func (p *PendingCapture) Done() <-chan struct{} {
	return p.done
}
