package cluster

import "context"

// Future is the pending result of an AsyncPut.
type Future struct {
	done chan struct{}
	err  error
}

func newFuture() *Future {
	return &Future{done: make(chan struct{})}
}

func (f *Future) complete(err error) {
	f.err = err
	close(f.done)
}

// Done is closed once the put has completed.
func (f *Future) Done() <-chan struct{} { return f.done }

// Wait blocks until the put completes and returns its error.
func (f *Future) Wait(ctx context.Context) error {
	select {
	case <-f.done:
		return f.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// WaitAll waits for every future and returns the first error.
func WaitAll(ctx context.Context, fs []*Future) error {
	var first error
	for _, f := range fs {
		if err := f.Wait(ctx); err != nil && first == nil {
			first = err
		}
	}
	return first
}
