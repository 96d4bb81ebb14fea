package controller

import (
	"context"
	"errors"
)

// ErrTornDown is returned when a result arrived after its controller was torn down.
var ErrTornDown = errors.New("controller torn down")

// lifecycle scopes a controller's asynchronous work. Calls run under a context
// that is cancelled on teardown, and results are applied only while alive.
type lifecycle struct {
	ctx    context.Context
	cancel context.CancelFunc
}

func newLifecycle() lifecycle {
	ctx, cancel := context.WithCancel(context.Background())
	return lifecycle{ctx: ctx, cancel: cancel}
}

// bind derives a call context that ends with either ctx or the controller.
func (l lifecycle) bind(ctx context.Context) (context.Context, context.CancelFunc) {
	callCtx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(l.ctx, cancel)
	return callCtx, func() {
		stop()
		cancel()
	}
}

func (l lifecycle) alive() bool {
	return l.ctx.Err() == nil
}

// interrupted reports why a finished call must not be applied. A 401 wins over
// teardown, since ending the session is what tore the controller down.
func (l lifecycle) interrupted(err error) error {
	if isUnauthorized(err) {
		return err
	}
	if !l.alive() {
		return ErrTornDown
	}
	return nil
}

// Teardown cancels in-flight calls; their results will be discarded.
func (l lifecycle) Teardown() {
	l.cancel()
}

// Done is closed once the controller has been torn down.
func (l lifecycle) Done() <-chan struct{} {
	return l.ctx.Done()
}
