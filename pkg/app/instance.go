package app

import (
	"context"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/hashicorp/go-multierror"
	log "github.com/sirupsen/logrus"
)

// Instance owns the lifetime of a command line program: a context cancelled on SIGINT or
// SIGTERM and the closers to run once the work is done.
type Instance struct {
	mu      sync.Mutex
	closers []io.Closer
	ctx     context.Context
	cancel  context.CancelFunc
}

func NewInstance() *Instance {
	ctx, cancel := context.WithCancel(context.Background())
	return &Instance{
		ctx:    ctx,
		cancel: cancel,
	}
}

func (instance *Instance) Context() context.Context {
	return instance.ctx
}

func ContextFromInstance(instance *Instance) context.Context {
	return instance.ctx
}

type CloseFunc func() error

func (instance *Instance) AddCloseFunc(fn CloseFunc) {
	instance.AddCloser(&closeWrapper{fn: fn})
}

type closeWrapper struct {
	fn CloseFunc
}

func (w *closeWrapper) Close() error {
	return w.fn()
}

func (instance *Instance) AddCloser(closer io.Closer) {
	instance.mu.Lock()
	defer instance.mu.Unlock()
	instance.closers = append(instance.closers, closer)
}

// Run calls fn with a context that is cancelled on SIGINT or SIGTERM. Afterwards every closer
// runs, last added first. The error of fn and the closer errors are returned together.
func (instance *Instance) Run(fn func(ctx context.Context) error) error {
	ctx, stop := signal.NotifyContext(instance.ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	var result *multierror.Error
	if err := fn(ctx); err != nil {
		result = multierror.Append(result, err)
	}

	instance.cancel()
	if err := instance.close(); err != nil {
		result = multierror.Append(result, err)
	}
	return result.ErrorOrNil()
}

func (instance *Instance) close() error {
	instance.mu.Lock()
	closers := instance.closers
	instance.closers = nil
	instance.mu.Unlock()

	var result *multierror.Error
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i].Close(); err != nil {
			log.Errorf("failed to close: %s", err)
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}
