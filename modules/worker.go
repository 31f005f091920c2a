package modules

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/safing/poolrand/log"
)

// DefaultBackoffDuration is the default base backoff of service workers.
const DefaultBackoffDuration = 2 * time.Second

var (
	// ErrRestartNow may be returned (wrapped) by service workers to request an immediate restart.
	ErrRestartNow = errors.New("requested restart")
	errNoModule   = errors.New("missing module (is nil!)")
)

// StartWorker starts a generic worker, such as a long running (and possibly
// mostly idle) loop. It starts a new goroutine and returns immediately.
func (m *Module) StartWorker(name string, fn func(context.Context) error) {
	go func() {
		err := m.RunWorker(name, fn)
		switch {
		case err == nil:
		case errors.Is(err, context.Canceled):
			log.Debugf("%s: worker %s was canceled: %s", m.Name, name, err)
		default:
			log.Errorf("%s: worker %s failed: %s", m.Name, name, err)
		}
	}()
}

// RunWorker runs a generic worker and blocks until it finished. The module
// waits for running workers before it stops.
func (m *Module) RunWorker(name string, fn func(context.Context) error) error {
	if m == nil {
		log.Errorf(`modules: cannot start worker "%s" with nil module`, name)
		return errNoModule
	}

	atomic.AddInt32(m.workerCnt, 1)
	defer func() {
		atomic.AddInt32(m.workerCnt, -1)
		m.checkIfStopComplete()
	}()

	if m.IsStopping() {
		return m.Ctx.Err()
	}
	return m.runWorker(name, "worker", fn)
}

// StartServiceWorker starts a generic worker, which is automatically
// restarted in case of an error. The backoff before a restart is multiplied
// by the number of recent failures; pass 0 for DefaultBackoffDuration.
// Returning nil or context.Canceled stops the service worker.
func (m *Module) StartServiceWorker(name string, backoffDuration time.Duration, fn func(context.Context) error) {
	if m == nil {
		log.Errorf(`modules: cannot start service worker "%s" with nil module`, name)
		return
	}

	atomic.AddInt32(m.workerCnt, 1)
	go m.runServiceWorker(name, backoffDuration, fn)
}

func (m *Module) runServiceWorker(name string, backoffDuration time.Duration, fn func(context.Context) error) {
	defer func() {
		atomic.AddInt32(m.workerCnt, -1)
		m.checkIfStopComplete()
	}()

	if backoffDuration == 0 {
		backoffDuration = DefaultBackoffDuration
	}
	failCnt := 0
	lastFail := time.Now()

	for {
		if m.IsStopping() {
			return
		}

		err := m.runWorker(name, "service-worker", fn)
		switch {
		case err == nil, errors.Is(err, context.Canceled):
			return
		case errors.Is(err, ErrRestartNow):
			continue
		}

		// Reset fail counter if running without error for some time.
		if time.Since(lastFail) > 5*time.Minute {
			failCnt = 0
		}
		failCnt++
		lastFail = time.Now()

		sleepFor := time.Duration(failCnt) * backoffDuration
		log.Errorf("%s: service-worker %s failed (%d): %s - restarting in %s", m.Name, name, failCnt, err, sleepFor)
		select {
		case <-time.After(sleepFor):
		case <-m.Ctx.Done():
			return
		}
	}
}

func (m *Module) runWorker(name, taskType string, fn func(context.Context) error) (err error) {
	defer func() {
		if panicVal := recover(); panicVal != nil {
			me := m.NewPanicError(name, taskType, panicVal)
			me.Report()
			err = me
		}
	}()

	return fn(m.Ctx)
}

func (m *Module) runCtrlFnWithTimeout(name string, timeout time.Duration, fn func() error) error {
	if fn == nil {
		return nil
	}

	result := make(chan error, 1)
	go func() {
		result <- m.runCtrlFn(name, fn)
	}()

	select {
	case err := <-result:
		return err
	case <-time.After(timeout):
		return fmt.Errorf("%s timed out (%s)", name, timeout)
	}
}

func (m *Module) runCtrlFn(name string, fn func() error) (err error) {
	defer func() {
		if panicVal := recover(); panicVal != nil {
			me := m.NewPanicError(name, "module-control", panicVal)
			me.Report()
			err = me
		}
	}()

	return fn()
}
