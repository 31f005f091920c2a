package modules

import (
	"errors"
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/tevino/abool"

	"github.com/safing/poolrand/log"
)

var (
	shutdownSignal         = make(chan struct{})
	shutdownFlag           = abool.New()
	shutdownCompleteSignal = make(chan struct{})

	// ErrShutdownInProgress is returned by Shutdown if it was already called.
	ErrShutdownInProgress = errors.New("shutdown already initiated")
)

// IsShuttingDown returns whether the global shutdown is in progress.
func IsShuttingDown() bool {
	return shutdownFlag.IsSet()
}

// ShuttingDown returns a channel read on the global shutdown signal.
func ShuttingDown() <-chan struct{} {
	return shutdownSignal
}

// Shutdown stops all started modules in reverse dependency order and then
// flushes the log. Errors of individual modules do not stop the shutdown,
// they are collected and returned together.
func Shutdown() error {
	if !shutdownFlag.SetToIf(false, true) {
		return ErrShutdownInProgress
	}
	close(shutdownSignal)

	if startComplete.IsSet() {
		log.Warning("modules: starting shutdown...")
	} else {
		log.Warning("modules: aborting, shutting down...")
	}

	err := stopModules()
	if err != nil {
		log.Errorf("modules: shutdown completed with errors: %s", err)
	} else {
		log.Info("modules: shutdown complete")
	}

	log.Shutdown()
	close(shutdownCompleteSignal)
	return err
}

func stopModules() error {
	modulesLock.RLock()
	defer modulesLock.RUnlock()

	var errs *multierror.Error
	reports := make(chan *report, len(modules))
	pending := 0
	for {
		for _, m := range modules {
			if !m.readyToStop() {
				continue
			}
			pending++
			m.inTransition.Set()
			go func(m *Module) {
				reports <- &report{module: m, err: m.stopAndWait()}
			}(m)
		}

		if pending == 0 {
			return errs.ErrorOrNil()
		}

		rep := <-reports
		pending--
		rep.module.inTransition.UnSet()
		// A failed stop still counts as stopped, so that dependencies can continue.
		rep.module.Stopped.Set()
		if rep.err != nil {
			errs = multierror.Append(errs, fmt.Errorf("could not stop module %s: %w", rep.module.Name, rep.err))
		} else {
			log.Debugf("modules: stopped %s", rep.module.Name)
		}
	}
}
