package modules

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/tevino/abool"

	"github.com/safing/poolrand/log"
)

var (
	startComplete       = abool.New()
	startCompleteSignal = make(chan struct{})
)

// StartCompleted returns whether starting has completed.
func StartCompleted() bool {
	return startComplete.IsSet()
}

// WaitForStartCompletion returns as soon as starting has completed.
func WaitForStartCompletion() <-chan struct{} {
	return startCompleteSignal
}

// Start parses flags and then preps and starts all modules in dependency
// order. Logging is started between the two stages.
func Start() error {
	modulesLock.Lock()
	err := initDependencies()
	modulesLock.Unlock()
	if err != nil {
		fmt.Fprintf(os.Stderr, "CRITICAL ERROR: failed to initialize modules: %s\n", err)
		return err
	}

	if err := parseFlags(); err != nil {
		if !errors.Is(err, ErrCleanExit) {
			fmt.Fprintf(os.Stderr, "CRITICAL ERROR: failed to parse flags: %s\n", err)
		}
		return err
	}

	if err := prepareModules(); err != nil {
		if !errors.Is(err, ErrCleanExit) {
			fmt.Fprintf(os.Stderr, "CRITICAL ERROR: %s\n", err)
		}
		return err
	}

	if err := log.Start(); err != nil && !errors.Is(err, log.ErrAlreadyStarted) {
		fmt.Fprintf(os.Stderr, "CRITICAL ERROR: failed to start logging: %s\n", err)
		return err
	}

	log.Info("modules: initiating...")
	if err := startModules(); err != nil {
		log.Critical(err.Error())
		return err
	}

	modulesLock.RLock()
	log.Infof("modules: started %d modules", len(modules))
	modulesLock.RUnlock()
	if startComplete.SetToIf(false, true) {
		close(startCompleteSignal)
	}

	return nil
}

type report struct {
	module *Module
	err    error
}

// runPhase executes fn for every module once ready returns true for it, in
// parallel where dependencies allow. It stops at the first error. Modules for
// which finished never becomes true indicate a dependency loop.
func runPhase(ready, finished func(*Module) bool, fn func(*Module) error, done func(*Module)) error {
	modulesLock.RLock()
	defer modulesLock.RUnlock()

	reports := make(chan *report, len(modules))
	pending := 0
	for {
		for _, m := range modules {
			if !ready(m) {
				continue
			}
			pending++
			m.inTransition.Set()
			go func(m *Module) {
				reports <- &report{module: m, err: fn(m)}
			}(m)
		}

		if pending == 0 {
			for _, m := range modules {
				if !finished(m) {
					return errors.New("modules: dependency loop detected, cannot continue")
				}
			}
			return nil
		}

		rep := <-reports
		pending--
		rep.module.inTransition.UnSet()
		if rep.err != nil {
			// Wait for the others before bailing out.
			for ; pending > 0; pending-- {
				other := <-reports
				other.module.inTransition.UnSet()
				if other.err == nil {
					done(other.module)
				}
			}
			return &phaseError{module: rep.module.Name, err: rep.err}
		}
		done(rep.module)
	}
}

type phaseError struct {
	module string
	err    error
}

func (pe *phaseError) Error() string {
	return fmt.Sprintf("module %s: %s", pe.module, pe.err)
}

func (pe *phaseError) Unwrap() error {
	return pe.err
}

func markPrepped(m *Module) { m.Prepped.Set() }

func markStarted(m *Module) {
	m.Started.Set()
	log.Debugf("modules: started %s", m.Name)
}

func prepareModules() error {
	err := runPhase(
		(*Module).readyToPrep,
		func(m *Module) bool { return m.Prepped.IsSet() },
		func(m *Module) error {
			return m.runCtrlFnWithTimeout("prep module", 10*time.Second, m.prep)
		},
		markPrepped,
	)
	if err != nil && !errors.Is(err, ErrCleanExit) {
		return fmt.Errorf("failed to prep %w", err)
	}
	return err
}

func startModules() error {
	err := runPhase(
		(*Module).readyToStart,
		func(m *Module) bool { return m.Started.IsSet() },
		func(m *Module) error {
			return m.runCtrlFnWithTimeout("start module", 60*time.Second, m.start)
		},
		markStarted,
	)
	if err != nil {
		return fmt.Errorf("modules: could not start %w", err)
	}
	return nil
}
