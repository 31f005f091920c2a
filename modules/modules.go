package modules

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tevino/abool"
)

var (
	modulesLock sync.RWMutex
	modules     = make(map[string]*Module)

	// ErrCleanExit is returned by Start() when the program is interrupted before starting. This can happen for example, when using the "-help" flag.
	ErrCleanExit = errors.New("clean exit requested")

	// moduleStopTimeout is how long stopping a module waits for its workers.
	moduleStopTimeout = 3 * time.Second
)

// Module represents a module.
type Module struct {
	Name string

	// lifecycle mgmt
	Prepped      *abool.AtomicBool
	Started      *abool.AtomicBool
	Stopped      *abool.AtomicBool
	inTransition *abool.AtomicBool

	// lifecycle callback functions
	prep  func() error
	start func() error
	stop  func() error

	// shutdown mgmt
	Ctx              context.Context
	cancelCtx        func()
	stopping         *abool.AtomicBool
	workerCnt        *int32
	stopComplete     chan struct{}
	stopCompleteOnce sync.Once

	// dependency mgmt
	depNames   []string
	depModules []*Module
	depReverse []*Module
}

// Register registers a new module. The control functions `prep`, `start` and
// `stop` are optional. `stop` is called _after_ all workers of the module
// finished. Registering the same name twice panics.
func Register(name string, prep, start, stop func() error, dependencies ...string) *Module {
	newModule := initNewModule(name, prep, start, stop, dependencies...)

	modulesLock.Lock()
	defer modulesLock.Unlock()

	if _, ok := modules[name]; ok {
		panic(fmt.Sprintf("modules: module %s is already registered", name))
	}
	modules[name] = newModule
	return newModule
}

func initNewModule(name string, prep, start, stop func() error, dependencies ...string) *Module {
	ctx, cancelCtx := context.WithCancel(context.Background())
	var workerCnt int32

	return &Module{
		Name:         name,
		Prepped:      abool.New(),
		Started:      abool.New(),
		Stopped:      abool.New(),
		inTransition: abool.New(),
		prep:         prep,
		start:        start,
		stop:         stop,
		Ctx:          ctx,
		cancelCtx:    cancelCtx,
		stopping:     abool.New(),
		workerCnt:    &workerCnt,
		stopComplete: make(chan struct{}),
		depNames:     dependencies,
	}
}

// IsStopping returns whether the module has started shutting down. In most
// cases, you should use Stopping instead.
func (m *Module) IsStopping() bool {
	return m.stopping.IsSet()
}

// Stopping lets you listen for the module stop signal.
func (m *Module) Stopping() <-chan struct{} {
	return m.Ctx.Done()
}

// Online returns whether the module is started and not stopping.
func (m *Module) Online() bool {
	return m.Started.IsSet() && !m.stopping.IsSet()
}

func (m *Module) checkIfStopComplete() {
	if m.stopping.IsSet() && atomic.LoadInt32(m.workerCnt) <= 0 {
		m.stopCompleteOnce.Do(func() {
			close(m.stopComplete)
		})
	}
}

// stopAndWait cancels the module context, waits for all workers to finish
// and then calls the stop function.
func (m *Module) stopAndWait() error {
	m.stopping.Set()
	m.cancelCtx()
	m.checkIfStopComplete()

	var timedOut error
	select {
	case <-m.stopComplete:
	case <-time.After(moduleStopTimeout):
		timedOut = fmt.Errorf(
			"timed out while waiting for %d workers to finish",
			atomic.LoadInt32(m.workerCnt),
		)
	}

	err := m.runCtrlFnWithTimeout("stop module", moduleStopTimeout, m.stop)
	if timedOut != nil {
		return timedOut
	}
	return err
}

func initDependencies() error {
	for _, m := range modules {
		m.depModules = nil
		m.depReverse = nil
	}

	for _, m := range modules {
		for _, depName := range m.depNames {
			depModule, ok := modules[depName]
			if !ok {
				return fmt.Errorf("module %s declares dependency %q, but this module has not been registered", m.Name, depName)
			}

			m.depModules = append(m.depModules, depModule)
			depModule.depReverse = append(depModule.depReverse, m)
		}
	}

	return nil
}

func (m *Module) readyToPrep() bool {
	if m.inTransition.IsSet() || m.Prepped.IsSet() {
		return false
	}
	for _, dep := range m.depModules {
		if !dep.Prepped.IsSet() {
			return false
		}
	}
	return true
}

func (m *Module) readyToStart() bool {
	if m.inTransition.IsSet() || m.Started.IsSet() {
		return false
	}
	for _, dep := range m.depModules {
		if !dep.Started.IsSet() {
			return false
		}
	}
	return true
}

func (m *Module) readyToStop() bool {
	if !m.Started.IsSet() || m.inTransition.IsSet() || m.Stopped.IsSet() {
		return false
	}
	for _, revDep := range m.depReverse {
		// Not ready if a reverse dependency was started, but not yet stopped.
		if revDep.Started.IsSet() && !revDep.Stopped.IsSet() {
			return false
		}
	}
	return true
}
