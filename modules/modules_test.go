package modules

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	orderLock     sync.Mutex
	startOrder    []string
	shutdownOrder []string

	errTest = errors.New("test error")
)

func testStart(name string) func() error {
	return func() error {
		orderLock.Lock()
		defer orderLock.Unlock()
		startOrder = append(startOrder, name)
		return nil
	}
}

func testStop(name string) func() error {
	return func() error {
		orderLock.Lock()
		defer orderLock.Unlock()
		shutdownOrder = append(shutdownOrder, name)
		return nil
	}
}

func testFail() error {
	return errTest
}

func testCleanExit() error {
	return ErrCleanExit
}

// resetModules removes all modules and resets the global lifecycle state.
func resetModules() {
	modulesLock.Lock()
	defer modulesLock.Unlock()

	modules = make(map[string]*Module)
	startComplete.UnSet()
	startCompleteSignal = make(chan struct{})
	shutdownFlag.UnSet()
	shutdownSignal = make(chan struct{})
	shutdownCompleteSignal = make(chan struct{})

	orderLock.Lock()
	startOrder = nil
	shutdownOrder = nil
	orderLock.Unlock()
}

// before reports whether a comes before b in order.
func before(order []string, a, b string) bool {
	joined := "," + strings.Join(order, ",") + ","
	return strings.Index(joined, ","+a+",") < strings.Index(joined, ","+b+",")
}

func TestModuleOrder(t *testing.T) { //nolint:paralleltest // Uses global module state.
	resetModules()

	Register("database", nil, testStart("database"), testStop("database"))
	Register("stats", nil, testStart("stats"), testStop("stats"), "database")
	Register("service", nil, testStart("service"), testStop("service"), "database")
	Register("analytics", nil, testStart("analytics"), testStop("analytics"), "stats", "database")

	require.NoError(t, Start())
	assert.True(t, StartCompleted())
	select {
	case <-WaitForStartCompletion():
	default:
		t.Error("start completion signal not closed")
	}

	require.Len(t, startOrder, 4)
	assert.Equal(t, "database", startOrder[0])
	assert.True(t, before(startOrder, "stats", "analytics"))

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		select {
		case <-ShuttingDown():
		case <-time.After(1 * time.Second):
			t.Error("did not receive shutdown signal")
		}
	}()
	require.NoError(t, Shutdown())
	wg.Wait()

	require.Len(t, shutdownOrder, 4)
	assert.Equal(t, "database", shutdownOrder[3])
	assert.True(t, before(shutdownOrder, "analytics", "stats"))
	assert.Equal(t, 0, GetExitStatusCode())

	assert.ErrorIs(t, Shutdown(), ErrShutdownInProgress)
}

func TestModuleErrors(t *testing.T) { //nolint:paralleltest // Uses global module state.
	resetModules()
	Register("prepfail", testFail, testStart("prepfail"), testStop("prepfail"))
	assert.ErrorIs(t, Start(), errTest, "prep error")

	resetModules()
	Register("prepcleanexit", testCleanExit, testStart("prepcleanexit"), testStop("prepcleanexit"))
	assert.ErrorIs(t, Start(), ErrCleanExit, "clean exit")

	resetModules()
	Register("database", nil, testStart("database"), testStop("database"), "invalid")
	assert.Error(t, Start(), "invalid dependency")

	resetModules()
	Register("database", nil, testStart("database"), testStop("database"), "helper")
	Register("helper", nil, testStart("helper"), testStop("helper"), "database")
	assert.Error(t, Start(), "dependency loop")
	assert.Empty(t, startOrder)

	resetModules()
	Register("startfail", nil, testFail, testStop("startfail"))
	assert.ErrorIs(t, Start(), errTest, "start error")

	resetModules()
	Register("stopfail", nil, testStart("stopfail"), testFail)
	Register("other", nil, testStart("other"), testStop("other"), "stopfail")
	require.NoError(t, Start())
	err := Shutdown()
	assert.ErrorIs(t, err, errTest, "stop error")
	assert.Equal(t, []string{"other"}, shutdownOrder)

	resetModules()
	Register("panics", func() error { panic("oh no") }, nil, nil)
	err = Start()
	panicked, _ := IsPanic(err)
	assert.True(t, panicked, "prep panic must be caught")

	resetModules()
	HelpFlag = true
	assert.ErrorIs(t, Start(), ErrCleanExit, "help flag")
	HelpFlag = false
}

func TestDuplicateRegistration(t *testing.T) { //nolint:paralleltest // Uses global module state.
	resetModules()
	Register("twice", nil, nil, nil)
	assert.Panics(t, func() {
		Register("twice", nil, nil, nil)
	})
}
