package log

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tevino/abool"
)

// concept
/*
- Logging function:
  - check if package-based levelling enabled
    - if yes, check if level is active on this package
  - check if level is active
  - send data to backend via big buffered channel
- Backend:
  - wait until there is time for writing logs
  - write logs to stdout
- Channel overbuffering protection:
  - if buffer is full, trigger write
- Anti-Importing-Loop:
  - everything imports logging
  - logging is started by the modules package
*/

// Severity describes a log level.
type Severity uint32

type logLine struct {
	msg       string
	level     Severity
	timestamp time.Time
	file      string
	line      int
}

// Log Levels.
const (
	TraceLevel    Severity = 1
	DebugLevel    Severity = 2
	InfoLevel     Severity = 3
	WarningLevel  Severity = 4
	ErrorLevel    Severity = 5
	CriticalLevel Severity = 6
)

var (
	logBuffer             = make(chan *logLine, 1024)
	forceEmptyingOfBuffer = make(chan struct{}, 4)

	logLevelInt = uint32(InfoLevel)
	logLevel    = &logLevelInt

	pkgLevelsActive = abool.NewBool(false)
	pkgLevels       = make(map[string]Severity)
	pkgLevelsLock   sync.Mutex

	logsWaiting     = make(chan struct{}, 1)
	logsWaitingFlag = abool.NewBool(false)

	shutdownFlag      = abool.NewBool(false)
	shutdownSignal    = make(chan struct{})
	shutdownWaitGroup sync.WaitGroup

	initializing = abool.NewBool(false)
	started      = abool.NewBool(false)

	// ErrAlreadyStarted is returned by Start if logging was already started.
	ErrAlreadyStarted = errors.New("logging already started")
)

// SetPkgLevels sets individual log levels for packages. Only effective after Start().
func SetPkgLevels(levels map[string]Severity) {
	pkgLevelsLock.Lock()
	pkgLevels = levels
	pkgLevelsLock.Unlock()
	pkgLevelsActive.Set()
}

// UnSetPkgLevels removes all individual log levels for packages.
func UnSetPkgLevels() {
	pkgLevelsActive.UnSet()
}

// GetLogLevel returns the current log level.
func GetLogLevel() Severity {
	return Severity(atomic.LoadUint32(logLevel))
}

// SetLogLevel sets a new log level. Only effective after Start().
func SetLogLevel(level Severity) {
	atomic.StoreUint32(logLevel, uint32(level))
}

// ParseLevel returns the level severity of a log level name.
func ParseLevel(level string) Severity {
	switch strings.ToLower(level) {
	case "trace":
		return TraceLevel
	case "debug":
		return DebugLevel
	case "info":
		return InfoLevel
	case "warning":
		return WarningLevel
	case "error":
		return ErrorLevel
	case "critical":
		return CriticalLevel
	}
	return 0
}

// Start starts the logging system. Must be called in order to see logs.
func Start() (err error) {
	if !initializing.SetToIf(false, true) {
		return ErrAlreadyStarted
	}

	initialLogLevel := ParseLevel(logLevelFlag)
	if initialLogLevel > 0 {
		SetLogLevel(initialLogLevel)
	} else {
		err = fmt.Errorf("log warning: invalid log level \"%s\", falling back to level info", logLevelFlag)
		fmt.Fprintf(os.Stderr, "%s\n", err.Error())
	}

	// get and set package log levels
	if len(pkgLogLevelsFlag) > 0 {
		newPkgLevels := make(map[string]Severity)
		for _, pair := range strings.Split(pkgLogLevelsFlag, ",") {
			split := strings.Split(pair, "=")
			if len(split) != 2 {
				err = fmt.Errorf("log warning: invalid package log level \"%s\", ignoring", pair)
				fmt.Fprintf(os.Stderr, "%s\n", err.Error())
				continue
			}
			pkgLevel := ParseLevel(split[1])
			if pkgLevel == 0 {
				err = fmt.Errorf("log warning: invalid package log level \"%s\", ignoring", pair)
				fmt.Fprintf(os.Stderr, "%s\n", err.Error())
				continue
			}
			newPkgLevels[split[0]] = pkgLevel
		}
		SetPkgLevels(newPkgLevels)
	}

	shutdownWaitGroup.Add(1)
	go writer()
	started.Set()

	// wake writer for lines buffered before start
	if len(logBuffer) > 0 && logsWaitingFlag.SetToIf(false, true) {
		logsWaiting <- struct{}{}
	}

	return err
}

// Shutdown writes remaining log lines and waits for the writer to finish.
func Shutdown() {
	if !started.IsSet() || !shutdownFlag.SetToIf(false, true) {
		return
	}
	close(shutdownSignal)
	shutdownWaitGroup.Wait()
}
