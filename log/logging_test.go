// Copyright Safing ICS Technologies GmbH. Use of this source code is governed by the AGPL license that can be found in the LICENSE file.

package log

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type lockedBuffer struct {
	sync.Mutex
	buf bytes.Buffer
}

func (lb *lockedBuffer) Write(p []byte) (int, error) {
	lb.Lock()
	defer lb.Unlock()
	return lb.buf.Write(p)
}

func (lb *lockedBuffer) String() string {
	lb.Lock()
	defer lb.Unlock()
	return lb.buf.String()
}

func TestLogging(t *testing.T) {
	out := &lockedBuffer{}
	logOutput = out

	// buffered before start
	Info("before start")

	err := Start()
	if err != nil {
		t.Errorf("start failed: %s", err)
	}
	assert.ErrorIs(t, Start(), ErrAlreadyStarted)

	// set levels (static random)
	SetLogLevel(WarningLevel)
	SetLogLevel(InfoLevel)
	SetLogLevel(ErrorLevel)
	SetLogLevel(DebugLevel)
	SetLogLevel(CriticalLevel)
	SetLogLevel(TraceLevel)
	assert.Equal(t, TraceLevel, GetLogLevel())

	// log
	Trace("Trace")
	Debug("Debug")
	Info("Info")
	Warning("Warning")
	Error("Error")
	Critical("Critical")

	// logf
	Tracef("Trace %s", "f")
	Debugf("Debug %s", "f")
	Infof("Info %s", "f")
	Warningf("Warning %s", "f")
	Errorf("Error %s", "f")
	Criticalf("Critical %s", "f")

	// play with levels
	SetLogLevel(CriticalLevel)
	Warning("hidden warning")
	SetLogLevel(TraceLevel)

	// log invalid level
	log(0xFF, "msg")

	// package levels
	SetPkgLevels(map[string]Severity{"log": ErrorLevel})
	Info("hidden by package level")
	UnSetPkgLevels()

	assert.GreaterOrEqual(t, TotalWarningLogLines(), uint64(2))
	assert.GreaterOrEqual(t, TotalErrorLogLines(), uint64(2))
	assert.GreaterOrEqual(t, TotalCriticalLogLines(), uint64(2))

	Shutdown()

	// logging after shutdown must not block
	Info("after shutdown")

	written := out.String()
	assert.Contains(t, written, "before start")
	assert.Contains(t, written, "Critical f")
	assert.Contains(t, written, "LOGGING STOPPED")
	assert.NotContains(t, written, "hidden warning")
	assert.NotContains(t, written, "hidden by package level")
	assert.NotContains(t, written, "after shutdown")
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, TraceLevel, ParseLevel("trace"))
	assert.Equal(t, WarningLevel, ParseLevel("WARNING"))
	assert.Equal(t, CriticalLevel, ParseLevel("critical"))
	assert.Equal(t, Severity(0), ParseLevel("verbose"))
}

func TestFormatLine(t *testing.T) {
	t.Parallel()

	line := formatLine(&logLine{
		msg:       "pool filled",
		level:     InfoLevel,
		timestamp: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		file:      "/src/poolrand/rng/pool",
		line:      42,
	}, false)
	assert.True(t, strings.HasPrefix(line, "240102 03:04:05.000 d/rng/pool:042"), line)
	assert.Contains(t, line, "INFO")
	assert.True(t, strings.HasSuffix(line, "pool filled"), line)
}
