package modules

import (
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/safing/poolrand/log"
)

// ModuleError wraps a panic or error of a module function, including a stack trace.
type ModuleError struct {
	Message string

	ModuleName string
	TaskName   string
	TaskType   string // one of "worker", "service-worker" or "module-control"

	PanicValue interface{}
	StackTrace string
}

// NewPanicError creates a new panic error message, including a stack trace.
func (m *Module) NewPanicError(taskName, taskType string, panicValue interface{}) *ModuleError {
	return &ModuleError{
		Message:    fmt.Sprintf("panic in %s %s/%s: %s", taskType, m.Name, taskName, panicValue),
		ModuleName: m.Name,
		TaskName:   taskName,
		TaskType:   taskType,
		PanicValue: panicValue,
		StackTrace: string(debug.Stack()),
	}
}

// Error returns the string representation of the error.
func (me *ModuleError) Error() string {
	return me.Message
}

// Report logs the error together with its stack trace.
func (me *ModuleError) Report() {
	log.Errorf("%s\n%s", me.Message, me.StackTrace)
}

// IsPanic returns whether the given error is a wrapped panic by the modules package and additionally returns it, if true.
func IsPanic(err error) (bool, *ModuleError) {
	var me *ModuleError
	if errors.As(err, &me) {
		return true, me
	}
	return false, nil
}
