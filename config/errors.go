package config

import (
	"errors"
	"fmt"
)

// Common error definitions.
var (
	ErrInvalidData     = errors.New("invalid data")
	ErrUnknownOption   = errors.New("unknown option")
	ErrUnsupportedType = errors.New("type not supported")
	ErrIncompleteCall  = errors.New("all fields, except for the ValidationRegex, are mandatory")
	ErrOptionExists    = errors.New("option already registered")

	// ErrInvalidJSON is returned when loading a config file with invalid content.
	ErrInvalidJSON = errors.New("json string invalid")
)

// InvalidOptionError describes an error encountered while
// registering a new option.
type InvalidOptionError struct {
	Key string
	Msg string
	Err error
}

func (ioe *InvalidOptionError) Error() string {
	msg := fmt.Sprintf("failed to register option %s: %s", ioe.Key, ioe.Msg)
	if ioe.Err != nil {
		msg += ": " + ioe.Err.Error()
	}
	return msg
}

func (ioe *InvalidOptionError) Unwrap() error {
	return ioe.Err
}

func newInvalidOptionError(key, msg string, err error) *InvalidOptionError {
	return &InvalidOptionError{
		Key: key,
		Msg: msg,
		Err: err,
	}
}

// InvalidValueError describes a validation error for the options
// value.
type InvalidValueError struct {
	Option string
	Value  interface{}
	Msg    string
}

func (ive *InvalidValueError) Error() string {
	msg := fmt.Sprintf("%s: invalid value %+v", ive.Option, ive.Value)
	if ive.Msg != "" {
		msg += ": " + ive.Msg
	}
	return msg
}

func newInvalidValueError(option string, value interface{}, msg string) *InvalidValueError {
	return &InvalidValueError{
		Option: option,
		Value:  value,
		Msg:    msg,
	}
}
