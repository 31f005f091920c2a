package config

import "sync"

type safe struct{}

// Concurrent makes concurrency safe get methods available.
var Concurrent = &safe{}

func safeGetter[T any](find func() T) func() T {
	var lock sync.Mutex
	get := getter(find)
	return func() T {
		lock.Lock()
		defer lock.Unlock()
		return get()
	}
}

// GetAsString returns a function that returns the wanted string with high performance.
func (cs *safe) GetAsString(name string, fallback string) StringOption {
	return safeGetter(func() string { return findStringValue(name, fallback) })
}

// GetAsStringArray returns a function that returns the wanted string slice with high performance.
func (cs *safe) GetAsStringArray(name string, fallback []string) StringArrayOption {
	return safeGetter(func() []string { return findStringArrayValue(name, fallback) })
}

// GetAsInt returns a function that returns the wanted int with high performance.
func (cs *safe) GetAsInt(name string, fallback int64) IntOption {
	return safeGetter(func() int64 { return findIntValue(name, fallback) })
}

// GetAsBool returns a function that returns the wanted bool with high performance.
func (cs *safe) GetAsBool(name string, fallback bool) BoolOption {
	return safeGetter(func() bool { return findBoolValue(name, fallback) })
}
