package config

import (
	"github.com/safing/poolrand/log"
)

type (
	// StringOption defines the returned function by GetAsString.
	StringOption func() string
	// StringArrayOption defines the returned function by GetAsStringArray.
	StringArrayOption func() []string
	// IntOption defines the returned function by GetAsInt.
	IntOption func() int64
	// BoolOption defines the returned function by GetAsBool.
	BoolOption func() bool
)

// getter returns a function that only looks up the value again after the
// configuration changed. The returned function is not safe for concurrent use.
func getter[T any](find func() T) func() T {
	valid := getValidityFlag()
	value := find()
	return func() T {
		if !valid.IsSet() {
			valid = getValidityFlag()
			value = find()
		}
		return value
	}
}

// GetAsString returns a function that returns the wanted string with high performance.
func GetAsString(name string, fallback string) StringOption {
	return getter(func() string { return findStringValue(name, fallback) })
}

// GetAsStringArray returns a function that returns the wanted string slice with high performance.
func GetAsStringArray(name string, fallback []string) StringArrayOption {
	return getter(func() []string { return findStringArrayValue(name, fallback) })
}

// GetAsInt returns a function that returns the wanted int with high performance.
func GetAsInt(name string, fallback int64) IntOption {
	return getter(func() int64 { return findIntValue(name, fallback) })
}

// GetAsBool returns a function that returns the wanted bool with high performance.
func GetAsBool(name string, fallback bool) BoolOption {
	return getter(func() bool { return findBoolValue(name, fallback) })
}

// findValue finds the active value: the user value if the release level
// permits it, then the default config, then the registered default.
func findValue(key string) interface{} {
	optionsLock.RLock()
	option, ok := options[key]
	optionsLock.RUnlock()
	if !ok {
		log.Errorf("config: request for unregistered option: %s", key)
		return nil
	}

	option.Lock()
	defer option.Unlock()

	if option.ReleaseLevel <= getReleaseLevel() && option.activeValue != nil {
		return option.activeValue.getData(option)
	}
	if option.activeDefaultValue != nil {
		return option.activeDefaultValue.getData(option)
	}
	return option.activeFallbackValue.getData(option)
}

func findStringValue(key string, fallback string) string {
	if v, ok := findValue(key).(string); ok {
		return v
	}
	return fallback
}

func findStringArrayValue(key string, fallback []string) []string {
	if v, ok := findValue(key).([]string); ok {
		return v
	}
	return fallback
}

func findIntValue(key string, fallback int64) int64 {
	if v, ok := findValue(key).(int64); ok {
		return v
	}
	return fallback
}

func findBoolValue(key string, fallback bool) bool {
	if v, ok := findValue(key).(bool); ok {
		return v
	}
	return fallback
}
