package config

import (
	"regexp"
	"sort"
	"sync"
)

var (
	optionsLock sync.RWMutex
	options     = make(map[string]*Option)
)

// Register registers a new configuration option. The default value must pass
// the validation of the option.
func Register(option *Option) error {
	if option.Name == "" ||
		option.Key == "" ||
		option.Description == "" ||
		option.OptType == 0 {
		return newInvalidOptionError(option.Key, "incomplete option", ErrIncompleteCall)
	}

	var err error
	if option.ValidationRegex != "" {
		option.compiledRegex, err = regexp.Compile(option.ValidationRegex)
		if err != nil {
			return newInvalidOptionError(option.Key, "invalid validation regex", err)
		}
	}

	option.activeFallbackValue, err = validateValue(option, option.DefaultValue)
	if err != nil {
		return newInvalidOptionError(option.Key, "default value does not pass validation", err)
	}

	optionsLock.Lock()
	defer optionsLock.Unlock()

	if _, ok := options[option.Key]; ok {
		return newInvalidOptionError(option.Key, "duplicate key", ErrOptionExists)
	}
	options[option.Key] = option

	if option.Key == releaseLevelKey {
		updateReleaseLevel(option)
	}
	return nil
}

// GetOption returns the option with the given key.
func GetOption(key string) (*Option, error) {
	optionsLock.RLock()
	defer optionsLock.RUnlock()

	option, ok := options[key]
	if !ok {
		return nil, ErrUnknownOption
	}
	return option, nil
}

// ExportOptions returns all registered options sorted by key.
func ExportOptions() []*Option {
	optionsLock.RLock()
	defer optionsLock.RUnlock()

	list := make([]*Option, 0, len(options))
	for _, option := range options {
		list = append(list, option)
	}
	sort.Sort(sortByKey(list))
	return list
}

