package config

import (
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/tevino/abool"
)

var (
	validityFlag     = abool.NewBool(true)
	validityFlagLock sync.RWMutex
)

// getValidityFlag returns a flag that signifies if the configuration has been
// changed. This flag must not be changed, only read.
func getValidityFlag() *abool.AtomicBool {
	validityFlagLock.RLock()
	defer validityFlagLock.RUnlock()
	return validityFlag
}

// signalChanges marks the current validity flag as dirty so that all cached
// getters look up their values again.
func signalChanges() {
	validityFlagLock.Lock()
	defer validityFlagLock.Unlock()

	validityFlag.UnSet()
	validityFlag = abool.NewBool(true)
}

// handleOptionUpdate must be called with the option locked.
func handleOptionUpdate(option *Option) {
	if option.Key == releaseLevelKey {
		updateReleaseLevel(option)
	}
}

// setConfig replaces the (prioritized) user defined config. Values that fail
// validation are dropped and reported. Keys without a registered option are ignored.
func setConfig(newValues map[string]interface{}) error {
	var errs *multierror.Error

	optionsLock.RLock()
	for key, option := range options {
		newValue, ok := newValues[key]

		option.Lock()
		option.activeValue = nil
		if ok {
			vc, err := validateValue(option, newValue)
			if err != nil {
				errs = multierror.Append(errs, err)
			} else {
				option.activeValue = vc
			}
		}
		handleOptionUpdate(option)
		option.Unlock()
	}
	optionsLock.RUnlock()

	signalChanges()
	return errs.ErrorOrNil()
}

// SetDefaultConfig replaces the (fallback) default config.
func SetDefaultConfig(newValues map[string]interface{}) error {
	var errs *multierror.Error

	optionsLock.RLock()
	for key, option := range options {
		newValue, ok := newValues[key]

		option.Lock()
		option.activeDefaultValue = nil
		if ok {
			vc, err := validateValue(option, newValue)
			if err != nil {
				errs = multierror.Append(errs, err)
			} else {
				option.activeDefaultValue = vc
			}
		}
		handleOptionUpdate(option)
		option.Unlock()
	}
	optionsLock.RUnlock()

	signalChanges()
	return errs.ErrorOrNil()
}

// SetConfigOption sets a single value in the (prioritized) user defined
// config and saves the config file. A nil value resets the option.
func SetConfigOption(key string, value interface{}) error {
	if err := setOptionValue(key, value, false); err != nil {
		return err
	}
	return saveConfig()
}

// SetDefaultConfigOption sets a single value in the (fallback) default config.
// A nil value resets the option.
func SetDefaultConfigOption(key string, value interface{}) error {
	return setOptionValue(key, value, true)
}

func setOptionValue(key string, value interface{}, defaultConfig bool) error {
	option, err := GetOption(key)
	if err != nil {
		return err
	}

	var vc *valueCache
	if value != nil {
		vc, err = validateValue(option, value)
		if err != nil {
			return err
		}
	}

	option.Lock()
	if defaultConfig {
		option.activeDefaultValue = vc
	} else {
		option.activeValue = vc
	}
	handleOptionUpdate(option)
	option.Unlock()

	signalChanges()
	return nil
}
