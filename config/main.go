package config

import (
	"errors"
	"flag"
	"io/fs"

	"github.com/safing/poolrand/modules"
)

var module *modules.Module

func init() {
	module = modules.Register("config", nil, start, nil)

	flag.StringVar(&configFilePath, "config", "", "set config file (.json, .yaml or .yml)")
}

// SetConfigFile sets the path of the config file. It must be called before
// the module starts.
func SetConfigFile(path string) {
	configFilePath = path
}

func start() error {
	err := loadConfig()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
