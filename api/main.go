package api

import (
	"github.com/safing/poolrand/modules"
)

var module *modules.Module

func init() {
	module = modules.Register("api", prep, start, stop, "config")
}

func prep() error {
	if err := registerConfig(); err != nil {
		return err
	}
	if err := registerMetaEndpoints(); err != nil {
		return err
	}
	return registerConfigEndpoints()
}

func start() error {
	logFlagOverrides()
	return startServer()
}

func stop() error {
	return stopServer()
}
