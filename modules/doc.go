// Package modules puts the moving parts of a service together.
//
// Modules are started in a multi-stage process and may depend on other
// modules:
//   - Go's init(): register the module and its flags
//   - prep: check flags, register config options, API endpoints and metrics
//   - start: start actual work, access config
//   - stop: gracefully shut down, after all workers of the module finished
//
// Workers are functions run by a module while catching panics. They receive
// the module context, which is canceled when the module stops. Service
// workers are restarted with a backoff when they fail.
package modules
