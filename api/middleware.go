package api

import (
	"context"
	"net/http"
)

// ModuleWorker is an http middleware that wraps the request in a module
// worker, so that the api module waits for running requests when stopping.
func ModuleWorker(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		err := module.RunWorker("http request", func(_ context.Context) error {
			next.ServeHTTP(w, r)
			return nil
		})
		if err != nil && module.IsStopping() {
			http.Error(w, "api is shutting down", http.StatusServiceUnavailable)
		}
	})
}
