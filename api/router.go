package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"github.com/safing/poolrand/log"
)

var (
	// mainMux is the main mux router.
	mainMux = mux.NewRouter()

	// server is the main server.
	server = &http.Server{
		ReadHeaderTimeout: 10 * time.Second,
	}
	handlerLock sync.RWMutex
)

// RegisterHandler registers a handler with the API endpoint.
func RegisterHandler(path string, handler http.Handler, methods ...string) *mux.Route {
	handlerLock.Lock()
	defer handlerLock.Unlock()

	route := mainMux.Handle(path, handler)
	if len(methods) > 0 {
		route.Methods(methods...)
	}
	return route
}

// RegisterHandleFunc registers a handle function with the API endpoint.
func RegisterHandleFunc(path string, handleFunc func(http.ResponseWriter, *http.Request), methods ...string) *mux.Route {
	return RegisterHandler(path, http.HandlerFunc(handleFunc), methods...)
}

// Handler returns the main API handler. It is exported for testing and embedding.
func Handler() http.Handler {
	return &mainHandler{}
}

func startServer() error {
	address := getListenAddress()
	if address == "" {
		return errNoListenAddr
	}

	// Listen right away, so that address errors fail the module start.
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return err
	}
	server.Handler = &mainHandler{}

	module.StartWorker("http server", func(ctx context.Context) error {
		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = server.Shutdown(shutdownCtx)
		}()

		log.Infof("api: starting to listen on %s", listener.Addr())
		err := server.Serve(listener)
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})
	return nil
}

func stopServer() error {
	// The server is shut down by its worker. Close remaining connections.
	err := server.Close()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

type mainHandler struct{}

func (mh *mainHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	r, apiRequest := withAPIRequest(r)
	ew := NewEnrichedResponseWriter(w)
	defer func() {
		log.Debugf("api request: %s %d %s %s (%s)", r.RemoteAddr, ew.Status, r.Method, r.RequestURI, time.Since(started))
	}()

	handlerLock.RLock()
	var match mux.RouteMatch
	matched := mainMux.Match(r, &match)
	handlerLock.RUnlock()
	if !matched || match.Handler == nil {
		http.NotFound(ew, r)
		return
	}

	apiRequest.Route = match.Route
	for k, v := range match.Vars {
		apiRequest.URLVars[k] = v
	}

	ModuleWorker(match.Handler).ServeHTTP(ew, r)
}
