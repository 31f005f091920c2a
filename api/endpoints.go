package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/gorilla/mux"

	"github.com/safing/poolrand/formats/dsd"
	"github.com/safing/poolrand/log"
	"github.com/safing/poolrand/modules"
)

// Endpoint describes an API Endpoint.
// Path and exactly one function are required.
type Endpoint struct {
	// Path is the endpoint path, relative to /api/v1/.
	Path string
	// Method restricts the endpoint to the given http method. Empty allows GET and POST.
	Method    string          `json:",omitempty"`
	MimeType  string          `json:",omitempty"`
	BelongsTo *modules.Module `json:"-"`

	// ActionFunc is for simple actions with a return message for the user.
	ActionFunc ActionFunc `json:"-"`

	// DataFunc is for returning raw data that the caller for further processing.
	DataFunc DataFunc `json:"-"`

	// StructFunc is for returning any kind of struct. The response format
	// can be selected with the format query parameter or the Accept header.
	StructFunc StructFunc `json:"-"`

	// HandlerFunc is the raw http handler.
	HandlerFunc http.HandlerFunc `json:"-"`

	// Documentation Metadata.

	Name        string
	Description string
	Parameters  []Parameter `json:",omitempty"`
}

// Parameter describes a parameterized variation of an endpoint.
type Parameter struct {
	Method      string
	Field       string
	Value       string
	Description string
}

type (
	// ActionFunc is for simple actions with a return message for the user.
	ActionFunc func(ar *Request) (msg string, err error)

	// DataFunc is for returning raw data that the caller for further processing.
	DataFunc func(ar *Request) (data []byte, err error)

	// StructFunc is for returning any kind of struct.
	StructFunc func(ar *Request) (i interface{}, err error)
)

// MIME Types.
const (
	MimeTypeJSON        string = "application/json"
	MimeTypeText        string = "text/plain"
	MimeTypeOctetStream string = "application/octet-stream"

	apiV1Path = "/api/v1/"

	maxBodySize = 1 << 20 // 1MB
)

func init() {
	RegisterHandler(apiV1Path+"{endpointPath:.+}", &endpointHandler{})
}

var (
	endpoints     = make(map[string]*Endpoint)
	endpointsMux  = mux.NewRouter()
	endpointsLock sync.RWMutex
)

// RegisterEndpoint registers a new endpoint. An error will be returned if it
// does not pass the sanity checks.
func RegisterEndpoint(e Endpoint) error {
	if err := e.check(); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidEndpoint, err)
	}

	endpointsLock.Lock()
	defer endpointsLock.Unlock()

	if _, ok := endpoints[e.Path]; ok {
		return ErrAlreadyRegistered
	}

	endpoints[e.Path] = &e
	route := endpointsMux.Handle(apiV1Path+e.Path, &e)
	if e.Method != "" {
		route.Methods(e.Method, http.MethodHead, http.MethodOptions)
	}
	return nil
}

func (e *Endpoint) check() error {
	if strings.TrimSpace(e.Path) == "" {
		return errors.New("path is missing")
	}
	e.Path = strings.TrimPrefix(e.Path, "/")

	switch e.Method {
	case "", http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete:
	default:
		return fmt.Errorf("unsupported method %s", e.Method)
	}

	var defaultMimeType string
	fnCnt := 0
	if e.ActionFunc != nil {
		fnCnt++
		defaultMimeType = MimeTypeText
	}
	if e.DataFunc != nil {
		fnCnt++
		defaultMimeType = MimeTypeText
	}
	if e.StructFunc != nil {
		fnCnt++
		defaultMimeType = MimeTypeJSON
	}
	if e.HandlerFunc != nil {
		fnCnt++
		defaultMimeType = MimeTypeText
	}
	if fnCnt != 1 {
		return errors.New("exactly one function must be set")
	}

	if e.MimeType == "" {
		e.MimeType = defaultMimeType
	}
	return nil
}

// ExportEndpoints exports the registered endpoints. The returned data must be
// treated as immutable.
func ExportEndpoints() []*Endpoint {
	endpointsLock.RLock()
	defer endpointsLock.RUnlock()

	eps := make([]*Endpoint, 0, len(endpoints))
	for _, ep := range endpoints {
		eps = append(eps, ep)
	}

	sort.Sort(sortByPath(eps))
	return eps
}

type sortByPath []*Endpoint

func (eps sortByPath) Len() int           { return len(eps) }
func (eps sortByPath) Less(i, j int) bool { return eps[i].Path < eps[j].Path }
func (eps sortByPath) Swap(i, j int)      { eps[i], eps[j] = eps[j], eps[i] }

type endpointHandler struct{}

// ServeHTTP finds the endpoint for the request and hands over to it.
func (eh *endpointHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	apiRequest := GetAPIRequest(r)
	if apiRequest == nil {
		http.NotFound(w, r)
		return
	}

	endpointsLock.RLock()
	var match mux.RouteMatch
	matched := endpointsMux.Match(r, &match)
	endpointsLock.RUnlock()

	switch {
	case errors.Is(match.MatchErr, mux.ErrMethodMismatch):
		http.Error(w, "method not allowed for this endpoint", http.StatusMethodNotAllowed)
		return
	case !matched:
		http.NotFound(w, r)
		return
	}

	apiEndpoint, ok := match.Handler.(*Endpoint)
	if !ok {
		http.NotFound(w, r)
		return
	}
	apiRequest.Route = match.Route
	apiRequest.HandlerCache = apiEndpoint
	for k, v := range match.Vars {
		apiRequest.URLVars[k] = v
	}

	apiEndpoint.ServeHTTP(w, r)
}

func moduleIsReady(m *modules.Module) bool {
	return m == nil || m.Online()
}

// ServeHTTP handles the http request.
func (e *Endpoint) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	apiRequest := GetAPIRequest(r)
	if apiRequest == nil {
		http.NotFound(w, r)
		return
	}

	// Wait for the owning module to be ready.
	if !moduleIsReady(e.BelongsTo) {
		http.Error(w, "The API endpoint is not ready yet or its module is not enabled. Please try again later.", http.StatusServiceUnavailable)
		return
	}

	switch r.Method {
	case http.MethodHead:
		w.WriteHeader(http.StatusOK)
		return
	case http.MethodOptions:
		w.WriteHeader(http.StatusNoContent)
		return
	case http.MethodPost, http.MethodPut, http.MethodDelete:
		inputData, ok := readBody(w, r)
		if !ok {
			return
		}
		apiRequest.InputData = inputData
	case http.MethodGet:
	default:
		http.Error(w, "unsupported method for the actions API", http.StatusMethodNotAllowed)
		return
	}

	var responseData []byte
	var err error

	switch {
	case e.ActionFunc != nil:
		var msg string
		msg, err = e.ActionFunc(apiRequest)
		if !strings.HasSuffix(msg, "\n") {
			msg += "\n"
		}
		responseData = []byte(msg)

	case e.DataFunc != nil:
		responseData, err = e.DataFunc(apiRequest)

	case e.StructFunc != nil:
		var v interface{}
		v, err = e.StructFunc(apiRequest)
		if err == nil {
			err = dsd.DumpToHTTPResponse(w, r, v, dsd.JSON)
			if err == nil {
				return
			}
			if errors.Is(err, dsd.ErrUnknownFormat) || errors.Is(err, dsd.ErrIncompatibleFormat) {
				err = fmt.Errorf("%w: %s", ErrInvalidRequest, err)
			}
		}

	case e.HandlerFunc != nil:
		e.HandlerFunc(w, r)
		return

	default:
		http.Error(w, "missing handler", http.StatusInternalServerError)
		return
	}

	if err != nil {
		http.Error(w, err.Error(), errorStatus(err))
		return
	}

	contentType := e.MimeType
	if strings.HasPrefix(contentType, "text/") || contentType == MimeTypeJSON {
		contentType += "; charset=utf-8"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(responseData)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(responseData); err != nil {
		log.Warningf("api: failed to write response: %s", err)
	}
}

func readBody(w http.ResponseWriter, r *http.Request) (inputData []byte, ok bool) {
	// Check for too long content in order to prevent death.
	if r.ContentLength > maxBodySize {
		http.Error(w, "too much input data", http.StatusRequestEntityTooLarge)
		return nil, false
	}

	inputData, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		http.Error(w, "failed to read body: "+err.Error(), http.StatusInternalServerError)
		return nil, false
	}
	return inputData, true
}
