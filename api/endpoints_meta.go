package api

import (
	"net/http"

	"github.com/safing/poolrand/info"
)

func registerMetaEndpoints() error {
	if err := RegisterEndpoint(Endpoint{
		Path:        "endpoints",
		Method:      http.MethodGet,
		StructFunc:  listEndpoints,
		Name:        "Export API Endpoints",
		Description: "Returns a list of all registered endpoints and their metadata.",
	}); err != nil {
		return err
	}

	if err := RegisterEndpoint(Endpoint{
		Path:        "version",
		Method:      http.MethodGet,
		StructFunc:  getVersion,
		Name:        "Get Version",
		Description: "Returns version and build information.",
	}); err != nil {
		return err
	}

	return RegisterEndpoint(Endpoint{
		Path:        "ping",
		ActionFunc:  ping,
		Name:        "Ping",
		Description: "Pong.",
	})
}

func listEndpoints(ar *Request) (i interface{}, err error) {
	return ExportEndpoints(), nil
}

func ping(ar *Request) (msg string, err error) {
	return "Pong.", nil
}

func getVersion(_ *Request) (i interface{}, err error) {
	return info.GetInfo(), nil
}
