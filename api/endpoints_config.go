package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/safing/poolrand/config"
)

func registerConfigEndpoints() error {
	if err := RegisterEndpoint(Endpoint{
		Path:        "config/options",
		Method:      http.MethodGet,
		MimeType:    MimeTypeJSON,
		DataFunc:    listConfig,
		Name:        "Export Configuration Options",
		Description: "Returns a list of all registered configuration options and their metadata, including the current values.",
	}); err != nil {
		return err
	}

	return RegisterEndpoint(Endpoint{
		Path:        "config/options/{key:.+}",
		Method:      http.MethodPut,
		ActionFunc:  setConfigOption,
		Name:        "Set Configuration Option",
		Description: "Sets the user value of the option to the JSON encoded request body. A body of null resets the option.",
	})
}

func listConfig(ar *Request) ([]byte, error) {
	options := config.ExportOptions()
	exported := make([]json.RawMessage, 0, len(options))
	for _, option := range options {
		data, err := option.Export()
		if err != nil {
			return nil, fmt.Errorf("failed to export option %s: %w", option.Key, err)
		}
		exported = append(exported, data)
	}
	return json.Marshal(exported)
}

func setConfigOption(ar *Request) (msg string, err error) {
	key := ar.URLVars["key"]

	var value interface{}
	if err := json.Unmarshal(ar.InputData, &value); err != nil {
		return "", fmt.Errorf("%w: body must be a JSON value: %s", ErrInvalidRequest, err)
	}

	err = config.SetConfigOption(key, value)
	var ive *config.InvalidValueError
	switch {
	case err == nil:
	case errors.Is(err, config.ErrUnknownOption):
		return "", fmt.Errorf("%w: %s", ErrNotFound, err)
	case errors.As(err, &ive):
		return "", fmt.Errorf("%w: %s", ErrInvalidRequest, err)
	default:
		return "", err
	}
	return fmt.Sprintf("set %s", key), nil
}
