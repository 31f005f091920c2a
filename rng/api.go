package rng

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/safing/poolrand/api"
	"github.com/safing/poolrand/formats/dsd"
)

const defaultAPIBytes = 32

// BytesResponse is returned by the random bytes endpoint.
type BytesResponse struct {
	Bytes []byte `json:"bytes"`
}

// StatusResponse is returned by the random status endpoint.
type StatusResponse struct {
	Ready    bool        `json:"ready"`
	Seeded   bool        `json:"seeded"`
	PoolSize int         `json:"pool_size,omitempty"`
	Seed     *SeedReport `json:"seed,omitempty"`
}

func registerAPIEndpoints() error {
	if err := api.RegisterEndpoint(api.Endpoint{
		Path:        "random/bytes",
		Method:      http.MethodGet,
		BelongsTo:   module,
		StructFunc:  handleBytes,
		Name:        "Get Random Bytes",
		Description: "Returns random bytes from the process wide generator.",
		Parameters: []api.Parameter{{
			Method:      http.MethodGet,
			Field:       "n",
			Value:       "number of bytes",
			Description: "Defaults to 32, limited by " + CfgMaxAPIBytesKey + ".",
		}, {
			Method:      http.MethodGet,
			Field:       dsd.FormatQueryParam,
			Value:       "json|cbor|msgpack|yaml|raw",
			Description: "Response format. raw returns the bytes as an octet stream.",
		}},
	}); err != nil {
		return err
	}

	if err := api.RegisterEndpoint(api.Endpoint{
		Path:        "random/raw",
		Method:      http.MethodGet,
		BelongsTo:   module,
		MimeType:    api.MimeTypeOctetStream,
		DataFunc:    handleRaw,
		Name:        "Get Raw Random Bytes",
		Description: "Returns random bytes as an octet stream.",
	}); err != nil {
		return err
	}

	if err := api.RegisterEndpoint(api.Endpoint{
		Path:        "random/mix",
		Method:      http.MethodPost,
		BelongsTo:   module,
		ActionFunc:  handleMix,
		Name:        "Mix Entropy",
		Description: "Mixes the current time and an optional 32 bit value into the entropy pool. Has no effect on output once the generator is keyed.",
		Parameters: []api.Parameter{{
			Method:      http.MethodPost,
			Field:       "value",
			Value:       "signed 32 bit integer",
			Description: "Optional value to mix in.",
		}},
	}); err != nil {
		return err
	}

	return api.RegisterEndpoint(api.Endpoint{
		Path:        "random/status",
		Method:      http.MethodGet,
		BelongsTo:   module,
		StructFunc:  handleStatus,
		Name:        "Generator Status",
		Description: "Reports whether the generator is keyed and how its pool was filled.",
	})
}

func requestedCount(ar *api.Request) (int, error) {
	n := defaultAPIBytes
	if v := ar.Request.URL.Query().Get("n"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("%w: n must be a number", api.ErrInvalidRequest)
		}
		n = parsed
	}

	switch {
	case n < 0:
		return 0, fmt.Errorf("%w: n must not be negative", api.ErrInvalidRequest)
	case int64(n) > maxAPIBytesOption():
		return 0, fmt.Errorf("%w: n exceeds maximum of %d", api.ErrInvalidRequest, maxAPIBytesOption())
	}
	return n, nil
}

func handleBytes(ar *api.Request) (interface{}, error) {
	n, err := requestedCount(ar)
	if err != nil {
		return nil, err
	}
	b, err := Bytes(n)
	if err != nil {
		return nil, err
	}

	// Raw output is the plain byte slice, every other format gets the wrapper.
	if format, _ := dsd.FormatFromRequest(ar.Request, dsd.JSON); format == dsd.RAW {
		return b, nil
	}
	return &BytesResponse{Bytes: b}, nil
}

func handleRaw(ar *api.Request) ([]byte, error) {
	n, err := requestedCount(ar)
	if err != nil {
		return nil, err
	}
	return Bytes(n)
}

func handleMix(ar *api.Request) (string, error) {
	if v := ar.Request.URL.Query().Get("value"); v != "" {
		x, err := strconv.ParseInt(v, 10, 32)
		if err != nil {
			return "", fmt.Errorf("%w: value must be a 32 bit integer", api.ErrInvalidRequest)
		}
		if err := MixInt32(int32(x)); err != nil {
			return "", err
		}
	}

	if err := MixTimestamp(); err != nil {
		return "", err
	}
	return "entropy mixed", nil
}

func handleStatus(ar *api.Request) (interface{}, error) {
	src, err := getSource()
	if err != nil {
		return &StatusResponse{}, nil //nolint:nilerr // Not being ready is a valid status.
	}

	status := &StatusResponse{
		Ready:    true,
		Seeded:   src.Seeded(),
		PoolSize: src.PoolSize(),
	}
	if report, ok := src.SeedReport(); ok {
		status.Seed = &report
	}
	return status, nil
}
