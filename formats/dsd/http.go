package dsd

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
)

// HTTP Errors.
var (
	ErrMissingBody        = errors.New("dsd: missing http body")
	ErrMissingContentType = errors.New("dsd: missing http content type")
)

const (
	httpHeaderContentType = "Content-Type"

	// FormatQueryParam is the query parameter that selects the response format.
	FormatQueryParam = "format"
)

var (
	// FormatToMimeType maps formats to their mime types.
	FormatToMimeType = map[SerializationFormat]string{
		RAW:     "application/octet-stream",
		JSON:    "application/json",
		CBOR:    "application/cbor",
		MsgPack: "application/msgpack",
		YAML:    "application/yaml",
	}

	// MimeTypeToFormat maps mime types to formats.
	MimeTypeToFormat = map[string]SerializationFormat{
		"application/octet-stream": RAW,
		"application/json":         JSON,
		"application/cbor":         CBOR,
		"application/msgpack":      MsgPack,
		"application/x-msgpack":    MsgPack,
		"application/yaml":         YAML,
		"application/x-yaml":       YAML,
		"text/yaml":                YAML,
	}

	// subTypeToFormat is used for loosely matching the Accept header.
	subTypeToFormat = map[string]SerializationFormat{
		"octet-stream": RAW,
		"json":         JSON,
		"cbor":         CBOR,
		"msgpack":      MsgPack,
		"x-msgpack":    MsgPack,
		"yaml":         YAML,
		"x-yaml":       YAML,
	}
)

// extractMimeType returns the lowercase sub type of the first mime type in
// an Accept or Content-Type header value.
func extractMimeType(headerValue string) string {
	mimeType := strings.ToLower(strings.TrimSpace(headerValue))
	if i := strings.IndexAny(mimeType, ",;"); i >= 0 {
		mimeType = strings.TrimSpace(mimeType[:i])
	}
	if i := strings.Index(mimeType, "/"); i >= 0 {
		return mimeType[i+1:]
	}
	return mimeType
}

// FormatFromRequest returns the response format requested by r: the format
// query parameter takes precedence over the Accept header. Unknown or
// missing values select the fallback.
func FormatFromRequest(r *http.Request, fallback SerializationFormat) (SerializationFormat, error) {
	if name := r.URL.Query().Get(FormatQueryParam); name != "" {
		format, ok := FormatFromName(strings.ToLower(name))
		if !ok {
			return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
		}
		return format, nil
	}

	if format, ok := subTypeToFormat[extractMimeType(r.Header.Get("Accept"))]; ok {
		return format, nil
	}
	return fallback, nil
}

// LoadFromHTTPRequest loads the body of the request into t, using the
// format given by the Content-Type header.
func LoadFromHTTPRequest(r *http.Request, t interface{}) (SerializationFormat, error) {
	if r.Body == nil {
		return 0, ErrMissingBody
	}
	defer func() {
		_ = r.Body.Close()
	}()

	data, err := io.ReadAll(r.Body)
	if err != nil {
		return 0, fmt.Errorf("dsd: failed to read http body: %w", err)
	}

	contentType := r.Header.Get(httpHeaderContentType)
	if contentType == "" {
		return 0, ErrMissingContentType
	}
	format, ok := subTypeToFormat[extractMimeType(contentType)]
	if !ok || format == RAW {
		return 0, ErrIncompatibleFormat
	}

	return format, LoadAsFormat(data, format, t)
}

// DumpToHTTPResponse serializes t in the format requested by r and writes it
// to w. Byte slices may also be requested in the RAW format.
func DumpToHTTPResponse(w http.ResponseWriter, r *http.Request, t interface{}, fallback SerializationFormat) error {
	format, err := FormatFromRequest(r, fallback)
	if err != nil {
		return err
	}

	data, err := DumpWithoutIdentifier(t, format)
	if err != nil {
		return err
	}

	w.Header().Set(httpHeaderContentType, FormatToMimeType[format])
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("dsd: failed to write response: %w", err)
	}
	return nil
}
