package dsd

import (
	"bytes"
	"mime"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMimeTypes(t *testing.T) {
	t.Parallel()

	// Test static maps.
	for _, mimeType := range FormatToMimeType {
		cleaned, _, err := mime.ParseMediaType(mimeType)
		assert.NoError(t, err, "mime type must be parse-able")
		assert.Equal(t, mimeType, cleaned, "mime type should be clean in map already")
	}
	for mimeType, format := range MimeTypeToFormat {
		cleaned, _, err := mime.ParseMediaType(mimeType)
		assert.NoError(t, err, "mime type must be parse-able")
		assert.Equal(t, mimeType, cleaned, "mime type should be clean in map already")
		assert.Equal(t, format, subTypeToFormat[extractMimeType(mimeType)], "sub type of %s", mimeType)
	}

	// Test assumptions.
	for mimeType, mimeTypeCleaned := range map[string]string{
		"application/xml, image/webp":       "xml",
		"application/xml;q=0.9, image/webp": "xml",
		"*":                                 "*",
		"*/*":                               "*",
		"text/yAMl":                         "yaml",
	} {
		cleaned := extractMimeType(mimeType)
		assert.Equal(t, mimeTypeCleaned, cleaned, "assumption for %q should hold", mimeType)
	}
}

func TestFormatFromRequest(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		url    string
		accept string
		want   SerializationFormat
	}{
		{"/x", "", JSON},
		{"/x", "*/*", JSON},
		{"/x", "application/cbor", CBOR},
		{"/x", "application/x-yaml;q=0.9", YAML},
		{"/x?format=msgpack", "application/cbor", MsgPack},
		{"/x?format=RAW", "", RAW},
	} {
		r := httptest.NewRequest(http.MethodGet, tc.url, nil)
		if tc.accept != "" {
			r.Header.Set("Accept", tc.accept)
		}
		got, err := FormatFromRequest(r, JSON)
		require.NoError(t, err, tc.url)
		assert.Equal(t, tc.want, got, "%s with Accept %q", tc.url, tc.accept)
	}

	_, err := FormatFromRequest(httptest.NewRequest(http.MethodGet, "/x?format=xml", nil), JSON)
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestHTTPRoundTrip(t *testing.T) {
	t.Parallel()

	in := &SimpleTestStruct{S: "abc", B: 7, Bytes: []byte{0xb2, 0x39, 0x63}}

	for _, format := range []SerializationFormat{JSON, CBOR, MsgPack, YAML} {
		r := httptest.NewRequest(http.MethodGet, "/x?format="+format.String(), nil)
		w := httptest.NewRecorder()
		require.NoError(t, DumpToHTTPResponse(w, r, in, JSON), format.String())
		assert.Equal(t, FormatToMimeType[format], w.Header().Get("Content-Type"))

		post := httptest.NewRequest(http.MethodPost, "/x", bytes.NewReader(w.Body.Bytes()))
		post.Header.Set("Content-Type", w.Header().Get("Content-Type"))
		out := &SimpleTestStruct{}
		loadedFormat, err := LoadFromHTTPRequest(post, out)
		require.NoError(t, err, format.String())
		assert.Equal(t, format, loadedFormat)
		assert.Equal(t, in, out, format.String())
	}

	// Raw only works for byte slices.
	r := httptest.NewRequest(http.MethodGet, "/x?format=raw", nil)
	w := httptest.NewRecorder()
	assert.ErrorIs(t, DumpToHTTPResponse(w, r, in, JSON), ErrIncompatibleFormat)
	w = httptest.NewRecorder()
	require.NoError(t, DumpToHTTPResponse(w, r, in.Bytes, JSON))
	assert.Equal(t, in.Bytes, w.Body.Bytes())
	assert.Equal(t, "application/octet-stream", w.Header().Get("Content-Type"))
}
