package rng

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safing/poolrand/api"
)

func TestMain(m *testing.M) {
	if err := prep(); err != nil {
		panic(err)
	}
	if err := start(); err != nil {
		panic(err)
	}
	module.Started.Set()
	os.Exit(m.Run())
}

func serve(t *testing.T, method, url string) *httptest.ResponseRecorder {
	t.Helper()

	w := httptest.NewRecorder()
	api.Handler().ServeHTTP(w, httptest.NewRequest(method, url, nil))
	return w
}

func TestPackageFunctions(t *testing.T) {
	t.Parallel()

	require.NoError(t, MixInt32(7))
	require.NoError(t, MixTimestamp())

	b, err := Bytes(16)
	require.NoError(t, err)
	assert.Len(t, b, 16)

	require.NoError(t, NextBytes(make([]byte, 8)))

	n, err := Read(make([]byte, 4))
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	n, err = Reader.Read(make([]byte, 3))
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	x, err := Number(5)
	require.NoError(t, err)
	assert.LessOrEqual(t, x, uint64(5))

	assert.True(t, defaultSource.Seeded())
}

func TestFeederDuration(t *testing.T) {
	t.Parallel()

	assert.Equal(t, defaultFeederInterval*time.Millisecond, feederTickDuration())
}

func TestTickFeederExitsWhenSeeded(t *testing.T) {
	t.Parallel()

	src := newTestSource(t)
	src.NextBytes(make([]byte, 1))

	done := make(chan error)
	go func() {
		done <- tickFeeder(module.Ctx, src, func() time.Duration { return time.Millisecond })
	}()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("tick feeder did not exit")
	}
}

func TestAPIBytes(t *testing.T) {
	t.Parallel()

	w := serve(t, http.MethodGet, "/api/v1/random/bytes?n=8")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := &BytesResponse{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), resp))
	assert.Len(t, resp.Bytes, 8)

	w = serve(t, http.MethodGet, "/api/v1/random/bytes")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), resp))
	assert.Len(t, resp.Bytes, defaultAPIBytes)

	w = serve(t, http.MethodGet, "/api/v1/random/bytes?n=5&format=raw")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, w.Body.Bytes(), 5)
	assert.Equal(t, "application/octet-stream", w.Header().Get("Content-Type"))

	w = serve(t, http.MethodGet, "/api/v1/random/bytes?n=6&format=cbor")
	require.Equal(t, http.StatusOK, w.Code)
	resp = &BytesResponse{}
	require.NoError(t, cbor.Unmarshal(w.Body.Bytes(), resp))
	assert.Len(t, resp.Bytes, 6)

	for _, query := range []string{"n=-1", "n=abc", "n=100000", "format=xml"} {
		w = serve(t, http.MethodGet, "/api/v1/random/bytes?"+query)
		assert.Equal(t, http.StatusBadRequest, w.Code, query)
	}
}

func TestAPIRawMixStatus(t *testing.T) {
	t.Parallel()

	w := serve(t, http.MethodGet, "/api/v1/random/raw?n=12")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, w.Body.Bytes(), 12)

	w = serve(t, http.MethodPost, "/api/v1/random/mix?value=-12")
	assert.Equal(t, http.StatusOK, w.Code)
	w = serve(t, http.MethodPost, "/api/v1/random/mix")
	assert.Equal(t, http.StatusOK, w.Code)
	w = serve(t, http.MethodPost, "/api/v1/random/mix?value=99999999999")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = serve(t, http.MethodGet, "/api/v1/random/mix")
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)

	w = serve(t, http.MethodGet, "/api/v1/random/status")
	require.Equal(t, http.StatusOK, w.Code)
	status := &StatusResponse{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), status))
	assert.True(t, status.Ready)
	assert.Equal(t, PoolSize, status.PoolSize)
}
