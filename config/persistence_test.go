package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONMapConversion(t *testing.T) {
	t.Parallel()

	jsonData := `{
  "a": "b",
  "c": {
    "d": "e",
    "f": "g",
    "h": {
      "i": "j",
      "k": "l",
      "m": {
        "n": "o"
      }
    }
  },
  "p": "q"
}`

	mapData := map[string]interface{}{
		"a":       "b",
		"p":       "q",
		"c/d":     "e",
		"c/f":     "g",
		"c/h/i":   "j",
		"c/h/k":   "l",
		"c/h/m/n": "o",
	}

	m, err := JSONToMap([]byte(jsonData))
	require.NoError(t, err)
	assert.Equal(t, mapData, m)

	j, err := MapToJSON(mapData)
	require.NoError(t, err)
	assert.Equal(t, jsonData, string(j))
	assert.Len(t, mapData, 7, "input map must not be altered")

	_, err = JSONToMap([]byte(`{"a": `))
	assert.ErrorIs(t, err, ErrInvalidJSON)
}

func registerPersistenceOptions(t *testing.T) {
	t.Helper()

	require.NoError(t, Register(&Option{
		Name:         "Pool Size",
		Key:          "random/pool_size",
		Description:  "description",
		OptType:      OptTypeInt,
		DefaultValue: 256,
	}))
	require.NoError(t, Register(&Option{
		Name:         "Listen",
		Key:          "core/api/listen",
		Description:  "description",
		OptType:      OptTypeString,
		DefaultValue: "127.0.0.1:8117",
	}))
}

func TestLoadAndSaveYAML(t *testing.T) {
	resetOptions(t)
	registerPersistenceOptions(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("random:\n  pool_size: 512\ncore:\n  api:\n    listen: 0.0.0.0:9000\n"), 0o600))
	SetConfigFile(path)
	defer SetConfigFile("")

	require.NoError(t, loadConfig())
	assert.Equal(t, int64(512), GetAsInt("random/pool_size", 0)())
	assert.Equal(t, "0.0.0.0:9000", GetAsString("core/api/listen", "")())

	require.NoError(t, SetConfigOption("random/pool_size", 1024))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "pool_size: 1024")
	assert.Contains(t, string(data), "listen: 0.0.0.0:9000")
}

func TestLoadInvalidValues(t *testing.T) {
	resetOptions(t)
	registerPersistenceOptions(t)

	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"random": {"pool_size": "big"}, "core": {"api": {"listen": 1}}}`), 0o600))
	SetConfigFile(path)
	defer SetConfigFile("")

	err := loadConfig()
	require.Error(t, err)
	var ive *InvalidValueError
	assert.ErrorAs(t, err, &ive)

	// Invalid values fall back to the defaults.
	assert.Equal(t, int64(256), GetAsInt("random/pool_size", 0)())
	assert.Equal(t, "127.0.0.1:8117", GetAsString("core/api/listen", "")())
}

func TestMissingConfigFile(t *testing.T) {
	resetOptions(t)

	SetConfigFile(filepath.Join(t.TempDir(), "missing.json"))
	defer SetConfigFile("")

	assert.NoError(t, start())
}
