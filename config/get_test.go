package config

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseAndSetConfig(t *testing.T, jsonData string) error {
	t.Helper()

	m, err := JSONToMap([]byte(jsonData))
	require.NoError(t, err)
	return setConfig(m)
}

func parseAndSetDefaultConfig(t *testing.T, jsonData string) error {
	t.Helper()

	m, err := JSONToMap([]byte(jsonData))
	require.NoError(t, err)
	return SetDefaultConfig(m)
}

func registerGetOptions(t *testing.T) {
	t.Helper()

	for _, opt := range []*Option{
		{Key: "monkey", OptType: OptTypeString, DefaultValue: "c"},
		{Key: "zebras/zebra", OptType: OptTypeStringArray, DefaultValue: []string{"black", "white"}, ValidationRegex: "^[a-z]+$"},
		{Key: "elephant", OptType: OptTypeInt, DefaultValue: -1},
		{Key: "hot", OptType: OptTypeBool, DefaultValue: true},
		{Key: "cold", OptType: OptTypeBool, DefaultValue: false},
		{Key: "beta/feature", OptType: OptTypeInt, DefaultValue: 1, ReleaseLevel: ReleaseLevelBeta},
	} {
		opt.Name = opt.Key
		opt.Description = "test option"
		require.NoError(t, Register(opt))
	}
}

func TestGet(t *testing.T) {
	resetOptions(t)
	registerGetOptions(t)

	monkey := GetAsString("monkey", "none")
	zebra := GetAsStringArray("zebras/zebra", nil)
	elephant := GetAsInt("elephant", -2)
	hot := GetAsBool("hot", false)
	cold := Concurrent.GetAsBool("cold", true)
	unknown := GetAsString("unknown", "fallback")

	// Registered defaults.
	assert.Equal(t, "c", monkey())
	assert.Equal(t, []string{"black", "white"}, zebra())
	assert.Equal(t, int64(-1), elephant())
	assert.True(t, hot())
	assert.False(t, cold())
	assert.Equal(t, "fallback", unknown())

	require.NoError(t, parseAndSetDefaultConfig(t, `{"monkey": "0", "elephant": 0}`))
	assert.Equal(t, "0", monkey())
	assert.Equal(t, int64(0), elephant())

	require.NoError(t, parseAndSetConfig(t, `{
		"monkey": "1",
		"zebras": {"zebra": ["black", "grey"]},
		"elephant": 2,
		"hot": false,
		"cold": true
	}`))
	assert.Equal(t, "1", monkey())
	assert.Equal(t, []string{"black", "grey"}, zebra())
	assert.Equal(t, int64(2), elephant())
	assert.False(t, hot())
	assert.True(t, cold())

	require.NoError(t, SetConfigOption("elephant", nil))
	assert.Equal(t, int64(0), elephant(), "reset falls back to default config")
	require.NoError(t, SetDefaultConfigOption("elephant", nil))
	assert.Equal(t, int64(-1), elephant(), "reset falls back to registered default")

	err := SetConfigOption("zebras/zebra", []string{"Black"})
	var ive *InvalidValueError
	assert.ErrorAs(t, err, &ive)
	assert.Equal(t, []string{"black", "grey"}, zebra(), "invalid value must not be applied")

	assert.ErrorIs(t, SetConfigOption("unknown", 1), ErrUnknownOption)
}

func TestReleaseLevel(t *testing.T) {
	resetOptions(t)
	registerGetOptions(t)

	feature := GetAsInt("beta/feature", 0)
	require.NoError(t, SetConfigOption("beta/feature", 5))
	assert.Equal(t, int64(1), feature(), "beta value must be ignored in stable")

	require.NoError(t, SetConfigOption(releaseLevelKey, ReleaseLevelNameBeta))
	assert.Equal(t, ReleaseLevelBeta, getReleaseLevel())
	assert.Equal(t, int64(5), feature())

	assert.Error(t, SetConfigOption(releaseLevelKey, "nightly"))
	assert.Equal(t, ReleaseLevelBeta, getReleaseLevel())
}

func TestValidateNumbers(t *testing.T) {
	t.Parallel()

	opt := &Option{Key: "n", OptType: OptTypeInt}

	for _, v := range []interface{}{int8(3), uint16(3), float32(3), float64(3), uint(3), int64(3)} {
		vc, err := validateValue(opt, v)
		require.NoError(t, err, "%T", v)
		assert.Equal(t, int64(3), vc.intVal)
	}

	_, err := validateValue(opt, 3.5)
	assert.Error(t, err)
	_, err = validateValue(opt, uint64(1<<63))
	assert.Error(t, err)
	_, err = validateValue(opt, "3")
	assert.Error(t, err)
	_, err = validateValue(opt, struct{}{})
	assert.Error(t, err)
}

func TestConcurrentGetter(t *testing.T) {
	resetOptions(t)
	registerGetOptions(t)

	elephant := Concurrent.GetAsInt("elephant", 0)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				_ = SetConfigOption("elephant", i)
			}
			_ = elephant()
		}(i)
	}
	wg.Wait()

	require.NoError(t, SetConfigOption("elephant", 42))
	assert.Equal(t, int64(42), elephant())
}
