package info

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFullVersion(t *testing.T) {
	t.Parallel()

	Set("Poolrand", "1.2.3", "GPLv3")
	full := FullVersion()

	assert.Contains(t, full, "Poolrand 1.2.3")
	assert.Contains(t, full, runtime.Version())
	assert.Contains(t, full, "Licensed under the GPLv3 license.")
	assert.Equal(t, runtime.Version(), GetInfo().GoVersion)
}
