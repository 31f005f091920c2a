package api

import (
	"os"
	"testing"
)

func TestMain(m *testing.M) {
	if err := prep(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}
