package main

import (
	"os"

	_ "github.com/safing/poolrand/api"
	"github.com/safing/poolrand/info"
	_ "github.com/safing/poolrand/metrics"
	_ "github.com/safing/poolrand/rng"
	"github.com/safing/poolrand/run"
)

func main() {
	info.Set("Poolrand", "0.1.0", "GPLv3")

	os.Exit(run.Run())
}
