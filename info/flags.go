package info

import (
	"flag"
	"fmt"

	"github.com/safing/poolrand/log"
	"github.com/safing/poolrand/modules"
)

var printVersion bool

func init() {
	modules.Register("info", checkVersionFlag, logVersion, nil)

	flag.BoolVar(&printVersion, "version", false, "print version and build information, then exit")
}

// checkVersionFlag ends startup before any other module is started.
func checkVersionFlag() error {
	if !printVersion {
		return nil
	}
	fmt.Println(FullVersion())
	return modules.ErrCleanExit
}

func logVersion() error {
	i := GetInfo()
	log.Infof("info: starting %s %s (%s)", i.Name, Version(), i.GoVersion)
	return nil
}
