package api

import (
	"flag"

	"github.com/safing/poolrand/config"
	"github.com/safing/poolrand/log"
)

// Config Keys.
const (
	CfgDefaultListenAddressKey = "core/api/listen"

	defaultListenAddress = "127.0.0.1:8117"
)

var (
	listenAddressFlag   string
	listenAddressConfig config.StringOption
)

func init() {
	flag.StringVar(&listenAddressFlag, "api-address", "", "override api listen address")
}

func logFlagOverrides() {
	if listenAddressFlag != "" {
		log.Warningf("api: %s config is being overridden by -api-address flag", CfgDefaultListenAddressKey)
	}
}

func getListenAddress() string {
	if listenAddressFlag != "" {
		return listenAddressFlag
	}
	return listenAddressConfig()
}

func registerConfig() error {
	err := config.Register(&config.Option{
		Name:            "API Address",
		Key:             CfgDefaultListenAddressKey,
		Description:     "Defines the IP address and port for the HTTP API.",
		OptType:         config.OptTypeString,
		ExpertiseLevel:  config.ExpertiseLevelDeveloper,
		ReleaseLevel:    config.ReleaseLevelStable,
		DefaultValue:    defaultListenAddress,
		ValidationRegex: `^([0-9]{1,3}\.[0-9]{1,3}\.[0-9]{1,3}\.[0-9]{1,3}:[0-9]{1,5}|\[[:0-9A-Fa-f]+\]:[0-9]{1,5})$`,
		RequiresRestart: true,
	})
	if err != nil {
		return err
	}
	listenAddressConfig = config.GetAsString(CfgDefaultListenAddressKey, defaultListenAddress)

	return nil
}
