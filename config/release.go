package config

import (
	"fmt"
	"sync/atomic"
)

// ReleaseLevel is used to define the maturity of a
// configuration setting.
type ReleaseLevel uint8

// Release Level constants.
const (
	ReleaseLevelStable       ReleaseLevel = 0
	ReleaseLevelBeta         ReleaseLevel = 1
	ReleaseLevelExperimental ReleaseLevel = 2

	ReleaseLevelNameStable       = "stable"
	ReleaseLevelNameBeta         = "beta"
	ReleaseLevelNameExperimental = "experimental"

	releaseLevelKey = "core/releaseLevel"
)

var releaseLevel = new(int32)

func init() {
	registerReleaseLevelOption()
}

func registerReleaseLevelOption() {
	err := Register(&Option{
		Name:        "Release Level",
		Key:         releaseLevelKey,
		Description: "The Release Level changes which settings take effect. Values of beta or experimental settings are ignored in the stable release level.",

		OptType:        OptTypeString,
		ExpertiseLevel: ExpertiseLevelExpert,
		ReleaseLevel:   ReleaseLevelStable,

		DefaultValue: ReleaseLevelNameStable,

		ExternalOptType: "string list",
		ValidationRegex: fmt.Sprintf("^(%s|%s|%s)$", ReleaseLevelNameStable, ReleaseLevelNameBeta, ReleaseLevelNameExperimental),
	})
	if err != nil {
		panic(err)
	}
}

// updateReleaseLevel must be called with the release level option locked.
func updateReleaseLevel(option *Option) {
	value := option.activeFallbackValue
	if option.activeDefaultValue != nil {
		value = option.activeDefaultValue
	}
	if option.activeValue != nil {
		value = option.activeValue
	}

	switch value.stringVal {
	case ReleaseLevelNameBeta:
		atomic.StoreInt32(releaseLevel, int32(ReleaseLevelBeta))
	case ReleaseLevelNameExperimental:
		atomic.StoreInt32(releaseLevel, int32(ReleaseLevelExperimental))
	default:
		atomic.StoreInt32(releaseLevel, int32(ReleaseLevelStable))
	}
}

func getReleaseLevel() ReleaseLevel {
	return ReleaseLevel(atomic.LoadInt32(releaseLevel))
}
