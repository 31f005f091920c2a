package config

// ExpertiseLevel allows to group settings by user expertise.
type ExpertiseLevel uint8

// Expertise Level constants.
const (
	ExpertiseLevelUser      ExpertiseLevel = 0
	ExpertiseLevelExpert    ExpertiseLevel = 1
	ExpertiseLevelDeveloper ExpertiseLevel = 2

	ExpertiseLevelNameUser      = "user"
	ExpertiseLevelNameExpert    = "expert"
	ExpertiseLevelNameDeveloper = "developer"
)

func (el ExpertiseLevel) String() string {
	switch el {
	case ExpertiseLevelUser:
		return ExpertiseLevelNameUser
	case ExpertiseLevelExpert:
		return ExpertiseLevelNameExpert
	case ExpertiseLevelDeveloper:
		return ExpertiseLevelNameDeveloper
	default:
		return "unknown"
	}
}

// ParseExpertiseLevel returns the expertise level with the given name.
func ParseExpertiseLevel(name string) (level ExpertiseLevel, ok bool) {
	switch name {
	case ExpertiseLevelNameUser:
		return ExpertiseLevelUser, true
	case ExpertiseLevelNameExpert:
		return ExpertiseLevelExpert, true
	case ExpertiseLevelNameDeveloper:
		return ExpertiseLevelDeveloper, true
	default:
		return 0, false
	}
}
