package progression

// Params defines the configurable constants of the progression rules.
type Params struct {
	// XPPerLevel is the amount of XP each level costs. Level is derived
	// as floor(xp / XPPerLevel) + 1.
	XPPerLevel int

	// LenientPassPercent is the minimum percentage that counts as a
	// pass for units graded with the lenient threshold (checkpoint
	// quizzes in the day-based program).
	LenientPassPercent int
}

// ParamsConfig allows overriding the default parameters when creating a
// new Params instance.
type ParamsConfig struct {
	XPPerLevel         int
	LenientPassPercent int
}

// NewDefaultParams creates a new Params instance with default values.
func NewDefaultParams() *Params {
	return &Params{
		XPPerLevel:         100,
		LenientPassPercent: 66,
	}
}

// NewParams creates a new Params instance with custom configuration.
// Zero-valued fields keep their defaults.
func NewParams(config ParamsConfig) *Params {
	params := NewDefaultParams()

	if config.XPPerLevel > 0 {
		params.XPPerLevel = config.XPPerLevel
	}
	if config.LenientPassPercent > 0 {
		params.LenientPassPercent = config.LenientPassPercent
	}

	return params
}
