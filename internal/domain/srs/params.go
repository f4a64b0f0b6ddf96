package srs

// Params defines the configurable constants of the scheduling algorithm.
// The specific multipliers are product-tuning values; the invariants the
// algorithm guarantees regardless of tuning are that EaseFactor stays within
// [MinEaseFactor, MaxEaseFactor] and intervals stay >= 1 day.
type Params struct {
	// Ease factor limits
	MinEaseFactor float64
	MaxEaseFactor float64

	// Ease factor adjustments per outcome. Good leaves the ease untouched.
	AgainEasePenalty float64
	HardEasePenalty  float64
	EasyEaseBonus    float64

	// Interval shaping
	HardIntervalFactor     float64 // shrink applied on Hard past the first repetition
	EasyBonus              float64 // extra growth applied on Easy
	GraduatingIntervalDays int     // interval after the second consecutive Good

	// MasteryThresholdDays is the interval at which an item counts as mastered.
	MasteryThresholdDays int
}

// NewDefaultParams returns the stock tuning.
func NewDefaultParams() *Params {
	return &Params{
		MinEaseFactor: 1.3,
		MaxEaseFactor: 3.0,

		AgainEasePenalty: 0.20,
		HardEasePenalty:  0.15,
		EasyEaseBonus:    0.15,

		HardIntervalFactor:     0.85,
		EasyBonus:              1.3,
		GraduatingIntervalDays: 3,

		MasteryThresholdDays: 21,
	}
}

// ParamsConfig overrides individual defaults when building a Params instance.
// Zero values leave the corresponding default in place.
type ParamsConfig struct {
	MinEaseFactor          float64
	MaxEaseFactor          float64
	AgainEasePenalty       float64
	HardEasePenalty        float64
	EasyEaseBonus          float64
	HardIntervalFactor     float64
	EasyBonus              float64
	GraduatingIntervalDays int
	MasteryThresholdDays   int
}

// NewParams creates a Params instance with custom configuration applied over
// the defaults.
func NewParams(config ParamsConfig) *Params {
	params := NewDefaultParams()

	if config.MinEaseFactor > 0 {
		params.MinEaseFactor = config.MinEaseFactor
	}
	if config.MaxEaseFactor > 0 {
		params.MaxEaseFactor = config.MaxEaseFactor
	}
	if config.AgainEasePenalty > 0 {
		params.AgainEasePenalty = config.AgainEasePenalty
	}
	if config.HardEasePenalty > 0 {
		params.HardEasePenalty = config.HardEasePenalty
	}
	if config.EasyEaseBonus > 0 {
		params.EasyEaseBonus = config.EasyEaseBonus
	}
	if config.HardIntervalFactor > 0 {
		params.HardIntervalFactor = config.HardIntervalFactor
	}
	if config.EasyBonus > 0 {
		params.EasyBonus = config.EasyBonus
	}
	if config.GraduatingIntervalDays > 0 {
		params.GraduatingIntervalDays = config.GraduatingIntervalDays
	}
	if config.MasteryThresholdDays > 0 {
		params.MasteryThresholdDays = config.MasteryThresholdDays
	}

	return params
}
