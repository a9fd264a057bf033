package calc

type Sex string

const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
)

type ActivityLevel string

const (
	ActivitySedentary  ActivityLevel = "sedentary"
	ActivityLight      ActivityLevel = "light"
	ActivityModerate   ActivityLevel = "moderate"
	ActivityActive     ActivityLevel = "active"
	ActivityVeryActive ActivityLevel = "very_active"
)

type GoalIntensity string

const (
	GoalConservative GoalIntensity = "conservative"
	GoalModerate     GoalIntensity = "moderate"
	GoalAggressive   GoalIntensity = "aggressive"
)

type ProteinPreference string

const (
	ProteinLow      ProteinPreference = "low"
	ProteinStandard ProteinPreference = "standard"
	ProteinHigh     ProteinPreference = "high"
)

// Params holds all tunable tables and thresholds of the calculation engine.
// Kept explicit (instead of inlined constants) so they are independently
// testable and tunable.
type Params struct {
	// ActivityFactors maps activity level to the TDEE multiplier.
	// Also the single source of truth for valid activity levels.
	ActivityFactors map[ActivityLevel]float64

	// SurplusByIntensity is the calorie surplus added on top of TDEE.
	SurplusByIntensity map[GoalIntensity]float64

	// MaxSurplus is the hard safety ceiling above TDEE.
	MaxSurplus float64

	// MinTargetCalories is the absolute floor for the daily target.
	MinTargetCalories float64

	// FatCaloriesShare is the fixed share of total calories coming from fat.
	FatCaloriesShare float64

	// ProteinPerKg maps activity level to grams of protein per kg of body weight.
	ProteinPerKg map[ActivityLevel]float64

	// ProteinPreferenceFactors scales the protein target by user preference.
	ProteinPreferenceFactors map[ProteinPreference]float64

	// Protein calories are re-clamped into [ProteinShareMin, ProteinShareMax]
	// of total calories. Carbs/fat shares are advisory only.
	ProteinShareMin float64
	ProteinShareMax float64
	CarbsShareMin   float64
	CarbsShareMax   float64
	FatShareMin     float64
	FatShareMax     float64

	// input validation bounds
	MinAge      int
	MaxAge      int
	MinWeightKg float64
	MaxWeightKg float64
	MinHeightCm float64
	MaxHeightCm float64
}

func DefaultParams() Params {
	return Params{
		ActivityFactors: map[ActivityLevel]float64{
			ActivitySedentary:  1.2,
			ActivityLight:      1.375,
			ActivityModerate:   1.55,
			ActivityActive:     1.725,
			ActivityVeryActive: 1.9,
		},
		SurplusByIntensity: map[GoalIntensity]float64{
			GoalConservative: 300,
			GoalModerate:     400,
			GoalAggressive:   500,
		},
		MaxSurplus:        1000,
		MinTargetCalories: 1200,
		FatCaloriesShare:  0.25,
		ProteinPerKg: map[ActivityLevel]float64{
			ActivitySedentary:  1.6,
			ActivityLight:      1.8,
			ActivityModerate:   2.0,
			ActivityActive:     2.2,
			ActivityVeryActive: 2.4,
		},
		ProteinPreferenceFactors: map[ProteinPreference]float64{
			ProteinLow:      0.85,
			ProteinStandard: 1.0,
			ProteinHigh:     1.15,
		},
		ProteinShareMin: 0.25,
		ProteinShareMax: 0.30,
		CarbsShareMin:   0.45,
		CarbsShareMax:   0.55,
		FatShareMin:     0.20,
		FatShareMax:     0.30,
		MinAge:          13,
		MaxAge:          120,
		MinWeightKg:     30,
		MaxWeightKg:     300,
		MinHeightCm:     100,
		MaxHeightCm:     250,
	}
}
