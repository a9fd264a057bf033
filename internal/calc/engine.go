package calc

import (
	"errors"
	"fmt"
	"math"
)

var ErrInvalidInput = errors.New("invalid input")

// Engine computes BMR, TDEE, a safety-capped daily calorie target and
// macro targets for a weight gain goal. All methods are pure functions
// over the injected Params.
type Engine struct {
	params Params
}

func NewEngine(params Params) *Engine {
	return &Engine{
		params: params,
	}
}

func NewDefaultEngine() *Engine {
	return NewEngine(DefaultParams())
}

// BMR computes the basal metabolic rate via Mifflin-St Jeor:
// male:   10*w + 6.25*h - 5*a + 5
// female: 10*w + 6.25*h - 5*a - 161
func (e *Engine) BMR(weightKg, heightCm float64, age int, sex Sex) (float64, error) {
	p := e.params
	if age < p.MinAge || age > p.MaxAge {
		return 0, fmt.Errorf("%w: age must be within [%d, %d], got %d", ErrInvalidInput, p.MinAge, p.MaxAge, age)
	}
	if weightKg < p.MinWeightKg || weightKg > p.MaxWeightKg {
		return 0, fmt.Errorf("%w: weight must be within [%.0f, %.0f] kg, got %.1f", ErrInvalidInput, p.MinWeightKg, p.MaxWeightKg, weightKg)
	}
	if heightCm < p.MinHeightCm || heightCm > p.MaxHeightCm {
		return 0, fmt.Errorf("%w: height must be within [%.0f, %.0f] cm, got %.1f", ErrInvalidInput, p.MinHeightCm, p.MaxHeightCm, heightCm)
	}

	bmr := 10*weightKg + 6.25*heightCm - 5*float64(age)
	switch sex {
	case SexMale:
		bmr += 5
	case SexFemale:
		bmr -= 161
	default:
		return 0, fmt.Errorf("%w: unknown sex: %s", ErrInvalidInput, sex)
	}

	return bmr, nil
}

// TDEE scales the BMR by the activity factor.
func (e *Engine) TDEE(bmr float64, activityLevel ActivityLevel) (float64, error) {
	if bmr <= 0 {
		return 0, fmt.Errorf("%w: bmr must be positive, got %.1f", ErrInvalidInput, bmr)
	}

	factor, ok := e.params.ActivityFactors[activityLevel]
	if !ok {
		return 0, fmt.Errorf("%w: unknown activity level: %s", ErrInvalidInput, activityLevel)
	}

	return bmr * factor, nil
}

// TargetCalories adds the goal surplus on top of TDEE, then clamps the
// result so it never exceeds tdee+MaxSurplus and never drops below
// MinTargetCalories.
func (e *Engine) TargetCalories(tdee float64, goalIntensity GoalIntensity) (float64, error) {
	if tdee <= 0 {
		return 0, fmt.Errorf("%w: tdee must be positive, got %.1f", ErrInvalidInput, tdee)
	}

	surplus, ok := e.params.SurplusByIntensity[goalIntensity]
	if !ok {
		return 0, fmt.Errorf("%w: unknown goal intensity: %s", ErrInvalidInput, goalIntensity)
	}

	target := tdee + surplus
	if target > tdee+e.params.MaxSurplus {
		target = tdee + e.params.MaxSurplus
	}
	if target < e.params.MinTargetCalories {
		target = e.params.MinTargetCalories
	}

	return target, nil
}

type MacroTargets struct {
	ProteinGrams int `json:"proteinGrams"`
	CarbsGrams   int `json:"carbsGrams"`
	FatGrams     int `json:"fatGrams"`

	ProteinPct float64 `json:"proteinPct"`
	CarbsPct   float64 `json:"carbsPct"`
	FatPct     float64 `json:"fatPct"`

	// advisory flags, percentage within the recommended range
	ProteinInRange bool `json:"proteinInRange"`
	CarbsInRange   bool `json:"carbsInRange"`
	FatInRange     bool `json:"fatInRange"`
}

// MacroTargets splits the daily calorie target into protein/carbs/fat grams.
// Protein comes from body weight and activity level, re-clamped so protein
// calories occupy [ProteinShareMin, ProteinShareMax] of the total; fat is a
// fixed share of total calories; carbs take the remainder.
func (e *Engine) MacroTargets(
	totalCalories, bodyWeightKg float64,
	activityLevel ActivityLevel,
	proteinPreference ProteinPreference,
) (*MacroTargets, error) {
	p := e.params
	if totalCalories <= 0 {
		return nil, fmt.Errorf("%w: total calories must be positive, got %.1f", ErrInvalidInput, totalCalories)
	}
	if bodyWeightKg <= 0 {
		return nil, fmt.Errorf("%w: body weight must be positive, got %.1f", ErrInvalidInput, bodyWeightKg)
	}

	proteinPerKg, ok := p.ProteinPerKg[activityLevel]
	if !ok {
		return nil, fmt.Errorf("%w: unknown activity level: %s", ErrInvalidInput, activityLevel)
	}
	prefFactor, ok := p.ProteinPreferenceFactors[proteinPreference]
	if !ok {
		return nil, fmt.Errorf("%w: unknown protein preference: %s", ErrInvalidInput, proteinPreference)
	}

	proteinCalories := bodyWeightKg * proteinPerKg * prefFactor * 4
	if minProtein := totalCalories * p.ProteinShareMin; proteinCalories < minProtein {
		proteinCalories = minProtein
	}
	if maxProtein := totalCalories * p.ProteinShareMax; proteinCalories > maxProtein {
		proteinCalories = maxProtein
	}

	fatCalories := totalCalories * p.FatCaloriesShare
	carbsCalories := totalCalories - proteinCalories - fatCalories

	targets := &MacroTargets{
		ProteinGrams: int(math.Round(proteinCalories / 4)),
		CarbsGrams:   int(math.Round(carbsCalories / 4)),
		FatGrams:     int(math.Round(fatCalories / 9)),
		ProteinPct:   proteinCalories / totalCalories * 100,
		CarbsPct:     carbsCalories / totalCalories * 100,
		FatPct:       fatCalories / totalCalories * 100,
	}

	targets.ProteinInRange = targets.ProteinPct >= p.ProteinShareMin*100 && targets.ProteinPct <= p.ProteinShareMax*100
	targets.CarbsInRange = targets.CarbsPct >= p.CarbsShareMin*100 && targets.CarbsPct <= p.CarbsShareMax*100
	targets.FatInRange = targets.FatPct >= p.FatShareMin*100 && targets.FatPct <= p.FatShareMax*100

	return targets, nil
}

type ComputeInput struct {
	WeightKg          float64
	HeightCm          float64
	Age               int
	Sex               Sex
	ActivityLevel     ActivityLevel
	GoalIntensity     GoalIntensity
	ProteinPreference ProteinPreference
}

type Result struct {
	BMR            float64      `json:"bmr"`
	TDEE           float64      `json:"tdee"`
	TargetCalories float64      `json:"targetCalories"`
	Macros         MacroTargets `json:"macros"`
}

// Compute runs the full chain: body metrics -> BMR -> TDEE -> target calories -> macros.
func (e *Engine) Compute(in ComputeInput) (*Result, error) {
	bmr, err := e.BMR(in.WeightKg, in.HeightCm, in.Age, in.Sex)
	if err != nil {
		return nil, err
	}

	tdee, err := e.TDEE(bmr, in.ActivityLevel)
	if err != nil {
		return nil, err
	}

	target, err := e.TargetCalories(tdee, in.GoalIntensity)
	if err != nil {
		return nil, err
	}

	macros, err := e.MacroTargets(target, in.WeightKg, in.ActivityLevel, in.ProteinPreference)
	if err != nil {
		return nil, err
	}

	return &Result{
		BMR:            bmr,
		TDEE:           tdee,
		TargetCalories: target,
		Macros:         *macros,
	}, nil
}
