package adaptive

import (
	"errors"
	"fmt"
	"time"
)

// Trigger names the condition that caused an adaptation.
type Trigger string

const (
	TriggerWeightStagnation Trigger = "weight_stagnation"
	TriggerRapidGain        Trigger = "rapid_gain"
	TriggerOvertraining     Trigger = "overtraining"
	TriggerPlateau          Trigger = "plateau"
	TriggerUserRequest      Trigger = "user_request"
	TriggerScheduledReview  Trigger = "scheduled_review"
)

type IntensityChange string

const (
	IntensityIncrease IntensityChange = "increase"
	IntensityDecrease IntensityChange = "decrease"
	IntensityMaintain IntensityChange = "maintain"
)

// hard bounds on persisted adjustment values
const (
	MaxCalorieAdjustment = 500
	MaxMacroAdjustment   = 50
	MaxVolumeChangePct   = 50
	MaxRestDaysAdded     = 7
	MaxReasoningLength   = 1000
)

var ErrInvalidRecord = errors.New("invalid adaptation record")

// MacroAdjustments are deltas in grams applied on top of the current
// macro targets.
type MacroAdjustments struct {
	ProteinGrams int `json:"protein"`
	CarbsGrams   int `json:"carbs"`
	FatGrams     int `json:"fat"`
}

func (m MacroAdjustments) IsZero() bool {
	return m.ProteinGrams == 0 && m.CarbsGrams == 0 && m.FatGrams == 0
}

type WorkoutAdjustments struct {
	VolumeChangePct int             `json:"volumeChange"`
	IntensityChange IntensityChange `json:"intensityChange"`
	RestDaysAdded   int             `json:"restDaysAdded"`
}

// Changes is the full set of adjustments carried by one adaptation record.
type Changes struct {
	CalorieAdjustment  int                `json:"calorieAdjustment"`
	MacroAdjustments   MacroAdjustments   `json:"macroAdjustments"`
	WorkoutAdjustments WorkoutAdjustments `json:"workoutAdjustments"`
}

// Results holds the outcome evaluation attached to an applied record
// after enough time has passed.
type Results struct {
	WeightChangeKg float64   `json:"weightChangeKg"`
	TrendAfter     Trend     `json:"trendAfter"`
	EvaluatedAt    time.Time `json:"evaluatedAt"`
}

// Record is one adaptation: proposed changes, the trigger and reasoning
// behind them, and the apply/outcome lifecycle state. Lifecycle:
// created (applied=false) -> applied=true (terminal); results may be
// attached later without re-opening the apply step.
type Record struct {
	ID            int64      `json:"id"`
	UserID        int64      `json:"userId"`
	Trigger       Trigger    `json:"trigger"`
	Changes       Changes    `json:"changes"`
	Reasoning     string     `json:"reasoning"`
	CreatedAt     time.Time  `json:"createdAt"`
	EffectiveDate time.Time  `json:"effectiveDate"`
	Applied       bool       `json:"applied"`
	AppliedAt     *time.Time `json:"appliedAt,omitempty"`
	Results       *Results   `json:"results,omitempty"`
}

func (r *Record) Validate() error {
	if r.UserID <= 0 {
		return fmt.Errorf("%w: user id missing", ErrInvalidRecord)
	}
	switch r.Trigger {
	case TriggerWeightStagnation, TriggerRapidGain, TriggerOvertraining,
		TriggerPlateau, TriggerUserRequest, TriggerScheduledReview:
	default:
		return fmt.Errorf("%w: unknown trigger: %s", ErrInvalidRecord, r.Trigger)
	}

	c := r.Changes
	if c.CalorieAdjustment < -MaxCalorieAdjustment || c.CalorieAdjustment > MaxCalorieAdjustment {
		return fmt.Errorf("%w: calorie adjustment %d out of [-%d, %d]",
			ErrInvalidRecord, c.CalorieAdjustment, MaxCalorieAdjustment, MaxCalorieAdjustment)
	}
	for _, macroDelta := range []int{c.MacroAdjustments.ProteinGrams, c.MacroAdjustments.CarbsGrams, c.MacroAdjustments.FatGrams} {
		if macroDelta < -MaxMacroAdjustment || macroDelta > MaxMacroAdjustment {
			return fmt.Errorf("%w: macro adjustment %d out of [-%d, %d]",
				ErrInvalidRecord, macroDelta, MaxMacroAdjustment, MaxMacroAdjustment)
		}
	}
	if c.WorkoutAdjustments.VolumeChangePct < -MaxVolumeChangePct || c.WorkoutAdjustments.VolumeChangePct > MaxVolumeChangePct {
		return fmt.Errorf("%w: volume change %d out of [-%d, %d]",
			ErrInvalidRecord, c.WorkoutAdjustments.VolumeChangePct, MaxVolumeChangePct, MaxVolumeChangePct)
	}
	if c.WorkoutAdjustments.RestDaysAdded < 0 || c.WorkoutAdjustments.RestDaysAdded > MaxRestDaysAdded {
		return fmt.Errorf("%w: rest days added %d out of [0, %d]",
			ErrInvalidRecord, c.WorkoutAdjustments.RestDaysAdded, MaxRestDaysAdded)
	}
	if ic := c.WorkoutAdjustments.IntensityChange; ic != "" &&
		ic != IntensityIncrease && ic != IntensityDecrease && ic != IntensityMaintain {
		return fmt.Errorf("%w: unknown intensity change: %s", ErrInvalidRecord, ic)
	}

	if len(r.Reasoning) > MaxReasoningLength {
		return fmt.Errorf("%w: reasoning longer than %d characters", ErrInvalidRecord, MaxReasoningLength)
	}
	if r.EffectiveDate.Before(r.CreatedAt) {
		return fmt.Errorf("%w: effective date before creation date", ErrInvalidRecord)
	}

	return nil
}
