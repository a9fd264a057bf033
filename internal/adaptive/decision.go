package adaptive

import (
	"fmt"
	"math"
	"strings"

	"github.com/2beens/gaintrack/internal/calc"
)

// DecisionParams holds the bounded adjustment steps of the decision engine.
type DecisionParams struct {
	// CalorieStepStagnant is the surplus increase on stagnation, keyed by
	// goal intensity. More aggressive goals push harder.
	CalorieStepStagnant map[calc.GoalIntensity]int
	// CalorieStepRapidGain is the (negative) correction on rapid gain.
	// Inverse mapping: more conservative goals cut harder.
	CalorieStepRapidGain map[calc.GoalIntensity]int
	// CarbsAdjustShare is the relative carbs change on stagnation (+)
	// or rapid gain (-).
	CarbsAdjustShare float64
	// overtraining response
	OvertrainingVolumeCutPct int
	RestDaysAddedHighRisk    int
	RestDaysAddedDefault     int
}

func DefaultDecisionParams() DecisionParams {
	return DecisionParams{
		CalorieStepStagnant: map[calc.GoalIntensity]int{
			calc.GoalAggressive:   150,
			calc.GoalModerate:     125,
			calc.GoalConservative: 100,
		},
		CalorieStepRapidGain: map[calc.GoalIntensity]int{
			calc.GoalConservative: -150,
			calc.GoalModerate:     -125,
			calc.GoalAggressive:   -100,
		},
		CarbsAdjustShare:         0.05,
		OvertrainingVolumeCutPct: -20,
		RestDaysAddedHighRisk:    2,
		RestDaysAddedDefault:     1,
	}
}

// DecisionEngine turns trend and overtraining analysis into bounded
// calorie, macro and workout adjustments. All methods are pure.
type DecisionEngine struct {
	params DecisionParams
}

func NewDecisionEngine(params DecisionParams) *DecisionEngine {
	return &DecisionEngine{
		params: params,
	}
}

func NewDefaultDecisionEngine() *DecisionEngine {
	return NewDecisionEngine(DefaultDecisionParams())
}

// CalorieAdjustment returns the calorie delta for the observed trend.
// No data or no relevant trend means no adjustment.
func (e *DecisionEngine) CalorieAdjustment(trend *WeightTrendAnalysis, goalIntensity calc.GoalIntensity) int {
	if trend == nil || !trend.HasData {
		return 0
	}
	switch trend.Trend {
	case TrendStagnant:
		return e.params.CalorieStepStagnant[goalIntensity]
	case TrendRapidGain:
		return e.params.CalorieStepRapidGain[goalIntensity]
	}
	return 0
}

// MacroAdjustments shifts carbs by a relative share of the current carbs
// target: up on stagnation, down on rapid gain. Protein and fat stay.
func (e *DecisionEngine) MacroAdjustments(trend *WeightTrendAnalysis, currentCarbsGrams int) MacroAdjustments {
	if trend == nil || !trend.HasData {
		return MacroAdjustments{}
	}

	carbsShift := int(math.Round(float64(currentCarbsGrams) * e.params.CarbsAdjustShare))
	if carbsShift > MaxMacroAdjustment {
		carbsShift = MaxMacroAdjustment
	}

	switch trend.Trend {
	case TrendStagnant:
		return MacroAdjustments{CarbsGrams: carbsShift}
	case TrendRapidGain:
		return MacroAdjustments{CarbsGrams: -carbsShift}
	}
	return MacroAdjustments{}
}

// WorkoutAdjustments cuts volume and intensity when overtraining is
// detected; a healthy gaining trend keeps the current intensity.
func (e *DecisionEngine) WorkoutAdjustments(overtraining *OvertrainingAnalysis, trend *WeightTrendAnalysis) WorkoutAdjustments {
	if overtraining != nil && overtraining.Detected {
		restDays := e.params.RestDaysAddedDefault
		if overtraining.RiskLevel == RiskHigh {
			restDays = e.params.RestDaysAddedHighRisk
		}
		return WorkoutAdjustments{
			VolumeChangePct: e.params.OvertrainingVolumeCutPct,
			IntensityChange: IntensityDecrease,
			RestDaysAdded:   restDays,
		}
	}

	if trend != nil && trend.HasData && trend.Trend == TrendGaining {
		return WorkoutAdjustments{IntensityChange: IntensityMaintain}
	}

	return WorkoutAdjustments{}
}

// SelectTrigger picks the trigger for an adaptation, first matching
// condition wins: stagnation, then rapid gain, then overtraining, then
// the scheduled review fallback.
func (e *DecisionEngine) SelectTrigger(trend *WeightTrendAnalysis, overtraining *OvertrainingAnalysis) Trigger {
	if trend != nil && trend.HasData {
		switch trend.Trend {
		case TrendStagnant:
			return TriggerWeightStagnation
		case TrendRapidGain:
			return TriggerRapidGain
		}
	}
	if overtraining != nil && overtraining.Detected {
		return TriggerOvertraining
	}
	return TriggerScheduledReview
}

// Recommendation is the full decision engine output for one analysis run.
type Recommendation struct {
	Trigger          Trigger `json:"trigger"`
	Changes          Changes `json:"changes"`
	Reasoning        string  `json:"reasoning"`
	AdaptationNeeded bool    `json:"adaptationNeeded"`
}

// BuildRecommendation combines all adjustment computations and the
// deterministic reasoning text. AdaptationNeeded is true when any
// calorie or macro adjustment is non-zero, or overtraining is detected.
func (e *DecisionEngine) BuildRecommendation(
	trend *WeightTrendAnalysis,
	overtraining *OvertrainingAnalysis,
	goalIntensity calc.GoalIntensity,
	currentCarbsGrams int,
) *Recommendation {
	changes := Changes{
		CalorieAdjustment:  e.CalorieAdjustment(trend, goalIntensity),
		MacroAdjustments:   e.MacroAdjustments(trend, currentCarbsGrams),
		WorkoutAdjustments: e.WorkoutAdjustments(overtraining, trend),
	}

	overtrainingDetected := overtraining != nil && overtraining.Detected
	needed := changes.CalorieAdjustment != 0 ||
		!changes.MacroAdjustments.IsZero() ||
		overtrainingDetected

	return &Recommendation{
		Trigger:          e.SelectTrigger(trend, overtraining),
		Changes:          changes,
		Reasoning:        e.reasoning(trend, overtraining, changes),
		AdaptationNeeded: needed,
	}
}

// reasoning builds the justification text deterministically from the
// analysis inputs, one clause per active condition.
func (e *DecisionEngine) reasoning(
	trend *WeightTrendAnalysis,
	overtraining *OvertrainingAnalysis,
	changes Changes,
) string {
	var clauses []string

	if trend != nil && trend.HasData {
		switch trend.Trend {
		case TrendStagnant:
			clauses = append(clauses, fmt.Sprintf(
				"weight stagnant over %d days (%.2fkg change), increasing intake by %d kcal",
				trend.WindowDays, trend.TotalChangeKg, changes.CalorieAdjustment))
		case TrendRapidGain:
			clauses = append(clauses, fmt.Sprintf(
				"weight gaining too fast (%.2fkg/week), reducing intake by %d kcal",
				trend.WeeklyRateKg, -changes.CalorieAdjustment))
		case TrendGaining:
			clauses = append(clauses, fmt.Sprintf(
				"weight gaining at a healthy rate (%.2fkg/week), no intake change", trend.WeeklyRateKg))
		case TrendLosing:
			clauses = append(clauses, fmt.Sprintf(
				"weight dropping (%.2fkg over the window), review intake", trend.TotalChangeKg))
		case TrendStable:
			clauses = append(clauses, "weight stable within normal range")
		}
	} else {
		clauses = append(clauses, "not enough weight data for a trend")
	}

	if carbs := changes.MacroAdjustments.CarbsGrams; carbs != 0 {
		clauses = append(clauses, fmt.Sprintf("shifting carbs by %+dg", carbs))
	}

	if overtraining != nil && overtraining.Detected {
		clauses = append(clauses, fmt.Sprintf(
			"overtraining risk %s (score %d): %s; cutting volume by %d%% and adding %d rest day(s)",
			overtraining.RiskLevel, overtraining.Score, strings.Join(overtraining.Indicators, ", "),
			-changes.WorkoutAdjustments.VolumeChangePct, changes.WorkoutAdjustments.RestDaysAdded))
	}

	reasoning := strings.Join(clauses, "; ")
	if len(reasoning) > MaxReasoningLength {
		reasoning = reasoning[:MaxReasoningLength]
	}
	return reasoning
}
