package logbook

import "time"

// Intensity is the subjective session intensity reported with a workout.
type Intensity string

const (
	IntensityLight    Intensity = "light"
	IntensityModerate Intensity = "moderate"
	IntensityHigh     Intensity = "high"
)

func (i Intensity) Valid() bool {
	switch i {
	case IntensityLight, IntensityModerate, IntensityHigh:
		return true
	}
	return false
}

// BodyStatsEntry is a single body weight measurement, optionally with
// body fat percentage and extra measurements (waist, chest, ...).
type BodyStatsEntry struct {
	ID           int                `json:"id"`
	UserID       int64              `json:"userId"`
	WeightKg     float64            `json:"weightKg"`
	BodyFatPct   *float64           `json:"bodyFatPct,omitempty"`
	Measurements map[string]float64 `json:"measurements,omitempty"`
	Notes        string             `json:"notes,omitempty"`
	CreatedAt    time.Time          `json:"createdAt"`
}

// ExerciseSet is one performed set within an exercise.
type ExerciseSet struct {
	Reps      int     `json:"reps"`
	WeightKg  float64 `json:"weightKg"`
	Completed bool    `json:"completed"`
}

// Exercise is one exercise within a workout, with all its sets.
// Stored as part of the workout JSONB payload, not as separate rows.
type Exercise struct {
	Name string        `json:"name"`
	Sets []ExerciseSet `json:"sets"`
}

// TotalVolume is the sum of reps * weight over completed sets.
func (e Exercise) TotalVolume() float64 {
	var total float64
	for _, s := range e.Sets {
		if !s.Completed {
			continue
		}
		total += float64(s.Reps) * s.WeightKg
	}
	return total
}

// WorkoutLogEntry is a logged training session.
type WorkoutLogEntry struct {
	ID              int        `json:"id"`
	UserID          int64      `json:"userId"`
	Plan            string     `json:"plan"`
	DurationMinutes int        `json:"durationMinutes"`
	Intensity       Intensity  `json:"intensity"`
	Exercises       []Exercise `json:"exercises,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
}

// TotalVolume sums the completed volume over all exercises of the session.
func (w *WorkoutLogEntry) TotalVolume() float64 {
	var total float64
	for _, e := range w.Exercises {
		total += e.TotalVolume()
	}
	return total
}

// Meal is a single meal within a calorie log entry, JSONB-stored.
type Meal struct {
	Name     string  `json:"name"`
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

// CalorieLogEntry is a daily calorie intake record, compared against the
// user's calorie target at the time of logging.
type CalorieLogEntry struct {
	ID               int       `json:"id"`
	UserID           int64     `json:"userId"`
	Meals            []Meal    `json:"meals,omitempty"`
	ConsumedCalories float64   `json:"consumedCalories"`
	ProteinGrams     float64   `json:"proteinGrams"`
	CarbsGrams       float64   `json:"carbsGrams"`
	FatGrams         float64   `json:"fatGrams"`
	TargetCalories   float64   `json:"targetCalories"`
	CreatedAt        time.Time `json:"createdAt"`
}

// targetMetBand is the tolerated deviation around the calorie target.
const targetMetBand = 0.05

// TargetMet reports whether consumed calories landed within 5% of the target.
func (c *CalorieLogEntry) TargetMet() bool {
	if c.TargetCalories <= 0 {
		return false
	}
	deviation := (c.ConsumedCalories - c.TargetCalories) / c.TargetCalories
	return deviation >= -targetMetBand && deviation <= targetMetBand
}
