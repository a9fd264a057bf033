package users

import (
	"time"

	"github.com/2beens/gaintrack/internal/calc"
)

// Profile holds the body metrics and goal settings used by the
// calculation engine. Changing any of these triggers a recalculation
// of the user's calorie and macro targets.
type Profile struct {
	Sex               calc.Sex               `json:"sex"`
	Age               int                    `json:"age"`
	HeightCm          float64                `json:"heightCm"`
	WeightKg          float64                `json:"weightKg"`
	ActivityLevel     calc.ActivityLevel     `json:"activityLevel"`
	GoalIntensity     calc.GoalIntensity     `json:"goalIntensity"`
	ProteinPreference calc.ProteinPreference `json:"proteinPreference"`
}

// CalculationState is the user's current daily targets. It starts from
// the calculation engine output and is later mutated by applied
// adaptation records.
type CalculationState struct {
	BMR            float64   `json:"bmr"`
	TDEE           float64   `json:"tdee"`
	TargetCalories float64   `json:"targetCalories"`
	ProteinGrams   int       `json:"proteinGrams"`
	CarbsGrams     int       `json:"carbsGrams"`
	FatGrams       int       `json:"fatGrams"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

type User struct {
	ID           int64            `json:"id"`
	Username     string           `json:"username"`
	PasswordHash string           `json:"-"`
	Profile      Profile          `json:"profile"`
	CalcState    CalculationState `json:"calcState"`
	CreatedAt    time.Time        `json:"createdAt"`
}
