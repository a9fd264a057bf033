package progress

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/2beens/gaintrack/internal/adaptive"
	"github.com/2beens/gaintrack/internal/logbook"
)

type MilestoneType string

const (
	MilestoneWeightGain       MilestoneType = "weight_gain"
	MilestoneCalorieStreak    MilestoneType = "calorie_streak"
	MilestoneMonthlyWorkouts  MilestoneType = "monthly_workouts"
	MilestoneLifetimeWorkouts MilestoneType = "lifetime_workouts"
	MilestonePersonalRecords  MilestoneType = "personal_records"
	MilestoneDaysTracked      MilestoneType = "days_tracked"
)

// Milestone is a crossed progress threshold.
type Milestone struct {
	Type  MilestoneType `json:"type"`
	Value float64       `json:"value"`
	Label string        `json:"label"`
}

type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

func (s Severity) rank() int {
	switch s {
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	}
	return 0
}

// Concern is a detected pattern that works against the user's goal.
type Concern struct {
	Severity Severity `json:"severity"`
	Kind     string   `json:"kind"`
	Message  string   `json:"message"`
}

// CalorieMetrics summarizes calorie log adherence over the report window.
type CalorieMetrics struct {
	Streak         int     `json:"streak"`
	DaysLogged     int     `json:"daysLogged"`
	TargetMetDays  int     `json:"targetMetDays"`
	ConsistencyPct float64 `json:"consistencyPct"`
	TargetMetPct   float64 `json:"targetMetPct"`
}

// ScorerParams holds the milestone thresholds and scoring weights.
type ScorerParams struct {
	WeightGainThresholdsKg    []float64
	StreakThresholds          []int
	MonthlyWorkoutThreshold   int
	LifetimeWorkoutThresholds []int
	DaysTrackedThresholds     []int

	GainingPoints        int
	StablePoints         int
	ConsistencyMaxPoints int
	TargetMetMaxPoints   int
	HighConcernPenalty   int
}

func DefaultScorerParams() ScorerParams {
	return ScorerParams{
		WeightGainThresholdsKg:    []float64{2.5, 5, 7.5, 10, 12.5, 15, 20, 25},
		StreakThresholds:          []int{7, 14, 21, 30, 60, 90, 100},
		MonthlyWorkoutThreshold:   12,
		LifetimeWorkoutThresholds: []int{10, 25, 50, 100, 200, 500},
		DaysTrackedThresholds:     []int{7, 14, 30, 60, 90, 180, 365},

		GainingPoints:        30,
		StablePoints:         15,
		ConsistencyMaxPoints: 25,
		TargetMetMaxPoints:   25,
		HighConcernPenalty:   10,
	}
}

// Scorer turns log windows and trend analyses into milestones, concern
// alerts and a composite progress score. All methods are pure.
type Scorer struct {
	params ScorerParams
}

func NewScorer(params ScorerParams) *Scorer {
	return &Scorer{params: params}
}

func NewDefaultScorer() *Scorer {
	return NewScorer(DefaultScorerParams())
}

// CalorieMetrics computes the adherence metrics over a 30 day window:
// the current met-target streak, logging consistency and the share of
// logged days with a met target. A day with any missed entry does not
// count as met.
func (s *Scorer) CalorieMetrics(entries []logbook.CalorieLogEntry) CalorieMetrics {
	dayMet := make(map[time.Time]bool)
	for i := range entries {
		e := &entries[i]
		day := e.CreatedAt.Truncate(24 * time.Hour)
		met, seen := dayMet[day]
		if !seen {
			met = true
		}
		dayMet[day] = met && e.TargetMet()
	}

	metrics := CalorieMetrics{DaysLogged: len(dayMet)}
	if metrics.DaysLogged == 0 {
		return metrics
	}

	days := make([]time.Time, 0, len(dayMet))
	for day, met := range dayMet {
		days = append(days, day)
		if met {
			metrics.TargetMetDays++
		}
	}
	sort.Slice(days, func(i, j int) bool { return days[i].After(days[j]) })

	// streak walks back from the most recent logged day, no gaps allowed
	for i, day := range days {
		if !dayMet[day] {
			break
		}
		if i > 0 && days[i-1].Sub(day) > 24*time.Hour {
			break
		}
		metrics.Streak++
	}

	metrics.ConsistencyPct = float64(metrics.DaysLogged) / float64(adaptive.CalorieWindowDays)
	if metrics.ConsistencyPct > 1 {
		metrics.ConsistencyPct = 1
	}
	metrics.TargetMetPct = float64(metrics.TargetMetDays) / float64(metrics.DaysLogged)

	return metrics
}

// CountPersonalRecords counts completed sets that beat the user's
// previous best weight for that exercise. priorMax is the best weight
// per exercise before the window; the running best advances inside the
// window so each new level counts once.
func (s *Scorer) CountPersonalRecords(workouts []logbook.WorkoutLogEntry, priorMax map[string]float64) int {
	best := make(map[string]float64, len(priorMax))
	for name, weight := range priorMax {
		best[name] = weight
	}

	sorted := make([]logbook.WorkoutLogEntry, len(workouts))
	copy(sorted, workouts)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].CreatedAt.Before(sorted[j].CreatedAt) })

	records := 0
	for i := range sorted {
		for _, exercise := range sorted[i].Exercises {
			for _, set := range exercise.Sets {
				if !set.Completed {
					continue
				}
				if set.WeightKg > best[exercise.Name] {
					best[exercise.Name] = set.WeightKg
					records++
				}
			}
		}
	}
	return records
}

// MilestoneInput carries the aggregates milestone detection runs on.
type MilestoneInput struct {
	HasWeightHistory bool
	FirstWeightKg    float64
	LatestWeightKg   float64
	CalorieStreak    int
	MonthlyWorkouts  int
	LifetimeWorkouts int
	PersonalRecords  int
	DaysTracked      int
}

// DetectMilestones returns every crossed threshold, de-duplicated by
// (type, value) and sorted by value, largest first.
func (s *Scorer) DetectMilestones(input MilestoneInput) []Milestone {
	var milestones []Milestone

	if input.HasWeightHistory {
		gained := input.LatestWeightKg - input.FirstWeightKg
		for _, threshold := range s.params.WeightGainThresholdsKg {
			if gained >= threshold {
				milestones = append(milestones, Milestone{
					Type:  MilestoneWeightGain,
					Value: threshold,
					Label: fmt.Sprintf("gained %.1f kg", threshold),
				})
			}
		}
	}

	for _, threshold := range s.params.StreakThresholds {
		if input.CalorieStreak >= threshold {
			milestones = append(milestones, Milestone{
				Type:  MilestoneCalorieStreak,
				Value: float64(threshold),
				Label: fmt.Sprintf("%d day calorie streak", threshold),
			})
		}
	}

	if input.MonthlyWorkouts >= s.params.MonthlyWorkoutThreshold {
		milestones = append(milestones, Milestone{
			Type:  MilestoneMonthlyWorkouts,
			Value: float64(s.params.MonthlyWorkoutThreshold),
			Label: fmt.Sprintf("%d workouts this month", s.params.MonthlyWorkoutThreshold),
		})
	}

	for _, threshold := range s.params.LifetimeWorkoutThresholds {
		if input.LifetimeWorkouts >= threshold {
			milestones = append(milestones, Milestone{
				Type:  MilestoneLifetimeWorkouts,
				Value: float64(threshold),
				Label: fmt.Sprintf("%d workouts logged", threshold),
			})
		}
	}

	if input.PersonalRecords > 0 {
		milestones = append(milestones, Milestone{
			Type:  MilestonePersonalRecords,
			Value: float64(input.PersonalRecords),
			Label: fmt.Sprintf("%d new personal records", input.PersonalRecords),
		})
	}

	for _, threshold := range s.params.DaysTrackedThresholds {
		if input.DaysTracked >= threshold {
			milestones = append(milestones, Milestone{
				Type:  MilestoneDaysTracked,
				Value: float64(threshold),
				Label: fmt.Sprintf("%d days tracked", threshold),
			})
		}
	}

	seen := make(map[MilestoneType]map[float64]bool)
	deduped := milestones[:0]
	for _, m := range milestones {
		if seen[m.Type] == nil {
			seen[m.Type] = make(map[float64]bool)
		}
		if seen[m.Type][m.Value] {
			continue
		}
		seen[m.Type][m.Value] = true
		deduped = append(deduped, m)
	}

	sort.SliceStable(deduped, func(i, j int) bool {
		if deduped[i].Value != deduped[j].Value {
			return deduped[i].Value > deduped[j].Value
		}
		return deduped[i].Type < deduped[j].Type
	})

	return deduped
}

// rapidLossWeeklyRateKg mirrors the rapid gain threshold on the way down.
const rapidLossWeeklyRateKg = -1.0

// DetectConcerningPatterns evaluates the independent risk rules and
// returns the hits sorted by severity, high first.
func (s *Scorer) DetectConcerningPatterns(
	trend *adaptive.WeightTrendAnalysis,
	overtraining *adaptive.OvertrainingAnalysis,
	calories CalorieMetrics,
	workouts []logbook.WorkoutLogEntry,
) []Concern {
	var concerns []Concern

	if trend != nil && trend.HasData {
		if trend.WeeklyRateKg < rapidLossWeeklyRateKg {
			concerns = append(concerns, Concern{
				Severity: SeverityHigh,
				Kind:     "rapid_weight_loss",
				Message:  fmt.Sprintf("losing %.1f kg per week while aiming to gain", -trend.WeeklyRateKg),
			})
		}
		if trend.Trend == adaptive.TrendStagnant && trend.DataPoints >= 3 {
			concerns = append(concerns, Concern{
				Severity: SeverityMedium,
				Kind:     "weight_stagnation",
				Message:  fmt.Sprintf("weight unchanged over the last %d days", trend.WindowDays),
			})
		}
	}

	if calories.DaysLogged >= 7 && calories.TargetMetPct < 0.5 {
		concerns = append(concerns, Concern{
			Severity: SeverityMedium,
			Kind:     "calorie_targets_missed",
			Message:  fmt.Sprintf("calorie target met on only %.0f%% of logged days", calories.TargetMetPct*100),
		})
	}
	if calories.DaysLogged >= 5 && calories.ConsistencyPct < 0.6 {
		concerns = append(concerns, Concern{
			Severity: SeverityLow,
			Kind:     "inconsistent_logging",
			Message:  fmt.Sprintf("calories logged on %.0f%% of the last %d days", calories.ConsistencyPct*100, adaptive.CalorieWindowDays),
		})
	}

	if overtraining != nil && overtraining.HasData {
		if overtraining.WorkoutsCount > 6 {
			concerns = append(concerns, Concern{
				Severity: SeverityHigh,
				Kind:     "excessive_training_frequency",
				Message:  fmt.Sprintf("%d workouts in the last 7 days", overtraining.WorkoutsCount),
			})
		}
		if overtraining.MaxConsecutiveHigh >= 3 {
			concerns = append(concerns, Concern{
				Severity: SeverityMedium,
				Kind:     "consecutive_high_intensity",
				Message:  fmt.Sprintf("%d high intensity sessions in a row", overtraining.MaxConsecutiveHigh),
			})
		}
	}

	if repetitivePlan(workouts, 10) {
		concerns = append(concerns, Concern{
			Severity: SeverityLow,
			Kind:     "repetitive_plan",
			Message:  "same workout plan for the last 10 sessions",
		})
	}

	sort.SliceStable(concerns, func(i, j int) bool {
		return concerns[i].Severity.rank() > concerns[j].Severity.rank()
	})

	return concerns
}

func repetitivePlan(workouts []logbook.WorkoutLogEntry, lastN int) bool {
	if len(workouts) < lastN {
		return false
	}
	sorted := make([]logbook.WorkoutLogEntry, len(workouts))
	copy(sorted, workouts)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].CreatedAt.Before(sorted[j].CreatedAt) })

	last := sorted[len(sorted)-lastN:]
	plan := last[0].Plan
	for i := range last {
		if last[i].Plan != plan {
			return false
		}
	}
	return true
}

// Score computes the composite 0-100 progress score.
func (s *Scorer) Score(
	trend *adaptive.WeightTrendAnalysis,
	calories CalorieMetrics,
	workoutsPerWeek float64,
	concerns []Concern,
) int {
	score := 0

	if trend != nil && trend.HasData {
		switch trend.Trend {
		case adaptive.TrendGaining:
			score += s.params.GainingPoints
		case adaptive.TrendStable:
			score += s.params.StablePoints
		}
		// rapid gain is off plan and earns no trend points
	}

	score += int(math.Round(calories.ConsistencyPct * float64(s.params.ConsistencyMaxPoints)))
	score += int(math.Round(calories.TargetMetPct * float64(s.params.TargetMetMaxPoints)))

	switch {
	case workoutsPerWeek >= 4:
		score += 20
	case workoutsPerWeek >= 3:
		score += 15
	case workoutsPerWeek >= 2:
		score += 10
	}

	for _, concern := range concerns {
		if concern.Severity == SeverityHigh {
			score -= s.params.HighConcernPenalty
		}
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}

// Summary renders the narrative line of a progress report.
func (s *Scorer) Summary(score int, trend *adaptive.WeightTrendAnalysis, calories CalorieMetrics, concerns []Concern) string {
	var tier string
	switch {
	case score >= 80:
		tier = "excellent progress"
	case score >= 60:
		tier = "good progress"
	case score >= 40:
		tier = "fair progress"
	default:
		tier = "progress needs attention"
	}

	summary := fmt.Sprintf("%s, score %d/100", tier, score)
	if trend != nil && trend.HasData {
		summary += fmt.Sprintf(", weight %s (%+.1f kg over %d days)", trend.Trend, trend.TotalChangeKg, trend.WindowDays)
	} else {
		summary += ", not enough weight data yet"
	}
	if calories.DaysLogged > 0 {
		summary += fmt.Sprintf(", calories logged %d/%d days", calories.DaysLogged, adaptive.CalorieWindowDays)
	}
	if len(concerns) > 0 {
		summary += fmt.Sprintf(", %d concern(s), most severe: %s", len(concerns), concerns[0].Kind)
	}
	return summary
}
