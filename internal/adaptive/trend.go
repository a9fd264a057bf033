package adaptive

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/2beens/gaintrack/internal/logbook"
)

// Trend classifies the weight development over the analysis window.
type Trend string

const (
	TrendStagnant  Trend = "stagnant"
	TrendRapidGain Trend = "rapid_gain"
	TrendGaining   Trend = "gaining"
	TrendLosing    Trend = "losing"
	TrendStable    Trend = "stable"
)

// RiskLevel grades the overtraining analysis outcome.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskModerate RiskLevel = "moderate"
	RiskHigh     RiskLevel = "high"
)

// Default lookback windows for an adaptive analysis run.
const (
	WeightWindowDays  = 14
	WorkoutWindowDays = 7
	CalorieWindowDays = 30
)

// TrendParams holds the thresholds of the trend and overtraining analysis.
type TrendParams struct {
	// StagnationMinWindowDays is the minimum observation window before
	// a flat weight line counts as stagnation.
	StagnationMinWindowDays int
	// StagnationMaxChangeKg is the absolute total change below which the
	// weight counts as flat.
	StagnationMaxChangeKg float64
	// RapidGainWeeklyRateKg is the weekly rate above which gain counts as
	// too fast for a clean bulk.
	RapidGainWeeklyRateKg float64
	// GainingMinChangeKg is the total change above which the trend is gaining.
	GainingMinChangeKg float64
	// LosingMaxChangeKg is the total change below which the trend is losing.
	LosingMaxChangeKg float64

	// overtraining indicator thresholds, per analysis window
	MaxWorkoutsPerWindow     int
	MinHighIntensityWorkouts int
	MaxMeanDurationMinutes   float64
	MinConsecutiveHigh       int
}

func DefaultTrendParams() TrendParams {
	return TrendParams{
		StagnationMinWindowDays:  14,
		StagnationMaxChangeKg:    0.2,
		RapidGainWeeklyRateKg:    1.0,
		GainingMinChangeKg:       0.5,
		LosingMaxChangeKg:        -0.2,
		MaxWorkoutsPerWindow:     6,
		MinHighIntensityWorkouts: 5,
		MaxMeanDurationMinutes:   120,
		MinConsecutiveHigh:       3,
	}
}

// WeightTrendAnalysis is the weight trend over the analysis window.
// HasData is false when fewer than two entries were available, in which
// case all other fields are zero and no adaptation should act on it.
type WeightTrendAnalysis struct {
	HasData         bool    `json:"hasData"`
	Trend           Trend   `json:"trend,omitempty"`
	StartWeightKg   float64 `json:"startWeightKg"`
	CurrentWeightKg float64 `json:"currentWeightKg"`
	TotalChangeKg   float64 `json:"totalChangeKg"`
	WeeklyRateKg    float64 `json:"weeklyRateKg"`
	WindowDays      int     `json:"windowDays"`
	DataPoints      int     `json:"dataPoints"`
}

type OvertrainingAnalysis struct {
	HasData    bool      `json:"hasData"`
	Detected   bool      `json:"detected"`
	Score      int       `json:"score"`
	RiskLevel  RiskLevel `json:"riskLevel"`
	Indicators []string  `json:"indicators,omitempty"`

	WorkoutsCount       int     `json:"workoutsCount"`
	HighIntensityCount  int     `json:"highIntensityCount"`
	MeanDurationMinutes float64 `json:"meanDurationMinutes"`
	MaxConsecutiveHigh  int     `json:"maxConsecutiveHigh"`
}

// Analyzer derives weight trend and overtraining signals from raw
// logbook entries.
type Analyzer struct {
	params TrendParams
}

func NewAnalyzer(params TrendParams) *Analyzer {
	return &Analyzer{
		params: params,
	}
}

func NewDefaultAnalyzer() *Analyzer {
	return NewAnalyzer(DefaultTrendParams())
}

// AnalyzeWeightTrend classifies the weight development over the given
// entries. Fewer than two entries is not an error, it yields a
// HasData:false result. windowDays is the requested observation window,
// used for the stagnation check; the weekly rate comes from the actual
// time span between first and last entry.
func (a *Analyzer) AnalyzeWeightTrend(entries []logbook.BodyStatsEntry, windowDays int) *WeightTrendAnalysis {
	if len(entries) < 2 {
		return &WeightTrendAnalysis{HasData: false, WindowDays: windowDays, DataPoints: len(entries)}
	}

	sorted := make([]logbook.BodyStatsEntry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})

	first := sorted[0]
	last := sorted[len(sorted)-1]

	daysBetween := last.CreatedAt.Sub(first.CreatedAt).Hours() / 24
	if daysBetween <= 0 {
		return &WeightTrendAnalysis{HasData: false, WindowDays: windowDays, DataPoints: len(entries)}
	}

	totalChange := last.WeightKg - first.WeightKg
	weeklyRate := totalChange / daysBetween * 7

	analysis := &WeightTrendAnalysis{
		HasData:         true,
		StartWeightKg:   first.WeightKg,
		CurrentWeightKg: last.WeightKg,
		TotalChangeKg:   totalChange,
		WeeklyRateKg:    weeklyRate,
		WindowDays:      windowDays,
		DataPoints:      len(entries),
	}

	p := a.params
	switch {
	case windowDays >= p.StagnationMinWindowDays && math.Abs(totalChange) < p.StagnationMaxChangeKg:
		analysis.Trend = TrendStagnant
	case weeklyRate > p.RapidGainWeeklyRateKg:
		analysis.Trend = TrendRapidGain
	case totalChange > p.GainingMinChangeKg:
		analysis.Trend = TrendGaining
	case totalChange < p.LosingMaxChangeKg:
		analysis.Trend = TrendLosing
	default:
		analysis.Trend = TrendStable
	}

	return analysis
}

// AnalyzeOvertraining checks the workout log for overtraining indicators:
// too many sessions, too many high intensity sessions, too long mean
// session duration and too many consecutive high intensity sessions.
// Each indicator adds one point to the score. An empty log yields a
// HasData:false result.
func (a *Analyzer) AnalyzeOvertraining(workouts []logbook.WorkoutLogEntry) *OvertrainingAnalysis {
	if len(workouts) == 0 {
		return &OvertrainingAnalysis{HasData: false, RiskLevel: RiskLow}
	}

	sorted := make([]logbook.WorkoutLogEntry, len(workouts))
	copy(sorted, workouts)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})

	analysis := &OvertrainingAnalysis{
		HasData:       true,
		RiskLevel:     RiskLow,
		WorkoutsCount: len(sorted),
	}

	var totalDuration int
	consecutiveHigh := 0
	for _, w := range sorted {
		totalDuration += w.DurationMinutes
		if w.Intensity == logbook.IntensityHigh {
			analysis.HighIntensityCount++
			consecutiveHigh++
			if consecutiveHigh > analysis.MaxConsecutiveHigh {
				analysis.MaxConsecutiveHigh = consecutiveHigh
			}
		} else {
			consecutiveHigh = 0
		}
	}
	analysis.MeanDurationMinutes = float64(totalDuration) / float64(len(sorted))

	p := a.params
	if analysis.WorkoutsCount > p.MaxWorkoutsPerWindow {
		analysis.Indicators = append(analysis.Indicators,
			fmt.Sprintf("workout count %d above %d", analysis.WorkoutsCount, p.MaxWorkoutsPerWindow))
	}
	if analysis.HighIntensityCount >= p.MinHighIntensityWorkouts {
		analysis.Indicators = append(analysis.Indicators,
			fmt.Sprintf("high intensity sessions %d at or above %d", analysis.HighIntensityCount, p.MinHighIntensityWorkouts))
	}
	if analysis.MeanDurationMinutes > p.MaxMeanDurationMinutes {
		analysis.Indicators = append(analysis.Indicators,
			fmt.Sprintf("mean session duration %.0fmin above %.0fmin", analysis.MeanDurationMinutes, p.MaxMeanDurationMinutes))
	}
	if analysis.MaxConsecutiveHigh >= p.MinConsecutiveHigh {
		analysis.Indicators = append(analysis.Indicators,
			fmt.Sprintf("%d consecutive high intensity sessions", analysis.MaxConsecutiveHigh))
	}

	analysis.Score = len(analysis.Indicators)
	switch {
	case analysis.Score >= 3:
		analysis.RiskLevel = RiskHigh
	case analysis.Score >= 2:
		analysis.RiskLevel = RiskModerate
	}
	analysis.Detected = analysis.Score >= 2

	return analysis
}

// WeightWindow returns [now-WeightWindowDays, now].
func WeightWindow(now time.Time) (from, to time.Time) {
	return now.AddDate(0, 0, -WeightWindowDays), now
}

// WorkoutWindow returns [now-WorkoutWindowDays, now].
func WorkoutWindow(now time.Time) (from, to time.Time) {
	return now.AddDate(0, 0, -WorkoutWindowDays), now
}

// CalorieWindow returns [now-CalorieWindowDays, now].
func CalorieWindow(now time.Time) (from, to time.Time) {
	return now.AddDate(0, 0, -CalorieWindowDays), now
}
