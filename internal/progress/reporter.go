package progress

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/2beens/gaintrack/internal/adaptive"
	"github.com/2beens/gaintrack/internal/logbook"
	"github.com/2beens/gaintrack/internal/telemetry/metrics"
	"github.com/2beens/gaintrack/internal/telemetry/tracing"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/multierr"
)

//go:generate mockgen -source=$GOFILE -destination=reporter_mocks_test.go -package=progress_test

type progressLogStore interface {
	BodyStatsInRange(ctx context.Context, userID int64, from, to time.Time) ([]logbook.BodyStatsEntry, error)
	WorkoutLogsInRange(ctx context.Context, userID int64, from, to time.Time) ([]logbook.WorkoutLogEntry, error)
	CalorieLogsInRange(ctx context.Context, userID int64, from, to time.Time) ([]logbook.CalorieLogEntry, error)
	CalorieStreak(ctx context.Context, userID int64) (int, error)
	WeightBounds(ctx context.Context, userID int64) (firstKg, latestKg float64, ok bool, err error)
	WorkoutCount(ctx context.Context, userID int64) (int, error)
	WorkoutCountSince(ctx context.Context, userID int64, since time.Time) (int, error)
	DaysTracked(ctx context.Context, userID int64) (int, error)
	ExerciseMaxWeightsBefore(ctx context.Context, userID int64, before time.Time) (map[string]float64, error)
}

type adaptationStore interface {
	ListByUser(ctx context.Context, userID int64, limit int) ([]adaptive.Record, error)
}

// Report is the full progress report returned to the client.
type Report struct {
	UserID            int64                          `json:"userId"`
	PeriodDays        int                            `json:"periodDays"`
	GeneratedAt       time.Time                      `json:"generatedAt"`
	Score             int                            `json:"score"`
	Trend             *adaptive.WeightTrendAnalysis  `json:"trend"`
	Overtraining      *adaptive.OvertrainingAnalysis `json:"overtraining"`
	Calories          CalorieMetrics                 `json:"calories"`
	WorkoutsPerWeek   float64                        `json:"workoutsPerWeek"`
	Milestones        []Milestone                    `json:"milestones"`
	Concerns          []Concern                      `json:"concerns"`
	RecentAdaptations []adaptive.Record              `json:"recentAdaptations"`
	Summary           string                         `json:"summary"`
}

const (
	DefaultPeriodDays = 30
	MinPeriodDays     = 7
	MaxPeriodDays     = 365

	reportCacheExpireSeconds = 5 * 60
	recentAdaptationsLimit   = 10
)

// Reporter assembles progress reports: read-only over the log store,
// reuses the trend analyzer, caches rendered reports for a few minutes.
type Reporter struct {
	analyzer    *adaptive.Analyzer
	scorer      *Scorer
	logs        progressLogStore
	adaptations adaptationStore
	metrics     *metrics.Manager
	cache       *freecache.Cache
	readTimeout time.Duration
	now         func() time.Time
}

type NewReporterParams struct {
	Analyzer    *adaptive.Analyzer
	Scorer      *Scorer
	Logs        progressLogStore
	Adaptations adaptationStore
	Metrics     *metrics.Manager
	ReadTimeout time.Duration
}

func NewReporter(params NewReporterParams) *Reporter {
	megabyte := 1024 * 1024
	if params.ReadTimeout <= 0 {
		params.ReadTimeout = 10 * time.Second
	}
	return &Reporter{
		analyzer:    params.Analyzer,
		scorer:      params.Scorer,
		logs:        params.Logs,
		adaptations: params.Adaptations,
		metrics:     params.Metrics,
		cache:       freecache.NewCache(10 * megabyte),
		readTimeout: params.ReadTimeout,
		now:         time.Now,
	}
}

// GenerateReport builds the progress report over the given period.
// Reports are cached per user and period for a few minutes, a report is
// not so fresh that every client poll deserves a full recompute.
func (rep *Reporter) GenerateReport(ctx context.Context, userID int64, periodDays int) (_ *Report, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "reporter.generateReport")
	span.SetAttributes(attribute.Int64("user.id", userID))
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	if periodDays <= 0 {
		periodDays = DefaultPeriodDays
	}
	if periodDays < MinPeriodDays {
		periodDays = MinPeriodDays
	}
	if periodDays > MaxPeriodDays {
		periodDays = MaxPeriodDays
	}

	cacheKey := []byte(fmt.Sprintf("report::%d::%d", userID, periodDays))
	if reportBytes, cacheErr := rep.cache.Get(cacheKey); cacheErr == nil {
		report := &Report{}
		if err := json.Unmarshal(reportBytes, report); err == nil {
			log.Tracef("progress report for user %d found in cache", userID)
			return report, nil
		}
		log.Errorf("unmarshal cached progress report for user %d: %s", userID, err)
	}

	now := rep.now()
	bodyStats, workouts, calorieLogs, adaptations, err := rep.readWindows(ctx, userID, periodDays, now)
	if err != nil {
		return nil, err
	}

	trend := rep.analyzer.AnalyzeWeightTrend(bodyStats, periodDays)
	overtraining := rep.analyzer.AnalyzeOvertraining(
		workoutsSince(workouts, now.AddDate(0, 0, -adaptive.WorkoutWindowDays)),
	)

	calories := rep.scorer.CalorieMetrics(calorieLogs)
	// the lifetime streak can reach further back than the report window
	if streak, streakErr := rep.logs.CalorieStreak(ctx, userID); streakErr != nil {
		log.Errorf("read calorie streak for user %d: %s", userID, streakErr)
	} else if streak > calories.Streak {
		calories.Streak = streak
	}

	milestoneInput, err := rep.milestoneInput(ctx, userID, workouts, calories.Streak, now, periodDays)
	if err != nil {
		return nil, err
	}
	milestones := rep.scorer.DetectMilestones(milestoneInput)
	concerns := rep.scorer.DetectConcerningPatterns(trend, overtraining, calories, workouts)

	workoutsPerWeek := float64(len(workouts)) / float64(periodDays) * 7
	score := rep.scorer.Score(trend, calories, workoutsPerWeek, concerns)

	report := &Report{
		UserID:            userID,
		PeriodDays:        periodDays,
		GeneratedAt:       now,
		Score:             score,
		Trend:             trend,
		Overtraining:      overtraining,
		Calories:          calories,
		WorkoutsPerWeek:   workoutsPerWeek,
		Milestones:        milestones,
		Concerns:          concerns,
		RecentAdaptations: adaptations,
		Summary:           rep.scorer.Summary(score, trend, calories, concerns),
	}

	if reportBytes, marshalErr := json.Marshal(report); marshalErr != nil {
		log.Errorf("marshal progress report for user %d: %s", userID, marshalErr)
	} else if cacheErr := rep.cache.Set(cacheKey, reportBytes, reportCacheExpireSeconds); cacheErr != nil {
		log.Errorf("cache progress report for user %d: %s", userID, cacheErr)
	}

	rep.metrics.CounterProgressReports.Inc()

	return report, nil
}

// CalorieStreak returns the user's current met-target streak, a cheap
// standalone read for client widgets.
func (rep *Reporter) CalorieStreak(ctx context.Context, userID int64) (int, error) {
	return rep.logs.CalorieStreak(ctx, userID)
}

// readWindows issues the four window reads concurrently, bounded by the
// configured timeout. Any failure aborts the report.
func (rep *Reporter) readWindows(ctx context.Context, userID int64, periodDays int, now time.Time) (
	bodyStats []logbook.BodyStatsEntry,
	workouts []logbook.WorkoutLogEntry,
	calorieLogs []logbook.CalorieLogEntry,
	adaptations []adaptive.Record,
	err error,
) {
	ctx, cancel := context.WithTimeout(ctx, rep.readTimeout)
	defer cancel()

	periodStart := now.AddDate(0, 0, -periodDays)
	errs := make(chan error, 4)

	go func() {
		var readErr error
		bodyStats, readErr = rep.logs.BodyStatsInRange(ctx, userID, periodStart, now)
		if readErr != nil {
			readErr = fmt.Errorf("read body stats: %w", readErr)
		}
		errs <- readErr
	}()
	go func() {
		var readErr error
		workouts, readErr = rep.logs.WorkoutLogsInRange(ctx, userID, periodStart, now)
		if readErr != nil {
			readErr = fmt.Errorf("read workouts: %w", readErr)
		}
		errs <- readErr
	}()
	go func() {
		from, to := adaptive.CalorieWindow(now)
		var readErr error
		calorieLogs, readErr = rep.logs.CalorieLogsInRange(ctx, userID, from, to)
		if readErr != nil {
			readErr = fmt.Errorf("read calorie logs: %w", readErr)
		}
		errs <- readErr
	}()
	go func() {
		var readErr error
		adaptations, readErr = rep.adaptations.ListByUser(ctx, userID, recentAdaptationsLimit)
		if readErr != nil {
			readErr = fmt.Errorf("read adaptations: %w", readErr)
		}
		errs <- readErr
	}()

	for i := 0; i < 4; i++ {
		err = multierr.Append(err, <-errs)
	}
	if err != nil {
		return nil, nil, nil, nil, err
	}

	return bodyStats, workouts, calorieLogs, adaptations, nil
}

func (rep *Reporter) milestoneInput(
	ctx context.Context,
	userID int64,
	workouts []logbook.WorkoutLogEntry,
	streak int,
	now time.Time,
	periodDays int,
) (MilestoneInput, error) {
	firstKg, latestKg, hasWeight, err := rep.logs.WeightBounds(ctx, userID)
	if err != nil {
		return MilestoneInput{}, fmt.Errorf("read weight bounds: %w", err)
	}
	lifetimeWorkouts, err := rep.logs.WorkoutCount(ctx, userID)
	if err != nil {
		return MilestoneInput{}, fmt.Errorf("read workout count: %w", err)
	}
	daysTracked, err := rep.logs.DaysTracked(ctx, userID)
	if err != nil {
		return MilestoneInput{}, fmt.Errorf("read days tracked: %w", err)
	}
	priorMax, err := rep.logs.ExerciseMaxWeightsBefore(ctx, userID, now.AddDate(0, 0, -periodDays))
	if err != nil {
		return MilestoneInput{}, fmt.Errorf("read exercise max weights: %w", err)
	}

	// the monthly milestone always spans the last 30 days, a shorter
	// report period must not shrink it
	monthlyWorkouts, err := rep.logs.WorkoutCountSince(ctx, userID, now.AddDate(0, 0, -DefaultPeriodDays))
	if err != nil {
		return MilestoneInput{}, fmt.Errorf("read monthly workout count: %w", err)
	}

	return MilestoneInput{
		HasWeightHistory: hasWeight,
		FirstWeightKg:    firstKg,
		LatestWeightKg:   latestKg,
		CalorieStreak:    streak,
		MonthlyWorkouts:  monthlyWorkouts,
		LifetimeWorkouts: lifetimeWorkouts,
		PersonalRecords:  rep.scorer.CountPersonalRecords(workouts, priorMax),
		DaysTracked:      daysTracked,
	}, nil
}

func workoutsSince(workouts []logbook.WorkoutLogEntry, since time.Time) []logbook.WorkoutLogEntry {
	var recent []logbook.WorkoutLogEntry
	for i := range workouts {
		if !workouts[i].CreatedAt.Before(since) {
			recent = append(recent, workouts[i])
		}
	}
	return recent
}
