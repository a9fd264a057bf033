package adaptive

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/gaintrack/internal/logbook"
	"github.com/2beens/gaintrack/internal/telemetry/metrics"
	"github.com/2beens/gaintrack/internal/telemetry/tracing"
	"github.com/2beens/gaintrack/internal/users"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/multierr"
)

//go:generate mockgen -source=$GOFILE -destination=ledger_mocks_test.go -package=adaptive_test

type logStore interface {
	BodyStatsInRange(ctx context.Context, userID int64, from, to time.Time) ([]logbook.BodyStatsEntry, error)
	WorkoutLogsInRange(ctx context.Context, userID int64, from, to time.Time) ([]logbook.WorkoutLogEntry, error)
	CalorieLogsInRange(ctx context.Context, userID int64, from, to time.Time) ([]logbook.CalorieLogEntry, error)
}

type recordStore interface {
	Save(ctx context.Context, record *Record) (*Record, error)
	Pending(ctx context.Context, userID int64, now time.Time) ([]Record, error)
	ListByUser(ctx context.Context, userID int64, limit int) ([]Record, error)
	Apply(ctx context.Context, record Record, compute func(current users.CalculationState) users.CalculationState, appliedAt time.Time) (users.CalculationState, error)
	UserIDsWithPending(ctx context.Context, now time.Time) ([]int64, error)
	AppliedWithoutResults(ctx context.Context, appliedBefore time.Time) ([]Record, error)
	AttachResults(ctx context.Context, recordID int64, results Results) error
}

type userStore interface {
	Get(ctx context.Context, id int64) (*users.User, error)
}

// calcBounds is the slice of calculation parameters the ledger needs to
// keep an applied state within the safety invariants.
type calcBounds struct {
	MaxSurplus        float64
	MinTargetCalories float64
}

// AnalysisResult is the output of one adaptive analysis run.
type AnalysisResult struct {
	Trend            *WeightTrendAnalysis  `json:"trend"`
	Overtraining     *OvertrainingAnalysis `json:"overtraining"`
	Recommendation   *Recommendation       `json:"recommendation"`
	AdaptationNeeded bool                  `json:"adaptationNeeded"`
	Record           *Record               `json:"record,omitempty"`
	Summary          string                `json:"summary"`
}

// resultsMinAge is how long an applied adaptation matures before its
// outcome is evaluated.
const resultsMinAge = 14 * 24 * time.Hour

// Ledger runs the adaptive analysis lifecycle: read logs, analyze,
// decide, persist an adaptation record, and later apply pending records
// to the user's calculation state exactly once.
type Ledger struct {
	analyzer    *Analyzer
	decisions   *DecisionEngine
	logs        logStore
	records     recordStore
	users       userStore
	bounds      calcBounds
	metrics     *metrics.Manager
	readTimeout time.Duration
	now         func() time.Time
}

type NewLedgerParams struct {
	Analyzer       *Analyzer
	DecisionEngine *DecisionEngine
	Logs           logStore
	Records        recordStore
	Users          userStore
	Metrics        *metrics.Manager
	// ReadTimeout caps the log-read fan-out of a single analysis run.
	ReadTimeout time.Duration
	// MaxSurplus / MinTargetCalories mirror the calculation engine params.
	MaxSurplus        float64
	MinTargetCalories float64
}

func NewLedger(params NewLedgerParams) *Ledger {
	if params.ReadTimeout <= 0 {
		params.ReadTimeout = 10 * time.Second
	}
	return &Ledger{
		analyzer:  params.Analyzer,
		decisions: params.DecisionEngine,
		logs:      params.Logs,
		records:   params.Records,
		users:     params.Users,
		bounds: calcBounds{
			MaxSurplus:        params.MaxSurplus,
			MinTargetCalories: params.MinTargetCalories,
		},
		metrics:     params.Metrics,
		readTimeout: params.ReadTimeout,
		now:         time.Now,
	}
}

// RunAnalysis reads the log windows, analyzes trend and overtraining,
// and persists an adaptation record if one is warranted. The four log
// reads are independent and run concurrently; any read failure aborts
// the whole run so a half-informed adaptation is never persisted.
func (l *Ledger) RunAnalysis(ctx context.Context, userID int64) (_ *AnalysisResult, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "ledger.runAnalysis")
	span.SetAttributes(attribute.Int64("user.id", userID))
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	started := l.now()
	defer func() {
		l.metrics.HistAdaptiveAnalysisDuration.Observe(time.Since(started).Seconds())
	}()

	user, bodyStats, workouts, _, err := l.readAll(ctx, userID)
	if err != nil {
		return nil, err
	}

	trend := l.analyzer.AnalyzeWeightTrend(bodyStats, WeightWindowDays)
	overtraining := l.analyzer.AnalyzeOvertraining(workouts)
	recommendation := l.decisions.BuildRecommendation(
		trend, overtraining, user.Profile.GoalIntensity, user.CalcState.CarbsGrams,
	)

	result := &AnalysisResult{
		Trend:            trend,
		Overtraining:     overtraining,
		Recommendation:   recommendation,
		AdaptationNeeded: recommendation.AdaptationNeeded,
		Summary:          analysisSummary(trend, overtraining, recommendation),
	}

	if !recommendation.AdaptationNeeded {
		log.Debugf("adaptive analysis for user %d: no adaptation needed", userID)
		return result, nil
	}

	now := l.now()
	record := &Record{
		UserID:        userID,
		Trigger:       recommendation.Trigger,
		Changes:       recommendation.Changes,
		Reasoning:     recommendation.Reasoning,
		CreatedAt:     now,
		EffectiveDate: now,
	}
	if err := record.Validate(); err != nil {
		return nil, fmt.Errorf("built invalid adaptation: %w", err)
	}

	saved, err := l.records.Save(ctx, record)
	if err != nil {
		return nil, fmt.Errorf("save adaptation: %w", err)
	}

	l.metrics.CounterAdaptationsCreated.Inc()
	log.Debugf(
		"adaptive analysis for user %d: new adaptation %d [%s] %+d kcal",
		userID, saved.ID, saved.Trigger, saved.Changes.CalorieAdjustment,
	)

	result.Record = saved
	return result, nil
}

// readAll issues the user read and the three log-window reads
// concurrently, bounded by the configured timeout. Partial failure
// aborts the run, combined errors are returned.
func (l *Ledger) readAll(ctx context.Context, userID int64) (
	user *users.User,
	bodyStats []logbook.BodyStatsEntry,
	workouts []logbook.WorkoutLogEntry,
	calorieLogs []logbook.CalorieLogEntry,
	err error,
) {
	ctx, cancel := context.WithTimeout(ctx, l.readTimeout)
	defer cancel()

	now := l.now()
	errs := make(chan error, 4)

	go func() {
		var userErr error
		user, userErr = l.users.Get(ctx, userID)
		if userErr != nil {
			userErr = fmt.Errorf("read user: %w", userErr)
		}
		errs <- userErr
	}()
	go func() {
		from, to := WeightWindow(now)
		var readErr error
		bodyStats, readErr = l.logs.BodyStatsInRange(ctx, userID, from, to)
		if readErr != nil {
			readErr = fmt.Errorf("read body stats: %w", readErr)
		}
		errs <- readErr
	}()
	go func() {
		from, to := WorkoutWindow(now)
		var readErr error
		workouts, readErr = l.logs.WorkoutLogsInRange(ctx, userID, from, to)
		if readErr != nil {
			readErr = fmt.Errorf("read workouts: %w", readErr)
		}
		errs <- readErr
	}()
	go func() {
		from, to := CalorieWindow(now)
		var readErr error
		calorieLogs, readErr = l.logs.CalorieLogsInRange(ctx, userID, from, to)
		if readErr != nil {
			readErr = fmt.Errorf("read calorie logs: %w", readErr)
		}
		errs <- readErr
	}()

	for i := 0; i < 4; i++ {
		err = multierr.Append(err, <-errs)
	}
	if err != nil {
		return nil, nil, nil, nil, err
	}

	return user, bodyStats, workouts, calorieLogs, nil
}

// ApplyPending applies all due adaptation records of the user to their
// calculation state, each exactly once. The new state of every record
// is computed from the stored state as it is at claim time, inside the
// claim transaction, so a record applied by a concurrent pass keeps its
// effect. A record already claimed elsewhere is skipped, a persistence
// failure leaves the record pending for the next pass.
func (l *Ledger) ApplyPending(ctx context.Context, userID int64) (applied []Record, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "ledger.applyPending")
	span.SetAttributes(attribute.Int64("user.id", userID))
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	now := l.now()
	pending, err := l.records.Pending(ctx, userID, now)
	if err != nil {
		return nil, fmt.Errorf("read pending adaptations: %w", err)
	}
	if len(pending) == 0 {
		return nil, nil
	}

	for _, record := range pending {
		changes := record.Changes
		newState, applyErr := l.records.Apply(ctx, record, func(current users.CalculationState) users.CalculationState {
			return l.applyChanges(current, changes, now)
		}, now)
		if applyErr != nil {
			if errors.Is(applyErr, ErrRecordAlreadyApplied) {
				log.Tracef("adaptation %d already applied, skipping", record.ID)
				continue
			}
			// leave the rest pending, next pass retries
			return applied, fmt.Errorf("apply adaptation %d: %w", record.ID, applyErr)
		}

		record.Applied = true
		record.AppliedAt = &now
		applied = append(applied, record)
		l.metrics.CounterAdaptationsApplied.Inc()
		log.Debugf("adaptation %d applied for user %d, new target: %.0f kcal",
			record.ID, userID, newState.TargetCalories)
	}

	return applied, nil
}

// ApplyPendingAll runs the apply pass for every user with due records.
func (l *Ledger) ApplyPendingAll(ctx context.Context) (appliedTotal int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "ledger.applyPendingAll")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	userIDs, err := l.records.UserIDsWithPending(ctx, l.now())
	if err != nil {
		return 0, fmt.Errorf("read users with pending adaptations: %w", err)
	}

	// users are independent, a failing one must not block the rest
	var errCombined error
	for _, userID := range userIDs {
		applied, applyErr := l.ApplyPending(ctx, userID)
		appliedTotal += len(applied)
		if applyErr != nil {
			errCombined = multierr.Append(errCombined, fmt.Errorf("user %d: %w", userID, applyErr))
		}
	}

	return appliedTotal, errCombined
}

// EvaluateOutcomes attaches outcome results to applied records older
// than two weeks: the weight change since application and the trend the
// user moved into.
func (l *Ledger) EvaluateOutcomes(ctx context.Context) (evaluated int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "ledger.evaluateOutcomes")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	now := l.now()
	matured, err := l.records.AppliedWithoutResults(ctx, now.Add(-resultsMinAge))
	if err != nil {
		return 0, fmt.Errorf("read matured adaptations: %w", err)
	}

	var errCombined error
	for _, record := range matured {
		if record.AppliedAt == nil {
			continue
		}

		bodyStats, readErr := l.logs.BodyStatsInRange(ctx, record.UserID, *record.AppliedAt, now)
		if readErr != nil {
			errCombined = multierr.Append(errCombined, fmt.Errorf("record %d: read body stats: %w", record.ID, readErr))
			continue
		}

		trend := l.analyzer.AnalyzeWeightTrend(bodyStats, int(now.Sub(*record.AppliedAt).Hours()/24))
		if !trend.HasData {
			// not enough measurements yet, retry on a later pass
			continue
		}

		results := Results{
			WeightChangeKg: trend.TotalChangeKg,
			TrendAfter:     trend.Trend,
			EvaluatedAt:    now,
		}
		if attachErr := l.records.AttachResults(ctx, record.ID, results); attachErr != nil {
			errCombined = multierr.Append(errCombined, fmt.Errorf("record %d: attach results: %w", record.ID, attachErr))
			continue
		}
		evaluated++
	}

	return evaluated, errCombined
}

// History returns the user's most recent adaptation records.
func (l *Ledger) History(ctx context.Context, userID int64, limit int) ([]Record, error) {
	return l.records.ListByUser(ctx, userID, limit)
}

// applyChanges mutates a copy of the calculation state by the record's
// changes, clamped to the safety invariants:
// tdee <= targetCalories <= tdee + MaxSurplus, targetCalories >= MinTargetCalories.
func (l *Ledger) applyChanges(state users.CalculationState, changes Changes, now time.Time) users.CalculationState {
	state.TargetCalories += float64(changes.CalorieAdjustment)
	if state.TargetCalories > state.TDEE+l.bounds.MaxSurplus {
		state.TargetCalories = state.TDEE + l.bounds.MaxSurplus
	}
	if state.TargetCalories < state.TDEE {
		state.TargetCalories = state.TDEE
	}
	if state.TargetCalories < l.bounds.MinTargetCalories {
		state.TargetCalories = l.bounds.MinTargetCalories
	}

	state.ProteinGrams += changes.MacroAdjustments.ProteinGrams
	state.CarbsGrams += changes.MacroAdjustments.CarbsGrams
	state.FatGrams += changes.MacroAdjustments.FatGrams
	if state.ProteinGrams < 0 {
		state.ProteinGrams = 0
	}
	if state.CarbsGrams < 0 {
		state.CarbsGrams = 0
	}
	if state.FatGrams < 0 {
		state.FatGrams = 0
	}

	state.UpdatedAt = now
	return state
}

func analysisSummary(trend *WeightTrendAnalysis, overtraining *OvertrainingAnalysis, rec *Recommendation) string {
	if !rec.AdaptationNeeded {
		if trend != nil && trend.HasData {
			return fmt.Sprintf("on track: trend %s, no adjustments needed", trend.Trend)
		}
		return "not enough data yet, keep logging"
	}

	summary := fmt.Sprintf("adaptation proposed [%s]", rec.Trigger)
	if rec.Changes.CalorieAdjustment != 0 {
		summary += fmt.Sprintf(", calories %+d", rec.Changes.CalorieAdjustment)
	}
	if carbs := rec.Changes.MacroAdjustments.CarbsGrams; carbs != 0 {
		summary += fmt.Sprintf(", carbs %+dg", carbs)
	}
	if overtraining != nil && overtraining.Detected {
		summary += fmt.Sprintf(", overtraining risk %s", overtraining.RiskLevel)
	}
	return summary
}
