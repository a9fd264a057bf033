package logbook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/gaintrack/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var ErrEntryNotFound = errors.New("log entry not found")

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) AddBodyStats(ctx context.Context, entry *BodyStatsEntry) (_ *BodyStatsEntry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.logbook.addBodyStats")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	measurementsJson, err := json.Marshal(entry.Measurements)
	if err != nil {
		return nil, fmt.Errorf("marshal measurements: %w", err)
	}

	rows, err := r.db.Query(
		ctx,
		`INSERT INTO body_stats
				(user_id, weight_kg, body_fat_pct, measurements, notes, created_at)
				VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id;`,
		entry.UserID, entry.WeightKg, entry.BodyFatPct, measurementsJson, entry.Notes, entry.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if !rows.Next() {
		return nil, errors.New("unexpected error [no rows next]")
	}

	if err := rows.Scan(&entry.ID); err != nil {
		return nil, fmt.Errorf("rows scan: %w", err)
	}

	return entry, nil
}

func (r *Repo) AddWorkoutLog(ctx context.Context, entry *WorkoutLogEntry) (_ *WorkoutLogEntry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.logbook.addWorkoutLog")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	exercisesJson, err := json.Marshal(entry.Exercises)
	if err != nil {
		return nil, fmt.Errorf("marshal exercises: %w", err)
	}

	rows, err := r.db.Query(
		ctx,
		`INSERT INTO workout_log
				(user_id, plan, duration_minutes, intensity, exercises, created_at)
				VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id;`,
		entry.UserID, entry.Plan, entry.DurationMinutes, entry.Intensity, exercisesJson, entry.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if !rows.Next() {
		return nil, errors.New("unexpected error [no rows next]")
	}

	if err := rows.Scan(&entry.ID); err != nil {
		return nil, fmt.Errorf("rows scan: %w", err)
	}

	return entry, nil
}

func (r *Repo) AddCalorieLog(ctx context.Context, entry *CalorieLogEntry) (_ *CalorieLogEntry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.logbook.addCalorieLog")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	mealsJson, err := json.Marshal(entry.Meals)
	if err != nil {
		return nil, fmt.Errorf("marshal meals: %w", err)
	}

	rows, err := r.db.Query(
		ctx,
		`INSERT INTO calorie_log
				(user_id, meals, consumed_calories, protein_grams, carbs_grams, fat_grams, target_calories, created_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING id;`,
		entry.UserID, mealsJson, entry.ConsumedCalories, entry.ProteinGrams, entry.CarbsGrams, entry.FatGrams,
		entry.TargetCalories, entry.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if !rows.Next() {
		return nil, errors.New("unexpected error [no rows next]")
	}

	if err := rows.Scan(&entry.ID); err != nil {
		return nil, fmt.Errorf("rows scan: %w", err)
	}

	return entry, nil
}

// BodyStatsInRange returns body stats entries for the user within [from, to],
// ordered oldest first. Trend analysis depends on that ordering.
func (r *Repo) BodyStatsInRange(ctx context.Context, userID int64, from, to time.Time) (_ []BodyStatsEntry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.logbook.bodyStatsInRange")
	span.SetAttributes(attribute.Int64("user.id", userID))
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	rows, err := r.db.Query(
		ctx,
		`
			SELECT
				id, user_id, weight_kg, body_fat_pct, measurements, notes, created_at
			FROM body_stats
			WHERE user_id = $1 AND created_at >= $2 AND created_at <= $3
			ORDER BY created_at ASC;`,
		userID, from, to,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return r.rows2bodyStats(rows)
}

func (r *Repo) WorkoutLogsInRange(ctx context.Context, userID int64, from, to time.Time) (_ []WorkoutLogEntry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.logbook.workoutLogsInRange")
	span.SetAttributes(attribute.Int64("user.id", userID))
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	rows, err := r.db.Query(
		ctx,
		`
			SELECT
				id, user_id, plan, duration_minutes, intensity, exercises, created_at
			FROM workout_log
			WHERE user_id = $1 AND created_at >= $2 AND created_at <= $3
			ORDER BY created_at ASC;`,
		userID, from, to,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return r.rows2workoutLogs(rows)
}

func (r *Repo) CalorieLogsInRange(ctx context.Context, userID int64, from, to time.Time) (_ []CalorieLogEntry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.logbook.calorieLogsInRange")
	span.SetAttributes(attribute.Int64("user.id", userID))
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	rows, err := r.db.Query(
		ctx,
		`
			SELECT
				id, user_id, meals, consumed_calories, protein_grams, carbs_grams, fat_grams, target_calories, created_at
			FROM calorie_log
			WHERE user_id = $1 AND created_at >= $2 AND created_at <= $3
			ORDER BY created_at ASC;`,
		userID, from, to,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return r.rows2calorieLogs(rows)
}

// CalorieStreak counts consecutive days with a met calorie target,
// ending at the most recent calorie log entry.
func (r *Repo) CalorieStreak(ctx context.Context, userID int64) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.logbook.calorieStreak")
	span.SetAttributes(attribute.Int64("user.id", userID))
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	rows, err := r.db.Query(
		ctx,
		`
			SELECT
				id, user_id, meals, consumed_calories, protein_grams, carbs_grams, fat_grams, target_calories, created_at
			FROM calorie_log
			WHERE user_id = $1
			ORDER BY created_at DESC
			LIMIT 366;`,
		userID,
	)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return 0, err
	}

	entries, err := r.rows2calorieLogs(rows)
	if err != nil {
		return 0, err
	}

	streak := 0
	var prevDay time.Time
	for i := range entries {
		e := &entries[i]
		if !e.TargetMet() {
			break
		}
		day := e.CreatedAt.Truncate(24 * time.Hour)
		if streak > 0 {
			gap := prevDay.Sub(day)
			if gap > 24*time.Hour {
				break
			}
			if gap == 0 {
				// same day logged twice, counts once
				continue
			}
		}
		streak++
		prevDay = day
	}

	return streak, nil
}

// WeightBounds returns the first-ever and the latest logged weight of
// the user. ok is false when no body stats were logged yet.
func (r *Repo) WeightBounds(ctx context.Context, userID int64) (firstKg, latestKg float64, ok bool, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.logbook.weightBounds")
	span.SetAttributes(attribute.Int64("user.id", userID))
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	err = r.db.QueryRow(
		ctx,
		`SELECT weight_kg FROM body_stats WHERE user_id = $1 ORDER BY created_at ASC LIMIT 1;`,
		userID,
	).Scan(&firstKg)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, 0, false, nil
	}
	if err != nil {
		return 0, 0, false, err
	}

	err = r.db.QueryRow(
		ctx,
		`SELECT weight_kg FROM body_stats WHERE user_id = $1 ORDER BY created_at DESC LIMIT 1;`,
		userID,
	).Scan(&latestKg)
	if err != nil {
		return 0, 0, false, err
	}

	return firstKg, latestKg, true, nil
}

// WorkoutCount returns the lifetime number of logged workouts.
func (r *Repo) WorkoutCount(ctx context.Context, userID int64) (count int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.logbook.workoutCount")
	span.SetAttributes(attribute.Int64("user.id", userID))
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	err = r.db.QueryRow(
		ctx,
		`SELECT COUNT(*) FROM workout_log WHERE user_id = $1;`,
		userID,
	).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// WorkoutCountSince counts workouts logged at or after the given time.
func (r *Repo) WorkoutCountSince(ctx context.Context, userID int64, since time.Time) (count int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.logbook.workoutCountSince")
	span.SetAttributes(attribute.Int64("user.id", userID))
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	err = r.db.QueryRow(
		ctx,
		`SELECT COUNT(*) FROM workout_log WHERE user_id = $1 AND created_at >= $2;`,
		userID, since,
	).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// DaysTracked counts distinct calendar days on which the user logged
// either body stats or a workout.
func (r *Repo) DaysTracked(ctx context.Context, userID int64) (days int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.logbook.daysTracked")
	span.SetAttributes(attribute.Int64("user.id", userID))
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	err = r.db.QueryRow(
		ctx,
		`
			SELECT COUNT(*) FROM (
				SELECT DATE(created_at) AS day FROM body_stats WHERE user_id = $1
				UNION
				SELECT DATE(created_at) FROM workout_log WHERE user_id = $1
			) tracked_days;`,
		userID,
	).Scan(&days)
	if err != nil {
		return 0, err
	}
	return days, nil
}

// ExerciseMaxWeightsBefore returns the heaviest completed set weight per
// exercise name across all workouts logged before the given time. Used
// as the personal record baseline for progress reports.
func (r *Repo) ExerciseMaxWeightsBefore(ctx context.Context, userID int64, before time.Time) (_ map[string]float64, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.logbook.exerciseMaxWeightsBefore")
	span.SetAttributes(attribute.Int64("user.id", userID))
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	rows, err := r.db.Query(
		ctx,
		`
			SELECT
				ex->>'name' AS exercise_name,
				MAX((s->>'weightKg')::double precision) AS max_weight
			FROM workout_log,
				jsonb_array_elements(exercises) AS ex,
				jsonb_array_elements(ex->'sets') AS s
			WHERE user_id = $1
				AND created_at < $2
				AND (s->>'completed')::boolean
			GROUP BY ex->>'name';`,
		userID, before,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	maxWeights := make(map[string]float64)
	for rows.Next() {
		var name string
		var maxWeight float64
		if err := rows.Scan(&name, &maxWeight); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		maxWeights[name] = maxWeight
	}
	return maxWeights, nil
}

func (r *Repo) rows2bodyStats(rows pgx.Rows) ([]BodyStatsEntry, error) {
	var entries []BodyStatsEntry
	for rows.Next() {
		var entry BodyStatsEntry
		var measurementsBytes []byte
		if err := rows.Scan(
			&entry.ID, &entry.UserID, &entry.WeightKg, &entry.BodyFatPct,
			&measurementsBytes, &entry.Notes, &entry.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		if len(measurementsBytes) > 0 {
			if err := json.Unmarshal(measurementsBytes, &entry.Measurements); err != nil {
				return nil, fmt.Errorf("unmarshal measurements: %w", err)
			}
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (r *Repo) rows2workoutLogs(rows pgx.Rows) ([]WorkoutLogEntry, error) {
	var entries []WorkoutLogEntry
	for rows.Next() {
		var entry WorkoutLogEntry
		var exercisesBytes []byte
		if err := rows.Scan(
			&entry.ID, &entry.UserID, &entry.Plan, &entry.DurationMinutes,
			&entry.Intensity, &exercisesBytes, &entry.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		if len(exercisesBytes) > 0 {
			if err := json.Unmarshal(exercisesBytes, &entry.Exercises); err != nil {
				return nil, fmt.Errorf("unmarshal exercises: %w", err)
			}
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (r *Repo) rows2calorieLogs(rows pgx.Rows) ([]CalorieLogEntry, error) {
	var entries []CalorieLogEntry
	for rows.Next() {
		var entry CalorieLogEntry
		var mealsBytes []byte
		if err := rows.Scan(
			&entry.ID, &entry.UserID, &mealsBytes, &entry.ConsumedCalories, &entry.ProteinGrams,
			&entry.CarbsGrams, &entry.FatGrams, &entry.TargetCalories, &entry.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		if len(mealsBytes) > 0 {
			if err := json.Unmarshal(mealsBytes, &entry.Meals); err != nil {
				return nil, fmt.Errorf("unmarshal meals: %w", err)
			}
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
