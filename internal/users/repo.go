package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/gaintrack/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrUsernameTaken = errors.New("username taken")
)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

const userColumns = `
	id, username, password_hash,
	sex, age, height_cm, weight_kg, activity_level, goal_intensity, protein_preference,
	bmr, tdee, target_calories, protein_grams, carbs_grams, fat_grams, calc_updated_at,
	created_at`

func (r *Repo) Add(ctx context.Context, user *User) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.add")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	rows, err := r.db.Query(
		ctx,
		`INSERT INTO users
				(username, password_hash,
				sex, age, height_cm, weight_kg, activity_level, goal_intensity, protein_preference,
				bmr, tdee, target_calories, protein_grams, carbs_grams, fat_grams, calc_updated_at,
				created_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
			RETURNING id;`,
		user.Username, user.PasswordHash,
		user.Profile.Sex, user.Profile.Age, user.Profile.HeightCm, user.Profile.WeightKg,
		user.Profile.ActivityLevel, user.Profile.GoalIntensity, user.Profile.ProteinPreference,
		user.CalcState.BMR, user.CalcState.TDEE, user.CalcState.TargetCalories,
		user.CalcState.ProteinGrams, user.CalcState.CarbsGrams, user.CalcState.FatGrams,
		user.CalcState.UpdatedAt,
		user.CreatedAt,
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

	if err := rows.Scan(&user.ID); err != nil {
		return nil, fmt.Errorf("rows scan: %w", err)
	}

	return user, nil
}

func (r *Repo) Get(ctx context.Context, id int64) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.get")
	span.SetAttributes(attribute.Int64("user.id", id))
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	rows, err := r.db.Query(
		ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1;`,
		id,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	found, err := r.rows2users(rows)
	if err != nil {
		return nil, err
	}
	if len(found) != 1 {
		return nil, ErrUserNotFound
	}

	return &found[0], nil
}

func (r *Repo) GetByUsername(ctx context.Context, username string) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.getByUsername")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	rows, err := r.db.Query(
		ctx,
		`SELECT `+userColumns+` FROM users WHERE username = $1;`,
		username,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	found, err := r.rows2users(rows)
	if err != nil {
		return nil, err
	}
	if len(found) != 1 {
		return nil, ErrUserNotFound
	}

	return &found[0], nil
}

func (r *Repo) UpdateProfile(ctx context.Context, userID int64, profile Profile) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.updateProfile")
	span.SetAttributes(attribute.Int64("user.id", userID))
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	tag, err := r.db.Exec(
		ctx,
		`UPDATE users SET
				sex = $1, age = $2, height_cm = $3, weight_kg = $4,
				activity_level = $5, goal_intensity = $6, protein_preference = $7
			WHERE id = $8;`,
		profile.Sex, profile.Age, profile.HeightCm, profile.WeightKg,
		profile.ActivityLevel, profile.GoalIntensity, profile.ProteinPreference,
		userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *Repo) UpdateCalculationState(ctx context.Context, userID int64, state CalculationState) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.updateCalcState")
	span.SetAttributes(attribute.Int64("user.id", userID))
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	tag, err := r.db.Exec(
		ctx,
		`UPDATE users SET
				bmr = $1, tdee = $2, target_calories = $3,
				protein_grams = $4, carbs_grams = $5, fat_grams = $6, calc_updated_at = $7
			WHERE id = $8;`,
		state.BMR, state.TDEE, state.TargetCalories,
		state.ProteinGrams, state.CarbsGrams, state.FatGrams, state.UpdatedAt,
		userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// TargetCalories reads only the user's current calorie target. The
// calorie log write path stamps it on every new entry.
func (r *Repo) TargetCalories(ctx context.Context, userID int64) (target float64, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.targetCalories")
	span.SetAttributes(attribute.Int64("user.id", userID))
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	err = r.db.QueryRow(
		ctx,
		`SELECT target_calories FROM users WHERE id = $1;`,
		userID,
	).Scan(&target)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrUserNotFound
	}
	if err != nil {
		return 0, err
	}
	return target, nil
}

// AllUserIDs is used by the scheduled adaptive analysis run.
func (r *Repo) AllUserIDs(ctx context.Context) (_ []int64, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.allUserIDs")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	rows, err := r.db.Query(ctx, `SELECT id FROM users ORDER BY id;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (r *Repo) rows2users(rows pgx.Rows) ([]User, error) {
	var found []User
	for rows.Next() {
		var u User
		if err := rows.Scan(
			&u.ID, &u.Username, &u.PasswordHash,
			&u.Profile.Sex, &u.Profile.Age, &u.Profile.HeightCm, &u.Profile.WeightKg,
			&u.Profile.ActivityLevel, &u.Profile.GoalIntensity, &u.Profile.ProteinPreference,
			&u.CalcState.BMR, &u.CalcState.TDEE, &u.CalcState.TargetCalories,
			&u.CalcState.ProteinGrams, &u.CalcState.CarbsGrams, &u.CalcState.FatGrams,
			&u.CalcState.UpdatedAt,
			&u.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		found = append(found, u)
	}
	return found, nil
}
