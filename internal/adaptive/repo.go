package adaptive

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/gaintrack/internal/telemetry/tracing"
	"github.com/2beens/gaintrack/internal/users"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

var (
	ErrRecordNotFound       = errors.New("adaptation record not found")
	ErrRecordAlreadyApplied = errors.New("adaptation record already applied")
)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Save(ctx context.Context, record *Record) (_ *Record, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.adaptive.save")
	span.SetAttributes(attribute.Int64("user.id", record.UserID))
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	if err := record.Validate(); err != nil {
		return nil, err
	}

	changesJson, err := json.Marshal(record.Changes)
	if err != nil {
		return nil, fmt.Errorf("marshal changes: %w", err)
	}

	rows, err := r.db.Query(
		ctx,
		`INSERT INTO adaptation_record
				(user_id, trigger, changes, reasoning, created_at, effective_date, applied)
				VALUES ($1, $2, $3, $4, $5, $6, false)
			RETURNING id;`,
		record.UserID, record.Trigger, changesJson, record.Reasoning,
		record.CreatedAt, record.EffectiveDate,
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

	if err := rows.Scan(&record.ID); err != nil {
		return nil, fmt.Errorf("rows scan: %w", err)
	}

	return record, nil
}

const recordColumns = `
	id, user_id, trigger, changes, reasoning,
	created_at, effective_date, applied, applied_at, results`

// Pending returns unapplied records whose effective date has passed,
// oldest first.
func (r *Repo) Pending(ctx context.Context, userID int64, now time.Time) (_ []Record, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.adaptive.pending")
	span.SetAttributes(attribute.Int64("user.id", userID))
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	rows, err := r.db.Query(
		ctx,
		`SELECT `+recordColumns+`
			FROM adaptation_record
			WHERE user_id = $1 AND applied = false AND effective_date <= $2
			ORDER BY created_at ASC;`,
		userID, now,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return r.rows2records(rows)
}

func (r *Repo) ListByUser(ctx context.Context, userID int64, limit int) (_ []Record, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.adaptive.listByUser")
	span.SetAttributes(attribute.Int64("user.id", userID))
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	rows, err := r.db.Query(
		ctx,
		`SELECT `+recordColumns+`
			FROM adaptation_record
			WHERE user_id = $1
			ORDER BY created_at DESC
			LIMIT $2;`,
		userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return r.rows2records(rows)
}

// MarkApplied flips the applied flag, guarded so a record can be applied
// at most once even with concurrent apply passes. Returns
// ErrRecordAlreadyApplied when another pass won the race (or the record
// does not exist).
func (r *Repo) MarkApplied(ctx context.Context, recordID int64, appliedAt time.Time) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.adaptive.markApplied")
	span.SetAttributes(attribute.Int64("record.id", recordID))
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	tag, err := r.db.Exec(
		ctx,
		`UPDATE adaptation_record SET applied = true, applied_at = $1
			WHERE id = $2 AND applied = false;`,
		appliedAt, recordID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrRecordAlreadyApplied
	}
	return nil
}

// Apply atomically claims the record (applied=false -> true), reads the
// user's calculation state as it is right now with the row locked,
// computes the new state from it and writes the result, all in one
// transaction. Losing the claim race rolls back without touching the
// state, and computing against the locked row means the effect of a
// record applied by a concurrent pass is never overwritten.
func (r *Repo) Apply(
	ctx context.Context,
	record Record,
	compute func(current users.CalculationState) users.CalculationState,
	appliedAt time.Time,
) (newState users.CalculationState, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.adaptive.apply")
	span.SetAttributes(attribute.Int64("record.id", record.ID))
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return users.CalculationState{}, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			if rollbackErr := tx.Rollback(ctx); rollbackErr != nil && !errors.Is(rollbackErr, pgx.ErrTxClosed) {
				log.Errorf("apply adaptation %d, rollback: %s", record.ID, rollbackErr)
			}
		}
	}()

	tag, err := tx.Exec(
		ctx,
		`UPDATE adaptation_record SET applied = true, applied_at = $1
			WHERE id = $2 AND applied = false;`,
		appliedAt, record.ID,
	)
	if err != nil {
		return users.CalculationState{}, err
	}
	if tag.RowsAffected() == 0 {
		return users.CalculationState{}, ErrRecordAlreadyApplied
	}

	var current users.CalculationState
	err = tx.QueryRow(
		ctx,
		`SELECT bmr, tdee, target_calories, protein_grams, carbs_grams, fat_grams, calc_updated_at
			FROM users WHERE id = $1
			FOR UPDATE;`,
		record.UserID,
	).Scan(
		&current.BMR, &current.TDEE, &current.TargetCalories,
		&current.ProteinGrams, &current.CarbsGrams, &current.FatGrams, &current.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		err = fmt.Errorf("user %d not found", record.UserID)
		return users.CalculationState{}, err
	}
	if err != nil {
		return users.CalculationState{}, err
	}

	newState = compute(current)

	if _, err = tx.Exec(
		ctx,
		`UPDATE users SET
				bmr = $1, tdee = $2, target_calories = $3,
				protein_grams = $4, carbs_grams = $5, fat_grams = $6, calc_updated_at = $7
			WHERE id = $8;`,
		newState.BMR, newState.TDEE, newState.TargetCalories,
		newState.ProteinGrams, newState.CarbsGrams, newState.FatGrams, newState.UpdatedAt,
		record.UserID,
	); err != nil {
		return users.CalculationState{}, err
	}

	if err = tx.Commit(ctx); err != nil {
		return users.CalculationState{}, err
	}
	return newState, nil
}

// AttachResults stores the outcome evaluation on an applied record.
// Does not touch the applied flag.
func (r *Repo) AttachResults(ctx context.Context, recordID int64, results Results) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.adaptive.attachResults")
	span.SetAttributes(attribute.Int64("record.id", recordID))
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	resultsJson, err := json.Marshal(results)
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}

	tag, err := r.db.Exec(
		ctx,
		`UPDATE adaptation_record SET results = $1
			WHERE id = $2 AND applied = true;`,
		resultsJson, recordID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// UserIDsWithPending returns the users that have unapplied records due
// for application, used by the scheduled apply pass.
func (r *Repo) UserIDsWithPending(ctx context.Context, now time.Time) (_ []int64, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.adaptive.userIDsWithPending")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	rows, err := r.db.Query(
		ctx,
		`SELECT DISTINCT user_id FROM adaptation_record
			WHERE applied = false AND effective_date <= $1
			ORDER BY user_id;`,
		now,
	)
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

// AppliedWithoutResults returns records applied before the cutoff that
// still have no outcome evaluation attached.
func (r *Repo) AppliedWithoutResults(ctx context.Context, appliedBefore time.Time) (_ []Record, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.adaptive.appliedWithoutResults")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	rows, err := r.db.Query(
		ctx,
		`SELECT `+recordColumns+`
			FROM adaptation_record
			WHERE applied = true AND results IS NULL AND applied_at <= $1
			ORDER BY applied_at ASC;`,
		appliedBefore,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return r.rows2records(rows)
}

func (r *Repo) rows2records(rows pgx.Rows) ([]Record, error) {
	var records []Record
	for rows.Next() {
		var record Record
		var changesBytes, resultsBytes []byte
		if err := rows.Scan(
			&record.ID, &record.UserID, &record.Trigger, &changesBytes, &record.Reasoning,
			&record.CreatedAt, &record.EffectiveDate, &record.Applied, &record.AppliedAt, &resultsBytes,
		); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		if err := json.Unmarshal(changesBytes, &record.Changes); err != nil {
			return nil, fmt.Errorf("unmarshal changes: %w", err)
		}
		if len(resultsBytes) > 0 {
			record.Results = &Results{}
			if err := json.Unmarshal(resultsBytes, record.Results); err != nil {
				return nil, fmt.Errorf("unmarshal results: %w", err)
			}
		}
		records = append(records, record)
	}
	return records, nil
}
