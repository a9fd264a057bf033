package logbook

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/2beens/gaintrack/internal/auth"
	"github.com/2beens/gaintrack/internal/telemetry/metrics"
	"github.com/2beens/gaintrack/internal/telemetry/tracing"
	"github.com/2beens/gaintrack/pkg"

	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=logbook_test

type logRepo interface {
	AddBodyStats(ctx context.Context, entry *BodyStatsEntry) (*BodyStatsEntry, error)
	AddWorkoutLog(ctx context.Context, entry *WorkoutLogEntry) (*WorkoutLogEntry, error)
	AddCalorieLog(ctx context.Context, entry *CalorieLogEntry) (*CalorieLogEntry, error)
	BodyStatsInRange(ctx context.Context, userID int64, from, to time.Time) ([]BodyStatsEntry, error)
	WorkoutLogsInRange(ctx context.Context, userID int64, from, to time.Time) ([]WorkoutLogEntry, error)
	CalorieLogsInRange(ctx context.Context, userID int64, from, to time.Time) ([]CalorieLogEntry, error)
}

// userTargets exposes the user's current calorie target, the reference
// every new calorie log entry is stamped with.
type userTargets interface {
	TargetCalories(ctx context.Context, userID int64) (float64, error)
}

type Handler struct {
	repo    logRepo
	targets userTargets
	metrics *metrics.Manager
}

func NewHandler(repo logRepo, targets userTargets, metrics *metrics.Manager) *Handler {
	return &Handler{
		repo:    repo,
		targets: targets,
		metrics: metrics,
	}
}

func (handler *Handler) HandleAddBodyStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.logbook.addBodyStats")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no user", http.StatusUnauthorized)
		return
	}

	var entry BodyStatsEntry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		log.Errorf("add body stats, unmarshal json params: %s", err)
		http.Error(w, "add body stats failed", http.StatusBadRequest)
		return
	}

	if entry.WeightKg <= 0 {
		http.Error(w, "error, weight must be positive", http.StatusBadRequest)
		return
	}
	entry.UserID = userID
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	added, err := handler.repo.AddBodyStats(ctx, &entry)
	if err != nil {
		log.Errorf("failed to add body stats for user %d: %s", userID, err)
		http.Error(w, "error, failed to add body stats", http.StatusInternalServerError)
		return
	}

	handler.metrics.CounterLogEntries.WithLabelValues("body_stats").Inc()
	log.Debugf("new body stats added for user %d: %.1fkg [id %d]", userID, added.WeightKg, added.ID)

	addedJson, err := json.Marshal(added)
	if err != nil {
		log.Errorf("failed to marshal body stats entry: %s", err)
		http.Error(w, "error, failed to add body stats", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, addedJson, http.StatusCreated)
}

func (handler *Handler) HandleAddWorkout(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.logbook.addWorkout")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no user", http.StatusUnauthorized)
		return
	}

	var entry WorkoutLogEntry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		log.Errorf("add workout, unmarshal json params: %s", err)
		http.Error(w, "add workout failed", http.StatusBadRequest)
		return
	}

	if entry.Plan == "" || entry.DurationMinutes <= 0 {
		http.Error(w, "error, workout plan or duration missing", http.StatusBadRequest)
		return
	}
	if !entry.Intensity.Valid() {
		http.Error(w, "error, invalid intensity", http.StatusBadRequest)
		return
	}
	entry.UserID = userID
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	added, err := handler.repo.AddWorkoutLog(ctx, &entry)
	if err != nil {
		log.Errorf("failed to add workout for user %d: %s", userID, err)
		http.Error(w, "error, failed to add workout", http.StatusInternalServerError)
		return
	}

	handler.metrics.CounterLogEntries.WithLabelValues("workout").Inc()
	log.Debugf("new workout added for user %d: [%s] %dmin [id %d]", userID, added.Plan, added.DurationMinutes, added.ID)

	addedJson, err := json.Marshal(added)
	if err != nil {
		log.Errorf("failed to marshal workout entry: %s", err)
		http.Error(w, "error, failed to add workout", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, addedJson, http.StatusCreated)
}

func (handler *Handler) HandleAddCalories(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.logbook.addCalories")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no user", http.StatusUnauthorized)
		return
	}

	var entry CalorieLogEntry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		log.Errorf("add calorie log, unmarshal json params: %s", err)
		http.Error(w, "add calorie log failed", http.StatusBadRequest)
		return
	}

	if entry.ConsumedCalories <= 0 {
		http.Error(w, "error, consumed calories must be positive", http.StatusBadRequest)
		return
	}
	entry.UserID = userID
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	// the stored target always comes from the user's current
	// calculation state, never from the request payload
	target, err := handler.targets.TargetCalories(ctx, userID)
	if err != nil {
		log.Errorf("failed to read calorie target for user %d: %s", userID, err)
		http.Error(w, "error, failed to add calorie log", http.StatusInternalServerError)
		return
	}
	entry.TargetCalories = target

	added, err := handler.repo.AddCalorieLog(ctx, &entry)
	if err != nil {
		log.Errorf("failed to add calorie log for user %d: %s", userID, err)
		http.Error(w, "error, failed to add calorie log", http.StatusInternalServerError)
		return
	}

	handler.metrics.CounterLogEntries.WithLabelValues("calories").Inc()

	addedJson, err := json.Marshal(added)
	if err != nil {
		log.Errorf("failed to marshal calorie log entry: %s", err)
		http.Error(w, "error, failed to add calorie log", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, addedJson, http.StatusCreated)
}

type BodyStatsListResponse struct {
	Entries []BodyStatsEntry `json:"entries"`
	Total   int              `json:"total"`
}

func (handler *Handler) HandleListBodyStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.logbook.listBodyStats")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no user", http.StatusUnauthorized)
		return
	}

	from, to, err := rangeFromQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	entries, err := handler.repo.BodyStatsInRange(ctx, userID, from, to)
	if err != nil {
		log.Errorf("failed to list body stats for user %d: %s", userID, err)
		http.Error(w, "error, failed to list body stats", http.StatusInternalServerError)
		return
	}

	resp, err := json.Marshal(BodyStatsListResponse{Entries: entries, Total: len(entries)})
	if err != nil {
		log.Errorf("failed to marshal body stats list: %s", err)
		http.Error(w, "error, failed to list body stats", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, resp, http.StatusOK)
}

type WorkoutsListResponse struct {
	Entries []WorkoutLogEntry `json:"entries"`
	Total   int               `json:"total"`
}

func (handler *Handler) HandleListWorkouts(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.logbook.listWorkouts")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no user", http.StatusUnauthorized)
		return
	}

	from, to, err := rangeFromQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	entries, err := handler.repo.WorkoutLogsInRange(ctx, userID, from, to)
	if err != nil {
		log.Errorf("failed to list workouts for user %d: %s", userID, err)
		http.Error(w, "error, failed to list workouts", http.StatusInternalServerError)
		return
	}

	resp, err := json.Marshal(WorkoutsListResponse{Entries: entries, Total: len(entries)})
	if err != nil {
		log.Errorf("failed to marshal workouts list: %s", err)
		http.Error(w, "error, failed to list workouts", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, resp, http.StatusOK)
}

type CalorieLogsListResponse struct {
	Entries []CalorieLogEntry `json:"entries"`
	Total   int               `json:"total"`
}

func (handler *Handler) HandleListCalories(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.logbook.listCalories")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no user", http.StatusUnauthorized)
		return
	}

	from, to, err := rangeFromQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	entries, err := handler.repo.CalorieLogsInRange(ctx, userID, from, to)
	if err != nil {
		log.Errorf("failed to list calorie logs for user %d: %s", userID, err)
		http.Error(w, "error, failed to list calorie logs", http.StatusInternalServerError)
		return
	}

	resp, err := json.Marshal(CalorieLogsListResponse{Entries: entries, Total: len(entries)})
	if err != nil {
		log.Errorf("failed to marshal calorie logs list: %s", err)
		http.Error(w, "error, failed to list calorie logs", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, resp, http.StatusOK)
}

// rangeFromQuery reads optional "from" and "to" query params (RFC3339),
// defaulting to the last 30 days.
func rangeFromQuery(r *http.Request) (from, to time.Time, err error) {
	now := time.Now()
	from = now.AddDate(0, 0, -30)
	to = now

	if fromStr := r.URL.Query().Get("from"); fromStr != "" {
		from, err = time.Parse(time.RFC3339, fromStr)
		if err != nil {
			return time.Time{}, time.Time{}, errors.New("error, invalid 'from' timestamp")
		}
	}
	if toStr := r.URL.Query().Get("to"); toStr != "" {
		to, err = time.Parse(time.RFC3339, toStr)
		if err != nil {
			return time.Time{}, time.Time{}, errors.New("error, invalid 'to' timestamp")
		}
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, errors.New("error, 'to' before 'from'")
	}

	return from, to, nil
}
