package progress

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/2beens/gaintrack/internal/auth"
	"github.com/2beens/gaintrack/internal/telemetry/tracing"
	"github.com/2beens/gaintrack/pkg"

	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=progress_test

type progressService interface {
	GenerateReport(ctx context.Context, userID int64, periodDays int) (*Report, error)
	CalorieStreak(ctx context.Context, userID int64) (int, error)
}

type Handler struct {
	service progressService
}

func NewHandler(service progressService) *Handler {
	return &Handler{
		service: service,
	}
}

// HandleGetReport returns the progress report, period taken from the
// optional "days" query param.
func (handler *Handler) HandleGetReport(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progress.getReport")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no user", http.StatusUnauthorized)
		return
	}

	periodDays := DefaultPeriodDays
	if daysStr := r.URL.Query().Get("days"); daysStr != "" {
		parsed, err := strconv.Atoi(daysStr)
		if err != nil || parsed <= 0 {
			http.Error(w, "error, days NaN", http.StatusBadRequest)
			return
		}
		periodDays = parsed
	}

	report, err := handler.service.GenerateReport(ctx, userID, periodDays)
	if err != nil {
		log.Errorf("generate progress report for user %d: %s", userID, err)
		http.Error(w, "error, report failed", http.StatusInternalServerError)
		return
	}

	reportJson, err := json.Marshal(report)
	if err != nil {
		log.Errorf("marshal progress report for user %d: %s", userID, err)
		http.Error(w, "error, report failed", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, reportJson, http.StatusOK)
}

type StreakResponse struct {
	Streak int `json:"streak"`
}

// HandleGetStreak returns the current met-target calorie streak.
func (handler *Handler) HandleGetStreak(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progress.getStreak")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no user", http.StatusUnauthorized)
		return
	}

	streak, err := handler.service.CalorieStreak(ctx, userID)
	if err != nil {
		log.Errorf("get calorie streak for user %d: %s", userID, err)
		http.Error(w, "error, failed to get streak", http.StatusInternalServerError)
		return
	}

	resp, err := json.Marshal(StreakResponse{Streak: streak})
	if err != nil {
		log.Errorf("marshal streak for user %d: %s", userID, err)
		http.Error(w, "error, failed to get streak", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, resp, http.StatusOK)
}
