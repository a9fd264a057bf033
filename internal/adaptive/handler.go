package adaptive

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

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=adaptive_test

type adaptiveService interface {
	RunAnalysis(ctx context.Context, userID int64) (*AnalysisResult, error)
	ApplyPending(ctx context.Context, userID int64) ([]Record, error)
	History(ctx context.Context, userID int64, limit int) ([]Record, error)
}

type Handler struct {
	service adaptiveService
}

func NewHandler(service adaptiveService) *Handler {
	return &Handler{
		service: service,
	}
}

// HandleAnalyze runs the adaptive analysis on demand and returns the
// result, including the persisted adaptation record if one was created.
func (handler *Handler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.adaptive.analyze")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no user", http.StatusUnauthorized)
		return
	}

	result, err := handler.service.RunAnalysis(ctx, userID)
	if err != nil {
		log.Errorf("adaptive analysis for user %d: %s", userID, err)
		http.Error(w, "error, analysis failed", http.StatusInternalServerError)
		return
	}

	resultJson, err := json.Marshal(result)
	if err != nil {
		log.Errorf("marshal analysis result for user %d: %s", userID, err)
		http.Error(w, "error, analysis failed", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, resultJson, http.StatusOK)
}

type ApplyResponse struct {
	Applied []Record `json:"applied"`
	Total   int      `json:"total"`
}

// HandleApply applies the user's pending adaptation records.
func (handler *Handler) HandleApply(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.adaptive.apply")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no user", http.StatusUnauthorized)
		return
	}

	applied, err := handler.service.ApplyPending(ctx, userID)
	if err != nil {
		log.Errorf("apply pending adaptations for user %d: %s", userID, err)
		http.Error(w, "error, apply failed", http.StatusInternalServerError)
		return
	}

	resp, err := json.Marshal(ApplyResponse{Applied: applied, Total: len(applied)})
	if err != nil {
		log.Errorf("marshal apply response for user %d: %s", userID, err)
		http.Error(w, "error, apply failed", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, resp, http.StatusOK)
}

type HistoryResponse struct {
	Records []Record `json:"records"`
	Total   int      `json:"total"`
}

const defaultHistoryLimit = 50

// HandleHistory lists the user's most recent adaptation records.
func (handler *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.adaptive.history")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no user", http.StatusUnauthorized)
		return
	}

	limit := defaultHistoryLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed <= 0 {
			http.Error(w, "error, limit NaN", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	records, err := handler.service.History(ctx, userID, limit)
	if err != nil {
		log.Errorf("adaptation history for user %d: %s", userID, err)
		http.Error(w, "error, failed to get history", http.StatusInternalServerError)
		return
	}

	resp, err := json.Marshal(HistoryResponse{Records: records, Total: len(records)})
	if err != nil {
		log.Errorf("marshal history for user %d: %s", userID, err)
		http.Error(w, "error, failed to get history", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, resp, http.StatusOK)
}
