package users

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/2beens/gaintrack/internal/auth"
	"github.com/2beens/gaintrack/internal/calc"
	"github.com/2beens/gaintrack/internal/telemetry/tracing"
	"github.com/2beens/gaintrack/pkg"

	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=users_test

type userRepo interface {
	Add(ctx context.Context, user *User) (*User, error)
	Get(ctx context.Context, id int64) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	UpdateProfile(ctx context.Context, userID int64, profile Profile) error
	UpdateCalculationState(ctx context.Context, userID int64, state CalculationState) error
}

type loginService interface {
	StartSession(ctx context.Context, userID int64, createdAt time.Time) (string, error)
	EndSession(ctx context.Context, token string) (bool, error)
}

type Handler struct {
	repo       userRepo
	authSvc    loginService
	calcEngine *calc.Engine
	now        func() time.Time
}

func NewHandler(repo userRepo, authSvc loginService, calcEngine *calc.Engine) *Handler {
	return &Handler{
		repo:       repo,
		authSvc:    authSvc,
		calcEngine: calcEngine,
		now:        time.Now,
	}
}

type RegisterRequest struct {
	Username string  `json:"username"`
	Password string  `json:"password"`
	Profile  Profile `json:"profile"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

func (handler *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.users.register")
	defer span.End()

	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Errorf("register, unmarshal json params: %s", err)
		http.Error(w, "register failed", http.StatusBadRequest)
		return
	}

	if req.Username == "" || len(req.Password) < 8 {
		http.Error(w, "error, username empty or password too short", http.StatusBadRequest)
		return
	}

	calcResult, err := handler.computeState(req.Profile)
	if err != nil {
		log.Tracef("register %s, invalid profile: %s", req.Username, err)
		http.Error(w, "error, invalid profile", http.StatusBadRequest)
		return
	}

	passwordHash, err := pkg.HashPassword(req.Password)
	if err != nil {
		log.Errorf("register %s, hash password: %s", req.Username, err)
		http.Error(w, "register failed", http.StatusInternalServerError)
		return
	}

	now := handler.now()
	user := &User{
		Username:     req.Username,
		PasswordHash: passwordHash,
		Profile:      req.Profile,
		CalcState:    *calcResult,
		CreatedAt:    now,
	}

	added, err := handler.repo.Add(ctx, user)
	if err != nil {
		if pkg.IsUniqueViolationError(err) || errors.Is(err, ErrUsernameTaken) {
			http.Error(w, "error, username taken", http.StatusConflict)
			return
		}
		log.Errorf("register, failed to add user %s: %s", req.Username, err)
		http.Error(w, "register failed", http.StatusInternalServerError)
		return
	}

	log.Debugf("new user registered: %s [id %d]", added.Username, added.ID)

	addedJson, err := json.Marshal(added)
	if err != nil {
		log.Errorf("register, marshal user: %s", err)
		http.Error(w, "register failed", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, addedJson, http.StatusCreated)
}

func (handler *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.users.login")
	defer span.End()

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Errorf("login, unmarshal json params: %s", err)
		http.Error(w, "login failed", http.StatusBadRequest)
		return
	}

	if req.Username == "" || req.Password == "" {
		http.Error(w, "error, username or password empty", http.StatusBadRequest)
		return
	}

	user, err := handler.repo.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			http.Error(w, "error, invalid credentials", http.StatusUnauthorized)
			return
		}
		log.Errorf("login, get user %s: %s", req.Username, err)
		http.Error(w, "login failed", http.StatusInternalServerError)
		return
	}

	if !pkg.CheckPasswordHash(req.Password, user.PasswordHash) {
		http.Error(w, "error, invalid credentials", http.StatusUnauthorized)
		return
	}

	token, err := handler.authSvc.StartSession(ctx, user.ID, handler.now())
	if err != nil {
		log.Errorf("login, start session for user %d: %s", user.ID, err)
		http.Error(w, "login failed", http.StatusInternalServerError)
		return
	}

	log.Debugf("user %s [id %d] logged in", user.Username, user.ID)

	resp, err := json.Marshal(LoginResponse{Token: token})
	if err != nil {
		log.Errorf("login, marshal response: %s", err)
		http.Error(w, "login failed", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, resp, http.StatusOK)
}

func (handler *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.users.logout")
	defer span.End()

	token := r.Header.Get("X-GAINTRACK-TOKEN")
	if token == "" {
		http.Error(w, "error, token empty", http.StatusBadRequest)
		return
	}

	ended, err := handler.authSvc.EndSession(ctx, token)
	if err != nil {
		log.Errorf("logout: %s", err)
		http.Error(w, "logout failed", http.StatusInternalServerError)
		return
	}
	if !ended {
		http.Error(w, "error, session not found", http.StatusBadRequest)
		return
	}

	pkg.WriteTextResponseOK(w, "logged-out")
}

func (handler *Handler) HandleGetMe(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.users.getMe")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no user", http.StatusUnauthorized)
		return
	}

	user, err := handler.repo.Get(ctx, userID)
	if err != nil {
		log.Errorf("get user %d: %s", userID, err)
		http.Error(w, "error, user not found", http.StatusNotFound)
		return
	}

	userJson, err := json.Marshal(user)
	if err != nil {
		log.Errorf("marshal user %d: %s", userID, err)
		http.Error(w, "error, failed to get user", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, userJson, http.StatusOK)
}

// HandleUpdateProfile stores the new profile and recalculates the user's
// calorie and macro targets from scratch.
func (handler *Handler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.users.updateProfile")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no user", http.StatusUnauthorized)
		return
	}

	var profile Profile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		log.Errorf("update profile, unmarshal json params: %s", err)
		http.Error(w, "update profile failed", http.StatusBadRequest)
		return
	}

	newState, err := handler.computeState(profile)
	if err != nil {
		log.Tracef("update profile for user %d, invalid profile: %s", userID, err)
		http.Error(w, "error, invalid profile", http.StatusBadRequest)
		return
	}

	if err := handler.repo.UpdateProfile(ctx, userID, profile); err != nil {
		log.Errorf("update profile for user %d: %s", userID, err)
		http.Error(w, "update profile failed", http.StatusInternalServerError)
		return
	}
	if err := handler.repo.UpdateCalculationState(ctx, userID, *newState); err != nil {
		log.Errorf("update calc state for user %d: %s", userID, err)
		http.Error(w, "update profile failed", http.StatusInternalServerError)
		return
	}

	log.Debugf("profile updated for user %d, new target: %.0f kcal", userID, newState.TargetCalories)

	stateJson, err := json.Marshal(newState)
	if err != nil {
		log.Errorf("marshal calc state for user %d: %s", userID, err)
		http.Error(w, "update profile failed", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, stateJson, http.StatusOK)
}

func (handler *Handler) HandleGetTargets(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.users.getTargets")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no user", http.StatusUnauthorized)
		return
	}

	user, err := handler.repo.Get(ctx, userID)
	if err != nil {
		log.Errorf("get targets for user %d: %s", userID, err)
		http.Error(w, "error, user not found", http.StatusNotFound)
		return
	}

	stateJson, err := json.Marshal(user.CalcState)
	if err != nil {
		log.Errorf("marshal calc state for user %d: %s", userID, err)
		http.Error(w, "error, failed to get targets", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, stateJson, http.StatusOK)
}

func (handler *Handler) computeState(profile Profile) (*CalculationState, error) {
	result, err := handler.calcEngine.Compute(calc.ComputeInput{
		WeightKg:          profile.WeightKg,
		HeightCm:          profile.HeightCm,
		Age:               profile.Age,
		Sex:               profile.Sex,
		ActivityLevel:     profile.ActivityLevel,
		GoalIntensity:     profile.GoalIntensity,
		ProteinPreference: profile.ProteinPreference,
	})
	if err != nil {
		return nil, err
	}

	return &CalculationState{
		BMR:            result.BMR,
		TDEE:           result.TDEE,
		TargetCalories: result.TargetCalories,
		ProteinGrams:   result.Macros.ProteinGrams,
		CarbsGrams:     result.Macros.CarbsGrams,
		FatGrams:       result.Macros.FatGrams,
		UpdatedAt:      handler.now(),
	}, nil
}
