package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/2beens/gaintrack/internal/adaptive"
	"github.com/2beens/gaintrack/internal/auth"
	"github.com/2beens/gaintrack/internal/calc"
	"github.com/2beens/gaintrack/internal/config"
	"github.com/2beens/gaintrack/internal/db"
	"github.com/2beens/gaintrack/internal/logbook"
	"github.com/2beens/gaintrack/internal/middleware"
	"github.com/2beens/gaintrack/internal/progress"
	"github.com/2beens/gaintrack/internal/telemetry/metrics"
	"github.com/2beens/gaintrack/internal/telemetry/tracing"
	"github.com/2beens/gaintrack/internal/users"
	"github.com/2beens/gaintrack/pkg"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
)

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	versionInfo       string

	config *config.Config
	dbPool *pgxpool.Pool

	redisClient  *redis.Client
	loginChecker *auth.LoginChecker
	authService  *auth.Service

	calcEngine *calc.Engine
	ledger     *adaptive.Ledger
	reporter   *progress.Reporter

	// telemetry
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config                  *config.Config
	VersionInfo             string
	RedisPassword           string
	HoneycombTracingEnabled bool
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:         params.Config.PostgresHost,
		DBPort:         params.Config.PostgresPort,
		DBName:         params.Config.PostgresDBName,
		TracingEnabled: params.HoneycombTracingEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("new db pool: %w", err)
	}

	if err := dbPool.Ping(ctx); err != nil {
		log.Warnf("failed to ping db: %s", err)
	}

	pgxpoolCollector := pgxpoolprometheus.NewCollector(
		dbPool,
		map[string]string{"db_name": params.Config.PostgresDBName},
	)
	promRegistry := metrics.SetupPrometheus(pgxpoolCollector)
	metricsManager := metrics.NewManager("gaintrack", "backend", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0)

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(params.Config.RedisHost, params.Config.RedisPort),
		Password: params.RedisPassword,
		DB:       0, // use default DB
	})

	rdbStatus := rdb.Ping(ctx)
	if err := rdbStatus.Err(); err != nil {
		log.Errorf("--> failed to ping redis: %s", err)
	} else {
		log.Debugf("redis ping: %s", rdbStatus.Val())
	}

	authService := auth.NewService(auth.DefaultTTL, rdb)
	go func() {
		for range time.Tick(time.Hour * 8) {
			authService.ScanAndClean(ctx)
		}
	}()

	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracing.HoneycombSetup(params.HoneycombTracingEnabled, "gaintrack-backend", rdb)
	if err != nil {
		return nil, err
	}

	calcParams := calc.DefaultParams()
	logRepo := logbook.NewRepo(dbPool)
	adaptationsRepo := adaptive.NewRepo(dbPool)
	readTimeout := time.Duration(params.Config.LogReadTimeoutSeconds) * time.Second

	ledger := adaptive.NewLedger(adaptive.NewLedgerParams{
		Analyzer:          adaptive.NewDefaultAnalyzer(),
		DecisionEngine:    adaptive.NewDefaultDecisionEngine(),
		Logs:              logRepo,
		Records:           adaptationsRepo,
		Users:             users.NewRepo(dbPool),
		Metrics:           metricsManager,
		ReadTimeout:       readTimeout,
		MaxSurplus:        calcParams.MaxSurplus,
		MinTargetCalories: calcParams.MinTargetCalories,
	})

	reporter := progress.NewReporter(progress.NewReporterParams{
		Analyzer:    adaptive.NewDefaultAnalyzer(),
		Scorer:      progress.NewDefaultScorer(),
		Logs:        logRepo,
		Adaptations: adaptationsRepo,
		Metrics:     metricsManager,
		ReadTimeout: readTimeout,
	})

	s := &Server{
		config:      params.Config,
		dbPool:      dbPool,
		versionInfo: params.VersionInfo,

		redisClient:  rdb,
		authService:  authService,
		loginChecker: auth.NewLoginChecker(auth.DefaultTTL, rdb),

		calcEngine: calc.NewEngine(calcParams),
		ledger:     ledger,
		reporter:   reporter,

		// telemetry
		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
	}

	s.setAdaptiveBackgroundPass(ctx)

	return s, nil
}

// setAdaptiveBackgroundPass periodically applies due adaptation records
// and evaluates the outcomes of matured ones.
func (s *Server) setAdaptiveBackgroundPass(ctx context.Context) {
	interval := time.Duration(s.config.AdaptiveApplyIntervalMinutes) * time.Minute
	go func() {
		for range time.Tick(interval) {
			applied, err := s.ledger.ApplyPendingAll(ctx)
			if err != nil {
				log.Errorf("adaptive apply pass: %s", err)
			}
			if applied > 0 {
				log.Debugf("adaptive apply pass: %d adaptation(s) applied", applied)
			}

			evaluated, err := s.ledger.EvaluateOutcomes(ctx)
			if err != nil {
				log.Errorf("adaptive outcome evaluation: %s", err)
			}
			if evaluated > 0 {
				log.Debugf("adaptive outcome evaluation: %d record(s) evaluated", evaluated)
			}
		}
	}()
}

func (s *Server) routerSetup() (*mux.Router, error) {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("gaintrack-router"))

	r.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		pkg.WriteTextResponseOK(w, "I'm all ears, chief")
	}).Methods("GET", "OPTIONS").Name("root")
	r.HandleFunc("/version", func(w http.ResponseWriter, r *http.Request) {
		pkg.WriteTextResponseOK(w, s.versionInfo)
	}).Methods("GET").Name("version")

	usersHandler := users.NewHandler(
		users.NewRepo(s.dbPool),
		s.authService,
		s.calcEngine,
	)
	reqRateLimiter := redis_rate.NewLimiter(s.redisClient)
	loginRateLimit := middleware.RateLimit(
		reqRateLimiter, "login", s.config.LoginRateLimitAllowedPerMin, s.metricsManager,
	)
	r.Handle("/a/login", loginRateLimit(http.HandlerFunc(usersHandler.HandleLogin))).Methods("POST", "OPTIONS").Name("login")
	r.HandleFunc("/a/register", usersHandler.HandleRegister).Methods("POST", "OPTIONS").Name("register")
	r.HandleFunc("/a/logout", usersHandler.HandleLogout).Methods("POST", "OPTIONS").Name("logout")
	r.HandleFunc("/me", usersHandler.HandleGetMe).Methods("GET", "OPTIONS").Name("get-me")
	r.HandleFunc("/me/profile", usersHandler.HandleUpdateProfile).Methods("PUT", "OPTIONS").Name("update-profile")
	r.HandleFunc("/me/targets", usersHandler.HandleGetTargets).Methods("GET", "OPTIONS").Name("get-targets")

	logbookHandler := logbook.NewHandler(
		logbook.NewRepo(s.dbPool),
		users.NewRepo(s.dbPool),
		s.metricsManager,
	)
	r.HandleFunc("/logbook/body-stats", logbookHandler.HandleAddBodyStats).Methods("POST", "OPTIONS").Name("new-body-stats")
	r.HandleFunc("/logbook/body-stats", logbookHandler.HandleListBodyStats).Methods("GET", "OPTIONS").Name("list-body-stats")
	r.HandleFunc("/logbook/workouts", logbookHandler.HandleAddWorkout).Methods("POST", "OPTIONS").Name("new-workout")
	r.HandleFunc("/logbook/workouts", logbookHandler.HandleListWorkouts).Methods("GET", "OPTIONS").Name("list-workouts")
	r.HandleFunc("/logbook/calories", logbookHandler.HandleAddCalories).Methods("POST", "OPTIONS").Name("new-calorie-log")
	r.HandleFunc("/logbook/calories", logbookHandler.HandleListCalories).Methods("GET", "OPTIONS").Name("list-calorie-logs")

	adaptiveHandler := adaptive.NewHandler(s.ledger)
	r.HandleFunc("/adaptive/analyze", adaptiveHandler.HandleAnalyze).Methods("POST", "OPTIONS").Name("adaptive-analyze")
	r.HandleFunc("/adaptive/apply", adaptiveHandler.HandleApply).Methods("POST", "OPTIONS").Name("adaptive-apply")
	r.HandleFunc("/adaptive/history", adaptiveHandler.HandleHistory).Methods("GET", "OPTIONS").Name("adaptive-history")

	progressHandler := progress.NewHandler(s.reporter)
	r.HandleFunc("/progress/report", progressHandler.HandleGetReport).Methods("GET", "OPTIONS").Name("progress-report")
	r.HandleFunc("/progress/streak", progressHandler.HandleGetStreak).Methods("GET", "OPTIONS").Name("progress-streak")

	// all the rest - unhandled paths
	r.HandleFunc("/{unknown}", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}).Methods("GET", "POST", "PUT", "OPTIONS").Name("unknown")

	authMiddleware := middleware.NewAuthMiddlewareHandler(s.loginChecker)

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors())
	r.Use(authMiddleware.AuthCheck())
	r.Use(middleware.DrainAndCloseRequest())

	return r, nil
}

func (s *Server) Serve(ctx context.Context, host string, port int) {
	router, err := s.routerSetup()
	if err != nil {
		log.Fatalf("failed to setup router: %s", err)
	}

	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      router,
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
		ConnState:    s.connStateMetrics,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.HandlerFor(
		s.promRegistry,
		promhttp.HandlerOpts{},
	))
	metricsAddr := net.JoinHostPort(s.config.PrometheusMetricsHost, s.config.PrometheusMetricsPort)
	s.metricsHttpServer = &http.Server{
		Addr:    metricsAddr,
		Handler: metricsRouter,
	}

	go func() {
		log.Infof(" > server listening on: [%s]", ipAndPort)
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("main service, listen and serve: %s", err)
		}
	}()

	go func() {
		log.Debugf(" > metrics listening on: [%s]", metricsAddr)
		err := s.metricsHttpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("metrics service, listen and serve: %s", err)
		}
	}()

	s.metricsManager.GaugeLifeSignal.Set(1)
}

func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")

	s.metricsManager.GaugeLifeSignal.Set(0)

	s.otelShutdown()
	log.Trace("otel shut down ...")

	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			log.Errorf("failed to close redis client conn: %s", err)
		}
	}

	if s.dbPool != nil {
		log.Debugln("closing db pool ...")
		s.dbPool.Close() // blocking operation
		log.Debugln("db pool closed")
	}

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		log.Error(" >>> failed to gracefully shutdown http server")
	}
	log.Warnln("server shut down")

	if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
		log.Error(" >>> failed to gracefully shutdown metrics http server")
	}
	log.Warnln("metrics server shut down")
}

func (s *Server) connStateMetrics(_ net.Conn, state http.ConnState) {
	switch state {
	case http.StateNew:
		s.metricsManager.GaugeRequests.Add(1)
	case http.StateClosed:
		s.metricsManager.GaugeRequests.Add(-1)
	default:
		// do nothing
	}
}
