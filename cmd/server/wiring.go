package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/twmb/franz-go/pkg/kgo"

	"edureward/internal/identity"
	"edureward/internal/ledger"
	"edureward/internal/participation/handler"
	"edureward/internal/participation/metrics"
	"edureward/internal/participation/models"
	"edureward/internal/participation/service"
	"edureward/internal/participation/store/admission"
	"edureward/internal/participation/store/memory"
	pgstore "edureward/internal/participation/store/postgres"
	"edureward/internal/platform/config"
	"edureward/internal/platform/kafka"
	"edureward/internal/platform/postgres"
	"edureward/internal/platform/redis"
	"edureward/pkg/platform/audit/publisher"
	kafkasink "edureward/pkg/platform/audit/store/kafka"
	auditmemory "edureward/pkg/platform/audit/store/memory"
	"edureward/pkg/platform/circuit"
	"edureward/pkg/platform/httputil"
	"edureward/pkg/platform/middleware/accesslog"
	"edureward/pkg/platform/middleware/requestid"
	"edureward/pkg/platform/middleware/requesttime"
)

type app struct {
	router http.Handler
	db     *sql.DB
	redis  *redis.Client
	kafka  *kgo.Client
	audit  *publisher.Publisher
	log    *slog.Logger
}

type stores struct {
	configs service.ConfigStore
	records service.RecordStore
	tx      service.StoreTx
}

func buildApp(ctx context.Context, cfg config.Server, log *slog.Logger) (_ *app, err error) {
	a := &app{log: log}
	defer func() {
		if err != nil {
			a.Close()
		}
	}()

	if a.db, err = postgres.Open(ctx, cfg.Postgres); err != nil {
		return nil, err
	}
	st, err := buildStores(ctx, a.db, log)
	if err != nil {
		return nil, err
	}

	if a.redis, err = redis.New(ctx, cfg.Redis); err != nil {
		return nil, err
	}
	var lock service.Admission = admission.NewInMemory()
	if a.redis != nil {
		lock = admission.NewRedis(a.redis, admission.WithTTL(cfg.Redis.LockTTL))
		log.Info("admission locks backed by redis")
	}

	transferer, err := buildLedger(cfg.Ledger, log)
	if err != nil {
		return nil, err
	}

	if a.kafka, err = kafka.New(ctx, cfg.Kafka); err != nil {
		return nil, err
	}
	if a.kafka != nil {
		a.audit = publisher.NewPublisher(kafkasink.New(a.kafka, cfg.Kafka.AuditTopic),
			publisher.WithAsyncBuffer(cfg.Kafka.AuditBuffer),
			publisher.WithLogger(log),
		)
		log.Info("audit events shipped to kafka", "topic", cfg.Kafka.AuditTopic)
	} else {
		a.audit = publisher.NewPublisher(auditmemory.NewInMemoryStore(), publisher.WithLogger(log))
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	svc, err := service.New(st.configs, st.records, st.tx, transferer,
		service.WithLogger(log),
		service.WithAdmission(lock),
		service.WithAuditPublisher(a.audit),
		service.WithMetrics(metrics.New(reg)),
		service.WithPoolAccount(identity.Address(cfg.Ledger.PoolAccount)),
	)
	if err != nil {
		return nil, fmt.Errorf("build participation service: %w", err)
	}

	verifier := identity.NewJWTService(cfg.Auth.SigningKey, cfg.Auth.Issuer, cfg.Auth.Audience)

	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	r.Use(accesslog.Logger(log))
	r.Use(middleware.Recoverer)
	r.Use(requesttime.Middleware)
	handler.New(svc, verifier, log).Register(r)
	r.Get("/healthz", a.handleHealth)
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	a.router = r

	return a, nil
}

func buildStores(ctx context.Context, db *sql.DB, log *slog.Logger) (stores, error) {
	if db == nil {
		log.Warn("no database configured, registry state is in-memory only")
		tx := memory.NewTx()
		return stores{
			configs: memory.NewConfigStore(tx),
			records: memory.NewRecordStore(tx),
			tx:      tx,
		}, nil
	}
	if err := pgstore.Migrate(ctx, db); err != nil {
		return stores{}, err
	}
	return stores{
		configs: pgstore.NewConfigStore(db),
		records: pgstore.NewRecordStore(db),
		tx:      pgstore.NewTx(db),
	}, nil
}

func buildLedger(cfg config.LedgerConfig, log *slog.Logger) (service.Transferer, error) {
	if cfg.URL != "" {
		breaker := circuit.New("ledger",
			circuit.WithFailureThreshold(cfg.FailureThreshold),
			circuit.WithCooldown(cfg.Cooldown),
		)
		return ledger.NewHTTPClient(cfg.URL,
			ledger.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
			ledger.WithAPIKey(cfg.APIKey),
			ledger.WithBreaker(breaker),
			ledger.WithLogger(log),
		), nil
	}

	balance, err := models.ParseAmount(cfg.DevPoolBalance)
	if err != nil {
		return nil, fmt.Errorf("EDUREWARD_DEV_POOL_BALANCE: %w", err)
	}
	l := ledger.NewInMemory()
	if err := l.Mint(models.TokenRef(cfg.DevTokenRef), identity.Address(cfg.PoolAccount), balance); err != nil {
		return nil, err
	}
	log.Warn("using in-process ledger", "token", cfg.DevTokenRef, "pool", cfg.PoolAccount, "balance", balance.String())
	return l, nil
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

func (a *app) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	resp := healthResponse{Status: "ok", Checks: map[string]string{}}
	check := func(name string, fn func(context.Context) error) {
		if err := fn(ctx); err != nil {
			resp.Status = "degraded"
			resp.Checks[name] = err.Error()
			return
		}
		resp.Checks[name] = "ok"
	}
	if a.db != nil {
		check("postgres", a.db.PingContext)
	}
	if a.redis != nil {
		check("redis", a.redis.Health)
	}
	if a.kafka != nil {
		check("kafka", a.kafka.Ping)
	}
	status := http.StatusOK
	if resp.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	httputil.WriteJSON(w, status, resp)
}

// Close drains the audit publisher before closing the clients it writes through.
func (a *app) Close() {
	if a.audit != nil {
		a.audit.Close()
	}
	if a.kafka != nil {
		a.kafka.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.log.Warn("close redis", "error", err)
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.log.Warn("close postgres", "error", err)
		}
	}
}
