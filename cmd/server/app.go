package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/twmb/franz-go/pkg/kgo"

	"statusline/internal/activity"
	decisionhandler "statusline/internal/decision/handler"
	decisionservice "statusline/internal/decision/service"
	decisionstore "statusline/internal/decision/store"
	httpapi "statusline/internal/http"
	"statusline/internal/platform/config"
	"statusline/internal/platform/kafka"
	"statusline/internal/platform/metrics"
	"statusline/internal/platform/postgres"
	"statusline/internal/platform/redis"
	projecthandler "statusline/internal/project/handler"
	projectservice "statusline/internal/project/service"
	projectstore "statusline/internal/project/store"
	riskhandler "statusline/internal/risk/handler"
	riskservice "statusline/internal/risk/service"
	riskstore "statusline/internal/risk/store"
	"statusline/pkg/platform/circuit"
	"statusline/pkg/platform/tx"
)

const (
	activityQueueSize     = 1024
	kafkaFailureThreshold = 3
)

type riskStore interface {
	riskservice.Store
	projectservice.DependentStore
}

type decisionStore interface {
	decisionservice.Store
	projectservice.DependentStore
}

type stores struct {
	projects  projectservice.Store
	risks     riskStore
	decisions decisionStore
	tx        tx.Runner
}

// app is the wired process: the HTTP handler plus the background pieces and
// connections main has to run and release.
type app struct {
	Handler         http.Handler
	Worker          *activity.Worker
	Storage         string
	ActivityBackend string

	ready   *httpapi.Readiness
	closers []func() error
}

func newApp(ctx context.Context, cfg config.Server, log *slog.Logger) (_ *app, err error) {
	a := &app{ready: httpapi.NewReadiness(0)}
	defer func() {
		if err != nil {
			a.Close()
		}
	}()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	st, err := a.openStores(ctx, cfg)
	if err != nil {
		return nil, err
	}
	publisher, err := a.openActivity(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	projects, err := projectservice.New(st.projects,
		projectservice.WithLogger(log),
		projectservice.WithMetrics(m),
		projectservice.WithActivityPublisher(publisher),
		projectservice.WithDependents(st.risks, st.decisions),
		projectservice.WithTxRunner(st.tx),
	)
	if err != nil {
		return nil, err
	}
	risks, err := riskservice.New(st.risks, projects,
		riskservice.WithLogger(log),
		riskservice.WithMetrics(m),
		riskservice.WithActivityPublisher(publisher),
		riskservice.WithTransitionPolicy(cfg.TransitionPolicy),
	)
	if err != nil {
		return nil, err
	}
	decisions, err := decisionservice.New(st.decisions, projects,
		decisionservice.WithLogger(log),
		decisionservice.WithMetrics(m),
		decisionservice.WithActivityPublisher(publisher),
		decisionservice.WithTransitionPolicy(cfg.TransitionPolicy),
	)
	if err != nil {
		return nil, err
	}

	a.Handler = httpapi.NewRouter(log, reg,
		projecthandler.New(projects, log),
		riskhandler.New(risks, log),
		decisionhandler.New(decisions, log),
		activity.NewHandler(publisher, log),
		a.ready,
	)
	return a, nil
}

// openStores picks PostgreSQL when DATABASE_URL is set and memory otherwise.
func (a *app) openStores(ctx context.Context, cfg config.Server) (stores, error) {
	if cfg.DatabaseURL == "" {
		a.Storage = "memory"
		return stores{
			projects:  projectstore.NewInMemoryStore(),
			risks:     riskstore.NewInMemoryStore(),
			decisions: decisionstore.NewInMemoryStore(),
			tx:        tx.NoTx,
		}, nil
	}

	db, err := postgres.Open(ctx, cfg.DatabaseURL, cfg.DBMaxOpenConns)
	if err != nil {
		return stores{}, err
	}
	a.closers = append(a.closers, db.Close)
	a.ready.Add("postgres", db.PingContext)
	if err := postgres.Migrate(ctx, db); err != nil {
		return stores{}, err
	}
	a.Storage = "postgres"
	return postgresStores(db), nil
}

func postgresStores(db *sql.DB) stores {
	return stores{
		projects:  projectstore.NewPostgres(db),
		risks:     riskstore.NewPostgres(db),
		decisions: decisionstore.NewPostgres(db),
		tx:        postgres.NewTxRunner(db),
	}
}

// openActivity keeps the feed in Redis when REDIS_URL is set and fans events
// out to Kafka through a queue when brokers are configured.
func (a *app) openActivity(ctx context.Context, cfg config.Server, log *slog.Logger) (*activity.Publisher, error) {
	var feed activity.Store = activity.NewInMemoryStore(int(cfg.Redis.ActivityMaxLen))
	a.ActivityBackend = "memory"

	client, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		return nil, err
	}
	if client != nil {
		a.closers = append(a.closers, client.Close)
		a.ready.Add("redis", client.Health)
		feed = activity.NewRedisStore(client.Client, cfg.Redis.ActivityMaxLen)
		a.ActivityBackend = "redis"
	}

	opts := []activity.Option{activity.WithLogger(log)}
	producer, err := kafka.New(ctx, cfg.Kafka)
	if err != nil {
		return nil, err
	}
	if producer != nil {
		a.closers = append(a.closers, closeKafka(producer))
		queue := make(chan activity.Event, activityQueueSize)
		opts = append(opts, activity.WithSink(activity.NewQueueSink(queue)))
		sink := activity.NewBreakerSink(
			activity.NewKafkaSink(producer, cfg.Kafka.ActivityTopic),
			circuit.New("kafka", circuit.WithFailureThreshold(kafkaFailureThreshold)),
			log,
		)
		a.Worker = activity.NewWorker(sink, queue, log)
	}
	return activity.NewPublisher(feed, opts...), nil
}

func closeKafka(client *kgo.Client) func() error {
	return func() error {
		client.Close()
		return nil
	}
}

// Close releases connections in reverse order of opening.
func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("close: %w", err)
	}
	return nil
}
