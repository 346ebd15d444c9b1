package app

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	log "github.com/sirupsen/logrus"

	"github.com/atvirokodosprendimai/eventdesk/internal/adapters/auditfeed"
	"github.com/atvirokodosprendimai/eventdesk/internal/adapters/httpapi"
	"github.com/atvirokodosprendimai/eventdesk/internal/adapters/memory"
	"github.com/atvirokodosprendimai/eventdesk/internal/adapters/metrics"
	"github.com/atvirokodosprendimai/eventdesk/internal/adapters/seed"
	sqliteadapter "github.com/atvirokodosprendimai/eventdesk/internal/adapters/sqlite"
	"github.com/atvirokodosprendimai/eventdesk/internal/core/ports"
	"github.com/atvirokodosprendimai/eventdesk/internal/core/usecase"
)

const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
)

type Config struct {
	Addr    string
	Backend string
	DBPath  string
	// Demo loads generated events, notifications and audit entries on top of
	// the fixed users when the store starts empty.
	Demo       bool
	DemoSeed   uint64
	DemoEvents int
	LoginEmail string
	Timezone   string
	// AuditWebhookURL receives every committed audit entry. Without it the
	// entries are written to the log.
	AuditWebhookURL    string
	AuditWebhookSecret string
}

type resourceCloser struct {
	closers []io.Closer
}

func (r resourceCloser) Close() error {
	var firstErr error
	for _, c := range r.closers {
		if c == nil {
			continue
		}
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func NewServer(ctx context.Context, cfg Config) (*http.Server, io.Closer, error) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, nil, fmt.Errorf("load timezone %q: %w", cfg.Timezone, err)
	}

	store, closer, err := openStore(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	closers := resourceCloser{closers: []io.Closer{closer}}

	setupCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := seedIfEmpty(setupCtx, store, cfg); err != nil {
		_ = closers.Close()
		return nil, nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	session := usecase.NewSessionHolder(store)
	if cfg.LoginEmail != "" {
		user, err := session.Login(setupCtx, cfg.LoginEmail)
		if err != nil {
			_ = closers.Close()
			return nil, nil, fmt.Errorf("sign in %s: %w", cfg.LoginEmail, err)
		}
		log.WithFields(log.Fields{"user": user.Name, "sector": user.Sector}).Info("signed in")
	}

	events := usecase.NewEventStore(store, session,
		usecase.WithRecorder(m),
		usecase.WithAuditPublisher(auditPublisher(cfg)),
	)
	handler, err := httpapi.NewHandler(events, session,
		httpapi.WithMetrics(m, reg),
		httpapi.WithLocation(loc),
	)
	if err != nil {
		_ = closers.Close()
		return nil, nil, fmt.Errorf("build handler: %w", err)
	}

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return server, closers, nil
}

func auditPublisher(cfg Config) ports.AuditPublisher {
	if cfg.AuditWebhookURL != "" {
		return auditfeed.NewWebhookPublisher(cfg.AuditWebhookURL, cfg.AuditWebhookSecret, 0)
	}
	return auditfeed.NewLogPublisher(log.WithField("component", "audit"))
}

func openStore(ctx context.Context, cfg Config) (ports.Store, io.Closer, error) {
	switch cfg.Backend {
	case "", BackendMemory:
		return memory.NewStore(), nil, nil
	case BackendSQLite:
		openCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		store, err := sqliteadapter.Open(openCtx, cfg.DBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return store, store, nil
	default:
		return nil, nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}

// seedIfEmpty loads the fixed users, and the generated demo data when asked,
// into a store that has no users yet. A reopened sqlite file is left as is.
func seedIfEmpty(ctx context.Context, store ports.Store, cfg Config) error {
	empty := false
	err := store.ReadTX(ctx, func(c ports.Collections) error {
		users, err := c.Users()
		empty = len(users) == 0
		return err
	})
	if err != nil {
		return fmt.Errorf("inspect store: %w", err)
	}
	if !empty {
		log.Debug("store already populated, skipping seed")
		return nil
	}

	ds := seed.Dataset{Users: seed.Users}
	if cfg.Demo {
		ds = seed.Generate(seed.Config{Seed: cfg.DemoSeed, Events: cfg.DemoEvents})
	}
	if err := seed.Load(ctx, store, ds); err != nil {
		return fmt.Errorf("seed store: %w", err)
	}
	log.WithFields(log.Fields{
		"users":         len(ds.Users),
		"events":        len(ds.Events),
		"notifications": len(ds.Notifications),
		"audit_logs":    len(ds.AuditLogs),
	}).Info("store seeded")
	return nil
}
