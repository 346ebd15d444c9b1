package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"

	"github.com/atvirokodosprendimai/eventdesk/internal/app"
)

func main() {
	cmd := &cli.Command{
		Name:  "eventdesk",
		Usage: "Institutional event store with calendar, roster and audit views",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "addr",
				Value:   ":8080",
				Sources: cli.EnvVars("EVENTDESK_ADDR"),
				Usage:   "HTTP listen address",
			},
			&cli.StringFlag{
				Name:    "backend",
				Value:   app.BackendMemory,
				Sources: cli.EnvVars("EVENTDESK_BACKEND"),
				Usage:   "Store backend: memory or sqlite",
			},
			&cli.StringFlag{
				Name:    "db-path",
				Value:   "./eventdesk.sqlite",
				Sources: cli.EnvVars("EVENTDESK_DB_PATH"),
				Usage:   "SQLite file path, or :memory:",
			},
			&cli.BoolFlag{
				Name:    "demo",
				Value:   true,
				Sources: cli.EnvVars("EVENTDESK_DEMO"),
				Usage:   "Load generated demo data into an empty store",
			},
			&cli.Uint64Flag{
				Name:    "demo-seed",
				Sources: cli.EnvVars("EVENTDESK_DEMO_SEED"),
				Usage:   "Seed for demo data generation (0 picks a random one)",
			},
			&cli.IntFlag{
				Name:    "demo-events",
				Value:   50,
				Sources: cli.EnvVars("EVENTDESK_DEMO_EVENTS"),
				Usage:   "Number of generated demo events",
			},
			&cli.StringFlag{
				Name:    "login",
				Sources: cli.EnvVars("EVENTDESK_LOGIN"),
				Usage:   "E-mail of the user signed in at startup",
			},
			&cli.StringFlag{
				Name:    "timezone",
				Value:   "America/Sao_Paulo",
				Sources: cli.EnvVars("EVENTDESK_TIMEZONE"),
				Usage:   "Time zone used for calendar days and months",
			},
			&cli.StringFlag{
				Name:    "audit-webhook-url",
				Sources: cli.EnvVars("EVENTDESK_AUDIT_WEBHOOK_URL"),
				Usage:   "Endpoint that receives every committed audit entry",
			},
			&cli.StringFlag{
				Name:    "audit-webhook-secret",
				Sources: cli.EnvVars("EVENTDESK_AUDIT_WEBHOOK_SECRET"),
				Usage:   "HMAC-SHA256 signing secret for audit webhook requests",
			},
			&cli.BoolFlag{
				Name:    "debug",
				Sources: cli.EnvVars("EVENTDESK_DEBUG"),
				Usage:   "Enable debug logging",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
			if c.Bool("debug") {
				log.SetLevel(log.DebugLevel)
			}

			cfg := app.Config{
				Addr:       c.String("addr"),
				Backend:    c.String("backend"),
				DBPath:     c.String("db-path"),
				Demo:       c.Bool("demo"),
				DemoSeed:   c.Uint64("demo-seed"),
				DemoEvents: int(c.Int("demo-events")),
				LoginEmail: c.String("login"),
				Timezone:   c.String("timezone"),

				AuditWebhookURL:    c.String("audit-webhook-url"),
				AuditWebhookSecret: c.String("audit-webhook-secret"),
			}

			server, closer, err := app.NewServer(ctx, cfg)
			if err != nil {
				return fmt.Errorf("create server: %w", err)
			}
			defer func() {
				if closeErr := closer.Close(); closeErr != nil {
					log.WithError(closeErr).Error("close resources")
				}
			}()

			errCh := make(chan error, 1)
			go func() {
				log.WithFields(log.Fields{"addr": cfg.Addr, "backend": cfg.Backend}).Info("listening")
				errCh <- server.ListenAndServe()
			}()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			defer signal.Stop(sigCh)

			select {
			case <-ctx.Done():
				return shutdown(server)
			case sig := <-sigCh:
				log.WithField("signal", sig.String()).Info("shutting down")
				return shutdown(server)
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			}
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(ctx)
}
