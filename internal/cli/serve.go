package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	mgmt "github.com/axondata/go-mgmtbridge"
	"github.com/axondata/go-mgmtbridge/internal/config"
	"github.com/axondata/go-mgmtbridge/internal/endpoint"
	"github.com/axondata/go-mgmtbridge/internal/framework"
	"github.com/axondata/go-mgmtbridge/internal/observability"
	"github.com/axondata/go-mgmtbridge/internal/store"
	"github.com/axondata/go-mgmtbridge/internal/transport"
)

const shutdownGrace = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the management procedures",
	Long: `Serve the framework and configuration management procedures over Connect.

The in-process runtime is seeded with runtime.seed_bundles. Configurations
are kept under store.dir, one file per PID; with store.watch enabled, files
changed by other processes are picked up while serving.

Examples:
	mgmtbridge serve
	MGMTBRIDGE_LISTEN=0.0.0.0:9099 mgmtbridge serve --config /etc/mgmtbridge.yaml`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		log, err := observability.SetupLogger(cfg.Log)
		if err != nil {
			return fmt.Errorf("setup logger: %w", err)
		}
		defer func() { _ = log.Sync() }()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		lis, err := net.Listen("tcp", cfg.Listen)
		if err != nil {
			return err
		}
		return serve(ctx, cfg, log, lis)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

// app holds the wired components behind the server
type app struct {
	runtime *framework.Memory
	store   *store.Store
	handler http.Handler
}

func newApp(ctx context.Context, cfg *config.Config, log *zap.Logger) (*app, error) {
	rt := framework.NewMemory(framework.WithInitialStartLevel(cfg.Runtime.InitialStartLevel))
	fw := endpoint.NewFramework(rt, log)

	if len(cfg.Runtime.SeedBundles) > 0 {
		rec := fw.InstallBundles(ctx, cfg.Runtime.SeedBundles)
		if rec[mgmt.FieldSuccess] != true {
			log.Warn("seeding bundles stopped early",
				zap.Any("location", rec[mgmt.FieldLocationInError]),
				zap.Any("error", rec[mgmt.FieldError]))
		} else {
			log.Info("seeded bundles", zap.Int("count", len(rec[mgmt.FieldCompleted].([]any))))
		}
	}

	st, err := store.Open(cfg.Store.Dir, log)
	if st == nil {
		return nil, err
	}
	if err != nil {
		log.Warn("some configurations failed to load", zap.Error(err))
	}

	srv := transport.NewServer(fw, endpoint.NewConfiguration(st, log), log)
	return &app{runtime: rt, store: st, handler: srv.Handler()}, nil
}

// serve runs the HTTP server and, if enabled, the store watcher until ctx
// is done or one of them fails
func serve(ctx context.Context, cfg *config.Config, log *zap.Logger, lis net.Listener) error {
	a, err := newApp(ctx, cfg, log)
	if err != nil {
		_ = lis.Close()
		return err
	}

	srv := &http.Server{
		Handler:           a.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	var (
		events  <-chan store.Event
		cleanup store.CleanupFunc
	)
	if cfg.Store.Watch {
		if events, cleanup, err = a.store.Watch(gctx); err != nil {
			_ = lis.Close()
			return fmt.Errorf("watch store: %w", err)
		}
	}

	g.Go(func() error {
		log.Info("serving management procedures", zap.String("addr", lis.Addr().String()))
		if err := srv.Serve(lis); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if cleanup != nil {
		g.Go(func() error {
			for ev := range events {
				if ev.Err != nil {
					log.Warn("store watch", zap.String("pid", ev.PID), zap.Error(ev.Err))
					continue
				}
				log.Info("configuration reloaded", zap.String("pid", ev.PID), zap.Stringer("op", ev.Op))
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			if err := cleanup(); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	}

	return g.Wait()
}
