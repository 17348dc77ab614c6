package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"cash-flow/internal/budget"
	"cash-flow/internal/database"
	"cash-flow/internal/finance"
	"cash-flow/internal/logger"
	"cash-flow/internal/notify"
	"cash-flow/internal/router"
	"cash-flow/internal/scheduler"
	"cash-flow/internal/store"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 30 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server and the maintenance scheduler",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	rt, err := bootstrap()
	if err != nil {
		return err
	}
	defer rt.Close()

	cfg, log := rt.cfg, logger.Component(rt.log, logger.ComponentApp)

	if err := database.AutoMigrate(rt.db); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	st := store.New(rt.db)
	clock := finance.SystemClock(cfg.Location())

	var notifier budget.Notifier = notify.NewLogNotifier(rt.log)
	if cfg.Notify.AMQPURL != "" {
		amqpNotifier, err := notify.DialAMQP(cfg.Notify, rt.log)
		if err != nil {
			return err
		}
		defer amqpNotifier.Close()
		notifier = notify.Multi{notify.NewLogNotifier(rt.log), amqpNotifier}
		log.Info("alerts published to AMQP", "exchange", cfg.Notify.Exchange)
	}
	checker := budget.NewChecker(st, notifier, clock, rt.log)

	engine := router.SetupRouter(router.Deps{
		Config:  cfg,
		Store:   st,
		Checker: checker,
		Clock:   clock,
		Log:     rt.log,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Address, cfg.Server.Port),
		Handler:           engine,
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		ReadTimeout:       cfg.Server.ReadTimeout,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 16,
	}

	var sched *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		if sched, err = scheduler.New(cfg.Scheduler, st, clock, rt.log); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("run server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if sched != nil {
		g.Go(func() error { return sched.Run(ctx) })
	}

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info("server stopped gracefully")
	return nil
}
