package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"thursday/internal/app"
	"thursday/internal/app/deps"
	"thursday/internal/app/services"
	dl "thursday/internal/core/domain/logging"
	"thursday/internal/scheduler"
	"time"

	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 20 * time.Second

func main() {
	deps, shutdownDeps := deps.InitDeps()
	services := services.InitServices(deps)

	sched := scheduler.New(
		deps.Logger,
		services.FireDueReminders,
		deps.Metrics,
		deps.Config.ReminderCheckInterval,
		deps.Now,
	)
	httpServer := app.InitHttpServer(deps, services, sched)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return start(httpServer, deps)
	})
	group.Go(func() error {
		return sched.Run(groupCtx)
	})
	group.Go(func() error {
		<-groupCtx.Done()
		return shutdown(httpServer, deps)
	})

	err := group.Wait()
	shutdownDeps()
	if err != nil {
		os.Exit(1)
	}
}

func start(server *http.Server, deps *deps.Deps) error {
	deps.Logger.Info(
		context.Background(),
		"HTTP server has started.",
		dl.Entry("address", server.Addr),
		dl.Entry("isTestMode", deps.Config.IsTestMode),
		dl.Entry("storeDriver", deps.Config.StoreDriver),
		dl.Entry("notifyPrimary", deps.Config.NotifyPrimary),
		dl.Entry("notifySecondary", deps.Config.NotifySecondary),
	)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		deps.Logger.Error(context.Background(), "HTTP server failed.", dl.Entry("err", err))
		return err
	}
	deps.Logger.Info(context.Background(), "HTTP service is stopping gracefully.")
	return nil
}

func shutdown(server *http.Server, deps *deps.Deps) error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		deps.Logger.Error(ctx, "HTTP server shutdown failed.", dl.Entry("err", err))
		return err
	}
	deps.Logger.Info(ctx, "HTTP server has shutdowned.")
	return nil
}
