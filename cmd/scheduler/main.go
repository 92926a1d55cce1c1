package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"thursday/internal/app/deps"
	"thursday/internal/app/services"
	"thursday/internal/core/domain/logging"
	"thursday/internal/scheduler"
)

// Standalone poll loop for deployments that run the HTTP surface
// separately. Instances coordinate through the scheduler lease.
func main() {
	deps, shutdownDeps := deps.InitDeps()
	log := deps.Logger
	defer shutdownDeps()

	services := services.InitServices(deps)
	sched := scheduler.New(
		log,
		services.FireDueReminders,
		deps.Metrics,
		deps.Config.ReminderCheckInterval,
		deps.Now,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := sched.Run(ctx); err != nil {
		log.Error(context.Background(), "Scheduler stopped with an error.", logging.Entry("err", err))
	}
}
