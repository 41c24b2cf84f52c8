// Package server owns the process lifecycle: boot the infrastructure
// (database, cache, storage, queue, SMS, realtime hub), serve HTTP and gRPC,
// and shut everything down in order on SIGINT/SIGTERM.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/cafahardware/pos/app/jobs"
	"github.com/cafahardware/pos/app/listeners"
	"github.com/cafahardware/pos/app/repositories"
	"github.com/cafahardware/pos/config"
	"github.com/cafahardware/pos/pkg/cache"
	"github.com/cafahardware/pos/pkg/database"
	grpcserver "github.com/cafahardware/pos/pkg/grpc"
	"github.com/cafahardware/pos/pkg/logger"
	"github.com/cafahardware/pos/pkg/queue"
	"github.com/cafahardware/pos/pkg/schedule"
	"github.com/cafahardware/pos/pkg/sms"
	"github.com/cafahardware/pos/pkg/storage"
)

const shutdownGrace = 15 * time.Second

// Boot loads configuration and connects the infrastructure the handlers
// depend on. Call before building the HTTP handler: route registration and
// auto-migration both expect a live database.
func Boot() error {
	if err := config.Load(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	if uri := config.MongoLogURI(); uri != "" {
		if _, err := logger.AttachMongo(uri, config.MongoLogDatabase(), config.MongoLogCollection()); err != nil {
			logger.Warn("mongo log sink unavailable, stdout only", "error", err)
		}
	}

	if err := database.Connect(); err != nil {
		return fmt.Errorf("database: %w", err)
	}

	// Redis is optional: caching degrades to pass-through and the queue
	// falls back to its in-memory driver.
	if err := cache.Connect(); err != nil {
		logger.Warn("redis unavailable, cache disabled", "error", err)
	}

	storage.Connect()

	if cache.RDB != nil {
		queue.SetDriver(queue.NewRedisDriver(cache.RDB))
	}
	queue.UseDB(database.DB)

	jobs.Register()
	jobs.UseSMS(sms.Default())

	listeners.Register()
	go listeners.Hub.Run()

	return nil
}

// Start runs the HTTP and gRPC servers with the given handler and blocks
// until a termination signal arrives, then drains in-flight work.
func Start(handler http.Handler) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if n := config.QueueWorkers(); n > 0 {
		queue.StartWorkers(ctx, n)
	}

	RegisterScheduledTasks()
	schedule.Start(ctx)

	grpcSrv, _, err := grpcserver.Start(config.GRPCPort())
	if err != nil {
		return err
	}

	httpSrv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server starting", "addr", httpSrv.Addr, "app", config.AppName())
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		grpcserver.Stop(grpcSrv)
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", "error", err)
	}
	grpcserver.Stop(grpcSrv)
	sms.Default().Shutdown()

	return nil
}

// RegisterScheduledTasks sets up recurring background work. The low stock
// digest complements the realtime per-movement alerts with one summary text
// per day, so a busy morning does not bury the restock list.
func RegisterScheduledTasks() {
	products := repositories.NewProductRepository()

	schedule.Daily().Name("inventory.low_stock_digest").WithoutOverlapping().Run(func() {
		low, err := products.LowStock()
		if err != nil {
			logger.Error("low stock digest: query failed", "error", err)
			return
		}
		if len(low) == 0 {
			return
		}

		msg := fmt.Sprintf("CAFA Hardware: %d product(s) at or below reorder level. Check the inventory dashboard for the restock list.", len(low))
		for _, phone := range config.AdminPhones() {
			if err := queue.Dispatch(jobs.SendSMSJob{Phone: phone, Message: msg}); err != nil {
				logger.Error("low stock digest: dispatch failed", "phone", phone, "error", err)
			}
		}
	})
}
