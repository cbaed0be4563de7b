package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/ktsuji/stockadmin/internal/config"
	"github.com/ktsuji/stockadmin/internal/scheduler"
	"github.com/ktsuji/stockadmin/internal/server/handlers"
	"github.com/ktsuji/stockadmin/internal/server/router"
	"github.com/ktsuji/stockadmin/internal/service/crud"
	exportsvc "github.com/ktsuji/stockadmin/internal/service/export"
	"github.com/ktsuji/stockadmin/internal/service/form"
	"github.com/ktsuji/stockadmin/internal/service/session"
	"github.com/ktsuji/stockadmin/internal/service/stocklist"
	"github.com/ktsuji/stockadmin/pkg/clients/stockapi"
	"github.com/ktsuji/stockadmin/pkg/csvutil"
	"github.com/ktsuji/stockadmin/pkg/download"
	"github.com/ktsuji/stockadmin/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New())
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	apiClient := stockapi.NewClient(cfg.StockAPI)

	listStore := stocklist.NewStore(apiClient, cfg.List.DefaultPageSize, baseLogger.Named("store.stocklist"))
	formCtl := form.NewController(baseLogger.Named("svc.form"))
	notifier := crud.NewNotifier(crud.DefaultNotificationTTL)
	identity := session.NewConfigResolver(cfg.Session)
	orchestrator := crud.NewOrchestrator(apiClient, formCtl, listStore, identity, notifier, baseLogger.Named("svc.crud"))

	exportService := exportsvc.NewService(csvutil.NewWriter(), download.NewDirSink(cfg.Export.Dir), baseLogger.Named("svc.export"))

	stockHandler := handlers.NewStockHandler(listStore, orchestrator, exportService, baseLogger.Named("handlers.stock"))
	engine := router.New(stockHandler, baseLogger.Named("router"))

	sched := scheduler.NewScheduler(cfg.Export, listStore, exportService, baseLogger.Named("scheduler"))
	sched.Start()
	defer sched.Stop()

	// Load the first page before serving; a failure is kept as store state
	// so the UI can offer a retry instead of the process dying.
	initCtx, cancelInit := context.WithTimeout(context.Background(), 30*time.Second)
	if err := listStore.Refetch(initCtx); err != nil {
		baseLogger.Warn("initial stock fetch failed", zap.Error(err))
	}
	cancelInit()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
