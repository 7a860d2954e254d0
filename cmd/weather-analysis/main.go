package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/prachi-1604/Weather-Analysis/config"
	v1 "github.com/prachi-1604/Weather-Analysis/internal/controllers/http/v1"
	"github.com/prachi-1604/Weather-Analysis/internal/repositories"
	"github.com/prachi-1604/Weather-Analysis/internal/scheduler"
	"github.com/prachi-1604/Weather-Analysis/internal/services/analytics"
	"github.com/prachi-1604/Weather-Analysis/internal/services/collector"
	"github.com/prachi-1604/Weather-Analysis/pkg/httpserver"
	"github.com/prachi-1604/Weather-Analysis/pkg/logger"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())

	// .env is optional; real deployments configure via the environment.
	_ = godotenv.Load()

	cnf := config.NewConfig()

	l := logger.NewZapLogger(cnf.AppName, os.Stdout)

	store, err := repositories.NewSQLiteStore(cnf.DBFile, l)
	if err != nil {
		l.Fatal("cannot open observation store", map[string]any{"err": err, "dbFile": cnf.DBFile})
	}

	httpClient := &http.Client{Timeout: cnf.FetchTimeout}

	weatherRepo, err := repositories.NewOpenWeatherRepository(cnf.APIKey, cnf.RateLimitRPS, cnf.RateLimitBurst, l, httpClient)
	if err != nil {
		l.Fatal("cannot create weather repository", map[string]any{"err": err})
	}

	collectorService := collector.NewService(store, weatherRepo, cnf.DedupWindow, cnf.FetchTimeout, l)
	analyticsService := analytics.NewService(store, l)

	app := httpserver.InitFiberServer(cnf.AppName)

	v1.NewRouter(
		app,
		collectorService,
		analyticsService,
		l,
	)

	sched := scheduler.New(cnf.Locations, cnf.FetchInterval, collectorService, l)
	schedState, err := sched.Start(scheduler.State{})
	if err != nil {
		l.Fatal("cannot start scheduler", map[string]any{"err": err})
	}

	go func() {
		if err := app.Listen(":" + cnf.Port); err != nil {
			l.Fatal("cannot run the server", map[string]any{"err": err})
		}
	}()

	l.Info("application started successfully", map[string]any{
		"port":      cnf.Port,
		"locations": cnf.Locations,
		"interval":  cnf.FetchInterval.String(),
	})

	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer func() {
		l.Warning("stopping application services")
		signal.Stop(sigCh)
		close(sigCh)

		schedState = sched.Stop(schedState)

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		_ = app.ShutdownWithContext(shutdownCtx)
		_ = store.Close()
		_ = l.Stop()
		cancel()
	}()

	select {
	case <-sigCh:
		fmt.Println("received shutdown signal")
	case <-ctx.Done():
		fmt.Println("context cancelled")
	}
}
