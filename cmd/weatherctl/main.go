// weatherctl is the one-shot companion to the weather-analysis daemon: it
// fetches and logs observations for a list of locations, and renders the
// analytics queries as plain-text tables.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/olekukonko/tablewriter"

	"github.com/prachi-1604/Weather-Analysis/config"
	"github.com/prachi-1604/Weather-Analysis/internal/models"
	"github.com/prachi-1604/Weather-Analysis/internal/repositories"
	"github.com/prachi-1604/Weather-Analysis/internal/services/analytics"
	"github.com/prachi-1604/Weather-Analysis/internal/services/collector"
	"github.com/prachi-1604/Weather-Analysis/pkg/logger"
)

func main() {
	var (
		cities   = flag.String("cities", "", "comma-separated locations to fetch and log")
		force    = flag.Bool("force", false, "bypass the dedup window when fetching")
		averages = flag.Bool("averages", false, "show per-location average temperatures")
		extremes = flag.Bool("extremes", false, "show hottest and coldest observations")
		trend    = flag.String("trend", "", "show the temperature series for one location")
		logs     = flag.Bool("logs", false, "show recent observations")
		location = flag.String("location", "", "restrict -logs to one location")
		limit    = flag.Int("limit", 20, "number of rows for -logs")
	)
	flag.Parse()

	_ = godotenv.Load()
	cnf := config.NewConfig()

	// Tables go to stdout; keep structured logs out of the way.
	l := logger.NewZapLogger(cnf.AppName, os.Stderr)

	store, err := repositories.NewSQLiteStore(cnf.DBFile, l)
	if err != nil {
		fatalf("cannot open observation store: %v", err)
	}
	defer store.Close()

	analyticsService := analytics.NewService(store, l)
	ctx := context.Background()

	switch {
	case *cities != "":
		runFetch(ctx, cnf, store, l, *cities, *force)
	case *averages:
		showAverages(ctx, analyticsService)
	case *extremes:
		showExtremes(ctx, analyticsService)
	case *trend != "":
		showTrend(ctx, analyticsService, *trend)
	case *logs:
		showLogs(ctx, analyticsService, *location, *limit)
	default:
		flag.Usage()
		os.Exit(2)
	}
}

func runFetch(ctx context.Context, cnf *config.Config, store repositories.ObservationStore, l *logger.Logger, cities string, force bool) {
	var locations []string
	for _, city := range strings.Split(cities, ",") {
		if trimmed := strings.TrimSpace(city); trimmed != "" {
			locations = append(locations, trimmed)
		}
	}
	if len(locations) == 0 {
		fatalf("no locations given")
	}

	httpClient := &http.Client{Timeout: cnf.FetchTimeout}
	weatherRepo, err := repositories.NewOpenWeatherRepository(cnf.APIKey, cnf.RateLimitRPS, cnf.RateLimitBurst, l, httpClient)
	if err != nil {
		fatalf("cannot create weather repository: %v", err)
	}

	service := collector.NewService(store, weatherRepo, cnf.DedupWindow, cnf.FetchTimeout, l)
	summary, err := service.Run(ctx, locations, force)
	if err != nil {
		fatalf("fetch run failed: %v", err)
	}

	if len(summary.Fetched) > 0 {
		table := newTable("City", "Temperature", "Description", "Humidity", "Local Time")
		for _, obs := range summary.Fetched {
			table.Append(observationRow(obs))
		}
		table.Render()
	}
	for _, skipped := range summary.Skipped {
		fmt.Printf("skipped %s: recent data exists\n", skipped)
	}
	for _, failure := range summary.Failed {
		fmt.Printf("failed %s: %s\n", failure.Location, failure.Error)
	}
}

func showAverages(ctx context.Context, service *analytics.Service) {
	averages, err := service.Averages(ctx)
	if err != nil {
		reportQueryError(err)
		return
	}

	table := newTable("City", "Average Temperature", "Data Points")
	for _, avg := range averages {
		table.Append([]string{
			avg.Location,
			fmt.Sprintf("%.1f°C", avg.MeanTemperatureC),
			fmt.Sprintf("%d", avg.Count),
		})
	}
	table.Render()
}

func showExtremes(ctx context.Context, service *analytics.Service) {
	report, err := service.Extremes(ctx, time.Now())
	if err != nil {
		reportQueryError(err)
		return
	}

	table := newTable("Scope", "Extreme", "City", "Temperature")
	table.Append(extremeRow("overall", "hottest", &report.HottestOverall))
	table.Append(extremeRow("overall", "coldest", &report.ColdestOverall))
	table.Append(extremeRow("last 24h", "hottest", report.HottestRecent))
	table.Append(extremeRow("last 24h", "coldest", report.ColdestRecent))
	table.Render()
}

func showTrend(ctx context.Context, service *analytics.Service, location string) {
	series, err := service.Trend(ctx, location)
	if err != nil {
		reportQueryError(err)
		return
	}

	table := newTable("Time", "Temperature")
	for _, point := range series {
		table.Append([]string{
			point.Timestamp.Format("2006-01-02 15:04"),
			fmt.Sprintf("%.1f°C", point.TemperatureC),
		})
	}
	table.Render()
}

func showLogs(ctx context.Context, service *analytics.Service, location string, limit int) {
	observations, err := service.RecentLogs(ctx, location, limit)
	if err != nil {
		reportQueryError(err)
		return
	}

	table := newTable("City", "Temperature", "Description", "Humidity", "Local Time")
	for _, obs := range observations {
		table.Append(observationRow(obs))
	}
	table.Render()
}

func newTable(headers ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader(headers)
	return table
}

func observationRow(obs models.Observation) []string {
	return []string{
		obs.Location,
		fmt.Sprintf("%.1f°C", obs.TemperatureC),
		obs.Description,
		fmt.Sprintf("%d%%", obs.HumidityPct),
		obs.ObservedAtLocal.Format("2006-01-02 15:04"),
	}
}

func extremeRow(scope, kind string, obs *models.Observation) []string {
	if obs == nil {
		return []string{scope, kind, "no data", ""}
	}
	return []string{scope, kind, obs.Location, fmt.Sprintf("%.1f°C", obs.TemperatureC)}
}

func reportQueryError(err error) {
	if errors.Is(err, analytics.ErrNoData) {
		fmt.Println("No weather data available.")
		return
	}
	fatalf("query failed: %v", err)
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
