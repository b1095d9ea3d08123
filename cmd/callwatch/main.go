package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"callwatch/internal/app"
	"callwatch/internal/config"
	"callwatch/internal/logger"
	"callwatch/internal/mailer"
	"callwatch/internal/metrics"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to run configuration")
	sourcesPath := flag.String("sources", "configs/sources.yaml", "path to monitored sources")
	sendEmail := flag.Bool("send-email", false, "email the digest after the run")
	flag.Parse()

	// Missing .env is fine; real deployments use actual env vars.
	_ = godotenv.Load()

	logger.Init(os.Getenv("DEBUG") == "true")

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	sources, err := config.LoadSources(*sourcesPath)
	if err != nil {
		slog.Error("invalid sources", "error", err)
		os.Exit(1)
	}

	if os.Getenv("ENABLE_HTTP_MONITORING") == "true" {
		go startMonitoringServer()
	}

	result, err := app.Run(context.Background(), cfg, sources)
	if err != nil {
		slog.Error("run failed", "error", err)
		os.Exit(1)
	}

	slog.Info("run complete",
		"inserted", result.Inserted,
		"expired", result.Expired,
		"rows", result.Rows,
		"csv", result.CSVPath,
		"digest", result.DigestPath)

	if *sendEmail {
		mailCfg, err := config.LoadMail()
		if err != nil {
			slog.Error("mail configuration", "error", err)
			os.Exit(1)
		}
		if err := mailer.SendDigest(mailCfg, result.Digest); err != nil {
			slog.Error("send digest", "error", err)
			os.Exit(1)
		}
		slog.Info("digest emailed", "recipients", len(mailCfg.Recipients))
	}
}

func startMonitoringServer() {
	port := os.Getenv("MONITORING_PORT")
	if port == "" {
		port = "8080"
	}

	http.HandleFunc("/health", healthHandler)
	http.HandleFunc("/metrics", metricsHandler)

	slog.Info("starting monitoring server", "port", port)
	if err := http.ListenAndServe(":"+port, nil); err != nil {
		slog.Error("monitoring server", "error", err)
	}
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	stats := metrics.Global.GetStats()

	status := "ok"
	if !stats["is_healthy"].(bool) {
		status = "error"
		w.WriteHeader(http.StatusServiceUnavailable)
	}

	response := map[string]interface{}{
		"status":     status,
		"last_run":   stats["last_run_time"],
		"last_error": stats["last_error"],
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

func metricsHandler(w http.ResponseWriter, r *http.Request) {
	stats := metrics.Global.GetStats()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stats)
}
