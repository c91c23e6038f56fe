package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"invnorm/internal/config"
	"invnorm/internal/escalate"
	"invnorm/internal/ledger"
	"invnorm/internal/llm"
	"invnorm/internal/metric"
	"invnorm/internal/pipeline"
	"invnorm/internal/report"
	"invnorm/internal/repository/sqlite"
	"invnorm/internal/watcher"
)

func main() {
	inPath := flag.String("in", "./inventory_raw.csv", "raw inventory CSV path")
	outPath := flag.String("out", "", "normalized records CSV path (default from config)")
	anomaliesPath := flag.String("anomalies", "", "anomaly report path (default from config)")
	dbPath := flag.String("db", "", "SQLite database path (default from config)")
	watch := flag.Bool("watch", false, "keep running and re-normalize when the input file changes")
	metricsAddr := flag.String("metrics-addr", "", "serve prometheus metrics on this address (e.g. :9090)")
	flag.Parse()

	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg, cfgPath, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfgPath != "" {
		log.Printf("Config loaded: %s", cfgPath)
	}
	if *outPath != "" {
		cfg.Output.RecordsPath = *outPath
	}
	if *anomaliesPath != "" {
		cfg.Output.AnomaliesPath = *anomaliesPath
	}
	if *dbPath != "" {
		cfg.Database.Path = *dbPath
	}
	log.Println(cfg.Summary())

	// A missing credential only disables escalation: every ambiguous field
	// then takes its documented fallback.
	var collab escalate.Collaborator
	client, err := llm.New(cfg.Collaborator, cfg.APIKey())
	if err != nil {
		log.Printf("Warning: %v. Escalation disabled; ambiguous fields fall back.", err)
	} else {
		collab = client
	}
	policy := escalate.NewPolicy(collab, cfg.Collaborator.Timeout.Duration())

	repo, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer repo.Close()
	log.Printf("Database opened: %s", cfg.Database.Path)

	metrics := metric.NewMetrics()
	registry := prometheus.NewRegistry()
	if err := metrics.Register(registry); err != nil {
		log.Fatalf("Failed to register metrics: %v", err)
	}
	if *metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
		go func() {
			if err := http.ListenAndServe(*metricsAddr, mux); err != nil {
				log.Printf("Metrics server stopped: %v", err)
			}
		}()
		log.Printf("Serving metrics on %s/metrics", *metricsAddr)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runOnce := func() {
		led := ledger.New()
		pipe := pipeline.New(&cfg.Rules, policy, led, metrics, cfg.Workers)

		records, err := report.ReadRecordsFile(*inPath)
		if err != nil {
			log.Printf("Failed to read input: %v", err)
			return
		}
		log.Printf("Processing %d records from %s (run %s)", len(records), *inPath, led.RunID())

		normalized := pipe.Run(ctx, records)
		anomalies := led.Anomalies()

		if err := report.WriteRecordsFile(cfg.Output.RecordsPath, normalized); err != nil {
			log.Printf("Failed to write records: %v", err)
			return
		}
		anomPath, err := report.WriteAnomaliesFile(cfg.Output.AnomaliesPath, anomalies, cfg.Output.CompressAnomalies)
		if err != nil {
			log.Printf("Failed to write anomalies: %v", err)
			return
		}
		if err := repo.SaveRun(ctx, led.RunID(), normalized, anomalies); err != nil {
			log.Printf("Failed to persist run: %v", err)
			return
		}

		log.Printf("Output: %s", cfg.Output.RecordsPath)
		log.Printf("Anomalies: %s (%d issues found)", anomPath, len(anomalies))
		for _, kc := range led.CountsByKind() {
			log.Printf("  %s: %d", kc.Kind, kc.Count)
		}
	}

	runOnce()

	if !*watch {
		return
	}

	w := watcher.New(*inPath, runOnce)
	if err := w.Watch(ctx); err != nil && err != context.Canceled {
		log.Printf("Watcher exited: %v", err)
		os.Exit(1)
	}
}
