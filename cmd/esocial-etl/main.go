package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"esocialetl/internal/config"
	"esocialetl/internal/metrics"
	"esocialetl/internal/metrics/datadog"
	"esocialetl/internal/pipeline"
	"esocialetl/internal/storage"

	// register all backends with the storage factory.
	// config specifies which to use but we need to build in support for all of them.
	_ "esocialetl/internal/storage/mssql"
	_ "esocialetl/internal/storage/postgres"
	_ "esocialetl/internal/storage/sqlite"
)

// main loads the run config, optionally initializes a metrics backend,
// opens the store and runs the ingest and export phases.
func main() {
	var (
		cfgPath        string
		inputDir       string
		outputDir      string
		metricsBackend string
		freshDB        bool
		skipIngest     bool
		skipExport     bool
		validateOnly   bool
	)

	flag.StringVar(&cfgPath, "config", "", "run config JSON path (empty uses the built-in defaults)")
	flag.StringVar(&inputDir, "input", "", "override the input directory")
	flag.StringVar(&outputDir, "output", "", "override the CSV output directory")
	flag.StringVar(&metricsBackend, "metrics-backend", "", "metrics backend to use (datadog, none)")
	flag.BoolVar(&freshDB, "fresh-db", false, "delete the sqlite database file before the run")
	flag.BoolVar(&skipIngest, "skip-ingest", false, "skip ingestion and export from the existing store")
	flag.BoolVar(&skipExport, "skip-export", false, "skip the CSV export phase")
	flag.BoolVar(&validateOnly, "validate", false, "validate the configuration and exit")
	verbose := flag.Bool("v", false, "enable verbose logs")

	flag.Parse()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fatalf("%v", err)
	}
	if inputDir != "" {
		cfg.Input.Dir = inputDir
	}
	if outputDir != "" {
		cfg.Export.OutputDir = outputDir
	}

	issues := config.Validate(cfg)
	hasError := false
	for _, iss := range issues {
		fmt.Fprintf(os.Stderr, "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
		if iss.Severity == config.SeverityError {
			hasError = true
		}
	}
	if hasError {
		log.Printf("configuration is invalid: %v", cfgPath)
		os.Exit(1)
	}

	// If validate flag is set, only validate the configuration and exit
	if validateOnly {
		log.Printf("configuration is valid: %v", cfgPath)
		os.Exit(0)
	}

	// Decide metrics backend: flag → env → none.
	backendName := metricsBackend
	if backendName == "" {
		backendName = os.Getenv("METRICS_BACKEND")
	}
	switch backendName {
	case "datadog":
		// Optional extra tags provided via environment, complementing the
		// backend-enforced env:<...> tag.
		extraTags := datadog.ParseTagsCSV(os.Getenv("METRICS_TAGS"))

		b, err := datadog.NewBackend(context.Background(), datadog.Options{
			JobName:    cfg.Job,
			Tags:       extraTags,
			FlushEvery: 60 * time.Second,
		})
		if err != nil {
			log.Printf("metrics: failed to init datadog backend: %v; using nop", err)
		} else {
			log.Printf("metrics: backend=%v job_name=%v tags=%v", backendName, cfg.Job, extraTags)
			metrics.SetBackend(b)

			// Close() stops the periodic flush loop and then performs a
			// final Flush().
			defer func() {
				if err := b.Close(); err != nil {
					log.Printf("metrics: datadog close/flush error: %v", err)
				}
			}()
		}

	case "", "none":
		if *verbose {
			log.Printf("metrics: disabled (backend=%q)", backendName)
		}

	default:
		log.Printf("metrics: unknown backend %q; metrics disabled", backendName)
	}

	if freshDB {
		if cfg.Storage.Kind != "sqlite" {
			fatalf("-fresh-db only applies to the sqlite backend")
		}
		if err := os.Remove(cfg.Storage.DSN); err != nil && !os.IsNotExist(err) {
			fatalf("remove database: %v", err)
		}
	}

	ctx := context.Background()
	start := time.Now()

	if cfg.Storage.Kind == "sqlite" {
		if err := os.MkdirAll(filepath.Dir(cfg.Storage.DSN), 0o755); err != nil {
			fatalf("create database dir: %v", err)
		}
	}
	repo, err := storage.New(ctx, storage.Config{Kind: cfg.Storage.Kind, DSN: os.ExpandEnv(cfg.Storage.DSN)})
	if err != nil {
		fatalf("storage: %v", err)
	}
	defer repo.Close()

	logger := log.New(os.Stderr, "", log.LstdFlags)
	p, err := pipeline.New(cfg, repo, logger)
	if err != nil {
		fatalf("%v", err)
	}

	if *verbose {
		log.Printf("run: input=%s storage=%s output=%s", cfg.Input.Dir, cfg.Storage.Kind, cfg.Export.OutputDir)
	}

	if !skipIngest {
		if _, err := p.Ingest(ctx); err != nil {
			log.Fatalf("ingest: %v", err)
		}
	}
	if !skipExport {
		if _, err := p.Export(ctx); err != nil {
			log.Fatalf("export: %v", err)
		}
	}

	if *verbose {
		log.Printf("completed in %s", time.Since(start).Truncate(time.Millisecond))
	}
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
