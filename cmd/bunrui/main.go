// Package main is the bunrui CLI entry point.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/hyperjump/bunrui/internal/classify"
	"github.com/hyperjump/bunrui/internal/cli"
	"github.com/hyperjump/bunrui/internal/config"
	"github.com/hyperjump/bunrui/internal/extract"
	"github.com/hyperjump/bunrui/internal/metadata"
	"github.com/hyperjump/bunrui/internal/models"
	"github.com/hyperjump/bunrui/internal/processor"
	"github.com/hyperjump/bunrui/internal/report"
	"github.com/hyperjump/bunrui/internal/server"
	"github.com/hyperjump/bunrui/internal/storage"
	"github.com/hyperjump/bunrui/internal/watcher"
	"github.com/hyperjump/bunrui/pkg/utils"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/bunrui/config.yaml"

// loadConfig loads config from path. When path is the default, it first looks for
// config.yaml in the current directory (for development); if that exists it is used,
// so that "bunrui server" from the project dir uses the project's config (including debug).
// When neither exists, built-in defaults keep the CLI usable without any config file;
// the returned path is empty in that case. Explicit -config paths must exist.
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
		if _, statErr := os.Stat(path); statErr != nil {
			return config.Default(), "", nil
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	// .env can supply CLASSIFIER_API_KEY and friends during development.
	_ = godotenv.Load()
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "process":
		runProcess()
	case "batch":
		runBatch()
	case "history":
		runHistory()
	case "export":
		runExport()
	case "categories":
		runCategories()
	case "watch":
		runWatch()
	case "status":
		runStatus()
	case "version", "--version", "-v":
		fmt.Printf("bunrui version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

// newLogger builds the application logger. A configured log file adds a
// rotating JSON sink alongside the console.
func newLogger(cfg *config.Config, debug bool) (*zap.Logger, error) {
	if cfg.Log.File != "" {
		return utils.NewFileLogger(debug, utils.FileLogOptions{
			Path:       cfg.Log.File,
			MaxSizeMB:  cfg.Log.MaxSizeMB,
			MaxBackups: cfg.Log.MaxBackups,
			MaxAgeDays: cfg.Log.MaxAgeDays,
			Compress:   cfg.Log.Compress,
		}), nil
	}
	return utils.NewLogger(debug)
}

func parseFormat(s string) cli.OutputFormat {
	format, err := cli.ParseOutputFormat(s)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	return format
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging (watch events, pipeline stages, etc.)")
	syncExisting := fs.Bool("sync", false, "process files already present in watched directories at startup")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := newLogger(cfg, debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
	)

	components, err := initializeComponents(cfg, logger, debugMode)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()

	proc := components.Processor
	store := components.Storage
	watchOpts := []watcher.WatcherOption{}
	if debugMode {
		watchOpts = append(watchOpts, watcher.WithLogger(logger))
	}
	watchSvc := watcher.NewWatcher(
		cfg.Watch.Directories,
		proc.SupportedExtensions(),
		cfg.Watch.RecursiveOrDefault(),
		func(path string) {
			outcome := proc.ProcessFile(context.Background(), path)
			if store != nil {
				if err := store.SaveOutcome(context.Background(), "", outcome); err != nil {
					logger.Warn("watch save outcome failed", zap.String("path", path), zap.Error(err))
				}
			}
			logger.Info("watched file processed",
				zap.String("path", path),
				zap.String("status", string(outcome.Status)),
			)
		},
		watchOpts...,
	)
	watchCtx, watchCancel := context.WithCancel(context.Background())
	defer watchCancel()
	if err := watchSvc.Start(watchCtx); err != nil {
		logger.Fatal("Failed to start watcher", zap.Error(err))
	}
	// Processing history is append-only, so syncing at every boot would
	// duplicate outcomes; it has to be asked for.
	if *syncExisting {
		watchSvc.SyncExistingFiles()
	}

	srv := server.NewServer(proc, store, &cfg.Server, logger, watchSvc, resolvedConfigPath, cfg)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	watchCancel()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

func runProcess() {
	fs := flag.NewFlagSet("process", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	outputFormat := fs.String("output", "text", "output format: text (human-readable), compact (one line), or json (parseable)")
	noSave := fs.Bool("no-save", false, "skip writing the outcome to history")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fmt.Println("Usage: bunrui process [flags] <file>")
		os.Exit(1)
	}
	format := parseFormat(*outputFormat)

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := newLogger(cfg, cfg.Debug)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	components, err := initializeComponents(cfg, logger, cfg.Debug)
	if err != nil {
		logger.Fatal("Failed to initialize", zap.Error(err))
	}
	defer components.Close()

	ctx := context.Background()
	outcome := components.Processor.ProcessFile(ctx, fs.Arg(0))
	if components.Storage != nil && !*noSave {
		if err := components.Storage.SaveOutcome(ctx, "", outcome); err != nil {
			logger.Warn("save outcome failed", zap.String("path", outcome.Path), zap.Error(err))
		}
	}
	if err := cli.WriteOutcome(os.Stdout, outcome, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
	if outcome.Status == models.StatusFailed {
		os.Exit(1)
	}
}

func runBatch() {
	fs := flag.NewFlagSet("batch", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	outputFormat := fs.String("output", "text", "output format: text, compact, or json")
	recursive := fs.Bool("recursive", false, "recurse into subdirectories (in addition to config)")
	noSave := fs.Bool("no-save", false, "skip writing results to history")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fmt.Println("Usage: bunrui batch [flags] <file-or-directory>...")
		os.Exit(1)
	}
	format := parseFormat(*outputFormat)

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := newLogger(cfg, cfg.Debug)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	components, err := initializeComponents(cfg, logger, cfg.Debug)
	if err != nil {
		logger.Fatal("Failed to initialize", zap.Error(err))
	}
	defer components.Close()

	recurse := cfg.Processing.Recursive || *recursive
	paths, err := collectPaths(fs.Args(), recurse)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Scan failed: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	failed := 0
	for _, page := range chunkPaths(paths, cfg.Processing.BatchSize) {
		summary := components.Processor.ProcessBatch(ctx, page)
		if components.Storage != nil && !*noSave {
			if err := components.Storage.SaveBatch(ctx, summary); err != nil {
				logger.Warn("save batch failed", zap.String("batch_id", summary.ID), zap.Error(err))
			}
		}
		if err := cli.WriteSummary(os.Stdout, summary, format); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
		failed += summary.Failed
	}
	if failed > 0 {
		os.Exit(1)
	}
}

// collectPaths expands directory arguments into their scanned files. File
// arguments pass through untouched, including missing ones, so the batch can
// record their failure instead of aborting up front.
func collectPaths(args []string, recursive bool) ([]string, error) {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err == nil && info.IsDir() {
			scanned, scanErr := processor.ScanDirectory(arg, recursive)
			if scanErr != nil {
				return nil, scanErr
			}
			paths = append(paths, scanned...)
			continue
		}
		paths = append(paths, arg)
	}
	return paths, nil
}

// chunkPaths splits paths into pages of at most size entries. Size 0 or less
// means a single page with everything.
func chunkPaths(paths []string, size int) [][]string {
	if len(paths) == 0 {
		return nil
	}
	if size <= 0 || len(paths) <= size {
		return [][]string{paths}
	}
	var pages [][]string
	for start := 0; start < len(paths); start += size {
		end := start + size
		if end > len(paths) {
			end = len(paths)
		}
		pages = append(pages, paths[start:end])
	}
	return pages
}

func runHistory() {
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	limit := fs.Int("limit", 20, "number of records")
	offset := fs.Int("offset", 0, "records to skip")
	outputFormat := fs.String("output", "text", "output format: text, compact, or json")
	batches := fs.Bool("batches", false, "list batch summaries instead of individual outcomes")
	_ = fs.Parse(os.Args[2:])

	format := parseFormat(*outputFormat)
	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if cfg.Storage.DatabasePath == "" {
		fmt.Fprintln(os.Stderr, "History is disabled: storage.database_path is not configured")
		os.Exit(1)
	}
	logger, err := newLogger(cfg, cfg.Debug)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	components, err := initializeComponents(cfg, logger, cfg.Debug)
	if err != nil {
		logger.Fatal("Failed to initialize", zap.Error(err))
	}
	defer components.Close()

	ctx := context.Background()
	if *batches {
		summaries, err := components.Storage.ListBatches(ctx, *offset, *limit)
		if err != nil {
			fmt.Fprintf(os.Stderr, "List batches failed: %v\n", err)
			os.Exit(1)
		}
		if format == cli.OutputJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(summaries); err != nil {
				fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
				os.Exit(1)
			}
			return
		}
		for _, s := range summaries {
			fmt.Printf("%s  %s  total=%d succeeded=%d failed=%d skipped=%d\n",
				s.StartedAt.Format("2006-01-02 15:04:05"), s.ID,
				s.Total, s.Succeeded, s.Failed, s.Skipped)
		}
		return
	}

	outcomes, err := components.Storage.ListOutcomes(ctx, *offset, *limit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "List outcomes failed: %v\n", err)
		os.Exit(1)
	}
	if format == cli.OutputJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(outcomes); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
		return
	}
	for _, o := range outcomes {
		if err := cli.WriteOutcome(os.Stdout, o, format); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
	}
}

func runExport() {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	batchID := fs.String("batch", "", "batch ID to export (default: recent history)")
	limit := fs.Int("limit", 1000, "number of history records when no batch ID is given")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fmt.Println("Usage: bunrui export [flags] <output.xlsx>")
		os.Exit(1)
	}
	outPath := fs.Arg(0)

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if cfg.Storage.DatabasePath == "" {
		fmt.Fprintln(os.Stderr, "Export needs history: storage.database_path is not configured")
		os.Exit(1)
	}
	logger, err := newLogger(cfg, cfg.Debug)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	components, err := initializeComponents(cfg, logger, cfg.Debug)
	if err != nil {
		logger.Fatal("Failed to initialize", zap.Error(err))
	}
	defer components.Close()

	ctx := context.Background()
	var summary *models.BatchSummary
	if *batchID != "" {
		summary, err = components.Storage.GetBatch(ctx, *batchID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Load batch failed: %v\n", err)
			os.Exit(1)
		}
	} else {
		outcomes, listErr := components.Storage.ListOutcomes(ctx, 0, *limit)
		if listErr != nil {
			fmt.Fprintf(os.Stderr, "List outcomes failed: %v\n", listErr)
			os.Exit(1)
		}
		summary = report.SummaryForExport("history", outcomes)
	}

	writer := report.NewExcelWriter(logger)
	if err := writer.Write(summary, outPath); err != nil {
		fmt.Fprintf(os.Stderr, "Export failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Exported %d outcome(s) to %s\n", len(summary.Outcomes), outPath)
}

func runCategories() {
	fs := flag.NewFlagSet("categories", flag.ExitOnError)
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	keywords := classify.DefaultKeywords()
	switch *outputFormat {
	case "json":
		out := map[string]interface{}{
			"categories": models.CategoryStrings(),
			"keywords":   keywords,
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
	case "text":
		for _, c := range models.AllCategories() {
			if kws, ok := keywords[c]; ok {
				fmt.Printf("%s: %s\n", c, strings.Join(kws, ", "))
			} else {
				fmt.Printf("%s: (fallback when no keywords match)\n", c)
			}
		}
	default:
		fmt.Fprintf(os.Stderr, "Unknown output format %q; use text or json\n", *outputFormat)
		os.Exit(1)
	}
}

func runWatch() {
	if len(os.Args) < 3 {
		fmt.Println("Usage: bunrui watch <add|remove|list> [path]")
		fmt.Println("  bunrui watch add <path>     Add directory to watch")
		fmt.Println("  bunrui watch remove <path>  Remove directory from watch")
		fmt.Println("  bunrui watch list           List watched directories")
		os.Exit(1)
	}
	sub := os.Args[2]
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	serverURL := fs.String("server", "http://localhost:8080", "server URL")
	_ = fs.Parse(os.Args[3:])
	switch sub {
	case "add":
		if fs.NArg() < 1 {
			fmt.Println("Usage: bunrui watch add <path>")
			os.Exit(1)
		}
		path, _ := filepath.Abs(fs.Arg(0))
		body, _ := json.Marshal(map[string]interface{}{"path": path, "sync": true})
		resp, err := http.Post(*serverURL+"/api/v1/watch/directories", "application/json", bytes.NewReader(body))
		if err != nil {
			fmt.Printf("Request failed: %v\n", err)
			os.Exit(1)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusCreated {
			b, _ := io.ReadAll(resp.Body)
			fmt.Printf("Add failed (%d): %s\n", resp.StatusCode, string(b))
			os.Exit(1)
		}
		fmt.Printf("Added: %s\n", path)
	case "remove":
		if fs.NArg() < 1 {
			fmt.Println("Usage: bunrui watch remove <path>")
			os.Exit(1)
		}
		path, _ := filepath.Abs(fs.Arg(0))
		req, _ := http.NewRequest(http.MethodDelete, *serverURL+"/api/v1/watch/directories?path="+url.QueryEscape(path), nil)
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			fmt.Printf("Request failed: %v\n", err)
			os.Exit(1)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			b, _ := io.ReadAll(resp.Body)
			fmt.Printf("Remove failed (%d): %s\n", resp.StatusCode, string(b))
			os.Exit(1)
		}
		fmt.Printf("Removed: %s\n", path)
	case "list":
		resp, err := http.Get(*serverURL + "/api/v1/watch/directories")
		if err != nil {
			fmt.Printf("Request failed: %v\n", err)
			os.Exit(1)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			b, _ := io.ReadAll(resp.Body)
			fmt.Printf("List failed (%d): %s\n", resp.StatusCode, string(b))
			os.Exit(1)
		}
		var out struct {
			Directories []string `json:"directories"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			fmt.Printf("Parse failed: %v\n", err)
			os.Exit(1)
		}
		for _, d := range out.Directories {
			fmt.Println(d)
		}
	default:
		fmt.Printf("Unknown watch subcommand: %s\n", sub)
		os.Exit(1)
	}
}

// statusConfigResponse holds configuration info returned by status.
type statusConfigResponse struct {
	BatchSize           int     `json:"batch_size"`
	MaxWorkers          int     `json:"max_workers"`
	ConfidenceThreshold float64 `json:"confidence_threshold"`
	DatabasePath        string  `json:"database_path,omitempty"`
}

// statusResponse is the shape of GET /api/v1/status response.
type statusResponse struct {
	Status              string                `json:"status"`
	Classifier          string                `json:"classifier"`
	SupportedExtensions []string              `json:"supported_extensions"`
	HistoryEnabled      bool                  `json:"history_enabled"`
	WatchEnabled        bool                  `json:"watch_enabled"`
	Outcomes            int64                 `json:"outcomes,omitempty"`
	ByStatus            map[string]int64      `json:"by_status,omitempty"`
	ByCategory          map[string]int64      `json:"by_category,omitempty"`
	DiskUsageBytes      *int64                `json:"disk_usage_bytes,omitempty"`
	Config              *statusConfigResponse `json:"config,omitempty"`
}

func runStatus() {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "http://localhost:8080", "server URL (empty = use direct storage)")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	var status statusResponse
	if *serverURL != "" {
		res, err := statusViaHTTP(*serverURL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Status failed: %v\n", err)
			os.Exit(1)
		}
		status = *res
	} else {
		cfg, _, err := loadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
			os.Exit(1)
		}
		logger, err := newLogger(cfg, cfg.Debug)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
			os.Exit(1)
		}
		defer logger.Sync()
		components, err := initializeComponents(cfg, logger, cfg.Debug)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
			os.Exit(1)
		}
		defer components.Close()

		status = statusResponse{
			Status:              "ok",
			Classifier:          components.Processor.ClassifierName(),
			SupportedExtensions: components.Processor.SupportedExtensions(),
			HistoryEnabled:      components.Storage != nil,
			Config: &statusConfigResponse{
				BatchSize:           cfg.Processing.BatchSize,
				MaxWorkers:          cfg.Processing.MaxWorkers,
				ConfidenceThreshold: cfg.Processing.ConfidenceThreshold,
				DatabasePath:        cfg.Storage.DatabasePath,
			},
		}
		if components.Storage != nil {
			ctx := context.Background()
			total, err := components.Storage.CountOutcomes(ctx)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Count outcomes failed: %v\n", err)
				os.Exit(1)
			}
			byStatus, err := components.Storage.CountByStatus(ctx)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Count by status failed: %v\n", err)
				os.Exit(1)
			}
			byCategory, err := components.Storage.CountByCategory(ctx)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Count by category failed: %v\n", err)
				os.Exit(1)
			}
			status.Outcomes = total
			status.ByStatus = make(map[string]int64, len(byStatus))
			for k, v := range byStatus {
				status.ByStatus[string(k)] = v
			}
			status.ByCategory = make(map[string]int64, len(byCategory))
			for k, v := range byCategory {
				status.ByCategory[string(k)] = v
			}
			diskBytes, diskErr := storage.DatabaseDiskUsage(cfg.Storage.DatabasePath)
			if diskErr == nil {
				status.DiskUsageBytes = &diskBytes
			}
		}
	}

	switch *outputFormat {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(status); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
	case "text":
		fmt.Printf("status:               %s\n", status.Status)
		fmt.Printf("classifier:           %s\n", status.Classifier)
		fmt.Printf("supported_extensions: %s\n", strings.Join(status.SupportedExtensions, " "))
		fmt.Printf("history_enabled:      %t\n", status.HistoryEnabled)
		fmt.Printf("watch_enabled:        %t\n", status.WatchEnabled)
		if status.HistoryEnabled {
			fmt.Printf("outcomes:             %d\n", status.Outcomes)
		}
		if status.DiskUsageBytes != nil {
			fmt.Printf("disk_usage_bytes:     %d\n", *status.DiskUsageBytes)
		}
		if len(status.ByStatus) > 0 {
			fmt.Println()
			fmt.Println("# outcomes by status")
			for _, k := range sortedKeys(status.ByStatus) {
				fmt.Printf("%-12s %d\n", k+":", status.ByStatus[k])
			}
		}
		if len(status.ByCategory) > 0 {
			fmt.Println()
			fmt.Println("# successes by category")
			for _, k := range sortedKeys(status.ByCategory) {
				fmt.Printf("%-12s %d\n", k+":", status.ByCategory[k])
			}
		}
		if status.Config != nil {
			fmt.Println()
			fmt.Println("# configuration")
			fmt.Printf("batch_size:           %d\n", status.Config.BatchSize)
			fmt.Printf("max_workers:          %d\n", status.Config.MaxWorkers)
			fmt.Printf("confidence_threshold: %.2f\n", status.Config.ConfidenceThreshold)
			if status.Config.DatabasePath != "" {
				fmt.Printf("database_path:        %s\n", status.Config.DatabasePath)
			}
		}
	default:
		fmt.Fprintf(os.Stderr, "Unknown output format %q; use text or json\n", *outputFormat)
		os.Exit(1)
	}
}

func statusViaHTTP(serverURL string) (*statusResponse, error) {
	resp, err := http.Get(serverURL + "/api/v1/status")
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var s statusResponse
	if err := json.NewDecoder(resp.Body).Decode(&s); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &s, nil
}

func sortedKeys(m map[string]int64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Components holds initialized services.
type Components struct {
	Processor *processor.Processor
	Storage   storage.Storage
}

func (c *Components) Close() {
	if c.Storage != nil {
		_ = c.Storage.Close()
	}
}

func initializeComponents(cfg *config.Config, logger *zap.Logger, debug bool) (*Components, error) {
	extractor := extract.NewDefaultExtractor(extract.ImageOptions{
		Languages: cfg.OCR.Languages,
		Enhance:   cfg.OCR.EnhanceOrDefault(),
	})
	classifier := classify.New(cfg.Classifier, logger)
	builder := metadata.NewBuilder(metadata.Options{
		SummarySentences: cfg.Summary.Sentences,
		SummaryMaxChars:  cfg.Summary.MaxChars,
		PreviewChars:     cfg.Summary.PreviewChars,
	})

	procOpts := []processor.Option{
		processor.WithWorkers(cfg.Processing.MaxWorkers),
		processor.WithConfidenceThreshold(cfg.Processing.ConfidenceThreshold),
	}
	if debug && logger != nil {
		procOpts = append(procOpts, processor.WithLogger(logger))
	}
	proc := processor.New(extractor, classifier, builder, procOpts...)

	var store storage.Storage
	if cfg.Storage.DatabasePath != "" {
		s, err := storage.NewSQLiteStorage(cfg.Storage.DatabasePath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize storage: %w", err)
		}
		store = s
	}

	return &Components{Processor: proc, Storage: store}, nil
}

func printUsage() {
	fmt.Println(`bunrui - Document ingestion and classification pipeline

Usage:
  bunrui server [flags]                 Start the HTTP server
  bunrui process [flags] <file>         Process a single document
  bunrui batch [flags] <path>...        Process files and directories as a batch
  bunrui history [flags]                List processed outcomes from history
  bunrui export [flags] <output.xlsx>   Export outcomes to an Excel workbook
  bunrui categories [flags]             Show categories and their keywords
  bunrui status [flags]                 Show pipeline/storage status
  bunrui watch <add|remove|list>        Manage watched directories
  bunrui version                        Show version
  bunrui help                           Show this help

Server Flags:
  --config string    Config file path (default: /usr/local/etc/bunrui/config.yaml)
  --debug            Enable debug logging (watch events, pipeline stages, etc.)
  --sync             Process files already present in watched directories at startup

Process Flags:
  --config string    Config file path
  --output string    Output format: text, compact, or json (default: text)
  --no-save          Skip writing the outcome to history

Batch Flags:
  --config string    Config file path
  --output string    Output format: text, compact, or json (default: text)
  --recursive        Recurse into subdirectories
  --no-save          Skip writing results to history

History Flags:
  --config string    Config file path
  --limit int        Number of records (default: 20)
  --offset int       Records to skip (default: 0)
  --output string    Output format: text, compact, or json (default: text)
  --batches          List batch summaries instead of individual outcomes

Export Flags:
  --config string    Config file path
  --batch string     Batch ID to export (default: recent history)
  --limit int        History records when no batch ID is given (default: 1000)

Status Flags:
  --config string    Config file path (for direct storage mode)
  --server string    Server URL (default: http://localhost:8080). Use empty (--server "") for direct storage.
  --output string    Output format: text or json (default: text)

Watch Flags:
  --server string    Server URL (default: http://localhost:8080)

Exit codes: batch and process exit 1 when any document fails; skipped
documents do not affect the exit code.

Examples:
  bunrui process invoice.pdf
  bunrui process --output json scan.png
  bunrui batch ./inbox
  bunrui batch --recursive --output compact ./archive ./extra.docx
  bunrui history --limit 50
  bunrui history --batches
  bunrui export --batch 1f0c... report.xlsx
  bunrui export monthly.xlsx
  bunrui categories
  bunrui status
  bunrui watch add /path/to/inbox
  bunrui watch list`)
}
