// Package main is the InsightForge CLI entry point.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/insightforge/insightforge/internal/config"
	"github.com/insightforge/insightforge/internal/embedding"
	"github.com/insightforge/insightforge/internal/export"
	"github.com/insightforge/insightforge/internal/keyword"
	"github.com/insightforge/insightforge/internal/pipeline"
	"github.com/insightforge/insightforge/internal/server"
	"github.com/insightforge/insightforge/internal/storage"
	"github.com/insightforge/insightforge/internal/vector"
	"github.com/insightforge/insightforge/internal/watcher"
	"github.com/insightforge/insightforge/pkg/utils"
	"go.uber.org/zap"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/insightforge/config.yaml"

// loadConfig loads config from path. When path is the default, it first looks
// for config.yaml in the current directory (for development); if that exists
// it is used, so running from the project dir picks up the project's config.
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
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "process":
		runProcess()
	case "serve":
		runServe()
	case "watch":
		runWatch()
	case "epics":
		runEpics()
	case "clusters":
		runClusters()
	case "export":
		runExport()
	case "status":
		runStatus()
	case "version", "--version", "-v":
		fmt.Printf("insightforge version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

// Components holds initialized services.
type Components struct {
	Storage      storage.Storage
	Embedder     embedding.Embedder // nil when no model is configured
	VectorStore  *vector.Store      // nil when no model is configured
	KeywordIndex keyword.KeywordIndex
	Pipeline     *pipeline.Pipeline
}

func (c *Components) Close() {
	if c.Storage != nil {
		_ = c.Storage.Close()
	}
	if c.Embedder != nil {
		_ = c.Embedder.Close()
	}
	if c.KeywordIndex != nil {
		_ = c.KeywordIndex.Close()
	}
}

func initializeComponents(cfg *config.Config, logger *zap.Logger) (*Components, error) {
	store, err := storage.NewSQLiteStorage(cfg.Storage.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	keywordIndex, err := keyword.NewBleveIndex(cfg.Storage.BleveIndexPath)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to initialize keyword index: %w", err)
	}

	// The embedding path is optional: no model configured, or a model that
	// fails to load, leaves the rule-based pipeline fully functional.
	var embedder embedding.Embedder
	var vectorStore *vector.Store
	if cfg.Embedding.ModelPath != "" {
		onnxEmbedder, err := embedding.NewONNXEmbedder(
			cfg.Embedding.ModelPath,
			cfg.Embedding.Dimensions,
			cfg.Embedding.MaxTokens,
			cfg.Embedding.CacheSize,
		)
		if err != nil {
			logger.Warn("embedding model unavailable, running rule-based only", zap.Error(err))
		} else {
			embedder = onnxEmbedder
			vectorStore, err = vector.NewStore(onnxEmbedder.Dimensions())
			if err != nil {
				_ = onnxEmbedder.Close()
				_ = keywordIndex.Close()
				_ = store.Close()
				return nil, fmt.Errorf("failed to initialize vector store: %w", err)
			}
			if err := vectorStore.Load(cfg.Storage.VectorStorePath); err != nil {
				logger.Warn("failed to load persisted vectors", zap.Error(err))
			}
		}
	}

	pipeOpts := []pipeline.Option{pipeline.WithLogger(logger)}
	if embedder != nil {
		pipeOpts = append(pipeOpts, pipeline.WithEmbedder(embedder), pipeline.WithVectorStore(vectorStore))
	}
	pipe := pipeline.New(cfg, pipeOpts...)

	return &Components{
		Storage:      store,
		Embedder:     embedder,
		VectorStore:  vectorStore,
		KeywordIndex: keywordIndex,
		Pipeline:     pipe,
	}, nil
}

// runPipelineOnce loads raw drops from inputDir, runs the pipeline, persists
// the results, and writes the JSON output files.
func runPipelineOnce(ctx context.Context, components *Components, cfg *config.Config, logger *zap.Logger, inputDir string) (*pipeline.Result, error) {
	posts, err := storage.LoadRawPosts(inputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load raw posts: %w", err)
	}
	result, err := components.Pipeline.Process(ctx, posts)
	if err != nil {
		return nil, fmt.Errorf("pipeline run failed: %w", err)
	}

	if err := components.Storage.ReplaceInsights(ctx, result.Insights); err != nil {
		return nil, fmt.Errorf("failed to persist insights: %w", err)
	}
	if err := components.Storage.ReplaceEpics(ctx, result.Epics); err != nil {
		return nil, fmt.Errorf("failed to persist epics: %w", err)
	}
	if err := components.Storage.ReplaceClusters(ctx, result.Clusters); err != nil {
		return nil, fmt.Errorf("failed to persist clusters: %w", err)
	}
	if err := components.KeywordIndex.ReplaceAll(ctx, result.Insights); err != nil {
		return nil, fmt.Errorf("failed to rebuild keyword index: %w", err)
	}
	if components.VectorStore != nil && result.Stats.Embedded {
		if err := components.VectorStore.Save(cfg.Storage.VectorStorePath); err != nil {
			logger.Warn("failed to persist vectors", zap.Error(err))
		}
	}

	outDir := cfg.Storage.OutputDir
	if err := storage.WriteJSON(filepath.Join(outDir, "insights.json"), result.Insights); err != nil {
		logger.Warn("failed to write insights.json", zap.Error(err))
	}
	if err := storage.WriteJSON(filepath.Join(outDir, "epics.json"), result.Epics); err != nil {
		logger.Warn("failed to write epics.json", zap.Error(err))
	}
	if result.Clusters != nil {
		if err := storage.WriteJSON(filepath.Join(outDir, "semantic_clusters.json"), result.Clusters); err != nil {
			logger.Warn("failed to write semantic_clusters.json", zap.Error(err))
		}
	}
	return result, nil
}

func runProcess() {
	fs := flag.NewFlagSet("process", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	inputDir := fs.String("input", "", "raw drop directory (default: storage.data_dir from config)")
	xlsxPath := fs.String("xlsx", "", "also write an XLSX report to this path")
	_ = fs.Parse(os.Args[2:])

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	components, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()

	in := *inputDir
	if in == "" {
		in = cfg.Storage.DataDir
	}
	result, err := runPipelineOnce(context.Background(), components, cfg, logger, in)
	if err != nil {
		logger.Fatal("Processing failed", zap.Error(err))
	}

	stats := result.Stats
	fmt.Printf("received:    %d\n", stats.Received)
	fmt.Printf("kept:        %d\n", stats.Kept)
	fmt.Printf("duplicates:  %d\n", stats.Duplicates)
	for rule, n := range stats.Skipped {
		fmt.Printf("skipped (%s): %d\n", rule, n)
	}
	fmt.Printf("epics:       %d\n", stats.EpicCount)
	if stats.Embedded {
		fmt.Printf("semantic clusters: %d\n", stats.ClusterCount)
	}

	if *xlsxPath != "" {
		if err := export.WriteReport(*xlsxPath, result.Insights, result.Epics); err != nil {
			logger.Fatal("Report export failed", zap.Error(err))
		}
		fmt.Printf("report:      %s\n", *xlsxPath)
	}
}

func runServe() {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
	)

	components, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()

	srv := server.NewServer(
		components.Pipeline,
		components.Storage,
		components.KeywordIndex,
		components.VectorStore,
		cfg,
		logger,
	)
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

func runWatch() {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	components, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()

	recompute := func() {
		if _, err := runPipelineOnce(context.Background(), components, cfg, logger, cfg.Watch.Directory); err != nil {
			logger.Warn("recompute failed", zap.Error(err))
		}
	}

	watchOpts := []watcher.WatcherOption{}
	if debugMode {
		watchOpts = append(watchOpts, watcher.WithLogger(logger))
	}
	w := watcher.NewWatcher(cfg.Watch.Directory, cfg.Watch.Extensions, recompute, watchOpts...)

	watchCtx, watchCancel := context.WithCancel(context.Background())
	defer watchCancel()
	if err := w.Start(watchCtx); err != nil {
		logger.Fatal("Failed to start watcher", zap.Error(err))
	}
	defer w.Stop()

	// Process whatever is already in the drop directory before waiting.
	recompute()
	logger.Info("watching for drops", zap.String("directory", cfg.Watch.Directory))

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan
	logger.Info("Shutting down...")
}

func runEpics() {
	fs := flag.NewFlagSet("epics", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	components, _, logger := openDirect(*configPath)
	defer logger.Sync()
	defer components.Close()

	epics, err := components.Storage.ListEpics(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "List epics failed: %v\n", err)
		os.Exit(1)
	}

	if *outputFormat == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(epics)
		return
	}
	for _, e := range epics {
		fmt.Printf("%s %s (%d insights)\n", e.Label, e.Title, e.Size)
		fmt.Printf("  complaints: %d  feature requests: %d  negative: %d  positive: %d\n",
			e.Counts.Complaints, e.Counts.FeatureRequests, e.Counts.Negative, e.Counts.Positive)
		if e.Description != "" {
			fmt.Printf("  %s\n", e.Description)
		}
	}
}

func runClusters() {
	fs := flag.NewFlagSet("clusters", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	components, _, logger := openDirect(*configPath)
	defer logger.Sync()
	defer components.Close()

	clusters, err := components.Storage.ListClusters(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "List clusters failed: %v\n", err)
		os.Exit(1)
	}

	if *outputFormat == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(clusters)
		return
	}
	if len(clusters) == 0 {
		fmt.Println("no semantic clusters (embedding path disabled or last run found none)")
		return
	}
	for _, c := range clusters {
		fmt.Printf("cluster %d (%d insights)\n", c.Label, c.Size)
		for i, in := range c.Insights {
			if i >= 3 {
				break
			}
			fmt.Printf("  - %s\n", utils.Truncate(in.Text, 120))
		}
	}
}

func runExport() {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	outPath := fs.String("out", "", "report path (default: <output_dir>/report.xlsx)")
	_ = fs.Parse(os.Args[2:])

	components, cfg, logger := openDirect(*configPath)
	defer logger.Sync()
	defer components.Close()

	ctx := context.Background()
	count, err := components.Storage.CountInsights(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Count insights failed: %v\n", err)
		os.Exit(1)
	}
	insights, err := components.Storage.ListInsights(ctx, storage.InsightFilter{}, 0, int(count))
	if err != nil {
		fmt.Fprintf(os.Stderr, "List insights failed: %v\n", err)
		os.Exit(1)
	}
	epics, err := components.Storage.ListEpics(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "List epics failed: %v\n", err)
		os.Exit(1)
	}

	path := *outPath
	if path == "" {
		path = filepath.Join(cfg.Storage.OutputDir, "report.xlsx")
	}
	if err := export.WriteReport(path, insights, epics); err != nil {
		fmt.Fprintf(os.Stderr, "Export failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Report written: %s (%d insights, %d epics)\n", path, len(insights), len(epics))
}

func runStatus() {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "", "server URL (empty = use direct storage)")
	_ = fs.Parse(os.Args[2:])

	if *serverURL != "" {
		resp, err := http.Get(*serverURL + "/status")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Status failed: %v\n", err)
			os.Exit(1)
		}
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		if resp.StatusCode != http.StatusOK {
			fmt.Fprintf(os.Stderr, "Status failed (%d): %s\n", resp.StatusCode, string(body))
			os.Exit(1)
		}
		fmt.Println(string(body))
		return
	}

	components, cfg, logger := openDirect(*configPath)
	defer logger.Sync()
	defer components.Close()

	ctx := context.Background()
	insightCount, err := components.Storage.CountInsights(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Count insights failed: %v\n", err)
		os.Exit(1)
	}
	epics, err := components.Storage.ListEpics(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "List epics failed: %v\n", err)
		os.Exit(1)
	}
	indexed, err := components.KeywordIndex.DocCount()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Doc count failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("insights:  %d\n", insightCount)
	fmt.Printf("epics:     %d\n", len(epics))
	fmt.Printf("indexed:   %d\n", indexed)
	if components.VectorStore != nil {
		fmt.Printf("vectors:   %d\n", components.VectorStore.Size())
	}
	if diskBytes, err := storage.DiskUsageBytes(cfg.Storage.DatabasePath, cfg.Storage.BleveIndexPath); err == nil {
		fmt.Printf("disk:      %d bytes\n", diskBytes)
	}
}

// openDirect loads config and initializes components for read-only
// subcommands, exiting on failure.
func openDirect(configPath string) (*Components, *config.Config, *zap.Logger) {
	cfg, _, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	components, err := initializeComponents(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	return components, cfg, logger
}

func printUsage() {
	fmt.Println(`insightforge - marketplace feedback enrichment and clustering

Usage:
  insightforge process [flags]    Run the pipeline over a drop directory
  insightforge serve [flags]      Start the HTTP API server
  insightforge watch [flags]      Watch the drop directory, recompute on new drops
  insightforge epics [flags]      Show the strategic epic clusters
  insightforge clusters [flags]   Show the semantic clusters
  insightforge export [flags]     Write the XLSX report
  insightforge status [flags]     Show collection/index status
  insightforge version            Show version
  insightforge help               Show this help

Process Flags:
  --config string    Config file path (default: /usr/local/etc/insightforge/config.yaml)
  --input string     Raw drop directory (default: storage.data_dir from config)
  --xlsx string      Also write an XLSX report to this path

Serve/Watch Flags:
  --config string    Config file path
  --debug            Enable debug logging

Epics/Clusters Flags:
  --config string    Config file path
  --output string    Output format: text or json (default: text)

Export Flags:
  --config string    Config file path
  --out string       Report path (default: <output_dir>/report.xlsx)

Status Flags:
  --config string    Config file path (for direct storage mode)
  --server string    Server URL (empty = use direct storage)

Examples:
  insightforge process
  insightforge process --input ./data/scraped --xlsx ./report.xlsx
  insightforge serve --debug
  insightforge watch
  insightforge epics
  insightforge epics --output json
  insightforge export --out ./report.xlsx
  insightforge status`)
}
