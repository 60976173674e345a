// Package main is the gitscout CLI entry point.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/stackfin/gitscout/internal/cli"
	"github.com/stackfin/gitscout/internal/config"
	"github.com/stackfin/gitscout/internal/embedding"
	"github.com/stackfin/gitscout/internal/ingest"
	"github.com/stackfin/gitscout/internal/metrics"
	"github.com/stackfin/gitscout/internal/models"
	"github.com/stackfin/gitscout/internal/search"
	"github.com/stackfin/gitscout/internal/server"
	"github.com/stackfin/gitscout/internal/storage"
	"github.com/stackfin/gitscout/internal/textindex"
	"github.com/stackfin/gitscout/internal/vectorindex"
	"github.com/stackfin/gitscout/pkg/utils"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/gitscout/config.yaml"

// loadConfig loads config from path. When path is the default, it first looks
// for config.yaml in the current directory (for development); if that exists
// it is used, so that "gitscout server" from the project dir picks up the
// project's config. Returns the config and the path actually loaded.
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
	case "server":
		runServer()
	case "search":
		runSearch()
	case "ingest":
		runIngest()
	case "delete":
		runDelete()
	case "status":
		runStatus()
	case "version", "--version", "-v":
		fmt.Printf("gitscout version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging (query traces, ingest events, etc.)")
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

	var watchSvc *ingest.Watcher
	if cfg.Ingest.Watch && len(cfg.Ingest.Directories) > 0 {
		idx := components.Indexer
		watchSvc = ingest.NewWatcher(cfg.Ingest.Directories, func(path string) {
			if _, err := idx.IngestFile(context.Background(), path); err != nil {
				logger.Warn("watch ingest failed", zap.String("path", path), zap.Error(err))
			}
		}, logger)
		watchCtx, watchCancel := context.WithCancel(context.Background())
		defer watchCancel()
		if err := watchSvc.Start(watchCtx); err != nil {
			logger.Fatal("Failed to start dump watcher", zap.Error(err))
		}
	}

	srv := server.NewServer(
		components.Engine,
		components.Indexer,
		components.Store,
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
	if watchSvc != nil {
		watchSvc.Stop()
	}
	if cfg.Storage.VectorIndexPath != "" && components.VectorIndex != nil {
		if err := components.VectorIndex.Save(cfg.Storage.VectorIndexPath); err != nil {
			logger.Warn("vector index save failed",
				zap.String("path", cfg.Storage.VectorIndexPath), zap.Error(err))
		}
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

// searchRequest mirrors the server's POST /api/v1/search body.
type searchRequest struct {
	Mode   string         `json:"mode"`
	Text   string         `json:"text,omitempty"`
	Limit  int            `json:"limit,omitempty"`
	Offset int            `json:"offset,omitempty"`
	Filter string         `json:"filter,omitempty"`
	Rerank *rerankRequest `json:"rerank,omitempty"`
}

type rerankRequest struct {
	Strategy     string  `json:"strategy"`
	K            float64 `json:"k,omitempty"`
	TextWeight   float64 `json:"text_weight,omitempty"`
	VectorWeight float64 `json:"vector_weight,omitempty"`
}

func printSearchUsage(fs *flag.FlagSet) {
	fmt.Fprintf(fs.Output(), "Usage: gitscout search [flags] <query>\n\n")
	fmt.Fprintf(fs.Output(), "Query is all remaining arguments joined by spaces. Multi-word queries work with or without quotes.\n\n")
	fs.PrintDefaults()
	fmt.Fprintf(fs.Output(), `
Examples:
  gitscout search flaky integration tests
  gitscout search --mode full_text "connection timeout"
  gitscout search --filter "repository = 'acme/api' AND state = 'open'" oauth
  gitscout search --rerank rrf --limit 20 memory leak
`)
}

// buildSearchText joins all positional args with spaces so multi-word queries
// work the same with or without shell quoting.
func buildSearchText(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

// searchArgsReorder moves flag-looking args before positional ones so that
// "gitscout search memory leak --limit 5" parses the same as
// "gitscout search --limit 5 memory leak".
func searchArgsReorder(args []string) []string {
	var flags, positional []string
	for i := 0; i < len(args); i++ {
		a := args[i]
		if strings.HasPrefix(a, "-") {
			flags = append(flags, a)
			if !strings.Contains(a, "=") && i+1 < len(args) && !isBoolSearchFlag(a) {
				flags = append(flags, args[i+1])
				i++
			}
			continue
		}
		positional = append(positional, a)
	}
	return append(flags, positional...)
}

func isBoolSearchFlag(name string) bool {
	switch strings.TrimLeft(name, "-") {
	case "help", "h":
		return true
	}
	return false
}

func runSearch() {
	args := searchArgsReorder(os.Args[2:])
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	configPathFlag := fs.String("config", defaultConfigPath, "config file path (direct storage mode)")
	serverURL := fs.String("server", "http://localhost:8080", `server URL; use --server "" for direct storage access`)
	mode := fs.String("mode", "hybrid", "search mode: hybrid, full_text, or semantic")
	limit := fs.Int("limit", 0, "max results (default from config)")
	offset := fs.Int("offset", 0, "pagination offset")
	filterExpr := fs.String("filter", "", `metadata filter, e.g. "state = 'open' AND repository = 'acme/api'"`)
	rerank := fs.String("rerank", "", "hybrid fusion strategy: linear, rrf, text_only, or vector_only")
	rrfK := fs.Float64("rrf-k", models.DefaultRRFK, "rank constant for --rerank rrf")
	textWeight := fs.Float64("text-weight", 0, "text weight for --rerank linear (default from config)")
	vectorWeight := fs.Float64("vector-weight", 0, "vector weight for --rerank linear (default from config)")
	outputFormat := fs.String("output", "text", "output format: text or json")
	fs.Usage = func() { printSearchUsage(fs) }
	_ = fs.Parse(args)

	queryText := buildSearchText(fs.Args())
	if queryText == "" {
		printSearchUsage(fs)
		os.Exit(1)
	}
	format, err := cli.ParseOutputFormat(*outputFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	req := searchRequest{
		Mode:   *mode,
		Text:   queryText,
		Limit:  *limit,
		Offset: *offset,
		Filter: *filterExpr,
	}
	if *rerank != "" {
		req.Rerank = &rerankRequest{
			Strategy:     *rerank,
			K:            *rrfK,
			TextWeight:   *textWeight,
			VectorWeight: *vectorWeight,
		}
	}

	var resp *cli.SearchResponse
	if *serverURL != "" {
		// Use the HTTP API when a server is running (avoids Bleve/SQLite
		// lock conflicts with the server process).
		resp, err = searchViaHTTP(*serverURL, req)
	} else {
		resp, err = searchDirect(*configPathFlag, req)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Search failed: %v\n", err)
		os.Exit(1)
	}

	if err := cli.WriteSearchResults(os.Stdout, resp, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func searchViaHTTP(serverURL string, req searchRequest) (*cli.SearchResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	resp, err := http.Post(serverURL+"/api/v1/search", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var out cli.SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &out, nil
}

// searchDirect opens the storage and indices in-process and runs the query
// without a server.
func searchDirect(configPath string, req searchRequest) (*cli.SearchResponse, error) {
	cfg, _, err := loadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		return nil, err
	}
	defer logger.Sync()

	components, err := initializeComponents(cfg, logger)
	if err != nil {
		return nil, err
	}
	defer components.Close()

	q, err := buildQuery(req, &cfg.Search)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	results, err := components.Engine.Search(context.Background(), q)
	if err != nil {
		return nil, err
	}
	return &cli.SearchResponse{
		Results:     results,
		Count:       len(results),
		QueryTimeMS: time.Since(start).Milliseconds(),
	}, nil
}

func buildQuery(req searchRequest, cfg *config.SearchConfig) (models.Query, error) {
	var q models.Query
	switch req.Mode {
	case "full_text":
		q = models.FullText(req.Text)
	case "semantic":
		q = models.SemanticFromText(req.Text)
	case "hybrid", "":
		q = models.Hybrid(req.Text)
	default:
		return q, fmt.Errorf("unknown mode %q; use hybrid, full_text, or semantic", req.Mode)
	}
	q.Limit = req.Limit
	q.Offset = req.Offset
	q.Filter = req.Filter
	if req.Rerank != nil {
		switch req.Rerank.Strategy {
		case "rrf":
			k := req.Rerank.K
			if k == 0 {
				k = models.DefaultRRFK
			}
			q.Rerank = models.RRF{K: k}
		case "linear":
			tw, vw := req.Rerank.TextWeight, req.Rerank.VectorWeight
			if tw == 0 && vw == 0 {
				tw, vw = cfg.TextWeight, cfg.VectorWeight
			}
			q.Rerank = models.Linear{TextWeight: tw, VectorWeight: vw}
		case "text_only":
			q.Rerank = models.TextOnly{}
		case "vector_only":
			q.Rerank = models.VectorOnly{}
		default:
			return q, fmt.Errorf("unknown rerank strategy %q; use linear, rrf, text_only, or vector_only", req.Rerank.Strategy)
		}
	}
	return q, nil
}

func runIngest() {
	fs := flag.NewFlagSet("ingest", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fmt.Println("Usage: gitscout ingest [flags] <dump-file-or-directory>")
		os.Exit(1)
	}
	path := fs.Arg(0)

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
		logger.Fatal("Failed to initialize", zap.Error(err))
	}
	defer components.Close()

	ctx := context.Background()
	info, err := os.Stat(path)
	if err != nil {
		fmt.Printf("Failed to stat path: %v\n", err)
		os.Exit(1)
	}
	var n int
	if info.IsDir() {
		n, err = components.Indexer.IngestDirectory(ctx, path)
	} else {
		n, err = components.Indexer.IngestFile(ctx, path)
	}
	if err != nil {
		fmt.Printf("Ingest failed: %v\n", err)
		os.Exit(1)
	}
	if cfg.Storage.VectorIndexPath != "" {
		if err := components.VectorIndex.Save(cfg.Storage.VectorIndexPath); err != nil {
			logger.Warn("vector index save failed",
				zap.String("path", cfg.Storage.VectorIndexPath), zap.Error(err))
		}
	}
	fmt.Printf("Ingested %d item(s) from %s\n", n, path)
}

func runDelete() {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fmt.Println("Usage: gitscout delete [flags] <item-id>")
		fmt.Println(`Item IDs carry a type prefix, e.g. "issue:42", "pr:17", "repo:acme/api".`)
		os.Exit(1)
	}
	itemID := fs.Arg(0)

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
		logger.Fatal("Failed to initialize", zap.Error(err))
	}
	defer components.Close()

	if err := components.Indexer.DeleteItem(context.Background(), itemID); err != nil {
		fmt.Printf("Deletion failed: %v\n", err)
		os.Exit(1)
	}
	if cfg.Storage.VectorIndexPath != "" {
		_ = components.VectorIndex.Save(cfg.Storage.VectorIndexPath)
	}
	fmt.Printf("Item deleted: %s\n", itemID)
}

// statusResponse is the shape of GET /api/v1/status.
type statusResponse struct {
	Items           int64                  `json:"items"`
	ItemsByType     map[string]int64       `json:"items_by_type"`
	VectorIndexSize int                    `json:"vector_index_size"`
	DiskUsageBytes  *int64                 `json:"disk_usage_bytes,omitempty"`
	Config          map[string]interface{} `json:"config,omitempty"`
}

func runStatus() {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path (direct storage mode)")
	serverURL := fs.String("server", "http://localhost:8080", `server URL; use --server "" for direct storage`)
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
		res, err := statusDirect(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Status failed: %v\n", err)
			os.Exit(1)
		}
		status = *res
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
		fmt.Printf("items:              %d\n", status.Items)
		for _, t := range []string{"issue", "pull_request", "repository"} {
			if n, ok := status.ItemsByType[t]; ok {
				fmt.Printf("  %-17s %d\n", t+":", n)
			}
		}
		fmt.Printf("vector_index_size:  %d\n", status.VectorIndexSize)
		if status.DiskUsageBytes != nil {
			fmt.Printf("disk_usage_bytes:   %d\n", *status.DiskUsageBytes)
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

func statusDirect(configPath string) (*statusResponse, error) {
	cfg, _, err := loadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		return nil, err
	}
	defer logger.Sync()

	components, err := initializeComponents(cfg, logger)
	if err != nil {
		return nil, err
	}
	defer components.Close()

	ctx := context.Background()
	byType, err := components.Store.CountByType(ctx)
	if err != nil {
		return nil, fmt.Errorf("count items: %w", err)
	}
	status := &statusResponse{ItemsByType: map[string]int64{}}
	for t, n := range byType {
		status.Items += n
		status.ItemsByType[string(t)] = n
	}
	status.VectorIndexSize = components.VectorIndex.Size()
	if diskBytes, err := storage.DiskUsageBytes(
		cfg.Storage.DatabasePath, cfg.Storage.BleveIndexPath, cfg.Storage.VectorIndexPath,
	); err == nil {
		status.DiskUsageBytes = &diskBytes
	}
	return status, nil
}

// Components holds initialized services.
type Components struct {
	Store       storage.Store
	Embedder    embedding.Embedder
	VectorIndex vectorindex.VectorIndex
	TextIndex   textindex.TextIndex
	Engine      *search.Engine
	Indexer     *ingest.Indexer
}

func (c *Components) Close() {
	if c.Store != nil {
		_ = c.Store.Close()
	}
	if c.Embedder != nil {
		_ = c.Embedder.Close()
	}
	if c.VectorIndex != nil {
		_ = c.VectorIndex.Close()
	}
	if c.TextIndex != nil {
		_ = c.TextIndex.Close()
	}
}

func initializeComponents(cfg *config.Config, logger *zap.Logger) (*Components, error) {
	metrics.Register()

	store, err := storage.NewSQLiteStore(cfg.Storage.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	embedder, err := newEmbedder(cfg, logger)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	filterMode := vectorindex.FilterModePre
	if cfg.Search.VectorFilterMode == string(vectorindex.FilterModePost) {
		filterMode = vectorindex.FilterModePost
	}
	vectorIndex, err := vectorindex.NewMemoryIndex(embedder.Dimensions(), filterMode)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to initialize vector index: %w", err)
	}
	if cfg.Storage.VectorIndexPath != "" {
		if loadErr := vectorIndex.Load(cfg.Storage.VectorIndexPath); loadErr != nil {
			logger.Warn("vector index load skipped (re-ingest to rebuild)",
				zap.String("path", cfg.Storage.VectorIndexPath), zap.Error(loadErr))
		}
	}
	logger.Info("vector index initialized",
		zap.Int("dimensions", vectorIndex.Dimensions()),
		zap.Int("size", vectorIndex.Size()),
		zap.String("filter_mode", string(vectorIndex.FilterMode())))

	textIndex, err := textindex.NewBleveIndex(cfg.Storage.BleveIndexPath)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to initialize text index: %w", err)
	}

	engine := search.NewEngine(textIndex, vectorIndex, embedder, &cfg.Search, logger)
	indexer := ingest.NewIndexer(store, textIndex, vectorIndex, embedder, logger)

	return &Components{
		Store:       store,
		Embedder:    embedder,
		VectorIndex: vectorIndex,
		TextIndex:   textIndex,
		Engine:      engine,
		Indexer:     indexer,
	}, nil
}

// newEmbedder builds the configured embedding provider, wrapped in an LRU
// cache so repeated query texts are not re-embedded.
func newEmbedder(cfg *config.Config, logger *zap.Logger) (embedding.Embedder, error) {
	var inner embedding.Embedder
	switch cfg.Embedding.Provider {
	case "mock":
		inner = embedding.NewMockEmbedder(cfg.Embedding.Dimensions)
	case "openai", "":
		apiKey := cfg.Embedding.APIKey()
		if apiKey == "" && cfg.Embedding.BaseURL == "" {
			logger.Warn("no embedding API key set, falling back to mock embedder",
				zap.String("api_key_env", cfg.Embedding.APIKeyEnv))
			inner = embedding.NewMockEmbedder(cfg.Embedding.Dimensions)
			break
		}
		inner = embedding.NewOpenAIEmbedder(embedding.OpenAIConfig{
			APIKey:     apiKey,
			BaseURL:    cfg.Embedding.BaseURL,
			Model:      cfg.Embedding.Model,
			Dimensions: cfg.Embedding.Dimensions,
			Logger:     logger,
		})
	default:
		return nil, fmt.Errorf("unknown embedding provider %q; use openai or mock", cfg.Embedding.Provider)
	}
	return embedding.NewCachedEmbedder(inner, cfg.Embedding.CacheSize), nil
}

func printUsage() {
	fmt.Println(`gitscout - Hybrid search over GitHub issues, pull requests, and repositories

Usage:
  gitscout server [flags]           Start the HTTP server
  gitscout search [flags] <query>   Search indexed items
  gitscout ingest [flags] <path>    Ingest a dump file or directory of dumps
  gitscout delete [flags] <id>      Delete an item by ID
  gitscout status [flags]           Show item counts and index status
  gitscout version                  Show version
  gitscout help                     Show this help

Server Flags:
  --config string    Config file path (default: /usr/local/etc/gitscout/config.yaml)
  --debug            Enable debug logging

Search Flags:
  --config string         Config file path (direct storage mode)
  --server string         Server URL (default: http://localhost:8080). Use --server "" for direct storage.
  --mode string           Search mode: hybrid, full_text, or semantic (default: hybrid)
  --limit int             Max results per query
  --offset int            Pagination offset
  --filter string         Metadata filter, e.g. "state = 'open' AND repository = 'acme/api'"
  --rerank string         Fusion strategy: linear, rrf, text_only, or vector_only
  --rrf-k float           Rank constant for rrf (default: 60)
  --text-weight float     Text weight for linear
  --vector-weight float   Vector weight for linear
  --output string         Output format: text or json (default: text)

Ingest Flags:
  --config string    Config file path

Status Flags:
  --config string    Config file path (direct storage mode)
  --server string    Server URL. Use --server "" for direct storage.
  --output string    Output format: text or json (default: text)

Examples:
  gitscout server
  gitscout ingest ./dumps/acme-api.json
  gitscout search flaky integration tests
  gitscout search --mode semantic "users hit timeouts after upgrading"
  gitscout search --filter "state = 'open'" --rerank rrf oauth token refresh
  gitscout delete issue:42
  gitscout status --output json`)
}
