// Command server starts the resume matching HTTP server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fairyhunter13/resume-match/internal/adapter/embedding"
	"github.com/fairyhunter13/resume-match/internal/adapter/embedding/openai"
	"github.com/fairyhunter13/resume-match/internal/adapter/embedding/stub"
	httpserver "github.com/fairyhunter13/resume-match/internal/adapter/httpserver"
	"github.com/fairyhunter13/resume-match/internal/adapter/observability"
	"github.com/fairyhunter13/resume-match/internal/adapter/repo/postgres"
	"github.com/fairyhunter13/resume-match/internal/adapter/repo/rediscache"
	tikaext "github.com/fairyhunter13/resume-match/internal/adapter/textextractor/tika"
	"github.com/fairyhunter13/resume-match/internal/app"
	"github.com/fairyhunter13/resume-match/internal/config"
	"github.com/fairyhunter13/resume-match/internal/domain"
	"github.com/fairyhunter13/resume-match/internal/match"
	"github.com/fairyhunter13/resume-match/internal/usecase"
)

// redisAdapter narrows *redis.Client to the readiness interface.
type redisAdapter struct{ *redis.Client }

func (r redisAdapter) Ping(ctx context.Context) app.RedisPingResult {
	return r.Client.Ping(ctx)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := observability.SetupLogger(cfg)
	slog.SetDefault(logger)

	// Register all Prometheus metrics once per process so that /metrics
	// exposes HTTP, embedding, and analysis instrumentation.
	observability.InitMetrics()

	shutdownTracer, err := observability.SetupTracing(cfg)
	if err != nil {
		slog.Error("failed to setup tracing", slog.Any("error", err))
	}
	defer func() {
		if shutdownTracer != nil {
			_ = shutdownTracer(context.Background())
		}
	}()

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DBURL)
	if err != nil {
		slog.Error("db connect failed", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()
	if err := postgres.Migrate(ctx, pool); err != nil {
		slog.Error("db migrate failed", slog.Any("error", err))
		os.Exit(1)
	}

	resumeRepo := postgres.NewResumeRepo(pool)
	analysisRepo := postgres.NewAnalysisRepo(pool)

	// Optional Redis result cache
	var (
		resultCache domain.ResultCache
		rdb         *redis.Client
	)
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		resultCache = rediscache.New(rdb, cfg.ResultTTL)
		slog.Info("result cache enabled", slog.String("addr", cfg.RedisAddr), slog.Duration("ttl", cfg.ResultTTL))
	}

	// Embedding backend: a real OpenAI-compatible client when configured,
	// otherwise the deterministic stub so the service stays usable offline.
	var embedder domain.EmbeddingClient
	if cfg.EmbeddingsEnabled() {
		embedder = openai.New(cfg)
		slog.Info("embedding client initialized", slog.String("model", cfg.EmbeddingsModel))
	} else {
		embedder = stub.New()
		slog.Warn("no embedding backend configured, using deterministic stub embeddings")
	}
	embedder = embedding.NewCache(embedder, cfg.EmbedCacheSize)

	// Skill taxonomy, optionally augmented from a YAML file.
	var taxonomy *match.Taxonomy
	if cfg.TaxonomyPath != "" {
		extra, err := match.LoadTaxonomyFile(cfg.TaxonomyPath)
		if err != nil {
			slog.Error("taxonomy load failed", slog.String("path", cfg.TaxonomyPath), slog.Any("error", err))
			os.Exit(1)
		}
		taxonomy = match.NewTaxonomy(extra)
		slog.Info("taxonomy augmented", slog.String("path", cfg.TaxonomyPath), slog.Int("extra", len(extra)))
	} else {
		taxonomy = match.NewTaxonomy(nil)
	}

	engine := match.NewEngine(
		taxonomy,
		match.NewSemanticScorer(embedder, cfg.MinChunkLen, cfg.MaxChunkTokens, cfg.EmbedBatchSize),
		cfg.DefaultOptions(),
		observability.SemanticFallbacksTotal,
	)

	uploadSvc := usecase.NewUploadService(resumeRepo)
	analyzeSvc := usecase.NewAnalyzeService(engine, resumeRepo, analysisRepo, resultCache)
	resultSvc := usecase.NewResultService(analysisRepo, resultCache)

	var redisForChecks app.RedisClient
	if rdb != nil {
		redisForChecks = redisAdapter{rdb}
	}
	dbCheck, redisCheck, tikaCheck := app.BuildReadinessChecks(cfg, pool, redisForChecks)

	ext := tikaext.New(cfg.TikaURL)

	srv := httpserver.NewServer(cfg, uploadSvc, analyzeSvc, resultSvc, ext, dbCheck, redisCheck, tikaCheck)
	handler := app.BuildRouter(cfg, srv)

	srvHTTP := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		ReadTimeout:       cfg.HTTPReadTimeout,
		WriteTimeout:      cfg.HTTPWriteTimeout,
		IdleTimeout:       cfg.HTTPIdleTimeout,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server starting", slog.Int("port", cfg.Port))
		errCh <- srvHTTP.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		slog.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", slog.Any("error", err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ServerShutdownTimeout)
	defer cancel()
	_ = srvHTTP.Shutdown(shutdownCtx)
}
