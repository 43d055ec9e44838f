package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Paldeepak079/AadharIQ/config"
	"github.com/Paldeepak079/AadharIQ/handlers"
	"github.com/Paldeepak079/AadharIQ/insights"
	"github.com/Paldeepak079/AadharIQ/metrics"
	"github.com/Paldeepak079/AadharIQ/middleware"
	"github.com/Paldeepak079/AadharIQ/report"
	"github.com/Paldeepak079/AadharIQ/store"
)

const (
	initialLoadTimeout = 2 * time.Minute
	reloadTimeout      = 5 * time.Minute
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the analytics API",
	RunE:  runServe,
}

// closers runs cleanup functions in reverse registration order.
type closers []func()

func (c *closers) add(fn func()) { *c = append(*c, fn) }

func (c closers) run() {
	for i := len(c) - 1; i >= 0; i-- {
		c[i]()
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	startTime := time.Now()
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var cleanup closers
	defer cleanup.run()

	m := metrics.NewMetrics()
	checks := map[string]config.Pinger{}

	source, closeSource, err := openSource(ctx, checks)
	if err != nil {
		return err
	}
	cleanup.add(closeSource)

	holder := store.NewHolder(source, m, logger)
	loadCtx, cancel := context.WithTimeout(ctx, initialLoadTimeout)
	if _, err := holder.Reload(loadCtx); err != nil {
		logger.Warn("Initial dataset load failed, serving without data", zap.Error(err))
	}
	cancel()
	if cfg.Dataset.ReloadCron != "" {
		if err := holder.Schedule(cfg.Dataset.ReloadCron, reloadTimeout); err != nil {
			return err
		}
		cleanup.add(holder.Stop)
	}

	engine, err := buildInsightEngine(ctx, m, checks, &cleanup)
	if err != nil {
		return err
	}

	api := handlers.NewAPI(handlers.Options{
		Holder:   holder,
		Cache:    config.NewResponseCache(cfg.Cache),
		Insights: engine,
		PDF:      report.NewPDFRenderer(cfg.Report.FontPath),
		Checks:   checks,
		Metrics:  m,
		Logger:   logger,
	})

	var limiter *middleware.RateLimiter
	if cfg.RateLimiter.Enabled {
		limiter = middleware.NewRateLimiter(cfg.RateLimiter.RequestsPerSecond, cfg.RateLimiter.BurstSize, m, logger)
		if err := limiter.TrustProxies(cfg.RateLimiter.TrustedProxies); err != nil {
			return err
		}
	}

	r := mux.NewRouter()
	if cfg.CORS.Debug {
		r.Use(middleware.CORSDebug(logger))
	}
	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logging(logger))
	r.Use(middleware.Metrics(m))
	api.Register(r, limiter)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
	}

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Content-Type",
			"Origin",
			"X-Request-ID",
			"X-Requested-With",
		},
		ExposedHeaders: []string{
			"Content-Disposition",
			"Content-Length",
			"X-Request-ID",
		},
		AllowCredentials: false,
		MaxAge:           86400,
	})

	srv := &http.Server{
		Handler:           corsHandler.Handler(r),
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("Starting server",
			zap.String("addr", srv.Addr),
			zap.Duration("startup", time.Since(startTime)))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stop)

	select {
	case sig := <-stop:
		logger.Info("Shutdown signal received", zap.String("signal", sig.String()))
	case err := <-serverErrors:
		logger.Error("Server error received", zap.Error(err))
		return err
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during server shutdown", zap.Error(err))
		return err
	}
	logger.Info("Server shutdown completed successfully")
	return nil
}

// buildInsightEngine wires the insight cache, archive and model from config.
// Redis and MongoDB are optional; without a Gemini key every request gets the
// fallback response.
func buildInsightEngine(ctx context.Context, m *metrics.Metrics, checks map[string]config.Pinger, cleanup *closers) (*insights.Engine, error) {
	var cache store.InsightCache = store.NewMemoryInsightCache(cfg.Insights.CacheTTL)
	if cfg.Redis.Addr != "" {
		client, err := config.ConnectRedis(ctx, cfg.Redis, logger)
		if err != nil {
			return nil, err
		}
		cleanup.add(func() { client.Close() })
		checks["redis"] = config.RedisPinger(client)
		cache = store.NewRedisInsightCache(client, cfg.Redis.KeyPrefix, cfg.Insights.CacheTTL)
	}

	opts := []insights.Option{
		insights.WithMetrics(m),
		insights.WithTimeout(cfg.Insights.Timeout),
	}
	if cfg.Mongo.URI != "" {
		client, err := config.ConnectMongo(ctx, cfg.Mongo, logger)
		if err != nil {
			return nil, err
		}
		cleanup.add(func() {
			disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			client.Disconnect(disconnectCtx)
		})
		checks["mongo"] = config.MongoPinger(client)
		archive, err := store.NewMongoArchive(ctx, client, cfg.Mongo.Database, cfg.Mongo.Collection)
		if err != nil {
			return nil, err
		}
		opts = append(opts, insights.WithArchive(archive))
	}

	var model insights.Model
	if cfg.Insights.APIKey != "" {
		gm, err := insights.NewGeminiModel(ctx, cfg.Insights.APIKey, cfg.Insights.Model)
		if err != nil {
			return nil, err
		}
		model = gm
		logger.Info("Insight model configured", zap.String("model", gm.Name()))
	} else {
		logger.Warn("No Gemini API key configured, insights will use the fallback response")
	}

	return insights.NewEngine(model, cache, logger, opts...), nil
}
