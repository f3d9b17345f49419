// Command server runs the estimation API server.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/spf13/viper"

	"github.com/codeGROOVE-dev/estcalc/internal/config"
	"github.com/codeGROOVE-dev/estcalc/internal/server"
	"github.com/codeGROOVE-dev/estcalc/internal/session"
)

const (
	shutdownTimeout   = 10 * time.Second
	readHeaderTimeout = 5 * time.Second
	writeTimeout      = 30 * time.Second
	idleTimeout       = 120 * time.Second
	maxHeaderBytes    = 1 << 20 // 1MB
)

// Build variables - set by ldflags.
var (
	GitCommit = "unknown"
	GitBranch = "unknown"
	BuildTime = "unknown"
)

func main() {
	// Create root context
	ctx := context.Background()

	// Set up logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		AddSource: true,
		Level:     slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Log startup information
	logger.InfoContext(ctx, "starting server",
		"commit", GitCommit,
		"branch", GitBranch,
		"built", BuildTime,
		"go", runtime.Version(),
		"pid", os.Getpid())

	// Parse flags
	var (
		port         = flag.String("port", "", "Port to run the server on")
		version      = flag.Bool("version", false, "Print version and exit")
		cfgFile      = flag.String("config", "", "Config file (default: $XDG_CONFIG_HOME/estcalc/config.yaml)")
		corsOrigins  = flag.String("cors-origins", "", "Comma-separated list of allowed CORS origins (supports *.domain.com wildcards)")
		allowAllCors = flag.Bool("allow-all-cors", false, "Allow all CORS origins (use only for development)")
		rateLimit    = flag.Int("rate-limit", server.DefaultRateLimit, "Requests per second rate limit")
		rateBurst    = flag.Int("rate-burst", server.DefaultRateBurst, "Rate limit burst size")
	)
	flag.Parse()

	if *version {
		logger.InfoContext(ctx, "estcalc-server version",
			"commit", GitCommit,
			"branch", GitBranch,
			"built", BuildTime,
			"go", runtime.Version())
		os.Exit(0)
	}

	v := viper.New()
	if err := config.Init(v, *cfgFile); err != nil {
		logger.ErrorContext(ctx, "failed to read config", "error", err)
		os.Exit(1)
	}
	cfg, err := config.Load(v)
	if err != nil {
		logger.ErrorContext(ctx, "invalid config", "error", err)
		os.Exit(1)
	}

	// Explicit flags override the config file and ESTCALC_* environment.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "cors-origins":
			cfg.Server.CORSOrigins = *corsOrigins
		case "allow-all-cors":
			cfg.Server.AllowAllCORS = *allowAllCors
		case "rate-limit":
			cfg.Server.RateLimit = *rateLimit
		case "rate-burst":
			cfg.Server.RateBurst = *rateBurst
		case "port":
			cfg.Server.Port = *port
		}
	})

	// Determine port (PORT is set by Cloud Run)
	serverPort := cfg.Server.Port
	if *port == "" {
		if envPort := os.Getenv("PORT"); envPort != "" {
			serverPort = envPort
		}
	}

	// Create server
	estServer := server.New()
	estServer.SetCommit(GitCommit)
	estServer.SetCORSConfig(cfg.Server.CORSOrigins, cfg.Server.AllowAllCORS)
	estServer.SetRateLimit(cfg.Server.RateLimit, cfg.Server.RateBurst)
	estServer.SetOptions(options(cfg))
	if estServer.LoadAPIKey(ctx) {
		logger.InfoContext(ctx, "API key authentication enabled")
	} else {
		logger.WarnContext(ctx, "No API key configured - estimation endpoints are open")
	}

	srv := &http.Server{
		Addr:              ":" + serverPort,
		Handler:           estServer,
		ReadTimeout:       readHeaderTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		MaxHeaderBytes:    maxHeaderBytes,
	}

	// Start server in goroutine
	serverErrors := make(chan error, 1)
	go func() {
		logger.InfoContext(ctx, "server listening", "port", serverPort)
		serverErrors <- srv.ListenAndServe()
	}()

	// Set up signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)

	// Wait for shutdown signal or server error
	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.ErrorContext(ctx, "server error", "error", err)
			os.Exit(1)
		}
	case sig := <-sigChan:
		logger.InfoContext(ctx, "received signal", "signal", sig)
		logger.InfoContext(ctx, "starting graceful shutdown")

		shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)

		// Shutdown application components
		estServer.Shutdown()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			cancel()
			logger.WarnContext(ctx, "graceful shutdown failed", "error", err)
			// Force close
			if err := srv.Close(); err != nil {
				logger.ErrorContext(ctx, "server close error", "error", err)
				os.Exit(1)
			}
		} else {
			cancel()
		}
	}

	logger.InfoContext(ctx, "server stopped")
}

// options builds report enrichments from the config.
func options(cfg *config.Config) session.Options {
	var opts session.Options
	if cfg.Cost.COCOMO {
		cc := cfg.COCOMO
		opts.COCOMO = &cc
	}
	if cfg.Cost.Enabled {
		rates := cfg.Cost.Rates
		opts.Cost = &rates
	}
	return opts
}
