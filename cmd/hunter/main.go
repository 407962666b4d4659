package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"SwingHunter/internal/api"
	"SwingHunter/internal/collector"
	"SwingHunter/internal/config"
	"SwingHunter/internal/logger"
	"SwingHunter/internal/notifier"
	"SwingHunter/internal/presenter"
	"SwingHunter/internal/scanner"
	"SwingHunter/internal/scheduler"

	"github.com/gin-gonic/gin"
)

// main is the entry point of SwingHunter.
//
// Modes (selected via -mode):
//   - serve: dashboard and API server, plus the Telegram digest when a bot token is set.
//   - scan:  one scan printed as a colored table, optionally exported with -xlsx.
func main() {
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}

	mode := flag.String("mode", "serve", "Mode: serve or scan")
	configFlag := flag.String("config", cfgPath, "Path to the YAML config file")
	tickers := flag.String("tickers", "", "Comma-separated tickers for scan mode (defaults to the configured watchlist)")
	xlsxPath := flag.String("xlsx", "", "Write the scan mode table to this XLSX file")
	flag.Parse()

	cfg, err := config.Load(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	logger.InitWith(cfg.Log.Level, cfg.Log.Pretty)
	if err := cfg.Validate(); err != nil {
		logger.L().Fatal().Err(err).Msg("config validation")
	}

	fetcher := newFetcher(cfg)
	sc := scanner.New(fetcher, cfg.Scanner.MarketSuffix, cfg.DataSource.LookbackDays, cfg.Scanner.Concurrency)
	logger.L().Info().Str("source", fetcher.Name()).Int("concurrency", sc.Concurrency).Msg("scanner ready")

	switch *mode {
	case "scan":
		input := *tickers
		if input == "" {
			input = cfg.Scanner.DefaultTickers
		}
		if err := runScan(sc, input, *xlsxPath); err != nil {
			logger.L().Fatal().Err(err).Msg("scan failed")
		}
	case "serve":
		serve(cfg, sc)
	default:
		logger.L().Fatal().Str("mode", *mode).Msg("unknown mode")
	}
}

func newFetcher(cfg *config.Config) collector.Fetcher {
	switch cfg.DataSource.Provider {
	case config.ProviderREST:
		return collector.NewRESTFetcher(cfg.DataSource.BaseURL, cfg.DataSource.APIKey, cfg.Proxy, cfg.DataSource.Timeout)
	case config.ProviderMock:
		return &collector.MockFetcher{}
	default:
		return collector.NewYahooFetcher(cfg.DataSource.BaseURL, cfg.Proxy, cfg.DataSource.Timeout)
	}
}

func runScan(sc *scanner.Scanner, input, xlsxPath string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	symbols := scanner.ParseTickers(input, sc.MarketSuffix)
	results := sc.Scan(ctx, symbols, func(p scanner.Progress) {
		fmt.Fprintf(os.Stderr, "[%3.0f%%] %d/%d %s\n", p.Fraction()*100, p.Done, p.Total, p.Symbol)
	})
	report := presenter.Build(results)

	if err := presenter.WriteTable(os.Stdout, report); err != nil {
		return fmt.Errorf("write table: %w", err)
	}
	if xlsxPath == "" {
		return nil
	}
	data, err := presenter.ExportXLSX(report)
	if err != nil {
		return fmt.Errorf("export xlsx: %w", err)
	}
	if err := os.WriteFile(xlsxPath, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", xlsxPath, err)
	}
	logger.L().Info().Str("path", xlsxPath).Msg("workbook written")
	return nil
}

func serve(cfg *config.Config, sc *scanner.Scanner) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Telegram.Enabled() {
		tn := notifier.NewTelegramNotifier("", cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
		sched := scheduler.NewScheduler(ctx, sc, tn, cfg.Scanner.DefaultTickers)
		if err := sched.RegisterDigest(cfg.Telegram.DigestCron); err != nil {
			logger.L().Fatal().Err(err).Msg("register cron tasks")
		}
		sched.Start()
		defer sched.Stop()

		go tn.StartPolling(ctx, sched.HandleCommand)
		logger.L().Info().Msg("telegram polling started")

		if os.Getenv("RUN_ON_START") == "true" {
			go sched.RunDigestNow()
		}
	}

	gin.SetMode(gin.ReleaseMode)
	handler := api.NewHandler(sc, cfg.Scanner.DefaultTickers)
	server := startServer(api.NewRouter(handler, 2*time.Minute), cfg.Server.Port)
	gracefulShutdown(ctx, server, cancel)
}

func startServer(router http.Handler, port string) *http.Server {
	server := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.L().Info().Str("port", port).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.L().Fatal().Err(err).Msg("server failed to start")
		}
	}()

	return server
}

func gracefulShutdown(ctx context.Context, server *http.Server, cleanup func()) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	logger.L().Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.L().Error().Err(err).Msg("server forced to shutdown")
	}

	cleanup()
	logger.L().Info().Msg("server exited gracefully")
}
