package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	nhttp "net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-kit/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	converter "go-currency-converter"
	"go-currency-converter/coinbase"
	"go-currency-converter/config"
	"go-currency-converter/exchange"
	"go-currency-converter/http"
	"go-currency-converter/jitter"
	"go-currency-converter/store"
)

func newRootCommand(logger log.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:           "converter",
		Short:         "Currency converter over a table of direct exchange rates",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCommand(logger), newDemoCommand(logger))
	return root
}

func newServeCommand(logger log.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the converter over HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, logger)
		},
	}
}

func newDemoCommand(logger log.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Run the conversion walkthrough and log the results",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			return demo(cmd.Context(), cfg, log.With(logger, "component", "demo"))
		},
	}
}

// newFeed builds the RateFeed selected by cfg, nil when automatic updates are disabled
func newFeed(cfg *config.Config, rates store.RateStore, logger log.Logger) (exchange.RateFeed, error) {
	switch cfg.Feed {
	case config.FeedCoinbase:
		coinbaseService := coinbase.NewService(cfg.CoinbaseURL, cfg.CoinbaseTimeout, log.With(logger, "component", "coinbase_rest"))
		coinbaseService = coinbase.NewLoggingService(log.With(logger, "component", "coinbase_rest"), coinbaseService)
		coinbaseService = coinbase.NewCachingService(cfg.CoinbaseTTL, log.With(logger, "component", "coinbase_cache"), coinbaseService)
		return coinbaseService, nil
	case config.FeedJitter:
		return jitter.New(rates, rand.New(rand.NewSource(seed(cfg))), cfg.JitterSpread)
	default:
		return nil, nil
	}
}

func seed(cfg *config.Config) int64 {
	if cfg.JitterSeed != 0 {
		return cfg.JitterSeed
	}
	return time.Now().UnixNano()
}

func newConverter(cfg *config.Config, rates store.RateStore, logger log.Logger) (*exchange.Converter, error) {
	opts := []exchange.Option{exchange.WithTarget(cfg.TargetCurrency)}
	feed, err := newFeed(cfg, rates, logger)
	if err != nil {
		return nil, err
	}
	if feed != nil {
		opts = append(opts, exchange.WithFeed(feed))
	}
	return exchange.NewService(rates, opts...), nil
}

func serve(ctx context.Context, cfg *config.Config, logger log.Logger) error {
	rates := store.NewSynchronized(store.New())
	c, err := newConverter(cfg, rates, logger)
	if err != nil {
		return err
	}

	var convertService exchange.Service = c
	convertService = exchange.NewLoggingService(log.With(logger, "component", "convert"), convertService)
	convertService, err = exchange.NewInstrumentingService(prometheus.DefaultRegisterer, convertService)
	if err != nil {
		return fmt.Errorf("registering metrics: %w", err)
	}

	if cfg.Feed != config.FeedNone {
		go updatePeriodically(ctx, convertService, cfg.UpdateFrequency, logger)
	}

	mux := nhttp.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", http.NewServer(convertService, log.With(logger, "component", "http")))

	server := &nhttp.Server{
		Addr:    ":" + cfg.Port,
		Handler: mux,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	logger.Log("msg", "listening", "addr", server.Addr, "feed", cfg.Feed, "target", cfg.TargetCurrency)
	err = server.ListenAndServe()
	if errors.Is(err, nhttp.ErrServerClosed) {
		return nil
	}
	return err
}

// updatePeriodically runs automatic rate updates until ctx is done
func updatePeriodically(ctx context.Context, s exchange.Service, frequency time.Duration, logger log.Logger) {
	ticker := time.NewTicker(frequency)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if err := s.UpdateRatesAutomatically(ctx); err != nil {
				logger.Log("msg", "periodic update failed", "err", err)
			}
		case <-ctx.Done():
			return
		}
	}
}

func demo(ctx context.Context, cfg *config.Config, logger log.Logger) error {
	rates := store.New()
	if cfg.Feed != config.FeedCoinbase {
		cfg.Feed = config.FeedJitter
	}
	c, err := newConverter(cfg, rates, logger)
	if err != nil {
		return err
	}

	for _, r := range []struct {
		from, to converter.Currency
		rate     converter.Rate
	}{
		{"USD", "CNY", 6.90},
		{"USD", "EUR", 0.93},
		{"CNY", "USD", 0.145},
		{"CNY", "EUR", 0.135},
	} {
		if err := c.SetExchangeRate(ctx, r.from, r.to, r.rate); err != nil {
			return err
		}
	}

	logger.Log("msg", c.String())
	logConversion(ctx, c, logger, 100, "USD", "CNY")
	logConversion(ctx, c, logger, 100, "CNY", "EUR")

	ex, err := c.ConvertToTarget(ctx, 50, "EUR")
	logger.Log("msg", "convert to target", "amount", 50, "from", "EUR", "to", c.Target(), "converted_amount", ex.Amount, "err", err)

	if err := c.UpdateRatesAutomatically(ctx); err != nil {
		return fmt.Errorf("updating rates: %w", err)
	}
	logger.Log("msg", "rates updated", "feed", cfg.Feed)
	logConversion(ctx, c, logger, 100, "USD", "CNY")
	return nil
}

func logConversion(ctx context.Context, s exchange.Service, logger log.Logger, amount converter.Amount, from, to converter.Currency) {
	ex, err := s.Convert(ctx, amount, from, to)
	logger.Log("msg", "convert", "amount", amount, "from", from, "to", to, "rate", ex.Rate, "converted_amount", ex.Amount, "err", err)
}
