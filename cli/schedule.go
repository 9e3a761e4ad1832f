package cli

import (
	"agent-staffing/config"
	"agent-staffing/errors"
	"agent-staffing/formatter"
	"agent-staffing/logging"
	"agent-staffing/metrics"
	"agent-staffing/models"
	"agent-staffing/parser"
	"agent-staffing/scheduler"
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/push"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// pushJobName is the Pushgateway job the run's metrics are grouped under.
const pushJobName = "agent_staffing"

var formatters = map[string]func(*models.Schedule) string{
	"text": formatter.FormatText,
	"json": formatter.FormatJSON,
	"csv":  formatter.FormatCSV,
	"yaml": formatter.FormatYAML,
}

func newScheduleCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Plan hourly agent head-count for a CSV of call batches",
		Long: `schedule reads customer call batches from a CSV file and prints, for
every hour of the day, the agents each customer needs to meet its service
level target, with the projected service and any capacity shortfall.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				return err
			}
			if cfg.Input == "" {
				return fmt.Errorf("%w: --%s is required", errors.ErrInvalidConfig, config.KeyInput)
			}
			logger, err := logging.New(cfg.LogLevel)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()
			return runSchedule(cmd, cfg, logger)
		},
	}

	// Define flags
	flags := cmd.Flags()
	flags.String(config.KeyInput, "", "Input CSV file (required)")
	flags.String(config.KeyFormat, "text", "Output format: text|json|csv|yaml")
	flags.Float64(config.KeyUtilization, 1.0, "Utilization multiplier (between 0 and 1)")
	flags.Int(config.KeyCapacity, 0, "Maximum agent capacity per hour (0 = unlimited)")
	flags.Float64(config.KeySLA, 0.8, "Default fraction of calls to answer within the service time")
	flags.Int(config.KeyServiceTime, 20, "Default service time in seconds")
	flags.Float64(config.KeyMaxOccupancy, 1.0, "Highest share of time working agents may spend on calls")
	flags.Int(config.KeyAbandonTime, 0, "Seconds callers wait before hanging up (0 = no abandonment projection)")
	flags.String(config.KeyMetricsAddr, "", "Address to expose Prometheus metrics (e.g., :9090)")
	flags.String(config.KeyPushURL, "", "Pushgateway URL to push metrics to (e.g., http://localhost:9091)")
	flags.Bool(config.KeyWait, false, "Keep process running after completion to allow for metric scraping")
	return cmd
}

func runSchedule(cmd *cobra.Command, cfg *config.Config, logger *zap.Logger) error {
	// Start metrics server if address provided
	if cfg.MetricsAddr != "" {
		srv := serveMetrics(cfg.MetricsAddr, logger)
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			_ = srv.Shutdown(ctx)
		}()
	}

	// Open input file
	file, err := os.Open(cfg.Input)
	if err != nil {
		return fmt.Errorf("opening input: %w", err)
	}
	defer file.Close()

	data, err := parser.Parse(file)
	if err != nil {
		return fmt.Errorf("parsing input: %w", err)
	}
	logger.Info("parsed call batches", zap.String("input", cfg.Input), zap.Int("records", len(data)))

	schedule := scheduler.GenerateSchedule(data, scheduler.Options{
		Utilization:        cfg.Utilization,
		CapacityPerHour:    cfg.Capacity,
		TargetSLA:          cfg.TargetSLA,
		ServiceTimeSeconds: cfg.ServiceTime,
		MaxOccupancy:       cfg.MaxOccupancy,
		AbandonTimeSeconds: cfg.AbandonTime,
		Logger:             logger,
	})

	// Output based on format
	fmt.Fprint(cmd.OutOrStdout(), formatters[cfg.Format](schedule))

	// Handle metrics pushing or waiting
	if cfg.PushURL != "" {
		if err := push.New(cfg.PushURL, pushJobName).Gatherer(metrics.Registry).Push(); err != nil {
			logger.Error("pushing to Pushgateway", zap.String("url", cfg.PushURL), zap.Error(err))
		} else {
			logger.Info("metrics pushed to Pushgateway", zap.String("url", cfg.PushURL))
		}
	}

	if cfg.Wait && cfg.MetricsAddr != "" {
		logger.Info("process kept alive for metric scraping, interrupt to exit")
		// Wait for interrupt signal
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		<-ctx.Done()
	} else if cfg.MetricsAddr != "" && cfg.PushURL == "" {
		// Small delay to allow final scrape if not waiting explicitly
		// but typically batch jobs should use pushgateway or wait
		time.Sleep(100 * time.Millisecond)
	}
	return nil
}

func serveMetrics(addr string, logger *zap.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		logger.Info("metrics server listening", zap.String("addr", addr+"/metrics"))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("metrics server", zap.Error(err))
		}
	}()
	return srv
}
