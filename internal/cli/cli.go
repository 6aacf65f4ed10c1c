package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/soccarena/slotwatch/internal/config"
	"github.com/soccarena/slotwatch/internal/logger"
	"github.com/soccarena/slotwatch/internal/notifier"
	"github.com/soccarena/slotwatch/internal/pipeline"
	"github.com/soccarena/slotwatch/internal/scheduler"
	"github.com/soccarena/slotwatch/internal/scraper"
	"github.com/soccarena/slotwatch/internal/store"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

var (
	flagConfig  string
	flagOnce    bool
	flagDryRun  bool
	flagVerbose bool
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "slotwatch",
		Short: "Watch a booking calendar for newly opened slots",
		Long: `slotwatch periodically scrapes a sports-facility booking calendar,
records every slot it has ever seen, and emails a summary whenever
slots appear that were not on record before.`,
		RunE:          runWatch,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.Flags().StringVar(&flagConfig, "config", "config.yaml", "Path to the YAML config file")
	cmd.Flags().BoolVar(&flagOnce, "once", false, "Run a single check and exit")
	cmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "Log outgoing mail instead of sending it")
	cmd.Flags().BoolVar(&flagVerbose, "verbose", false, "Enable debug logging")

	return cmd
}

// runWatch wires the components and hands control to the scheduler
func runWatch(cmd *cobra.Command, args []string) error {
	level := logger.LevelInfo
	if flagVerbose {
		level = logger.LevelDebug
	}
	log := logger.New(level, os.Stdout)
	logger.SetDefault(log)

	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	st, err := store.Open(cfg.Database)
	if err != nil {
		return fmt.Errorf("opening slot store: %w", err)
	}
	defer st.Close()

	weekdays, err := cfg.WeekdayList()
	if err != nil {
		return err
	}

	sc := scraper.New(cfg.Selector, cfg.Marker, time.Duration(cfg.FetchTimeout))

	var n notifier.Notifier
	if cfg.Debug || flagDryRun {
		log.Info("mail dispatch disabled", logger.Fields{"reason": "debug"})
		n = notifier.NewDryRunNotifier(cfg.Courts)
	} else {
		n = notifier.NewMailNotifier(
			cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password,
			cfg.Mail.From, cfg.Mail.To, cfg.Courts)
	}

	p := pipeline.New(sc, st, n, log, cfg.BaseURL, weekdays)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if flagOnce {
		newSlots, err := p.Run(ctx)
		if err != nil {
			return err
		}
		total, err := st.Count(ctx)
		if err != nil {
			return err
		}
		log.Info("check complete", logger.Fields{
			"new_slots":   len(newSlots),
			"known_slots": total,
		})
		return nil
	}

	run := func(ctx context.Context) error {
		_, err := p.Run(ctx)
		if err == nil && flagVerbose {
			log.Debug("metrics", logger.Fields(logger.GetMetricsSnapshot()))
		}
		return err
	}

	scheduler.New(run, time.Duration(cfg.Interval), log).Start(ctx)
	return nil
}

// Execute runs the CLI
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
}
