package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lysyi3m/reply-comb/app/api"
	"github.com/lysyi3m/reply-comb/app/cfg"
	"github.com/lysyi3m/reply-comb/app/compose"
	"github.com/lysyi3m/reply-comb/app/database"
	"github.com/lysyi3m/reply-comb/app/filter"
	"github.com/lysyi3m/reply-comb/app/governor"
	"github.com/lysyi3m/reply-comb/app/ledger"
	"github.com/lysyi3m/reply-comb/app/reddit"
	"github.com/lysyi3m/reply-comb/app/sentiment"
	"github.com/lysyi3m/reply-comb/app/tasks"
	"github.com/lysyi3m/reply-comb/app/topic"
)

const (
	exitOK          = 0
	exitFatal       = 1
	exitInterrupted = 130
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitFatal)
	}
	if appCfg == nil {
		return
	}

	setupLogger(appCfg.Debug)

	os.Exit(run(appCfg))
}

func setupLogger(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func run(appCfg *cfg.Cfg) int {
	slog.Info("Starting Reply Comb",
		"version", appCfg.Version,
		"dry_run", appCfg.DryRun(),
		"max_replies", appCfg.MaxReplies,
		"subreddits", appCfg.Subreddits,
		"schedule", appCfg.Schedule,
		"ledger", appCfg.LedgerPath)

	lock, err := acquireRunLock(appCfg.LedgerPath + ".lock")
	if err != nil {
		slog.Error("Failed to acquire run lock", "error", err)
		return exitFatal
	}
	defer lock.Release()

	policy, err := ledger.ParseCorruptPolicy(appCfg.LedgerOnCorrupt)
	if err != nil {
		slog.Error("Invalid ledger policy", "error", err)
		return exitFatal
	}

	replyLedger, closeLedger, err := openLedger(appCfg.LedgerDriver, appCfg.LedgerPath, policy)
	if err != nil {
		slog.Error("Failed to open ledger", "driver", appCfg.LedgerDriver, "path", appCfg.LedgerPath, "error", err)
		return exitFatal
	}
	defer closeLedger()
	slog.Info("Ledger opened", "driver", appCfg.LedgerDriver, "entries", replyLedger.Len())

	conditions, err := appCfg.Conditions()
	if err != nil {
		slog.Error("Invalid conditions", "error", err)
		return exitFatal
	}

	source, botIdentity := newSource(appCfg)

	seed := uint64(time.Now().UnixNano())
	gov := governor.NewGovernor(
		source,
		filter.NewFilterer(sentiment.NewLexicon(), appCfg.SentimentThreshold),
		topic.NewSelector(rand.New(rand.NewPCG(seed, 1))),
		compose.NewComposer(rand.New(rand.NewPCG(seed, 2))),
		replyLedger,
		governor.Config{
			BotIdentity:    botIdentity,
			OriginSelector: appCfg.Subreddits,
			BatchSize:      appCfg.BatchSize,
			Cooldown:       appCfg.Cooldown,
		},
	)

	opts := governor.RunOptions{
		Conditions: conditions,
		DryRun:     appCfg.DryRun(),
		MaxReplies: appCfg.MaxReplies,
	}
	if !appCfg.NoConfirm && !appCfg.IsDaemon() {
		opts.Confirm = governor.Prompt(os.Stdin, os.Stdout)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !appCfg.IsDaemon() {
		return runOnce(ctx, gov, opts)
	}

	return runDaemon(ctx, appCfg, gov, opts, replyLedger, conditions)
}

// newSource picks the authenticated API when credentials are present. Without them
// only the public feed is available, which is enough for dry runs.
func newSource(appCfg *cfg.Cfg) (governor.Source, string) {
	options := reddit.Options{
		UserAgent:  appCfg.UserAgent,
		Timeout:    appCfg.Timeout,
		MaxRetries: appCfg.MaxRetries,
	}

	credentials := appCfg.Credentials()
	if credentials.IsComplete() {
		client := reddit.NewClient(credentials, options)
		slog.Info("Using authenticated Reddit API", "user", client.Username())
		return client, client.Username()
	}

	slog.Info("No Reddit credentials, reading the public feed (dry run only)")
	return reddit.NewFeedFetcher(options), appCfg.RedditUsername
}

func openLedger(driver, path string, policy ledger.CorruptPolicy) (*ledger.Ledger, func(), error) {
	switch driver {
	case "sqlite":
		db, err := database.NewConnection(path)
		if errors.Is(err, ledger.ErrStorageCorrupt) && policy == ledger.Reset {
			backup := fmt.Sprintf("%s.corrupt-%d", path, time.Now().Unix())
			slog.Warn("Ledger database is corrupt, moving it aside", "path", path, "backup", backup, "error", err)
			if renameErr := os.Rename(path, backup); renameErr != nil {
				return nil, nil, fmt.Errorf("failed to move corrupt ledger: %w", renameErr)
			}
			db, err = database.NewConnection(path)
		}
		if err != nil {
			return nil, nil, err
		}

		l, err := ledger.Open(database.NewLedgerRepository(db), policy)
		if err != nil {
			db.Close()
			return nil, nil, err
		}
		return l, func() { db.Close() }, nil

	default:
		l, err := ledger.Open(ledger.NewFileStorage(path), policy)
		if err != nil {
			return nil, nil, err
		}
		return l, func() {}, nil
	}
}

func runOnce(ctx context.Context, gov *governor.Governor, opts governor.RunOptions) int {
	report, err := gov.Run(ctx, opts)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			slog.Warn("Run interrupted", "report", report)
			return exitInterrupted
		}

		var runErr *governor.RunError
		if errors.As(err, &runErr) {
			slog.Error("Run failed", "stage", runErr.Stage, "id", runErr.ItemID, "error", runErr.Err, "report", report)
		} else {
			slog.Error("Run failed", "error", err, "report", report)
		}
		return exitFatal
	}

	if report.DryRun {
		for _, p := range report.Proposals {
			fmt.Printf("DRY RUN  %s  r/%s  %s\n         %s\n", p.ItemID, p.Origin, p.URL, p.Text)
		}
	}

	return exitOK
}

func runDaemon(ctx context.Context, appCfg *cfg.Cfg, gov *governor.Governor, opts governor.RunOptions, replyLedger *ledger.Ledger, conditions *filter.Conditions) int {
	history := tasks.NewRunHistory()

	scheduler, err := tasks.NewScheduler(gov, history, opts, appCfg.Schedule)
	if err != nil {
		slog.Error("Failed to create scheduler", "error", err)
		return exitFatal
	}
	scheduler.Start()
	defer scheduler.Stop()

	handler := api.NewHandler(replyLedger, history, scheduler, api.Settings{
		Version:    appCfg.Version,
		DryRun:     opts.DryRun,
		MaxReplies: opts.MaxReplies,
		Selector:   appCfg.Subreddits,
		Schedule:   appCfg.Schedule,
		Conditions: conditions.String(),
		Ledger:     appCfg.LedgerDriver,
	})

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      api.NewServer(handler, appCfg.APIAccessKey),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("Starting HTTP server", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	slog.Info("Reply Comb started", "schedule", appCfg.Schedule)

	exitCode := exitOK
	select {
	case <-ctx.Done():
		slog.Info("Received shutdown signal")
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
		exitCode = exitFatal
	case err := <-scheduler.Fatal():
		slog.Error("Stopping after fatal run error", "error", err)
		exitCode = exitFatal
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped")
	}

	return exitCode
}
