package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"github.com/lox/handsight/internal/batch"
	"github.com/lox/handsight/internal/config"
	"github.com/lox/handsight/internal/handstore"
	"github.com/lox/handsight/internal/response"
)

var CLI struct {
	Username   string        `arg:"" optional:"" help:"Restrict the run to one user's hands"`
	Config     string        `short:"c" default:"handsight.hcl" help:"Path to HCL configuration file"`
	DB         string        `short:"d" help:"Path to the hand store (overrides config and HANDSIGHT_DB)"`
	DryRun     bool          `help:"Model every action but write nothing back"`
	Workers    int           `short:"w" help:"Hands processed concurrently (overrides config)"`
	HandBudget time.Duration `help:"Wall-clock budget per hand (overrides config)"`
	LogLevel   string        `short:"l" help:"Log level (overrides config)"`
}

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("12"))

	countStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))

	failStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))
)

func main() {
	ctx := kong.Parse(&CLI)

	// Optional .env for local runs; absence is fine
	_ = godotenv.Load()

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		ctx.Exit(1)
	}

	// Precedence: flag, then environment, then config file
	if CLI.DB != "" {
		cfg.Store.Path = CLI.DB
	} else if env := os.Getenv("HANDSIGHT_DB"); env != "" {
		cfg.Store.Path = env
	}
	if CLI.Workers > 0 {
		cfg.Batch.Workers = CLI.Workers
	}
	if CLI.HandBudget > 0 {
		cfg.Batch.HandBudgetSeconds = int(CLI.HandBudget / time.Second)
		if cfg.Batch.HandBudgetSeconds < 1 {
			cfg.Batch.HandBudgetSeconds = 1
		}
	}
	if CLI.LogLevel != "" {
		cfg.Batch.LogLevel = CLI.LogLevel
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		ctx.Exit(1)
	}

	logger := log.New(os.Stderr)
	switch cfg.Batch.LogLevel {
	case "debug":
		logger.SetLevel(log.DebugLevel)
	case "info":
		logger.SetLevel(log.InfoLevel)
	case "warn":
		logger.SetLevel(log.WarnLevel)
	case "error":
		logger.SetLevel(log.ErrorLevel)
	default:
		logger.SetLevel(log.InfoLevel)
	}

	logger.Info("Starting response-model batch",
		"db", cfg.Store.Path,
		"user", CLI.Username,
		"workers", cfg.Batch.Workers,
		"dryRun", CLI.DryRun)

	store, err := handstore.Open(cfg.Store.Path)
	if err != nil {
		logger.Error("Failed to open hand store", "error", err)
		ctx.Exit(1)
	}
	defer store.Close()

	runCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// First signal requests a cooperative stop; the in-flight hand finishes
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sig
		logger.Info("Shutdown requested, finishing current hands...")
		cancel()
	}()

	driver := batch.New(store, response.New(response.ChartProvider{}), batch.Options{
		Username:   CLI.Username,
		DryRun:     CLI.DryRun,
		Workers:    cfg.Batch.Workers,
		HandBudget: cfg.HandBudget(),
		Logger:     logger,
	})

	stats, err := driver.Run(runCtx)
	if err != nil {
		logger.Error("Batch failed", "error", err)
	}

	printSummary(stats.Snapshot(), CLI.DryRun)
	ctx.Exit(exitCode(err, runCtx.Err() != nil))
}

// exitCode maps the run outcome onto the process exit code: 1 for a failed
// run, 2 for a run cut short by a shutdown signal. Per-action failures show
// up in the summary, not the exit code.
func exitCode(runErr error, cancelled bool) int {
	switch {
	case runErr != nil:
		return 1
	case cancelled:
		return 2
	default:
		return 0
	}
}

func printSummary(s batch.Snapshot, dryRun bool) {
	title := "Batch complete"
	if dryRun {
		title = "Batch complete (dry run)"
	}
	fmt.Println(headerStyle.Render(title))

	row := func(label string, value int, style lipgloss.Style) {
		fmt.Printf("  %s %s\n", labelStyle.Render(fmt.Sprintf("%-18s", label)), style.Render(fmt.Sprintf("%d", value)))
	}

	row("Hands seen", s.HandsSeen, countStyle)
	row("Hands processed", s.HandsProcessed, countStyle)
	row("Actions modeled", s.ActionsModeled, countStyle)
	row("Actions skipped", s.ActionsSkipped, countStyle)
	row("Writes", s.Writes, countStyle)
	row("No-op rewrites", s.NoopWrites, countStyle)
	row("Budget overruns", s.BudgetOverruns, failStyle)
	row("Actions failed", s.ActionsFailed, failStyle)
	fmt.Printf("  %s %s\n", labelStyle.Render(fmt.Sprintf("%-18s", "Elapsed")), countStyle.Render(s.Elapsed.Round(time.Millisecond).String()))
}
