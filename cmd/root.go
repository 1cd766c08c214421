package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/productdevbook/portwatch/internal/config"
	"github.com/productdevbook/portwatch/internal/monitor"
	"github.com/productdevbook/portwatch/internal/scanner"
	"github.com/productdevbook/portwatch/internal/session"
	"github.com/spf13/cobra"
)

var (
	version      = "0.1.0"
	jsonOutput   bool
	sessionSpecs []string
	logLevel     string
	configPath   string
)

// newScanner builds the platform scanner. Tests swap it for a fake.
var newScanner = scanner.New

var rootCmd = &cobra.Command{
	Use:   "portwatch",
	Short: "See which dev servers belong to which workspace",
	Long: `portwatch lists listening ports and attributes each one to the terminal
session (pane) whose process tree owns it. Ports no session owns are reported
under the "system" pane.`,
	SilenceUsage: true,
	RunE:         runList,
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().StringArrayVarP(&sessionSpecs, "session", "s", nil, "Track a session as pane=pid[@workspace] (repeatable)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn or error (overrides config)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.portwatch/config.json)")
	rootCmd.Flags().StringVarP(&workspaceFilter, "workspace", "w", "", "Only show ports of this workspace")
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(ignoreCmd)
	rootCmd.Version = version
}

// newLogger builds a text logger, falling back to info for unknown levels.
func newLogger(w io.Writer, level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}

// setup loads the config, builds a monitor logging to logOut and registers
// every --session.
func setup(logOut io.Writer) (*monitor.Monitor, *slog.Logger, error) {
	store, migrateErr := config.NewStore(configPath)
	cfg, err := store.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	specs, err := session.ParseAll(sessionSpecs)
	if err != nil {
		return nil, nil, err
	}

	level := cfg.LogLevel
	if logLevel != "" {
		level = logLevel
	}
	logger := newLogger(logOut, level)
	if migrateErr != nil {
		logger.Warn("config migration failed", "error", migrateErr)
	}

	opts := append(cfg.MonitorOptions(), monitor.WithLogger(logger))
	mon := monitor.New(newScanner(), opts...)

	for i := range specs {
		spec := &specs[i]
		if !spec.Alive() {
			logger.Warn("session process not running", "pane", spec.Pane, "pid", spec.Pid)
		}
		mon.RegisterSession(&spec.Process, spec.Workspace)
	}

	return mon, logger, nil
}

func paneLabel(paneID string) string {
	if paneID == monitor.SystemPaneID {
		return "system"
	}
	return paneID
}
