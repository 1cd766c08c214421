package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/productdevbook/portwatch/internal/monitor"
	"github.com/productdevbook/portwatch/internal/tui"
	"github.com/spf13/cobra"
)

var (
	watchMode string
	logFile   string
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch ports open and close in real time",
	Long: `Subscribe to port changes. On a terminal this opens an interactive table
that scans fast while focused and slowly in the background. Otherwise every
change is printed as a line (or a JSON object with --json) until interrupted.`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVarP(&watchMode, "mode", "m", string(monitor.ModeActive), "Scan mode: active or background")
	watchCmd.Flags().StringVar(&logFile, "log-file", "", "Write logs to this file instead of stderr")
}

func runWatch(cmd *cobra.Command, args []string) error {
	mode, err := monitor.ParseMode(watchMode)
	if err != nil {
		return err
	}

	interactive := !jsonOutput && isatty.IsTerminal(os.Stdout.Fd())

	var logOut io.Writer = os.Stderr
	if interactive {
		// Logs would corrupt the alternate screen.
		logOut = io.Discard
	}
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer f.Close()
		logOut = f
	}

	mon, logger, err := setup(logOut)
	if err != nil {
		return err
	}
	defer func() {
		mon.StopAllScanning()
		// Let an in-flight scan finish before the log file closes.
		mon.Wait()
	}()

	if interactive {
		return tui.Run(mon, mode)
	}

	emit := printEventLine
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		emit = func(e monitor.Event) {
			if err := enc.Encode(e); err != nil {
				logger.Error("failed to write event", "error", err)
			}
		}
	}
	cancel := mon.Listen(emit)
	defer cancel()

	id := mon.Subscribe(mode)
	defer mon.Unsubscribe(id)
	logger.Info("watching ports", "mode", mode)

	<-cmd.Context().Done()
	return nil
}

func printEventLine(e monitor.Event) {
	sign := "+"
	if e.Type == monitor.PortRemoved {
		sign = "-"
	}
	p := e.Port
	fmt.Printf("%s %d\t%s (PID %d)\tpane=%s workspace=%s\t%s\n",
		sign, p.Port, p.ProcessName, p.PID, paneLabel(p.PaneID), p.WorkspaceID, p.Address)
}
