package cmd

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/productdevbook/portwatch/internal/config"
	"github.com/spf13/cobra"
)

var ignoreCmd = &cobra.Command{
	Use:   "ignore",
	Short: "Manage ports that are never reported",
	Long:  `Add or remove ports from the ignore list stored in the config file. Ignored ports are dropped from every scan.`,
}

var ignoreAddCmd = &cobra.Command{
	Use:   "add <port>",
	Short: "Ignore a port",
	Args:  cobra.ExactArgs(1),
	RunE:  runIgnoreAdd,
}

var ignoreRmCmd = &cobra.Command{
	Use:     "rm <port>",
	Aliases: []string{"remove"},
	Short:   "Stop ignoring a port",
	Args:    cobra.ExactArgs(1),
	RunE:    runIgnoreRm,
}

var ignoreListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show ignored ports",
	Args:  cobra.NoArgs,
	RunE:  runIgnoreList,
}

func init() {
	ignoreCmd.AddCommand(ignoreAddCmd)
	ignoreCmd.AddCommand(ignoreRmCmd)
	ignoreCmd.AddCommand(ignoreListCmd)
}

func parsePort(arg string) (int, error) {
	port, err := strconv.Atoi(arg)
	if err != nil || port < 1 || port > 65535 {
		return 0, fmt.Errorf("invalid port number: %s", arg)
	}
	return port, nil
}

// openConfig loads the config store, reporting a failed plist migration as a
// warning rather than an error.
func openConfig(cmd *cobra.Command) (config.Store, *config.Config, error) {
	store, migrateErr := config.NewStore(configPath)
	if migrateErr != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", migrateErr)
	}
	cfg, err := store.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	return store, cfg, nil
}

func runIgnoreAdd(cmd *cobra.Command, args []string) error {
	port, err := parsePort(args[0])
	if err != nil {
		return err
	}

	store, cfg, err := openConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.IsIgnored(port) {
		fmt.Fprintf(cmd.OutOrStdout(), "Port %d is already ignored\n", port)
		return nil
	}

	cfg.AddIgnored(port)
	if err := store.Save(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Ignoring port %d\n", port)
	return nil
}

func runIgnoreRm(cmd *cobra.Command, args []string) error {
	port, err := parsePort(args[0])
	if err != nil {
		return err
	}

	store, cfg, err := openConfig(cmd)
	if err != nil {
		return err
	}
	if !cfg.IsIgnored(port) {
		return fmt.Errorf("port %d is not ignored", port)
	}

	cfg.RemoveIgnored(port)
	if err := store.Save(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "No longer ignoring port %d\n", port)
	return nil
}

func runIgnoreList(cmd *cobra.Command, args []string) error {
	_, cfg, err := openConfig(cmd)
	if err != nil {
		return err
	}

	ports := append([]int{}, cfg.IgnoredPorts...)
	sort.Ints(ports)

	out := cmd.OutOrStdout()
	if jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(ports)
	}

	if len(ports) == 0 {
		fmt.Fprintln(out, "No ignored ports")
		return nil
	}
	for _, p := range ports {
		fmt.Fprintln(out, p)
	}
	return nil
}
