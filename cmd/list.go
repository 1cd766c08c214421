package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/productdevbook/portwatch/internal/monitor"
	"github.com/spf13/cobra"
)

var workspaceFilter string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all listening ports",
	Long:  `Scan once and list all TCP ports in LISTEN state with their owning pane and workspace.`,
	RunE:  runList,
}

func init() {
	listCmd.Flags().StringVarP(&workspaceFilter, "workspace", "w", "", "Only show ports of this workspace")
}

func runList(cmd *cobra.Command, args []string) error {
	mon, _, err := setup(os.Stderr)
	if err != nil {
		return err
	}

	mon.ForceScan(cmd.Context())

	var ports []monitor.DetectedPort
	if workspaceFilter != "" {
		ports = mon.GetPortsByWorkspace(workspaceFilter)
	} else {
		ports = mon.GetAllPorts()
	}

	if len(ports) == 0 {
		if jsonOutput {
			fmt.Println("[]")
		} else {
			fmt.Println("No listening ports found.")
		}
		return nil
	}

	// Sort by port number
	sort.Slice(ports, func(i, j int) bool {
		return ports[i].Port < ports[j].Port
	})

	if jsonOutput {
		return printJSON(ports)
	}

	return printTable(ports)
}

func printJSON(ports []monitor.DetectedPort) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(ports)
}

func printTable(ports []monitor.DetectedPort) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PORT\tPID\tPROCESS\tPANE\tWORKSPACE\tADDRESS")
	fmt.Fprintln(w, "----\t---\t-------\t----\t---------\t-------")

	for _, p := range ports {
		workspace := p.WorkspaceID
		if workspace == "" {
			workspace = "-"
		}
		fmt.Fprintf(w, "%d\t%d\t%s\t%s\t%s\t%s\n", p.Port, p.PID, p.ProcessName, paneLabel(p.PaneID), workspace, p.Address)
	}

	return w.Flush()
}
