package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check server status",
	Args:  cobra.NoArgs,
	RunE:  runStatusCmd,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatusCmd(cmd *cobra.Command, args []string) error {
	client := NewClient(serverURL)

	var result struct {
		Status string `json:"status"`
	}
	if err := client.get("/api/v1/status", &result); err != nil {
		return fmt.Errorf("server unreachable: %w", err)
	}

	if jsonOutput {
		printJSON(result)
		return nil
	}

	fmt.Printf("Server: %s (%s)\n", serverURL, result.Status)
	return nil
}
