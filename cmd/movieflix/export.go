package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export cached movies as CSV",
	Long: `Export the cached movies as CSV.

Writes to stdout unless --output is given. The server may require an
admin key, passed with --key or the MOVIEFLIX_ADMIN_KEY variable.`,
	Args: cobra.NoArgs,
	RunE: runExportCmd,
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringP("output", "o", "", "Write CSV to a file instead of stdout")
	exportCmd.Flags().String("key", "", "Admin API key")
}

func runExportCmd(cmd *cobra.Command, args []string) error {
	output, _ := cmd.Flags().GetString("output")
	key, _ := cmd.Flags().GetString("key")
	if key == "" {
		key = os.Getenv("MOVIEFLIX_ADMIN_KEY")
	}

	out := os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer func() { _ = f.Close() }()
		out = f
	}

	client := NewClient(serverURL)
	if err := client.Export(key, out); err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	if output != "" {
		fmt.Fprintf(os.Stderr, "Exported to %s\n", output)
	}
	return nil
}
