package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"tapo-cli/internal/report"
	"tapo-cli/internal/server"
)

// reportCmd is a diagnostic one-shot: acquire the shared camera server,
// ask its manager for the inventory, and print one line per camera.
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print a one-line-per-camera inventory summary",
	Long: `Acquires the camera server, fetches its current camera inventory, and
prints a count header followed by one "name: status" line per camera.
Useful as a quick smoke test of the configured fleet.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		srv, err := server.GetInstance(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if err := report.New(os.Stdout).Run(ctx, srv); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
}
