package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	serveHost string
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the camera server with an HTTP API",
	Long: `Starts the camera server as a long-running process: probes the
configured cameras on an interval and exposes the inventory over HTTP
(/health, /api/status, /api/cameras).`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		srv := getServer(ctx)

		addr := fmt.Sprintf("%s:%d", serveHost, servePort)
		if err := srv.Serve(ctx, addr); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if err := srv.Stop(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Error stopping camera manager: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveHost, "host", "0.0.0.0", "Address to listen on")
	serveCmd.Flags().IntVar(&servePort, "port", 8088, "Port to listen on")
}
