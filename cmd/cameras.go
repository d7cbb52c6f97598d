package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"tapo-cli/internal/camera"
	"tapo-cli/internal/client"
	"tapo-cli/internal/config"
	"tapo-cli/internal/server"
)

// Variables to hold flag values
var (
	snapshotName string
	snapshotFile string
	snapshotChan int
	captureName  string
)

// getServer acquires the shared camera server or exits.
func getServer(ctx context.Context) *server.CameraServer {
	srv, err := server.GetInstance(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialise camera server: %v\n", err)
		os.Exit(1)
	}
	return srv
}

// deviceByName finds a configured device, or exits with a hint.
func deviceByName(name string) config.Device {
	devices, err := config.Devices()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	for _, d := range devices {
		if d.Name == name {
			return d
		}
	}

	fmt.Fprintf(os.Stderr, "Error: no configured device named %q. Check the devices list in your config file.\n", name)
	os.Exit(1)
	return config.Device{}
}

// Parent Command
var camerasCmd = &cobra.Command{
	Use:   "cameras",
	Short: "Manage cameras",
	Long:  `List cameras, refresh their statuses, or take snapshots.`,
}

// List Command
var camerasListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all cameras",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		srv := getServer(ctx)

		printCameras(srv.Manager().Cameras())
	},
}

// Refresh Command
var camerasRefreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Re-probe every camera and list the updated statuses",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		srv := getServer(ctx)

		if err := srv.Manager().Refresh(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Error refreshing cameras: %v\n", err)
			os.Exit(1)
		}

		printCameras(srv.Manager().Cameras())
	},
}

// Snapshot Command
var camerasSnapshotCmd = &cobra.Command{
	Use:     "snapshot",
	Short:   "Take a JPEG snapshot from a camera",
	Example: `  tapo-cli cameras snapshot --name "Porch" --output "porch.jpg"`,
	Run: func(cmd *cobra.Command, args []string) {
		device := deviceByName(snapshotName)

		api := client.New(client.ClientConfig{
			Host:     device.Host,
			Username: device.Username,
			Password: device.Password,
		})

		fmt.Printf("Requesting snapshot from %s (%s) ...\n", device.Name, device.Host)

		imgData, err := api.GetSnapshot(snapshotChan)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting snapshot: %v\n", err)
			os.Exit(1)
		}

		if err := os.WriteFile(snapshotFile, imgData, 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing file: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Snapshot saved to %s\n", snapshotFile)
	},
}

// managedCamera resolves a camera by name or ID, or exits.
func managedCamera(srv *server.CameraServer, key string) camera.Camera {
	for _, cam := range srv.Manager().Cameras() {
		if cam.Name == key || cam.ID == key {
			return cam
		}
	}

	fmt.Fprintf(os.Stderr, "Error: no managed camera named %q. Run 'tapo-cli cameras list' to see the fleet.\n", key)
	os.Exit(1)
	return camera.Camera{}
}

// Start Command
var camerasStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start capture on a camera",
	Long:  `Disable the camera's privacy mask so it records again.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		srv := getServer(ctx)
		cam := managedCamera(srv, captureName)

		if err := srv.Manager().StartCamera(ctx, cam.ID); err != nil {
			fmt.Fprintf(os.Stderr, "Error starting camera: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Camera %s is capturing\n", cam.Name)
	},
}

// Stop Command
var camerasStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop capture on a camera",
	Long:  `Enable the camera's privacy mask. The camera stays online but records nothing.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		srv := getServer(ctx)
		cam := managedCamera(srv, captureName)

		if err := srv.Manager().StopCamera(ctx, cam.ID); err != nil {
			fmt.Fprintf(os.Stderr, "Error stopping camera: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Camera %s stopped capturing\n", cam.Name)
	},
}

// printCameras renders the fleet as a table, or JSON with --json.
func printCameras(cameras []camera.Camera) {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(cameras); err != nil {
			fmt.Fprintf(os.Stderr, "Error encoding JSON: %v\n", err)
			os.Exit(1)
		}
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tMODEL\tSTATUS\tHOST")
	fmt.Fprintln(w, "--\t----\t-----\t------\t----")

	for _, cam := range cameras {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			cam.ID,
			cam.Name,
			cam.Model,
			cam.Status,
			cam.Host,
		)
	}
	w.Flush()
}

func init() {
	// Register Parent
	rootCmd.AddCommand(camerasCmd)

	// Register Subcommands
	camerasCmd.AddCommand(camerasListCmd)
	camerasCmd.AddCommand(camerasRefreshCmd)
	camerasCmd.AddCommand(camerasSnapshotCmd)
	camerasCmd.AddCommand(camerasStartCmd)
	camerasCmd.AddCommand(camerasStopCmd)

	// Flags for Snapshot
	camerasSnapshotCmd.Flags().StringVar(&snapshotName, "name", "", "Configured device name")
	camerasSnapshotCmd.Flags().StringVar(&snapshotFile, "output", "snapshot.jpg", "Output filename")
	camerasSnapshotCmd.Flags().IntVar(&snapshotChan, "channel", 0, "Video channel")
	_ = camerasSnapshotCmd.MarkFlagRequired("name")

	// Flags for Start/Stop
	for _, c := range []*cobra.Command{camerasStartCmd, camerasStopCmd} {
		c.Flags().StringVar(&captureName, "name", "", "Managed camera name or ID")
		_ = c.MarkFlagRequired("name")
	}
}
