package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"tapo-cli/internal/client"
	"tapo-cli/internal/config"
)

// Variables to hold flag values
var (
	addName     string
	addHost     string
	addUser     string
	addPassword string
	addModel    string
)

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "Manage configured devices",
	Long:  `Add devices to the config file and verify they are reachable.`,
}

// Probe Command
var devicesProbeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Verify reachability and credentials of every configured device",
	Run: func(cmd *cobra.Command, args []string) {
		devices, err := config.Devices()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if len(devices) == 0 {
			fmt.Println("No devices configured. Add some with 'tapo-cli devices add'.")
			return
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "NAME\tHOST\tRESULT\tMODEL\tFIRMWARE")
		fmt.Fprintln(w, "----\t----\t------\t-----\t--------")

		failures := 0
		for _, d := range devices {
			api := client.New(client.ClientConfig{
				Host:     d.Host,
				Username: d.Username,
				Password: d.Password,
			})

			info, err := api.GetDeviceInfo()
			if err != nil {
				failures++
				fmt.Fprintf(w, "%s\t%s\tFAIL: %v\t\t\n", d.Name, d.Host, err)
				continue
			}

			fmt.Fprintf(w, "%s\t%s\tOK\t%s\t%s\n", d.Name, d.Host, info.DeviceModel, info.SwVersion)
		}
		w.Flush()

		if failures > 0 {
			fmt.Printf("\n%d of %d devices failed the probe.\n", failures, len(devices))
			os.Exit(1)
		}
	},
}

// Add Command
var devicesAddCmd = &cobra.Command{
	Use:     "add",
	Short:   "Add a device to the config file",
	Example: `  tapo-cli devices add --name "Porch" --host 192.168.1.50 --password secret`,
	Run: func(cmd *cobra.Command, args []string) {
		devices, err := config.Devices()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		for _, d := range devices {
			if d.Host == addHost {
				fmt.Fprintf(os.Stderr, "Error: a device with host %s is already configured (%q).\n", addHost, d.Name)
				os.Exit(1)
			}
		}

		devices = append(devices, config.Device{
			Name:     addName,
			Host:     addHost,
			Username: addUser,
			Password: addPassword,
			Model:    addModel,
		})

		if err := config.SaveDevices(devices); err != nil {
			fmt.Fprintf(os.Stderr, "Error saving config: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Device %q added. %d devices configured.\n", addName, len(devices))
	},
}

func init() {
	rootCmd.AddCommand(devicesCmd)
	devicesCmd.AddCommand(devicesProbeCmd)
	devicesCmd.AddCommand(devicesAddCmd)

	devicesAddCmd.Flags().StringVar(&addName, "name", "", "Display name for the device")
	devicesAddCmd.Flags().StringVar(&addHost, "host", "", "IP or hostname on the LAN")
	devicesAddCmd.Flags().StringVarP(&addUser, "username", "u", "admin", "Device username")
	devicesAddCmd.Flags().StringVarP(&addPassword, "password", "p", "", "TP-Link cloud account password")
	devicesAddCmd.Flags().StringVar(&addModel, "model", "", "Model hint (optional, filled in by probing)")
	_ = devicesAddCmd.MarkFlagRequired("name")
	_ = devicesAddCmd.MarkFlagRequired("host")
	_ = devicesAddCmd.MarkFlagRequired("password")
}
