package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"tapo-cli/internal/client"
)

var alarmName string

var alarmsCmd = &cobra.Command{
	Use:   "alarms",
	Short: "Control the camera siren and alarm LED",
}

var alarmsTriggerCmd = &cobra.Command{
	Use:   "trigger",
	Short: "Start the manual alarm (siren and LED)",
	Run: func(cmd *cobra.Command, args []string) {
		device := deviceByName(alarmName)

		api := client.New(client.ClientConfig{
			Host:     device.Host,
			Username: device.Username,
			Password: device.Password,
		})

		if err := api.TriggerManualAlarm(true); err != nil {
			fmt.Fprintf(os.Stderr, "Error triggering alarm: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Alarm started on %s. Stop it with 'tapo-cli alarms stop --name %q'.\n", device.Name, device.Name)
	},
}

var alarmsStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the manual alarm",
	Run: func(cmd *cobra.Command, args []string) {
		device := deviceByName(alarmName)

		api := client.New(client.ClientConfig{
			Host:     device.Host,
			Username: device.Username,
			Password: device.Password,
		})

		if err := api.TriggerManualAlarm(false); err != nil {
			fmt.Fprintf(os.Stderr, "Error stopping alarm: %v\n", err)
			os.Exit(1)
		}

		fmt.Println("Alarm stopped.")
	},
}

var alarmsStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the alarm configuration of a camera",
	Run: func(cmd *cobra.Command, args []string) {
		device := deviceByName(alarmName)

		api := client.New(client.ClientConfig{
			Host:     device.Host,
			Username: device.Username,
			Password: device.Password,
		})

		info, err := api.GetAlarmInfo()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error fetching alarm status: %v\n", err)
			os.Exit(1)
		}

		mode := strings.Join(info.AlarmMode, ", ")
		if mode == "" {
			mode = "none"
		}
		fmt.Printf("Alarm enabled: %s\nAlarm mode: %s\n", info.Enabled, mode)
	},
}

func init() {
	rootCmd.AddCommand(alarmsCmd)
	alarmsCmd.AddCommand(alarmsTriggerCmd)
	alarmsCmd.AddCommand(alarmsStopCmd)
	alarmsCmd.AddCommand(alarmsStatusCmd)

	alarmsCmd.PersistentFlags().StringVar(&alarmName, "name", "", "Configured device name")
	_ = alarmsCmd.MarkPersistentFlagRequired("name")
}
