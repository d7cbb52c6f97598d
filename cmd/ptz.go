package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"tapo-cli/internal/client"
)

// Variables to hold flag values
var (
	ptzName   string
	ptzPan    int
	ptzTilt   int
	ptzPreset string
)

var ptzCmd = &cobra.Command{
	Use:   "ptz",
	Short: "Control pan/tilt on PTZ-capable cameras",
	Long:  `Move the camera by a relative step or recall a stored preset position.`,
}

var ptzMoveCmd = &cobra.Command{
	Use:     "move",
	Short:   "Pan/tilt the camera by a relative step",
	Example: `  tapo-cli ptz move --name "Porch" --pan 100 --tilt -50`,
	Run: func(cmd *cobra.Command, args []string) {
		device := deviceByName(ptzName)

		api := client.New(client.ClientConfig{
			Host:     device.Host,
			Username: device.Username,
			Password: device.Password,
		})

		if err := api.MoveStep(ptzPan, ptzTilt); err != nil {
			fmt.Fprintf(os.Stderr, "Error moving camera: %v\n", err)
			os.Exit(1)
		}

		fmt.Println("Success.")
	},
}

var ptzPresetCmd = &cobra.Command{
	Use:     "preset",
	Short:   "Recall a stored preset position",
	Example: `  tapo-cli ptz preset --name "Porch" --id 1`,
	Run: func(cmd *cobra.Command, args []string) {
		device := deviceByName(ptzName)

		api := client.New(client.ClientConfig{
			Host:     device.Host,
			Username: device.Username,
			Password: device.Password,
		})

		if err := api.GotoPreset(ptzPreset); err != nil {
			fmt.Fprintf(os.Stderr, "Error recalling preset: %v\n", err)
			os.Exit(1)
		}

		fmt.Println("Success.")
	},
}

func init() {
	rootCmd.AddCommand(ptzCmd)
	ptzCmd.AddCommand(ptzMoveCmd)
	ptzCmd.AddCommand(ptzPresetCmd)

	ptzCmd.PersistentFlags().StringVar(&ptzName, "name", "", "Configured device name")
	_ = ptzCmd.MarkPersistentFlagRequired("name")

	ptzMoveCmd.Flags().IntVar(&ptzPan, "pan", 0, "Horizontal step in tenths of a degree (positive = right)")
	ptzMoveCmd.Flags().IntVar(&ptzTilt, "tilt", 0, "Vertical step in tenths of a degree (positive = up)")

	ptzPresetCmd.Flags().StringVar(&ptzPreset, "id", "", "Preset ID to recall")
	_ = ptzPresetCmd.MarkFlagRequired("id")
}
