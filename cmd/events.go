package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"tapo-cli/internal/client"
	"tapo-cli/internal/config"
	"tapo-cli/pkg/models"
)

var (
	eventSince string
	eventName  string
)

// deviceEvent pairs an event with the device it came from, since each
// camera only knows its own log.
type deviceEvent struct {
	Device string            `json:"device"`
	Event  models.AlertEvent `json:"event"`
}

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Search detection events",
	Long:  `Search the on-device detection logs (motion, person, tamper) over a time range.`,
}

var eventsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List detection events from history",
	Run: func(cmd *cobra.Command, args []string) {
		devices, err := config.Devices()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		// Narrow to one device when --name is given.
		if eventName != "" {
			d := deviceByName(eventName)
			devices = []config.Device{d}
		}

		// Setup Time Range
		duration, err := time.ParseDuration(eventSince)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing duration: %v\n", err)
			os.Exit(1)
		}
		to := time.Now()
		from := to.Add(-duration)

		fmt.Printf("Searching %d cameras from %s to %s...\n", len(devices), from.Format("15:04"), to.Format("15:04"))

		// Aggregate Events
		var allEvents []deviceEvent
		for _, d := range devices {
			api := client.New(client.ClientConfig{
				Host:     d.Host,
				Username: d.Username,
				Password: d.Password,
			})

			evts, err := api.GetAlertEvents(from, to)
			if err != nil {
				fmt.Printf("Warning: Failed to query camera %s: %v\n", d.Name, err)
				continue
			}
			for _, e := range evts {
				allEvents = append(allEvents, deviceEvent{Device: d.Name, Event: e})
			}
		}

		// --- JSON OUTPUT ---
		if jsonOutput {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(allEvents); err != nil {
				fmt.Fprintf(os.Stderr, "Error encoding JSON: %v\n", err)
				os.Exit(1)
			}
			return
		}

		if len(allEvents) == 0 {
			fmt.Println("No events found in this time range.")
			return
		}

		// Print Table
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "TIMESTAMP\tTYPE\tCAMERA\tDURATION")
		fmt.Fprintln(w, "---------\t----\t------\t--------")

		for _, de := range allEvents {
			start := time.Unix(de.Event.StartTime, 0)
			duration := "-"
			if de.Event.EndTime > de.Event.StartTime {
				duration = (time.Duration(de.Event.EndTime-de.Event.StartTime) * time.Second).String()
			}

			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				start.Format("2006-01-02 15:04:05"),
				de.Event.Type,
				de.Device,
				duration,
			)
		}
		w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(eventsCmd)
	eventsCmd.AddCommand(eventsListCmd)

	eventsListCmd.Flags().StringVar(&eventSince, "since", "1h", "Look back duration (e.g. 30m, 1h, 24h)")
	eventsListCmd.Flags().StringVar(&eventName, "name", "", "Restrict to one configured device")
}
