// Package report renders a one-shot, human-readable summary of the camera
// inventory held by the camera server.
package report

import (
	"context"
	"fmt"
	"io"

	"tapo-cli/internal/camera"
)

// Inventory is the slice of the camera server the reporter consumes.
type Inventory interface {
	ListCameras(ctx context.Context) ([]camera.Record, error)
}

// Reporter writes the camera summary to a single output stream. It holds
// no state between runs and performs no retries.
type Reporter struct {
	out io.Writer
}

func New(out io.Writer) *Reporter {
	return &Reporter{out: out}
}

// Run fetches the inventory once and prints a count header followed by one
// line per camera, in the order the inventory returned them:
//
//	Cameras in server: 2
//	  - Porch: online
//	  - Garage: offline
//
// A fetch failure propagates before anything is written.
func (r *Reporter) Run(ctx context.Context, inv Inventory) error {
	records, err := inv.ListCameras(ctx)
	if err != nil {
		return fmt.Errorf("listing cameras: %w", err)
	}

	fmt.Fprintf(r.out, "Cameras in server: %d\n", len(records))
	for _, rec := range records {
		fmt.Fprintf(r.out, "  - %s: %s\n", rec.Field("name"), rec.Field("status"))
	}

	return nil
}
