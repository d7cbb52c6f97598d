package camera

import (
	"context"
	"errors"
	"time"
)

// Status represents a camera's operational state.
type Status string

const (
	StatusOnline  Status = "online"  // camera answered the last probe
	StatusOffline Status = "offline" // camera did not answer
	StatusError   Status = "error"   // camera answered but rejected us
	StatusUnknown Status = "unknown" // camera has not been probed yet
)

// ErrRejected is returned by a Prober when the device was reachable but
// refused the request (bad credentials, unsupported firmware).
var ErrRejected = errors.New("rejected by device")

// Camera is one managed camera.
type Camera struct {
	ID       string    // unique identifier assigned by the manager
	Name     string    // display name (device alias, or configured name)
	Host     string    // IP/hostname on the LAN
	Model    string    // e.g. "Tapo C210"
	Firmware string    // software version reported by the device
	MAC      string    // hardware address reported by the device
	Status   Status    // current state
	LastSeen time.Time // last successful probe
}

// Device is a configured camera endpoint before it has been probed.
type Device struct {
	Name     string
	Host     string
	Username string
	Password string
	Model    string
}

// Identity is what a probe learned about a device.
type Identity struct {
	Name     string
	Model    string
	Firmware string
	MAC      string
}

// Prober abstracts the device-side call the manager needs to check a
// camera's health and identity.
type Prober interface {
	Probe(ctx context.Context, device Device) (*Identity, error)
}

// Controller abstracts the device-side call the manager needs to start
// and stop capture on a camera.
type Controller interface {
	SetCapture(ctx context.Context, device Device, enabled bool) error
}

// Manager owns the camera inventory.
type Manager interface {
	// Start begins managing: probes all configured cameras once and,
	// when auto refresh is enabled, starts the background refresh loop.
	Start(ctx context.Context) error

	// Stop halts the background refresh loop and clears the inventory.
	Stop(ctx context.Context) error

	// Cameras returns a snapshot of the managed cameras in the order
	// they were added.
	Cameras() []Camera

	// Camera returns the camera with the given ID.
	Camera(id string) (*Camera, bool)

	// ListCameras renders the inventory as loosely-typed records, in the
	// order the cameras were added.
	ListCameras(ctx context.Context) ([]Record, error)

	// AddDevice probes a device and adds it to the inventory.
	AddDevice(ctx context.Context, device Device) (*Camera, error)

	// RemoveCamera removes a camera from the inventory.
	RemoveCamera(ctx context.Context, id string) error

	// StartCamera enables capture on the camera with the given ID.
	StartCamera(ctx context.Context, id string) error

	// StopCamera disables capture on the camera with the given ID. The
	// camera stays in the inventory and keeps answering probes.
	StopCamera(ctx context.Context, id string) error

	// Refresh re-probes every managed camera and updates statuses.
	Refresh(ctx context.Context) error
}
