package client

import (
	"context"
	"fmt"
	"strings"

	"tapo-cli/internal/camera"
)

// Prober implements camera.Prober and camera.Controller on top of the
// device client. Each call performs a fresh login handshake.
type Prober struct{}

func NewProber() *Prober {
	return &Prober{}
}

func (p *Prober) Probe(ctx context.Context, device camera.Device) (*camera.Identity, error) {
	api := New(ClientConfig{
		Host:     device.Host,
		Username: device.Username,
		Password: device.Password,
	}).WithContext(ctx)

	info, err := api.GetDeviceInfo()
	if err != nil {
		// A device that answered but refused us is a credential or
		// firmware problem, not a connectivity one.
		if strings.Contains(err.Error(), "rejected by device") {
			return nil, fmt.Errorf("%w: %v", camera.ErrRejected, err)
		}
		return nil, err
	}

	return &camera.Identity{
		Name:     info.DeviceAlias,
		Model:    info.DeviceModel,
		Firmware: info.SwVersion,
		MAC:      info.MAC,
	}, nil
}

// SetCapture starts or stops capture on a device by toggling its privacy
// mask: mask off means the camera records, mask on means it does not.
func (p *Prober) SetCapture(ctx context.Context, device camera.Device, enabled bool) error {
	api := New(ClientConfig{
		Host:     device.Host,
		Username: device.Username,
		Password: device.Password,
	}).WithContext(ctx)

	if err := api.SetLensMask(!enabled); err != nil {
		if strings.Contains(err.Error(), "rejected by device") {
			return fmt.Errorf("%w: %v", camera.ErrRejected, err)
		}
		return err
	}

	return nil
}
