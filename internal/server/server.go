package server

import (
	"context"
	"errors"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"tapo-cli/internal/camera"
	"tapo-cli/internal/client"
	"tapo-cli/internal/config"
)

// CameraServer owns the camera manager. One instance exists per process;
// commands obtain it through GetInstance.
type CameraServer struct {
	manager   camera.Manager
	startedAt time.Time
}

var (
	instance     *CameraServer
	instanceErr  error
	instanceOnce sync.Once
)

// GetInstance returns the process-wide camera server, creating and starting
// it on the first call. Subsequent calls return the same instance (or the
// same initialization error) without re-initializing anything.
func GetInstance(ctx context.Context) (*CameraServer, error) {
	instanceOnce.Do(func() {
		instance, instanceErr = newFromConfig(ctx)
	})
	return instance, instanceErr
}

// newFromConfig builds a server from the configured device list and runs
// the manager's initial probe round.
func newFromConfig(ctx context.Context) (*CameraServer, error) {
	configured, err := config.Devices()
	if err != nil {
		return nil, err
	}

	devices := make([]camera.Device, 0, len(configured))
	for _, d := range configured {
		devices = append(devices, camera.Device{
			Name:     d.Name,
			Host:     d.Host,
			Username: d.Username,
			Password: d.Password,
			Model:    d.Model,
		})
	}

	prober := client.NewProber()
	manager := camera.NewManager(prober, prober, devices)

	srv := New(manager)
	if err := srv.Start(ctx); err != nil {
		return nil, err
	}

	log.WithField("cameras", len(devices)).Debug("camera server initialised")
	return srv, nil
}

// New creates a server around an existing manager. Most callers want
// GetInstance instead.
func New(manager camera.Manager) *CameraServer {
	return &CameraServer{manager: manager}
}

// Start starts the underlying manager.
func (s *CameraServer) Start(ctx context.Context) error {
	if err := s.manager.Start(ctx); err != nil {
		return err
	}
	s.startedAt = time.Now()
	return nil
}

// Stop stops the underlying manager.
func (s *CameraServer) Stop(ctx context.Context) error {
	return s.manager.Stop(ctx)
}

// Manager exposes the camera manager collaborator.
func (s *CameraServer) Manager() camera.Manager {
	return s.manager
}

// ListCameras returns the current inventory as records, in manager order.
func (s *CameraServer) ListCameras(ctx context.Context) ([]camera.Record, error) {
	if s.manager == nil {
		return nil, errors.New("camera manager not initialised")
	}
	return s.manager.ListCameras(ctx)
}

// Uptime reports how long the server has been running.
func (s *CameraServer) Uptime() time.Duration {
	if s.startedAt.IsZero() {
		return 0
	}
	return time.Since(s.startedAt)
}
