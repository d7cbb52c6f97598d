package camera

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const defaultRefreshInterval = 60 * time.Second

// probeTimeout caps how long a single device probe may take. Tapo cameras
// on flaky Wi-Fi can otherwise stall a whole refresh round.
const probeTimeout = 10 * time.Second

// DefaultManager is the default Manager implementation.
type DefaultManager struct {
	prober     Prober
	controller Controller

	mu      sync.RWMutex
	entries map[string]*entry
	order   []string // camera IDs in insertion order

	// lifecycle
	stopCh chan struct{}
	wg     sync.WaitGroup

	autoRefresh     bool
	refreshInterval time.Duration
}

// entry pairs a camera with the device credentials needed to probe it.
type entry struct {
	camera *Camera
	device Device
}

// NewManager creates a manager seeded with the given devices. The devices
// are registered immediately with StatusUnknown; the first Refresh (run by
// Start) determines their real state.
func NewManager(prober Prober, controller Controller, devices []Device) *DefaultManager {
	m := &DefaultManager{
		prober:          prober,
		controller:      controller,
		entries:         make(map[string]*entry),
		order:           nil,
		stopCh:          make(chan struct{}),
		autoRefresh:     true,
		refreshInterval: defaultRefreshInterval,
	}

	for _, d := range devices {
		m.addEntry(d)
	}

	return m
}

// SetAutoRefresh enables or disables the background refresh loop.
// Must be called before Start.
func (m *DefaultManager) SetAutoRefresh(enabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.autoRefresh = enabled
}

// SetRefreshInterval changes the background refresh period.
// Must be called before Start.
func (m *DefaultManager) SetRefreshInterval(interval time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refreshInterval = interval
}

// Start probes the seeded cameras once, then begins the background
// refresh loop when auto refresh is enabled.
func (m *DefaultManager) Start(ctx context.Context) error {
	if err := m.Refresh(ctx); err != nil {
		return fmt.Errorf("initial refresh failed: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.autoRefresh {
		m.wg.Add(1)
		go m.refreshLoop(ctx)
	}

	return nil
}

// Stop halts the background loop and clears the inventory.
func (m *DefaultManager) Stop(ctx context.Context) error {
	m.mu.Lock()
	close(m.stopCh)
	m.mu.Unlock()

	// The refresh loop takes the lock itself, so wait outside it.
	m.wg.Wait()

	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries = make(map[string]*entry)
	m.order = nil
	m.stopCh = make(chan struct{})

	return nil
}

// Cameras returns a snapshot of the inventory in insertion order.
func (m *DefaultManager) Cameras() []Camera {
	m.mu.RLock()
	defer m.mu.RUnlock()

	cameras := make([]Camera, 0, len(m.order))
	for _, id := range m.order {
		cameras = append(cameras, *m.entries[id].camera)
	}

	return cameras
}

// Camera returns a copy of the camera with the given ID.
func (m *DefaultManager) Camera(id string) (*Camera, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, exists := m.entries[id]
	if !exists {
		return nil, false
	}

	result := *e.camera
	return &result, true
}

// ListCameras renders the inventory as records, preserving insertion order.
func (m *DefaultManager) ListCameras(ctx context.Context) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	records := make([]Record, 0, len(m.order))
	for _, id := range m.order {
		records = append(records, record(*m.entries[id].camera))
	}

	return records, nil
}

// AddDevice probes a device and, when it answers, adds it to the inventory.
func (m *DefaultManager) AddDevice(ctx context.Context, device Device) (*Camera, error) {
	if device.Host == "" {
		return nil, errors.New("device has no host")
	}

	m.mu.RLock()
	for _, e := range m.entries {
		if e.device.Host == device.Host {
			m.mu.RUnlock()
			return nil, fmt.Errorf("device %s is already managed", device.Host)
		}
	}
	m.mu.RUnlock()

	probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	identity, err := m.prober.Probe(probeCtx, device)
	if err != nil {
		return nil, fmt.Errorf("device %s did not answer: %w", device.Host, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	e := m.addEntry(device)
	m.applyIdentity(e, identity)

	result := *e.camera
	return &result, nil
}

// RemoveCamera removes a camera from the inventory.
func (m *DefaultManager) RemoveCamera(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.entries[id]; !exists {
		return fmt.Errorf("camera not found: %s", id)
	}

	delete(m.entries, id)
	for i, oid := range m.order {
		if oid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}

	return nil
}

// StartCamera enables capture on a camera and re-probes it so the
// inventory reflects the new state.
func (m *DefaultManager) StartCamera(ctx context.Context, id string) error {
	if err := m.setCapture(ctx, id, true); err != nil {
		return err
	}

	m.refreshOne(ctx, id)
	return nil
}

// StopCamera disables capture on a camera. The device stays reachable,
// so the camera keeps its inventory entry and status.
func (m *DefaultManager) StopCamera(ctx context.Context, id string) error {
	return m.setCapture(ctx, id, false)
}

func (m *DefaultManager) setCapture(ctx context.Context, id string, enabled bool) error {
	if m.controller == nil {
		return errors.New("no controller configured")
	}

	m.mu.RLock()
	e, exists := m.entries[id]
	if !exists {
		m.mu.RUnlock()
		return fmt.Errorf("camera not found: %s", id)
	}
	device := e.device
	m.mu.RUnlock()

	ctlCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	if err := m.controller.SetCapture(ctlCtx, device, enabled); err != nil {
		return fmt.Errorf("device %s refused capture change: %w", device.Host, err)
	}

	return nil
}

// Refresh probes every managed camera concurrently and updates statuses.
func (m *DefaultManager) Refresh(ctx context.Context) error {
	m.mu.RLock()
	ids := make([]string, len(m.order))
	copy(ids, m.order)
	m.mu.RUnlock()

	group, ctx := errgroup.WithContext(ctx)

	for _, id := range ids {
		id := id
		group.Go(func() error {
			m.refreshOne(ctx, id)
			// Probe failures are recorded as camera state, not
			// returned, so one dead camera never aborts the round.
			return nil
		})
	}

	return group.Wait()
}

// refreshOne probes a single camera and records the outcome.
func (m *DefaultManager) refreshOne(ctx context.Context, id string) {
	m.mu.RLock()
	e, exists := m.entries[id]
	if !exists {
		m.mu.RUnlock()
		return
	}
	device := e.device
	m.mu.RUnlock()

	probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	identity, err := m.prober.Probe(probeCtx, device)

	m.mu.Lock()
	defer m.mu.Unlock()

	// The camera may have been removed while we were probing.
	e, exists = m.entries[id]
	if !exists {
		return
	}

	if err != nil {
		if errors.Is(err, ErrRejected) {
			e.camera.Status = StatusError
		} else {
			e.camera.Status = StatusOffline
		}
		log.WithError(err).WithField("host", device.Host).Debug("camera probe failed")
		return
	}

	m.applyIdentity(e, identity)
}

// addEntry registers a device with StatusUnknown. Caller must hold the
// write lock (or be the constructor).
func (m *DefaultManager) addEntry(device Device) *entry {
	cam := &Camera{
		ID:     uuid.New().String(),
		Name:   device.Name,
		Host:   device.Host,
		Model:  device.Model,
		Status: StatusUnknown,
	}

	e := &entry{camera: cam, device: device}
	m.entries[cam.ID] = e
	m.order = append(m.order, cam.ID)

	return e
}

// applyIdentity records a successful probe. Caller must hold the write lock.
func (m *DefaultManager) applyIdentity(e *entry, identity *Identity) {
	e.camera.Status = StatusOnline
	e.camera.LastSeen = time.Now()

	if identity == nil {
		return
	}
	if identity.Name != "" {
		e.camera.Name = identity.Name
	}
	if identity.Model != "" {
		e.camera.Model = identity.Model
	}
	if identity.Firmware != "" {
		e.camera.Firmware = identity.Firmware
	}
	if identity.MAC != "" {
		e.camera.MAC = identity.MAC
	}
}

// refreshLoop re-probes the fleet on a fixed interval until Stop.
func (m *DefaultManager) refreshLoop(ctx context.Context) {
	defer m.wg.Done()

	m.mu.RLock()
	interval := m.refreshInterval
	stopCh := m.stopCh
	m.mu.RUnlock()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := m.Refresh(ctx); err != nil {
				log.WithError(err).Warn("background refresh failed")
			}
		}
	}
}
