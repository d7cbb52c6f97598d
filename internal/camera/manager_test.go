package camera

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

// mockProber answers probes and capture changes from an in-memory host
// table.
type mockProber struct {
	mu         sync.Mutex
	identities map[string]*Identity
	errs       map[string]error
	captures   map[string]bool
}

func newMockProber() *mockProber {
	return &mockProber{
		identities: make(map[string]*Identity),
		errs:       make(map[string]error),
		captures:   make(map[string]bool),
	}
}

func (p *mockProber) SetIdentity(host string, identity *Identity) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.identities[host] = identity
	delete(p.errs, host)
}

func (p *mockProber) SetError(host string, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.errs[host] = err
	delete(p.identities, host)
}

func (p *mockProber) Probe(ctx context.Context, device Device) (*Identity, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err, ok := p.errs[device.Host]; ok {
		return nil, err
	}
	if identity, ok := p.identities[device.Host]; ok {
		return identity, nil
	}
	return nil, fmt.Errorf("no route to host %s", device.Host)
}

func (p *mockProber) SetCapture(ctx context.Context, device Device, enabled bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err, ok := p.errs[device.Host]; ok {
		return err
	}
	if _, ok := p.identities[device.Host]; !ok {
		return fmt.Errorf("no route to host %s", device.Host)
	}

	p.captures[device.Host] = enabled
	return nil
}

func (p *mockProber) Capture(host string) (bool, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	enabled, ok := p.captures[host]
	return enabled, ok
}

func newTestManager(prober *mockProber, devices []Device) *DefaultManager {
	m := NewManager(prober, prober, devices)
	m.SetAutoRefresh(false)
	return m
}

func TestManager_Basic(t *testing.T) {
	ctx := context.Background()
	prober := newMockProber()
	prober.SetIdentity("10.0.0.1", &Identity{Name: "Porch", Model: "Tapo C210", Firmware: "1.3.9", MAC: "AA-BB-CC-00-11-22"})
	prober.SetIdentity("10.0.0.2", &Identity{Name: "Garage", Model: "Tapo C100"})

	manager := newTestManager(prober, []Device{
		{Name: "porch", Host: "10.0.0.1"},
		{Name: "garage", Host: "10.0.0.2"},
	})

	if err := manager.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer func() { _ = manager.Stop(ctx) }()

	cameras := manager.Cameras()
	if len(cameras) != 2 {
		t.Fatalf("Expected 2 cameras, got %d", len(cameras))
	}

	for _, cam := range cameras {
		if cam.Status != StatusOnline {
			t.Errorf("Expected camera %s to be online, got %s", cam.ID, cam.Status)
		}
		if cam.LastSeen.IsZero() {
			t.Errorf("Expected camera %s LastSeen to be set", cam.ID)
		}
	}

	// Identity from the probe overrides the configured name.
	if cameras[0].Name != "Porch" {
		t.Errorf("Expected first camera name Porch, got %s", cameras[0].Name)
	}
	if cameras[0].Firmware != "1.3.9" {
		t.Errorf("Expected firmware 1.3.9, got %s", cameras[0].Firmware)
	}
}

func TestManager_StatusTransitions(t *testing.T) {
	ctx := context.Background()
	prober := newMockProber()
	prober.SetIdentity("10.0.0.1", &Identity{Name: "Porch"})
	prober.SetError("10.0.0.2", errors.New("connection timed out"))
	prober.SetError("10.0.0.3", fmt.Errorf("%w: bad credentials", ErrRejected))

	manager := newTestManager(prober, []Device{
		{Name: "up", Host: "10.0.0.1"},
		{Name: "down", Host: "10.0.0.2"},
		{Name: "locked", Host: "10.0.0.3"},
	})

	if err := manager.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer func() { _ = manager.Stop(ctx) }()

	cameras := manager.Cameras()
	if len(cameras) != 3 {
		t.Fatalf("Expected 3 cameras, got %d", len(cameras))
	}

	wantStatus := []Status{StatusOnline, StatusOffline, StatusError}
	for i, cam := range cameras {
		if cam.Status != wantStatus[i] {
			t.Errorf("Camera %d: expected status %s, got %s", i, wantStatus[i], cam.Status)
		}
	}

	// Camera comes back: next refresh flips it online.
	prober.SetIdentity("10.0.0.2", &Identity{Name: "Garage"})
	if err := manager.Refresh(ctx); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}

	cameras = manager.Cameras()
	if cameras[1].Status != StatusOnline {
		t.Errorf("Expected recovered camera to be online, got %s", cameras[1].Status)
	}
}

func TestManager_AddRemoveDevice(t *testing.T) {
	ctx := context.Background()
	prober := newMockProber()

	manager := newTestManager(prober, nil)

	if err := manager.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer func() { _ = manager.Stop(ctx) }()

	if got := len(manager.Cameras()); got != 0 {
		t.Fatalf("Expected 0 cameras initially, got %d", got)
	}

	prober.SetIdentity("10.0.0.1", &Identity{Name: "Porch", Model: "Tapo C210"})
	cam, err := manager.AddDevice(ctx, Device{Name: "porch", Host: "10.0.0.1"})
	if err != nil {
		t.Fatalf("AddDevice failed: %v", err)
	}

	if cam.ID == "" {
		t.Error("Expected camera ID to be set")
	}
	if cam.Status != StatusOnline {
		t.Errorf("Expected added camera to be online, got %s", cam.Status)
	}

	retrieved, found := manager.Camera(cam.ID)
	if !found {
		t.Fatal("Camera not found by ID")
	}
	if retrieved.Host != cam.Host {
		t.Errorf("Retrieved camera host mismatch: expected %s, got %s", cam.Host, retrieved.Host)
	}

	if err := manager.RemoveCamera(ctx, cam.ID); err != nil {
		t.Fatalf("RemoveCamera failed: %v", err)
	}

	if got := len(manager.Cameras()); got != 0 {
		t.Fatalf("Expected 0 cameras after removal, got %d", got)
	}
	if _, found := manager.Camera(cam.ID); found {
		t.Error("Camera should not be found after removal")
	}
}

func TestManager_ErrorCases(t *testing.T) {
	ctx := context.Background()
	prober := newMockProber()
	prober.SetIdentity("10.0.0.1", &Identity{Name: "Porch"})

	manager := newTestManager(prober, nil)

	if err := manager.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer func() { _ = manager.Stop(ctx) }()

	// Unreachable device cannot be added.
	if _, err := manager.AddDevice(ctx, Device{Name: "ghost", Host: "10.0.0.99"}); err == nil {
		t.Error("Expected error for unreachable device")
	}

	// Operations on unknown camera IDs fail.
	if err := manager.RemoveCamera(ctx, "non-existent-id"); err == nil {
		t.Error("Expected error for non-existent camera")
	}

	// Duplicate host cannot be added twice.
	if _, err := manager.AddDevice(ctx, Device{Name: "porch", Host: "10.0.0.1"}); err != nil {
		t.Fatalf("First AddDevice failed: %v", err)
	}
	if _, err := manager.AddDevice(ctx, Device{Name: "porch-2", Host: "10.0.0.1"}); err == nil {
		t.Error("Expected error for duplicate host")
	}
}

func TestManager_StartStopCamera(t *testing.T) {
	ctx := context.Background()
	prober := newMockProber()
	prober.SetIdentity("10.0.0.1", &Identity{Name: "Porch"})

	manager := newTestManager(prober, []Device{{Name: "porch", Host: "10.0.0.1"}})

	if err := manager.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer func() { _ = manager.Stop(ctx) }()

	id := manager.Cameras()[0].ID

	if err := manager.StopCamera(ctx, id); err != nil {
		t.Fatalf("StopCamera failed: %v", err)
	}
	if enabled, ok := prober.Capture("10.0.0.1"); !ok || enabled {
		t.Errorf("Expected capture disabled on device, got enabled=%v set=%v", enabled, ok)
	}

	// A stopped camera is still reachable and stays in the inventory.
	cam, found := manager.Camera(id)
	if !found {
		t.Fatal("Camera disappeared after StopCamera")
	}
	if cam.Status != StatusOnline {
		t.Errorf("Expected stopped camera to stay online, got %s", cam.Status)
	}

	if err := manager.StartCamera(ctx, id); err != nil {
		t.Fatalf("StartCamera failed: %v", err)
	}
	if enabled, ok := prober.Capture("10.0.0.1"); !ok || !enabled {
		t.Errorf("Expected capture enabled on device, got enabled=%v set=%v", enabled, ok)
	}

	// Unknown IDs and dead devices fail.
	if err := manager.StartCamera(ctx, "non-existent-id"); err == nil {
		t.Error("Expected error for non-existent camera")
	}
	prober.SetError("10.0.0.1", errors.New("connection timed out"))
	if err := manager.StopCamera(ctx, id); err == nil {
		t.Error("Expected error when device is unreachable")
	}
}

func TestManager_ListCameras(t *testing.T) {
	ctx := context.Background()
	prober := newMockProber()
	prober.SetIdentity("10.0.0.1", &Identity{Name: "Porch"})
	prober.SetError("10.0.0.2", errors.New("connection timed out"))

	manager := newTestManager(prober, []Device{
		{Name: "porch", Host: "10.0.0.1"},
		{Host: "10.0.0.2"}, // no configured name
	})

	if err := manager.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer func() { _ = manager.Stop(ctx) }()

	records, err := manager.ListCameras(ctx)
	if err != nil {
		t.Fatalf("ListCameras failed: %v", err)
	}

	if len(records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(records))
	}

	if got := records[0].Field("name"); got != "Porch" {
		t.Errorf("Expected first record name Porch, got %q", got)
	}
	if got := records[0].Field("status"); got != "online" {
		t.Errorf("Expected first record status online, got %q", got)
	}

	// The nameless camera falls back to the record default.
	if got := records[1].Field("name"); got != "unknown" {
		t.Errorf("Expected second record name to default to unknown, got %q", got)
	}
	if got := records[1].Field("status"); got != "offline" {
		t.Errorf("Expected second record status offline, got %q", got)
	}

	// Cancelled context aborts the listing.
	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := manager.ListCameras(cancelled); err == nil {
		t.Error("Expected error for cancelled context")
	}
}

func TestManager_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	prober := newMockProber()
	prober.SetIdentity("10.0.0.1", &Identity{Name: "Porch"})
	prober.SetIdentity("10.0.0.2", &Identity{Name: "Garage"})

	manager := newTestManager(prober, []Device{
		{Name: "porch", Host: "10.0.0.1"},
		{Name: "garage", Host: "10.0.0.2"},
	})

	if err := manager.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer func() { _ = manager.Stop(ctx) }()

	done := make(chan bool, 3)

	go func() {
		defer func() { done <- true }()
		for i := 0; i < 10; i++ {
			manager.Cameras()
			time.Sleep(1 * time.Millisecond)
		}
	}()

	go func() {
		defer func() { done <- true }()
		for i := 0; i < 10; i++ {
			_, _ = manager.ListCameras(ctx)
			time.Sleep(1 * time.Millisecond)
		}
	}()

	go func() {
		defer func() { done <- true }()
		for i := 0; i < 5; i++ {
			_ = manager.Refresh(ctx)
			time.Sleep(2 * time.Millisecond)
		}
	}()

	<-done
	<-done
	<-done

	if got := len(manager.Cameras()); got != 2 {
		t.Fatalf("Expected 2 cameras after concurrent access, got %d", got)
	}
}

func TestManager_BackgroundRefresh(t *testing.T) {
	ctx := context.Background()
	prober := newMockProber()
	prober.SetError("10.0.0.1", errors.New("connection timed out"))

	manager := NewManager(prober, prober, []Device{{Name: "porch", Host: "10.0.0.1"}})
	manager.SetRefreshInterval(10 * time.Millisecond)

	if err := manager.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer func() { _ = manager.Stop(ctx) }()

	if got := manager.Cameras()[0].Status; got != StatusOffline {
		t.Fatalf("Expected camera offline after initial refresh, got %s", got)
	}

	// The loop should pick up the recovery without an explicit Refresh.
	prober.SetIdentity("10.0.0.1", &Identity{Name: "Porch"})

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if manager.Cameras()[0].Status == StatusOnline {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("Background refresh never marked the camera online")
}
