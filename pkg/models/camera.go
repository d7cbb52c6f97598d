package models

import "time"

// CamerasResponse wraps the /api/cameras payload served by `tapo-cli serve`.
type CamerasResponse struct {
	Cameras []CameraInfo `json:"cameras"`
}

// CameraInfo is the JSON view of a single managed camera.
type CameraInfo struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Model    string    `json:"model"`
	Host     string    `json:"host"`
	MAC      string    `json:"mac,omitempty"`
	Firmware string    `json:"firmware,omitempty"`
	Status   string    `json:"status"`
	LastSeen time.Time `json:"lastSeen"`
}

// StatusResponse is the /api/status payload.
type StatusResponse struct {
	Status    string    `json:"status"`
	Cameras   int       `json:"cameras"`
	Uptime    string    `json:"uptime"`
	Timestamp time.Time `json:"timestamp"`
}

// HealthResponse is the /health payload.
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}
