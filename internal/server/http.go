package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"tapo-cli/pkg/models"
)

// Router builds the HTTP API exposed by `tapo-cli serve`.
func (s *CameraServer) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/health", s.handleHealth)
	router.GET("/api/status", s.handleStatus)
	router.GET("/api/cameras", s.handleCameras)

	return router
}

func (s *CameraServer) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, models.HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
	})
}

func (s *CameraServer) handleStatus(c *gin.Context) {
	c.JSON(http.StatusOK, models.StatusResponse{
		Status:    "running",
		Cameras:   len(s.manager.Cameras()),
		Uptime:    s.Uptime().Round(time.Second).String(),
		Timestamp: time.Now(),
	})
}

func (s *CameraServer) handleCameras(c *gin.Context) {
	managed := s.manager.Cameras()
	cameras := make([]models.CameraInfo, 0, len(managed))

	for _, cam := range managed {
		cameras = append(cameras, models.CameraInfo{
			ID:       cam.ID,
			Name:     cam.Name,
			Model:    cam.Model,
			Host:     cam.Host,
			MAC:      cam.MAC,
			Firmware: cam.Firmware,
			Status:   string(cam.Status),
			LastSeen: cam.LastSeen,
		})
	}

	c.JSON(http.StatusOK, models.CamerasResponse{Cameras: cameras})
}

// Serve runs the HTTP API until the context is cancelled or a shutdown
// signal arrives, then shuts down gracefully.
func (s *CameraServer) Serve(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:        addr,
		Handler:     s.Router(),
		ReadTimeout: 10 * time.Second,
	}

	shutdownCh := make(chan error, 1)

	go func() {
		log.WithField("addr", addr).Info("camera server listening")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			shutdownCh <- fmt.Errorf("server failed to start: %w", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-ctx.Done():
		log.Info("context cancelled")
	case sig := <-sigCh:
		log.WithField("signal", sig).Info("shutdown signal received")
	case err := <-shutdownCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("camera server stopped")
	return nil
}
