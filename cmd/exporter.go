package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/kardianos/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"tapo-cli/internal/camera"
	"tapo-cli/internal/server"
)

// Variables to hold flag values
var (
	expPort       string
	serviceAction string // "install", "uninstall", "start", "stop"
)

// --- SERVICE WRAPPER ---

// program implements the kardianos/service interface
type program struct {
	exit   chan struct{}
	server *http.Server
}

func (p *program) Start(s service.Service) error {
	// Start should not block. Do the actual work async.
	p.exit = make(chan struct{})
	go p.run()
	return nil
}

func (p *program) run() {
	ctx := context.Background()

	// 1. Initialise the camera server from config
	log.Info("initialising camera server...")
	srv, err := server.GetInstance(ctx)
	if err != nil {
		log.WithError(err).Error("camera server initialisation failed")
		// Exit so the service manager attempts a restart.
		os.Exit(1)
	}

	// 2. Setup Prometheus
	registry := prometheus.NewRegistry()
	collector := &TapoCollector{Server: srv}
	registry.MustRegister(collector)

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	mux := http.NewServeMux()
	mux.Handle("/metrics", handler)

	addr := fmt.Sprintf(":%s", expPort)
	p.server = &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	log.WithField("addr", addr).Info("tapo exporter listening")

	// Blocking call to listen
	if err := p.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.WithError(err).Error("HTTP server error")
	}
}

func (p *program) Stop(s service.Service) error {
	// Stop should not block. Signal the app to stop.
	log.Info("stopping service...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if p.server != nil {
		if err := p.server.Shutdown(ctx); err != nil {
			log.WithError(err).Warn("server forced to shutdown")
		}
	}
	close(p.exit)
	return nil
}

// --- COLLECTOR LOGIC ---

type TapoCollector struct {
	Server *server.CameraServer
	Mutex  sync.Mutex
}

var (
	upDesc = prometheus.NewDesc(
		"tapo_up", "Whether the camera inventory was available to the exporter.", nil, nil,
	)
	scrapeDurationDesc = prometheus.NewDesc(
		"tapo_scrape_duration_seconds", "Time taken to collect the fleet metrics.", nil, nil,
	)
	cameraUpDesc = prometheus.NewDesc(
		"tapo_camera_up", "Camera connection status.", []string{"id", "name", "model", "host"}, nil,
	)
	cameraCountDesc = prometheus.NewDesc(
		"tapo_cameras_total", "Total cameras grouped by status.", []string{"status"}, nil,
	)
	cameraLastSeenDesc = prometheus.NewDesc(
		"tapo_camera_last_seen_timestamp_seconds", "Unix time of the last successful probe.", []string{"id", "name"}, nil,
	)
)

func (c *TapoCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- upDesc
	ch <- scrapeDurationDesc
	ch <- cameraUpDesc
	ch <- cameraCountDesc
	ch <- cameraLastSeenDesc
}

func (c *TapoCollector) Collect(ch chan<- prometheus.Metric) {
	c.Mutex.Lock()
	defer c.Mutex.Unlock()
	start := time.Now()
	success := 1.0

	// Scrapes read the manager's cached state. The background refresh
	// loop keeps it current, so a scrape never probes the devices.
	var cameras []camera.Camera
	if mgr := c.Server.Manager(); mgr != nil {
		cameras = mgr.Cameras()
	} else {
		success = 0.0
		log.Error("camera server has no manager")
	}

	statusCounts := make(map[string]float64)
	for _, cam := range cameras {
		isUp := 0.0
		if cam.Status == camera.StatusOnline {
			isUp = 1.0
		}

		host := cam.Host
		if host == "" {
			host = "unknown"
		}

		ch <- prometheus.MustNewConstMetric(cameraUpDesc, prometheus.GaugeValue, isUp, cam.ID, cam.Name, cam.Model, host)

		if !cam.LastSeen.IsZero() {
			ch <- prometheus.MustNewConstMetric(cameraLastSeenDesc, prometheus.GaugeValue, float64(cam.LastSeen.Unix()), cam.ID, cam.Name)
		}

		statusCounts[string(cam.Status)]++
	}
	for status, count := range statusCounts {
		ch <- prometheus.MustNewConstMetric(cameraCountDesc, prometheus.GaugeValue, count, status)
	}

	ch <- prometheus.MustNewConstMetric(upDesc, prometheus.GaugeValue, success)
	ch <- prometheus.MustNewConstMetric(scrapeDurationDesc, prometheus.GaugeValue, time.Since(start).Seconds())
}

// --- COMMAND ---

var exporterCmd = &cobra.Command{
	Use:   "exporter",
	Short: "Start Prometheus Exporter service",
	Long: `Starts a long-running HTTP server that exposes camera status metrics.
Can be installed as a system service.`,
	Run: func(cmd *cobra.Command, args []string) {
		// 1. Define Service Configuration
		svcConfig := &service.Config{
			Name:        "tapo-exporter",
			DisplayName: "Tapo Camera Prometheus Exporter",
			Description: "Exposes Tapo camera fleet metrics to Prometheus",
			// Arguments passed to the binary when run as a service
			Arguments: []string{
				"exporter",
				"--port", expPort,
			},
		}
		if cfgFile != "" {
			svcConfig.Arguments = append(svcConfig.Arguments, "--config", cfgFile)
		}

		prg := &program{}

		s, err := service.New(prg, svcConfig)
		if err != nil {
			log.Fatal(err)
		}

		// 2. Handle Service Control Actions (Install, Start, Stop, Uninstall)
		if serviceAction != "" {
			err = service.Control(s, serviceAction)
			if err != nil {
				log.Fatalf("Failed to %s service: %v", serviceAction, err)
			}
			fmt.Printf("Service action '%s' completed successfully.\n", serviceAction)
			return
		}

		// 3. Run the Service (Blocking)
		// This happens when the Service Manager starts the binary, OR when run interactively
		logger, err := s.Logger(nil)
		if err != nil {
			log.Fatal(err)
		}
		if err = s.Run(); err != nil {
			logger.Error(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(exporterCmd)
	exporterCmd.Flags().StringVar(&expPort, "port", "9101", "Port to listen on")

	// Service Control
	exporterCmd.Flags().StringVar(&serviceAction, "service", "", "Service action: install, uninstall, start, stop")
}
