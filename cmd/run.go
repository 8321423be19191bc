package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/doorwarden/doorwarden/internal/camera"
	"github.com/doorwarden/doorwarden/internal/config"
	"github.com/doorwarden/doorwarden/internal/gateway"
	"github.com/doorwarden/doorwarden/internal/hardware"
	"github.com/doorwarden/doorwarden/internal/vision"
	"github.com/doorwarden/doorwarden/internal/web"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the monitoring gateway",
	Long: `Start the monitoring gateway loop.
The gateway waits for motion triggers from the serial-attached sensor
(or simulated keyboard input), verifies each trigger with a camera
capture and face recognition, and reacts with hardware signals and
security log entries. The dashboard API is served alongside the loop.`,
	RunE: runGateway,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Bool("simulate", false, "Use keyboard input instead of the serial sensor")
	runCmd.Flags().Float64("tolerance", 0, "Override the face match tolerance (0 = from config)")
	runCmd.Flags().Bool("no-dashboard", false, "Do not serve the dashboard API")
}

// openHardware picks the trigger source and signal link. Serial problems
// degrade to simulated mode instead of failing the start.
func openHardware(cfg *config.Config, simulate bool) (hardware.Link, hardware.TriggerSource, io.Closer) {
	if !simulate && cfg.Serial.Port != "" {
		link, err := hardware.OpenSerial(cfg.Serial.Port, cfg.Serial.Baud)
		if err == nil {
			fmt.Printf("Serial sensor connected on %s\n", cfg.Serial.Port)
			return link, link, link
		}
		fmt.Printf("Warning: %v\n", err)
		fmt.Println("Falling back to simulated mode")
	}

	console := hardware.NewConsoleLink(os.Stdin, os.Stdout)
	return console, console, nil
}

// openDevice picks the camera implementation. A simulation directory takes
// precedence over a stream URL.
func openDevice(cfg *config.Config) (camera.Device, error) {
	if cfg.Camera.SimulateDir != "" {
		fmt.Printf("Using still images from %s as the camera\n", cfg.Camera.SimulateDir)
		return camera.NewFileDevice(cfg.Camera.SimulateDir), nil
	}
	if cfg.Camera.URL == "" {
		return nil, errors.New("CAMERA_URL or CAMERA_SIMULATE_DIR environment variable is required")
	}
	return camera.NewMJPEGDevice(cfg.Camera.URL), nil
}

func runGateway(cmd *cobra.Command, args []string) error {
	cfg := config.Load()

	simulate := mustGetBool(cmd, "simulate")
	noDashboard := mustGetBool(cmd, "no-dashboard")
	tolerance := mustGetFloat64(cmd, "tolerance")
	if tolerance <= 0 {
		tolerance = cfg.Faces.Tolerance
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	events, pool, closeSink, err := openEventSink(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeSink()

	known, err := loadIdentities(ctx, cfg, pool)
	if err != nil {
		return err
	}
	fmt.Printf("Loaded %d known identities\n", len(known))

	local, remote, err := openEvidence(cfg)
	if err != nil {
		return err
	}

	device, err := openDevice(cfg)
	if err != nil {
		return err
	}

	link, triggers, closer := openHardware(cfg, simulate)
	if closer != nil {
		defer closer.Close()
	}

	gw := gateway.New(gateway.Deps{
		Device:   device,
		Detector: vision.NewClient(cfg.Faces.ServiceURL),
		Known:    known,
		Link:     link,
		Triggers: triggers,
		Events:   events,
		Local:    local,
		Remote:   remote,
	}, gateway.Options{
		Capture: camera.Options{
			WarmupFrames:    cfg.Camera.WarmupFrames,
			PreviewDuration: cfg.Camera.PreviewTime,
		},
		Tolerance:     tolerance,
		DeviceTag:     cfg.Device,
		ResultDisplay: cfg.Camera.ResultDisplay,
	})

	if !noDashboard {
		server := web.NewServer(events, cfg.Web.Host, cfg.Web.Port, cfg.Evidence.LocalDir)
		go func() {
			if err := server.Start(); err != nil {
				fmt.Fprintf(os.Stderr, "dashboard server failed: %v\n", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			_ = server.Shutdown(shutdownCtx)
		}()
	}

	err = gw.Run(ctx)
	if errors.Is(err, context.Canceled) {
		fmt.Println("\nShutting down...")
		return nil
	}
	return err
}
