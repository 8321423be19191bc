package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/doorwarden/doorwarden/internal/config"
	"github.com/doorwarden/doorwarden/internal/web"
)

const shutdownTimeout = 30 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the dashboard server without the gateway loop",
	Long: `Start only the dashboard API.
Use this on a machine that reads the security log written by a gateway
running elsewhere, or to inspect historical events.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().Int("port", 0, "Port to listen on (0 = from config)")
	serveCmd.Flags().String("host", "", "Host to bind to (empty = from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Load()

	port := mustGetInt(cmd, "port")
	if port == 0 {
		port = cfg.Web.Port
	}
	host := mustGetString(cmd, "host")
	if host == "" {
		host = cfg.Web.Host
	}

	events, _, closeSink, err := openEventSink(context.Background(), cfg)
	if err != nil {
		return err
	}
	defer closeSink()

	server := web.NewServer(events, host, port, cfg.Evidence.LocalDir)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		fmt.Println("\nShutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			fmt.Printf("Error during shutdown: %v\n", err)
		}
	}()

	fmt.Printf("Starting dashboard on http://%s:%d\n", host, port)
	fmt.Println("Press Ctrl+C to stop")

	if err := server.Start(); err != nil {
		return fmt.Errorf("starting server: %w", err)
	}
	return nil
}
