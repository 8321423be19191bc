package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "doorwarden",
	Short: "A physical-access monitoring gateway with face recognition",
	Long: `Doorwarden turns a motion sensor, a camera and a face detection
service into an access monitor. On every motion trigger it captures a
frame, matches the detected faces against a set of known identities and
responds with a welcome beep or an alarm, recording every decision in
the security event log.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
}

func initConfig() {
	// .env file is optional, don't fail if not found
	_ = godotenv.Load()
}
