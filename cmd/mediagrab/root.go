package main

import (
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

var serverURL string

var rootCmd = &cobra.Command{
	Use:   "mediagrab",
	Short: "Download media by URL into an organized library",
	Long: `mediagrab - download videos, audio and pictures by URL

Requests arrive over HTTP or from a RabbitMQ queue. Each one is fetched,
filed under <download-dir>/<category>/<channel or artist>/ and, when Plex
is configured, followed by a library refresh.

Run 'mediagrab serve' to start the service.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8000", "Server URL for client commands")

	rootCmd.Version = version
	rootCmd.SetVersionTemplate("mediagrab {{.Version}}\n")
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("mediagrab %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
