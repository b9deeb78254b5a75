package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vmunix/mediagrab/internal/media"
)

var getCmd = &cobra.Command{
	Use:   "get <url>",
	Short: "Download a URL through a running server",
	Long: `Ask a running server to download a URL and wait for the result.

Examples:
  mediagrab get https://www.youtube.com/watch?v=dQw4w9WgXcQ
  mediagrab get https://example.com/song --media-type audio
  mediagrab get https://example.com/cat.png -t picture`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mediaType, _ := cmd.Flags().GetString("media-type")
		resp, err := NewClient(serverURL).Download(media.Request{URL: args[0], MediaType: mediaType})
		if err != nil {
			return fmt.Errorf("download failed: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Saved %s: %s\n", resp.MediaType, resp.Path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(getCmd)
	getCmd.Flags().StringP("media-type", "t", "", "Media type: video, audio or picture (default video)")
}
