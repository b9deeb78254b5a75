package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show server status and running downloads",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := NewClient(serverURL).Status()
		if err != nil {
			return fmt.Errorf("status check failed: %w", err)
		}
		printStatus(cmd.OutOrStdout(), st, time.Now())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func printStatus(w io.Writer, st *StatusResponse, now time.Time) {
	fmt.Fprintf(w, "Server:    %s (%s)\n", st.Status, st.Version)
	fmt.Fprintf(w, "Plex:      %s\n", st.Plex)
	fmt.Fprintf(w, "Queue:     %s\n", st.Queue)
	fmt.Fprintf(w, "Completed: %d\n", st.Downloads.Completed)
	fmt.Fprintf(w, "Failed:    %d\n", st.Downloads.Failed)

	if len(st.Downloads.Active) == 0 {
		fmt.Fprintln(w, "\nNo active downloads")
		return
	}
	fmt.Fprintf(w, "\nActive downloads (%d):\n", len(st.Downloads.Active))
	for _, j := range st.Downloads.Active {
		fmt.Fprintf(w, "  %-8s  %-10s  %-7s  %s  %s\n",
			shortID(j.ID), j.Status, j.Type, formatAge(now.Sub(j.StartedAt)), j.URL)
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func formatAge(d time.Duration) string {
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	default:
		return fmt.Sprintf("%dh", int(d.Hours()))
	}
}
