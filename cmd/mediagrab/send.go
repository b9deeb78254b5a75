package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vmunix/mediagrab/internal/config"
	"github.com/vmunix/mediagrab/internal/media"
	"github.com/vmunix/mediagrab/internal/queue"
)

const sendTimeout = 30 * time.Second

func newSendCmd() *cobra.Command {
	var (
		mediaType string
		cfgPath   string
		envFile   string
		rabbitURL string
		queueName string
	)
	cmd := &cobra.Command{
		Use:   "send <url>",
		Short: "Publish a download request to the queue",
		Long: `Publish a single download request to the configured RabbitMQ queue.

Useful for checking that a running consumer picks messages up.

Examples:
  mediagrab send https://www.youtube.com/watch?v=dQw4w9WgXcQ
  mediagrab send https://example.com/track --media-type audio`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := media.Request{URL: args[0], MediaType: mediaType}
			if err := req.Validate(); err != nil {
				return err
			}

			path, err := configPath(cfgPath)
			if err != nil {
				return err
			}
			var o config.Overrides
			if cmd.Flags().Changed("rabbitmq-url") {
				o.RabbitMQURL = &rabbitURL
			}
			if cmd.Flags().Changed("queue") {
				o.RabbitMQQueue = &queueName
			}
			cfg, err := config.Resolve(config.Options{Path: path, EnvFile: envFile, Overrides: o})
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}
			if !cfg.RabbitMQ.Enabled() {
				return fmt.Errorf("rabbitmq not configured (set RABBITMQ_URL or --rabbitmq-url)")
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), sendTimeout)
			defer cancel()
			if err := queue.Publish(ctx, cfg.RabbitMQ.URI(), cfg.RabbitMQ.Queue, req); err != nil {
				return fmt.Errorf("publish: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Sent %s (%s) to %s\n", req.URL, req.Type(), cfg.RabbitMQ.Queue)
			return nil
		},
	}
	cmd.Flags().StringVarP(&mediaType, "media-type", "t", "", "Media type: video, audio or picture (default video)")
	cmd.Flags().StringVar(&cfgPath, "config", "", "Config file (default: discovered)")
	cmd.Flags().StringVar(&envFile, "env-file", "", "Env file to load (default .env)")
	cmd.Flags().StringVar(&rabbitURL, "rabbitmq-url", "", "RabbitMQ URL")
	cmd.Flags().StringVar(&queueName, "queue", "", "Queue name")
	return cmd
}

func init() {
	rootCmd.AddCommand(newSendCmd())
}
