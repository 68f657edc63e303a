package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"

	"switchbot-mcp/internal/config"
	"switchbot-mcp/internal/events"
	"switchbot-mcp/internal/logging"
	"switchbot-mcp/internal/mcpserver"
	"switchbot-mcp/internal/registry"
	"switchbot-mcp/internal/switchbot"
	"switchbot-mcp/internal/tools"
)

var flags struct {
	http    bool
	port    int
	verbose bool
	debug   bool
}

var rootCmd = &cobra.Command{
	Use:           "switchbot-mcp",
	Short:         "Serve SwitchBot devices and scenes as MCP tools",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintln(cmd.OutOrStdout(), Version)
	},
}

func init() {
	rootCmd.Flags().BoolVar(&flags.http, "http", false, "serve streamable HTTP on /mcp instead of stdio")
	rootCmd.Flags().IntVar(&flags.port, "port", -1, "HTTP port (default: $PORT, or a free port)")
	rootCmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "log at info level")
	rootCmd.PersistentFlags().BoolVar(&flags.debug, "debug", false, "log at debug level, including every API request")
	rootCmd.AddCommand(versionCmd)
}

func run(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log, closer := logging.New(logging.Options{
		Verbose: flags.verbose,
		Debug:   flags.debug,
		File:    cfg.LogFile,
	})
	defer closer.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("starting", "version", Version, "baseURL", cfg.BaseURL, "mqtt", cfg.MQTT.Enabled())

	sink, closeSink := connectEvents(cfg.MQTT, log.WithName("events"))
	defer closeSink()

	client := switchbot.NewClient(cfg.Token, cfg.Secret,
		switchbot.WithBaseURL(cfg.BaseURL),
		switchbot.WithHTTPClient(newHTTPClient(cfg)),
		switchbot.WithLogger(log.WithName("client")),
	)

	reg := registry.New(client,
		registry.WithLogger(log.WithName("registry")),
		registry.WithOnRefresh(func(ctx context.Context, snap registry.Snapshot) {
			if err := sink.PublishInventory(ctx, events.NewInventory(snap, time.Now())); err != nil {
				log.WithName("events").Error(err, "failed to publish inventory")
			}
		}),
	)

	handlers := tools.New(client, reg, sink, log.WithName("tools"))
	srv := mcpserver.New(handlers, Version, log.WithName("mcp"))

	if !flags.http {
		return mcpserver.ServeStdio(ctx, srv, os.Stdin, os.Stdout)
	}

	port := cfg.Port
	if flags.port >= 0 {
		port = flags.port
	}
	return mcpserver.ServeHTTP(ctx, port, mcpserver.Router(srv), log.WithName("http"))
}

// connectEvents returns the MQTT sink when a broker is configured. A broker
// that cannot be reached is logged and events are dropped.
func connectEvents(cfg config.MQTTConfig, log logr.Logger) (events.Sink, func()) {
	if !cfg.Enabled() {
		return events.Nop{}, func() {}
	}

	p, err := events.Connect(events.Options{
		Broker:      cfg.Broker,
		ClientID:    cfg.ClientID,
		Username:    cfg.Username,
		Password:    cfg.Password,
		TopicPrefix: cfg.TopicPrefix,
	}, log)
	if err != nil {
		log.Error(err, "MQTT disabled", "broker", cfg.Broker)
		return events.Nop{}, func() {}
	}
	return p, p.Close
}

func newHTTPClient(cfg *config.Config) *http.Client {
	return &http.Client{Timeout: cfg.HTTPTimeout}
}
