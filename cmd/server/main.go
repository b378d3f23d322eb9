package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/parthos/desktop/backend/internal/infrastructure/config"
	"github.com/parthos/desktop/backend/internal/infrastructure/server"
)

const version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:   "deskd",
	Short: "ParthOS desktop backend",
	Long: `deskd serves the ParthOS portfolio desktop: the window manager, the
per-window terminals and the generation panels, over HTTP and WebSocket.`,
	SilenceUsage: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP and WebSocket server",
	Long: `Start the HTTP and WebSocket server.

Settings come from the environment, then the TOML file named by --config
(or DESKD_CONFIG), then the flags below.`,
	RunE: runServe,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "deskd", version)
	},
}

var (
	servePort   string
	serveHost   string
	serveDev    bool
	serveConfig string
)

func init() {
	serveCmd.Flags().StringVarP(&servePort, "port", "p", "", "Server port (overrides PORT)")
	serveCmd.Flags().StringVar(&serveHost, "host", "", "Bind address (overrides HOST)")
	serveCmd.Flags().BoolVar(&serveDev, "dev", false, "Development logging")
	serveCmd.Flags().StringVarP(&serveConfig, "config", "c", "", "TOML config file")

	rootCmd.AddCommand(serveCmd, versionCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if serveConfig != "" {
		if err := cfg.LoadFile(serveConfig); err != nil {
			return err
		}
	}
	if servePort != "" {
		cfg.Server.Port = servePort
	}
	if serveHost != "" {
		cfg.Server.Host = serveHost
	}
	if serveDev {
		cfg.Logging.Development = true
		cfg.Logging.Level = "debug"
	}

	srv, err := server.NewServer(cfg)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return srv.Run(ctx)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
