package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/biolens/biolens/internal/config"
	"github.com/biolens/biolens/internal/observability"
	"github.com/biolens/biolens/internal/server"
)

var (
	serverPort int
	serverHost string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP tool server",
	Long: `Start the HTTP tool server with graceful shutdown support.

Ctrl+C (SIGINT) or SIGTERM triggers a graceful shutdown: in-flight tool
calls are given the configured shutdown timeout to finish, then the process
exits.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Get()
		if cmd.Flags().Changed("port") {
			cfg.Server.Port = serverPort
		}
		if cmd.Flags().Changed("host") {
			cfg.Server.Host = serverHost
		}

		observability.InitServerLogger("biolens", cfg.Logging.Level)
		defer observability.Sync()
		logger := observability.ServerLogger

		logger.Info("initializing server",
			zap.String("version", versionInfo.Version),
			zap.String("upstream", cfg.Upstream.BaseURL),
			zap.Int("rate_limit", cfg.Upstream.RateLimit),
			zap.Duration("rate_window", cfg.Upstream.RateWindow))

		registry := newRegistry(logger)
		srv := server.New(cfg.Server, registry, logger, versionInfo.Version)

		errCh := make(chan error, 1)
		go func() {
			errCh <- srv.Start()
		}()

		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-errCh:
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		case sig := <-stop:
			logger.Info("received shutdown signal", zap.String("signal", sig.String()))
		}

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntVarP(&serverPort, "port", "p", 0, "server port (overrides config)")
	serveCmd.Flags().StringVar(&serverHost, "host", "", "server host (overrides config)")
}
