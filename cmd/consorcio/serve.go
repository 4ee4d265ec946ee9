package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rgehrsitz/consorcio/internal/api"
	"github.com/rgehrsitz/consorcio/internal/config"
	"github.com/rgehrsitz/consorcio/internal/domain"
	"github.com/rgehrsitz/consorcio/internal/metrics"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve projections over an HTTP JSON API",
	Long: `Start the HTTP API. When --config is given its simulations are served
under /api/simulations; ad-hoc plans can always be posted to /api/projections.

Examples:
  consorcio serve --config plan.yaml
  consorcio serve --addr :9090 --origin https://app.example.com`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		configFile, _ := cmd.Flags().GetString("config")
		addr, _ := cmd.Flags().GetString("addr")
		origins, _ := cmd.Flags().GetStringSlice("origin")

		var cfg *domain.Configuration
		if configFile != "" {
			var err error
			cfg, err = config.NewInputParser().LoadFromFile(configFile)
			if err != nil {
				return err
			}
			log.Printf("Loaded %d simulations from %s", len(cfg.Simulations), configFile)
		}

		metrics.Init(prometheus.DefaultRegisterer)

		router := api.NewRouter(api.NewHandler(newEngine(cmd), cfg), api.Options{AllowedOrigins: origins})

		server := &http.Server{
			Addr:              addr,
			Handler:           router,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			log.Printf("Server starting on %s (API under /api, metrics under /metrics)", addr)
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		select {
		case err, ok := <-errCh:
			if ok {
				return fmt.Errorf("server failed: %w", err)
			}
			return nil
		case <-ctx.Done():
		}

		log.Println("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
		log.Println("Server stopped")
		return nil
	},
}

func init() {
	serveCmd.Flags().StringP("config", "c", "", "Configuration file whose simulations are served")
	serveCmd.Flags().String("addr", ":8080", "Listen address")
	serveCmd.Flags().StringSlice("origin", nil, "Allowed CORS origins (defaults to local dev servers)")
	serveCmd.Flags().Bool("debug", false, "Log every projected month")

	rootCmd.AddCommand(serveCmd)
}
