package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/Emmanuel-Guerreiro/agente-consulta-examenes/services"
	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownGrace = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Expone el agente por HTTP JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		application, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer application.store.Close(context.Background())

		chat := services.NewChatService(application.sessions, application.orchestrator)

		port := application.cfg.HTTPPort
		if port == "" {
			port = ":8000"
		}
		server := &http.Server{
			Addr:    port,
			Handler: services.NewHTTPRouter(chat),
		}

		errCh := make(chan error, 1)
		go func() {
			logger.Info("Serving HTTP", zap.String("addr", port))
			errCh <- server.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		case <-ctx.Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		logger.Info("Shutting down HTTP server")
		return server.Shutdown(shutdownCtx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
