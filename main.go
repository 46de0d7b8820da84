package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cms-console/pkg/config"
	"cms-console/pkg/handlers"
	"cms-console/pkg/logger"
	"cms-console/pkg/middleware"
	"cms-console/pkg/services"
	"cms-console/pkg/views"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:          "cms-console",
		Short:        "Admin console for the content backend",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			config.Init()
			logger.Init(os.Stdout, config.LogLevel)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	}
	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the console web server",
			RunE: func(cmd *cobra.Command, args []string) error {
				return serve(cmd.Context())
			},
		},
		&cobra.Command{
			Use:   "ping",
			Short: "Check that the content backend answers",
			RunE: func(cmd *cobra.Command, args []string) error {
				client := services.NewClient(config.APIBaseURL, config.APITimeout, logger.Default())
				if err := client.Ping(cmd.Context()); err != nil {
					return fmt.Errorf("backend %s: %w", config.APIBaseURL, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "backend %s is up\n", config.APIBaseURL)
				return nil
			},
		},
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := root.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func serve(ctx context.Context) error {
	registry, err := config.LoadResources(config.ResourcesFile)
	if err != nil {
		return fmt.Errorf("load resources: %w", err)
	}

	log := logger.Default()
	client := services.NewClient(config.APIBaseURL, config.APITimeout, log)
	h := handlers.New(client, registry, config.ItemsPerPage, log)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Metrics())
	r.Use(middleware.Logger())

	// Session Setup
	store := cookie.NewStore([]byte(config.SessionSecret))
	store.Options(sessions.Options{Path: "/", HttpOnly: true, SameSite: http.SameSiteLaxMode, MaxAge: 86400 * 7})
	r.Use(sessions.Sessions(config.SessionName, store))

	r.SetHTMLTemplate(views.Templates())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	h.Register(r)

	srv := &http.Server{
		Addr:              config.AppAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Starting server", slog.String("addr", config.AppAddr), slog.String("backend", config.APIBaseURL))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info("Server exited")
	return nil
}
