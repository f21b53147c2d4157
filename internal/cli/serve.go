package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/spf13/cobra"

	"smartcampus/internal/api"
	"smartcampus/internal/config"
	"smartcampus/internal/layout"
	"smartcampus/internal/occupancy"
	"smartcampus/internal/repository"
	"smartcampus/internal/scene"
	"smartcampus/internal/service"
)

const shutdownTimeout = 10 * time.Second

var padColors = map[layout.Kind]string{
	layout.KindCar:  "#607d8b",
	layout.KindMoto: "#8d6e63",
}

func serveCmd() *cobra.Command {
	var port string
	var accessLog bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the periodic occupancy refresh",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if port != "" {
				cfg.Port = port
			}
			return serve(cfg, accessLog)
		},
	}
	cmd.Flags().StringVar(&port, "port", "", "HTTP port (overrides PORT)")
	cmd.Flags().BoolVar(&accessLog, "access-log", true, "Write an access log to stdout")
	return cmd
}

func loadConfig() (*config.Config, error) {
	return config.Load(layoutFile)
}

func serve(cfg *config.Config, accessLog bool) error {
	if len(cfg.Sources) == 0 {
		log.Println("Warning: no occupancy sources configured, pads will render empty")
	}
	if cfg.AdminJWTSecret == "" {
		log.Println("Warning: ADMIN_JWT_SECRET not set, /admin endpoints will reject every request")
	}

	occSvc := service.NewOccupancyService(occupancy.NewClient(cfg.FetchTimeout), cfg.Sources)

	var history *repository.OccupancyRepository
	if cfg.DatabaseURL != "" {
		conn, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to open DB: %w", err)
		}
		defer conn.Close()
		if err := conn.Ping(); err != nil {
			return fmt.Errorf("failed to connect to DB: %w", err)
		}
		history = repository.NewOccupancyRepository(conn)
		if err := history.EnsureSchema(context.Background()); err != nil {
			return err
		}
		occSvc.SetRecorder(history)
	}

	alerts := service.NewAlertService(service.NewNotifiers(cfg.Alerts))
	if alerts.Enabled() {
		occSvc.SetObserver(alerts)
	}

	layoutSvc := service.NewLayoutService(cfg.Anchor, cfg.Pads)
	registry := scene.NewRegistry()
	for _, p := range layoutSvc.PadLayouts() {
		registry.Register(p.ID, padColors[p.Kind])
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.FetchTimeout)
	for _, res := range occSvc.RefreshAll(ctx) {
		if !res.OK {
			log.Printf("Initial refresh of %s failed: %s", res.Group, res.Error)
		}
	}
	cancel()

	sched := service.NewScheduler()
	var pruner service.HistoryPruner
	if history != nil {
		pruner = history
	}
	jobs := service.NewJobService(occSvc, pruner, cfg.HistoryRetention)
	if err := jobs.Register(sched, cfg.RefreshInterval); err != nil {
		return err
	}
	sched.Start()

	var reader api.HistoryReader
	if history != nil {
		reader = history
	}
	router := api.NewRouter(api.RouterDeps{
		Parking:        api.NewParkingHandler(layoutSvc, occSvc, registry),
		Scene:          api.NewSceneHandler(registry),
		Admin:          api.NewAdminHandler(reader, layoutSvc),
		AdminJWTSecret: cfg.AdminJWTSecret,
		CORSOrigins:    cfg.CORSOrigins,
		AccessLog:      accessLog,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server running on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	var serveErr error
	select {
	case <-quit:
		log.Println("Shutting down server...")
	case serveErr = <-errCh:
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()

	sched.Stop(shutdownCtx)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}
	alerts.Wait()
	return serveErr
}
