package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/barber-booking/internal/config"
	dbpkg "github.com/BruksfildServices01/barber-booking/internal/db"
	"github.com/BruksfildServices01/barber-booking/internal/routes"
)

func NewServeCmd() *cobra.Command {
	var migrate bool

	c := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			a, err := openApp(ctx, cfg)
			if err != nil {
				return err
			}
			defer a.close()

			if migrate && a.db != nil {
				if err := dbpkg.Migrate(a.db); err != nil {
					return err
				}
			}

			if a.cfg.IsProduction() {
				gin.SetMode(gin.ReleaseMode)
			}

			r, err := routes.NewRouter(a.routerDeps())
			if err != nil {
				return err
			}

			return run(ctx, a, r)
		},
	}
	c.Flags().BoolVar(&migrate, "migrate", false, "run migrations before serving")
	return c
}

func run(ctx context.Context, a *app, h http.Handler) error {
	srv := &http.Server{
		Addr:    a.cfg.Addr(),
		Handler: h,
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Info("server running",
			zap.String("addr", srv.Addr),
			zap.String("storage", a.cfg.StorageDriver),
			zap.Bool("redis", a.cfg.RedisEnabled()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	a.log.Info("shutting down", zap.Duration("wait", a.cfg.ShutdownWait))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownWait)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func NewMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := requirePostgres(cfg, "migrate"); err != nil {
				return err
			}

			db, err := dbpkg.NewDB(cfg)
			if err != nil {
				return err
			}
			defer dbpkg.Close(db)

			if err := dbpkg.Migrate(db); err != nil {
				return err
			}
			cmd.Println("migrations applied")
			return nil
		},
	}
}
