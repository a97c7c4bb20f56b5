package cli

import (
	"context"
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/BruksfildServices01/barber-booking/internal/config"
	dbpkg "github.com/BruksfildServices01/barber-booking/internal/db"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/infra/repository"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

func NewServicesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "services",
		Short: "Service catalog management",
	}
	cmd.AddCommand(newServicesAddCmd())
	return cmd
}

func newServicesAddCmd() *cobra.Command {
	var svc models.Service

	c := &cobra.Command{
		Use:   "add",
		Short: "Register a bookable service",
		RunE: func(cmd *cobra.Command, args []string) error {
			if svc.DurationMin <= 0 {
				return errors.New("--duration must be positive")
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			hours, err := domain.ParseOperatingHours(cfg.OpenTime, cfg.CloseTime)
			if err != nil {
				return err
			}
			if _, err := hours.WithOverride(svc.OpenTime, svc.CloseTime); err != nil {
				return err
			}
			if err := requirePostgres(cfg, "services add"); err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 20*time.Second)
			defer cancel()

			db, err := dbpkg.NewDB(cfg)
			if err != nil {
				return err
			}
			defer dbpkg.Close(db)

			if err := repository.NewServiceGormRepository(db).Create(ctx, &svc); err != nil {
				return err
			}
			cmd.Println("created service:", svc.ID)
			return nil
		},
	}
	c.Flags().StringVar(&svc.ProviderID, "provider", "", "provider id")
	c.Flags().StringVar(&svc.Name, "name", "", "service name")
	c.Flags().StringVar(&svc.Description, "description", "", "description")
	c.Flags().IntVar(&svc.DurationMin, "duration", 30, "duration in minutes (slot interval)")
	c.Flags().Float64Var(&svc.Price, "price", 0, "price")
	c.Flags().StringVar(&svc.OpenTime, "open", "", "opening time override (HH:MM)")
	c.Flags().StringVar(&svc.CloseTime, "close", "", "closing time override (HH:MM)")
	_ = c.MarkFlagRequired("provider")
	_ = c.MarkFlagRequired("name")
	return c
}
