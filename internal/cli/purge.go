package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/BruksfildServices01/barber-booking/internal/config"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
	ucBooking "github.com/BruksfildServices01/barber-booking/internal/usecase/booking"
)

func NewPurgeCmd() *cobra.Command {
	var before string

	c := &cobra.Command{
		Use:   "purge",
		Short: "Delete cancelled bookings scheduled before a day",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := requirePostgres(cfg, "purge"); err != nil {
				return err
			}

			a, err := openApp(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer a.close()

			deps, err := a.useCaseDeps()
			if err != nil {
				return err
			}

			cutoff, err := timezone.ParseDate(before, deps.Settings.Location)
			if err != nil {
				return fmt.Errorf("invalid --before %q: %w", before, err)
			}

			n, err := ucBooking.NewPurgeCancelled(deps).Execute(cmd.Context(), cutoff)
			if err != nil {
				return err
			}
			cmd.Printf("purged %d cancelled bookings\n", n)
			return nil
		},
	}
	c.Flags().StringVar(&before, "before", "", "cutoff day (YYYY-MM-DD), exclusive")
	_ = c.MarkFlagRequired("before")
	return c
}
