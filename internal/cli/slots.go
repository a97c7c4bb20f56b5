package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/BruksfildServices01/barber-booking/internal/config"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
	ucBooking "github.com/BruksfildServices01/barber-booking/internal/usecase/booking"
)

func NewSlotsCmd() *cobra.Command {
	var serviceID, date string
	var onlyFree bool

	c := &cobra.Command{
		Use:   "slots",
		Short: "Print the slot grid of a service for a day",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := requirePostgres(cfg, "slots"); err != nil {
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

			day, err := timezone.ParseDate(date, deps.Settings.Location)
			if err != nil {
				return fmt.Errorf("invalid --date %q: %w", date, err)
			}

			uc := ucBooking.NewListSlots(deps, ucBooking.NewOccupiedSlots(deps))
			slots, err := uc.Execute(cmd.Context(), serviceID, day)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "TIME\tSTATUS")
			for _, s := range slots {
				if onlyFree && !s.Available {
					continue
				}
				status := "free"
				if !s.Available {
					status = "taken"
				}
				fmt.Fprintf(w, "%s\t%s\n", s.Start.In(deps.Settings.Location).Format("15:04"), status)
			}
			return w.Flush()
		},
	}
	c.Flags().StringVar(&serviceID, "service", "", "service id")
	c.Flags().StringVar(&date, "date", "", "day (YYYY-MM-DD)")
	c.Flags().BoolVar(&onlyFree, "free", false, "only free slots")
	_ = c.MarkFlagRequired("service")
	_ = c.MarkFlagRequired("date")
	return c
}
