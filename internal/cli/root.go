package cli

import (
	"github.com/spf13/cobra"
)

func NewRoot() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "booking",
		Short:         "Slot allocation and booking lifecycle engine",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewSlotsCmd())
	cmd.AddCommand(NewPurgeCmd())
	cmd.AddCommand(NewServicesCmd())
	return cmd
}
