package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kinesin-ca/flexcal/pkg/calendar"
)

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <calendar> <date>",
		Short: "Report whether a date is valid on a calendar",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := loadSnapshot(); err != nil {
				return err
			}
			d, err := calendar.ParseDate(args[1])
			if err != nil {
				return err
			}
			ok, err := calendarEngine().Contains(cmd.Context(), args[0], d)
			if err != nil {
				return err
			}
			if ok {
				fmt.Printf("%s is valid on %s\n", d, args[0])
			} else {
				fmt.Printf("%s is not valid on %s\n", d, args[0])
			}
			return nil
		},
	}
}
