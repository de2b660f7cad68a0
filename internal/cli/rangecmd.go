package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kinesin-ca/flexcal/pkg/calendar"
)

func newRangeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "range <calendar> <from> <to>",
		Short: "List a calendar's valid dates in an inclusive range",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := loadSnapshot(); err != nil {
				return err
			}
			from, err := calendar.ParseDate(args[1])
			if err != nil {
				return err
			}
			to, err := calendar.ParseDate(args[2])
			if err != nil {
				return err
			}
			dates, err := calendarEngine().ListBetween(cmd.Context(), args[0], from, to)
			if err != nil {
				return err
			}
			for _, d := range dates {
				fmt.Println(d)
			}
			return nil
		},
	}
}
