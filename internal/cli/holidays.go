package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newHolidaysCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "holidays <calendar> <year>",
		Short: "List a calendar's resolved exclusion dates for a year",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := loadSnapshot(); err != nil {
				return err
			}
			year, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid year %q", args[1])
			}
			dates, err := calendarEngine().Holidays(cmd.Context(), args[0], year)
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
