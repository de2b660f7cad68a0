package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Parse every definition and report errors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := loadSnapshot()
			if err != nil {
				return fmt.Errorf("definitions invalid:\n%w", err)
			}
			fmt.Printf("ok: %d calendars, %d jobs\n",
				len(snap.CalendarNames()), len(snap.JobNames()))
			return nil
		},
	}
}
