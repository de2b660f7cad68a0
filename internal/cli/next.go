package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newNextCmd() *cobra.Command {
	var after string
	var count int

	cmd := &cobra.Command{
		Use:   "next <job>",
		Short: "Show a job's next run instant(s)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := loadSnapshot(); err != nil {
				return err
			}
			at := time.Now()
			if after != "" {
				var err error
				at, err = time.Parse(time.RFC3339, after)
				if err != nil {
					return fmt.Errorf("invalid --after %q (expected RFC3339): %w", after, err)
				}
			}
			if count < 1 {
				count = 1
			}
			runs, err := scheduleEngine().NextRuns(cmd.Context(), args[0], at, count)
			if err != nil {
				return err
			}
			for _, t := range runs {
				fmt.Println(t.Format(time.RFC3339))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&after, "after", "", "Search after this instant (RFC3339; default now)")
	cmd.Flags().IntVar(&count, "count", 1, "Number of run instants to show")
	return cmd
}
