package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/kinesin-ca/flexcal/internal/store"
	"github.com/kinesin-ca/flexcal/pkg/calendar"
	"github.com/kinesin-ca/flexcal/pkg/logx"
	"github.com/kinesin-ca/flexcal/pkg/schedule"
)

var (
	flagDefs     string
	flagLogLevel string

	log logx.Logger
	mgr *store.Manager
)

// defaultDefs returns the default definitions directory, checking the
// FLEXCAL_DEFS env var first.
func defaultDefs() string {
	if d := os.Getenv("FLEXCAL_DEFS"); d != "" {
		return d
	}
	return "./definitions"
}

// NewRootCmd creates the root cobra command for the flexcal CLI.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "flexcal",
		Short: "Calendar resolution and schedule queries",
		Long: "flexcal answers calendar validity and next-run questions against a\n" +
			"directory of calendar and job definitions.",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			log = logx.NewConsole(flagLogLevel)
			mgr = store.NewManager(flagDefs, log)
		},
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&flagDefs, "defs", defaultDefs(), "Definitions directory (or FLEXCAL_DEFS env)")
	root.PersistentFlags().StringVar(&flagLogLevel, "log-level", "warn", "Log level (debug, info, warn, error)")

	root.AddCommand(
		newValidateCmd(),
		newCheckCmd(),
		newRangeCmd(),
		newHolidaysCmd(),
		newNextCmd(),
	)

	return root
}

// loadSnapshot parses the definitions directory once for this invocation.
func loadSnapshot() (*store.Snapshot, error) {
	return mgr.Load()
}

func calendarEngine() *calendar.Engine {
	return calendar.NewEngine(func() calendar.Snapshot { return mgr.Snapshot() })
}

func scheduleEngine() *schedule.Engine {
	return schedule.NewEngine(func() schedule.Source { return mgr.Snapshot() })
}
