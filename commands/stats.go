package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/clauderank/claude-rank/internal/presentation/render"
	"github.com/clauderank/claude-rank/internal/util"
)

var statsDays int

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Daily activity and XP breakdown",
	RunE:  runStats,
}

func init() {
	statsCmd.Flags().IntVar(&statsDays, "days", 30,
		"Number of trailing days to show")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	if err := setup(); err != nil {
		return err
	}
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	tp := util.GetTimeProvider()
	end := tp.Today()
	start := util.AddDays(end, -(statsDays - 1))

	aggs, err := st.AggregateRange(start, end)
	if err != nil {
		return err
	}
	ledger, err := st.LedgerRange(start, end)
	if err != nil {
		return err
	}

	render.NewStatsTable().Format(os.Stdout, aggs, ledger)
	return nil
}
