package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/clauderank/claude-rank/internal/presentation/render"
	"github.com/clauderank/claude-rank/internal/rank"
	"github.com/clauderank/claude-rank/internal/util"
)

var wrappedPeriod string

var wrappedCmd = &cobra.Command{
	Use:   "wrapped",
	Short: "Period recap: XP, active days, best day, period streak",
	RunE:  runWrapped,
}

func init() {
	wrappedCmd.Flags().StringVar(&wrappedPeriod, "period", "month",
		"Recap period (week, month, year, all)")
	rootCmd.AddCommand(wrappedCmd)
}

func runWrapped(cmd *cobra.Command, args []string) error {
	if err := setup(); err != nil {
		return err
	}
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	summary, err := rank.Wrapped(st, wrappedPeriod, util.GetTimeProvider())
	if err != nil {
		return err
	}
	render.Wrapped(os.Stdout, summary)
	return nil
}
