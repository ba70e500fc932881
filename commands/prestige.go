package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/clauderank/claude-rank/internal/presentation/render"
)

var prestigeCmd = &cobra.Command{
	Use:   "prestige",
	Short: "Reset the level cycle for a prestige star",
	Long: `prestige becomes available once the current cycle has banked the full
climb to level 50. It resets the displayed level to 1 and adds a prestige
star. Lifetime XP, streaks, stats, and achievements are untouched.`,
	RunE: runPrestige,
}

func init() {
	rootCmd.AddCommand(prestigeCmd)
}

func runPrestige(cmd *cobra.Command, args []string) error {
	if err := setup(); err != nil {
		return err
	}
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	result, err := newEngine(st).Prestige()
	if err != nil {
		return err
	}
	render.PrestigeResult(os.Stdout, result)
	return nil
}
