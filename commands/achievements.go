package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/clauderank/claude-rank/internal/presentation/render"
	"github.com/clauderank/claude-rank/internal/rank"
)

var achievementsCmd = &cobra.Command{
	Use:   "achievements",
	Short: "List all achievements with unlock state and progress",
	RunE:  runAchievements,
}

func init() {
	rootCmd.AddCommand(achievementsCmd)
}

func runAchievements(cmd *cobra.Command, args []string) error {
	if err := setup(); err != nil {
		return err
	}
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	profile, err := rank.LoadProfile(st)
	if err != nil {
		return err
	}
	render.Achievements(os.Stdout, profile.Achievements)
	return nil
}
