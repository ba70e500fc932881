package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/clauderank/claude-rank/internal/presentation/render"
	"github.com/clauderank/claude-rank/internal/rank"
	"github.com/clauderank/claude-rank/internal/util"
)

var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the profile snapshot as JSON",
	Long: `export writes the stable snapshot view: level, tier, XP, streak,
achievement counts, and prestige. Badge generators and other external
consumers read this instead of the state store.`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "",
		"Write to file instead of stdout")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
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
	snapshot := profile.Snapshot(util.GetTimeProvider())

	w := os.Stdout
	if exportOutput != "" {
		f, err := os.Create(expandPath(exportOutput))
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		w = f
	}
	return render.SnapshotJSON(w, snapshot)
}
