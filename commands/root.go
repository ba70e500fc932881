package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/clauderank/claude-rank/internal/data/normalizer"
	"github.com/clauderank/claude-rank/internal/data/store"
	"github.com/clauderank/claude-rank/internal/presentation/render"
	"github.com/clauderank/claude-rank/internal/rank"
	"github.com/clauderank/claude-rank/internal/util"
)

var (
	// Logging related
	debug bool

	// Data paths
	dataDir string
	dbPath  string

	// Output related
	timezone string

	rootCmd = &cobra.Command{
		Use:   "claude-rank",
		Short: "Gamify your Claude Code usage",
		Long: `claude-rank turns Claude Code usage history into XP, levels, streaks,
and achievements.

It scans JSONL event files in the Claude project directory, folds them into
per-day aggregates, and derives everything else: XP with streak multipliers,
a 50-level prestige ladder, and a 25-achievement catalog.

Examples:
  claude-rank                      # Show the dashboard
  claude-rank sync                 # Fold new events into the state store
  claude-rank sync --rebuild       # Replay the full history from scratch
  claude-rank stats --days 14      # Daily breakdown for the last two weeks
  claude-rank wrapped --period year # Year-in-review recap`,
		RunE: runDashboard,
	}
)

const (
	defaultLogFile = "~/.claude-rank/logs/app.log"
	defaultDBPath  = "~/.claude-rank/rank.db"
	defaultDataDir = "~/.claude/projects"
)

func init() {
	rootCmd.PersistentFlags().StringVar(&dataDir, "dir", defaultDataDir,
		"Claude project directory path")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", defaultDBPath,
		"State store path")
	rootCmd.PersistentFlags().StringVar(&timezone, "timezone", "Local",
		"Timezone for day boundaries (e.g., Asia/Shanghai, UTC)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false,
		"Enable debug mode")
}

// setup initializes logging and the time provider, and expands paths. Every
// subcommand runs through here.
func setup() error {
	logLevel := "info"
	if debug {
		logLevel = "debug"
	}

	logFile := expandPath(defaultLogFile)
	ensureDir(filepath.Dir(logFile))
	util.InitLogger(logLevel, logFile, debug)
	if err := util.InitializeTimeProvider(timezone); err != nil {
		return err
	}

	dataDir = expandPath(dataDir)
	dbPath = expandPath(dbPath)
	if err := ensureDir(filepath.Dir(dbPath)); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}
	return nil
}

func openStore() (*store.Store, error) {
	return store.Open(dbPath)
}

func newEngine(st *store.Store) *rank.Engine {
	source := normalizer.New(dataDir, runtime.NumCPU())
	return rank.NewEngine(st, source, util.GetTimeProvider())
}

func runDashboard(cmd *cobra.Command, args []string) error {
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
	render.Dashboard(os.Stdout, profile)
	return nil
}

func Execute() error {
	return rootCmd.Execute()
}

// Helper functions

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[2:])
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return absPath
}

func ensureDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}
