package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/adaptquiz/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "adaptquiz",
	Short: "Adaptive assessment engine",
	Long: "adaptquiz places students at a proficiency level with a short placement test,\n" +
		"serves quizzes matched to that level, grades answers and reports accuracy.",
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides ADAPTQUIZ_DB env var)")
	rootCmd.PersistentFlags().String("config", "", "Path to YAML config file")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("metrics-file", "", "Write Prometheus metrics for this run to a textfile")

	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(studentCmd)
	rootCmd.AddCommand(placementCmd)
	rootCmd.AddCommand(quizCmd)
	rootCmd.AddCommand(answerCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(attemptsCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then ADAPTQUIZ_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}
