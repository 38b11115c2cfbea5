package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/adaptquiz/internal/stats"
	"github.com/abhisek/adaptquiz/internal/store"
	"github.com/abhisek/adaptquiz/internal/ui/theme"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show accuracy grouped by a dimension",
	Long: "Show accuracy grouped by one of: grade, class, subject, difficulty,\n" +
		"quiz, type, gender, student, question.",
	RunE: func(cmd *cobra.Command, args []string) error {
		by, _ := cmd.Flags().GetString("by")
		quizID, _ := cmd.Flags().GetString("quiz")
		studentID, _ := cmd.Flags().GetString("student")

		dim, err := stats.ParseDimension(by)
		if err != nil {
			return err
		}

		rt, err := openRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		groups, err := rt.engine.Report(cmd.Context(), dim, store.AttemptFilter{QuizID: quizID, StudentID: studentID})
		if err != nil {
			return err
		}
		if len(groups) == 0 {
			fmt.Println("No attempts recorded.")
			return nil
		}

		fmt.Println(theme.Header.Render(fmt.Sprintf("%-24s  %8s  %8s  %8s  %9s",
			strings.ToUpper(string(dim)), "Answered", "Correct", "Accuracy", "Avg time")))
		fmt.Println(strings.Repeat("─", 65))
		for _, k := range stats.SortedKeys(groups) {
			g := groups[k]
			avg := "-"
			if g.TimedCount > 0 {
				avg = fmt.Sprintf("%.1fs", g.AvgTimeSecs)
			}
			label := k
			if label == "" {
				label = "(none)"
			}
			fmt.Printf("%-24s  %8d  %8d  %7.2f%%  %9s\n", label, g.Count, g.CorrectCount, g.Percentage, avg)
		}
		return nil
	},
}

func init() {
	statsCmd.Flags().String("by", string(stats.DimQuiz), "Grouping dimension")
	statsCmd.Flags().String("quiz", "", "Only attempts for this quiz")
	statsCmd.Flags().String("student", "", "Only attempts by this student")
}
