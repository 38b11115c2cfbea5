package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/adaptquiz/internal/store"
	"github.com/abhisek/adaptquiz/internal/ui/theme"
)

var attemptsCmd = &cobra.Command{
	Use:   "attempts",
	Short: "Inspect recorded attempts",
}

var attemptsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent attempts",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		studentID, _ := cmd.Flags().GetString("student")
		session, _ := cmd.Flags().GetString("session")

		rt, err := openRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		attempts, err := rt.store.QueryAttempts(cmd.Context(), store.AttemptFilter{
			StudentID: studentID,
			SessionID: session,
			Limit:     limit,
			Newest:    true,
		})
		if err != nil {
			return fmt.Errorf("query attempts: %w", err)
		}

		if len(attempts) == 0 {
			fmt.Println("No attempts found.")
			return nil
		}

		// Header.
		fmt.Printf("%-19s  %-12s  %-16s  %-12s  %-24s  %5s  %s\n",
			"Timestamp", "Student", "Question", "Quiz", "Answer", "Secs", "OK")
		fmt.Println(strings.Repeat("─", 105))

		for _, a := range attempts {
			answer := a.SubmittedAnswer
			if len(answer) > 24 {
				answer = answer[:21] + "..."
			}
			secs := "-"
			if a.TimeTakenSecs != nil {
				secs = fmt.Sprintf("%d", *a.TimeTakenSecs)
			}
			fmt.Printf("%-19s  %-12s  %-16s  %-12s  %-24s  %5s  %s\n",
				a.CreatedAt.Local().Format("2006-01-02 15:04:05"),
				a.StudentID,
				a.QuestionID,
				a.QuizID,
				answer,
				secs,
				theme.Mark(a.Correct),
			)
		}
		return nil
	},
}

func init() {
	attemptsListCmd.Flags().Int("limit", 20, "Maximum number of attempts to show")
	attemptsListCmd.Flags().String("student", "", "Filter by student")
	attemptsListCmd.Flags().String("session", "", "Filter by session")

	attemptsCmd.AddCommand(attemptsListCmd)
}
