package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/adaptquiz/internal/store"
	"github.com/abhisek/adaptquiz/internal/ui/theme"
)

var quizCmd = &cobra.Command{
	Use:   "quiz <student>",
	Short: "Select questions matched to a student's level",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		quizID, _ := cmd.Flags().GetString("quiz")
		subject, _ := cmd.Flags().GetString("subject")
		count, _ := cmd.Flags().GetInt("count")

		rt, err := openRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		ctx := cmd.Context()
		if quizID != "" {
			z, err := rt.store.GetQuiz(ctx, quizID)
			if err != nil {
				return err
			}
			fmt.Println(theme.Header.Render(z.Title))
			if z.TimerSeconds > 0 {
				fmt.Println(theme.Hint.Render(fmt.Sprintf("Time limit: %d min", z.TimerSeconds/60)))
			}
		}

		round, err := rt.engine.StartQuiz(ctx, args[0], store.QuestionFilter{QuizID: quizID, Subject: subject}, count)
		if err != nil {
			return err
		}
		if len(round.Questions) == 0 {
			fmt.Println("No questions available.")
			return nil
		}

		printRound(round)
		fmt.Println(theme.Hint.Render(fmt.Sprintf(
			"Answer with: adaptquiz answer %s <question> <answer> --session %s", round.StudentID, round.SessionID)))
		return nil
	},
}

func init() {
	quizCmd.Flags().String("quiz", "", "Quiz ID")
	quizCmd.Flags().String("subject", "", "Subject")
	quizCmd.Flags().Int("count", 0, "Number of questions (0 = configured default)")
}
