package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/adaptquiz/internal/engine"
	"github.com/abhisek/adaptquiz/internal/grading"
	"github.com/abhisek/adaptquiz/internal/quiz"
	"github.com/abhisek/adaptquiz/internal/ui/theme"
)

var answerCmd = &cobra.Command{
	Use:   "answer <student> <question> <answer>",
	Short: "Grade and record an answer",
	Long: "Grade and record an answer. For multiple-choice questions the answer\n" +
		"may be the option text or its letter (A-D).",
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		session, _ := cmd.Flags().GetString("session")
		quizID, _ := cmd.Flags().GetString("quiz")
		secs, _ := cmd.Flags().GetInt("time")

		rt, err := openRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		ctx := cmd.Context()
		q, err := rt.store.GetQuestion(ctx, args[1])
		if err != nil {
			return err
		}

		answer := args[2]
		if q.Type == quiz.TypeChoice && !q.HasChoice(answer) {
			if opt, ok := q.OptionByLabel(answer); ok {
				answer = opt
			}
		}

		sub := engine.Submission{
			StudentID:  args[0],
			QuestionID: q.ID,
			QuizID:     quizID,
			SessionID:  session,
			Answer:     answer,
		}
		if cmd.Flags().Changed("time") {
			sub.TimeTakenSecs = &secs
		}

		_, res, err := rt.engine.Submit(ctx, sub)
		if err != nil {
			return err
		}

		switch {
		case res.Correct:
			fmt.Println(theme.Mark(true), theme.Correct.Render("Correct"))
		case res.Reason == grading.ReasonUngradableKey:
			fmt.Println(theme.Mark(false), theme.Incorrect.Render("Not gradable"),
				theme.Hint.Render("(the question's answer key is not one of its options)"))
		default:
			fmt.Println(theme.Mark(false), theme.Incorrect.Render("Incorrect"))
		}
		if q.Type == quiz.TypeFreeText {
			fmt.Println(theme.Hint.Render(fmt.Sprintf("keyword overlap %.0f%% / need %.0f%%",
				res.Overlap*100, rt.grader.Threshold()*100)))
		}
		return nil
	},
}

func init() {
	answerCmd.Flags().String("session", "", "Session ID from placement start or quiz")
	answerCmd.Flags().String("quiz", "", "Quiz ID (defaults to the question's quiz)")
	answerCmd.Flags().Int("time", 0, "Seconds taken to answer")
}
