package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/adaptquiz/internal/engine"
	"github.com/abhisek/adaptquiz/internal/store"
	"github.com/abhisek/adaptquiz/internal/ui/theme"
)

var placementCmd = &cobra.Command{
	Use:   "placement",
	Short: "Run a placement test",
}

var placementStartCmd = &cobra.Command{
	Use:   "start <student>",
	Short: "Select placement questions for a student",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		subject, _ := cmd.Flags().GetString("subject")

		rt, err := openRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		round, err := rt.engine.StartPlacement(cmd.Context(), args[0], store.QuestionFilter{Subject: subject})
		if err != nil {
			return err
		}
		if len(round.Questions) == 0 {
			fmt.Println("No questions available for this student's grade.")
			return nil
		}

		printRound(round)
		fmt.Println(theme.Hint.Render(fmt.Sprintf(
			"Answer with: adaptquiz answer %s <question> <answer> --session %s", round.StudentID, round.SessionID)))
		fmt.Println(theme.Hint.Render(fmt.Sprintf(
			"Then:        adaptquiz placement finish %s %s", round.StudentID, round.SessionID)))
		return nil
	},
}

var placementFinishCmd = &cobra.Command{
	Use:   "finish <student> <session>",
	Short: "Classify a student from a placement session",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := openRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		lvl, err := rt.engine.CompletePlacement(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Printf("%s is now %s\n", args[0], theme.LevelBadge(lvl))
		return nil
	},
}

// printRound lists the questions of a round with their options.
func printRound(round engine.Round) {
	fmt.Println(theme.Title.Render("Session " + round.SessionID))
	for i, q := range round.Questions {
		fmt.Printf("\n%d. %s %s\n", i+1, theme.DifficultyTag(q.Difficulty), q.Text)
		fmt.Println(theme.Hint.Render("   id: " + q.ID))
		for j, c := range q.Choices {
			fmt.Printf("   %c) %s\n", 'A'+j, c)
		}
	}
	fmt.Println()
}

func init() {
	placementStartCmd.Flags().String("subject", "", "Restrict to one subject")

	placementCmd.AddCommand(placementStartCmd)
	placementCmd.AddCommand(placementFinishCmd)
}
