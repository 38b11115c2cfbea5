package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/adaptquiz/internal/bank"
	"github.com/abhisek/adaptquiz/internal/ui/theme"
)

var importCmd = &cobra.Command{
	Use:   "import <bank.json>",
	Short: "Import quizzes and questions from a JSON question bank",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read bank: %w", err)
		}
		b, err := bank.Parse(raw)
		if err != nil {
			return fmt.Errorf("parse %s: %w", args[0], err)
		}

		rt, err := openRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		counts, err := bank.Load(cmd.Context(), rt.store, b)
		if err != nil {
			return fmt.Errorf("import: %w", err)
		}

		fmt.Println(theme.Title.Render("Import complete"))
		fmt.Printf("  quizzes:   %d\n", counts.Quizzes)
		fmt.Printf("  passages:  %d\n", counts.Passages)
		fmt.Printf("  questions: %d\n", counts.Questions)
		return nil
	},
}
