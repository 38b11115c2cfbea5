package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/adaptquiz/internal/level"
	"github.com/abhisek/adaptquiz/internal/quiz"
	"github.com/abhisek/adaptquiz/internal/stats"
	"github.com/abhisek/adaptquiz/internal/store"
	"github.com/abhisek/adaptquiz/internal/ui/theme"
)

var studentCmd = &cobra.Command{
	Use:   "student",
	Short: "Manage students",
}

var studentAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Register a student",
	RunE: func(cmd *cobra.Command, args []string) error {
		id, _ := cmd.Flags().GetString("id")
		name, _ := cmd.Flags().GetString("name")
		grade, _ := cmd.Flags().GetString("grade")
		class, _ := cmd.Flags().GetString("class")
		gender, _ := cmd.Flags().GetString("gender")

		rt, err := openRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		s, err := rt.store.CreateStudent(cmd.Context(), quiz.Student{
			ID: id, Name: name, Grade: grade, ClassSection: class, Gender: gender,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Registered %s (grade %s, class %s). Level: %s\n",
			s.ID, s.Grade, s.ClassSection, theme.LevelBadge(s.Level))
		fmt.Println(theme.Hint.Render("Next: adaptquiz placement start " + s.ID))
		return nil
	},
}

var studentShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a student's level and accuracy",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := openRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		ctx := cmd.Context()
		s, err := rt.store.GetStudent(ctx, args[0])
		if err != nil {
			return err
		}
		attempts, err := rt.store.QueryAttempts(ctx, store.AttemptFilter{StudentID: s.ID})
		if err != nil {
			return fmt.Errorf("query attempts: %w", err)
		}
		sum := stats.Summary(attempts)

		fmt.Println(theme.Title.Render(s.Name + " (" + s.ID + ")"))
		fmt.Printf("  Grade:    %s\n", s.Grade)
		fmt.Printf("  Class:    %s\n", s.ClassSection)
		fmt.Printf("  Level:    %s\n", theme.LevelBadge(s.Level))
		fmt.Printf("  Answered: %d (%d correct, %.2f%%)\n", sum.Count, sum.CorrectCount, sum.Percentage)

		byQuiz := stats.Aggregate(attempts, stats.ByQuiz())
		if len(byQuiz) == 0 {
			return nil
		}
		fmt.Println()
		fmt.Println(theme.Header.Render("By quiz"))
		for _, k := range stats.SortedKeys(byQuiz) {
			g := byQuiz[k]
			fmt.Printf("  %-20s %3d/%-3d %6.2f%%\n", k, g.CorrectCount, g.Count, g.Percentage)
		}
		return nil
	},
}

var studentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List students grouped by grade and class",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		grade, _ := cmd.Flags().GetString("grade")
		class, _ := cmd.Flags().GetString("class")

		rt, err := openRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		students, err := rt.store.ListStudents(cmd.Context(), store.StudentFilter{Grade: grade, ClassSection: class})
		if err != nil {
			return err
		}
		if len(students) == 0 {
			fmt.Println(theme.Hint.Render("No students registered. Add one with: adaptquiz student add"))
			return nil
		}

		for i, r := range stats.Rosters(students) {
			if i > 0 {
				fmt.Println()
			}
			fmt.Println(theme.Header.Render(fmt.Sprintf("Grade %s - Class %s (%d)", r.Grade, r.ClassSection, len(r.Students))))
			for _, s := range r.Students {
				fmt.Printf("  %-12s %-24s %-8s %s\n", s.ID, s.Name, s.Gender, theme.LevelBadge(s.Level))
			}

			var mix []string
			for _, l := range level.AllLevels() {
				if n := r.Levels[l]; n > 0 {
					mix = append(mix, fmt.Sprintf("%s %d", l.DisplayName(), n))
				}
			}
			fmt.Println(theme.Hint.Render("  " + strings.Join(mix, ", ")))
		}
		return nil
	},
}

func init() {
	studentAddCmd.Flags().String("id", "", "Student ID")
	studentAddCmd.Flags().String("name", "", "Display name")
	studentAddCmd.Flags().String("grade", "", "Grade")
	studentAddCmd.Flags().String("class", "", "Class section")
	studentAddCmd.Flags().String("gender", "", "Gender")
	_ = studentAddCmd.MarkFlagRequired("id")
	_ = studentAddCmd.MarkFlagRequired("grade")

	studentCmd.AddCommand(studentAddCmd)
	studentListCmd.Flags().String("grade", "", "Only this grade")
	studentListCmd.Flags().String("class", "", "Only this class section")

	studentCmd.AddCommand(studentShowCmd)
	studentCmd.AddCommand(studentListCmd)
}
