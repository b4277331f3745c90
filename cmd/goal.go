package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"skatelog/trainlog/internal/store"
)

var (
	goalDiscipline string
	goalWeeksAgo   int
	goalUndo       bool
	goalJSON       bool
)

var goalCmd = &cobra.Command{
	Use:   "goal",
	Short: "Weekly training goals",
}

var goalAddCmd = &cobra.Command{
	Use:   "add <title...>",
	Short: "Add a goal for this week",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		discipline := disciplineOrDefault(goalDiscipline)
		if err := checkDiscipline(discipline); err != nil {
			return err
		}
		d, err := OpenDatabase()
		if err != nil {
			return err
		}
		defer d.Close()

		g, err := d.CreateGoal(strings.Join(args, " "), discipline, time.Now())
		if err != nil {
			return err
		}
		fmt.Printf("Added goal %s for week of %s\n", truncID(g.ID), time.UnixMilli(g.WeekStart).Format("Jan 2"))
		return nil
	},
}

var goalListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the goals of a week",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if goalWeeksAgo < 0 {
			return fmt.Errorf("--weeks-ago must not be negative")
		}
		d, err := OpenDatabase()
		if err != nil {
			return err
		}
		defer d.Close()

		week := store.WeekStart(time.Now().AddDate(0, 0, -7*goalWeeksAgo))
		goals, err := d.ListGoals(week)
		if err != nil {
			return err
		}
		if goalJSON {
			if goals == nil {
				goals = []store.Goal{}
			}
			return writeJSON(goals)
		}

		fmt.Printf("Week of %s\n\n", time.UnixMilli(week).Format("Mon Jan 2"))
		if len(goals) == 0 {
			fmt.Println("  No goals.")
			return nil
		}
		for _, g := range goals {
			box := "[ ]"
			if g.Done {
				box = "[x]"
			}
			fmt.Printf("  %s %s  %-8s %s\n", box, truncID(g.ID), g.Discipline, g.Title)
		}
		return nil
	},
}

var goalDoneCmd = &cobra.Command{
	Use:   "done <goal>",
	Short: "Mark a goal done (--undo to reopen)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := OpenDatabase()
		if err != nil {
			return err
		}
		defer d.Close()

		g, err := ResolveGoal(d, args[0])
		if err != nil {
			return err
		}
		if err := d.SetGoalDone(g.ID, !goalUndo); err != nil {
			return err
		}
		if goalUndo {
			fmt.Printf("Reopened %s\n", g.Title)
		} else {
			fmt.Printf("Done: %s\n", g.Title)
		}
		return nil
	},
}

func init() {
	goalAddCmd.Flags().StringVar(&goalDiscipline, "discipline", "", "Discipline of the goal (default: first configured discipline)")
	goalListCmd.Flags().IntVar(&goalWeeksAgo, "weeks-ago", 0, "Show an earlier week")
	goalListCmd.Flags().BoolVar(&goalJSON, "json", false, "JSON output")
	goalDoneCmd.Flags().BoolVar(&goalUndo, "undo", false, "Reopen the goal")

	goalCmd.AddCommand(goalAddCmd, goalListCmd, goalDoneCmd)
	rootCmd.AddCommand(goalCmd)
}
