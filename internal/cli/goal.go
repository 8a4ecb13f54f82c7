package cli

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/hearthpoints/hearth/internal/domain"
)

func init() {
	rootCmd.AddCommand(goalCmd)
	goalCmd.AddCommand(goalListCmd)
	goalCmd.AddCommand(goalAddCmd)
	goalCmd.AddCommand(goalUpdateCmd)
	goalCmd.AddCommand(goalRemoveCmd)
}

var goalCmd = &cobra.Command{
	Use:   "goal",
	Short: "Manage a child's savings goals",
}

// ─── goal list ──────────────────────────────────────────────────────────────

var goalListCmd = &cobra.Command{
	Use:   "list CHILD",
	Short: "List a child's goals with progress",
	Args:  cobra.ExactArgs(1),
	RunE:  runGoalList,
}

func runGoalList(cmd *cobra.Command, args []string) error {
	st, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	c, err := resolveChild(st, args[0])
	if err != nil {
		return err
	}
	if len(c.Goals) == 0 {
		fmt.Printf("%s has no goals.\n", c.Name)
		return nil
	}

	saved := domain.PointsToDollars(st.Balance(c.ID), st.Settings())
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tTARGET\tSAVED\tID")
	for _, g := range c.Goals {
		fmt.Fprintf(w, "%s\t$%d\t$%d\t%s\n", g.Name, g.TargetAmount, saved, g.ID)
	}
	return w.Flush()
}

// ─── goal add / update / remove ─────────────────────────────────────────────

var goalAddCmd = &cobra.Command{
	Use:   "add CHILD NAME DOLLARS",
	Short: "Add a savings goal",
	Args:  cobra.ExactArgs(3),
	RunE:  runGoalAdd,
}

func runGoalAdd(cmd *cobra.Command, args []string) error {
	target, err := strconv.Atoi(args[2])
	if err != nil {
		return fmt.Errorf("bad dollar value %q: %w", args[2], err)
	}

	st, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	c, err := resolveChild(st, args[0])
	if err != nil {
		return err
	}
	id, err := st.AddGoal(c.ID, args[1], target)
	if err != nil {
		return err
	}
	fmt.Printf("Goal %q added for %s (id %s).\n", args[1], c.Name, id)
	return nil
}

var goalUpdateCmd = &cobra.Command{
	Use:   "update CHILD GOAL_ID NAME DOLLARS",
	Short: "Rename or retarget a goal",
	Args:  cobra.ExactArgs(4),
	RunE:  runGoalUpdate,
}

func runGoalUpdate(cmd *cobra.Command, args []string) error {
	target, err := strconv.Atoi(args[3])
	if err != nil {
		return fmt.Errorf("bad dollar value %q: %w", args[3], err)
	}

	st, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	c, err := resolveChild(st, args[0])
	if err != nil {
		return err
	}
	if err := st.UpdateGoal(c.ID, args[1], args[2], target); err != nil {
		return err
	}
	fmt.Println("Goal updated.")
	return nil
}

var goalRemoveCmd = &cobra.Command{
	Use:   "remove CHILD GOAL_ID",
	Short: "Remove a goal",
	Args:  cobra.ExactArgs(2),
	RunE:  runGoalRemove,
}

func runGoalRemove(cmd *cobra.Command, args []string) error {
	st, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	c, err := resolveChild(st, args[0])
	if err != nil {
		return err
	}
	if err := st.DeleteGoal(c.ID, args[1]); err != nil {
		return err
	}
	fmt.Println("Goal removed.")
	return nil
}
