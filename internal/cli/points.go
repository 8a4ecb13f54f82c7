package cli

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(pointsCmd)
	pointsCmd.AddCommand(pointsBalanceCmd)
	pointsCmd.AddCommand(pointsHistoryCmd)
	pointsCmd.AddCommand(pointsEarnCmd)
	pointsCmd.AddCommand(pointsCompleteCmd)
	pointsCmd.AddCommand(pointsSpendCmd)
	pointsCmd.AddCommand(pointsDeductCmd)
	pointsCmd.AddCommand(pointsLockoutCmd)
	pointsCmd.AddCommand(pointsResetCmd)
	pointsCmd.AddCommand(pointsUndoCmd)
	pointsCmd.AddCommand(pointsVerifyCmd)
	pointsCmd.AddCommand(pointsIncompleteCmd)

	pointsHistoryCmd.Flags().IntP("limit", "n", 20, "Show at most this many entries")
	pointsEarnCmd.Flags().String("code", "CUSTOM", "Ledger code for the entry")
	pointsEarnCmd.Flags().String("label", "", "Label (defaults to the code)")
	pointsSpendCmd.Flags().String("label", "Spend", "Label for the entry")
	pointsDeductCmd.Flags().String("code", "", "Preset deduction code (overrides POINTS)")
	pointsDeductCmd.Flags().String("label", "Deduction", "Label for the entry")
	pointsLockoutCmd.Flags().Int("points", 0, "Points to deduct with the lockout")
}

var pointsCmd = &cobra.Command{
	Use:   "points",
	Short: "Earn, spend, and review points",
}

// ─── points balance ─────────────────────────────────────────────────────────

var pointsBalanceCmd = &cobra.Command{
	Use:   "balance [CHILD]",
	Short: "Show a child's balance, or every child's",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runPointsBalance,
}

func runPointsBalance(cmd *cobra.Command, args []string) error {
	st, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	if len(args) == 1 {
		c, err := resolveChild(st, args[0])
		if err != nil {
			return err
		}
		fmt.Printf("%s: %d points\n", c.Name, st.Balance(c.ID))
		return nil
	}

	h, err := st.Household()
	if err != nil {
		return err
	}
	for _, c := range h.Children {
		fmt.Printf("%s: %d points\n", c.Name, st.Balance(c.ID))
	}
	return nil
}

// ─── points history ─────────────────────────────────────────────────────────

var pointsHistoryCmd = &cobra.Command{
	Use:   "history CHILD",
	Short: "Show a child's recent ledger entries",
	Args:  cobra.ExactArgs(1),
	RunE:  runPointsHistory,
}

func runPointsHistory(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")

	st, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	c, err := resolveChild(st, args[0])
	if err != nil {
		return err
	}
	entries := st.LedgerFor(c.ID)
	if len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tPOINTS\tTYPE\tLABEL\tID")
	for _, e := range entries {
		verified := ""
		if e.Verified != nil {
			if *e.Verified {
				verified = " ✓"
			} else {
				verified = " ✗"
			}
		}
		fmt.Fprintf(w, "%s\t%+d\t%s\t%s%s\t%s\n",
			e.Date, e.Points, e.Type, e.Label, verified, e.ID)
	}
	return w.Flush()
}

// ─── points earn ────────────────────────────────────────────────────────────

var pointsEarnCmd = &cobra.Command{
	Use:   "earn CHILD POINTS",
	Short: "Award points directly",
	Args:  cobra.ExactArgs(2),
	RunE:  runPointsEarn,
}

func runPointsEarn(cmd *cobra.Command, args []string) error {
	points, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("bad points value %q: %w", args[1], err)
	}
	code, _ := cmd.Flags().GetString("code")
	label, _ := cmd.Flags().GetString("label")
	if label == "" {
		label = code
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
	if err := st.AddEarn(c.ID, code, label, points, true); err != nil {
		return err
	}
	fmt.Printf("%s earned %d points (balance %d).\n", c.Name, points, st.Balance(c.ID))
	return nil
}

// ─── points complete ────────────────────────────────────────────────────────

var pointsCompleteCmd = &cobra.Command{
	Use:   "complete CHILD TASK_CODE",
	Short: "Record a configured task as done",
	Args:  cobra.ExactArgs(2),
	RunE:  runPointsComplete,
}

func runPointsComplete(cmd *cobra.Command, args []string) error {
	st, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	c, err := resolveChild(st, args[0])
	if err != nil {
		return err
	}
	if err := st.CompleteTask(c.ID, args[1]); err != nil {
		return err
	}
	fmt.Printf("%s completed %s (balance %d).\n", c.Name, args[1], st.Balance(c.ID))
	return nil
}

// ─── points spend ───────────────────────────────────────────────────────────

var pointsSpendCmd = &cobra.Command{
	Use:   "spend CHILD POINTS",
	Short: "Record a manual spend",
	Args:  cobra.ExactArgs(2),
	RunE:  runPointsSpend,
}

func runPointsSpend(cmd *cobra.Command, args []string) error {
	points, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("bad points value %q: %w", args[1], err)
	}
	label, _ := cmd.Flags().GetString("label")

	st, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	c, err := resolveChild(st, args[0])
	if err != nil {
		return err
	}
	if err := st.AddSpend(c.ID, "MANUAL_SPEND", label, points); err != nil {
		return err
	}
	fmt.Printf("%s spent %d points (balance %d).\n", c.Name, points, st.Balance(c.ID))
	return nil
}

// ─── points deduct ──────────────────────────────────────────────────────────

var pointsDeductCmd = &cobra.Command{
	Use:   "deduct CHILD [POINTS]",
	Short: "Apply a deduction, ad hoc or by preset code",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runPointsDeduct,
}

func runPointsDeduct(cmd *cobra.Command, args []string) error {
	code, _ := cmd.Flags().GetString("code")
	label, _ := cmd.Flags().GetString("label")

	st, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	c, err := resolveChild(st, args[0])
	if err != nil {
		return err
	}

	if code != "" {
		if err := st.ApplyPresetDeduction(c.ID, code); err != nil {
			return err
		}
		fmt.Printf("Applied %s to %s (balance %d).\n", code, c.Name, st.Balance(c.ID))
		return nil
	}

	if len(args) < 2 {
		return fmt.Errorf("either POINTS or --code is required")
	}
	points, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("bad points value %q: %w", args[1], err)
	}
	if err := st.AddDeduction(c.ID, "MANUAL_DEDUCTION", label, points); err != nil {
		return err
	}
	fmt.Printf("Deducted %d points from %s (balance %d).\n", points, c.Name, st.Balance(c.ID))
	return nil
}

// ─── points lockout ─────────────────────────────────────────────────────────

var pointsLockoutCmd = &cobra.Command{
	Use:   "lockout CHILD REASON",
	Short: "Lock a child out of screen time for today",
	Args:  cobra.ExactArgs(2),
	RunE:  runPointsLockout,
}

func runPointsLockout(cmd *cobra.Command, args []string) error {
	points, _ := cmd.Flags().GetInt("points")

	st, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	c, err := resolveChild(st, args[0])
	if err != nil {
		return err
	}
	if err := st.AddLockout(c.ID, args[1], points); err != nil {
		return err
	}
	fmt.Printf("%s is locked out for today: %s\n", c.Name, args[1])
	return nil
}

// ─── points reset ───────────────────────────────────────────────────────────

var pointsResetCmd = &cobra.Command{
	Use:   "reset CHILD",
	Short: "Record a completed reset routine, clearing any lockout",
	Args:  cobra.ExactArgs(1),
	RunE:  runPointsReset,
}

func runPointsReset(cmd *cobra.Command, args []string) error {
	st, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	c, err := resolveChild(st, args[0])
	if err != nil {
		return err
	}
	if err := st.AddReset(c.ID); err != nil {
		return err
	}
	fmt.Printf("Reset recorded for %s.\n", c.Name)
	return nil
}

// ─── points undo ────────────────────────────────────────────────────────────

var pointsUndoCmd = &cobra.Command{
	Use:   "undo ENTRY_ID",
	Short: "Remove a ledger entry",
	Args:  cobra.ExactArgs(1),
	RunE:  runPointsUndo,
}

func runPointsUndo(cmd *cobra.Command, args []string) error {
	st, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	if err := st.RemoveLedger(args[0]); err != nil {
		return err
	}
	fmt.Println("Entry removed.")
	return nil
}

// ─── points verify ──────────────────────────────────────────────────────────

var pointsVerifyCmd = &cobra.Command{
	Use:   "verify ENTRY_ID",
	Short: "Mark an earn entry as parent-verified",
	Args:  cobra.ExactArgs(1),
	RunE:  runPointsVerify,
}

func runPointsVerify(cmd *cobra.Command, args []string) error {
	st, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	if err := st.VerifyTask(args[0]); err != nil {
		return err
	}
	fmt.Println("Entry verified.")
	return nil
}

// ─── points incomplete ──────────────────────────────────────────────────────

var pointsIncompleteCmd = &cobra.Command{
	Use:   "incomplete ENTRY_ID",
	Short: "Mark a claimed task as not actually done, with penalty",
	Args:  cobra.ExactArgs(1),
	RunE:  runPointsIncomplete,
}

func runPointsIncomplete(cmd *cobra.Command, args []string) error {
	st, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	if err := st.MarkTaskIncomplete(args[0]); err != nil {
		return err
	}
	fmt.Println("Entry marked incomplete; penalty applied.")
	return nil
}
