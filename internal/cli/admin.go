package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(adminCmd)
	adminCmd.AddCommand(adminResetTasksCmd)
	adminCmd.AddCommand(adminAutoBalanceCmd)
	adminCmd.AddCommand(adminAutoCompleteCmd)
	adminCmd.AddCommand(adminTeamBonusCmd)

	adminResetTasksCmd.Flags().String("child", "", "Reset only this child (default: everyone)")
}

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Household maintenance",
}

// ─── admin reset-tasks ──────────────────────────────────────────────────────

var adminResetTasksCmd = &cobra.Command{
	Use:   "reset-tasks",
	Short: "Clear today's resettable task completions",
	RunE:  runAdminResetTasks,
}

func runAdminResetTasks(cmd *cobra.Command, args []string) error {
	childArg, _ := cmd.Flags().GetString("child")

	st, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	childID := ""
	if childArg != "" {
		c, err := resolveChild(st, childArg)
		if err != nil {
			return err
		}
		childID = c.ID
	}
	if err := st.ResetTodayTasks(childID); err != nil {
		return err
	}
	fmt.Println("Today's tasks reset.")
	return nil
}

// ─── admin auto-balance ─────────────────────────────────────────────────────

var adminAutoBalanceCmd = &cobra.Command{
	Use:   "auto-balance",
	Short: "Rebalance task point values from the weekly target",
	RunE:  runAdminAutoBalance,
}

func runAdminAutoBalance(cmd *cobra.Command, args []string) error {
	st, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	if err := st.AutoBalancePoints(); err != nil {
		return err
	}
	fmt.Println("Task points rebalanced.")
	return nil
}

// ─── admin auto-complete ────────────────────────────────────────────────────

var adminAutoCompleteCmd = &cobra.Command{
	Use:   "auto-complete",
	Short: "Verify yesterday's unreviewed earns",
	RunE:  runAdminAutoComplete,
}

func runAdminAutoComplete(cmd *cobra.Command, args []string) error {
	st, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	if err := st.AutoCompleteYesterday(); err != nil {
		return err
	}
	fmt.Println("Yesterday's unreviewed earns verified.")
	return nil
}

// ─── admin team-bonus ───────────────────────────────────────────────────────

var adminTeamBonusCmd = &cobra.Command{
	Use:   "team-bonus",
	Short: "Award the daily team bonus to every child",
	RunE:  runAdminTeamBonus,
}

func runAdminTeamBonus(cmd *cobra.Command, args []string) error {
	st, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	if err := st.AddTeamBonus(); err != nil {
		return err
	}
	fmt.Println("Team bonus awarded.")
	return nil
}
