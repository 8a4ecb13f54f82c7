package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/hearthpoints/hearth/internal/app/store"
)

func init() {
	rootCmd.AddCommand(childCmd)
	childCmd.AddCommand(childListCmd)
	childCmd.AddCommand(childAddCmd)
	childCmd.AddCommand(childRemoveCmd)
	childCmd.AddCommand(childInviteCmd)

	childAddCmd.Flags().Int("age", 8, "Child's age")
	childAddCmd.Flags().Int("cap", 5, "Weekly cash cap in dollars")
	childAddCmd.Flags().String("bed-school", "21:00", "School-night bedtime (HH:MM)")
	childAddCmd.Flags().String("bed-weekend", "22:00", "Weekend bedtime (HH:MM)")
}

var childCmd = &cobra.Command{
	Use:   "child",
	Short: "Manage the household's children",
}

// ─── child list ─────────────────────────────────────────────────────────────

var childListCmd = &cobra.Command{
	Use:   "list",
	Short: "List children with their balances",
	RunE:  runChildList,
}

func runChildList(cmd *cobra.Command, args []string) error {
	st, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	h, err := st.Household()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tAGE\tLEVEL\tPOINTS\tCAP/WK\tID")
	for _, c := range h.Children {
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t$%d\t%s\n",
			c.Name, c.Age, c.Level, st.Balance(c.ID), c.WeeklyCashCap, c.ID)
	}
	return w.Flush()
}

// ─── child add ──────────────────────────────────────────────────────────────

var childAddCmd = &cobra.Command{
	Use:   "add NAME",
	Short: "Add a child to the household",
	Args:  cobra.ExactArgs(1),
	RunE:  runChildAdd,
}

func runChildAdd(cmd *cobra.Command, args []string) error {
	age, _ := cmd.Flags().GetInt("age")
	cap, _ := cmd.Flags().GetInt("cap")
	bedSchool, _ := cmd.Flags().GetString("bed-school")
	bedWeekend, _ := cmd.Flags().GetString("bed-weekend")

	st, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	id, err := st.AddChild(store.ChildSpec{
		Name:          args[0],
		Age:           age,
		WeeklyCashCap: cap,
		BedSchool:     bedSchool,
		BedWeekend:    bedWeekend,
	})
	if err != nil {
		return err
	}
	fmt.Printf("Added %s (id %s).\n", args[0], id)
	return nil
}

// ─── child remove ───────────────────────────────────────────────────────────

var childRemoveCmd = &cobra.Command{
	Use:   "remove CHILD",
	Short: "Remove a child and all of their records",
	Args:  cobra.ExactArgs(1),
	RunE:  runChildRemove,
}

func runChildRemove(cmd *cobra.Command, args []string) error {
	st, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	c, err := resolveChild(st, args[0])
	if err != nil {
		return err
	}
	if err := st.DeleteChild(c.ID); err != nil {
		return err
	}
	fmt.Printf("Removed %s.\n", c.Name)
	return nil
}

// ─── child invite ───────────────────────────────────────────────────────────

var childInviteCmd = &cobra.Command{
	Use:   "invite CHILD",
	Short: "Generate an invite code for a child's device",
	Args:  cobra.ExactArgs(1),
	RunE:  runChildInvite,
}

func runChildInvite(cmd *cobra.Command, args []string) error {
	st, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	c, err := resolveChild(st, args[0])
	if err != nil {
		return err
	}
	code, err := st.GenerateInviteCode(c.ID)
	if err != nil {
		return err
	}
	fmt.Println(code)
	return nil
}
