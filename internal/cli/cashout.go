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
	rootCmd.AddCommand(cashoutCmd)
	cashoutCmd.AddCommand(cashoutRequestCmd)
	cashoutCmd.AddCommand(cashoutListCmd)
	cashoutCmd.AddCommand(cashoutApproveCmd)
	cashoutCmd.AddCommand(cashoutRejectCmd)

	cashoutListCmd.Flags().Bool("all", false, "Include processed requests")
	cashoutApproveCmd.Flags().String("by", "Parent", "Who processed the request")
	cashoutRejectCmd.Flags().String("by", "Parent", "Who processed the request")
}

var cashoutCmd = &cobra.Command{
	Use:   "cashout",
	Short: "Convert points to pocket money",
}

// ─── cashout request ────────────────────────────────────────────────────────

var cashoutRequestCmd = &cobra.Command{
	Use:   "request CHILD DOLLARS",
	Short: "Request a cash-out",
	Args:  cobra.ExactArgs(2),
	RunE:  runCashoutRequest,
}

func runCashoutRequest(cmd *cobra.Command, args []string) error {
	dollars, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("bad dollar value %q: %w", args[1], err)
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
	if err := st.RequestCashOut(c.ID, dollars); err != nil {
		return err
	}
	fmt.Printf("Cash-out of $%d requested for %s (%d points on approval).\n",
		dollars, c.Name, domain.DollarsToPoints(dollars, st.Settings()))
	return nil
}

// ─── cashout list ───────────────────────────────────────────────────────────

var cashoutListCmd = &cobra.Command{
	Use:   "list",
	Short: "List cash-out requests",
	RunE:  runCashoutList,
}

func runCashoutList(cmd *cobra.Command, args []string) error {
	all, _ := cmd.Flags().GetBool("all")

	st, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	reqs := st.CashOutRequests()
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CHILD\tAMOUNT\tPOINTS\tSTATUS\tID")
	shown := 0
	for _, r := range reqs {
		if !all && r.Status != domain.CashOutPending {
			continue
		}
		fmt.Fprintf(w, "%s\t$%d\t%d\t%s\t%s\n", r.ChildName, r.Amount, r.Points, r.Status, r.ID)
		shown++
	}
	if shown == 0 {
		fmt.Println("No cash-out requests.")
		return nil
	}
	return w.Flush()
}

// ─── cashout approve / reject ───────────────────────────────────────────────

var cashoutApproveCmd = &cobra.Command{
	Use:   "approve REQUEST_ID",
	Short: "Approve a cash-out, deducting its points",
	Args:  cobra.ExactArgs(1),
	RunE:  runCashoutApprove,
}

func runCashoutApprove(cmd *cobra.Command, args []string) error {
	by, _ := cmd.Flags().GetString("by")

	st, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	if err := st.ProcessCashOut(args[0], true, by); err != nil {
		return err
	}
	fmt.Println("Cash-out approved.")
	return nil
}

var cashoutRejectCmd = &cobra.Command{
	Use:   "reject REQUEST_ID",
	Short: "Reject a cash-out, leaving points untouched",
	Args:  cobra.ExactArgs(1),
	RunE:  runCashoutReject,
}

func runCashoutReject(cmd *cobra.Command, args []string) error {
	by, _ := cmd.Flags().GetString("by")

	st, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	if err := st.ProcessCashOut(args[0], false, by); err != nil {
		return err
	}
	fmt.Println("Cash-out rejected.")
	return nil
}
