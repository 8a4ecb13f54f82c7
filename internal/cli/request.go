package cli

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/hearthpoints/hearth/internal/domain"
)

func init() {
	rootCmd.AddCommand(requestCmd)
	requestCmd.AddCommand(requestListCmd)
	requestCmd.AddCommand(requestTaskCmd)
	requestCmd.AddCommand(requestScreenCmd)
	requestCmd.AddCommand(requestPauseCmd)
	requestCmd.AddCommand(requestApproveCmd)
	requestCmd.AddCommand(requestDenyCmd)
}

var requestCmd = &cobra.Command{
	Use:   "request",
	Short: "File and decide pending requests",
	Long: `Children file requests for task verification, screen time, or a
session pause; a parent approves or denies them. Approval performs the
underlying action (award points, start the session, pause it).`,
}

// ─── request list ───────────────────────────────────────────────────────────

var requestListCmd = &cobra.Command{
	Use:   "list",
	Short: "List today's pending requests",
	RunE:  runRequestList,
}

func runRequestList(cmd *cobra.Command, args []string) error {
	st, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	h, err := st.Household()
	if err != nil {
		return err
	}
	names := make(map[string]string, len(h.Children))
	for _, c := range h.Children {
		names[c.ID] = c.Name
	}

	pending := st.PendingRequests(domain.ToYMD(time.Now()))
	if len(pending) == 0 {
		fmt.Println("No pending requests today.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CHILD\tKIND\tLABEL\tID")
	for _, r := range pending {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", names[r.ChildID], r.Kind, r.Label, r.ID)
	}
	return w.Flush()
}

// ─── request task / screen / pause ──────────────────────────────────────────

var requestTaskCmd = &cobra.Command{
	Use:   "task CHILD TASK_CODE",
	Short: "Request verification of a completed task",
	Args:  cobra.ExactArgs(2),
	RunE:  runRequestTask,
}

func runRequestTask(cmd *cobra.Command, args []string) error {
	st, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	c, err := resolveChild(st, args[0])
	if err != nil {
		return err
	}
	if err := st.RequestTaskCompletion(c.ID, args[1]); err != nil {
		return err
	}
	fmt.Printf("Task request filed for %s.\n", c.Name)
	return nil
}

var requestScreenCmd = &cobra.Command{
	Use:   "screen CHILD MINUTES",
	Short: "Request a screen-time block",
	Args:  cobra.ExactArgs(2),
	RunE:  runRequestScreen,
}

func runRequestScreen(cmd *cobra.Command, args []string) error {
	minutes, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("bad minutes value %q: %w", args[1], err)
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
	if err := st.RequestScreenTime(c.ID, minutes); err != nil {
		return err
	}
	fmt.Printf("Screen-time request filed for %s (%d min).\n", c.Name, minutes)
	return nil
}

var requestPauseCmd = &cobra.Command{
	Use:   "pause CHILD",
	Short: "Request a pause of the running session",
	Args:  cobra.ExactArgs(1),
	RunE:  runRequestPause,
}

func runRequestPause(cmd *cobra.Command, args []string) error {
	st, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	c, err := resolveChild(st, args[0])
	if err != nil {
		return err
	}
	if err := st.RequestPause(c.ID); err != nil {
		return err
	}
	fmt.Printf("Pause request filed for %s.\n", c.Name)
	return nil
}

// ─── request approve / deny ─────────────────────────────────────────────────

var requestApproveCmd = &cobra.Command{
	Use:   "approve REQUEST_ID",
	Short: "Approve a pending request",
	Args:  cobra.ExactArgs(1),
	RunE:  runRequestApprove,
}

func runRequestApprove(cmd *cobra.Command, args []string) error {
	st, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	if err := st.ApproveRequest(args[0]); err != nil {
		return err
	}
	fmt.Println("Request approved.")
	return nil
}

var requestDenyCmd = &cobra.Command{
	Use:   "deny REQUEST_ID",
	Short: "Deny a pending request",
	Args:  cobra.ExactArgs(1),
	RunE:  runRequestDeny,
}

func runRequestDeny(cmd *cobra.Command, args []string) error {
	st, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	if err := st.DenyRequest(args[0]); err != nil {
		return err
	}
	fmt.Println("Request denied.")
	return nil
}
