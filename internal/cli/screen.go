package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/hearthpoints/hearth/internal/domain"
)

func init() {
	rootCmd.AddCommand(screenCmd)
	screenCmd.AddCommand(screenStartCmd)
	screenCmd.AddCommand(screenPauseCmd)
	screenCmd.AddCommand(screenResumeCmd)
	screenCmd.AddCommand(screenEndCmd)
	screenCmd.AddCommand(screenStatusCmd)
	screenCmd.AddCommand(screenCheckCmd)

	screenEndCmd.Flags().Bool("refund", false, "Refund unused minutes as points")
}

var screenCmd = &cobra.Command{
	Use:   "screen",
	Short: "Run screen-time sessions",
}

// ─── screen start ───────────────────────────────────────────────────────────

var screenStartCmd = &cobra.Command{
	Use:   "start CHILD [MINUTES]",
	Short: "Start a screen-time session (default block length)",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runScreenStart,
}

func runScreenStart(cmd *cobra.Command, args []string) error {
	st, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	c, err := resolveChild(st, args[0])
	if err != nil {
		return err
	}

	minutes := st.Settings().BlockMinutes
	if len(args) == 2 {
		minutes, err = strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("bad minutes value %q: %w", args[1], err)
		}
	}
	if err := st.StartScreenTime(c.ID, minutes); err != nil {
		return err
	}
	fmt.Printf("Started %d minutes for %s.\n", minutes, c.Name)
	return nil
}

// ─── screen pause / resume / end ────────────────────────────────────────────

var screenPauseCmd = &cobra.Command{
	Use:   "pause CHILD",
	Short: "Pause the running session",
	Args:  cobra.ExactArgs(1),
	RunE:  runScreenPause,
}

func runScreenPause(cmd *cobra.Command, args []string) error {
	st, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	c, err := resolveChild(st, args[0])
	if err != nil {
		return err
	}
	if err := st.PauseScreenTime(c.ID); err != nil {
		return err
	}
	fmt.Printf("Paused %s's session.\n", c.Name)
	return nil
}

var screenResumeCmd = &cobra.Command{
	Use:   "resume CHILD",
	Short: "Resume a paused session",
	Args:  cobra.ExactArgs(1),
	RunE:  runScreenResume,
}

func runScreenResume(cmd *cobra.Command, args []string) error {
	st, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	c, err := resolveChild(st, args[0])
	if err != nil {
		return err
	}
	if err := st.ResumeScreenTime(c.ID); err != nil {
		return err
	}
	fmt.Printf("Resumed %s's session.\n", c.Name)
	return nil
}

var screenEndCmd = &cobra.Command{
	Use:   "end CHILD",
	Short: "End the session and charge used minutes",
	Args:  cobra.ExactArgs(1),
	RunE:  runScreenEnd,
}

func runScreenEnd(cmd *cobra.Command, args []string) error {
	refund, _ := cmd.Flags().GetBool("refund")

	st, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	c, err := resolveChild(st, args[0])
	if err != nil {
		return err
	}
	if err := st.EndScreenTime(c.ID, refund); err != nil {
		return err
	}
	fmt.Printf("Session ended for %s (balance %d).\n", c.Name, st.Balance(c.ID))
	return nil
}

// ─── screen status ──────────────────────────────────────────────────────────

var screenStatusCmd = &cobra.Command{
	Use:   "status CHILD",
	Short: "Show the session countdown",
	Args:  cobra.ExactArgs(1),
	RunE:  runScreenStatus,
}

func runScreenStatus(cmd *cobra.Command, args []string) error {
	st, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	c, err := resolveChild(st, args[0])
	if err != nil {
		return err
	}
	sess, ok := st.Session(c.ID)
	if !ok {
		fmt.Printf("%s has no active session.\n", c.Name)
		return nil
	}

	now := time.Now()
	remaining := sess.RemainingSeconds(now)
	fmt.Printf("%s: %s, %d of %d min used, %d:%02d remaining\n",
		c.Name, sess.DisplayStatus(now), sess.ElapsedMinutes(now),
		sess.TotalMinutes, remaining/60, remaining%60)
	return nil
}

// ─── screen check ───────────────────────────────────────────────────────────

var screenCheckCmd = &cobra.Command{
	Use:   "check CHILD",
	Short: "Check whether a new block may start right now",
	Args:  cobra.ExactArgs(1),
	RunE:  runScreenCheck,
}

func runScreenCheck(cmd *cobra.Command, args []string) error {
	st, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	c, err := resolveChild(st, args[0])
	if err != nil {
		return err
	}

	now := time.Now()
	settings := st.Settings()
	spent := st.SpentScreenMinutesToday(c.ID)
	cap := domain.DailyCapMinutes(c, now, settings)

	if domain.LockoutActiveToday(st.LedgerFor(c.ID), c.ID, domain.ToYMD(now)) {
		fmt.Printf("%s is locked out today. Complete a reset routine first.\n", c.Name)
		return nil
	}
	if err := domain.CanStartBlockNow(c, now, domain.MinutesOfDay(now), spent, settings); err != nil {
		fmt.Printf("No: %v (%d of %d min used)\n", err, spent, cap)
		return nil
	}
	fmt.Printf("Yes: %s may start a block (%d of %d min used).\n", c.Name, spent, cap)
	return nil
}
