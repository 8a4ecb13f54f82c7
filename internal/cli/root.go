// Package cli implements the hearth command line interface. Commands
// operate on the local snapshot database directly; a running daemon
// picks the writes up through its sync poller.
package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/hearthpoints/hearth/internal/app/store"
	"github.com/hearthpoints/hearth/internal/daemon"
	"github.com/hearthpoints/hearth/internal/domain"
	"github.com/hearthpoints/hearth/internal/infra/statefile"
)

var rootCmd = &cobra.Command{
	Use:   "hearth",
	Short: "Family points tracker",
	Long: `Hearth tracks a household's points: children earn points for tasks,
spend them on screen time, and cash them out for pocket money. Parents
verify tasks, approve requests, and manage the household.`,
	SilenceUsage: true,
}

var stateDirFlag string

func init() {
	rootCmd.PersistentFlags().StringVar(&stateDirFlag, "state-dir", "", "State directory (default ~/.hearth)")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// ─── Shared Helpers ─────────────────────────────────────────────────────────

func loadCLIConfig() (daemon.Config, error) {
	cfg, err := daemon.LoadConfig(daemon.ConfigPath())
	if err != nil {
		return cfg, err
	}
	if stateDirFlag != "" {
		cfg.State.Dir = stateDirFlag
	}
	return cfg, nil
}

// openStore opens the snapshot database and loads the state. The
// returned closer must be called so the handle is released.
func openStore() (*store.Store, func(), error) {
	cfg, err := loadCLIConfig()
	if err != nil {
		return nil, nil, err
	}

	db, err := statefile.Open(cfg.State.Dir, zerolog.Nop())
	if err != nil {
		return nil, nil, err
	}
	payload, err := db.Load()
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	st, err := store.Load(payload, store.WithPersister(db))
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	return st, func() { db.Close() }, nil
}

// resolveChild accepts a child's name (case-insensitive) or ID.
func resolveChild(st *store.Store, nameOrID string) (domain.Child, error) {
	h, err := st.Household()
	if err != nil {
		return domain.Child{}, err
	}
	for _, c := range h.Children {
		if c.ID == nameOrID || strings.EqualFold(c.Name, nameOrID) {
			return c, nil
		}
	}
	return domain.Child{}, fmt.Errorf("%w: %q", domain.ErrChildNotFound, nameOrID)
}
