package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hearthpoints/hearth/internal/app/store"
	"github.com/hearthpoints/hearth/internal/auth"
)

func init() {
	rootCmd.AddCommand(setupCmd)
	setupCmd.Flags().String("name", "", "Household name (required)")
	setupCmd.Flags().StringArray("child", nil, `Child spec "Name,age,weeklyCashCap,bedSchool,bedWeekend" (repeatable)`)
	setupCmd.Flags().String("parent-user", "", "Parent username (optional)")
	setupCmd.Flags().String("parent-pass", "", "Parent password (optional)")
	setupCmd.MarkFlagRequired("name")
}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create the household",
	Long: `Create the household with its children and default settings.

Example:
  hearth setup --name "The Lovelaces" \
    --child "Ada,11,7,21:00,22:00" \
    --child "Ben,7,5,20:00,21:00" \
    --parent-user parent --parent-pass secret`,
	RunE: runSetup,
}

func runSetup(cmd *cobra.Command, args []string) error {
	name, _ := cmd.Flags().GetString("name")
	childSpecs, _ := cmd.Flags().GetStringArray("child")
	parentUser, _ := cmd.Flags().GetString("parent-user")
	parentPass, _ := cmd.Flags().GetString("parent-pass")

	kids := make([]store.ChildSpec, 0, len(childSpecs))
	for _, raw := range childSpecs {
		spec, err := parseChildSpec(raw)
		if err != nil {
			return err
		}
		kids = append(kids, spec)
	}

	var hash string
	if parentUser != "" && parentPass != "" {
		var err error
		hash, err = auth.HashPassword(parentPass)
		if err != nil {
			return fmt.Errorf("hash parent password: %w", err)
		}
	}

	st, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	if err := st.CreateHousehold(name, kids, parentUser, hash); err != nil {
		return err
	}

	fmt.Printf("Household %q created with %d child(ren).\n", name, len(kids))
	for _, k := range kids {
		fmt.Printf("  %s (age %d, cap $%d/week, bed %s school / %s weekend)\n",
			k.Name, k.Age, k.WeeklyCashCap, k.BedSchool, k.BedWeekend)
	}
	return nil
}

// parseChildSpec parses "Name,age,weeklyCashCap,bedSchool,bedWeekend".
func parseChildSpec(raw string) (store.ChildSpec, error) {
	parts := strings.Split(raw, ",")
	if len(parts) != 5 {
		return store.ChildSpec{}, fmt.Errorf("child spec %q: want Name,age,cap,bedSchool,bedWeekend", raw)
	}
	age, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return store.ChildSpec{}, fmt.Errorf("child spec %q: bad age: %w", raw, err)
	}
	cap, err := strconv.Atoi(strings.TrimSpace(parts[2]))
	if err != nil {
		return store.ChildSpec{}, fmt.Errorf("child spec %q: bad weekly cash cap: %w", raw, err)
	}
	return store.ChildSpec{
		Name:          strings.TrimSpace(parts[0]),
		Age:           age,
		WeeklyCashCap: cap,
		BedSchool:     strings.TrimSpace(parts[3]),
		BedWeekend:    strings.TrimSpace(parts[4]),
	}, nil
}
