package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami [realm]",
	Short: "Print the principal name authenticated in a realm",
	Long: `Whoami prints the principal name (without the realm) of the first cache
in the collection whose principal belongs to the realm.

The realm defaults to $REALM, then to the first realm in the config file.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWhoami,
}

func runWhoami(cmd *cobra.Command, args []string) error {
	realms := resolveRealms(args, appConfig)
	if len(realms) == 0 {
		return errors.New("no realm specified")
	}
	realm := realms[0].Realm

	name, ok, err := client.UsernameForRealm(realm)
	if err != nil {
		return fmt.Errorf("realm %q: %w", realm, err)
	}
	LogUsernameLookup(realm, ok)
	if !ok {
		fmt.Fprintf(cmd.ErrOrStderr(), "No authenticated user found for realm %s.\n", realm)
		return &exitError{code: 1}
	}
	fmt.Fprintln(cmd.OutOrStdout(), name)
	return nil
}
