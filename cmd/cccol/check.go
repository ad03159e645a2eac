package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check [realm...]",
	Short: "Check for Kerberos credentials",
	Long: `Check exits 0 when the credential cache collection holds credentials.

Without arguments any non-configuration credential counts. With realms,
every realm must have an unexpired credential held by a principal of that
realm.`,
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	if len(args) == 0 {
		authed := client.HasCredentials()
		LogCredentialCheck("", authed)
		if !authed {
			fmt.Fprintln(out, "No KRB5 authentication found.")
			return &exitError{code: 1}
		}
		fmt.Fprintln(out, "KRB5 authentication found.")
		return nil
	}

	missing := 0
	for _, realm := range args {
		ok, err := client.HasCredentialsForRealm(realm)
		if err != nil {
			return fmt.Errorf("realm %q: %w", realm, err)
		}
		LogCredentialCheck(realm, ok)
		if ok {
			fmt.Fprintf(out, "%s: authenticated\n", realm)
		} else {
			fmt.Fprintf(out, "%s: not authenticated\n", realm)
			missing++
		}
	}
	if missing > 0 {
		return &exitError{code: 1}
	}
	return nil
}
