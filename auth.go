package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authorize Google Calendar access and store the token",
	Long: `Run the OAuth consent flow for the configured Google account.

The stored token is replaced. Synchronization runs the same flow on its own
when no usable token is stored.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		a := mustSetup()
		defer a.Close()

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "🚀 Starting authorization...")

		session, err := a.factory().Session()
		if err != nil {
			a.exit(err)
		}
		token, err := session.Reauthorize(cmd.Context())
		if err != nil {
			a.exit(err)
		}

		expiry := "never"
		if !token.Expiry.IsZero() {
			expiry = token.Expiry.Format("2006-01-02 15:04")
		}
		fmt.Fprintf(out, "✅ Token stored for account %s (expires %s)\n", a.config.Google.Account, expiry)
	},
}
