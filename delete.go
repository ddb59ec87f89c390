package main

import (
	"bufio"
	"database/sql"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Forget the stored token and the run history",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		a := mustSetup()
		defer a.Close()

		out := cmd.OutOrStdout()
		fmt.Fprint(out, "⚠️  Are you sure you want to forget the stored token and run history? (y/N): ")
		confirmation, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		confirmation = strings.TrimSpace(confirmation)
		if confirmation != "y" && confirmation != "Y" {
			fmt.Fprintln(out, "❌ Reset cancelled")
			return
		}

		if err := resetState(a.db, a.config.Google.Account); err != nil {
			a.exit(err)
		}
		fmt.Fprintln(out, "✅ Local state cleared")
	},
}

func resetState(db *sql.DB, accountName string) error {
	if err := NewTokenStore(db).Delete(accountName); err != nil {
		return fmt.Errorf("deleting token: %w", err)
	}
	if _, err := db.Exec(`DELETE FROM sync_actions`); err != nil {
		return fmt.Errorf("deleting sync actions: %w", err)
	}
	if _, err := db.Exec(`DELETE FROM sync_runs`); err != nil {
		return fmt.Errorf("deleting sync runs: %w", err)
	}
	return nil
}
