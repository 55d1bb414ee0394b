package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/grindhq/grindd/internal/validation"
)

// NewBlocklistCmd creates the blocklist command with list, add, and remove
// subcommands.
func NewBlocklistCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "blocklist",
		Short: "Manage the site blocklist",
		Long:  "List, add, or remove blocklist entries (plain domains or wildcard patterns like *.example.com)",
	}
	cmd.AddCommand(newBlocklistListCmd())
	cmd.AddCommand(newBlocklistAddCmd())
	cmd.AddCommand(newBlocklistRemoveCmd())
	return cmd
}

func newBlocklistListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List blocklist entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, cleanup, err := openStore()
			if err != nil {
				return err
			}
			defer cleanup()

			sites := st.BlockedSites(context.Background())
			if len(sites) == 0 {
				fmt.Println("The blocklist is empty.")
				return nil
			}
			fmt.Println("Blocked sites:")
			for _, site := range sites {
				fmt.Printf("  - %s\n", site)
			}
			return nil
		},
	}
}

func newBlocklistAddCmd() *cobra.Command {
	var domain string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a blocklist entry",
		RunE: func(cmd *cobra.Command, args []string) error {
			domain = validation.NormalizeDomain(domain)
			if err := validation.ValidateBlockEntry(domain); err != nil {
				return err
			}

			st, cleanup, err := openStore()
			if err != nil {
				return err
			}
			defer cleanup()

			if !st.AddBlockedSite(context.Background(), domain) {
				fmt.Printf("%s is already on the blocklist.\n", domain)
				return nil
			}
			fmt.Printf("Added %s to the blocklist.\n", domain)
			return nil
		},
	}
	cmd.Flags().StringVar(&domain, "domain", "", "Domain or wildcard pattern (required)")
	_ = cmd.MarkFlagRequired("domain")
	return cmd
}

func newBlocklistRemoveCmd() *cobra.Command {
	var domain string
	cmd := &cobra.Command{
		Use:   "remove",
		Short: "Remove a blocklist entry",
		RunE: func(cmd *cobra.Command, args []string) error {
			domain = validation.NormalizeDomain(domain)

			st, cleanup, err := openStore()
			if err != nil {
				return err
			}
			defer cleanup()

			if !st.RemoveBlockedSite(context.Background(), domain) {
				fmt.Printf("%s is not on the blocklist.\n", domain)
				return nil
			}
			fmt.Printf("Removed %s from the blocklist.\n", domain)
			return nil
		},
	}
	cmd.Flags().StringVar(&domain, "domain", "", "Domain or wildcard pattern (required)")
	_ = cmd.MarkFlagRequired("domain")
	return cmd
}
