package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/grindhq/grindd/internal/blocking"
	"github.com/grindhq/grindd/internal/validation"
)

// NewTestCmd creates the test command
func NewTestCmd() *cobra.Command {
	var domain string
	cmd := &cobra.Command{
		Use:   "test",
		Short: "Test whether a domain is covered by the blocklist",
		RunE: func(cmd *cobra.Command, args []string) error {
			domain = validation.NormalizeDomain(domain)
			if err := validation.ValidateDomain(domain); err != nil {
				return err
			}

			st, cleanup, err := openStore()
			if err != nil {
				return err
			}
			defer cleanup()

			entries := st.BlockedSites(context.Background())
			if blocking.Matches(domain, entries) {
				fmt.Printf("%s is BLOCKED.\n", domain)
			} else {
				fmt.Printf("%s is not blocked.\n", domain)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&domain, "domain", "", "Domain to test (required)")
	_ = cmd.MarkFlagRequired("domain")
	return cmd
}
