package commands

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/grindhq/grindd/internal/validation"
)

// NewLimitsCmd creates the limits command with list, set, and remove
// subcommands.
func NewLimitsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "limits",
		Short: "Manage daily time limits",
		Long:  "List, set, or remove per-domain daily time limits",
	}
	cmd.AddCommand(newLimitsListCmd())
	cmd.AddCommand(newLimitsSetCmd())
	cmd.AddCommand(newLimitsRemoveCmd())
	return cmd
}

func newLimitsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List configured limits",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, cleanup, err := openStore()
			if err != nil {
				return err
			}
			defer cleanup()

			limits := st.TimeLimits(context.Background())
			if len(limits) == 0 {
				fmt.Println("No daily limits configured.")
				return nil
			}

			domains := make([]string, 0, len(limits))
			for domain := range limits {
				domains = append(domains, domain)
			}
			sort.Strings(domains)

			fmt.Println("Daily time limits:")
			for _, domain := range domains {
				fmt.Printf("  - %s: %d minutes\n", domain, limits[domain]/60)
			}
			return nil
		},
	}
}

func newLimitsSetCmd() *cobra.Command {
	var domain string
	var minutes int
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Set a domain's daily limit",
		RunE: func(cmd *cobra.Command, args []string) error {
			domain = validation.NormalizeDomain(domain)
			if err := validation.ValidateDomain(domain); err != nil {
				return err
			}
			if err := validation.ValidateLimitMinutes(minutes); err != nil {
				return err
			}

			st, cleanup, err := openStore()
			if err != nil {
				return err
			}
			defer cleanup()

			st.SetTimeLimit(context.Background(), domain, minutes*60)
			fmt.Printf("Set %s to %d minutes per day.\n", domain, minutes)
			return nil
		},
	}
	cmd.Flags().StringVar(&domain, "domain", "", "Domain (required)")
	cmd.Flags().IntVar(&minutes, "minutes", 0, "Daily limit in minutes (required)")
	_ = cmd.MarkFlagRequired("domain")
	_ = cmd.MarkFlagRequired("minutes")
	return cmd
}

func newLimitsRemoveCmd() *cobra.Command {
	var domain string
	cmd := &cobra.Command{
		Use:   "remove",
		Short: "Remove a domain's daily limit",
		RunE: func(cmd *cobra.Command, args []string) error {
			domain = validation.NormalizeDomain(domain)

			st, cleanup, err := openStore()
			if err != nil {
				return err
			}
			defer cleanup()

			ctx := context.Background()
			if st.TimeLimit(ctx, domain) <= 0 {
				fmt.Printf("No limit configured for %s.\n", domain)
				return nil
			}
			st.RemoveTimeLimit(ctx, domain)
			fmt.Printf("Removed the limit for %s.\n", domain)
			return nil
		},
	}
	cmd.Flags().StringVar(&domain, "domain", "", "Domain (required)")
	_ = cmd.MarkFlagRequired("domain")
	return cmd
}
