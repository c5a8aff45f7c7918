package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stylelens/stylelens/internal/session"
)

var pricingCmd = &cobra.Command{
	Use:   "pricing",
	Short: "Compare subscription plans",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := getApp(cmd)
		if err != nil {
			return err
		}

		// Pricing works signed out; a quota notice pointing here must
		// never itself bounce through the auth teardown.
		tiers, err := a.Client.ListTiers(cmd.Context())
		if err != nil {
			return err
		}

		current := a.Sessions.Current()
		for _, tier := range tiers {
			marker := "  "
			if current.IsAuthenticated() && session.ParseTier(tier.Name) == current.Tier {
				marker = "* "
			}
			fmt.Printf("%s%-12s $%.2f/month", marker, tier.DisplayName, tier.PriceMonthly)
			if tier.AnalysisLimit > 0 {
				fmt.Printf("  (%d analyses/month)", tier.AnalysisLimit)
			} else {
				fmt.Print("  (unlimited)")
			}
			fmt.Println()
			for _, feature := range tier.Features {
				fmt.Printf("    - %s\n", feature)
			}
		}

		if current.IsAuthenticated() {
			fmt.Println("\n* your current plan. Change it with 'stylelens upgrade <plan>'.")
		}
		return nil
	},
}

var upgradeCmd = &cobra.Command{
	Use:   "upgrade <plan>",
	Short: "Change your subscription plan",
	Long: `Start a checkout for a different plan. Payment itself happens on a
hosted checkout page; this command prints the URL to complete it.

After paying, run 'stylelens auth status --remote' to refresh the plan.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := getApp(cmd)
		if err != nil {
			return err
		}
		if err := requireAuth(a); err != nil {
			return err
		}

		checkout, err := a.Client.CreateCheckout(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		fmt.Println("Complete the upgrade in a browser:")
		fmt.Printf("\n  %s\n", checkout.CheckoutURL)
		return nil
	},
}

var billingCmd = &cobra.Command{
	Use:   "billing",
	Short: "Show billing history",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := getApp(cmd)
		if err != nil {
			return err
		}
		if err := requireAuth(a); err != nil {
			return err
		}

		records, err := a.Client.BillingHistory(cmd.Context())
		if err != nil {
			return err
		}

		if len(records) == 0 {
			fmt.Println("No charges yet.")
			return nil
		}

		for _, record := range records {
			fmt.Printf("%-12s  %8.2f %s  %-10s  %s\n",
				record.CreatedAt, record.Amount, record.Currency, record.Tier, record.Status)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(pricingCmd)
	rootCmd.AddCommand(upgradeCmd)
	rootCmd.AddCommand(billingCmd)
}
