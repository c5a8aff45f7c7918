package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Platform administration",
}

var adminStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show platform usage statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := getApp(cmd)
		if err != nil {
			return err
		}
		if err := requireAdmin(a); err != nil {
			return err
		}

		stats, err := a.Client.AdminStats(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Printf("Users:          %d\n", stats.TotalUsers)
		fmt.Printf("Active today:   %d\n", stats.ActiveToday)
		fmt.Printf("Analyses today: %d\n", stats.AnalysesToday)
		fmt.Printf("Analyses total: %d\n", stats.AnalysesTotal)

		if len(stats.TierCounts) > 0 {
			fmt.Println("\nBy plan:")
			tiers := make([]string, 0, len(stats.TierCounts))
			for tier := range stats.TierCounts {
				tiers = append(tiers, tier)
			}
			sort.Strings(tiers)
			for _, tier := range tiers {
				fmt.Printf("  %-10s %d\n", tier, stats.TierCounts[tier])
			}
		}
		return nil
	},
}

var adminUsersCmd = &cobra.Command{
	Use:   "users",
	Short: "List user accounts",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := getApp(cmd)
		if err != nil {
			return err
		}
		if err := requireAdmin(a); err != nil {
			return err
		}

		page, _ := cmd.Flags().GetInt("page")
		pageSize, _ := cmd.Flags().GetInt("page-size")

		list, err := a.Client.AdminListUsers(cmd.Context(), page, pageSize)
		if err != nil {
			return err
		}

		for _, user := range list.Users {
			verified := " "
			if user.Verified {
				verified = "v"
			}
			fmt.Printf("%-36s  %-16s  %-10s  %-6s  [%s]\n",
				user.ID, user.Username, user.Tier, user.Role, verified)
		}
		fmt.Printf("\nPage %d of %d users\n", list.Page, list.TotalCount)
		return nil
	},
}

var adminSetRoleCmd = &cobra.Command{
	Use:   "set-role <user-id> <role>",
	Short: "Change a user's role",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := getApp(cmd)
		if err != nil {
			return err
		}
		if err := requireAdmin(a); err != nil {
			return err
		}

		role := args[1]
		if role != "user" && role != "admin" {
			return fmt.Errorf("role must be 'user' or 'admin', got %q", role)
		}

		if err := a.Client.AdminSetUserRole(cmd.Context(), args[0], role); err != nil {
			return err
		}
		fmt.Printf("Role of %s set to %s.\n", args[0], role)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(adminCmd)
	adminCmd.AddCommand(adminStatsCmd)
	adminCmd.AddCommand(adminUsersCmd)
	adminCmd.AddCommand(adminSetRoleCmd)

	adminUsersCmd.Flags().Int("page", 1, "Page number")
	adminUsersCmd.Flags().Int("page-size", 50, "Users per page")
}
