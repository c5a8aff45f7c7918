package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/stylelens/stylelens/internal/api"
)

var outfitsCmd = &cobra.Command{
	Use:   "outfits",
	Short: "Plan and review outfits",
}

var outfitsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List planned outfits",
	Long: `List planned outfits in a date range. Without flags, the coming
seven days are shown.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := getApp(cmd)
		if err != nil {
			return err
		}
		if err := requireAuth(a); err != nil {
			return err
		}

		from, to, err := dateRange(cmd)
		if err != nil {
			return err
		}

		outfits, err := a.Client.ListOutfits(cmd.Context(), from, to)
		if err != nil {
			return err
		}

		if len(outfits) == 0 {
			fmt.Println("No outfits planned in this range.")
			return nil
		}

		for _, outfit := range outfits {
			line := fmt.Sprintf("%-12s  %s", outfit.Date, outfit.Occasion)
			if len(outfit.ItemIDs) > 0 {
				line += fmt.Sprintf("  (%d items)", len(outfit.ItemIDs))
			}
			fmt.Println(line)
			if outfit.Notes != "" {
				fmt.Printf("              %s\n", outfit.Notes)
			}
		}
		return nil
	},
}

var outfitsPlanCmd = &cobra.Command{
	Use:   "plan",
	Short: "Plan an outfit for a day",
	Long: `Plan an outfit for a day from wardrobe items.

Examples:
  stylelens outfits plan --date 2026-09-05 --occasion "conference talk" \
      --items 3f1c...,9a2b...`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := getApp(cmd)
		if err != nil {
			return err
		}
		if err := requireAuth(a); err != nil {
			return err
		}

		date, _ := cmd.Flags().GetString("date")
		if date == "" {
			return fmt.Errorf("--date is required")
		}
		if _, err := time.Parse("2006-01-02", date); err != nil {
			return fmt.Errorf("--date must be YYYY-MM-DD: %w", err)
		}

		occasion, _ := cmd.Flags().GetString("occasion")
		items, _ := cmd.Flags().GetStringSlice("items")
		notes, _ := cmd.Flags().GetString("notes")

		outfit, err := a.Client.PlanOutfit(cmd.Context(), api.Outfit{
			Date:     date,
			Occasion: occasion,
			ItemIDs:  items,
			Notes:    notes,
		})
		if err != nil {
			return err
		}

		fmt.Printf("Planned outfit %s for %s", outfit.ID, outfit.Date)
		if outfit.Occasion != "" {
			fmt.Printf(" (%s)", outfit.Occasion)
		}
		fmt.Println()
		return nil
	},
}

var outfitsRemoveCmd = &cobra.Command{
	Use:   "remove <outfit-id>",
	Short: "Remove a planned outfit",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := getApp(cmd)
		if err != nil {
			return err
		}
		if err := requireAuth(a); err != nil {
			return err
		}

		if err := a.Client.DeleteOutfit(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Println("Removed.")
		return nil
	},
}

// dateRange resolves the --from/--to flags, defaulting to the next week.
func dateRange(cmd *cobra.Command) (time.Time, time.Time, error) {
	parse := func(flag string, fallback time.Time) (time.Time, error) {
		v, _ := cmd.Flags().GetString(flag)
		if v == "" {
			return fallback, nil
		}
		t, err := time.Parse("2006-01-02", strings.TrimSpace(v))
		if err != nil {
			return time.Time{}, fmt.Errorf("--%s must be YYYY-MM-DD: %w", flag, err)
		}
		return t, nil
	}

	now := time.Now()
	from, err := parse("from", now)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to, err := parse("to", from.AddDate(0, 0, 7))
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, fmt.Errorf("--to is before --from")
	}
	return from, to, nil
}

func init() {
	rootCmd.AddCommand(outfitsCmd)
	outfitsCmd.AddCommand(outfitsListCmd)
	outfitsCmd.AddCommand(outfitsPlanCmd)
	outfitsCmd.AddCommand(outfitsRemoveCmd)

	outfitsListCmd.Flags().String("from", "", "Start date (YYYY-MM-DD)")
	outfitsListCmd.Flags().String("to", "", "End date (YYYY-MM-DD)")

	outfitsPlanCmd.Flags().String("date", "", "Day the outfit is for (YYYY-MM-DD)")
	outfitsPlanCmd.Flags().String("occasion", "", "Occasion")
	outfitsPlanCmd.Flags().StringSlice("items", nil, "Wardrobe item IDs")
	outfitsPlanCmd.Flags().String("notes", "", "Free-form notes")
}
