package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stylelens/stylelens/internal/api"
	"github.com/stylelens/stylelens/internal/tui"
)

var wardrobeCmd = &cobra.Command{
	Use:   "wardrobe",
	Short: "Manage your digital wardrobe",
}

var wardrobeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List wardrobe items",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := getApp(cmd)
		if err != nil {
			return err
		}
		if err := requireAuth(a); err != nil {
			return err
		}

		items, err := a.Client.ListWardrobe(cmd.Context())
		if err != nil {
			return err
		}

		if len(items) == 0 {
			fmt.Println("Your wardrobe is empty. Add items with 'stylelens wardrobe add <image>'.")
			return nil
		}

		category, _ := cmd.Flags().GetString("category")
		for _, item := range items {
			if category != "" && item.Category != category {
				continue
			}
			printWardrobeItem(item)
		}
		return nil
	},
}

var wardrobeAddCmd = &cobra.Command{
	Use:   "add <image>",
	Short: "Add an item from a photo",
	Long: `Add a clothing item to the wardrobe from a photo.

Examples:
  stylelens wardrobe add jacket.jpg --name "Blue blazer" --category outerwear
  stylelens wardrobe add shoes.jpg --category shoes --color black`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := getApp(cmd)
		if err != nil {
			return err
		}
		if err := requireAuth(a); err != nil {
			return err
		}

		fields := map[string]any{}
		if v, _ := cmd.Flags().GetString("name"); v != "" {
			fields["name"] = v
		}
		if v, _ := cmd.Flags().GetString("category"); v != "" {
			fields["category"] = v
		}
		if v, _ := cmd.Flags().GetString("color"); v != "" {
			fields["color"] = v
		}

		var item *api.WardrobeItem
		err = tui.WithSpinner("Adding item...", func() error {
			var err error
			item, err = a.Client.AddWardrobeItem(cmd.Context(), args[0], fields)
			return err
		})
		if err != nil {
			return err
		}

		fmt.Println("Added:")
		printWardrobeItem(*item)
		return nil
	},
}

var wardrobeRemoveCmd = &cobra.Command{
	Use:   "remove <item-id>",
	Short: "Remove an item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := getApp(cmd)
		if err != nil {
			return err
		}
		if err := requireAuth(a); err != nil {
			return err
		}

		force, _ := cmd.Flags().GetBool("force")
		if !force && tui.ShouldPrompt() {
			ok, err := tui.PromptForConfirmation(
				fmt.Sprintf("Remove item %s from your wardrobe?", args[0]), false)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Println("Cancelled.")
				return nil
			}
		}

		if err := a.Client.RemoveWardrobeItem(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Println("Removed.")
		return nil
	},
}

func printWardrobeItem(item api.WardrobeItem) {
	line := fmt.Sprintf("%-36s  %s", item.ID, item.Name)
	if item.Category != "" {
		line += fmt.Sprintf("  [%s]", item.Category)
	}
	if item.Color != "" {
		line += "  " + item.Color
	}
	fmt.Println(line)
}

func init() {
	rootCmd.AddCommand(wardrobeCmd)
	wardrobeCmd.AddCommand(wardrobeListCmd)
	wardrobeCmd.AddCommand(wardrobeAddCmd)
	wardrobeCmd.AddCommand(wardrobeRemoveCmd)

	wardrobeListCmd.Flags().String("category", "", "Only show items in this category")

	wardrobeAddCmd.Flags().String("name", "", "Item name")
	wardrobeAddCmd.Flags().String("category", "", "Item category (tops, bottoms, shoes, ...)")
	wardrobeAddCmd.Flags().String("color", "", "Dominant color")

	wardrobeRemoveCmd.Flags().Bool("force", false, "Do not ask for confirmation")
}
