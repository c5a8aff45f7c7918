package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stylelens/stylelens/internal/api"
	"github.com/stylelens/stylelens/internal/session"
	"github.com/stylelens/stylelens/internal/tui"
)

var uploadCmd = &cobra.Command{
	Use:   "upload <image>",
	Short: "Analyze an outfit photo",
	Long: `Upload an outfit photo for AI analysis.

Examples:
  stylelens upload outfit.jpg
  stylelens upload outfit.jpg --occasion "job interview"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := getApp(cmd)
		if err != nil {
			return err
		}
		if err := requireFeature(a, session.FeatureUpload); err != nil {
			return err
		}

		occasion, _ := cmd.Flags().GetString("occasion")

		var analysis *api.Analysis
		err = tui.WithSpinner("Analyzing outfit...", func() error {
			var err error
			analysis, err = a.Client.AnalyzeImage(cmd.Context(), args[0], occasion)
			return err
		})
		if err != nil {
			return err
		}

		printAnalysis(analysis)
		return nil
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show past outfit analyses",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := getApp(cmd)
		if err != nil {
			return err
		}
		if err := requireAuth(a); err != nil {
			return err
		}

		limit, _ := cmd.Flags().GetInt("limit")
		analyses, err := a.Client.AnalysisHistory(cmd.Context(), limit)
		if err != nil {
			return err
		}

		if len(analyses) == 0 {
			fmt.Println("No analyses yet. Try 'stylelens upload <image>'.")
			return nil
		}

		for _, analysis := range analyses {
			line := fmt.Sprintf("%-12s  %.1f/10", analysis.CreatedAt.Format("2006-01-02"), analysis.Score)
			if analysis.Occasion != "" {
				line += "  " + analysis.Occasion
			}
			fmt.Println(line)
		}
		return nil
	},
}

func printAnalysis(analysis *api.Analysis) {
	fmt.Printf("Score: %.1f/10\n", analysis.Score)
	if analysis.Occasion != "" {
		fmt.Printf("Occasion: %s\n", analysis.Occasion)
	}
	if analysis.Feedback != "" {
		fmt.Printf("\n%s\n", analysis.Feedback)
	}
	if suggestions := analysis.Suggestions(); len(suggestions) > 0 {
		fmt.Println("\nSuggestions:")
		for _, s := range suggestions {
			fmt.Printf("  - %s\n", s)
		}
	}
}

func init() {
	rootCmd.AddCommand(uploadCmd)
	rootCmd.AddCommand(historyCmd)

	uploadCmd.Flags().String("occasion", "", "Occasion the outfit is for")
	historyCmd.Flags().Int("limit", 20, "Maximum number of analyses to show")
}
