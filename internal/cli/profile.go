package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stylelens/stylelens/internal/api"
	"github.com/stylelens/stylelens/internal/session"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show or edit your profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := getApp(cmd)
		if err != nil {
			return err
		}
		if err := requireAuth(a); err != nil {
			return err
		}

		username, _ := cmd.Flags().GetString("username")
		email, _ := cmd.Flags().GetString("email")

		if username == "" && email == "" {
			user, err := a.Client.CurrentUser(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("Username: %s\n", user.Username)
			fmt.Printf("Email:    %s\n", user.Email)
			fmt.Printf("Plan:     %s\n", session.ParseTier(user.Tier))
			return nil
		}

		update := api.ProfileUpdate{}
		if username != "" {
			update.Username = &username
		}
		if email != "" {
			update.Email = &email
		}

		user, err := a.Client.UpdateProfile(cmd.Context(), update)
		if err != nil {
			return err
		}
		if err := a.Sessions.SetUser(*user); err != nil {
			a.Logger.WithError(err).Warn("failed to persist updated profile")
		}

		fmt.Println("Profile updated.")
		fmt.Printf("Username: %s\n", user.Username)
		fmt.Printf("Email:    %s\n", user.Email)
		return nil
	},
}

var tierCmd = &cobra.Command{
	Use:   "tier",
	Short: "Refresh the stored plan from the backend",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := getApp(cmd)
		if err != nil {
			return err
		}
		if err := requireAuth(a); err != nil {
			return err
		}

		tierName, err := a.Client.RefreshTier(cmd.Context())
		if err != nil {
			return err
		}

		tier := session.ParseTier(tierName)
		if err := a.Sessions.UpdateTier(tier); err != nil {
			return err
		}
		fmt.Printf("Plan: %s\n", tier)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(tierCmd)

	profileCmd.Flags().String("username", "", "New username")
	profileCmd.Flags().String("email", "", "New email address")
}
