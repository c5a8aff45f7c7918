package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stylelens/stylelens/internal/keystore"
	"github.com/stylelens/stylelens/internal/tui"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage authentication",
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to StyleLens",
	Long: `Sign in with your StyleLens account.

Without flags, an interactive form asks for the credentials.

Examples:
  stylelens auth login
  stylelens auth login --username jane --password secret`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := getApp(cmd)
		if err != nil {
			return err
		}

		username, _ := cmd.Flags().GetString("username")
		password, _ := cmd.Flags().GetString("password")

		if username == "" || password == "" {
			if !tui.ShouldPrompt() {
				return fmt.Errorf("--username and --password are required when not running interactively")
			}
			remembered, _ := a.Keys.Get(keystore.KeyLoginUsername)
			if username != "" {
				remembered = username
			}
			creds, err := tui.PromptForLogin(remembered)
			if err != nil {
				return err
			}
			username, password = creds.Username, creds.Password
		}

		if !a.Sessions.Login(cmd.Context(), a.AuthClient, username, password) {
			printLoginFailure(a)
			return fmt.Errorf("login failed")
		}

		if err := a.Keys.Set(keystore.KeyLoginUsername, username); err != nil {
			a.Logger.WithError(err).Warn("failed to remember username")
		}

		current := a.Sessions.Current()
		fmt.Printf("Signed in as %s (%s plan)\n", current.Username, current.Tier)
		return nil
	},
}

var authRegisterCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a StyleLens account",
	Long: `Create a new StyleLens account.

Registration sends a verification code to your email address. Run
'stylelens auth verify' with that code to activate the account, then
sign in with 'stylelens auth login'.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := getApp(cmd)
		if err != nil {
			return err
		}

		username, _ := cmd.Flags().GetString("username")
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")

		if username == "" || email == "" || password == "" {
			if !tui.ShouldPrompt() {
				return fmt.Errorf("--username, --email and --password are required when not running interactively")
			}
			reg, err := tui.PromptForRegistration()
			if err != nil {
				return err
			}
			username, email, password = reg.Username, reg.Email, reg.Password
		}

		if !a.Sessions.Register(cmd.Context(), a.AuthClient, username, email, password) {
			printLoginFailure(a)
			return fmt.Errorf("registration failed")
		}

		if err := a.Keys.Set(keystore.KeyVerificationEmail, email); err != nil {
			a.Logger.WithError(err).Warn("failed to remember verification email")
		}

		fmt.Printf("Account created. A verification code was sent to %s.\n", email)
		fmt.Println("Run 'stylelens auth verify --code <code>' to activate it.")
		return nil
	},
}

var authVerifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify your email address",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := getApp(cmd)
		if err != nil {
			return err
		}

		email, _ := cmd.Flags().GetString("email")
		code, _ := cmd.Flags().GetString("code")

		if email == "" {
			email, _ = a.Keys.Get(keystore.KeyVerificationEmail)
		}
		if email == "" {
			return fmt.Errorf("--email is required (no pending registration found)")
		}
		if code == "" {
			if !tui.ShouldPrompt() {
				return fmt.Errorf("--code is required when not running interactively")
			}
			code, err = tui.PromptForString("Verification code", "123456")
			if err != nil {
				return err
			}
		}

		if err := a.AuthClient.VerifyEmail(cmd.Context(), email, code); err != nil {
			return err
		}

		if err := a.Keys.Delete(keystore.KeyVerificationEmail); err != nil {
			a.Logger.WithError(err).Warn("failed to clear verification email")
		}

		fmt.Println("Email verified. Run 'stylelens auth login' to sign in.")
		return nil
	},
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and forget the stored session",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := getApp(cmd)
		if err != nil {
			return err
		}

		if err := a.Sessions.Logout(); err != nil {
			return err
		}
		fmt.Println("Signed out.")
		return nil
	},
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show authentication status",
	Long: `Show the stored session: identity, plan, and token expiry.

With --remote, the backend is asked for the current account state and
the stored plan is refreshed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := getApp(cmd)
		if err != nil {
			return err
		}

		current := a.Sessions.Current()
		if !current.IsAuthenticated() {
			fmt.Println("Not signed in.")
			fmt.Println("Use 'stylelens auth login' to authenticate.")
			return nil
		}

		remote, _ := cmd.Flags().GetBool("remote")
		if remote {
			user, err := a.Client.CurrentUser(cmd.Context())
			if err != nil {
				return err
			}
			if err := a.Sessions.SetUser(*user); err != nil {
				a.Logger.WithError(err).Warn("failed to persist refreshed user")
			}
			current = a.Sessions.Current()
		}

		fmt.Println("Signed in")
		fmt.Printf("User:  %s <%s>\n", current.Username, current.Email)
		fmt.Printf("Plan:  %s\n", current.Tier)
		if current.Role != "" && current.Role != "user" {
			fmt.Printf("Role:  %s\n", current.Role)
		}
		if expiry, ok := current.TokenExpiry(); ok {
			if current.TokenExpired() {
				fmt.Printf("Token: expired %s\n", expiry.Format("2006-01-02 15:04"))
				fmt.Println("Use 'stylelens auth login' to re-authenticate.")
			} else {
				fmt.Printf("Token: valid until %s\n", expiry.Format("2006-01-02 15:04"))
			}
		}
		return nil
	},
}

// printLoginFailure renders the structured failure captured by the
// session store, including per-field validation errors.
func printLoginFailure(a *App) {
	details := a.Sessions.LastError()
	if details == nil {
		return
	}

	fmt.Printf("Error: %s\n", details.Message)
	for field, msgs := range details.ValidationErrors {
		for _, msg := range msgs {
			fmt.Printf("  %s: %s\n", field, msg)
		}
	}
	if details.Status == 401 {
		fmt.Println("Check the username and password and try again.")
	}
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authRegisterCmd)
	authCmd.AddCommand(authVerifyCmd)
	authCmd.AddCommand(authLogoutCmd)
	authCmd.AddCommand(authStatusCmd)

	authLoginCmd.Flags().String("username", "", "Account username")
	authLoginCmd.Flags().String("password", "", "Account password")

	authRegisterCmd.Flags().String("username", "", "Account username")
	authRegisterCmd.Flags().String("email", "", "Email address")
	authRegisterCmd.Flags().String("password", "", "Account password")

	authVerifyCmd.Flags().String("email", "", "Email address (defaults to the pending registration)")
	authVerifyCmd.Flags().String("code", "", "Verification code from the email")

	authStatusCmd.Flags().Bool("remote", false, "Refresh the session from the backend")
}
