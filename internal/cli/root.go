package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/stylelens/stylelens/internal/api"
	"github.com/stylelens/stylelens/internal/config"
	"github.com/stylelens/stylelens/internal/errors"
	"github.com/stylelens/stylelens/internal/keystore"
	"github.com/stylelens/stylelens/internal/log"
	"github.com/stylelens/stylelens/internal/notify"
	"github.com/stylelens/stylelens/internal/session"
)

var rootCmd = &cobra.Command{
	Use:   "stylelens",
	Short: "AI fashion analysis from your terminal",
	Long: `stylelens is the command-line client for the StyleLens platform.
It analyzes outfit photos and live camera frames with AI, manages your
wardrobe and planned outfits, and keeps them in sync with your calendar.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with the given context. Commands
// read it via cmd.Context(), so cancelling it aborts in-flight calls.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().String("api-url", "", "Backend API URL (overrides config)")
	rootCmd.PersistentFlags().String("log-level", "", "Minimum log level: debug, info, warn, error")
	rootCmd.PersistentFlags().Bool("verbose", false, "Shorthand for --log-level debug")
}

// App holds the wired collaborators every command needs. Built once per
// invocation; commands reach it through getApp.
type App struct {
	Config   *config.Config
	Logger   *log.Logger
	Sessions *session.Store
	Keys     *keystore.Store
	Notifier notify.Notifier

	// Client carries the default response policy. AuthClient shares it
	// but suppresses the session teardown, so a failed login does not
	// masquerade as an expired session.
	Client     *api.Client
	AuthClient *api.Client
}

var app *App

// getApp wires configuration, logging, stores and the API client.
func getApp(cmd *cobra.Command) (*App, error) {
	if app != nil {
		return app, nil
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	if v, _ := cmd.Flags().GetString("api-url"); v != "" {
		cfg.APIURL = v
	}
	if v, _ := cmd.Flags().GetString("log-level"); v != "" {
		cfg.LogLevel = v
	}
	if v, _ := cmd.Flags().GetBool("verbose"); v {
		cfg.LogLevel = "debug"
	}

	logCfg := log.DefaultConfig()
	logCfg.Level = log.ParseLevel(cfg.LogLevel)
	logCfg.Format = log.ParseFormat(cfg.LogFormat)
	logger := log.New(logCfg)
	log.SetDefaultLogger(logger)

	sessions, err := session.Open(cfg.SessionPath(), logger)
	if err != nil {
		return nil, err
	}

	keys, err := keystore.Open(cfg.KeystorePath(), keystorePassphrase())
	if err != nil {
		return nil, err
	}

	notifier := notify.NewTerminal(os.Stderr)

	effects := api.NewEffects(api.EffectsConfig{
		Sessions: sessions,
		Calendar: keys,
		Notifier: notifier,
		Logger:   logger,
	})

	httpOpts := []api.Option{
		api.WithTokenSource(sessions),
		api.WithLogger(logger),
		api.WithTimeout(cfg.RequestTimeout),
	}

	client := api.NewClient(cfg.APIURL, append(httpOpts, api.WithEffectHandler(effects))...)
	authClient := api.NewClient(cfg.APIURL, append(httpOpts, api.WithEffectHandler(effects.SuppressAuthEffects()))...)

	app = &App{
		Config:     cfg,
		Logger:     logger,
		Sessions:   sessions,
		Keys:       keys,
		Notifier:   notifier,
		Client:     client,
		AuthClient: authClient,
	}
	return app, nil
}

// keystorePassphrase resolves the local keystore passphrase. It protects
// tokens at rest on a shared machine; it is not a server-side secret.
func keystorePassphrase() string {
	if v := os.Getenv("STYLELENS_KEYSTORE_KEY"); v != "" {
		return v
	}
	return "stylelens-local-keystore"
}

// requireAuth ensures a signed-in session before a command runs.
func requireAuth(a *App) error {
	current := a.Sessions.Current()
	if !current.IsAuthenticated() {
		return errors.NewAuthRequiredError()
	}
	if current.TokenExpired() {
		return errors.NewAuthTokenExpiredError()
	}
	return nil
}

// requireFeature gates a command on the session's plan.
func requireFeature(a *App, feature session.Feature) error {
	if err := requireAuth(a); err != nil {
		return err
	}
	current := a.Sessions.Current()
	if !current.Tier.Allows(feature) {
		return errors.New(errors.ErrCodeAPIValidation,
			fmt.Sprintf("the %s plan does not include %s", current.Tier, feature)).
			WithSuggestion("Run 'stylelens pricing' to compare plans").
			WithSuggestion("Run 'stylelens upgrade' to change plans")
	}
	return nil
}

// requireAdmin gates a command on the admin role.
func requireAdmin(a *App) error {
	if err := requireAuth(a); err != nil {
		return err
	}
	if !a.Sessions.Current().IsAdmin() {
		return errors.New(errors.ErrCodeAuthInvalid, "this command requires an admin account")
	}
	return nil
}
