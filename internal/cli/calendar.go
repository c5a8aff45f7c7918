package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stylelens/stylelens/internal/api"
	"github.com/stylelens/stylelens/internal/keystore"
	"github.com/stylelens/stylelens/internal/session"
	"github.com/stylelens/stylelens/internal/tui"
)

var calendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "Connect outfits to your Google Calendar",
}

var calendarConnectCmd = &cobra.Command{
	Use:   "connect",
	Short: "Link your Google Calendar",
	Long: `Link your Google Calendar to StyleLens.

The command prints an authorization URL to open in a browser. Google
shows an authorization code after consent; paste it back here. The code
is exchanged for tokens by the StyleLens backend, so no OAuth client
secret ever lives on this machine.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := getApp(cmd)
		if err != nil {
			return err
		}
		if err := requireFeature(a, session.FeatureCalendar); err != nil {
			return err
		}

		authURL, err := a.Client.CalendarAuthURL(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Println("Open this URL in a browser and authorize StyleLens:")
		fmt.Printf("\n  %s\n\n", authURL)

		code, _ := cmd.Flags().GetString("code")
		if code == "" {
			if !tui.ShouldPrompt() {
				return fmt.Errorf("--code is required when not running interactively")
			}
			code, err = tui.PromptForString("Authorization code", "")
			if err != nil {
				return err
			}
		}
		if code == "" {
			return fmt.Errorf("no authorization code provided")
		}

		tokens, err := a.Client.CalendarExchange(cmd.Context(), code)
		if err != nil {
			return err
		}

		err = a.Keys.SetAll(map[string]string{
			keystore.KeyCalendarToken:        tokens.AccessToken,
			keystore.KeyCalendarRefreshToken: tokens.RefreshToken,
			keystore.KeyCalendarExpiresAt:    tokens.ExpiresAt,
			keystore.KeyCalendarUserEmail:    tokens.UserEmail,
			keystore.KeyCalendarUserName:     tokens.UserName,
		})
		if err != nil {
			return err
		}

		fmt.Printf("Calendar connected as %s.\n", tokens.UserEmail)
		return nil
	},
}

var calendarStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the calendar link state",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := getApp(cmd)
		if err != nil {
			return err
		}
		if err := requireAuth(a); err != nil {
			return err
		}

		status, err := a.Client.CalendarStatus(cmd.Context())
		if err != nil {
			return err
		}

		if !status.Connected {
			fmt.Println("Calendar is not connected.")
			fmt.Println("Use 'stylelens calendar connect' to link it.")
			return nil
		}

		fmt.Printf("Connected as %s <%s>\n", status.UserName, status.UserEmail)
		if status.ExpiresAt != "" {
			fmt.Printf("Token expires: %s\n", status.ExpiresAt)
		}
		if !a.Keys.HasCalendar() {
			fmt.Println("Note: no local calendar tokens; run 'stylelens calendar connect' to refresh them.")
		}
		return nil
	},
}

var calendarViewCmd = &cobra.Command{
	Use:   "view",
	Short: "Show upcoming events with planned outfits",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := getApp(cmd)
		if err != nil {
			return err
		}
		if err := requireFeature(a, session.FeatureCalendar); err != nil {
			return err
		}

		from, to, err := dateRange(cmd)
		if err != nil {
			return err
		}

		events, err := a.Client.CalendarEvents(cmd.Context(), from, to)
		if err != nil {
			return err
		}

		if len(events) == 0 {
			fmt.Println("No events in this range.")
			return nil
		}

		for _, event := range events {
			line := fmt.Sprintf("%-20s  %s", event.Start, event.Summary)
			if event.OutfitID != "" {
				line += "  (outfit planned)"
			}
			fmt.Println(line)
		}
		return nil
	},
}

var calendarAddEventCmd = &cobra.Command{
	Use:   "add-event",
	Short: "Create a calendar event, optionally linked to an outfit",
	Long: `Create an event on the connected calendar.

Examples:
  stylelens calendar add-event --summary "Gallery opening" \
      --start 2026-09-05T19:00:00Z --end 2026-09-05T22:00:00Z \
      --outfit 3f1c9a2b`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := getApp(cmd)
		if err != nil {
			return err
		}
		if err := requireFeature(a, session.FeatureCalendar); err != nil {
			return err
		}

		summary, _ := cmd.Flags().GetString("summary")
		if summary == "" {
			return fmt.Errorf("--summary is required")
		}
		start, _ := cmd.Flags().GetString("start")
		end, _ := cmd.Flags().GetString("end")
		outfitID, _ := cmd.Flags().GetString("outfit")

		event, err := a.Client.CreateCalendarEvent(cmd.Context(), api.CalendarEvent{
			Summary:  summary,
			Start:    start,
			End:      end,
			OutfitID: outfitID,
		})
		if err != nil {
			return err
		}

		fmt.Printf("Created event %s (%s)\n", event.ID, event.Summary)
		return nil
	},
}

var calendarDisconnectCmd = &cobra.Command{
	Use:   "disconnect",
	Short: "Unlink the calendar and forget its tokens",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := getApp(cmd)
		if err != nil {
			return err
		}
		if err := requireAuth(a); err != nil {
			return err
		}

		if err := a.Client.CalendarDisconnect(cmd.Context()); err != nil {
			return err
		}
		if err := a.Keys.ClearCalendar(); err != nil {
			return err
		}

		fmt.Println("Calendar disconnected.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(calendarCmd)
	calendarCmd.AddCommand(calendarConnectCmd)
	calendarCmd.AddCommand(calendarStatusCmd)
	calendarCmd.AddCommand(calendarViewCmd)
	calendarCmd.AddCommand(calendarAddEventCmd)
	calendarCmd.AddCommand(calendarDisconnectCmd)

	calendarConnectCmd.Flags().String("code", "", "Authorization code from Google")

	calendarAddEventCmd.Flags().String("summary", "", "Event title")
	calendarAddEventCmd.Flags().String("start", "", "Start time (RFC 3339)")
	calendarAddEventCmd.Flags().String("end", "", "End time (RFC 3339)")
	calendarAddEventCmd.Flags().String("outfit", "", "Outfit ID to link")

	calendarViewCmd.Flags().String("from", "", "Start date (YYYY-MM-DD)")
	calendarViewCmd.Flags().String("to", "", "End date (YYYY-MM-DD)")
}
