package command

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/clinicmate/clinicmate/internal/screen"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out and unregister push notifications",
	RunE: func(cmd *cobra.Command, args []string) error {
		return Run(cmd, logout)
	},
}

func logout(ctx context.Context, c *Client) error {
	profile := screen.NewProfile(screen.ProfileConfig{
		API:       c.api,
		Session:   c.session,
		Navigator: c.nav,
		Logger:    c.logger,
	})
	profile.Logout(ctx)

	fmt.Fprintln(c.out, "Logged out.")
	return nil
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}
