package command

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/clinicmate/clinicmate/internal/screen"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show your patient profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		return Run(cmd, showProfile)
	},
}

func showProfile(ctx context.Context, c *Client) error {
	view, err := screen.NewProfile(screen.ProfileConfig{
		API:       c.api,
		Session:   c.session,
		Navigator: c.nav,
		Logger:    c.logger,
	}).Mount(ctx)
	if err != nil {
		c.printLoginHint()
		return alerted(err)
	}
	return renderProfile(c.out, view)
}

func init() {
	rootCmd.AddCommand(profileCmd)
}
