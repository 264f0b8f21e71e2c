package command

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/clinicmate/clinicmate/internal/clinicapi"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show session, configuration and server reachability",
	RunE: func(cmd *cobra.Command, args []string) error {
		return Run(cmd, status)
	},
}

func status(ctx context.Context, c *Client) error {
	boot := c.Bootstrap(ctx, false)
	defer boot.Close()

	route, err := boot.InitialRoute(ctx)
	if err != nil {
		return err
	}

	tw := newTable(c.out)
	fmt.Fprintf(tw, "Version\t%s (%s)\n", Version, BuildTime)
	fmt.Fprintf(tw, "API\t%s\n", c.api.BaseURL())
	fmt.Fprintf(tw, "Session file\t%s\n", c.store.Path())
	fmt.Fprintf(tw, "Start screen\t%s\n", route)

	info, err := c.session.Inspect(ctx)
	switch {
	case err != nil:
		fmt.Fprintf(tw, "Token\tunreadable (%v)\n", err)
	case !info.Present:
		fmt.Fprintln(tw, "Token\tnone")
	case info.Opaque:
		fmt.Fprintln(tw, "Token\tpresent")
	default:
		fmt.Fprintf(tw, "Token\tuser %s%s\n", info.Subject, expiry(info.ExpiresAt, info.Expired))
	}

	if push, err := c.session.PushToken(ctx); err == nil && push != "" {
		fmt.Fprintln(tw, "Push\tregistered")
	} else {
		fmt.Fprintln(tw, "Push\tnot registered")
	}

	if info != nil && info.Present {
		if _, err := c.api.User(ctx); err != nil {
			fmt.Fprintf(tw, "Server\t%v\n", err)
		} else {
			fmt.Fprintln(tw, "Server\tsession accepted")
		}
		if h := c.registry.Health(clinicapi.ClientName); h != nil {
			fmt.Fprintf(tw, "Circuit\t%s\n", h.State)
		}
	}
	return tw.Flush()
}

func expiry(at *time.Time, expired bool) string {
	switch {
	case at == nil:
		return ""
	case expired:
		return ", expired " + at.Local().Format(time.DateTime)
	default:
		return ", expires " + at.Local().Format(time.DateTime)
	}
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
