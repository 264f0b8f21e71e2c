package command

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/clinicmate/clinicmate/internal/nav"
	"github.com/clinicmate/clinicmate/internal/screen"
)

var (
	loginEmail    string
	loginPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and register this device for notifications",
	Long:  "The login command exchanges email and password for a session token. Missing values are prompted for.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return Run(cmd, login)
	},
}

func login(ctx context.Context, c *Client) error {
	email := loginEmail
	if email == "" {
		email = c.prompt("Email: ")
	}
	password := loginPassword
	if password == "" {
		password = c.promptSecret("Password: ")
	}

	// Submit raises the validation alert; push registration never starts.
	if err := screen.ValidateCredentials(email, password); err != nil {
		return alerted(c.loginForm(nil).Submit(ctx, email, password))
	}

	boot := c.Bootstrap(ctx, true)
	defer boot.Close()
	defer boot.WaitPush(ctx)

	if route, err := boot.InitialRoute(ctx); err == nil && route == nav.RouteHomeTabs {
		c.logger.Info().Msg("replacing existing session")
	}

	if err := c.loginForm(boot.WaitPush).Submit(ctx, email, password); err != nil {
		return alerted(err)
	}

	fmt.Fprintln(c.out, "Logged in.")
	if token, ok := boot.PushToken(); ok && token != "" {
		fmt.Fprintln(c.out, "Push notifications enabled.")
	}
	renderTabs(c.out)
	return nil
}

func (c *Client) loginForm(pushToken screen.PushTokenFunc) *screen.Login {
	return screen.NewLogin(screen.LoginConfig{
		API:       c.api,
		Session:   c.session,
		Navigator: c.nav,
		Alerter:   c.terminal,
		PushToken: pushToken,
		Logger:    c.logger,
	})
}

func (c *Client) prompt(label string) string {
	fmt.Fprint(c.out, label)
	line, _ := c.in.ReadString('\n')
	return strings.TrimRight(line, "\r\n")
}

// promptSecret reads without echo when stdin is a terminal.
func (c *Client) promptSecret(label string) string {
	f, ok := c.stdin.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return c.prompt(label)
	}

	fmt.Fprint(c.out, label)
	secret, err := term.ReadPassword(int(f.Fd()))
	fmt.Fprintln(c.out)
	if err != nil {
		c.logger.Warn().Err(err).Msg("failed to read password")
		return ""
	}
	return string(secret)
}

func init() {
	loginCmd.Flags().StringVarP(&loginEmail, "email", "e", "", "Account email")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "Account password")
	rootCmd.AddCommand(loginCmd)
}
