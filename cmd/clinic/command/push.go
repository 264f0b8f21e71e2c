package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/clinicmate/clinicmate/internal/notification"
	"github.com/clinicmate/clinicmate/internal/pushrelay"
	"github.com/clinicmate/clinicmate/internal/worker"
)

var (
	pushTo        string
	pushViaPubSub bool
)

var pushCmd = &cobra.Command{
	Use:   "push",
	Short: "Push notification tools",
}

var pushTestCmd = &cobra.Command{
	Use:   "test",
	Short: "Send the sample notification to this device",
	Long:  "The test command sends a sample notification to --to, the stored push token, or a freshly registered one.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return Run(cmd, pushTest)
	},
}

func pushTest(ctx context.Context, c *Client) error {
	to := c.knownPushToken(ctx)

	// The bootstrap stays subscribed to the notification center until the
	// sample has been presented.
	boot := c.Bootstrap(ctx, to == "")
	defer boot.Close()

	if to == "" {
		to = boot.WaitPush(ctx)
	}
	if to == "" {
		return errors.New("no push token available")
	}
	msg := pushrelay.SampleMessage(to)

	if pushViaPubSub {
		return publishPush(ctx, c, msg)
	}

	ticket, err := c.relay.Send(ctx, msg)
	if err != nil {
		return fmt.Errorf("sending push: %w", err)
	}
	fmt.Fprintf(c.out, "Sent, ticket %s\n", ticket.ID)

	n := notification.Notification{
		ID:         ticket.ID,
		Title:      msg.Title,
		Body:       msg.Body,
		Data:       msg.Data,
		ReceivedAt: time.Now(),
	}
	behavior := c.center.DispatchReceived(n)
	if last, ok := boot.LastNotification(); ok {
		fmt.Fprintf(c.out, "Received notification %s: %s\n", last.ID, last.Title)
	}

	if behavior.ShowAlert {
		c.terminal.Alert(msg.Title, msg.Body)
		c.center.DispatchResponse(notification.Response{Notification: n, ActionID: notification.DefaultActionID})
		if resp, ok := boot.LastResponse(); ok {
			fmt.Fprintf(c.out, "Opened notification %s (%s)\n", resp.Notification.ID, resp.ActionID)
		}
	}
	return nil
}

// knownPushToken returns --to or the stored push token, or "".
func (c *Client) knownPushToken(ctx context.Context) string {
	if pushTo != "" {
		return pushTo
	}
	token, err := c.session.PushToken(ctx)
	if err != nil {
		c.logger.Warn().Err(err).Msg("failed to load push token")
		return ""
	}
	return token
}

func publishPush(ctx context.Context, c *Client, msg pushrelay.Message) error {
	if c.cfg.PubSubProjectID == "" {
		return errors.New("CLINIC_PUBSUB_PROJECT_ID is required with --via-pubsub")
	}

	publisher, err := worker.NewPublisher(ctx, c.cfg.PubSubProjectID, c.cfg.PushTopic)
	if err != nil {
		return err
	}
	defer publisher.Close()

	id, err := publisher.PublishPush(ctx, msg)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Queued on %s, message %s\n", c.cfg.PushTopic, id)
	return nil
}

func init() {
	pushTestCmd.Flags().StringVar(&pushTo, "to", "", "Push token to send to")
	pushTestCmd.Flags().BoolVar(&pushViaPubSub, "via-pubsub", false, "Queue the message for the dispatch worker instead of sending it directly")
	pushCmd.AddCommand(pushTestCmd)
	rootCmd.AddCommand(pushCmd)
}
