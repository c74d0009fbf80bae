package command

import (
	"fmt"
	"os"
	"os/signal"

	"veritaslab/cmd/cli/dto"

	"github.com/spf13/cobra"
)

var notificationsCmd = &cobra.Command{
	Use:     "notifications",
	Aliases: []string{"notif"},
	Short:   "Read your notifications",
}

var listNotificationsCmd = &cobra.Command{
	Use:   "list",
	Short: "Show your latest notifications",
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := requireSession()
		if err != nil {
			return err
		}

		notifications, unread, err := newClient().Notifications(cmd.Context(), sess)
		if err != nil {
			return fmt.Errorf("failed to list notifications: %w", err)
		}

		w := cmd.OutOrStdout()
		if len(notifications) == 0 {
			fmt.Fprintln(w, "No notifications.")
			return nil
		}
		mutedColor.Fprintf(w, "%d unread\n\n", unread)
		for _, n := range notifications {
			printNotification(w, n)
		}
		return nil
	},
}

var readNotificationCmd = &cobra.Command{
	Use:   "read [id]",
	Short: "Mark a notification as read",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseIDArg(args[0], "notification")
		if err != nil {
			return err
		}
		sess, err := requireSession()
		if err != nil {
			return err
		}
		if err := newClient().MarkRead(cmd.Context(), sess, id); err != nil {
			return fmt.Errorf("failed to mark notification: %w", err)
		}
		success(cmd.OutOrStdout(), "Notification %d marked as read", id)
		return nil
	},
}

var readAllNotificationsCmd = &cobra.Command{
	Use:   "read-all",
	Short: "Mark every notification as read",
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := requireSession()
		if err != nil {
			return err
		}
		if err := newClient().MarkAllRead(cmd.Context(), sess); err != nil {
			return fmt.Errorf("failed to mark notifications: %w", err)
		}
		success(cmd.OutOrStdout(), "All notifications marked as read")
		return nil
	},
}

var unreadCmd = &cobra.Command{
	Use:   "unread",
	Short: "Print the number of unread notifications",
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := requireSession()
		if err != nil {
			return err
		}
		count, err := newClient().UnreadCount(cmd.Context(), sess)
		if err != nil {
			return fmt.Errorf("failed to count notifications: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), count)
		return nil
	},
}

var watchNotificationsCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print new notifications as they arrive (Ctrl+C to stop)",
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := requireSession()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		w := cmd.OutOrStdout()
		mutedColor.Fprintln(w, "Watching for notifications...")
		err = newClient().WatchNotifications(ctx, sess, func(n dto.Notification) {
			printNotification(w, n)
		})
		if err != nil {
			return fmt.Errorf("failed to watch notifications: %w", err)
		}
		return nil
	},
}

func init() {
	notificationsCmd.AddCommand(listNotificationsCmd, readNotificationCmd, readAllNotificationsCmd, unreadCmd, watchNotificationsCmd)
}
