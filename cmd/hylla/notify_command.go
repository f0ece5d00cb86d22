package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"hylla/internal/notifications"
)

func newTestNotifyCommand(cctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "notify-test",
		Short: "Send a test notification to the configured ntfy topic",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cctx.ensureConfig()
			if err != nil {
				return err
			}
			if cfg.Notifications.NtfyTopic == "" {
				return fmt.Errorf("no ntfy_topic configured")
			}
			svc := notifications.NewService(cfg)
			if err := svc.TestNotification(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Test notification sent")
			return nil
		},
	}
}
