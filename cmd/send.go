package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/webitel/wlog"

	"github.com/kirychukyurii/checknotifier/listener/webhook"
	"github.com/kirychukyurii/checknotifier/model"
	"github.com/kirychukyurii/checknotifier/notifier"
)

func sendCommand(log *wlog.Logger) *cobra.Command {
	var file string

	c := &cobra.Command{
		Use:          "send",
		Short:        "Send one notification document and print delivery results",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(log)
			if err != nil {
				return err
			}

			n, err := readNotification(cmd.InOrStdin(), file)
			if err != nil {
				return err
			}

			registry := notifier.NewRegistry(log, notifier.NewNotifiers(log, cfg.BaseURL, cfg.Notifiers))

			return send(cmd.Context(), registry, n, cmd.OutOrStdout())
		},
	}

	c.Flags().StringVarP(&file, "file", "f", "-", "notification document, - reads stdin")

	return c
}

func readNotification(stdin io.Reader, file string) (*model.Notification, error) {
	r := stdin
	if file != "-" {
		f, err := os.Open(file)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		r = f
	}

	var n model.Notification
	if err := json.NewDecoder(r).Decode(&n); err != nil {
		return nil, fmt.Errorf("decode notification: %w", err)
	}

	if err := n.Validate(); err != nil {
		return nil, err
	}

	return &n, nil
}

func send(ctx context.Context, d webhook.Dispatcher, n *model.Notification, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	reports, err := d.Dispatch(ctx, n.Check, n.Subscription, n.Alerts...)

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if encErr := enc.Encode(webhook.NewResult(reports)); encErr != nil {
		return encErr
	}

	return err
}
