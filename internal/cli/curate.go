package cli

import (
	"fmt"
	"net/mail"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/wevity-contests/internal/contest"
	"github.com/pfrederiksen/wevity-contests/internal/export"
	"github.com/pfrederiksen/wevity-contests/internal/logger"
	"github.com/pfrederiksen/wevity-contests/internal/notifier"
	"github.com/pfrederiksen/wevity-contests/internal/storage"
)

// loadSelection loads the saved results, sorts them and applies a 1-based selection.
// Numbering always follows the sorted order so list and export/send agree.
func (a *app) loadSelection(sortFlag, selection string) (*storage.Results, []*contest.Record, error) {
	order, err := ParseSortOrder(sortFlag)
	if err != nil {
		return nil, nil, err
	}

	store, err := a.storage()
	if err != nil {
		return nil, nil, err
	}
	results, err := store.Load()
	if err != nil {
		return nil, nil, err
	}

	sortRecords(results.Records, order)

	selected, err := storage.Select(results.Records, selection)
	if err != nil {
		return nil, nil, err
	}
	return results, selected, nil
}

func newListCmd(a *app) *cobra.Command {
	var sortFlag, formatFlag string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show the saved results of the last search",
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := ParseOutputFormat(formatFlag)
			if err != nil {
				return err
			}

			results, records, err := a.loadSelection(sortFlag, "")
			if err != nil {
				return err
			}

			out := newOutputResult(results.Keyword, results.Window.String(), results.SearchedAt, records, a.now())
			return WriteOutput(a.stdout, out, format, a.verbose, a.now())
		},
	}

	cmd.Flags().StringVar(&sortFlag, "sort", "", "Sort order: deadline, latest, title or prize (default saved order)")
	cmd.Flags().StringVar(&formatFlag, "format", "text", "Output format: text or json")

	return cmd
}

func newExportCmd(a *app) *cobra.Command {
	var formatFlag, output, selection, sortFlag string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export saved results to CSV, Excel, JSON, SQLite or iCalendar",
		Example: `  wevity-contests export --output contests.csv
  wevity-contests export --output contests.xlsx --sort deadline
  wevity-contests export --format ics --output deadlines.ics --select 1,3,5-7`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := export.ParseFormat(formatFlag, output)
			if err != nil {
				return err
			}

			_, records, err := a.loadSelection(sortFlag, selection)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				return fmt.Errorf("nothing to export: the last search found no contests")
			}

			if err := export.ToFile(cmd.Context(), format, output, records, a.now()); err != nil {
				return err
			}

			a.log.Info("Exported records", logger.Fields{"format": string(format), "path": output, "records": len(records)})
			fmt.Fprintf(a.stdout, "Exported %d contests to %s (%s)\n", len(records), output, format)
			return nil
		},
	}

	cmd.Flags().StringVar(&formatFlag, "format", "", "Export format: csv, xlsx, json, sqlite or ics (default from --output extension)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (required)")
	cmd.Flags().StringVar(&selection, "select", "", "Records to export by list number, e.g. 1,3,5-7 (default all)")
	cmd.Flags().StringVar(&sortFlag, "sort", "", "Sort order applied before --select")

	_ = cmd.MarkFlagRequired("output")

	return cmd
}

// Channel names for the send command
const (
	ChannelEmail    = "email"
	ChannelResend   = "resend"
	ChannelTwitter  = "twitter"
	ChannelTelegram = "telegram"
	ChannelDryRun   = "dry-run"
)

func newSendCmd(a *app) *cobra.Command {
	var channel, to, selection, sortFlag string

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Send saved results as a newsletter or tweets",
		Long: `Send the saved results of the last search.

Channels:
  email    HTML newsletter over SMTP (EMAIL_HOST, EMAIL_PORT, EMAIL, PASSWORD)
  resend   HTML newsletter through the Resend API (RESEND_API_KEY, RESEND_FROM)
  twitter  one tweet per contest (TWITTER_API_KEY, TWITTER_API_SECRET,
           TWITTER_ACCESS_TOKEN, TWITTER_ACCESS_SECRET)
  telegram digest message to a chat (TELEGRAM_BOT_TOKEN, TELEGRAM_CHAT_ID)
  dry-run  print what would be sent`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, records, err := a.loadSelection(sortFlag, selection)
			if err != nil {
				return err
			}

			n, err := a.buildNotifier(channel, to)
			if err != nil {
				return err
			}

			if err := n.Notify(cmd.Context(), records); err != nil {
				return fmt.Errorf("sending via %s: %w", channel, err)
			}

			if channel != ChannelDryRun {
				fmt.Fprintf(a.stdout, "Sent %d contests via %s\n", len(records), channel)
			}
			a.writeMetrics()
			return nil
		},
	}

	cmd.Flags().StringVar(&channel, "channel", ChannelDryRun, "Delivery channel: email, resend, twitter, telegram or dry-run")
	cmd.Flags().StringVar(&to, "to", "", "Recipient addresses, comma separated (default email.to from config)")
	cmd.Flags().StringVar(&selection, "select", "", "Records to send by list number, e.g. 1,3,5-7 (default all)")
	cmd.Flags().StringVar(&sortFlag, "sort", "", "Sort order applied before --select")

	return cmd
}

func (a *app) buildNotifier(channel, to string) (notifier.Notifier, error) {
	emailCfg := a.cfg.Email
	if to == "" {
		to = emailCfg.To
	}

	switch strings.ToLower(strings.TrimSpace(channel)) {
	case ChannelEmail:
		mailer, err := notifier.NewSMTPMailer(notifier.SMTPConfig{
			Host:     emailCfg.Host,
			Port:     emailCfg.Port,
			Username: emailCfg.Username,
			Password: emailCfg.Password,
		})
		if err != nil {
			return nil, err
		}
		from := mail.Address{Name: emailCfg.SenderName, Address: emailCfg.Username}
		return notifier.NewEmailNotifier(mailer, from, to, a.now, a.log)

	case ChannelResend:
		if emailCfg.ResendFrom == "" {
			return nil, fmt.Errorf("missing Resend sender address (set RESEND_FROM)")
		}
		from, err := mail.ParseAddress(emailCfg.ResendFrom)
		if err != nil {
			return nil, fmt.Errorf("invalid RESEND_FROM %q: %w", emailCfg.ResendFrom, err)
		}
		if from.Name == "" {
			from.Name = emailCfg.SenderName
		}
		mailer, err := notifier.NewResendMailer(emailCfg.ResendAPIKey, a.log)
		if err != nil {
			return nil, err
		}
		return notifier.NewEmailNotifier(mailer, *from, to, a.now, a.log)

	case ChannelTwitter:
		return notifier.NewTwitterNotifier(a.cfg.Twitter, a.log)

	case ChannelTelegram:
		return notifier.NewTelegramNotifier(a.cfg.Telegram.BotToken, a.cfg.Telegram.ChatID, a.log)

	case ChannelDryRun:
		return notifier.NewDryRunNotifier(a.stdout, a.now), nil

	default:
		return nil, fmt.Errorf("unknown channel %q (want email, resend, twitter, telegram or dry-run)", channel)
	}
}
