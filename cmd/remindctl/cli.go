package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"thursday/internal/app/consumers"
	"thursday/internal/app/deps"
	"thursday/internal/app/services"
	c "thursday/internal/core/domain/common"
	"thursday/internal/core/domain/reminder"
	sv "thursday/internal/core/services"
	createreminderfrommessage "thursday/internal/core/services/create_reminder_from_message"
	deletereminder "thursday/internal/core/services/delete_reminder"
	listreminders "thursday/internal/core/services/list_reminders"
	intentdetector "thursday/internal/implementations/intent_detector"
	timeexpressionparser "thursday/internal/implementations/time_expression_parser"
	notificationrelay "thursday/internal/rabbitmq/consumers/notification_relay"
	"thursday/internal/rabbitmq/schema"
	"time"

	"github.com/spf13/cobra"
)

const timeLayout = "2006-01-02 15:04:05 MST"

// backend is what the store-backed commands need. It is built lazily so
// that parse and detect work without any infrastructure.
type backend struct {
	ListReminders             sv.Service[listreminders.Input, listreminders.Result]
	DeleteReminder            sv.Service[deletereminder.Input, deletereminder.Result]
	CreateReminderFromMessage sv.Service[createreminderfrommessage.Input, createreminderfrommessage.Result]
	Tail                      func(ctx context.Context, handle notificationrelay.Handle) error
}

type CLI struct {
	out      io.Writer
	now      func() time.Time
	parser   reminder.TimeExpressionParser
	detector reminder.IntentDetector
	connect  func() (*backend, func(), error)
}

func newCLI(out io.Writer) *CLI {
	parser := timeexpressionparser.NewInLocation(time.Local)
	return &CLI{
		out:      out,
		now:      time.Now,
		parser:   parser,
		detector: intentdetector.New(parser),
		connect:  connect,
	}
}

func connect() (*backend, func(), error) {
	d, shutdownDeps := deps.InitDeps()
	s := services.InitServices(d)
	return &backend{
		ListReminders:             s.ListReminders,
		DeleteReminder:            s.DeleteReminder,
		CreateReminderFromMessage: s.CreateReminderFromMessage,
		Tail: func(ctx context.Context, handle notificationrelay.Handle) error {
			consumer, closeRelay, err := consumers.InitNotificationRelay(d, handle)
			if err != nil {
				return err
			}
			defer closeRelay()
			return consumer.Consume(ctx)
		},
	}, shutdownDeps, nil
}

func newRootCommand(cli *CLI) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "remindctl",
		Short:         "Inspect and manage Thursday reminders",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetOut(cli.out)

	rootCmd.AddCommand(newActiveCommand(cli))
	rootCmd.AddCommand(newAllCommand(cli))
	rootCmd.AddCommand(newDeleteCommand(cli))
	rootCmd.AddCommand(newParseCommand(cli))
	rootCmd.AddCommand(newDetectCommand(cli))
	rootCmd.AddCommand(newRemindCommand(cli))
	rootCmd.AddCommand(newTailCommand(cli))
	return rootCmd
}

func newActiveCommand(cli *CLI) *cobra.Command {
	return &cobra.Command{
		Use:   "active",
		Short: "List pending reminders, soonest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.withBackend(func(b *backend) error {
				result, err := b.ListReminders.Run(cmd.Context(), listreminders.Input{})
				if err != nil {
					return err
				}
				return cli.printReminders(result.Reminders)
			})
		},
	}
}

func newAllCommand(cli *CLI) *cobra.Command {
	var limit uint
	cmd := &cobra.Command{
		Use:   "all",
		Short: "List every reminder including fired ones, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			input := listreminders.Input{
				All:   true,
				Limit: c.NewOptional(limit, cmd.Flags().Changed("limit")),
			}
			if input.Limit.IsPresent && limit == 0 {
				return fmt.Errorf("--limit must be positive")
			}
			return cli.withBackend(func(b *backend) error {
				result, err := b.ListReminders.Run(cmd.Context(), input)
				if err != nil {
					return err
				}
				return cli.printReminders(result.Reminders)
			})
		},
	}
	cmd.Flags().UintVarP(&limit, "limit", "n", listreminders.DEFAULT_LIMIT, "Maximum number of reminders")
	return cmd
}

func newDeleteCommand(cli *CLI) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a reminder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || id <= 0 {
				return fmt.Errorf("invalid reminder id %q", args[0])
			}
			return cli.withBackend(func(b *backend) error {
				_, err := b.DeleteReminder.Run(cmd.Context(), deletereminder.Input{ReminderID: reminder.ID(id)})
				if errors.Is(err, reminder.ErrReminderDoesNotExist) {
					return fmt.Errorf("reminder #%d does not exist", id)
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(cli.out, "Deleted reminder #%d.\n", id)
				return nil
			})
		},
	}
}

func newParseCommand(cli *CLI) *cobra.Command {
	return &cobra.Command{
		Use:   "parse <expression>",
		Short: "Resolve a time expression against the current time",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			now := cli.now()
			triggerAt, err := cli.parser.Parse(strings.Join(args, " "), now)
			if err != nil {
				return err
			}
			fmt.Fprintf(cli.out, "%s (%s)\n", triggerAt.Format(timeLayout), reminder.Countdown(triggerAt.Sub(now)))
			return nil
		},
	}
}

func newDetectCommand(cli *CLI) *cobra.Command {
	return &cobra.Command{
		Use:   "detect <text>",
		Short: "Show the reminder intent found in a message without storing it",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			intent, ok := cli.detector.Detect(strings.Join(args, " "), cli.now())
			if !ok {
				fmt.Fprintln(cli.out, "No reminder intent found.")
				return nil
			}
			cli.printIntent(intent)
			return nil
		},
	}
}

func newRemindCommand(cli *CLI) *cobra.Command {
	return &cobra.Command{
		Use:   "remind <text>",
		Short: "Create a reminder from a natural language message",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.withBackend(func(b *backend) error {
				result, err := b.CreateReminderFromMessage.Run(
					cmd.Context(),
					createreminderfrommessage.Input{Text: strings.Join(args, " ")},
				)
				if err != nil {
					return err
				}
				if !result.Intent.IsPresent {
					fmt.Fprintln(cli.out, "No reminder intent found.")
					return nil
				}
				if !result.Reminder.IsPresent {
					return fmt.Errorf("reminder intent found but the reminder could not be stored")
				}
				rem := result.Reminder.Value
				fmt.Fprintf(
					cli.out,
					"Created reminder #%d %q at %s (%s).\n",
					rem.ID,
					rem.Message,
					rem.TriggerAt.Local().Format(timeLayout),
					reminder.Countdown(rem.TriggerAt.Sub(cli.now())),
				)
				return nil
			})
		},
	}
}

func newTailCommand(cli *CLI) *cobra.Command {
	return &cobra.Command{
		Use:   "tail",
		Short: "Print notifications published to the RabbitMQ queue as they arrive",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.withBackend(func(b *backend) error {
				return b.Tail(cmd.Context(), func(ctx context.Context, n schema.Notification) error {
					_, err := fmt.Fprintf(cli.out, "[%s] %s\n", n.SentAt.Local().Format(timeLayout), n.Text)
					return err
				})
			})
		},
	}
}

func (cli *CLI) withBackend(run func(b *backend) error) error {
	b, shutdown, err := cli.connect()
	if err != nil {
		return err
	}
	defer shutdown()
	return run(b)
}

func (cli *CLI) printReminders(reminders []reminder.Reminder) error {
	if len(reminders) == 0 {
		fmt.Fprintln(cli.out, "No reminders.")
		return nil
	}
	now := cli.now()
	w := tabwriter.NewWriter(cli.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTRIGGER AT\tSTATE\tDUE\tMESSAGE")
	for _, rem := range reminders {
		due := "-"
		if !rem.Fired {
			due = reminder.Countdown(rem.TriggerAt.Sub(now))
		}
		fmt.Fprintf(
			w,
			"%d\t%s\t%s\t%s\t%s\n",
			rem.ID,
			rem.TriggerAt.Local().Format(timeLayout),
			rem.State(),
			due,
			rem.Message,
		)
	}
	return w.Flush()
}

func (cli *CLI) printIntent(intent reminder.Intent) {
	fmt.Fprintf(cli.out, "Time:    %s\n", intent.TimeExpression)
	fmt.Fprintf(cli.out, "Message: %s\n", intent.Message)
	fmt.Fprintf(
		cli.out,
		"Fires:   %s (%s)\n",
		intent.TriggerAt.Local().Format(timeLayout),
		reminder.Countdown(intent.TriggerAt.Sub(cli.now())),
	)
}
