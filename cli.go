package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/CrowderSoup/couple-calendar/calendar"
	"github.com/CrowderSoup/couple-calendar/database"
	"github.com/CrowderSoup/couple-calendar/services"
	"github.com/CrowderSoup/couple-calendar/ui"
)

// cliOptions are the flags shared by every client command
type cliOptions struct {
	apiURL  string
	logFile string
}

func newRootCmd() *cobra.Command {
	opts := &cliOptions{}

	root := &cobra.Command{
		Use:   "couplecal",
		Short: "Couple Calendar - a shared calendar for two",
		Long: `Couple Calendar keeps the activities two people plan together.

Run "couplecal serve" to start the task API, then browse it with the tui,
month and day commands or change it with add and rm.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return services.LoadEnv(".env")
		},
	}

	root.PersistentFlags().StringVar(&opts.apiURL, "api", "", "task API base URL (default $API_URL or http://localhost:3001)")

	tuiCmd := newTUICmd(opts)
	tuiCmd.Flags().StringVar(&opts.logFile, "log-file", "", "write client logs to this file")

	root.AddCommand(
		newServeCmd(),
		newMonthCmd(opts),
		newDayCmd(opts),
		newAddCmd(opts),
		newRmCmd(opts),
		tuiCmd,
	)
	return root
}

func (o *cliOptions) client() (*services.Client, error) {
	cfg, err := services.LoadClientConfig(".")
	if err != nil {
		return nil, err
	}
	base := cfg.APIURL
	if o.apiURL != "" {
		base = o.apiURL
	}
	return services.NewClient(base, nil), nil
}

func newMonthCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "month [YYYY-MM]",
		Short: "Print a month grid with its activities",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			now := time.Now()
			month := calendar.MonthOf(now)
			if len(args) == 1 {
				m, err := calendar.ParseMonth(args[0])
				if err != nil {
					return err
				}
				month = m
			}

			c, err := opts.client()
			if err != nil {
				return err
			}
			tasks, err := c.ListTasks(cmd.Context(), "")
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), ui.RenderMonth(ui.MonthView{
				Month:  month,
				Tasks:  tasks,
				Cursor: -1,
				Now:    now,
			}))
			return nil
		},
	}
}

func newDayCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "day YYYY-MM-DD",
		Short: "List the activities on one day",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := calendar.ParseDate(args[0]); err != nil {
				return err
			}

			c, err := opts.client()
			if err != nil {
				return err
			}
			tasks, err := c.ListTasks(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printTasks(cmd.OutOrStdout(), tasks)
			return nil
		},
	}
}

func printTasks(w io.Writer, tasks []database.Task) {
	if len(tasks) == 0 {
		fmt.Fprintln(w, "No activities yet for this day")
		return
	}
	for _, t := range tasks {
		when := t.Time
		if when == "" {
			when = "-"
		}
		line := fmt.Sprintf("%s  %-5s  %-4s  %s", t.ID, when, t.Person, t.Title)
		if t.Description != "" {
			line += " - " + t.Description
		}
		fmt.Fprintln(w, line)
	}
}

func newAddCmd(opts *cliOptions) *cobra.Command {
	var in database.NewTask
	var person string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an activity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in.Person = database.Person(strings.ToLower(person))
			if in.Date == "" {
				in.Date = calendar.FormatDate(time.Now())
			}

			c, err := opts.client()
			if err != nil {
				return err
			}
			task, err := c.CreateTask(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %q on %s (%s)\n", task.Title, task.Date, task.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&in.Title, "title", "", "activity title (required)")
	cmd.Flags().StringVar(&in.Description, "description", "", "optional description")
	cmd.Flags().StringVar(&in.Time, "time", "", "optional time, e.g. 19:30")
	cmd.Flags().StringVar(&person, "person", string(database.PersonNut), "who it is for: nut, nice or both")
	cmd.Flags().StringVar(&in.Date, "date", "", "day as YYYY-MM-DD (default today)")
	return cmd
}

func newRmCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rm ID",
		Short: "Delete an activity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.client()
			if err != nil {
				return err
			}
			if err := c.DeleteTask(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return nil
		},
	}
}

func newTUICmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Browse and edit the calendar interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := opts.client()
			if err != nil {
				return err
			}

			// the alt screen owns the terminal, so logs go to a file or nowhere
			var w io.Writer = io.Discard
			if opts.logFile != "" {
				f, err := os.OpenFile(opts.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
				if err != nil {
					return fmt.Errorf("failed to open log file: %w", err)
				}
				defer f.Close()
				w = f
			}
			logger := slog.New(slog.NewTextHandler(w, nil))

			return ui.Run(ui.NewController(c, logger))
		},
	}
}
