// Copyright (c) 2025 Mamajin.
// Licensed under the MIT License. See LICENSE.

// Package admin implements the maintenance commands run as `kupolls <command>`.
package admin

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/Mamajin/ku-polls/auth"
	"github.com/Mamajin/ku-polls/models"
	"github.com/Mamajin/ku-polls/store"
)

var ErrUnknownCommand = errors.New("unknown command")

type command struct {
	usage string
	run   func(ctx context.Context, st *store.Store, args []string, out io.Writer) error
}

var commands = map[string]command{
	"createuser":  {"createuser -username NAME -password PASS", createUser},
	"addquestion": {"addquestion -text TEXT [-pub RFC3339] [-end RFC3339] -choice A -choice B ...", addQuestion},
	"setend":      {"setend -id N -end RFC3339|none", setEnd},
	"delquestion": {"delquestion -id N", delQuestion},
	"list":        {"list", list},
}

// IsCommand reports whether name is an admin command
func IsCommand(name string) bool {
	_, ok := commands[name]
	return ok
}

// Usage lists the available commands
func Usage() string {
	var b strings.Builder
	b.WriteString("commands:\n")
	for _, name := range []string{"createuser", "addquestion", "setend", "delquestion", "list"} {
		fmt.Fprintf(&b, "  kupolls %s\n", commands[name].usage)
	}
	return b.String()
}

// Run executes args[0] with the remaining arguments
func Run(ctx context.Context, st *store.Store, args []string, out io.Writer) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: none given\n%s", ErrUnknownCommand, Usage())
	}
	cmd, ok := commands[args[0]]
	if !ok {
		return fmt.Errorf("%w: %q\n%s", ErrUnknownCommand, args[0], Usage())
	}
	return cmd.run(ctx, st, args[1:], out)
}

// stringList collects a repeatable flag
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ", ") }

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

// parseTime accepts RFC3339; "" yields the zero time
func parseTime(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q, want RFC3339: %w", value, err)
	}
	return t, nil
}

func createUser(ctx context.Context, st *store.Store, args []string, out io.Writer) error {
	fs := newFlagSet("createuser")
	username := fs.String("username", "", "login name")
	password := fs.String("password", "", "password")
	if err := fs.Parse(args); err != nil {
		return err
	}

	hash, err := auth.HashPassword(*password)
	if err != nil {
		return err
	}

	user, err := st.CreateUser(ctx, *username, hash, time.Now())
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "created user %d %s\n", user.ID, user.Username)
	return nil
}

func addQuestion(ctx context.Context, st *store.Store, args []string, out io.Writer) error {
	fs := newFlagSet("addquestion")
	text := fs.String("text", "", "question text")
	pub := fs.String("pub", "", "publish time (RFC3339, default now)")
	end := fs.String("end", "", "end time (RFC3339, default none)")
	var choices stringList
	fs.Var(&choices, "choice", "choice text (repeatable)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	pubDate, err := parseTime(*pub)
	if err != nil {
		return err
	}
	q := models.Question{Text: *text, PubDate: pubDate}
	if *end != "" {
		endDate, err := parseTime(*end)
		if err != nil {
			return err
		}
		q.EndDate = &endDate
	}

	q, created, err := st.CreateQuestion(ctx, q, choices, time.Now())
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "created question %d %q with %d choices\n", q.ID, q.Text, len(created))
	for _, c := range created {
		fmt.Fprintf(out, "  choice %d %q\n", c.ID, c.Text)
	}
	return nil
}

func setEnd(ctx context.Context, st *store.Store, args []string, out io.Writer) error {
	fs := newFlagSet("setend")
	id := fs.Int64("id", 0, "question id")
	end := fs.String("end", "", `end time (RFC3339) or "none"`)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *end == "" {
		return errors.New(`-end is required (RFC3339 or "none")`)
	}

	var endDate *time.Time
	if *end != "none" {
		t, err := parseTime(*end)
		if err != nil {
			return err
		}
		endDate = &t
	}

	if err := st.SetEndDate(ctx, *id, endDate); err != nil {
		return err
	}

	if endDate == nil {
		fmt.Fprintf(out, "question %d has no end date\n", *id)
	} else {
		fmt.Fprintf(out, "question %d ends %s\n", *id, endDate.UTC().Format(time.RFC3339))
	}
	return nil
}

func delQuestion(ctx context.Context, st *store.Store, args []string, out io.Writer) error {
	fs := newFlagSet("delquestion")
	id := fs.Int64("id", 0, "question id")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := st.DeleteQuestion(ctx, *id); err != nil {
		return err
	}

	fmt.Fprintf(out, "deleted question %d\n", *id)
	return nil
}

func list(ctx context.Context, st *store.Store, args []string, out io.Writer) error {
	questions, err := st.ListQuestions(ctx)
	if err != nil {
		return err
	}

	now := time.Now()
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tQUESTION\tPUBLISHED\tENDS\tSTATUS\tVOTES")
	for _, q := range questions {
		tally, err := st.Tally(ctx, q.ID)
		if err != nil {
			return err
		}
		votes := 0
		for _, c := range tally {
			votes += c.Votes
		}

		ends := "-"
		if q.EndDate != nil {
			ends = humanize.Time(*q.EndDate)
		}

		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%d\n",
			q.ID, q.Text, humanize.Time(q.PubDate), ends, status(q, now), votes)
	}
	return tw.Flush()
}

func status(q models.Question, now time.Time) string {
	switch {
	case !q.IsPublished(now):
		return "scheduled"
	case q.CanVote(now):
		return "open"
	default:
		return "closed"
	}
}
