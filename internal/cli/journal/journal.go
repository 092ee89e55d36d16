package journal

import (
	"context"
	"fmt"
	"strings"

	"github.com/momentumx/momentumx/internal/cli"
	"github.com/momentumx/momentumx/internal/sanitize"
	"github.com/momentumx/momentumx/internal/tracker"
)

type JournalCmd struct {
	Add    JournalAddCmd    `cmd:"" help:"Write a journal entry."`
	List   JournalListCmd   `cmd:"" help:"List journal entries."`
	Delete JournalDeleteCmd `cmd:"" help:"Delete a journal entry."`
}

type JournalAddCmd struct {
	Content string   `arg:"" help:"Entry text."`
	Title   string   `short:"t" help:"Entry title."`
	Day     string   `help:"Date in YYYY-MM-DD format (default: today)."`
	Mood    int      `short:"m" help:"Mood from 1 to 10." default:"5"`
	Tags    []string `help:"Comma-separated tags." sep:","`
}

func (c *JournalAddCmd) Run(ctx *cli.Context) error {
	if _, err := ctx.ResolveTier(context.Background()); err != nil {
		return err
	}

	entry, err := ctx.Tracker.AddJournalEntry(tracker.JournalInput{
		Day:     c.Day,
		Title:   c.Title,
		Content: c.Content,
		Mood:    c.Mood,
		Tags:    c.Tags,
	})
	if err != nil {
		return err
	}
	fmt.Printf("Added journal entry for %s (ID: %s)\n", entry.Day, entry.ID)
	return nil
}

type JournalListCmd struct {
	From string `help:"First day to include (YYYY-MM-DD)."`
	To   string `help:"Last day to include (YYYY-MM-DD)."`
}

func (c *JournalListCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}
	for _, d := range []string{c.From, c.To} {
		if d != "" && sanitize.Date(d) == "" {
			return fmt.Errorf("invalid date format: %s (expected YYYY-MM-DD)", d)
		}
	}

	entries, err := ctx.Store.GetJournalEntries(sanitize.Date(c.From), sanitize.Date(c.To))
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("No journal entries found.")
		return nil
	}

	for _, e := range entries {
		title := e.Title
		if title == "" {
			title = "(untitled)"
		}
		fmt.Printf("%s  %s  mood %d/10\n", cli.Heading(e.Day), title, e.Mood)
		fmt.Printf("  %s\n", strings.ReplaceAll(e.Content, "\n", "\n  "))
		if len(e.Tags) > 0 {
			fmt.Println(cli.Muted("  #" + strings.Join(e.Tags, " #")))
		}
		fmt.Println(cli.Muted("  " + e.ID))
	}
	return nil
}

type JournalDeleteCmd struct {
	ID string `arg:"" help:"Journal entry ID."`
}

func (c *JournalDeleteCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}
	if err := ctx.Store.DeleteJournalEntry(c.ID); err != nil {
		return err
	}
	fmt.Printf("Deleted journal entry %s\n", c.ID)
	return nil
}
