package journal

import (
	"fmt"
	"strings"
	"time"

	"github.com/momentumx/momentumx/internal/cli"
	"github.com/momentumx/momentumx/internal/constants"
	"github.com/momentumx/momentumx/internal/models"
	"github.com/momentumx/momentumx/internal/sanitize"
	"github.com/momentumx/momentumx/internal/tracker"
)

type ReviewCmd struct {
	Save ReviewSaveCmd `cmd:"" help:"Write or replace the review for a week."`
	List ReviewListCmd `cmd:"" help:"List weekly reviews."`
	Show ReviewShowCmd `cmd:"" help:"Show the review for a week."`
}

type ReviewSaveCmd struct {
	Week       string `help:"Any day in the week being reviewed (default: this week)."`
	Wins       string `help:"What went well."`
	Challenges string `help:"What was hard."`
	Lessons    string `help:"What you learned."`
	NextFocus  string `name:"next" help:"Focus for next week."`
	Rating     int    `short:"r" help:"Week rating from 1 to 5." default:"3"`
}

func (c *ReviewSaveCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	review, err := ctx.Tracker.SaveWeeklyReview(tracker.ReviewInput{
		Week:       c.Week,
		Wins:       c.Wins,
		Challenges: c.Challenges,
		Lessons:    c.Lessons,
		NextFocus:  c.NextFocus,
		Rating:     c.Rating,
	})
	if err != nil {
		return err
	}
	fmt.Printf("Saved review for week of %s\n", review.WeekStart)
	return nil
}

type ReviewListCmd struct{}

func (c *ReviewListCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}
	reviews, err := ctx.Store.GetWeeklyReviews()
	if err != nil {
		return err
	}
	if len(reviews) == 0 {
		fmt.Println("No weekly reviews found.")
		return nil
	}
	for _, r := range reviews {
		fmt.Printf("%s  %s\n", r.WeekStart, stars(r.Rating))
	}
	return nil
}

type ReviewShowCmd struct {
	Week string `arg:"" optional:"" help:"Any day in the week (default: this week)."`
}

func (c *ReviewShowCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	day := ctx.Tracker.Now()
	if c.Week != "" {
		d, err := time.Parse(constants.DateFormat, sanitize.Date(c.Week))
		if err != nil {
			return fmt.Errorf("invalid date format: %s (expected YYYY-MM-DD)", c.Week)
		}
		day = d
	}

	r, err := ctx.Store.GetWeeklyReview(models.WeekStart(day))
	if err != nil {
		return err
	}
	fmt.Println(cli.Heading("Week of " + r.WeekStart + "  " + stars(r.Rating)))
	for _, f := range []struct{ label, value string }{
		{"Wins", r.Wins},
		{"Challenges", r.Challenges},
		{"Lessons", r.Lessons},
		{"Next focus", r.NextFocus},
	} {
		if f.value != "" {
			fmt.Printf("%s:\n  %s\n", f.label, f.value)
		}
	}
	return nil
}

func stars(n int) string {
	n = sanitize.Rating(n)
	return strings.Repeat("★", n) + strings.Repeat("☆", 5-n)
}
