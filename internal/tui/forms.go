package tui

import (
	"errors"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/momentumx/momentumx/internal/constants"
	"github.com/momentumx/momentumx/internal/models"
	"github.com/momentumx/momentumx/internal/sanitize"
)

func required(label string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return errors.New(label + " is required")
		}
		return nil
	}
}

func newHabitForm(fm *HabitFormModel) *huh.Form {
	categories := make([]huh.Option[string], len(models.Categories))
	for i, c := range models.Categories {
		categories[i] = huh.NewOption(string(c), string(c))
	}
	frequencies := make([]huh.Option[string], len(models.Frequencies))
	for i, f := range models.Frequencies {
		frequencies[i] = huh.NewOption(string(f), string(f))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				CharLimit(constants.MaxTitleLength).
				Value(&fm.Title).
				Validate(required("title")),
			huh.NewInput().
				Title("Description").
				Value(&fm.Description),
			huh.NewSelect[string]().
				Title("Category").
				Options(categories...).
				Value(&fm.Category),
			huh.NewSelect[string]().
				Title("Frequency").
				Options(frequencies...).
				Value(&fm.Frequency),
			huh.NewInput().
				Title("Target").
				Value(&fm.Target).
				Validate(func(s string) error {
					if s == "" {
						return nil
					}
					if n, err := strconv.Atoi(s); err != nil || n < 1 {
						return errors.New("target must be a positive number")
					}
					return nil
				}),
		),
	).WithShowHelp(true)
}

func newTaskForm(fm *TaskFormModel) *huh.Form {
	priorities := make([]huh.Option[string], len(models.Priorities))
	for i, p := range models.Priorities {
		priorities[i] = huh.NewOption(string(p), string(p))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				CharLimit(constants.MaxTitleLength).
				Value(&fm.Title).
				Validate(required("title")),
			huh.NewInput().
				Title("Due date (YYYY-MM-DD, optional)").
				Value(&fm.DueDate).
				Validate(func(s string) error {
					if s != "" && sanitize.Date(s) == "" {
						return errors.New("use YYYY-MM-DD")
					}
					return nil
				}),
			huh.NewSelect[string]().
				Title("Priority").
				Options(priorities...).
				Value(&fm.Priority),
		),
	).WithShowHelp(true)
}

func newActivateForm(fm *ActivateFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("License key").
				EchoMode(huh.EchoModePassword).
				Value(&fm.Key).
				Validate(required("license key")),
		),
	).WithShowHelp(true)
}
