package tracker

import (
	"fmt"
	"time"

	"github.com/momentumx/momentumx/internal/constants"
	"github.com/momentumx/momentumx/internal/entitlement"
	"github.com/momentumx/momentumx/internal/models"
	"github.com/momentumx/momentumx/internal/sanitize"
)

// JournalInput is raw user input for a journal entry.
type JournalInput struct {
	Day     string // YYYY-MM-DD, "" for today
	Title   string
	Content string
	Mood    int
	Tags    []string
}

// AddJournalEntry records a journal entry after sanitizing input and checking
// the journal limit.
func (s *Service) AddJournalEntry(in JournalInput) (models.JournalEntry, error) {
	warnSuspicious("journal", "title", in.Title)
	warnSuspicious("journal", "content", in.Content)

	content := sanitize.Description(in.Content, constants.MaxJournalLength)
	if content == "" {
		return models.JournalEntry{}, fmt.Errorf("%w: journal content is required", ErrInvalidInput)
	}
	day, err := s.parseDay(in.Day)
	if err != nil {
		return models.JournalEntry{}, err
	}

	userID, err := s.userID()
	if err != nil {
		return models.JournalEntry{}, err
	}
	if err := s.checkLimit(entitlement.JournalEntries, s.store.CountJournalEntries, userID); err != nil {
		return models.JournalEntry{}, err
	}

	now := s.now().UTC()
	entry := models.JournalEntry{
		ID:        newID(),
		UserID:    userID,
		Day:       day,
		Title:     sanitize.Title(in.Title, constants.MaxTitleLength),
		Content:   content,
		Mood:      sanitize.Mood(in.Mood),
		Tags:      sanitize.Tags(in.Tags, constants.MaxTags, constants.MaxTagLength),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.AddJournalEntry(entry); err != nil {
		return models.JournalEntry{}, fmt.Errorf("failed to add journal entry: %w", err)
	}
	return entry, nil
}

// ReviewInput is raw user input for a weekly review.
type ReviewInput struct {
	Week       string // any day in the week, "" for the current week
	Wins       string
	Challenges string
	Lessons    string
	NextFocus  string
	Rating     int
}

// SaveWeeklyReview writes the review for the week containing in.Week,
// replacing an earlier review of the same week.
func (s *Service) SaveWeeklyReview(in ReviewInput) (models.WeeklyReview, error) {
	fields := map[string]string{
		"wins": in.Wins, "challenges": in.Challenges, "lessons": in.Lessons, "next_focus": in.NextFocus,
	}
	for name, value := range fields {
		warnSuspicious("review", name, value)
	}

	day, err := s.parseDay(in.Week)
	if err != nil {
		return models.WeeklyReview{}, err
	}
	weekOf, err := time.Parse(constants.DateFormat, day)
	if err != nil {
		return models.WeeklyReview{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	userID, err := s.userID()
	if err != nil {
		return models.WeeklyReview{}, err
	}

	now := s.now().UTC()
	review := models.WeeklyReview{
		ID:         newID(),
		UserID:     userID,
		WeekStart:  models.WeekStart(weekOf),
		Wins:       sanitize.Description(in.Wins, constants.MaxReviewFieldLength),
		Challenges: sanitize.Description(in.Challenges, constants.MaxReviewFieldLength),
		Lessons:    sanitize.Description(in.Lessons, constants.MaxReviewFieldLength),
		NextFocus:  sanitize.Description(in.NextFocus, constants.MaxReviewFieldLength),
		Rating:     sanitize.Rating(in.Rating),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if review.Wins == "" && review.Challenges == "" && review.Lessons == "" && review.NextFocus == "" {
		return models.WeeklyReview{}, fmt.Errorf("%w: a review needs at least one field", ErrInvalidInput)
	}

	if err := s.store.SaveWeeklyReview(review); err != nil {
		return models.WeeklyReview{}, fmt.Errorf("failed to save weekly review: %w", err)
	}
	return s.store.GetWeeklyReview(review.WeekStart)
}
