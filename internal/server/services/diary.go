package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fbedev/diary-ai2/internal/common"
	"github.com/fbedev/diary-ai2/internal/logging"
	"github.com/fbedev/diary-ai2/internal/server/models"
	"github.com/fbedev/diary-ai2/internal/server/repositories/messages"
	"github.com/fbedev/diary-ai2/internal/server/repositories/summaries"
	"github.com/fbedev/diary-ai2/internal/textgen"
)

const (
	highlightLimit      = 3
	tagLimit            = 5
	fallbackLineCount   = 5
	fallbackMaxLen      = 500
	fallbackEmptyAnswer = "No content available to summarise."
)

// DiaryService owns the per-day message log and the derived summary
// artifacts. Summary generation is synchronous and never fails merely
// because the upstream generator is unavailable.
type DiaryService struct {
	messages  messages.Repository
	summaries summaries.Repository
	generator textgen.Generator
	logger    logging.Logger
}

func NewDiaryService(m messages.Repository, s summaries.Repository, g textgen.Generator, logger logging.Logger) *DiaryService {
	return &DiaryService{
		messages:  m,
		summaries: s,
		generator: g,
		logger:    logger.With("module", "diary_service"),
	}
}

// AddMessage appends a message to the bucket of the current UTC day.
// An empty role defaults to "user".
func (s *DiaryService) AddMessage(ctx context.Context, username string, role string, text string) (*models.ChatMessage, error) {

	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("text must not be empty: %w", common.ErrInvalidInput)
	}
	if role == "" {
		role = models.RoleUser
	}
	if role != models.RoleUser && role != models.RoleAssistant {
		return nil, fmt.Errorf("role must be %q or %q: %w", models.RoleUser, models.RoleAssistant, common.ErrInvalidInput)
	}

	msg := &models.ChatMessage{
		MessageID: uuid.NewString(),
		Role:      role,
		Text:      text,
		Timestamp: time.Now().UTC(),
	}
	if err := s.messages.Append(ctx, username, msg); err != nil {
		return nil, fmt.Errorf("error storing message: %w", err)
	}

	return msg, nil
}

// LoadDay returns the day's messages in insertion order.
func (s *DiaryService) LoadDay(ctx context.Context, username string, day string) ([]models.ChatMessage, error) {
	if _, err := time.Parse(models.DayFormat, day); err != nil {
		return nil, fmt.Errorf("invalid date format: %w", common.ErrInvalidInput)
	}
	return s.messages.ListByDay(ctx, username, day)
}

// Timeline joins every day bucket with its summary (when one exists),
// ordered by date descending.
func (s *DiaryService) Timeline(ctx context.Context, username string) ([]models.TimelineEntry, error) {

	days, err := s.messages.Days(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("error listing days: %w", err)
	}

	entries := make([]models.TimelineEntry, 0, len(days))
	for _, day := range days {
		msgs, err := s.messages.ListByDay(ctx, username, day)
		if err != nil {
			return nil, fmt.Errorf("error loading day %s: %w", day, err)
		}

		entry := models.TimelineEntry{Date: day, Messages: msgs}
		summary, err := s.summaries.Get(ctx, username, day)
		switch {
		case err == nil:
			entry.Summary = summary
		case errors.Is(err, common.ErrorNotFound):
			// no summary for this day
		default:
			return nil, fmt.Errorf("error loading summary for %s: %w", day, err)
		}
		entries = append(entries, entry)
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Date > entries[j].Date })
	return entries, nil
}

// ListSummaries returns the user's stored summaries sorted by date
// descending.
func (s *DiaryService) ListSummaries(ctx context.Context, username string) ([]models.DiarySummary, error) {

	list, err := s.summaries.List(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("error listing summaries: %w", err)
	}

	sort.Slice(list, func(i, j int) bool { return list[i].Date > list[j].Date })
	return list, nil
}

// GenerateSummary derives and persists the summary artifact for one day.
// The summary text comes from the upstream generator when available and from
// a deterministic local fallback otherwise; mood, highlights, and tags are
// always derived locally. The write overwrites any prior summary for the
// day in a single operation.
func (s *DiaryService) GenerateSummary(ctx context.Context, username string, day string) (*models.DiarySummary, error) {

	if _, err := time.Parse(models.DayFormat, day); err != nil {
		return nil, fmt.Errorf("invalid date format: %w", common.ErrInvalidInput)
	}

	msgs, err := s.messages.ListByDay(ctx, username, day)
	if err != nil {
		return nil, fmt.Errorf("error loading day %s: %w", day, err)
	}
	if len(msgs) == 0 {
		return nil, common.ErrNoMessages
	}

	prompt := buildSummaryPrompt(day, msgs)

	text, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		s.logger.Warn(ctx, "generation unavailable, using local fallback", "username", username, "day", day, "error", err.Error())
		text = fallbackSummary(prompt)
	}

	summary := &models.DiarySummary{
		Date:       day,
		Summary:    text,
		Mood:       inferMood(msgs),
		Highlights: extractHighlights(msgs, highlightLimit),
		Tags:       extractTags(msgs, tagLimit),
	}
	if summary.Highlights == nil {
		summary.Highlights = []string{}
	}
	if summary.Tags == nil {
		summary.Tags = []string{}
	}

	if err := s.summaries.Save(ctx, username, summary); err != nil {
		return nil, fmt.Errorf("error storing summary: %w", err)
	}

	s.logger.Info(ctx, "summary generated", "username", username, "day", day, "mood", summary.Mood)
	return summary, nil
}

// buildSummaryPrompt embeds the day's messages in chronological order, each
// tagged with its role and RFC 3339 UTC timestamp. The prompt is
// deterministic for a fixed message set.
func buildSummaryPrompt(day string, msgs []models.ChatMessage) string {

	lines := make([]string, 0, len(msgs))
	for _, msg := range msgs {
		timestamp := msg.Timestamp.UTC().Format(time.RFC3339)
		lines = append(lines, fmt.Sprintf("[%s] %s: %s", timestamp, strings.ToUpper(msg.Role), msg.Text))
	}

	var b strings.Builder
	b.WriteString("You are an empathetic journaling assistant. Summarise the user's day ")
	b.WriteString("based on the following chat transcript. Provide a short paragraph ")
	b.WriteString("summary, followed by bullet point highlights and an overall mood word.\n")
	b.WriteString("Date: " + day + "\n")
	b.WriteString("Transcript:\n")
	b.WriteString(strings.Join(lines, "\n"))
	b.WriteString("\nResponse format:\n")
	b.WriteString("Summary: <paragraph>\n")
	b.WriteString("Highlights:\n- <point>\n")
	b.WriteString("Mood: <single word>\n")
	return b.String()
}

// fallbackSummary is the deterministic local substitute for the upstream
// generator: the last few non-empty prompt lines joined and truncated.
func fallbackSummary(prompt string) string {

	var lines []string
	for _, line := range strings.Split(strings.TrimSpace(prompt), "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) > fallbackLineCount {
		lines = lines[len(lines)-fallbackLineCount:]
	}

	snippet := strings.TrimSpace(strings.Join(lines, " "))
	if snippet == "" {
		return fallbackEmptyAnswer
	}
	if runes := []rune(snippet); len(runes) > fallbackMaxLen {
		snippet = string(runes[:fallbackMaxLen])
	}
	return snippet
}
