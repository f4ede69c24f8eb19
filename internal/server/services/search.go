package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/fbedev/diary-ai2/internal/logging"
	"github.com/fbedev/diary-ai2/internal/server/models"
	"github.com/fbedev/diary-ai2/internal/server/repositories/messages"
	"github.com/fbedev/diary-ai2/internal/server/repositories/summaries"
	"github.com/fbedev/diary-ai2/internal/textgen"
)

const (
	searchMatchLimit = 5

	noContentAnswer = "No diary content available yet."
	noMatchAnswer   = "No matching entries found."
)

// SearchService answers free-text queries over a user's summaries and raw
// messages, delegating to the generator when available and to a local
// substring scan otherwise.
type SearchService struct {
	messages  messages.Repository
	summaries summaries.Repository
	generator textgen.Generator
	logger    logging.Logger
}

func NewSearchService(m messages.Repository, s summaries.Repository, g textgen.Generator, logger logging.Logger) *SearchService {
	return &SearchService{
		messages:  m,
		summaries: s,
		generator: g,
		logger:    logger.With("module", "search_service"),
	}
}

// Search collects all stored summary and message text for the user into a
// flat document set and answers the query against it. The query is not
// validated; an empty query matches every document line in the fallback.
// The result carries a fixed answer when the user has no content at all.
func (s *SearchService) Search(ctx context.Context, username string, query string) (*models.SearchResult, error) {

	documents, err := s.collectDocuments(ctx, username)
	if err != nil {
		return nil, err
	}
	if len(documents) == 0 {
		return &models.SearchResult{Query: query, Answer: noContentAnswer}, nil
	}

	prompt := buildSearchPrompt(query, documents)

	answer, err := s.generator.Generate(ctx, prompt)
	if err != nil || strings.TrimSpace(answer) == "" {
		if err != nil {
			s.logger.Warn(ctx, "generation unavailable, using substring fallback", "username", username, "error", err.Error())
		}
		answer = fallbackSearch(query, documents)
	}

	return &models.SearchResult{Query: query, Answer: strings.TrimSpace(answer)}, nil
}

// collectDocuments returns summaries first, then raw messages, each in scan
// order. The ordering only affects prompt framing.
func (s *SearchService) collectDocuments(ctx context.Context, username string) ([]string, error) {

	documents, err := s.summaries.RawList(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("error collecting summaries: %w", err)
	}

	rawMessages, err := s.messages.RawAll(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("error collecting messages: %w", err)
	}

	return append(documents, rawMessages...), nil
}

func buildSearchPrompt(query string, documents []string) string {
	var b strings.Builder
	b.WriteString("You are helping the user search through their personal diary. ")
	b.WriteString("Respond with a concise answer that references the diary content when possible.\n")
	b.WriteString("Diary content:\n")
	b.WriteString(strings.Join(documents, "\n"))
	b.WriteString("\n\nQuestion: " + query + "\n")
	b.WriteString("Answer:")
	return b.String()
}

// fallbackSearch is a case-insensitive line-by-line substring scan across
// all documents, capped at a few matching lines.
func fallbackSearch(query string, documents []string) string {

	queryLower := strings.ToLower(query)
	var matches []string

	for _, doc := range documents {
		for _, line := range strings.Split(doc, "\n") {
			if strings.Contains(strings.ToLower(line), queryLower) {
				matches = append(matches, strings.TrimSpace(line))
				if len(matches) >= searchMatchLimit {
					break
				}
			}
		}
		if len(matches) >= searchMatchLimit {
			break
		}
	}

	if len(matches) == 0 {
		return noMatchAnswer
	}
	return strings.Join(matches, "\n")
}
