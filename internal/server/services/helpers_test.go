package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/fbedev/diary-ai2/internal/common"
	"github.com/fbedev/diary-ai2/internal/kvstore"
	"github.com/fbedev/diary-ai2/internal/logging"
	messagesrepo "github.com/fbedev/diary-ai2/internal/server/repositories/messages"
	sessionsrepo "github.com/fbedev/diary-ai2/internal/server/repositories/sessions"
	summariesrepo "github.com/fbedev/diary-ai2/internal/server/repositories/summaries"
	usersrepo "github.com/fbedev/diary-ai2/internal/server/repositories/users"
)

// --- shared test fixtures ---

type fixture struct {
	store     *kvstore.MemoryStore
	users     *usersrepo.KVRepository
	sessions  *sessionsrepo.KVRepository
	messages  *messagesrepo.KVRepository
	summaries *summariesrepo.KVRepository
	logger    logging.Logger
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := kvstore.NewMemoryStore()
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))

	return &fixture{
		store:     store,
		users:     usersrepo.NewKVRepository(store),
		sessions:  sessionsrepo.NewKVRepository(store),
		messages:  messagesrepo.NewKVRepository(store, logger),
		summaries: summariesrepo.NewKVRepository(store, logger),
		logger:    logger,
	}
}

func (f *fixture) authService() *AuthService {
	return NewAuthService(f.users, f.sessions, 12*time.Hour, f.logger)
}

func (f *fixture) diaryService(g *fakeGenerator) *DiaryService {
	return NewDiaryService(f.messages, f.summaries, g, f.logger)
}

func (f *fixture) searchService(g *fakeGenerator) *SearchService {
	return NewSearchService(f.messages, f.summaries, g, f.logger)
}

// fakeGenerator implements textgen.Generator for tests.
type fakeGenerator struct {
	out        string
	fail       bool
	calls      int
	lastPrompt string
}

func (g *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	g.calls++
	g.lastPrompt = prompt
	if g.fail {
		return "", fmt.Errorf("upstream unreachable: %w", common.ErrGenerationUnavailable)
	}
	return g.out, nil
}

func requireErrorIs(t *testing.T, err error, target error) {
	t.Helper()
	if !errors.Is(err, target) {
		t.Fatalf("expected error %v, got %v", target, err)
	}
}
