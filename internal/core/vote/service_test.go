// Copyright (c) 2026 StoryVoter. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package vote

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/storyvoter/internal/core/chapter"
	"github.com/taibuivan/storyvoter/internal/platform/apperr"
	"github.com/taibuivan/storyvoter/internal/platform/config"
	"github.com/taibuivan/storyvoter/internal/platform/ctxutil"
	"github.com/taibuivan/storyvoter/internal/platform/metrics"
	"github.com/taibuivan/storyvoter/internal/platform/sec"
)

// memoryStore plays both the chapter and the vote store, applying a cast
// under one lock the way the SQL transaction does.
type memoryStore struct {
	mu       sync.Mutex
	chapters map[string]*chapter.Chapter
	votes    map[string]*Vote // keyed by user + chapter
	balances map[string]int64
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		chapters: map[string]*chapter.Chapter{},
		votes:    map[string]*Vote{},
		balances: map[string]int64{},
	}
}

func (store *memoryStore) FindByID(_ context.Context, id string) (*chapter.Chapter, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	stored, ok := store.chapters[id]
	if !ok {
		return nil, apperr.NotFound("Chapter")
	}

	clone := *stored
	clone.Options = make([]*chapter.Option, 0, len(stored.Options))
	for _, option := range stored.Options {
		copied := *option
		clone.Options = append(clone.Options, &copied)
	}
	return &clone, nil
}

func (store *memoryStore) ListByStory(context.Context, string) ([]*chapter.Chapter, error) {
	return nil, nil
}

func (store *memoryStore) ListSince(context.Context, time.Time, int) ([]*chapter.Chapter, error) {
	return nil, nil
}

func (store *memoryStore) Cast(_ context.Context, vote *Vote, cost int64, castAt time.Time) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	target, ok := store.chapters[vote.ChapterID]
	if !ok {
		return apperr.NotFound("Chapter")
	}
	if !target.IsOpen(castAt) {
		return ErrPollClosed
	}

	key := vote.UserID + "/" + vote.ChapterID
	if _, exists := store.votes[key]; exists {
		return ErrAlreadyVoted
	}

	option := target.Option(vote.OptionID)
	if option == nil {
		return ErrInvalidOption
	}
	if store.balances[vote.UserID] < cost {
		return ErrInsufficientFunds
	}

	store.balances[vote.UserID] -= cost
	option.VoteCount += vote.Weight
	vote.CreatedAt = castAt
	store.votes[key] = vote
	return nil
}

func (store *memoryStore) HasVoted(_ context.Context, userID, chapterID string) (bool, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	_, ok := store.votes[userID+"/"+chapterID]
	return ok, nil
}

func (store *memoryStore) VotedChapters(_ context.Context, userID string, chapterIDs []string) (map[string]bool, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	voted := map[string]bool{}
	for _, id := range chapterIDs {
		if _, ok := store.votes[userID+"/"+id]; ok {
			voted[id] = true
		}
	}
	return voted, nil
}

// weightedVotes is the audit-log side of the counters.
func (store *memoryStore) weightedVotes(chapterID string) int64 {
	store.mu.Lock()
	defer store.mu.Unlock()

	var total int64
	for _, vote := range store.votes {
		if vote.ChapterID == chapterID {
			total += vote.Weight
		}
	}
	return total
}

const (
	chapterID = "0190a3c2-7b3e-7c1a-9f00-00000000c001"
	optionA   = "0190a3c2-7b3e-7c1a-9f00-00000000a001"
	optionB   = "0190a3c2-7b3e-7c1a-9f00-00000000b001"
)

var publishedAt = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	service *Service
	store   *memoryStore
	metrics *metrics.Metrics
	clock   time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := newMemoryStore()
	question := "Which path?"
	store.chapters[chapterID] = &chapter.Chapter{
		ID:        chapterID,
		StoryID:   "story-1",
		Number:    1,
		Question:  &question,
		ExpiresAt: publishedAt.Add(24 * time.Hour),
		Options: []*chapter.Option{
			{ID: optionA, ChapterID: chapterID, Position: 1, Text: "A"},
			{ID: optionB, ChapterID: chapterID, Position: 2, Text: "B"},
		},
	}

	m := metrics.New(prometheus.NewRegistry())
	weights := config.Voting{OrdinaryWeight: 1, BoostedWeight: 3, BoostedCost: 1}
	service := NewService(store, store, weights, m, slog.New(slog.NewTextHandler(io.Discard, nil)))

	f := &fixture{service: service, store: store, metrics: m, clock: publishedAt.Add(time.Minute)}
	service.now = func() time.Time { return f.clock }
	return f
}

func (f *fixture) counts() (int64, int64) {
	stored := f.store.chapters[chapterID]
	return stored.Options[0].VoteCount, stored.Options[1].VoteCount
}

func TestCastVote_OrdinaryThenBoosted(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.store.balances["u2"] = 5

	receipt, err := f.service.CastVote(ctx, CastInput{UserID: "u1", ChapterID: chapterID, OptionID: optionA})
	require.NoError(t, err)
	assert.Equal(t, int64(1), receipt.Vote.Weight)
	assert.Equal(t, int64(1), *receipt.Results.TotalVotes)
	assert.Equal(t, 100, *receipt.Results.Options[0].Percentage)
	assert.Equal(t, 0, *receipt.Results.Options[1].Percentage)

	receipt, err = f.service.CastVote(ctx, CastInput{UserID: "u2", ChapterID: chapterID, OptionID: optionB, Boosted: true})
	require.NoError(t, err)
	assert.Equal(t, int64(3), receipt.Vote.Weight)
	assert.True(t, receipt.Vote.IsBoosted)
	assert.Equal(t, int64(4), *receipt.Results.TotalVotes)
	assert.Equal(t, 25, *receipt.Results.Options[0].Percentage)
	assert.Equal(t, 75, *receipt.Results.Options[1].Percentage)

	a, b := f.counts()
	assert.Equal(t, int64(1), a)
	assert.Equal(t, int64(3), b)
	assert.Equal(t, int64(4), f.store.balances["u2"])

	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.VotesCast.WithLabelValues(KindOrdinary)))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.VotesCast.WithLabelValues(KindBoosted)))
}

func TestCastVote_ConcurrentDoubleSubmit(t *testing.T) {
	f := newFixture(t)
	const attempts = 32

	var succeeded, alreadyVoted atomic.Int32
	var wg sync.WaitGroup
	for range attempts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.service.CastVote(context.Background(), CastInput{UserID: "u1", ChapterID: chapterID, OptionID: optionA})
			switch {
			case err == nil:
				succeeded.Add(1)
			case assert.ErrorIs(t, err, ErrAlreadyVoted):
				alreadyVoted.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), succeeded.Load())
	assert.Equal(t, int32(attempts-1), alreadyVoted.Load())

	a, _ := f.counts()
	assert.Equal(t, int64(1), a)
}

func TestCastVote_CountersMatchVoteLog(t *testing.T) {
	f := newFixture(t)

	for i := range 60 {
		f.store.balances[fmt.Sprintf("user-%d", i)] = int64(i % 2)
	}

	var wg sync.WaitGroup
	for i := range 60 {
		user := fmt.Sprintf("user-%d", i)

		wg.Add(1)
		go func() {
			defer wg.Done()
			option := optionA
			if i%3 == 0 {
				option = optionB
			}
			_, _ = f.service.CastVote(context.Background(), CastInput{
				UserID: user, ChapterID: chapterID, OptionID: option, Boosted: i%4 == 0,
			})
		}()
	}
	wg.Wait()

	a, b := f.counts()
	assert.Equal(t, f.store.weightedVotes(chapterID), a+b)
}

func TestCastVote_PollClosed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	expiresAt := publishedAt.Add(24 * time.Hour)

	f.clock = expiresAt.Add(-time.Second)
	ok, err := f.service.CanVote(ctx, chapterID, "u1")
	require.NoError(t, err)
	assert.True(t, ok)

	f.clock = expiresAt.Add(time.Second)
	ok, err = f.service.CanVote(ctx, chapterID, "u1")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = f.service.CastVote(ctx, CastInput{UserID: "u1", ChapterID: chapterID, OptionID: optionA})
	assert.ErrorIs(t, err, ErrPollClosed)

	f.clock = expiresAt
	_, err = f.service.CastVote(ctx, CastInput{UserID: "u2", ChapterID: chapterID, OptionID: optionA})
	assert.ErrorIs(t, err, ErrPollClosed)

	assert.Equal(t, 2.0, testutil.ToFloat64(f.metrics.VoteRejections.WithLabelValues("POLL_CLOSED")))
}

func TestCastVote_ClosedTakesPrecedenceOverHistory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.CastVote(ctx, CastInput{UserID: "u1", ChapterID: chapterID, OptionID: optionA})
	require.NoError(t, err)

	f.clock = publishedAt.Add(48 * time.Hour)
	_, err = f.service.CastVote(ctx, CastInput{UserID: "u1", ChapterID: chapterID, OptionID: optionA})
	assert.ErrorIs(t, err, ErrPollClosed)
}

func TestCastVote_PreconditionOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.CastVote(ctx, CastInput{ChapterID: chapterID, OptionID: optionA})
	assert.ErrorIs(t, err, apperr.Unauthorized(""))

	_, err = f.service.CastVote(ctx, CastInput{UserID: "u1", ChapterID: "missing", OptionID: optionA})
	assert.True(t, apperr.HasCode(err, "NOT_FOUND"))

	_, err = f.service.CastVote(ctx, CastInput{UserID: "u1", ChapterID: chapterID, OptionID: "foreign-option"})
	assert.ErrorIs(t, err, ErrInvalidOption)

	_, err = f.service.CastVote(ctx, CastInput{UserID: "u1", ChapterID: chapterID, OptionID: optionA})
	require.NoError(t, err)

	_, err = f.service.CastVote(ctx, CastInput{UserID: "u1", ChapterID: chapterID, OptionID: "foreign-option"})
	assert.ErrorIs(t, err, ErrAlreadyVoted)
}

func TestCastVote_InsufficientFundsRecordsNothing(t *testing.T) {
	f := newFixture(t)
	f.store.balances["u1"] = 0

	_, err := f.service.CastVote(context.Background(), CastInput{UserID: "u1", ChapterID: chapterID, OptionID: optionB, Boosted: true})
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	a, b := f.counts()
	assert.Zero(t, a+b)
	assert.Zero(t, f.store.balances["u1"])

	voted, err := f.store.HasVoted(context.Background(), "u1", chapterID)
	require.NoError(t, err)
	assert.False(t, voted)
}

func TestResults_HiddenUntilVoted(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.CastVote(ctx, CastInput{UserID: "u1", ChapterID: chapterID, OptionID: optionA})
	require.NoError(t, err)

	anonymous, err := f.service.Results(ctx, chapterID, "")
	require.NoError(t, err)
	assert.False(t, anonymous.Revealed)
	assert.Nil(t, anonymous.Options[0].VoteCount)

	voter, err := f.service.Results(ctx, chapterID, "u1")
	require.NoError(t, err)
	assert.True(t, voter.Revealed)
	assert.Equal(t, int64(1), *voter.Options[0].VoteCount)
}

func TestHandler_CastVote(t *testing.T) {
	f := newFixture(t)
	router := chi.NewRouter()
	NewHandler(f.service).RegisterRoutes(router)

	body := `{"option_id":"` + optionA + `"}`

	anonymous := httptest.NewRecorder()
	router.ServeHTTP(anonymous, httptest.NewRequest(http.MethodPost, "/chapters/"+chapterID+"/votes", strings.NewReader(body)))
	assert.Equal(t, http.StatusUnauthorized, anonymous.Code)

	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/chapters/"+chapterID+"/votes", strings.NewReader(body))
		req = req.WithContext(ctxutil.WithAuthUser(req.Context(), &sec.AuthClaims{UserID: "u1"}))
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)
		return recorder
	}

	first := send()
	assert.Equal(t, http.StatusCreated, first.Code)
	assert.Contains(t, first.Body.String(), `"percentage":100`)

	second := send()
	assert.Equal(t, http.StatusConflict, second.Code)
	assert.Contains(t, second.Body.String(), `"code":"ALREADY_VOTED"`)
}

func TestHandler_GetResults_HidesCountsFromAnonymous(t *testing.T) {
	f := newFixture(t)
	f.store.chapters[chapterID].Options[0].VoteCount = 9

	router := chi.NewRouter()
	NewHandler(f.service).RegisterRoutes(router)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/chapters/"+chapterID+"/results", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.NotContains(t, recorder.Body.String(), "vote_count")
	assert.Contains(t, recorder.Body.String(), `"revealed":false`)
}

// unreachableVotes fails the cast unit the way WithTx reports a lost store.
type unreachableVotes struct{ *memoryStore }

func (unreachableVotes) Cast(context.Context, *Vote, int64, time.Time) error {
	return apperr.UpstreamUnavailable("Database", errors.New("dial tcp: connection refused"))
}

func TestCastVote_StoreUnavailableRecordsNothing(t *testing.T) {
	f := newFixture(t)
	service := NewService(unreachableVotes{f.store}, f.store, f.service.weights, f.metrics, f.service.logger)
	service.now = f.service.now

	_, err := service.CastVote(context.Background(), CastInput{UserID: "u1", ChapterID: chapterID, OptionID: optionA})

	assert.True(t, apperr.HasCode(err, "UPSTREAM_UNAVAILABLE"))
	a, b := f.counts()
	assert.Zero(t, a+b)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.VoteRejections.WithLabelValues("UPSTREAM_UNAVAILABLE")))
}

// flakyChapters answers the pre-cast read and fails every later one.
type flakyChapters struct {
	*memoryStore
	reads atomic.Int32
}

func (chapters *flakyChapters) FindByID(ctx context.Context, id string) (*chapter.Chapter, error) {
	if chapters.reads.Add(1) > 1 {
		return nil, apperr.UpstreamUnavailable("Database", nil)
	}
	return chapters.memoryStore.FindByID(ctx, id)
}

func TestCastVote_ResultsSurviveFailedReload(t *testing.T) {
	f := newFixture(t)
	f.store.chapters[chapterID].Options[1].VoteCount = 3
	f.store.balances["u1"] = 1

	service := NewService(f.store, &flakyChapters{memoryStore: f.store}, f.service.weights, f.metrics, f.service.logger)
	service.now = f.service.now

	receipt, err := service.CastVote(context.Background(), CastInput{UserID: "u1", ChapterID: chapterID, OptionID: optionA, Boosted: true})
	require.NoError(t, err)
	require.NotNil(t, receipt.Results)
	assert.True(t, receipt.Results.Revealed)
	assert.Equal(t, int64(6), *receipt.Results.TotalVotes)
	assert.Equal(t, 50, *receipt.Results.Options[0].Percentage)
}
