package usecase

import (
	"context"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kapofest/cheerboard/internal/domain/post"
	"github.com/kapofest/cheerboard/internal/platform/logging"
)

// switchablePostRepo serves a fixed post set and can be flipped to fail,
// simulating the feed store going away between refreshes.
type switchablePostRepo struct {
	mu    sync.Mutex
	posts []post.Post
	fail  bool
}

func (r *switchablePostRepo) ListPage(_ context.Context, _ post.Filter, cursor int64, limit int) ([]post.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.fail {
		return nil, fmt.Errorf("store unavailable")
	}

	out := make([]post.Post, 0, limit)
	for _, item := range r.posts {
		if cursor > 0 && item.ID >= cursor {
			continue
		}
		out = append(out, item)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *switchablePostRepo) setFail(fail bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fail = fail
}

func newPollerFixture(posts []post.Post) (*BattlePoller, *switchablePostRepo) {
	repo := &switchablePostRepo{posts: posts}
	battle := NewBattleService(NewFeedService(repo), NewSideClassifier("kaist", "postech"))
	poller := NewBattlePoller(battle, logging.NewNop(), time.Hour, 0)

	return poller, repo
}

func pollerTestPosts() []post.Post {
	return []post.Post{
		{ID: 3, PublicID: "p3", AuthorID: "a3", AuthorSchool: "KAIST", LikeCount: 30, Visibility: post.VisibilityPublic},
		{ID: 2, PublicID: "p2", AuthorID: "a2", AuthorSchool: "POSTECH", LikeCount: 10, Visibility: post.VisibilityPublic},
		{ID: 1, PublicID: "p1", AuthorID: "a1", AuthorSchool: "KAIST", LikeCount: 10, Visibility: post.VisibilityPublic},
	}
}

func TestBattlePoller_BoardBeforeFirstRefresh(t *testing.T) {
	poller, _ := newPollerFixture(nil)

	board := poller.Board()
	if !board.IsLoading {
		t.Fatalf("board must report loading before the first refresh completes")
	}
}

func TestBattlePoller_RefreshPublishesWeights(t *testing.T) {
	poller, _ := newPollerFixture(pollerTestPosts())

	poller.refresh(t.Context())

	board := poller.Board()
	if board.IsLoading {
		t.Fatalf("board still loading after a completed refresh")
	}
	if board.HomeTotal != 40 || board.AwayTotal != 10 {
		t.Fatalf("unexpected totals: home=%d away=%d", board.HomeTotal, board.AwayTotal)
	}
	if math.Abs(board.HomeWeight-0.8) > 1e-9 {
		t.Fatalf("unexpected home weight: %f", board.HomeWeight)
	}
	if math.Abs(board.HomeWeight+board.AwayWeight-1) > 1e-9 {
		t.Fatalf("weights must sum to one: home=%f away=%f", board.HomeWeight, board.AwayWeight)
	}
	if len(board.TopPostsHome) != 2 || len(board.TopPostsAway) != 1 {
		t.Fatalf("unexpected top lists: home=%d away=%d", len(board.TopPostsHome), len(board.TopPostsAway))
	}
}

func TestBattlePoller_EmptyFeedWeights(t *testing.T) {
	poller, _ := newPollerFixture(nil)

	poller.refresh(t.Context())

	board := poller.Board()
	if board.HomeTotal != 0 || board.AwayTotal != 0 {
		t.Fatalf("unexpected totals: home=%d away=%d", board.HomeTotal, board.AwayTotal)
	}
	if board.HomeWeight != 0 || board.AwayWeight != 1 {
		t.Fatalf("zero-likes board must use the floored denominator: home=%f away=%f", board.HomeWeight, board.AwayWeight)
	}
}

func TestBattlePoller_FailedRefreshKeepsStaleBoard(t *testing.T) {
	poller, repo := newPollerFixture(pollerTestPosts())

	poller.refresh(t.Context())
	repo.setFail(true)
	poller.refresh(t.Context())

	board := poller.Board()
	if board.HomeTotal != 40 || board.AwayTotal != 10 {
		t.Fatalf("failed refresh must keep the previous totals: home=%d away=%d", board.HomeTotal, board.AwayTotal)
	}
	if board.LastError == "" {
		t.Fatalf("failed refresh must surface its error on the board")
	}

	repo.setFail(false)
	poller.refresh(t.Context())
	if got := poller.Board(); got.LastError != "" {
		t.Fatalf("recovered refresh must clear the error, got %q", got.LastError)
	}
}

func TestBattlePoller_StartStop(t *testing.T) {
	repo := &switchablePostRepo{posts: pollerTestPosts()}
	battle := NewBattleService(NewFeedService(repo), NewSideClassifier("kaist", "postech"))
	poller := NewBattlePoller(battle, logging.NewNop(), 5*time.Millisecond, 0)

	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()

	poller.Start(ctx)
	poller.TriggerRefresh()
	time.Sleep(30 * time.Millisecond)
	poller.Stop()

	board := poller.Board()
	if board.IsLoading {
		t.Fatalf("poller never published a board while running")
	}
	if board.HomeTotal != 40 {
		t.Fatalf("unexpected home total after polling: %d", board.HomeTotal)
	}
}

// gatedPostRepo blocks its first ListPage call until released, so a test can
// hold an aggregation pass open and observe what happens to triggers that
// arrive while it is still running.
type gatedPostRepo struct {
	calls        atomic.Int32
	firstStarted chan struct{}
	release      chan struct{}
}

func newGatedPostRepo() *gatedPostRepo {
	return &gatedPostRepo{
		firstStarted: make(chan struct{}),
		release:      make(chan struct{}),
	}
}

func (r *gatedPostRepo) ListPage(_ context.Context, _ post.Filter, _ int64, _ int) ([]post.Post, error) {
	if r.calls.Add(1) == 1 {
		close(r.firstStarted)
		<-r.release
	}
	return nil, nil
}

func TestBattlePoller_TriggerDuringRefreshIsDropped(t *testing.T) {
	repo := newGatedPostRepo()
	battle := NewBattleService(NewFeedService(repo), NewSideClassifier("kaist", "postech"))
	poller := NewBattlePoller(battle, logging.NewNop(), time.Hour, 0)

	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()

	poller.Start(ctx)
	defer poller.Stop()

	<-repo.firstStarted
	poller.TriggerRefresh()
	close(repo.release)

	deadline := time.Now().Add(time.Second)
	for poller.Board().IsLoading {
		if time.Now().After(deadline) {
			t.Fatalf("first refresh never finished")
		}
		time.Sleep(time.Millisecond)
	}

	time.Sleep(20 * time.Millisecond)
	if got := repo.calls.Load(); got != 1 {
		t.Fatalf("trigger during an in-flight refresh must not start another pass, got %d passes", got)
	}

	poller.TriggerRefresh()
	deadline = time.Now().Add(time.Second)
	for repo.calls.Load() < 2 {
		if time.Now().After(deadline) {
			t.Fatalf("trigger on an idle poller never started a pass")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestBattlePoller_BoardReturnsCopies(t *testing.T) {
	poller, _ := newPollerFixture(pollerTestPosts())
	poller.refresh(t.Context())

	first := poller.Board()
	if len(first.TopPostsHome) == 0 {
		t.Fatalf("expected top posts")
	}
	first.TopPostsHome[0].Title = "mutated"

	second := poller.Board()
	if second.TopPostsHome[0].Title == "mutated" {
		t.Fatalf("board readers must not share backing arrays")
	}
}
