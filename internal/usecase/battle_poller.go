package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/kapofest/cheerboard/internal/domain/post"
	"github.com/kapofest/cheerboard/internal/platform/logging"
)

type pollerState int

const (
	pollerIdle pollerState = iota
	pollerRefreshing
)

const BattleDefaultPollInterval = 10 * time.Second

// Board is the presentation-ready view of the latest snapshot. HomeWeight is
// the home share of the combined like total with the denominator floored at
// one, and AwayWeight is its complement.
type Board struct {
	HomeTotal    int64
	AwayTotal    int64
	HomeWeight   float64
	AwayWeight   float64
	TopPostsHome []post.Post
	TopPostsAway []post.Post
	IsLoading    bool
	LastError    string
	ComputedAt   time.Time
}

// BattlePoller recomputes the battle board on a fixed interval. At most one
// refresh runs at a time; manual triggers behave like an extra timer tick
// and are dropped while a refresh is already in flight.
type BattlePoller struct {
	battle   *BattleService
	logger   *logging.Logger
	interval time.Duration
	maxItems int

	mu    sync.Mutex
	state pollerState
	board Board

	stopOnce sync.Once
	stopCh   chan struct{}
	doneCh   chan struct{}
	kickCh   chan struct{}
}

func NewBattlePoller(battle *BattleService, logger *logging.Logger, interval time.Duration, maxItems int) *BattlePoller {
	if interval <= 0 {
		interval = BattleDefaultPollInterval
	}
	if maxItems <= 0 {
		maxItems = BattleDefaultMaxItems
	}

	return &BattlePoller{
		battle:   battle,
		logger:   logger,
		interval: interval,
		maxItems: maxItems,
		board:    Board{IsLoading: true, HomeWeight: 0.5, AwayWeight: 0.5},
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
		kickCh:   make(chan struct{}, 1),
	}
}

// Start runs one immediate refresh, then refreshes every interval until Stop
// is called or ctx is cancelled.
func (p *BattlePoller) Start(ctx context.Context) {
	go p.run(ctx)
}

func (p *BattlePoller) Stop() {
	p.stopOnce.Do(func() { close(p.stopCh) })
	<-p.doneCh
}

// TriggerRefresh requests an out-of-band refresh, for example right after a
// tap lands. Safe to call from any goroutine; redundant triggers collapse.
func (p *BattlePoller) TriggerRefresh() {
	select {
	case p.kickCh <- struct{}{}:
	default:
	}
}

// Board returns a copy of the latest board. After a failed refresh the
// previous data stays visible with LastError set, so readers never regress
// to an empty board.
func (p *BattlePoller) Board() Board {
	p.mu.Lock()
	defer p.mu.Unlock()

	board := p.board
	board.TopPostsHome = append([]post.Post(nil), p.board.TopPostsHome...)
	board.TopPostsAway = append([]post.Post(nil), p.board.TopPostsAway...)

	return board
}

func (p *BattlePoller) run(ctx context.Context) {
	defer close(p.doneCh)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.refresh(ctx)
	p.drainKick()
	for {
		select {
		case <-ctx.Done():
			return
		case <-p.stopCh:
			return
		case <-ticker.C:
			p.refresh(ctx)
		case <-p.kickCh:
			p.refresh(ctx)
		}
		p.drainKick()
	}
}

// drainKick discards a trigger that landed while the last pass was running.
// Such a trigger is already satisfied by that pass, so it must not start an
// immediate second one.
func (p *BattlePoller) drainKick() {
	select {
	case <-p.kickCh:
	default:
	}
}

// refresh runs one aggregation pass. Triggers that arrive while a pass is
// running are dropped, not queued; the next timer tick picks up anything
// they would have seen. Board readers are never blocked and keep getting
// the previous snapshot until the new one is swapped in whole.
func (p *BattlePoller) refresh(ctx context.Context) {
	p.mu.Lock()
	if p.state == pollerRefreshing {
		p.mu.Unlock()
		return
	}
	p.state = pollerRefreshing
	p.mu.Unlock()

	snapshot, err := p.battle.ComputeSnapshot(ctx, p.maxItems)

	p.mu.Lock()
	if err != nil {
		p.board.LastError = err.Error()
		p.board.IsLoading = false
		p.logger.ErrorContext(ctx, "battle board refresh failed", "error", err.Error())
	} else {
		p.board = boardFromSnapshot(snapshot)
	}
	p.state = pollerIdle
	p.mu.Unlock()
}

func boardFromSnapshot(snapshot Snapshot) Board {
	home := snapshot.TotalLikes[SideHome]
	away := snapshot.TotalLikes[SideAway]
	denominator := home + away
	if denominator < 1 {
		denominator = 1
	}
	homeWeight := float64(home) / float64(denominator)

	return Board{
		HomeTotal:    home,
		AwayTotal:    away,
		HomeWeight:   homeWeight,
		AwayWeight:   1 - homeWeight,
		TopPostsHome: snapshot.TopPosts[SideHome],
		TopPostsAway: snapshot.TopPosts[SideAway],
		IsLoading:    false,
		ComputedAt:   snapshot.ComputedAt,
	}
}
