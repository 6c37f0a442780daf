package memory

import (
	"context"
	"sync"

	"github.com/kapofest/cheerboard/internal/domain/match"
)

type MatchRepository struct {
	mu      sync.RWMutex
	matches []match.Match
}

func NewMatchRepository(matches []match.Match) *MatchRepository {
	rows := make([]match.Match, len(matches))
	copy(rows, matches)

	return &MatchRepository{matches: rows}
}

// Active returns the first active match in seed order.
func (r *MatchRepository) Active(_ context.Context) (match.Match, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.matches {
		if item.IsActive {
			return item, true, nil
		}
	}

	return match.Match{}, false, nil
}

func (r *MatchRepository) GetByID(_ context.Context, matchID string) (match.Match, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.matches {
		if item.ID == matchID {
			return item, true, nil
		}
	}

	return match.Match{}, false, nil
}

func (r *MatchRepository) List(_ context.Context) ([]match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]match.Match, 0, len(r.matches))
	out = append(out, r.matches...)

	return out, nil
}

// SetActive flips the active flag of one match, used by tests to simulate a
// match ending mid-flight.
func (r *MatchRepository) SetActive(matchID string, active bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for idx := range r.matches {
		if r.matches[idx].ID == matchID {
			r.matches[idx].IsActive = active
		}
	}
}
