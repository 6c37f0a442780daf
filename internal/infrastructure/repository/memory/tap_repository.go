package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/kapofest/cheerboard/internal/domain/tap"
	"github.com/kapofest/cheerboard/internal/platform/id"
)

type tapKey struct {
	matchID string
	teamID  string
	userID  string
}

// TapRepository keeps one counter row per (match, team, user) triple. The
// whole Increment runs under the write lock, so concurrent increments on the
// same key compose instead of overwriting each other.
type TapRepository struct {
	mu      sync.Mutex
	records map[tapKey]tap.Record
	idGen   id.Generator
	now     func() time.Time
}

func NewTapRepository() *TapRepository {
	return &TapRepository{
		records: make(map[tapKey]tap.Record),
		idGen:   id.NewRandomGenerator(),
		now:     time.Now,
	}
}

func (r *TapRepository) Increment(_ context.Context, matchID, teamID, userID string, count int64) (tap.Record, error) {
	if count <= 0 {
		return tap.Record{}, fmt.Errorf("increment count must be positive, got %d", count)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := tapKey{matchID: matchID, teamID: teamID, userID: userID}
	record, ok := r.records[key]
	if !ok {
		newID, err := r.idGen.NewID()
		if err != nil {
			return tap.Record{}, fmt.Errorf("generate tap record id: %w", err)
		}
		record = tap.Record{
			ID:      newID,
			MatchID: matchID,
			TeamID:  teamID,
			UserID:  userID,
		}
	}
	record.Count += count
	record.UpdatedAt = r.now()
	r.records[key] = record

	return record, nil
}

func (r *TapRepository) TotalsByTeam(_ context.Context, matchID string, teamIDs []string) (map[string]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	totals := make(map[string]int64, len(teamIDs))
	for _, teamID := range teamIDs {
		totals[teamID] = 0
	}
	for key, record := range r.records {
		if key.matchID != matchID {
			continue
		}
		if _, wanted := totals[key.teamID]; !wanted {
			continue
		}
		totals[key.teamID] += record.Count
	}

	return totals, nil
}

func (r *TapRepository) ListByMatch(_ context.Context, matchID string) ([]tap.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]tap.Record, 0)
	for key, record := range r.records {
		if key.matchID == matchID {
			out = append(out, record)
		}
	}

	return out, nil
}
