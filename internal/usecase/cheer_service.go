package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/kapofest/cheerboard/internal/domain/match"
	"github.com/kapofest/cheerboard/internal/domain/tap"
	"github.com/kapofest/cheerboard/internal/domain/team"
	"github.com/kapofest/cheerboard/internal/platform/logging"
)

const (
	// TapMinCount and TapMaxCount bound a single tap request; clients batch
	// rapid taps into one call, so counts above 1 are normal.
	TapMinCount = 1
	TapMaxCount = 50
)

type ApplyTapInput struct {
	MatchID string
	TeamID  string
	UserID  string
	Count   int64
}

type ApplyTapResult struct {
	Tap       tap.Record
	HomeTotal int64
	AwayTotal int64
}

type MatchWithTotals struct {
	Match     match.Match
	HomeTeam  team.Team
	AwayTeam  team.Team
	HomeTotal int64
	AwayTotal int64
}

// CheerService owns tap ingestion and tap aggregation for cheer matches.
// Totals are always re-aggregated from the counter store; nothing here is
// cached between calls.
type CheerService struct {
	matchRepo match.Repository
	teamRepo  team.Repository
	tapRepo   tap.Repository
	logger    *logging.Logger
}

func NewCheerService(
	matchRepo match.Repository,
	teamRepo team.Repository,
	tapRepo tap.Repository,
	logger *logging.Logger,
) *CheerService {
	if logger == nil {
		logger = logging.Default()
	}

	return &CheerService{
		matchRepo: matchRepo,
		teamRepo:  teamRepo,
		tapRepo:   tapRepo,
		logger:    logger,
	}
}

// ApplyTap validates and applies one tap event. The increment is a single
// atomic upsert in the repository; validation failures never touch the store.
// Totals are re-read after the increment commits, so the result always
// includes the caller's own contribution.
func (s *CheerService) ApplyTap(ctx context.Context, in ApplyTapInput) (ApplyTapResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CheerService.ApplyTap")
	defer span.End()

	if in.Count < TapMinCount || in.Count > TapMaxCount {
		return ApplyTapResult{}, fmt.Errorf("%w: count must be between %d and %d, got %d",
			ErrInvalidInput, TapMinCount, TapMaxCount, in.Count)
	}
	matchID := strings.TrimSpace(in.MatchID)
	if matchID == "" {
		return ApplyTapResult{}, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}
	teamID := strings.TrimSpace(in.TeamID)
	if teamID == "" {
		return ApplyTapResult{}, fmt.Errorf("%w: team id is required", ErrInvalidInput)
	}
	userID := strings.TrimSpace(in.UserID)
	if userID == "" {
		return ApplyTapResult{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	m, exists, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return ApplyTapResult{}, fmt.Errorf("get match: %w", err)
	}
	if !exists {
		return ApplyTapResult{}, fmt.Errorf("%w: match=%s", ErrNotFound, matchID)
	}
	if !m.IsActive {
		return ApplyTapResult{}, fmt.Errorf("%w: match=%s", ErrMatchInactive, matchID)
	}
	if !m.HasTeam(teamID) {
		return ApplyTapResult{}, fmt.Errorf("%w: team=%s match=%s", ErrInvalidTeam, teamID, matchID)
	}

	record, err := s.tapRepo.Increment(ctx, matchID, teamID, userID, in.Count)
	if err != nil {
		return ApplyTapResult{}, fmt.Errorf("increment tap counter: %w", err)
	}

	homeTotal, awayTotal, err := s.totals(ctx, m)
	if err != nil {
		return ApplyTapResult{}, err
	}

	s.logger.DebugContext(ctx, "tap applied",
		"match_id", matchID,
		"team_id", teamID,
		"count", in.Count,
		"user_total", record.Count,
	)

	return ApplyTapResult{
		Tap:       record,
		HomeTotal: homeTotal,
		AwayTotal: awayTotal,
	}, nil
}

// ActiveMatchWithTotals resolves the active match and re-aggregates its
// per-team totals from the counter store.
func (s *CheerService) ActiveMatchWithTotals(ctx context.Context) (MatchWithTotals, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CheerService.ActiveMatchWithTotals")
	defer span.End()

	m, exists, err := s.matchRepo.Active(ctx)
	if err != nil {
		return MatchWithTotals{}, fmt.Errorf("get active match: %w", err)
	}
	if !exists {
		return MatchWithTotals{}, fmt.Errorf("%w: no active match", ErrNotFound)
	}

	return s.matchWithTotals(ctx, m)
}

// MatchWithTotals aggregates totals for a specific match, active or not.
func (s *CheerService) MatchWithTotals(ctx context.Context, matchID string) (MatchWithTotals, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CheerService.MatchWithTotals")
	defer span.End()

	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return MatchWithTotals{}, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}

	m, exists, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return MatchWithTotals{}, fmt.Errorf("get match: %w", err)
	}
	if !exists {
		return MatchWithTotals{}, fmt.Errorf("%w: match=%s", ErrNotFound, matchID)
	}

	return s.matchWithTotals(ctx, m)
}

func (s *CheerService) matchWithTotals(ctx context.Context, m match.Match) (MatchWithTotals, error) {
	homeTotal, awayTotal, err := s.totals(ctx, m)
	if err != nil {
		return MatchWithTotals{}, err
	}

	teams, err := s.teamRepo.ListByIDs(ctx, []string{m.HomeTeamID, m.AwayTeamID})
	if err != nil {
		return MatchWithTotals{}, fmt.Errorf("list match teams: %w", err)
	}

	out := MatchWithTotals{
		Match:     m,
		HomeTotal: homeTotal,
		AwayTotal: awayTotal,
	}
	for _, t := range teams {
		switch t.ID {
		case m.HomeTeamID:
			out.HomeTeam = t
		case m.AwayTeamID:
			out.AwayTeam = t
		}
	}

	return out, nil
}

func (s *CheerService) totals(ctx context.Context, m match.Match) (int64, int64, error) {
	totals, err := s.tapRepo.TotalsByTeam(ctx, m.ID, []string{m.HomeTeamID, m.AwayTeamID})
	if err != nil {
		return 0, 0, fmt.Errorf("aggregate tap totals: %w", err)
	}

	return totals[m.HomeTeamID], totals[m.AwayTeamID], nil
}
