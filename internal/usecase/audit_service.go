package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/kapofest/cheerboard/internal/domain/match"
	"github.com/kapofest/cheerboard/internal/domain/tap"
	"github.com/kapofest/cheerboard/internal/platform/logging"
	"github.com/panjf2000/ants/v2"
)

type TapAuditInput struct {
	// MatchID narrows the audit to one match; empty audits every match.
	MatchID    string
	MaxWorkers int
}

type TapAuditResult struct {
	MatchCount    int                  `json:"match_count"`
	CheckedCount  int                  `json:"checked_count"`
	MismatchCount int                  `json:"mismatch_count"`
	FailedCount   int                  `json:"failed_count"`
	WorkerCount   int                  `json:"worker_count"`
	Matches       []TapAuditMatchEntry `json:"matches"`
}

type TapAuditMatchEntry struct {
	MatchID    string           `json:"match_id"`
	Status     string           `json:"status"`
	Records    int              `json:"records"`
	Mismatches []TapAuditDrift  `json:"mismatches,omitempty"`
	Totals     map[string]int64 `json:"totals,omitempty"`
	DurationMs int64            `json:"duration_ms"`
	Message    string           `json:"message,omitempty"`
}

// TapAuditDrift reports a team whose grouped total disagrees with the sum of
// its raw records.
type TapAuditDrift struct {
	TeamID   string `json:"team_id"`
	Grouped  int64  `json:"grouped"`
	Resummed int64  `json:"resummed"`
}

const (
	auditStatusOK       = "ok"
	auditStatusMismatch = "mismatch"
	auditStatusFailed   = "failed"

	auditDefaultWorkers = 4
)

// TapAuditService cross-checks the store's grouped per-team totals against a
// row-by-row resummation of the same records. The two views read the same
// table, so any disagreement means a broken aggregate query or storage
// corruption, not a race; the audit reports drift and never repairs it.
type TapAuditService struct {
	matchRepo match.Repository
	tapRepo   tap.Repository
	logger    *logging.Logger
}

func NewTapAuditService(matchRepo match.Repository, tapRepo tap.Repository, logger *logging.Logger) *TapAuditService {
	return &TapAuditService{
		matchRepo: matchRepo,
		tapRepo:   tapRepo,
		logger:    logger,
	}
}

func (s *TapAuditService) Run(ctx context.Context, input TapAuditInput) (TapAuditResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TapAuditService.Run")
	defer span.End()

	targets, err := s.resolveTargets(ctx, input.MatchID)
	if err != nil {
		return TapAuditResult{}, err
	}

	workerCount := normalizeAuditWorkerCount(input.MaxWorkers, len(targets))
	result := TapAuditResult{
		MatchCount:  len(targets),
		WorkerCount: workerCount,
		Matches:     make([]TapAuditMatchEntry, 0, len(targets)),
	}
	if len(targets) == 0 {
		return result, nil
	}

	rows := make(chan TapAuditMatchEntry, len(targets))

	var mismatchCount atomic.Int32
	var failedCount atomic.Int32

	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return TapAuditResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var workers sync.WaitGroup
	for _, target := range targets {
		target := target
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			start := time.Now()
			row := s.auditMatch(ctx, target)
			row.DurationMs = time.Since(start).Milliseconds()

			switch row.Status {
			case auditStatusMismatch:
				mismatchCount.Add(1)
			case auditStatusFailed:
				failedCount.Add(1)
			}

			rows <- row
		}); err != nil {
			workers.Done()
			return TapAuditResult{}, fmt.Errorf("submit audit task to worker pool: %w", err)
		}
	}

	workers.Wait()
	close(rows)

	for row := range rows {
		result.Matches = append(result.Matches, row)
	}
	sort.SliceStable(result.Matches, func(i, j int) bool {
		return result.Matches[i].MatchID < result.Matches[j].MatchID
	})

	result.MismatchCount = int(mismatchCount.Load())
	result.FailedCount = int(failedCount.Load())
	result.CheckedCount = len(result.Matches) - result.FailedCount

	if result.MismatchCount > 0 {
		s.logger.WarnContext(ctx, "tap audit found drift",
			"mismatch_count", result.MismatchCount,
			"match_count", result.MatchCount,
		)
	}
	return result, nil
}

func (s *TapAuditService) resolveTargets(ctx context.Context, matchID string) ([]match.Match, error) {
	if matchID != "" {
		found, ok, err := s.matchRepo.GetByID(ctx, matchID)
		if err != nil {
			return nil, fmt.Errorf("load match %s: %w", matchID, err)
		}
		if !ok {
			return nil, fmt.Errorf("%w: match %s", ErrNotFound, matchID)
		}
		return []match.Match{found}, nil
	}

	matches, err := s.matchRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	return matches, nil
}

func (s *TapAuditService) auditMatch(ctx context.Context, target match.Match) TapAuditMatchEntry {
	row := TapAuditMatchEntry{MatchID: target.ID, Status: auditStatusOK}

	teamIDs := []string{target.HomeTeamID, target.AwayTeamID}
	grouped, err := s.tapRepo.TotalsByTeam(ctx, target.ID, teamIDs)
	if err != nil {
		row.Status = auditStatusFailed
		row.Message = err.Error()
		return row
	}

	records, err := s.tapRepo.ListByMatch(ctx, target.ID)
	if err != nil {
		row.Status = auditStatusFailed
		row.Message = err.Error()
		return row
	}
	row.Records = len(records)

	resummed := map[string]int64{target.HomeTeamID: 0, target.AwayTeamID: 0}
	for _, record := range records {
		resummed[record.TeamID] += record.Count
	}

	for _, teamID := range teamIDs {
		if grouped[teamID] != resummed[teamID] {
			row.Mismatches = append(row.Mismatches, TapAuditDrift{
				TeamID:   teamID,
				Grouped:  grouped[teamID],
				Resummed: resummed[teamID],
			})
		}
	}
	if len(row.Mismatches) > 0 {
		row.Status = auditStatusMismatch
	}
	row.Totals = grouped

	return row
}

func normalizeAuditWorkerCount(value int, taskCount int) int {
	if taskCount <= 0 {
		return 1
	}
	if value <= 0 {
		value = auditDefaultWorkers
	}
	if value > taskCount {
		value = taskCount
	}
	return value
}
